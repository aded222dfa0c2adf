// internal/span/span.go
package span

import (
	"fmt"
	"strings"

	"alndiff/internal/align"
)

// Set names the collection an alignment came from.
type Set uint8

const (
	A Set = iota
	B
)

func (s Set) String() string {
	if s == A {
		return "A"
	}
	return "B"
}

// Level is the classification assigned by the group accumulator.
type Level uint8

const (
	NoMatch Level = iota
	Equiv
	Overlap
	OverlapBetter
	OverlapWorse
)

var levelNames = [...]string{"only", "equivalent", "overlap", "overlap-better", "overlap-worse"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", l)
}

// IsOverlap reports any of the overlap levels.
func (l Level) IsOverlap() bool { return l == Overlap || l == OverlapBetter || l == OverlapWorse }

// Mode is the span extraction granularity.
type Mode uint8

const (
	ModeSpan Mode = iota
	ModeExon
	ModeInterval
	ModeIntron
	ModeFull
)

var modeNames = [...]string{"span", "exon", "interval", "intron", "full"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", m)
}

func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(n, s) {
			return Mode(i), nil
		}
	}
	return ModeSpan, fmt.Errorf("invalid mode %q (want span|exon|interval|intron|full)", s)
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Rows selects which alignment rows participate.
type Rows uint8

const (
	RowsBoth Rows = iota
	RowsQuery
	RowsSubject
)

var rowsNames = [...]string{"both", "query", "subject"}

func (r Rows) String() string {
	if int(r) < len(rowsNames) {
		return rowsNames[r]
	}
	return fmt.Sprintf("rows(%d)", r)
}

func ParseRows(s string) (Rows, error) {
	for i, n := range rowsNames {
		if strings.EqualFold(n, s) {
			return Rows(i), nil
		}
	}
	return RowsBoth, fmt.Errorf("invalid rows %q (want both|query|subject)", s)
}

func (r Rows) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Rows) UnmarshalText(b []byte) error {
	v, err := ParseRows(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Has reports whether row is selected.
func (r Rows) Has(row align.Row) bool {
	switch r {
	case RowsQuery:
		return row == align.Query
	case RowsSubject:
		return row == align.Subject
	}
	return true
}

// Entry maps a subject sub-range to a query sub-range. An unselected row is
// left empty.
type Entry struct {
	Subject align.Range
	Query   align.Range
}

func (e Entry) Less(o Entry) bool {
	if e.Subject != o.Subject {
		return e.Subject.Less(o.Subject)
	}
	return e.Query.Less(o.Query)
}

// Axis is the row that orders entries: subject unless it is unselected.
func (e Entry) Axis() align.Range {
	if e.Subject.Empty() {
		return e.Query
	}
	return e.Subject
}

// Len is the number of aligned bases the entry contributes.
func (e Entry) Len() int { return e.Axis().Len() }

// End is the exclusive end of the entry on its ordering row.
func (e Entry) End() int { return e.Axis().To }

func (e Entry) String() string { return e.Subject.String() + "->" + e.Query.String() }

// Key groups mutually comparable alignments.
type Key struct {
	QueryID   string
	SubjectID string
	Primary   float64
}

// Compare is strict tuple order on (query id, subject id, primary score).
func (k Key) Compare(o Key) int {
	if c := strings.Compare(k.QueryID, o.QueryID); c != 0 {
		return c
	}
	if c := strings.Compare(k.SubjectID, o.SubjectID); c != 0 {
		return c
	}
	switch {
	case k.Primary < o.Primary:
		return -1
	case k.Primary > o.Primary:
		return 1
	}
	return 0
}

func (k Key) String() string { return fmt.Sprintf("%s/%s/%g", k.QueryID, k.SubjectID, k.Primary) }

// KeyOf computes the grouping key of a raw record; primary may be empty.
func KeyOf(rec *align.Record, primary string) Key {
	k := Key{QueryID: rec.SeqID(align.Query), SubjectID: rec.SeqID(align.Subject)}
	if primary != "" {
		s, _ := rec.Lookup(primary)
		k.Primary = s.Value()
	}
	return k
}

// Alignment is a normalized alignment.
type Alignment struct {
	Set           Set
	QueryID       string
	SubjectID     string
	QueryStrand   align.Strand
	SubjectStrand align.Strand
	QueryRange    align.Range
	SubjectRange  align.Range

	Spans             []Entry
	QueryMismatches   []int
	SubjectMismatches []int
	Total             int

	Disambiguating []float64
	Quality        []float64
	IntScores      map[string]int64
	RealScores     map[string]float64

	Level    Level
	Partners []int
	GroupID  int

	// Record is the raw alignment, retained for boundary splitting.
	Record *align.Record
	// Err is set when extraction failed and Spans is empty.
	Err error
}

func (a *Alignment) Key() Key {
	k := Key{QueryID: a.QueryID, SubjectID: a.SubjectID}
	if len(a.Disambiguating) > 0 {
		k.Primary = a.Disambiguating[0]
	}
	return k
}

// Range returns the alignment extent on row.
func (a *Alignment) Range(row align.Row) align.Range {
	if row == align.Query {
		return a.QueryRange
	}
	return a.SubjectRange
}

// Bases is the number of aligned bases attributed to the alignment.
func (a *Alignment) Bases() int { return a.Total }

// Failed returns a copy of a with no spans and err recorded, for alignments
// that could not be processed further.
func (a *Alignment) Failed(mode Mode, err error) *Alignment {
	c := *a
	c.Spans, c.Total = nil, 0
	c.QueryMismatches, c.SubjectMismatches = nil, nil
	c.Err = &ExtractError{QueryID: a.QueryID, SubjectID: a.SubjectID, Mode: mode, Err: err}
	return &c
}
