// internal/align/record.go
package align

import (
	"errors"
	"fmt"
	"strings"
)

// Row selects one side of a pairwise alignment.
type Row int

const (
	Query   Row = 0
	Subject Row = 1
)

func (r Row) String() string {
	if r == Query {
		return "query"
	}
	return "subject"
}

// Strand of a row relative to its sequence.
type Strand int8

const (
	Unknown Strand = iota
	Plus
	Minus
)

func (s Strand) String() string {
	switch s {
	case Plus:
		return "+"
	case Minus:
		return "-"
	default:
		return "."
	}
}

// ParseStrand accepts "+", "-", "." and the words plus/minus.
func ParseStrand(s string) (Strand, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "plus":
		return Plus, nil
	case "-", "minus":
		return Minus, nil
	case "", ".", "unknown":
		return Unknown, nil
	}
	return Unknown, fmt.Errorf("invalid strand %q", s)
}

// Kind is the segment topology of a record.
type Kind uint8

const (
	Dense   Kind = iota // one block of segments, gaps marked per row
	Disc                // discontinuous: a list of child records
	Spliced             // exons of a product against a genomic sequence
)

func (k Kind) String() string {
	switch k {
	case Dense:
		return "dense"
	case Disc:
		return "disc"
	case Spliced:
		return "spliced"
	}
	return fmt.Sprintf("kind(%d)", k)
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "", "dense", "denseg":
		return Dense, nil
	case "disc":
		return Disc, nil
	case "spliced":
		return Spliced, nil
	}
	return Dense, fmt.Errorf("invalid alignment kind %q", s)
}

// Segment is one column block of a dense alignment. A start of -1 marks a gap
// on that row. Starts are the lowest coordinate covered on each row whatever
// the strand; segments are kept in alignment order.
type Segment struct {
	Starts [2]int
	Len    int
}

func (s Segment) Gap(row Row) bool { return s.Starts[row] < 0 }

func (s Segment) Aligned() bool { return !s.Gap(Query) && !s.Gap(Subject) }

func (s Segment) On(row Row) Range {
	if s.Gap(row) {
		return Range{}
	}
	return Range{From: s.Starts[row], To: s.Starts[row] + s.Len}
}

// ChunkKind labels a run inside a spliced exon.
type ChunkKind uint8

const (
	Match ChunkKind = iota
	Mismatch
	ProductIns
	GenomicIns
	Diag
)

var chunkNames = [...]string{"match", "mismatch", "product-ins", "genomic-ins", "diag"}

func (c ChunkKind) String() string {
	if int(c) < len(chunkNames) {
		return chunkNames[c]
	}
	return fmt.Sprintf("chunk(%d)", c)
}

func ParseChunkKind(s string) (ChunkKind, error) {
	for i, n := range chunkNames {
		if n == s {
			return ChunkKind(i), nil
		}
	}
	return Match, fmt.Errorf("invalid exon part %q", s)
}

type Chunk struct {
	Kind ChunkKind
	Len  int
}

// Exon is one aligned block of a spliced alignment. Product is the query row,
// Genomic the subject row.
type Exon struct {
	Product Range
	Genomic Range
	Parts   []Chunk
}

// Score is a named integer or real alignment score.
type Score struct {
	Name   string
	Int    int64
	Real   float64
	IsReal bool
}

func (s Score) Value() float64 {
	if s.IsReal {
		return s.Real
	}
	return float64(s.Int)
}

func IntScore(name string, v int64) Score    { return Score{Name: name, Int: v} }
func RealScore(name string, v float64) Score { return Score{Name: name, Real: v, IsReal: true} }

var (
	ErrScoreMissing     = errors.New("required score missing")
	ErrUnsupportedSlice = errors.New("slicing not supported for this alignment kind")
	ErrMalformed        = errors.New("malformed alignment")
)

// Record is a raw pairwise alignment as read from a source.
type Record struct {
	IDs     [2]string
	Strands [2]Strand
	// Bounds are the declared extents; used when no segment detail is present.
	Bounds   [2]Range
	Kind     Kind
	Segments []Segment
	Children []*Record
	Exons    []Exon
	Btop     string
	Scores   []Score
}

func (r *Record) SeqID(row Row) string      { return r.IDs[row] }
func (r *Record) Strand(row Row) Strand     { return r.Strands[row] }
func (r *Record) HasDetail() bool           { return len(r.Segments)+len(r.Children)+len(r.Exons) > 0 }
func (r *Record) Traceback() (string, bool) { return r.Btop, r.Btop != "" }

// Range is the total extent covered on row.
func (r *Record) Range(row Row) Range {
	var out Range
	switch r.Kind {
	case Dense:
		for _, s := range r.Segments {
			out = out.Union(s.On(row))
		}
	case Disc:
		for _, c := range r.Children {
			out = out.Union(c.Range(row))
		}
	case Spliced:
		for _, e := range r.Exons {
			if row == Query {
				out = out.Union(e.Product)
			} else {
				out = out.Union(e.Genomic)
			}
		}
	}
	if out.Empty() {
		return r.Bounds[row]
	}
	return out
}

// Lookup finds a score by name.
func (r *Record) Lookup(name string) (Score, bool) {
	for _, s := range r.Scores {
		if s.Name == name {
			return s, true
		}
	}
	return Score{Name: name}, false
}

// Score looks up name; a missing score is an error only when required.
func (r *Record) Score(name string, required bool) (Score, error) {
	s, ok := r.Lookup(name)
	if !ok && required {
		return s, fmt.Errorf("%w: %s", ErrScoreMissing, name)
	}
	return s, nil
}

// SetScore replaces a score with the same name or appends it.
func (r *Record) SetScore(s Score) {
	for i := range r.Scores {
		if r.Scores[i].Name == s.Name {
			r.Scores[i] = s
			return
		}
	}
	r.Scores = append(r.Scores, s)
}

// Validate checks structural sanity of the segment detail.
func (r *Record) Validate() error {
	if r.IDs[Query] == "" || r.IDs[Subject] == "" {
		return fmt.Errorf("%w: empty sequence id", ErrMalformed)
	}
	for row := Query; row <= Subject; row++ {
		if !r.Bounds[row].Valid() {
			return fmt.Errorf("%w: %s bounds %s", ErrMalformed, row, r.Bounds[row])
		}
	}
	switch r.Kind {
	case Dense:
		for i, s := range r.Segments {
			if s.Len <= 0 {
				return fmt.Errorf("%w: segment %d has length %d", ErrMalformed, i, s.Len)
			}
			if s.Gap(Query) && s.Gap(Subject) {
				return fmt.Errorf("%w: segment %d is a gap on both rows", ErrMalformed, i)
			}
		}
	case Disc:
		for i, c := range r.Children {
			if c == nil {
				return fmt.Errorf("%w: nil child %d", ErrMalformed, i)
			}
			if err := c.Validate(); err != nil {
				return fmt.Errorf("child %d: %w", i, err)
			}
		}
	case Spliced:
		for i, e := range r.Exons {
			if !e.Product.Valid() || !e.Genomic.Valid() {
				return fmt.Errorf("%w: exon %d has invalid ranges", ErrMalformed, i)
			}
		}
	}
	return nil
}

// Clone deep-copies the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Segments = append([]Segment(nil), r.Segments...)
	c.Scores = append([]Score(nil), r.Scores...)
	if r.Children != nil {
		c.Children = make([]*Record, len(r.Children))
		for i, ch := range r.Children {
			c.Children[i] = ch.Clone()
		}
	}
	if r.Exons != nil {
		c.Exons = make([]Exon, len(r.Exons))
		for i, e := range r.Exons {
			e.Parts = append([]Chunk(nil), e.Parts...)
			c.Exons[i] = e
		}
	}
	return &c
}
