// internal/span/extract.go
package span

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"alndiff/internal/align"
)

var (
	ErrUnsupportedTopology = errors.New("alignment topology not supported by mode")
	ErrNonIntervalChild    = errors.New("non-interval sub-alignment")
	ErrNoDetail            = errors.New("no segment detail")
	ErrTracebackLength     = errors.New("traceback length does not match alignment")
	ErrNoTraceback         = errors.New("no traceback available")
	ErrOverlappingSpans    = errors.New("spans overlap")
)

// ExtractError wraps a per-alignment extraction failure.
type ExtractError struct {
	QueryID   string
	SubjectID string
	Mode      Mode
	Err       error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s/%s (%s): %v", e.QueryID, e.SubjectID, e.Mode, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// Options control extraction.
type Options struct {
	Mode Mode
	Rows Rows
	// Disambiguating and Quality name the scores copied into the tuples.
	Disambiguating []string
	Quality        []string
	// Slice marks a record produced by boundary splitting. Mismatches are
	// taken from Parent instead of a traceback.
	Slice  bool
	Parent *Alignment
}

// Extract normalizes rec. On failure it still returns an alignment with zero
// spans (and Err set) so callers can keep going.
func Extract(rec *align.Record, set Set, opt Options) (*Alignment, error) {
	a := &Alignment{
		Set:           set,
		QueryID:       rec.SeqID(align.Query),
		SubjectID:     rec.SeqID(align.Subject),
		QueryStrand:   rec.Strand(align.Query),
		SubjectStrand: rec.Strand(align.Subject),
		QueryRange:    rec.Range(align.Query),
		SubjectRange:  rec.Range(align.Subject),
		GroupID:       -1,
		Record:        rec,
	}
	fillScores(a, rec, opt)

	fail := func(err error) (*Alignment, error) {
		a.Spans, a.Total = nil, 0
		a.QueryMismatches, a.SubjectMismatches = nil, nil
		a.Err = &ExtractError{QueryID: a.QueryID, SubjectID: a.SubjectID, Mode: opt.Mode, Err: err}
		return a, a.Err
	}

	if err := rec.Validate(); err != nil {
		return fail(err)
	}
	var (
		entries []Entry
		err     error
	)
	switch opt.Mode {
	case ModeSpan:
		entries = []Entry{{Subject: a.SubjectRange, Query: a.QueryRange}}
	case ModeExon:
		entries, err = exonEntries(rec)
	case ModeInterval, ModeFull:
		entries, err = intervalEntries(rec)
	case ModeIntron:
		entries, err = intronEntries(rec)
	default:
		err = fmt.Errorf("unknown mode %d", opt.Mode)
	}
	if err != nil {
		return fail(err)
	}
	if a.Spans, err = normalize(entries, opt.Rows); err != nil {
		return fail(err)
	}
	for _, e := range a.Spans {
		a.Total += e.Len()
	}

	if opt.Mode == ModeFull {
		var qm, sm []int
		if opt.Slice {
			if opt.Parent != nil {
				qm = within(opt.Parent.QueryMismatches, a.QueryRange)
				sm = within(opt.Parent.SubjectMismatches, a.SubjectRange)
			}
		} else if qm, sm, err = mismatches(rec); err != nil {
			return fail(err)
		}
		if opt.Rows.Has(align.Query) {
			a.QueryMismatches = qm
		}
		if opt.Rows.Has(align.Subject) {
			a.SubjectMismatches = sm
		}
	}
	return a, nil
}

func fillScores(a *Alignment, rec *align.Record, opt Options) {
	a.IntScores = make(map[string]int64)
	a.RealScores = make(map[string]float64)
	for _, s := range rec.Scores {
		if s.IsReal {
			a.RealScores[s.Name] = s.Real
		} else {
			a.IntScores[s.Name] = s.Int
		}
	}
	for _, n := range opt.Disambiguating {
		s, _ := rec.Lookup(n)
		a.Disambiguating = append(a.Disambiguating, s.Value())
	}
	// Higher is better; a leading '-' flips that for scores such as
	// e_value. A missing score always ranks last.
	for _, n := range opt.Quality {
		sign := 1.0
		if name, ok := strings.CutPrefix(n, "-"); ok {
			n, sign = name, -1
		}
		if s, ok := rec.Lookup(n); ok {
			a.Quality = append(a.Quality, sign*s.Value())
		} else {
			a.Quality = append(a.Quality, math.Inf(-1))
		}
	}
}

// normalize blanks unselected rows, drops empty entries, sorts, and enforces
// the strictly-increasing, non-overlapping invariant.
func normalize(in []Entry, rows Rows) ([]Entry, error) {
	out := make([]Entry, 0, len(in))
	for _, e := range in {
		if !rows.Has(align.Subject) {
			e.Subject = align.Range{}
		}
		if !rows.Has(align.Query) {
			e.Query = align.Range{}
		}
		if e.Len() == 0 {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	for i := 1; i < len(out); i++ {
		if out[i].Axis().From < out[i-1].Axis().To {
			return nil, fmt.Errorf("%w: %s and %s", ErrOverlappingSpans, out[i-1], out[i])
		}
	}
	return out, nil
}

func exonEntries(rec *align.Record) ([]Entry, error) {
	switch rec.Kind {
	case align.Dense:
		return []Entry{whole(rec)}, nil
	case align.Disc:
		out := make([]Entry, 0, len(rec.Children))
		for i, c := range rec.Children {
			if c.Kind != align.Dense {
				return nil, fmt.Errorf("%w: child %d is %s", ErrUnsupportedTopology, i, c.Kind)
			}
			out = append(out, whole(c))
		}
		return out, nil
	case align.Spliced:
		out := make([]Entry, 0, len(rec.Exons))
		for _, e := range rec.Exons {
			out = append(out, Entry{Subject: e.Genomic, Query: e.Product})
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedTopology, rec.Kind)
}

func whole(rec *align.Record) Entry {
	return Entry{Subject: rec.Range(align.Subject), Query: rec.Range(align.Query)}
}

// intervalEntries is the generic pairwise-range converter: it resolves every
// gap-free aligned interval of any record kind.
func intervalEntries(rec *align.Record) ([]Entry, error) {
	switch rec.Kind {
	case align.Dense:
		if len(rec.Segments) == 0 {
			return nil, ErrNoDetail
		}
		var out []Entry
		for _, s := range rec.Segments {
			if s.Aligned() {
				out = append(out, Entry{Subject: s.On(align.Subject), Query: s.On(align.Query)})
			}
		}
		return out, nil
	case align.Disc:
		var out []Entry
		for i, c := range rec.Children {
			if c.Kind != align.Dense {
				return nil, fmt.Errorf("%w: child %d is %s", ErrNonIntervalChild, i, c.Kind)
			}
			sub, err := intervalEntries(c)
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			out = append(out, sub...)
		}
		return out, nil
	case align.Spliced:
		var out []Entry
		for i, e := range rec.Exons {
			if len(e.Parts) == 0 {
				out = append(out, Entry{Subject: e.Genomic, Query: e.Product})
				continue
			}
			prev := -1
			err := walkExon(e, rec.Strands, func(k align.ChunkKind, q, s align.Range) {
				if k == align.ProductIns || k == align.GenomicIns {
					prev = -1
					return
				}
				if prev >= 0 && touches(out[prev].Subject, s) && touches(out[prev].Query, q) {
					out[prev].Subject = out[prev].Subject.Union(s)
					out[prev].Query = out[prev].Query.Union(q)
					return
				}
				out = append(out, Entry{Subject: s, Query: q})
				prev = len(out) - 1
			})
			if err != nil {
				return nil, fmt.Errorf("exon %d: %w", i, err)
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedTopology, rec.Kind)
}

func touches(a, b align.Range) bool { return a.To == b.From || b.To == a.From }

func intronEntries(rec *align.Record) ([]Entry, error) {
	if rec.Kind != align.Spliced {
		return nil, fmt.Errorf("%w: intron mode needs a spliced alignment, got %s", ErrUnsupportedTopology, rec.Kind)
	}
	var out []Entry
	for i := 1; i < len(rec.Exons); i++ {
		p, n := rec.Exons[i-1], rec.Exons[i]
		out = append(out, Entry{Subject: between(p.Genomic, n.Genomic), Query: between(p.Product, n.Product)})
	}
	return out, nil
}

// between is the gap separating two blocks, whichever comes first on the
// sequence; blocks that touch or overlap give an empty range.
func between(p, n align.Range) align.Range {
	switch {
	case p.To <= n.From:
		return align.Range{From: p.To, To: n.From}
	case n.To <= p.From:
		return align.Range{From: n.To, To: p.From}
	}
	return align.Range{From: n.From, To: n.From}
}

// within returns the positions of ps inside r.
func within(ps []int, r align.Range) []int {
	var out []int
	for _, p := range ps {
		if p >= r.From && p < r.To {
			out = append(out, p)
		}
	}
	return out
}
