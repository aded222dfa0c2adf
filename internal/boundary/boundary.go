// internal/boundary/boundary.go
// Package boundary collects span boundaries seen across both sources and
// re-slices alignments at them, so partially overlapping alignments are
// compared on a common coordinate partition.
package boundary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"alndiff/internal/align"
	"alndiff/internal/span"
)

// Set holds, per sequence id, every span start and end seen.
type Set struct {
	pos    map[string][]int
	sealed bool
}

func NewSet() *Set { return &Set{pos: make(map[string][]int)} }

func (s *Set) Add(id string, ps ...int) {
	s.pos[id] = append(s.pos[id], ps...)
	s.sealed = false
}

// AddAlignment records the start and end of every populated span row.
func (s *Set) AddAlignment(a *span.Alignment) {
	for _, e := range a.Spans {
		if !e.Subject.Empty() {
			s.Add(a.SubjectID, e.Subject.From, e.Subject.To)
		}
		if !e.Query.Empty() {
			s.Add(a.QueryID, e.Query.From, e.Query.To)
		}
	}
}

func (s *Set) Merge(o *Set) {
	for id, ps := range o.pos {
		s.Add(id, ps...)
	}
}

func (s *Set) seal() {
	if s.sealed {
		return
	}
	for id, ps := range s.pos {
		sort.Ints(ps)
		out := ps[:0]
		for i, p := range ps {
			if i == 0 || p != out[len(out)-1] {
				out = append(out, p)
			}
		}
		s.pos[id] = out
	}
	s.sealed = true
}

// Inside returns the boundaries on id strictly inside r, ascending.
func (s *Set) Inside(id string, r align.Range) []int {
	s.seal()
	ps := s.pos[id]
	i := sort.SearchInts(ps, r.From+1)
	j := sort.SearchInts(ps, r.To)
	if i >= j {
		return nil
	}
	return ps[i:j]
}

// Len is the number of distinct boundaries held.
func (s *Set) Len() int {
	s.seal()
	n := 0
	for _, ps := range s.pos {
		n += len(ps)
	}
	return n
}

// Reader is the part of a source the collect pass needs.
type Reader interface {
	Next(ctx context.Context) (*align.Record, error)
}

// Collect streams every record of r once, without grouping, and records the
// boundaries of its extracted spans. Records that fail extraction add nothing.
func Collect(ctx context.Context, r Reader, set span.Set, opt span.Options) (*Set, error) {
	out := NewSet()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		a, _ := span.Extract(rec, set, opt)
		out.AddAlignment(a)
	}
}

// Split slices a at every boundary strictly inside its query range, then its
// subject range, and re-extracts each piece as a slice of a. Only the scores
// named in distributive are carried over to the pieces. When a cannot be
// sliced the error is returned together with an empty-spans stand-in.
func Split(a *span.Alignment, bounds *Set, opt span.Options, distributive []string) ([]*span.Alignment, error) {
	if a.Record == nil || a.Err != nil {
		return []*span.Alignment{a}, nil
	}
	pieces := []*align.Record{a.Record}
	for row := align.Query; row <= align.Subject; row++ {
		var next []*align.Record
		for _, p := range pieces {
			r := p.Range(row)
			cuts := bounds.Inside(p.SeqID(row), r)
			if len(cuts) == 0 {
				next = append(next, p)
				continue
			}
			edges := make([]int, 0, len(cuts)+2)
			edges = append(edges, r.From)
			edges = append(edges, cuts...)
			edges = append(edges, r.To)
			for k := 0; k+1 < len(edges); k++ {
				sub, err := p.Slice(row, align.Range{From: edges[k], To: edges[k+1]})
				if err != nil {
					err = fmt.Errorf("slice %s at %d: %w", row, edges[k], err)
					return []*span.Alignment{a.Failed(opt.Mode, err)}, err
				}
				if sub != nil {
					next = append(next, sub)
				}
			}
		}
		pieces = next
	}
	if len(pieces) == 1 && pieces[0] == a.Record {
		return []*span.Alignment{a}, nil
	}

	opt.Slice, opt.Parent = true, a
	out := make([]*span.Alignment, 0, len(pieces))
	for _, p := range pieces {
		p.Scores = nil
		for _, name := range distributive {
			if s, ok := a.Record.Lookup(name); ok {
				p.SetScore(s)
			}
		}
		child, _ := span.Extract(p, a.Set, opt)
		// Slices stay in their parent's group.
		child.Disambiguating = append([]float64(nil), a.Disambiguating...)
		out = append(out, child)
	}
	return out, nil
}
