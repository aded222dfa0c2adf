// internal/align/slice.go
package align

import "fmt"

// Slice extracts the part of the alignment that falls inside rng on row.
// A nil record with a nil error means nothing aligned survives the cut.
func (r *Record) Slice(row Row, rng Range) (*Record, error) {
	switch r.Kind {
	case Dense:
		return r.sliceDense(row, rng)
	case Disc:
		var kids []*Record
		for i, c := range r.Children {
			s, err := c.Slice(row, rng)
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			if s != nil {
				kids = append(kids, s)
			}
		}
		if len(kids) == 0 {
			return nil, nil
		}
		out := &Record{IDs: r.IDs, Strands: r.Strands, Kind: Disc, Children: kids}
		out.Bounds = [2]Range{out.Range(Query), out.Range(Subject)}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedSlice, r.Kind)
}

func (r *Record) sliceDense(row Row, rng Range) (*Record, error) {
	if len(r.Segments) == 0 {
		// Bounds only: a straight diagonal is the best we know.
		b := r.Bounds[row].Intersect(rng)
		if b.Empty() {
			return nil, nil
		}
		other := 1 - row
		ob := r.Bounds[other]
		if ob.Len() != r.Bounds[row].Len() {
			return nil, fmt.Errorf("%w: bounds-only dense alignment with rows of length %d and %d",
				ErrUnsupportedSlice, r.Bounds[Query].Len(), r.Bounds[Subject].Len())
		}
		out := &Record{IDs: r.IDs, Strands: r.Strands, Kind: Dense}
		out.Bounds[row] = b
		o1, o2 := alnOffsets(r.Bounds[row], b, r.Strands[row])
		out.Bounds[other] = rowRange(ob.From, ob.Len(), o1, o2, r.Strands[other])
		return out, nil
	}

	trimmed := make([]Segment, len(r.Segments))
	keep := make([]bool, len(r.Segments))
	first, last := -1, -1
	for i, s := range r.Segments {
		if s.Gap(row) {
			continue
		}
		cut := s.On(row).Intersect(rng)
		if cut.Empty() {
			continue
		}
		o1, o2 := alnOffsets(s.On(row), cut, r.Strands[row])
		var t Segment
		t.Len = o2 - o1
		for rr := Query; rr <= Subject; rr++ {
			if s.Gap(rr) {
				t.Starts[rr] = -1
				continue
			}
			t.Starts[rr] = rowRange(s.Starts[rr], s.Len, o1, o2, r.Strands[rr]).From
		}
		trimmed[i], keep[i] = t, true
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return nil, nil
	}
	out := &Record{IDs: r.IDs, Strands: r.Strands, Kind: Dense}
	aligned := false
	for i := first; i <= last; i++ {
		switch {
		case keep[i]:
			out.Segments = append(out.Segments, trimmed[i])
			aligned = aligned || trimmed[i].Aligned()
		case r.Segments[i].Gap(row):
			out.Segments = append(out.Segments, r.Segments[i])
		}
	}
	if !aligned {
		return nil, nil
	}
	out.Bounds = [2]Range{out.Range(Query), out.Range(Subject)}
	return out, nil
}

// alnOffsets maps a sub-range cut of a segment range seg on a row with the
// given strand to alignment offsets [o1, o2) within the segment.
func alnOffsets(seg, cut Range, strand Strand) (int, int) {
	if strand == Minus {
		return seg.To - cut.To, seg.To - cut.From
	}
	return cut.From - seg.From, cut.To - seg.From
}

// rowRange is the inverse of alnOffsets for a segment starting at start.
func rowRange(start, length, o1, o2 int, strand Strand) Range {
	if strand == Minus {
		return Range{From: start + length - o2, To: start + length - o1}
	}
	return Range{From: start + o1, To: start + o2}
}
