// internal/align/range.go
package align

import "fmt"

// Range is a half-open interval [From, To) of sequence coordinates.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (r Range) Len() int {
	if r.To <= r.From {
		return 0
	}
	return r.To - r.From
}

func (r Range) Empty() bool { return r.To <= r.From }

func (r Range) Valid() bool { return r.From >= 0 && r.From <= r.To }

// Intersect returns the overlap of r and o; the result is Empty when they are disjoint.
func (r Range) Intersect(o Range) Range {
	from, to := r.From, r.To
	if o.From > from {
		from = o.From
	}
	if o.To < to {
		to = o.To
	}
	if to < from {
		to = from
	}
	return Range{From: from, To: to}
}

func (r Range) Intersects(o Range) bool {
	return !r.Empty() && !o.Empty() && r.From < o.To && o.From < r.To
}

// Contains reports whether pos lies strictly inside r, i.e. a cut at pos
// would leave both halves non-empty.
func (r Range) Contains(pos int) bool { return r.From < pos && pos < r.To }

// Less orders by From, then To.
func (r Range) Less(o Range) bool {
	if r.From != o.From {
		return r.From < o.From
	}
	return r.To < o.To
}

// Compare returns -1, 0 or +1 following Less.
func (r Range) Compare(o Range) int {
	switch {
	case r == o:
		return 0
	case r.Less(o):
		return -1
	default:
		return 1
	}
}

// Union returns the smallest range covering both; an empty operand is ignored.
func (r Range) Union(o Range) Range {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	if o.From < r.From {
		r.From = o.From
	}
	if o.To > r.To {
		r.To = o.To
	}
	return r
}

func (r Range) String() string { return fmt.Sprintf("[%d,%d)", r.From, r.To) }
