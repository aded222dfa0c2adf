// Package compare scores one normalized alignment against another.
package compare

import (
	"cmp"
	"math"
	"slices"

	"alndiff/internal/align"
	"alndiff/internal/span"
)

// Metric is the outcome of comparing two alignments. Base counts use the
// same length basis as span.Entry.Len.
type Metric struct {
	Common       int     `json:"common"`
	Overlap      int     `json:"overlap"`
	UniqueFirst  int     `json:"unique_first"`
	UniqueSecond int     `json:"unique_second"`
	Equivalent   bool    `json:"equivalent"`
	Score        float64 `json:"score"`
}

// Shared is the number of bases the two alignments have in common, exactly
// or by partial overlap.
func (m Metric) Shared() int { return m.Common + m.Overlap }

// Add accumulates base counts; Equivalent and Score are left alone.
func (m *Metric) Add(o Metric) {
	m.Common += o.Common
	m.Overlap += o.Overlap
	m.UniqueFirst += o.UniqueFirst
	m.UniqueSecond += o.UniqueSecond
}

// Compare merge-walks the span lists of a and b in subject order. Alignments
// with different grouping keys never match and yield a zero Metric.
func Compare(a, b *span.Alignment, tol float64) Metric {
	var m Metric
	if a.Key() != b.Key() {
		return m
	}
	m.UniqueFirst, m.UniqueSecond = a.Total, b.Total

	var dot, sumA, sumB float64
	for _, e := range a.Spans {
		sumA += sq(e.Len())
	}
	for _, e := range b.Spans {
		sumB += sq(e.Len())
	}

	walk(a.Spans, b.Spans, func(x, y span.Entry) {
		var n int
		if x == y {
			n = x.Len()
			m.Common += n
			dot += sq(n)
		} else {
			n = overlapRange(x, y).Len()
			m.Overlap += n
		}
		m.UniqueFirst -= n
		m.UniqueSecond -= n
	})

	if sumA > 0 && sumB > 0 {
		m.Score = math.Min(1, dot/math.Sqrt(sumA*sumB))
	}
	m.Equivalent = len(a.Spans) > 0 && len(b.Spans) > 0 &&
		m.UniqueFirst == 0 && m.UniqueSecond == 0 && m.Overlap == 0 &&
		slices.Equal(a.QueryMismatches, b.QueryMismatches) &&
		slices.Equal(a.SubjectMismatches, b.SubjectMismatches) &&
		ScoresEqual(a, b, tol)
	return m
}

// Coverage measures a group of first-side alignments against a group of
// second-side alignments as a whole. Each base counts once per side however
// many members cover it, so one long alignment matched by several short ones
// is not charged twice. Equivalent and Score are left zero.
func Coverage(as, bs []*span.Alignment) Metric {
	var ua, ub, shared, exact []align.Range
	for _, a := range as {
		for _, e := range a.Spans {
			ua = append(ua, e.Axis())
		}
	}
	for _, b := range bs {
		for _, e := range b.Spans {
			ub = append(ub, e.Axis())
		}
	}
	for _, a := range as {
		for _, b := range bs {
			if a.Key() != b.Key() {
				continue
			}
			walk(a.Spans, b.Spans, func(x, y span.Entry) {
				r := overlapRange(x, y)
				shared = append(shared, r)
				if x == y {
					exact = append(exact, r)
				}
			})
		}
	}
	both := covered(shared)
	m := Metric{Common: covered(exact)}
	m.Overlap = both - m.Common
	m.UniqueFirst = covered(ua) - both
	m.UniqueSecond = covered(ub) - both
	return m
}

// walk merge-walks two subject-ordered span lists and calls fn for every
// pair of entries that are equal or intersect.
func walk(as, bs []span.Entry, fn func(x, y span.Entry)) {
	i, j := 0, 0
	for i < len(as) && j < len(bs) {
		x, y := as[i], bs[j]
		if x == y {
			fn(x, y)
			i++
			j++
			continue
		}
		if intersects(x, y) {
			fn(x, y)
		}
		// Retire whichever entry ends first so a long entry is checked
		// against every counterpart it spans.
		switch xe, ye := x.End(), y.End(); {
		case xe < ye:
			i++
		case ye < xe:
			j++
		case x.Less(y):
			i++
		default:
			j++
		}
	}
}

// covered is the number of positions in the union of rs. rs is reordered.
func covered(rs []align.Range) int {
	slices.SortFunc(rs, func(x, y align.Range) int { return cmp.Compare(x.From, y.From) })
	n, end := 0, math.MinInt
	for _, r := range rs {
		from := max(r.From, end)
		if r.To > from {
			n += r.To - from
			end = r.To
		}
	}
	return n
}

func sq(n int) float64 { return float64(n) * float64(n) }

// rowsIntersect treats a row left empty on both entries as unconstrained.
func rowsIntersect(x, y align.Range) bool {
	if x.Empty() && y.Empty() {
		return true
	}
	return x.Intersects(y)
}

func intersects(x, y span.Entry) bool {
	return rowsIntersect(x.Subject, y.Subject) && rowsIntersect(x.Query, y.Query)
}

func overlapRange(x, y span.Entry) align.Range {
	if !x.Subject.Empty() && !y.Subject.Empty() {
		return x.Subject.Intersect(y.Subject)
	}
	return x.Query.Intersect(y.Query)
}

// ScoresEqual requires the same score names on both sides, identical
// integer scores, and real scores within max(|x|,|y|)*tol.
func ScoresEqual(a, b *span.Alignment, tol float64) bool {
	if len(a.IntScores) != len(b.IntScores) || len(a.RealScores) != len(b.RealScores) {
		return false
	}
	for k, v := range a.IntScores {
		w, ok := b.IntScores[k]
		if !ok || v != w {
			return false
		}
	}
	for k, x := range a.RealScores {
		y, ok := b.RealScores[k]
		if !ok {
			return false
		}
		if math.Abs(x-y) > math.Max(math.Abs(x), math.Abs(y))*tol {
			return false
		}
	}
	return true
}
