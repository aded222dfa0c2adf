// Package group classifies the alignments of one grouping key: it compares
// every qualifying A/B pair, links claimed pairs into connected groups and
// labels each alignment equivalent, overlapping or only-in-one-source.
package group

import (
	"cmp"
	"slices"

	"alndiff/internal/align"
	"alndiff/internal/compare"
	"alndiff/internal/span"
)

// Class is the kind of a finished group.
type Class uint8

const (
	Equivalent Class = iota
	Overlapping
)

func (c Class) String() string {
	if c == Equivalent {
		return "equivalent"
	}
	return "overlapping"
}

// Config is the part of the reconciliation settings grouping depends on.
type Config struct {
	// OverlapRows picks the rows whose ranges must intersect for a pair to
	// be compared at all.
	OverlapRows   span.Rows
	Strict        bool
	RealTolerance float64
}

func (c Config) candidate(a, b *span.Alignment) bool {
	for row := align.Query; row <= align.Subject; row++ {
		if c.OverlapRows.Has(row) && !a.Range(row).Intersects(b.Range(row)) {
			return false
		}
	}
	return true
}

// Group is a connected set of claimed alignments.
type Group struct {
	ID    int
	Class Class
	// Members index Result.Alignments, in claim order.
	Members []int
	// Metric is the base coverage of the A members against the B members,
	// each base counted once per side.
	Metric compare.Metric
}

// Result is one classified batch.
type Result struct {
	// Batch and Key are filled in by the caller that sequences batches.
	Batch      int
	Key        span.Key
	Alignments []*span.Alignment
	Groups     []Group
	Stats      Stats
}

// Renumber shifts group ids by base so they stay unique across batches.
func (r *Result) Renumber(base int) {
	for i := range r.Groups {
		r.Groups[i].ID += base
	}
	for _, a := range r.Alignments {
		if a.GroupID >= 0 {
			a.GroupID += base
		}
	}
}

type comparison struct {
	a, b int
	m    compare.Metric
}

// Accumulate classifies as and bs, which must share one grouping key. Either
// side may be empty, in which case every alignment is a residual. The
// alignments are updated in place (Level, Partners, GroupID) and returned in
// output order: groups in order of first claim, then unclaimed A, then
// unclaimed B.
func Accumulate(as, bs []*span.Alignment, cfg Config) *Result {
	n := len(as)
	arena := make([]*span.Alignment, 0, n+len(bs))
	arena = append(arena, as...)
	arena = append(arena, bs...)

	cmps := candidates(as, bs, cfg)
	// Exact matches are claimed before any overlap can dilute them. Within
	// a tier the later ranges go first.
	slices.SortStableFunc(cmps, func(x, y comparison) int {
		if x.m.Equivalent != y.m.Equivalent {
			if x.m.Equivalent {
				return -1
			}
			return 1
		}
		xa, ya, xb, yb := as[x.a], as[y.a], bs[x.b], bs[y.b]
		return cmp.Or(
			ya.SubjectRange.Compare(xa.SubjectRange),
			ya.QueryRange.Compare(xa.QueryRange),
			yb.SubjectRange.Compare(xb.SubjectRange),
			yb.QueryRange.Compare(xb.QueryRange),
			cmp.Compare(x.a, y.a),
			cmp.Compare(x.b, y.b),
		)
	})

	level := make([]span.Level, len(arena))
	claimed := make([]bool, len(arena))
	var order []int
	f := newForest(len(arena))
	for _, c := range cmps {
		ia, ib := c.a, n+c.b
		if !c.m.Equivalent && (level[ia] == span.Equiv || level[ib] == span.Equiv) {
			continue
		}
		lv := span.Overlap
		if c.m.Equivalent {
			lv = span.Equiv
		}
		for _, x := range [2]int{ia, ib} {
			if !claimed[x] {
				claimed[x] = true
				level[x] = lv
				order = append(order, x)
			}
		}
		r := f.union(ia, ib)
		if !c.m.Equivalent {
			f.overlap[r] = true
		}
	}

	res := &Result{}
	roots := make(map[int]int)
	var members [][]int
	for _, x := range order {
		r := f.find(x)
		g, ok := roots[r]
		if !ok {
			g = len(res.Groups)
			roots[r] = g
			class := Equivalent
			if f.overlap[r] {
				class = Overlapping
			}
			res.Groups = append(res.Groups, Group{ID: g, Class: class})
			members = append(members, nil)
		}
		members[g] = append(members[g], x)
	}

	for g := range res.Groups {
		grp := &res.Groups[g]
		var sides [2][]*span.Alignment
		for _, x := range members[g] {
			a := arena[x]
			a.GroupID = grp.ID
			a.Partners = nil
			a.Level = span.Equiv
			if grp.Class == Overlapping {
				a.Level = span.Overlap
			}
			grp.Members = append(grp.Members, len(res.Alignments))
			res.Alignments = append(res.Alignments, a)
			sides[a.Set] = append(sides[a.Set], a)
		}
		grp.Metric = compare.Coverage(sides[span.A], sides[span.B])
		grp.Metric.Equivalent = grp.Class == Equivalent
		if grp.Class == Overlapping {
			labelQuality(res.Alignments, grp.Members)
		}
		link(res.Alignments, grp.Members)
		res.Stats.addGroup(res.Alignments, grp)
	}

	for x, a := range arena {
		if claimed[x] {
			continue
		}
		a.Level, a.Partners, a.GroupID = span.NoMatch, nil, -1
		res.Alignments = append(res.Alignments, a)
		res.Stats.Only[a.Set].add(a)
		if a.Set == span.A {
			res.Stats.UniqueA += int64(a.Total)
		} else {
			res.Stats.UniqueB += int64(a.Total)
		}
	}
	return res
}

func candidates(as, bs []*span.Alignment, cfg Config) []comparison {
	var out []comparison
	equivTo := make([]int, len(bs))
	for j := range equivTo {
		equivTo[j] = -1
	}
	for i, a := range as {
		for j, b := range bs {
			if cfg.Strict && equivTo[j] >= 0 && equivTo[j] != i {
				continue
			}
			if !cfg.candidate(a, b) {
				continue
			}
			m := compare.Compare(a, b, cfg.RealTolerance)
			if !m.Equivalent && m.Shared() == 0 {
				continue
			}
			out = append(out, comparison{a: i, b: j, m: m})
			if cfg.Strict && m.Equivalent {
				equivTo[j] = i
				break
			}
		}
	}
	return out
}

// labelQuality marks the side holding the best quality tuple OverlapBetter
// and the other OverlapWorse. Nothing changes when either side is missing or
// the best tuples tie.
func labelQuality(alns []*span.Alignment, members []int) {
	var best [2][]float64
	var seen [2]bool
	for _, i := range members {
		a := alns[i]
		if len(a.Quality) == 0 {
			return
		}
		if !seen[a.Set] || slices.Compare(a.Quality, best[a.Set]) > 0 {
			best[a.Set], seen[a.Set] = a.Quality, true
		}
	}
	if !seen[span.A] || !seen[span.B] {
		return
	}
	c := slices.Compare(best[span.A], best[span.B])
	if c == 0 {
		return
	}
	better := span.A
	if c < 0 {
		better = span.B
	}
	for _, i := range members {
		if alns[i].Set == better {
			alns[i].Level = span.OverlapBetter
		} else {
			alns[i].Level = span.OverlapWorse
		}
	}
}

// link records every A member as a partner of every B member and back.
func link(alns []*span.Alignment, members []int) {
	for _, i := range members {
		for _, j := range members {
			if alns[i].Set != alns[j].Set {
				alns[i].Partners = append(alns[i].Partners, j)
			}
		}
	}
}

func (s *Stats) addGroup(alns []*span.Alignment, g *Group) {
	if g.Class == Equivalent {
		s.EquivalentGroups++
	} else {
		s.OverlapGroups++
	}
	for _, i := range g.Members {
		a := alns[i]
		if g.Class == Equivalent {
			s.Equivalent[a.Set].add(a)
		} else {
			s.Overlapping[a.Set].add(a)
		}
	}
	s.Common += int64(g.Metric.Common)
	s.Overlap += int64(g.Metric.Overlap)
	s.UniqueA += int64(g.Metric.UniqueFirst)
	s.UniqueB += int64(g.Metric.UniqueSecond)
}
