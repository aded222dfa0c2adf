// internal/group/stats.go
package group

import "alndiff/internal/span"

// Counter tallies alignments and their aligned bases.
type Counter struct {
	Count int64 `json:"count"`
	Bases int64 `json:"bases"`
}

func (c *Counter) add(a *span.Alignment) {
	c.Count++
	c.Bases += int64(a.Total)
}

// Stats are running reconciliation counters, indexed by span.Set where
// they are per source.
type Stats struct {
	Only        [2]Counter
	Equivalent  [2]Counter
	Overlapping [2]Counter

	EquivalentGroups int64
	OverlapGroups    int64

	Common  int64
	Overlap int64
	UniqueA int64
	UniqueB int64
}

// Add folds o into s.
func (s *Stats) Add(o Stats) {
	for i := range s.Only {
		s.Only[i].Count += o.Only[i].Count
		s.Only[i].Bases += o.Only[i].Bases
		s.Equivalent[i].Count += o.Equivalent[i].Count
		s.Equivalent[i].Bases += o.Equivalent[i].Bases
		s.Overlapping[i].Count += o.Overlapping[i].Count
		s.Overlapping[i].Bases += o.Overlapping[i].Bases
	}
	s.EquivalentGroups += o.EquivalentGroups
	s.OverlapGroups += o.OverlapGroups
	s.Common += o.Common
	s.Overlap += o.Overlap
	s.UniqueA += o.UniqueA
	s.UniqueB += o.UniqueB
}

// Matched is the number of alignments that landed in any group.
func (s Stats) Matched() int64 {
	var n int64
	for i := range s.Equivalent {
		n += s.Equivalent[i].Count + s.Overlapping[i].Count
	}
	return n
}

// Alignments is the number of alignments classified so far.
func (s Stats) Alignments() int64 {
	return s.Matched() + s.Only[span.A].Count + s.Only[span.B].Count
}
