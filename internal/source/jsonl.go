// internal/source/jsonl.go
package source

import (
	"encoding/json"
	"fmt"
	"sort"

	"alndiff/internal/align"
	"alndiff/pkg/api"
)

func decodeJSONL(line []byte) (*align.Record, error) {
	var v api.AlignmentV1
	if err := json.Unmarshal(line, &v); err != nil {
		return nil, err
	}
	return FromAPI(v)
}

// FromAPI converts the wire form into a record.
func FromAPI(v api.AlignmentV1) (*align.Record, error) {
	r := &align.Record{
		IDs:    [2]string{v.QueryID, v.SubjectID},
		Bounds: [2]align.Range{{From: v.QueryStart, To: v.QueryEnd}, {From: v.SubjectStart, To: v.SubjectEnd}},
		Btop:   v.Btop,
	}
	var err error
	if r.Strands[align.Query], err = align.ParseStrand(v.QueryStrand); err != nil {
		return nil, err
	}
	if r.Strands[align.Subject], err = align.ParseStrand(v.SubjectStrand); err != nil {
		return nil, err
	}
	if r.Kind, err = align.ParseKind(v.Type); err != nil {
		return nil, err
	}
	for _, s := range v.Segments {
		r.Segments = append(r.Segments, align.Segment{Starts: [2]int{s.QueryStart, s.SubjectStart}, Len: s.Len})
	}
	for i, c := range v.Children {
		if c.QueryID == "" {
			c.QueryID = v.QueryID
		}
		if c.SubjectID == "" {
			c.SubjectID = v.SubjectID
		}
		kid, err := FromAPI(c)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		r.Children = append(r.Children, kid)
	}
	for _, e := range v.Exons {
		ex := align.Exon{
			Product: align.Range{From: e.ProductStart, To: e.ProductEnd},
			Genomic: align.Range{From: e.GenomicStart, To: e.GenomicEnd},
		}
		for _, p := range e.Parts {
			k, err := align.ParseChunkKind(p.Kind)
			if err != nil {
				return nil, err
			}
			ex.Parts = append(ex.Parts, align.Chunk{Kind: k, Len: p.Len})
		}
		r.Exons = append(r.Exons, ex)
	}
	for _, name := range sortedKeys(v.IntScores) {
		r.Scores = append(r.Scores, align.IntScore(name, v.IntScores[name]))
	}
	for _, name := range sortedKeys(v.RealScores) {
		r.Scores = append(r.Scores, align.RealScore(name, v.RealScores[name]))
	}
	return r, nil
}

// ToAPI is the inverse of FromAPI.
func ToAPI(r *align.Record) api.AlignmentV1 {
	v := api.AlignmentV1{
		QueryID:       r.IDs[align.Query],
		SubjectID:     r.IDs[align.Subject],
		QueryStrand:   r.Strands[align.Query].String(),
		SubjectStrand: r.Strands[align.Subject].String(),
		QueryStart:    r.Bounds[align.Query].From,
		QueryEnd:      r.Bounds[align.Query].To,
		SubjectStart:  r.Bounds[align.Subject].From,
		SubjectEnd:    r.Bounds[align.Subject].To,
		Btop:          r.Btop,
	}
	if r.Kind != align.Dense {
		v.Type = r.Kind.String()
	}
	for _, s := range r.Segments {
		v.Segments = append(v.Segments, api.SegmentV1{QueryStart: s.Starts[align.Query], SubjectStart: s.Starts[align.Subject], Len: s.Len})
	}
	for _, c := range r.Children {
		v.Children = append(v.Children, ToAPI(c))
	}
	for _, e := range r.Exons {
		ex := api.ExonV1{
			ProductStart: e.Product.From, ProductEnd: e.Product.To,
			GenomicStart: e.Genomic.From, GenomicEnd: e.Genomic.To,
		}
		for _, p := range e.Parts {
			ex.Parts = append(ex.Parts, api.ChunkV1{Kind: p.Kind.String(), Len: p.Len})
		}
		v.Exons = append(v.Exons, ex)
	}
	for _, s := range r.Scores {
		if s.IsReal {
			if v.RealScores == nil {
				v.RealScores = make(map[string]float64)
			}
			v.RealScores[s.Name] = s.Real
		} else {
			if v.IntScores == nil {
				v.IntScores = make(map[string]int64)
			}
			v.IntScores[s.Name] = s.Int
		}
	}
	return v
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
