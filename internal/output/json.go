// internal/output/json.go
package output

import (
	"io"

	"alndiff/internal/align"
	"alndiff/internal/group"
	"alndiff/internal/jsonutil"
	"alndiff/internal/span"
	"alndiff/pkg/api"
)

// ToAPIClassified converts one alignment of batch to the stable wire schema.
func ToAPIClassified(batch int, a *span.Alignment) api.ClassifiedV1 {
	v := api.ClassifiedV1{
		Batch:        batch,
		GroupID:      a.GroupID,
		Class:        a.Level.String(),
		Set:          a.Set.String(),
		QueryID:      a.QueryID,
		SubjectID:    a.SubjectID,
		QueryStart:   a.QueryRange.From,
		QueryEnd:     a.QueryRange.To,
		SubjectStart: a.SubjectRange.From,
		SubjectEnd:   a.SubjectRange.To,
		Spans:        len(a.Spans),
		Aligned:      a.Total,
		Partners:     append([]int(nil), a.Partners...),
	}
	if a.QueryStrand != align.Unknown {
		v.QueryStrand = a.QueryStrand.String()
	}
	if a.SubjectStrand != align.Unknown {
		v.SubjectStrand = a.SubjectStrand.String()
	}
	if a.Err != nil {
		v.Error = a.Err.Error()
	}
	return v
}

// ClassifiedRows flattens a batch in output order.
func ClassifiedRows(res *group.Result) []api.ClassifiedV1 {
	out := make([]api.ClassifiedV1, 0, len(res.Alignments))
	for _, a := range res.Alignments {
		out = append(out, ToAPIClassified(res.Batch, a))
	}
	return out
}

func ToAPIGroup(res *group.Result) api.GroupV1 {
	v := api.GroupV1{Batch: res.Batch, Alignments: ClassifiedRows(res)}
	for _, g := range res.Groups {
		v.Groups = append(v.Groups, api.GroupInfoV1{
			ID:      g.ID,
			Class:   g.Class.String(),
			Members: append([]int(nil), g.Members...),
			Common:  g.Metric.Common,
			Overlap: g.Metric.Overlap,
			UniqueA: g.Metric.UniqueFirst,
			UniqueB: g.Metric.UniqueSecond,
		})
	}
	return v
}

// WriteJSON writes a single JSON array of batches (pretty-indented).
func WriteJSON(w io.Writer, list []*group.Result) error {
	out := make([]api.GroupV1, 0, len(list))
	for _, r := range list {
		out = append(out, ToAPIGroup(r))
	}
	return jsonutil.EncodePretty(w, out)
}
