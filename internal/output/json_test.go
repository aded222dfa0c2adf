// internal/output/json_test.go
package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alndiff/internal/align"
	"alndiff/internal/compare"
	"alndiff/internal/group"
	"alndiff/internal/span"
	"alndiff/pkg/api"
)

func batch() *group.Result {
	a := &span.Alignment{
		Set: span.A, QueryID: "q1", SubjectID: "s1",
		QueryStrand: align.Plus, SubjectStrand: align.Minus,
		QueryRange:   align.Range{From: 100, To: 200},
		SubjectRange: align.Range{From: 500, To: 600},
		Spans:        []span.Entry{{}},
		Total:        100, Level: span.Equiv, Partners: []int{1}, GroupID: 4,
	}
	b := *a
	b.Set, b.Partners = span.B, []int{0}
	c := &span.Alignment{Set: span.B, QueryID: "q1", SubjectID: "s1", GroupID: -1, Err: errors.New("boom")}
	return &group.Result{
		Batch:      2,
		Alignments: []*span.Alignment{a, &b, c},
		Groups: []group.Group{{ID: 4, Class: group.Equivalent, Members: []int{0, 1},
			Metric: compare.Metric{Common: 100}}},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, []*group.Result{batch()}))
	var got []api.GroupV1
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Batch)
	require.Len(t, got[0].Groups, 1)
	assert.Equal(t, "equivalent", got[0].Groups[0].Class)
	assert.Equal(t, 100, got[0].Groups[0].Common)
	require.Len(t, got[0].Alignments, 3)
	first := got[0].Alignments[0]
	assert.Equal(t, "equivalent", first.Class)
	assert.Equal(t, "-", first.SubjectStrand)
	assert.Equal(t, []int{1}, first.Partners)
	assert.Equal(t, "only", got[0].Alignments[2].Class)
	assert.Equal(t, "boom", got[0].Alignments[2].Error)
	assert.Empty(t, got[0].Alignments[2].QueryStrand)
}

func TestStreamText(t *testing.T) {
	var buf bytes.Buffer
	in := make(chan *group.Result, 1)
	in <- batch()
	close(in)
	require.NoError(t, StreamText(&buf, in, true))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, TSVHeader, lines[0])
	assert.Equal(t, "2\t4\tequivalent\tA\tq1\ts1\t100\t200\t500\t600\t1\t100\t1", lines[1])
	assert.Equal(t, "2\t-\tonly\tB\tq1\ts1\t0\t0\t0\t0\t0\t0\t-", lines[3])
}

func TestWriteStats(t *testing.T) {
	s := group.Stats{EquivalentGroups: 1, Common: 100}
	s.Equivalent[span.A] = group.Counter{Count: 1, Bases: 100}
	s.Only[span.B] = group.Counter{Count: 2, Bases: 35}
	v := ToAPIStats(s, "run-1", span.ModeSpan)
	assert.Equal(t, api.CountV1{Count: 2, Bases: 35}, v.OnlyB)
	assert.Equal(t, "span", v.Mode)

	var tbl bytes.Buffer
	require.NoError(t, WriteStats(&tbl, StatsTable, v))
	assert.Contains(t, tbl.String(), "equivalent")
	assert.Contains(t, tbl.String(), "run-1")

	var js bytes.Buffer
	require.NoError(t, WriteStats(&js, StatsJSON, v))
	var back api.StatsV1
	require.NoError(t, json.Unmarshal(js.Bytes(), &back))
	assert.Equal(t, v, back)

	var none bytes.Buffer
	require.NoError(t, WriteStats(&none, StatsNone, v))
	assert.Zero(t, none.Len())
	assert.Error(t, WriteStats(&none, "xml", v))
}
