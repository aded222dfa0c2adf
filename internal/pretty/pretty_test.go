package pretty

import (
	"errors"
	"strings"
	"testing"

	"alndiff/internal/align"
	"alndiff/internal/group"
	"alndiff/internal/span"
)

func aln(set span.Set, gid int, level span.Level, from, to int) *span.Alignment {
	r := align.Range{From: from, To: to}
	return &span.Alignment{
		Set: set, QueryID: "q1", SubjectID: "s1",
		SubjectRange: r,
		Spans:        []span.Entry{{Subject: r, Query: r}},
		Total:        r.Len(),
		Level:        level,
		GroupID:      gid,
	}
}

func TestRenderBatch(t *testing.T) {
	res := &group.Result{
		Batch: 3,
		Key:   span.Key{QueryID: "q1", SubjectID: "s1"},
		Alignments: []*span.Alignment{
			aln(span.A, 0, span.Equiv, 0, 50),
			aln(span.B, 0, span.OverlapBetter, 50, 100),
		},
	}
	got := RenderBatch(res, Options{Width: 10})
	want := "# batch 3  q1 vs s1\n" +
		"# A g0  equivalent     |||||..... 0-50\n" +
		"# B g0  overlap-better ....¦¦¦¦¦¦ 50-100\n" +
		"\n"
	if got != want {
		t.Fatalf("mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestRenderBatchResidualAndFailed(t *testing.T) {
	bad := aln(span.A, -1, span.NoMatch, 0, 10)
	bad.Spans, bad.Err = nil, errors.New("boom")
	res := &group.Result{
		Key: span.Key{QueryID: "q1", SubjectID: "s1"},
		Alignments: []*span.Alignment{
			aln(span.B, -1, span.NoMatch, 20, 40),
			bad,
		},
	}
	got := RenderBatch(res, Options{Width: 4})
	if !strings.Contains(got, "# B -   only           ==== 20-40\n") {
		t.Fatalf("residual track missing:\n%s", got)
	}
	if !strings.Contains(got, "(no spans: boom)") {
		t.Fatalf("failed alignment not reported:\n%s", got)
	}
}

func TestDefaultOptionsStable(t *testing.T) {
	d := DefaultOptions
	if d.DotGlyph != "." || d.ExactGlyph != "|" || d.PartialGlyph != "¦" || d.Width != 60 {
		t.Fatalf("DefaultOptions visual defaults changed")
	}
}
