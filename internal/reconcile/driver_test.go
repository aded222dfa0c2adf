package reconcile

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alndiff/internal/align"
	"alndiff/internal/group"
	"alndiff/internal/logging"
	"alndiff/internal/source"
	"alndiff/internal/span"
)

func rng(from, to int) align.Range { return align.Range{From: from, To: to} }

func rec(subject string, q, s align.Range, scores ...align.Score) *align.Record {
	return &align.Record{
		IDs:      [2]string{"q1", subject},
		Strands:  [2]align.Strand{align.Plus, align.Plus},
		Bounds:   [2]align.Range{q, s},
		Kind:     align.Dense,
		Segments: []align.Segment{{Starts: [2]int{q.From, s.From}, Len: q.Len()}},
		Scores:   scores,
	}
}

func bits(v float64) align.Score { return align.RealScore("bit_score", v) }

func spanConfig() Config {
	cfg := DefaultConfig()
	cfg.Mode = span.ModeSpan
	return cfg
}

func drain(t *testing.T, d *Driver) []*group.Result {
	t.Helper()
	var out []*group.Result
	for {
		res, err := d.NextGroup(context.Background())
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, res)
	}
}

func newDriver(t *testing.T, cfg Config, a, b []*align.Record) *Driver {
	t.Helper()
	d, err := New(context.Background(), cfg, source.NewRecords("A", a), source.NewRecords("B", b), nil)
	require.NoError(t, err)
	return d
}

func TestIdenticalAlignmentsAreEquivalent(t *testing.T) {
	d := newDriver(t, spanConfig(),
		[]*align.Record{rec("s1", rng(100, 200), rng(500, 600), bits(180))},
		[]*align.Record{rec("s1", rng(100, 200), rng(500, 600), bits(180))})

	batches := drain(t, d)
	require.Len(t, batches, 1)
	res := batches[0]
	require.Len(t, res.Groups, 1)
	assert.Equal(t, group.Equivalent, res.Groups[0].Class)
	assert.Equal(t, 100, res.Groups[0].Metric.Common)
	for _, a := range res.Alignments {
		assert.Equal(t, span.Equiv, a.Level)
	}
	assert.Equal(t, span.Key{QueryID: "q1", SubjectID: "s1"}, res.Key)

	st := d.Stats()
	assert.Equal(t, int64(1), st.EquivalentGroups)
	assert.Equal(t, int64(100), st.Common)
	assert.Equal(t, 1, d.Batches())
}

func TestShiftedAlignmentsOverlap(t *testing.T) {
	d := newDriver(t, spanConfig(),
		[]*align.Record{rec("s1", rng(100, 200), rng(500, 600), bits(180))},
		[]*align.Record{rec("s1", rng(100, 200), rng(550, 650), bits(180))})

	batches := drain(t, d)
	require.Len(t, batches, 1)
	g := batches[0].Groups[0]
	assert.Equal(t, group.Overlapping, g.Class)
	assert.Equal(t, 50, g.Metric.Overlap)
	assert.Equal(t, 50, g.Metric.UniqueFirst)
	assert.Equal(t, 50, g.Metric.UniqueSecond)
	st := d.Stats()
	assert.Equal(t, int64(50), st.Overlap)
	assert.Equal(t, int64(1), st.OverlapGroups)
}

func TestDifferentScoresStillCompareByDefault(t *testing.T) {
	d := newDriver(t, spanConfig(),
		[]*align.Record{rec("s1", rng(100, 200), rng(500, 600), bits(180))},
		[]*align.Record{rec("s1", rng(100, 200), rng(550, 650), bits(95))})

	batches := drain(t, d)
	require.Len(t, batches, 1)
	require.Len(t, batches[0].Groups, 1)
	assert.Equal(t, group.Overlapping, batches[0].Groups[0].Class)
	st := d.Stats()
	assert.Equal(t, int64(1), st.OverlapGroups)
	assert.Zero(t, st.Only[span.A].Count)
	assert.Zero(t, st.Only[span.B].Count)
}

func TestPrimaryScoreSplitsKeys(t *testing.T) {
	cfg := spanConfig()
	cfg.Disambiguating = []string{"bit_score"}
	d := newDriver(t, cfg,
		[]*align.Record{rec("s1", rng(100, 200), rng(500, 600), bits(95))},
		[]*align.Record{rec("s1", rng(100, 200), rng(550, 650), bits(180))})

	batches := drain(t, d)
	require.Len(t, batches, 2)
	assert.Equal(t, 95.0, batches[0].Key.Primary)
	st := d.Stats()
	assert.Equal(t, int64(1), st.Only[span.A].Count)
	assert.Equal(t, int64(1), st.Only[span.B].Count)
}

func TestOnlyInA(t *testing.T) {
	d := newDriver(t, spanConfig(),
		[]*align.Record{
			rec("s1", rng(100, 200), rng(500, 600), bits(180)),
			rec("s9", rng(0, 40), rng(0, 40), bits(60)),
		},
		[]*align.Record{rec("s1", rng(100, 200), rng(500, 600), bits(180))})

	batches := drain(t, d)
	require.Len(t, batches, 2)
	only := batches[1]
	require.Len(t, only.Alignments, 1)
	assert.Equal(t, span.NoMatch, only.Alignments[0].Level)
	assert.Equal(t, "s9", only.Alignments[0].SubjectID)
	assert.Equal(t, 1, only.Batch)

	st := d.Stats()
	assert.Equal(t, group.Counter{Count: 1, Bases: 40}, st.Only[span.A])
	assert.Zero(t, st.Only[span.B].Count)
	assert.Equal(t, int64(3), st.Alignments())
}

func TestOnlyInBInterleaved(t *testing.T) {
	d := newDriver(t, spanConfig(),
		[]*align.Record{rec("s3", rng(0, 10), rng(0, 10))},
		[]*align.Record{rec("s1", rng(0, 10), rng(0, 10)), rec("s2", rng(0, 20), rng(0, 20)), rec("s3", rng(0, 10), rng(0, 10))})

	batches := drain(t, d)
	require.Len(t, batches, 3)
	assert.Equal(t, "s1", batches[0].Key.SubjectID)
	assert.Equal(t, span.B, batches[0].Alignments[0].Set)
	assert.Equal(t, "s2", batches[1].Key.SubjectID)
	assert.Len(t, batches[2].Groups, 1)
	assert.Equal(t, group.Counter{Count: 2, Bases: 30}, d.Stats().Only[span.B])
}

func TestIgnoreAbsent(t *testing.T) {
	cfg := spanConfig()
	cfg.IgnoreAbsent = true
	d := newDriver(t, cfg,
		[]*align.Record{rec("s1", rng(0, 10), rng(0, 10))},
		[]*align.Record{rec("s2", rng(0, 10), rng(0, 10))})

	batches := drain(t, d)
	require.Len(t, batches, 2)
	for _, b := range batches {
		assert.Empty(t, b.Alignments)
	}
	assert.Zero(t, d.Stats().Alignments())
	assert.Zero(t, d.Batches())
}

func TestKeyInversionPanics(t *testing.T) {
	d := newDriver(t, spanConfig(),
		[]*align.Record{rec("s2", rng(0, 10), rng(0, 10)), rec("s1", rng(0, 10), rng(0, 10))},
		nil)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		var koe *KeyOrderError
		require.True(t, errors.As(err, &koe))
		assert.Equal(t, "A", koe.Source)
		assert.Equal(t, "s2", koe.Prev.SubjectID)
		assert.Equal(t, "s1", koe.Next.SubjectID)
	}()
	drain(t, d)
	t.Fatal("expected a panic")
}

func TestMalformedAlignmentIsLogged(t *testing.T) {
	var logs bytes.Buffer
	cfg := DefaultConfig()
	cfg.Mode = span.ModeFull
	bad := rec("s1", rng(0, 12), rng(0, 12), bits(10))
	bad.Btop = "5AG3"
	d, err := New(context.Background(), cfg,
		source.NewRecords("A", []*align.Record{bad}),
		source.NewRecords("B", nil),
		logging.New(&logs, logging.LevelWarn))
	require.NoError(t, err)

	batches := drain(t, d)
	require.Len(t, batches, 1)
	a := batches[0].Alignments[0]
	assert.Empty(t, a.Spans)
	assert.ErrorIs(t, a.Err, span.ErrTracebackLength)
	assert.Contains(t, logs.String(), "subsystem=extract")
}

func TestSplitNeedsResettableSources(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SplitBoundaries = true
	one := struct{ source.Source }{source.NewRecords("pipe", nil)}
	_, err := New(context.Background(), cfg, one, source.NewRecords("B", nil), nil)
	assert.ErrorIs(t, err, ErrNotResettable)
	assert.ErrorContains(t, err, "pipe")
}

func TestSplitBoundariesMakeEquivalents(t *testing.T) {
	a := []*align.Record{rec("s1", rng(0, 100), rng(1000, 1100))}
	b := []*align.Record{
		rec("s1", rng(0, 50), rng(1000, 1050)),
		rec("s1", rng(50, 100), rng(1050, 1100)),
	}
	cfg := DefaultConfig()

	pd := newDriver(t, cfg, a, b)
	plain := drain(t, pd)
	require.Len(t, plain, 1)
	require.Len(t, plain[0].Groups, 1)
	assert.Equal(t, group.Overlapping, plain[0].Groups[0].Class)
	assert.Equal(t, int64(100), pd.Stats().Overlap)
	assert.Zero(t, pd.Stats().UniqueA)

	cfg.SplitBoundaries = true
	d := newDriver(t, cfg, a, b)
	split := drain(t, d)
	require.Len(t, split, 1)
	require.Len(t, split[0].Groups, 2)
	for _, g := range split[0].Groups {
		assert.Equal(t, group.Equivalent, g.Class)
	}
	assert.Len(t, split[0].Alignments, 4)
	st := d.Stats()
	assert.Equal(t, int64(100), st.Common)
	assert.Equal(t, int64(2), st.EquivalentGroups)
	assert.Equal(t, []int{0, 1}, []int{split[0].Groups[0].ID, split[0].Groups[1].ID})
}
