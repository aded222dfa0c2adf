package boundary

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alndiff/internal/align"
	"alndiff/internal/span"
)

func rng(from, to int) align.Range { return align.Range{From: from, To: to} }

func ungapped(q, s align.Range) *align.Record {
	return &align.Record{
		IDs:      [2]string{"q1", "s1"},
		Strands:  [2]align.Strand{align.Plus, align.Plus},
		Bounds:   [2]align.Range{q, s},
		Kind:     align.Dense,
		Segments: []align.Segment{{Starts: [2]int{q.From, s.From}, Len: q.Len()}},
		Scores: []align.Score{
			align.RealScore("bit_score", 180),
			align.IntScore("num_ident", 100),
		},
	}
}

type records []*align.Record

func (r *records) Next(context.Context) (*align.Record, error) {
	if len(*r) == 0 {
		return nil, io.EOF
	}
	rec := (*r)[0]
	*r = (*r)[1:]
	return rec, nil
}

func TestSetInside(t *testing.T) {
	s := NewSet()
	s.Add("s1", 50, 10, 30, 10, 100)
	s.Add("s2", 5)
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []int{30, 50}, s.Inside("s1", rng(10, 100)))
	assert.Equal(t, []int{10, 30, 50, 100}, s.Inside("s1", rng(0, 101)))
	assert.Nil(t, s.Inside("s1", rng(31, 50)))
	assert.Nil(t, s.Inside("nope", rng(0, 1000)))

	o := NewSet()
	o.Add("s1", 40)
	s.Merge(o)
	assert.Equal(t, []int{30, 40, 50}, s.Inside("s1", rng(10, 100)))
}

func TestCollect(t *testing.T) {
	src := records{ungapped(rng(0, 100), rng(1000, 1100)), ungapped(rng(20, 60), rng(1050, 1090))}
	set, err := Collect(context.Background(), &src, span.A, span.Options{Mode: span.ModeInterval})
	require.NoError(t, err)
	assert.Equal(t, []int{20, 60}, set.Inside("q1", rng(0, 100)))
	assert.Equal(t, []int{1050, 1090}, set.Inside("s1", rng(1000, 1100)))
}

func TestCollectCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := records{ungapped(rng(0, 10), rng(0, 10))}
	_, err := Collect(ctx, &src, span.A, span.Options{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSplitRoundTrip(t *testing.T) {
	opt := span.Options{Mode: span.ModeInterval, Disambiguating: []string{"bit_score"}}
	parent, err := span.Extract(ungapped(rng(0, 100), rng(1000, 1100)), span.A, opt)
	require.NoError(t, err)

	set := NewSet()
	set.Add("q1", 20)
	set.Add("s1", 1050)
	kids, err := Split(parent, set, opt, []string{"num_ident"})
	require.NoError(t, err)
	require.Len(t, kids, 3)

	var got []span.Entry
	total := 0
	for _, k := range kids {
		require.NoError(t, k.Err)
		got = append(got, k.Spans...)
		total += k.Total
		assert.Equal(t, parent.Key(), k.Key())
		_, ok := k.Record.Lookup("bit_score")
		assert.False(t, ok, "non-distributive score carried over")
		s, ok := k.Record.Lookup("num_ident")
		assert.True(t, ok)
		assert.Equal(t, int64(100), s.Int)
	}
	assert.Equal(t, []span.Entry{
		{Subject: rng(1000, 1020), Query: rng(0, 20)},
		{Subject: rng(1020, 1050), Query: rng(20, 50)},
		{Subject: rng(1050, 1100), Query: rng(50, 100)},
	}, got)
	assert.Equal(t, parent.Total, total)
	// The parent record is left alone.
	assert.Len(t, parent.Record.Scores, 2)
}

func TestSplitNoBoundaries(t *testing.T) {
	opt := span.Options{Mode: span.ModeInterval}
	parent, _ := span.Extract(ungapped(rng(0, 100), rng(1000, 1100)), span.A, opt)
	set := NewSet()
	set.Add("s1", 1000, 1100)
	kids, err := Split(parent, set, opt, nil)
	require.NoError(t, err)
	require.Len(t, kids, 1)
	assert.Same(t, parent, kids[0])
}

func TestSplitFullModeKeepsParentMismatches(t *testing.T) {
	rec := ungapped(rng(0, 10), rng(100, 110))
	rec.Btop = "3AG6"
	opt := span.Options{Mode: span.ModeFull}
	parent, err := span.Extract(rec, span.B, opt)
	require.NoError(t, err)
	require.Equal(t, []int{3}, parent.QueryMismatches)

	set := NewSet()
	set.Add("s1", 105)
	kids, err := Split(parent, set, opt, nil)
	require.NoError(t, err)
	require.Len(t, kids, 2)
	assert.Equal(t, []int{3}, kids[0].QueryMismatches)
	assert.Equal(t, []int{103}, kids[0].SubjectMismatches)
	assert.Empty(t, kids[1].QueryMismatches)
	assert.Equal(t, span.B, kids[1].Set)
}

func TestSplitSplicedUnsupported(t *testing.T) {
	rec := &align.Record{
		IDs:     [2]string{"q1", "s1"},
		Strands: [2]align.Strand{align.Plus, align.Plus},
		Kind:    align.Spliced,
		Exons: []align.Exon{
			{Product: rng(0, 10), Genomic: rng(100, 110)},
			{Product: rng(10, 20), Genomic: rng(200, 210)},
		},
	}
	opt := span.Options{Mode: span.ModeExon}
	parent, err := span.Extract(rec, span.A, opt)
	require.NoError(t, err)

	set := NewSet()
	set.Add("s1", 150)
	kids, err := Split(parent, set, opt, nil)
	require.ErrorIs(t, err, align.ErrUnsupportedSlice)
	require.Len(t, kids, 1)
	assert.Empty(t, kids[0].Spans)
	assert.Error(t, kids[0].Err)
	assert.NotEmpty(t, parent.Spans)
}
