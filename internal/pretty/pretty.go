// Package pretty draws a batch of classified alignments as ASCII tracks on a
// shared, scaled coordinate axis.
package pretty

import (
	"fmt"
	"strings"

	"alndiff/internal/align"
	"alndiff/internal/group"
	"alndiff/internal/span"
)

// Options control the ASCII rendering.
type Options struct {
	// Track width in cells. If <=0, use default (60).
	Width int

	// Glyphs
	ExactGlyph   string // equivalent alignments, default "|"
	PartialGlyph string // overlapping alignments, default "¦"
	OnlyGlyph    string // alignments in one source only, default "="
	DotGlyph     string // uncovered cells, default "."
}

var DefaultOptions = Options{
	Width:        60,
	ExactGlyph:   "|",
	PartialGlyph: "¦",
	OnlyGlyph:    "=",
	DotGlyph:     ".",
}

const linePrefix = "# "

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultOptions.Width
	}
	if o.ExactGlyph == "" {
		o.ExactGlyph = DefaultOptions.ExactGlyph
	}
	if o.PartialGlyph == "" {
		o.PartialGlyph = DefaultOptions.PartialGlyph
	}
	if o.OnlyGlyph == "" {
		o.OnlyGlyph = DefaultOptions.OnlyGlyph
	}
	if o.DotGlyph == "" {
		o.DotGlyph = DefaultOptions.DotGlyph
	}
	return o
}

func (o Options) glyph(l span.Level) string {
	switch {
	case l == span.Equiv:
		return o.ExactGlyph
	case l.IsOverlap():
		return o.PartialGlyph
	}
	return o.OnlyGlyph
}

// scale an offset into the printed width (endpoint-preserving)
func scalePos(off, extent, width int) int {
	if extent <= 1 || width <= 1 {
		return 0
	}
	if off < 0 {
		off = 0
	}
	if off > extent-1 {
		off = extent - 1
	}
	return (off * (width - 1)) / (extent - 1)
}

// axisRange is the primary-row range of an entry: subject unless unselected.
func axisRange(e span.Entry) align.Range {
	if e.Subject.Empty() {
		return e.Query
	}
	return e.Subject
}

func extent(alns []*span.Alignment) (lo, hi int, ok bool) {
	for _, a := range alns {
		for _, e := range a.Spans {
			r := axisRange(e)
			if !ok || r.From < lo {
				lo = r.From
			}
			if !ok || r.To > hi {
				hi = r.To
			}
			ok = true
		}
	}
	return
}

func track(a *span.Alignment, lo, hi int, opt Options) string {
	cells := make([]string, opt.Width)
	for i := range cells {
		cells[i] = opt.DotGlyph
	}
	g := opt.glyph(a.Level)
	for _, e := range a.Spans {
		r := axisRange(e)
		if r.Empty() {
			continue
		}
		from := scalePos(r.From-lo, hi-lo, opt.Width)
		to := scalePos(r.To-1-lo, hi-lo, opt.Width)
		for c := from; c <= to; c++ {
			cells[c] = g
		}
	}
	return strings.Join(cells, "")
}

// RenderBatch prints one block per batch: a header naming the key, then one
// track per alignment in output order.
func RenderBatch(res *group.Result, opt Options) string {
	opt = opt.withDefaults()
	var b strings.Builder
	fmt.Fprintf(&b, "%sbatch %d  %s vs %s\n", linePrefix, res.Batch, res.Key.QueryID, res.Key.SubjectID)

	lo, hi, ok := extent(res.Alignments)
	for _, a := range res.Alignments {
		gid := "-"
		if a.GroupID >= 0 {
			gid = fmt.Sprintf("g%d", a.GroupID)
		}
		fmt.Fprintf(&b, "%s%s %-3s %-14s ", linePrefix, a.Set, gid, a.Level)
		switch {
		case a.Err != nil:
			fmt.Fprintf(&b, "(no spans: %v)\n", a.Err)
		case !ok || len(a.Spans) == 0:
			b.WriteString("(no spans)\n")
		default:
			r := a.SubjectRange
			if r.Empty() {
				r = a.QueryRange
			}
			fmt.Fprintf(&b, "%s %d-%d\n", track(a, lo, hi, opt), r.From, r.To)
		}
	}
	b.WriteByte('\n')
	return b.String()
}
