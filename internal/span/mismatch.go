// internal/span/mismatch.go
package span

import (
	"fmt"
	"sort"

	"alndiff/internal/align"
)

// cursor walks one row in alignment order.
type cursor struct {
	pos    int
	strand align.Strand
}

func newCursor(r align.Range, s align.Strand) cursor {
	if s == align.Minus {
		return cursor{pos: r.To, strand: s}
	}
	return cursor{pos: r.From, strand: s}
}

// take consumes n bases and returns the covered range.
func (c *cursor) take(n int) align.Range {
	if c.strand == align.Minus {
		c.pos -= n
		return align.Range{From: c.pos, To: c.pos + n}
	}
	c.pos += n
	return align.Range{From: c.pos - n, To: c.pos}
}

// done reports whether the cursor ended exactly at the far end of r.
func (c cursor) done(r align.Range) bool {
	if c.strand == align.Minus {
		return c.pos == r.From
	}
	return c.pos == r.To
}

// walkExon visits the parts of e in alignment order. Insertions report an
// empty range on the row that does not advance.
func walkExon(e align.Exon, strands [2]align.Strand, visit func(k align.ChunkKind, q, s align.Range)) error {
	p := newCursor(e.Product, strands[align.Query])
	g := newCursor(e.Genomic, strands[align.Subject])
	for _, c := range e.Parts {
		var q, s align.Range
		switch c.Kind {
		case align.Match, align.Mismatch, align.Diag:
			q, s = p.take(c.Len), g.take(c.Len)
		case align.ProductIns:
			q = p.take(c.Len)
		case align.GenomicIns:
			s = g.take(c.Len)
		}
		visit(c.Kind, q, s)
	}
	if !p.done(e.Product) || !g.done(e.Genomic) {
		return fmt.Errorf("%w: parts end at product %d genomic %d, exon is %s/%s",
			ErrTracebackLength, p.pos, g.pos, e.Product, e.Genomic)
	}
	return nil
}

// mismatches reads per-position mismatches on both rows.
func mismatches(rec *align.Record) ([]int, []int, error) {
	var q, s []int
	switch rec.Kind {
	case align.Dense:
		var err error
		if q, s, err = btopMismatches(rec); err != nil {
			return nil, nil, err
		}
	case align.Disc:
		for i, c := range rec.Children {
			cq, cs, err := mismatches(c)
			if err != nil {
				return nil, nil, fmt.Errorf("child %d: %w", i, err)
			}
			q, s = append(q, cq...), append(s, cs...)
		}
	case align.Spliced:
		for i, e := range rec.Exons {
			if len(e.Parts) == 0 {
				continue
			}
			err := walkExon(e, rec.Strands, func(k align.ChunkKind, qr, sr align.Range) {
				if k != align.Mismatch {
					return
				}
				for p := qr.From; p < qr.To; p++ {
					q = append(q, p)
				}
				for p := sr.From; p < sr.To; p++ {
					s = append(s, p)
				}
			})
			if err != nil {
				return nil, nil, fmt.Errorf("exon %d: %w", i, err)
			}
		}
	}
	return sortedUnique(q), sortedUnique(s), nil
}

// btopMismatches walks the traceback string. Each row steps +1 on Plus and
// -1 on Minus; the walk must land exactly on the declared end of both rows.
func btopMismatches(rec *align.Record) ([]int, []int, error) {
	tb, ok := rec.Traceback()
	if !ok {
		return nil, nil, ErrNoTraceback
	}
	ops, err := align.ParseBtop(tb)
	if err != nil {
		return nil, nil, err
	}
	qr, sr := rec.Range(align.Query), rec.Range(align.Subject)
	qc := newCursor(qr, rec.Strand(align.Query))
	sc := newCursor(sr, rec.Strand(align.Subject))
	var q, s []int
	for _, op := range ops {
		if op.IsRun() {
			qc.take(op.Match)
			sc.take(op.Match)
			continue
		}
		switch {
		case op.Q == '-':
			sc.take(1)
		case op.S == '-':
			qc.take(1)
		default:
			q = append(q, qc.take(1).From)
			s = append(s, sc.take(1).From)
		}
	}
	if !qc.done(qr) || !sc.done(sr) {
		return nil, nil, fmt.Errorf("%w: %q ends at query %d subject %d, alignment is %s/%s",
			ErrTracebackLength, tb, qc.pos, sc.pos, qr, sr)
	}
	return q, s, nil
}

func sortedUnique(ps []int) []int {
	if len(ps) == 0 {
		return nil
	}
	sort.Ints(ps)
	out := ps[:1]
	for _, p := range ps[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
