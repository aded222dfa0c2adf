// internal/source/blast.go
package source

import (
	"bytes"
	"fmt"
	"strconv"

	"alndiff/internal/align"
)

// BLAST tabular (-outfmt "6 std btop"): the twelve standard columns and an
// optional btop column. Coordinates are 1-based inclusive; a start past the
// end means the minus strand.
const (
	blastStd  = 12
	blastBtop = 13
)

func decodeBLAST(line []byte) (*align.Record, error) {
	f := bytes.Split(bytes.TrimRight(line, "\r"), []byte{'\t'})
	if len(f) != blastStd && len(f) != blastBtop {
		return nil, fmt.Errorf("bad field count %d", len(f))
	}
	r := &align.Record{
		IDs:  [2]string{string(f[0]), string(f[1])},
		Kind: align.Dense,
	}
	var n [7]int
	for i := range n {
		v, err := strconv.Atoi(string(f[3+i]))
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", 4+i, err)
		}
		n[i] = v
	}
	pident, err := strconv.ParseFloat(string(f[2]), 64)
	if err != nil {
		return nil, fmt.Errorf("column 3: %w", err)
	}
	evalue, err := strconv.ParseFloat(string(f[10]), 64)
	if err != nil {
		return nil, fmt.Errorf("column 11: %w", err)
	}
	bits, err := strconv.ParseFloat(string(f[11]), 64)
	if err != nil {
		return nil, fmt.Errorf("column 12: %w", err)
	}
	length, mism, gapo := n[0], n[1], n[2]
	qstart, qend, sstart, send := n[3], n[4], n[5], n[6]

	r.Bounds[align.Query], r.Strands[align.Query] = closed(qstart, qend)
	r.Bounds[align.Subject], r.Strands[align.Subject] = closed(sstart, send)
	r.Scores = []align.Score{
		align.RealScore("pct_identity", pident),
		align.IntScore("length", int64(length)),
		align.IntScore("mismatch", int64(mism)),
		align.IntScore("gap_opens", int64(gapo)),
		align.RealScore("e_value", evalue),
		align.RealScore("bit_score", bits),
	}

	if len(f) == blastBtop && len(f[12]) > 0 {
		r.Btop = string(f[12])
		if ops, err := align.ParseBtop(r.Btop); err == nil {
			segs := align.BtopSegments(ops, r.Bounds, r.Strands)
			rebuilt := &align.Record{Kind: align.Dense, Segments: segs}
			// A traceback that disagrees with the coordinates is left for
			// extraction to report.
			if rebuilt.Range(align.Query) == r.Bounds[align.Query] && rebuilt.Range(align.Subject) == r.Bounds[align.Subject] {
				r.Segments = segs
			}
		}
		return r, nil
	}
	if q, s := r.Bounds[align.Query], r.Bounds[align.Subject]; q.Len() == s.Len() {
		r.Segments = []align.Segment{{Starts: [2]int{q.From, s.From}, Len: q.Len()}}
	}
	return r, nil
}

// closed converts a 1-based inclusive BLAST pair into a half-open range.
func closed(start, end int) (align.Range, align.Strand) {
	if start > end {
		return align.Range{From: end - 1, To: start}, align.Minus
	}
	return align.Range{From: start - 1, To: end}, align.Plus
}
