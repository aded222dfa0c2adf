// internal/align/btop.go
package align

import (
	"errors"
	"fmt"
)

// ErrBadTraceback marks a btop string that cannot be decoded.
var ErrBadTraceback = errors.New("bad traceback")

// Op is one decoded btop step: a run of Match identical columns, or a single
// column pairing query base Q with subject base S ('-' for a gap).
type Op struct {
	Match int
	Q, S  byte
}

func (o Op) IsRun() bool { return o.Match > 0 }

// ParseBtop decodes a BLAST traceback operations string such as "7AG12-T3".
// Digit runs are identical stretches; every other pair of characters is one
// mismatch or indel column.
func ParseBtop(s string) ([]Op, error) {
	var ops []Op
	for i := 0; i < len(s); {
		c := s[i]
		if c >= '0' && c <= '9' {
			n := 0
			for i < len(s) && s[i] >= '0' && s[i] <= '9' {
				n = n*10 + int(s[i]-'0')
				i++
			}
			if n > 0 {
				ops = append(ops, Op{Match: n})
			}
			continue
		}
		if i+1 >= len(s) {
			return nil, fmt.Errorf("%w: dangling %q at %d", ErrBadTraceback, c, i)
		}
		q, sb := s[i], s[i+1]
		if (q >= '0' && q <= '9') || (sb >= '0' && sb <= '9') {
			return nil, fmt.Errorf("%w: digit inside pair at %d", ErrBadTraceback, i)
		}
		if q == '-' && sb == '-' {
			return nil, fmt.Errorf("%w: gap on both rows at %d", ErrBadTraceback, i)
		}
		ops = append(ops, Op{Q: q, S: sb})
		i += 2
	}
	return ops, nil
}

// BtopSegments rebuilds dense segments from decoded btop ops, starting at the
// alignment-order origin of each row (From on Plus, To on Minus).
func BtopSegments(ops []Op, bounds [2]Range, strands [2]Strand) []Segment {
	var cur [2]int
	for row := Query; row <= Subject; row++ {
		if strands[row] == Minus {
			cur[row] = bounds[row].To
		} else {
			cur[row] = bounds[row].From
		}
	}
	var segs []Segment
	// open tracks which rows carry bases in the segment being built.
	var open [2]bool
	n := 0
	flush := func() {
		if n == 0 {
			return
		}
		var s Segment
		s.Len = n
		for row := Query; row <= Subject; row++ {
			if !open[row] {
				s.Starts[row] = -1
				continue
			}
			if strands[row] == Minus {
				cur[row] -= n
				s.Starts[row] = cur[row]
			} else {
				s.Starts[row] = cur[row]
				cur[row] += n
			}
		}
		segs = append(segs, s)
		n = 0
	}
	step := func(q, s bool, k int) {
		if n > 0 && (open[Query] != q || open[Subject] != s) {
			flush()
		}
		open = [2]bool{q, s}
		n += k
	}
	for _, op := range ops {
		if op.IsRun() {
			step(true, true, op.Match)
			continue
		}
		step(op.Q != '-', op.S != '-', 1)
	}
	flush()
	return segs
}
