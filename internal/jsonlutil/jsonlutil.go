// internal/jsonlutil/jsonlutil.go
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// Reuse a 64 KiB buffered writer across JSONL writers to avoid per-writer mallocs.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// Start spins up a JSONL encoder goroutine. Each value received is expanded
// by rows into zero or more wire values, one JSON line each.
//   - isBroken: recognizer for broken/closed pipe errors. Once the reader is
//     gone the rest of the input is drained and discarded so senders never
//     block, and the writer reports success.
func Start[T, W any](out io.Writer, bufSize int, rows func(T) []W, isBroken func(error) bool) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		enc := json.NewEncoder(bw)
		var werr error
		for v := range in {
			if werr != nil {
				continue
			}
			for _, row := range rows(v) {
				if werr = enc.Encode(row); werr != nil {
					break
				}
			}
		}
		if werr == nil {
			werr = bw.Flush()
		}
		if werr != nil && isBroken(werr) {
			werr = nil
		}
		done <- werr
	}()

	return in, done
}
