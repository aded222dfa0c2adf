// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"alndiff/internal/group"
)

// Options configure a batch writer.
type Options struct {
	Header  bool
	BufSize int
}

// StartFunc spins up a writer goroutine. The caller sends batches, closes
// the channel, then reads exactly one error.
type StartFunc func(out io.Writer, opt Options) (chan<- *group.Result, <-chan error)

// Writer registry (format → starter). Formats register in init() blocks.
var registry = map[string]StartFunc{}

// Register is idempotent, last wins.
func Register(format string, fn StartFunc) { registry[format] = fn }

// Formats lists the registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Start dispatches to the writer registered for format. An unknown format
// yields a writer that discards its input and reports the error.
func Start(format string, out io.Writer, opt Options) (chan<- *group.Result, <-chan error) {
	if opt.BufSize <= 0 {
		opt.BufSize = 64
	}
	if fn, ok := registry[format]; ok {
		return fn(out, opt)
	}
	return failed(fmt.Errorf("unknown output format %q (no writer registered)", format), opt.BufSize)
}

func failed(err error, bufSize int) (chan<- *group.Result, <-chan error) {
	in := make(chan *group.Result, bufSize)
	done := make(chan error, 1)
	go func() {
		for range in {
		}
		done <- err
	}()
	return in, done
}

// drain empties in after a write failure so senders do not block.
func drain(in <-chan *group.Result) {
	for range in {
	}
}
