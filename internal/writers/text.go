// internal/writers/text.go
package writers

import (
	"io"

	"alndiff/internal/group"
	"alndiff/internal/output"
)

func init() {
	Register(output.FormatText, StartTextWriter)
	Register(output.FormatJSON, StartJSONWriter)
}

// StartTextWriter streams TSV rows as batches arrive.
func StartTextWriter(out io.Writer, opt Options) (chan<- *group.Result, <-chan error) {
	in := make(chan *group.Result, opt.BufSize)
	errCh := make(chan error, 1)
	go func() {
		err := output.StreamText(out, in, opt.Header)
		drain(in)
		errCh <- err
	}()
	return in, errCh
}

// StartJSONWriter buffers every batch and writes one JSON array at the end.
func StartJSONWriter(out io.Writer, opt Options) (chan<- *group.Result, <-chan error) {
	in := make(chan *group.Result, opt.BufSize)
	errCh := make(chan error, 1)
	go func() {
		var buf []*group.Result
		for r := range in {
			buf = append(buf, r)
		}
		errCh <- output.WriteJSON(out, buf)
	}()
	return in, errCh
}
