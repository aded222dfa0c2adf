// internal/writers/pretty.go
package writers

import (
	"io"

	"alndiff/internal/group"
	"alndiff/internal/output"
	"alndiff/internal/pretty"
)

func init() {
	Register(output.FormatPretty, StartPrettyWriter)
}

// StartPrettyWriter draws each batch as ASCII tracks. Header is ignored.
func StartPrettyWriter(out io.Writer, opt Options) (chan<- *group.Result, <-chan error) {
	in := make(chan *group.Result, opt.BufSize)
	errCh := make(chan error, 1)
	go func() {
		var err error
		for r := range in {
			if _, err = io.WriteString(out, pretty.RenderBatch(r, pretty.DefaultOptions)); err != nil {
				break
			}
		}
		drain(in)
		errCh <- err
	}()
	return in, errCh
}
