// internal/writers/jsonl.go
package writers

import (
	"io"

	"alndiff/internal/group"
	"alndiff/internal/jsonlutil"
	"alndiff/internal/output"
	"alndiff/pkg/api"
)

func init() {
	Register(output.FormatJSONL, StartJSONLWriter)
}

// StartJSONLWriter streams each classified alignment as one JSON line (v1).
func StartJSONLWriter(out io.Writer, opt Options) (chan<- *group.Result, <-chan error) {
	return jsonlutil.Start[*group.Result, api.ClassifiedV1](out, opt.BufSize, output.ClassifiedRows, IsBrokenPipe)
}
