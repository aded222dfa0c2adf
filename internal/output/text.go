// internal/output/text.go
package output

import (
	"fmt"
	"io"

	"alndiff/internal/group"
)

// StreamText writes each batch as TSV rows as it arrives.
func StreamText(w io.Writer, in <-chan *group.Result, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for res := range in {
		for _, row := range ClassifiedRows(res) {
			if _, err := fmt.Fprintln(w, FormatRowTSV(row)); err != nil {
				return err
			}
		}
	}
	return nil
}
