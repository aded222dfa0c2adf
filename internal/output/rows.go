// internal/output/rows.go
package output

import (
	"fmt"
	"strconv"
	"strings"

	"alndiff/pkg/api"
)

func IntsCSV(a []int) string {
	if len(a) == 0 {
		return "-"
	}
	ss := make([]string, len(a))
	for i, v := range a {
		ss[i] = strconv.Itoa(v)
	}
	return strings.Join(ss, ",")
}

// FormatRowTSV returns one text row (no trailing newline). The group column
// is "-" for alignments found in one source only.
func FormatRowTSV(c api.ClassifiedV1) string {
	g := "-"
	if c.GroupID >= 0 {
		g = strconv.Itoa(c.GroupID)
	}
	return fmt.Sprintf("%d\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%s",
		c.Batch, g, c.Class, c.Set,
		c.QueryID, c.SubjectID,
		c.QueryStart, c.QueryEnd, c.SubjectStart, c.SubjectEnd,
		c.Spans, c.Aligned, IntsCSV(c.Partners),
	)
}
