// internal/output/stats.go
package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"alndiff/internal/group"
	"alndiff/internal/jsonutil"
	"alndiff/internal/span"
	"alndiff/pkg/api"
)

// Stats output formats.
const (
	StatsTable = "table"
	StatsJSON  = "json"
	StatsNone  = "none"
)

func count(c group.Counter) api.CountV1 { return api.CountV1{Count: c.Count, Bases: c.Bases} }

func ToAPIStats(s group.Stats, runID string, mode span.Mode) api.StatsV1 {
	return api.StatsV1{
		RunID:            runID,
		Mode:             mode.String(),
		OnlyA:            count(s.Only[span.A]),
		OnlyB:            count(s.Only[span.B]),
		EquivalentA:      count(s.Equivalent[span.A]),
		EquivalentB:      count(s.Equivalent[span.B]),
		OverlapA:         count(s.Overlapping[span.A]),
		OverlapB:         count(s.Overlapping[span.B]),
		EquivalentGroups: s.EquivalentGroups,
		OverlapGroups:    s.OverlapGroups,
		Common:           s.Common,
		Overlap:          s.Overlap,
		UniqueA:          s.UniqueA,
		UniqueB:          s.UniqueB,
	}
}

// WriteStats renders s in format (table or json); none writes nothing.
func WriteStats(w io.Writer, format string, s api.StatsV1) error {
	switch format {
	case StatsNone:
		return nil
	case StatsJSON:
		return jsonutil.EncodePretty(w, s)
	case StatsTable:
		return writeStatsTable(w, s)
	}
	return fmt.Errorf("unsupported stats format %q", format)
}

func writeStatsTable(w io.Writer, s api.StatsV1) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("alndiff " + s.Mode + " (run " + s.RunID + ")")
	t.AppendHeader(table.Row{"Class", "A count", "A bases", "B count", "B bases"})
	t.AppendRows([]table.Row{
		{"only", s.OnlyA.Count, s.OnlyA.Bases, s.OnlyB.Count, s.OnlyB.Bases},
		{"equivalent", s.EquivalentA.Count, s.EquivalentA.Bases, s.EquivalentB.Count, s.EquivalentB.Bases},
		{"overlap", s.OverlapA.Count, s.OverlapA.Bases, s.OverlapB.Count, s.OverlapB.Bases},
	})
	t.AppendSeparator()
	t.AppendRow(table.Row{"groups", "equivalent", s.EquivalentGroups, "overlap", s.OverlapGroups})
	t.AppendFooter(table.Row{"bases", "common " + fmt.Sprint(s.Common), "overlap " + fmt.Sprint(s.Overlap),
		"unique A " + fmt.Sprint(s.UniqueA), "unique B " + fmt.Sprint(s.UniqueB)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	t.Render()
	return nil
}
