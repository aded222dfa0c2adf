// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"

	"alndiff/internal/config"
	"alndiff/internal/logging"
	"alndiff/internal/output"
	"alndiff/internal/source"
)

// Options holds all CLI flags and arguments of the compare command.
type Options struct {
	// Inputs
	InputA  string
	InputB  string
	Format  string
	FormatA string
	FormatB string
	Config  string

	// Reconciliation
	Mode            string
	Rows            string
	OverlapRows     string
	Strict          bool
	RealTolerance   float64
	Disambiguating  []string
	Quality         []string
	Distributive    []string
	IgnoreAbsent    bool
	SplitBoundaries bool

	// Output
	Output          string
	NoHeader        bool
	Stats           string
	StatsFile       string
	Progress        bool
	NoMatchExitCode int

	// Logging
	Quiet   bool
	Verbose bool
}

// Register wires the compare flags onto fs. Defaults shown are those of an
// empty config file; values from --config apply unless the flag is set.
func Register(fs *pflag.FlagSet, o *Options) {
	d := config.Default()

	fs.StringVar(&o.Format, "format", "", "input format for both sources: jsonl | blast (default: by extension)")
	fs.StringVar(&o.FormatA, "format-a", "", "input format for source A (overrides --format)")
	fs.StringVar(&o.FormatB, "format-b", "", "input format for source B (overrides --format)")
	fs.StringVarP(&o.Config, "config", "c", "", "YAML config file (default: user config dir, if present)")

	fs.StringVarP(&o.Mode, "mode", "m", d.Mode, "span granularity: span | exon | interval | intron | full")
	fs.StringVar(&o.Rows, "rows", d.Rows, "rows to extract: both | query | subject")
	fs.StringVar(&o.OverlapRows, "overlap-rows", d.OverlapRows, "rows whose ranges must intersect to compare: both | query | subject")
	fs.BoolVar(&o.Strict, "strict", d.Strict, "resolve exact matches first and never share an equivalent partner")
	fs.Float64Var(&o.RealTolerance, "real-tolerance", d.RealTolerance, "relative tolerance for real-valued scores")
	fs.StringSliceVar(&o.Disambiguating, "disambiguate", d.Disambiguating, "disambiguating scores; the first joins the grouping key (default: key is query and subject id only)")
	fs.StringSliceVar(&o.Quality, "quality", d.Quality, "quality scores used to rank overlapping alignments, higher is better; prefix a name with - when lower is better (e.g. -e_value)")
	fs.StringSliceVar(&o.Distributive, "distributive", d.Distributive, "scores copied onto boundary slices")
	fs.BoolVar(&o.IgnoreAbsent, "ignore-absent", d.IgnoreAbsent, "do not report keys present in only one source")
	fs.BoolVarP(&o.SplitBoundaries, "split-boundaries", "s", d.SplitBoundaries, "pre-scan both inputs and split alignments at shared boundaries")

	fs.StringVarP(&o.Output, "output", "o", d.Output.Format, "output format: text | json | jsonl | pretty")
	fs.BoolVar(&o.NoHeader, "no-header", !d.Output.Header, "suppress header line in text output")
	fs.StringVar(&o.Stats, "stats", d.Output.Stats, "statistics on stderr: table | json | none")
	fs.StringVar(&o.StatsFile, "stats-file", "", "also write statistics as JSON to this file")
	fs.BoolVar(&o.Progress, "progress", false, "show a spinner during the boundary pre-scan (terminal only)")
	fs.IntVar(&o.NoMatchExitCode, "no-match-exit-code", d.Output.NoMatchExitCode, "exit code when no alignment matched across sources")

	fs.BoolVarP(&o.Quiet, "quiet", "q", false, "only log errors")
	fs.BoolVarP(&o.Verbose, "verbose", "v", false, "log debug detail")
}

// Apply copies every flag the user set onto cfg.
func (o *Options) Apply(fs *pflag.FlagSet, cfg *config.Config) {
	set := func(name string, fn func()) {
		if fs.Changed(name) {
			fn()
		}
	}
	set("mode", func() { cfg.Mode = o.Mode })
	set("rows", func() { cfg.Rows = o.Rows })
	set("overlap-rows", func() { cfg.OverlapRows = o.OverlapRows })
	set("strict", func() { cfg.Strict = o.Strict })
	set("real-tolerance", func() { cfg.RealTolerance = o.RealTolerance })
	set("disambiguate", func() { cfg.Disambiguating = o.Disambiguating })
	set("quality", func() { cfg.Quality = o.Quality })
	set("distributive", func() { cfg.Distributive = o.Distributive })
	set("ignore-absent", func() { cfg.IgnoreAbsent = o.IgnoreAbsent })
	set("split-boundaries", func() { cfg.SplitBoundaries = o.SplitBoundaries })
	set("output", func() { cfg.Output.Format = o.Output })
	set("no-header", func() { cfg.Output.Header = !o.NoHeader })
	set("stats", func() { cfg.Output.Stats = o.Stats })
	set("no-match-exit-code", func() { cfg.Output.NoMatchExitCode = o.NoMatchExitCode })
	switch {
	case o.Quiet:
		cfg.Log.Level = "error"
	case o.Verbose:
		cfg.Log.Level = "debug"
	}
}

// LogLevel is the level implied by --quiet/--verbose, or by cfg otherwise.
func LogLevel(cfg config.Config) logging.LogLevel {
	l, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return logging.LevelInfo
	}
	return l
}

// Formats resolves the input format of each source.
func (o *Options) Formats() (a, b source.Format, err error) {
	pick := func(specific string) (source.Format, error) {
		if specific != "" {
			return source.ParseFormat(specific)
		}
		return source.ParseFormat(o.Format)
	}
	if a, err = pick(o.FormatA); err != nil {
		return
	}
	b, err = pick(o.FormatB)
	return
}

// Validate checks a fully merged configuration.
func Validate(o *Options, cfg config.Config) error {
	if o.InputA == "-" && o.InputB == "-" {
		return errors.New("only one input can be read from stdin")
	}
	if o.Quiet && o.Verbose {
		return errors.New("--quiet conflicts with --verbose")
	}
	if !slices.Contains([]string{output.FormatText, output.FormatJSON, output.FormatJSONL, output.FormatPretty}, cfg.Output.Format) {
		return fmt.Errorf("invalid --output %q", cfg.Output.Format)
	}
	if !slices.Contains([]string{output.StatsTable, output.StatsJSON, output.StatsNone}, cfg.Output.Stats) {
		return fmt.Errorf("invalid --stats %q", cfg.Output.Stats)
	}
	if cfg.Output.NoMatchExitCode < 0 || cfg.Output.NoMatchExitCode > 125 {
		return errors.New("--no-match-exit-code must be between 0 and 125")
	}
	if cfg.SplitBoundaries && (o.InputA == "-" || o.InputB == "-") {
		return errors.New("--split-boundaries reads each input twice and cannot use stdin")
	}
	if _, _, err := o.Formats(); err != nil {
		return err
	}
	_, err := cfg.Reconcile()
	return err
}
