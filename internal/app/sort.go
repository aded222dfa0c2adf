// internal/app/sort.go
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"alndiff/internal/align"
	"alndiff/internal/appcore"
	"alndiff/internal/cliutil"
	"alndiff/internal/jsonlutil"
	"alndiff/internal/logging"
	"alndiff/internal/source"
	"alndiff/internal/writers"
	"alndiff/pkg/api"
)

type sortOptions struct {
	format  string
	primary string
	check   bool
	verbose bool
}

// newSortCmd orders alignment files by grouping key so they can be fed to
// the compare command. Output is always JSONL.
func newSortCmd(stdout, stderr io.Writer) *cobra.Command {
	var o sortOptions
	cmd := &cobra.Command{
		Use:   "sort [flags] FILE...",
		Short: "Sort alignments by query, subject and primary score",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageError(fmt.Errorf("sort needs at least one input"))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSort(cmd.Context(), o, args, stdout, stderr)
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&o.format, "format", "", "input format: jsonl | blast (default: by extension)")
	fs.StringVar(&o.primary, "primary", "", "score that orders alignments within a query/subject pair (match the compare --disambiguate list)")
	fs.BoolVar(&o.check, "check", false, "only report whether the input is already sorted")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log per-file record counts")
	return cmd
}

func runSort(ctx context.Context, o sortOptions, args []string, stdout, stderr io.Writer) error {
	level := logging.LevelWarn
	if o.verbose {
		level = logging.LevelDebug
	}
	log := logging.For(logging.New(stderr, level), logging.Source)

	paths, err := cliutil.ExpandInputs(args)
	if err != nil {
		return usageError(err)
	}
	f, err := source.ParseFormat(o.format)
	if err != nil {
		return usageError(err)
	}

	var recs []*align.Record
	for _, p := range paths {
		src, err := source.Open(p, f)
		if err != nil {
			return usageError(err)
		}
		got, err := source.ReadAll(ctx, src)
		closeQuietly(src)
		if err != nil {
			return err
		}
		log.Debug("read alignments", "path", p, "count", len(got))
		recs = append(recs, got...)
	}

	if o.check {
		if !source.Sorted(recs, o.primary) {
			fmt.Fprintln(stderr, "input is not sorted")
			return &exitError{code: 1}
		}
		return nil
	}

	source.Sort(recs, o.primary)
	in, done := jsonlutil.Start[*align.Record, api.AlignmentV1](stdout, 64, func(r *align.Record) []api.AlignmentV1 {
		return []api.AlignmentV1{source.ToAPI(r)}
	}, writers.IsBrokenPipe)
	for _, r := range recs {
		in <- r
	}
	close(in)
	if err := <-done; err != nil {
		return &exitError{code: appcore.ExitRuntime, err: err}
	}
	return nil
}

func closeQuietly(s source.Source) {
	if c, ok := s.(io.Closer); ok {
		_ = c.Close()
	}
}
