// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"alndiff/internal/appcore"
	"alndiff/internal/cli"
	"alndiff/internal/config"
	"alndiff/internal/logging"
	"alndiff/internal/version"
	"alndiff/internal/writers"
)

// exitError carries an exit code out of a cobra RunE. A nil err means the
// failure was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error { return &exitError{code: appcore.ExitUsage, err: err} }

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, context.Canceled) {
		return appcore.ExitCanceled
	}
	return appcore.ExitRuntime
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var o cli.Options
	root := &cobra.Command{
		Use:   "alndiff [flags] A B",
		Short: "Reconcile two sets of sequence alignments",
		Long: `alndiff compares two alignment files sorted by query, subject and
primary score. Alignments are grouped into equivalent and overlapping
classes; the rest are reported as present in one source only.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return usageError(fmt.Errorf("expected 2 inputs (A B), got %d", len(args)))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.InputA, o.InputB = args[0], args[1]
			return runCompare(cmd.Context(), cmd.Flags(), &o, stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.SetOut(stderr)
		_ = cmd.Usage()
		return usageError(err)
	})
	cli.Register(root.Flags(), &o)

	root.AddCommand(newSortCmd(stdout, stderr), newVersionCmd(stdout))
	return root
}

func runCompare(ctx context.Context, fs *pflag.FlagSet, o *cli.Options, stdout, stderr io.Writer) error {
	boot := logging.New(stderr, bootLevel(o))

	path := o.Config
	if path == "" {
		if p := config.DefaultPath(); p != "" {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	cfg, err := config.Load(path, boot)
	if err != nil {
		return usageError(err)
	}
	o.Apply(fs, &cfg)
	if err := cli.Validate(o, cfg); err != nil {
		return usageError(err)
	}
	rc, _ := cfg.Reconcile()
	fa, fb, _ := o.Formats()

	logger := logging.New(stderr, cli.LogLevel(cfg))
	code := appcore.Run(ctx, stdout, stderr, appcore.Options{
		InputA:          o.InputA,
		InputB:          o.InputB,
		FormatA:         fa,
		FormatB:         fb,
		Reconcile:       rc,
		Output:          cfg.Output.Format,
		Header:          cfg.Output.Header,
		Stats:           cfg.Output.Stats,
		StatsFile:       o.StatsFile,
		Progress:        o.Progress,
		NoMatchExitCode: cfg.Output.NoMatchExitCode,
	}, logger)
	if code != appcore.ExitOK {
		return &exitError{code: code}
	}
	return nil
}

func bootLevel(o *cli.Options) logging.LogLevel {
	switch {
	case o.Quiet:
		return logging.LevelError
	case o.Verbose:
		return logging.LevelDebug
	}
	return logging.LevelInfo
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of alndiff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(stdout, "alndiff version %s\n", version.Version)
			return err
		},
	}
}

// RunContext executes argv and returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	if len(argv) == 0 {
		argv = []string{"-h"}
	}
	root := newRootCmd(outw, stderr)
	root.SetArgs(argv)
	err := root.ExecuteContext(parent)
	if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) {
		fmt.Fprintln(stderr, e)
		return appcore.ExitRuntime
	}
	if err == nil {
		return appcore.ExitOK
	}
	var ee *exitError
	if !errors.As(err, &ee) || ee.err != nil {
		fmt.Fprintln(stderr, "error:", err)
	}
	return exitCode(err)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
