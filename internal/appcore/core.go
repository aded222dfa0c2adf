// internal/appcore/core.go
package appcore

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	"golang.org/x/term"

	"alndiff/internal/group"
	"alndiff/internal/jsonutil"
	"alndiff/internal/logging"
	"alndiff/internal/output"
	"alndiff/internal/pipeline"
	"alndiff/internal/reconcile"
	"alndiff/internal/source"
	"alndiff/internal/writers"
)

// Options is everything one compare run needs once flags and config are
// merged.
type Options struct {
	InputA, InputB   string
	FormatA, FormatB source.Format

	Reconcile reconcile.Config

	Output          string
	Header          bool
	Stats           string
	StatsFile       string
	Progress        bool
	NoMatchExitCode int
}

// Exit codes shared by every subcommand.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

const writerBuf = 64

// Run reconciles InputA against InputB, streams the batches to stdout and
// writes statistics to stderr. It returns the process exit code.
func Run(parent context.Context, stdout, stderr io.Writer, o Options, logger *slog.Logger) int {
	a, err := source.Open(o.InputA, o.FormatA)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return ExitUsage
	}
	defer closeSource(a)
	b, err := source.Open(o.InputB, o.FormatB)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return ExitUsage
	}
	defer closeSource(b)

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	stop := startProgress(stderr, o.Progress && o.Reconcile.SplitBoundaries)
	drv, err := reconcile.New(ctx, o.Reconcile, a, b, logger)
	stop()
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			return ExitCanceled
		case errors.Is(err, reconcile.ErrNotResettable):
			fmt.Fprintln(stderr, "error:", err)
			return ExitUsage
		}
		fmt.Fprintln(stderr, "error:", err)
		return ExitRuntime
	}

	outw := bufio.NewWriter(stdout)
	inCh, writeErr := writers.Start(o.Output, outw, writers.Options{Header: o.Header, BufSize: writerBuf})

	_, perr := drain(ctx, drv, pipeline.Send(ctx, inCh))
	close(inCh)

	if werr := <-writeErr; writers.IsBrokenPipe(werr) {
		return ExitOK
	} else if werr != nil {
		fmt.Fprintln(stderr, werr)
		return ExitRuntime
	}
	if e := outw.Flush(); writers.IsBrokenPipe(e) {
		return ExitOK
	} else if e != nil {
		fmt.Fprintln(stderr, e)
		return ExitRuntime
	}

	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			return ExitCanceled
		}
		fmt.Fprintln(stderr, "error:", perr)
		return ExitRuntime
	}

	st := drv.Stats()
	report := output.ToAPIStats(st, uuid.NewString(), o.Reconcile.Mode)
	if err := output.WriteStats(stderr, o.Stats, report); err != nil {
		fmt.Fprintln(stderr, err)
		return ExitRuntime
	}
	if o.StatsFile != "" {
		if err := jsonutil.WriteFile(o.StatsFile, report); err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return ExitRuntime
		}
	}
	logging.For(logger, logging.App).Debug("run finished", "run_id", report.RunID, "batches", drv.Batches(), "alignments", st.Alignments())

	if st.Matched() == 0 {
		return o.NoMatchExitCode
	}
	return ExitOK
}

// drain runs the pipeline, turning an unsorted-input panic from the driver
// into an error so the writer still shuts down cleanly.
func drain(ctx context.Context, drv *reconcile.Driver, visit func(*group.Result) error) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			koe, ok := r.(*reconcile.KeyOrderError)
			if !ok {
				panic(r)
			}
			err = koe
		}
	}()
	return pipeline.ForEachGroup(ctx, drv, visit)
}

func closeSource(s source.Source) {
	if c, ok := s.(io.Closer); ok {
		_ = c.Close()
	}
}

// startProgress shows a spinner on w while the boundary pre-scan runs. It
// is a no-op unless w is a terminal.
func startProgress(w io.Writer, enabled bool) func() {
	f, ok := w.(*os.File)
	if !enabled || !ok || !term.IsTerminal(int(f.Fd())) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(f))
	s.Suffix = " Scanning alignment boundaries..."
	s.Start()
	return s.Stop
}
