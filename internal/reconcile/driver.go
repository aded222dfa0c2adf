// Package reconcile merges two key-sorted alignment sources and hands out
// one classified group at a time, keeping running statistics.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"alndiff/internal/boundary"
	"alndiff/internal/group"
	"alndiff/internal/logging"
	"alndiff/internal/source"
	"alndiff/internal/span"
)

// Stats are the running counters.
type Stats = group.Stats

// ErrNotResettable is returned by New when boundary splitting is requested
// over a source that cannot be read twice.
var ErrNotResettable = errors.New("source cannot be reset")

// KeyOrderError reports a source whose records are not sorted by grouping
// key. NextGroup panics with it.
type KeyOrderError struct {
	Source string
	Prev   span.Key
	Next   span.Key
}

func (e *KeyOrderError) Error() string {
	return fmt.Sprintf("%s: grouping key %s after %s: input is not sorted", e.Source, e.Next, e.Prev)
}

type side struct {
	src     source.Source
	set     span.Set
	head    *span.Alignment
	last    span.Key
	started bool
	done    bool
}

// Driver is the pull-based reconciliation state machine. It is not safe for
// concurrent use.
type Driver struct {
	cfg    Config
	opt    span.Options
	a, b   side
	bounds *boundary.Set

	stats   Stats
	batches int
	groups  int

	log      *slog.Logger
	extLog   *slog.Logger
	splitLog *slog.Logger
}

// New prepares a driver over a and b. With cfg.SplitBoundaries it also runs
// the boundary collect pass over both sources and resets them.
func New(ctx context.Context, cfg Config, a, b source.Source, logger *slog.Logger) (*Driver, error) {
	d := &Driver{
		cfg:      cfg,
		opt:      cfg.extractOptions(),
		a:        side{src: a, set: span.A},
		b:        side{src: b, set: span.B},
		log:      logging.For(logger, logging.Driver),
		extLog:   logging.For(logger, logging.Extract),
		splitLog: logging.For(logger, logging.Split),
	}
	if cfg.SplitBoundaries {
		if err := d.prescan(ctx); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Driver) prescan(ctx context.Context) error {
	ra, ok := d.a.src.(source.Resetter)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotResettable, d.a.src.Name())
	}
	rb, ok := d.b.src.(source.Resetter)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotResettable, d.b.src.Name())
	}

	var sa, sb *boundary.Set
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sa, err = boundary.Collect(gctx, d.a.src, span.A, d.opt)
		return err
	})
	g.Go(func() (err error) {
		sb, err = boundary.Collect(gctx, d.b.src, span.B, d.opt)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("boundary scan: %w", err)
	}
	sa.Merge(sb)
	d.bounds = sa

	if err := ra.Reset(); err != nil {
		return fmt.Errorf("reset %s: %w", d.a.src.Name(), err)
	}
	if err := rb.Reset(); err != nil {
		return fmt.Errorf("reset %s: %w", d.b.src.Name(), err)
	}
	d.log.Info("boundary scan done", "boundaries", d.bounds.Len())
	return nil
}

// fill loads the lookahead of s if it is empty.
func (d *Driver) fill(ctx context.Context, s *side) error {
	if s.head != nil || s.done {
		return nil
	}
	rec, err := s.src.Next(ctx)
	if errors.Is(err, io.EOF) {
		s.done = true
		return nil
	}
	if err != nil {
		return err
	}
	a, err := span.Extract(rec, s.set, d.opt)
	if err != nil {
		d.extLog.Warn("alignment has no usable spans", "source", s.src.Name(), "err", err)
	}
	k := a.Key()
	if s.started && k.Compare(s.last) < 0 {
		panic(&KeyOrderError{Source: s.src.Name(), Prev: s.last, Next: k})
	}
	s.head, s.last, s.started = a, k, true
	return nil
}

// take drains every alignment of s whose key is k.
func (d *Driver) take(ctx context.Context, s *side, k span.Key) ([]*span.Alignment, error) {
	var out []*span.Alignment
	for s.head != nil && s.head.Key().Compare(k) == 0 {
		out = append(out, s.head)
		s.head = nil
		if err := d.fill(ctx, s); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// NextGroup returns the next classified batch, or io.EOF once both sources
// are drained. A batch is either every alignment of one key found in only
// one source, or the classified union of both sides' alignments for a key
// present in both. With IgnoreAbsent, one-sided keys yield an empty batch.
func (d *Driver) NextGroup(ctx context.Context) (*group.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := d.fill(ctx, &d.a); err != nil {
		return nil, err
	}
	if err := d.fill(ctx, &d.b); err != nil {
		return nil, err
	}
	ha, hb := d.a.head, d.b.head
	if ha == nil && hb == nil {
		return nil, io.EOF
	}

	var (
		key    span.Key
		as, bs []*span.Alignment
		err    error
	)
	switch {
	case hb == nil || (ha != nil && ha.Key().Compare(hb.Key()) < 0):
		key = ha.Key()
		if as, err = d.take(ctx, &d.a, key); err != nil {
			return nil, err
		}
	case ha == nil || hb.Key().Compare(ha.Key()) < 0:
		key = hb.Key()
		if bs, err = d.take(ctx, &d.b, key); err != nil {
			return nil, err
		}
	default:
		key = ha.Key()
		if as, err = d.take(ctx, &d.a, key); err != nil {
			return nil, err
		}
		if bs, err = d.take(ctx, &d.b, key); err != nil {
			return nil, err
		}
		if d.bounds != nil {
			as, bs = d.split(as), d.split(bs)
		}
	}

	if d.cfg.IgnoreAbsent && (len(as) == 0 || len(bs) == 0) {
		return &group.Result{Batch: -1, Key: key}, nil
	}
	res := group.Accumulate(as, bs, d.cfg.groupConfig())
	res.Batch, res.Key = d.batches, key
	res.Renumber(d.groups)
	d.batches++
	d.groups += len(res.Groups)
	d.stats.Add(res.Stats)
	d.log.Debug("batch", "key", key, "alignments", len(res.Alignments), "groups", len(res.Groups))
	return res, nil
}

func (d *Driver) split(alns []*span.Alignment) []*span.Alignment {
	out := make([]*span.Alignment, 0, len(alns))
	for _, a := range alns {
		kids, err := boundary.Split(a, d.bounds, d.opt, d.cfg.Distributive)
		if err != nil {
			d.splitLog.Warn("cannot split alignment", "query", a.QueryID, "subject", a.SubjectID, "err", err)
		}
		out = append(out, kids...)
	}
	return out
}

// Stats returns a snapshot of the running counters.
func (d *Driver) Stats() Stats { return d.stats }

// Batches is the number of non-empty batches handed out.
func (d *Driver) Batches() int { return d.batches }
