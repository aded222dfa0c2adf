// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"io"

	"alndiff/internal/group"
)

// ForEachGroup pulls batches from g until io.EOF and hands every non-empty
// one to visit. It stops at the first error from g or visit, or when ctx is
// done, and returns the number of alignments visited.
func ForEachGroup(ctx context.Context, g Grouper, visit func(*group.Result) error) (int, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		res, err := g.NextGroup(ctx)
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		if len(res.Alignments) == 0 {
			continue
		}
		if err := visit(res); err != nil {
			return total, err
		}
		total += len(res.Alignments)
	}
}

// Send returns a visit func that forwards batches to ch, giving up when ctx
// is done.
func Send(ctx context.Context, ch chan<- *group.Result) func(*group.Result) error {
	return func(r *group.Result) error {
		select {
		case ch <- r:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
