// internal/pipeline/grouper.go
package pipeline

import (
	"context"

	"alndiff/internal/group"
)

// Grouper is the minimal capability the pipeline needs.
// Any driver (including fakes in tests) can satisfy this.
type Grouper interface {
	NextGroup(ctx context.Context) (*group.Result, error)
}
