// internal/reconcile/config.go
package reconcile

import (
	"alndiff/internal/group"
	"alndiff/internal/span"
)

// Config is the reconciliation value object.
type Config struct {
	Mode span.Mode
	// Rows selects which rows are populated during extraction.
	Rows span.Rows
	// OverlapRows picks the rows whose ranges must intersect for two
	// alignments to be compared.
	OverlapRows   span.Rows
	Strict        bool
	RealTolerance float64
	// Disambiguating scores: the first joins the grouping key, all of them
	// are carried on each alignment. Empty by default, so the key is just
	// the query and subject ids.
	Disambiguating []string
	// Quality scores break ties between overlapping alignments. Higher wins
	// unless the name carries a leading '-'.
	Quality []string
	// Distributive scores survive boundary splitting.
	Distributive    []string
	IgnoreAbsent    bool
	SplitBoundaries bool
}

const DefaultRealTolerance = 1e-6

func DefaultConfig() Config {
	return Config{
		Mode:          span.ModeInterval,
		RealTolerance: DefaultRealTolerance,
	}
}

// Primary is the score name that joins the grouping key, or "".
func (c Config) Primary() string {
	if len(c.Disambiguating) == 0 {
		return ""
	}
	return c.Disambiguating[0]
}

func (c Config) extractOptions() span.Options {
	return span.Options{
		Mode:           c.Mode,
		Rows:           c.Rows,
		Disambiguating: c.Disambiguating,
		Quality:        c.Quality,
	}
}

func (c Config) groupConfig() group.Config {
	return group.Config{OverlapRows: c.OverlapRows, Strict: c.Strict, RealTolerance: c.RealTolerance}
}
