// internal/cliutil/cliutil.go
package cliutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrStdinTwice = errors.New("stdin (-) can only be given once")

func hasGlobMeta(s string) bool { return strings.ContainsAny(s, "*?[") }

// ExpandInputs expands globs among input paths, keeping order. "-" passes
// through, at most once. A glob that matches nothing is an error.
func ExpandInputs(args []string) ([]string, error) {
	var (
		out   []string
		stdin bool
	)
	for _, a := range args {
		switch {
		case a == "-":
			if stdin {
				return nil, ErrStdinTwice
			}
			stdin = true
			out = append(out, a)
		case hasGlobMeta(a):
			m, err := filepath.Glob(a)
			if err != nil {
				return nil, fmt.Errorf("bad glob %q: %w", a, err)
			}
			if len(m) == 0 {
				return nil, fmt.Errorf("no input matched %q", a)
			}
			out = append(out, m...)
		default:
			out = append(out, a)
		}
	}
	return out, nil
}
