// internal/source/sort.go
package source

import (
	"slices"

	"alndiff/internal/align"
	"alndiff/internal/span"
)

// Sort orders recs by grouping key (query id, subject id, primary score),
// keeping input order among equal keys.
func Sort(recs []*align.Record, primary string) {
	slices.SortStableFunc(recs, func(a, b *align.Record) int {
		return span.KeyOf(a, primary).Compare(span.KeyOf(b, primary))
	})
}

// Sorted reports whether recs are already in grouping-key order.
func Sorted(recs []*align.Record, primary string) bool {
	return slices.IsSortedFunc(recs, func(a, b *align.Record) int {
		return span.KeyOf(a, primary).Compare(span.KeyOf(b, primary))
	})
}
