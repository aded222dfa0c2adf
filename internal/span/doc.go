// Package span turns raw alignment records into normalized alignments: ordered,
// non-overlapping (subject range -> query range) entries plus mismatch
// positions, at one of five granularities. It is domain-only; keep it free of
// source, output and app imports.
package span
