// pkg/api/alignment_v1.go
package api

// AlignmentV1 is the stable JSONL input schema: one pairwise alignment per
// line. Coordinates are 0-based half-open. Keep fields, names, and types
// stable. Add new fields only with ",omitempty".
type AlignmentV1 struct {
	QueryID       string `json:"query_id"`
	SubjectID     string `json:"subject_id"`
	QueryStrand   string `json:"query_strand,omitempty"`   // "+" | "-" | "."
	SubjectStrand string `json:"subject_strand,omitempty"` // "+" | "-" | "."
	QueryStart    int    `json:"query_start"`
	QueryEnd      int    `json:"query_end"`
	SubjectStart  int    `json:"subject_start"`
	SubjectEnd    int    `json:"subject_end"`
	Type          string `json:"type,omitempty"` // "dense" (default) | "disc" | "spliced"

	Segments []SegmentV1   `json:"segments,omitempty"`
	Children []AlignmentV1 `json:"children,omitempty"`
	Exons    []ExonV1      `json:"exons,omitempty"`
	Btop     string        `json:"btop,omitempty"`

	IntScores  map[string]int64   `json:"int_scores,omitempty"`
	RealScores map[string]float64 `json:"real_scores,omitempty"`
}

// SegmentV1 is one dense block; a start of -1 is a gap on that row.
type SegmentV1 struct {
	QueryStart   int `json:"q"`
	SubjectStart int `json:"s"`
	Len          int `json:"len"`
}

type ExonV1 struct {
	ProductStart int       `json:"product_start"`
	ProductEnd   int       `json:"product_end"`
	GenomicStart int       `json:"genomic_start"`
	GenomicEnd   int       `json:"genomic_end"`
	Parts        []ChunkV1 `json:"parts,omitempty"`
}

type ChunkV1 struct {
	Kind string `json:"kind"` // "match" | "mismatch" | "product-ins" | "genomic-ins" | "diag"
	Len  int    `json:"len"`
}
