// pkg/api/results_v1.go
package api

// ClassifiedV1 is the stable JSON/JSONL schema for one classified alignment.
// Partners index Alignments of the same batch.
type ClassifiedV1 struct {
	Batch         int    `json:"batch"`
	GroupID       int    `json:"group_id"` // -1 when only in one source
	Class         string `json:"class"`    // "only" | "equivalent" | "overlap" | "overlap-better" | "overlap-worse"
	Set           string `json:"set"`      // "A" | "B"
	QueryID       string `json:"query_id"`
	SubjectID     string `json:"subject_id"`
	QueryStrand   string `json:"query_strand,omitempty"`
	SubjectStrand string `json:"subject_strand,omitempty"`
	QueryStart    int    `json:"query_start"`
	QueryEnd      int    `json:"query_end"`
	SubjectStart  int    `json:"subject_start"`
	SubjectEnd    int    `json:"subject_end"`
	Spans         int    `json:"spans"`
	Aligned       int    `json:"aligned"`
	Partners      []int  `json:"partners,omitempty"`
	Error         string `json:"error,omitempty"`
}

// GroupV1 is one batch as written by the json format.
type GroupV1 struct {
	Batch      int            `json:"batch"`
	Groups     []GroupInfoV1  `json:"groups,omitempty"`
	Alignments []ClassifiedV1 `json:"alignments"`
}

type GroupInfoV1 struct {
	ID      int    `json:"id"`
	Class   string `json:"class"`
	Members []int  `json:"members"`
	Common  int    `json:"common"`
	Overlap int    `json:"overlap"`
	UniqueA int    `json:"unique_a"`
	UniqueB int    `json:"unique_b"`
}

type CountV1 struct {
	Count int64 `json:"count"`
	Bases int64 `json:"bases"`
}

// StatsV1 is the end-of-run summary.
type StatsV1 struct {
	RunID            string  `json:"run_id"`
	Mode             string  `json:"mode"`
	OnlyA            CountV1 `json:"only_a"`
	OnlyB            CountV1 `json:"only_b"`
	EquivalentA      CountV1 `json:"equivalent_a"`
	EquivalentB      CountV1 `json:"equivalent_b"`
	OverlapA         CountV1 `json:"overlap_a"`
	OverlapB         CountV1 `json:"overlap_b"`
	EquivalentGroups int64   `json:"equivalent_groups"`
	OverlapGroups    int64   `json:"overlap_groups"`
	Common           int64   `json:"bases_common"`
	Overlap          int64   `json:"bases_overlap"`
	UniqueA          int64   `json:"bases_unique_a"`
	UniqueB          int64   `json:"bases_unique_b"`
}
