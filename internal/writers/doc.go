// Package writers streams classified batches to an output format.
//
// Each format registers a starter that owns one goroutine: the caller sends
// *group.Result values, closes the channel and reads a single error back.
// Rendering lives in internal/output and internal/pretty; JSON and JSONL go
// through the v1 types in pkg/api.
package writers
