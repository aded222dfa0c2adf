// internal/output/common.go
package output

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	// FormatPretty draws ASCII tracks per batch.
	FormatPretty = "pretty"
)

// TSVHeader is the canonical header row for text output.
// Keep this as the single source of truth; all writers should use it.
const TSVHeader = "batch\tgroup\tclass\tset\tquery_id\tsubject_id\tqstart\tqend\tsstart\tsend\tspans\taligned\tpartners"
