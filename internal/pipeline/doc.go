// Package pipeline drains a Grouper (the reconcile driver or a fake) batch
// by batch and calls a visit callback.
//
// The only contract to implement is Grouper (NextGroup).
// This keeps the pipeline swappable and testable.
package pipeline
