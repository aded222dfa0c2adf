// Package version holds the build version, set with
// -ldflags "-X alndiff/internal/version.Version=...".
package version

var Version = "dev"
