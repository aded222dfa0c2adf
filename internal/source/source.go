// Package source reads pairwise alignment records from JSONL or BLAST
// tabular files, plain or gzipped, or from memory.
package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"alndiff/internal/align"
)

// Source yields records in grouping-key order. Next returns io.EOF at the end.
type Source interface {
	Next(ctx context.Context) (*align.Record, error)
	Name() string
}

// Resetter is implemented by sources that can be read again from the start.
type Resetter interface {
	Reset() error
}

// Format is an input file format.
type Format string

const (
	FormatAuto  Format = ""
	FormatJSONL Format = "jsonl"
	FormatBLAST Format = "blast"
)

var ErrUnknownFormat = errors.New("cannot tell input format")

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "jsonl", "json":
		return FormatJSONL, nil
	case "blast", "tsv", "outfmt6":
		return FormatBLAST, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Detect guesses a format from the file extension, ignoring a trailing .gz.
func Detect(path string) (Format, error) {
	p := strings.TrimSuffix(strings.ToLower(path), ".gz")
	switch filepath.Ext(p) {
	case ".jsonl", ".json", ".ndjson":
		return FormatJSONL, nil
	case ".tsv", ".blast", ".outfmt6", ".m8", ".txt":
		return FormatBLAST, nil
	}
	return FormatAuto, fmt.Errorf("%w: %s (use --format)", ErrUnknownFormat, path)
}

func (f Format) decoder() decodeFunc {
	if f == FormatBLAST {
		return decodeBLAST
	}
	return decodeJSONL
}

// Open returns a source over path. "-" reads stdin, which cannot be reset.
func Open(path string, f Format) (Source, error) {
	if f == FormatAuto {
		if path == "-" {
			f = FormatJSONL
		} else {
			var err error
			if f, err = Detect(path); err != nil {
				return nil, err
			}
		}
	}
	if path == "-" {
		return newStream(stdinName, openStdin(), f.decoder()), nil
	}
	return openFile(path, f.decoder())
}
