// internal/source/reader.go
package source

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"

	"alndiff/internal/align"
)

const (
	stdinName = "<stdin>"
	maxLine   = 64 << 20
)

type decodeFunc func(line []byte) (*align.Record, error)

func openStdin() io.ReadCloser { return io.NopCloser(os.Stdin) }

// openReader opens path, unwrapping gzip when the magic bytes say so.
func openReader(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(fh)
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gr, err := gzip.NewReader(br)
		if err != nil {
			fh.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return struct {
			io.Reader
			io.Closer
		}{Reader: gr, Closer: fh}, nil
	}
	return struct {
		io.Reader
		io.Closer
	}{Reader: br, Closer: fh}, nil
}

// Stream reads one record per line. Blank lines and lines starting with '#'
// are skipped.
type Stream struct {
	name   string
	rc     io.ReadCloser
	sc     *bufio.Scanner
	line   int
	decode decodeFunc
}

func newStream(name string, rc io.ReadCloser, decode decodeFunc) *Stream {
	s := &Stream{name: name, decode: decode}
	s.attach(rc)
	return s
}

func (s *Stream) attach(rc io.ReadCloser) {
	s.rc = rc
	s.sc = bufio.NewScanner(rc)
	s.sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	s.line = 0
}

func (s *Stream) Name() string { return s.name }

func (s *Stream) Next(ctx context.Context) (*align.Record, error) {
	for s.sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.line++
		b := s.sc.Bytes()
		if len(b) == 0 || b[0] == '#' {
			continue
		}
		rec, err := s.decode(b)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", s.name, s.line, err)
		}
		return rec, nil
	}
	if err := s.sc.Err(); err != nil {
		return nil, fmt.Errorf("%s:%d: %w", s.name, s.line, err)
	}
	return nil, io.EOF
}

func (s *Stream) Close() error { return s.rc.Close() }

// File is a Stream over a named file; it can be reopened from the start.
type File struct {
	*Stream
	path string
}

func openFile(path string, decode decodeFunc) (*File, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	return &File{Stream: newStream(path, rc, decode), path: path}, nil
}

func (f *File) Reset() error {
	_ = f.rc.Close()
	rc, err := openReader(f.path)
	if err != nil {
		return err
	}
	f.attach(rc)
	return nil
}

// Records is an in-memory source.
type Records struct {
	name string
	recs []*align.Record
	i    int
}

func NewRecords(name string, recs []*align.Record) *Records {
	return &Records{name: name, recs: recs}
}

func (r *Records) Name() string { return r.name }

func (r *Records) Next(ctx context.Context) (*align.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.i >= len(r.recs) {
		return nil, io.EOF
	}
	r.i++
	return r.recs[r.i-1], nil
}

func (r *Records) Reset() error {
	r.i = 0
	return nil
}

// ReadAll drains src.
func ReadAll(ctx context.Context, src Source) ([]*align.Record, error) {
	var out []*align.Record
	for {
		rec, err := src.Next(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}
