// Package source reads header and feature files for the compiler. It is
// the only place path-to-bytes I/O happens — everything downstream of it
// takes []byte, keeping the parsers themselves filesystem-agnostic.
package source

import (
	"context"
	"fmt"

	"github.com/viant/afs"
)

// Reader fetches file contents by path. It wraps afs.Service so the same
// code path that reads a local header today can read one from cloud storage
// without the compiler core changing at all.
type Reader struct {
	fs afs.Service
}

// NewReader constructs a Reader backed by afs's default local+remote dispatch.
func NewReader() *Reader {
	return &Reader{fs: afs.New()}
}

// ReadFile downloads the content at path. Errors are wrapped with the path
// so a caller walking many files can report which one failed.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := r.fs.DownloadWithURL(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	return data, nil
}

// ReadAll reads every path in order, stopping at the first error.
func (r *Reader) ReadAll(ctx context.Context, paths []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(paths))
	for _, p := range paths {
		data, err := r.ReadFile(ctx, p)
		if err != nil {
			return nil, err
		}
		out[p] = data
	}
	return out, nil
}
