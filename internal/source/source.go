// Package source implements the local filesystem data source feeding an
// ingestion run.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local is a filesystem data source bound to a single path.
type Local struct{ path string }

// NewLocal returns a Local data source for the provided path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for sequential reading.
//
// Behavior:
//   - If ctx is already canceled, Open returns the context error without
//     touching the filesystem.
//   - Filesystem errors are wrapped with the path while preserving
//     errors.Is checks (e.g. errors.Is(err, os.ErrNotExist)).
//   - On Linux the kernel is hinted that the file will be scanned
//     sequentially.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	adviseSequential(f)
	return f, nil
}
