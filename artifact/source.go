// Package artifact loads the fitted preprocessor and model the allocator
// serves with.
package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var ErrNotFound = errors.New("artifact not found")

// Source hands out raw artifact payloads by name.
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Close() error
}

// FileSource reads artifacts from a directory. Names ending in .gz or .zst
// are decompressed transparently.
type FileSource struct {
	Dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Read(_ context.Context, name string) ([]byte, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.Dir, name)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return Decompress(name, payload)
}

func (s *FileSource) Close() error {
	return nil
}

// Decompress inflates payload according to the extension of name.
func Decompress(name string, payload []byte) ([]byte, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		r, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("gzip %s: %w", name, err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case strings.HasSuffix(name, ".zst"):
		d, err := zstd.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("zstd %s: %w", name, err)
		}
		defer d.Close()
		return io.ReadAll(d)
	default:
		return payload, nil
	}
}
