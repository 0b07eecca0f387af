// Package source provides the random-access byte source the Allocator reads
// through. A ByteSource carries a logical name (the path, typically) that
// feeds the provenance tracker's content hash.
package source

import (
	"fmt"
	"io"
	"os"
)

// ByteSource is a random-access, read-only view over a fixed-size byte
// stream plus the logical name used in provenance hashing and reporting.
type ByteSource interface {
	io.ReaderAt
	io.Closer

	// Size returns the total number of bytes available.
	Size() int64

	// Name is the logical source identifier (typically a file path).
	Name() string
}

// fileSource wraps an *os.File.
type fileSource struct {
	file *os.File
	size int64
	name string
}

// OpenFile opens path for random-access reading.
func OpenFile(path string) (ByteSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	return &fileSource{file: f, size: stat.Size(), name: path}, nil
}

func (f *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return f.file.ReadAt(p, off)
}

func (f *fileSource) Size() int64 {
	return f.size
}

func (f *fileSource) Name() string {
	return f.name
}

func (f *fileSource) Close() error {
	return f.file.Close()
}

// memorySource wraps an in-memory buffer; used by tests and by callers that
// already hold the file contents (e.g. extracted from an image).
type memorySource struct {
	data []byte
	name string
}

// NewMemorySource builds a ByteSource over data, reporting name as its
// logical identifier.
func NewMemorySource(data []byte, name string) ByteSource {
	return &memorySource{data: data, name: name}
}

func (m *memorySource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("source: negative offset %d", off)
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memorySource) Size() int64 {
	return int64(len(m.data))
}

func (m *memorySource) Name() string {
	return m.name
}

func (m *memorySource) Close() error {
	return nil
}
