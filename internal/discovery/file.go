// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultMaxFileSize is the largest resource file read when Config.MaxFileSize is unset.
const DefaultMaxFileSize int64 = 32 << 20

// ErrFileTooLarge is returned by File.Text for files above the size ceiling.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// File is a discovered resource file. Its text is read on every call to Text;
// nothing is cached.
type File struct {
	path    string
	rel     string
	maxSize int64
}

// NewFile returns a File for an absolute path, for callers that bypass the walk.
func NewFile(path string, maxSize int64) *File {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &File{path: path, rel: path, maxSize: maxSize}
}

// Path returns the absolute path.
func (f *File) Path() string { return f.path }

// Rel returns the path relative to the discovery root, slash-separated.
func (f *File) Rel() string { return f.rel }

// Text reads the file and decodes it to UTF-8. A byte order mark selects
// UTF-16 decoding; without one the content is taken as UTF-8. The context is
// checked before the read starts.
func (f *File) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fh, err := os.Open(f.path)
	if err != nil {
		return "", err
	}
	defer fh.Close() //nolint:errcheck // read-only handle

	info, err := fh.Stat()
	if err != nil {
		return "", err
	}
	if info.Size() > f.maxSize {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, info.Size(), f.maxSize)
	}

	decoded := transform.NewReader(io.LimitReader(fh, f.maxSize), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	data, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return string(data), nil
}
