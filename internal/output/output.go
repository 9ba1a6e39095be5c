// SPDX-License-Identifier: MPL-2.0

package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/invowk/resxgen/internal/generator"
)

const (
	// StatusWritten means the file was created or replaced.
	StatusWritten Status = "written"
	// StatusUnchanged means the file already held the generated bytes.
	StatusUnchanged Status = "unchanged"
	// StatusStale means the file differs from the generated bytes (check mode).
	StatusStale Status = "stale"
	// StatusMissing means the file does not exist (check mode).
	StatusMissing Status = "missing"
)

// ErrStale is returned by Check when any output is stale or missing.
var ErrStale = errors.New("generated files are out of date")

type (
	// Status is the outcome for one unit.
	Status string

	// Writer places units relative to a project root.
	Writer struct {
		// Root is the project directory.
		Root string
		// OutDir, when set, receives every unit under the family's directory
		// relative to Root. Families outside Root land directly in OutDir.
		OutDir string
		// Logger receives per-file debug output. Nil means slog.Default().
		Logger *slog.Logger
	}

	// Entry reports what happened to one unit.
	Entry struct {
		Path   string
		Status Status
	}

	// Report lists the per-unit outcomes in unit order.
	Report struct {
		Entries []Entry
	}
)

// Path returns the file a unit is written to.
func (w *Writer) Path(u generator.Unit) string {
	if w.OutDir == "" {
		return filepath.Join(u.Dir, u.Name)
	}
	rel, err := filepath.Rel(w.Root, u.Dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.Join(w.OutDir, u.Name)
	}
	return filepath.Join(w.OutDir, rel, u.Name)
}

// Write writes every unit whose file content differs. It stops at the first
// failure or when ctx is cancelled; the report covers the units handled so far.
func (w *Writer) Write(ctx context.Context, units []generator.Unit) (Report, error) {
	var rep Report
	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		path := w.Path(u)
		status, err := writeIfChanged(path, []byte(u.Text))
		if err != nil {
			return rep, fmt.Errorf("write %s: %w", path, err)
		}
		w.logger().Debug("unit", "path", path, "status", status)
		rep.Entries = append(rep.Entries, Entry{Path: path, Status: status})
	}
	return rep, nil
}

// Check compares every unit with its file without writing. The returned
// error wraps ErrStale when any file is stale or missing.
func (w *Writer) Check(ctx context.Context, units []generator.Unit) (Report, error) {
	var rep Report
	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		path := w.Path(u)
		status, err := compare(path, []byte(u.Text))
		if err != nil {
			return rep, fmt.Errorf("check %s: %w", path, err)
		}
		rep.Entries = append(rep.Entries, Entry{Path: path, Status: status})
	}
	if n := rep.Count(StatusStale) + rep.Count(StatusMissing); n > 0 {
		return rep, fmt.Errorf("%w: %d file(s)", ErrStale, n)
	}
	return rep, nil
}

// Print writes every unit to out, each preceded by a header naming its path.
func (w *Writer) Print(out io.Writer, units []generator.Unit) error {
	for i, u := range units {
		if i > 0 {
			if _, err := io.WriteString(out, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(out, "// ---- %s\n%s", filepath.ToSlash(w.Path(u)), u.Text); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of entries with status s.
func (r Report) Count(s Status) int {
	n := 0
	for _, e := range r.Entries {
		if e.Status == s {
			n++
		}
	}
	return n
}

// Paths returns the paths of the entries with status s.
func (r Report) Paths(s Status) []string {
	var out []string
	for _, e := range r.Entries {
		if e.Status == s {
			out = append(out, e.Path)
		}
	}
	return out
}

func (w *Writer) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

func compare(path string, data []byte) (Status, error) {
	existing, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return StatusMissing, nil
	}
	if err != nil {
		return "", err
	}
	if bytes.Equal(existing, data) {
		return StatusUnchanged, nil
	}
	return StatusStale, nil
}

func writeIfChanged(path string, data []byte) (Status, error) {
	status, err := compare(path, data)
	if err != nil {
		return "", err
	}
	if status == StatusUnchanged {
		return status, nil
	}
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return StatusWritten, nil
}

// writeAtomic writes data to a temp file in the target directory and renames
// it over path, so readers never observe a partial file.
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".resxgen-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			// Best-effort removal of partially written temp file.
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
