// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/invowk/resxgen/internal/family"
)

// ErrInvalidPattern is returned when an include or exclude pattern is not a
// valid doublestar glob.
var ErrInvalidPattern = errors.New("invalid glob pattern")

var (
	defaultInclude = []string{"**/*.resx"}
	defaultExclude = []string{"**/bin/**", "**/obj/**", "**/.git/**", "**/node_modules/**"}
)

type (
	// Config controls a discovery walk.
	Config struct {
		// Root is the project directory. Empty means the working directory.
		Root string
		// Include selects files. Empty means DefaultInclude().
		Include []string
		// Exclude removes files and prunes directories. Empty means DefaultExclude().
		Exclude []string
		// MaxFileSize is the per-file read ceiling. Zero means DefaultMaxFileSize.
		MaxFileSize int64
	}

	// Result is the outcome of a walk.
	Result struct {
		// Root is the absolute project directory.
		Root string
		// Files are the selected resource files, sorted by path.
		Files []*File
		// Diagnostics are non-fatal problems met during the walk.
		Diagnostics []Diagnostic
	}

	// Selector decides which slash-separated relative paths are selected.
	Selector struct {
		include []string
		exclude []string
	}
)

// DefaultInclude returns a copy of the built-in include patterns.
func DefaultInclude() []string { return slices.Clone(defaultInclude) }

// DefaultExclude returns a copy of the built-in exclude patterns.
func DefaultExclude() []string { return slices.Clone(defaultExclude) }

// NewSelector validates the patterns and returns a Selector. Empty slices
// select the defaults.
func NewSelector(include, exclude []string) (*Selector, error) {
	if len(include) == 0 {
		include = defaultInclude
	}
	if len(exclude) == 0 {
		exclude = defaultExclude
	}
	for _, pat := range slices.Concat(include, exclude) {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pat)
		}
	}
	return &Selector{include: slices.Clone(include), exclude: slices.Clone(exclude)}, nil
}

// Selects reports whether the file at rel is a resource file matched by an
// include pattern and by no exclude pattern. The resource extension is
// compared case-insensitively, so "**/*.resx" also selects "Foo.RESX".
func (s *Selector) Selects(rel string) bool {
	rel = filepath.ToSlash(rel)
	if !family.IsResourceFile(rel) {
		return false
	}
	normalized := rel[:len(rel)-len(family.Extension)] + family.Extension
	return matchAny(s.include, normalized) && !matchAny(s.exclude, normalized)
}

// Prunes reports whether the directory at rel is excluded.
func (s *Selector) Prunes(rel string) bool {
	rel = filepath.ToSlash(rel)
	return matchAny(s.exclude, rel) || matchAny(s.exclude, rel+"/")
}

// Patterns returns the effective include and exclude patterns.
func (s *Selector) Patterns() (include, exclude []string) {
	return slices.Clone(s.include), slices.Clone(s.exclude)
}

func matchAny(patterns []string, path string) bool {
	for _, pat := range patterns {
		if doublestar.MatchUnvalidated(pat, path) {
			return true
		}
	}
	return false
}

// Discover walks cfg.Root and returns the selected resource files. Unreadable
// directories and symbolic links are reported as diagnostics and skipped. The
// walk stops with ctx's error when ctx is cancelled.
func Discover(ctx context.Context, cfg Config) (Result, error) {
	sel, err := NewSelector(cfg.Include, cfg.Exclude)
	if err != nil {
		return Result{}, err
	}

	root := cfg.Root
	if root == "" {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return Result{}, fmt.Errorf("discovery: determine working directory: %w", wdErr)
		}
		root = wd
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Result{}, fmt.Errorf("discovery: resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return Result{}, fmt.Errorf("discovery: %w", err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("discovery: %s is not a directory", absRoot)
	}

	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	res := Result{Root: absRoot}
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkDirErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkDirErr != nil {
			if path == absRoot {
				return walkDirErr
			}
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodePathSkipped,
				Message:  fmt.Sprintf("skipping inaccessible path %s: %v", path, walkDirErr),
				Path:     path,
				Cause:    walkDirErr,
			})
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			return nil //nolint:nilerr // skip paths that cannot be made relative
		}

		switch {
		case d.IsDir():
			if path != absRoot && sel.Prunes(rel) {
				slog.Debug("pruned directory", "path", rel)
				return filepath.SkipDir
			}
		case d.Type()&fs.ModeSymlink != 0:
			if sel.Selects(rel) {
				res.Diagnostics = append(res.Diagnostics, Diagnostic{
					Severity: SeverityWarning,
					Code:     CodeSymlinkSkipped,
					Message:  fmt.Sprintf("not following symbolic link %s", path),
					Path:     path,
				})
			}
		case d.Type().IsRegular():
			if sel.Selects(rel) {
				res.Files = append(res.Files, &File{path: path, rel: filepath.ToSlash(rel), maxSize: maxSize})
			}
		}
		return nil
	})
	if walkErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return Result{}, fmt.Errorf("discovery: walk %s: %w", absRoot, walkErr)
	}

	slices.SortFunc(res.Files, func(a, b *File) int { return strings.Compare(a.path, b.path) })
	slog.Debug("discovered resource files", "root", absRoot, "files", len(res.Files))
	return res, nil
}

// FamilyFiles returns the files as family members, preserving order.
func (r Result) FamilyFiles() []family.File {
	out := make([]family.File, len(r.Files))
	for i, f := range r.Files {
		out[i] = f
	}
	return out
}
