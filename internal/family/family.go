// SPDX-License-Identifier: MPL-2.0

package family

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/invowk/resxgen/internal/pattern"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Extension is the resource-definition file suffix, matched case-insensitively.
const Extension = ".resx"

// localeExpr matches a language tag with an optional region: "fr", "en-US".
const localeExpr = `^[a-zA-Z]{2}(-[a-zA-Z]{2})?$`

type (
	// File is a member file of a family: a path plus lazily retrieved text.
	// Implementations must honour ctx cancellation in Text.
	File interface {
		Path() string
		Text(ctx context.Context) (string, error)
	}

	// Family is a set of resource files sharing a key across locale variants.
	Family struct {
		// Key is the canonical path without extension and locale suffix, as
		// spelled by the first member seen.
		Key string
		// Files are the members in input order.
		Files []File
	}

	// Resolver computes family keys and cultures. The zero value is not
	// usable; use NewResolver.
	Resolver struct {
		locale *pattern.Matcher
	}

	memFile struct {
		path string
		text string
	}
)

// NewResolver returns a Resolver whose locale detection gives up after timeout.
func NewResolver(timeout time.Duration) *Resolver {
	return &Resolver{locale: pattern.MustCompile(localeExpr, timeout)}
}

// IsResourceFile reports whether path has the resource file extension.
func IsResourceFile(path string) bool {
	return len(path) >= len(Extension) && strings.EqualFold(path[len(path)-len(Extension):], Extension)
}

// KeyFor strips the extension and, when the final dot-delimited segment of the
// file name is locale-shaped, that segment and its dot.
func (r *Resolver) KeyFor(path string) string {
	stripped, locale := r.split(path)
	if locale == "" {
		return stripped
	}
	return stripped[:len(stripped)-len(locale)-1]
}

// LocaleOf returns the locale segment of path as written, or "".
func (r *Resolver) LocaleOf(path string) string {
	_, locale := r.split(path)
	return locale
}

func (r *Resolver) split(path string) (stripped, locale string) {
	stripped = strings.TrimSuffix(path, filepath.Ext(path))
	name := filepath.Base(stripped)
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return stripped, ""
	}
	if segment := name[dot+1:]; r.locale.MatchString(segment) {
		return stripped, segment
	}
	return stripped, ""
}

// Group partitions files by family key, case-insensitively. Families appear in
// order of their first member; members keep their input order.
func (r *Resolver) Group(files []File) []Family {
	fold := cases.Fold()
	index := make(map[string]int)
	var families []Family

	for _, f := range files {
		key := r.KeyFor(f.Path())
		folded := fold.String(key)
		if i, ok := index[folded]; ok {
			families[i].Files = append(families[i].Files, f)
			continue
		}
		index[folded] = len(families)
		families = append(families, Family{Key: key, Files: []File{f}})
	}
	return families
}

// BaseName returns the file-name component of the family key.
func (f Family) BaseName() string { return filepath.Base(f.Key) }

// Dir returns the directory containing the family's files.
func (f Family) Dir() string { return filepath.Dir(f.Key) }

// Paths returns the member paths in member order.
func (f Family) Paths() []string {
	out := make([]string, len(f.Files))
	for i, file := range f.Files {
		out[i] = file.Path()
	}
	return out
}

// Cultures returns each member's locale in member order, canonicalised as a
// BCP 47 tag ("en-us" becomes "en-US"). The neutral file reports "".
func (r *Resolver) Cultures(f Family) []string {
	out := make([]string, len(f.Files))
	for i, file := range f.Files {
		out[i] = canonicalLocale(r.LocaleOf(file.Path()))
	}
	return out
}

func canonicalLocale(raw string) string {
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return raw
	}
	return tag.String()
}

// NewMemFile returns a File whose text is held in memory.
func NewMemFile(path, text string) File {
	return &memFile{path: path, text: text}
}

func (m *memFile) Path() string { return m.path }

func (m *memFile) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.text, nil
}
