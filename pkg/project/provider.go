// SPDX-License-Identifier: MPL-2.0

package project

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/invowk/resxgen/internal/buildprops"
)

var _ buildprops.Provider = (*Project)(nil)

// FileOptions returns the metadata of every rule whose pattern matches path.
// Rules apply in declaration order, so a later match overrides an earlier one
// for the keys it sets.
func (p *Project) FileOptions(path string) buildprops.Options {
	if len(p.Files) == 0 {
		return buildprops.MapOptions(nil)
	}
	rel := p.relative(path)
	out := buildprops.MapOptions{}
	for _, r := range p.Files {
		if !doublestar.MatchUnvalidated(r.Pattern, rel) {
			continue
		}
		for _, k := range sortedKeys(r.Metadata) {
			out[buildprops.FileKeyPrefix+k] = r.Metadata[k]
		}
	}
	return out
}

// GlobalOptions returns the project properties as build properties.
func (p *Project) GlobalOptions() buildprops.Options {
	out := make(buildprops.MapOptions, len(p.Properties))
	for k, v := range p.Properties {
		out[buildprops.GlobalKeyPrefix+k] = v
	}
	return out
}

// relative returns path relative to the project directory with forward
// slashes. Paths outside the directory are matched in their absolute form.
func (p *Project) relative(path string) string {
	if p.Dir != "" {
		if rel, err := filepath.Rel(p.Dir, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}
