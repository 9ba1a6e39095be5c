// SPDX-License-Identifier: MPL-2.0

package naming

import (
	"path/filepath"
	"strings"
)

// ClassSuffix is appended to the sanitized family name to form the default class name.
const ClassSuffix = "Res"

// DefaultClassName returns the class name used when no override is configured.
func DefaultClassName(familyKey string) string {
	return Sanitize(filepath.Base(familyKey)) + ClassSuffix
}

// ComputeResourceName returns the manifest resource name of the family keyed
// familyKey: rootNamespace followed by the family path relative to
// projectDir, with separators turned into dots. Relative paths are resolved
// against baseDir. It reports false when the family is outside projectDir.
func ComputeResourceName(rootNamespace, projectDir, familyKey, baseDir string) (string, bool) {
	fullProjectDir := withTrailingSeparator(absolute(projectDir, baseDir))
	fullResourcePath := absolute(familyKey, baseDir)
	return relativeName(rootNamespace, fullProjectDir, fullResourcePath)
}

// ComputeNamespace returns the namespace of the family keyed familyKey, using
// the same containment rule as ComputeResourceName against the family's
// directory. Trailing dots are trimmed.
func ComputeNamespace(rootNamespace, projectDir, familyKey, baseDir string) (string, bool) {
	fullProjectDir := withTrailingSeparator(absolute(projectDir, baseDir))
	fullResourceDir := withTrailingSeparator(filepath.Dir(absolute(familyKey, baseDir)))
	name, ok := relativeName(rootNamespace, fullProjectDir, fullResourceDir)
	if !ok {
		return "", false
	}
	return strings.TrimRight(name, "."), true
}

// relativeName implements the containment rule. The prefix comparison is
// ordinal and case-sensitive on every platform.
func relativeName(rootNamespace, fullProjectDir, fullPath string) (string, bool) {
	if fullPath == fullProjectDir {
		return rootNamespace, true
	}
	rest, ok := strings.CutPrefix(fullPath, fullProjectDir)
	if !ok {
		return "", false
	}
	return rootNamespace + "." + separatorsToDots(rest), true
}

func separatorsToDots(p string) string {
	return strings.NewReplacer("/", ".", `\`, ".").Replace(p)
}

func absolute(p, baseDir string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(baseDir, p)
	}
	return filepath.Clean(p)
}

func withTrailingSeparator(p string) string {
	if strings.HasSuffix(p, string(filepath.Separator)) {
		return p
	}
	return p + string(filepath.Separator)
}
