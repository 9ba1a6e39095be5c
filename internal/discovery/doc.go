// SPDX-License-Identifier: MPL-2.0

// Package discovery locates resource files below a project directory.
//
// Files are selected by doublestar include patterns and pruned by exclude
// patterns, both matched against slash-separated paths relative to the
// project root. Content is read lazily: discovery only records paths, and
// each File reads (and decodes) its text when the generator asks for it.
//
// File organization:
//   - discovery.go: Config, Discover and the walk
//   - file.go: the lazily read File
//   - diagnostic.go: non-fatal discovery diagnostics
package discovery
