// SPDX-License-Identifier: MPL-2.0

// Package output places generated units on disk.
//
// A unit lands next to its resource files, or under an output directory that
// mirrors the family's location relative to the project root. Writes are
// atomic and skipped when the file already holds the same bytes; Check
// compares without writing so CI can detect stale sources.
package output
