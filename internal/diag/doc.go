// SPDX-License-Identifier: MPL-2.0

// Package diag defines the structured diagnostics produced while generating
// resource accessors.
//
// Diagnostics are returned to callers as data rather than written to stderr,
// so the CLI layer owns the rendering policy. None of them is fatal: each
// describes a degraded but still emitted unit.
package diag
