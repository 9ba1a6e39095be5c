// SPDX-License-Identifier: MPL-2.0

package diag

import (
	"fmt"
	"strings"
)

// SeverityWarning is the level of every diagnostic: none of them stops a
// pass.
const SeverityWarning Severity = "warning"

const (
	// CodeResxParseFailed reports a resource file that is not a well-formed document.
	CodeResxParseFailed Code = "resx_parse_failed"
	// CodeNamespaceUnresolved reports a family for which no namespace could be determined.
	CodeNamespaceUnresolved Code = "namespace_unresolved"
	// CodeResourceNameUnresolved reports a family for which no resource name could be determined.
	CodeResourceNameUnresolved Code = "resource_name_unresolved"
	// CodePropertyInconsistent reports member files disagreeing on a naming property.
	CodePropertyInconsistent Code = "property_inconsistent"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Code is a machine-readable diagnostic identifier (e.g., "resx_parse_failed").
	Code string

	// Descriptor is the static description of one diagnostic kind.
	Descriptor struct {
		// ID is the stable, user-facing identifier (e.g., "RXG0001").
		ID string
		// Code is the machine-readable kind.
		Code Code
		// Title is a short summary.
		Title string
		// Format is the message template; it receives the Descriptor's arguments.
		Format string
		// Severity is the level reported for this kind.
		Severity Severity
	}

	// Diagnostic represents one reported occurrence.
	Diagnostic struct {
		// ID is the descriptor identifier.
		ID string
		// Code is the machine-readable kind.
		Code Code
		// Severity is the diagnostic level.
		Severity Severity
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

var (
	// InvalidResourceFile is reported when a member file cannot be parsed.
	// The whole family's entries are discarded.
	InvalidResourceFile = Descriptor{
		ID:       "RXG0001",
		Code:     CodeResxParseFailed,
		Title:    "Couldn't parse resx file",
		Format:   "couldn't parse resx file %q",
		Severity: SeverityWarning,
	}

	// NamespaceUnresolved is reported when neither an override nor the
	// project layout yields a namespace.
	NamespaceUnresolved = Descriptor{
		ID:       "RXG0002",
		Code:     CodeNamespaceUnresolved,
		Title:    "Couldn't compute namespace",
		Format:   "couldn't compute namespace for file %q",
		Severity: SeverityWarning,
	}

	// ResourceNameUnresolved is reported when neither an override nor the
	// project layout yields a resource name.
	ResourceNameUnresolved = Descriptor{
		ID:       "RXG0003",
		Code:     CodeResourceNameUnresolved,
		Title:    "Couldn't compute resource name",
		Format:   "couldn't compute resource name for file %q",
		Severity: SeverityWarning,
	}

	// PropertyInconsistent is reported when two files of one family supply
	// different values for the same naming property.
	PropertyInconsistent = Descriptor{
		ID:       "RXG0004",
		Code:     CodePropertyInconsistent,
		Title:    "Inconsistent properties",
		Format:   "property %q values for %q are inconsistent",
		Severity: SeverityWarning,
	}

	descriptors = []Descriptor{
		InvalidResourceFile,
		NamespaceUnresolved,
		ResourceNameUnresolved,
		PropertyInconsistent,
	}
)

// New creates a Diagnostic for descriptor d, associated with path, formatting
// the message with args.
func (d Descriptor) New(path string, args ...any) Diagnostic {
	return Diagnostic{
		ID:       d.ID,
		Code:     d.Code,
		Severity: d.Severity,
		Message:  fmt.Sprintf(d.Format, args...),
		Path:     path,
	}
}

// WithCause returns a copy of the diagnostic carrying err as its cause.
func (d Diagnostic) WithCause(err error) Diagnostic {
	d.Cause = err
	return d
}

// String renders the diagnostic on one line: "<severity> <ID>: <message>".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Severity, d.ID, d.Message)
}

// Descriptors returns every known descriptor in ID order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Lookup finds a descriptor by ID (case-insensitive) or by code.
func Lookup(key string) (Descriptor, bool) {
	for _, d := range descriptors {
		if strings.EqualFold(d.ID, key) || string(d.Code) == key {
			return d, true
		}
	}
	return Descriptor{}, false
}
