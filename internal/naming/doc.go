// SPDX-License-Identifier: MPL-2.0

// Package naming derives C# names for a resource family: identifiers for
// resource entries, and the default namespace, resource name and class name
// implied by where the family lives inside the project directory.
package naming
