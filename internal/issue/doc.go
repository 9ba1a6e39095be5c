// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and
// remediation hints for CLI output. The Issue catalog holds Markdown
// explanations for every generator diagnostic and for the common operational
// failures; `resxgen explain` renders them with glamour.
package issue
