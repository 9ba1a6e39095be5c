// SPDX-License-Identifier: MPL-2.0

// Package types defines small validated value types shared by the CLI,
// configuration and project packages.
//
// This package is a leaf dependency: it imports only the standard library.
package types
