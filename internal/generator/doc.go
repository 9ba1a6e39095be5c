// SPDX-License-Identifier: MPL-2.0

// Package generator turns resource families into C# accessor classes.
//
// A generation pass is a pure function of its Request: families are resolved
// independently (in parallel, bounded by Request.Workers), each producing one
// Unit and zero or more diagnostics. Results are returned in family order so
// that two passes over the same input produce byte-identical output.
package generator
