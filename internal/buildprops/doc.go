// SPDX-License-Identifier: MPL-2.0

// Package buildprops resolves the naming properties of a resource family from
// per-file metadata and build-wide properties.
//
// Each property is looked up under "build_metadata.AdditionalFiles.<Name>" in
// the options of every member file. Members must agree: two different
// non-empty values make the property unresolved for the family and produce a
// property-inconsistent diagnostic. When no member supplies a value, the
// property's global keys ("build_property.<Name>") are consulted in order.
package buildprops
