// SPDX-License-Identifier: MPL-2.0

// Package project loads the resxgen project file.
//
// A project file lives at the root of a .NET project and is either
// resxgen.cue (validated against an embedded CUE schema) or resxgen.toml.
// It supplies build-wide properties, per-file metadata rules, discovery
// patterns and output settings:
//
//	assembly_name: "Contoso.App"
//	properties: RootNamespace: "Contoso.App"
//	files: [
//		{pattern: "Resources/Errors*.resx", metadata: ClassName: "ErrorText"},
//	]
//	output_dir: "Generated"
//
// A loaded Project implements buildprops.Provider: properties become
// "build_property.<Name>" keys and matching file rules become
// "build_metadata.AdditionalFiles.<Name>" keys.
package project
