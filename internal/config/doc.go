// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/resxgen/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/resxgen/config.cue on macOS, %APPDATA%\resxgen\config.cue
// on Windows) and from RESXGEN_* environment variables, for example
// RESXGEN_GENERATE_WORKERS=4 or RESXGEN_UI_VERBOSE=true.
//
// The file is validated against an embedded CUE schema (config_schema.cue).
// Project-specific settings live in the project file instead; see pkg/project.
package config
