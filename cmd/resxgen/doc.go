// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the resxgen command line interface.
//
// The root command wires the generate, families, explain, init and config
// subcommands around an App, which carries the injectable services the
// handlers delegate to.
package cmd
