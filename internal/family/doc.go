// SPDX-License-Identifier: MPL-2.0

// Package family partitions resource files into locale families.
//
// A family is the neutral resource file plus its locale-specific variants:
// Strings.resx, Strings.fr.resx and Strings.en-US.resx all belong to the
// family keyed "Strings". The key is the path with the extension and a
// trailing locale segment removed, compared case-insensitively.
package family
