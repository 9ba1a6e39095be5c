// SPDX-License-Identifier: MPL-2.0

package project

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var (
	cueIdent = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

	cueKeywords = map[string]bool{
		"true": true, "false": true, "null": true,
		"if": true, "for": true, "in": true, "let": true,
	}
)

// GenerateCUE renders f as resxgen.cue text.
func GenerateCUE(f File) string {
	var sb strings.Builder

	sb.WriteString("// resxgen project file\n")
	sb.WriteString("// See `resxgen explain` for the diagnostics this configuration affects.\n\n")

	if f.AssemblyName != "" {
		fmt.Fprintf(&sb, "assembly_name: %q\n", f.AssemblyName)
	}
	if len(f.Properties) > 0 {
		sb.WriteString("properties: {\n")
		for _, k := range sortedKeys(f.Properties) {
			fmt.Fprintf(&sb, "\t%s: %q\n", cueLabel(k), f.Properties[k])
		}
		sb.WriteString("}\n")
	}
	if len(f.Files) > 0 {
		sb.WriteString("files: [\n")
		for _, r := range f.Files {
			fmt.Fprintf(&sb, "\t{\n\t\tpattern: %q\n", r.Pattern)
			if len(r.Metadata) > 0 {
				sb.WriteString("\t\tmetadata: {\n")
				for _, k := range sortedKeys(r.Metadata) {
					fmt.Fprintf(&sb, "\t\t\t%s: %q\n", cueLabel(k), r.Metadata[k])
				}
				sb.WriteString("\t\t}\n")
			}
			sb.WriteString("\t},\n")
		}
		sb.WriteString("]\n")
	}
	writeCUEList(&sb, "include", f.Include)
	writeCUEList(&sb, "exclude", f.Exclude)
	if f.OutputDir != "" {
		fmt.Fprintf(&sb, "output_dir: %q\n", f.OutputDir)
	}
	if f.NullableAttributes != nil {
		fmt.Fprintf(&sb, "nullable_attributes: %t\n", *f.NullableAttributes)
	}

	return sb.String()
}

// GenerateTOML renders f as resxgen.toml text.
func GenerateTOML(f File) (string, error) {
	data, err := toml.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encode project file: %w", err)
	}
	return "# resxgen project file\n\n" + string(data), nil
}

func writeCUEList(sb *strings.Builder, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s: [", label)
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "%q", it)
	}
	sb.WriteString("]\n")
}

func cueLabel(s string) string {
	if cueIdent.MatchString(s) && !cueKeywords[s] {
		return s
	}
	return fmt.Sprintf("%q", s)
}
