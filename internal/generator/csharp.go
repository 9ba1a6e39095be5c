// SPDX-License-Identifier: MPL-2.0

package generator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/invowk/resxgen/internal/naming"
)

var (
	xmlTextEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	lineBreaks     = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\u0085", "\n", "\u2028", "\n", "\u2029", "\n")
)

// stringLiteral renders s as a regular C# string literal.
func stringLiteral(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		case '\u0085', '\u2028', '\u2029':
			fmt.Fprintf(&sb, `\u%04X`, r)
		default:
			if unicode.IsControl(r) {
				fmt.Fprintf(&sb, `\u%04X`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// docLines XML-escapes s and splits it into lines for a /// comment.
func docLines(s string) []string {
	return strings.Split(lineBreaks.Replace(xmlTextEscaper.Replace(s)), "\n")
}

// traceValue flattens s so it fits on a single // comment line.
func traceValue(s string) string {
	return strings.ReplaceAll(lineBreaks.Replace(s), "\n", " ")
}

// memberName returns the C# identifier for a resource name.
func memberName(name string) string {
	return naming.EscapeKeyword(naming.Sanitize(name))
}

// qualifiedTypeName returns a global::-qualified C# type for a dotted CLR
// type name, or false when the name cannot be written as a C# type.
func qualifiedTypeName(clr string) (string, bool) {
	if clr == "string" {
		return clr, true
	}
	segments := strings.Split(clr, ".")
	for _, seg := range segments {
		if seg == "" || naming.Sanitize(seg) != seg || naming.IsKeyword(seg) {
			return "", false
		}
		if r := []rune(seg)[0]; !unicode.IsLetter(r) && r != '_' && !unicode.Is(unicode.Nl, r) {
			return "", false
		}
	}
	return "global::" + clr, true
}
