// SPDX-License-Identifier: MPL-2.0

package naming

import (
	"strings"
	"unicode"
)

// passThrough are the letter categories allowed anywhere in an identifier.
var passThrough = []*unicode.RangeTable{
	unicode.Lu, unicode.Ll, unicode.Lt, unicode.Lm, unicode.Lo, unicode.Nl,
}

// partOnly are the categories allowed in an identifier but not as its first character.
var partOnly = []*unicode.RangeTable{
	unicode.Nd, unicode.Pc, unicode.Cf,
}

// csharpKeywords are reserved words that need an '@' prefix to be used as identifiers.
var csharpKeywords = map[string]struct{}{
	"abstract": {}, "as": {}, "base": {}, "bool": {}, "break": {}, "byte": {},
	"case": {}, "catch": {}, "char": {}, "checked": {}, "class": {}, "const": {},
	"continue": {}, "decimal": {}, "default": {}, "delegate": {}, "do": {},
	"double": {}, "else": {}, "enum": {}, "event": {}, "explicit": {},
	"extern": {}, "false": {}, "finally": {}, "fixed": {}, "float": {}, "for": {},
	"foreach": {}, "goto": {}, "if": {}, "implicit": {}, "in": {}, "int": {},
	"interface": {}, "internal": {}, "is": {}, "lock": {}, "long": {},
	"namespace": {}, "new": {}, "null": {}, "object": {}, "operator": {},
	"out": {}, "override": {}, "params": {}, "private": {}, "protected": {},
	"public": {}, "readonly": {}, "ref": {}, "return": {}, "sbyte": {},
	"sealed": {}, "short": {}, "sizeof": {}, "stackalloc": {}, "static": {},
	"string": {}, "struct": {}, "switch": {}, "this": {}, "throw": {}, "true": {},
	"try": {}, "typeof": {}, "uint": {}, "ulong": {}, "unchecked": {},
	"unsafe": {}, "ushort": {}, "using": {}, "virtual": {}, "void": {},
	"volatile": {}, "while": {},
}

// Sanitize maps an arbitrary resource name to a C# identifier.
//
// Letters and letter numbers pass through. Decimal digits, connector
// punctuation and format characters pass through but are preceded by '_' when
// they would start the identifier. Every other character becomes '_'.
func Sanitize(name string) string {
	var sb strings.Builder
	sb.Grow(len(name) + 1)
	for _, r := range name {
		switch {
		case unicode.IsOneOf(passThrough, r):
			sb.WriteRune(r)
		case unicode.IsOneOf(partOnly, r):
			if sb.Len() == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// IsKeyword reports whether id is a reserved C# keyword.
func IsKeyword(id string) bool {
	_, ok := csharpKeywords[id]
	return ok
}

// EscapeKeyword prefixes reserved keywords with '@' so they can be used as identifiers.
func EscapeKeyword(id string) string {
	if IsKeyword(id) {
		return "@" + id
	}
	return id
}
