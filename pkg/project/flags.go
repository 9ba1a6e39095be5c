// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidFlag is wrapped by property and metadata flag parse errors.
var ErrInvalidFlag = errors.New("invalid flag value")

// ParseProperty parses a "Name=Value" property override.
func ParseProperty(s string) (name, value string, err error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("%w: %q: expected Name=Value", ErrInvalidFlag, s)
	}
	return name, value, nil
}

// ParseRule parses a "GLOB:Name=Value" metadata override into a single-key
// rule. The glob ends at the last ':' before the '=' so Windows drive letters
// survive.
func ParseRule(s string) (Rule, error) {
	head, value, ok := strings.Cut(s, "=")
	if !ok {
		return Rule{}, fmt.Errorf("%w: %q: expected GLOB:Name=Value", ErrInvalidFlag, s)
	}
	i := strings.LastIndexByte(head, ':')
	if i <= 0 {
		return Rule{}, fmt.Errorf("%w: %q: expected GLOB:Name=Value", ErrInvalidFlag, s)
	}
	pattern, name := head[:i], strings.TrimSpace(head[i+1:])
	if !doublestar.ValidatePattern(pattern) {
		return Rule{}, fmt.Errorf("%w: %q: invalid glob %q", ErrInvalidFlag, s, pattern)
	}
	if !isMetadataName(name) {
		return Rule{}, fmt.Errorf("%w: %q: unknown metadata name %q (want one of %s)",
			ErrInvalidFlag, s, name, strings.Join(MetadataNames(), ", "))
	}
	return Rule{Pattern: pattern, Metadata: map[string]string{name: value}}, nil
}

// Override returns a copy of p with command-line overrides applied. Properties
// replace project properties by name and rules are appended after the
// project's own, so they win over them.
func (p *Project) Override(props map[string]string, rules []Rule) *Project {
	out := *p
	if len(props) > 0 {
		out.Properties = make(map[string]string, len(p.Properties)+len(props))
		maps.Copy(out.Properties, p.Properties)
		maps.Copy(out.Properties, props)
	}
	if len(rules) > 0 {
		out.Files = append(append([]Rule(nil), p.Files...), rules...)
	}
	return &out
}
