// SPDX-License-Identifier: MPL-2.0

// Package placeholder finds composite-format placeholders such as "{0}" or
// "{1:N2}" in resource values and derives how many positional arguments an
// accessor must accept.
package placeholder

import (
	"strconv"
	"strings"
	"time"

	"github.com/invowk/resxgen/internal/pattern"
)

const tokenExpr = `\{(?<num>[0-9]+)(:[^}]*)?\}`

// MaxIndex is the exclusive upper bound on a usable placeholder index.
// string.Format rejects indices from this value on.
const MaxIndex = 1_000_000

type (
	// Set summarises the placeholders found in one value.
	Set struct {
		// Max is the highest index referenced. It is meaningful only when Found.
		Max int
		// Found reports whether at least one usable placeholder was seen.
		Found bool
	}

	// Extractor scans values with a bounded-time pattern.
	Extractor struct {
		token *pattern.Matcher
	}
)

var defaultExtractor = NewExtractor(pattern.DefaultTimeout)

// NewExtractor returns an Extractor whose scans give up after timeout.
// A scan that times out keeps the placeholders found before the deadline.
func NewExtractor(timeout time.Duration) *Extractor {
	return &Extractor{token: pattern.MustCompile(tokenExpr, timeout)}
}

// Extract scans value with the default extractor.
func Extract(value string) Set { return defaultExtractor.Extract(value) }

// Extract returns the highest placeholder index referenced by value.
// Indices at or above MaxIndex are ignored.
func (e *Extractor) Extract(value string) Set {
	var set Set
	if !strings.ContainsRune(value, '{') {
		return set
	}

	for _, m := range e.token.FindAll(value) {
		n, err := strconv.ParseInt(m.Groups["num"], 10, 32)
		if err != nil || n >= MaxIndex {
			continue
		}
		if !set.Found || int(n) > set.Max {
			set.Max = int(n)
		}
		set.Found = true
	}
	return set
}

// Arity is the number of positional parameters the accessor declares: every
// index from 0 to Max, including the ones the value never references.
func (s Set) Arity() int {
	if !s.Found {
		return 0
	}
	return s.Max + 1
}

// Params renders the parameter list for n arguments: "object? arg0, object? arg1".
func Params(n int) string { return join(n, "object? arg") }

// Args renders the argument list for n arguments: "arg0, arg1".
func Args(n int) string { return join(n, "arg") }

func join(n int, prefix string) string {
	var sb strings.Builder
	for i := range n {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(prefix)
		sb.WriteString(strconv.Itoa(i))
	}
	return sb.String()
}
