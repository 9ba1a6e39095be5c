// SPDX-License-Identifier: MPL-2.0

// Package pattern wraps regular expressions whose evaluation time is bounded.
//
// Resource file names and resource values come from user-controlled files, so
// every scan runs with a deadline. A scan that exceeds the deadline is reported
// as "no match" rather than as a failure; callers never have to distinguish a
// timeout from a genuine miss.
package pattern

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// DefaultTimeout is the evaluation ceiling applied when a Matcher is created
// with a zero or negative timeout.
const DefaultTimeout = time.Second

// ErrInvalidPattern is returned when an expression cannot be compiled.
var ErrInvalidPattern = errors.New("invalid pattern")

type (
	// Matcher is a compiled, immutable expression with a per-scan time limit.
	// It is safe for concurrent use.
	Matcher struct {
		re      *regexp2.Regexp
		opts    regexp2.RegexOptions
		timeout time.Duration
	}

	// Match is a single successful match with its named groups resolved.
	Match struct {
		// Text is the full matched text.
		Text string
		// Groups maps group names to captured text. Unmatched groups are absent.
		Groups map[string]string
	}
)

// Compile compiles expr as a case-sensitive, culture-invariant expression with
// explicit captures (only named groups capture).
func Compile(expr string, timeout time.Duration) (*Matcher, error) {
	return compile(expr, regexp2.ExplicitCapture, timeout)
}

// CompileFold is like Compile but matches case-insensitively.
func CompileFold(expr string, timeout time.Duration) (*Matcher, error) {
	return compile(expr, regexp2.ExplicitCapture|regexp2.IgnoreCase, timeout)
}

// MustCompile is like Compile but panics on an invalid expression. It is meant
// for package-level expressions that are known to be valid.
func MustCompile(expr string, timeout time.Duration) *Matcher {
	m, err := Compile(expr, timeout)
	if err != nil {
		panic(err)
	}
	return m
}

// MustCompileFold is like CompileFold but panics on an invalid expression.
func MustCompileFold(expr string, timeout time.Duration) *Matcher {
	m, err := CompileFold(expr, timeout)
	if err != nil {
		panic(err)
	}
	return m
}

func compile(expr string, opts regexp2.RegexOptions, timeout time.Duration) (*Matcher, error) {
	re, err := regexp2.Compile(expr, opts)
	if err != nil {
		return nil, errors.Join(ErrInvalidPattern, err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	re.MatchTimeout = timeout
	return &Matcher{re: re, opts: opts, timeout: timeout}, nil
}

// WithTimeout returns a copy of m using a different time limit.
func (m *Matcher) WithTimeout(timeout time.Duration) *Matcher {
	clone, err := compile(m.re.String(), m.opts, timeout)
	if err != nil {
		// The expression compiled once already.
		panic(err)
	}
	return clone
}

// Timeout returns the per-scan time limit.
func (m *Matcher) Timeout() time.Duration { return m.timeout }

// String returns the source expression.
func (m *Matcher) String() string { return m.re.String() }

// MatchString reports whether s contains a match. A scan that times out
// reports false.
func (m *Matcher) MatchString(s string) bool {
	ok, err := m.re.MatchString(s)
	if err != nil {
		logTimeout(m, s, err)
		return false
	}
	return ok
}

// FindAll returns every non-overlapping match in s, in order. When the scan
// times out, the matches found before the deadline are returned.
func (m *Matcher) FindAll(s string) []Match {
	var out []Match
	names := m.groupNames()

	match, err := m.re.FindStringMatch(s)
	for match != nil && err == nil {
		out = append(out, toMatch(match, names))
		match, err = m.re.FindNextMatch(match)
	}
	if err != nil {
		logTimeout(m, s, err)
	}
	return out
}

func (m *Matcher) groupNames() []string {
	var names []string
	for _, name := range m.re.GetGroupNames() {
		// Numbered groups report their number as name; only named groups matter.
		if name == "" || strings.Trim(name, "0123456789") == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func toMatch(match *regexp2.Match, names []string) Match {
	out := Match{Text: match.String()}
	for _, name := range names {
		g := match.GroupByName(name)
		if g == nil || len(g.Captures) == 0 {
			continue
		}
		if out.Groups == nil {
			out.Groups = make(map[string]string, len(names))
		}
		out.Groups[name] = g.String()
	}
	return out
}

func logTimeout(m *Matcher, input string, err error) {
	const maxLogged = 64
	if len(input) > maxLogged {
		input = input[:maxLogged] + "..."
	}
	slog.Debug("pattern scan abandoned, treating as no match",
		"pattern", m.re.String(), "timeout", m.timeout, "input", input, "error", err)
}
