// SPDX-License-Identifier: MPL-2.0

package pattern

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestCompile_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Compile(`(unclosed`, time.Second)
	if err == nil {
		t.Fatal("expected error for invalid expression")
	}
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("error should wrap ErrInvalidPattern, got: %v", err)
	}
}

func TestCompile_DefaultTimeout(t *testing.T) {
	t.Parallel()

	m := MustCompile(`a`, 0)
	if m.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", m.Timeout(), DefaultTimeout)
	}
	if got := m.WithTimeout(5 * time.Millisecond).Timeout(); got != 5*time.Millisecond {
		t.Errorf("WithTimeout().Timeout() = %v, want 5ms", got)
	}
}

func TestMatchString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		matcher *Matcher
		input   string
		want    bool
	}{
		{"exact", MustCompile(`^ab$`, time.Second), "ab", true},
		{"case sensitive miss", MustCompile(`^ab$`, time.Second), "AB", false},
		{"fold hit", MustCompileFold(`^ab$`, time.Second), "AB", true},
		{"partial", MustCompile(`b`, time.Second), "abc", true},
		{"miss", MustCompile(`z`, time.Second), "abc", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.matcher.MatchString(tt.input); got != tt.want {
				t.Errorf("MatchString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFindAll_NamedGroups(t *testing.T) {
	t.Parallel()

	m := MustCompile(`\{(?<num>[0-9]+)(:[^}]*)?\}`, time.Second)
	got := m.FindAll("a {0} b {12:N2} c {x}")
	want := []Match{
		{Text: "{0}", Groups: map[string]string{"num": "0"}},
		{Text: "{12:N2}", Groups: map[string]string{"num": "12"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestFindAll_NoMatch(t *testing.T) {
	t.Parallel()

	m := MustCompile(`x`, time.Second)
	if got := m.FindAll("abc"); len(got) != 0 {
		t.Errorf("FindAll() = %v, want empty", got)
	}
}

func TestMatchString_TimeoutIsNoMatch(t *testing.T) {
	t.Parallel()

	// Nested quantifiers backtrack exponentially on a near miss.
	m := MustCompile(`^(a+)+$`, 10*time.Millisecond)
	input := strings.Repeat("a", 40) + "!"

	start := time.Now()
	if m.MatchString(input) {
		t.Fatal("MatchString() = true, want false on timeout")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("scan took %v, expected the deadline to stop it", elapsed)
	}
}
