// SPDX-License-Identifier: MPL-2.0

package naming

import "testing"

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"letters pass through", "Hello", "Hello"},
		{"leading digit gets underscore", "1st", "_1st"},
		{"inner digit kept", "Item2", "Item2"},
		{"punctuation becomes underscore", "a.b-c d", "a_b_c_d"},
		{"leading connector gets underscore", "_x", "__x"},
		{"inner connector kept", "a_b", "a_b"},
		{"leading punctuation replaced, not prefixed", ".a", "_a"},
		{"non-latin letters", "Größe", "Größe"},
		{"cjk letters", "名前", "名前"},
		{"letter number", "\u216b", "\u216b"},
		{"format character inside", "a\u200db", "a\u200db"},
		{"leading format character", "\u200da", "_\u200da"},
		{"symbols", "$€%", "___"},
		{"only digits", "42", "_42"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_Deterministic(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"a.b", "9 lives", "x/y\\z"} {
		if Sanitize(in) != Sanitize(in) {
			t.Errorf("Sanitize(%q) is not deterministic", in)
		}
		if Sanitize(in) == "" {
			t.Errorf("Sanitize(%q) returned empty output for non-empty input", in)
		}
	}
}

func TestEscapeKeyword(t *testing.T) {
	t.Parallel()

	if got := EscapeKeyword("class"); got != "@class" {
		t.Errorf("EscapeKeyword(class) = %q, want @class", got)
	}
	if got := EscapeKeyword("Class"); got != "Class" {
		t.Errorf("EscapeKeyword(Class) = %q, want Class", got)
	}
}
