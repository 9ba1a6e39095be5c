// SPDX-License-Identifier: MPL-2.0

package resx

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type memSource struct {
	path string
	text string
	err  error
}

func (m memSource) Path() string { return m.path }

func (m memSource) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.text, m.err
}

const sampleDoc = `<?xml version="1.0" encoding="utf-8"?>
<root>
  <resheader name="resmimetype"><value>text/microsoft-resx</value></resheader>
  <data name="Greeting" xml:space="preserve">
    <value>Hello {0}</value>
    <comment>element comments are not used</comment>
  </data>
  <data name="Farewell" comment="said at exit"><value>Bye &amp; see you</value></data>
  <data name="NoValue" type="System.Int32, mscorlib" />
  <data name="Nested"><value>a<b>b</b>c</value><value>second</value></data>
</root>
`

func TestParseDocument(t *testing.T) {
	t.Parallel()

	got, err := ParseDocument(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}

	want := []Entry{
		{Name: "Greeting", Value: ptr("Hello {0}")},
		{Name: "Farewell", Value: ptr("Bye & see you"), Comment: ptr("said at exit")},
		{Name: "NoValue", Type: ptr("System.Int32, mscorlib")},
		{Name: "Nested", Value: ptr("abc")},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseDocument() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDocument_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{"empty", "", ErrNoRootElement},
		{"only declaration", `<?xml version="1.0"?>`, ErrNoRootElement},
		{"two roots", `<root></root><root></root>`, ErrTrailingContent},
		{"trailing text", `<root></root>junk`, ErrTrailingContent},
		{"unclosed root", `<root><data name="a">`, nil},
		{"mismatched tags", `<root><data></value></root>`, nil},
		{"not xml", `this is not xml`, ErrTrailingContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseDocument(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("ParseDocument() expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseDocument_OtherRoot(t *testing.T) {
	t.Parallel()

	got, err := ParseDocument(strings.NewReader(`<resources><data name="a"><value>x</value></data></resources>`))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ParseDocument() = %d entries, want 0", len(got))
	}
}

func TestParseDocument_NestedDataIgnored(t *testing.T) {
	t.Parallel()

	doc := `<root><group><data name="deep"><value>x</value></data></group><data name="top"/></root>`
	got, err := ParseDocument(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseDocument() error = %v", err)
	}
	if diff := cmp.Diff([]Entry{{Name: "top"}}, got); diff != "" {
		t.Errorf("ParseDocument() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_MergesInPathOrder(t *testing.T) {
	t.Parallel()

	sources := []Source{
		memSource{path: "/p/A.en.resx", text: `<root><data name="Bar" comment="c"><value>y</value></data><data name="Only"><value>en</value></data></root>`},
		memSource{path: "/p/A.resx", text: `<root><data name="Bar"><value>x</value></data></root>`},
	}

	got, err := Parse(t.Context(), sources)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	bar, ok := got.Get("Bar")
	if !ok {
		t.Fatal("Bar missing")
	}
	// "/p/A.en.resx" sorts before "/p/A.resx", so its value wins.
	if bar.ValueOr("") != "y" || bar.CommentOr("") != "c" {
		t.Errorf("Bar = (%q, %q), want (y, c)", bar.ValueOr(""), bar.CommentOr(""))
	}
	if got.Len() != 2 {
		t.Errorf("Len() = %d, want 2", got.Len())
	}
}

func TestParse_CommentFilledFromLaterFile(t *testing.T) {
	t.Parallel()

	sources := []Source{
		memSource{path: "A.resx", text: `<root><data name="Bar"><value>x</value></data></root>`},
		memSource{path: "B.resx", text: `<root><data name="Bar" comment="c"><value>y</value></data></root>`},
	}

	got, err := Parse(t.Context(), sources)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	bar, _ := got.Get("Bar")
	if bar.ValueOr("") != "x" || bar.CommentOr("") != "c" {
		t.Errorf("Bar = (%q, %q), want (x, c)", bar.ValueOr(""), bar.CommentOr(""))
	}
}

func TestParse_Failure(t *testing.T) {
	t.Parallel()

	readErr := errors.New("disk on fire")
	tests := []struct {
		name     string
		sources  []Source
		wantPath string
	}{
		{
			name: "malformed",
			sources: []Source{
				memSource{path: "a.resx", text: `<root/>`},
				memSource{path: "b.resx", text: `<root>`},
			},
			wantPath: "b.resx",
		},
		{
			name: "read failure",
			sources: []Source{
				memSource{path: "a.resx", err: readErr},
			},
			wantPath: "a.resx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(t.Context(), tt.sources)
			if got != nil {
				t.Error("Parse() returned entries alongside an error")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse() error = %v, want *ParseError", err)
			}
			if perr.Path != tt.wantPath {
				t.Errorf("ParseError.Path = %q, want %q", perr.Path, tt.wantPath)
			}
		})
	}
}

func TestParse_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Parse(ctx, []Source{memSource{path: "a.resx", text: `<root/>`}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Parse() error = %v, want context.Canceled", err)
	}
	var perr *ParseError
	if errors.As(err, &perr) {
		t.Error("cancellation must not be reported as a parse failure")
	}
}

func TestParseError(t *testing.T) {
	t.Parallel()

	err := &ParseError{Path: "x.resx", Err: io.ErrUnexpectedEOF}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("ParseError does not unwrap")
	}
	if !strings.Contains(err.Error(), "x.resx") {
		t.Errorf("Error() = %q, want path", err.Error())
	}
}
