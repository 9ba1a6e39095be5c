// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"

	"github.com/invowk/resxgen/internal/diag"
)

// Tests in this file swap the package-level render function and therefore
// do not run in parallel.

func stubRender(t *testing.T) {
	t.Helper()
	original := render
	render = func(in string, _ string) (string, error) { return in, nil }
	t.Cleanup(func() { render = original })
}

func TestId_Constants(t *testing.T) {
	ids := []Id{
		ResxParseFailedId,
		NamespaceUnresolvedId,
		ResourceNameUnresolvedId,
		PropertyInconsistentId,
		ProjectFileInvalidId,
		ConfigLoadFailedId,
		StaleOutputId,
		OutputWriteFailedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
		if Get(id) == nil {
			t.Errorf("Issue with ID %d is not in the issues map", id)
		}
	}
	if ResxParseFailedId != 1 {
		t.Errorf("ResxParseFailedId = %d, want 1", ResxParseFailedId)
	}
}

func TestEveryDiagnosticHasAnIssue(t *testing.T) {
	for _, d := range diag.Descriptors() {
		i, ok := Lookup(d.ID)
		if !ok {
			t.Errorf("no issue for diagnostic %s", d.ID)
			continue
		}
		if i.Title() != d.Title {
			t.Errorf("Lookup(%s).Title() = %q, want %q", d.ID, i.Title(), d.Title)
		}
		if !strings.Contains(string(i.MarkdownMsg()), d.ID) {
			t.Errorf("issue %s does not mention its ID", d.ID)
		}
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		key    string
		wantID Id
		wantOK bool
	}{
		{"RXG0001", ResxParseFailedId, true},
		{"rxg0004", PropertyInconsistentId, true},
		{"namespace_unresolved", NamespaceUnresolvedId, true},
		{"stale_output", StaleOutputId, true},
		{"STALE_OUTPUT", StaleOutputId, true},
		{"RXG9999", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			i, ok := Lookup(tt.key)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if ok && i.Id() != tt.wantID {
				t.Errorf("Lookup(%q) = %d, want %d", tt.key, i.Id(), tt.wantID)
			}
		})
	}
}

func TestValues_Ordered(t *testing.T) {
	issues := Values()
	if len(issues) != 8 {
		t.Fatalf("Values() returned %d issues, want 8", len(issues))
	}
	for i := 1; i < len(issues); i++ {
		if issues[i-1].Id() >= issues[i].Id() {
			t.Errorf("Values() not ordered at %d: %d >= %d", i, issues[i-1].Id(), issues[i].Id())
		}
	}
}

func TestIssue_DocLinks(t *testing.T) {
	for _, i := range Values() {
		links := i.DocLinks()
		if len(links) == 0 {
			t.Errorf("issue %s has no doc links", i.Key())
			continue
		}
		original := links[0]
		links[0] = "modified"
		if i.DocLinks()[0] != original {
			t.Error("DocLinks() should return a clone")
		}
	}
}

func TestIssue_Render(t *testing.T) {
	stubRender(t)

	for _, i := range Values() {
		rendered, err := i.Render("notty")
		if err != nil {
			t.Errorf("issue %s failed to render: %v", i.Key(), err)
		}
		if !strings.Contains(rendered, "## See also") {
			t.Errorf("issue %s rendered without links section", i.Key())
		}
	}
}

func TestIssue_Render_NoLinks(t *testing.T) {
	stubRender(t)

	testIssue := &Issue{
		id:    Id(9998),
		mdMsg: "# Test Issue\n\nNo links here.",
	}

	rendered, err := testIssue.Render("")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if strings.Contains(rendered, "See also") {
		t.Error("Render() without links should not contain 'See also'")
	}
}

func TestIssue_Render_Glamour(t *testing.T) {
	rendered, err := Get(StaleOutputId).Render("notty")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if !strings.Contains(rendered, "resxgen generate") {
		t.Errorf("rendered output missing command:\n%s", rendered)
	}
}
