// SPDX-License-Identifier: MPL-2.0

package family

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/resxgen/internal/pattern"
)

var resolver = NewResolver(pattern.DefaultTimeout)

func memFiles(paths ...string) []File {
	files := make([]File, len(paths))
	for i, p := range paths {
		files[i] = NewMemFile(p, "")
	}
	return files
}

func TestIsResourceFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"Strings.resx", true},
		{"Strings.RESX", true},
		{"dir/Strings.en.ResX", true},
		{"Strings.resx.bak", false},
		{"resx", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsResourceFile(tt.path); got != tt.want {
			t.Errorf("IsResourceFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestKeyFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want string
	}{
		{"neutral", "/p/Foo.resx", "/p/Foo"},
		{"language", "/p/Foo.fr.resx", "/p/Foo"},
		{"language and region", "/p/Foo.en-US.resx", "/p/Foo"},
		{"lowercase region", "/p/Foo.en-us.resx", "/p/Foo"},
		{"non-locale dot segment", "/p/My.Config.resx", "/p/My.Config"},
		{"locale after dotted name", "/p/My.Config.de.resx", "/p/My.Config"},
		{"three letters is not a locale", "/p/Foo.eng.resx", "/p/Foo.eng"},
		{"script subtag is not a locale", "/p/Foo.zh-Hans.resx", "/p/Foo.zh-Hans"},
		{"dotted directory", "/p.en/Foo.resx", "/p.en/Foo"},
		{"relative", "Foo.de.resx", "Foo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolver.KeyFor(tt.path); got != tt.want {
				t.Errorf("KeyFor(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestLocaleOf(t *testing.T) {
	t.Parallel()

	if got := resolver.LocaleOf("/p/Foo.en-us.resx"); got != "en-us" {
		t.Errorf("LocaleOf() = %q, want en-us", got)
	}
	if got := resolver.LocaleOf("/p/Foo.resx"); got != "" {
		t.Errorf("LocaleOf() = %q, want empty", got)
	}
}

func TestGroup(t *testing.T) {
	t.Parallel()

	files := memFiles(
		"/p/Foo.resx",
		"/p/FooBar.resx",
		"/p/Foo.en-US.resx",
		"/p/foo.de.resx",
		"/p/My.Config.resx",
		"/q/Foo.resx",
	)

	got := resolver.Group(files)
	type summary struct {
		Key   string
		Paths []string
	}
	var gotSummary []summary
	for _, f := range got {
		gotSummary = append(gotSummary, summary{Key: f.Key, Paths: f.Paths()})
	}

	want := []summary{
		{Key: "/p/Foo", Paths: []string{"/p/Foo.resx", "/p/Foo.en-US.resx", "/p/foo.de.resx"}},
		{Key: "/p/FooBar", Paths: []string{"/p/FooBar.resx"}},
		{Key: "/p/My.Config", Paths: []string{"/p/My.Config.resx"}},
		{Key: "/q/Foo", Paths: []string{"/q/Foo.resx"}},
	}
	if diff := cmp.Diff(want, gotSummary); diff != "" {
		t.Errorf("Group() mismatch (-want +got):\n%s", diff)
	}
}

func TestGroup_Empty(t *testing.T) {
	t.Parallel()

	if got := resolver.Group(nil); len(got) != 0 {
		t.Errorf("Group(nil) = %v, want empty", got)
	}
}

func TestFamily_Accessors(t *testing.T) {
	t.Parallel()

	fams := resolver.Group(memFiles("/p/Sub/Foo.resx", "/p/Sub/Foo.en-us.resx", "/p/Sub/Foo.FR.resx"))
	if len(fams) != 1 {
		t.Fatalf("expected one family, got %d", len(fams))
	}
	f := fams[0]
	if f.BaseName() != "Foo" {
		t.Errorf("BaseName() = %q, want Foo", f.BaseName())
	}
	if f.Dir() != "/p/Sub" {
		t.Errorf("Dir() = %q, want /p/Sub", f.Dir())
	}
	if diff := cmp.Diff([]string{"", "en-US", "fr"}, resolver.Cultures(f)); diff != "" {
		t.Errorf("Cultures() mismatch (-want +got):\n%s", diff)
	}
}

func TestMemFile_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemFile("a.resx", "x").Text(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Text() error = %v, want context.Canceled", err)
	}
}

func TestResolver_CulturesUsesResolverTimeout(t *testing.T) {
	t.Parallel()

	r := NewResolver(50 * time.Millisecond)
	if got := r.locale.Timeout(); got != 50*time.Millisecond {
		t.Fatalf("locale timeout = %v, want 50ms", got)
	}
	f := Family{Key: "/p/Foo", Files: memFiles("/p/Foo.resx", "/p/Foo.de-de.resx")}
	if diff := cmp.Diff([]string{"", "de-DE"}, r.Cultures(f)); diff != "" {
		t.Errorf("Cultures() mismatch (-want +got):\n%s", diff)
	}
}
