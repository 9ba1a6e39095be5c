// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/invowk/resxgen/internal/issue"
	"github.com/invowk/resxgen/internal/testutil"
	"github.com/invowk/resxgen/pkg/types"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
	if cfg.Generate.Workers != 0 {
		t.Errorf("Workers = %d, want 0", cfg.Generate.Workers)
	}
	if cfg.Generate.MatchTimeout != DefaultMatchTimeout {
		t.Errorf("MatchTimeout = %v", cfg.Generate.MatchTimeout)
	}
	if !cfg.Generate.NullableAttributes {
		t.Error("expected nullable attributes to be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

// Tests below use t.Setenv and therefore cannot run in parallel.

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	dir := t.TempDir()

	loaded, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	if loaded.Path != "" {
		t.Errorf("Path = %q, want empty", loaded.Path)
	}
	if diff := cmp.Diff(DefaultConfig(), loaded.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.cue")
	testutil.MustWriteFile(t, path, `
ui: verbose: true
generate: {
	workers: 3
	match_timeout: "250ms"
	nullable_attributes: false
}
`)

	loaded, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	if loaded.Path != path {
		t.Errorf("Path = %q, want %q", loaded.Path, path)
	}

	want := DefaultConfig()
	want.UI.Verbose = true
	want.Generate.Workers = 3
	want.Generate.MatchTimeout = 250 * time.Millisecond
	want.Generate.NullableAttributes = false
	if diff := cmp.Diff(want, loaded.Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "config.cue"), `generate: workers: 3`)
	t.Setenv("RESXGEN_GENERATE_WORKERS", "7")
	t.Setenv("RESXGEN_GENERATE_STRICT", "true")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Generate.Workers != 7 {
		t.Errorf("Workers = %d, want 7", cfg.Generate.Workers)
	}
	if !cfg.Generate.Strict {
		t.Error("Strict = false, want true")
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("RESXGEN_UI_COLOR_SCHEME", "purple")

	_, err := LoadWithPath(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if !errors.Is(err, ErrInvalidColorScheme) {
		t.Fatalf("LoadWithPath() error = %v, want ErrInvalidColorScheme", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Operation != "validate configuration" {
		t.Errorf("error = %#v, want ActionableError for validation", err)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{"unknown field", `colour: "red"`, "colour"},
		{"negative workers", `generate: workers: -1`, "generate.workers"},
		{"bad duration", `generate: match_timeout: "soon"`, "generate.match_timeout"},
		{"bad scheme", `ui: color_scheme: "purple"`, "ui.color_scheme"},
		{"syntax", `ui: {`, "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.cue")
			testutil.MustWriteFile(t, path, tt.content)

			_, err := LoadWithPath(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(path)})
			if err == nil {
				t.Fatal("LoadWithPath() error = nil")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.Operation != "load configuration" || ae.Issue != issue.ConfigLoadFailedId {
				t.Errorf("error = %v, want ActionableError for load", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not contain %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "absent.cue")
	_, err := LoadWithPath(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(path)})
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %v, want ActionableError", err)
	}
	if len(ae.Hints()) == 0 {
		t.Error("expected suggestions")
	}
}

func TestLoad_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadWithPath(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("LoadWithPath() error = %v, want context.Canceled", err)
	}
}

func TestLoadOptions_Validate(t *testing.T) {
	t.Parallel()

	if err := (LoadOptions{}).Validate(); err != nil {
		t.Errorf("empty LoadOptions should be valid, got %v", err)
	}

	err := LoadOptions{ConfigFilePath: "  ", ConfigDirPath: "\t"}.Validate()
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Fatalf("error = %v, want ErrInvalidLoadOptions", err)
	}
	var loadErr *InvalidLoadOptionsError
	if !errors.As(err, &loadErr) || len(loadErr.FieldErrors) != 2 {
		t.Errorf("FieldErrors = %v, want 2", loadErr)
	}
	if !errors.Is(loadErr.FieldErrors[0], types.ErrInvalidFilesystemPath) {
		t.Errorf("field error = %v, want ErrInvalidFilesystemPath", loadErr.FieldErrors[0])
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.UI.ColorScheme = ColorSchemeDark
	cfg.Generate.Workers = 2
	cfg.Generate.MatchTimeout = 1500 * time.Millisecond
	cfg.Generate.Strict = true

	path := filepath.Join(t.TempDir(), "config.cue")
	testutil.MustWriteFile(t, path, GenerateCUE(cfg))

	loaded, err := LoadWithPath(context.Background(), LoadOptions{ConfigFilePath: types.FilesystemPath(path)})
	if err != nil {
		t.Fatalf("LoadWithPath() error = %v", err)
	}
	if diff := cmp.Diff(cfg, loaded.Config); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	// Mutates the package-level directory override.
	dir := filepath.Join(t.TempDir(), "resxgen")
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	path, created, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if !created || path != filepath.Join(dir, "config.cue") {
		t.Errorf("CreateDefaultConfig() = %q, %v", path, created)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file missing: %v", err)
	}

	_, created, err = CreateDefaultConfig()
	if err != nil || created {
		t.Errorf("second CreateDefaultConfig() = %v, %v; want existing file kept", created, err)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	// Not parallel: mutates HOME and XDG_CONFIG_HOME.
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup applies to Linux only")
	}

	home := t.TempDir()
	t.Cleanup(testutil.SetHomeDir(t, home))

	t.Setenv("XDG_CONFIG_HOME", "")
	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if want := filepath.Join(home, ".config", AppName); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}

	xdg := filepath.Join(home, "xdg")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	got, err = ConfigFilePath()
	if err != nil {
		t.Fatalf("ConfigFilePath() error = %v", err)
	}
	if want := filepath.Join(xdg, AppName, "config.cue"); got != want {
		t.Errorf("ConfigFilePath() = %q, want %q", got, want)
	}
}

func TestColorScheme_Validate(t *testing.T) {
	t.Parallel()

	for _, cs := range []ColorScheme{"", ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if err := cs.Validate(); err != nil {
			t.Errorf("ColorScheme(%q).Validate() = %v", cs, err)
		}
	}
	err := ColorScheme("neon").Validate()
	var csErr *InvalidColorSchemeError
	if !errors.As(err, &csErr) || !errors.Is(err, ErrInvalidColorScheme) {
		t.Errorf("ColorScheme(neon).Validate() = %v", err)
	}
}
