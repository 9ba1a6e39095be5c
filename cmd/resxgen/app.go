// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/invowk/resxgen/internal/config"
	"github.com/invowk/resxgen/internal/diag"
	"github.com/invowk/resxgen/internal/discovery"
	"github.com/invowk/resxgen/internal/generator"
	"github.com/invowk/resxgen/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: every Cobra handler receives an App and delegates
	// through its service interfaces.
	App struct {
		Config      ConfigProvider
		Generator   GenerateService
		Diagnostics DiagnosticRenderer
		stdout      io.Writer
		stderr      io.Writer

		// cfg and logger are set up by the root command before any
		// subcommand runs.
		cfg    *config.Config
		logger *slog.Logger
		// installLogger makes the configured logger the slog default. Only the
		// production entry point sets it.
		installLogger bool
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      ConfigProvider
		Generator   GenerateService
		Diagnostics DiagnosticRenderer
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// GenerateService runs one generation pass. Implementations must not write
	// to stdout/stderr; diagnostics are returned for the CLI layer to render.
	GenerateService interface {
		Run(ctx context.Context, req generator.Request) (generator.Result, error)
	}

	// DiagnosticRenderer renders structured diagnostics.
	DiagnosticRenderer interface {
		Render(ctx context.Context, diags []diag.Diagnostic, stderr io.Writer)
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Generator == nil {
		deps.Generator = &generator.Generator{}
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}

	return &App{
		Config:      deps.Config,
		Generator:   deps.Generator,
		Diagnostics: deps.Diagnostics,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		cfg:         config.DefaultConfig(),
		logger:      slog.New(slog.DiscardHandler),
	}, nil
}

// loadConfig loads configuration via the provider. An explicit --config path
// must load; a broken default file only produces a warning and the defaults.
func (a *App) loadConfig(ctx context.Context, configPath string) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(configPath)})
	if err == nil {
		return cfg, nil
	}
	if configPath != "" {
		return nil, err
	}
	_, _ = fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, false))
	return config.DefaultConfig(), nil
}

// fromDiscovery converts walk diagnostics so they share one renderer with
// generation diagnostics.
func fromDiscovery(diags []discovery.Diagnostic) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, diag.Diagnostic{
			Code:     diag.Code(d.Code),
			Severity: diag.Severity(d.Severity),
			Message:  d.Message,
			Path:     d.Path,
			Cause:    d.Cause,
		})
	}
	return out
}

// Render writes structured diagnostics to stderr with lipgloss styling.
func (r *defaultDiagnosticRenderer) Render(_ context.Context, diags []diag.Diagnostic, stderr io.Writer) {
	for _, d := range diags {
		prefix := WarningStyle.Render(string(diag.SeverityWarning))
		if d.ID != "" {
			prefix += " " + CmdStyle.Render(d.ID)
		}

		if d.Path != "" {
			_, _ = fmt.Fprintf(stderr, "%s: %s (%s)\n", prefix, d.Message, d.Path)
			continue
		}

		_, _ = fmt.Fprintf(stderr, "%s: %s\n", prefix, d.Message)
	}
}
