// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/invowk/resxgen/internal/config"
	"github.com/invowk/resxgen/internal/issue"
	"github.com/invowk/resxgen/pkg/types"
)

// newConfigCommand creates the `resxgen config` command tree. The config
// commands report load errors themselves, so they replace the root's
// configuration-loading hook with one that only sets up logging.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage resxgen configuration",
		Long: `Manage resxgen configuration.

Configuration is stored in:
  - Linux: ~/.config/resxgen/config.cue
  - macOS: ~/Library/Application Support/resxgen/config.cue
  - Windows: %APPDATA%\resxgen\config.cue

Every value can be overridden with a ` + config.EnvPrefix + `_* environment variable,
for example ` + config.EnvPrefix + `_GENERATE_WORKERS=4.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app.setup(rootFlags.verbose, config.ColorSchemeAuto)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app, rootFlags.configPath)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfigPath(app, rootFlags.configPath)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: types.FilesystemPath(rootFlags.configPath)})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return err
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, configPath string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: types.FilesystemPath(configPath)})
	if err != nil {
		if rendered, renderErr := issue.Get(issue.ConfigLoadFailedId).Render("auto"); renderErr == nil {
			_, _ = fmt.Fprint(app.stderr, rendered)
		}
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	out := app.stdout

	_, _ = fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	_, _ = fmt.Fprintln(out)

	source := SubtitleStyle.Render("(using defaults)")
	if path := configSource(configPath); path != "" {
		source = path
	}
	_, _ = fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), source)

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	_, _ = fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	_, _ = fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "%s:\n", keyStyle.Render("generate"))
	workers := cfg.Generate.Workers.String()
	if cfg.Generate.Workers == 0 {
		workers += SubtitleStyle.Render(fmt.Sprintf(" (%d CPUs)", cfg.Generate.Workers.Effective()))
	}
	_, _ = fmt.Fprintf(out, "  workers: %s\n", valueStyle.Render(workers))
	_, _ = fmt.Fprintf(out, "  match_timeout: %s\n", valueStyle.Render(cfg.Generate.MatchTimeout.String()))
	_, _ = fmt.Fprintf(out, "  nullable_attributes: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Generate.NullableAttributes)))
	_, _ = fmt.Fprintf(out, "  strict: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Generate.Strict)))

	return nil
}

// configSource returns the file configuration is read from, or "" when only
// defaults and environment apply.
func configSource(configPath string) string {
	if configPath != "" {
		return configPath
	}
	path, err := config.ConfigFilePath()
	if err != nil {
		return ""
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return ""
	}
	return path
}

func showConfigPath(app *App, configPath string) error {
	if configPath != "" {
		_, _ = fmt.Fprintf(app.stdout, "Config file: %s\n", configPath)
		return nil
	}
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	_, _ = fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)
	return nil
}

func initConfig(app *App) error {
	path, created, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		_, _ = fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	_, _ = fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
