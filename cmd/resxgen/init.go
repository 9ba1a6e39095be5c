// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invowk/resxgen/internal/discovery"
	"github.com/invowk/resxgen/pkg/project"
)

// ErrProjectExists is returned by init when a project file is already present.
var ErrProjectExists = errors.New("project file already exists")

type initFlagValues struct {
	format       string
	assemblyName string
	force        bool
}

func newInitCommand(app *App) *cobra.Command {
	flags := &initFlagValues{}

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a resxgen project file",
		Long: `Create a resxgen.cue (or resxgen.toml) project file in dir with the
default include and exclude patterns and an assembly name.`,
		Example: `  resxgen init
  resxgen init src/App --format toml --assembly-name Contoso.App`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return initProject(app, dir, flags)
		},
	}
	cmd.Flags().StringVar(&flags.format, "format", "cue", "project file format (cue or toml)")
	cmd.Flags().StringVar(&flags.assemblyName, "assembly-name", "", "assembly name (default: the directory name)")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "replace an existing project file")

	return cmd
}

func initProject(app *App, dir string, flags *initFlagValues) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve directory: %w", err)
	}

	var name string
	switch flags.format {
	case "cue":
		name = project.CUEFileName
	case "toml":
		name = project.TOMLFileName
	default:
		return fmt.Errorf("%w: %q (use cue or toml)", project.ErrUnsupportedFormat, flags.format)
	}

	// Any existing project file blocks init, including one in the other
	// format, since both present at once is an error.
	for _, existing := range []string{project.CUEFileName, project.TOMLFileName} {
		p := filepath.Join(absDir, existing)
		if _, statErr := os.Stat(p); statErr != nil {
			continue
		}
		if !flags.force {
			return fmt.Errorf("%w: %s (use --force to replace it)", ErrProjectExists, p)
		}
		if existing != name {
			if err := os.Remove(p); err != nil {
				return fmt.Errorf("remove %s: %w", p, err)
			}
		}
	}

	assemblyName := flags.assemblyName
	if assemblyName == "" {
		assemblyName = filepath.Base(absDir)
	}
	f := project.File{
		AssemblyName: assemblyName,
		Properties:   map[string]string{"RootNamespace": assemblyName},
		Include:      discovery.DefaultInclude(),
		Exclude:      discovery.DefaultExclude(),
	}
	if _, err := project.New(absDir, "", f); err != nil {
		return err
	}

	var content string
	if name == project.CUEFileName {
		content = project.GenerateCUE(f)
	} else if content, err = project.GenerateTOML(f); err != nil {
		return err
	}

	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", absDir, err)
	}
	path := filepath.Join(absDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
