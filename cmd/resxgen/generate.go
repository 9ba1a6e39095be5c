// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/invowk/resxgen/internal/buildprops"
	"github.com/invowk/resxgen/internal/config"
	"github.com/invowk/resxgen/internal/discovery"
	"github.com/invowk/resxgen/internal/generator"
	"github.com/invowk/resxgen/internal/issue"
	"github.com/invowk/resxgen/internal/output"
	"github.com/invowk/resxgen/internal/watch"
	"github.com/invowk/resxgen/pkg/project"
	"github.com/invowk/resxgen/pkg/types"
)

type (
	// generateFlagValues holds the flags of the generate and families commands.
	generateFlagValues struct {
		projectPath  string
		outDir       string
		check        bool
		stdout       bool
		watch        bool
		workers      int
		assemblyName string
		properties   []string
		metadata     []string
		include      []string
		exclude      []string
		noNullable   bool
		strict       bool
		matchTimeout time.Duration
	}

	// generateSession is one fully resolved generate invocation. Watch mode
	// rebuilds it on every change so project file edits take effect.
	generateSession struct {
		root     string
		project  *project.Project
		include  []string
		exclude  []string
		selector *discovery.Selector
		request  generator.Request
		writer   *output.Writer
		check    bool
		stdout   bool
		strict   bool
	}
)

func newGenerateCommand(app *App) *cobra.Command {
	flags := &generateFlagValues{}

	cmd := &cobra.Command{
		Use:   "generate [dir]",
		Short: "Generate accessor classes for every resource family",
		Long: `Generate one <Name>.resx.g.cs class per resource family found under dir
(default: the current directory, or the directory of --project).

Generated files are written next to their resources unless --out or the
project file's output_dir is set. Files whose content is unchanged are not
rewritten.

` + SubtitleStyle.Render("Exit codes:") + `
  0  success
  1  failure, or stale files with --check
  2  diagnostics were reported and --strict is set`,
		Example: `  resxgen generate
  resxgen generate src --out Generated
  resxgen generate --property RootNamespace=Contoso.App
  resxgen generate --metadata "Strings/**/*.resx:ClassName=Text"
  resxgen generate --check --strict`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), app, args, flags, cmd.Flags().Changed)
		},
	}

	addSelectionFlags(cmd, flags)
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", "", "write generated files under this directory")
	cmd.Flags().BoolVar(&flags.check, "check", false, "verify generated files are up to date without writing")
	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, "print generated sources instead of writing files")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "regenerate whenever resource or project files change")
	cmd.Flags().IntVarP(&flags.workers, "workers", "j", 0, "families generated concurrently (0 means one per CPU)")
	cmd.Flags().StringVar(&flags.assemblyName, "assembly-name", "", "assembly name used when RootNamespace or ProjectDir is unset")
	cmd.Flags().StringArrayVarP(&flags.properties, "property", "p", nil, "build property as Name=Value (repeatable)")
	cmd.Flags().StringArrayVarP(&flags.metadata, "metadata", "m", nil, "per-file metadata as GLOB:Name=Value (repeatable)")
	cmd.Flags().BoolVar(&flags.noNullable, "no-nullable-attributes", false, "omit nullability attributes from GetString")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit with status 2 when any diagnostic is reported")
	cmd.Flags().DurationVar(&flags.matchTimeout, "match-timeout", 0, "time limit for each placeholder or culture match")
	cmd.MarkFlagsMutuallyExclusive("check", "stdout", "watch")

	return cmd
}

// addSelectionFlags registers the flags shared by commands that discover
// resource files.
func addSelectionFlags(cmd *cobra.Command, flags *generateFlagValues) {
	cmd.Flags().StringVar(&flags.projectPath, "project", "", "project file (default: resxgen.cue or resxgen.toml in dir)")
	cmd.Flags().StringArrayVar(&flags.include, "include", nil, "glob selecting resource files, relative to dir (repeatable)")
	cmd.Flags().StringArrayVar(&flags.exclude, "exclude", nil, "glob excluding files and directories, relative to dir (repeatable)")
}

func runGenerate(ctx context.Context, app *App, args []string, flags *generateFlagValues, changed func(string) bool) error {
	s, err := app.newGenerateSession(args, flags, changed)
	if err != nil {
		return err
	}
	if !flags.watch {
		return app.runGeneratePass(ctx, s)
	}

	if err := app.runGeneratePass(ctx, s); err != nil && !app.reportPassError(err) {
		return err
	}

	w, err := watch.New(watch.Config{
		Root:     s.root,
		Selector: s.selector,
		Extra:    projectTriggers(s),
		Logger:   app.logger,
		OnChange: func(ctx context.Context, paths []string) error {
			app.logger.Info("change detected", "files", strings.Join(paths, ", "))
			next, err := app.newGenerateSession(args, flags, changed)
			if err != nil {
				// A broken project file is reported and fixed in place.
				_, _ = fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, false))
				return nil
			}
			if err := app.runGeneratePass(ctx, next); err != nil && !app.reportPassError(err) {
				return err
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(app.stderr, "%s %s\n", SubtitleStyle.Render("Watching"), CmdStyle.Render(s.root))
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// reportPassError prints err when a watch loop can continue after it and
// reports whether it did.
func (a *App) reportPassError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return true
	}
	_, _ = fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, false))
	return true
}

// projectTriggers lists the project file names, relative to the watched root,
// whose creation or change starts a new pass.
func projectTriggers(s *generateSession) []string {
	if s.project.Path != "" {
		rel, err := filepath.Rel(s.root, s.project.Path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return nil
		}
		return []string{filepath.ToSlash(rel)}
	}
	if s.project.Dir != s.root {
		return nil
	}
	return []string{project.CUEFileName, project.TOMLFileName}
}

// newGenerateSession resolves flags, the project file and configuration into
// a session. Precedence is flag, then project file, then configuration.
func (a *App) newGenerateSession(args []string, flags *generateFlagValues, changed func(string) bool) (*generateSession, error) {
	root, proj, err := loadProject(args, flags.projectPath)
	if err != nil {
		return nil, err
	}

	props := make(map[string]string, len(flags.properties))
	for _, p := range flags.properties {
		name, value, err := project.ParseProperty(p)
		if err != nil {
			return nil, err
		}
		props[name] = value
	}
	rules := make([]project.Rule, 0, len(flags.metadata))
	for _, m := range flags.metadata {
		r, err := project.ParseRule(m)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	proj = proj.Override(props, rules)

	include, exclude := flags.include, flags.exclude
	if len(include) == 0 {
		include = proj.Include
	}
	if len(exclude) == 0 {
		exclude = proj.Exclude
	}
	sel, err := discovery.NewSelector(include, exclude)
	if err != nil {
		return nil, err
	}

	assemblyName := flags.assemblyName
	if assemblyName == "" {
		assemblyName = proj.AssemblyName
	}
	if assemblyName == "" {
		assemblyName = filepath.Base(proj.Dir)
	}

	workers := a.cfg.Generate.Workers
	if changed("workers") {
		workers = types.WorkerCount(flags.workers)
	}
	if err := workers.Validate(); err != nil {
		return nil, err
	}

	timeout := a.cfg.Generate.MatchTimeout
	if changed("match-timeout") {
		if flags.matchTimeout < 0 {
			return nil, fmt.Errorf("--match-timeout must not be negative, got %s", flags.matchTimeout)
		}
		timeout = flags.matchTimeout
	}
	if timeout == 0 {
		timeout = config.DefaultMatchTimeout
	}

	nullable := proj.NullableAttributesOr(a.cfg.Generate.NullableAttributes)
	if flags.noNullable {
		nullable = false
	}

	outDir := proj.OutputPath()
	if flags.outDir != "" {
		if outDir, err = filepath.Abs(flags.outDir); err != nil {
			return nil, fmt.Errorf("resolve output directory: %w", err)
		}
	}

	// The project directory is the default ProjectDir; a ProjectDir property
	// from the project file or a flag overrides it.
	defaults := buildprops.StaticProvider{Global: buildprops.MapOptions{
		buildprops.GlobalKeyPrefix + buildprops.ProjectDir.Name: proj.Dir,
	}}

	return &generateSession{
		root:     root,
		project:  proj,
		include:  include,
		exclude:  exclude,
		selector: sel,
		request: generator.Request{
			BaseDir:            proj.Dir,
			AssemblyName:       assemblyName,
			Provider:           buildprops.LayeredProvider{defaults, proj},
			Workers:            workers.Effective(),
			MatchTimeout:       timeout,
			NullableAttributes: nullable,
		},
		writer: &output.Writer{Root: root, OutDir: outDir, Logger: a.logger},
		check:  flags.check,
		stdout: flags.stdout,
		strict: flags.strict || a.cfg.Generate.Strict,
	}, nil
}

// loadProject resolves the directory to scan and loads its project file. An
// explicit project file also supplies the default directory.
func loadProject(args []string, projectPath string) (string, *project.Project, error) {
	var (
		proj *project.Project
		err  error
	)
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	if projectPath != "" {
		proj, err = project.LoadFile(projectPath)
	} else {
		proj, err = project.Load(dir)
	}
	if err != nil {
		return "", nil, projectError(projectPath, err)
	}

	root := proj.Dir
	if len(args) > 0 {
		if root, err = filepath.Abs(args[0]); err != nil {
			return "", nil, fmt.Errorf("resolve directory: %w", err)
		}
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", nil, issue.NewErrorContext().
			WithOperation("open project directory").
			WithResource(root).
			WithSuggestion("Verify the directory exists").
			Wrap(err).
			BuildError()
	}
	if !info.IsDir() {
		return "", nil, fmt.Errorf("%s is not a directory", root)
	}
	return root, proj, nil
}

func projectError(path string, err error) error {
	if path == "" {
		path = "project file"
	}
	return issue.NewErrorContext().
		WithOperation("load project file").
		WithResource(path).
		WithSuggestion("Run 'resxgen init --force' to start from a fresh project file").
		WithIssue(issue.ProjectFileInvalidId).
		Wrap(err).
		BuildError()
}

// runGeneratePass discovers, generates and emits once.
func (a *App) runGeneratePass(ctx context.Context, s *generateSession) error {
	disc, err := discovery.Discover(ctx, discovery.Config{Root: s.root, Include: s.include, Exclude: s.exclude})
	if err != nil {
		return err
	}
	a.Diagnostics.Render(ctx, fromDiscovery(disc.Diagnostics), a.stderr)
	if len(disc.Files) == 0 {
		_, _ = fmt.Fprintf(a.stderr, "%s no resource files found under %s\n", WarningStyle.Render("!"), s.root)
	}

	req := s.request
	req.Files = disc.FamilyFiles()
	res, err := a.Generator.Run(ctx, req)
	if err != nil {
		return err
	}
	a.Diagnostics.Render(ctx, res.Diagnostics, a.stderr)

	var stale error
	switch {
	case s.stdout:
		if err := s.writer.Print(a.stdout, res.Units); err != nil {
			return err
		}
	case s.check:
		rep, err := s.writer.Check(ctx, res.Units)
		if err != nil && !errors.Is(err, output.ErrStale) {
			return err
		}
		a.printCheckReport(rep)
		stale = err
	default:
		rep, err := s.writer.Write(ctx, res.Units)
		if err != nil {
			return issue.NewErrorContext().
				WithOperation("write generated files").
				WithResource(s.writer.OutDir).
				WithIssue(issue.OutputWriteFailedId).
				Wrap(err).
				BuildError()
		}
		_, _ = fmt.Fprintf(a.stderr, "%s %d class(es): %d written, %d unchanged\n",
			SuccessStyle.Render("✓"), len(res.Units), rep.Count(output.StatusWritten), rep.Count(output.StatusUnchanged))
	}

	if s.strict && len(res.Diagnostics) > 0 {
		return &ExitError{
			Code: types.ExitDiagnostics,
			Err:  fmt.Errorf("%d diagnostic(s) reported with --strict", len(res.Diagnostics)),
		}
	}
	if stale != nil {
		return &ExitError{Code: types.ExitFailure, Err: stale}
	}
	return nil
}

func (a *App) printCheckReport(rep output.Report) {
	for _, p := range rep.Paths(output.StatusStale) {
		_, _ = fmt.Fprintf(a.stderr, "%s %s\n", WarningStyle.Render("stale  "), p)
	}
	for _, p := range rep.Paths(output.StatusMissing) {
		_, _ = fmt.Fprintf(a.stderr, "%s %s\n", WarningStyle.Render("missing"), p)
	}
	if rep.Count(output.StatusStale)+rep.Count(output.StatusMissing) == 0 {
		_, _ = fmt.Fprintf(a.stderr, "%s %d generated file(s) up to date\n", SuccessStyle.Render("✓"), len(rep.Entries))
	}
}
