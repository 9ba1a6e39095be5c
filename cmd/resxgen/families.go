// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/invowk/resxgen/internal/discovery"
	"github.com/invowk/resxgen/internal/family"
)

func newFamiliesCommand(app *App) *cobra.Command {
	flags := &generateFlagValues{}

	cmd := &cobra.Command{
		Use:   "families [dir]",
		Short: "List resource families and their cultures",
		Long: `List the resource families found under dir without generating anything.

Each family is one neutral resource file and its localized variants, such
as Strings.resx, Strings.de.resx and Strings.fr-CA.resx. Every family
produces one generated class.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFamilies(cmd.Context(), app, args, flags, cmd.Flags().Changed)
		},
	}
	addSelectionFlags(cmd, flags)

	return cmd
}

func listFamilies(ctx context.Context, app *App, args []string, flags *generateFlagValues, changed func(string) bool) error {
	s, err := app.newGenerateSession(args, flags, changed)
	if err != nil {
		return err
	}
	disc, err := discovery.Discover(ctx, discovery.Config{Root: s.root, Include: s.include, Exclude: s.exclude})
	if err != nil {
		return err
	}
	app.Diagnostics.Render(ctx, fromDiscovery(disc.Diagnostics), app.stderr)

	resolver := family.NewResolver(s.request.MatchTimeout)
	families := resolver.Group(disc.FamilyFiles())
	if len(families) == 0 {
		_, _ = fmt.Fprintln(app.stdout, SubtitleStyle.Render("No resource families found under "+s.root))
		return nil
	}

	_, _ = fmt.Fprintln(app.stdout, TitleStyle.Render(fmt.Sprintf("Resource families (%d)", len(families))))
	for _, fam := range families {
		_, _ = fmt.Fprintf(app.stdout, "\n%s %s\n", CmdStyle.Render(relTo(s.root, fam.Key)), SubtitleStyle.Render(fmt.Sprintf("(%d file(s))", len(fam.Files))))
		cultures := resolver.Cultures(fam)
		for i, p := range fam.Paths() {
			culture := cultures[i]
			if culture == "" {
				culture = "neutral"
			}
			_, _ = fmt.Fprintf(app.stdout, "  %-8s %s\n", culture, VerboseStyle.Render(relTo(s.root, p)))
		}
	}
	return nil
}

// relTo returns path relative to root in slash form, or path itself when it
// lies outside root.
func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
