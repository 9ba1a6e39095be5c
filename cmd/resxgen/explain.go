// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/invowk/resxgen/internal/config"
	"github.com/invowk/resxgen/internal/issue"
)

func newExplainCommand(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "explain [ID|code]",
		Short: "Explain a diagnostic or error",
		Long: `Explain a diagnostic such as RXG0002, or an operational error such as
stale_output. Without an argument, list everything that can be explained.`,
		Example: `  resxgen explain
  resxgen explain RXG0001
  resxgen explain namespace_unresolved`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				listIssues(app.stdout)
				return nil
			}
			return explainIssue(app, args[0], raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print the Markdown source instead of rendering it")

	return cmd
}

func listIssues(w io.Writer) {
	_, _ = fmt.Fprintln(w, TitleStyle.Render("Explainable issues"))
	_, _ = fmt.Fprintln(w)
	for _, i := range issue.Values() {
		_, _ = fmt.Fprintf(w, "  %s %s\n", CmdStyle.Render(fmt.Sprintf("%-20s", i.Key())), i.Title())
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, SubtitleStyle.Render("Run 'resxgen explain <key>' for details."))
}

func explainIssue(app *App, key string, raw bool) error {
	i, ok := issue.Lookup(key)
	if !ok {
		return issue.NewErrorContext().
			WithOperation("explain issue").
			WithResource(key).
			WithSuggestion("Run 'resxgen explain' to list the known diagnostics").
			Wrap(fmt.Errorf("unknown diagnostic or error %q", key)).
			BuildError()
	}
	if raw {
		_, err := fmt.Fprintln(app.stdout, i.Markdown())
		return err
	}
	rendered, err := i.Render(glamourStyle(app.cfg.UI.ColorScheme))
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(app.stdout, rendered)
	return err
}

// glamourStyle maps the configured color scheme to a glamour style name.
func glamourStyle(scheme config.ColorScheme) string {
	switch scheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}
