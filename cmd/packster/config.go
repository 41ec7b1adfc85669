// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packster/packster/internal/config"
)

// newConfigCommand creates the `packster config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect packster configuration",
		Long: `Inspect packster configuration.

Configuration is read from, in order:
  - the file given with --config
  - Linux: ~/.config/packster/config.cue
  - macOS: ~/Library/Application Support/packster/config.cue
  - Windows: %APPDATA%\packster\config.cue
  - ./config.cue

PACKSTER_* environment variables override the file (PACKSTER_LOG_LEVEL, ...).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app)
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, app *App) error {
	if app.cfg == nil {
		return app.fail(cmd, fmt.Errorf("configuration not loaded"), opShowConfig, "")
	}

	source := app.out.subtitle.Render("(defaults)")
	if app.cfg.Source != "" {
		source = app.cfg.Source
	}
	fmt.Fprintf(app.stdout, "// Source: %s\n", source)
	fmt.Fprint(app.stdout, config.GenerateCUE(app.cfg))
	return nil
}
