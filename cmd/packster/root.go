// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the packster command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	rootCmd := &cobra.Command{
		Use:   "packster",
		Short: "A content-addressed package manager",
		Long: TitleStyle.Render("packster") + SubtitleStyle.Render(" - A content-addressed package manager") + `

packster packs a project directory into a single compressed archive whose
name carries its identifier, version and SHA-256 checksum, and deploys such
packages into locations: directories tracking their deployments in a lockfile.

` + SubtitleStyle.Render("Examples:") + `
  packster project pack -p ./my-project -o ./dist
  packster location init -l /srv/apps
  packster package deploy -p ./dist/<package file> -l /srv/apps
  packster location show -l /srv/apps
  packster location undeploy -c <checksum> -l /srv/apps`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.configure(cmd.Context(), configPath, verbose); err != nil {
				app.verbose = verbose
				return app.fail(cmd, err, "load configuration", configPath)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $HOME/.config/packster/config.cue)")

	rootCmd.AddCommand(newProjectCommand(app))
	rootCmd.AddCommand(newPackageCommand(app))
	rootCmd.AddCommand(newLocationCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the command line with args and returns the process exit code.
func Run(ctx context.Context, args []string) int {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))
	rootCmd.SetArgs(args)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	)
	return exitCode(err)
}

// Execute runs the command line with the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:]))
}

// handleError prints errors fang receives. Operation failures were already
// rendered by the command that returned them.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, context.Canceled) {
		return ExitFailure
	}
	return ExitUsage
}
