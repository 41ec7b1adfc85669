// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/packster/packster/internal/config"
	"github.com/packster/packster/pkg/filesystem"
	"github.com/packster/packster/pkg/operation"
)

type (
	// App wires CLI services and shared dependencies. Every cobra handler
	// receives the App and runs its operation through it.
	App struct {
		Config     config.Provider
		FileSystem filesystem.FileSystem
		// ToolVersion is recorded in every package built.
		ToolVersion string
		stdout      io.Writer
		stderr      io.Writer
		out         outputStyles
		errOut      outputStyles

		// Set by the root command before any subcommand runs.
		cfg     *config.Config
		logger  *log.Logger
		verbose bool
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      config.Provider
		FileSystem  filesystem.FileSystem
		ToolVersion string
		Stdout      io.Writer
		Stderr      io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.FileSystem == nil {
		deps.FileSystem = filesystem.NewOS()
	}
	if deps.ToolVersion == "" {
		deps.ToolVersion = Version
	}

	return &App{
		Config:      deps.Config,
		FileSystem:  deps.FileSystem,
		ToolVersion: deps.ToolVersion,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		out:         newOutputStyles(deps.Stdout),
		errOut:      newOutputStyles(deps.Stderr),
	}
}

// configure loads the configuration and builds the logger. The --verbose
// flag wins over ui.verbose; verbose mode logs at debug level.
func (a *App) configure(ctx context.Context, configPath string, verboseFlag bool) error {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err != nil {
		return err
	}

	level, err := cfg.Log.Level.Level()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.verbose = verboseFlag || cfg.UI.Verbose
	if a.verbose {
		level = log.DebugLevel
	}
	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	return nil
}

// settings returns the operation settings of the loaded configuration.
func (a *App) settings() operation.Settings {
	if a.cfg == nil {
		return operation.DefaultSettings(a.ToolVersion)
	}
	return a.cfg.Settings(a.ToolVersion)
}

// env returns the operation collaborators working on the App file system.
func (a *App) env() *operation.Env {
	return operation.NewEnv(a.FileSystem, a.logger)
}
