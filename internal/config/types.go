// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/packster/packster/pkg/operation"
	"github.com/packster/packster/pkg/packaging"
)

const (
	// LogLevelDebug logs every state transition.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn only logs warnings and errors.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError only logs errors.
	LogLevelError LogLevel = "error"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidFileName is returned when a configured file name is empty or
	// contains a path separator.
	ErrInvalidFileName = errors.New("invalid file name")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// LogLevel is the minimum level of the CLI logger.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// InvalidFileNameError is returned when a configured file name cannot
	// name a single file.
	InvalidFileNameError struct {
		Field string
		Value string
	}

	// InvalidConfigError collects the field-level errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ManifestName is the project manifest file name (default "packster.toml").
		ManifestName string `json:"manifest_name" mapstructure:"manifest_name"`
		// LockfileName is the location lockfile name (default "packster.lock").
		LockfileName string `json:"lockfile_name" mapstructure:"lockfile_name"`
		// PackageExtension is the package file extension (default "packster").
		PackageExtension string `json:"package_extension" mapstructure:"package_extension"`
		// Log configures the CLI logger.
		Log LogConfig `json:"log" mapstructure:"log"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`

		// Source is the file the configuration was read from, empty when
		// only defaults and the environment apply.
		Source string `json:"-" mapstructure:"-"`
	}

	// LogConfig configures the CLI logger.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose prints error chains and issue guides.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ManifestName:     operation.DefaultManifestName,
		LockfileName:     operation.DefaultLockfileName,
		PackageExtension: packaging.DefaultExtension,
		Log:              LogConfig{Level: LogLevelInfo},
		UI:               UIConfig{Verbose: false},
	}
}

// Settings returns the operation settings the configuration describes.
func (c *Config) Settings(toolVersion string) operation.Settings {
	return operation.Settings{
		ManifestName:     c.ManifestName,
		LockfileName:     c.LockfileName,
		PackageExtension: c.PackageExtension,
		ToolVersion:      toolVersion,
	}
}

// Validate checks every field and returns all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if err := validateFileName("manifest_name", c.ManifestName); err != nil {
		errs = append(errs, err)
	}
	if err := validateFileName("lockfile_name", c.LockfileName); err != nil {
		errs = append(errs, err)
	}
	if err := validateFileName("package_extension", c.PackageExtension); err != nil {
		errs = append(errs, err)
	} else if strings.HasPrefix(c.PackageExtension, ".") {
		errs = append(errs, &InvalidFileNameError{Field: "package_extension", Value: c.PackageExtension})
	}
	if err := c.Log.Level.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Validate returns an error if the level is not one of the known levels.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Level returns the charm log level.
func (l LogLevel) Level() (log.Level, error) {
	if err := l.Validate(); err != nil {
		return log.InfoLevel, err
	}
	return log.ParseLevel(string(l))
}

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Error implements the error interface.
func (e *InvalidFileNameError) Error() string {
	return fmt.Sprintf("%s: invalid file name %q", e.Field, e.Value)
}

// Unwrap returns ErrInvalidFileName for errors.Is() compatibility.
func (e *InvalidFileNameError) Unwrap() error { return ErrInvalidFileName }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns the sentinel and every field error.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

func validateFileName(field, value string) error {
	if strings.TrimSpace(value) == "" || value == "." || value == ".." ||
		strings.ContainsAny(value, `/\`) {
		return &InvalidFileNameError{Field: field, Value: value}
	}
	return nil
}
