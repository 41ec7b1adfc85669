// SPDX-License-Identifier: MPL-2.0

// Package config handles packster configuration using Viper with CUE as the
// file format.
//
// Configuration is read from config.cue in the platform config directory
// (~/.config/packster on Linux) or in the working directory, or from the file
// given with --config. Values are validated against an embedded CUE schema
// and can be overridden with PACKSTER_* environment variables
// (PACKSTER_LOCKFILE_NAME, PACKSTER_LOG_LEVEL, ...).
package config
