// SPDX-License-Identifier: MPL-2.0

// Package codec holds the textual formats of packster: TOML for project
// manifests (packster.toml) and JSON for location lockfiles (packster.lock).
package codec
