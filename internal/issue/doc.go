// SPDX-License-Identifier: MPL-2.0

// Package issue turns packster failures into user-facing messages.
//
// ActionableError carries the operation, the resource and suggestions for a
// failure. Issue is a longer Markdown guide, looked up by ID and rendered
// with glamour, shown when the CLI runs in verbose mode.
package issue
