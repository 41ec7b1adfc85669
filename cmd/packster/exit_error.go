// SPDX-License-Identifier: MPL-2.0

package cmd

import "fmt"

const (
	// ExitFailure is returned when an operation fails.
	ExitFailure = 1
	// ExitUsage is returned when the command line cannot be parsed.
	ExitUsage = 2
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE
// handlers. The error has already been rendered when an ExitError is returned.
type ExitError struct {
	Code int
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
