// SPDX-License-Identifier: MPL-2.0

package packaging

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIdentifier is the sentinel error wrapped by InvalidIdentifierError.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrInvalidChecksum is the sentinel error wrapped by InvalidChecksumError.
	ErrInvalidChecksum = errors.New("invalid checksum")
	// ErrWrongFileNameFormat is the sentinel error wrapped by WrongFileNameFormatError.
	ErrWrongFileNameFormat = errors.New("wrong package file name format")
	// ErrMissingMandatoryField is the sentinel error wrapped by MissingMandatoryFieldError.
	ErrMissingMandatoryField = errors.New("missing mandatory field")
	// ErrMalformedManifest is the sentinel error wrapped by MalformedManifestError.
	ErrMalformedManifest = errors.New("malformed project manifest")
	// ErrMalformedLockfile is the sentinel error wrapped by MalformedLockfileError.
	ErrMalformedLockfile = errors.New("malformed lockfile")
)

type (
	// MissingMandatoryFieldError is returned when a required field of an
	// entity is absent from its serialized form.
	MissingMandatoryFieldError struct {
		Entity string
		Field  string
	}

	// MalformedManifestError is returned when a project manifest cannot be
	// decoded. Line and Column are zero when the decoder gives no position.
	MalformedManifestError struct {
		Line   int
		Column int
		Cause  error
	}

	// MalformedLockfileError is returned when a lockfile cannot be decoded.
	MalformedLockfileError struct {
		Cause error
	}
)

// Error implements the error interface for MissingMandatoryFieldError.
func (e *MissingMandatoryFieldError) Error() string {
	return fmt.Sprintf("missing mandatory field %q for %s", e.Field, e.Entity)
}

// Unwrap returns ErrMissingMandatoryField for errors.Is() compatibility.
func (e *MissingMandatoryFieldError) Unwrap() error { return ErrMissingMandatoryField }

// Error implements the error interface for MalformedManifestError.
func (e *MalformedManifestError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed project manifest at line %d, column %d: %v", e.Line, e.Column, e.Cause)
	}
	return fmt.Sprintf("malformed project manifest: %v", e.Cause)
}

// Unwrap returns both the sentinel and the decoder error.
func (e *MalformedManifestError) Unwrap() []error { return []error{ErrMalformedManifest, e.Cause} }

// Error implements the error interface for MalformedLockfileError.
func (e *MalformedLockfileError) Error() string {
	return fmt.Sprintf("malformed lockfile: %v", e.Cause)
}

// Unwrap returns both the sentinel and the decoder error.
func (e *MalformedLockfileError) Unwrap() []error { return []error{ErrMalformedLockfile, e.Cause} }
