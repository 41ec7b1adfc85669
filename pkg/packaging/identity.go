// SPDX-License-Identifier: MPL-2.0

package packaging

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// fieldDelimiter separates identifier, version and checksum in package
// file names. Identifiers and versions must not contain it.
const fieldDelimiter = "_"

type (
	// Identifier names a project and the packages built from it.
	// It must be non-empty and must not contain '_', path separators or
	// whitespace, so that package file names decode back to the same value.
	Identifier string

	// Version is a free-form version string, intended to be semver.
	// The same character rules as Identifier apply, except that dots are
	// expected.
	Version string

	// Checksum is the digest of a package archive. Its text form is
	// lowercase hexadecimal.
	Checksum []byte

	// InvalidIdentifierError is returned when an Identifier value is invalid.
	InvalidIdentifierError struct {
		Value  Identifier
		Reason string
	}

	// InvalidVersionError is returned when a Version value is invalid.
	InvalidVersionError struct {
		Value  Version
		Reason string
	}

	// InvalidChecksumError is returned when a checksum text is not valid hex.
	InvalidChecksumError struct {
		Value string
		Cause error
	}
)

// NewIdentifier validates s and returns it as an Identifier.
func NewIdentifier(s string) (Identifier, error) {
	id := Identifier(s)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate returns nil if the Identifier is valid, or an *InvalidIdentifierError.
func (i Identifier) Validate() error {
	if reason := checkToken(string(i)); reason != "" {
		return &InvalidIdentifierError{Value: i, Reason: reason}
	}
	return nil
}

// String returns the string representation of the Identifier.
func (i Identifier) String() string { return string(i) }

// MarshalText implements encoding.TextMarshaler.
func (i Identifier) MarshalText() ([]byte, error) { return []byte(i), nil }

// UnmarshalText implements encoding.TextUnmarshaler and validates the value.
func (i *Identifier) UnmarshalText(text []byte) error {
	id, err := NewIdentifier(string(text))
	if err != nil {
		return err
	}
	*i = id
	return nil
}

// Error implements the error interface for InvalidIdentifierError.
func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidIdentifier for errors.Is() compatibility.
func (e *InvalidIdentifierError) Unwrap() error { return ErrInvalidIdentifier }

// NewVersion validates s and returns it as a Version.
func NewVersion(s string) (Version, error) {
	v := Version(s)
	if err := v.Validate(); err != nil {
		return "", err
	}
	return v, nil
}

// Validate returns nil if the Version is valid, or an *InvalidVersionError.
func (v Version) Validate() error {
	if reason := checkToken(string(v)); reason != "" {
		return &InvalidVersionError{Value: v, Reason: reason}
	}
	return nil
}

// String returns the string representation of the Version.
func (v Version) String() string { return string(v) }

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) { return []byte(v), nil }

// UnmarshalText implements encoding.TextUnmarshaler and validates the value.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := NewVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Error implements the error interface for InvalidVersionError.
func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidVersion for errors.Is() compatibility.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// ParseChecksum decodes a hexadecimal checksum. Upper case digits are accepted.
func ParseChecksum(s string) (Checksum, error) {
	if s == "" {
		return nil, &InvalidChecksumError{Value: s}
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, &InvalidChecksumError{Value: s, Cause: err}
	}
	return Checksum(b), nil
}

// String returns the lowercase hexadecimal form of the checksum.
func (c Checksum) String() string { return hex.EncodeToString(c) }

// Equal reports whether both checksums hold the same bytes.
func (c Checksum) Equal(other Checksum) bool { return bytes.Equal(c, other) }

// IsZero reports whether the checksum is empty.
func (c Checksum) IsZero() bool { return len(c) == 0 }

// MarshalText implements encoding.TextMarshaler.
func (c Checksum) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Checksum) UnmarshalText(text []byte) error {
	parsed, err := ParseChecksum(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Error implements the error interface for InvalidChecksumError.
func (e *InvalidChecksumError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid checksum %q: %v", e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid checksum %q: must be non-empty hexadecimal", e.Value)
}

// Unwrap returns ErrInvalidChecksum for errors.Is() compatibility.
func (e *InvalidChecksumError) Unwrap() error { return ErrInvalidChecksum }

// checkToken returns a reason when s cannot be embedded in a package file name.
func checkToken(s string) string {
	switch {
	case strings.TrimSpace(s) == "":
		return "must be non-empty"
	case strings.Contains(s, fieldDelimiter):
		return "must not contain '" + fieldDelimiter + "'"
	case strings.ContainsAny(s, `/\`):
		return "must not contain path separators"
	case strings.ContainsFunc(s, unicode.IsSpace):
		return "must not contain whitespace"
	}
	return ""
}
