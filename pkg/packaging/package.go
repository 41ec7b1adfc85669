// SPDX-License-Identifier: MPL-2.0

package packaging

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultExtension is the file extension of package archives.
const DefaultExtension = "packster"

const (
	fieldIdentifier      = "identifier"
	fieldVersion         = "version"
	fieldChecksum        = "checksum"
	fieldPacksterVersion = "packster_version"
	fieldExtension       = "extension"
)

// fileNamePattern captures the four fields of a package file name. The
// extension is appended per call since it is configurable.
const fileNamePattern = `^(?P<identifier>[^_]+)_(?P<version>[^_]+)_(?P<checksum>[0-9a-fA-F]+)\.(?P<packster_version>[0-9a-fA-F]+)\.`

type (
	// Package is the content-addressed result of packing a project.
	Package struct {
		Identifier      Identifier `json:"identifier"`
		Version         Version    `json:"version"`
		Checksum        Checksum   `json:"checksum"`
		PacksterVersion string     `json:"packster_version"`
	}

	// WrongFileNameFormatError is returned when a package file name does not
	// decode into a Package. Field names the part that could not be read.
	WrongFileNameFormatError struct {
		Path   string
		Field  string
		Reason string
	}
)

// NewPackage builds the Package of a project once its archive checksum is known.
func NewPackage(project *Project, checksum Checksum, packsterVersion string) *Package {
	return &Package{
		Identifier:      project.Identifier,
		Version:         project.Version,
		Checksum:        checksum,
		PacksterVersion: packsterVersion,
	}
}

// FileName returns the canonical file name of the package:
// {identifier}_{version}_{hex(checksum)}.{hex(packster_version)}.{extension}
func (p *Package) FileName(extension string) string {
	var sb strings.Builder
	sb.WriteString(string(p.Identifier))
	sb.WriteString(fieldDelimiter)
	sb.WriteString(string(p.Version))
	sb.WriteString(fieldDelimiter)
	sb.WriteString(p.Checksum.String())
	sb.WriteByte('.')
	sb.WriteString(hex.EncodeToString([]byte(p.PacksterVersion)))
	sb.WriteByte('.')
	sb.WriteString(extension)
	return sb.String()
}

// Equal reports whether both packages carry the same four fields.
func (p *Package) Equal(other *Package) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Identifier == other.Identifier &&
		p.Version == other.Version &&
		p.Checksum.Equal(other.Checksum) &&
		p.PacksterVersion == other.PacksterVersion
}

// ParsePackageFileName decodes the base name of path back into a Package.
// Only the name is read; the archive itself is not opened.
func ParsePackageFileName(path, extension string) (*Package, error) {
	name := filepath.Base(path)
	re, err := regexp.Compile(fileNamePattern + regexp.QuoteMeta(extension) + `$`)
	if err != nil {
		return nil, fmt.Errorf("compiling package file name pattern: %w", err)
	}

	match := re.FindStringSubmatch(name)
	if match == nil {
		field, reason := diagnoseFileName(name, extension)
		return nil, &WrongFileNameFormatError{Path: path, Field: field, Reason: reason}
	}
	group := func(field string) string { return match[re.SubexpIndex(field)] }

	identifier, err := NewIdentifier(group(fieldIdentifier))
	if err != nil {
		return nil, &WrongFileNameFormatError{Path: path, Field: fieldIdentifier, Reason: err.Error()}
	}
	version, err := NewVersion(group(fieldVersion))
	if err != nil {
		return nil, &WrongFileNameFormatError{Path: path, Field: fieldVersion, Reason: err.Error()}
	}
	checksum, err := ParseChecksum(group(fieldChecksum))
	if err != nil {
		return nil, &WrongFileNameFormatError{Path: path, Field: fieldChecksum, Reason: err.Error()}
	}
	rawVersion, err := hex.DecodeString(group(fieldPacksterVersion))
	if err != nil {
		return nil, &WrongFileNameFormatError{Path: path, Field: fieldPacksterVersion, Reason: err.Error()}
	}
	if !utf8.Valid(rawVersion) {
		return nil, &WrongFileNameFormatError{Path: path, Field: fieldPacksterVersion, Reason: "not valid UTF-8 once decoded"}
	}

	return &Package{
		Identifier:      identifier,
		Version:         version,
		Checksum:        checksum,
		PacksterVersion: string(rawVersion),
	}, nil
}

// Error implements the error interface for WrongFileNameFormatError.
func (e *WrongFileNameFormatError) Error() string {
	return fmt.Sprintf("wrong package file name format for %q: %s %s", e.Path, e.Field, e.Reason)
}

// Unwrap returns ErrWrongFileNameFormat for errors.Is() compatibility.
func (e *WrongFileNameFormatError) Unwrap() error { return ErrWrongFileNameFormat }

// diagnoseFileName walks the name field by field to report the first one
// that does not fit the format.
func diagnoseFileName(name, extension string) (field, reason string) {
	suffix := "." + extension
	if !strings.HasSuffix(name, suffix) {
		return fieldExtension, fmt.Sprintf("is missing, expected %q", suffix)
	}
	rest := strings.TrimSuffix(name, suffix)

	identifier, rest, ok := strings.Cut(rest, fieldDelimiter)
	if !ok || identifier == "" {
		return fieldIdentifier, "is missing"
	}
	version, rest, ok := strings.Cut(rest, fieldDelimiter)
	if !ok || version == "" {
		return fieldVersion, "is missing"
	}
	checksum, packsterVersion, ok := strings.Cut(rest, ".")
	if !ok || checksum == "" || !isHex(checksum) {
		return fieldChecksum, "is missing or not hexadecimal"
	}
	if packsterVersion == "" || !isHex(packsterVersion) {
		return fieldPacksterVersion, "is missing or not hexadecimal"
	}
	return fieldPacksterVersion, "does not match the expected format"
}

func isHex(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
