// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed absolute and relative filesystem paths.
//
// An Absolute or Relative value asserts the kind of path it carries. Values
// are built either by assumption (AssumeAbsolute, AssumeRelative: the caller
// vouches for the kind) or by a checked constructor (NewAbsolute, NewRelative)
// that fails with a *PathKindMismatchError. Normalize resolves "." and ".."
// lexically without touching the filesystem.
package fspath

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrPathKindMismatch is the sentinel error wrapped by PathKindMismatchError.
	ErrPathKindMismatch = errors.New("path kind mismatch")
	// ErrBaseNotPrefix is the sentinel error wrapped by BaseNotPrefixError.
	ErrBaseNotPrefix = errors.New("base is not a prefix of path")
)

const (
	// KindAbsolute identifies absolute paths.
	KindAbsolute Kind = "absolute"
	// KindRelative identifies relative paths.
	KindRelative Kind = "relative"
)

type (
	// Kind names the expected kind of a path in mismatch errors.
	Kind string

	// Absolute is a path known to be absolute.
	Absolute string

	// Relative is a path known to be relative.
	Relative string

	// PathKindMismatchError is returned when a path is not of the expected kind.
	PathKindMismatchError struct {
		Path     string
		Expected Kind
	}

	// BaseNotPrefixError is returned when converting a path to a relative
	// path against a base that does not contain it.
	BaseNotPrefixError struct {
		Base Absolute
		Path Absolute
	}
)

// Error implements the error interface for PathKindMismatchError.
func (e *PathKindMismatchError) Error() string {
	return fmt.Sprintf("path %q is not %s", e.Path, e.Expected)
}

// Unwrap returns ErrPathKindMismatch for errors.Is() compatibility.
func (e *PathKindMismatchError) Unwrap() error { return ErrPathKindMismatch }

// Error implements the error interface for BaseNotPrefixError.
func (e *BaseNotPrefixError) Error() string {
	return fmt.Sprintf("base %q is not a prefix of path %q", e.Base, e.Path)
}

// Unwrap returns ErrBaseNotPrefix for errors.Is() compatibility.
func (e *BaseNotPrefixError) Unwrap() error { return ErrBaseNotPrefix }

// AssumeAbsolute wraps p without checking it.
func AssumeAbsolute(p string) Absolute { return Absolute(p) }

// AssumeRelative wraps p without checking it.
func AssumeRelative(p string) Relative { return Relative(p) }

// NewAbsolute returns p as an Absolute, or a *PathKindMismatchError when p is relative.
func NewAbsolute(p string) (Absolute, error) {
	if !filepath.IsAbs(p) {
		return "", &PathKindMismatchError{Path: p, Expected: KindAbsolute}
	}
	return Absolute(p), nil
}

// NewRelative returns p as a Relative, or a *PathKindMismatchError when p is absolute.
func NewRelative(p string) (Relative, error) {
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return "", &PathKindMismatchError{Path: p, Expected: KindRelative}
	}
	return Relative(p), nil
}

// FromCurrentDir resolves user input against the working directory.
// Absolute input is returned normalized; relative input is joined to the
// current directory first.
func FromCurrentDir(p string) (Absolute, error) {
	if filepath.IsAbs(p) {
		return Absolute(Normalize(p)), nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return Absolute(Normalize(filepath.Join(wd, p))), nil
}

// String returns the string representation of the Absolute path.
func (a Absolute) String() string { return string(a) }

// Join appends elements to the path. The result is cleaned.
func (a Absolute) Join(elem ...string) Absolute {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(a)
	parts = append(parts, elem...)
	return Absolute(filepath.Join(parts...))
}

// JoinRelative appends a relative path.
func (a Absolute) JoinRelative(r Relative) Absolute {
	return a.Join(string(r))
}

// Dir returns the parent directory.
func (a Absolute) Dir() Absolute { return Absolute(filepath.Dir(string(a))) }

// Base returns the last element of the path.
func (a Absolute) Base() string { return filepath.Base(string(a)) }

// WithBase replaces the last element of the path with name.
func (a Absolute) WithBase(name string) Absolute {
	return a.Dir().Join(name)
}

// Normalized returns the lexically normalized form of the path.
func (a Absolute) Normalized() Absolute { return Absolute(Normalize(string(a))) }

// Equal reports whether both paths normalize to the same value.
func (a Absolute) Equal(other Absolute) bool {
	return Normalize(string(a)) == Normalize(string(other))
}

// Rel returns the path relative to base. Both paths are normalized first.
// The result is "." when the paths are equal.
func (a Absolute) Rel(base Absolute) (Relative, error) {
	path, root := Normalize(string(a)), Normalize(string(base))
	if path == root {
		return ".", nil
	}
	if !IsAncestorOf(root, path) {
		return "", &BaseNotPrefixError{Base: base, Path: a}
	}
	rel := strings.TrimPrefix(path, root)
	rel = strings.TrimLeftFunc(rel, isSeparator)
	return Relative(rel), nil
}

// String returns the string representation of the Relative path.
func (r Relative) String() string { return string(r) }

// Slash returns the path with forward slashes, as stored in archives.
func (r Relative) Slash() string { return filepath.ToSlash(string(r)) }

// Normalized returns the lexically normalized form of the path.
func (r Relative) Normalized() Relative { return Relative(Normalize(string(r))) }

// Escapes reports whether the normalized path climbs above its base.
func (r Relative) Escapes() bool {
	n := Normalize(string(r))
	return n == ".." || strings.HasPrefix(n, ".."+string(filepath.Separator))
}

// Normalize resolves "." and ".." lexically. A ".." removes the last normal
// component pushed so far; when there is none it is kept as is, so a path
// never climbs above what it names through counting alone. The volume name
// and root are preserved. Both '/' and the OS separator are accepted.
func Normalize(p string) string {
	vol := filepath.VolumeName(p)
	rest := p[len(vol):]
	rooted := rest != "" && isSeparator(rune(rest[0]))

	var parts []string
	level := 0
	for _, component := range strings.FieldsFunc(rest, isSeparator) {
		switch component {
		case ".":
		case "..":
			if level > 0 {
				parts = parts[:len(parts)-1]
				level--
			} else {
				parts = append(parts, component)
			}
		default:
			parts = append(parts, component)
			level++
		}
	}

	var sb strings.Builder
	sb.WriteString(vol)
	if rooted {
		sb.WriteRune(filepath.Separator)
	}
	sb.WriteString(strings.Join(parts, string(filepath.Separator)))
	if sb.Len() == 0 {
		return "."
	}
	return sb.String()
}

// IsAncestorOf reports whether parent strictly contains child, comparing
// normalized paths component by component.
func IsAncestorOf(parent, child string) bool {
	p, c := Normalize(parent), Normalize(child)
	if p == c {
		return false
	}
	if !strings.HasSuffix(p, string(filepath.Separator)) {
		p += string(filepath.Separator)
	}
	return strings.HasPrefix(c, p)
}

func isSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}
