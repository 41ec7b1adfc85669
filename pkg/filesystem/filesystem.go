// SPDX-License-Identifier: MPL-2.0

// Package filesystem is the file system seam of packster. Every read and
// write of the pipeline and the archive codec goes through FileSystem so that
// tests can run against an in-memory tree.
package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/packster/packster/pkg/fspath"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

var (
	// ErrAncestorIsAFile is returned when a directory cannot be created
	// because one of its ancestors is a regular file.
	ErrAncestorIsAFile = errors.New("ancestor is a file")

	// SkipDir may be returned by a WalkFunc to skip the current directory.
	SkipDir = filepath.SkipDir
)

type (
	// Entry is one node visited by Walk. IsRegular and Size describe the
	// link target when the node is a symbolic link; a link to a directory is
	// neither IsDir nor IsRegular and is not descended into.
	Entry struct {
		Path      fspath.Absolute
		Size      int64
		IsDir     bool
		IsRegular bool
	}

	// WalkFunc is called for every entry visited by Walk, parents first.
	WalkFunc func(entry Entry) error

	// FileSystem is the set of file system operations packster relies on.
	// Implementations must be safe for use by several goroutines.
	FileSystem interface {
		// Exists reports whether anything exists at path.
		Exists(path fspath.Absolute) bool
		// IsFile reports whether path is a regular file.
		IsFile(path fspath.Absolute) bool
		// IsDir reports whether path is a directory.
		IsDir(path fspath.Absolute) bool
		// ReadToString returns the whole content of the file at path.
		ReadToString(path fspath.Absolute) (string, error)
		// OpenRead opens the file at path for reading.
		OpenRead(path fspath.Absolute) (io.ReadCloser, error)
		// OpenWrite creates or truncates the file at path. Missing parents
		// are not created.
		OpenWrite(path fspath.Absolute) (io.WriteCloser, error)
		// CreateDirAll creates path and any missing parent.
		CreateDirAll(path fspath.Absolute) error
		// WriteAll creates or truncates the file at path with content.
		WriteAll(path fspath.Absolute, content []byte) error
		// WriteAtomic writes content next to path then renames it over path.
		WriteAtomic(path fspath.Absolute, content []byte) error
		// Rename moves from to to.
		Rename(from, to fspath.Absolute) error
		// RemoveAll removes path and everything below it.
		RemoveAll(path fspath.Absolute) error
		// Walk visits root and every entry below it.
		Walk(root fspath.Absolute, fn WalkFunc) error
	}

	// Afero implements FileSystem on top of an afero.Fs.
	Afero struct {
		fs afero.Fs
	}
)

// New returns a FileSystem backed by fs.
func New(fs afero.Fs) *Afero {
	return &Afero{fs: fs}
}

// NewOS returns a FileSystem backed by the operating system.
func NewOS() *Afero {
	return New(afero.NewOsFs())
}

// NewMemory returns an empty in-memory FileSystem.
func NewMemory() *Afero {
	return New(afero.NewMemMapFs())
}

// Fs returns the underlying afero.Fs.
func (a *Afero) Fs() afero.Fs { return a.fs }

// Exists reports whether anything exists at path.
func (a *Afero) Exists(path fspath.Absolute) bool {
	_, err := a.fs.Stat(path.String())
	return err == nil
}

// IsFile reports whether path is a regular file.
func (a *Afero) IsFile(path fspath.Absolute) bool {
	info, err := a.fs.Stat(path.String())
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path is a directory.
func (a *Afero) IsDir(path fspath.Absolute) bool {
	info, err := a.fs.Stat(path.String())
	return err == nil && info.IsDir()
}

// ReadToString returns the whole content of the file at path.
func (a *Afero) ReadToString(path fspath.Absolute) (string, error) {
	data, err := afero.ReadFile(a.fs, path.String())
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// OpenRead opens the file at path for reading.
func (a *Afero) OpenRead(path fspath.Absolute) (io.ReadCloser, error) {
	f, err := a.fs.Open(path.String())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

// OpenWrite creates or truncates the file at path.
func (a *Afero) OpenWrite(path fspath.Absolute) (io.WriteCloser, error) {
	f, err := a.fs.OpenFile(path.String(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

// CreateDirAll creates path and any missing parent. It fails with
// ErrAncestorIsAFile when path or one of its ancestors is a regular file.
func (a *Afero) CreateDirAll(path fspath.Absolute) error {
	for p := path; ; p = p.Dir() {
		if a.IsFile(p) {
			return fmt.Errorf("failed to create directory %s: %s: %w", path, p, ErrAncestorIsAFile)
		}
		if a.IsDir(p) || p.Dir() == p {
			break
		}
	}
	if err := a.fs.MkdirAll(path.String(), dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// WriteAll creates or truncates the file at path with content.
func (a *Afero) WriteAll(path fspath.Absolute, content []byte) error {
	if err := afero.WriteFile(a.fs, path.String(), content, filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteAtomic writes content to path.tmp then renames it to path, so readers
// see either the previous content or the new one.
func (a *Afero) WriteAtomic(path fspath.Absolute, content []byte) error {
	tmpPath := path.String() + ".tmp"
	if err := afero.WriteFile(a.fs, tmpPath, content, filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := a.fs.Rename(tmpPath, path.String()); err != nil {
		_ = a.fs.Remove(tmpPath) // Best-effort cleanup of temp file
		return fmt.Errorf("failed to rename %s: %w", tmpPath, err)
	}
	return nil
}

// Rename moves from to to.
func (a *Afero) Rename(from, to fspath.Absolute) error {
	if err := a.fs.Rename(from.String(), to.String()); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", from, to, err)
	}
	return nil
}

// RemoveAll removes path and everything below it.
func (a *Afero) RemoveAll(path fspath.Absolute) error {
	if err := a.fs.RemoveAll(path.String()); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// Walk visits root and every entry below it in lexical order without
// following symbolic links. Returning SkipDir from fn on a directory skips
// its content.
func (a *Afero) Walk(root fspath.Absolute, fn WalkFunc) error {
	return afero.Walk(a.fs, root.String(), func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		entry := Entry{Path: fspath.AssumeAbsolute(path), IsDir: info.IsDir()}
		if info.Mode()&fs.ModeSymlink != 0 {
			target, statErr := a.fs.Stat(path)
			if statErr != nil {
				// Dangling link.
				return fn(entry)
			}
			info = target
		}
		if info.Mode().IsRegular() {
			entry.IsRegular = true
			entry.Size = info.Size()
		}
		return fn(entry)
	})
}
