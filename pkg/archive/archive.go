// SPDX-License-Identifier: MPL-2.0

// Package archive implements the package payload format: a tar stream
// compressed with zstd. Entries are written and read incrementally, so no
// archive is ever held in memory as a whole.
//
// Only regular files and directories are stored; a symlink to a file is
// stored as the file it points to. Permissions, ownership and timestamps are
// normalized on write and ignored on read; symlinks, hardlinks and other
// record types found in an archive are skipped.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/klauspost/compress/zstd"

	"github.com/packster/packster/pkg/filesystem"
	"github.com/packster/packster/pkg/fspath"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

var (
	// ErrNodeAlreadyExists is the sentinel error wrapped by NodeAlreadyExistsError.
	ErrNodeAlreadyExists = errors.New("node already exists")
	// ErrPathEscapesDestination is the sentinel error wrapped by PathEscapesDestinationError.
	ErrPathEscapesDestination = errors.New("archive entry escapes destination")
	// ErrInvalidExcludePattern is returned when an exclusion glob does not compile.
	ErrInvalidExcludePattern = errors.New("invalid exclude pattern")

	// epoch is the modification time written for every entry so that equal
	// trees produce equal archives.
	epoch = time.Unix(0, 0).UTC()
)

type (
	// Tarball archives a directory tree as tar records inside a zstd stream.
	// The zero value is ready to use.
	Tarball struct{}

	// NodeAlreadyExistsError is returned by Extract when a file record
	// targets a path that is already occupied.
	NodeAlreadyExistsError struct {
		Path fspath.Absolute
	}

	// PathEscapesDestinationError is returned by Extract when an entry name
	// is absolute or climbs above the extraction directory.
	PathEscapesDestinationError struct {
		Name        string
		Destination fspath.Absolute
	}
)

// NewTarball returns a Tarball archiver.
func NewTarball() *Tarball { return &Tarball{} }

// Error implements the error interface for NodeAlreadyExistsError.
func (e *NodeAlreadyExistsError) Error() string {
	return fmt.Sprintf("node already exists: %s", e.Path)
}

// Unwrap returns ErrNodeAlreadyExists for errors.Is() compatibility.
func (e *NodeAlreadyExistsError) Unwrap() error { return ErrNodeAlreadyExists }

// Error implements the error interface for PathEscapesDestinationError.
func (e *PathEscapesDestinationError) Error() string {
	return fmt.Sprintf("archive entry %q escapes destination %s", e.Name, e.Destination)
}

// Unwrap returns ErrPathEscapesDestination for errors.Is() compatibility.
func (e *PathEscapesDestinationError) Unwrap() error { return ErrPathEscapesDestination }

// Archive writes every entry below root into a new archive at dest. The root
// itself is not stored, and neither is dest when it lies inside root. A
// symbolic link to a regular file is stored as a copy of its target; links to
// directories, dangling links and special files are left out. Entries
// whose slash-separated path relative to root matches one of the exclude
// globs are left out; an excluded directory is left out with its content.
func (t *Tarball) Archive(fsys filesystem.FileSystem, root, dest fspath.Absolute, exclude ...string) (err error) {
	matchers, err := compileExcludes(exclude)
	if err != nil {
		return err
	}

	out, err := fsys.OpenWrite(dest)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close archive: %w", closeErr)
		}
		if err != nil {
			_ = fsys.RemoveAll(dest) // Best-effort cleanup of a partial archive
		}
	}()

	enc, err := zstd.NewWriter(out, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}
	tw := tar.NewWriter(enc)

	walkErr := fsys.Walk(root, func(entry filesystem.Entry) error {
		if entry.Path.Equal(root) || entry.Path.Equal(dest) {
			return nil
		}
		rel, relErr := entry.Path.Rel(root)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}
		name := rel.Slash()
		if matchesAny(matchers, name) {
			if entry.IsDir {
				return filesystem.SkipDir
			}
			return nil
		}
		switch {
		case entry.IsDir:
			return writeDir(tw, name)
		case entry.IsRegular:
			return writeFile(fsys, tw, entry, name)
		default:
			return nil
		}
	})
	if walkErr != nil {
		_ = tw.Close()
		_ = enc.Close()
		return fmt.Errorf("failed to archive %s: %w", root, walkErr)
	}

	if err := tw.Close(); err != nil {
		_ = enc.Close()
		return fmt.Errorf("failed to finish tar stream: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finish compressed stream: %w", err)
	}
	return nil
}

// Extract unpacks the archive at archivePath below dest. Missing parent
// directories are created on demand; directory records are created after all
// files. A file record on an occupied path fails with *NodeAlreadyExistsError
// and an entry resolving outside dest fails with *PathEscapesDestinationError.
// Extraction stops at the first error; files already written are kept.
func (t *Tarball) Extract(fsys filesystem.FileSystem, archivePath, dest fspath.Absolute) (err error) {
	in, err := fsys.OpenRead(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close archive: %w", closeErr)
		}
	}()

	dec, err := zstd.NewReader(in, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("failed to create decompressor: %w", err)
	}
	defer dec.Close()
	tr := tar.NewReader(dec)

	var dirs []fspath.Absolute
	for {
		hdr, nextErr := tr.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			return fmt.Errorf("failed to read archive entry: %w", nextErr)
		}

		target, skip, targetErr := resolveTarget(dest, hdr.Name)
		if targetErr != nil {
			return targetErr
		}
		if skip {
			continue
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			dirs = append(dirs, target)
		case tar.TypeReg:
			if err := extractFile(fsys, tr, target); err != nil {
				return err
			}
		default:
			// Links and special files are not part of the format.
		}
	}

	for _, dir := range dirs {
		if err := fsys.CreateDirAll(dir); err != nil {
			return err
		}
	}
	return nil
}

// resolveTarget maps an entry name to its path below dest. skip is true for
// names that designate dest itself.
func resolveTarget(dest fspath.Absolute, name string) (target fspath.Absolute, skip bool, err error) {
	if path.IsAbs(name) || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", false, &PathEscapesDestinationError{Name: name, Destination: dest}
	}
	rel := fspath.AssumeRelative(filepath.FromSlash(strings.TrimSuffix(name, "/")))
	if rel.Escapes() {
		return "", false, &PathEscapesDestinationError{Name: name, Destination: dest}
	}
	rel = rel.Normalized()
	if rel == "." {
		return "", true, nil
	}
	return dest.JoinRelative(rel), false, nil
}

func extractFile(fsys filesystem.FileSystem, r io.Reader, target fspath.Absolute) (err error) {
	if fsys.Exists(target) {
		return &NodeAlreadyExistsError{Path: target}
	}
	if err := fsys.CreateDirAll(target.Dir()); err != nil {
		return err
	}

	w, err := fsys.OpenWrite(target)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", target, closeErr)
		}
	}()

	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("failed to extract %s: %w", target, err)
	}
	return nil
}

func writeDir(tw *tar.Writer, name string) error {
	hdr := &tar.Header{
		Typeflag: tar.TypeDir,
		Name:     name + "/",
		Mode:     dirMode,
		ModTime:  epoch,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write directory entry %s: %w", name, err)
	}
	return nil
}

func writeFile(fsys filesystem.FileSystem, tw *tar.Writer, entry filesystem.Entry, name string) (err error) {
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Size:     entry.Size,
		Mode:     fileMode,
		ModTime:  epoch,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write file entry %s: %w", name, err)
	}

	r, err := fsys.OpenRead(entry.Path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := io.Copy(tw, r); err != nil {
		return fmt.Errorf("failed to write file data %s: %w", name, err)
	}
	return nil
}

// ExtensionPattern returns an exclude glob matching the files of dir, a
// directory relative to the archived root, whose name ends with
// "."+extension. Subdirectories of dir are not matched.
func ExtensionPattern(dir fspath.Relative, extension string) string {
	suffix := "*." + glob.QuoteMeta(extension)
	if dir.Normalized() == "." {
		return suffix
	}
	return glob.QuoteMeta(dir.Normalized().Slash()) + "/" + suffix
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidExcludePattern, pattern, err)
		}
		matchers = append(matchers, g)
	}
	return matchers, nil
}

func matchesAny(matchers []glob.Glob, name string) bool {
	for _, g := range matchers {
		if g.Match(name) {
			return true
		}
	}
	return false
}
