// SPDX-License-Identifier: MPL-2.0

package operation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/packster/packster/pkg/fspath"
	"github.com/packster/packster/pkg/packaging"
)

var (
	// ErrInvalidTransition is the sentinel error wrapped by InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrManifestNotFound is the sentinel error wrapped by ManifestNotFoundError.
	ErrManifestNotFound = errors.New("project manifest not found")
	// ErrManifestIsDirectory is the sentinel error wrapped by ManifestIsDirectoryError.
	ErrManifestIsDirectory = errors.New("project manifest is a directory")
	// ErrManifestAlreadyPresent is the sentinel error wrapped by ManifestAlreadyPresentError.
	ErrManifestAlreadyPresent = errors.New("project manifest already present")
	// ErrWorkspacePathNotADirectory is the sentinel error wrapped by WorkspacePathNotADirectoryError.
	ErrWorkspacePathNotADirectory = errors.New("workspace path is not a directory")
	// ErrLockfileAlreadyPresent is the sentinel error wrapped by LockfileAlreadyPresentError.
	ErrLockfileAlreadyPresent = errors.New("lockfile already present")
	// ErrLocationPathNotADirectory is the sentinel error wrapped by LocationPathNotADirectoryError.
	ErrLocationPathNotADirectory = errors.New("location path is not a directory")
	// ErrLockfileNotAFile is the sentinel error wrapped by LockfileNotAFileError.
	ErrLockfileNotAFile = errors.New("lockfile is not a file")
	// ErrPackageChecksumMismatch is the sentinel error wrapped by PackageChecksumMismatchError.
	ErrPackageChecksumMismatch = errors.New("package checksum does not match")
	// ErrPackageAlreadyDeployed is the sentinel error wrapped by PackageAlreadyDeployedError.
	ErrPackageAlreadyDeployed = errors.New("package already deployed in location")
	// ErrPackageNotYetDeployed is the sentinel error wrapped by PackageNotYetDeployedError.
	ErrPackageNotYetDeployed = errors.New("package not yet deployed in location")
	// ErrPackageAlreadyExists is the sentinel error wrapped by PackageAlreadyExistsError.
	ErrPackageAlreadyExists = errors.New("package already exists")
)

type (
	// InvalidTransitionError is returned when a transition is called on an
	// operation that is not in one of the states the transition accepts.
	// The operation state is left unchanged.
	InvalidTransitionError struct {
		Workflow   Workflow
		Transition string
		Current    State
		Accepted   []State
	}

	// ManifestNotFoundError is returned when the workspace has no project manifest.
	ManifestNotFoundError struct {
		Path fspath.Absolute
	}

	// ManifestIsDirectoryError is returned when the project manifest path is a directory.
	ManifestIsDirectoryError struct {
		Path fspath.Absolute
	}

	// ManifestAlreadyPresentError is returned when initializing a workspace
	// that already has a project manifest.
	ManifestAlreadyPresentError struct {
		Path fspath.Absolute
	}

	// WorkspacePathNotADirectoryError is returned when a workspace path
	// exists but is not a directory.
	WorkspacePathNotADirectoryError struct {
		Path fspath.Absolute
	}

	// LockfileAlreadyPresentError is returned when initializing a location
	// that already has a lockfile.
	LockfileAlreadyPresentError struct {
		Path fspath.Absolute
	}

	// LocationPathNotADirectoryError is returned when a location path exists
	// but is not a directory.
	LocationPathNotADirectoryError struct {
		Path fspath.Absolute
	}

	// LockfileNotAFileError is returned when a location lockfile is missing
	// or is not a regular file.
	LockfileNotAFileError struct {
		Path fspath.Absolute
	}

	// PackageChecksumMismatchError is returned when the digest of a package
	// file differs from the checksum encoded in its name.
	PackageChecksumMismatchError struct {
		Path     fspath.Absolute
		Expected packaging.Checksum
		Actual   packaging.Checksum
	}

	// PackageAlreadyDeployedError is returned when deploying a package whose
	// checksum is already recorded in the location.
	PackageAlreadyDeployedError struct {
		Checksum packaging.Checksum
		Location fspath.Absolute
	}

	// PackageNotYetDeployedError is returned when undeploying a checksum the
	// location does not record.
	PackageNotYetDeployedError struct {
		Checksum packaging.Checksum
		Location fspath.Absolute
	}

	// PackageAlreadyExistsError is returned when the canonical package file
	// is already present in the output directory.
	PackageAlreadyExistsError struct {
		Path fspath.Absolute
	}
)

// Error implements the error interface for InvalidTransitionError.
func (e *InvalidTransitionError) Error() string {
	accepted := make([]string, len(e.Accepted))
	for i, s := range e.Accepted {
		accepted[i] = string(s)
	}
	return fmt.Sprintf("invalid transition %s in %s workflow: operation is %s, expected %s",
		e.Transition, e.Workflow, e.Current, strings.Join(accepted, " or "))
}

// Unwrap returns ErrInvalidTransition for errors.Is() compatibility.
func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// Error implements the error interface for ManifestNotFoundError.
func (e *ManifestNotFoundError) Error() string {
	return fmt.Sprintf("project manifest not found at %s", e.Path)
}

// Unwrap returns ErrManifestNotFound for errors.Is() compatibility.
func (e *ManifestNotFoundError) Unwrap() error { return ErrManifestNotFound }

// Error implements the error interface for ManifestIsDirectoryError.
func (e *ManifestIsDirectoryError) Error() string {
	return fmt.Sprintf("project manifest %s is a directory", e.Path)
}

// Unwrap returns ErrManifestIsDirectory for errors.Is() compatibility.
func (e *ManifestIsDirectoryError) Unwrap() error { return ErrManifestIsDirectory }

// Error implements the error interface for ManifestAlreadyPresentError.
func (e *ManifestAlreadyPresentError) Error() string {
	return fmt.Sprintf("project manifest already present at %s", e.Path)
}

// Unwrap returns ErrManifestAlreadyPresent for errors.Is() compatibility.
func (e *ManifestAlreadyPresentError) Unwrap() error { return ErrManifestAlreadyPresent }

// Error implements the error interface for WorkspacePathNotADirectoryError.
func (e *WorkspacePathNotADirectoryError) Error() string {
	return fmt.Sprintf("workspace path %s is not a directory", e.Path)
}

// Unwrap returns ErrWorkspacePathNotADirectory for errors.Is() compatibility.
func (e *WorkspacePathNotADirectoryError) Unwrap() error { return ErrWorkspacePathNotADirectory }

// Error implements the error interface for LockfileAlreadyPresentError.
func (e *LockfileAlreadyPresentError) Error() string {
	return fmt.Sprintf("lockfile already present at %s", e.Path)
}

// Unwrap returns ErrLockfileAlreadyPresent for errors.Is() compatibility.
func (e *LockfileAlreadyPresentError) Unwrap() error { return ErrLockfileAlreadyPresent }

// Error implements the error interface for LocationPathNotADirectoryError.
func (e *LocationPathNotADirectoryError) Error() string {
	return fmt.Sprintf("location path %s is not a directory", e.Path)
}

// Unwrap returns ErrLocationPathNotADirectory for errors.Is() compatibility.
func (e *LocationPathNotADirectoryError) Unwrap() error { return ErrLocationPathNotADirectory }

// Error implements the error interface for LockfileNotAFileError.
func (e *LockfileNotAFileError) Error() string {
	return fmt.Sprintf("lockfile %s is missing or not a file", e.Path)
}

// Unwrap returns ErrLockfileNotAFile for errors.Is() compatibility.
func (e *LockfileNotAFileError) Unwrap() error { return ErrLockfileNotAFile }

// Error implements the error interface for PackageChecksumMismatchError.
func (e *PackageChecksumMismatchError) Error() string {
	return fmt.Sprintf("package %s checksum does not match: name says %s, content hashes to %s",
		e.Path, e.Expected, e.Actual)
}

// Unwrap returns ErrPackageChecksumMismatch for errors.Is() compatibility.
func (e *PackageChecksumMismatchError) Unwrap() error { return ErrPackageChecksumMismatch }

// Error implements the error interface for PackageAlreadyDeployedError.
func (e *PackageAlreadyDeployedError) Error() string {
	return fmt.Sprintf("package %s is already deployed in %s", e.Checksum, e.Location)
}

// Unwrap returns ErrPackageAlreadyDeployed for errors.Is() compatibility.
func (e *PackageAlreadyDeployedError) Unwrap() error { return ErrPackageAlreadyDeployed }

// Error implements the error interface for PackageNotYetDeployedError.
func (e *PackageNotYetDeployedError) Error() string {
	return fmt.Sprintf("package %s is not deployed in %s", e.Checksum, e.Location)
}

// Unwrap returns ErrPackageNotYetDeployed for errors.Is() compatibility.
func (e *PackageNotYetDeployedError) Unwrap() error { return ErrPackageNotYetDeployed }

// Error implements the error interface for PackageAlreadyExistsError.
func (e *PackageAlreadyExistsError) Error() string {
	return fmt.Sprintf("package %s already exists", e.Path)
}

// Unwrap returns ErrPackageAlreadyExists for errors.Is() compatibility.
func (e *PackageAlreadyExistsError) Unwrap() error { return ErrPackageAlreadyExists }
