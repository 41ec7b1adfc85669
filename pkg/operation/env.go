// SPDX-License-Identifier: MPL-2.0

package operation

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/packster/packster/pkg/archive"
	"github.com/packster/packster/pkg/codec"
	"github.com/packster/packster/pkg/digest"
	"github.com/packster/packster/pkg/filesystem"
	"github.com/packster/packster/pkg/fspath"
	"github.com/packster/packster/pkg/packaging"
	"github.com/packster/packster/pkg/uniqid"
)

const (
	// DefaultManifestName is the project manifest file name.
	DefaultManifestName = "packster.toml"
	// DefaultLockfileName is the location lockfile name.
	DefaultLockfileName = "packster.lock"
)

type (
	// Archiver creates and extracts package archives.
	Archiver interface {
		Archive(fsys filesystem.FileSystem, root, dest fspath.Absolute, exclude ...string) error
		Extract(fsys filesystem.FileSystem, archivePath, dest fspath.Absolute) error
	}

	// Digester computes the checksum of a byte stream.
	Digester interface {
		GenerateChecksum(r io.Reader) (packaging.Checksum, error)
	}

	// ProjectCodec decodes and encodes project manifests.
	ProjectCodec interface {
		ParseProject(content string) (*packaging.Project, error)
		SerializeProject(project *packaging.Project) (string, error)
	}

	// LocationCodec decodes and encodes location lockfiles.
	LocationCodec interface {
		ParseLocation(content string) (*packaging.DeployLocation, error)
		SerializeLocation(location *packaging.DeployLocation) (string, error)
	}

	// IdentifierGenerator produces collision-resistant tokens for temporary
	// artifact names.
	IdentifierGenerator interface {
		GenerateIdentifier() string
	}

	// Settings are the names and versions an operation works with.
	Settings struct {
		ManifestName     string
		LockfileName     string
		PackageExtension string
		// ToolVersion is recorded in every package built.
		ToolVersion string
	}

	// Env bundles the collaborators an operation calls.
	Env struct {
		FileSystem          filesystem.FileSystem
		Archiver            Archiver
		Digester            Digester
		ProjectCodec        ProjectCodec
		LocationCodec       LocationCodec
		IdentifierGenerator IdentifierGenerator
		Logger              *log.Logger
	}
)

// DefaultSettings returns the default names with the given tool version.
func DefaultSettings(toolVersion string) Settings {
	return Settings{
		ManifestName:     DefaultManifestName,
		LockfileName:     DefaultLockfileName,
		PackageExtension: packaging.DefaultExtension,
		ToolVersion:      toolVersion,
	}
}

// NewEnv returns the production collaborators working on fsys. A nil logger
// discards everything.
func NewEnv(fsys filesystem.FileSystem, logger *log.Logger) *Env {
	return &Env{
		FileSystem:          fsys,
		Archiver:            archive.NewTarball(),
		Digester:            digest.NewSHA256(),
		ProjectCodec:        codec.NewTOML(),
		LocationCodec:       codec.NewJSON(),
		IdentifierGenerator: uniqid.NewUUID(),
		Logger:              orDiscard(logger),
	}
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}
