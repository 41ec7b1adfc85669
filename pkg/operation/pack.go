// SPDX-License-Identifier: MPL-2.0

package operation

import (
	"context"
	"fmt"
	"slices"

	"github.com/packster/packster/pkg/archive"
	"github.com/packster/packster/pkg/fspath"
	"github.com/packster/packster/pkg/packaging"
)

type (
	// PackRequest asks to pack a project workspace into an output directory.
	PackRequest struct {
		ProjectWorkspace       fspath.Absolute
		PackageOutputDirectory fspath.Absolute
	}

	// PackResult is what a finalized pack operation produced.
	PackResult struct {
		Package *packaging.Package
		Path    fspath.Absolute
	}

	// PackOperation packs a project workspace:
	// new → project-parsed → identity-generated → archived → digested → finalized.
	PackOperation struct {
		stateMachine
		request  PackRequest
		settings Settings
		env      *Env

		project     *packaging.Project
		identity    string
		archivePath fspath.Absolute
		checksum    packaging.Checksum
		pkg         *packaging.Package
		packagePath fspath.Absolute
	}
)

// NewPackOperation returns a pack operation in its initial state.
func NewPackOperation(request PackRequest, settings Settings, env *Env) *PackOperation {
	return &PackOperation{
		stateMachine: newStateMachine(WorkflowPack, orDiscard(env.Logger)),
		request:      request,
		settings:     settings,
		env:          env,
	}
}

// Request returns the request the operation was built with.
func (o *PackOperation) Request() PackRequest { return o.request }

// Project returns the parsed project manifest, nil before ParseProject.
func (o *PackOperation) Project() *packaging.Project { return o.project }

// ArchivePath returns the temporary archive path, empty before Archive.
func (o *PackOperation) ArchivePath() fspath.Absolute { return o.archivePath }

// Checksum returns the archive checksum, nil before Digest.
func (o *PackOperation) Checksum() packaging.Checksum { return o.checksum }

// Result returns the package and its final path, nil before Finalize.
func (o *PackOperation) Result() *PackResult {
	if o.pkg == nil {
		return nil
	}
	return &PackResult{Package: o.pkg, Path: o.packagePath}
}

// ParseProject reads the project manifest of the workspace.
func (o *PackOperation) ParseProject() error {
	return o.transition("ParseProject", from(StateNew), StateProjectParsed, func() error {
		manifest := o.request.ProjectWorkspace.Join(o.settings.ManifestName)
		fsys := o.env.FileSystem
		if !fsys.Exists(manifest) {
			return &ManifestNotFoundError{Path: manifest}
		}
		if fsys.IsDir(manifest) {
			return &ManifestIsDirectoryError{Path: manifest}
		}

		content, err := fsys.ReadToString(manifest)
		if err != nil {
			return err
		}
		project, err := o.env.ProjectCodec.ParseProject(content)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", manifest, err)
		}
		o.project = project
		return nil
	})
}

// GenerateUniqueIdentity picks the token naming the temporary archive.
func (o *PackOperation) GenerateUniqueIdentity() error {
	return o.transition("GenerateUniqueIdentity", from(StateProjectParsed), StateIdentityGenerated, func() error {
		o.identity = o.env.IdentifierGenerator.GenerateIdentifier()
		return nil
	})
}

// Archive writes the workspace into a temporary archive in the output
// directory, creating the directory when missing. When the output directory
// lies inside the workspace, the package files it already holds are left out
// so that packing twice yields the same checksum.
func (o *PackOperation) Archive() error {
	return o.transition("Archive", from(StateIdentityGenerated), StateArchived, func() error {
		outDir := o.request.PackageOutputDirectory
		if err := o.env.FileSystem.CreateDirAll(outDir); err != nil {
			return err
		}
		exclude := o.project.Exclude
		if rel, err := outDir.Rel(o.request.ProjectWorkspace); err == nil {
			exclude = append(slices.Clone(exclude), archive.ExtensionPattern(rel, o.settings.PackageExtension))
		}
		archivePath := outDir.Join(o.identity + "." + o.settings.PackageExtension)
		if err := o.env.Archiver.Archive(o.env.FileSystem, o.request.ProjectWorkspace, archivePath, exclude...); err != nil {
			return err
		}
		o.archivePath = archivePath
		return nil
	})
}

// Digest computes the checksum of the temporary archive.
func (o *PackOperation) Digest() error {
	return o.transition("Digest", from(StateArchived), StateDigested, func() error {
		checksum, err := digestFile(o.env, o.archivePath)
		if err != nil {
			return err
		}
		o.checksum = checksum
		return nil
	})
}

// Finalize names the package and renames the temporary archive to the
// canonical package file name. It fails with *PackageAlreadyExistsError when
// that file already exists; the temporary archive is then left in place.
func (o *PackOperation) Finalize() error {
	return o.transition("Finalize", from(StateDigested), StateFinalized, func() error {
		pkg := packaging.NewPackage(o.project, o.checksum, o.settings.ToolVersion)
		target := o.archivePath.WithBase(pkg.FileName(o.settings.PackageExtension))
		if o.env.FileSystem.Exists(target) {
			return &PackageAlreadyExistsError{Path: target}
		}
		if err := o.env.FileSystem.Rename(o.archivePath, target); err != nil {
			return err
		}
		o.pkg = pkg
		o.packagePath = target
		return nil
	})
}

// Run chains every pack transition.
func (o *PackOperation) Run(ctx context.Context) (*PackResult, error) {
	err := runSteps(ctx,
		o.ParseProject,
		o.GenerateUniqueIdentity,
		o.Archive,
		o.Digest,
		o.Finalize,
	)
	if err != nil {
		return nil, err
	}
	return o.Result(), nil
}

// digestFile computes the checksum of the file at path.
func digestFile(env *Env, path fspath.Absolute) (checksum packaging.Checksum, err error) {
	r, err := env.FileSystem.OpenRead(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return env.Digester.GenerateChecksum(r)
}
