// SPDX-License-Identifier: MPL-2.0

package operation

import (
	"context"

	"github.com/packster/packster/pkg/fspath"
	"github.com/packster/packster/pkg/packaging"
)

type (
	// InitProjectRequest asks to write a project manifest into a workspace.
	InitProjectRequest struct {
		ProjectWorkspace fspath.Absolute
		Identifier       string
		Version          string
	}

	// InitProjectOperation scaffolds a workspace: new → manifest-persisted.
	InitProjectOperation struct {
		stateMachine
		request  InitProjectRequest
		settings Settings
		env      *Env

		project *packaging.Project
	}
)

// NewInitProjectOperation returns a project init operation in its initial state.
func NewInitProjectOperation(request InitProjectRequest, settings Settings, env *Env) *InitProjectOperation {
	return &InitProjectOperation{
		stateMachine: newStateMachine(WorkflowInitProject, orDiscard(env.Logger)),
		request:      request,
		settings:     settings,
		env:          env,
	}
}

// Request returns the request the operation was built with.
func (o *InitProjectOperation) Request() InitProjectRequest { return o.request }

// ManifestPath returns the path of the project manifest.
func (o *InitProjectOperation) ManifestPath() fspath.Absolute {
	return o.request.ProjectWorkspace.Join(o.settings.ManifestName)
}

// Project returns the written project, nil before InitializeManifest.
func (o *InitProjectOperation) Project() *packaging.Project { return o.project }

// InitializeManifest validates the identifier and version, creates the
// workspace when missing and writes the manifest into it. An existing
// manifest is never overwritten.
func (o *InitProjectOperation) InitializeManifest() error {
	return o.transition("InitializeManifest", from(StateNew), StateManifestPersisted, func() error {
		project, err := packaging.NewProject(o.request.Identifier, o.request.Version)
		if err != nil {
			return err
		}

		dir := o.request.ProjectWorkspace
		manifest := o.ManifestPath()
		fsys := o.env.FileSystem
		switch {
		case fsys.IsDir(manifest):
			return &ManifestIsDirectoryError{Path: manifest}
		case fsys.Exists(manifest):
			return &ManifestAlreadyPresentError{Path: manifest}
		case fsys.Exists(dir) && !fsys.IsDir(dir):
			return &WorkspacePathNotADirectoryError{Path: dir}
		}

		content, err := o.env.ProjectCodec.SerializeProject(project)
		if err != nil {
			return err
		}
		if err := fsys.CreateDirAll(dir); err != nil {
			return err
		}
		if err := fsys.WriteAtomic(manifest, []byte(content)); err != nil {
			return err
		}
		o.project = project
		return nil
	})
}

// Run chains every project init transition.
func (o *InitProjectOperation) Run(ctx context.Context) (*packaging.Project, error) {
	if err := runSteps(ctx, o.InitializeManifest); err != nil {
		return nil, err
	}
	return o.project, nil
}
