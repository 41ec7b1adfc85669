// SPDX-License-Identifier: MPL-2.0

package operation

import (
	"context"

	"github.com/packster/packster/pkg/fspath"
	"github.com/packster/packster/pkg/packaging"
)

type (
	// InitLocationRequest asks to turn a directory into an empty location.
	InitLocationRequest struct {
		LocationDirectory fspath.Absolute
	}

	// InitLocationOperation initializes a location: new → lockfile-persisted.
	InitLocationOperation struct {
		stateMachine
		request  InitLocationRequest
		settings Settings
		env      *Env

		location *packaging.DeployLocation
	}
)

// NewInitLocationOperation returns an init operation in its initial state.
func NewInitLocationOperation(request InitLocationRequest, settings Settings, env *Env) *InitLocationOperation {
	return &InitLocationOperation{
		stateMachine: newStateMachine(WorkflowInitLocation, orDiscard(env.Logger)),
		request:      request,
		settings:     settings,
		env:          env,
	}
}

// Request returns the request the operation was built with.
func (o *InitLocationOperation) Request() InitLocationRequest { return o.request }

// LockfilePath returns the path of the location lockfile.
func (o *InitLocationOperation) LockfilePath() fspath.Absolute {
	return o.request.LocationDirectory.Join(o.settings.LockfileName)
}

// Location returns the persisted location, nil before InitializeLockfile.
func (o *InitLocationOperation) Location() *packaging.DeployLocation { return o.location }

// InitializeLockfile creates the location directory when missing and writes
// an empty lockfile into it. An existing lockfile is never overwritten.
func (o *InitLocationOperation) InitializeLockfile() error {
	return o.transition("InitializeLockfile", from(StateNew), StateLockfilePersisted, func() error {
		dir := o.request.LocationDirectory
		lockfile := o.LockfilePath()
		fsys := o.env.FileSystem

		switch {
		case fsys.IsDir(lockfile):
			return &LockfileNotAFileError{Path: lockfile}
		case fsys.IsFile(lockfile):
			return &LockfileAlreadyPresentError{Path: lockfile}
		case fsys.Exists(dir) && !fsys.IsDir(dir):
			return &LocationPathNotADirectoryError{Path: dir}
		}

		if err := fsys.CreateDirAll(dir); err != nil {
			return err
		}
		location := packaging.NewDeployLocation()
		if err := persistLocationLockfile(o.env, o.settings, dir, location); err != nil {
			return err
		}
		o.location = location
		return nil
	})
}

// Run chains every init transition.
func (o *InitLocationOperation) Run(ctx context.Context) (*packaging.DeployLocation, error) {
	if err := runSteps(ctx, o.InitializeLockfile); err != nil {
		return nil, err
	}
	return o.location, nil
}
