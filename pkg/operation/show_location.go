// SPDX-License-Identifier: MPL-2.0

package operation

import (
	"context"

	"github.com/packster/packster/pkg/fspath"
	"github.com/packster/packster/pkg/packaging"
)

type (
	// ShowLocationRequest asks to read the deployments of a location.
	ShowLocationRequest struct {
		LocationDirectory fspath.Absolute
	}

	// ShowLocationOperation reads a location: new → location-parsed.
	ShowLocationOperation struct {
		stateMachine
		request  ShowLocationRequest
		settings Settings
		env      *Env

		location *packaging.DeployLocation
	}
)

// NewShowLocationOperation returns a show operation in its initial state.
func NewShowLocationOperation(request ShowLocationRequest, settings Settings, env *Env) *ShowLocationOperation {
	return &ShowLocationOperation{
		stateMachine: newStateMachine(WorkflowShowLocation, orDiscard(env.Logger)),
		request:      request,
		settings:     settings,
		env:          env,
	}
}

// Request returns the request the operation was built with.
func (o *ShowLocationOperation) Request() ShowLocationRequest { return o.request }

// Location returns the parsed location, nil before ParseLocationLockfile.
func (o *ShowLocationOperation) Location() *packaging.DeployLocation { return o.location }

// ParseLocationLockfile reads the location lockfile.
func (o *ShowLocationOperation) ParseLocationLockfile() error {
	return o.transition("ParseLocationLockfile", from(StateNew), StateLocationParsed, func() error {
		location, err := parseLocationLockfile(o.env, o.settings, o.request.LocationDirectory)
		if err != nil {
			return err
		}
		o.location = location
		return nil
	})
}

// Run chains every show transition.
func (o *ShowLocationOperation) Run(ctx context.Context) (*packaging.DeployLocation, error) {
	if err := runSteps(ctx, o.ParseLocationLockfile); err != nil {
		return nil, err
	}
	return o.location, nil
}
