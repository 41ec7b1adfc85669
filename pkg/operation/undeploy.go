// SPDX-License-Identifier: MPL-2.0

package operation

import (
	"context"

	"github.com/packster/packster/pkg/fspath"
	"github.com/packster/packster/pkg/packaging"
)

type (
	// UndeployRequest asks to remove the deployment with Checksum from a location.
	UndeployRequest struct {
		Checksum     packaging.Checksum
		LocationPath fspath.Absolute
	}

	// UndeployResult is what a completed undeploy removed.
	UndeployResult struct {
		Deployment packaging.Deployment
		Path       fspath.Absolute
	}

	// UndeployOperation removes a deployment from a location:
	// new → location-parsed → already-deployed → deployment-path-computed →
	// location-updated → lockfile-updated → directory-deleted.
	//
	// The lockfile is written before the deployment directory is removed, so
	// an interruption leaves an orphaned directory rather than a lockfile
	// entry without files.
	UndeployOperation struct {
		stateMachine
		request  UndeployRequest
		settings Settings
		env      *Env

		location       *packaging.DeployLocation
		deployment     packaging.Deployment
		deploymentPath fspath.Absolute
	}
)

// NewUndeployOperation returns an undeploy operation in its initial state.
func NewUndeployOperation(request UndeployRequest, settings Settings, env *Env) *UndeployOperation {
	return &UndeployOperation{
		stateMachine: newStateMachine(WorkflowUndeploy, orDiscard(env.Logger)),
		request:      request,
		settings:     settings,
		env:          env,
	}
}

// Request returns the request the operation was built with.
func (o *UndeployOperation) Request() UndeployRequest { return o.request }

// Location returns the in-memory location, nil before ParseLocationLockfile.
func (o *UndeployOperation) Location() *packaging.DeployLocation { return o.location }

// Deployment returns the deployment found by ProbePackageAlreadyDeployedInLocation.
func (o *UndeployOperation) Deployment() packaging.Deployment { return o.deployment }

// DeploymentPath returns the deployment directory, empty before GuessDeploymentPath.
func (o *UndeployOperation) DeploymentPath() fspath.Absolute { return o.deploymentPath }

// ParseLocationLockfile reads the location lockfile.
func (o *UndeployOperation) ParseLocationLockfile() error {
	return o.transition("ParseLocationLockfile", from(StateNew), StateLocationParsed, func() error {
		location, err := parseLocationLockfile(o.env, o.settings, o.request.LocationPath)
		if err != nil {
			return err
		}
		o.location = location
		return nil
	})
}

// ProbePackageAlreadyDeployedInLocation captures the deployment with the
// requested checksum, or fails with *PackageNotYetDeployedError. It may be
// repeated.
func (o *UndeployOperation) ProbePackageAlreadyDeployedInLocation() error {
	accepted := from(StateLocationParsed, StateAlreadyDeployed)
	return o.transition("ProbePackageAlreadyDeployedInLocation", accepted, StateAlreadyDeployed, func() error {
		deployment, ok := o.location.Get(o.request.Checksum)
		if !ok {
			return &PackageNotYetDeployedError{Checksum: o.request.Checksum, Location: o.request.LocationPath}
		}
		o.deployment = deployment
		return nil
	})
}

// GuessDeploymentPath computes <location>/<hex checksum>.
func (o *UndeployOperation) GuessDeploymentPath() error {
	return o.transition("GuessDeploymentPath", from(StateAlreadyDeployed), StateDeploymentPathComputed, func() error {
		o.deploymentPath = deploymentPath(o.request.LocationPath, o.deployment.Checksum)
		return nil
	})
}

// RemoveDeploymentFromLocation drops the deployment from the in-memory location.
func (o *UndeployOperation) RemoveDeploymentFromLocation() error {
	return o.transition("RemoveDeploymentFromLocation", from(StateDeploymentPathComputed), StateLocationUpdated, func() error {
		o.location.Remove(o.deployment.Checksum)
		return nil
	})
}

// PersistLocationLockfile writes the updated location lockfile.
func (o *UndeployOperation) PersistLocationLockfile() error {
	return o.transition("PersistLocationLockfile", from(StateLocationUpdated), StateLockfileUpdated, func() error {
		return persistLocationLockfile(o.env, o.settings, o.request.LocationPath, o.location)
	})
}

// DeleteDeploymentDirectory removes the deployment directory recursively.
func (o *UndeployOperation) DeleteDeploymentDirectory() error {
	return o.transition("DeleteDeploymentDirectory", from(StateLockfileUpdated), StateDirectoryDeleted, func() error {
		return o.env.FileSystem.RemoveAll(o.deploymentPath)
	})
}

// Run chains every undeploy transition.
func (o *UndeployOperation) Run(ctx context.Context) (*UndeployResult, error) {
	err := runSteps(ctx,
		o.ParseLocationLockfile,
		o.ProbePackageAlreadyDeployedInLocation,
		o.GuessDeploymentPath,
		o.RemoveDeploymentFromLocation,
		o.PersistLocationLockfile,
		o.DeleteDeploymentDirectory,
	)
	if err != nil {
		return nil, err
	}
	return &UndeployResult{Deployment: o.deployment, Path: o.deploymentPath}, nil
}
