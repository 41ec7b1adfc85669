// SPDX-License-Identifier: MPL-2.0

package operation

import (
	"context"

	"github.com/packster/packster/pkg/fspath"
	"github.com/packster/packster/pkg/packaging"
)

type (
	// DeployRequest asks to deploy a package file into a location.
	DeployRequest struct {
		PackagePath  fspath.Absolute
		LocationPath fspath.Absolute
	}

	// DeployResult is what a completed deploy recorded.
	DeployResult struct {
		Deployment packaging.Deployment
		Path       fspath.Absolute
	}

	// DeployOperation deploys a package into a location:
	// new → package-path-parsed → location-parsed → not-yet-deployed →
	// checksum-matched → deployment-path-computed → extracted →
	// location-updated → lockfile-updated.
	//
	// The archive is extracted only after its content has been checked
	// against the checksum in its name.
	DeployOperation struct {
		stateMachine
		request  DeployRequest
		settings Settings
		env      *Env

		pkg            *packaging.Package
		location       *packaging.DeployLocation
		deploymentPath fspath.Absolute
		deployment     packaging.Deployment
	}
)

// NewDeployOperation returns a deploy operation in its initial state.
func NewDeployOperation(request DeployRequest, settings Settings, env *Env) *DeployOperation {
	return &DeployOperation{
		stateMachine: newStateMachine(WorkflowDeploy, orDiscard(env.Logger)),
		request:      request,
		settings:     settings,
		env:          env,
	}
}

// Request returns the request the operation was built with.
func (o *DeployOperation) Request() DeployRequest { return o.request }

// Package returns the package decoded from the file name, nil before ParsePackagePath.
func (o *DeployOperation) Package() *packaging.Package { return o.pkg }

// Location returns the in-memory location, nil before ParseLocationLockfile.
func (o *DeployOperation) Location() *packaging.DeployLocation { return o.location }

// DeploymentPath returns the extraction directory, empty before GuessDeploymentPath.
func (o *DeployOperation) DeploymentPath() fspath.Absolute { return o.deploymentPath }

// ParsePackagePath decodes the package from its file name. The file is not read.
func (o *DeployOperation) ParsePackagePath() error {
	return o.transition("ParsePackagePath", from(StateNew), StatePackagePathParsed, func() error {
		pkg, err := packaging.ParsePackageFileName(o.request.PackagePath.String(), o.settings.PackageExtension)
		if err != nil {
			return err
		}
		o.pkg = pkg
		return nil
	})
}

// ParseLocationLockfile reads the location lockfile.
func (o *DeployOperation) ParseLocationLockfile() error {
	return o.transition("ParseLocationLockfile", from(StatePackagePathParsed), StateLocationParsed, func() error {
		location, err := parseLocationLockfile(o.env, o.settings, o.request.LocationPath)
		if err != nil {
			return err
		}
		o.location = location
		return nil
	})
}

// ProbePackageNotDeployedInLocation fails with *PackageAlreadyDeployedError
// when the location records the package checksum. It may be repeated.
func (o *DeployOperation) ProbePackageNotDeployedInLocation() error {
	accepted := from(StateLocationParsed, StateNotYetDeployed)
	return o.transition("ProbePackageNotDeployedInLocation", accepted, StateNotYetDeployed, func() error {
		if o.location.Contains(o.pkg.Checksum) {
			return &PackageAlreadyDeployedError{Checksum: o.pkg.Checksum, Location: o.request.LocationPath}
		}
		return nil
	})
}

// ValidatePackageChecksum hashes the package file and compares the result
// with the checksum in its name.
func (o *DeployOperation) ValidatePackageChecksum() error {
	return o.transition("ValidatePackageChecksum", from(StateNotYetDeployed), StateChecksumMatched, func() error {
		actual, err := digestFile(o.env, o.request.PackagePath)
		if err != nil {
			return err
		}
		if !actual.Equal(o.pkg.Checksum) {
			return &PackageChecksumMismatchError{
				Path:     o.request.PackagePath,
				Expected: o.pkg.Checksum,
				Actual:   actual,
			}
		}
		return nil
	})
}

// GuessDeploymentPath computes <location>/<hex checksum>.
func (o *DeployOperation) GuessDeploymentPath() error {
	return o.transition("GuessDeploymentPath", from(StateChecksumMatched), StateDeploymentPathComputed, func() error {
		o.deploymentPath = deploymentPath(o.request.LocationPath, o.pkg.Checksum)
		return nil
	})
}

// ExtractPackage extracts the package archive into the deployment path.
func (o *DeployOperation) ExtractPackage() error {
	return o.transition("ExtractPackage", from(StateDeploymentPathComputed), StateExtracted, func() error {
		return o.env.Archiver.Extract(o.env.FileSystem, o.request.PackagePath, o.deploymentPath)
	})
}

// AddDeploymentToLocation records the deployment in the in-memory location.
func (o *DeployOperation) AddDeploymentToLocation() error {
	return o.transition("AddDeploymentToLocation", from(StateExtracted), StateLocationUpdated, func() error {
		o.deployment = packaging.NewDeployment(o.pkg)
		o.location.Add(o.deployment)
		return nil
	})
}

// PersistLocationLockfile writes the updated location lockfile. The deploy
// is durable once this returns.
func (o *DeployOperation) PersistLocationLockfile() error {
	return o.transition("PersistLocationLockfile", from(StateLocationUpdated), StateLockfileUpdated, func() error {
		return persistLocationLockfile(o.env, o.settings, o.request.LocationPath, o.location)
	})
}

// Run chains every deploy transition.
func (o *DeployOperation) Run(ctx context.Context) (*DeployResult, error) {
	err := runSteps(ctx,
		o.ParsePackagePath,
		o.ParseLocationLockfile,
		o.ProbePackageNotDeployedInLocation,
		o.ValidatePackageChecksum,
		o.GuessDeploymentPath,
		o.ExtractPackage,
		o.AddDeploymentToLocation,
		o.PersistLocationLockfile,
	)
	if err != nil {
		return nil, err
	}
	return &DeployResult{Deployment: o.deployment, Path: o.deploymentPath}, nil
}
