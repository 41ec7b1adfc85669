// SPDX-License-Identifier: MPL-2.0

package operation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/packster/packster/pkg/operation"
	"github.com/packster/packster/pkg/packaging"
)

func TestInitLocationOperation(t *testing.T) {
	t.Parallel()

	env, fsys := newEnv(t)
	op := operation.NewInitLocationOperation(operation.InitLocationRequest{LocationDirectory: abs("/new/location")}, settings(), env)

	location, err := op.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if location.Len() != 0 {
		t.Errorf("new location has %d deployments", location.Len())
	}
	if op.State() != operation.StateLockfilePersisted {
		t.Errorf("State() = %s, want %s", op.State(), operation.StateLockfilePersisted)
	}
	if op.LockfilePath() != abs("/new/location/packster.lock") {
		t.Errorf("LockfilePath() = %s", op.LockfilePath())
	}
	if got := mustRead(t, env, "/new/location/packster.lock"); got != `{"deployments":[]}` {
		t.Errorf("lockfile content = %s", got)
	}
	if fsys.Exists(abs("/new/location/packster.lock.tmp")) {
		t.Error("temporary lockfile left behind")
	}
}

func TestInitLocationOperation_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		files   map[string]string
		wantErr error
	}{
		{
			name:    "lockfile already present",
			files:   map[string]string{"/location/packster.lock": `{"deployments":[]}`},
			wantErr: operation.ErrLockfileAlreadyPresent,
		},
		{
			name:    "lockfile is a directory",
			files:   map[string]string{"/location/packster.lock/inner": "x"},
			wantErr: operation.ErrLockfileNotAFile,
		},
		{
			name:    "location is a file",
			files:   map[string]string{"/location": "x"},
			wantErr: operation.ErrLocationPathNotADirectory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, fsys := newEnv(t)
			writeFiles(t, fsys, tt.files)
			before := snapshot(t, fsys)

			op := operation.NewInitLocationOperation(operation.InitLocationRequest{LocationDirectory: abs("/location")}, settings(), env)
			if _, err := op.Run(context.Background()); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}
			assertSameTree(t, before, snapshot(t, fsys))
		})
	}
}

func TestShowLocationOperation(t *testing.T) {
	t.Parallel()

	env, fsys := newEnv(t)
	newWorkspace(t, fsys)
	packed := packWorkspace(t, env)
	initLocation(t, env, "/location")
	if _, err := operation.NewDeployOperation(deployRequest(packed.Path.String()), settings(), env).Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	op := operation.NewShowLocationOperation(operation.ShowLocationRequest{LocationDirectory: abs("/location")}, settings(), env)
	location, err := op.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if op.State() != operation.StateLocationParsed {
		t.Errorf("State() = %s, want %s", op.State(), operation.StateLocationParsed)
	}
	var deployed []packaging.Deployment
	for d := range location.All() {
		deployed = append(deployed, d)
	}
	if len(deployed) != 1 || !deployed[0].Package.Equal(packed.Package) {
		t.Errorf("deployments = %+v", deployed)
	}
}

func TestShowLocationOperation_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		files   map[string]string
		wantErr error
	}{
		{"missing location", nil, operation.ErrLocationPathNotADirectory},
		{"location is a file", map[string]string{"/location": "x"}, operation.ErrLocationPathNotADirectory},
		{"missing lockfile", map[string]string{"/location/readme": "x"}, operation.ErrLockfileNotAFile},
		{"malformed lockfile", map[string]string{"/location/packster.lock": `{"deployments":{}}`}, packaging.ErrMalformedLockfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, fsys := newEnv(t)
			writeFiles(t, fsys, tt.files)
			op := operation.NewShowLocationOperation(operation.ShowLocationRequest{LocationDirectory: abs("/location")}, settings(), env)
			if _, err := op.Run(context.Background()); !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestUndeployOperation_EndToEnd(t *testing.T) {
	t.Parallel()

	env, fsys := newEnv(t)
	newWorkspace(t, fsys)
	packed := packWorkspace(t, env)
	initLocation(t, env, "/location")
	deployed, err := operation.NewDeployOperation(deployRequest(packed.Path.String()), settings(), env).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	op := operation.NewUndeployOperation(operation.UndeployRequest{
		Checksum:     packed.Package.Checksum,
		LocationPath: abs("/location"),
	}, settings(), env)
	result, err := op.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if op.State() != operation.StateDirectoryDeleted {
		t.Errorf("State() = %s, want %s", op.State(), operation.StateDirectoryDeleted)
	}
	if result.Path != deployed.Path || !result.Deployment.Package.Equal(packed.Package) {
		t.Errorf("result = %+v", result)
	}
	if fsys.Exists(deployed.Path) {
		t.Error("deployment directory should be removed")
	}
	if got := mustRead(t, env, "/location/packster.lock"); got != `{"deployments":[]}` {
		t.Errorf("lockfile content = %s", got)
	}
}

func TestUndeployOperation_UnknownChecksum(t *testing.T) {
	t.Parallel()

	env, fsys := newEnv(t)
	newWorkspace(t, fsys)
	packed := packWorkspace(t, env)
	initLocation(t, env, "/location")
	if _, err := operation.NewDeployOperation(deployRequest(packed.Path.String()), settings(), env).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := snapshot(t, fsys)

	unknown, err := packaging.ParseChecksum(fixedChecksum)
	if err != nil {
		t.Fatal(err)
	}
	op := operation.NewUndeployOperation(operation.UndeployRequest{Checksum: unknown, LocationPath: abs("/location")}, settings(), env)
	_, err = op.Run(context.Background())

	var notDeployed *operation.PackageNotYetDeployedError
	if !errors.As(err, &notDeployed) {
		t.Fatalf("Run() error = %v, want *PackageNotYetDeployedError", err)
	}
	if !notDeployed.Checksum.Equal(unknown) {
		t.Errorf("Checksum = %s, want %s", notDeployed.Checksum, unknown)
	}
	assertSameTree(t, before, snapshot(t, fsys))
}

func TestUndeployOperation_LockfileWrittenBeforeDirectoryDeleted(t *testing.T) {
	t.Parallel()

	env, fsys := newEnv(t)
	newWorkspace(t, fsys)
	packed := packWorkspace(t, env)
	initLocation(t, env, "/location")
	deployed, err := operation.NewDeployOperation(deployRequest(packed.Path.String()), settings(), env).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	op := operation.NewUndeployOperation(operation.UndeployRequest{
		Checksum:     packed.Package.Checksum,
		LocationPath: abs("/location"),
	}, settings(), env)
	for _, step := range []func() error{
		op.ParseLocationLockfile,
		op.ProbePackageAlreadyDeployedInLocation,
		op.ProbePackageAlreadyDeployedInLocation,
		op.GuessDeploymentPath,
		op.RemoveDeploymentFromLocation,
		op.PersistLocationLockfile,
	} {
		if err := step(); err != nil {
			t.Fatalf("step error = %v", err)
		}
	}

	// Stopping here leaves an orphaned directory, never a dangling entry.
	if got := mustRead(t, env, "/location/packster.lock"); got != `{"deployments":[]}` {
		t.Errorf("lockfile content = %s", got)
	}
	if !fsys.IsDir(deployed.Path) {
		t.Error("deployment directory should still exist before DeleteDeploymentDirectory")
	}
	if err := op.DeleteDeploymentDirectory(); err != nil {
		t.Fatalf("DeleteDeploymentDirectory() error = %v", err)
	}
	if fsys.Exists(deployed.Path) {
		t.Error("deployment directory should be removed")
	}
}
