// SPDX-License-Identifier: MPL-2.0

package operation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"

	"github.com/packster/packster/pkg/archive"
	"github.com/packster/packster/pkg/operation"
	"github.com/packster/packster/pkg/packaging"
)

func TestPackOperation_EndToEnd(t *testing.T) {
	t.Parallel()

	env, fsys := newEnv(t)
	checksum, err := packaging.ParseChecksum(fixedChecksum)
	if err != nil {
		t.Fatal(err)
	}
	env.Digester = stubDigester{checksum: checksum}
	newWorkspace(t, fsys)

	result := packWorkspace(t, env)

	wantName := "static-package-a_0.0.1_" + fixedChecksum + ".302e312e34.packster"
	entries, err := afero.ReadDir(fsys.Fs(), "/output")
	if err != nil {
		t.Fatalf("ReadDir(/output) error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != wantName {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("/output contains %v, want exactly [%s]", names, wantName)
	}
	if result.Path != abs("/output/"+wantName) {
		t.Errorf("result path = %s", result.Path)
	}
	if result.Package.PacksterVersion != testToolVersion || result.Package.Identifier != "static-package-a" {
		t.Errorf("result package = %+v", result.Package)
	}

	if err := archive.NewTarball().Extract(fsys, result.Path, abs("/check")); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	files := map[string]string{
		"/check/packster.toml":   "identifier = \"static-package-a\"\nversion = \"0.0.1\"\n",
		"/check/hello_world.txt": "Hello world !",
	}
	for p, want := range files {
		got, err := fsys.ReadToString(abs(p))
		if err != nil || got != want {
			t.Errorf("%s = %q, %v, want %q", p, got, err, want)
		}
	}
}

func TestPackOperation_States(t *testing.T) {
	t.Parallel()

	env, fsys := newEnv(t)
	newWorkspace(t, fsys)
	op := operation.NewPackOperation(operation.PackRequest{
		ProjectWorkspace:       abs("/workspace"),
		PackageOutputDirectory: abs("/output/nested"),
	}, settings(), env)

	steps := []struct {
		run  func() error
		want operation.State
	}{
		{op.ParseProject, operation.StateProjectParsed},
		{op.GenerateUniqueIdentity, operation.StateIdentityGenerated},
		{op.Archive, operation.StateArchived},
		{op.Digest, operation.StateDigested},
		{op.Finalize, operation.StateFinalized},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("transition to %s error = %v", step.want, err)
		}
		if op.State() != step.want {
			t.Fatalf("State() = %s, want %s", op.State(), step.want)
		}
	}

	if op.ArchivePath() != abs("/output/nested/tmp-identity.packster") {
		t.Errorf("ArchivePath() = %s", op.ArchivePath())
	}
	if fsys.Exists(op.ArchivePath()) {
		t.Error("temporary archive should have been renamed")
	}
	if !fsys.IsFile(op.Result().Path) {
		t.Errorf("package file %s missing", op.Result().Path)
	}
	if !op.Result().Package.Checksum.Equal(op.Checksum()) {
		t.Error("package checksum should be the archive digest")
	}
}

func TestPackOperation_ManifestErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(t *testing.T, env *operation.Env)
		wantErr error
	}{
		{
			name: "missing manifest",
			setup: func(t *testing.T, env *operation.Env) {
				writeFiles(t, env.FileSystem, map[string]string{"/workspace/file.txt": "x"})
			},
			wantErr: operation.ErrManifestNotFound,
		},
		{
			name: "manifest is a directory",
			setup: func(t *testing.T, env *operation.Env) {
				writeFiles(t, env.FileSystem, map[string]string{"/workspace/packster.toml/file.txt": "x"})
			},
			wantErr: operation.ErrManifestIsDirectory,
		},
		{
			name: "malformed manifest",
			setup: func(t *testing.T, env *operation.Env) {
				writeFiles(t, env.FileSystem, map[string]string{"/workspace/packster.toml": "identifier = "})
			},
			wantErr: packaging.ErrMalformedManifest,
		},
		{
			name: "missing version",
			setup: func(t *testing.T, env *operation.Env) {
				writeFiles(t, env.FileSystem, map[string]string{"/workspace/packster.toml": `identifier = "a"`})
			},
			wantErr: packaging.ErrMissingMandatoryField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _ := newEnv(t)
			tt.setup(t, env)
			op := operation.NewPackOperation(operation.PackRequest{
				ProjectWorkspace:       abs("/workspace"),
				PackageOutputDirectory: abs("/output"),
			}, settings(), env)

			_, err := op.Run(context.Background())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}
			if op.State() != operation.StateFailed {
				t.Errorf("State() = %s, want %s", op.State(), operation.StateFailed)
			}
			if env.FileSystem.Exists(abs("/output")) {
				t.Error("nothing should be written when the manifest cannot be read")
			}
		})
	}
}

func TestPackOperation_FinalizeRefusesExistingPackage(t *testing.T) {
	t.Parallel()

	env, fsys := newEnv(t)
	newWorkspace(t, fsys)
	first := packWorkspace(t, env)

	op := operation.NewPackOperation(operation.PackRequest{
		ProjectWorkspace:       abs("/workspace"),
		PackageOutputDirectory: abs("/output"),
	}, settings(), env)
	_, err := op.Run(context.Background())

	var existsErr *operation.PackageAlreadyExistsError
	if !errors.As(err, &existsErr) {
		t.Fatalf("Run() error = %v, want *PackageAlreadyExistsError", err)
	}
	if existsErr.Path != first.Path {
		t.Errorf("Path = %s, want %s", existsErr.Path, first.Path)
	}
	if !fsys.IsFile(op.ArchivePath()) {
		t.Error("temporary archive should be left in place")
	}
}

func TestPackOperation_ExcludeAndOutputInsideWorkspace(t *testing.T) {
	t.Parallel()

	env, fsys := newEnv(t)
	writeFiles(t, fsys, map[string]string{
		"/workspace/packster.toml":   "identifier = \"static-package-a\"\nversion = \"0.0.1\"\nexclude = [\"*.log\"]\n",
		"/workspace/hello_world.txt": "Hello world !",
		"/workspace/debug.log":       "noise",
	})

	op := operation.NewPackOperation(operation.PackRequest{
		ProjectWorkspace:       abs("/workspace"),
		PackageOutputDirectory: abs("/workspace/dist"),
	}, settings(), env)
	result, err := op.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if err := archive.NewTarball().Extract(fsys, result.Path, abs("/check")); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if fsys.Exists(abs("/check/debug.log")) {
		t.Error("excluded file was archived")
	}
	if fsys.Exists(abs("/check/dist/tmp-identity.packster")) {
		t.Error("the archive being written was archived")
	}
	if !fsys.IsFile(abs("/check/hello_world.txt")) {
		t.Error("hello_world.txt missing from the archive")
	}
}

func TestPackOperation_RepackIgnoresEarlierPackages(t *testing.T) {
	t.Parallel()

	env, fsys := newEnv(t)
	newWorkspace(t, fsys)
	writeFiles(t, fsys, map[string]string{"/workspace/dist/notes.txt": "kept"})

	pack := func(toolVersion string) *operation.PackResult {
		t.Helper()

		s := settings()
		s.ToolVersion = toolVersion
		op := operation.NewPackOperation(operation.PackRequest{
			ProjectWorkspace:       abs("/workspace"),
			PackageOutputDirectory: abs("/workspace/dist"),
		}, s, env)
		result, err := op.Run(context.Background())
		if err != nil {
			t.Fatalf("Run(%s) error = %v", toolVersion, err)
		}
		return result
	}

	first := pack("0.1.4")
	second := pack("0.2.0")

	if !first.Package.Checksum.Equal(second.Package.Checksum) {
		t.Errorf("checksums differ: %s then %s", first.Package.Checksum, second.Package.Checksum)
	}
	if err := archive.NewTarball().Extract(fsys, second.Path, abs("/check")); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if fsys.Exists(abs("/check/dist/" + first.Path.Base())) {
		t.Error("the first package was archived into the second")
	}
	if got := mustRead(t, env, "/check/dist/notes.txt"); got != "kept" {
		t.Errorf("dist/notes.txt = %q", got)
	}
}

func TestPackOperation_InvalidTransition(t *testing.T) {
	t.Parallel()

	env, fsys := newEnv(t)
	newWorkspace(t, fsys)
	op := operation.NewPackOperation(operation.PackRequest{
		ProjectWorkspace:       abs("/workspace"),
		PackageOutputDirectory: abs("/output"),
	}, settings(), env)

	err := op.Finalize()
	var transitionErr *operation.InvalidTransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("Finalize() error = %v, want *InvalidTransitionError", err)
	}
	if transitionErr.Workflow != operation.WorkflowPack || transitionErr.Current != operation.StateNew {
		t.Errorf("error = %+v", transitionErr)
	}
	if op.State() != operation.StateNew {
		t.Errorf("an invalid call should not change the state, got %s", op.State())
	}
	if err := op.ParseProject(); err != nil {
		t.Fatalf("ParseProject() error = %v", err)
	}
	if err := op.ParseProject(); !errors.Is(err, operation.ErrInvalidTransition) {
		t.Errorf("second ParseProject() error = %v, want ErrInvalidTransition", err)
	}
}

func TestPackOperation_RunHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	env, fsys := newEnv(t)
	newWorkspace(t, fsys)
	op := operation.NewPackOperation(operation.PackRequest{
		ProjectWorkspace:       abs("/workspace"),
		PackageOutputDirectory: abs("/output"),
	}, settings(), env)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := op.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if op.State() != operation.StateNew {
		t.Errorf("State() = %s, want %s", op.State(), operation.StateNew)
	}
}
