// SPDX-License-Identifier: MPL-2.0

package operation_test

import (
	"context"
	"io"
	"io/fs"
	"maps"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/packster/packster/pkg/filesystem"
	"github.com/packster/packster/pkg/fspath"
	"github.com/packster/packster/pkg/operation"
	"github.com/packster/packster/pkg/packaging"
)

const (
	testToolVersion = "0.1.4"
	fixedChecksum   = "d829752c10db8f7a98c939b5418beb0a360c6a6b818830e000f2c5a8dce35af4"
)

type (
	stubDigester struct {
		checksum packaging.Checksum
	}

	stubGenerator struct {
		id string
	}
)

func (s stubDigester) GenerateChecksum(r io.Reader) (packaging.Checksum, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	return s.checksum, nil
}

func (s stubGenerator) GenerateIdentifier() string { return s.id }

func abs(p string) fspath.Absolute {
	return fspath.AssumeAbsolute(filepath.FromSlash(p))
}

// newEnv returns production collaborators on an in-memory file system, with
// a predictable temporary archive name.
func newEnv(t *testing.T) (*operation.Env, *filesystem.Afero) {
	t.Helper()

	fsys := filesystem.NewMemory()
	env := operation.NewEnv(fsys, log.New(io.Discard))
	env.IdentifierGenerator = stubGenerator{id: "tmp-identity"}
	return env, fsys
}

func settings() operation.Settings {
	return operation.DefaultSettings(testToolVersion)
}

func writeFiles(t *testing.T, fsys filesystem.FileSystem, files map[string]string) {
	t.Helper()

	for p, content := range files {
		path := abs(p)
		if err := fsys.CreateDirAll(path.Dir()); err != nil {
			t.Fatal(err)
		}
		if err := fsys.WriteAll(path, []byte(content)); err != nil {
			t.Fatal(err)
		}
	}
}

// newWorkspace writes the static-package-a project at /workspace.
func newWorkspace(t *testing.T, fsys filesystem.FileSystem) {
	t.Helper()

	writeFiles(t, fsys, map[string]string{
		"/workspace/packster.toml":   "identifier = \"static-package-a\"\nversion = \"0.0.1\"\n",
		"/workspace/hello_world.txt": "Hello world !",
	})
}

// packWorkspace packs /workspace into /output with the env digester.
func packWorkspace(t *testing.T, env *operation.Env) *operation.PackResult {
	t.Helper()

	op := operation.NewPackOperation(operation.PackRequest{
		ProjectWorkspace:       abs("/workspace"),
		PackageOutputDirectory: abs("/output"),
	}, settings(), env)
	result, err := op.Run(context.Background())
	if err != nil {
		t.Fatalf("pack Run() error = %v", err)
	}
	return result
}

func initLocation(t *testing.T, env *operation.Env, dir string) {
	t.Helper()

	op := operation.NewInitLocationOperation(operation.InitLocationRequest{LocationDirectory: abs(dir)}, settings(), env)
	if _, err := op.Run(context.Background()); err != nil {
		t.Fatalf("init Run() error = %v", err)
	}
}

// snapshot maps every file path of the tree to its content and every
// directory path to "<dir>".
func snapshot(t *testing.T, fsys *filesystem.Afero) map[string]string {
	t.Helper()

	out := map[string]string{}
	err := afero.Walk(fsys.Fs(), "/", func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			out[path] = "<dir>"
			return nil
		}
		data, readErr := afero.ReadFile(fsys.Fs(), path)
		if readErr != nil {
			return readErr
		}
		out[path] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot error = %v", err)
	}
	return out
}

func assertSameTree(t *testing.T, before, after map[string]string) {
	t.Helper()

	if !maps.Equal(before, after) {
		t.Errorf("file system changed:\nbefore %v\nafter  %v", before, after)
	}
}
