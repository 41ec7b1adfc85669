// SPDX-License-Identifier: MPL-2.0

package operation

import (
	"fmt"

	"github.com/packster/packster/pkg/fspath"
	"github.com/packster/packster/pkg/packaging"
)

// parseLocationLockfile reads the lockfile of the location directory.
func parseLocationLockfile(env *Env, settings Settings, dir fspath.Absolute) (*packaging.DeployLocation, error) {
	if !env.FileSystem.IsDir(dir) {
		return nil, &LocationPathNotADirectoryError{Path: dir}
	}
	lockfile := dir.Join(settings.LockfileName)
	if !env.FileSystem.IsFile(lockfile) {
		return nil, &LockfileNotAFileError{Path: lockfile}
	}

	content, err := env.FileSystem.ReadToString(lockfile)
	if err != nil {
		return nil, err
	}
	location, err := env.LocationCodec.ParseLocation(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lockfile %s: %w", lockfile, err)
	}
	return location, nil
}

// persistLocationLockfile replaces the lockfile of the location directory.
func persistLocationLockfile(env *Env, settings Settings, dir fspath.Absolute, location *packaging.DeployLocation) error {
	content, err := env.LocationCodec.SerializeLocation(location)
	if err != nil {
		return err
	}
	return env.FileSystem.WriteAtomic(dir.Join(settings.LockfileName), []byte(content))
}

// deploymentPath is where a package with the given checksum is extracted.
func deploymentPath(dir fspath.Absolute, checksum packaging.Checksum) fspath.Absolute {
	return dir.Join(checksum.String())
}
