// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/packster/packster/pkg/fspath"
)

// resolvePaths resolves every flag value against the working directory, in
// order. The first failure is rendered and returned.
func (a *App) resolvePaths(cmd *cobra.Command, values ...string) ([]fspath.Absolute, error) {
	paths := make([]fspath.Absolute, 0, len(values))
	for _, value := range values {
		path, err := fspath.FromCurrentDir(value)
		if err != nil {
			return nil, a.fail(cmd, err, opResolvePath, value)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
