// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packster/packster/pkg/operation"
)

// newPackageCommand creates the `packster package` command tree.
func newPackageCommand(app *App) *cobra.Command {
	packageCmd := &cobra.Command{
		Use:   "package",
		Short: "Work on package files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var packageFile, location string
	deployCmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy a package file into a location",
		Long: `Deploy a package file into a location.

The package identity is read from the file name and its checksum is verified
against the file content before anything is extracted. The package is
extracted into <location>/<checksum> and recorded in the location lockfile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd, app, packageFile, location)
		},
	}
	deployCmd.Flags().StringVarP(&packageFile, "package-file", "p", "", "package file to deploy")
	deployCmd.Flags().StringVarP(&location, "location-directory", "l", "", "location directory")
	_ = deployCmd.MarkFlagRequired("package-file")
	_ = deployCmd.MarkFlagRequired("location-directory")

	packageCmd.AddCommand(deployCmd)
	return packageCmd
}

func runDeploy(cmd *cobra.Command, app *App, packageFile, location string) error {
	paths, err := app.resolvePaths(cmd, packageFile, location)
	if err != nil {
		return err
	}

	op := operation.NewDeployOperation(operation.DeployRequest{
		PackagePath:  paths[0],
		LocationPath: paths[1],
	}, app.settings(), app.env())

	result, err := op.Run(cmd.Context())
	if err != nil {
		return app.fail(cmd, err, opDeployPackage, paths[1].String())
	}

	fmt.Fprintf(app.stdout, "%s %s deployed in %s\n",
		app.out.success.Render("Package"),
		app.out.value.Render(result.Deployment.Identifier.String()),
		result.Path)
	return nil
}
