// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packster/packster/pkg/operation"
	"github.com/packster/packster/pkg/packaging"
)

// newLocationCommand creates the `packster location` command tree.
func newLocationCommand(app *App) *cobra.Command {
	locationCmd := &cobra.Command{
		Use:   "location",
		Short: "Manage deployment locations",
		Long: `Manage deployment locations.

A location is a directory holding a lockfile (packster.lock) that records the
packages deployed in it. Each deployment lives in a sub directory named after
the package checksum.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	locationCmd.AddCommand(newLocationInitCommand(app))
	locationCmd.AddCommand(newLocationShowCommand(app))
	locationCmd.AddCommand(newLocationUndeployCommand(app))
	return locationCmd
}

func newLocationInitCommand(app *App) *cobra.Command {
	var location string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize an empty location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := app.resolvePaths(cmd, location)
			if err != nil {
				return err
			}

			op := operation.NewInitLocationOperation(operation.InitLocationRequest{
				LocationDirectory: paths[0],
			}, app.settings(), app.env())
			if _, err := op.Run(cmd.Context()); err != nil {
				return app.fail(cmd, err, opInitLocation, paths[0].String())
			}

			fmt.Fprintf(app.stdout, "%s %s\n", app.out.success.Render("Empty deployment created at :"), paths[0])
			return nil
		},
	}
	initCmd.Flags().StringVarP(&location, "location-directory", "l", "", "location directory")
	_ = initCmd.MarkFlagRequired("location-directory")
	return initCmd
}

func newLocationShowCommand(app *App) *cobra.Command {
	var location string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "List the deployments of a location",
		Long: `List the deployments of a location, one per line:

  <identifier> <version> <checksum>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := app.resolvePaths(cmd, location)
			if err != nil {
				return err
			}

			op := operation.NewShowLocationOperation(operation.ShowLocationRequest{
				LocationDirectory: paths[0],
			}, app.settings(), app.env())
			deployLocation, err := op.Run(cmd.Context())
			if err != nil {
				return app.fail(cmd, err, opShowLocation, paths[0].String())
			}

			printLocation(app, deployLocation)
			return nil
		},
	}
	showCmd.Flags().StringVarP(&location, "location-directory", "l", "", "location directory")
	_ = showCmd.MarkFlagRequired("location-directory")
	return showCmd
}

func printLocation(app *App, location *packaging.DeployLocation) {
	if location.Len() == 0 {
		fmt.Fprintln(app.stdout, app.out.subtitle.Render("Location contains no deployments"))
		return
	}
	for deployment := range location.All() {
		fmt.Fprintf(app.stdout, "%s %s %s\n", deployment.Identifier, deployment.Version, deployment.Checksum)
	}
}

func newLocationUndeployCommand(app *App) *cobra.Command {
	var checksum, location string
	undeployCmd := &cobra.Command{
		Use:   "undeploy",
		Short: "Remove a deployment from a location",
		Long: `Remove a deployment from a location.

The deployment is removed from the lockfile first, then its directory is
deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := packaging.ParseChecksum(checksum)
			if err != nil {
				return app.fail(cmd, err, opParseChecksum, checksum)
			}
			paths, err := app.resolvePaths(cmd, location)
			if err != nil {
				return err
			}

			op := operation.NewUndeployOperation(operation.UndeployRequest{
				Checksum:     parsed,
				LocationPath: paths[0],
			}, app.settings(), app.env())
			if _, err := op.Run(cmd.Context()); err != nil {
				return app.fail(cmd, err, opUndeployPkg, paths[0].String())
			}

			fmt.Fprintf(app.stdout, "%s %s undeployed from location %s\n",
				app.out.success.Render("Deployment"), app.out.value.Render(parsed.String()), paths[0])
			return nil
		},
	}
	undeployCmd.Flags().StringVarP(&checksum, "checksum", "c", "", "hexadecimal checksum of the deployment")
	undeployCmd.Flags().StringVarP(&location, "location-directory", "l", "", "location directory")
	_ = undeployCmd.MarkFlagRequired("checksum")
	_ = undeployCmd.MarkFlagRequired("location-directory")
	return undeployCmd
}
