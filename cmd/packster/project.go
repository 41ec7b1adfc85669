// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packster/packster/pkg/operation"
)

// newProjectCommand creates the `packster project` command tree.
func newProjectCommand(app *App) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Work on project workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var workspace, output string
	packCmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack a project workspace into a package file",
		Long: `Pack a project workspace into a package file.

The workspace must contain a project manifest (packster.toml) naming the
package identifier and version. The package file is written to the output
directory under the name {identifier}_{version}_{checksum}.{tool version}.packster.

When the output directory lies inside the workspace, the package files it
already holds are not packed. Symbolic links to files are packed as the file
they point to; other links and special files are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, app, workspace, output)
		},
	}
	packCmd.Flags().StringVarP(&workspace, "project-workspace", "p", "", "project workspace directory")
	packCmd.Flags().StringVarP(&output, "package-output-directory", "o", "", "directory the package file is written to")
	_ = packCmd.MarkFlagRequired("project-workspace")
	_ = packCmd.MarkFlagRequired("package-output-directory")

	var initWorkspace, identifier, version string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a project manifest into a workspace",
		Long: `Write a project manifest into a workspace.

The workspace directory is created when missing. An existing manifest is
never overwritten. Identifiers and versions must not contain '_', path
separators or whitespace.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitProject(cmd, app, initWorkspace, identifier, version)
		},
	}
	initCmd.Flags().StringVarP(&initWorkspace, "project-workspace", "p", "", "project workspace directory")
	initCmd.Flags().StringVarP(&identifier, "identifier", "i", "", "package identifier")
	initCmd.Flags().StringVarP(&version, "package-version", "V", "", "package version")
	_ = initCmd.MarkFlagRequired("project-workspace")
	_ = initCmd.MarkFlagRequired("identifier")
	_ = initCmd.MarkFlagRequired("package-version")

	projectCmd.AddCommand(initCmd, packCmd)
	return projectCmd
}

func runInitProject(cmd *cobra.Command, app *App, workspace, identifier, version string) error {
	paths, err := app.resolvePaths(cmd, workspace)
	if err != nil {
		return err
	}

	op := operation.NewInitProjectOperation(operation.InitProjectRequest{
		ProjectWorkspace: paths[0],
		Identifier:       identifier,
		Version:          version,
	}, app.settings(), app.env())

	if _, err := op.Run(cmd.Context()); err != nil {
		return app.fail(cmd, err, opInitProject, paths[0].String())
	}

	fmt.Fprintf(app.stdout, "%s %s\n", app.out.success.Render("Project manifest created at :"), op.ManifestPath())
	return nil
}

func runPack(cmd *cobra.Command, app *App, workspace, output string) error {
	paths, err := app.resolvePaths(cmd, workspace, output)
	if err != nil {
		return err
	}

	op := operation.NewPackOperation(operation.PackRequest{
		ProjectWorkspace:       paths[0],
		PackageOutputDirectory: paths[1],
	}, app.settings(), app.env())

	result, err := op.Run(cmd.Context())
	if err != nil {
		return app.fail(cmd, err, opPackProject, paths[0].String())
	}

	fmt.Fprintf(app.stdout, "%s %s\n", app.out.success.Render("Package created :"), result.Path.Base())
	return nil
}
