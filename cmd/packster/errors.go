// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/packster/packster/internal/issue"
	"github.com/packster/packster/pkg/archive"
	"github.com/packster/packster/pkg/operation"
	"github.com/packster/packster/pkg/packaging"
)

// Operations named in error messages.
const (
	opInitProject   = "initialize project"
	opPackProject   = "pack project"
	opDeployPackage = "deploy package"
	opInitLocation  = "initialize location"
	opShowLocation  = "show location"
	opUndeployPkg   = "undeploy package"
	opResolvePath   = "resolve path"
	opParseChecksum = "parse checksum"
	opShowConfig    = "show configuration"
)

// fail renders err on stderr and returns it wrapped in an ExitError so that
// fang does not print it a second time.
func (a *App) fail(cmd *cobra.Command, err error, opName, resource string) error {
	ae := classifyError(err, opName, resource)
	a.renderError(ae)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: ExitFailure, Err: ae}
}

// classifyError maps a pipeline failure to an actionable error with
// suggestions and, where one exists, a guide from the issue catalog.
// Errors that are already actionable are returned unchanged.
func classifyError(err error, operationName, resource string) *issue.ActionableError {
	if ae, ok := issue.As(err); ok {
		return ae
	}

	ec := issue.NewErrorContext().
		WithOperation(operationName).
		WithResource(resource).
		Wrap(err)

	switch {
	case operationName == opInitProject && (errors.Is(err, packaging.ErrInvalidIdentifier) || errors.Is(err, packaging.ErrInvalidVersion)):
		ec.WithSuggestion("Pick an identifier and a version without '_', path separators or whitespace")
	case errors.Is(err, operation.ErrManifestAlreadyPresent):
		ec.WithSuggestionf("Edit the existing manifest or run 'packster project pack -p %s'", resource)
	case operationName != opInitProject && (errors.Is(err, operation.ErrManifestNotFound) || errors.Is(err, operation.ErrManifestIsDirectory)):
		ec.WithIssue(issue.ManifestNotFoundID).
			WithSuggestionf("Run 'packster project init -p %s' to create a project manifest", resource)
	case errors.Is(err, packaging.ErrMalformedManifest),
		errors.Is(err, packaging.ErrMissingMandatoryField) && operationName == opPackProject,
		errors.Is(err, packaging.ErrInvalidIdentifier),
		errors.Is(err, packaging.ErrInvalidVersion):
		ec.WithIssue(issue.MalformedManifestID).
			WithSuggestion("Fix the project manifest and pack again")
	case errors.Is(err, packaging.ErrMalformedLockfile), errors.Is(err, packaging.ErrMissingMandatoryField):
		ec.WithIssue(issue.MalformedLockfileID)
	case errors.Is(err, operation.ErrLockfileAlreadyPresent):
		ec.WithIssue(issue.LocationAlreadyInitializedID).
			WithSuggestionf("Run 'packster location show -l %s' to list its deployments", resource)
	case errors.Is(err, operation.ErrLockfileNotAFile), errors.Is(err, operation.ErrLocationPathNotADirectory):
		if operationName != opInitLocation {
			ec.WithIssue(issue.LocationNotInitializedID).
				WithSuggestionf("Run 'packster location init -l %s' first", resource)
		}
	case errors.Is(err, packaging.ErrWrongFileNameFormat):
		ec.WithIssue(issue.WrongPackageFileNameID).
			WithSuggestion("Deploy the file under the name 'packster project pack' gave it")
	case errors.Is(err, operation.ErrPackageChecksumMismatch):
		ec.WithIssue(issue.ChecksumMismatchID)
	case errors.Is(err, operation.ErrPackageAlreadyDeployed):
		ec.WithIssue(issue.AlreadyDeployedID)
	case errors.Is(err, operation.ErrPackageNotYetDeployed):
		ec.WithIssue(issue.NotYetDeployedID).
			WithSuggestionf("Run 'packster location show -l %s' to list deployed checksums", resource)
	case errors.Is(err, operation.ErrPackageAlreadyExists):
		ec.WithIssue(issue.PackageAlreadyExistsID)
	case errors.Is(err, archive.ErrNodeAlreadyExists):
		ec.WithIssue(issue.DeploymentPathOccupiedID)
	case errors.Is(err, packaging.ErrInvalidChecksum):
		ec.WithSuggestion("Pass the hexadecimal checksum printed by 'packster location show'")
	case errors.Is(err, os.ErrPermission):
		ec.WithSuggestion("Check the permissions of the paths involved")
	}

	return ec.Build()
}

// renderError prints an actionable error. Verbose mode adds the error chain
// and the rendered guide of the linked issue.
func (a *App) renderError(ae *issue.ActionableError) {
	w := a.stderr
	fmt.Fprintf(w, "%s %s\n", a.errOut.errLabel.Render("Error:"), ae.Format(a.verbose))

	if !a.verbose || ae.Issue == 0 {
		return
	}
	guide := issue.Get(ae.Issue)
	if guide == nil {
		return
	}
	rendered, err := guide.Render("auto")
	if err != nil {
		fmt.Fprintf(w, "\n%s\n", guide.MarkdownMsg())
		return
	}
	fmt.Fprint(w, rendered)
}
