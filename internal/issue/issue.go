// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Issue IDs. The zero value means "no guide".
const (
	ManifestNotFoundID ID = iota + 1
	MalformedManifestID
	LocationNotInitializedID
	LocationAlreadyInitializedID
	MalformedLockfileID
	WrongPackageFileNameID
	ChecksumMismatchID
	AlreadyDeployedID
	NotYetDeployedID
	PackageAlreadyExistsID
	DeploymentPathOccupiedID
	ConfigLoadFailedID
)

type (
	// ID identifies a guide in the catalog.
	ID int

	// MarkdownMsg is the Markdown source of a guide.
	MarkdownMsg string

	// Issue is a longer explanation of a failure, rendered as Markdown.
	Issue struct {
		id    ID
		title string
		mdMsg MarkdownMsg
	}
)

var (
	render = glamour.Render

	issues = map[ID]*Issue{
		ManifestNotFoundID: {
			id:    ManifestNotFoundID,
			title: "No project manifest",
			mdMsg: `
# No project manifest found

Packing needs a ` + "`packster.toml`" + ` at the root of the workspace.

## Things you can try
- Create one next to your sources:
~~~toml
identifier = "my-package"
version = "0.0.1"
~~~
- Check that ` + "`-p`" + ` points at the workspace directory, not at the manifest itself.`,
		},
		MalformedManifestID: {
			id:    MalformedManifestID,
			title: "Malformed project manifest",
			mdMsg: `
# The project manifest could not be read

` + "`identifier`" + ` and ` + "`version`" + ` are mandatory strings. Neither may contain
an underscore, a path separator or whitespace, since both end up in the package file name.

## Things you can try
- Fix the line and column reported above.
- Use ` + "`exclude = [\"*.log\"]`" + ` (a list of globs) to leave files out of the package.`,
		},
		LocationNotInitializedID: {
			id:    LocationNotInitializedID,
			title: "Location not initialized",
			mdMsg: `
# This directory is not a packster location

A location is a directory holding a ` + "`packster.lock`" + ` file.

## Things you can try
~~~
$ packster location init -l <location>
~~~`,
		},
		LocationAlreadyInitializedID: {
			id:    LocationAlreadyInitializedID,
			title: "Location already initialized",
			mdMsg: `
# This location already has a lockfile

Initializing never overwrites a lockfile, since it records what is deployed.

## Things you can try
- List what is deployed:
~~~
$ packster location show -l <location>
~~~`,
		},
		MalformedLockfileID: {
			id:    MalformedLockfileID,
			title: "Malformed lockfile",
			mdMsg: `
# The location lockfile could not be read

The expected shape is:
~~~json
{"deployments":[{"identifier":"…","version":"…","checksum":"<hex>","packster_version":"…"}]}
~~~
Restore it from a backup; packster does not rebuild it from the deployment directories.`,
		},
		WrongPackageFileNameID: {
			id:    WrongPackageFileNameID,
			title: "Not a package file name",
			mdMsg: `
# The file name does not identify a package

Packages are named ` + "`{identifier}_{version}_{checksum}.{tool version}.packster`" + `.
The name is what deploy trusts, so a renamed package cannot be deployed.`,
		},
		ChecksumMismatchID: {
			id:    ChecksumMismatchID,
			title: "Checksum mismatch",
			mdMsg: `
# The package content does not match its name

The archive was modified or truncated after it was packed. Nothing was extracted.

## Things you can try
- Pack the project again, or fetch the package again from its source.`,
		},
		AlreadyDeployedID: {
			id:    AlreadyDeployedID,
			title: "Already deployed",
			mdMsg: `
# This package is already deployed here

A location holds at most one deployment per checksum.

## Things you can try
~~~
$ packster location undeploy -c <checksum> -l <location>
~~~`,
		},
		NotYetDeployedID: {
			id:    NotYetDeployedID,
			title: "Not deployed",
			mdMsg: `
# No deployment with this checksum

## Things you can try
- List the deployed checksums:
~~~
$ packster location show -l <location>
~~~`,
		},
		PackageAlreadyExistsID: {
			id:    PackageAlreadyExistsID,
			title: "Package already exists",
			mdMsg: `
# The output directory already holds this exact package

The same content was packed before. The freshly written temporary archive is
left next to it and can be deleted.`,
		},
		DeploymentPathOccupiedID: {
			id:    DeploymentPathOccupiedID,
			title: "Deployment path occupied",
			mdMsg: `
# Files are in the way

The deployment directory already holds files the lockfile knows nothing about,
most likely left over by an interrupted undeploy.

## Things you can try
- Remove the directory named after the checksum inside the location, then deploy again.`,
		},
		ConfigLoadFailedID: {
			id:    ConfigLoadFailedID,
			title: "Configuration error",
			mdMsg: `
# The configuration could not be loaded

## Things you can try
- Print the effective configuration:
~~~
$ packster config show
~~~
- Check ` + "`PACKSTER_*`" + ` environment variables.`,
		},
	}
)

// ID returns the issue ID.
func (i *Issue) ID() ID {
	return i.id
}

// Title returns a short human readable name.
func (i *Issue) Title() string {
	return i.title
}

// MarkdownMsg returns the Markdown source of the guide.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the guide for a terminal with the given glamour style
// ("auto", "dark", "light", "notty", ...).
func (i *Issue) Render(style string) (string, error) {
	return render(strings.TrimSpace(string(i.mdMsg)), style)
}

// Values returns every issue, ordered by ID.
func Values() []*Issue {
	ids := slices.Sorted(maps.Keys(issues))
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

// Get returns the issue with the given ID, or nil.
func Get(id ID) *Issue {
	return issues[id]
}
