// SPDX-License-Identifier: MPL-2.0

package packaging

// Project is the content of a project manifest. It is consumed right after
// parsing to build a Package.
type Project struct {
	Identifier Identifier `toml:"identifier" validate:"required"`
	Version    Version    `toml:"version" validate:"required"`
	// Exclude lists glob patterns, matched against slash-separated paths
	// relative to the workspace, that are left out of the package archive.
	Exclude []string `toml:"exclude,omitempty" validate:"omitempty,dive,required"`
}

// NewProject validates identifier and version and returns a Project.
func NewProject(identifier, version string) (*Project, error) {
	id, err := NewIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	v, err := NewVersion(version)
	if err != nil {
		return nil, err
	}
	return &Project{Identifier: id, Version: v}, nil
}
