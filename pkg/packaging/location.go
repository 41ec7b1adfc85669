// SPDX-License-Identifier: MPL-2.0

package packaging

import (
	"encoding/json"
	"iter"
	"slices"
)

type (
	// Deployment records one package extracted into a location. The package
	// checksum is its identity.
	Deployment struct {
		Package
	}

	// DeployLocation is the in-memory model of a location lockfile: the
	// deployments of the location in insertion order.
	//
	// The registry does not deduplicate. Callers check Contains before Add so
	// that a location holds at most one deployment per checksum.
	DeployLocation struct {
		deployments []Deployment
	}

	// deployLocationDocument is the lockfile wire shape.
	deployLocationDocument struct {
		Deployments []Deployment `json:"deployments"`
	}
)

// NewDeployment wraps pkg into a Deployment.
func NewDeployment(pkg *Package) Deployment {
	return Deployment{Package: *pkg}
}

// NewDeployLocation returns a location holding the given deployments.
func NewDeployLocation(deployments ...Deployment) *DeployLocation {
	return &DeployLocation{deployments: slices.Clone(deployments)}
}

// Add appends d.
func (l *DeployLocation) Add(d Deployment) {
	l.deployments = append(l.deployments, d)
}

// Remove drops every deployment with the given checksum. Removing an unknown
// checksum is a no-op.
func (l *DeployLocation) Remove(checksum Checksum) {
	l.deployments = slices.DeleteFunc(l.deployments, func(d Deployment) bool {
		return d.Checksum.Equal(checksum)
	})
}

// Get returns the first deployment with the given checksum.
func (l *DeployLocation) Get(checksum Checksum) (Deployment, bool) {
	i := slices.IndexFunc(l.deployments, func(d Deployment) bool {
		return d.Checksum.Equal(checksum)
	})
	if i < 0 {
		return Deployment{}, false
	}
	return l.deployments[i], true
}

// Contains reports whether a deployment with the given checksum exists.
func (l *DeployLocation) Contains(checksum Checksum) bool {
	_, ok := l.Get(checksum)
	return ok
}

// All yields the deployments in insertion order. Each call starts over.
func (l *DeployLocation) All() iter.Seq[Deployment] {
	return func(yield func(Deployment) bool) {
		for _, d := range l.deployments {
			if !yield(d) {
				return
			}
		}
	}
}

// Len returns the number of deployments.
func (l *DeployLocation) Len() int { return len(l.deployments) }

// MarshalJSON implements json.Marshaler. An empty location is written as
// {"deployments":[]}.
func (l *DeployLocation) MarshalJSON() ([]byte, error) {
	doc := deployLocationDocument{Deployments: l.deployments}
	if doc.Deployments == nil {
		doc.Deployments = []Deployment{}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON implements json.Unmarshaler. The deployments key is mandatory.
func (l *DeployLocation) UnmarshalJSON(data []byte) error {
	var doc struct {
		Deployments *[]Deployment `json:"deployments"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Deployments == nil {
		return &MissingMandatoryFieldError{Entity: "location lockfile", Field: "deployments"}
	}
	for _, d := range *doc.Deployments {
		switch {
		case d.Identifier == "":
			return &MissingMandatoryFieldError{Entity: "deployment", Field: fieldIdentifier}
		case d.Version == "":
			return &MissingMandatoryFieldError{Entity: "deployment", Field: fieldVersion}
		case d.Checksum.IsZero():
			return &MissingMandatoryFieldError{Entity: "deployment", Field: fieldChecksum}
		}
	}
	l.deployments = *doc.Deployments
	return nil
}
