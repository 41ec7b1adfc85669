// SPDX-License-Identifier: MPL-2.0

// Package uniqid generates collision-resistant tokens used to name temporary
// artifacts.
package uniqid

import "github.com/google/uuid"

// UUID generates random (version 4) UUIDs. The zero value is ready to use.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID { return &UUID{} }

// GenerateIdentifier returns a new random UUID in its canonical text form.
func (UUID) GenerateIdentifier() string {
	return uuid.NewString()
}
