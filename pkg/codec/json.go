// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"encoding/json"
	"fmt"

	"github.com/packster/packster/pkg/packaging"
)

// JSON parses and serializes location lockfiles. The zero value is ready to use.
type JSON struct{}

// NewJSON returns a lockfile codec.
func NewJSON() *JSON { return &JSON{} }

// ParseLocation decodes a lockfile. Every failure is reported as a
// *packaging.MalformedLockfileError.
func (JSON) ParseLocation(content string) (*packaging.DeployLocation, error) {
	var location packaging.DeployLocation
	if err := json.Unmarshal([]byte(content), &location); err != nil {
		return nil, &packaging.MalformedLockfileError{Cause: err}
	}
	return &location, nil
}

// SerializeLocation encodes a lockfile in its compact form.
func (JSON) SerializeLocation(location *packaging.DeployLocation) (string, error) {
	data, err := json.Marshal(location)
	if err != nil {
		return "", fmt.Errorf("failed to encode lockfile: %w", err)
	}
	return string(data), nil
}
