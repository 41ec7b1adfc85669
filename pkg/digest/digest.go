// SPDX-License-Identifier: MPL-2.0

// Package digest computes package checksums.
package digest

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/packster/packster/pkg/packaging"
)

// SHA256 computes SHA-256 checksums. The zero value is ready to use.
type SHA256 struct{}

// NewSHA256 returns a SHA-256 digester.
func NewSHA256() *SHA256 { return &SHA256{} }

// GenerateChecksum streams r through SHA-256.
func (SHA256) GenerateChecksum(r io.Reader) (packaging.Checksum, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return nil, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return packaging.Checksum(h.Sum(nil)), nil
}
