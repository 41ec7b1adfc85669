// SPDX-License-Identifier: MPL-2.0

// Package packaging holds the content-addressed package model and the deploy
// location registry.
//
// A Package is identified by the checksum of its archive. Its canonical file
// name encodes all four of its fields so that a package file can be
// identified without opening it:
//
//	{identifier}_{version}_{hex(checksum)}.{hex(packster_version)}.packster
//
// Identifier and Version reject '_' at construction, which keeps the encoding
// a bijection. A DeployLocation is the in-memory form of a location lockfile.
package packaging
