// SPDX-License-Identifier: MPL-2.0

// Package operation sequences the packster workflows: pack, init-location,
// deploy, undeploy and show-location.
//
// Each workflow has its own operation type holding an immutable request, a
// state tag and the facts established so far. A transition is a method that
// first checks the operation is in one of the states it accepts, performs one
// unit of work, and moves the operation to exactly one next state:
//
//	op := operation.NewDeployOperation(req, settings, env)
//	if err := op.ParsePackagePath(); err != nil { ... }
//	if err := op.ExtractPackage(); err != nil {
//		// ErrInvalidTransition: the checksum has not been validated yet.
//	}
//
// A transition that fails moves the operation to StateFailed, from which no
// transition is accepted. Nothing is retried and nothing already written is
// rolled back. Run chains the transitions of a workflow in order.
package operation
