// SPDX-License-Identifier: MPL-2.0

package operation

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"
)

// Workflow names.
const (
	WorkflowPack         Workflow = "pack"
	WorkflowInitLocation Workflow = "init-location"
	WorkflowDeploy       Workflow = "deploy"
	WorkflowUndeploy     Workflow = "undeploy"
	WorkflowShowLocation Workflow = "show-location"
	WorkflowInitProject  Workflow = "init-project"
)

// States shared by every workflow.
const (
	// StateNew is the state of a freshly built operation.
	StateNew State = "new"
	// StateFailed is terminal: a transition failed and no other may run.
	StateFailed State = "failed"
)

// Pack states.
const (
	StateProjectParsed     State = "project-parsed"
	StateIdentityGenerated State = "identity-generated"
	StateArchived          State = "archived"
	StateDigested          State = "digested"
	StateFinalized         State = "finalized"
)

// Project init states.
const (
	StateManifestPersisted State = "manifest-persisted"
)

// Location states.
const (
	StateLockfilePersisted      State = "lockfile-persisted"
	StatePackagePathParsed      State = "package-path-parsed"
	StateLocationParsed         State = "location-parsed"
	StateNotYetDeployed         State = "not-yet-deployed"
	StateAlreadyDeployed        State = "already-deployed"
	StateChecksumMatched        State = "checksum-matched"
	StateDeploymentPathComputed State = "deployment-path-computed"
	StateExtracted              State = "extracted"
	StateLocationUpdated        State = "location-updated"
	StateLockfileUpdated        State = "lockfile-updated"
	StateDirectoryDeleted       State = "directory-deleted"
)

type (
	// Workflow names the sequence of transitions an operation follows.
	Workflow string

	// State tags which facts an operation has established so far.
	State string

	// stateMachine holds the state tag of one operation and checks every
	// transition against it.
	stateMachine struct {
		workflow Workflow
		state    State
		logger   *log.Logger
	}
)

func newStateMachine(workflow Workflow, logger *log.Logger) stateMachine {
	return stateMachine{workflow: workflow, state: StateNew, logger: logger}
}

// State returns the current state of the operation.
func (m *stateMachine) State() State { return m.state }

// Workflow returns the workflow the operation follows.
func (m *stateMachine) Workflow() Workflow { return m.workflow }

// transition runs step when the operation is in one of the accepted states.
// On success the operation moves to next; on failure it moves to StateFailed.
// Calling a transition from any other state returns an
// *InvalidTransitionError and leaves the state untouched.
func (m *stateMachine) transition(name string, accepted []State, next State, step func() error) error {
	if !slices.Contains(accepted, m.state) {
		return &InvalidTransitionError{
			Workflow:   m.workflow,
			Transition: name,
			Current:    m.state,
			Accepted:   accepted,
		}
	}

	if err := step(); err != nil {
		m.logger.Debug("transition failed", "workflow", m.workflow, "transition", name, "from", m.state, "err", err)
		m.state = StateFailed
		return err
	}

	m.logger.Debug("transition", "workflow", m.workflow, "transition", name, "from", m.state, "to", next)
	m.state = next
	return nil
}

// from is shorthand for the accepted states of a transition.
func from(states ...State) []State { return states }

// runSteps calls each step in order and stops at the first error. The
// context is checked between steps; a running step is never interrupted.
func runSteps(ctx context.Context, steps ...func() error) error {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
