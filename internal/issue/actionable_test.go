// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "pack project"},
			expected: "failed to pack project",
		},
		{
			name: "operation with resource",
			err: &ActionableError{
				Operation: "pack project",
				Resource:  "/src/app",
			},
			expected: "failed to pack project: /src/app",
		},
		{
			name: "operation with cause",
			err: &ActionableError{
				Operation: "read lockfile",
				Cause:     errors.New("unexpected end of JSON input"),
			},
			expected: "failed to read lockfile: unexpected end of JSON input",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "deploy package",
				Resource:  "/srv/location",
				Cause:     errors.New("package already deployed"),
			},
			expected: "failed to deploy package: /srv/location: package already deployed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()

	cause := errors.New("specific error")
	wrapped := NewErrorContext().WithOperation("test").Wrap(fmt.Errorf("context: %w", cause)).BuildError()

	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	ae, ok := As(fmt.Errorf("outer: %w", wrapped))
	if !ok || ae.Operation != "test" {
		t.Errorf("As() = %v, %v", ae, ok)
	}
	if _, ok := As(cause); ok {
		t.Error("As() should not find an ActionableError in a plain error")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name: "suggestions are listed",
			err: &ActionableError{
				Operation:   "deploy package",
				Resource:    "/srv/location",
				Suggestions: []string{"Run 'packster location init'", "Check the path"},
			},
			contains: []string{
				"failed to deploy package: /srv/location",
				"• Run 'packster location init'",
				"• Check the path",
			},
		},
		{
			name: "no error chain in non-verbose",
			err: &ActionableError{
				Operation: "parse manifest",
				Cause:     errors.New("syntax error"),
			},
			contains: []string{"failed to parse manifest: syntax error"},
			excludes: []string{"Error chain:"},
		},
		{
			name: "nested error chain verbose",
			err: &ActionableError{
				Operation: "pack project",
				Cause: &ActionableError{
					Operation: "read manifest",
					Cause:     errors.New("file not found"),
				},
			},
			verbose: true,
			contains: []string{
				"Error chain:",
				"1. failed to read manifest: file not found",
				"2. file not found",
			},
		},
		{
			name: "joined causes are all listed",
			err: &ActionableError{
				Operation: "parse manifest",
				Cause:     errors.Join(errors.New("malformed"), errors.New("line 3")),
			},
			verbose: true,
			contains: []string{"2. malformed", "3. line 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.err.Format(tt.verbose)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Format() missing %q\ngot:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Format() should not contain %q\ngot:\n%s", s, got)
				}
			}
		})
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("some/path").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return nil")
	}

	cause := errors.New("boom")
	ae := NewErrorContext().
		WithOperation("undeploy package").
		WithResource("abcd").
		WithSuggestion("first").
		WithSuggestionf("run %s", "packster location show").
		WithIssue(NotYetDeployedID).
		Wrap(cause).
		Build()

	if ae.Operation != "undeploy package" || ae.Resource != "abcd" {
		t.Errorf("Build() = %+v", ae)
	}
	if len(ae.Suggestions) != 2 || ae.Suggestions[1] != "run packster location show" {
		t.Errorf("Suggestions = %v", ae.Suggestions)
	}
	if ae.Issue != NotYetDeployedID || !errors.Is(ae, cause) || !ae.HasSuggestions() {
		t.Errorf("Build() lost context: %+v", ae)
	}
}
