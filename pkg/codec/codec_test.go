// SPDX-License-Identifier: MPL-2.0

package codec_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/packster/packster/pkg/codec"
	"github.com/packster/packster/pkg/packaging"
)

func TestTOML_ParseProject(t *testing.T) {
	t.Parallel()

	project, err := codec.NewTOML().ParseProject(`
identifier = "static-package-a"
version = "0.0.1"
exclude = ["*.log", "target/**"]
`)
	if err != nil {
		t.Fatalf("ParseProject() error = %v", err)
	}
	if project.Identifier != "static-package-a" || project.Version != "0.0.1" {
		t.Errorf("ParseProject() = %+v", project)
	}
	if !slices.Equal(project.Exclude, []string{"*.log", "target/**"}) {
		t.Errorf("Exclude = %v", project.Exclude)
	}
}

func TestTOML_ParseProjectMissingField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		wantField string
	}{
		{"missing identifier", `version = "0.0.1"`, "identifier"},
		{"missing version", `identifier = "a"`, "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := codec.NewTOML().ParseProject(tt.content)
			var fieldErr *packaging.MissingMandatoryFieldError
			if !errors.As(err, &fieldErr) {
				t.Fatalf("ParseProject() error = %v, want *MissingMandatoryFieldError", err)
			}
			if fieldErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", fieldErr.Field, tt.wantField)
			}
		})
	}
}

func TestTOML_ParseProjectMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", "identifier = \nversion = \"1\""},
		{"wrong type", "identifier = 12\nversion = \"1\""},
		{"identifier with delimiter", "identifier = \"my_package\"\nversion = \"1\""},
		{"empty exclude pattern", "identifier = \"a\"\nversion = \"1\"\nexclude = [\"\"]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := codec.NewTOML().ParseProject(tt.content)
			if !errors.Is(err, packaging.ErrMalformedManifest) {
				t.Fatalf("ParseProject() error = %v, want ErrMalformedManifest", err)
			}
		})
	}
}

func TestTOML_ParseProjectErrorPosition(t *testing.T) {
	t.Parallel()

	_, err := codec.NewTOML().ParseProject("identifier = \"a\"\nversion = ")
	var malformed *packaging.MalformedManifestError
	if !errors.As(err, &malformed) {
		t.Fatalf("ParseProject() error = %v, want *MalformedManifestError", err)
	}
	if malformed.Line != 2 {
		t.Errorf("Line = %d, want 2", malformed.Line)
	}
}

func TestTOML_SerializeProject(t *testing.T) {
	t.Parallel()

	p := codec.NewTOML()
	project, err := packaging.NewProject("static-package-a", "0.0.1")
	if err != nil {
		t.Fatal(err)
	}

	content, err := p.SerializeProject(project)
	if err != nil {
		t.Fatalf("SerializeProject() error = %v", err)
	}
	parsed, err := p.ParseProject(content)
	if err != nil {
		t.Fatalf("ParseProject(serialized) error = %v", err)
	}
	if parsed.Identifier != project.Identifier || parsed.Version != project.Version {
		t.Errorf("serialized project reads back as %+v", parsed)
	}
}

func TestJSON_Location(t *testing.T) {
	t.Parallel()

	c := codec.NewJSON()

	content, err := c.SerializeLocation(packaging.NewDeployLocation())
	if err != nil {
		t.Fatalf("SerializeLocation() error = %v", err)
	}
	if content != `{"deployments":[]}` {
		t.Errorf("SerializeLocation(empty) = %s", content)
	}

	input := `{"deployments":[{"identifier":"my-package","version":"0.0.1","checksum":"aabb","packster_version":"0.1.4"}]}`
	location, err := c.ParseLocation(input)
	if err != nil {
		t.Fatalf("ParseLocation() error = %v", err)
	}
	if !location.Contains(packaging.Checksum{0xaa, 0xbb}) {
		t.Error("ParseLocation() lost the deployment")
	}

	again, err := c.SerializeLocation(location)
	if err != nil {
		t.Fatalf("SerializeLocation() error = %v", err)
	}
	if again != input {
		t.Errorf("SerializeLocation() = %s\nwant %s", again, input)
	}
}

func TestJSON_ParseLocationMalformed(t *testing.T) {
	t.Parallel()

	for _, input := range []string{
		``,
		`{"deployments":`,
		`{"deployments":[{"identifier":"a","version":"1","checksum":"not-hex","packster_version":"0.1.4"}]}`,
		`{}`,
	} {
		_, err := codec.NewJSON().ParseLocation(input)
		if !errors.Is(err, packaging.ErrMalformedLockfile) {
			t.Errorf("ParseLocation(%q) error = %v, want ErrMalformedLockfile", input, err)
		}
	}
}
