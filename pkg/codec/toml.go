// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/packster/packster/pkg/packaging"
)

// TOML parses project manifests.
type TOML struct {
	validate *validator.Validate
}

// NewTOML returns a project manifest parser. Validation errors name fields
// by their manifest key.
func NewTOML() *TOML {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &TOML{validate: v}
}

// ParseProject decodes a project manifest. Syntax and type errors are
// reported as *packaging.MalformedManifestError with the decoder position;
// absent mandatory keys as *packaging.MissingMandatoryFieldError.
func (p *TOML) ParseProject(content string) (*packaging.Project, error) {
	var project packaging.Project
	if err := toml.Unmarshal([]byte(content), &project); err != nil {
		malformed := &packaging.MalformedManifestError{Cause: err}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			malformed.Line, malformed.Column = decodeErr.Position()
		}
		return nil, malformed
	}

	if err := p.validate.Struct(&project); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
			return nil, &packaging.MalformedManifestError{Cause: err}
		}
		fe := validationErrs[0]
		if fe.Tag() == "required" && !strings.Contains(fe.Field(), "[") {
			return nil, &packaging.MissingMandatoryFieldError{Entity: "project", Field: fe.Field()}
		}
		return nil, &packaging.MalformedManifestError{
			Cause: fmt.Errorf("%s fails the %q rule", fe.Field(), fe.Tag()),
		}
	}
	return &project, nil
}

// SerializeProject encodes a project manifest.
func (p *TOML) SerializeProject(project *packaging.Project) (string, error) {
	data, err := toml.Marshal(project)
	if err != nil {
		return "", fmt.Errorf("failed to encode project manifest: %w", err)
	}
	return string(data), nil
}
