package adapter

import (
	"github.com/Adityahash12/agent-api-adapter/internal/apperr"
	"github.com/Adityahash12/agent-api-adapter/internal/diagnostic"
	"github.com/Adityahash12/agent-api-adapter/internal/mapping"
	"github.com/Adityahash12/agent-api-adapter/internal/match"
	"github.com/Adityahash12/agent-api-adapter/internal/payload"
	"github.com/Adityahash12/agent-api-adapter/internal/schema"
)

// Result is the outcome of one transform. Transformed always has one member
// per mapping target; Absent lists the targets that received no value.
type Result struct {
	Transformed *payload.Object   `json:"transformed" yaml:"transformed"`
	Absent      []string          `json:"absent"      yaml:"absent"`
	Validation  diagnostic.Result `json:"validation"  yaml:"validation"`
}

// InferMapping infers a mapping from sample to the properties of s.
func InferMapping(sample *payload.Object, s *schema.Schema, opts ...match.Option) (match.Inference, error) {
	if sample == nil || s == nil {
		return match.Inference{}, apperr.NewInvalidArgument("sample and schema are required")
	}

	return match.Infer(sample, s.Names(), opts...), nil
}

// TransformAndValidate applies cfg to raw and validates the result against s.
// Failed validation is a normal result, not an error.
func TransformAndValidate(raw *payload.Object, cfg *mapping.Config, s *schema.Schema) (Result, error) {
	if raw == nil || cfg == nil || s == nil {
		return Result{}, apperr.NewInvalidArgument("raw response, mapping and schema are required")
	}

	transformed := mapping.Apply(raw, cfg)

	return Result{
		Transformed: transformed,
		Absent:      mapping.Absent(transformed),
		Validation:  schema.Validate(s, transformed),
	}, nil
}
