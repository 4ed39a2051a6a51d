package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adityahash12/agent-api-adapter/internal/apperr"
	"github.com/Adityahash12/agent-api-adapter/internal/mapping"
	"github.com/Adityahash12/agent-api-adapter/internal/schema"
)

func TestTransformAndValidate_NilInputs(t *testing.T) {
	s, err := schema.Compile(mustValue(t, weatherSchema))
	require.NoError(t, err)

	raw, _ := mustValue(t, weatherSample).AsObject()
	cfg := mapping.NewConfig()

	tests := map[string]func() error{
		"raw":     func() error { _, err := TransformAndValidate(nil, cfg, s); return err },
		"mapping": func() error { _, err := TransformAndValidate(raw, nil, s); return err },
		"schema":  func() error { _, err := TransformAndValidate(raw, cfg, nil); return err },
	}

	for name, call := range tests {
		t.Run(name, func(t *testing.T) {
			assert.True(t, apperr.IsInvalidArgument(call()))
		})
	}
}

func TestInferThenTransform(t *testing.T) {
	s, err := schema.Compile(mustValue(t, weatherSchema))
	require.NoError(t, err)

	sample, _ := mustValue(t, weatherSample).AsObject()

	inf, err := InferMapping(sample, s)
	require.NoError(t, err)
	assert.Equal(t, s.Names(), inf.Mapping.Targets())

	res, err := TransformAndValidate(sample, inf.Mapping, s)
	require.NoError(t, err)

	assert.True(t, res.Validation.Valid)
	assert.Empty(t, res.Absent)
	assert.Equal(t, s.Names(), res.Transformed.Keys())

	_, err = InferMapping(nil, s)
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestTransformAndValidate_Idempotent(t *testing.T) {
	s, err := schema.Compile(mustValue(t, weatherSchema))
	require.NoError(t, err)

	raw, _ := mustValue(t, `{"temp_c": 32}`).AsObject()
	cfg, err := mapping.FromValue(mustValue(t, weatherMapping))
	require.NoError(t, err)

	first, err := TransformAndValidate(raw, cfg, s)
	require.NoError(t, err)

	second, err := TransformAndValidate(raw, cfg, s)
	require.NoError(t, err)

	assert.Equal(t, toJSON(t, first), toJSON(t, second))
	assert.Equal(t, []string{"humidity", "city"}, first.Absent)
}
