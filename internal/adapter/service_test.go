package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adityahash12/agent-api-adapter/internal/apperr"
	"github.com/Adityahash12/agent-api-adapter/internal/diagnostic"
	"github.com/Adityahash12/agent-api-adapter/internal/match"
	"github.com/Adityahash12/agent-api-adapter/internal/observability/metrics"
	"github.com/Adityahash12/agent-api-adapter/internal/payload"
	"github.com/Adityahash12/agent-api-adapter/internal/schema"
)

const (
	weatherSample = `{"temp_c": 32, "hum": 75, "city_name": "Bangalore"}`
	weatherSchema = `{
		"type": "object",
		"properties": {
			"temperature": {"type": "number"},
			"humidity": {"type": "number"},
			"city": {"type": "string"}
		},
		"required": ["temperature", "humidity", "city"]
	}`
	weatherMapping = `{"temperature": "temp_c", "humidity": "hum", "city": "city_name"}`
)

func mustValue(t *testing.T, doc string) payload.Value {
	t.Helper()

	v, err := payload.Parse([]byte(doc))
	require.NoError(t, err)

	return v
}

func toJSON(t *testing.T, v any) string {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)

	return string(b)
}

func TestService_WeatherEndToEnd(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	gen, err := svc.GenerateMapping(ctx, GenerateRequest{
		SampleAPIResponse: mustValue(t, weatherSample),
		TargetSchema:      mustValue(t, weatherSchema),
	})
	require.NoError(t, err)
	assert.JSONEq(t, weatherMapping, toJSON(t, gen.MappingConfig))
	assert.Nil(t, gen.Explanation)

	res, err := svc.TransformAndValidate(ctx, TransformRequest{
		RawAPIResponse: mustValue(t, weatherSample),
		MappingConfig:  gen.MappingConfig.Value(),
		TargetSchema:   mustValue(t, weatherSchema),
	})
	require.NoError(t, err)

	assert.Equal(t,
		`{"transformed":{"temperature":32,"humidity":75,"city":"Bangalore"},"absent":[],"validation":{"valid":true,"errors":[]}}`,
		toJSON(t, res))
}

func TestService_GenerateExplain(t *testing.T) {
	svc := NewService()

	gen, err := svc.GenerateMapping(context.Background(), GenerateRequest{
		SampleAPIResponse: mustValue(t, weatherSample),
		TargetSchema:      mustValue(t, `{"properties": {"city": {"type": "string"}, "pressure": {"type": "number"}}}`),
		Explain:           true,
	})
	require.NoError(t, err)

	require.Len(t, gen.Explanation, 2)
	assert.Equal(t, match.TierFuzzy, gen.Explanation[0].Tier)
	assert.Equal(t, "city_name", gen.Explanation[0].Source)
	assert.Equal(t, match.TierNone, gen.Explanation[1].Tier)
	assert.NotEmpty(t, gen.Explanation[1].Candidates)
	assert.JSONEq(t, `{"city": "city_name", "pressure": null}`, toJSON(t, gen.MappingConfig))
}

func TestService_GenerateInvalidArguments(t *testing.T) {
	svc := NewService()

	tests := map[string]GenerateRequest{
		"both missing":   {},
		"sample missing": {TargetSchema: mustValue(t, weatherSchema)},
		"schema null":    {SampleAPIResponse: mustValue(t, weatherSample), TargetSchema: payload.Null()},
		"sample array":   {SampleAPIResponse: mustValue(t, `[1]`), TargetSchema: mustValue(t, weatherSchema)},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.GenerateMapping(context.Background(), req)
			require.Error(t, err)
			assert.True(t, apperr.IsInvalidArgument(err))
		})
	}

	_, err := svc.GenerateMapping(context.Background(), GenerateRequest{})
	assert.EqualError(t, err, "sampleApiResponse and targetSchema are required")
}

func TestService_TransformInvalidArguments(t *testing.T) {
	svc := NewService()
	raw := mustValue(t, weatherSample)
	cfg := mustValue(t, weatherMapping)
	sch := mustValue(t, weatherSchema)

	tests := map[string]TransformRequest{
		"raw missing":     {MappingConfig: cfg, TargetSchema: sch},
		"mapping null":    {RawAPIResponse: raw, MappingConfig: payload.Null(), TargetSchema: sch},
		"schema missing":  {RawAPIResponse: raw, MappingConfig: cfg},
		"raw not object":  {RawAPIResponse: payload.String("x"), MappingConfig: cfg, TargetSchema: sch},
		"mapping numbers": {RawAPIResponse: raw, MappingConfig: mustValue(t, `{"city": 1}`), TargetSchema: sch},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.TransformAndValidate(context.Background(), req)
			require.Error(t, err)
			assert.True(t, apperr.IsInvalidArgument(err), "got %v", err)
		})
	}

	_, err := svc.TransformAndValidate(context.Background(), TransformRequest{})
	assert.EqualError(t, err, "rawApiResponse, mappingConfig, and targetSchema are required")
}

func TestService_SchemaConfigurationError(t *testing.T) {
	svc := NewService()

	_, err := svc.TransformAndValidate(context.Background(), TransformRequest{
		RawAPIResponse: mustValue(t, weatherSample),
		MappingConfig:  mustValue(t, weatherMapping),
		TargetSchema:   mustValue(t, `{"properties": {"temperature": {"type": "celsius"}}}`),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsSchemaConfiguration(err))

	_, err = svc.GenerateMapping(context.Background(), GenerateRequest{
		SampleAPIResponse: mustValue(t, weatherSample),
		TargetSchema:      payload.String("schema"),
	})
	assert.True(t, apperr.IsSchemaConfiguration(err))
}

func TestService_ValidationFailureIsAResult(t *testing.T) {
	svc := NewService()

	res, err := svc.TransformAndValidate(context.Background(), TransformRequest{
		RawAPIResponse: mustValue(t, `{"temp_c": "hot", "hum": null}`),
		MappingConfig:  mustValue(t, `{"temperature": "temp_c", "humidity": "hum", "city": null}`),
		TargetSchema:   mustValue(t, weatherSchema),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"city"}, res.Absent)
	assert.False(t, res.Validation.Valid)
	assert.Equal(t, []diagnostic.Violation{
		diagnostic.TypeMismatch("temperature", "number", "string"),
		diagnostic.TypeMismatch("humidity", "number", "null"),
		diagnostic.Required("city"),
	}, res.Validation.Errors)

	assert.JSONEq(t, `{"temperature": "hot", "humidity": null, "city": null}`, toJSON(t, res.Transformed))
}

func TestService_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService().GenerateMapping(ctx, GenerateRequest{
		SampleAPIResponse: mustValue(t, weatherSample),
		TargetSchema:      mustValue(t, weatherSchema),
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_MetricsAndCache(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	cache := schema.NewCache(4)
	svc := NewService(WithMetrics(m), WithCache(cache))

	req := TransformRequest{
		RawAPIResponse: mustValue(t, weatherSample),
		MappingConfig:  mustValue(t, weatherMapping),
		TargetSchema:   mustValue(t, weatherSchema),
	}

	for range 3 {
		_, err := svc.TransformAndValidate(context.Background(), req)
		require.NoError(t, err)
	}

	_, err := svc.TransformAndValidate(context.Background(), TransformRequest{})
	require.Error(t, err)

	assert.Equal(t, 1, cache.Len())
	assert.InDelta(t, 1, testutil.ToFloat64(m.SchemaCacheMisses), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.SchemaCacheHits), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.Transforms.WithLabelValues("true")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OperationErrors.WithLabelValues(OpTransform, "InvalidArgument")), 0)
}

func TestService_LogsFromContext(t *testing.T) {
	var buf bytes.Buffer

	l := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := l.WithContext(context.Background())

	_, err := NewService().GenerateMapping(ctx, GenerateRequest{
		SampleAPIResponse: mustValue(t, weatherSample),
		TargetSchema:      mustValue(t, `{"properties": {"pressure": {"type": "number"}}}`),
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"component":"adapter"`)
	assert.Contains(t, buf.String(), `"unresolved":["pressure"]`)
}

func TestService_WithScorer(t *testing.T) {
	svc := NewService(WithScorer(match.Dice))

	gen, err := svc.GenerateMapping(context.Background(), GenerateRequest{
		SampleAPIResponse: mustValue(t, weatherSample),
		TargetSchema:      mustValue(t, weatherSchema),
	})
	require.NoError(t, err)

	src, resolved, _ := gen.MappingConfig.Lookup("temperature")
	assert.False(t, resolved, "dice leaves temp/temperature below the threshold, got %q", src)
}
