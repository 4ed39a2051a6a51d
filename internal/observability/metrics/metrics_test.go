package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_RegistersWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordInference(map[string]int{"exact": 1, "fuzzy": 2})
	m.RecordCache(true)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}

	assert.Contains(t, names, "api_adapter_mappings_inferred_total")
	assert.Contains(t, names, "api_adapter_fields_matched_total")
	assert.Contains(t, names, "api_adapter_schema_cache_hits_total")
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(nil)
	})
}

func TestRecordInference(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordInference(map[string]int{"exact": 1, "fuzzy": 2, "none": 0})
	m.RecordInference(map[string]int{"fuzzy": 1})

	assert.InDelta(t, 2, testutil.ToFloat64(m.MappingsInferred), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.FieldsMatched.WithLabelValues("exact")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.FieldsMatched.WithLabelValues("fuzzy")), 0)
}

func TestRecordTransform(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordTransform(true, nil)
	m.RecordTransform(false, map[string]int{"required": 2, "type": 1})

	assert.InDelta(t, 1, testutil.ToFloat64(m.Transforms.WithLabelValues("true")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Transforms.WithLabelValues("false")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.Violations.WithLabelValues("required")), 0)
}

func TestRecordCacheAndErrors(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordCache(true)
	m.RecordCache(false)
	m.RecordCache(false)
	m.RecordError("transform", "InvalidArgument")
	m.ObserveOperation("transform", time.Millisecond)
	m.RecordHTTP("/transform", "POST", 200, time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(m.SchemaCacheHits), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.SchemaCacheMisses), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.OperationErrors.WithLabelValues("transform", "InvalidArgument")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/transform", "POST", "200")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.OperationDuration))
}
