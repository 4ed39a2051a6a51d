package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adityahash12/agent-api-adapter/internal/adapter"
	"github.com/Adityahash12/agent-api-adapter/internal/observability/metrics"
	"github.com/Adityahash12/agent-api-adapter/internal/payload"
)

const (
	weatherSample = `{"temp_c": 32, "hum": 75, "city_name": "Bangalore"}`
	weatherSchema = `{"type": "object", "properties": {"temperature": {"type": "number"}, "humidity": {"type": "number"}, "city": {"type": "string"}}, "required": ["temperature", "humidity", "city"]}`
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

type testServer struct {
	srv     *httptest.Server
	metrics *metrics.Metrics
	logs    *syncBuffer
	ready   *atomic.Bool
}

func newTestServer(t *testing.T, maxBody int64) *testServer {
	t.Helper()

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	logs := &syncBuffer{}
	logger := zerolog.New(logs)

	ready := &atomic.Bool{}
	ready.Store(true)

	svc := adapter.NewService(adapter.WithMetrics(m), adapter.WithLogger(logger))
	srv := httptest.NewServer(NewRouter(svc, Options{
		Logger:       logger,
		Metrics:      m,
		Gatherer:     reg,
		MaxBodyBytes: maxBody,
		Ready:        ready,
	}))
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, metrics: m, logs: logs, ready: ready}
}

func (ts *testServer) post(t *testing.T, path, body string) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.Post(ts.srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)

	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	return resp, buf.Bytes()
}

func TestGenerate(t *testing.T) {
	ts := newTestServer(t, 0)

	resp, body := ts.post(t, "/generate", `{"sampleApiResponse": `+weatherSample+`, "targetSchema": `+weatherSchema+`}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"mappingConfig": {"temperature": "temp_c", "humidity": "hum", "city": "city_name"}}`, string(body))
	assert.True(t, strings.HasPrefix(string(body), `{"mappingConfig":{"temperature":"temp_c","humidity":"hum","city":"city_name"}`))
}

func TestGenerate_Explain(t *testing.T) {
	ts := newTestServer(t, 0)

	_, body := ts.post(t, "/generate?explain=true", `{"sampleApiResponse": `+weatherSample+`, "targetSchema": `+weatherSchema+`}`)

	var out struct {
		Explanation []map[string]any `json:"explanation"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Explanation, 3)
	assert.Equal(t, "temperature", out.Explanation[0]["target"])
	assert.Equal(t, "fuzzy", out.Explanation[0]["tier"])

	resp, _ := ts.post(t, "/generate?explain=perhaps", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTransform(t *testing.T) {
	ts := newTestServer(t, 0)

	resp, body := ts.post(t, "/transform", `{
		"rawApiResponse": `+weatherSample+`,
		"mappingConfig": {"temperature": "temp_c", "humidity": "hum", "city": "city_name"},
		"targetSchema": `+weatherSchema+`
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{
		"transformed": {"temperature": 32, "humidity": 75, "city": "Bangalore"},
		"absent": [],
		"validation": {"valid": true, "errors": []}
	}`, string(body))
}

func TestTransform_ValidationFailureIs200(t *testing.T) {
	ts := newTestServer(t, 0)

	resp, body := ts.post(t, "/transform", `{
		"rawApiResponse": {"temp_c": 32},
		"mappingConfig": {"temperature": "temp_c", "humidity": null, "city": "city_name"},
		"targetSchema": `+weatherSchema+`
	}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out adapter.TransformResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.False(t, out.Validation.Valid)
	assert.Equal(t, []string{"humidity", "city"}, out.Absent)
	require.Len(t, out.Validation.Errors, 2)
	assert.Equal(t, "humidity", out.Validation.Errors[0].Property)
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t, 256)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		kind   string
	}{
		{"generate missing", "/generate", `{"sampleApiResponse": {"a": 1}}`, http.StatusBadRequest, "InvalidArgument"},
		{"generate null body", "/generate", `null`, http.StatusBadRequest, "InvalidArgument"},
		{"transform missing", "/transform", `{}`, http.StatusBadRequest, "InvalidArgument"},
		{"bad json", "/transform", `{"rawApiResponse": `, http.StatusBadRequest, "InvalidArgument"},
		{"bad schema", "/generate", `{"sampleApiResponse": {"a": 1}, "targetSchema": {"properties": {"a": {"type": "date"}}}}`, http.StatusUnprocessableEntity, "SchemaConfigurationError"},
		{"too large", "/generate", `{"sampleApiResponse": {"a": "` + strings.Repeat("x", 512) + `"}}`, http.StatusRequestEntityTooLarge, kindPayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := ts.post(t, tt.path, tt.body)

			assert.Equal(t, tt.status, resp.StatusCode)

			var er ErrorResponse
			require.NoError(t, json.Unmarshal(body, &er))
			assert.Equal(t, tt.kind, er.Kind)
			assert.NotEmpty(t, er.Error)
		})
	}

	_, body := ts.post(t, "/transform", `{}`)
	assert.Contains(t, string(body), "rawApiResponse, mappingConfig, and targetSchema are required")
}

func TestHealthAndReadiness(t *testing.T) {
	ts := newTestServer(t, 0)

	for path, want := range map[string]string{"/healthz": "ok", "/readyz": "ready"} {
		resp, err := http.Get(ts.srv.URL + path)
		require.NoError(t, err)

		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, want, buf.String())
	}

	ts.ready.Store(false)

	resp, err := http.Get(ts.srv.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRequestIDAndAccessLog(t *testing.T) {
	ts := newTestServer(t, 0)

	req, err := http.NewRequest(http.MethodGet, ts.srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "req-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))
	assert.Contains(t, ts.logs.String(), `"requestId":"req-123"`)
	assert.Contains(t, ts.logs.String(), `"path":"/healthz"`)
	assert.Contains(t, ts.logs.String(), `"operation":"GET /healthz"`)

	resp, err = http.Get(ts.srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, 0)

	ts.post(t, "/transform", `{}`)

	assert.InDelta(t, 1, testutil.ToFloat64(ts.metrics.HTTPRequests.WithLabelValues("/transform", "POST", "400")), 0)

	resp, err := http.Get(ts.srv.URL + "/metrics")
	require.NoError(t, err)

	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, buf.String(), "api_adapter_http_requests_total")
	assert.Contains(t, buf.String(), "api_adapter_operation_errors_total")
}

func TestClient(t *testing.T) {
	ts := newTestServer(t, 0)
	c := NewClient(ts.srv.URL + "/")

	sample, err := payload.Parse([]byte(weatherSample))
	require.NoError(t, err)

	sch, err := payload.Parse([]byte(weatherSchema))
	require.NoError(t, err)

	gen, err := c.Generate(context.Background(), adapter.GenerateRequest{
		SampleAPIResponse: sample,
		TargetSchema:      sch,
		Explain:           true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"temperature", "humidity", "city"}, gen.MappingConfig.Targets())
	assert.Len(t, gen.Explanation, 3)

	res, err := c.Transform(context.Background(), adapter.TransformRequest{
		RawAPIResponse: sample,
		MappingConfig:  gen.MappingConfig.Value(),
		TargetSchema:   sch,
	})
	require.NoError(t, err)
	assert.True(t, res.Validation.Valid)
	assert.Equal(t, []string{"temperature", "humidity", "city"}, res.Transformed.Keys())

	_, err = c.Transform(context.Background(), adapter.TransformRequest{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "InvalidArgument", apiErr.Kind)
}
