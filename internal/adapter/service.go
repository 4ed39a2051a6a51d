package adapter

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Adityahash12/agent-api-adapter/internal/apperr"
	"github.com/Adityahash12/agent-api-adapter/internal/mapping"
	"github.com/Adityahash12/agent-api-adapter/internal/match"
	"github.com/Adityahash12/agent-api-adapter/internal/observability/logging"
	"github.com/Adityahash12/agent-api-adapter/internal/observability/metrics"
	"github.com/Adityahash12/agent-api-adapter/internal/payload"
	"github.com/Adityahash12/agent-api-adapter/internal/schema"
)

// Operation names used in logs and metrics.
const (
	OpGenerate  = "generate"
	OpTransform = "transform"
)

const explainCandidates = 3

// Error messages for missing request inputs.
const (
	errGenerateRequired  = "sampleApiResponse and targetSchema are required"
	errTransformRequired = "rawApiResponse, mappingConfig, and targetSchema are required"
)

// GenerateRequest asks for a mapping from a sample response to a target schema.
type GenerateRequest struct {
	SampleAPIResponse payload.Value `json:"sampleApiResponse"`
	TargetSchema      payload.Value `json:"targetSchema"`
	// Explain attaches per-property match details to the response.
	Explain bool `json:"explain,omitempty"`
}

// GenerateResponse carries the inferred mapping.
type GenerateResponse struct {
	MappingConfig *mapping.Config `json:"mappingConfig"         yaml:"mappingConfig"`
	Explanation   []match.Match   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// TransformRequest asks for a raw response to be transformed and validated.
type TransformRequest struct {
	RawAPIResponse payload.Value `json:"rawApiResponse"`
	MappingConfig  payload.Value `json:"mappingConfig"`
	TargetSchema   payload.Value `json:"targetSchema"`
}

// TransformResponse is the transform result.
type TransformResponse = Result

// Service runs adapter operations for transports. It is safe for
// concurrent use.
type Service struct {
	cache   *schema.Cache
	scorer  match.Scorer
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithCache sets the compiled schema cache.
func WithCache(c *schema.Cache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithScorer sets the similarity scorer used by inference.
func WithScorer(sc match.Scorer) Option {
	return func(s *Service) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService returns a Service. Without options it uses a default-sized
// cache, the Jaro-Winkler scorer, a disabled logger and unregistered metrics.
func NewService(opts ...Option) *Service {
	s := &Service{
		cache:   schema.NewCache(schema.DefaultCacheSize),
		scorer:  match.JaroWinkler,
		logger:  zerolog.Nop(),
		metrics: metrics.NewMetrics(nil),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// NewInstrumentedService is NewService with metrics registered on reg.
func NewInstrumentedService(reg prometheus.Registerer, opts ...Option) *Service {
	return NewService(append([]Option{WithMetrics(metrics.NewMetrics(reg))}, opts...)...)
}

// GenerateMapping infers a mapping for the request's sample and schema.
func (s *Service) GenerateMapping(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	start := time.Now()
	log := logging.WithComponent(logging.FromContext(ctx, s.logger), "adapter")

	resp, err := s.generate(ctx, req, log)
	s.finish(OpGenerate, start, err, log)

	return resp, err
}

func (s *Service) generate(ctx context.Context, req GenerateRequest, log zerolog.Logger) (GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return GenerateResponse{}, err
	}

	if missing(req.SampleAPIResponse) || missing(req.TargetSchema) {
		return GenerateResponse{}, apperr.NewInvalidArgument(errGenerateRequired)
	}

	sample, ok := req.SampleAPIResponse.AsObject()
	if !ok {
		return GenerateResponse{}, apperr.InvalidArgumentf("sampleApiResponse must be an object, got %s",
			req.SampleAPIResponse.Kind())
	}

	sch, err := s.compile(req.TargetSchema)
	if err != nil {
		return GenerateResponse{}, err
	}

	opts := []match.Option{match.WithScorer(s.scorer)}
	if req.Explain {
		opts = append(opts, match.WithCandidates(explainCandidates))
	}

	inf, err := InferMapping(sample, sch, opts...)
	if err != nil {
		return GenerateResponse{}, err
	}

	byTier := make(map[string]int, 3)
	for tier, n := range inf.CountByTier() {
		byTier[tier.String()] = n
	}

	s.metrics.RecordInference(byTier)

	for _, m := range inf.Matches {
		log.Debug().
			Str("target", m.Target).
			Str("source", m.Source).
			Stringer("tier", m.Tier).
			Float64("score", m.Score).
			Bool("ambiguous", m.Ambiguous).
			Msg(m.Reason)
	}

	if unresolved := inf.Unresolved(); len(unresolved) > 0 {
		log.Info().Strs("unresolved", unresolved).Msg("some target properties have no source key")
	}

	resp := GenerateResponse{MappingConfig: inf.Mapping}
	if req.Explain {
		resp.Explanation = inf.Matches
	}

	return resp, nil
}

// TransformAndValidate transforms the request's raw response with its
// mapping and validates the result against its schema.
func (s *Service) TransformAndValidate(ctx context.Context, req TransformRequest) (TransformResponse, error) {
	start := time.Now()
	log := logging.WithComponent(logging.FromContext(ctx, s.logger), "adapter")

	resp, err := s.transform(ctx, req, log)
	s.finish(OpTransform, start, err, log)

	return resp, err
}

func (s *Service) transform(ctx context.Context, req TransformRequest, log zerolog.Logger) (TransformResponse, error) {
	if err := ctx.Err(); err != nil {
		return TransformResponse{}, err
	}

	if missing(req.RawAPIResponse) || missing(req.MappingConfig) || missing(req.TargetSchema) {
		return TransformResponse{}, apperr.NewInvalidArgument(errTransformRequired)
	}

	raw, ok := req.RawAPIResponse.AsObject()
	if !ok {
		return TransformResponse{}, apperr.InvalidArgumentf("rawApiResponse must be an object, got %s",
			req.RawAPIResponse.Kind())
	}

	cfg, err := mapping.FromValue(req.MappingConfig)
	if err != nil {
		return TransformResponse{}, apperr.InvalidArgumentf("mappingConfig: %v", err)
	}

	sch, err := s.compile(req.TargetSchema)
	if err != nil {
		return TransformResponse{}, err
	}

	for _, target := range cfg.Targets() {
		if _, declared := sch.Property(target); !declared {
			log.Warn().Str("target", target).Msg("mapping target is not declared in the target schema")
		}
	}

	res, err := TransformAndValidate(raw, cfg, sch)
	if err != nil {
		return TransformResponse{}, err
	}

	violations := make(map[string]int, len(res.Validation.Errors))
	for code, n := range res.Validation.CountByCode() {
		violations[string(code)] = n
	}

	s.metrics.RecordTransform(res.Validation.Valid, violations)

	if !res.Validation.Valid {
		log.Info().
			Int("violations", len(res.Validation.Errors)).
			Strs("absent", res.Absent).
			Msg("transformed object failed validation")
	}

	return res, nil
}

func (s *Service) compile(doc payload.Value) (*schema.Schema, error) {
	sch, hit, err := s.cache.Fetch(doc)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordCache(hit)

	return sch, nil
}

func (s *Service) finish(op string, start time.Time, err error, log zerolog.Logger) {
	s.metrics.ObserveOperation(op, time.Since(start))

	if err == nil {
		return
	}

	kind := apperr.Kind(err)
	s.metrics.RecordError(op, kind)

	log.Warn().Err(err).Str("operation", op).Str("kind", kind).Msg("request rejected")
}

func missing(v payload.Value) bool {
	return v.IsAbsent() || v.IsNull()
}
