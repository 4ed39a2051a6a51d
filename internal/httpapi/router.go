package httpapi

import (
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Adityahash12/agent-api-adapter/internal/adapter"
	"github.com/Adityahash12/agent-api-adapter/internal/observability/metrics"
)

// DefaultMaxBodyBytes bounds request bodies when Options leaves it unset.
const DefaultMaxBodyBytes = 1 << 20

// Options configures the router.
type Options struct {
	Logger       zerolog.Logger
	Metrics      *metrics.Metrics
	Gatherer     prometheus.Gatherer
	MaxBodyBytes int64
	// Ready gates /readyz. Nil means always ready.
	Ready *atomic.Bool
}

type handlers struct {
	svc          *adapter.Service
	maxBodyBytes int64
}

// NewRouter constructs the HTTP router for the service.
func NewRouter(svc *adapter.Service, opts Options) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}

	h := &handlers{svc: svc, maxBodyBytes: opts.MaxBodyBytes}

	r := chi.NewRouter()

	// Basic middleware
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(opts.Logger))
	r.Use(middleware.Recoverer)

	if opts.Metrics != nil {
		r.Use(instrument(opts.Metrics))
	}

	// Health endpoints
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if opts.Ready != nil && !opts.Ready.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))

			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	// API routes
	r.Post("/generate", h.generate)
	r.Post("/transform", h.transform)

	return r
}
