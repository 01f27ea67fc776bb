package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/shinji-kodama/quantum-visualizer/internal/config"
	"github.com/shinji-kodama/quantum-visualizer/internal/httputil"
	"github.com/shinji-kodama/quantum-visualizer/internal/logging"
	"github.com/shinji-kodama/quantum-visualizer/internal/metrics"
	"github.com/shinji-kodama/quantum-visualizer/internal/middleware"
)

// MaxBox2DPoints caps the per-axis resolution of /simulate/box2d. The
// response holds 3·points² numbers.
const MaxBox2DPoints = 400

// Options configures New. Zero values fall back to config.Default(), a
// discarding logger and a fresh metrics registry.
type Options struct {
	Config  *config.Config
	Logger  logrus.FieldLogger
	Metrics *metrics.Metrics
}

// API holds the dependencies shared by all handlers.
type API struct {
	defaults config.WellDefaults
	server   config.ServerConfig
	logger   logrus.FieldLogger
	metrics  *metrics.Metrics
	limiter  *middleware.RateLimiter // nil when rate limiting is disabled
}

// New builds an API from opts.
func New(opts Options) *API {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	a := &API{
		defaults: cfg.Defaults,
		server:   cfg.Server,
		logger:   logger,
		metrics:  m,
	}
	if cfg.Server.RateLimit > 0 {
		a.limiter = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst, logger)
	}
	return a
}

// StartMaintenance starts background upkeep (rate limiter eviction) until
// done is closed. It is a no-op when rate limiting is disabled.
func (a *API) StartMaintenance(done <-chan struct{}) {
	if a.limiter != nil {
		a.limiter.StartCleanup(time.Minute, done)
	}
}

// Metrics returns the registry-backed collectors this API records into.
func (a *API) Metrics() *metrics.Metrics {
	return a.metrics
}

// Router returns the bare route table with metrics instrumentation.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	instrument := middleware.Metrics(a.metrics)
	r.Use(instrument)

	r.HandleFunc("/simulate/test", a.handleSquare).Methods(http.MethodPost)
	r.HandleFunc("/simulate/infinite-well", a.handleWell).Methods(http.MethodPost)
	r.HandleFunc("/simulate/infinite-well/levels", a.handleLevels).Methods(http.MethodGet)
	r.HandleFunc("/simulate/infinite-well/psi/{n:-?[0-9]+}", a.handlePsi).Methods(http.MethodGet)
	r.HandleFunc("/simulate/box2d", a.handleBox2D).Methods(http.MethodPost)
	r.HandleFunc("/simulate/box3d", a.handleBox3D).Methods(http.MethodGet)
	r.HandleFunc("/healthz", a.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)

	// mux skips Use middleware for unmatched requests, so wrap these directly.
	r.NotFoundHandler = instrument(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteErrorMessage(w, http.StatusNotFound, "not found")
	}))
	r.MethodNotAllowedHandler = instrument(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}))
	return r
}

// Handler returns the full middleware chain around Router.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.Router()
	h = middleware.Logging(a.logger)(h)
	if a.limiter != nil {
		h = a.limiter.Handler(h)
	}
	return middleware.NewCORS(a.server.AllowedOrigins).Handler(h)
}
