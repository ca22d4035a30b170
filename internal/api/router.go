// internal/api/router.go
package api

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/valpere/mediasniff/internal/config"
	"github.com/valpere/mediasniff/internal/monitoring"
	"github.com/valpere/mediasniff/internal/utils"
)

// RouterOptions collects the dependencies of the HTTP surface. Parser is
// required; the rest are optional.
type RouterOptions struct {
	Parser  MediaParser
	Server  config.ServerConfig
	Metrics *monitoring.MetricsManager
	Health  *monitoring.HealthManager
	Logger  utils.Logger
}

// NewRouter builds the service routes:
//
//	POST /parse               media discovery
//	GET  /health /ready /live health reports
//	GET  /metrics             prometheus exposition
//	GET  /*                   static files from Server.StaticDir
func NewRouter(opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	var recorder Recorder = nopRecorder{}
	if opts.Metrics != nil {
		recorder = opts.Metrics
	}

	r := mux.NewRouter()
	r.Use(recoveryMiddleware(logger), loggingMiddleware(logger.WithField("component", "http")))

	var parse http.Handler = &parseHandler{
		parser:   opts.Parser,
		recorder: recorder,
		logger:   logger.WithField("component", "parse"),
	}
	if opts.Server.RateLimitEnabled() {
		parse = rateLimitMiddleware(opts.Server.RateLimit, opts.Server.RateBurst, recorder, parse)
	}
	r.Handle("/parse", parse).Methods(http.MethodPost)

	if opts.Health != nil {
		r.HandleFunc("/health", opts.Health.HealthHandler()).Methods(http.MethodGet)
		r.HandleFunc("/ready", opts.Health.ReadinessHandler()).Methods(http.MethodGet)
		r.HandleFunc("/live", opts.Health.LivenessHandler()).Methods(http.MethodGet)
	}

	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.MetricsHandler()).Methods(http.MethodGet)
	}

	if dir := opts.Server.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.PathPrefix("/").Handler(http.FileServer(http.Dir(dir))).Methods(http.MethodGet, http.MethodHead)
		} else {
			logger.Debugf("static directory %q not found, not serving static files", dir)
		}
	}

	return r
}
