// internal/app/app.go
package app

import (
	"net/http"
	"os"
	"strings"

	"github.com/valpere/mediasniff/internal/api"
	"github.com/valpere/mediasniff/internal/browser"
	"github.com/valpere/mediasniff/internal/config"
	"github.com/valpere/mediasniff/internal/media"
	"github.com/valpere/mediasniff/internal/monitoring"
	"github.com/valpere/mediasniff/internal/utils"
)

// maxGoroutines is the degraded threshold of the goroutine health check
const maxGoroutines = 10000

// App holds the long-lived components built from a Config
type App struct {
	Config  *config.Config
	Logger  utils.Logger
	Session *browser.Session
	Metrics *monitoring.MetricsManager
	Health  *monitoring.HealthManager
	Parser  *media.Parser
}

// New wires the browser session, discovery engine and monitoring. The
// browser is not launched; call Session.Init.
func New(cfg *config.Config, version string) *App {
	logger := NewLogger(cfg.Logging)
	session := browser.NewSession(BrowserConfig(cfg.Browser), logger)

	metrics := monitoring.NewMetricsManager(monitoring.MetricsConfig{
		EnableGoMetrics:      true,
		EnableProcessMetrics: true,
	})
	metrics.RegisterPagesOpen(func() float64 {
		return float64(session.Stats().PagesOpen)
	})

	health := monitoring.NewHealthManager(monitoring.HealthConfig{
		DetailedResponse: true,
		Version:          version,
	})
	health.RegisterCheck(monitoring.BrowserHealthCheck(session))
	health.RegisterCheck(monitoring.GoroutineHealthCheck(maxGoroutines))

	return &App{
		Config:  cfg,
		Logger:  logger,
		Session: session,
		Metrics: metrics,
		Health:  health,
		Parser:  media.NewParser(session, ParserOptions(cfg.Parser), metrics, logger.WithField("component", "parser")),
	}
}

// Handler returns the HTTP routes of the service
func (a *App) Handler() http.Handler {
	return api.NewRouter(api.RouterOptions{
		Parser:  a.Parser,
		Server:  a.Config.Server,
		Metrics: a.Metrics,
		Health:  a.Health,
		Logger:  a.Logger,
	})
}

// NewLogger builds the process logger from logging config
func NewLogger(cfg config.LoggingConfig) utils.Logger {
	return utils.NewLoggerWithOptions(utils.LoggerOptions{
		Level:  utils.ParseLogLevel(cfg.Level),
		JSON:   strings.EqualFold(cfg.Format, "json"),
		Output: os.Stderr,
	})
}

// BrowserConfig maps file configuration onto the session launch options
func BrowserConfig(cfg config.BrowserConfig) *browser.BrowserConfig {
	return &browser.BrowserConfig{
		ExecPath:  cfg.ExecPath,
		Headless:  cfg.IsHeadless(),
		NoSandbox: cfg.SandboxDisabled(),
		UserAgent: cfg.UserAgent,
	}
}

// ParserOptions maps file configuration onto strategy options
func ParserOptions(cfg config.ParserConfig) media.Options {
	return media.Options{
		NavigationTimeout: cfg.NavigationTimeout,
		ElementWait:       cfg.ElementWait,
		GracePeriod:       cfg.GracePeriod,
		MinResourceSize:   cfg.MinResourceSize,
		ProbeTimeout:      cfg.ProbeTimeout,
	}
}
