// internal/monitoring/health.go
package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/valpere/mediasniff/internal/browser"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnknown   HealthStatus = "unknown"
)

// HealthCheck represents a single health check
type HealthCheck struct {
	Name      string                                      `json:"name"`
	Status    HealthStatus                                `json:"status"`
	Message   string                                      `json:"message,omitempty"`
	Error     string                                      `json:"error,omitempty"`
	LastCheck time.Time                                   `json:"last_check"`
	Duration  time.Duration                               `json:"duration"`
	Metadata  map[string]interface{}                      `json:"metadata,omitempty"`
	CheckFunc func(ctx context.Context) HealthCheckResult `json:"-"`
	Timeout   time.Duration                               `json:"-"`
	Critical  bool                                        `json:"critical"`
}

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status   HealthStatus           `json:"status"`
	Message  string                 `json:"message,omitempty"`
	Error    error                  `json:"-"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// HealthManager runs registered checks and serves their aggregate state
type HealthManager struct {
	mu      sync.RWMutex
	checks  map[string]*HealthCheck
	lastRun time.Time
	config  HealthConfig
	stopCh  chan struct{}
	stopped sync.Once
}

// HealthConfig configuration for health monitoring
type HealthConfig struct {
	CheckInterval    time.Duration `json:"check_interval"`
	DefaultTimeout   time.Duration `json:"default_timeout"`
	DetailedResponse bool          `json:"detailed_response"`
	// CacheTTL bounds how stale results may be before a request reruns the checks
	CacheTTL time.Duration `json:"cache_ttl"`
	Version  string        `json:"version"`
}

// SystemHealth represents overall system health information
type SystemHealth struct {
	Status    HealthStatus           `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version,omitempty"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]HealthCheck `json:"checks,omitempty"`
	Summary   HealthSummary          `json:"summary"`
}

// HealthSummary provides a summary of health checks
type HealthSummary struct {
	Total     int `json:"total"`
	Healthy   int `json:"healthy"`
	Unhealthy int `json:"unhealthy"`
	Degraded  int `json:"degraded"`
	Unknown   int `json:"unknown"`
	Critical  int `json:"critical"`
}

var startTime = time.Now()

// NewHealthManager creates a new health manager
func NewHealthManager(config HealthConfig) *HealthManager {
	if config.CheckInterval == 0 {
		config.CheckInterval = 30 * time.Second
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = 5 * time.Second
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 5 * time.Second
	}

	return &HealthManager{
		checks: make(map[string]*HealthCheck),
		config: config,
		stopCh: make(chan struct{}),
	}
}

// RegisterCheck registers a new health check
func (hm *HealthManager) RegisterCheck(check *HealthCheck) {
	if check.Timeout == 0 {
		check.Timeout = hm.config.DefaultTimeout
	}
	check.Status = HealthStatusUnknown

	hm.mu.Lock()
	hm.checks[check.Name] = check
	hm.lastRun = time.Time{}
	hm.mu.Unlock()
}

// Start runs the checks periodically until ctx ends or Stop is called
func (hm *HealthManager) Start(ctx context.Context) {
	ticker := time.NewTicker(hm.config.CheckInterval)

	go func() {
		defer ticker.Stop()
		hm.RunChecks(ctx)

		for {
			select {
			case <-ticker.C:
				hm.RunChecks(ctx)
			case <-hm.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the health monitoring
func (hm *HealthManager) Stop() {
	hm.stopped.Do(func() { close(hm.stopCh) })
}

// RunChecks runs every registered check concurrently and stores the results
func (hm *HealthManager) RunChecks(ctx context.Context) {
	hm.mu.RLock()
	checks := make([]*HealthCheck, 0, len(hm.checks))
	for _, check := range hm.checks {
		checks = append(checks, check)
	}
	hm.mu.RUnlock()

	results := make([]HealthCheck, len(checks))
	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func(i int, c *HealthCheck) {
			defer wg.Done()
			results[i] = runCheck(ctx, c)
		}(i, check)
	}
	wg.Wait()

	hm.mu.Lock()
	for _, r := range results {
		if c, ok := hm.checks[r.Name]; ok {
			*c = r
		}
	}
	hm.lastRun = time.Now()
	hm.mu.Unlock()
}

// runCheck runs a single health check and returns the updated copy
func runCheck(ctx context.Context, check *HealthCheck) HealthCheck {
	updated := *check
	start := time.Now()

	checkCtx, cancel := context.WithTimeout(ctx, check.Timeout)
	defer cancel()

	var result HealthCheckResult
	if check.CheckFunc != nil {
		result = check.CheckFunc(checkCtx)
	} else {
		result = HealthCheckResult{Status: HealthStatusUnknown, Message: "No check function defined"}
	}

	updated.LastCheck = start
	updated.Duration = time.Since(start)
	updated.Status = result.Status
	updated.Message = result.Message
	updated.Metadata = result.Metadata
	updated.Error = ""
	if result.Error != nil {
		updated.Error = result.Error.Error()
	}
	return updated
}

func (hm *HealthManager) refresh(ctx context.Context) {
	hm.mu.RLock()
	stale := time.Since(hm.lastRun) > hm.config.CacheTTL
	hm.mu.RUnlock()

	if stale {
		hm.RunChecks(ctx)
	}
}

// GetHealth returns the overall health status. Unhealthy critical checks make
// the system unhealthy; any other problem degrades it.
func (hm *HealthManager) GetHealth() SystemHealth {
	hm.mu.RLock()
	defer hm.mu.RUnlock()

	health := SystemHealth{
		Timestamp: time.Now(),
		Version:   hm.config.Version,
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	}

	if hm.config.DetailedResponse {
		health.Checks = make(map[string]HealthCheck, len(hm.checks))
	}

	summary := HealthSummary{}
	overall := HealthStatusHealthy

	for name, check := range hm.checks {
		if health.Checks != nil {
			health.Checks[name] = *check
		}

		summary.Total++
		if check.Critical {
			summary.Critical++
		}

		switch check.Status {
		case HealthStatusHealthy:
			summary.Healthy++
		case HealthStatusUnhealthy:
			summary.Unhealthy++
			if check.Critical {
				overall = HealthStatusUnhealthy
			} else if overall == HealthStatusHealthy {
				overall = HealthStatusDegraded
			}
		case HealthStatusDegraded:
			summary.Degraded++
			if overall == HealthStatusHealthy {
				overall = HealthStatusDegraded
			}
		default:
			summary.Unknown++
			if overall == HealthStatusHealthy {
				overall = HealthStatusDegraded
			}
		}
	}

	health.Status = overall
	health.Summary = summary
	return health
}

// GetReadiness reports whether the service can serve parse requests
func (hm *HealthManager) GetReadiness() SystemHealth {
	health := hm.GetHealth()
	if health.Status != HealthStatusUnhealthy {
		health.Status = HealthStatusHealthy
	}
	return health
}

// GetLiveness reports whether the process is alive. Check results are not
// consulted; a browser that failed to launch does not warrant a restart loop.
func (hm *HealthManager) GetLiveness() SystemHealth {
	return SystemHealth{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now(),
		Version:   hm.config.Version,
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	}
}

// HealthHandler serves the aggregate health report
func (hm *HealthManager) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hm.refresh(r.Context())
		writeHealth(w, hm.GetHealth())
	}
}

// ReadinessHandler serves readiness; 503 while a critical check fails
func (hm *HealthManager) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hm.refresh(r.Context())
		writeHealth(w, hm.GetReadiness())
	}
}

// LivenessHandler serves liveness
func (hm *HealthManager) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, hm.GetLiveness())
	}
}

func writeHealth(w http.ResponseWriter, health SystemHealth) {
	w.Header().Set("Content-Type", "application/json")
	if health.Status == HealthStatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(health)
}

// SessionState is the view of a browser session needed by its health check
type SessionState interface {
	IsInitialized() bool
	Stats() browser.BrowserStats
}

// BrowserHealthCheck reports unhealthy until the browser session is launched
func BrowserHealthCheck(session SessionState) *HealthCheck {
	return &HealthCheck{
		Name:     "browser",
		Critical: true,
		CheckFunc: func(ctx context.Context) HealthCheckResult {
			stats := session.Stats()
			metadata := map[string]interface{}{
				"pages_opened":      stats.PagesOpened,
				"pages_open":        stats.PagesOpen,
				"navigation_errors": stats.NavigationErrors,
				"timeouts":          stats.TimeoutsOccurred,
			}

			if !session.IsInitialized() {
				return HealthCheckResult{
					Status:   HealthStatusUnhealthy,
					Message:  "Browser session not initialized",
					Metadata: metadata,
				}
			}

			metadata["uptime"] = stats.Uptime.Round(time.Second).String()
			return HealthCheckResult{
				Status:   HealthStatusHealthy,
				Message:  "Browser session running",
				Metadata: metadata,
			}
		},
	}
}

// GoroutineHealthCheck creates a goroutine count health check
func GoroutineHealthCheck(maxGoroutines int) *HealthCheck {
	return &HealthCheck{
		Name:     "goroutines",
		Critical: false,
		CheckFunc: func(ctx context.Context) HealthCheckResult {
			count := runtime.NumGoroutine()

			metadata := map[string]interface{}{
				"goroutine_count": count,
				"max_allowed":     maxGoroutines,
			}

			if count > maxGoroutines {
				return HealthCheckResult{
					Status:   HealthStatusDegraded,
					Message:  fmt.Sprintf("High goroutine count: %d", count),
					Metadata: metadata,
				}
			}

			return HealthCheckResult{
				Status:   HealthStatusHealthy,
				Message:  fmt.Sprintf("Goroutine count normal: %d", count),
				Metadata: metadata,
			}
		},
	}
}
