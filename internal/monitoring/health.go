package monitoring

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker reports liveness for long batch optimization runs.
type HealthChecker struct {
	mu           sync.RWMutex
	lastRun      time.Time
	jobsComplete int
	jobsTotal    int
	errors       []string
}

// HealthStatus is the JSON body of the health endpoint.
type HealthStatus struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	LastRun      time.Time `json:"last_run"`
	JobsComplete int       `json:"jobs_complete"`
	JobsTotal    int       `json:"jobs_total"`
	Uptime       string    `json:"uptime"`
	Errors       []string  `json:"errors,omitempty"`
}

// NewHealthChecker creates a health checker.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{errors: make([]string, 0)}
}

// ServeHTTP serves the health endpoint.
func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "healthy"
	if len(h.errors) > 0 {
		status = "unhealthy"
		w.WriteHeader(http.StatusInternalServerError)
	}

	health := HealthStatus{
		Status:       status,
		Timestamp:    time.Now(),
		LastRun:      h.lastRun,
		JobsComplete: h.jobsComplete,
		JobsTotal:    h.jobsTotal,
		Uptime:       time.Since(startTime).String(),
		Errors:       h.errors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// RecordRun notes a completed optimization job.
func (h *HealthChecker) RecordRun() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastRun = time.Now()
	h.jobsComplete++
}

// SetTotal sets the job count expected for the current batch.
func (h *HealthChecker) SetTotal(total int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.jobsTotal = total
}

// RecordError appends an error to the health report.
func (h *HealthChecker) RecordError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errors = append(h.errors, err.Error())
}

// Serve starts the health and metrics HTTP server on the given port,
// blocking until the server stops.
func Serve(port int, health *HealthChecker) error {
	mux := http.NewServeMux()
	mux.Handle("/health", health)
	mux.Handle("/metrics", NewMetricsHandler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
