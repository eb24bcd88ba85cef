package monitoring

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecker_Healthy(t *testing.T) {
	h := NewHealthChecker()
	h.SetTotal(3)
	h.RecordRun()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, 1, status.JobsComplete)
	assert.Equal(t, 3, status.JobsTotal)
	assert.False(t, status.LastRun.IsZero())
	assert.Empty(t, status.Errors)
}

func TestHealthChecker_UnhealthyAfterError(t *testing.T) {
	h := NewHealthChecker()
	h.RecordError(errors.New("fold 2 failed"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, []string{"fold 2 failed"}, status.Errors)
}

func TestMetricsHandler_ServesPrometheusFormat(t *testing.T) {
	RecordOptimization("DecisionTree", 0, false)
	RecordStrategyScore("Clustering", 0.42)
	RecordStrategyFailure("GradientSearch")
	RecordFold("kfold", 0)

	rec := httptest.NewRecorder()
	NewMetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "boundary_optimizer_runs_total")
	assert.Contains(t, body, "boundary_optimizer_strategy_score")
	assert.Contains(t, body, "boundary_optimizer_strategy_failures_total")
	assert.Contains(t, body, "boundary_optimizer_fold_duration_seconds")
}
