package observability

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumeforge/internal/config"
	"resumeforge/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, cfg *config.Config) *ObservabilityManager {
	t.Helper()
	obsConfig := GetObservabilityConfig(cfg, "test")
	obsConfig.Prometheus.Enabled = false
	om, err := NewObservabilityManager(obsConfig, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = om.Shutdown(context.Background()) })
	return om
}

func TestGetObservabilityConfig(t *testing.T) {
	fallback := GetObservabilityConfig(nil, "1.2.3")
	assert.Equal(t, "resumeforge", fallback.ServiceName)
	assert.Equal(t, "1.2.3", fallback.ServiceVersion)
	assert.True(t, fallback.Enabled)

	cfg := &config.Config{}
	cfg.Observability.ServiceName = "scorer"
	cfg.Observability.ServiceVersion = "9.9.9"
	cfg.Observability.Prometheus.Port = "9100"
	got := GetObservabilityConfig(cfg, "1.2.3")
	assert.Equal(t, "9.9.9", got.ServiceVersion)
	assert.Equal(t, "9100", got.Prometheus.Port)
}

func TestDisabledManagerIsNoop(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{Enabled: false}, nil, nil)
	require.NoError(t, err)

	ctx := context.Background()
	om.RecordScore(ctx, types.AnalysisResult{Score: 50})
	om.RecordBusinessMetric(ctx, MetricRateLimitHit, true)
	require.NoError(t, om.TrackAnalysis(ctx, "score", func(context.Context) error { return nil }))

	_, ok := om.Snapshot(ctx)
	assert.False(t, ok)
	assert.Nil(t, om.PrometheusHandler())

	called := false
	handler := om.HTTPMiddleware()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)

	var nilManager *ObservabilityManager
	assert.False(t, nilManager.Enabled())
	assert.NoError(t, nilManager.Shutdown(ctx))
}

func TestRecordsAnalysisMetrics(t *testing.T) {
	om := newTestManager(t, nil)
	ctx := context.Background()

	result := types.AnalysisResult{
		Score: 70,
		Issues: []types.Issue{
			{Severity: types.SeverityError, Message: "Email is required"},
			{Severity: types.SeverityWarning, Message: "Summary is too short (minimum 50 characters)"},
			{Severity: types.SeverityWarning, Message: "At least one education entry is recommended"},
		},
	}
	om.RecordScore(ctx, result)
	om.RecordScore(ctx, result)
	om.RecordMatch(ctx, types.JobMatchResult{ExtractedKeywords: []string{"react"}, MatchScore: 100})
	om.RecordBusinessMetric(ctx, MetricSuggestionServed, true)
	om.RecordBusinessMetric(ctx, MetricRateLimitHit, true)
	om.RecordCertificate(ctx, true, time.Now().Add(time.Hour))

	boom := stderrors.New("boom")
	err := om.TrackAnalysis(ctx, "match", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	rm, ok := om.Snapshot(ctx)
	require.True(t, ok)
	totals := CounterTotals(rm)

	assert.Equal(t, int64(2), totals["resumeforge_resumes_scored_total"])
	assert.Equal(t, int64(6), totals["resumeforge_issues_reported_total"])
	assert.Equal(t, int64(1), totals["resumeforge_jobs_matched_total"])
	assert.Equal(t, int64(1), totals["resumeforge_suggestions_served_total"])
	assert.Equal(t, int64(1), totals["resumeforge_rate_limit_hits_total"])
	assert.Equal(t, int64(1), totals["resumeforge_cert_reloads_total"])
}

func TestCustomMetricSwitches(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.Enabled = true
	cfg.Observability.ServiceName = "resumeforge"
	cfg.Observability.SampleRate = 1
	cfg.Observability.CustomMetrics.Analysis.Enabled = true
	cfg.Observability.CustomMetrics.Analysis.TrackIssues = false
	cfg.Observability.CustomMetrics.Infrastructure.Enabled = true
	cfg.Observability.CustomMetrics.Infrastructure.TrackRateLimits = false

	om := newTestManager(t, cfg)
	ctx := context.Background()

	om.RecordScore(ctx, types.AnalysisResult{Issues: []types.Issue{{Severity: types.SeverityError}}})
	om.RecordBusinessMetric(ctx, MetricRateLimitHit, true)

	rm, ok := om.Snapshot(ctx)
	require.True(t, ok)
	totals := CounterTotals(rm)
	assert.Equal(t, int64(1), totals["resumeforge_resumes_scored_total"])
	assert.Zero(t, totals["resumeforge_issues_reported_total"])
	assert.Zero(t, totals["resumeforge_rate_limit_hits_total"])
}

func TestPrometheusExporterServesMetrics(t *testing.T) {
	reader, handler, err := SetupPrometheusExporter(PrometheusConfig{Enabled: true, Endpoint: "/metrics"})
	require.NoError(t, err)
	require.NotNil(t, reader)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
