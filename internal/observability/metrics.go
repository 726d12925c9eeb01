package observability

import (
	"context"
	"time"

	"resumeforge/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Business metric types accepted by RecordBusinessMetric
const (
	MetricResumeScored     = "resume_scored"
	MetricJobMatched       = "job_matched"
	MetricSuggestionServed = "suggestion_served"
	MetricRateLimitHit     = "rate_limit_hit"
	MetricCertReloaded     = "cert_reloaded"
)

// TrackAnalysis runs fn inside an "analysis.<operation>" span and records
// its duration.
func (om *ObservabilityManager) TrackAnalysis(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, span := om.Tracer("resumeforge.analysis").Start(ctx, "analysis."+operation)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start).Seconds()

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}
	span.SetAttributes(attrs...)

	if om.analysisEnabled() && om.trackAnalysis(func(c analysisSwitches) bool { return c.duration }) {
		if h := om.GetMetrics().AnalysisDuration; h != nil {
			h.Record(ctx, duration, metric.WithAttributes(attrs...))
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// RecordScore records a completed scoring run
func (om *ObservabilityManager) RecordScore(ctx context.Context, result types.AnalysisResult, attributes ...attribute.KeyValue) {
	om.RecordBusinessMetric(ctx, MetricResumeScored, true, attributes...)
	if !om.analysisEnabled() {
		return
	}

	m := om.GetMetrics()
	if m.ResumeScore != nil && om.trackAnalysis(func(c analysisSwitches) bool { return c.scores }) {
		m.ResumeScore.Record(ctx, int64(result.Score),
			metric.WithAttributes(attribute.String("rating", result.Rating())))
	}
	if m.IssuesReported != nil && om.trackAnalysis(func(c analysisSwitches) bool { return c.issues }) {
		for severity, n := range result.IssueCounts() {
			if n > 0 {
				m.IssuesReported.Add(ctx, int64(n),
					metric.WithAttributes(attribute.String("severity", string(severity))))
			}
		}
	}
}

// RecordMatch records a completed job match
func (om *ObservabilityManager) RecordMatch(ctx context.Context, result types.JobMatchResult, attributes ...attribute.KeyValue) {
	attrs := append([]attribute.KeyValue{
		attribute.Int("keywords", len(result.ExtractedKeywords)),
	}, attributes...)
	om.RecordBusinessMetric(ctx, MetricJobMatched, true, attrs...)

	m := om.GetMetrics()
	if m.MatchScore != nil && om.analysisEnabled() && om.trackAnalysis(func(c analysisSwitches) bool { return c.scores }) {
		m.MatchScore.Record(ctx, int64(result.MatchScore))
	}
}

// RecordCertificate records a certificate reload and the time left before
// the new certificate expires
func (om *ObservabilityManager) RecordCertificate(ctx context.Context, success bool, notAfter time.Time) {
	om.RecordBusinessMetric(ctx, MetricCertReloaded, success)
	if !success || notAfter.IsZero() || !om.infrastructureEnabled(func(c infraSwitches) bool { return c.certReloads }) {
		return
	}
	if g := om.GetMetrics().CertExpiryTime; g != nil {
		g.Record(ctx, time.Until(notAfter).Seconds())
	}
}

// RecordBusinessMetric records business-specific metrics
func (om *ObservabilityManager) RecordBusinessMetric(ctx context.Context, metricType string, success bool, attributes ...attribute.KeyValue) {
	if !om.Enabled() {
		return
	}

	attrs := append([]attribute.KeyValue{
		attribute.Bool("success", success),
	}, attributes...)

	m := om.GetMetrics()
	switch metricType {
	case MetricResumeScored:
		if om.analysisEnabled() {
			addIfSet(ctx, m.ResumesScored, attrs)
		}
	case MetricJobMatched:
		if om.analysisEnabled() {
			addIfSet(ctx, m.JobsMatched, attrs)
		}
	case MetricSuggestionServed:
		if om.analysisEnabled() {
			addIfSet(ctx, m.SuggestionsServed, attrs)
		}
	case MetricRateLimitHit:
		if om.infrastructureEnabled(func(c infraSwitches) bool { return c.rateLimits }) {
			addIfSet(ctx, m.RateLimitHits, attrs)
		}
	case MetricCertReloaded:
		if om.infrastructureEnabled(func(c infraSwitches) bool { return c.certReloads }) {
			addIfSet(ctx, m.CertReloadCount, attrs)
		}
	}
}

func addIfSet(ctx context.Context, counter metric.Int64Counter, attrs []attribute.KeyValue) {
	if counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

type analysisSwitches struct{ duration, scores, issues bool }

type infraSwitches struct{ rateLimits, certReloads bool }

// analysisEnabled checks the customMetrics.analysis switch; without a full
// config every metric is recorded
func (om *ObservabilityManager) analysisEnabled() bool {
	if !om.Enabled() {
		return false
	}
	return om.fullConfig == nil || om.fullConfig.Observability.CustomMetrics.Analysis.Enabled
}

func (om *ObservabilityManager) trackAnalysis(pick func(analysisSwitches) bool) bool {
	if om.fullConfig == nil {
		return true
	}
	c := om.fullConfig.Observability.CustomMetrics.Analysis
	return pick(analysisSwitches{duration: c.TrackDuration, scores: c.TrackScores, issues: c.TrackIssues})
}

func (om *ObservabilityManager) infrastructureEnabled(pick func(infraSwitches) bool) bool {
	if !om.Enabled() {
		return false
	}
	if om.fullConfig == nil {
		return true
	}
	c := om.fullConfig.Observability.CustomMetrics.Infrastructure
	return c.Enabled && pick(infraSwitches{rateLimits: c.TrackRateLimits, certReloads: c.TrackCertReloads})
}

// Snapshot collects the current metric values when no exporter is attached.
// It returns false when metrics are exported elsewhere.
func (om *ObservabilityManager) Snapshot(ctx context.Context) (metricdata.ResourceMetrics, bool) {
	var rm metricdata.ResourceMetrics
	if om == nil || om.manualReader == nil {
		return rm, false
	}
	if err := om.manualReader.Collect(ctx, &rm); err != nil {
		om.logger.Warn("Failed to collect metrics", "error", err)
		return rm, false
	}
	return rm, true
}

// CounterTotals sums every Int64 counter in a snapshot by instrument name
func CounterTotals(rm metricdata.ResourceMetrics) map[string]int64 {
	totals := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			totals[m.Name] += total
		}
	}
	return totals
}
