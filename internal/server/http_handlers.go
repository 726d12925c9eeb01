package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"resumeforge/internal/catalog"
	"resumeforge/internal/errors"
	"resumeforge/internal/observability"
	"resumeforge/internal/schema"
	"resumeforge/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// Certificates expiring within these windows are reported as critical/warning
const (
	certCriticalThreshold = 24 * time.Hour
	certWarningThreshold  = 7 * 24 * time.Hour
)

// scoreHandler scores the resume in a ScoreRequest body
func (s *Server) scoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ScoreRequest
		if err := decodeRequest(r, schema.ScoreRequest, &req); err != nil {
			om.RecordBusinessMetric(r.Context(), observability.MetricResumeScored, false, errorCodeAttr(err))
			s.writeError(w, r, err)
			return
		}

		var result types.AnalysisResult
		err := om.TrackAnalysis(r.Context(), "score", func(ctx context.Context) error {
			var err error
			result, err = s.Analyzer.ScoreResume(ctx, req.Resume)
			return err
		})
		if err != nil {
			om.RecordBusinessMetric(r.Context(), observability.MetricResumeScored, false, errorCodeAttr(err))
			s.writeError(w, r, err)
			return
		}

		om.RecordScore(r.Context(), result, attribute.String("source", "http"))
		s.writeJSON(w, http.StatusOK, result)
	}
}

// matchHandler matches a job description against the resume in a MatchRequest body
func (s *Server) matchHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.MatchRequest
		if err := decodeRequest(r, schema.MatchRequest, &req); err != nil {
			om.RecordBusinessMetric(r.Context(), observability.MetricJobMatched, false, errorCodeAttr(err))
			s.writeError(w, r, err)
			return
		}
		if strings.TrimSpace(req.JobDescription) == "" {
			err := errors.NewValidationError(errors.ErrCodeEmptyInput, "jobDescription must not be blank", nil)
			om.RecordBusinessMetric(r.Context(), observability.MetricJobMatched, false, errorCodeAttr(err))
			s.writeError(w, r, err)
			return
		}

		var result types.JobMatchResult
		err := om.TrackAnalysis(r.Context(), "match", func(ctx context.Context) error {
			var err error
			result, err = s.Analyzer.MatchJob(ctx, req.JobDescription, req.Resume)
			return err
		})
		if err != nil {
			om.RecordBusinessMetric(r.Context(), observability.MetricJobMatched, false, errorCodeAttr(err))
			s.writeError(w, r, err)
			return
		}

		om.RecordMatch(r.Context(), result, attribute.String("source", "http"))
		s.writeJSON(w, http.StatusOK, result)
	}
}

// catalogIndexHandler lists the known roles and industries
func (s *Server) catalogIndexHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		om.RecordBusinessMetric(r.Context(), observability.MetricSuggestionServed, true,
			attribute.String("kind", "index"))
		s.writeJSON(w, http.StatusOK, catalog.Index())
	}
}

// roleSuggestionsHandler serves canned content for a role. The path accepts
// slugs, so software-engineer finds "Software Engineer".
func (s *Server) roleSuggestionsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := slugToName(r.PathValue("role"))
		suggestions, ok := catalog.Lookup(role)
		if !ok {
			om.RecordBusinessMetric(r.Context(), observability.MetricSuggestionServed, false,
				attribute.String("kind", "role"))
			s.writeError(w, r, errors.NewNotFoundError(errors.ErrCodeUnknownRole, "Unknown role: "+role).
				WithContext("supported_roles", catalog.Roles()))
			return
		}

		om.RecordBusinessMetric(r.Context(), observability.MetricSuggestionServed, true,
			attribute.String("kind", "role"),
			attribute.String("role", suggestions.Role))
		s.writeJSON(w, http.StatusOK, suggestions)
	}
}

// industryKeywordsHandler serves the keyword list for an industry
func (s *Server) industryKeywordsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		industry := slugToName(r.PathValue("industry"))
		keywords, ok := catalog.Keywords(industry)
		if !ok {
			om.RecordBusinessMetric(r.Context(), observability.MetricSuggestionServed, false,
				attribute.String("kind", "industry"))
			s.writeError(w, r, errors.NewNotFoundError(errors.ErrCodeUnknownIndustry, "Unknown industry: "+industry).
				WithContext("supported_industries", catalog.Industries()))
			return
		}

		om.RecordBusinessMetric(r.Context(), observability.MetricSuggestionServed, true,
			attribute.String("kind", "industry"),
			attribute.String("industry", keywords.Industry))
		s.writeJSON(w, http.StatusOK, keywords)
	}
}

func slugToName(slug string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(slug)
}

// healthHandler reports liveness and certificate health
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":         "healthy",
		"service":        "resumeforge",
		"version":        s.Version,
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
	}
	if s.Analyzer != nil {
		response["match_strategy"] = s.Analyzer.Matcher().Strategy()
	}

	status := http.StatusOK
	if certStatus := s.checkCertificateHealth(); certStatus != nil {
		response["certificates"] = certStatus
		if healthy, ok := certStatus["healthy"].(bool); ok && !healthy {
			response["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}

	s.writeJSON(w, status, response)
}

// checkCertificateHealth checks the health of TLS certificates
func (s *Server) checkCertificateHealth() map[string]any {
	if s.CertificateManager == nil {
		return nil
	}

	certStatus := make(map[string]any)

	timeToExpiry, err := s.CertificateManager.CheckExpiry()
	if err != nil {
		certStatus["healthy"] = false
		certStatus["error"] = err.Error()
		return certStatus
	}

	certStatus["time_to_expiry_hours"] = int(timeToExpiry.Hours())
	certStatus["time_to_expiry"] = timeToExpiry.String()

	switch {
	case timeToExpiry <= 0:
		certStatus["healthy"] = false
		certStatus["status"] = "expired"
	case timeToExpiry <= certCriticalThreshold:
		certStatus["healthy"] = false
		certStatus["status"] = "critical"
	case timeToExpiry <= certWarningThreshold:
		certStatus["healthy"] = true
		certStatus["status"] = "warning"
	default:
		certStatus["healthy"] = true
		certStatus["status"] = "ok"
	}

	certStatus["auto_reload"] = s.CertificateManager.Status()
	if s.SecretWatcher != nil {
		certStatus["vault_watcher"] = s.SecretWatcher.Status()
	}

	return certStatus
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := map[string]any{
			"service":        "resumeforge",
			"version":        s.Version,
			"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
			"server": map[string]any{
				"max_request_size_bytes": s.MaxRequestSize,
				"api_keys_configured":    s.apiKeyCount(),
			},
		}

		if s.RateLimiter != nil {
			response["rate_limiting"] = s.RateLimiter.GetStats()
		} else {
			response["rate_limiting"] = map[string]any{"enabled": false}
		}

		if s.RateLimit != nil {
			response["rate_limit_config"] = map[string]any{
				"enabled":          s.RateLimit.Enabled,
				"requests_per_min": s.RateLimit.RequestsPerMin,
				"burst_capacity":   s.RateLimit.BurstCapacity,
				"by_ip":            s.RateLimit.ByIP,
				"by_api_key":       s.RateLimit.ByAPIKey,
			}
		}

		if rm, ok := om.Snapshot(r.Context()); ok {
			response["counters"] = observability.CounterTotals(rm)
		}

		s.writeJSON(w, http.StatusOK, response)
	}
}

// decodeRequest reads a JSON body, checks it against the schema for kind
// and decodes it into v
func decodeRequest(r *http.Request, kind schema.Kind, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat, "Content-Type must be application/json", err)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return errors.NewValidationError(errors.ErrCodeRequestTooLarge, "Request body too large", err).
				WithContext("limit_bytes", maxBytesErr.Limit)
		}
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "Failed to read request body", err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errors.NewValidationError(errors.ErrCodeEmptyInput, "Request body is empty", nil)
	}

	if err := schema.Validate(kind, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat, "Failed to parse JSON", err)
	}
	return nil
}

// statusFor maps an application error to an HTTP status
func statusFor(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeMissingAPIKey, errors.ErrCodeInvalidAPIKey:
		return http.StatusUnauthorized
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeRequestTooLarge, errors.ErrCodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.ErrCodeAnalysisCanceled:
		return http.StatusServiceUnavailable
	}
	switch appErr.Type {
	case errors.ErrorTypeValidation:
		return http.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes a standardized error response
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.NewInternalError(errors.ErrCodeInternal, "Internal server error", err)
	}
	status := statusFor(appErr)

	response := ErrorResponse{
		Error:   http.StatusText(status),
		Code:    appErr.Code,
		Message: appErr.Message,
	}
	if fields := schema.FieldErrors(appErr); len(fields) > 0 {
		response.Details = map[string]any{"fields": fields}
	} else if len(appErr.Context) > 0 {
		response.Details = appErr.Context
	}

	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, "Request failed",
			"path", r.URL.Path,
			"request_id", r.Header.Get(RequestIDHeader))
	} else {
		s.Logger.Debug("Request rejected",
			"path", r.URL.Path,
			"status", status,
			"code", appErr.Code,
			"request_id", r.Header.Get(RequestIDHeader))
	}

	s.writeJSON(w, status, response)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.LogError(err, "Failed to encode response")
	}
}

func errorCodeAttr(err error) attribute.KeyValue {
	if appErr, ok := errors.AsAppError(err); ok {
		return attribute.String("error_code", appErr.Code)
	}
	return attribute.String("error_code", errors.ErrCodeInternal)
}
