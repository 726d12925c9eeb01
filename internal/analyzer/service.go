package analyzer

import (
	"context"
	"fmt"

	"resumeforge/internal/errors"
	"resumeforge/internal/types"

	"github.com/go-playground/validator/v10"
)

// Options configures a Service
type Options struct {
	Vocabulary    []string
	MatchStrategy string
}

// Service wraps the scorer and matcher for the CLI and HTTP hosts: it
// validates input at the boundary and logs each analysis.
type Service struct {
	matcher *Matcher
	logger  *errors.Logger
}

// NewService creates an analysis service
func NewService(opts Options, logger *errors.Logger) (*Service, error) {
	strategy, err := MatchStrategy(opts.MatchStrategy)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "Unsupported match strategy", err)
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}

	matcher := NewMatcher(opts.Vocabulary, strategy)
	logger.Debug("Initializing analysis service",
		"match_strategy", strategy.Name,
		"vocabulary_terms", len(matcher.vocabulary))

	return &Service{matcher: matcher, logger: logger}, nil
}

// Matcher exposes the configured job matcher
func (s *Service) Matcher() *Matcher {
	return s.matcher
}

// ScoreResume validates and scores a resume
func (s *Service) ScoreResume(ctx context.Context, doc types.ResumeDocument) (types.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return types.AnalysisResult{}, errors.NewAnalysisError(errors.ErrCodeAnalysisCanceled, "Scoring canceled", err)
	}
	if err := ValidateResume(doc); err != nil {
		return types.AnalysisResult{}, err
	}

	result := Score(doc)
	counts := result.IssueCounts()
	s.logger.Debug("Resume scored",
		"score", result.Score,
		"errors", counts[types.SeverityError],
		"warnings", counts[types.SeverityWarning],
		"info", counts[types.SeverityInfo],
		"suggestions", len(result.Suggestions))

	return result, nil
}

// MatchJob validates the resume and matches it against a job description
func (s *Service) MatchJob(ctx context.Context, jobText string, doc types.ResumeDocument) (types.JobMatchResult, error) {
	if err := ctx.Err(); err != nil {
		return types.JobMatchResult{}, errors.NewAnalysisError(errors.ErrCodeAnalysisCanceled, "Job matching canceled", err)
	}
	if err := ValidateResume(doc); err != nil {
		return types.JobMatchResult{}, err
	}

	result := s.matcher.Analyze(jobText, doc)
	s.logger.Debug("Job description matched",
		"job_chars", len(jobText),
		"extracted_keywords", len(result.ExtractedKeywords),
		"match_score", result.MatchScore,
		"missing_skills", len(result.MissingSkills))

	return result, nil
}

// ValidateResume converts struct validation failures into an INVALID_RESUME error
func ValidateResume(doc types.ResumeDocument) error {
	err := doc.Validate()
	if err == nil {
		return nil
	}

	appErr := errors.NewValidationError(errors.ErrCodeInvalidResume, "Resume contains invalid values", err)
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fmt.Sprintf("%s must be one of [%s]", fe.Namespace(), fe.Param()))
		}
		appErr.WithContext("fields", fields)
	}
	return appErr
}
