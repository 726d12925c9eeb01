package types

// Severity classifies an analysis issue
type Severity string

const (
	SeverityError   Severity = "error"   // blocks basic completeness
	SeverityWarning Severity = "warning" // quality risk
	SeverityInfo    Severity = "info"    // optional improvement
)

// Issue is a single finding reported by the resume scorer
type Issue struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
	Section  *Section `json:"section,omitempty" yaml:"section,omitempty"`
}

// AnalysisResult is the output of scoring a resume
type AnalysisResult struct {
	Score       int      `json:"score" yaml:"score"`
	Issues      []Issue  `json:"issues" yaml:"issues"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
	Suggestions []string `json:"suggestions" yaml:"suggestions"`
}

// Rating buckets the score into a human readable label.
func (r AnalysisResult) Rating() string {
	switch {
	case r.Score >= 80:
		return "Excellent"
	case r.Score >= 60:
		return "Good"
	default:
		return "Needs Improvement"
	}
}

// IssueCounts returns the number of issues per severity
func (r AnalysisResult) IssueCounts() map[Severity]int {
	counts := map[Severity]int{SeverityError: 0, SeverityWarning: 0, SeverityInfo: 0}
	for _, issue := range r.Issues {
		counts[issue.Severity]++
	}
	return counts
}

// JobMatchResult is the output of matching a job description against a resume
type JobMatchResult struct {
	ExtractedKeywords []string `json:"extractedKeywords" yaml:"extractedKeywords"`
	MatchScore        int      `json:"matchScore" yaml:"matchScore"`
	MissingSkills     []string `json:"missingSkills" yaml:"missingSkills"`
	Suggestions       []string `json:"suggestions" yaml:"suggestions"`
}

// RoleSuggestions holds canned content for a target role
type RoleSuggestions struct {
	Role         string   `json:"role" yaml:"role"`
	Summary      []string `json:"summary" yaml:"summary"`
	Skills       []string `json:"skills" yaml:"skills"`
	Achievements []string `json:"achievements" yaml:"achievements"`
}

// IndustryKeywords holds vocabulary commonly expected in an industry
type IndustryKeywords struct {
	Industry string   `json:"industry" yaml:"industry"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// CatalogIndex lists what the suggestion catalog can answer
type CatalogIndex struct {
	Roles      []string `json:"roles" yaml:"roles"`
	Industries []string `json:"industries" yaml:"industries"`
}

// ScoreRequest is the HTTP request body for POST /score
type ScoreRequest struct {
	Resume ResumeDocument `json:"resume"`
}

// MatchRequest is the HTTP request body for POST /match
type MatchRequest struct {
	JobDescription string         `json:"jobDescription"`
	Resume         ResumeDocument `json:"resume"`
}

// ScoreFileResult pairs a scored file with its result, for multi-file CLI runs
type ScoreFileResult struct {
	File   string         `json:"file" yaml:"file"`
	Result AnalysisResult `json:"result" yaml:"result"`
}
