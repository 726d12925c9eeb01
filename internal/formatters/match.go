package formatters

import (
	"fmt"
	"strings"

	"resumeforge/internal/types"
)

// MatchTextFormatter handles text formatting for job match results
type MatchTextFormatter struct{}

func (mtf *MatchTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobMatchResult)
	if !ok {
		return "", fmt.Errorf("expected JobMatchResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== JOB MATCH ===\n\n")
	fmt.Fprintf(&output, "Match Score: %d%%\n\n", result.MatchScore)
	fmt.Fprintf(&output, "Job Keywords: %s\n", keywordLine(result.ExtractedKeywords))
	fmt.Fprintf(&output, "Missing Skills: %s\n", keywordLine(result.MissingSkills))

	if len(result.Suggestions) > 0 {
		output.WriteString("\n=== SUGGESTIONS ===\n")
		writeBullets(&output, result.Suggestions)
	}

	return output.String(), nil
}

func (mtf *MatchTextFormatter) SupportedType() string {
	return "JobMatchResult"
}

// MatchMarkdownFormatter handles markdown formatting for job match results
type MatchMarkdownFormatter struct{}

func (mmf *MatchMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.JobMatchResult)
	if !ok {
		return "", fmt.Errorf("expected JobMatchResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Job Match\n\n")
	fmt.Fprintf(&output, "**Match Score:** %d%%\n\n", result.MatchScore)

	output.WriteString("## Job Keywords\n\n")
	if len(result.ExtractedKeywords) == 0 {
		output.WriteString("No known skills found in the job description.\n\n")
	} else {
		writeBullets(&output, result.ExtractedKeywords)
		output.WriteString("\n")
	}

	output.WriteString("## Missing Skills\n\n")
	if len(result.MissingSkills) == 0 {
		output.WriteString("None\n\n")
	} else {
		writeBullets(&output, result.MissingSkills)
		output.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		writeBullets(&output, result.Suggestions)
	}

	return output.String(), nil
}

func (mmf *MatchMarkdownFormatter) SupportedType() string {
	return "JobMatchResult"
}
