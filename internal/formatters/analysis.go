package formatters

import (
	"fmt"
	"strings"

	"resumeforge/internal/types"
)

// AnalysisTextFormatter handles text formatting for score results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder
	writeAnalysisText(&output, result)
	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

func writeAnalysisText(output *strings.Builder, result types.AnalysisResult) {
	counts := result.IssueCounts()

	output.WriteString("=== RESUME SCORE ===\n\n")
	fmt.Fprintf(output, "Score: %d/100 (%s)\n", result.Score, result.Rating())
	fmt.Fprintf(output, "Issues: %d errors, %d warnings, %d info\n\n",
		counts[types.SeverityError], counts[types.SeverityWarning], counts[types.SeverityInfo])

	if len(result.Issues) > 0 {
		output.WriteString("=== ISSUES ===\n")
		for i, issue := range result.Issues {
			fmt.Fprintf(output, "%d. %s %s\n", i+1, issueLabel(issue), issue.Message)
		}
		output.WriteString("\n")
	} else {
		output.WriteString("No issues found.\n\n")
	}

	fmt.Fprintf(output, "Keywords: %s\n", keywordLine(result.Keywords))

	if len(result.Suggestions) > 0 {
		output.WriteString("\n=== SUGGESTIONS ===\n")
		writeBullets(output, result.Suggestions)
	}
}

// AnalysisMarkdownFormatter handles markdown formatting for score results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalysisResult)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Resume Score\n\n")
	writeAnalysisMarkdown(&output, result, "##")
	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

func writeAnalysisMarkdown(output *strings.Builder, result types.AnalysisResult, heading string) {
	counts := result.IssueCounts()

	fmt.Fprintf(output, "**Score:** %d/100 (%s)\n\n", result.Score, result.Rating())

	fmt.Fprintf(output, "%s Issues\n\n", heading)
	if len(result.Issues) == 0 {
		output.WriteString("No issues found.\n\n")
	} else {
		output.WriteString("| Severity | Section | Message |\n")
		output.WriteString("|---|---|---|\n")
		for _, issue := range result.Issues {
			section := "-"
			if issue.Section != nil {
				section = issue.Section.String()
			}
			fmt.Fprintf(output, "| %s | %s | %s |\n", issue.Severity, section, issue.Message)
		}
		fmt.Fprintf(output, "\n%d errors, %d warnings, %d info\n\n",
			counts[types.SeverityError], counts[types.SeverityWarning], counts[types.SeverityInfo])
	}

	fmt.Fprintf(output, "%s Keywords\n\n", heading)
	if len(result.Keywords) == 0 {
		output.WriteString("None\n\n")
	} else {
		for _, keyword := range result.Keywords {
			fmt.Fprintf(output, "`%s` ", keyword)
		}
		output.WriteString("\n\n")
	}

	if len(result.Suggestions) > 0 {
		fmt.Fprintf(output, "%s Suggestions\n\n", heading)
		writeBullets(output, result.Suggestions)
		output.WriteString("\n")
	}
}

// ScoreBatchTextFormatter handles text output for multi-file score runs
type ScoreBatchTextFormatter struct{}

func (stf *ScoreBatchTextFormatter) Format(data any) (string, error) {
	results, ok := data.([]types.ScoreFileResult)
	if !ok {
		return "", fmt.Errorf("expected []ScoreFileResult, got %T", data)
	}

	var output strings.Builder
	for i, r := range results {
		if i > 0 {
			output.WriteString("\n")
		}
		fmt.Fprintf(&output, "##### %s #####\n", r.File)
		writeAnalysisText(&output, r.Result)
	}
	return output.String(), nil
}

func (stf *ScoreBatchTextFormatter) SupportedType() string {
	return "ScoreFileResults"
}

// ScoreBatchMarkdownFormatter handles markdown output for multi-file score runs
type ScoreBatchMarkdownFormatter struct{}

func (smf *ScoreBatchMarkdownFormatter) Format(data any) (string, error) {
	results, ok := data.([]types.ScoreFileResult)
	if !ok {
		return "", fmt.Errorf("expected []ScoreFileResult, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Resume Scores\n\n")
	output.WriteString("| File | Score | Rating |\n")
	output.WriteString("|---|---|---|\n")
	for _, r := range results {
		fmt.Fprintf(&output, "| %s | %d | %s |\n", r.File, r.Result.Score, r.Result.Rating())
	}
	output.WriteString("\n")

	for _, r := range results {
		fmt.Fprintf(&output, "## %s\n\n", r.File)
		writeAnalysisMarkdown(&output, r.Result, "###")
	}
	return output.String(), nil
}

func (smf *ScoreBatchMarkdownFormatter) SupportedType() string {
	return "ScoreFileResults"
}
