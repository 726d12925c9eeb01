package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumeforge/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleAnalysis() types.AnalysisResult {
	return types.AnalysisResult{
		Score: 65,
		Issues: []types.Issue{
			{Severity: types.SeverityError, Message: "Email is required", Section: types.SectionPersonal.Ref()},
			{Severity: types.SeverityWarning, Message: "Summary is too short (minimum 50 characters)", Section: types.SectionSummary.Ref()},
			{Severity: types.SeverityInfo, Message: "Consider using Modern or Classic template for better ATS compatibility"},
		},
		Keywords:    []string{"Go", "SQL"},
		Suggestions: []string{"Add more relevant skills and keywords"},
	}
}

func TestRegistryFormats(t *testing.T) {
	registry := NewFormatterRegistry()
	assert.Equal(t, []string{"json", "markdown", "text", "yaml"}, registry.GetSupportedFormats())

	_, err := registry.Format(sampleAnalysis(), "xml")
	assert.ErrorContains(t, err, "no formatter found for format 'xml' and type 'AnalysisResult'")

	// text has no generic fallback
	_, err = registry.Format(map[string]int{"a": 1}, "text")
	assert.Error(t, err)
}

func TestJSONFormatterEncodesSectionsByName(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleAnalysis(), "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	issues := decoded["issues"].([]any)
	assert.Equal(t, "personal", issues[0].(map[string]any)["section"])
	assert.NotContains(t, issues[2].(map[string]any), "section")
}

func TestYAMLFormatter(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleAnalysis(), "yaml")
	require.NoError(t, err)

	var decoded types.AnalysisResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, sampleAnalysis(), decoded)
	assert.Contains(t, out, "section: summary")
}

func TestAnalysisText(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleAnalysis(), "text")
	require.NoError(t, err)

	assert.Contains(t, out, "Score: 65/100 (Good)")
	assert.Contains(t, out, "Issues: 1 errors, 1 warnings, 1 info")
	assert.Contains(t, out, "1. ERROR [personal] Email is required")
	assert.Contains(t, out, "3. INFO Consider using Modern")
	assert.Contains(t, out, "Keywords: Go, SQL")
	assert.Contains(t, out, "- Add more relevant skills and keywords")
}

func TestAnalysisTextNoIssues(t *testing.T) {
	out, err := GlobalRegistry.Format(types.AnalysisResult{Score: 100, Issues: []types.Issue{}}, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "(Excellent)")
	assert.Contains(t, out, "No issues found.")
	assert.Contains(t, out, "Keywords: none")
	assert.NotContains(t, out, "SUGGESTIONS")
}

func TestKeywordLineTruncates(t *testing.T) {
	keywords := make([]string, 13)
	for i := range keywords {
		keywords[i] = string(rune('a' + i))
	}
	assert.Equal(t, "a, b, c, d, e, f, g, h, i, j (+3 more)", keywordLine(keywords))
	assert.Equal(t, "a, b", keywordLine(keywords[:2]))
}

func TestAnalysisMarkdown(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleAnalysis(), "markdown")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Resume Score\n"))
	assert.Contains(t, out, "| error | personal | Email is required |")
	assert.Contains(t, out, "| info | - | Consider using")
	assert.Contains(t, out, "`Go` `SQL`")
}

func TestScoreBatchFormats(t *testing.T) {
	batch := []types.ScoreFileResult{
		{File: "a.json", Result: sampleAnalysis()},
		{File: "b.yaml", Result: types.AnalysisResult{Score: 30}},
	}

	text, err := GlobalRegistry.Format(batch, "text")
	require.NoError(t, err)
	assert.Less(t, strings.Index(text, "##### a.json"), strings.Index(text, "##### b.yaml"))
	assert.Contains(t, text, "Score: 30/100 (Needs Improvement)")

	md, err := GlobalRegistry.Format(batch, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "| a.json | 65 | Good |")
	assert.Contains(t, md, "### Issues")
}

func TestMatchFormats(t *testing.T) {
	result := types.JobMatchResult{
		ExtractedKeywords: []string{"react", "node.js", "aws"},
		MatchScore:        33,
		MissingSkills:     []string{"node.js", "aws"},
		Suggestions:       []string{"Consider adding more technical skills mentioned in the job description"},
	}

	text, err := GlobalRegistry.Format(result, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "Match Score: 33%")
	assert.Contains(t, text, "Missing Skills: node.js, aws")

	md, err := GlobalRegistry.Format(result, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "**Match Score:** 33%")
	assert.Contains(t, md, "- react\n")

	empty, err := GlobalRegistry.Format(types.JobMatchResult{}, "markdown")
	require.NoError(t, err)
	assert.Contains(t, empty, "No known skills found")
}

func TestCatalogFormats(t *testing.T) {
	role := types.RoleSuggestions{
		Role:         "Data Scientist",
		Summary:      []string{"Data scientist with expertise"},
		Skills:       []string{"Python", "R"},
		Achievements: []string{"Built models"},
	}
	text, err := GlobalRegistry.Format(role, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "=== DATA SCIENTIST ===")
	assert.Contains(t, text, "Python, R")

	md, err := GlobalRegistry.Format(role, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "> Data scientist with expertise")

	industry := types.IndustryKeywords{Industry: "Finance", Keywords: []string{"Risk Management", "Compliance"}}
	text, err = GlobalRegistry.Format(industry, "text")
	require.NoError(t, err)
	assert.Equal(t, "Finance keywords: Risk Management, Compliance\n", text)

	index := types.CatalogIndex{Roles: []string{"Product Manager"}, Industries: []string{"Healthcare"}}
	md, err = GlobalRegistry.Format(index, "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "## Roles\n\n- Product Manager")
}
