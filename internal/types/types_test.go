package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionIndex(t *testing.T) {
	assert.Equal(t, 0, SectionPersonal.Index())
	assert.Equal(t, 1, SectionSummary.Index())
	assert.Equal(t, 2, SectionExperience.Index())
	assert.Equal(t, 3, SectionEducation.Index())
	assert.Equal(t, 4, SectionSkills.Index())
}

func TestIssueSectionJSON(t *testing.T) {
	issue := Issue{Severity: SeverityError, Message: "Professional summary is missing", Section: SectionSummary.Ref()}
	data, err := json.Marshal(issue)
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"error","message":"Professional summary is missing","section":"summary"}`, string(data))

	var decoded Issue
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.Section)
	assert.Equal(t, SectionSummary, *decoded.Section)

	noSection := Issue{Severity: SeverityWarning, Message: "x"}
	data, err = json.Marshal(noSection)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "section")
}

func TestParseSectionUnknown(t *testing.T) {
	_, err := ParseSection("template")
	assert.Error(t, err)
	assert.Equal(t, "section(9)", Section(9).String())
}

func TestRating(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "Excellent"},
		{80, "Excellent"},
		{79, "Good"},
		{60, "Good"},
		{59, "Needs Improvement"},
		{0, "Needs Improvement"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AnalysisResult{Score: tt.score}.Rating(), "score %d", tt.score)
	}
}

func TestIssueCounts(t *testing.T) {
	r := AnalysisResult{Issues: []Issue{
		{Severity: SeverityError},
		{Severity: SeverityError},
		{Severity: SeverityInfo},
	}}
	counts := r.IssueCounts()
	assert.Equal(t, 2, counts[SeverityError])
	assert.Equal(t, 0, counts[SeverityWarning])
	assert.Equal(t, 1, counts[SeverityInfo])
}

func TestResumeDocumentValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     ResumeDocument
		wantErr bool
	}{
		{name: "empty document", doc: ResumeDocument{}},
		{name: "creative template", doc: ResumeDocument{Template: TemplateCreative}},
		{name: "unknown template", doc: ResumeDocument{Template: "retro"}, wantErr: true},
		{
			name: "valid language",
			doc:  ResumeDocument{Skills: Skills{Languages: []Language{{Language: "German", Proficiency: ProficiencyFluent}}}},
		},
		{
			name:    "bad proficiency",
			doc:     ResumeDocument{Skills: Skills{Languages: []Language{{Language: "German", Proficiency: "Expert"}}}},
			wantErr: true,
		},
		{name: "bad spacing", doc: ResumeDocument{Customization: Customization{Spacing: "tight"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
