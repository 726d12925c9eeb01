package common

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumeforge/internal/errors"
	"resumeforge/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestLoadResume(t *testing.T) {
	dir := t.TempDir()
	fp := NewFileProcessor(nil, 1<<20)

	jsonPath := writeFile(t, dir, "resume.json", `{
		"personal": {"fullName": "Ada Lovelace", "email": "ada@example.com"},
		"skills": {"technical": ["Go", "SQL"]},
		"template": "classic"
	}`)
	doc, err := fp.LoadResume(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", doc.Personal.FullName)
	assert.Equal(t, []string{"Go", "SQL"}, doc.Skills.Technical)
	assert.Equal(t, types.TemplateClassic, doc.Template)

	yamlPath := writeFile(t, dir, "resume.yaml", `
personal:
  fullName: Grace Hopper
  email: grace@example.com
experience:
  - company: Navy
    position: Officer
    startDate: 1943-12-01
    current: false
    achievements:
      - Reduced compile time by 40%
skills:
  technical: [COBOL]
`)
	doc, err = fp.LoadResume(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", doc.Personal.FullName)
	require.Len(t, doc.Experience, 1)
	assert.Equal(t, "1943-12-01", doc.Experience[0].StartDate)
	assert.Equal(t, []string{"Reduced compile time by 40%"}, doc.Experience[0].Achievements)
}

func TestLoadResumeErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		maxSize int64
		code    string
	}{
		{name: "missing file", file: "nope.json", code: errors.ErrCodeFileNotFound},
		{name: "empty file", file: "empty.json", content: "  \n", code: errors.ErrCodeEmptyInput},
		{name: "malformed json", file: "bad.json", content: `{"personal": `, code: errors.ErrCodeInvalidFormat},
		{name: "malformed yaml", file: "bad.yaml", content: "personal: [", code: errors.ErrCodeInvalidFormat},
		{name: "schema violation", file: "typed.json", content: `{"summary": 12}`, code: errors.ErrCodeSchemaViolation},
		{name: "too large", file: "big.json", content: `{"summary": "long enough"}`, maxSize: 4, code: errors.ErrCodeFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if tt.content != "" {
				path = writeFile(t, dir, tt.file, tt.content)
			}
			_, err := NewFileProcessor(nil, tt.maxSize).LoadResume(path)
			requireCode(t, err, tt.code)
		})
	}
}

func TestReadJobDescription(t *testing.T) {
	dir := t.TempDir()
	fp := NewFileProcessor(nil, 1<<20)

	text, err := fp.ReadJobDescription(writeFile(t, dir, "job.md", "# Role\nReact and AWS"))
	require.NoError(t, err)
	assert.Equal(t, "# Role\nReact and AWS", text)

	html := `<html><body><nav>Menu</nav><div class="job-description"><p>Kubernetes and Docker</p></div></body></html>`
	text, err = fp.ReadJobDescription(writeFile(t, dir, "job.html", html))
	require.NoError(t, err)
	assert.Equal(t, "Kubernetes and Docker", text)

	text, err = fp.WithStdin(strings.NewReader("Python from stdin")).ReadJobDescription(StdinSource)
	require.NoError(t, err)
	assert.Equal(t, "Python from stdin", text)
}

func TestReadJobDescriptionErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileProcessor(nil, 0).ReadJobDescription(writeFile(t, dir, "blank.txt", "   "))
	requireCode(t, err, errors.ErrCodeEmptyInput)

	_, err = NewFileProcessor(nil, 0).ReadJobDescription(writeFile(t, dir, "broken.pdf", "not a pdf"))
	requireCode(t, err, errors.ErrCodeExtraction)

	_, err = NewFileProcessor(nil, 5).WithStdin(strings.NewReader("way too long")).ReadJobDescription(StdinSource)
	requireCode(t, err, errors.ErrCodeFileTooLarge)
}

func TestOutputHandler(t *testing.T) {
	var buf bytes.Buffer
	handler := NewOutputHandlerWithWriter(nil, &buf)

	result := types.JobMatchResult{ExtractedKeywords: []string{"react"}, MatchScore: 100}
	require.NoError(t, handler.HandleOutput(result, CommandConfig{OutputFormat: "text"}))
	assert.Contains(t, buf.String(), "Match Score: 100%")

	target := filepath.Join(t.TempDir(), "out", "match.json")
	require.NoError(t, handler.HandleOutput(result, CommandConfig{OutputFormat: "json", OutputFile: target}))
	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(written), `"matchScore": 100`)

	err = handler.HandleOutput(result, CommandConfig{OutputFormat: "xml"})
	requireCode(t, err, errors.ErrCodeInvalidFormat)
	assert.Contains(t, handler.GetSupportedFormats(), "yaml")
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.json", `{"skills": {"technical": ["React"]}}`)
	out := filepath.Join(dir, "result.json")

	var logged bool
	err := RunCommand(context.Background(), errors.NewNopLogger(),
		CommandConfig{OutputFormat: "json", OutputFile: out},
		[]string{resume},
		func(fp *FileProcessor, args []string) (types.ResumeDocument, error) {
			return fp.LoadResume(args[0])
		},
		func(_ context.Context, doc types.ResumeDocument) (types.JobMatchResult, error) {
			return types.JobMatchResult{MissingSkills: doc.Skills.Technical}, nil
		},
		func(types.ResumeDocument, CommandConfig) { logged = true },
	)
	require.NoError(t, err)
	assert.True(t, logged)

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(written), `"React"`)

	err = RunCommand(context.Background(), nil, CommandConfig{OutputFormat: "json"},
		[]string{filepath.Join(dir, "missing.json")},
		func(fp *FileProcessor, args []string) (types.ResumeDocument, error) {
			return fp.LoadResume(args[0])
		},
		func(context.Context, types.ResumeDocument) (types.AnalysisResult, error) {
			t.Fatal("operation must not run when input fails to load")
			return types.AnalysisResult{}, nil
		},
		nil,
	)
	requireCode(t, err, errors.ErrCodeFileNotFound)
}

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "yaml", "text", "markdown"}

	tests := []struct {
		name      string
		format    string
		supported []string
		wantErr   string
	}{
		{name: "json", format: "json", supported: supported},
		{name: "yaml", format: "yaml", supported: supported},
		{name: "xml rejected", format: "xml", supported: supported,
			wantErr: "unsupported output format 'xml'. Supported formats: [json yaml text markdown]"},
		{name: "case sensitive", format: "JSON", supported: supported,
			wantErr: "unsupported output format 'JSON'. Supported formats: [json yaml text markdown]"},
		{name: "no restriction", format: "anything", supported: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
