package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumeforge/internal/analyzer"
	"resumeforge/internal/config"
	"resumeforge/internal/errors"
	"resumeforge/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "yaml", "text", "markdown"},
			MaxFileSize:      1 << 20,
		},
		Analysis: config.AnalysisConfig{
			Vocabulary:    analyzer.DefaultVocabulary,
			MatchStrategy: analyzer.StrategyLoose.Name,
		},
	}
}

// run executes the command tree with args and returns what it printed
func run(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	ctx := context.WithValue(context.Background(), configKey, testConfig())
	ctx = context.WithValue(ctx, loggerKey, errors.NewNopLogger())

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func writeResume(t *testing.T, dir, name, content string) string {
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

const fullResume = `{
	"personal": {"fullName": "Ada Lovelace", "email": "ada@example.com", "phone": "555-0100", "location": "London"},
	"summary": "Engineer who led the analytical engine team and shipped numerical programs used across the lab.",
	"skills": {"technical": ["React", "Go"], "soft": ["Communication"]},
	"template": "classic"
}`

func TestVersionCommand(t *testing.T) {
	out, err := run(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "resumeforge version dev")
	assert.Contains(t, out, "Git commit: unknown")
}

func TestScoreCommand(t *testing.T) {
	dir := t.TempDir()
	full := writeResume(t, dir, "full.json", fullResume)
	empty := writeResume(t, dir, "empty.yaml", "template: modern\n")

	t.Run("single file", func(t *testing.T) {
		out, err := run(t, nil, "score", full)
		require.NoError(t, err)

		var result types.AnalysisResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Positive(t, result.Score)
		assert.Contains(t, result.Keywords, "React")
	})

	t.Run("several files keep argument order", func(t *testing.T) {
		out, err := run(t, nil, "score", empty, full)
		require.NoError(t, err)

		var results []types.ScoreFileResult
		require.NoError(t, json.Unmarshal([]byte(out), &results))
		require.Len(t, results, 2)
		assert.Equal(t, empty, results[0].File)
		assert.Equal(t, full, results[1].File)
		assert.Equal(t, 0, results[0].Result.Score)
		assert.Greater(t, results[1].Result.Score, results[0].Result.Score)
	})

	t.Run("text output", func(t *testing.T) {
		out, err := run(t, nil, "score", "--format", "text", empty)
		require.NoError(t, err)
		assert.Contains(t, out, "Score: 0/100 (Needs Improvement)")
	})

	t.Run("output file", func(t *testing.T) {
		target := filepath.Join(dir, "result.yaml")
		out, err := run(t, nil, "score", "--format", "yaml", "-o", target, full)
		require.NoError(t, err)
		assert.Empty(t, out)

		written, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(written), "score: "))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := run(t, nil, "score", filepath.Join(dir, "nope.json"))
		requireCode(t, err, errors.ErrCodeFileNotFound)
	})

	t.Run("missing file in a batch", func(t *testing.T) {
		_, err := run(t, nil, "score", full, filepath.Join(dir, "nope.json"))
		requireCode(t, err, errors.ErrCodeFileNotFound)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := run(t, nil, "score", "--format", "xml", full)
		assert.ErrorContains(t, err, "unsupported output format 'xml'")
	})

	t.Run("no files", func(t *testing.T) {
		_, err := run(t, nil, "score")
		assert.Error(t, err)
	})
}

func TestMatchCommand(t *testing.T) {
	dir := t.TempDir()
	resume := writeResume(t, dir, "resume.json", `{"skills": {"technical": ["React"]}}`)
	job := filepath.Join(dir, "job.txt")
	require.NoError(t, os.WriteFile(job, []byte("React, Node.js, and AWS experience required"), 0600))

	for _, source := range []string{job, "-"} {
		t.Run(source, func(t *testing.T) {
			stdin := strings.NewReader("React, Node.js, and AWS experience required")
			out, err := run(t, stdin, "match", source, "--resume", resume)
			require.NoError(t, err)

			var result types.JobMatchResult
			require.NoError(t, json.Unmarshal([]byte(out), &result))
			assert.Equal(t, 33, result.MatchScore)
			assert.Subset(t, result.ExtractedKeywords, []string{"react", "node.js", "aws"})
			assert.Subset(t, result.MissingSkills, []string{"node.js", "aws"})
		})
	}

	t.Run("resume required", func(t *testing.T) {
		_, err := run(t, nil, "match", job)
		assert.ErrorContains(t, err, `required flag(s) "resume" not set`)
	})

	t.Run("empty stdin", func(t *testing.T) {
		_, err := run(t, strings.NewReader("  \n"), "match", "-", "--resume", resume)
		requireCode(t, err, errors.ErrCodeEmptyInput)
	})
}

func TestSuggestCommand(t *testing.T) {
	t.Run("role", func(t *testing.T) {
		out, err := run(t, nil, "suggest", "software engineer")
		require.NoError(t, err)

		var got types.RoleSuggestions
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "Software Engineer", got.Role)
		assert.NotEmpty(t, got.Skills)
	})

	t.Run("list", func(t *testing.T) {
		out, err := run(t, nil, "suggest", "--list")
		require.NoError(t, err)

		var got types.CatalogIndex
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, []string{"Software Engineer", "Product Manager", "Marketing Manager"}, got.Roles)
		assert.Equal(t, []string{"Technology", "Healthcare", "Finance", "Marketing"}, got.Industries)
	})

	t.Run("industry", func(t *testing.T) {
		out, err := run(t, nil, "suggest", "--industry", "FINANCE")
		require.NoError(t, err)

		var got types.IndustryKeywords
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "Finance", got.Industry)
		assert.Len(t, got.Keywords, 5)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := run(t, nil, "suggest", "astronaut")
		requireCode(t, err, errors.ErrCodeUnknownRole)
	})

	t.Run("unknown industry", func(t *testing.T) {
		_, err := run(t, nil, "suggest", "--industry", "mining")
		requireCode(t, err, errors.ErrCodeUnknownIndustry)
	})

	t.Run("interactive pick", func(t *testing.T) {
		original := pickRole
		t.Cleanup(func() { pickRole = original })

		var offered []string
		pickRole = func(roles []string) (string, error) {
			offered = roles
			return "Product Manager", nil
		}

		out, err := run(t, nil, "suggest")
		require.NoError(t, err)
		assert.Equal(t, []string{"Software Engineer", "Product Manager", "Marketing Manager"}, offered)
		assert.Contains(t, out, `"role": "Product Manager"`)
	})
}

func TestServeRejectsInvalidTLSOverride(t *testing.T) {
	_, err := run(t, nil, "serve", "--tls-mode", "server")
	assert.ErrorContains(t, err, "invalid TLS configuration")
}
