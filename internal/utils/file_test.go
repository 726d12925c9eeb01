package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(small, []byte(`{}`), 0600))

	info, err := ValidateInputFile(small, 1024)
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Size())

	_, err = ValidateInputFile(small, 1)
	assert.ErrorContains(t, err, "limit is 1 B")

	_, err = ValidateInputFile(small, 0)
	assert.NoError(t, err)

	_, err = ValidateInputFile(filepath.Join(dir, "missing.json"), 0)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ValidateInputFile(dir, 0)
	assert.ErrorContains(t, err, "is a directory")

	_, err = ValidateInputFile("", 0)
	assert.ErrorContains(t, err, "cannot be empty")
}

func TestValidateOutputFileCreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "reports", "out.json")
	require.NoError(t, ValidateOutputFile(target))
	assert.DirExists(t, filepath.Dir(target))
	assert.NoError(t, ValidateOutputFile(""))
}

func TestFileKinds(t *testing.T) {
	assert.True(t, IsResumeFile("cv.JSON"))
	assert.True(t, IsResumeFile("cv.yml"))
	assert.False(t, IsResumeFile("cv.pdf"))

	assert.True(t, IsYAMLFile("cv.yaml"))
	assert.False(t, IsYAMLFile("cv.json"))

	for _, name := range []string{"job.txt", "job.md", "job.html", "job.pdf", "job.docx"} {
		assert.True(t, IsJobDescriptionFile(name), name)
	}
	assert.False(t, IsJobDescriptionFile("job.rtf"))
}

func TestFormatFileSize(t *testing.T) {
	tests := map[int64]string{
		0:       "0 B",
		1023:    "1023 B",
		1024:    "1.0 KB",
		1536:    "1.5 KB",
		1 << 20: "1.0 MB",
	}
	for size, want := range tests {
		assert.Equal(t, want, FormatFileSize(size))
	}
}
