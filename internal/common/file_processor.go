package common

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"resumeforge/internal/errors"
	"resumeforge/internal/extract"
	"resumeforge/internal/schema"
	"resumeforge/internal/types"
	"resumeforge/internal/utils"

	"gopkg.in/yaml.v3"
)

// StdinSource is the job description argument that reads from standard input
const StdinSource = "-"

// FileProcessor handles common file operations
type FileProcessor struct {
	logger      *errors.Logger
	maxFileSize int64
	stdin       io.Reader
}

// NewFileProcessor creates a new file processor instance. maxFileSize caps
// every input read; zero disables the cap.
func NewFileProcessor(logger *errors.Logger, maxFileSize int64) *FileProcessor {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &FileProcessor{logger: logger, maxFileSize: maxFileSize, stdin: os.Stdin}
}

// WithStdin replaces the reader used for the "-" source
func (fp *FileProcessor) WithStdin(r io.Reader) *FileProcessor {
	fp.stdin = r
	return fp
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) ([]byte, error) {
	info, err := utils.ValidateInputFile(filename, fp.maxFileSize)
	if err != nil {
		switch {
		case stderrors.Is(err, os.ErrNotExist):
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		case info != nil:
			return nil, errors.NewValidationError(errors.ErrCodeFileTooLarge,
				fmt.Sprintf("File too large: %s", filename), err).
				WithContext("size", info.Size()).
				WithContext("limit", fp.maxFileSize)
		default:
			return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("Cannot read file: %s", filename), err)
		}
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	fp.logger.Debug("Read input file", "filename", filename, "size", utils.FormatFileSize(info.Size()))
	return content, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		err := os.MkdirAll(dir, 0750)
		if err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	err := os.WriteFile(filename, []byte(content), 0600)
	if err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// LoadResume reads and decodes a JSON or YAML resume file
func (fp *FileProcessor) LoadResume(filename string) (types.ResumeDocument, error) {
	if !utils.IsResumeFile(filename) {
		fp.logger.Warn("Resume file has an unexpected extension, decoding as JSON", "filename", filename)
	}

	content, err := fp.ReadFile(filename)
	if err != nil {
		return types.ResumeDocument{}, err
	}

	doc, err := DecodeResume(content, utils.IsYAMLFile(filename))
	if err != nil {
		if appErr, ok := errors.AsAppError(err); ok {
			return types.ResumeDocument{}, appErr.WithContext("file", filename)
		}
		return types.ResumeDocument{}, err
	}
	return doc, nil
}

// DecodeResume checks raw resume content against the resume schema and
// decodes it. YAML content is normalized to JSON first so both encodings
// go through the same schema.
func DecodeResume(content []byte, isYAML bool) (types.ResumeDocument, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return types.ResumeDocument{}, errors.NewValidationError(errors.ErrCodeEmptyInput,
			"Resume is empty", nil)
	}

	if isYAML {
		var raw any
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return types.ResumeDocument{}, errors.NewValidationError(errors.ErrCodeInvalidFormat,
				"Resume is not valid YAML", err)
		}
		converted, err := json.Marshal(raw)
		if err != nil {
			return types.ResumeDocument{}, errors.NewValidationError(errors.ErrCodeInvalidFormat,
				"Resume YAML cannot be represented as JSON", err)
		}
		content = converted
	}

	if err := schema.Validate(schema.Resume, content); err != nil {
		return types.ResumeDocument{}, err
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return types.ResumeDocument{}, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"Failed to decode resume", err)
	}
	return doc, nil
}

// ReadJobDescription returns the plain text of a job description file, or
// of standard input when source is "-".
func (fp *FileProcessor) ReadJobDescription(source string) (string, error) {
	var (
		content []byte
		format  extract.Format
		err     error
	)

	if source == StdinSource {
		content, err = fp.readStdin()
		format = extract.FormatText
	} else {
		if !utils.IsJobDescriptionFile(source) {
			fp.logger.Warn("Job description has an unknown extension, reading as plain text", "filename", source)
		}
		content, err = fp.ReadFile(source)
		format = extract.FormatFor(source)
	}
	if err != nil {
		return "", err
	}

	text, err := extract.Text(content, format)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeExtraction,
			fmt.Sprintf("Failed to extract text from %s", source), err).
			WithContext("format", string(format))
	}

	if strings.TrimSpace(text) == "" {
		return "", errors.NewValidationError(errors.ErrCodeEmptyInput,
			fmt.Sprintf("Job description is empty: %s", source), nil)
	}

	fp.logger.Debug("Job description loaded", "source", source, "format", format, "chars", len(text))
	return text, nil
}

func (fp *FileProcessor) readStdin() ([]byte, error) {
	r := fp.stdin
	if fp.maxFileSize > 0 {
		r = io.LimitReader(r, fp.maxFileSize+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, "Failed to read standard input", err)
	}
	if fp.maxFileSize > 0 && int64(len(content)) > fp.maxFileSize {
		return nil, errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("Standard input exceeds %s", utils.FormatFileSize(fp.maxFileSize)), nil)
	}
	return content, nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidOutput,
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
