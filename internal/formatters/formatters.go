package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"resumeforge/internal/types"

	"gopkg.in/yaml.v3"
)

// keywords shown in text output before the list is truncated
const maxDisplayedKeywords = 10

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// GlobalRegistry is the registry used by the CLI output handler
var GlobalRegistry = NewFormatterRegistry()

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("yaml", "any", &YAMLFormatter{})

	for _, f := range []Formatter{
		&AnalysisTextFormatter{},
		&ScoreBatchTextFormatter{},
		&MatchTextFormatter{},
		&RoleTextFormatter{},
		&IndustryTextFormatter{},
		&IndexTextFormatter{},
	} {
		registry.RegisterFormatter("text", f.SupportedType(), f)
	}
	for _, f := range []Formatter{
		&AnalysisMarkdownFormatter{},
		&ScoreBatchMarkdownFormatter{},
		&MatchMarkdownFormatter{},
		&RoleMarkdownFormatter{},
		&IndustryMarkdownFormatter{},
		&IndexMarkdownFormatter{},
	} {
		registry.RegisterFormatter("markdown", f.SupportedType(), f)
	}

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult:
		return "AnalysisResult"
	case []types.ScoreFileResult:
		return "ScoreFileResults"
	case types.JobMatchResult:
		return "JobMatchResult"
	case types.RoleSuggestions:
		return "RoleSuggestions"
	case types.IndustryKeywords:
		return "IndustryKeywords"
	case types.CatalogIndex:
		return "CatalogIndex"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// YAMLFormatter handles YAML formatting for any data type
type YAMLFormatter struct{}

func (yf *YAMLFormatter) Format(data any) (string, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (yf *YAMLFormatter) SupportedType() string {
	return "any"
}

// keywordLine joins keywords, truncating long lists with "+N more"
func keywordLine(keywords []string) string {
	if len(keywords) == 0 {
		return "none"
	}
	if len(keywords) <= maxDisplayedKeywords {
		return strings.Join(keywords, ", ")
	}
	return fmt.Sprintf("%s (+%d more)",
		strings.Join(keywords[:maxDisplayedKeywords], ", "),
		len(keywords)-maxDisplayedKeywords)
}

func issueLabel(issue types.Issue) string {
	if issue.Section == nil {
		return strings.ToUpper(string(issue.Severity))
	}
	return fmt.Sprintf("%s [%s]", strings.ToUpper(string(issue.Severity)), issue.Section)
}

func writeBullets(output *strings.Builder, items []string) {
	for _, item := range items {
		fmt.Fprintf(output, "- %s\n", item)
	}
}
