package formatters

import (
	"fmt"
	"strings"

	"resumeforge/internal/types"
)

// RoleTextFormatter handles text formatting for role suggestions
type RoleTextFormatter struct{}

func (rtf *RoleTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RoleSuggestions)
	if !ok {
		return "", fmt.Errorf("expected RoleSuggestions, got %T", data)
	}

	var output strings.Builder

	fmt.Fprintf(&output, "=== %s ===\n\n", strings.ToUpper(result.Role))
	output.WriteString("Summary:\n")
	writeBullets(&output, result.Summary)
	output.WriteString("\nSkills:\n")
	output.WriteString(strings.Join(result.Skills, ", "))
	output.WriteString("\n\nAchievements:\n")
	writeBullets(&output, result.Achievements)

	return output.String(), nil
}

func (rtf *RoleTextFormatter) SupportedType() string {
	return "RoleSuggestions"
}

// RoleMarkdownFormatter handles markdown formatting for role suggestions
type RoleMarkdownFormatter struct{}

func (rmf *RoleMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.RoleSuggestions)
	if !ok {
		return "", fmt.Errorf("expected RoleSuggestions, got %T", data)
	}

	var output strings.Builder

	fmt.Fprintf(&output, "# %s\n\n", result.Role)
	output.WriteString("## Summary\n\n")
	for _, s := range result.Summary {
		fmt.Fprintf(&output, "> %s\n\n", s)
	}
	output.WriteString("## Skills\n\n")
	writeBullets(&output, result.Skills)
	output.WriteString("\n## Achievements\n\n")
	writeBullets(&output, result.Achievements)

	return output.String(), nil
}

func (rmf *RoleMarkdownFormatter) SupportedType() string {
	return "RoleSuggestions"
}

// IndustryTextFormatter handles text formatting for industry keywords
type IndustryTextFormatter struct{}

func (itf *IndustryTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.IndustryKeywords)
	if !ok {
		return "", fmt.Errorf("expected IndustryKeywords, got %T", data)
	}
	return fmt.Sprintf("%s keywords: %s\n", result.Industry, strings.Join(result.Keywords, ", ")), nil
}

func (itf *IndustryTextFormatter) SupportedType() string {
	return "IndustryKeywords"
}

// IndustryMarkdownFormatter handles markdown formatting for industry keywords
type IndustryMarkdownFormatter struct{}

func (imf *IndustryMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.IndustryKeywords)
	if !ok {
		return "", fmt.Errorf("expected IndustryKeywords, got %T", data)
	}

	var output strings.Builder
	fmt.Fprintf(&output, "# %s Keywords\n\n", result.Industry)
	writeBullets(&output, result.Keywords)
	return output.String(), nil
}

func (imf *IndustryMarkdownFormatter) SupportedType() string {
	return "IndustryKeywords"
}

// IndexTextFormatter lists catalog roles and industries as text
type IndexTextFormatter struct{}

func (itf *IndexTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CatalogIndex)
	if !ok {
		return "", fmt.Errorf("expected CatalogIndex, got %T", data)
	}

	var output strings.Builder
	output.WriteString("Roles:\n")
	writeBullets(&output, result.Roles)
	output.WriteString("\nIndustries:\n")
	writeBullets(&output, result.Industries)
	return output.String(), nil
}

func (itf *IndexTextFormatter) SupportedType() string {
	return "CatalogIndex"
}

// IndexMarkdownFormatter lists catalog roles and industries as markdown
type IndexMarkdownFormatter struct{}

func (imf *IndexMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CatalogIndex)
	if !ok {
		return "", fmt.Errorf("expected CatalogIndex, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Suggestion Catalog\n\n## Roles\n\n")
	writeBullets(&output, result.Roles)
	output.WriteString("\n## Industries\n\n")
	writeBullets(&output, result.Industries)
	return output.String(), nil
}

func (imf *IndexMarkdownFormatter) SupportedType() string {
	return "CatalogIndex"
}
