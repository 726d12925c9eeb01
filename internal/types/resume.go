package types

import (
	"github.com/go-playground/validator/v10"
)

// Template is the presentation template selected for a resume.
type Template string

const (
	TemplateModern   Template = "modern"
	TemplateClassic  Template = "classic"
	TemplateCreative Template = "creative"
)

// Proficiency is a spoken-language proficiency level.
type Proficiency string

const (
	ProficiencyNative         Proficiency = "Native"
	ProficiencyFluent         Proficiency = "Fluent"
	ProficiencyConversational Proficiency = "Conversational"
	ProficiencyBasic          Proficiency = "Basic"
)

// PersonalInfo holds the contact block of a resume
type PersonalInfo struct {
	FullName string `json:"fullName" yaml:"fullName"`
	Email    string `json:"email" yaml:"email"`
	Phone    string `json:"phone" yaml:"phone"`
	Location string `json:"location" yaml:"location"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	Website  string `json:"website,omitempty" yaml:"website,omitempty"`
}

// Experience is a single work history entry
type Experience struct {
	ID           string   `json:"id,omitempty" yaml:"id,omitempty"`
	Company      string   `json:"company" yaml:"company"`
	Position     string   `json:"position" yaml:"position"`
	Location     string   `json:"location" yaml:"location"`
	StartDate    string   `json:"startDate" yaml:"startDate"`
	EndDate      string   `json:"endDate" yaml:"endDate"`
	Current      bool     `json:"current" yaml:"current"`
	Description  string   `json:"description" yaml:"description"`
	Achievements []string `json:"achievements" yaml:"achievements"`
}

// Education is a single education entry
type Education struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Institution string `json:"institution" yaml:"institution"`
	Degree      string `json:"degree" yaml:"degree"`
	Field       string `json:"field" yaml:"field"`
	Location    string `json:"location" yaml:"location"`
	StartDate   string `json:"startDate" yaml:"startDate"`
	EndDate     string `json:"endDate" yaml:"endDate"`
	GPA         string `json:"gpa,omitempty" yaml:"gpa,omitempty"`
	Honors      string `json:"honors,omitempty" yaml:"honors,omitempty"`
}

// Language is a spoken language with its proficiency
type Language struct {
	Language    string      `json:"language" yaml:"language"`
	Proficiency Proficiency `json:"proficiency" yaml:"proficiency" validate:"omitempty,oneof=Native Fluent Conversational Basic"`
}

// Skills groups technical, soft and language skills
type Skills struct {
	Technical []string   `json:"technical" yaml:"technical"`
	Soft      []string   `json:"soft" yaml:"soft"`
	Languages []Language `json:"languages" yaml:"languages" validate:"dive"`
}

// Customization is presentation-only and ignored by analysis
type Customization struct {
	PrimaryColor string `json:"primaryColor,omitempty" yaml:"primaryColor,omitempty"`
	Font         string `json:"font,omitempty" yaml:"font,omitempty"`
	Spacing      string `json:"spacing,omitempty" yaml:"spacing,omitempty" validate:"omitempty,oneof=compact normal relaxed"`
}

// ResumeDocument is the structured resume consumed by the analyzers.
// Analyzers only read it; missing fields are valid and lower the score.
type ResumeDocument struct {
	Personal      PersonalInfo  `json:"personal" yaml:"personal"`
	Summary       string        `json:"summary" yaml:"summary"`
	Experience    []Experience  `json:"experience" yaml:"experience"`
	Education     []Education   `json:"education" yaml:"education"`
	Skills        Skills        `json:"skills" yaml:"skills"`
	Template      Template      `json:"template" yaml:"template" validate:"omitempty,oneof=modern classic creative"`
	Customization Customization `json:"customization,omitzero" yaml:"customization,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate rejects documents carrying values outside their enumerations.
// Empty fields are accepted.
func (d ResumeDocument) Validate() error {
	return validate.Struct(d)
}
