package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"resumeforge/internal/types"
)

// Points awarded per completed field.
const (
	pointsFullName       = 10
	pointsEmail          = 10
	pointsPhone          = 10
	pointsLocation       = 5
	pointsSummary        = 15
	pointsExperience     = 20
	pointsEducation      = 10
	pointsTechnical      = 15
	pointsSoft           = 5
	pointsAchievementSet = 5

	maxScore = 100

	summaryMinLength = 50
	summaryMaxLength = 500

	minKeywords = 5
)

const (
	suggestATSTemplate  = "Consider using Modern or Classic template for better ATS compatibility"
	suggestMetrics      = `Add numbers and metrics to your achievements (e.g., "Increased sales by 25%")`
	suggestMoreKeywords = "Add more relevant technical skills and keywords from job descriptions"
)

var quantifiedAchievement = regexp.MustCompile(`\d+%|\d+\$|\d+ (times|x|percent)`)

// Score evaluates a resume for completeness and ATS compatibility.
// It never fails: empty fields only lower the score and add issues.
func Score(doc types.ResumeDocument) types.AnalysisResult {
	s := &scoreSheet{
		result: types.AnalysisResult{
			Issues:      []types.Issue{},
			Keywords:    []string{},
			Suggestions: []string{},
		},
	}

	s.scorePersonal(doc.Personal)
	s.scoreSummary(doc.Summary)
	s.scoreExperience(doc.Experience)
	s.scoreEducation(doc.Education)
	s.scoreSkills(doc.Skills)
	s.checkEmailFormat(doc.Personal.Email)
	s.checkTemplate(doc.Template)
	s.checkQuantifiedAchievements(doc.Experience)

	if len(s.result.Keywords) < minKeywords {
		s.suggest(suggestMoreKeywords)
	}

	s.result.Score = min(s.points, maxScore)
	return s.result
}

type scoreSheet struct {
	points int
	result types.AnalysisResult
}

func (s *scoreSheet) award(points int) {
	s.points += points
}

func (s *scoreSheet) issue(severity types.Severity, section *types.Section, message string) {
	s.result.Issues = append(s.result.Issues, types.Issue{
		Severity: severity,
		Message:  message,
		Section:  section,
	})
}

func (s *scoreSheet) suggest(text string) {
	s.result.Suggestions = append(s.result.Suggestions, text)
}

// require awards points when value is present, otherwise records the issue.
func (s *scoreSheet) require(value string, points int, severity types.Severity, section types.Section, message string) bool {
	if value != "" {
		s.award(points)
		return true
	}
	s.issue(severity, section.Ref(), message)
	return false
}

func (s *scoreSheet) scorePersonal(p types.PersonalInfo) {
	s.require(p.FullName, pointsFullName, types.SeverityError, types.SectionPersonal, "Full name is required")
	s.require(p.Email, pointsEmail, types.SeverityError, types.SectionPersonal, "Email address is required")
	s.require(p.Phone, pointsPhone, types.SeverityError, types.SectionPersonal, "Phone number is required")
	s.require(p.Location, pointsLocation, types.SeverityWarning, types.SectionPersonal, "Location can help with local job searches")
}

func (s *scoreSheet) scoreSummary(summary string) {
	if !s.require(summary, pointsSummary, types.SeverityError, types.SectionSummary, "Professional summary is missing") {
		return
	}

	switch length := utf8.RuneCountInString(summary); {
	case length < summaryMinLength:
		s.issue(types.SeverityWarning, types.SectionSummary.Ref(), "Summary seems too short. Aim for 2-3 sentences.")
	case length > summaryMaxLength:
		s.issue(types.SeverityWarning, types.SectionSummary.Ref(), "Summary is too long. Keep it concise.")
	}
}

func (s *scoreSheet) scoreExperience(entries []types.Experience) {
	if len(entries) == 0 {
		s.issue(types.SeverityError, types.SectionExperience.Ref(), "No work experience added")
		return
	}
	s.award(pointsExperience)

	for i, exp := range entries {
		n := i + 1
		if exp.Position == "" {
			s.issue(types.SeverityError, types.SectionExperience.Ref(), fmt.Sprintf("Job title missing for experience %d", n))
		}
		if exp.Company == "" {
			s.issue(types.SeverityError, types.SectionExperience.Ref(), fmt.Sprintf("Company name missing for experience %d", n))
		}
		if exp.StartDate == "" {
			s.issue(types.SeverityError, types.SectionExperience.Ref(), fmt.Sprintf("Start date missing for experience %d", n))
		}
		if len(exp.Achievements) == 0 {
			s.issue(types.SeverityWarning, types.SectionExperience.Ref(), "No achievements listed for "+exp.Position)
		} else {
			s.award(pointsAchievementSet)
		}
	}
}

func (s *scoreSheet) scoreEducation(entries []types.Education) {
	if len(entries) == 0 {
		s.issue(types.SeverityWarning, types.SectionEducation.Ref(), "Consider adding education information")
		return
	}
	s.award(pointsEducation)
}

func (s *scoreSheet) scoreSkills(skills types.Skills) {
	if len(skills.Technical) > 0 {
		s.award(pointsTechnical)
		s.result.Keywords = append(s.result.Keywords, skills.Technical...)
	} else {
		s.issue(types.SeverityWarning, types.SectionSkills.Ref(), "No technical skills listed")
	}

	if len(skills.Soft) > 0 {
		s.award(pointsSoft)
	} else {
		s.issue(types.SeverityInfo, types.SectionSkills.Ref(), "Consider adding soft skills")
	}
}

// checkEmailFormat flags a present but malformed email. The presence points
// have already been awarded, so such an email is reported twice.
func (s *scoreSheet) checkEmailFormat(email string) {
	if email != "" && !strings.Contains(email, "@") {
		s.issue(types.SeverityError, types.SectionPersonal.Ref(), "Invalid email format")
	}
}

func (s *scoreSheet) checkTemplate(template types.Template) {
	if template == types.TemplateCreative {
		s.issue(types.SeverityWarning, nil, "Creative templates may not be ATS-friendly for all industries")
		s.suggest(suggestATSTemplate)
	}
}

func (s *scoreSheet) checkQuantifiedAchievements(entries []types.Experience) {
	if len(entries) == 0 {
		return
	}
	for _, exp := range entries {
		for _, achievement := range exp.Achievements {
			if quantifiedAchievement.MatchString(achievement) {
				return
			}
		}
	}
	s.suggest(suggestMetrics)
}
