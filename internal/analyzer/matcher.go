package analyzer

import (
	"math"
	"slices"
	"strings"

	"resumeforge/internal/types"
)

const (
	suggestLeadership = "Add leadership experience to your summary"
	suggestAgile      = "Include Agile methodology in your technical skills"
	suggestMoreSkills = "Consider adding more technical skills mentioned in the job description"
)

// Matcher extracts vocabulary terms from job descriptions and measures how
// well a resume's technical skills cover them. It is immutable and safe for
// concurrent use.
type Matcher struct {
	vocabulary []string
	strategy   Strategy
	termWords  map[string]int
}

// NewMatcher builds a matcher over the given vocabulary. An empty vocabulary
// falls back to DefaultVocabulary.
func NewMatcher(vocabulary []string, strategy Strategy) *Matcher {
	terms := normalizeVocabulary(vocabulary)
	if len(terms) == 0 {
		terms = normalizeVocabulary(DefaultVocabulary)
	}
	if strategy.Match == nil {
		strategy = StrategyLoose
	}

	words := make(map[string]int, len(terms))
	for _, term := range terms {
		words[term] = len(tokenize(term))
	}

	return &Matcher{vocabulary: terms, strategy: strategy, termWords: words}
}

// Vocabulary returns a copy of the matcher's terms.
func (m *Matcher) Vocabulary() []string {
	return slices.Clone(m.vocabulary)
}

// Strategy returns the name of the match strategy in use.
func (m *Matcher) Strategy() string {
	return m.strategy.Name
}

// Analyze extracts keywords from jobText and compares them with the resume's
// technical skills.
func (m *Matcher) Analyze(jobText string, doc types.ResumeDocument) types.JobMatchResult {
	extracted := m.ExtractKeywords(jobText)

	skills := make([]string, 0, len(doc.Skills.Technical))
	for _, skill := range doc.Skills.Technical {
		if skill = strings.ToLower(strings.TrimSpace(skill)); skill != "" {
			skills = append(skills, skill)
		}
	}

	matched := 0
	missing := []string{}
	for _, keyword := range extracted {
		if m.coveredBy(keyword, skills) {
			matched++
		} else {
			missing = append(missing, keyword)
		}
	}

	return types.JobMatchResult{
		ExtractedKeywords: extracted,
		MatchScore:        matchScore(matched, len(extracted)),
		MissingSkills:     missing,
		Suggestions:       matchSuggestions(extracted, doc),
	}
}

// ExtractKeywords returns the vocabulary terms found in text, in vocabulary order.
func (m *Matcher) ExtractKeywords(text string) []string {
	tokens := tokenize(text)
	found := []string{}
	if len(tokens) == 0 {
		return found
	}

	for _, term := range m.vocabulary {
		if m.foundIn(term, tokens) {
			found = append(found, term)
		}
	}
	return found
}

func (m *Matcher) foundIn(term string, tokens []string) bool {
	for _, token := range tokens {
		if m.strategy.Match(token, term) {
			return true
		}
	}

	n := m.termWords[term]
	if !m.strategy.Phrases || n < 2 {
		return false
	}
	for i := 0; i+n <= len(tokens); i++ {
		if m.strategy.Match(strings.Join(tokens[i:i+n], " "), term) {
			return true
		}
	}
	return false
}

func (m *Matcher) coveredBy(keyword string, skills []string) bool {
	return slices.ContainsFunc(skills, func(skill string) bool {
		return m.strategy.Match(skill, keyword)
	})
}

func matchScore(matched, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(matched) / float64(total)))
}

func matchSuggestions(extracted []string, doc types.ResumeDocument) []string {
	suggestions := []string{}

	if slices.Contains(extracted, "leadership") && !strings.Contains(strings.ToLower(doc.Summary), "lead") {
		suggestions = append(suggestions, suggestLeadership)
	}
	// Exact, case-sensitive lookup.
	if slices.Contains(extracted, "agile") && !slices.Contains(doc.Skills.Technical, "Agile") {
		suggestions = append(suggestions, suggestAgile)
	}
	if len(extracted) > len(doc.Skills.Technical) {
		suggestions = append(suggestions, suggestMoreSkills)
	}

	return suggestions
}
