package analyzer

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// DefaultVocabulary is the list of technology and process terms recognised
// in job descriptions.
var DefaultVocabulary = []string{
	"react", "javascript", "typescript", "python", "java", "node.js",
	"aws", "docker", "kubernetes", "sql", "mongodb", "git",
	"agile", "scrum", "ci/cd", "api", "rest", "graphql",
	"microservices", "cloud", "azure", "gcp", "machine learning", "ai",
	"leadership",
}

var nonWord = regexp.MustCompile(`\W+`)

// MatchFunc reports whether a text unit (a token, phrase or skill) matches a
// vocabulary term. Both arguments are lowercase.
type MatchFunc func(token, term string) bool

// LooseMatch matches when either string contains the other. It over-matches
// short terms: "ai" is found inside "maintain".
func LooseMatch(token, term string) bool {
	return strings.Contains(term, token) || strings.Contains(token, term)
}

// WordMatch matches whole words only, ignoring punctuation, so "node.js"
// matches "node js" and "Node.JS" but "ai" never matches "maintain".
func WordMatch(token, term string) bool {
	return normalizePhrase(token) == normalizePhrase(term)
}

func normalizePhrase(s string) string {
	return strings.Join(tokenize(s), " ")
}

// Strategy names a MatchFunc. Phrases makes the matcher also compare
// multi-word terms against runs of consecutive tokens.
type Strategy struct {
	Name    string
	Match   MatchFunc
	Phrases bool
}

var (
	StrategyLoose = Strategy{Name: "loose", Match: LooseMatch}
	StrategyWord  = Strategy{Name: "word", Match: WordMatch, Phrases: true}
)

// MatchStrategy resolves a configured strategy name.
func MatchStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyLoose.Name:
		return StrategyLoose, nil
	case StrategyWord.Name:
		return StrategyWord, nil
	default:
		return Strategy{}, fmt.Errorf("unknown match strategy %q (must be one of %v)", name, StrategyNames())
	}
}

// StrategyNames lists the accepted strategy names.
func StrategyNames() []string {
	return []string{StrategyLoose.Name, StrategyWord.Name}
}

// tokenize lowercases text and splits it on runs of non-word characters,
// dropping the empty tokens produced by leading or trailing punctuation.
func tokenize(text string) []string {
	parts := nonWord.Split(strings.ToLower(text), -1)
	return slices.DeleteFunc(parts, func(p string) bool { return p == "" })
}

// normalizeVocabulary lowercases, trims and de-duplicates terms, keeping order.
func normalizeVocabulary(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		out = append(out, term)
	}
	return out
}
