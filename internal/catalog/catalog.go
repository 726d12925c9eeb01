// Package catalog holds canned resume content per target role and keyword
// lists per industry. The tables are fixed at build time and never mutated;
// every accessor returns copies.
package catalog

import (
	"slices"
	"strings"

	"resumeforge/internal/types"
)

type roleEntry struct {
	summary      []string
	skills       []string
	achievements []string
}

var roleOrder = []string{"Software Engineer", "Product Manager", "Marketing Manager"}

var roles = map[string]roleEntry{
	"Software Engineer": {
		summary: []string{
			"Experienced software engineer with expertise in full-stack development and cloud technologies",
			"Results-driven developer with strong problem-solving skills and experience in agile environments",
			"Passionate software engineer with a track record of delivering scalable applications",
		},
		skills: []string{"React", "Node.js", "TypeScript", "AWS", "Docker", "MongoDB", "PostgreSQL", "Git"},
		achievements: []string{
			"Reduced application load time by 40% through code optimization",
			"Led development of microservices architecture serving 1M+ users",
			"Implemented CI/CD pipeline reducing deployment time by 60%",
		},
	},
	"Product Manager": {
		summary: []string{
			"Strategic product manager with experience driving product growth and user engagement",
			"Data-driven product leader with expertise in market research and user experience design",
			"Innovative product manager skilled in cross-functional team leadership",
		},
		skills: []string{"Product Strategy", "Market Research", "Agile", "Scrum", "Analytics", "User Research", "Roadmap Planning"},
		achievements: []string{
			"Increased user engagement by 45% through feature optimization",
			"Launched 3 successful products generating $2M+ in revenue",
			"Led cross-functional team of 12 engineers and designers",
		},
	},
	"Marketing Manager": {
		summary: []string{
			"Creative marketing professional with proven track record in digital marketing and brand growth",
			"Strategic marketing manager experienced in multi-channel campaign development",
			"Results-oriented marketer with expertise in customer acquisition and retention",
		},
		skills: []string{"Digital Marketing", "SEO/SEM", "Content Marketing", "Social Media", "Analytics", "Brand Management"},
		achievements: []string{
			"Increased brand awareness by 150% through integrated marketing campaigns",
			"Generated 300% ROI on digital marketing spend",
			"Grew social media following by 250% in 12 months",
		},
	},
}

var industryOrder = []string{"Technology", "Healthcare", "Finance", "Marketing"}

var industries = map[string][]string{
	"Technology": {"innovation", "scalable", "cutting-edge", "digital transformation", "automation"},
	"Healthcare": {"patient-centered", "compliance", "quality improvement", "evidence-based", "collaborative"},
	"Finance":    {"risk management", "analytical", "regulatory compliance", "cost optimization", "strategic planning"},
	"Marketing":  {"brand development", "customer engagement", "market analysis", "creative campaigns", "ROI-driven"},
}

// Roles lists the supported role names in display order.
func Roles() []string {
	return slices.Clone(roleOrder)
}

// Industries lists the supported industry names in display order.
func Industries() []string {
	return slices.Clone(industryOrder)
}

// Index lists everything the catalog can answer.
func Index() types.CatalogIndex {
	return types.CatalogIndex{Roles: Roles(), Industries: Industries()}
}

// Lookup returns the suggestions for a role. Matching ignores case and
// surrounding whitespace.
func Lookup(role string) (types.RoleSuggestions, bool) {
	name, ok := canonical(role, roleOrder)
	if !ok {
		return types.RoleSuggestions{}, false
	}
	entry := roles[name]
	return types.RoleSuggestions{
		Role:         name,
		Summary:      slices.Clone(entry.summary),
		Skills:       slices.Clone(entry.skills),
		Achievements: slices.Clone(entry.achievements),
	}, true
}

// Keywords returns the keyword list for an industry.
func Keywords(industry string) (types.IndustryKeywords, bool) {
	name, ok := canonical(industry, industryOrder)
	if !ok {
		return types.IndustryKeywords{}, false
	}
	return types.IndustryKeywords{Industry: name, Keywords: slices.Clone(industries[name])}, true
}

func canonical(name string, names []string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}
