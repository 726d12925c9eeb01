package types

import "fmt"

// Section identifies the editable resume section an issue refers to.
type Section int

const (
	SectionPersonal Section = iota
	SectionSummary
	SectionExperience
	SectionEducation
	SectionSkills
)

var sectionNames = [...]string{"personal", "summary", "experience", "education", "skills"}

// Index returns the position of the section in the editor's step order.
func (s Section) Index() int {
	return int(s)
}

func (s Section) String() string {
	if s < 0 || int(s) >= len(sectionNames) {
		return fmt.Sprintf("section(%d)", int(s))
	}
	return sectionNames[s]
}

// Ref returns a pointer to s, for use in Issue.Section.
func (s Section) Ref() *Section {
	return &s
}

func (s Section) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(sectionNames) {
		return nil, fmt.Errorf("unknown section %d", int(s))
	}
	return []byte(sectionNames[s]), nil
}

func (s *Section) UnmarshalText(text []byte) error {
	parsed, err := ParseSection(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSection converts a section name back into a Section.
func ParseSection(name string) (Section, error) {
	for i, n := range sectionNames {
		if n == name {
			return Section(i), nil
		}
	}
	return 0, fmt.Errorf("unknown section %q", name)
}
