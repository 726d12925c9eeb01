package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoles(t *testing.T) {
	assert.Equal(t, []string{"Software Engineer", "Product Manager", "Marketing Manager"}, Roles())
}

func TestEveryRoleHasContent(t *testing.T) {
	for _, role := range Roles() {
		t.Run(role, func(t *testing.T) {
			s, ok := Lookup(role)
			require.True(t, ok)
			assert.Equal(t, role, s.Role)
			assert.Len(t, s.Summary, 3)
			assert.NotEmpty(t, s.Skills)
			assert.Len(t, s.Achievements, 3)
		})
	}
}

func TestLookup(t *testing.T) {
	s, ok := Lookup("  software engineer ")
	require.True(t, ok)
	assert.Equal(t, "Software Engineer", s.Role)
	assert.Equal(t, []string{"React", "Node.js", "TypeScript", "AWS", "Docker", "MongoDB", "PostgreSQL", "Git"}, s.Skills)
	assert.Equal(t, "Implemented CI/CD pipeline reducing deployment time by 60%", s.Achievements[2])

	_, ok = Lookup("Astronaut")
	assert.False(t, ok)
}

func TestLookupReturnsCopies(t *testing.T) {
	first, _ := Lookup("Product Manager")
	first.Skills[0] = "Juggling"
	first.Summary = nil

	second, _ := Lookup("Product Manager")
	assert.Equal(t, "Product Strategy", second.Skills[0])
	assert.Len(t, second.Summary, 3)

	roles := Roles()
	roles[0] = "Wizard"
	assert.Equal(t, "Software Engineer", Roles()[0])
}

func TestKeywords(t *testing.T) {
	k, ok := Keywords("finance")
	require.True(t, ok)
	assert.Equal(t, "Finance", k.Industry)
	assert.Equal(t, []string{"risk management", "analytical", "regulatory compliance", "cost optimization", "strategic planning"}, k.Keywords)

	for _, industry := range Industries() {
		k, ok := Keywords(industry)
		require.True(t, ok, industry)
		assert.Len(t, k.Keywords, 5, industry)
	}

	_, ok = Keywords("Agriculture")
	assert.False(t, ok)
}

func TestIndex(t *testing.T) {
	idx := Index()
	assert.Equal(t, Roles(), idx.Roles)
	assert.Equal(t, []string{"Technology", "Healthcare", "Finance", "Marketing"}, idx.Industries)
}
