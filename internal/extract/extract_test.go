package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFor(t *testing.T) {
	tests := map[string]Format{
		"job.txt":         FormatText,
		"JOB.MD":          FormatText,
		"posting.html":    FormatHTML,
		"posting.htm":     FormatHTML,
		"offer.pdf":       FormatPDF,
		"offer.docx":      FormatDOCX,
		"no-extension":    FormatText,
		"description.rtf": FormatText,
	}
	for name, want := range tests {
		assert.Equal(t, want, FormatFor(name), name)
	}
}

func TestHTMLPrefersPostingBody(t *testing.T) {
	page := `<html><head><style>.x{}</style></head><body>
<nav>Home | Jobs | Login</nav>
<header>Acme Careers</header>
<div class="job-description">
  <h2>Senior Engineer</h2>
  <p>We use   Go, Docker and Kubernetes.</p>
  <ul><li>5 years experience</li><li>CI/CD pipelines</li></ul>
</div>
<footer>© Acme</footer>
<script>track()</script>
</body></html>`

	text, err := HTML(page)
	require.NoError(t, err)

	assert.Contains(t, text, "Senior Engineer")
	assert.Contains(t, text, "We use Go, Docker and Kubernetes.")
	assert.Contains(t, text, "5 years experience\nCI/CD pipelines")
	assert.NotContains(t, text, "Login")
	assert.NotContains(t, text, "Acme Careers")
	assert.NotContains(t, text, "track()")
}

func TestHTMLFallsBackToBody(t *testing.T) {
	text, err := HTML(`<body><p>Python developer</p><p>Remote</p></body>`)
	require.NoError(t, err)
	assert.Equal(t, "Python developer\nRemote", text)
}

func TestStripWordML(t *testing.T) {
	xml := `<w:document><w:body>` +
		`<w:p><w:r><w:t>Backend Engineer</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Skills:</w:t><w:tab/><w:t>AWS, SQL</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	text, err := stripWordML(xml)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer\nSkills: AWS, SQL", text)
}

func TestTextPlainPassthrough(t *testing.T) {
	text, err := Text([]byte("React and AWS"), FormatText)
	require.NoError(t, err)
	assert.Equal(t, "React and AWS", text)
}

func TestTextRejectsCorruptDocuments(t *testing.T) {
	_, err := Text([]byte("not a pdf"), FormatPDF)
	assert.Error(t, err)

	_, err = Text([]byte("not a zip"), FormatDOCX)
	assert.Error(t, err)

	_, err = Text([]byte("x"), Format("rtf"))
	assert.ErrorContains(t, err, "unsupported document format")
}

func TestCleanWhitespace(t *testing.T) {
	assert.Equal(t, "a b\n\nc", cleanWhitespace("  a \t b \n\n\n\n  c  "))
}
