package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText_StripsMarkupAndScripts(t *testing.T) {
	raw := `<html><head><title>ignored</title><script>var x = 1;</script></head>
<body>
  <h1>Skilled Migrant Residence Visa</h1>
  <p>Applicants must score at least <b>160 points</b>.</p>
  <style>.hidden { display: none }</style>
</body></html>`

	text, err := ExtractText(raw)
	require.NoError(t, err)

	assert.Contains(t, text, "Skilled Migrant Residence Visa")
	assert.Contains(t, text, "160 points")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "display: none")
	assert.NotContains(t, text, "<p>")
}

func TestLoad_PlainTextPassthrough(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.md")
	require.NoError(t, os.WriteFile(path, []byte("# Policy\n\n\n\n\nSection 1.1 applies.   \n"), 0644))

	text, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "# Policy\n\nSection 1.1 applies.", text)
}

func TestLoad_HTMLByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.html")
	require.NoError(t, os.WriteFile(path, []byte("<body><p>Residence criteria</p></body>"), 0644))

	text, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Residence criteria", text)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}
