package textextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTXT(t *testing.T) {
	res, err := Extract([]byte("  hello world\n"), "txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", res.Text)
	assert.Equal(t, 1, res.Pages)
}

func TestExtractTypeNormalization(t *testing.T) {
	for _, ft := range []string{"txt", ".txt", "TXT", "text/plain"} {
		_, err := Extract([]byte("x"), ft)
		assert.NoError(t, err, "type %q", ft)
	}
}

func TestExtractUnsupported(t *testing.T) {
	_, err := Extract([]byte("x"), "docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestExtractMalformedPDF(t *testing.T) {
	_, err := Extract([]byte("not a pdf"), "pdf")
	assert.Error(t, err)
}
