package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightDocument(t *testing.T) {
	separator := strings.Repeat("-", 80)
	document := "OTHER FILES:\n\n" +
		"File: notes.txt\nContent:\nhello world\n" + separator + "\n\n" +
		"File: main.go\nContent:\npackage main\n" + separator + "\n\n"

	var out strings.Builder
	require.NoError(t, HighlightDocument(&out, document, "dracula"))

	rendered := out.String()
	assert.Contains(t, rendered, "OTHER FILES:")
	assert.Contains(t, rendered, "File: notes.txt")
	assert.Contains(t, rendered, "hello world")
	assert.Contains(t, rendered, "File: main.go")
	assert.Contains(t, rendered, "package")
	assert.Contains(t, rendered, "main")
	assert.Equal(t, strings.Count(document, "\n"), strings.Count(rendered, "\n"))
}

func TestHighlightDocument_UnknownTheme(t *testing.T) {
	var out strings.Builder

	assert.NoError(t, HighlightDocument(&out, "File: x.unknownext\nContent:\nplain\n", "no-such-theme"))
	assert.Contains(t, out.String(), "plain")
}

func TestLexerFor(t *testing.T) {
	assert.Equal(t, "Go", lexerFor("cmd/main.go"))
	assert.Equal(t, "plaintext", lexerFor("LICENSE.unknownext"))
}
