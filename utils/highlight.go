package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/meysamhadeli/aibundle/constants/lipgloss"
)

const (
	filePrefix    = "File: "
	contentHeader = "Content:"
)

// HighlightDocument prints a snapshot or export document with syntax highlighting.
// The lexer for each record is picked from the path on its "File: " line and reset at the record separator.
func HighlightDocument(w io.Writer, document string, theme string) error {
	lexerName := "plaintext"

	for _, line := range strings.SplitAfter(document, "\n") {
		if line == "" {
			continue
		}
		trimmed := strings.TrimRight(line, "\n")

		switch {
		case strings.HasPrefix(trimmed, filePrefix):
			lexerName = lexerFor(strings.TrimPrefix(trimmed, filePrefix))
			fmt.Fprint(w, lipgloss.Title.Render(trimmed)+newlineOf(line))
		case trimmed == contentHeader:
			fmt.Fprint(w, lipgloss.Gray.Render(trimmed)+newlineOf(line))
		case isSeparator(trimmed):
			lexerName = "plaintext"
			fmt.Fprint(w, lipgloss.Gray.Render(trimmed)+newlineOf(line))
		case isSectionHeader(trimmed):
			fmt.Fprint(w, lipgloss.Info.Render(trimmed)+newlineOf(line))
		default:
			if err := quick.Highlight(w, line, lexerName, "terminal256", theme); err != nil {
				return fmt.Errorf("failed to highlight line: %w", err)
			}
		}
	}

	return nil
}

func lexerFor(path string) string {
	lexer := lexers.Match(path)
	if lexer == nil {
		return "plaintext"
	}
	return lexer.Config().Name
}

func isSeparator(line string) bool {
	return len(line) >= 40 && strings.Trim(line, "-") == ""
}

func isSectionHeader(line string) bool {
	switch line {
	case "README FILES:", "OTHER FILES:", "CONVERSATION AND CONTEXT:", "CODEBASE SNAPSHOT:":
		return true
	}
	return false
}

func newlineOf(line string) string {
	if strings.HasSuffix(line, "\n") {
		return "\n"
	}
	return ""
}
