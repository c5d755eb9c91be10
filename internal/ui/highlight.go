package ui

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// SyntaxTheme returns the appropriate chroma style based on terminal background
func SyntaxTheme() string {
	if lipgloss.HasDarkBackground() {
		return "dracula"
	}
	return "github"
}

// Highlight returns syntax-highlighted content based on filename extension.
// If highlighting fails or no lexer is found, returns the original content.
func Highlight(content, filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		// Try to detect from filename itself (e.g., "Makefile", "Dockerfile")
		ext = filepath.Base(filename)
	}

	// Get lexer by extension or filename
	lexer := lexers.Match(filename)
	if lexer == nil {
		lexer = lexers.Get(ext)
	}
	if lexer == nil {
		// Try to analyze content
		//nolint:misspell // Library uses British spelling
		lexer = lexers.Analyse(content)
	}
	if lexer == nil {
		// No highlighting available
		return content
	}

	// Coalesce runs of same tokens for better output
	lexer = chroma.Coalesce(lexer)

	// Get style
	style := styles.Get(SyntaxTheme())
	if style == nil {
		style = styles.Fallback
	}

	// Use terminal256 formatter for wide compatibility
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	// Tokenize and format
	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	buf := new(bytes.Buffer)
	if err := formatter.Format(buf, style, iterator); err != nil {
		return content
	}

	return buf.String()
}

// HighlightWithLineNumbers renders content syntax-highlighted (when a lexer
// matches) with a muted line-number gutter, the combination `cat -n` needs
// for a highlighted file. Numbering is applied before highlighting so ANSI
// codes from the highlighter never interleave with the gutter.
func HighlightWithLineNumbers(content, filename string, startLine int) string {
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	width := len(fmt.Sprintf("%d", startLine+len(lines)-1))
	format := fmt.Sprintf("%%%dd │ ", width)

	var buf strings.Builder
	for i, line := range lines {
		buf.WriteString(MutedStyle.Render(fmt.Sprintf(format, startLine+i)))
		buf.WriteString(Highlight(line, filename))
		buf.WriteString("\n")
	}
	return buf.String()
}
