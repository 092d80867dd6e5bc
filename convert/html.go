package convert

import (
	"regexp"
	"strings"
)

// HTMLMode selects how TextToHTML structures the escaped text.
type HTMLMode string

const (
	// HTMLParagraphs wraps blank-line separated blocks in <p>, with <br>
	// between the lines of a block.
	HTMLParagraphs HTMLMode = "paragraphs"
	// HTMLLineBreaks puts <br> after every line but the last.
	HTMLLineBreaks HTMLMode = "line-breaks"
	// HTMLPre wraps the text in a single <pre>.
	HTMLPre HTMLMode = "pre"
)

var (
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)

	blankLines = regexp.MustCompile(`\n[ \t]*\n\s*`)
)

// HTMLResult is the output of TextToHTML. Blocks counts the emitted
// paragraphs, lines or pre blocks.
type HTMLResult struct {
	Output string `json:"output"`
	Blocks int    `json:"blocks"`
}

// EscapeHTML replaces the five HTML-reserved characters with entities.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// TextToHTML escapes input and wraps it in HTML according to mode.
func TextToHTML(input string, mode HTMLMode) (HTMLResult, error) {
	text := EscapeHTML(normalizeNewlines(input))

	switch mode {
	case HTMLParagraphs, "":
		var paras []string
		for _, block := range blankLines.Split(text, -1) {
			block = strings.Trim(block, "\n")
			if strings.TrimSpace(block) == "" {
				continue
			}
			paras = append(paras, "<p>"+strings.ReplaceAll(block, "\n", "<br>\n")+"</p>")
		}
		return HTMLResult{Output: strings.Join(paras, "\n"), Blocks: len(paras)}, nil

	case HTMLLineBreaks:
		if text == "" {
			return HTMLResult{}, nil
		}
		lines := strings.Split(text, "\n")
		return HTMLResult{Output: strings.Join(lines, "<br>\n"), Blocks: len(lines)}, nil

	case HTMLPre:
		return HTMLResult{Output: "<pre>" + text + "</pre>", Blocks: 1}, nil
	}

	return HTMLResult{}, invalidOption("text-to-html", "unknown mode %q", mode)
}
