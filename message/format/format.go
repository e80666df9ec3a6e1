package format

import (
	"regexp"
	"strings"
)

/* Format turns raw message markup into display HTML.
 * The passes run in a fixed order: escaping first, then bold before
 * italic so that a ** pair is never consumed as two italic markers.
 * The result is display-only; the raw markup is what goes over the wire.
 */

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
	codePattern   = regexp.MustCompile("`([^`]+)`")
	linkPattern   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
)

// Format converts message markup into safe display HTML.
// It is not idempotent: formatting already-formatted output double-escapes,
// so it must be applied exactly once, to raw input.
func Format(content string) string {
	if content == "" {
		return ""
	}

	// Escape HTML to prevent injection
	formatted := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(content)

	// Bold: **text**
	formatted = boldPattern.ReplaceAllString(formatted, "<strong>$1</strong>")

	// Italic: *text* (must run after bold)
	formatted = italicPattern.ReplaceAllString(formatted, "<em>$1</em>")

	// Code: `code`
	formatted = codePattern.ReplaceAllString(formatted, `<code class="inline-code">$1</code>`)

	// Links: [text](url)
	formatted = linkPattern.ReplaceAllString(formatted,
		`<a href="$2" target="_blank" rel="noopener noreferrer">$1</a>`)

	// Line breaks
	formatted = strings.ReplaceAll(formatted, "\n", "<br />")

	return formatted
}
