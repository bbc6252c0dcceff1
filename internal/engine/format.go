package engine

import "strings"

const (
	formatModeMarkdown      = "markdown"
	formatModeMarkdownShort = "md"
	formatModeANSI          = "ansi"

	ansiBoldCyan = "\x1b[1;36m"
	ansiReset    = "\x1b[0m"
)

var fencePrefixes = []string{"```markdown", "```md", "```"}

// Format converts raw model text into the requested presentation encoding.
// Unknown or empty modes strip code fences and trim (plain).
func Format(text string, mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case formatModeMarkdown, formatModeMarkdownShort:
		return "```markdown\n" + stripFences(text) + "\n```"
	case formatModeANSI:
		return highlightFirstLine(text)
	default:
		return stripFences(text)
	}
}

// stripFences removes one leading fence marker and one trailing fence,
// trimming the remainder.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	for _, prefix := range fencePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			trimmed = trimmed[len(prefix):]
			break
		}
	}
	trimmed = strings.TrimSpace(trimmed)
	if strings.HasSuffix(trimmed, "```") {
		trimmed = trimmed[:len(trimmed)-3]
	}
	return strings.TrimSpace(trimmed)
}

// highlightFirstLine wraps the first line in bold cyan, leaving the rest
// untouched. Empty input is returned unchanged.
func highlightFirstLine(text string) string {
	if text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	lines[0] = ansiBoldCyan + lines[0] + ansiReset
	return strings.Join(lines, "\n")
}
