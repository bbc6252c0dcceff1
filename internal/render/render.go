// Package render implements the placeholder substitution used by recipe
// templates and tool-call arguments.
package render

import (
	"regexp"
	"strings"
)

// placeholderPattern matches {{key}} and {{key|fallback}}. The key may not
// contain '}' or '|'; the fallback may not contain '}'.
var placeholderPattern = regexp.MustCompile(`\{\{([^}|]+)(?:\|([^}]*))?\}\}`)

var residualPattern = regexp.MustCompile(`\{\{[^}]*\}\}`)

// Render substitutes every {{key}} or {{key|fallback}} occurrence in the
// template with the value stored under the trimmed key. Missing keys fall back
// to the trimmed fallback text when present and to the empty string otherwise.
//
// Substitution is a single left-to-right pass: replacement text is never
// rescanned, so a value containing literal {{...}} text stays literal.
func Render(template string, vars map[string]string) string {
	if !strings.Contains(template, "{{") {
		return template
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		key := strings.TrimSpace(groups[1])
		if value, found := vars[key]; found {
			return value
		}
		return strings.TrimSpace(groups[2])
	})
}

// ContainsPlaceholder reports whether text still holds a {{...}} pattern after
// rendering. Used to decide whether brace neutralization is required.
func ContainsPlaceholder(text string) bool {
	return residualPattern.MatchString(text)
}
