// Package names turns catalog-style personal name headings into the
// "Given Family" form the other sources report.
package names

import (
	"strings"
	"unicode"
)

// Display renders a heading such as "Herbert, Frank, 1920-1986." as
// "Frank Herbert". Life dates are dropped; other trailing qualifiers
// ("Jr.") are kept after a comma. Names without a comma are only trimmed.
func Display(heading string) string {
	heading = trimPunct(heading)
	if !strings.Contains(heading, ",") {
		return heading
	}
	var parts []string
	for _, p := range strings.Split(heading, ",") {
		p = strings.TrimSpace(p)
		if p == "" || hasDigit(p) {
			continue
		}
		parts = append(parts, p)
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	out := parts[1] + " " + parts[0]
	if len(parts) > 2 {
		out += ", " + strings.Join(parts[2:], ", ")
	}
	return out
}

// Join builds "Given Family" from separate parts, either of which may be empty.
func Join(given, family string) string {
	return strings.TrimSpace(strings.TrimSpace(given) + " " + strings.TrimSpace(family))
}

// trimPunct strips surrounding space and trailing , ; : and a trailing
// period unless it closes an initial ("C.").
func trimPunct(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), ",;: ")
	if strings.HasSuffix(s, ".") {
		words := strings.Fields(s)
		if last := words[len(words)-1]; len([]rune(last)) > 2 {
			s = strings.TrimSuffix(s, ".")
		}
	}
	return strings.TrimSpace(s)
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
