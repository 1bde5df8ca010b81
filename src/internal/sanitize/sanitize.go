package sanitize

import (
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanString trims, NFC-normalizes and removes ASCII control characters
// except tab/newline/carriage return, keeping at most max bytes (if max <= 0,
// no truncation).
func CleanString(s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	s = norm.NFC.String(s)
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\t' || r == '\r' || (r >= 0x20 && r != 0x7f) {
			b.WriteRune(r)
			if max > 0 && b.Len() >= max {
				break
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// CleanURL returns a validated http/https URL or empty string.
func CleanURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}

// CleanList cleans every value and drops the ones left empty. Order and
// duplicates are preserved; the record builder decides about uniqueness.
func CleanList(vals []string) []string {
	if len(vals) == 0 {
		return nil
	}
	const maxLen = 512
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = CleanString(v, maxLen); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
