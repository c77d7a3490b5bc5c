// Package csvutil contains helpers for turning "dirty" CSV headers into
// canonical column names. Scraped catalog exports arrive with a UTF-8 BOM,
// mixed casing, stray whitespace, and occasionally accented characters in the
// header row; the cleaning pipeline addresses cells strictly by snake_case
// column name, so headers are normalized once at extraction time.
package csvutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const utf8BOM = "\uFEFF"

// StripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func StripHeaderBOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	if strings.HasPrefix(headers[0], utf8BOM) {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}
	return headers
}

// NormalizeFieldName converts a raw header cell into a canonical snake_case
// identifier: lowercased, accents stripped (NFD → remove nonspacing marks →
// NFC), and runs of separators collapsed into a single underscore. Anything
// outside [a-z0-9_] is dropped.
func NormalizeFieldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevUnderscore = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		default:
			// drop anything else
		}
	}
	return strings.Trim(b.String(), "_")
}

// NormalizeHeader applies StripHeaderBOM and NormalizeFieldName to a full
// header row, returning the canonical column names in order.
func NormalizeHeader(headers []string) []string {
	headers = StripHeaderBOM(headers)
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = NormalizeFieldName(h)
	}
	return out
}
