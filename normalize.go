package edgar

import (
	"strings"
	"unicode"
)

// NormalizeText normalizes the Unicode whitespace and invisible characters
// that appear in SEC report cells:
// - Non-breaking spaces (U+00A0) and other Unicode spaces → regular spaces
// - Zero-width and format characters → removed
// - Runs of whitespace → single space, trimmed
//
// Entities are already decoded by the HTML parser, so only runes are handled here.
func NormalizeText(text string) string {
	var result strings.Builder
	result.Grow(len(text))

	space := false
	for _, r := range text {
		if isInvisible(r) {
			continue
		}
		if unicode.IsSpace(r) || isUnicodeSpace(r) {
			space = true
			continue
		}
		if space && result.Len() > 0 {
			result.WriteByte(' ')
		}
		space = false
		result.WriteRune(r)
	}

	return result.String()
}

// isUnicodeSpace reports the space runes filers use as layout padding
func isUnicodeSpace(r rune) bool {
	switch r {
	case '\u00A0', // Non-breaking space (NBSP)
		'\u2000', '\u2001', '\u2002', '\u2003', '\u2004', '\u2005', // En quad, Em quad, etc.
		'\u2006', '\u2007', '\u2008', '\u2009', '\u200A', // Figure space, etc.
		'\u202F', // Narrow no-break space
		'\u205F', // Medium mathematical space
		'\u3000': // Ideographic space
		return true
	}
	return false
}

// isInvisible reports zero-width and other format characters
func isInvisible(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\uFEFF', '\u180E':
		return true
	case '\t', '\n', '\r':
		return false
	}
	return unicode.Is(unicode.Cf, r)
}
