package match

import "strings"

// Normalize canonicalizes a free-text name for comparison: parenthesized
// substrings (phase/building annotations) are dropped, everything except
// digits, ASCII letters and Hangul syllables is removed, and ASCII is
// upper-cased. Total function; empty input yields "".
func Normalize(s string) string {
	return canonicalize(s, false)
}

// normalizeFull canonicalizes like Normalize but keeps parenthesized runes,
// so a phase annotation one source wraps in parentheses and another writes
// bare compares equal.
func normalizeFull(s string) string {
	return canonicalize(s, true)
}

func canonicalize(s string, keepParens bool) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth > 0 && !keepParens:
			// inside parentheses
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 0xAC00 && r <= 0xD7A3: // Hangul syllables
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
