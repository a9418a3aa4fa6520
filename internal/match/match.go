// Package match decides whether two free-text labels denote the same
// real-estate entity. Upstream trade records name apartments inconsistently
// (phase suffixes, aliases, stray punctuation), so name matching is fuzzy
// while dong and lot matching stay strict.
package match

import (
	"strconv"
	"strings"
)

// SimilarityThreshold is the minimum length-ratio (percent) two normalized
// names must share before containment can declare a match. Domain policy;
// do not tune without product confirmation.
const SimilarityThreshold = 70

// NamesMatch reports whether two apartment names denote the same complex.
// Exact match after normalization wins, as does equality once parenthesized
// annotations are kept instead of dropped (sources disagree on whether a
// phase suffix is parenthesized). Otherwise the shorter name must be at
// least SimilarityThreshold percent of the longer one AND be contained in
// it. The ratio gate alone is not enough: unrelated names of similar length
// would collide without the containment test.
func NamesMatch(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if fa, fb := normalizeFull(a), normalizeFull(b); fa == fb {
		return true
	}
	la, lb := len([]rune(na)), len([]rune(nb))
	minLen, maxLen := min(la, lb), max(la, lb)
	if minLen*100/max(1, maxLen) < SimilarityThreshold {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// DongMatches compares legal-dong names. No fuzziness: normalized exact
// equality, and both sides must be non-empty.
func DongMatches(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	return na != "" && na == nb
}

// LotMatches compares lot numbers ("123-45"). If both leading segments
// parse to equal integers the lots match; otherwise fall back to exact
// equality with whitespace stripped.
func LotMatches(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ta, tb := strings.TrimSpace(a), strings.TrimSpace(b)
	ba, okA := mainLot(ta)
	bb, okB := mainLot(tb)
	if okA && okB && ba == bb {
		return true
	}
	return stripSpace(ta) == stripSpace(tb)
}

func mainLot(s string) (int, bool) {
	head, _, _ := strings.Cut(s, "-")
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return n, true
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
}
