// similarity.go implements conservative fuzzy company-name comparison.
// Free-text names are the least reliable identity signal, so the
// similarity score feeds thresholds tuned high enough that two different
// businesses sharing a common franchise name do not link.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Similarity values for the short-circuit cases.
const (
	exactMatchSimilarity  = 1.0
	containmentSimilarity = 0.9
)

// corporateSuffixes are dropped before comparison: "Acme Electric LLC"
// and "Acme Electric Inc" are the same shop.
var corporateSuffixes = map[string]bool{
	"llc": true, "inc": true, "incorporated": true,
	"corp": true, "corporation": true,
	"ltd": true, "limited": true,
	"co": true, "company": true,
}

// foldDiacritics maps accented letters to their base form ("José" ->
// "Jose") so source formatting differences don't depress similarity.
var foldDiacritics = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NameSimilarity returns a similarity in [0, 1] between two company
// names. Exact match after normalization is 1.0, containment of one
// normalized name in the other is 0.9, otherwise the token Jaccard
// index. Deterministic and symmetric.
func NameSimilarity(a, b string) float64 {
	na := NormalizeName(a)
	nb := NormalizeName(b)

	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return exactMatchSimilarity
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return containmentSimilarity
	}

	return tokenJaccard(na, nb)
}

// NormalizeName lowercases, folds diacritics, strips punctuation and
// corporate suffixes, and collapses whitespace.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}

	if folded, _, err := transform.String(foldDiacritics, name); err == nil {
		name = folded
	}

	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte(' ')
		}
	}

	tokens := strings.Fields(sb.String())
	kept := tokens[:0]
	for _, tok := range tokens {
		if !corporateSuffixes[tok] {
			kept = append(kept, tok)
		}
	}

	return strings.Join(kept, " ")
}

// tokenJaccard computes |A∩B| / |A∪B| over name tokens. Token overlap is
// robust to word-order differences ("Solar ABC" vs "ABC Solar") where an
// edit distance would not be.
func tokenJaccard(a, b string) float64 {
	setA := make(map[string]bool)
	for _, tok := range strings.Fields(a) {
		setA[tok] = true
	}
	setB := make(map[string]bool)
	for _, tok := range strings.Fields(b) {
		setB[tok] = true
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}
