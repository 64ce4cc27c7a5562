// keywords.go implements Aho-Corasick based detection of contractor-type
// signals in free text (name, certifications, tier label). A single pass
// over the text replaces per-keyword substring scans.
package normalize

import (
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/coperniq/leadrank/internal/domain"
)

// Keyword lists for contractor-type detection. "o m" is the normalized
// form of "O&M" after punctuation stripping.
var (
	omKeywords = []string{
		"operations", "maintenance", "monitoring", "o m", "service",
	}
	mepKeywords = []string{
		"mep", "mechanical contractor", "full service", "multi trade",
	}
	commercialKeywords = []string{
		"commercial", "industrial", "enterprise", "corporate",
		"facilities", "institutional",
	}
	residentialKeywords = []string{
		"residential", "home services", "home improvement",
	}
	gcKeywords = []string{
		"general contractor", "builders", "construction",
	}
	electricalKeywords = []string{
		"electric", "electrical", "electrician",
	}
	hvacKeywords = []string{
		"hvac", "heating", "air conditioning", "cooling", "mechanical",
	}
	plumbingKeywords = []string{
		"plumbing", "plumber",
	}
	roofingKeywords = []string{
		"roofing", "roofer", "roof",
	}
)

// KeywordDetector detects business-type capability flags from free text.
type KeywordDetector struct {
	om          *ahocorasick.Matcher
	mep         *ahocorasick.Matcher
	commercial  *ahocorasick.Matcher
	residential *ahocorasick.Matcher
	gc          *ahocorasick.Matcher
	electrical  *ahocorasick.Matcher
	hvac        *ahocorasick.Matcher
	plumbing    *ahocorasick.Matcher
	roofing     *ahocorasick.Matcher
}

// NewKeywordDetector builds the keyword automatons once.
func NewKeywordDetector() *KeywordDetector {
	return &KeywordDetector{
		om:          ahocorasick.NewStringMatcher(omKeywords),
		mep:         ahocorasick.NewStringMatcher(mepKeywords),
		commercial:  ahocorasick.NewStringMatcher(commercialKeywords),
		residential: ahocorasick.NewStringMatcher(residentialKeywords),
		gc:          ahocorasick.NewStringMatcher(gcKeywords),
		electrical:  ahocorasick.NewStringMatcher(electricalKeywords),
		hvac:        ahocorasick.NewStringMatcher(hvacKeywords),
		plumbing:    ahocorasick.NewStringMatcher(plumbingKeywords),
		roofing:     ahocorasick.NewStringMatcher(roofingKeywords),
	}
}

// Detect ORs detected flags into caps. The input texts are concatenated
// and normalized before matching, so callers pass name, certifications
// and tier label as-is.
func (d *KeywordDetector) Detect(caps *domain.Capabilities, texts ...string) {
	text := []byte(normalizeText(strings.Join(texts, " ")))

	if len(d.om.Match(text)) > 0 {
		caps.HasOMCapability = true
	}
	if len(d.mep.Match(text)) > 0 {
		caps.IsMEPRContract = true
	}
	if len(d.commercial.Match(text)) > 0 {
		caps.IsCommercial = true
	}
	if len(d.residential.Match(text)) > 0 {
		caps.IsResidential = true
	}
	if len(d.gc.Match(text)) > 0 {
		caps.IsGC = true
	}
	if len(d.electrical.Match(text)) > 0 {
		caps.HasElectrical = true
	}
	if len(d.hvac.Match(text)) > 0 {
		caps.HasHVAC = true
	}
	if len(d.plumbing.Match(text)) > 0 {
		caps.HasPlumbing = true
	}
	if len(d.roofing.Match(text)) > 0 {
		caps.HasRoofing = true
	}
}

// normalizeText lowercases and replaces non-alphanumeric runes with
// spaces, preserving word boundaries for keyword matching.
func normalizeText(text string) string {
	text = strings.ToLower(text)

	var result strings.Builder
	result.Grow(len(text))

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		} else {
			result.WriteByte(' ')
		}
	}

	return result.String()
}
