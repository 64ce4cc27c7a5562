// Package normalize converts raw scraped locator records into canonical
// typed records with derived capability flags. Parsing fails softly:
// any field that cannot be parsed is left empty, and only a missing name
// or source ID drops the record.
package normalize

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/coperniq/leadrank/internal/domain"
	"github.com/coperniq/leadrank/internal/logging"
)

// ErrMalformedRecord marks a raw record missing a required structural
// field. Such records are dropped and counted, never fatal.
var ErrMalformedRecord = errors.New("malformed record")

// Valid US phone lengths after digit stripping.
const (
	phoneDigits            = 10
	phoneDigitsWithCountry = 11
	maxRating              = 5.0
)

var (
	// Trailing phone extensions ("ext 2", "x12", "extension 3") are
	// stripped before digit extraction so they don't poison the length
	// check.
	extensionPattern = regexp.MustCompile(`(?i)\s*(?:ext\.?|extension|x)\s*\d+\s*$`)

	nonDigitPattern = regexp.MustCompile(`\D`)

	// Some locator pages concatenate rating widgets into the street
	// field; strip "4.8 out of 5 stars" and "(123 reviews)" fragments.
	ratingFragmentPattern = regexp.MustCompile(`(?i)\s*\d+(?:\.\d+)?\s*out of 5 stars?\.?`)
	reviewFragmentPattern = regexp.MustCompile(`(?i)\s*\(\s*\d+\s+reviews?\s*\)`)

	leadingFloatPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)
)

// Normalizer converts RawRecords to CanonicalRecords using an explicit
// source rule registry and a keyword capability detector.
type Normalizer struct {
	registry *Registry
	keywords *KeywordDetector
	log      logging.Logger
}

// NewNormalizer creates a normalizer around the given registry.
func NewNormalizer(registry *Registry, log logging.Logger) *Normalizer {
	return &Normalizer{
		registry: registry,
		keywords: NewKeywordDetector(),
		log:      log,
	}
}

// Normalize converts one raw record. It returns ErrMalformedRecord
// (wrapped) when name or source ID is missing; every other defect
// degrades the affected field to its zero value.
func (n *Normalizer) Normalize(raw domain.RawRecord) (domain.CanonicalRecord, error) {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return domain.CanonicalRecord{}, fmt.Errorf("%w: missing name", ErrMalformedRecord)
	}
	sourceID := strings.TrimSpace(raw.SourceID)
	if sourceID == "" {
		return domain.CanonicalRecord{}, fmt.Errorf("%w: missing source_id for %q", ErrMalformedRecord, name)
	}

	rec := domain.CanonicalRecord{
		Name:            name,
		NormalizedPhone: NormalizePhone(raw.Phone),
		RootDomain:      NormalizeDomain(raw.Website),
		Website:         strings.TrimSpace(raw.Website),
		Address: domain.Address{
			Street: cleanAddress(raw.Street),
			City:   strings.TrimSpace(raw.City),
			State:  normalizeState(raw.State),
			Zip:    strings.TrimSpace(raw.Zip),
			Full:   cleanAddress(raw.AddressFull),
		},
		TierLabel:      strings.TrimSpace(raw.Tier),
		Certifications: domain.MergeCertifications(raw.Certifications),
		SourceID:       sourceID,
		SourceZip:      strings.TrimSpace(raw.SourceZip),
	}

	if raw.Rating != nil {
		rec.Rating = clampRating(*raw.Rating)
	}
	if raw.ReviewCount != nil && *raw.ReviewCount > 0 {
		rec.ReviewCount = *raw.ReviewCount
	}
	rec.DistanceMiles = parseDistance(raw.DistanceMiles, raw.Distance)

	rec.Capabilities = n.detectCapabilities(rec)

	return rec, nil
}

// detectCapabilities applies the source rule table, then keyword
// detection, then the all-four-trades MEP+R rule.
func (n *Normalizer) detectCapabilities(rec domain.CanonicalRecord) domain.Capabilities {
	var caps domain.Capabilities

	rules, ok := n.registry.Rules(rec.SourceID)
	if !ok {
		n.log.Debug("unknown source, capabilities default to none",
			"source_id", rec.SourceID, "name", rec.Name)
	} else {
		caps.Merge(rules.Base)
		if tierCaps, found := rules.Tiers[rec.TierLabel]; found {
			caps.Merge(tierCaps)
		}
	}

	texts := append([]string{rec.Name, rec.TierLabel}, rec.Certifications...)
	n.keywords.Detect(&caps, texts...)

	// A contractor holding all four MEP+R trades is self-performing.
	if caps.HasElectrical && caps.HasHVAC && caps.HasPlumbing && caps.HasRoofing {
		caps.IsMEPRContract = true
	}

	return caps
}

// NormalizePhone strips a phone number to digits. Only 10-digit numbers
// (or 11 with a leading US country code) are considered parseable; any
// other length yields the empty string rather than a guess.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	phone = extensionPattern.ReplaceAllString(phone, "")
	digits := nonDigitPattern.ReplaceAllString(phone, "")

	if len(digits) == phoneDigitsWithCountry && strings.HasPrefix(digits, "1") {
		digits = digits[1:]
	}
	if len(digits) != phoneDigits {
		return ""
	}
	return digits
}

// NormalizeDomain reduces a website URL to its registrable domain
// (eTLD+1), lowercase, with no scheme, no subdomain, no path. Anything
// unparseable yields the empty string.
func NormalizeDomain(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}

	if !strings.Contains(website, "://") {
		website = "http://" + website
	}

	u, err := url.Parse(website)
	if err != nil {
		return ""
	}

	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" || !strings.Contains(host, ".") {
		return ""
	}

	root, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return root
}

// cleanAddress strips rating and review-count fragments that some locator
// pages concatenate into address text. Best effort, not guaranteed
// complete.
func cleanAddress(addr string) string {
	addr = ratingFragmentPattern.ReplaceAllString(addr, "")
	addr = reviewFragmentPattern.ReplaceAllString(addr, "")
	return strings.Join(strings.Fields(addr), " ")
}

func normalizeState(state string) string {
	state = strings.TrimSpace(state)
	if len(state) == 2 {
		return strings.ToUpper(state)
	}
	return state
}

func clampRating(rating float64) float64 {
	if rating < 0 {
		return 0
	}
	if rating > maxRating {
		return maxRating
	}
	return rating
}

// parseDistance prefers the numeric field and falls back to the leading
// number of the display string ("12.3 mi").
func parseDistance(miles *float64, display string) float64 {
	if miles != nil && *miles >= 0 {
		return *miles
	}
	m := leadingFloatPattern.FindStringSubmatch(display)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}
