package normalize

import (
	"errors"
	"testing"

	"github.com/coperniq/leadrank/internal/domain"
	"github.com/coperniq/leadrank/internal/logging"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(NewRegistry(), logging.Nop{})
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"formatted", "(555) 123-4567", "5551234567"},
		{"dashes", "555-123-4567", "5551234567"},
		{"dots", "555.123.4567", "5551234567"},
		{"bare digits", "5551234567", "5551234567"},
		{"country code", "1-555-123-4567", "5551234567"},
		{"plus country code", "+1 (555) 123-4567", "5551234567"},
		{"extension word", "555-123-4567 ext 2", "5551234567"},
		{"extension dot", "555-123-4567 ext. 12", "5551234567"},
		{"extension full", "555-123-4567 extension 2", "5551234567"},
		{"extension x", "555-123-4567 x42", "5551234567"},
		{"too short", "123-4567", ""},
		{"too long", "555-123-45678", ""},
		{"eleven without country code", "25551234567", ""},
		{"words only", "call us", ""},
		{"empty", "", ""},
		{"whitespace", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"full url", "https://www.acme-solar.com/contact?ref=locator", "acme-solar.com"},
		{"no scheme", "acme-solar.com", "acme-solar.com"},
		{"subdomain stripped", "https://shop.acme-solar.com", "acme-solar.com"},
		{"uppercase host", "HTTPS://WWW.ACME-SOLAR.COM", "acme-solar.com"},
		{"multi-part public suffix", "https://www.acme.co.uk/about", "acme.co.uk"},
		{"trailing dot", "acme-solar.com.", "acme-solar.com"},
		{"no dot", "localhost", ""},
		{"garbage", "not a url at all", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDomain(tt.input); got != tt.want {
				t.Errorf("NormalizeDomain(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_MissingRequiredFields(t *testing.T) {
	n := newTestNormalizer()

	_, err := n.Normalize(domain.RawRecord{SourceID: SourceGenerac})
	if !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("missing name: got %v, want ErrMalformedRecord", err)
	}

	_, err = n.Normalize(domain.RawRecord{Name: "Acme Electric"})
	if !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("missing source_id: got %v, want ErrMalformedRecord", err)
	}

	_, err = n.Normalize(domain.RawRecord{Name: "   ", SourceID: SourceGenerac})
	if !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("whitespace name: got %v, want ErrMalformedRecord", err)
	}
}

func TestNormalize_DegradesUnparseableFields(t *testing.T) {
	n := newTestNormalizer()

	rec, err := n.Normalize(domain.RawRecord{
		Name:     "Acme Electric",
		SourceID: SourceGenerac,
		Phone:    "call for details",
		Website:  ":::not a url",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.NormalizedPhone != "" {
		t.Errorf("expected empty phone, got %q", rec.NormalizedPhone)
	}
	if rec.RootDomain != "" {
		t.Errorf("expected empty domain, got %q", rec.RootDomain)
	}
}

func TestNormalize_AddressCleanup(t *testing.T) {
	n := newTestNormalizer()

	rec, err := n.Normalize(domain.RawRecord{
		Name:        "Acme Electric",
		SourceID:    SourceGenerac,
		Street:      "123 Main St 4.8 out of 5 stars",
		AddressFull: "123 Main St, Austin, TX 78746 (231 reviews)",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Address.Street != "123 Main St" {
		t.Errorf("street = %q, want %q", rec.Address.Street, "123 Main St")
	}
	if rec.Address.Full != "123 Main St, Austin, TX 78746" {
		t.Errorf("full = %q, want %q", rec.Address.Full, "123 Main St, Austin, TX 78746")
	}
}

func TestNormalize_StateUppercased(t *testing.T) {
	n := newTestNormalizer()

	rec, err := n.Normalize(domain.RawRecord{
		Name:     "Acme Electric",
		SourceID: SourceGenerac,
		State:    "tx",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Address.State != "TX" {
		t.Errorf("state = %q, want TX", rec.Address.State)
	}
}

func TestNormalize_RatingClamped(t *testing.T) {
	n := newTestNormalizer()

	rating := 7.3
	rec, err := n.Normalize(domain.RawRecord{
		Name:     "Acme Electric",
		SourceID: SourceGenerac,
		Rating:   &rating,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Rating != 5.0 {
		t.Errorf("rating = %v, want 5.0", rec.Rating)
	}
}

func TestNormalize_SourceTierCapabilities(t *testing.T) {
	n := newTestNormalizer()

	rec, err := n.Normalize(domain.RawRecord{
		Name:     "Acme Electric",
		SourceID: SourceGenerac,
		Tier:     "Premier",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	caps := rec.Capabilities
	if !caps.HasGenerator || !caps.HasElectrical {
		t.Error("expected Generac base capabilities")
	}
	if !caps.IsCommercial || !caps.HasOMCapability {
		t.Error("expected Premier tier capabilities")
	}
}

func TestNormalize_UnknownSourceFailsSafe(t *testing.T) {
	n := newTestNormalizer()

	rec, err := n.Normalize(domain.RawRecord{
		Name:     "Mystery Dealer",
		SourceID: "UnknownOEM",
		Tier:     "Premier",
	})
	if err != nil {
		t.Fatalf("unknown source must not error: %v", err)
	}
	if rec.Capabilities.ProductCount() != 0 {
		t.Errorf("unknown source must contribute no product capabilities, got %d",
			rec.Capabilities.ProductCount())
	}
}

func TestNormalize_MEPRFromAllFourTrades(t *testing.T) {
	n := newTestNormalizer()

	// Name avoids the explicit MEP keywords; the flag must come from the
	// four trade flags being set together.
	rec, err := n.Normalize(domain.RawRecord{
		Name:     "Acme Plumbing Heating & Electric",
		SourceID: SourceEnphase, // base adds electrical + roofing
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	caps := rec.Capabilities
	if caps.TradeCount() != 4 {
		t.Fatalf("expected all four trades, got %d", caps.TradeCount())
	}
	if !caps.IsMEPRContract {
		t.Error("expected IsMEPRContract from holding all four trades")
	}
}

func TestKeywordDetector(t *testing.T) {
	d := NewKeywordDetector()

	tests := []struct {
		name  string
		text  string
		check func(domain.Capabilities) bool
	}{
		{"om from maintenance", "Smith Solar Maintenance", func(c domain.Capabilities) bool { return c.HasOMCapability }},
		{"om from ampersand form", "Acme O&M Services", func(c domain.Capabilities) bool { return c.HasOMCapability }},
		{"mep", "Jones MEP Group", func(c domain.Capabilities) bool { return c.IsMEPRContract }},
		{"commercial", "Industrial Power Systems", func(c domain.Capabilities) bool { return c.IsCommercial }},
		{"residential", "Hometown Home Services", func(c domain.Capabilities) bool { return c.IsResidential }},
		{"gc", "Delta Construction", func(c domain.Capabilities) bool { return c.IsGC }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var caps domain.Capabilities
			d.Detect(&caps, tt.text)
			if !tt.check(caps) {
				t.Errorf("expected flag set for %q, got %+v", tt.text, caps)
			}
		})
	}
}
