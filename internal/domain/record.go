package domain

import "sort"

// RawRecord is one dealer entry as extracted by a locator scraper.
// Only Name and SourceID are required; every other field may be missing
// or malformed and is parsed best-effort by the normalizer.
type RawRecord struct {
	Name           string   `json:"name"`
	Phone          string   `json:"phone,omitempty"`
	Website        string   `json:"website,omitempty"`
	Street         string   `json:"street,omitempty"`
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`
	Zip            string   `json:"zip,omitempty"`
	AddressFull    string   `json:"address_full,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
	ReviewCount    *int     `json:"review_count,omitempty"`
	Tier           string   `json:"tier,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	Distance       string   `json:"distance,omitempty"`
	DistanceMiles  *float64 `json:"distance_miles,omitempty"`
	SourceID       string   `json:"source_id"`
	SourceZip      string   `json:"source_zip,omitempty"`
}

// Address holds the location fields of a canonical record.
type Address struct {
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Zip    string `json:"zip,omitempty"`
	Full   string `json:"full,omitempty"`
}

// Capabilities tracks what a contractor can install and what kind of
// business it runs, derived per-source from tier and certification text.
type Capabilities struct {
	// Product installation capabilities
	HasGenerator      bool `json:"has_generator"`
	HasSolar          bool `json:"has_solar"`
	HasBattery        bool `json:"has_battery"`
	HasMicroinverters bool `json:"has_microinverters"`
	HasInverters      bool `json:"has_inverters"`

	// Trade capabilities
	HasElectrical bool `json:"has_electrical"`
	HasHVAC       bool `json:"has_hvac"`
	HasRoofing    bool `json:"has_roofing"`
	HasPlumbing   bool `json:"has_plumbing"`

	// Business characteristics
	IsCommercial  bool `json:"is_commercial"`
	IsResidential bool `json:"is_residential"`
	IsGC          bool `json:"is_gc"`
	IsSub         bool `json:"is_sub"`

	// High-value contractor signals detected from free text
	HasOMCapability bool `json:"has_om_capability"`
	IsMEPRContract  bool `json:"is_mep_r_contractor"`
}

// Merge ORs another capability set into this one.
func (c *Capabilities) Merge(other Capabilities) {
	c.HasGenerator = c.HasGenerator || other.HasGenerator
	c.HasSolar = c.HasSolar || other.HasSolar
	c.HasBattery = c.HasBattery || other.HasBattery
	c.HasMicroinverters = c.HasMicroinverters || other.HasMicroinverters
	c.HasInverters = c.HasInverters || other.HasInverters
	c.HasElectrical = c.HasElectrical || other.HasElectrical
	c.HasHVAC = c.HasHVAC || other.HasHVAC
	c.HasRoofing = c.HasRoofing || other.HasRoofing
	c.HasPlumbing = c.HasPlumbing || other.HasPlumbing
	c.IsCommercial = c.IsCommercial || other.IsCommercial
	c.IsResidential = c.IsResidential || other.IsResidential
	c.IsGC = c.IsGC || other.IsGC
	c.IsSub = c.IsSub || other.IsSub
	c.HasOMCapability = c.HasOMCapability || other.HasOMCapability
	c.IsMEPRContract = c.IsMEPRContract || other.IsMEPRContract
}

// ProductCount returns how many product capabilities are set.
func (c Capabilities) ProductCount() int {
	count := 0
	for _, b := range []bool{
		c.HasGenerator, c.HasSolar, c.HasBattery,
		c.HasMicroinverters, c.HasInverters,
	} {
		if b {
			count++
		}
	}
	return count
}

// TradeCount returns how many trade capabilities are set.
func (c Capabilities) TradeCount() int {
	count := 0
	for _, b := range []bool{c.HasElectrical, c.HasHVAC, c.HasRoofing, c.HasPlumbing} {
		if b {
			count++
		}
	}
	return count
}

// CanonicalRecord is the normalized form of one RawRecord. Immutable once
// created; the matcher and scorer never modify it.
type CanonicalRecord struct {
	// Identity
	Name            string `json:"name"`
	NormalizedPhone string `json:"normalized_phone,omitempty"` // digits only, 10 digits, or empty
	RootDomain      string `json:"root_domain,omitempty"`      // eTLD+1, lowercase, or empty
	Website         string `json:"website,omitempty"`

	Address Address `json:"address"`

	// Quality signals
	Rating      float64 `json:"rating,omitempty"`
	ReviewCount int     `json:"review_count,omitempty"`

	TierLabel      string   `json:"tier_label,omitempty"`
	Certifications []string `json:"certifications,omitempty"`

	Capabilities Capabilities `json:"capabilities"`

	// Provenance
	SourceID      string  `json:"source_id"`
	SourceZip     string  `json:"source_zip,omitempty"`
	DistanceMiles float64 `json:"distance_miles,omitempty"`

	// Position within the input batch. Used only as a deterministic
	// tie-break; never exported to collaborators.
	BatchIndex int `json:"-"`
}

// MergeCertifications unions certification lists, deduplicated and sorted.
func MergeCertifications(lists ...[]string) []string {
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, cert := range list {
			if cert != "" {
				seen[cert] = true
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	merged := make([]string, 0, len(seen))
	for cert := range seen {
		merged = append(merged, cert)
	}
	sort.Strings(merged)
	return merged
}
