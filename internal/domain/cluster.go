package domain

import "sort"

// MatchConfidence grades how certain a cross-source link is, based on
// which identifying signals agreed. A cluster's confidence is the minimum
// over the edges that connect its members.
type MatchConfidence int

// Confidence grades, ordered so that stronger signals compare greater.
const (
	ConfidenceNone   MatchConfidence = 0
	ConfidenceWeak   MatchConfidence = 80  // name + state only
	ConfidenceStrong MatchConfidence = 90  // shared root domain
	ConfidenceHigh   MatchConfidence = 100 // shared phone
)

// String returns the confidence label used in exported output.
func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "HIGH"
	case ConfidenceStrong:
		return "STRONG"
	case ConfidenceWeak:
		return "WEAK"
	default:
		return "NONE"
	}
}

// EntityCluster is a set of canonical records believed to describe one
// real-world business.
type EntityCluster struct {
	Records []CanonicalRecord `json:"records"`

	// Confidence is the minimum edge confidence used to connect the
	// members, or ConfidenceNone for singletons.
	Confidence MatchConfidence `json:"match_confidence"`

	// MemberConfidence holds, per record (aligned with Records), the
	// strongest link confidence incident to that record. Singletons get
	// ConfidenceNone. Used by the jurisdiction tagger's tie-break.
	MemberConfidence []MatchConfidence `json:"-"`

	// OEMSet is the sorted union of member source IDs.
	OEMSet []string `json:"oem_set"`

	// Merged is the OR-union of all member capability flags.
	Merged Capabilities `json:"merged_capabilities"`

	// Representative indexes into Records: the member with the best
	// quality signals, used for display name and default contact info.
	Representative int `json:"-"`
}

// Primary returns the representative record.
func (ec *EntityCluster) Primary() CanonicalRecord {
	return ec.Records[ec.Representative]
}

// Size returns the member count.
func (ec *EntityCluster) Size() int {
	return len(ec.Records)
}

// ContactInfo is the best-available contact data across a cluster's
// members: the longest phone, the shortest domain (likely the company site
// rather than a lead-gen alias), and the most complete address.
type ContactInfo struct {
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
	Domain  string `json:"domain,omitempty"`
	Address string `json:"address,omitempty"`
}

// BestContact selects contact info across all members.
func (ec *EntityCluster) BestContact() ContactInfo {
	var info ContactInfo
	for _, rec := range ec.Records {
		if len(rec.NormalizedPhone) > len(info.Phone) {
			info.Phone = rec.NormalizedPhone
		}
		if rec.RootDomain != "" && (info.Domain == "" || len(rec.RootDomain) < len(info.Domain)) {
			info.Domain = rec.RootDomain
			info.Website = rec.Website
		}
		if len(rec.Address.Full) > len(info.Address) {
			info.Address = rec.Address.Full
		}
	}
	return info
}

// SortedOEMSet builds a sorted, deduplicated source ID list.
func SortedOEMSet(records []CanonicalRecord) []string {
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		seen[rec.SourceID] = true
	}
	oems := make([]string, 0, len(seen))
	for id := range seen {
		oems = append(oems, id)
	}
	sort.Strings(oems)
	return oems
}
