package domain

// StatePriority classifies how valuable a state's incentive market is.
type StatePriority string

// State priority levels.
const (
	StatePriorityHigh   StatePriority = "HIGH"
	StatePriorityMedium StatePriority = "MEDIUM"
	StatePriorityLow    StatePriority = "LOW"
)

// DeadlineUrgency classifies how close a cluster is to a tax-credit
// deadline that creates a time-sensitive sales opportunity.
type DeadlineUrgency string

// Deadline urgency levels.
const (
	UrgencyCritical DeadlineUrgency = "CRITICAL" // commercial safe-harbor window
	UrgencyHigh     DeadlineUrgency = "HIGH"     // residential credit expiry window
	UrgencyMedium   DeadlineUrgency = "MEDIUM"   // incentive state, sustainable market
	UrgencyLow      DeadlineUrgency = "LOW"      // no incentive program
)

// JurisdictionTags is the static classification attached to a cluster by
// the jurisdiction tagger. A lookup miss yields the zero-priority tags.
type JurisdictionTags struct {
	State         string          `json:"state,omitempty"`
	StateName     string          `json:"state_name,omitempty"`
	Program       string          `json:"program,omitempty"`
	StatePriority StatePriority   `json:"state_priority"`
	Urgency       DeadlineUrgency `json:"urgency"`
}

// Tier is the discrete priority bucket derived from the total score.
type Tier string

// Priority tiers, highest first.
const (
	TierPlatinum Tier = "PLATINUM"
	TierGold     Tier = "GOLD"
	TierSilver   Tier = "SILVER"
	TierBronze   Tier = "BRONZE"
)

// DimensionScore is one independently-computed scoring dimension.
type DimensionScore struct {
	Name        string `json:"name"`
	Points      int    `json:"points"`
	Max         int    `json:"max"`
	Explanation string `json:"explanation,omitempty"`
}

// ScoreResult is the composite score for one entity cluster.
type ScoreResult struct {
	Dimensions []DimensionScore `json:"dimensions"`
	Total      int              `json:"total_score"` // 0-100
	Tier       Tier             `json:"tier"`
	Tags       JurisdictionTags `json:"jurisdiction"`
}

// Dimension returns the points for a named dimension, or 0 if absent.
func (s ScoreResult) Dimension(name string) int {
	for _, d := range s.Dimensions {
		if d.Name == name {
			return d.Points
		}
	}
	return 0
}

// RankedLead is one flat output record per entity cluster, in the shape
// consumed by the export/CRM collaborator.
type RankedLead struct {
	Name            string           `json:"name"`
	Phone           string           `json:"phone,omitempty"`
	Website         string           `json:"website,omitempty"`
	Domain          string           `json:"domain,omitempty"`
	Address         string           `json:"address,omitempty"`
	OEMSet          []string         `json:"oem_set"`
	OEMCount        int              `json:"oem_count"`
	MemberCount     int              `json:"member_count"`
	MatchConfidence string           `json:"match_confidence"`
	Dimensions      []DimensionScore `json:"dimensions"`
	TotalScore      int              `json:"total_score"`
	Tier            Tier             `json:"tier"`
	Tags            JurisdictionTags `json:"jurisdiction"`
}
