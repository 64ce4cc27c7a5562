package jurisdiction

import (
	"time"

	"github.com/coperniq/leadrank/internal/domain"
	"github.com/coperniq/leadrank/internal/logging"
)

// Federal tax credit deadlines driving urgency classification.
var (
	// residentialCreditExpiry is the last day of the 25D residential
	// clean energy credit.
	residentialCreditExpiry = time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)

	// commercialSafeHarborDeadline is the 48E construction-start
	// safe-harbor cutoff for commercial projects.
	commercialSafeHarborDeadline = time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC)
)

// Urgency windows in days before each deadline.
const (
	commercialWindowDays  = 365
	residentialWindowDays = 180
)

// Tagger attaches jurisdiction tags to entity clusters. The reference
// date is fixed at construction so a whole run is tagged consistently
// and tests are reproducible.
type Tagger struct {
	now time.Time
	log logging.Logger
}

// NewTagger creates a tagger evaluating deadlines against now.
func NewTagger(now time.Time, log logging.Logger) *Tagger {
	return &Tagger{now: now, log: log}
}

// Tag classifies one cluster. Clusters with no usable state get LOW
// priority and LOW urgency rather than an error.
func (t *Tagger) Tag(cluster *domain.EntityCluster) domain.JurisdictionTags {
	state := majorityState(cluster)

	tags := domain.JurisdictionTags{
		State:         state,
		StatePriority: domain.StatePriorityLow,
		Urgency:       domain.UrgencyLow,
	}

	info, known := LookupState(state)
	if known {
		tags.StateName = info.Name
		tags.Program = info.Program
		tags.StatePriority = info.Priority
	}

	// Urgency considers every member's state, not just the majority one:
	// a branch in an incentive state keeps the opportunity alive even
	// when most of the cluster sits elsewhere, and growing a cluster can
	// then never lower its urgency.
	tags.Urgency = t.urgency(cluster, anyIncentiveState(cluster))
	return tags
}

// anyIncentiveState reports whether any member sits in a known incentive
// state.
func anyIncentiveState(cluster *domain.EntityCluster) bool {
	for _, rec := range cluster.Records {
		if _, ok := LookupState(rec.Address.State); ok {
			return true
		}
	}
	return false
}

// urgency grades the deadline opportunity. Commercial capability inside
// the safe-harbor window outranks the residential expiry window, which
// outranks mere presence in an incentive state.
func (t *Tagger) urgency(cluster *domain.EntityCluster, incentiveState bool) domain.DeadlineUrgency {
	caps := cluster.Merged

	switch {
	case caps.IsCommercial && t.withinWindow(commercialSafeHarborDeadline, commercialWindowDays):
		return domain.UrgencyCritical
	case caps.IsResidential && t.withinWindow(residentialCreditExpiry, residentialWindowDays):
		return domain.UrgencyHigh
	case incentiveState:
		return domain.UrgencyMedium
	default:
		return domain.UrgencyLow
	}
}

// withinWindow reports whether now falls inside the given number of days
// before the deadline. A passed deadline is no longer an opportunity.
func (t *Tagger) withinWindow(deadline time.Time, days int) bool {
	if t.now.After(deadline) {
		return false
	}
	windowStart := deadline.AddDate(0, 0, -days)
	return !t.now.Before(windowStart)
}

// majorityState picks the state reported by the most members. Ties break
// toward the state backed by the member with the strongest link
// confidence, then toward the earliest member, so the result is
// deterministic.
func majorityState(cluster *domain.EntityCluster) string {
	counts := make(map[string]int)
	confidence := make(map[string]domain.MatchConfidence)
	var order []string

	for i, rec := range cluster.Records {
		state := rec.Address.State
		if state == "" {
			continue
		}
		if counts[state] == 0 {
			order = append(order, state)
		}
		counts[state]++
		if i < len(cluster.MemberConfidence) && cluster.MemberConfidence[i] > confidence[state] {
			confidence[state] = cluster.MemberConfidence[i]
		}
	}

	best := ""
	for _, state := range order {
		switch {
		case best == "":
			best = state
		case counts[state] > counts[best]:
			best = state
		case counts[state] == counts[best] && confidence[state] > confidence[best]:
			best = state
		}
	}
	return best
}
