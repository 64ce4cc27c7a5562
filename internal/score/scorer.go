// Package score computes the composite 0-100 lead score for entity
// clusters. Each dimension is a monotone function of cluster content, so
// merging more evidence into a cluster can only raise its score.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/coperniq/leadrank/internal/config"
	"github.com/coperniq/leadrank/internal/domain"
	"github.com/coperniq/leadrank/internal/jurisdiction"
	"github.com/coperniq/leadrank/internal/logging"
)

// Dimension names as exported in score breakdowns.
const (
	DimMultiOEM          = "multi_oem"
	DimStatePriority     = "state_priority"
	DimCapabilityBreadth = "capability_breadth"
	DimGeographic        = "geographic"
	DimDeadlineUrgency   = "deadline_urgency"
	DimBusinessType      = "business_type"
)

// Per-dimension fill percentages. Wide gaps on the multi-OEM dimension
// create clear tier separation between multi-brand and single-brand
// contractors.
const (
	pctMultiOEMThreePlus = 1.0
	pctMultiOEMTwo       = 0.75
	pctMultiOEMOne       = 0.2

	pctStateHigh   = 1.0
	pctStateMedium = 0.5

	pctZIPTop     = 1.0
	pctZIPWealthy = 0.7
	pctZIPCovered = 0.3

	pctUrgencyCritical = 1.0
	pctUrgencyHigh     = 0.7
	pctUrgencyMedium   = 0.5
	pctUrgencyLow      = 0.2

	// Tier-label floors on capability breadth, used when a top-tier
	// certification implies capability the flags don't capture.
	pctFloorTopTier = 0.75
	pctFloorMidTier = 0.5
)

// Capability flag totals used to scale the breadth dimensions.
const (
	maxCapabilityFlags   = 9 // 5 products + 4 trades
	maxBusinessTypeFlags = 5 // commercial, residential, GC, O&M, MEP+R
)

// Tier labels that imply commercial scale across source programs.
var (
	topTierLabels = map[string]bool{"premier": true, "platinum": true}
	midTierLabels = map[string]bool{"elite plus": true, "gold": true}
)

// Scorer computes composite scores with configured weights and tier
// thresholds.
type Scorer struct {
	weights config.Weights
	tiers   config.TierThresholds
	log     logging.Logger
}

// NewScorer validates the scoring configuration and returns a scorer.
// Misconfigured weights or thresholds are a startup failure.
func NewScorer(cfg config.ScoringConfig, log logging.Logger) (*Scorer, error) {
	if sum := cfg.Weights.Sum(); sum != 100 {
		return nil, fmt.Errorf("%w: dimension weights sum to %d, want 100",
			config.ErrInvalidConfig, sum)
	}
	t := cfg.Tiers
	if !(100 >= t.Platinum && t.Platinum > t.Gold && t.Gold > t.Silver && t.Silver > 0) {
		return nil, fmt.Errorf("%w: tier thresholds must satisfy 100 >= platinum > gold > silver > 0, got %d/%d/%d",
			config.ErrInvalidConfig, t.Platinum, t.Gold, t.Silver)
	}
	return &Scorer{weights: cfg.Weights, tiers: cfg.Tiers, log: log}, nil
}

// Score computes the composite score for one cluster with its
// jurisdiction tags. Total is the sum of dimension points, capped by the
// weights summing to 100.
func (s *Scorer) Score(cluster *domain.EntityCluster, tags domain.JurisdictionTags) domain.ScoreResult {
	dimensions := []domain.DimensionScore{
		s.scoreMultiOEM(cluster),
		s.scoreStatePriority(cluster),
		s.scoreCapabilityBreadth(cluster),
		s.scoreGeographic(cluster),
		s.scoreDeadlineUrgency(tags),
		s.scoreBusinessType(cluster),
	}

	total := 0
	for _, d := range dimensions {
		total += d.Points
	}

	return domain.ScoreResult{
		Dimensions: dimensions,
		Total:      total,
		Tier:       s.tier(total),
		Tags:       tags,
	}
}

func (s *Scorer) tier(total int) domain.Tier {
	switch {
	case total >= s.tiers.Platinum:
		return domain.TierPlatinum
	case total >= s.tiers.Gold:
		return domain.TierGold
	case total >= s.tiers.Silver:
		return domain.TierSilver
	default:
		return domain.TierBronze
	}
}

// scoreMultiOEM rewards contractors certified across OEM brands: the more
// brands they juggle, the more a unified monitoring platform is worth.
func (s *Scorer) scoreMultiOEM(cluster *domain.EntityCluster) domain.DimensionScore {
	oemCount := len(cluster.OEMSet)

	var pct float64
	var explanation string
	switch {
	case oemCount >= 3:
		pct = pctMultiOEMThreePlus
		explanation = fmt.Sprintf("3+ OEM brands (%s)", strings.Join(cluster.OEMSet, ", "))
	case oemCount == 2:
		pct = pctMultiOEMTwo
		explanation = fmt.Sprintf("2 OEM brands (%s)", strings.Join(cluster.OEMSet, ", "))
	case oemCount == 1:
		pct = pctMultiOEMOne
		explanation = fmt.Sprintf("1 OEM brand (%s)", cluster.OEMSet[0])
	default:
		explanation = "no OEM certifications"
	}

	return dimension(DimMultiOEM, pct, s.weights.MultiOEM, explanation)
}

// scoreStatePriority scores the best incentive state any member sits in,
// not the cluster's majority state: a branch in an incentive market is
// worth selling to regardless of where the rest of the cluster lives,
// and scoring the best member keeps the dimension monotone under cluster
// growth. The exported jurisdiction tag still carries the majority vote.
func (s *Scorer) scoreStatePriority(cluster *domain.EntityCluster) domain.DimensionScore {
	info, found := bestIncentiveState(cluster)

	var pct float64
	var explanation string
	switch {
	case found && info.Priority == domain.StatePriorityHigh:
		pct = pctStateHigh
		explanation = fmt.Sprintf("%s is a HIGH priority incentive state (%s)", info.Name, info.Program)
	case found && info.Priority == domain.StatePriorityMedium:
		pct = pctStateMedium
		explanation = fmt.Sprintf("%s is a MEDIUM priority incentive state (%s)", info.Name, info.Program)
	default:
		explanation = "no member in a state incentive program"
	}

	return dimension(DimStatePriority, pct, s.weights.StatePriority, explanation)
}

// bestIncentiveState returns the highest-priority incentive state among
// the cluster's members.
func bestIncentiveState(cluster *domain.EntityCluster) (jurisdiction.StateInfo, bool) {
	var best jurisdiction.StateInfo
	found := false
	for _, rec := range cluster.Records {
		info, ok := jurisdiction.LookupState(rec.Address.State)
		if !ok {
			continue
		}
		if !found || priorityRank(info.Priority) > priorityRank(best.Priority) {
			best = info
			found = true
		}
	}
	return best, found
}

func priorityRank(p domain.StatePriority) int {
	switch p {
	case domain.StatePriorityHigh:
		return 2
	case domain.StatePriorityMedium:
		return 1
	default:
		return 0
	}
}

// scoreGeographic grades the best territory any member serves against
// the wealthy ZIP tables. Best-member selection keeps this monotone
// under cluster growth.
func (s *Scorer) scoreGeographic(cluster *domain.EntityCluster) domain.DimensionScore {
	best := bandOutside
	bestState, bestZIP := "", ""
	for _, rec := range cluster.Records {
		band := classifyZIP(rec.Address.State, rec.Address.Zip)
		if band > best {
			best = band
			bestState, bestZIP = rec.Address.State, rec.Address.Zip
		}
	}

	var pct float64
	var explanation string
	switch best {
	case bandTop:
		pct = pctZIPTop
		explanation = fmt.Sprintf("ZIP %s is in the top %d wealthy ZIPs for %s", bestZIP, topZIPRank, bestState)
	case bandWealthy:
		pct = pctZIPWealthy
		explanation = fmt.Sprintf("ZIP %s is a wealthy ZIP for %s", bestZIP, bestState)
	case bandCoveredState:
		pct = pctZIPCovered
		explanation = fmt.Sprintf("standard territory in %s", bestState)
	default:
		explanation = "outside covered territories"
	}

	return dimension(DimGeographic, pct, s.weights.Geographic, explanation)
}

// scoreCapabilityBreadth scales with the merged product and trade flag
// count. Top certification tiers floor the percentage: a Premier dealer
// has commercial-scale capability even when the locator text shows few
// explicit flags.
func (s *Scorer) scoreCapabilityBreadth(cluster *domain.EntityCluster) domain.DimensionScore {
	caps := cluster.Merged
	flags := caps.ProductCount() + caps.TradeCount()
	pct := float64(flags) / maxCapabilityFlags

	floor, floorLabel := tierFloor(cluster)
	if floor > pct {
		pct = floor
	}

	explanation := fmt.Sprintf("%d of %d capability flags", flags, maxCapabilityFlags)
	if floorLabel != "" {
		explanation += fmt.Sprintf(", floored by %s tier", floorLabel)
	}

	return dimension(DimCapabilityBreadth, pct, s.weights.CapabilityBreadth, explanation)
}

func (s *Scorer) scoreDeadlineUrgency(tags domain.JurisdictionTags) domain.DimensionScore {
	var pct float64
	var explanation string
	switch tags.Urgency {
	case domain.UrgencyCritical:
		pct = pctUrgencyCritical
		explanation = "CRITICAL: commercial projects must start before the safe-harbor deadline"
	case domain.UrgencyHigh:
		pct = pctUrgencyHigh
		explanation = "HIGH: residential credit expires soon"
	case domain.UrgencyMedium:
		pct = pctUrgencyMedium
		explanation = "MEDIUM: incentive state, sustainable market"
	default:
		pct = pctUrgencyLow
		explanation = "LOW: no deadline pressure"
	}

	return dimension(DimDeadlineUrgency, pct, s.weights.DeadlineUrgency, explanation)
}

// scoreBusinessType scales with how many business-type signals are set.
// A contractor that is commercial, self-performing and offers O&M is the
// ideal platform customer.
func (s *Scorer) scoreBusinessType(cluster *domain.EntityCluster) domain.DimensionScore {
	caps := cluster.Merged
	flags := 0
	for _, b := range []bool{
		caps.IsCommercial, caps.IsResidential, caps.IsGC,
		caps.HasOMCapability, caps.IsMEPRContract,
	} {
		if b {
			flags++
		}
	}

	pct := float64(flags) / maxBusinessTypeFlags
	explanation := fmt.Sprintf("%d of %d business-type signals", flags, maxBusinessTypeFlags)

	return dimension(DimBusinessType, pct, s.weights.BusinessType, explanation)
}

// tierFloor returns the strongest capability floor implied by any
// member's certification tier label. Using the maximum over members keeps
// the dimension monotone under cluster growth.
func tierFloor(cluster *domain.EntityCluster) (float64, string) {
	floor := 0.0
	label := ""
	for _, rec := range cluster.Records {
		t := strings.ToLower(strings.TrimSpace(rec.TierLabel))
		switch {
		case topTierLabels[t] && floor < pctFloorTopTier:
			floor = pctFloorTopTier
			label = rec.TierLabel
		case midTierLabels[t] && floor < pctFloorMidTier:
			floor = pctFloorMidTier
			label = rec.TierLabel
		}
	}
	return floor, label
}

// dimension builds one DimensionScore, rounding pct*weight to the
// nearest point.
func dimension(name string, pct float64, weight int, explanation string) domain.DimensionScore {
	return domain.DimensionScore{
		Name:        name,
		Points:      int(math.Round(pct * float64(weight))),
		Max:         weight,
		Explanation: explanation,
	}
}
