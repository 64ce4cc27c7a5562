// Package pipeline composes the five processing stages into one run:
// normalize, dedupe per source, match across sources, tag jurisdictions,
// score. The composition is fixed; stages are pure transformations, so a
// run is deterministic for a given input batch and configuration.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/coperniq/leadrank/internal/config"
	"github.com/coperniq/leadrank/internal/dedupe"
	"github.com/coperniq/leadrank/internal/domain"
	"github.com/coperniq/leadrank/internal/jurisdiction"
	"github.com/coperniq/leadrank/internal/logging"
	"github.com/coperniq/leadrank/internal/match"
	"github.com/coperniq/leadrank/internal/normalize"
	"github.com/coperniq/leadrank/internal/score"
	"github.com/coperniq/leadrank/internal/telemetry"
)

// Stage names used for logging and metrics labels.
const (
	stageNormalize = "normalize"
	stageDedupe    = "dedupe"
	stageMatch     = "match"
	stageTag       = "tag"
	stageScore     = "score"
)

// Result is the output of one pipeline run.
type Result struct {
	Leads   []domain.RankedLead `json:"leads"`
	Summary *domain.RunSummary  `json:"summary"`
}

// Pipeline wires the five stages together.
type Pipeline struct {
	normalizer *normalize.Normalizer
	matcher    *match.Matcher
	tagger     *jurisdiction.Tagger
	scorer     *score.Scorer
	metrics    *telemetry.Provider
	log        logging.Logger
}

// New builds a pipeline from validated configuration. The reference time
// fixes deadline urgency evaluation for the whole run. metrics may be
// nil.
func New(cfg *config.Config, now time.Time, metrics *telemetry.Provider, log logging.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scorer, err := score.NewScorer(cfg.Scoring, log)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		normalizer: normalize.NewNormalizer(normalize.NewRegistry(), log),
		matcher:    match.NewMatcher(cfg.Matching, log),
		tagger:     jurisdiction.NewTagger(now, log),
		scorer:     scorer,
		metrics:    metrics,
		log:        log,
	}, nil
}

// Run processes one batch of raw records into ranked leads. Malformed
// records are dropped and counted, never fatal; the only error paths are
// context cancellation.
func (p *Pipeline) Run(ctx context.Context, batch []domain.RawRecord) (*Result, error) {
	summary := domain.NewRunSummary()
	summary.InputRecords = len(batch)

	canonical := p.runNormalize(batch, summary)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled after %s: %w", stageNormalize, err)
	}

	canonical = p.runDedupe(canonical, summary)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled after %s: %w", stageDedupe, err)
	}

	clusters := p.runMatch(canonical, summary)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline cancelled after %s: %w", stageMatch, err)
	}

	leads := p.runTagAndScore(clusters)

	sortLeads(leads)

	p.log.Info("pipeline run complete",
		"input_records", summary.InputRecords,
		"normalized", summary.NormalizedRecords,
		"duplicates_merged", summary.DuplicatesMerged,
		"clusters", summary.Clusters,
		"leads", len(leads),
	)

	return &Result{Leads: leads, Summary: summary}, nil
}

// runNormalize converts raw records, dropping and counting malformed
// ones. Kept records are numbered by their position in the kept order,
// which every later tie-break refers back to.
func (p *Pipeline) runNormalize(batch []domain.RawRecord, summary *domain.RunSummary) []domain.CanonicalRecord {
	start := time.Now()

	canonical := make([]domain.CanonicalRecord, 0, len(batch))
	for _, raw := range batch {
		rec, err := p.normalizer.Normalize(raw)
		if err != nil {
			reason := skipReason(raw, err)
			summary.Skip(reason)
			p.metrics.CountSkipped(reason)
			p.log.Warn("dropping malformed record", "reason", reason, "name", raw.Name)
			continue
		}

		if strings.TrimSpace(raw.Phone) != "" && rec.NormalizedPhone == "" {
			summary.Degrade(domain.DegradedPhone)
			p.metrics.CountDegraded(domain.DegradedPhone)
		}
		if strings.TrimSpace(raw.Website) != "" && rec.RootDomain == "" {
			summary.Degrade(domain.DegradedDomain)
			p.metrics.CountDegraded(domain.DegradedDomain)
		}

		rec.BatchIndex = len(canonical)
		canonical = append(canonical, rec)
		p.metrics.CountNormalized(rec.SourceID)
	}

	summary.NormalizedRecords = len(canonical)
	p.metrics.ObserveStage(stageNormalize, time.Since(start))
	return canonical
}

// runDedupe collapses duplicates within each source batch, then restores
// the overall batch order.
func (p *Pipeline) runDedupe(records []domain.CanonicalRecord, summary *domain.RunSummary) []domain.CanonicalRecord {
	start := time.Now()

	bySource := make(map[string][]domain.CanonicalRecord)
	var sourceOrder []string
	for _, rec := range records {
		if _, seen := bySource[rec.SourceID]; !seen {
			sourceOrder = append(sourceOrder, rec.SourceID)
		}
		bySource[rec.SourceID] = append(bySource[rec.SourceID], rec)
	}

	kept := make([]domain.CanonicalRecord, 0, len(records))
	for _, source := range sourceOrder {
		deduped, stats := dedupe.Dedupe(bySource[source])
		summary.DuplicatesMerged += stats.Collapsed
		for i := 0; i < stats.Collapsed; i++ {
			p.metrics.CountDuplicate(source)
		}
		kept = append(kept, deduped...)
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].BatchIndex < kept[j].BatchIndex
	})

	p.metrics.ObserveStage(stageDedupe, time.Since(start))
	return kept
}

func (p *Pipeline) runMatch(records []domain.CanonicalRecord, summary *domain.RunSummary) []domain.EntityCluster {
	start := time.Now()

	clusters, stats := p.matcher.Match(records)

	summary.Clusters = stats.Clusters
	summary.Singletons = stats.Singletons
	for _, c := range clusters {
		if len(c.OEMSet) > 1 {
			summary.MultiSourceLinks++
		}
		p.metrics.CountCluster(c.Size() == 1)
	}
	countLinks(p.metrics, domain.ConfidenceHigh, stats.HighLinks)
	countLinks(p.metrics, domain.ConfidenceStrong, stats.StrongLinks)
	countLinks(p.metrics, domain.ConfidenceWeak, stats.WeakLinks)

	p.metrics.ObserveStage(stageMatch, time.Since(start))
	return clusters
}

func (p *Pipeline) runTagAndScore(clusters []domain.EntityCluster) []domain.RankedLead {
	tagStart := time.Now()
	tags := make([]domain.JurisdictionTags, len(clusters))
	for i := range clusters {
		tags[i] = p.tagger.Tag(&clusters[i])
	}
	p.metrics.ObserveStage(stageTag, time.Since(tagStart))

	scoreStart := time.Now()
	leads := make([]domain.RankedLead, 0, len(clusters))
	for i := range clusters {
		result := p.scorer.Score(&clusters[i], tags[i])
		p.metrics.CountTier(string(result.Tier))
		leads = append(leads, buildLead(&clusters[i], result))
	}
	p.metrics.ObserveStage(stageScore, time.Since(scoreStart))

	return leads
}

// buildLead flattens a scored cluster into the export shape.
func buildLead(cluster *domain.EntityCluster, result domain.ScoreResult) domain.RankedLead {
	contact := cluster.BestContact()

	return domain.RankedLead{
		Name:            cluster.Primary().Name,
		Phone:           contact.Phone,
		Website:         contact.Website,
		Domain:          contact.Domain,
		Address:         contact.Address,
		OEMSet:          cluster.OEMSet,
		OEMCount:        len(cluster.OEMSet),
		MemberCount:     cluster.Size(),
		MatchConfidence: cluster.Confidence.String(),
		Dimensions:      result.Dimensions,
		TotalScore:      result.Total,
		Tier:            result.Tier,
		Tags:            result.Tags,
	}
}

// sortLeads orders output by score, then match confidence, then cluster
// size, then name. Confidence labels sort by their numeric grade, not
// alphabetically.
func sortLeads(leads []domain.RankedLead) {
	sort.SliceStable(leads, func(i, j int) bool {
		a, b := leads[i], leads[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		ca, cb := confidenceRank(a.MatchConfidence), confidenceRank(b.MatchConfidence)
		if ca != cb {
			return ca > cb
		}
		if a.MemberCount != b.MemberCount {
			return a.MemberCount > b.MemberCount
		}
		return a.Name < b.Name
	})
}

func confidenceRank(label string) domain.MatchConfidence {
	switch label {
	case domain.ConfidenceHigh.String():
		return domain.ConfidenceHigh
	case domain.ConfidenceStrong.String():
		return domain.ConfidenceStrong
	case domain.ConfidenceWeak.String():
		return domain.ConfidenceWeak
	default:
		return domain.ConfidenceNone
	}
}

func countLinks(metrics *telemetry.Provider, confidence domain.MatchConfidence, n int) {
	for i := 0; i < n; i++ {
		metrics.CountLink(confidence.String())
	}
}

// skipReason maps a normalization error to its summary bucket.
func skipReason(raw domain.RawRecord, err error) string {
	if !errors.Is(err, normalize.ErrMalformedRecord) {
		return "unknown"
	}
	if strings.TrimSpace(raw.Name) == "" {
		return domain.SkipMissingName
	}
	return domain.SkipMissingSourceID
}
