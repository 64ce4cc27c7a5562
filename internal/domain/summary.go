package domain

// Skip reasons counted in RunSummary.Skipped.
const (
	SkipMissingName     = "missing_name"
	SkipMissingSourceID = "missing_source_id"
)

// Degradation reasons counted in RunSummary.Degraded. Degraded records
// still flow through the pipeline with reduced matching power.
const (
	DegradedPhone  = "unparseable_phone"
	DegradedDomain = "unparseable_domain"
)

// RunSummary accumulates per-record issues and stage statistics for one
// pipeline run. Counts are surfaced alongside the ranked output so that
// nothing is silently swallowed.
type RunSummary struct {
	InputRecords      int            `json:"input_records"`
	NormalizedRecords int            `json:"normalized_records"`
	Skipped           map[string]int `json:"skipped,omitempty"`
	Degraded          map[string]int `json:"degraded,omitempty"`
	DuplicatesMerged  int            `json:"duplicates_merged"`
	Clusters          int            `json:"clusters"`
	Singletons        int            `json:"singletons"`
	MultiSourceLinks  int            `json:"multi_source_links"`
}

// NewRunSummary returns a summary with initialized count maps.
func NewRunSummary() *RunSummary {
	return &RunSummary{
		Skipped:  make(map[string]int),
		Degraded: make(map[string]int),
	}
}

// Skip records a dropped raw record.
func (s *RunSummary) Skip(reason string) {
	s.Skipped[reason]++
}

// Degrade records a field that could not be parsed.
func (s *RunSummary) Degrade(reason string) {
	s.Degraded[reason]++
}
