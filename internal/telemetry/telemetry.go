// Package telemetry provides Prometheus instrumentation for the lead
// ranking pipeline. Collaborators that embed the pipeline can mount the
// handler on whatever surface they expose.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all pipeline Prometheus metrics.
type Metrics struct {
	// Normalizer metrics
	RecordsNormalized *prometheus.CounterVec
	RecordsSkipped    *prometheus.CounterVec
	FieldsDegraded    *prometheus.CounterVec

	// Dedup metrics
	DuplicatesMerged *prometheus.CounterVec

	// Matcher metrics
	LinksAccepted *prometheus.CounterVec
	ClustersBuilt prometheus.Counter
	Singletons    prometheus.Counter

	// Scorer metrics
	TierTotal *prometheus.CounterVec

	// Stage timing
	StageDuration *prometheus.HistogramVec
}

// Provider wraps the metric set behind a nil-safe facade. A nil Provider
// is valid and records nothing, so library users are not forced to set up
// Prometheus.
type Provider struct {
	Metrics *Metrics
}

// NewProvider registers all pipeline metrics on the default registry.
func NewProvider() *Provider {
	return &Provider{Metrics: initMetrics()}
}

// Handler returns the Prometheus HTTP handler for a /metrics endpoint.
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	return &Metrics{
		RecordsNormalized: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "leadrank_records_normalized_total",
			Help: "Raw records successfully normalized, by source",
		}, []string{"source"}),
		RecordsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "leadrank_records_skipped_total",
			Help: "Raw records dropped before normalization, by reason",
		}, []string{"reason"}),
		FieldsDegraded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "leadrank_fields_degraded_total",
			Help: "Fields that could not be parsed and were left empty, by reason",
		}, []string{"reason"}),
		DuplicatesMerged: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "leadrank_duplicates_merged_total",
			Help: "Intra-source duplicate records collapsed, by source",
		}, []string{"source"}),
		LinksAccepted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "leadrank_links_accepted_total",
			Help: "Cross-source links accepted, by confidence grade",
		}, []string{"confidence"}),
		ClustersBuilt: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadrank_clusters_built_total",
			Help: "Entity clusters produced",
		}),
		Singletons: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leadrank_singleton_clusters_total",
			Help: "Clusters containing a single unmatched record",
		}),
		TierTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "leadrank_tier_total",
			Help: "Scored clusters by priority tier",
		}, []string{"tier"}),
		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "leadrank_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}, []string{"stage"}),
	}
}

// ObserveStage records a stage duration. Safe on a nil Provider.
func (p *Provider) ObserveStage(stage string, d time.Duration) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// CountNormalized records a normalized record. Safe on a nil Provider.
func (p *Provider) CountNormalized(source string) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.RecordsNormalized.WithLabelValues(source).Inc()
}

// CountSkipped records a dropped raw record. Safe on a nil Provider.
func (p *Provider) CountSkipped(reason string) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.RecordsSkipped.WithLabelValues(reason).Inc()
}

// CountDegraded records an unparseable field. Safe on a nil Provider.
func (p *Provider) CountDegraded(reason string) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.FieldsDegraded.WithLabelValues(reason).Inc()
}

// CountDuplicate records a merged duplicate. Safe on a nil Provider.
func (p *Provider) CountDuplicate(source string) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.DuplicatesMerged.WithLabelValues(source).Inc()
}

// CountLink records an accepted link. Safe on a nil Provider.
func (p *Provider) CountLink(confidence string) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.LinksAccepted.WithLabelValues(confidence).Inc()
}

// CountCluster records a built cluster. Safe on a nil Provider.
func (p *Provider) CountCluster(singleton bool) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.ClustersBuilt.Inc()
	if singleton {
		p.Metrics.Singletons.Inc()
	}
}

// CountTier records a scored cluster's tier. Safe on a nil Provider.
func (p *Provider) CountTier(tier string) {
	if p == nil || p.Metrics == nil {
		return
	}
	p.Metrics.TierTotal.WithLabelValues(tier).Inc()
}
