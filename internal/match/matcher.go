// Package match links canonical records across sources into entity
// clusters, each representing one real-world business. The design is
// tuned to minimize false merges at the cost of occasional false splits:
// phone is trusted outright, domain needs name corroboration, and bare
// name similarity links only within one state at a very high threshold.
package match

import (
	"sort"

	"github.com/coperniq/leadrank/internal/config"
	"github.com/coperniq/leadrank/internal/domain"
	"github.com/coperniq/leadrank/internal/logging"
)

// Stats reports accepted links by confidence grade.
type Stats struct {
	HighLinks   int
	StrongLinks int
	WeakLinks   int
	Clusters    int
	Singletons  int
}

// edge is one accepted pairwise link between record indices.
type edge struct {
	a, b       int
	confidence domain.MatchConfidence
}

// Matcher clusters records via blocking, pairwise link decisions and
// transitive closure.
type Matcher struct {
	highThreshold     float64
	veryHighThreshold float64
	log               logging.Logger
}

// NewMatcher creates a matcher with thresholds from configuration.
func NewMatcher(cfg config.MatchingConfig, log logging.Logger) *Matcher {
	return &Matcher{
		highThreshold:     cfg.NameSimilarityHigh,
		veryHighThreshold: cfg.NameSimilarityVeryHigh,
		log:               log,
	}
}

// Match partitions records into entity clusters. Records must carry
// their BatchIndex; output and clustering are deterministic functions of
// the input order.
func (m *Matcher) Match(records []domain.CanonicalRecord) ([]domain.EntityCluster, Stats) {
	edges := m.collectEdges(records)

	uf := newUnionFind(len(records))
	memberBest := make([]domain.MatchConfidence, len(records))

	// Strongest edges first: a record is placed via its best signal,
	// and weaker signals only extend existing clusters. collectEdges
	// returns edges already ordered HIGH, STRONG, WEAK and by index
	// within each grade.
	var stats Stats
	for _, e := range edges {
		switch e.confidence {
		case domain.ConfidenceHigh:
			stats.HighLinks++
		case domain.ConfidenceStrong:
			stats.StrongLinks++
		case domain.ConfidenceWeak:
			stats.WeakLinks++
		}
		if e.confidence > memberBest[e.a] {
			memberBest[e.a] = e.confidence
		}
		if e.confidence > memberBest[e.b] {
			memberBest[e.b] = e.confidence
		}
		uf.union(e.a, e.b, e.confidence)
	}

	clusters := m.assemble(records, uf, memberBest)
	stats.Clusters = len(clusters)
	for _, c := range clusters {
		if c.Size() == 1 {
			stats.Singletons++
		}
	}

	m.log.Info("cross-source matching complete",
		"records", len(records),
		"clusters", stats.Clusters,
		"singletons", stats.Singletons,
		"high_links", stats.HighLinks,
		"strong_links", stats.StrongLinks,
		"weak_links", stats.WeakLinks,
	)

	return clusters, stats
}

// collectEdges runs blocking and the pairwise link decision, returning
// accepted edges ordered by confidence grade, then by record index.
func (m *Matcher) collectEdges(records []domain.CanonicalRecord) []edge {
	phoneBuckets := make(map[string][]int)
	domainBuckets := make(map[string][]int)
	var nameOnly []int

	for i, rec := range records {
		blocked := false
		if rec.NormalizedPhone != "" {
			phoneBuckets[rec.NormalizedPhone] = append(phoneBuckets[rec.NormalizedPhone], i)
			blocked = true
		}
		if rec.RootDomain != "" {
			domainBuckets[rec.RootDomain] = append(domainBuckets[rec.RootDomain], i)
			blocked = true
		}
		if !blocked {
			// Name-only records are compared only against each other:
			// this bounds the quadratic fuzzy comparison and keeps
			// keyed records from linking on names alone.
			nameOnly = append(nameOnly, i)
		}
	}

	seen := make(map[[2]int]bool)
	var high, strong, weak []edge

	// Equal non-empty phone links unconditionally: a business may
	// legitimately trade under a different name per OEM certification.
	for _, key := range sortedKeys(phoneBuckets) {
		bucket := phoneBuckets[key]
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				if markPair(seen, bucket[i], bucket[j]) {
					high = append(high, edge{bucket[i], bucket[j], domain.ConfidenceHigh})
				}
			}
		}
	}

	// Shared root domain needs corroboration from phone or name before
	// linking: franchises and lead-gen networks share domains across
	// distinct businesses.
	for _, key := range sortedKeys(domainBuckets) {
		bucket := domainBuckets[key]
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				a, b := records[bucket[i]], records[bucket[j]]
				if !markPair(seen, bucket[i], bucket[j]) {
					continue
				}
				phonesEqual := a.NormalizedPhone != "" && a.NormalizedPhone == b.NormalizedPhone
				if phonesEqual || NameSimilarity(a.Name, b.Name) >= m.highThreshold {
					strong = append(strong, edge{bucket[i], bucket[j], domain.ConfidenceStrong})
				}
			}
		}
	}

	// The name-only path exists for multi-location franchises whose
	// phone and domain differ per branch. It is the most error-prone
	// path, so it additionally requires a shared state.
	for i := 0; i < len(nameOnly); i++ {
		for j := i + 1; j < len(nameOnly); j++ {
			a, b := records[nameOnly[i]], records[nameOnly[j]]
			if a.Address.State == "" || a.Address.State != b.Address.State {
				continue
			}
			if !markPair(seen, nameOnly[i], nameOnly[j]) {
				continue
			}
			if NameSimilarity(a.Name, b.Name) >= m.veryHighThreshold {
				weak = append(weak, edge{nameOnly[i], nameOnly[j], domain.ConfidenceWeak})
			}
		}
	}

	edges := make([]edge, 0, len(high)+len(strong)+len(weak))
	edges = append(edges, high...)
	edges = append(edges, strong...)
	edges = append(edges, weak...)
	return edges
}

// assemble turns union-find components into entity clusters, ordered by
// each cluster's lowest record index.
func (m *Matcher) assemble(
	records []domain.CanonicalRecord,
	uf *unionFind,
	memberBest []domain.MatchConfidence,
) []domain.EntityCluster {
	components := make(map[int][]int)
	for i := range records {
		root := uf.find(i)
		components[root] = append(components[root], i)
	}

	roots := make([]int, 0, len(components))
	for root := range components {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	clusters := make([]domain.EntityCluster, 0, len(roots))
	for _, root := range roots {
		indices := components[root]
		sort.Ints(indices)

		cluster := domain.EntityCluster{
			Records:          make([]domain.CanonicalRecord, 0, len(indices)),
			MemberConfidence: make([]domain.MatchConfidence, 0, len(indices)),
			Confidence:       domain.ConfidenceNone,
		}
		for _, idx := range indices {
			cluster.Records = append(cluster.Records, records[idx])
			cluster.MemberConfidence = append(cluster.MemberConfidence, memberBest[idx])
		}
		if len(indices) > 1 {
			cluster.Confidence = uf.minConfidence[root]
		}

		cluster.OEMSet = domain.SortedOEMSet(cluster.Records)
		for _, rec := range cluster.Records {
			cluster.Merged.Merge(rec.Capabilities)
		}
		cluster.Representative = pickRepresentative(cluster.Records)

		clusters = append(clusters, cluster)
	}

	return clusters
}

// pickRepresentative selects the member with the best quality signals,
// ties broken by batch position for determinism.
func pickRepresentative(records []domain.CanonicalRecord) int {
	best := 0
	for i := 1; i < len(records); i++ {
		a, b := records[i], records[best]
		switch {
		case a.Rating != b.Rating:
			if a.Rating > b.Rating {
				best = i
			}
		case a.ReviewCount != b.ReviewCount:
			if a.ReviewCount > b.ReviewCount {
				best = i
			}
		}
	}
	return best
}

// markPair records an (a, b) pair as compared, returning false if it was
// already decided under a stronger blocking key.
func markPair(seen map[[2]int]bool, a, b int) bool {
	if a > b {
		a, b = b, a
	}
	key := [2]int{a, b}
	if seen[key] {
		return false
	}
	seen[key] = true
	return true
}

func sortedKeys(buckets map[string][]int) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// unionFind tracks connected components plus the minimum confidence of
// the edges that actually joined each component. Edges are applied
// strongest first, so the recorded minimum is the weakest link a cluster
// depends on.
type unionFind struct {
	parent        []int
	minConfidence []domain.MatchConfidence
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent:        make([]int, n),
		minConfidence: make([]domain.MatchConfidence, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.minConfidence[i] = domain.ConfidenceHigh
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

// union merges the components of a and b. The lower root wins so that
// component roots are deterministic.
func (uf *unionFind) union(a, b int, confidence domain.MatchConfidence) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if ra > rb {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra

	minConf := uf.minConfidence[ra]
	if uf.minConfidence[rb] < minConf {
		minConf = uf.minConfidence[rb]
	}
	if confidence < minConf {
		minConf = confidence
	}
	uf.minConfidence[ra] = minConf
}
