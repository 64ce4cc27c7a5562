package match

import (
	"testing"

	"github.com/coperniq/leadrank/internal/config"
	"github.com/coperniq/leadrank/internal/domain"
	"github.com/coperniq/leadrank/internal/logging"
)

func newTestMatcher() *Matcher {
	return NewMatcher(config.Default().Matching, logging.Nop{})
}

func record(i int, name, phone, rootDomain, state, source string) domain.CanonicalRecord {
	return domain.CanonicalRecord{
		Name:            name,
		NormalizedPhone: phone,
		RootDomain:      rootDomain,
		Address:         domain.Address{State: state},
		SourceID:        source,
		BatchIndex:      i,
	}
}

func TestMatch_SharedPhoneLinksRegardlessOfName(t *testing.T) {
	m := newTestMatcher()

	clusters, stats := m.Match([]domain.CanonicalRecord{
		record(0, "Acme Electric", "5551234567", "", "TX", "Generac"),
		record(1, "Completely Different Name", "5551234567", "", "CA", "Tesla"),
	})

	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	if clusters[0].Confidence != domain.ConfidenceHigh {
		t.Errorf("confidence = %v, want HIGH", clusters[0].Confidence)
	}
	if stats.HighLinks != 1 {
		t.Errorf("high links = %d, want 1", stats.HighLinks)
	}
}

func TestMatch_SharedDomainNeedsNameAgreement(t *testing.T) {
	m := newTestMatcher()

	// Similar names on a shared domain: STRONG link.
	clusters, _ := m.Match([]domain.CanonicalRecord{
		record(0, "Acme Electric LLC", "1111111111", "acme.com", "TX", "Generac"),
		record(1, "Acme Electric Inc", "2222222222", "acme.com", "TX", "Tesla"),
	})
	if len(clusters) != 1 {
		t.Fatalf("similar names on shared domain: expected 1 cluster, got %d", len(clusters))
	}
	if clusters[0].Confidence != domain.ConfidenceStrong {
		t.Errorf("confidence = %v, want STRONG", clusters[0].Confidence)
	}

	// Dissimilar names on a shared domain: no link (franchise portal).
	clusters, _ = m.Match([]domain.CanonicalRecord{
		record(0, "Acme Electric", "1111111111", "dealernetwork.com", "TX", "Generac"),
		record(1, "Bravo Plumbing", "2222222222", "dealernetwork.com", "TX", "Tesla"),
	})
	if len(clusters) != 2 {
		t.Fatalf("dissimilar names on shared domain: expected 2 clusters, got %d", len(clusters))
	}
}

func TestMatch_NameOnlyRequiresSameState(t *testing.T) {
	m := newTestMatcher()

	// Very similar names, same state, no phone or domain: WEAK link.
	clusters, stats := m.Match([]domain.CanonicalRecord{
		record(0, "Sunshine Solar Services LLC", "", "", "CA", "Enphase"),
		record(1, "Sunshine Solar Services", "", "", "CA", "SolarEdge"),
	})
	if len(clusters) != 1 {
		t.Fatalf("same state: expected 1 cluster, got %d", len(clusters))
	}
	if clusters[0].Confidence != domain.ConfidenceWeak {
		t.Errorf("confidence = %v, want WEAK", clusters[0].Confidence)
	}
	if stats.WeakLinks != 1 {
		t.Errorf("weak links = %d, want 1", stats.WeakLinks)
	}

	// Identical names in different states stay separate.
	clusters, _ = m.Match([]domain.CanonicalRecord{
		record(0, "Sunshine Solar Services", "", "", "CA", "Enphase"),
		record(1, "Sunshine Solar Services", "", "", "TX", "SolarEdge"),
	})
	if len(clusters) != 2 {
		t.Fatalf("different states: expected 2 clusters, got %d", len(clusters))
	}

	// Empty states never satisfy the same-state requirement.
	clusters, _ = m.Match([]domain.CanonicalRecord{
		record(0, "Sunshine Solar Services", "", "", "", "Enphase"),
		record(1, "Sunshine Solar Services", "", "", "", "SolarEdge"),
	})
	if len(clusters) != 2 {
		t.Fatalf("empty states: expected 2 clusters, got %d", len(clusters))
	}
}

func TestMatch_KeyedRecordsNeverLinkOnNameAlone(t *testing.T) {
	m := newTestMatcher()

	// Both records carry identifiers that disagree; identical names must
	// not link them.
	clusters, _ := m.Match([]domain.CanonicalRecord{
		record(0, "Acme Electric", "1111111111", "acme-tx.com", "TX", "Generac"),
		record(1, "Acme Electric", "2222222222", "acme-austin.com", "TX", "Kohler"),
	})
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
}

func TestMatch_TransitiveClustering(t *testing.T) {
	m := newTestMatcher()

	// A links to B by phone, B links to C by domain. All three cluster,
	// and the cluster grade is the weakest spanning edge.
	clusters, _ := m.Match([]domain.CanonicalRecord{
		record(0, "Acme Electric", "5551234567", "", "TX", "Generac"),
		record(1, "Acme Electric LLC", "5551234567", "acme.com", "TX", "Tesla"),
		record(2, "Acme Electric Co", "9999999999", "acme.com", "TX", "Enphase"),
	})

	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	c := clusters[0]
	if c.Size() != 3 {
		t.Fatalf("cluster size = %d, want 3", c.Size())
	}
	if c.Confidence != domain.ConfidenceStrong {
		t.Errorf("confidence = %v, want STRONG (weakest spanning edge)", c.Confidence)
	}

	wantOEMs := []string{"Enphase", "Generac", "Tesla"}
	if len(c.OEMSet) != len(wantOEMs) {
		t.Fatalf("oem set = %v, want %v", c.OEMSet, wantOEMs)
	}
	for i, oem := range wantOEMs {
		if c.OEMSet[i] != oem {
			t.Errorf("oem set = %v, want %v", c.OEMSet, wantOEMs)
			break
		}
	}
}

func TestMatch_Singleton(t *testing.T) {
	m := newTestMatcher()

	clusters, stats := m.Match([]domain.CanonicalRecord{
		record(0, "Lonely Shop", "5551234567", "lonely.com", "OH", "Generac"),
	})

	if len(clusters) != 1 || clusters[0].Size() != 1 {
		t.Fatalf("expected one singleton, got %v", clusters)
	}
	if clusters[0].Confidence != domain.ConfidenceNone {
		t.Errorf("singleton confidence = %v, want NONE", clusters[0].Confidence)
	}
	if stats.Singletons != 1 {
		t.Errorf("singletons = %d, want 1", stats.Singletons)
	}
}

func TestMatch_Deterministic(t *testing.T) {
	m := newTestMatcher()

	records := []domain.CanonicalRecord{
		record(0, "Acme Electric", "5551234567", "", "TX", "Generac"),
		record(1, "Bravo Solar", "", "bravo.com", "CA", "Tesla"),
		record(2, "Acme Electric LLC", "5551234567", "acme.com", "TX", "Kohler"),
		record(3, "Bravo Solar Inc", "", "bravo.com", "CA", "Enphase"),
		record(4, "Charlie HVAC", "", "", "NJ", "Cummins"),
	}

	first, _ := m.Match(records)
	for run := 0; run < 10; run++ {
		again, _ := m.Match(records)
		if len(again) != len(first) {
			t.Fatalf("run %d: cluster count changed", run)
		}
		for i := range first {
			if first[i].Size() != again[i].Size() ||
				first[i].Confidence != again[i].Confidence ||
				first[i].Records[0].BatchIndex != again[i].Records[0].BatchIndex {
				t.Fatalf("run %d: cluster %d differs", run, i)
			}
		}
	}
}

func TestMatch_RepresentativeByQualitySignals(t *testing.T) {
	m := newTestMatcher()

	a := record(0, "Acme Electric", "5551234567", "", "TX", "Generac")
	a.Rating = 4.2
	a.ReviewCount = 10
	b := record(1, "Acme Electric LLC", "5551234567", "", "TX", "Tesla")
	b.Rating = 4.9
	b.ReviewCount = 3

	clusters, _ := m.Match([]domain.CanonicalRecord{a, b})
	if len(clusters) != 1 {
		t.Fatalf("expected 1 cluster, got %d", len(clusters))
	}
	if clusters[0].Primary().Name != "Acme Electric LLC" {
		t.Errorf("representative = %q, want the higher-rated member", clusters[0].Primary().Name)
	}
}

func TestMatch_MergedCapabilities(t *testing.T) {
	m := newTestMatcher()

	a := record(0, "Acme Electric", "5551234567", "", "TX", "Generac")
	a.Capabilities = domain.Capabilities{HasGenerator: true}
	b := record(1, "Acme Electric", "5551234567", "", "TX", "Tesla")
	b.Capabilities = domain.Capabilities{HasBattery: true, HasSolar: true}

	clusters, _ := m.Match([]domain.CanonicalRecord{a, b})
	merged := clusters[0].Merged
	if !merged.HasGenerator || !merged.HasBattery || !merged.HasSolar {
		t.Errorf("merged capabilities = %+v, want union of members", merged)
	}
}
