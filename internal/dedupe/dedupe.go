// Package dedupe collapses duplicate records produced within a single
// source's scrape run. Locator result pages overlap between nearby ZIP
// queries, so the same dealer shows up once per query.
package dedupe

import "github.com/coperniq/leadrank/internal/domain"

// Stats reports what one dedup pass did.
type Stats struct {
	Input     int
	Kept      int
	Collapsed int
}

// Dedupe collapses records sharing a non-empty normalized phone within
// one source batch. The first-seen record is kept, so the result is
// deterministic on input order; certifications from later duplicates are
// merged into the kept record. Records with an empty phone always pass
// through, even if otherwise identical: without a reliable key, dropping
// them risks merging two distinct businesses, and a false negative is the
// cheaper mistake.
func Dedupe(records []domain.CanonicalRecord) ([]domain.CanonicalRecord, Stats) {
	stats := Stats{Input: len(records)}

	kept := make([]domain.CanonicalRecord, 0, len(records))
	byPhone := make(map[string]int) // normalized phone -> index into kept

	for _, rec := range records {
		if rec.NormalizedPhone == "" {
			kept = append(kept, rec)
			continue
		}

		if i, seen := byPhone[rec.NormalizedPhone]; seen {
			kept[i].Certifications = domain.MergeCertifications(
				kept[i].Certifications, rec.Certifications)
			// The duplicate's flags already reflect its own tier and
			// certification text, so an OR-merge carries over signals
			// the kept record's text lacked.
			kept[i].Capabilities.Merge(rec.Capabilities)
			stats.Collapsed++
			continue
		}

		byPhone[rec.NormalizedPhone] = len(kept)
		kept = append(kept, rec)
	}

	stats.Kept = len(kept)
	return kept, stats
}
