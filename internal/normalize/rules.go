package normalize

import "github.com/coperniq/leadrank/internal/domain"

// Well-known source IDs. The registry accepts any string key so that new
// locator sources can be added without touching this package's callers.
const (
	SourceGenerac   = "Generac"
	SourceKohler    = "Kohler"
	SourceCummins   = "Cummins"
	SourceBriggs    = "Briggs & Stratton"
	SourceTesla     = "Tesla"
	SourceEnphase   = "Enphase"
	SourceSolarEdge = "SolarEdge"
	SourceSMA       = "SMA"
	SourceFronius   = "Fronius"
)

// SourceRules maps a source's tier vocabulary to capability flags.
// Base applies to every record from the source; Tiers adds flags for a
// recognized tier label. An unknown tier contributes nothing beyond Base,
// and an unknown source contributes nothing at all: capability detection
// fails safe to "no capability" rather than guessing.
type SourceRules struct {
	Base  domain.Capabilities
	Tiers map[string]domain.Capabilities
}

// Registry holds the per-source rule tables. It is an explicit value
// constructed once at pipeline start and passed into the normalizer,
// never ambient global state, so a pipeline run stays a pure function of
// its inputs and configuration.
type Registry struct {
	rules map[string]SourceRules
}

// Rules returns the rule table for a source. ok is false for sources the
// registry does not know.
func (r *Registry) Rules(sourceID string) (SourceRules, bool) {
	rules, ok := r.rules[sourceID]
	return rules, ok
}

// Sources returns the number of registered sources.
func (r *Registry) Sources() int {
	return len(r.rules)
}

// NewRegistry builds the default rule tables for the locator networks the
// scraping collaborator currently covers.
func NewRegistry() *Registry {
	return &Registry{rules: map[string]SourceRules{
		SourceGenerac: {
			// Every Generac dealer installs standby generators.
			Base: domain.Capabilities{HasGenerator: true, HasElectrical: true},
			Tiers: map[string]domain.Capabilities{
				// Premier dealers are full-service: sales, install and
				// ongoing service, typically with commercial crews.
				"Premier":    {IsCommercial: true, IsResidential: true, HasOMCapability: true},
				"Elite Plus": {IsResidential: true},
				"Elite":      {IsResidential: true},
			},
		},
		SourceKohler: {
			Base: domain.Capabilities{HasGenerator: true, HasElectrical: true, IsResidential: true},
			Tiers: map[string]domain.Capabilities{
				"Platinum": {IsCommercial: true},
				"Gold":     {},
			},
		},
		SourceCummins: {
			// Cummins dealers skew commercial/industrial.
			Base: domain.Capabilities{HasGenerator: true, HasElectrical: true, IsCommercial: true},
			Tiers: map[string]domain.Capabilities{
				"Power Pro": {IsResidential: true},
			},
		},
		SourceBriggs: {
			Base: domain.Capabilities{HasGenerator: true, HasElectrical: true, IsResidential: true},
			Tiers: map[string]domain.Capabilities{
				"Power Pro Elite": {IsCommercial: true},
			},
		},
		SourceTesla: {
			// Powerwall certification implies battery + electrical work.
			Base: domain.Capabilities{HasBattery: true, HasElectrical: true},
			Tiers: map[string]domain.Capabilities{
				// Premier installers handle Solar Roof, which adds
				// roofing and usually commercial-scale crews.
				"Premier":   {HasSolar: true, HasRoofing: true, IsCommercial: true, IsResidential: true},
				"Certified": {IsResidential: true},
			},
		},
		SourceEnphase: {
			// All Enphase installers are microinverter solar shops.
			Base: domain.Capabilities{
				HasSolar: true, HasMicroinverters: true,
				HasElectrical: true, HasRoofing: true, IsResidential: true,
			},
			Tiers: map[string]domain.Capabilities{
				"Platinum": {HasBattery: true, IsCommercial: true},
				"Gold":     {HasBattery: true},
				"Silver":   {},
			},
		},
		SourceSolarEdge: {
			Base: domain.Capabilities{
				HasSolar: true, HasInverters: true,
				HasElectrical: true, HasRoofing: true,
			},
			Tiers: map[string]domain.Capabilities{
				"Preferred": {HasBattery: true, IsCommercial: true},
				"Elite":     {HasBattery: true},
			},
		},
		SourceSMA: {
			Base: domain.Capabilities{HasSolar: true, HasInverters: true, HasElectrical: true},
			Tiers: map[string]domain.Capabilities{
				"PowerUP": {IsCommercial: true},
			},
		},
		SourceFronius: {
			Base: domain.Capabilities{HasSolar: true, HasInverters: true, HasElectrical: true},
			Tiers: map[string]domain.Capabilities{
				"Premium Plus": {HasBattery: true, IsCommercial: true},
				"Premium":      {HasBattery: true},
			},
		},
	}}
}
