// geo.go holds the static high-income ZIP tables behind the geographic
// dimension. Contractors serving wealthy territories sell to customers
// who pay for quality work, so territory is a sales-priority signal.
// Source: IRS/Census high-income ZIP data for the six covered states.
package score

// topZIPRank bounds the premium band within each state's list.
const topZIPRank = 10

// wealthyZIPs lists the highest-income ZIP codes per covered state,
// ordered richest first. The first ten entries of each list form the
// premium band.
var wealthyZIPs = map[string][]string{
	"CA": {
		"94027",          // Atherton
		"94301", "94304", // Palo Alto
		"94022", // Los Altos
		"94024", // Los Altos Hills
		"90210", "90212", // Beverly Hills
		"90265", // Malibu
		"90272", // Pacific Palisades
		"92657", "92660", "92662", // Newport Beach
		"92037", // La Jolla
		"92067", // Rancho Santa Fe
		"94920", // Belvedere Tiburon
		"94028", // Portola Valley
		"94956", // Ross
		"93108", // Montecito
		"92625", // Corona del Mar
	},
	"TX": {
		"77019", // River Oaks
		"77024", // Memorial
		"77005", // West University
		"77056", // Galleria
		"75205", "75225", // Highland Park
		"75229", // Preston Hollow
		"78746", // Westlake Hills
		"78733", // Westlake
		"78730", // Barton Creek
		"78734", // Lakeway
		"77007", // Houston Heights
		"76107", // Fort Worth Rivercrest
	},
	"PA": {
		"19035", // Gladwyne
		"19003", // Ardmore
		"19087", // Wayne
		"19085", // Villanova
		"19301", // Paoli
		"15215", // Fox Chapel
		"15238", // Sewickley
		"19010", // Bryn Mawr
		"19041", // Haverford
		"19066", // Merion Station
	},
	"MA": {
		"02467", // Chestnut Hill
		"02481", // Wellesley
		"02492", // Needham
		"02445", // Brookline
		"02482", // Wellesley Hills
		"02459", // Newton Centre
		"02468", // Waban
		"01752", // Marlborough
		"02142", "02138", "02139", // Cambridge
	},
	"NJ": {
		"07078", // Short Hills
		"07920", // Basking Ridge
		"07931", // Far Hills
		"07039", // Livingston
		"07726", // Englishtown
		"07733", // Holmdel
		"08540", // Princeton
		"07869", // Randolph
		"07046", // Mountain Lakes
		"07670", // Tenafly
		"07450", // Ridgewood
	},
	"FL": {
		"33109", // Fisher Island
		"33158", // Pinecrest
		"33156", // Palmetto Bay
		"33480", // Palm Beach
		"33455", // Hobe Sound
		"34102", "34103", // Naples
		"33606", // South Tampa
		"33629", // Bayshore
		"33139", // Miami Beach
		"33004", // Dania Beach
	},
}

// zipBand classifies one member's territory.
type zipBand int

const (
	bandOutside zipBand = iota
	bandCoveredState
	bandWealthy
	bandTop
)

// classifyZIP grades a state/ZIP pair against the wealthy territory
// tables.
func classifyZIP(state, zip string) zipBand {
	zips, ok := wealthyZIPs[state]
	if !ok {
		return bandOutside
	}
	for i, z := range zips {
		if z == zip {
			if i < topZIPRank {
				return bandTop
			}
			return bandWealthy
		}
	}
	return bandCoveredState
}
