// Package jurisdiction tags entity clusters with static state incentive
// data and deadline urgency. Everything here is a table lookup over a
// cluster's majority state; no network calls, no mutable state.
package jurisdiction

import "github.com/coperniq/leadrank/internal/domain"

// StateInfo describes one state's incentive market.
type StateInfo struct {
	Name     string
	Program  string
	Priority domain.StatePriority
}

// incentiveStates maps two-letter state codes to their incentive market
// classification. HIGH states run active SREC or equivalent certificate
// markets; MEDIUM states have legacy or closed-registration programs
// that still signal solar-friendly regulation.
var incentiveStates = map[string]StateInfo{
	"CA": {Name: "California", Program: "SGIP + NEM", Priority: domain.StatePriorityHigh},
	"TX": {Name: "Texas", Program: "Deregulated REC market", Priority: domain.StatePriorityHigh},
	"PA": {Name: "Pennsylvania", Program: "SREC", Priority: domain.StatePriorityHigh},
	"MA": {Name: "Massachusetts", Program: "SMART", Priority: domain.StatePriorityHigh},
	"NJ": {Name: "New Jersey", Program: "SREC-II / SuSI", Priority: domain.StatePriorityHigh},
	"FL": {Name: "Florida", Program: "Net metering + property tax exemption", Priority: domain.StatePriorityHigh},

	"OH": {Name: "Ohio", Program: "SREC (legacy)", Priority: domain.StatePriorityMedium},
	"MD": {Name: "Maryland", Program: "SREC", Priority: domain.StatePriorityMedium},
	"DC": {Name: "District of Columbia", Program: "SREC", Priority: domain.StatePriorityMedium},
	"DE": {Name: "Delaware", Program: "SREC", Priority: domain.StatePriorityMedium},
	"NH": {Name: "New Hampshire", Program: "REC", Priority: domain.StatePriorityMedium},
	"RI": {Name: "Rhode Island", Program: "REG program", Priority: domain.StatePriorityMedium},
	"CT": {Name: "Connecticut", Program: "Residential Renewable Energy Solutions", Priority: domain.StatePriorityMedium},
	"IL": {Name: "Illinois", Program: "Illinois Shines", Priority: domain.StatePriorityMedium},
}

// LookupState returns the incentive info for a two-letter state code.
// Unknown states get a LOW-priority zero entry.
func LookupState(code string) (StateInfo, bool) {
	info, ok := incentiveStates[code]
	if !ok {
		return StateInfo{Priority: domain.StatePriorityLow}, false
	}
	return info, true
}
