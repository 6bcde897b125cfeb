// Package dispatch scores eligible hospitals for an incident and atomically
// reserves a bed at the best-scoring one. The hospital pool is the only
// shared mutable resource in the engine; every allocation runs as a single
// atomic unit against it.
package dispatch

import "github.com/resculens/resculens/internal/domain/triage"

// Location is a caller position in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Hospital is one entry in the pool. Beds is the only field mutated after
// creation and never goes below zero.
type Hospital struct {
	Name         string   `json:"name"`
	Lat          float64  `json:"lat"`
	Lon          float64  `json:"lon"`
	Capabilities []string `json:"capabilities"`
	Beds         int      `json:"beds"`
}

func (h *Hospital) hasAnyCapability(required []string) bool {
	for _, want := range required {
		for _, have := range h.Capabilities {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Assignment is the outcome of a successful allocation.
type Assignment struct {
	Hospital      string  `json:"hospital"`
	Score         float64 `json:"score"`
	RemainingBeds int     `json:"remaining_beds"`
	Reason        string  `json:"reason"`
}

// SeverityCapabilities maps an urgency tier to the capabilities a hospital
// must have at least one of. An absent or empty entry means no capability
// filter for that tier.
type SeverityCapabilities map[triage.Severity][]string

// DefaultSeverityCapabilities is the built-in eligibility map.
func DefaultSeverityCapabilities() SeverityCapabilities {
	return SeverityCapabilities{
		triage.SeverityCritical: {"cardiac", "trauma", "icu"},
		triage.SeverityHigh:     {"emergency", "icu"},
		triage.SeverityMedium:   {"emergency", "general"},
		triage.SeverityLow:      {},
	}
}
