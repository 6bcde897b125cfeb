package dispatch

import (
	"errors"
	"fmt"
	"sync"

	"github.com/resculens/resculens/internal/domain/triage"
)

// ErrNoLocation is returned when an allocation is requested without a caller
// location while at least one hospital is eligible. Scoring is impossible
// without a position, so this is a caller bug, not a capacity condition.
var ErrNoLocation = errors.New("allocation requires a caller location")

// Scoring constants. The bed divisor normalizes small integer bed counts
// onto roughly the same scale as the distance term; tune it if a deployment
// tracks beds in the hundreds.
const (
	distanceWeight = 0.6
	capacityWeight = 0.4
	bedScale       = 10.0
)

// Pool owns the hospital roster. Hospitals keep their insertion order so
// score ties resolve deterministically, and all bed-count reads and writes
// happen under the pool mutex.
type Pool struct {
	mu        sync.Mutex
	hospitals []*Hospital
	caps      SeverityCapabilities
}

// NewPool builds a pool over the given hospitals. The slice order is the
// tie-break order for equal scores.
func NewPool(hospitals []*Hospital, caps SeverityCapabilities) *Pool {
	return &Pool{hospitals: hospitals, caps: caps}
}

// Allocate filters the pool by capacity and capability, scores the eligible
// hospitals against the caller location, and reserves one bed at the top
// scorer. The filter-score-decrement sequence is one atomic unit: two
// concurrent calls can never both win the same last bed.
//
// A nil result with a nil error means no hospital is eligible; the caller
// decides whether to escalate manually.
func (p *Pool) Allocate(loc *Location, severity triage.Severity) (*Assignment, error) {
	required := p.caps[severity]

	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		best      *Hospital
		bestScore float64
	)
	for _, h := range p.hospitals {
		if h.Beds <= 0 {
			continue
		}
		if len(required) > 0 && !h.hasAnyCapability(required) {
			continue
		}
		if loc == nil {
			// Eligible hospitals exist but there is nothing to score
			// against. Bed state is untouched.
			return nil, ErrNoLocation
		}

		distance := haversineKm(loc.Lat, loc.Lon, h.Lat, h.Lon)
		score := distanceWeight*(1/(distance+1)) + capacityWeight*(float64(h.Beds)/bedScale)
		if best == nil || score > bestScore {
			best = h
			bestScore = score
		}
	}

	if best == nil {
		return nil, nil
	}

	best.Beds--
	return &Assignment{
		Hospital:      best.Name,
		Score:         bestScore,
		RemainingBeds: best.Beds,
		Reason:        fmt.Sprintf("Assigned (%s); remaining beds: %d", severity, best.Beds),
	}, nil
}

// Snapshot returns a copy of the roster for read-only consumers.
func (p *Pool) Snapshot() []Hospital {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Hospital, 0, len(p.hospitals))
	for _, h := range p.hospitals {
		out = append(out, *h)
	}
	return out
}
