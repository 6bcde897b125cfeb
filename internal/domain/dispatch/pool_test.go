package dispatch

import (
	"math"
	"sync"
	"testing"

	"github.com/resculens/resculens/internal/domain/triage"
)

func testPool(hospitals ...*Hospital) *Pool {
	return NewPool(hospitals, DefaultSeverityCapabilities())
}

func TestAllocate_PicksNearestEligible(t *testing.T) {
	near := &Hospital{Name: "near", Lat: 23.25, Lon: 77.40, Capabilities: []string{"cardiac"}, Beds: 3}
	far := &Hospital{Name: "far", Lat: 24.00, Lon: 78.00, Capabilities: []string{"cardiac"}, Beds: 3}
	pool := testPool(near, far)

	loc := &Location{Lat: 23.25, Lon: 77.40}
	a, err := pool.Allocate(loc, triage.SeverityCritical)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == nil || a.Hospital != "near" {
		t.Fatalf("expected near hospital, got %+v", a)
	}
	if a.RemainingBeds != 2 {
		t.Errorf("expected 2 remaining beds, got %d", a.RemainingBeds)
	}
	if near.Beds != 2 || far.Beds != 3 {
		t.Errorf("bed state wrong: near=%d far=%d", near.Beds, far.Beds)
	}
}

func TestAllocate_ScoreAtZeroDistance(t *testing.T) {
	h := &Hospital{Name: "here", Lat: 23.25, Lon: 77.40, Capabilities: []string{"icu"}, Beds: 5}
	pool := testPool(h)

	a, err := pool.Allocate(&Location{Lat: 23.25, Lon: 77.40}, triage.SeverityCritical)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// distance 0 => 0.6*(1/1) + 0.4*(5/10)
	want := 0.6 + 0.4*0.5
	if math.Abs(a.Score-want) > 1e-9 {
		t.Errorf("expected score %f, got %f", want, a.Score)
	}
}

func TestAllocate_CapabilityFilter(t *testing.T) {
	clinic := &Hospital{Name: "clinic", Lat: 23.25, Lon: 77.40, Capabilities: []string{"general"}, Beds: 10}
	cardiac := &Hospital{Name: "cardiac", Lat: 23.90, Lon: 77.90, Capabilities: []string{"cardiac"}, Beds: 1}
	pool := testPool(clinic, cardiac)

	// CRITICAL requires cardiac/trauma/icu; the nearby clinic is ineligible.
	a, err := pool.Allocate(&Location{Lat: 23.25, Lon: 77.40}, triage.SeverityCritical)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == nil || a.Hospital != "cardiac" {
		t.Fatalf("expected cardiac hospital, got %+v", a)
	}
}

func TestAllocate_NoCapabilityFilterForLow(t *testing.T) {
	clinic := &Hospital{Name: "clinic", Lat: 23.25, Lon: 77.40, Capabilities: []string{"general"}, Beds: 2}
	pool := testPool(clinic)

	a, err := pool.Allocate(&Location{Lat: 23.25, Lon: 77.40}, triage.SeverityLow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == nil || a.Hospital != "clinic" {
		t.Fatalf("expected clinic, got %+v", a)
	}
}

func TestAllocate_NoEligibleHospitals(t *testing.T) {
	empty := &Hospital{Name: "empty", Lat: 23.25, Lon: 77.40, Capabilities: []string{"icu"}, Beds: 0}
	pool := testPool(empty)

	a, err := pool.Allocate(&Location{Lat: 23.25, Lon: 77.40}, triage.SeverityCritical)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != nil {
		t.Errorf("expected empty result, got %+v", a)
	}
	if empty.Beds != 0 {
		t.Errorf("bed count mutated: %d", empty.Beds)
	}
}

func TestAllocate_MissingLocation(t *testing.T) {
	h := &Hospital{Name: "h", Lat: 23.25, Lon: 77.40, Capabilities: []string{"icu"}, Beds: 2}
	pool := testPool(h)

	_, err := pool.Allocate(nil, triage.SeverityCritical)
	if err != ErrNoLocation {
		t.Fatalf("expected ErrNoLocation, got %v", err)
	}
	if h.Beds != 2 {
		t.Errorf("bed state mutated on failure: %d", h.Beds)
	}
}

func TestAllocate_MissingLocationNoEligible(t *testing.T) {
	// With nothing eligible there is nothing to score, so a missing location
	// is the soft no-capacity outcome, not an error.
	pool := testPool(&Hospital{Name: "full", Lat: 0, Lon: 0, Capabilities: []string{"icu"}, Beds: 0})
	a, err := pool.Allocate(nil, triage.SeverityCritical)
	if err != nil || a != nil {
		t.Errorf("expected empty result, got %+v err=%v", a, err)
	}
}

func TestAllocate_DeterministicFallthrough(t *testing.T) {
	best := &Hospital{Name: "best", Lat: 23.25, Lon: 77.40, Capabilities: []string{"icu"}, Beds: 2}
	next := &Hospital{Name: "next", Lat: 23.30, Lon: 77.45, Capabilities: []string{"icu"}, Beds: 2}
	pool := testPool(best, next)
	loc := &Location{Lat: 23.25, Lon: 77.40}

	var got []string
	for i := 0; i < 4; i++ {
		a, err := pool.Allocate(loc, triage.SeverityCritical)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a == nil {
			t.Fatalf("expected assignment on call %d", i)
		}
		got = append(got, a.Hospital)
	}
	want := []string{"best", "best", "next", "next"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d: expected %s, got %s (all: %v)", i, want[i], got[i], got)
		}
	}

	// Pool exhausted.
	a, err := pool.Allocate(loc, triage.SeverityCritical)
	if err != nil || a != nil {
		t.Errorf("expected exhaustion, got %+v err=%v", a, err)
	}
}

func TestAllocate_TieBreaksByPoolOrder(t *testing.T) {
	first := &Hospital{Name: "first", Lat: 23.25, Lon: 77.40, Capabilities: []string{"icu"}, Beds: 5}
	second := &Hospital{Name: "second", Lat: 23.25, Lon: 77.40, Capabilities: []string{"icu"}, Beds: 5}
	pool := testPool(first, second)

	a, err := pool.Allocate(&Location{Lat: 23.25, Lon: 77.40}, triage.SeverityCritical)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Hospital != "first" {
		t.Errorf("expected tie to resolve to first, got %s", a.Hospital)
	}
}

func TestAllocate_ConcurrentNeverOversells(t *testing.T) {
	const (
		beds    = 5
		callers = 50
	)
	h := &Hospital{Name: "only", Lat: 23.25, Lon: 77.40, Capabilities: []string{"icu"}, Beds: beds}
	pool := testPool(h)
	loc := &Location{Lat: 23.25, Lon: 77.40}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := pool.Allocate(loc, triage.SeverityCritical)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if a != nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != beds {
		t.Errorf("expected exactly %d winners, got %d", beds, wins)
	}
	if h.Beds != 0 {
		t.Errorf("expected 0 beds left, got %d", h.Beds)
	}
}

func TestAllocate_RaceForLastBed(t *testing.T) {
	h := &Hospital{Name: "only", Lat: 23.25, Lon: 77.40, Capabilities: []string{"icu"}, Beds: 1}
	pool := testPool(h)
	loc := &Location{Lat: 23.25, Lon: 77.40}

	results := make(chan *Assignment, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, err := pool.Allocate(loc, triage.SeverityCritical)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results <- a
		}()
	}
	wg.Wait()
	close(results)

	var winners int
	for a := range results {
		if a != nil {
			winners++
			if a.RemainingBeds != 0 {
				t.Errorf("winner should see 0 remaining beds, got %d", a.RemainingBeds)
			}
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly one winner, got %d", winners)
	}
}

func TestHaversine(t *testing.T) {
	// Bhopal to Indore is roughly 168 km as the crow flies.
	d := haversineKm(23.2599, 77.4126, 22.7196, 75.8577)
	if d < 160 || d > 175 {
		t.Errorf("unexpected distance: %f km", d)
	}
	if z := haversineKm(23.25, 77.40, 23.25, 77.40); z != 0 {
		t.Errorf("expected zero distance, got %f", z)
	}
}

func TestSnapshot(t *testing.T) {
	h := &Hospital{Name: "h", Lat: 1, Lon: 1, Capabilities: []string{"icu"}, Beds: 3}
	pool := testPool(h)

	snap := pool.Snapshot()
	if len(snap) != 1 || snap[0].Beds != 3 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	snap[0].Beds = 99
	if h.Beds != 3 {
		t.Error("snapshot mutation leaked into pool")
	}
}
