// Package simulation replays canned emergency calls through the full triage
// pipeline against an in-memory hospital pool. It exists for demos and load
// sanity checks; nothing in the serving path depends on it.
package simulation

import (
	"context"
	"math/rand"

	"github.com/resculens/resculens/internal/domain/dispatch"
	"github.com/resculens/resculens/internal/domain/pipeline"
)

// Canned transcripts covering the urgency spectrum.
var simulatedCalls = []string{
	"Patient unconscious and not breathing",
	"Severe chest pain and sweating",
	"Multiple injuries after road accident",
	"High fever and vomiting",
	"Mild headache and dizziness",
}

// Bhopal city center; simulated callers are jittered around it.
const (
	baseLat   = 23.2599
	baseLon   = 77.4126
	jitterDeg = 0.05
)

// Case is the outcome of one simulated call.
type Case struct {
	CaseID           string `json:"case_id"`
	Transcript       string `json:"transcript"`
	Severity         string `json:"severity"`
	AssignedHospital string `json:"assigned_hospital"`
}

// HospitalState is the bed count of one hospital after the run.
type HospitalState struct {
	Name     string `json:"name"`
	BedsLeft int    `json:"beds_left"`
}

// Report is the full result of a simulation run.
type Report struct {
	Cases              []Case          `json:"cases"`
	FinalHospitalState []HospitalState `json:"final_hospital_state"`
}

// Runner drives simulated calls through a pipeline.
type Runner struct {
	pipeline *pipeline.Pipeline
	pool     *dispatch.Pool
	rng      *rand.Rand
}

// NewRunner creates a runner. The pool must be the same one the pipeline
// allocates from, so the final bed state reflects the simulated dispatches.
func NewRunner(p *pipeline.Pipeline, pool *dispatch.Pool, seed int64) *Runner {
	return &Runner{
		pipeline: p,
		pool:     pool,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Run processes numCases randomly chosen transcripts and returns the report.
// Each case gets a randomized caller location near the city center.
func (r *Runner) Run(ctx context.Context, numCases int) (*Report, error) {
	report := &Report{Cases: make([]Case, 0, numCases)}

	for i := 0; i < numCases; i++ {
		transcript := simulatedCalls[r.rng.Intn(len(simulatedCalls))]
		loc := &dispatch.Location{
			Lat: baseLat + (r.rng.Float64()*2-1)*jitterDeg,
			Lon: baseLon + (r.rng.Float64()*2-1)*jitterDeg,
		}

		outcome, err := r.pipeline.Process(ctx, transcript, loc)
		if err != nil {
			return nil, err
		}

		assigned := "NONE"
		if outcome.Assignment != nil {
			assigned = outcome.Assignment.Hospital
		}
		report.Cases = append(report.Cases, Case{
			CaseID:           outcome.Incident.ID.String(),
			Transcript:       transcript,
			Severity:         string(outcome.Incident.Urgency),
			AssignedHospital: assigned,
		})
	}

	for _, h := range r.pool.Snapshot() {
		report.FinalHospitalState = append(report.FinalHospitalState, HospitalState{
			Name:     h.Name,
			BedsLeft: h.Beds,
		})
	}
	return report, nil
}
