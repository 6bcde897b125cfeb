// Package pipeline runs a raw transcript through the full triage flow:
// entity extraction, canonicalization, classification, ledger creation and,
// when the tier calls for it, bed allocation.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/resculens/resculens/internal/domain/dispatch"
	"github.com/resculens/resculens/internal/domain/incident"
	"github.com/resculens/resculens/internal/domain/symptom"
	"github.com/resculens/resculens/internal/domain/triage"
)

// Pipeline wires the engine components together. All dependencies are
// injected; the pipeline owns no state of its own.
type Pipeline struct {
	extractor symptom.Extractor
	catalog   *symptom.Catalog
	incidents *incident.Service
	pool      *dispatch.Pool
	logger    zerolog.Logger
}

func New(extractor symptom.Extractor, catalog *symptom.Catalog, incidents *incident.Service, pool *dispatch.Pool, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		catalog:   catalog,
		incidents: incidents,
		pool:      pool,
		logger:    logger,
	}
}

// Outcome is the result of processing one transcript.
type Outcome struct {
	Incident   *incident.Incident   `json:"incident"`
	Matches    []symptom.Match      `json:"matches"`
	Assignment *dispatch.Assignment `json:"assignment,omitempty"`
}

// Process triages a transcript and, for dispatch-required tiers with a known
// location, reserves a bed. A failed or empty allocation never fails the
// triage itself: the incident is already on the ledger and the caller
// escalates manually.
func (p *Pipeline) Process(ctx context.Context, transcript string, loc *dispatch.Location) (*Outcome, error) {
	entities, err := p.extractor.Extract(ctx, transcript)
	if err != nil {
		return nil, err
	}

	symptoms, matches := p.catalog.Normalize(entities)
	result := triage.Classify(symptoms)

	var lat, lon *float64
	if loc != nil {
		lat, lon = &loc.Lat, &loc.Lon
	}
	inc, err := p.incidents.Create(ctx, transcript, symptoms, result, lat, lon)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{Incident: inc, Matches: matches}
	if !result.DispatchRequired || loc == nil {
		return outcome, nil
	}

	assignment, err := p.pool.Allocate(loc, result.Urgency)
	if err != nil {
		p.logger.Error().Err(err).Str("incident_id", inc.ID.String()).Msg("allocation failed")
		return outcome, nil
	}
	if assignment == nil {
		p.logger.Warn().Str("incident_id", inc.ID.String()).Str("urgency", string(result.Urgency)).Msg("no eligible hospital")
		return outcome, nil
	}

	outcome.Assignment = assignment
	if updated, err := p.incidents.LogEvent(ctx, inc.ID, incident.EventDispatchRecommended, map[string]any{
		"hospital": assignment.Hospital,
		"score":    assignment.Score,
	}); err == nil {
		outcome.Incident = updated
	}
	return outcome, nil
}
