// Package incident owns the incident lifecycle: creation, dispatch
// confirmation and override, and the append-only audit trail behind each
// record.
package incident

import (
	"time"

	"github.com/google/uuid"

	"github.com/resculens/resculens/internal/domain/triage"
)

// Incident statuses. TRIAGED is initial; an override may follow a
// confirmation (a human correcting an earlier decision), but not the other
// way around without re-triage.
const (
	StatusTriaged            = "TRIAGED"
	StatusDispatchConfirmed  = "DISPATCH_CONFIRMED"
	StatusDispatchOverridden = "DISPATCH_OVERRIDDEN"
)

// Audit event names.
const (
	EventCreated             = "INCIDENT_CREATED"
	EventDispatchConfirmed   = "DISPATCH_CONFIRMED"
	EventDispatchOverridden  = "DISPATCH_OVERRIDDEN"
	EventDispatchRecommended = "DISPATCH_RECOMMENDED"
)

// AuditEntry is one immutable line in an incident's history.
type AuditEntry struct {
	Timestamp time.Time      `db:"ts" json:"timestamp"`
	Event     string         `db:"event" json:"event"`
	Details   map[string]any `db:"details" json:"details"`
}

// Incident is exclusively owned by the ledger once created; callers work
// through the service and never hold a mutable reference.
type Incident struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
	Lat               *float64        `db:"lat" json:"lat,omitempty"`
	Lon               *float64        `db:"lon" json:"lon,omitempty"`
	InputText         string          `db:"input_text" json:"input_text"`
	Symptoms          []string        `db:"symptoms" json:"symptoms"`
	Urgency           triage.Severity `db:"urgency" json:"urgency"`
	DispatchRequired  bool            `db:"dispatch_required" json:"dispatch_required"`
	Reasoning         []string        `db:"reasoning" json:"reasoning"`
	Status            string          `db:"status" json:"status"`
	DispatchDecision  map[string]any  `db:"dispatch_decision" json:"dispatch_decision,omitempty"`
	DispatchConfirmed bool            `db:"dispatch_confirmed" json:"dispatch_confirmed"`
	OverrideReason    *string         `db:"override_reason" json:"override_reason,omitempty"`
	AuditLog          []AuditEntry    `json:"audit_log"`
}

// clone returns a deep copy so ledger internals never escape to callers.
func (i *Incident) clone() *Incident {
	out := *i
	out.Symptoms = append([]string(nil), i.Symptoms...)
	out.Reasoning = append([]string(nil), i.Reasoning...)
	out.AuditLog = append([]AuditEntry(nil), i.AuditLog...)
	if i.Lat != nil {
		lat := *i.Lat
		out.Lat = &lat
	}
	if i.Lon != nil {
		lon := *i.Lon
		out.Lon = &lon
	}
	if i.OverrideReason != nil {
		r := *i.OverrideReason
		out.OverrideReason = &r
	}
	if i.DispatchDecision != nil {
		d := make(map[string]any, len(i.DispatchDecision))
		for k, v := range i.DispatchDecision {
			d[k] = v
		}
		out.DispatchDecision = d
	}
	return &out
}
