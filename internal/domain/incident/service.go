package incident

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/resculens/resculens/internal/domain/triage"
)

// Service applies lifecycle operations to the ledger. Mutating operations on
// existing incidents run load-mutate-save under a single lock so concurrent
// confirm/override calls on the same incident serialize cleanly; creates are
// independent and take no lock.
type Service struct {
	repo Repository

	mu sync.Mutex // serializes confirm/override/log-event
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create opens a new incident in TRIAGED status, snapshotting the
// classification. The first audit entry is always INCIDENT_CREATED. Create
// always succeeds given a working repository.
func (s *Service) Create(ctx context.Context, inputText string, symptoms []string, result triage.Result, lat, lon *float64) (*Incident, error) {
	now := time.Now().UTC()
	inc := &Incident{
		ID:               uuid.New(),
		CreatedAt:        now,
		UpdatedAt:        now,
		Lat:              lat,
		Lon:              lon,
		InputText:        inputText,
		Symptoms:         append([]string(nil), symptoms...),
		Urgency:          result.Urgency,
		DispatchRequired: result.DispatchRequired,
		Reasoning:        append([]string(nil), result.Reasoning...),
		Status:           StatusTriaged,
		AuditLog: []AuditEntry{{
			Timestamp: now,
			Event:     EventCreated,
			Details: map[string]any{
				"urgency":           string(result.Urgency),
				"dispatch_required": result.DispatchRequired,
			},
		}},
	}

	if err := s.repo.Create(ctx, inc); err != nil {
		return nil, err
	}
	return inc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Incident, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Incident, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// ConfirmDispatch records a human dispatch confirmation. Returns ErrNotFound
// for unknown IDs with the ledger untouched.
func (s *Service) ConfirmDispatch(ctx context.Context, id uuid.UUID, decision map[string]any) (*Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	inc.DispatchDecision = decision
	inc.DispatchConfirmed = true
	inc.Status = StatusDispatchConfirmed
	entry := s.appendAudit(inc, EventDispatchConfirmed, decision)

	if err := s.repo.Update(ctx, inc, entry); err != nil {
		return nil, err
	}
	return inc, nil
}

// OverrideDispatch records a human override of the triage decision. Valid
// from TRIAGED or DISPATCH_CONFIRMED.
func (s *Service) OverrideDispatch(ctx context.Context, id uuid.UUID, reason string) (*Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	inc.DispatchConfirmed = false
	inc.Status = StatusDispatchOverridden
	inc.OverrideReason = &reason
	entry := s.appendAudit(inc, EventDispatchOverridden, map[string]any{"reason": reason})

	if err := s.repo.Update(ctx, inc, entry); err != nil {
		return nil, err
	}
	return inc, nil
}

// LogEvent appends a free-form audit entry without changing status. Used by
// the pipeline to record DISPATCH_RECOMMENDED after a successful allocation.
func (s *Service) LogEvent(ctx context.Context, id uuid.UUID, event string, details map[string]any) (*Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry := s.appendAudit(inc, event, details)
	if err := s.repo.Update(ctx, inc, entry); err != nil {
		return nil, err
	}
	return inc, nil
}

func (s *Service) appendAudit(inc *Incident, event string, details map[string]any) AuditEntry {
	entry := AuditEntry{Timestamp: time.Now().UTC(), Event: event, Details: details}
	inc.AuditLog = append(inc.AuditLog, entry)
	inc.UpdatedAt = entry.Timestamp
	return entry
}
