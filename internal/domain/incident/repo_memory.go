package incident

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// memoryRepo is a mutex-guarded in-memory ledger. Insertion order is kept so
// listings are stable.
type memoryRepo struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*Incident
	order []uuid.UUID
}

// NewMemoryRepo returns the default in-memory Repository.
func NewMemoryRepo() Repository {
	return &memoryRepo{byID: make(map[uuid.UUID]*Incident)}
}

func (r *memoryRepo) Create(_ context.Context, inc *Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[inc.ID] = inc.clone()
	r.order = append(r.order, inc.ID)
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id uuid.UUID) (*Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inc, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return inc.clone(), nil
}

func (r *memoryRepo) List(_ context.Context, limit, offset int) ([]*Incident, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := len(r.order)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	out := make([]*Incident, 0, end-offset)
	for _, id := range r.order[offset:end] {
		out = append(out, r.byID[id].clone())
	}
	return out, total, nil
}

func (r *memoryRepo) Update(_ context.Context, inc *Incident, _ AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[inc.ID]; !ok {
		return ErrNotFound
	}
	r.byID[inc.ID] = inc.clone()
	return nil
}
