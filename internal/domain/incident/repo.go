package incident

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an incident ID is not known to the ledger.
var ErrNotFound = errors.New("incident not found")

// Repository is the ledger's storage seam. The in-memory implementation is
// the default and test backing; the Postgres one is a drop-in alternative
// with identical observable behavior.
type Repository interface {
	Create(ctx context.Context, inc *Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*Incident, error)
	List(ctx context.Context, limit, offset int) ([]*Incident, int, error)
	// Update persists the incident's mutated fields and appends exactly one
	// audit entry; the entry must already be the last element of
	// inc.AuditLog.
	Update(ctx context.Context, inc *Incident, entry AuditEntry) error
}
