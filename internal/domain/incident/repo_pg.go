package incident

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgRepo struct{ pool *pgxpool.Pool }

// NewPgRepo returns a Postgres-backed Repository.
func NewPgRepo(pool *pgxpool.Pool) Repository { return &pgRepo{pool: pool} }

const incidentCols = `id, created_at, updated_at, lat, lon, input_text, symptoms,
	urgency, dispatch_required, reasoning, status, dispatch_decision,
	dispatch_confirmed, override_reason`

func scanIncident(row pgx.Row) (*Incident, error) {
	var inc Incident
	err := row.Scan(&inc.ID, &inc.CreatedAt, &inc.UpdatedAt, &inc.Lat, &inc.Lon,
		&inc.InputText, &inc.Symptoms, &inc.Urgency, &inc.DispatchRequired,
		&inc.Reasoning, &inc.Status, &inc.DispatchDecision,
		&inc.DispatchConfirmed, &inc.OverrideReason)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inc, nil
}

func (r *pgRepo) Create(ctx context.Context, inc *Incident) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO incident (id, created_at, updated_at, lat, lon, input_text, symptoms,
				urgency, dispatch_required, reasoning, status, dispatch_decision,
				dispatch_confirmed, override_reason)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			inc.ID, inc.CreatedAt, inc.UpdatedAt, inc.Lat, inc.Lon, inc.InputText, inc.Symptoms,
			inc.Urgency, inc.DispatchRequired, inc.Reasoning, inc.Status, inc.DispatchDecision,
			inc.DispatchConfirmed, inc.OverrideReason)
		if err != nil {
			return fmt.Errorf("insert incident: %w", err)
		}
		for seq, entry := range inc.AuditLog {
			if err := insertAudit(ctx, tx, inc.ID, seq, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *pgRepo) GetByID(ctx context.Context, id uuid.UUID) (*Incident, error) {
	inc, err := scanIncident(r.pool.QueryRow(ctx,
		`SELECT `+incidentCols+` FROM incident WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT ts, event, details FROM incident_audit
		WHERE incident_id = $1 ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry AuditEntry
		if err := rows.Scan(&entry.Timestamp, &entry.Event, &entry.Details); err != nil {
			return nil, err
		}
		inc.AuditLog = append(inc.AuditLog, entry)
	}
	return inc, rows.Err()
}

func (r *pgRepo) List(ctx context.Context, limit, offset int) ([]*Incident, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM incident`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+incidentCols+` FROM incident
		ORDER BY created_at LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, inc)
	}
	return out, total, rows.Err()
}

func (r *pgRepo) Update(ctx context.Context, inc *Incident, entry AuditEntry) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE incident SET updated_at=$2, status=$3, dispatch_decision=$4,
				dispatch_confirmed=$5, override_reason=$6
			WHERE id = $1`,
			inc.ID, inc.UpdatedAt, inc.Status, inc.DispatchDecision,
			inc.DispatchConfirmed, inc.OverrideReason)
		if err != nil {
			return fmt.Errorf("update incident: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		// The new entry is the last element of the in-memory log; earlier
		// entries are already persisted and never rewritten.
		return insertAudit(ctx, tx, inc.ID, len(inc.AuditLog)-1, entry)
	})
}

func insertAudit(ctx context.Context, tx pgx.Tx, incidentID uuid.UUID, seq int, entry AuditEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO incident_audit (id, incident_id, seq, ts, event, details)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		uuid.New(), incidentID, seq, entry.Timestamp, entry.Event, entry.Details)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
