package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/lib/pq"

	"crmhub/internal/models"
)

type AuditRepository interface {
	Insert(ctx context.Context, e *models.AuditEntry) error
	List(ctx context.Context, f models.AuditFilter) ([]*models.AuditEntry, int, error)
}

type auditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Insert(ctx context.Context, e *models.AuditEntry) error {
	details := e.Details
	if details == nil {
		details = map[string]any{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("audit details: %w", err)
	}
	const q = `
		INSERT INTO security_audit_log (id, user_id, action, resource_type, resource_id, details, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`
	_, err = r.db.ExecContext(ctx, q, e.ID, e.UserID, e.Action, e.ResourceType, e.ResourceID, raw, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("запись аудита: %w", err)
	}
	return nil
}

// List returns a page of entries, newest first, and the total matching count.
func (r *auditRepository) List(ctx context.Context, f models.AuditFilter) ([]*models.AuditEntry, int, error) {
	where := " WHERE 1=1"
	args := []any{}
	i := 1
	if f.UserID != "" {
		where += fmt.Sprintf(" AND user_id = $%d", i)
		args = append(args, f.UserID)
		i++
	}
	if len(f.Actions) > 0 {
		actions := make([]string, len(f.Actions))
		for k, a := range f.Actions {
			actions[k] = string(a)
		}
		where += fmt.Sprintf(" AND action = ANY($%d)", i)
		args = append(args, pq.Array(actions))
		i++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM security_audit_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("подсчёт аудита: %w", err)
	}

	q := `SELECT id, user_id, action, resource_type, resource_id, details, created_at FROM security_audit_log` +
		where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("список аудита: %w", err)
	}
	defer rows.Close()

	var out []*models.AuditEntry
	for rows.Next() {
		e := &models.AuditEntry{}
		var raw []byte
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.ResourceType, &e.ResourceID, &raw, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("список аудита: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &e.Details); err != nil {
				return nil, 0, fmt.Errorf("audit details %s: %w", e.ID, err)
			}
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}
