package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"crmhub/internal/models"
)

type SessionRepository interface {
	Create(ctx context.Context, s *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	// GetByToken only finds sessions that are neither revoked nor expired.
	GetByToken(ctx context.Context, token string, now time.Time) (*models.Session, error)
	ListActive(ctx context.Context, userID string, now time.Time) ([]*models.Session, error)
	Touch(ctx context.Context, id string, at time.Time) error
	// Rotate swaps oldToken for token; ErrNotFound when the session was revoked or already rotated.
	Rotate(ctx context.Context, id, oldToken, token string, expiresAt time.Time) error
	Revoke(ctx context.Context, id, userID string, at time.Time) error
	RevokeOthers(ctx context.Context, userID, keepID string, at time.Time) (int64, error)
}

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) SessionRepository {
	return &sessionRepository{db: db}
}

const sessionColumns = `id, user_id, token, user_agent, device, ip, created_at, last_active_at, expires_at, revoked_at`

func scanSession(row scanner) (*models.Session, error) {
	s := &models.Session{}
	err := row.Scan(&s.ID, &s.UserID, &s.Token, &s.UserAgent, &s.Device, &s.IP,
		&s.CreatedAt, &s.LastActiveAt, &s.ExpiresAt, &s.RevokedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) Create(ctx context.Context, s *models.Session) error {
	q := `INSERT INTO sessions (` + sessionColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NULL)`
	_, err := r.db.ExecContext(ctx, q, s.ID, s.UserID, s.Token, s.UserAgent, s.Device, s.IP,
		s.CreatedAt, s.LastActiveAt, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("создание сессии: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id=$1`, id))
	if err != nil {
		return nil, fmt.Errorf("получение сессии: %w", notFound(err))
	}
	return s, nil
}

func (r *sessionRepository) GetByToken(ctx context.Context, token string, now time.Time) (*models.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE token=$1 AND revoked_at IS NULL AND expires_at > $2`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, token, now))
	if err != nil {
		return nil, fmt.Errorf("получение сессии по токену: %w", notFound(err))
	}
	return s, nil
}

func (r *sessionRepository) ListActive(ctx context.Context, userID string, now time.Time) ([]*models.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE user_id=$1 AND revoked_at IS NULL AND expires_at > $2
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, now)
	if err != nil {
		return nil, fmt.Errorf("список сессий: %w", err)
	}
	defer rows.Close()

	var out []*models.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("список сессий: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sessionRepository) Touch(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sessions SET last_active_at=$1 WHERE id=$2`, at, id)
	if err != nil {
		return fmt.Errorf("обновление активности сессии: %w", err)
	}
	return nil
}

func (r *sessionRepository) Rotate(ctx context.Context, id, oldToken, token string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET token=$1, expires_at=$2 WHERE id=$3 AND token=$4 AND revoked_at IS NULL`,
		token, expiresAt, id, oldToken)
	if err != nil {
		return fmt.Errorf("ротация токена сессии: %w", err)
	}
	return expectOne(res, "ротация токена сессии")
}

func (r *sessionRepository) Revoke(ctx context.Context, id, userID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at=$1 WHERE id=$2 AND user_id=$3 AND revoked_at IS NULL`,
		at, id, userID)
	if err != nil {
		return fmt.Errorf("отзыв сессии: %w", err)
	}
	return expectOne(res, "отзыв сессии")
}

func (r *sessionRepository) RevokeOthers(ctx context.Context, userID, keepID string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at=$1 WHERE user_id=$2 AND id<>$3 AND revoked_at IS NULL`,
		at, userID, keepID)
	if err != nil {
		return 0, fmt.Errorf("отзыв остальных сессий: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("отзыв остальных сессий: %w", err)
	}
	return n, nil
}
