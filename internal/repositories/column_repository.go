package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"crmhub/internal/models"
)

type ColumnRepository interface {
	// Get returns the saved columns, or nil when the user kept the defaults.
	Get(ctx context.Context, userID string, view models.View) ([]models.Column, error)
	Save(ctx context.Context, userID string, view models.View, cols []models.Column) error
	Delete(ctx context.Context, userID string, view models.View) error
}

type columnRepository struct {
	db *sql.DB
}

func NewColumnRepository(db *sql.DB) ColumnRepository {
	return &columnRepository{db: db}
}

func (r *columnRepository) Get(ctx context.Context, userID string, view models.View) ([]models.Column, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT columns FROM column_preferences WHERE user_id=$1 AND view=$2`, userID, view).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("настройки колонок: %w", err)
	}
	var cols []models.Column
	if err := json.Unmarshal(raw, &cols); err != nil {
		return nil, fmt.Errorf("настройки колонок: %w", err)
	}
	return cols, nil
}

func (r *columnRepository) Save(ctx context.Context, userID string, view models.View, cols []models.Column) error {
	raw, err := json.Marshal(cols)
	if err != nil {
		return fmt.Errorf("настройки колонок: %w", err)
	}
	const q = `
		INSERT INTO column_preferences (user_id, view, columns, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, view) DO UPDATE SET columns = EXCLUDED.columns, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, q, userID, view, raw); err != nil {
		return fmt.Errorf("сохранение колонок: %w", err)
	}
	return nil
}

func (r *columnRepository) Delete(ctx context.Context, userID string, view models.View) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM column_preferences WHERE user_id=$1 AND view=$2`, userID, view); err != nil {
		return fmt.Errorf("сброс колонок: %w", err)
	}
	return nil
}
