package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"crmhub/internal/models"
)

type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id string) (*models.Lead, error)
	// List returns leads owned by ownerID, or every lead when ownerID is empty.
	List(ctx context.Context, ownerID string) ([]*models.Lead, error)
	Update(ctx context.Context, lead *models.Lead) error
	UpdateStatus(ctx context.Context, id string, status models.LeadStatus) error
	UpdateOwner(ctx context.Context, id, owner string) error
	Delete(ctx context.Context, id string) error
}

type leadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) LeadRepository {
	return &leadRepository{db: db}
}

const leadColumns = `id, lead_name, company_name, position, email, phone_no, linkedin, website,
	contact_source, industry, country, lead_status, contact_owner, created_by, description,
	created_time, modified_time`

func scanLead(row scanner) (*models.Lead, error) {
	l := &models.Lead{}
	err := row.Scan(
		&l.ID, &l.LeadName, &l.CompanyName, &l.Position, &l.Email, &l.PhoneNo, &l.LinkedIn, &l.Website,
		&l.ContactSource, &l.Industry, &l.Country, &l.LeadStatus, &l.ContactOwner, &l.CreatedBy, &l.Description,
		&l.CreatedTime, &l.ModifiedTime,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *leadRepository) Create(ctx context.Context, l *models.Lead) error {
	q := `INSERT INTO leads (` + leadColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`
	_, err := r.db.ExecContext(ctx, q,
		l.ID, l.LeadName, l.CompanyName, l.Position, l.Email, l.PhoneNo, l.LinkedIn, l.Website,
		l.ContactSource, l.Industry, l.Country, l.LeadStatus, l.ContactOwner, l.CreatedBy, l.Description,
		l.CreatedTime, l.ModifiedTime,
	)
	if err != nil {
		return fmt.Errorf("создание лида: %w", err)
	}
	return nil
}

func (r *leadRepository) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	q := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	l, err := scanLead(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("получение лида: %w", notFound(err))
	}
	return l, nil
}

func (r *leadRepository) List(ctx context.Context, ownerID string) ([]*models.Lead, error) {
	q := `SELECT ` + leadColumns + ` FROM leads`
	var args []any
	if ownerID != "" {
		q += ` WHERE contact_owner = $1`
		args = append(args, ownerID)
	}
	q += ` ORDER BY modified_time DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("список лидов: %w", err)
	}
	defer rows.Close()

	var out []*models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("список лидов: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *leadRepository) Update(ctx context.Context, l *models.Lead) error {
	const q = `
		UPDATE leads SET
			lead_name=$2, company_name=$3, position=$4, email=$5, phone_no=$6, linkedin=$7,
			website=$8, contact_source=$9, industry=$10, country=$11, lead_status=$12,
			contact_owner=$13, description=$14, modified_time=$15
		WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q,
		l.ID, l.LeadName, l.CompanyName, l.Position, l.Email, l.PhoneNo, l.LinkedIn,
		l.Website, l.ContactSource, l.Industry, l.Country, l.LeadStatus,
		l.ContactOwner, l.Description, l.ModifiedTime,
	)
	if err != nil {
		return fmt.Errorf("обновление лида: %w", err)
	}
	return expectOne(res, "обновление лида")
}

func (r *leadRepository) UpdateStatus(ctx context.Context, id string, status models.LeadStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE leads SET lead_status=$1, modified_time=now() WHERE id=$2`, status, id)
	if err != nil {
		return fmt.Errorf("смена статуса лида: %w", err)
	}
	return expectOne(res, "смена статуса лида")
}

func (r *leadRepository) UpdateOwner(ctx context.Context, id, owner string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE leads SET contact_owner=$1, modified_time=now() WHERE id=$2`, owner, id)
	if err != nil {
		return fmt.Errorf("смена владельца лида: %w", err)
	}
	return expectOne(res, "смена владельца лида")
}

func (r *leadRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leads WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("удаление лида: %w", err)
	}
	return expectOne(res, "удаление лида")
}
