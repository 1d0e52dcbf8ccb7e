package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"crmhub/internal/models"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	List(ctx context.Context, ownerID string) ([]*models.Contact, error)
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, id string) error
}

type contactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `id, contact_name, company_name, email, phone_no, position,
	contact_source, contact_owner, created_time, modified_time`

func scanContact(row scanner) (*models.Contact, error) {
	c := &models.Contact{}
	err := row.Scan(
		&c.ID, &c.ContactName, &c.CompanyName, &c.Email, &c.PhoneNo, &c.Position,
		&c.ContactSource, &c.ContactOwner, &c.CreatedTime, &c.ModifiedTime,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *contactRepository) Create(ctx context.Context, c *models.Contact) error {
	q := `INSERT INTO contacts (` + contactColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.ContactName, c.CompanyName, c.Email, c.PhoneNo, c.Position,
		c.ContactSource, c.ContactOwner, c.CreatedTime, c.ModifiedTime,
	)
	if err != nil {
		return fmt.Errorf("создание контакта: %w", err)
	}
	return nil
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	q := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`
	c, err := scanContact(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("получение контакта: %w", notFound(err))
	}
	return c, nil
}

func (r *contactRepository) List(ctx context.Context, ownerID string) ([]*models.Contact, error) {
	q := `SELECT ` + contactColumns + ` FROM contacts`
	var args []any
	if ownerID != "" {
		q += ` WHERE contact_owner = $1`
		args = append(args, ownerID)
	}
	q += ` ORDER BY modified_time DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("список контактов: %w", err)
	}
	defer rows.Close()

	var out []*models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("список контактов: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *contactRepository) Update(ctx context.Context, c *models.Contact) error {
	const q = `
		UPDATE contacts SET
			contact_name=$2, company_name=$3, email=$4, phone_no=$5, position=$6,
			contact_source=$7, contact_owner=$8, modified_time=$9
		WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q,
		c.ID, c.ContactName, c.CompanyName, c.Email, c.PhoneNo, c.Position,
		c.ContactSource, c.ContactOwner, c.ModifiedTime,
	)
	if err != nil {
		return fmt.Errorf("обновление контакта: %w", err)
	}
	return expectOne(res, "обновление контакта")
}

func (r *contactRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("удаление контакта: %w", err)
	}
	return expectOne(res, "удаление контакта")
}
