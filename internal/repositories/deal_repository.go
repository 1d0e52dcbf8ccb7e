package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"crmhub/internal/models"
)

type DealRepository interface {
	Create(ctx context.Context, deal *models.Deal) error
	GetByID(ctx context.Context, id string) (*models.Deal, error)
	// List returns every deal owned by ownerID, or all deals when ownerID is empty.
	List(ctx context.Context, ownerID string) ([]*models.Deal, error)
	Update(ctx context.Context, deal *models.Deal) error
	UpdateStage(ctx context.Context, id string, stage models.Stage) error
	Delete(ctx context.Context, id string) error
}

type dealRepository struct {
	db *sql.DB
}

func NewDealRepository(db *sql.DB) DealRepository {
	return &dealRepository{db: db}
}

const dealColumns = `id, deal_name, project_name, customer_name, lead_name, lead_owner, stage,
	total_contract_value, total_revenue, currency, probability, priority, region,
	expected_closing_date, start_date, end_date, proposal_due_date, project_duration,
	owner_id, created_at, modified_at`

func scanDeal(row scanner) (*models.Deal, error) {
	d := &models.Deal{}
	err := row.Scan(
		&d.ID, &d.DealName, &d.ProjectName, &d.CustomerName, &d.LeadName, &d.LeadOwner, &d.Stage,
		&d.TotalContractValue, &d.TotalRevenue, &d.Currency, &d.Probability, &d.Priority, &d.Region,
		&d.ExpectedClosingDate, &d.StartDate, &d.EndDate, &d.ProposalDueDate, &d.ProjectDuration,
		&d.OwnerID, &d.CreatedAt, &d.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *dealRepository) Create(ctx context.Context, d *models.Deal) error {
	q := `INSERT INTO deals (` + dealColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`
	_, err := r.db.ExecContext(ctx, q,
		d.ID, d.DealName, d.ProjectName, d.CustomerName, d.LeadName, d.LeadOwner, d.Stage,
		d.TotalContractValue, d.TotalRevenue, d.Currency, d.Probability, d.Priority, d.Region,
		d.ExpectedClosingDate, d.StartDate, d.EndDate, d.ProposalDueDate, d.ProjectDuration,
		d.OwnerID, d.CreatedAt, d.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("создание сделки: %w", err)
	}
	return nil
}

func (r *dealRepository) GetByID(ctx context.Context, id string) (*models.Deal, error) {
	q := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`
	d, err := scanDeal(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, fmt.Errorf("получение сделки: %w", notFound(err))
	}
	return d, nil
}

func (r *dealRepository) List(ctx context.Context, ownerID string) ([]*models.Deal, error) {
	q := `SELECT ` + dealColumns + ` FROM deals`
	var args []any
	if ownerID != "" {
		q += ` WHERE owner_id = $1`
		args = append(args, ownerID)
	}
	q += ` ORDER BY modified_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("список сделок: %w", err)
	}
	defer rows.Close()

	var out []*models.Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("список сделок: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *dealRepository) Update(ctx context.Context, d *models.Deal) error {
	const q = `
		UPDATE deals SET
			deal_name=$2, project_name=$3, customer_name=$4, lead_name=$5, lead_owner=$6, stage=$7,
			total_contract_value=$8, total_revenue=$9, currency=$10, probability=$11, priority=$12,
			region=$13, expected_closing_date=$14, start_date=$15, end_date=$16,
			proposal_due_date=$17, project_duration=$18, owner_id=$19, modified_at=$20
		WHERE id=$1`
	res, err := r.db.ExecContext(ctx, q,
		d.ID, d.DealName, d.ProjectName, d.CustomerName, d.LeadName, d.LeadOwner, d.Stage,
		d.TotalContractValue, d.TotalRevenue, d.Currency, d.Probability, d.Priority,
		d.Region, d.ExpectedClosingDate, d.StartDate, d.EndDate,
		d.ProposalDueDate, d.ProjectDuration, d.OwnerID, d.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("обновление сделки: %w", err)
	}
	return expectOne(res, "обновление сделки")
}

func (r *dealRepository) UpdateStage(ctx context.Context, id string, stage models.Stage) error {
	const q = `UPDATE deals SET stage=$1, modified_at=now() WHERE id=$2`
	res, err := r.db.ExecContext(ctx, q, stage, id)
	if err != nil {
		return fmt.Errorf("смена стадии: %w", err)
	}
	return expectOne(res, "смена стадии")
}

func (r *dealRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM deals WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("удаление сделки: %w", err)
	}
	return expectOne(res, "удаление сделки")
}
