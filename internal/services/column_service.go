package services

import (
	"context"
	"slices"
	"strings"

	"crmhub/internal/apperrors"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

var defaultColumns = map[models.View][]models.Column{
	models.ViewDeals: {
		{Field: "project_name", Label: "Project", Visible: true},
		{Field: "customer_name", Label: "Customer", Visible: true},
		{Field: "lead_name", Label: "Lead Name", Visible: true},
		{Field: "lead_owner", Label: "Lead Owner", Visible: true},
		{Field: "stage", Label: "Stage", Visible: true},
		{Field: "priority", Label: "Priority", Visible: true},
		{Field: "total_contract_value", Label: "Value", Visible: true},
		{Field: "probability", Label: "Probability", Visible: true},
		{Field: "expected_closing_date", Label: "Expected Close", Visible: true},
		{Field: "region", Label: "Region"},
		{Field: "project_duration", Label: "Duration"},
		{Field: "start_date", Label: "Start Date"},
		{Field: "end_date", Label: "End Date"},
		{Field: "proposal_due_date", Label: "Proposal Due"},
		{Field: "total_revenue", Label: "Total Revenue"},
		{Field: "deal_name", Label: "Deal Name"},
		{Field: "currency", Label: "Currency"},
		{Field: "created_at", Label: "Created"},
		{Field: "modified_at", Label: "Modified"},
	},
	models.ViewLeads: {
		{Field: "lead_name", Label: "Lead Name", Visible: true},
		{Field: "company_name", Label: "Company Name", Visible: true},
		{Field: "position", Label: "Position", Visible: true},
		{Field: "email", Label: "Email", Visible: true},
		{Field: "phone_no", Label: "Phone", Visible: true},
		{Field: "country", Label: "Region", Visible: true},
		{Field: "contact_owner", Label: "Lead Owner", Visible: true},
		{Field: "lead_status", Label: "Lead Status", Visible: true},
		{Field: "linkedin", Label: "LinkedIn"},
		{Field: "website", Label: "Website"},
		{Field: "contact_source", Label: "Source"},
		{Field: "industry", Label: "Industry"},
		{Field: "description", Label: "Description"},
		{Field: "created_time", Label: "Created"},
		{Field: "modified_time", Label: "Modified"},
	},
	models.ViewContacts: {
		{Field: "contact_name", Label: "Name", Visible: true},
		{Field: "company_name", Label: "Company", Visible: true},
		{Field: "position", Label: "Position", Visible: true},
		{Field: "email", Label: "Email", Visible: true},
		{Field: "phone_no", Label: "Phone", Visible: true},
		{Field: "contact_source", Label: "Source", Visible: true},
		{Field: "contact_owner", Label: "Owner", Visible: true},
		{Field: "created_time", Label: "Created"},
		{Field: "modified_time", Label: "Modified"},
	},
}

// DefaultColumns returns a fresh copy of the view's default layout.
func DefaultColumns(view models.View) []models.Column {
	src := defaultColumns[view]
	out := make([]models.Column, len(src))
	for i, c := range src {
		c.Order = i
		out[i] = c
	}
	return out
}

type ColumnService struct {
	Repo repositories.ColumnRepository
}

func NewColumnService(repo repositories.ColumnRepository) *ColumnService {
	return &ColumnService{Repo: repo}
}

func (s *ColumnService) Get(ctx context.Context, userID string, view models.View) (*models.ColumnConfig, error) {
	if !view.Valid() {
		return nil, apperrors.NotFound("View")
	}
	saved, err := s.Repo.Get(ctx, userID, view)
	if err != nil {
		return nil, apperrors.Internal("Failed to load column settings", err)
	}
	if saved == nil {
		return &models.ColumnConfig{View: view, Columns: DefaultColumns(view)}, nil
	}
	// поля, добавленные после сохранения, появляются скрытыми в конце
	cols, err := normalizeColumns(view, saved)
	if err != nil {
		return &models.ColumnConfig{View: view, Columns: DefaultColumns(view)}, nil
	}
	return &models.ColumnConfig{View: view, Columns: cols, Custom: true}, nil
}

func (s *ColumnService) Save(ctx context.Context, userID string, view models.View, cols []models.Column) (*models.ColumnConfig, error) {
	if !view.Valid() {
		return nil, apperrors.NotFound("View")
	}
	normalized, err := normalizeColumns(view, cols)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(normalized, func(c models.Column) bool { return c.Visible }) {
		return nil, apperrors.Validation("At least one column must be visible")
	}
	if err := s.Repo.Save(ctx, userID, view, normalized); err != nil {
		return nil, apperrors.Internal("Failed to save column settings", err)
	}
	return &models.ColumnConfig{View: view, Columns: normalized, Custom: true}, nil
}

func (s *ColumnService) Reset(ctx context.Context, userID string, view models.View) (*models.ColumnConfig, error) {
	if !view.Valid() {
		return nil, apperrors.NotFound("View")
	}
	if err := s.Repo.Delete(ctx, userID, view); err != nil {
		return nil, apperrors.Internal("Failed to reset column settings", err)
	}
	return &models.ColumnConfig{View: view, Columns: DefaultColumns(view)}, nil
}

// normalizeColumns rejects unknown and duplicate fields, fills empty labels, sorts by Order
// and renumbers from 0. Known fields missing from cols are appended hidden.
func normalizeColumns(view models.View, cols []models.Column) ([]models.Column, error) {
	defaults := DefaultColumns(view)
	labels := make(map[string]string, len(defaults))
	for _, d := range defaults {
		labels[d.Field] = d.Label
	}

	seen := make(map[string]bool, len(cols))
	out := make([]models.Column, 0, len(defaults))
	for _, c := range cols {
		c.Field = strings.TrimSpace(c.Field)
		def, ok := labels[c.Field]
		if !ok {
			return nil, apperrors.Validation("Unknown column").WithDescription("Field %q is not a %s column", c.Field, view)
		}
		if seen[c.Field] {
			return nil, apperrors.Validation("Duplicate column").WithDescription("Field %q appears more than once", c.Field)
		}
		seen[c.Field] = true
		if strings.TrimSpace(c.Label) == "" {
			c.Label = def
		}
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b models.Column) int { return a.Order - b.Order })
	for _, d := range defaults {
		if !seen[d.Field] {
			d.Visible = false
			out = append(out, d)
		}
	}
	for i := range out {
		out[i].Order = i
	}
	return out, nil
}
