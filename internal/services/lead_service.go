package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"crmhub/internal/apperrors"
	"crmhub/internal/authz"
	"crmhub/internal/listing"
	"crmhub/internal/logging"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

type LeadService struct {
	Repo     repositories.LeadRepository
	DealRepo repositories.DealRepository
}

func NewLeadService(leadRepo repositories.LeadRepository, dealRepo repositories.DealRepository) *LeadService {
	return &LeadService{Repo: leadRepo, DealRepo: dealRepo}
}

type LeadFilterOptions struct {
	Statuses   []string `json:"statuses"`
	Sources    []string `json:"sources"`
	Industries []string `json:"industries"`
	Countries  []string `json:"countries"`
	Owners     []string `json:"owners"`
}

func (s *LeadService) All(ctx context.Context, actor Actor) ([]*models.Lead, error) {
	leads, err := s.Repo.List(ctx, actor.ownerScope())
	if err != nil {
		return nil, apperrors.Internal("Failed to load leads", err)
	}
	return leads, nil
}

func (s *LeadService) List(ctx context.Context, actor Actor, q listing.Query) (listing.Result[*models.Lead], error) {
	leads, err := s.All(ctx, actor)
	if err != nil {
		return listing.Result[*models.Lead]{}, err
	}
	return listing.Run(leads, q), nil
}

func (s *LeadService) Filters(ctx context.Context, actor Actor) (*LeadFilterOptions, error) {
	leads, err := s.All(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &LeadFilterOptions{
		Statuses:   listing.Distinct(leads, "lead_status"),
		Sources:    listing.Distinct(leads, "contact_source"),
		Industries: listing.Distinct(leads, "industry"),
		Countries:  listing.Distinct(leads, "country"),
		Owners:     listing.Distinct(leads, "contact_owner"),
	}, nil
}

func (s *LeadService) Get(ctx context.Context, actor Actor, id string) (*models.Lead, error) {
	l, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Lead")
	}
	if !actor.SeesAll() && l.ContactOwner != actor.UserID {
		return nil, apperrors.NotFound("Lead")
	}
	return l, nil
}

func (s *LeadService) editable(ctx context.Context, actor Actor, id string) (*models.Lead, error) {
	l, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(l.ContactOwner) {
		return nil, forbidden("lead")
	}
	return l, nil
}

func (s *LeadService) Create(ctx context.Context, actor Actor, l *models.Lead) (*models.Lead, error) {
	if authz.IsReadOnly(actor.RoleID) {
		return nil, forbidden("lead")
	}
	l.LeadName = strings.TrimSpace(l.LeadName)
	if l.LeadName == "" {
		return nil, apperrors.Validation("Lead name is required")
	}
	if l.LeadStatus == "" {
		l.LeadStatus = models.LeadStatusNew
	}
	if !l.LeadStatus.Valid() || l.LeadStatus == models.LeadStatusConverted {
		return nil, apperrors.Validation("Invalid lead status").WithDescription("Status %q cannot be set on a new lead", l.LeadStatus)
	}
	if l.ContactOwner == "" || !authz.IsElevated(actor.RoleID) {
		l.ContactOwner = actor.UserID
	}
	now := timeNow().UTC()
	l.ID = newID()
	l.CreatedBy = actor.UserID
	l.CreatedTime = now
	l.ModifiedTime = now
	if err := s.Repo.Create(ctx, l); err != nil {
		return nil, apperrors.Internal("Failed to create lead", err)
	}
	return l, nil
}

// Update sets the given fields. A lead_status change follows LeadTransitions.
func (s *LeadService) Update(ctx context.Context, actor Actor, id string, fields map[string]string) (*models.Lead, error) {
	l, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	prevStatus, prevOwner := l.LeadStatus, l.ContactOwner
	for key, value := range fields {
		if err := l.SetField(key, strings.TrimSpace(value)); err != nil {
			return nil, fieldError(key, err)
		}
	}
	if l.LeadName == "" {
		return nil, apperrors.Validation("Lead name is required")
	}
	if l.LeadStatus != prevStatus {
		if err := checkTransition(prevStatus, l.LeadStatus); err != nil {
			return nil, err
		}
	}
	if l.ContactOwner != prevOwner && !authz.IsElevated(actor.RoleID) {
		return nil, apperrors.Forbidden("Only managers can reassign leads")
	}
	l.ModifiedTime = timeNow().UTC()
	if err := s.Repo.Update(ctx, l); err != nil {
		return nil, repoError(err, "Lead")
	}
	return l, nil
}

func (s *LeadService) UpdateStatus(ctx context.Context, actor Actor, id string, to models.LeadStatus) error {
	l, err := s.editable(ctx, actor, id)
	if err != nil {
		return err
	}
	if l.LeadStatus == to {
		return nil
	}
	if err := checkTransition(l.LeadStatus, to); err != nil {
		return err
	}
	if err := s.Repo.UpdateStatus(ctx, id, to); err != nil {
		return repoError(err, "Lead")
	}
	return nil
}

func checkTransition(from, to models.LeadStatus) error {
	if !to.Valid() {
		return apperrors.Validation("Invalid lead status").WithDescription("Unknown status %q", to)
	}
	if to == models.LeadStatusConverted {
		return apperrors.Validation("Invalid status transition").WithDescription("Use convert to turn a lead into a deal")
	}
	if !canTransition(from, to) {
		return apperrors.Validation("Invalid status transition").WithDescription("A %s lead cannot become %s", from, to)
	}
	return nil
}

func (s *LeadService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.editable(ctx, actor, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return repoError(err, "Lead")
	}
	return nil
}

type ConvertInput struct {
	DealName string           `json:"deal_name"`
	Value    *decimal.Decimal `json:"total_contract_value"`
	Currency string           `json:"currency"`
}

// Convert turns a qualified lead into a deal at stage Lead and marks the lead Converted.
func (s *LeadService) Convert(ctx context.Context, actor Actor, leadID string, in ConvertInput) (*models.Deal, error) {
	lead, err := s.editable(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}
	// идемпотентность: второй вызов не создаёт вторую сделку
	if lead.LeadStatus == models.LeadStatusConverted {
		return nil, apperrors.Conflict("Lead already converted")
	}
	if !canTransition(lead.LeadStatus, models.LeadStatusConverted) {
		return nil, apperrors.Validation("Lead is not in a convertible status").
			WithDescription("Only qualified leads can be converted, this one is %s", lead.LeadStatus)
	}

	name := strings.TrimSpace(in.DealName)
	if name == "" {
		name = lead.LeadName
		if lead.CompanyName != "" {
			name = lead.CompanyName + " - " + lead.LeadName
		}
	}
	owner := lead.ContactOwner
	if owner == "" {
		owner = actor.UserID
	}
	now := timeNow().UTC()
	deal := &models.Deal{
		ID:                 newID(),
		DealName:           name,
		CustomerName:       lead.CompanyName,
		LeadName:           lead.LeadName,
		LeadOwner:          lead.ContactOwner,
		Stage:              models.StageLead,
		TotalContractValue: in.Value,
		Currency:           in.Currency,
		Region:             lead.Country,
		OwnerID:            owner,
		CreatedAt:          now,
		ModifiedAt:         now,
	}
	if err := s.DealRepo.Create(ctx, deal); err != nil {
		return nil, apperrors.Internal("Failed to create deal", err)
	}

	if err := s.Repo.UpdateStatus(ctx, lead.ID, models.LeadStatusConverted); err != nil {
		if delErr := s.DealRepo.Delete(ctx, deal.ID); delErr != nil { // best-effort rollback
			logging.Logger.Error().Err(delErr).Str("deal_id", deal.ID).Msg("convert rollback failed")
		}
		return nil, repoError(err, "Lead")
	}
	return deal, nil
}
