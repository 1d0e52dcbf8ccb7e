package services

import (
	"context"
	"errors"
	"slices"
	"strings"

	"crmhub/internal/apperrors"
	"crmhub/internal/authz"
	"crmhub/internal/listing"
	"crmhub/internal/logging"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

type DealService struct {
	Repo     repositories.DealRepository
	Notifier DealNotifier
}

func NewDealService(repo repositories.DealRepository, notifier DealNotifier) *DealService {
	return &DealService{Repo: repo, Notifier: notifier}
}

// DealFilterOptions feeds the option lists of the advanced filter.
type DealFilterOptions struct {
	Stages     []string `json:"stages"`
	Regions    []string `json:"regions"`
	LeadOwners []string `json:"lead_owners"`
	Priorities []string `json:"priorities"`
}

// All loads every deal visible to the actor.
func (s *DealService) All(ctx context.Context, actor Actor) ([]*models.Deal, error) {
	deals, err := s.Repo.List(ctx, actor.ownerScope())
	if err != nil {
		return nil, apperrors.Internal("Failed to load deals", err)
	}
	return deals, nil
}

func (s *DealService) List(ctx context.Context, actor Actor, q listing.Query) (listing.Result[*models.Deal], error) {
	deals, err := s.All(ctx, actor)
	if err != nil {
		return listing.Result[*models.Deal]{}, err
	}
	return listing.Run(deals, q), nil
}

func (s *DealService) Filters(ctx context.Context, actor Actor) (*DealFilterOptions, error) {
	deals, err := s.All(ctx, actor)
	if err != nil {
		return nil, err
	}
	// board columns first, then stored variants such as RFQ that have no column
	stages := make([]string, 0, len(models.BoardStages))
	for _, st := range models.BoardStages {
		stages = append(stages, string(st))
	}
	for _, st := range listing.Distinct(deals, "stage") {
		if !slices.Contains(stages, st) {
			stages = append(stages, st)
		}
	}
	return &DealFilterOptions{
		Stages:     stages,
		Regions:    listing.Distinct(deals, "region"),
		LeadOwners: listing.Distinct(deals, "lead_owner"),
		Priorities: listing.Distinct(deals, "priority"),
	}, nil
}

func (s *DealService) Get(ctx context.Context, actor Actor, id string) (*models.Deal, error) {
	d, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Deal")
	}
	if !actor.SeesAll() && d.OwnerID != actor.UserID {
		return nil, apperrors.NotFound("Deal")
	}
	return d, nil
}

// editable loads a deal the actor may change.
func (s *DealService) editable(ctx context.Context, actor Actor, id string) (*models.Deal, error) {
	d, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(d.OwnerID) {
		return nil, forbidden("deal")
	}
	return d, nil
}

func (s *DealService) Create(ctx context.Context, actor Actor, d *models.Deal) (*models.Deal, error) {
	if authz.IsReadOnly(actor.RoleID) {
		return nil, forbidden("deal")
	}
	d.DealName = strings.TrimSpace(d.DealName)
	if d.Stage == "" {
		d.Stage = models.StageLead
	}
	if d.OwnerID == "" || !authz.IsElevated(actor.RoleID) {
		d.OwnerID = actor.UserID
	}
	if err := validateDeal(d); err != nil {
		return nil, err
	}
	now := timeNow().UTC()
	d.ID = newID()
	d.CreatedAt = now
	d.ModifiedAt = now
	if err := s.Repo.Create(ctx, d); err != nil {
		return nil, apperrors.Internal("Failed to create deal", err)
	}
	return d, nil
}

// Update applies a partial update; only the fields present in patch change.
func (s *DealService) Update(ctx context.Context, actor Actor, id string, patch models.DealPatch) (*models.Deal, error) {
	d, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if patch.OwnerID != nil && !authz.IsElevated(actor.RoleID) && *patch.OwnerID != d.OwnerID {
		return nil, apperrors.Forbidden("Only managers can reassign deals")
	}
	prev := d.Stage
	patch.Apply(d)
	d.DealName = strings.TrimSpace(d.DealName)
	if err := validateDeal(d); err != nil {
		return nil, err
	}
	d.ModifiedAt = timeNow().UTC()
	if err := s.Repo.Update(ctx, d); err != nil {
		return nil, repoError(err, "Deal")
	}
	s.notifyClosed(ctx, prev, d)
	return d, nil
}

// UpdateFields sets fields from their textual form, as read from an import file.
func (s *DealService) UpdateFields(ctx context.Context, actor Actor, id string, fields map[string]string) (*models.Deal, error) {
	d, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	prev := d.Stage
	for key, value := range fields {
		if err := d.SetField(key, value); err != nil {
			return nil, fieldError(key, err)
		}
	}
	d.DealName = strings.TrimSpace(d.DealName)
	if err := validateDeal(d); err != nil {
		return nil, err
	}
	d.ModifiedAt = timeNow().UTC()
	if err := s.Repo.Update(ctx, d); err != nil {
		return nil, repoError(err, "Deal")
	}
	s.notifyClosed(ctx, prev, d)
	return d, nil
}

func (s *DealService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.editable(ctx, actor, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return repoError(err, "Deal")
	}
	return nil
}

func (s *DealService) notifyClosed(ctx context.Context, prev models.Stage, d *models.Deal) {
	if s.Notifier == nil || prev == d.Stage {
		return
	}
	if d.Stage != models.StageWon && d.Stage != models.StageLost {
		return
	}
	if err := s.Notifier.DealClosed(ctx, d); err != nil {
		logging.Logger.Warn().Err(err).Str("deal_id", d.ID).Msg("deal close notification failed")
	}
}

func fieldError(key string, err error) error {
	if errors.Is(err, models.ErrUnknownField) {
		return apperrors.Validation("Unknown field").WithDescription("Field %q cannot be updated", key)
	}
	return apperrors.Validation("Invalid value").WithDescription("%s: %v", key, err)
}

func validateDeal(d *models.Deal) error {
	if d.DealName == "" {
		return apperrors.Validation("Deal name is required")
	}
	if !d.Stage.Valid() {
		return apperrors.Validation("Invalid stage").WithDescription("Unknown stage %q", d.Stage)
	}
	if d.Probability != nil && (*d.Probability < 0 || *d.Probability > 100) {
		return apperrors.Validation("Probability must be between 0 and 100")
	}
	if d.Priority < 0 {
		return apperrors.Validation("Priority cannot be negative")
	}
	if d.ProjectDuration != nil && *d.ProjectDuration < 0 {
		return apperrors.Validation("Project duration cannot be negative")
	}
	if d.StartDate != nil && d.EndDate != nil && d.EndDate.Before(*d.StartDate) {
		return apperrors.Validation("End date is before start date")
	}
	return nil
}
