package services

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"crmhub/internal/apperrors"
	"crmhub/internal/authz"
	"crmhub/internal/listing"
	"crmhub/internal/models"
)

const defaultBulkConcurrency = 8

type BulkFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkResult reports a fan-out. Nothing is rolled back when some ids fail.
type BulkResult struct {
	Requested int           `json:"requested"`
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
	// ClearSelection holds the ids the client should drop from its selection:
	// everything that succeeded or no longer exists.
	ClearSelection []string `json:"clear_selection"`
}

type BulkService struct {
	Deals       *DealService
	Leads       *LeadService
	Contacts    *ContactService
	Audit       *AuditService
	Concurrency int
}

func NewBulkService(deals *DealService, leads *LeadService, contacts *ContactService, audit *AuditService, concurrency int) *BulkService {
	if concurrency < 1 {
		concurrency = defaultBulkConcurrency
	}
	return &BulkService{Deals: deals, Leads: leads, Contacts: contacts, Audit: audit, Concurrency: concurrency}
}

// run calls op once per distinct id, at most Concurrency at a time, in no particular order.
func (s *BulkService) run(ctx context.Context, ids []string, op func(ctx context.Context, id string) error) *BulkResult {
	unique := listing.NewSelection(ids...).IDs()
	errs := make([]error, len(unique))

	g, gctx := errgroup.WithContext(ctx)
	limit := s.Concurrency
	if limit < 1 {
		limit = defaultBulkConcurrency
	}
	g.SetLimit(limit)
	for i, id := range unique {
		g.Go(func() error {
			errs[i] = op(gctx, id)
			// ошибки собираем по id, остальные операции продолжаются
			return nil
		})
	}
	_ = g.Wait()

	res := &BulkResult{
		Requested:      len(unique),
		Succeeded:      []string{},
		Failed:         []BulkFailure{},
		ClearSelection: []string{},
	}
	for i, id := range unique {
		err := errs[i]
		switch {
		case err == nil:
			res.Succeeded = append(res.Succeeded, id)
			res.ClearSelection = append(res.ClearSelection, id)
		case apperrors.Is(err, apperrors.TypeNotFound):
			res.Failed = append(res.Failed, BulkFailure{ID: id, Error: failureText(err)})
			res.ClearSelection = append(res.ClearSelection, id)
		default:
			res.Failed = append(res.Failed, BulkFailure{ID: id, Error: failureText(err)})
		}
	}
	return res
}

func failureText(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.Message
	}
	return err.Error()
}

func noneSelected(view models.View, what string) error {
	return apperrors.Validation("No records selected").
		WithDescription("No %s selected for %s.", view, what)
}

// BulkDelete deletes every selected record of the view, one delete per id.
func (s *BulkService) BulkDelete(ctx context.Context, actor Actor, view models.View, ids []string) (*BulkResult, error) {
	if ids = compact(ids); len(ids) == 0 {
		return nil, noneSelected(view, "deletion")
	}
	if authz.IsReadOnly(actor.RoleID) {
		return nil, apperrors.Forbidden("Read-only users cannot delete records")
	}

	var op func(ctx context.Context, id string) error
	switch view {
	case models.ViewDeals:
		op = func(ctx context.Context, id string) error { return s.Deals.Delete(ctx, actor, id) }
	case models.ViewLeads:
		op = func(ctx context.Context, id string) error { return s.Leads.Delete(ctx, actor, id) }
	case models.ViewContacts:
		op = func(ctx context.Context, id string) error { return s.Contacts.Delete(ctx, actor, id) }
	default:
		return nil, apperrors.Validation("Unknown view").WithDescription("View %q does not exist", view)
	}

	res := s.run(ctx, ids, op)
	s.Audit.Record(ctx, actor.UserID, models.AuditBulkDelete, string(view), "", map[string]any{
		"requested": res.Requested,
		"deleted":   len(res.Succeeded),
		"failed":    len(res.Failed),
	})
	return res, nil
}

// BulkUpdateStage moves the selected deals to stage. Deals already there are left untouched.
func (s *BulkService) BulkUpdateStage(ctx context.Context, actor Actor, ids []string, stage models.Stage) (*BulkResult, error) {
	if ids = compact(ids); len(ids) == 0 {
		return nil, noneSelected(models.ViewDeals, "the stage change")
	}
	if !stage.Valid() {
		return nil, apperrors.Validation("Invalid stage").WithDescription("Unknown stage %q", stage)
	}
	return s.run(ctx, ids, func(ctx context.Context, id string) error {
		d, err := s.Deals.editable(ctx, actor, id)
		if err != nil {
			return err
		}
		if d.Stage == stage {
			return nil
		}
		prev := d.Stage
		if err := s.Deals.Repo.UpdateStage(ctx, id, stage); err != nil {
			return repoError(err, "Deal")
		}
		d.Stage = stage
		s.Deals.notifyClosed(ctx, prev, d)
		return nil
	}), nil
}

// BulkAssignOwner hands the selected leads to another owner. Managers only.
func (s *BulkService) BulkAssignOwner(ctx context.Context, actor Actor, ids []string, owner string) (*BulkResult, error) {
	if ids = compact(ids); len(ids) == 0 {
		return nil, noneSelected(models.ViewLeads, "assignment")
	}
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, apperrors.Validation("Owner is required")
	}
	if !authz.IsElevated(actor.RoleID) {
		return nil, apperrors.Forbidden("Only managers can reassign leads")
	}
	return s.run(ctx, ids, func(ctx context.Context, id string) error {
		if _, err := s.Leads.editable(ctx, actor, id); err != nil {
			return err
		}
		if err := s.Leads.Repo.UpdateOwner(ctx, id, owner); err != nil {
			return repoError(err, "Lead")
		}
		return nil
	}), nil
}

func compact(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
