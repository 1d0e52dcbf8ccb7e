package services

import (
	"context"

	"crmhub/internal/apperrors"
	"crmhub/internal/authz"
	"crmhub/internal/listing"
	"crmhub/internal/logging"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

type AuditService struct {
	Repo repositories.AuditRepository
}

func NewAuditService(repo repositories.AuditRepository) *AuditService {
	return &AuditService{Repo: repo}
}

// Record writes an audit entry. Failures are logged and never fail the audited operation.
func (s *AuditService) Record(ctx context.Context, userID string, action models.AuditAction, resourceType, resourceID string, details map[string]any) {
	if s == nil || s.Repo == nil {
		return
	}
	e := &models.AuditEntry{
		ID:           newID(),
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		CreatedAt:    timeNow().UTC(),
	}
	if err := s.Repo.Insert(ctx, e); err != nil {
		logging.Logger.Warn().Err(err).
			Str("action", string(action)).
			Str("user_id", userID).
			Msg("audit entry not written")
	}
}

type AuditQuery struct {
	UserID  string
	Actions []models.AuditAction
	Page    int
	Size    int
}

// List returns the caller's own entries. Admin and audit roles may list anyone's, or everyone's when UserID is empty.
func (s *AuditService) List(ctx context.Context, actor Actor, q AuditQuery) (listing.Result[*models.AuditEntry], error) {
	userID := actor.UserID
	if actor.RoleID == authz.RoleAdmin || actor.RoleID == authz.RoleAudit {
		userID = q.UserID
	} else if q.UserID != "" && q.UserID != actor.UserID {
		return listing.Result[*models.AuditEntry]{}, apperrors.Forbidden("You can only view your own audit log")
	}

	_, page := listing.Paginate([]struct{}{}, q.Page, q.Size)
	entries, total, err := s.Repo.List(ctx, models.AuditFilter{
		UserID:  userID,
		Actions: q.Actions,
		Limit:   page.Size,
		Offset:  (page.Page - 1) * page.Size,
	})
	if err != nil {
		return listing.Result[*models.AuditEntry]{}, apperrors.Internal("Failed to load audit log", err)
	}
	if entries == nil {
		entries = []*models.AuditEntry{}
	}
	page.Total = total
	page.Pages = (total + page.Size - 1) / page.Size
	return listing.Result[*models.AuditEntry]{Items: entries, Page: page}, nil
}
