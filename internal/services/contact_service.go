package services

import (
	"context"
	"strings"

	"crmhub/internal/apperrors"
	"crmhub/internal/authz"
	"crmhub/internal/listing"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

type ContactService struct {
	Repo repositories.ContactRepository
}

func NewContactService(repo repositories.ContactRepository) *ContactService {
	return &ContactService{Repo: repo}
}

type ContactFilterOptions struct {
	Sources   []string `json:"sources"`
	Companies []string `json:"companies"`
	Owners    []string `json:"owners"`
}

func (s *ContactService) All(ctx context.Context, actor Actor) ([]*models.Contact, error) {
	contacts, err := s.Repo.List(ctx, actor.ownerScope())
	if err != nil {
		return nil, apperrors.Internal("Failed to load contacts", err)
	}
	return contacts, nil
}

func (s *ContactService) List(ctx context.Context, actor Actor, q listing.Query) (listing.Result[*models.Contact], error) {
	contacts, err := s.All(ctx, actor)
	if err != nil {
		return listing.Result[*models.Contact]{}, err
	}
	return listing.Run(contacts, q), nil
}

func (s *ContactService) Filters(ctx context.Context, actor Actor) (*ContactFilterOptions, error) {
	contacts, err := s.All(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &ContactFilterOptions{
		Sources:   listing.Distinct(contacts, "contact_source"),
		Companies: listing.Distinct(contacts, "company_name"),
		Owners:    listing.Distinct(contacts, "contact_owner"),
	}, nil
}

func (s *ContactService) Get(ctx context.Context, actor Actor, id string) (*models.Contact, error) {
	c, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Contact")
	}
	if !actor.SeesAll() && c.ContactOwner != actor.UserID {
		return nil, apperrors.NotFound("Contact")
	}
	return c, nil
}

func (s *ContactService) editable(ctx context.Context, actor Actor, id string) (*models.Contact, error) {
	c, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(c.ContactOwner) {
		return nil, forbidden("contact")
	}
	return c, nil
}

func (s *ContactService) Create(ctx context.Context, actor Actor, c *models.Contact) (*models.Contact, error) {
	if authz.IsReadOnly(actor.RoleID) {
		return nil, forbidden("contact")
	}
	c.ContactName = strings.TrimSpace(c.ContactName)
	if c.ContactName == "" {
		return nil, apperrors.Validation("Contact name is required")
	}
	if c.ContactOwner == "" || !authz.IsElevated(actor.RoleID) {
		c.ContactOwner = actor.UserID
	}
	now := timeNow().UTC()
	c.ID = newID()
	c.CreatedTime = now
	c.ModifiedTime = now
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, apperrors.Internal("Failed to create contact", err)
	}
	return c, nil
}

func (s *ContactService) Update(ctx context.Context, actor Actor, id string, fields map[string]string) (*models.Contact, error) {
	c, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	prevOwner := c.ContactOwner
	for key, value := range fields {
		if err := c.SetField(key, strings.TrimSpace(value)); err != nil {
			return nil, fieldError(key, err)
		}
	}
	if c.ContactName == "" {
		return nil, apperrors.Validation("Contact name is required")
	}
	if c.ContactOwner != prevOwner && !authz.IsElevated(actor.RoleID) {
		return nil, apperrors.Forbidden("Only managers can reassign contacts")
	}
	c.ModifiedTime = timeNow().UTC()
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, repoError(err, "Contact")
	}
	return c, nil
}

func (s *ContactService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.editable(ctx, actor, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return repoError(err, "Contact")
	}
	return nil
}
