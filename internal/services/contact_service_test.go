package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmhub/internal/apperrors"
	"crmhub/internal/listing"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
)

func contactStore(contacts ...*models.Contact) *mockContactRepo {
	byID := map[string]*models.Contact{}
	for _, c := range contacts {
		byID[c.ID] = c
	}
	return &mockContactRepo{
		getByIDFn: func(_ context.Context, id string) (*models.Contact, error) {
			if c, ok := byID[id]; ok {
				cp := *c
				return &cp, nil
			}
			return nil, repositories.ErrNotFound
		},
		listFn: func(_ context.Context, owner string) ([]*models.Contact, error) {
			var out []*models.Contact
			for _, c := range contacts {
				if owner == "" || c.ContactOwner == owner {
					out = append(out, c)
				}
			}
			return out, nil
		},
	}
}

func TestContactCreate(t *testing.T) {
	svc := NewContactService(&mockContactRepo{})
	ctx := context.Background()

	c, err := svc.Create(ctx, sales, &models.Contact{ContactName: " Jane Doe ", ContactOwner: "other"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", c.ContactName)
	assert.Equal(t, sales.UserID, c.ContactOwner)
	assert.NotEmpty(t, c.ID)

	c, err = svc.Create(ctx, manager, &models.Contact{ContactName: "Bob", ContactOwner: "u-sales"})
	require.NoError(t, err)
	assert.Equal(t, "u-sales", c.ContactOwner)

	_, err = svc.Create(ctx, sales, &models.Contact{ContactName: "  "})
	assert.True(t, apperrors.Is(err, apperrors.TypeValidation))

	_, err = svc.Create(ctx, auditor, &models.Contact{ContactName: "X"})
	assert.True(t, apperrors.Is(err, apperrors.TypeForbidden))
}

func TestContactScopeAndFilters(t *testing.T) {
	repo := contactStore(
		&models.Contact{ID: "c1", ContactName: "Ann", ContactSource: "Web", ContactOwner: sales.UserID},
		&models.Contact{ID: "c2", ContactName: "Ben", ContactSource: "Referral", ContactOwner: "u-other"},
		&models.Contact{ID: "c3", ContactName: "Cat", ContactSource: "Web", ContactOwner: "u-other"},
	)
	svc := NewContactService(repo)
	ctx := context.Background()

	res, err := svc.List(ctx, sales, listing.Query{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "c1", res.Items[0].ID)

	res, err = svc.List(ctx, manager, listing.Query{Equals: map[string]string{"contact_source": "Web"}})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)

	opts, err := svc.Filters(ctx, manager)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Web", "Referral"}, opts.Sources)

	_, err = svc.Get(ctx, sales, "c2")
	assert.True(t, apperrors.Is(err, apperrors.TypeNotFound), "foreign contacts are hidden")
}

func TestContactUpdateAndDelete(t *testing.T) {
	repo := contactStore(&models.Contact{ID: "c1", ContactName: "Ann", ContactOwner: sales.UserID})
	var saved *models.Contact
	repo.updateFn = func(_ context.Context, c *models.Contact) error {
		saved = c
		return nil
	}
	var deleted string
	repo.deleteFn = func(_ context.Context, id string) error {
		deleted = id
		return nil
	}
	svc := NewContactService(repo)
	ctx := context.Background()

	c, err := svc.Update(ctx, sales, "c1", map[string]string{"email": " ann@example.com ", "position": "CTO"})
	require.NoError(t, err)
	assert.Same(t, saved, c)
	assert.Equal(t, "ann@example.com", c.Email)
	assert.Equal(t, "CTO", c.Position)

	_, err = svc.Update(ctx, sales, "c1", map[string]string{"contact_owner": "u-other"})
	assert.True(t, apperrors.Is(err, apperrors.TypeForbidden))

	_, err = svc.Update(ctx, sales, "c1", map[string]string{"contact_name": ""})
	assert.True(t, apperrors.Is(err, apperrors.TypeValidation))

	_, err = svc.Update(ctx, sales, "c1", map[string]string{"id": "x"})
	assert.True(t, apperrors.Is(err, apperrors.TypeValidation))

	err = svc.Delete(ctx, auditor, "c1")
	assert.True(t, apperrors.Is(err, apperrors.TypeForbidden))

	require.NoError(t, svc.Delete(ctx, sales, "c1"))
	assert.Equal(t, "c1", deleted)
}
