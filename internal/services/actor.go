package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"crmhub/internal/apperrors"
	"crmhub/internal/authz"
	"crmhub/internal/repositories"
)

// Actor is the authenticated caller behind a request.
type Actor struct {
	UserID    string
	RoleID    int
	SessionID string
}

// SeesAll reports whether the actor lists every record rather than only its own.
func (a Actor) SeesAll() bool {
	return authz.IsElevated(a.RoleID) || authz.IsReadOnly(a.RoleID)
}

// CanModify reports whether the actor may change a record owned by ownerID.
func (a Actor) CanModify(ownerID string) bool {
	if authz.IsReadOnly(a.RoleID) {
		return false
	}
	return authz.IsElevated(a.RoleID) || (ownerID != "" && ownerID == a.UserID)
}

func (a Actor) ownerScope() string {
	if a.SeesAll() {
		return ""
	}
	return a.UserID
}

var (
	timeNow = time.Now
	newID   = uuid.NewString
)

func repoError(err error, resource string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound(resource).Wrap(err)
	}
	return apperrors.Internal("Failed to access "+resource, err)
}

func forbidden(resource string) error {
	return apperrors.Forbidden("You are not allowed to modify this " + resource)
}
