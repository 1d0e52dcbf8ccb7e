package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"crmhub/internal/apperrors"
	"crmhub/internal/authz"
)

func RequireRoles(allowed ...int) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			abort(c, apperrors.Unauthorized("Not signed in"))
			return
		}
		if !slices.Contains(allowed, actor.RoleID) {
			abort(c, apperrors.Forbidden("Your role cannot access this resource"))
			return
		}
		c.Next()
	}
}

// ReadOnlyGuard rejects unsafe methods for the audit role.
func ReadOnlyGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, _ := ActorFrom(c)
		if authz.IsReadOnly(actor.RoleID) {
			switch c.Request.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				// ok
			default:
				abort(c, apperrors.Forbidden("Read-only role"))
				return
			}
		}
		c.Next()
	}
}
