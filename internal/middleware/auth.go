package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crmhub/internal/apperrors"
	"crmhub/internal/services"
)

const (
	actorKey = "actor"
	// user_id / role_id дублируются для логов
	userIDKey = "user_id"
	roleIDKey = "role_id"
)

// Authenticator resolves a bearer token to the calling actor.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (services.Actor, error)
}

func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// пропускаем preflight
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abort(c, apperrors.Unauthorized("Missing or invalid Authorization header"))
			return
		}

		actor, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(actorKey, actor)
		c.Set(userIDKey, actor.UserID)
		c.Set(roleIDKey, actor.RoleID)
		c.Next()
	}
}

// ActorFrom returns the actor stored by AuthMiddleware.
func ActorFrom(c *gin.Context) (services.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return services.Actor{}, false
	}
	actor, ok := v.(services.Actor)
	return actor, ok
}

// SetActor is used by tests and by routes that authenticate differently.
func SetActor(c *gin.Context, actor services.Actor) {
	c.Set(actorKey, actor)
	c.Set(userIDKey, actor.UserID)
	c.Set(roleIDKey, actor.RoleID)
}

func abort(c *gin.Context, err error) {
	status, body := apperrors.Response(err)
	c.AbortWithStatusJSON(status, body)
}
