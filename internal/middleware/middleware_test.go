package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"crmhub/internal/apperrors"
	"crmhub/internal/authz"
	"crmhub/internal/services"
)

type fakeAuth struct {
	actors map[string]services.Actor
}

func (f fakeAuth) Authenticate(_ context.Context, token string) (services.Actor, error) {
	a, ok := f.actors[token]
	if !ok {
		return services.Actor{}, apperrors.Unauthorized("Session has ended")
	}
	return a, nil
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := fakeAuth{actors: map[string]services.Actor{
		"sales": {UserID: "u1", RoleID: authz.RoleSales, SessionID: "s1"},
		"audit": {UserID: "u2", RoleID: authz.RoleAudit, SessionID: "s2"},
	}}
	r.Use(AuthMiddleware(auth))
	ok := func(c *gin.Context) {
		actor, _ := ActorFrom(c)
		c.String(http.StatusOK, actor.UserID)
	}
	r.GET("/me", ok)
	r.POST("/records", ReadOnlyGuard(), ok)
	r.GET("/reports", RequireRoles(authz.RoleAudit, authz.RoleAdmin), ok)
	return r
}

func do(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	w := do(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Missing or invalid Authorization header")

	w = do(r, http.MethodGet, "/me", "revoked")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Session has ended")

	w = do(r, http.MethodGet, "/me", "sales")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())
}

func TestReadOnlyGuardAndRoles(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/records", "audit").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/records", "sales").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/reports", "sales").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/reports", "audit").Code)
}

func TestRecoveryAndLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	r := gin.New()
	r.Use(RequestLogger(log), Recovery(log))
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := do(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), `"status":500`)
	assert.Contains(t, buf.String(), `"path":"/boom"`)
}
