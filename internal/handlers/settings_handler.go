package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmhub/internal/models"
	"crmhub/internal/services"
)

// SettingsHandler serves the security settings page: sessions, password and the audit log.
type SettingsHandler struct {
	Auth  *services.AuthService
	Audit *services.AuditService
}

func NewSettingsHandler(auth *services.AuthService, audit *services.AuditService) *SettingsHandler {
	return &SettingsHandler{Auth: auth, Audit: audit}
}

// @Summary  Активные сессии
// @Tags     Settings
// @Produce  json
// @Success  200  {array}  models.Session
// @Router   /api/settings/sessions [get]
func (h *SettingsHandler) ListSessions(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	sessions, err := h.Auth.ListSessions(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// @Summary  Завершить сессию
// @Tags     Settings
// @Param    id  path  string  true  "ID сессии"
// @Success  204
// @Failure  400  {object}  apperrors.Body
// @Router   /api/settings/sessions/{id} [delete]
func (h *SettingsHandler) TerminateSession(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	if err := h.Auth.TerminateSession(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary  Завершить все остальные сессии
// @Tags     Settings
// @Produce  json
// @Success  200  {object}  map[string]int64
// @Router   /api/settings/sessions [delete]
func (h *SettingsHandler) TerminateOthers(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	n, err := h.Auth.TerminateOtherSessions(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"terminated_sessions": n})
}

// @Summary  Сменить пароль
// @Tags     Settings
// @Accept   json
// @Param    body  body  services.ChangePasswordRequest  true  "Пароли"
// @Success  204
// @Failure  400  {object}  apperrors.Body
// @Router   /api/settings/password [post]
func (h *SettingsHandler) ChangePassword(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Auth.ChangePassword(c.Request.Context(), actor, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AuditLog
// @Summary  Журнал безопасности
// @Tags     Settings
// @Produce  json
// @Param    user_id  query  string  false  "Пользователь (admin/audit)"
// @Param    actions  query  string  false  "Действия через запятую"
// @Param    page     query  int     false  "Страница"
// @Param    size     query  int     false  "Размер страницы"
// @Success  200  {object}  map[string]interface{}
// @Router   /api/settings/audit [get]
func (h *SettingsHandler) AuditLog(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	q := services.AuditQuery{
		UserID: c.Query("user_id"),
		Page:   queryInt(c, "page", 1),
		Size:   queryInt(c, "size", 50),
	}
	for _, a := range queryList(c, "actions") {
		q.Actions = append(q.Actions, models.AuditAction(a))
	}
	res, err := h.Audit.List(c.Request.Context(), actor, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
