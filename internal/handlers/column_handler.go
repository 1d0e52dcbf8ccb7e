package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmhub/internal/models"
	"crmhub/internal/services"
)

type ColumnHandler struct {
	Columns *services.ColumnService
}

func NewColumnHandler(columns *services.ColumnService) *ColumnHandler {
	return &ColumnHandler{Columns: columns}
}

type saveColumnsRequest struct {
	Columns []models.Column `json:"columns" binding:"required"`
}

func (h *ColumnHandler) Get(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	cfg, err := h.Columns.Get(c.Request.Context(), actor.UserID, models.View(c.Param("view")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// @Summary  Сохранить настройку колонок
// @Tags     Columns
// @Accept   json
// @Produce  json
// @Param    view  path      string              true  "deals | leads | contacts"
// @Param    body  body      saveColumnsRequest  true  "Колонки"
// @Success  200   {object}  models.ColumnConfig
// @Failure  400   {object}  apperrors.Body
// @Router   /api/columns/{view} [put]
func (h *ColumnHandler) Save(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req saveColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cfg, err := h.Columns.Save(c.Request.Context(), actor.UserID, models.View(c.Param("view")), req.Columns)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *ColumnHandler) Reset(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	cfg, err := h.Columns.Reset(c.Request.Context(), actor.UserID, models.View(c.Param("view")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
