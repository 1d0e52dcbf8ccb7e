package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmhub/internal/models"
	"crmhub/internal/services"
)

type LeadHandler struct {
	viewIO
	Leads *services.LeadService
	Bulk  *services.BulkService
}

func NewLeadHandler(leads *services.LeadService, bulk *services.BulkService, csv *services.CSVService) *LeadHandler {
	return &LeadHandler{
		viewIO: viewIO{
			view: models.ViewLeads,
			csv:  csv,
			bulk: bulk,
			equals: map[string]string{
				"status": "lead_status",
				"source": "contact_source",
				"owner":  "contact_owner",
			},
		},
		Leads: leads,
		Bulk:  bulk,
	}
}

// List
// @Summary  Список лидов
// @Tags     Leads
// @Produce  json
// @Param    q       query  string  false  "Поиск"
// @Param    status  query  string  false  "Статус"
// @Param    source  query  string  false  "Источник"
// @Param    sort    query  string  false  "Поле сортировки"
// @Param    dir     query  string  false  "asc | desc"
// @Success  200  {object}  map[string]interface{}
// @Router   /api/leads [get]
func (h *LeadHandler) List(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	res, err := h.Leads.List(c.Request.Context(), actor, h.query(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *LeadHandler) Create(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var lead models.Lead
	if err := c.ShouldBindJSON(&lead); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.Leads.Create(c.Request.Context(), actor, &lead)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *LeadHandler) GetByID(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	lead, err := h.Leads.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// Update принимает только изменённые поля: {"email": "...", "lead_status": "Contacted"}.
func (h *LeadHandler) Update(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		badRequest(c, err)
		return
	}
	lead, err := h.Leads.Update(c.Request.Context(), actor, c.Param("id"), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

func (h *LeadHandler) Delete(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	if err := h.Leads.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type statusRequest struct {
	Status models.LeadStatus `json:"status" binding:"required"`
}

// @Summary  Смена статуса лида
// @Tags     Leads
// @Accept   json
// @Param    id    path  string         true  "ID"
// @Param    body  body  statusRequest  true  "Новый статус"
// @Success  204
// @Failure  400  {object}  apperrors.Body
// @Router   /api/leads/{id}/status [post]
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.Leads.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary  Конвертация лида в сделку
// @Tags     Leads
// @Accept   json
// @Produce  json
// @Param    id    path      string                 true   "ID"
// @Param    body  body      services.ConvertInput  false  "Параметры сделки"
// @Success  201   {object}  models.Deal
// @Failure  409   {object}  apperrors.Body
// @Router   /api/leads/{id}/convert [post]
func (h *LeadHandler) Convert(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var in services.ConvertInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
	}
	deal, err := h.Leads.Convert(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deal)
}

type assignRequest struct {
	IDs   []string `json:"ids"`
	Owner string   `json:"owner" binding:"required"`
}

func (h *LeadHandler) BulkAssign(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.Bulk.BulkAssignOwner(c.Request.Context(), actor, req.IDs, req.Owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *LeadHandler) Filters(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	opts, err := h.Leads.Filters(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}
