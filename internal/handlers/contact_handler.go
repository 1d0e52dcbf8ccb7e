package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmhub/internal/models"
	"crmhub/internal/services"
)

type ContactHandler struct {
	viewIO
	Contacts *services.ContactService
}

func NewContactHandler(contacts *services.ContactService, bulk *services.BulkService, csv *services.CSVService) *ContactHandler {
	return &ContactHandler{
		viewIO: viewIO{
			view:   models.ViewContacts,
			csv:    csv,
			bulk:   bulk,
			equals: map[string]string{"source": "contact_source"},
		},
		Contacts: contacts,
	}
}

func (h *ContactHandler) List(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	res, err := h.Contacts.List(c.Request.Context(), actor, h.query(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ContactHandler) Create(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var contact models.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.Contacts.Create(c.Request.Context(), actor, &contact)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ContactHandler) GetByID(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	contact, err := h.Contacts.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Update(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var fields map[string]string
	if err := c.ShouldBindJSON(&fields); err != nil {
		badRequest(c, err)
		return
	}
	contact, err := h.Contacts.Update(c.Request.Context(), actor, c.Param("id"), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	if err := h.Contacts.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ContactHandler) Filters(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	opts, err := h.Contacts.Filters(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}
