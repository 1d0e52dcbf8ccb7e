package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmhub/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// @Summary  Сводка по воронке
// @Tags     Reports
// @Produce  json
// @Success  200  {object}  services.PipelineSummary
// @Router   /api/reports/pipeline [get]
func (h *ReportHandler) Pipeline(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	sum, err := h.Service.Pipeline(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// @Summary  Сводка по воронке в PDF
// @Tags     Reports
// @Produce  application/pdf
// @Success  200
// @Router   /api/reports/pipeline.pdf [get]
func (h *ReportHandler) PipelinePDF(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	data, err := h.Service.PipelinePDF(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="pipeline.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
