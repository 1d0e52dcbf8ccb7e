package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crmhub/internal/apperrors"
	"crmhub/internal/listing"
	"crmhub/internal/models"
	"crmhub/internal/services"
)

// viewIO serves the CSV and bulk-delete endpoints every record view shares.
type viewIO struct {
	view     models.View
	csv      *services.CSVService
	bulk     *services.BulkService
	equals   map[string]string
	filtered bool
}

func (v viewIO) query(c *gin.Context) listing.Query {
	q := listQuery(c, v.equals)
	if v.filtered {
		q.Filter = dealFilter(c)
	}
	return q
}

// Export
// @Summary      Экспорт в CSV
// @Description  Без ids выгружает всё, что подходит под запрос; с ids только выбранные записи
// @Tags         Records
// @Produce      text/csv
// @Param        ids  query  string  false  "Выбранные id через запятую"
// @Success      200
// @Failure      400  {object}  apperrors.Body
// @Router       /api/{view}/export [get]
func (v viewIO) Export(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	file, err := v.csv.Export(c.Request.Context(), actor, v.view, selectedIDs(c), v.query(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Header("X-Total-Count", strconv.Itoa(file.Rows))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", file.Data)
}

// Import
// @Summary      Импорт из CSV
// @Tags         Records
// @Accept       multipart/form-data
// @Produce      json
// @Param        file             formData  file  true   "CSV файл"
// @Param        update_existing  formData  bool  false  "Обновлять записи с существующим ID"
// @Success      200  {object}  services.ImportResult
// @Failure      400  {object}  apperrors.Body
// @Router       /api/{view}/import [post]
func (v viewIO) Import(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperrors.Validation("File is required").WithDescription("Upload the CSV as the \"file\" field"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, apperrors.Internal("Failed to read upload", err))
		return
	}
	defer f.Close()

	update, _ := strconv.ParseBool(c.PostForm("update_existing"))
	res, err := v.csv.Import(c.Request.Context(), actor, v.view, f, services.ImportOptions{UpdateExisting: update})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// BulkDelete
// @Summary      Массовое удаление
// @Tags         Records
// @Accept       json
// @Produce      json
// @Param        body  body      idsRequest  true  "Выбранные id"
// @Success      200   {object}  services.BulkResult
// @Failure      400   {object}  apperrors.Body
// @Router       /api/{view}/bulk-delete [post]
func (v viewIO) BulkDelete(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := v.bulk.BulkDelete(c.Request.Context(), actor, v.view, req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
