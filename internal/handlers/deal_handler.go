package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmhub/internal/models"
	"crmhub/internal/services"
)

type DealHandler struct {
	viewIO
	Deals *services.DealService
	Board *services.BoardService
	Bulk  *services.BulkService
}

func NewDealHandler(deals *services.DealService, board *services.BoardService, bulk *services.BulkService, csv *services.CSVService) *DealHandler {
	return &DealHandler{
		viewIO: viewIO{view: models.ViewDeals, csv: csv, bulk: bulk, filtered: true},
		Deals:  deals,
		Board:  board,
		Bulk:   bulk,
	}
}

// List
// @Summary      Список сделок
// @Description  Поиск, расширенный фильтр, сортировка и пагинация
// @Tags         Deals
// @Produce      json
// @Param        q            query  string  false  "Поиск"
// @Param        sort         query  string  false  "Поле сортировки"
// @Param        dir          query  string  false  "asc | desc"
// @Param        stages       query  string  false  "Стадии через запятую"
// @Param        regions      query  string  false  "Регионы"
// @Param        lead_owners  query  string  false  "Владельцы лида"
// @Param        priorities   query  string  false  "Приоритеты"
// @Param        prob_min     query  int     false  "Мин. вероятность"
// @Param        prob_max     query  int     false  "Макс. вероятность"
// @Param        page         query  int     false  "Страница"
// @Param        size         query  int     false  "Размер страницы"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/deals [get]
func (h *DealHandler) List(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	res, err := h.Deals.List(c.Request.Context(), actor, h.query(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary  Создать сделку
// @Tags     Deals
// @Accept   json
// @Produce  json
// @Param    deal  body      models.Deal  true  "Сделка"
// @Success  201   {object}  models.Deal
// @Failure  400   {object}  apperrors.Body
// @Router   /api/deals [post]
func (h *DealHandler) Create(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var deal models.Deal
	if err := c.ShouldBindJSON(&deal); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.Deals.Create(c.Request.Context(), actor, &deal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *DealHandler) GetByID(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	deal, err := h.Deals.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

// Update меняет только переданные поля.
// @Summary  Частичное обновление сделки
// @Tags     Deals
// @Accept   json
// @Produce  json
// @Param    id     path      string            true  "ID"
// @Param    patch  body      models.DealPatch  true  "Поля"
// @Success  200    {object}  models.Deal
// @Router   /api/deals/{id} [patch]
func (h *DealHandler) Update(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var patch models.DealPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	deal, err := h.Deals.Update(c.Request.Context(), actor, c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *DealHandler) Delete(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	if err := h.Deals.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type bulkStageRequest struct {
	IDs   []string     `json:"ids"`
	Stage models.Stage `json:"stage"`
}

// @Summary  Массовая смена стадии
// @Tags     Deals
// @Accept   json
// @Produce  json
// @Param    body  body      bulkStageRequest  true  "id и стадия"
// @Success  200   {object}  services.BulkResult
// @Router   /api/deals/bulk-stage [post]
func (h *DealHandler) BulkStage(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req bulkStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.Bulk.BulkUpdateStage(c.Request.Context(), actor, req.IDs, req.Stage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary  Канбан-доска
// @Tags     Deals
// @Produce  json
// @Param    q  query     string  false  "Поиск по карточкам"
// @Success  200  {object}  services.Board
// @Router   /api/deals/board [get]
func (h *DealHandler) BoardView(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	board, err := h.Board.Build(c.Request.Context(), actor, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

type moveRequest struct {
	Stage models.Stage `json:"stage" binding:"required"`
}

// Move переносит карточку в другую колонку и возвращает обновлённую доску.
// @Summary  Перенос карточки
// @Tags     Deals
// @Accept   json
// @Produce  json
// @Param    id    path      string       true  "ID"
// @Param    body  body      moveRequest  true  "Целевая стадия"
// @Success  200   {object}  services.Board
// @Router   /api/deals/{id}/move [post]
func (h *DealHandler) Move(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	board, err := h.Board.Move(c.Request.Context(), actor, c.Param("id"), req.Stage, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *DealHandler) Filters(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	opts, err := h.Deals.Filters(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}
