package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crmhub/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// @Summary      Вход в систему
// @Description  Открывает сессию и возвращает access и refresh токены
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      loginRequest  true  "Данные для входа"
// @Success      200    {object}  services.LoginResult
// @Failure      400    {object}  apperrors.Body
// @Failure      401    {object}  apperrors.Body
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), strings.TrimSpace(req.Email), req.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary  Обновить access токен
// @Tags     Auth
// @Accept   json
// @Produce  json
// @Param    body  body      refreshRequest  true  "Refresh токен"
// @Success  200   {object}  services.LoginResult
// @Failure  401   {object}  apperrors.Body
// @Router   /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary  Выход
// @Tags     Auth
// @Success  204
// @Router   /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	if err := h.Auth.SignOut(c.Request.Context(), actor); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
