package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
	"github.com/rayanjunio/FlexiLease-Autos/internal/httpx"
	"github.com/rayanjunio/FlexiLease-Autos/internal/services"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Create(c echo.Context) error {
	var req authRequest
	if err := c.Bind(&req); err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return httpx.Error(c, apperr.BadRequest("Email and password are required"))
	}

	token, err := h.service.CreateAuth(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}
