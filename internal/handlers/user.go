package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
	"github.com/rayanjunio/FlexiLease-Autos/internal/httpx"
	"github.com/rayanjunio/FlexiLease-Autos/internal/middleware"
	"github.com/rayanjunio/FlexiLease-Autos/internal/services"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Create(c echo.Context) error {
	var input services.UserCreate
	if err := c.Bind(&input); err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid request body"))
	}

	user, err := h.service.CreateUser(c.Request().Context(), input)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid user id"))
	}

	user, err := h.service.GetUserByID(c.Request().Context(), id, middleware.UserIDFrom(c))
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid user id"))
	}
	if id != middleware.UserIDFrom(c) {
		return httpx.Error(c, apperr.Forbidden("You are not authorized to access this user's information"))
	}

	var input services.UserUpdate
	if err := c.Bind(&input); err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid request body"))
	}

	user, err := h.service.UpdateUser(c.Request().Context(), id, input)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid user id"))
	}
	if id != middleware.UserIDFrom(c) {
		return httpx.Error(c, apperr.Forbidden("You are not authorized to access this user's information"))
	}

	if err := h.service.DeleteUser(c.Request().Context(), id); err != nil {
		return httpx.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
