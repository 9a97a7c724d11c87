package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
	"github.com/rayanjunio/FlexiLease-Autos/internal/httpx"
	"github.com/rayanjunio/FlexiLease-Autos/internal/middleware"
	"github.com/rayanjunio/FlexiLease-Autos/internal/services"
)

type ReserveHandler struct {
	service *services.ReserveService
}

func NewReserveHandler(service *services.ReserveService) *ReserveHandler {
	return &ReserveHandler{service: service}
}

type reserveCreateRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	CarID     uint   `json:"carId"`
}

func (h *ReserveHandler) Create(c echo.Context) error {
	var req reserveCreateRequest
	if err := c.Bind(&req); err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid request body"))
	}

	reserve, err := h.service.CreateReserve(c.Request().Context(), req.StartDate, req.EndDate, req.CarID, middleware.UserIDFrom(c))
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusCreated, reserve)
}

func (h *ReserveHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)

	var filter services.ReserveFilter
	if v := c.QueryParam("carId"); v != "" {
		if carID, err := strconv.ParseUint(v, 10, 32); err == nil {
			id := uint(carID)
			filter.CarID = &id
		}
	}

	reserves, total, err := h.service.ListReserves(c.Request().Context(), middleware.UserIDFrom(c), filter, limit, offset)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reserves": reserves,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
		"offsets":  totalPages(total, limit),
	})
}

func (h *ReserveHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid reserve id"))
	}

	reserve, err := h.service.GetReserveByID(c.Request().Context(), id, middleware.UserIDFrom(c))
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, reserve)
}

func (h *ReserveHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid reserve id"))
	}

	var input services.ReserveUpdate
	if err := c.Bind(&input); err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid request body"))
	}

	reserve, err := h.service.UpdateReserve(c.Request().Context(), id, middleware.UserIDFrom(c), input)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, reserve)
}

func (h *ReserveHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid reserve id"))
	}

	if err := h.service.DeleteReserve(c.Request().Context(), id, middleware.UserIDFrom(c)); err != nil {
		return httpx.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
