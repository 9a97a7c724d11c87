package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
	"github.com/rayanjunio/FlexiLease-Autos/internal/httpx"
	"github.com/rayanjunio/FlexiLease-Autos/internal/services"
)

type CarHandler struct {
	service *services.CarService
}

func NewCarHandler(service *services.CarService) *CarHandler {
	return &CarHandler{service: service}
}

func (h *CarHandler) Create(c echo.Context) error {
	var input services.CarCreate
	if err := c.Bind(&input); err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid request body"))
	}

	car, err := h.service.CreateCar(c.Request().Context(), input)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusCreated, car)
}

func (h *CarHandler) List(c echo.Context) error {
	limit, offset := pageParams(c)
	filter := carFilterFromQuery(c)

	cars, total, err := h.service.ListCars(c.Request().Context(), filter, limit, offset)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"car":     cars,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
		"offsets": totalPages(total, limit),
	})
}

func (h *CarHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid car id"))
	}

	car, err := h.service.GetCarByID(c.Request().Context(), id)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, car)
}

func (h *CarHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid car id"))
	}

	var input services.CarUpdate
	if err := c.Bind(&input); err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid request body"))
	}

	car, err := h.service.UpdateCar(c.Request().Context(), id, input)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, car)
}

// UpdateAccessory handles PATCH /car/:id, toggling a single accessory by name.
func (h *CarHandler) UpdateAccessory(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid car id"))
	}

	var input services.AccessoryRequest
	if err := c.Bind(&input); err != nil || input.Name == "" {
		return httpx.Error(c, apperr.BadRequest("Accessory name cannot be empty"))
	}

	car, err := h.service.UpdateAccessory(c.Request().Context(), id, input.Name)
	if err != nil {
		return httpx.Error(c, err)
	}
	return c.JSON(http.StatusOK, car)
}

func (h *CarHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return httpx.Error(c, apperr.BadRequest("Invalid car id"))
	}

	if err := h.service.DeleteCar(c.Request().Context(), id); err != nil {
		return httpx.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func carFilterFromQuery(c echo.Context) services.CarFilter {
	var filter services.CarFilter
	if v := c.QueryParam("model"); v != "" {
		filter.Model = &v
	}
	if v := c.QueryParam("color"); v != "" {
		filter.Color = &v
	}
	if v := c.QueryParam("year"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			filter.Year = &year
		}
	}
	if v := c.QueryParam("valuePerDay"); v != "" {
		if value, err := strconv.ParseFloat(v, 64); err == nil {
			filter.ValuePerDay = &value
		}
	}
	if v := c.QueryParam("numberOfPassengers"); v != "" {
		if passengers, err := strconv.Atoi(v); err == nil {
			filter.NumberOfPassengers = &passengers
		}
	}
	return filter
}
