package httpx

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
)

// Error writes the {code, status, message} envelope for any failure.
// ValidationError is serialized verbatim with its own HTTP status; every
// other error surfaces as a 400 carrying its message.
func Error(c echo.Context, err error) error {
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(verr.Code, verr)
	}
	if err != nil {
		return c.JSON(http.StatusBadRequest, apperr.BadRequest(err.Error()))
	}
	return c.JSON(http.StatusInternalServerError, apperr.Internal("An unexpected error occurred"))
}
