package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rayanjunio/FlexiLease-Autos/internal/apperr"
	"github.com/rayanjunio/FlexiLease-Autos/internal/auth"
	"github.com/rayanjunio/FlexiLease-Autos/internal/models"
)

const userIDKey = "userID"

// BearerAuth verifies the Authorization bearer token and confirms the token's
// user still exists before letting the request through. The user id is
// stashed in the echo context for handlers.
func BearerAuth(tokens *auth.Manager, conn *gorm.DB, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return c.JSON(http.StatusBadRequest, apperr.BadRequest("Token not provided"))
			}

			token := header
			if _, rest, found := strings.Cut(header, " "); found {
				token = rest
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				logger.Warn("rejected bearer token", zap.Error(err))
				return c.JSON(http.StatusBadRequest, apperr.BadRequest(err.Error()))
			}

			var count int64
			if err := conn.Model(&models.User{}).Where("id = ?", claims.UserID).Limit(1).Count(&count).Error; err != nil {
				return c.JSON(http.StatusInternalServerError, apperr.Internal("An unexpected error occurred"))
			}
			if count == 0 {
				return c.JSON(http.StatusUnauthorized, apperr.Unauthorized("User not found"))
			}

			c.Set(userIDKey, claims.UserID)
			return next(c)
		}
	}
}

// UserIDFrom returns the authenticated user id set by BearerAuth.
func UserIDFrom(c echo.Context) uint {
	if id, ok := c.Get(userIDKey).(uint); ok {
		return id
	}
	return 0
}
