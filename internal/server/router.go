// Package server assembles the HTTP surface: echo instance, middleware, and
// route registration for the auth, user, car, and reserve handlers.
package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rayanjunio/FlexiLease-Autos/internal/address"
	"github.com/rayanjunio/FlexiLease-Autos/internal/auth"
	"github.com/rayanjunio/FlexiLease-Autos/internal/cache"
	"github.com/rayanjunio/FlexiLease-Autos/internal/handlers"
	"github.com/rayanjunio/FlexiLease-Autos/internal/middleware"
	"github.com/rayanjunio/FlexiLease-Autos/internal/services"
)

type Deps struct {
	DB      *gorm.DB
	Cache   cache.Cache
	Address *address.Client
	Tokens  *auth.Manager
	Logger  *zap.Logger
}

func New(deps Deps) *echo.Echo {
	accessoryService := services.NewAccessoryService(deps.DB)
	carService := services.NewCarService(deps.DB, accessoryService, deps.Cache)
	reserveService := services.NewReserveService(deps.DB)
	userService := services.NewUserService(deps.DB, deps.Address)
	authService := services.NewAuthService(deps.DB, deps.Tokens)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	carHandler := handlers.NewCarHandler(carService)
	reserveHandler := handlers.NewReserveHandler(reserveService)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(requestLogger(deps.Logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "flexilease-autos",
		})
	})

	v1 := e.Group("/api/v1")
	v1.POST("/auth", authHandler.Create)
	v1.POST("/user", userHandler.Create)

	authed := v1.Group("", middleware.BearerAuth(deps.Tokens, deps.DB, deps.Logger))
	authed.GET("/user/:id", userHandler.Get)
	authed.PUT("/user/:id", userHandler.Update)
	authed.DELETE("/user/:id", userHandler.Delete)

	authed.POST("/car", carHandler.Create)
	authed.GET("/car", carHandler.List)
	authed.GET("/car/:id", carHandler.Get)
	authed.PUT("/car/:id", carHandler.Update)
	authed.PATCH("/car/:id", carHandler.UpdateAccessory)
	authed.DELETE("/car/:id", carHandler.Delete)

	authed.POST("/reserve", reserveHandler.Create)
	authed.GET("/reserve", reserveHandler.List)
	authed.GET("/reserve/:id", reserveHandler.Get)
	authed.PUT("/reserve/:id", reserveHandler.Update)
	authed.DELETE("/reserve/:id", reserveHandler.Delete)

	return e
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("elapsed", time.Since(start)),
			)
			return err
		}
	}
}
