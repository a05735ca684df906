package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	cartH *handler.CartHandler,
) {
	authH.RegisterRoutes(e, cfg)
	productH.RegisterRoutes(e, cfg)
	cartH.RegisterRoutes(e, cfg)
}
