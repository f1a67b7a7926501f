package http

import (
	"github.com/gofiber/fiber/v2"
)

// ServerConfig configures the fiber application.
type ServerConfig struct {
	AppName     string
	BodyLimit   int
	ExposeStack bool
	Middleware  MiddlewareConfig
}

// NewApp builds a fiber app with the error envelope, global middlewares and routes.
func NewApp(cfg ServerConfig, routes RouteConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: NewErrorHandler(cfg.Middleware.Logger, cfg.Middleware.Metrics, cfg.ExposeStack),
	})
	RegisterMiddlewares(app, cfg.Middleware)
	RegisterRoutes(app, routes)
	return app
}
