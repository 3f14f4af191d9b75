// Package api serves the store as a JSON HTTP API.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/tgienger/crm/internal/store"
)

// Deps are the dependencies of the router.
type Deps struct {
	Store *store.Store
	Log   *zerolog.Logger
}

// New creates the fiber app with middleware and every route registered.
func New(deps Deps) *fiber.App {
	log := zerolog.Nop()
	if deps.Log != nil {
		log = deps.Log.With().Str("component", "api").Logger()
	}

	app := fiber.New(fiber.Config{
		AppName:               "crm",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(requestLogger(log))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "crm"})
	})

	Router(app, deps.Store)
	return app
}

// Router registers the /api routes.
func Router(app *fiber.App, s *store.Store) {
	api := app.Group("/api")

	customers := api.Group("/customers")
	customerHandler := NewCustomerHandler(s)
	customers.Get("/", customerHandler.List)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.Get)
	customers.Patch("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	tasks := api.Group("/tasks")
	taskHandler := NewTaskHandler(s)
	tasks.Get("/", taskHandler.List)
	tasks.Post("/", taskHandler.Create)
	tasks.Get("/:id", taskHandler.Get)
	tasks.Patch("/:id", taskHandler.Update)
	tasks.Delete("/:id", taskHandler.Delete)

	dashboardHandler := NewDashboardHandler(s)
	api.Get("/dashboard", dashboardHandler.Summary)
	api.Get("/activities", dashboardHandler.Activities)
}

// requestLogger logs one line per request.
func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Debug().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("took", time.Since(start)).
			Msg("request")
		return err
	}
}
