package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hackathon/api/http/handlers"
)

// AppConfig leaves room for multipart framing around a MaxUploadBytes file,
// so oversized uploads reach the handler and get a JSON 400.
func AppConfig() fiber.Config {
	return fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             handlers.MaxUploadBytes + 1<<20,
	}
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, health *handlers.HealthHandler, registrations *handlers.RegistrationsHandler, imports *handlers.ImportsHandler, authMW fiber.Handler, metrics fiber.Handler) {
	app.Get("/metrics", metrics)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Liveness and readiness for monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	v1.Get("/registrations", registrations.List)

	// Imports replace the whole table, operators only
	v1.Post("/imports", authMW, imports.Create)
}
