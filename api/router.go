package api

import (
	"net/http"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/suwandre/fundingarb/api/handlers"
)

func SetupRoutes(app *fiber.App, source handlers.OpportunitySource, metrics http.Handler) {
	h := handlers.NewOpportunityHandler(source)

	app.Get("/healthz", func(c fiber.Ctx) error {
		return c.SendString("ok")
	})
	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics))
	}

	v1 := app.Group("/v1")

	v1.Get("/opportunities", h.List)
	v1.Get("/opportunities/:asset", h.Get)
	v1.Post("/refresh", h.Refresh)
	v1.Get("/venues", h.Venues)
}
