package routes

import (
	"net/http"

	"turf-hire/internal/delivery/http/handler"
	v1 "turf-hire/internal/delivery/http/routes/v1"
	"turf-hire/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

// Registry mounts every HTTP surface on the fiber app.
type Registry struct {
	Health  *handler.HealthHandler
	WS      *ws.Handler
	Metrics http.Handler
	V1      v1.Handlers
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	r.registerHealth(app)
	r.registerMetrics(app)
	r.registerRealtime(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.Health != nil {
		r.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerMetrics(app *fiber.App) {
	if r.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(r.Metrics))
	}
}

func (r *Registry) registerRealtime(app *fiber.App) {
	if r.WS != nil {
		r.WS.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.V1)
}
