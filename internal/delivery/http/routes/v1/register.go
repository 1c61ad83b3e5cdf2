package v1

import (
	"turf-hire/internal/delivery/http/handler"
	"turf-hire/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Auth     *handler.AuthHandler
	Skills   *handler.SkillHandler
	Claims   *handler.ClaimHandler
	Profile  *handler.ProfileHandler
	Jobs     *handler.JobHandler
	Courses  *handler.CourseHandler
	Evidence *handler.EvidenceHandler
	AuthMw   *middleware.AuthMiddleware
}

// Register mounts /auth publicly and everything else behind the access token.
func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}
	if h.AuthMw == nil {
		return
	}

	protected := r.Group("", h.AuthMw.Middleware())
	if h.Skills != nil {
		h.Skills.RegisterRoutes(protected)
	}
	if h.Claims != nil {
		h.Claims.RegisterRoutes(protected)
	}
	if h.Profile != nil {
		h.Profile.RegisterRoutes(protected)
	}
	if h.Jobs != nil {
		h.Jobs.RegisterRoutes(protected)
	}
	if h.Courses != nil {
		h.Courses.RegisterRoutes(protected)
	}
	// only backends without signed URLs serve evidence through the API
	if h.Evidence != nil {
		h.Evidence.RegisterRoutes(protected)
	}
}
