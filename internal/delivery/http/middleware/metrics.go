package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
)

type RequestObserver interface {
	ObserveRequest(method, route, status string, elapsed time.Duration)
}

// Metrics records one observation per request labelled by route pattern.
func Metrics(obs RequestObserver) fiber.Handler {
	return func(c fiber.Ctx) error {
		if obs == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusFromError(err)
		}
		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		obs.ObserveRequest(c.Method(), route, strconv.Itoa(status), time.Since(start))
		return err
	}
}
