package app

import (
	"context"
	"fmt"
	"strings"

	"turf-hire/internal/config"
	"turf-hire/internal/delivery/http/middleware"
	"turf-hire/internal/delivery/http/routes"
	"turf-hire/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// multipart overhead on top of the evidence payloads
const bodyLimitSlack = 1 << 20

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the fiber app around an already wired registry.
func New(cfg config.Config, log *zap.Logger, reg *routes.Registry, obs middleware.RequestObserver) *fiber.App {
	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: bodyLimit(cfg),
	})

	registerGlobalMiddleware(f, log, obs)
	reg.Register(f)

	return f
}

// Bootstrap wires the container and the HTTP app. The returned cleanup
// closes the container; the hub stops with ctx.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	go c.Hub.Run(ctx)

	f := New(cfg, log, c.Routes, c.Metrics)
	return &App{Fiber: f, Container: c}, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, log *zap.Logger, obs middleware.RequestObserver) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(log).Middleware())
	app.Use(middleware.Metrics(obs))
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
}

func bodyLimit(cfg config.Config) int {
	limit := cfg.Evidence.MaxBytes*usecase.MaxEvidenceFiles + bodyLimitSlack
	if limit <= 0 {
		return 4 * 1024 * 1024
	}
	return int(limit)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
