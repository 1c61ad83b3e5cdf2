package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"turf-hire/internal/config"
	"turf-hire/internal/database"
	"turf-hire/internal/database/migration"
	dbpostgres "turf-hire/internal/database/postgres"
	"turf-hire/internal/database/seeder"
	"turf-hire/internal/delivery/http/handler"
	"turf-hire/internal/delivery/http/middleware"
	"turf-hire/internal/delivery/http/routes"
	v1 "turf-hire/internal/delivery/http/routes/v1"
	"turf-hire/internal/infrastructure/cache"
	"turf-hire/internal/infrastructure/metrics"
	"turf-hire/internal/infrastructure/storage"
	"turf-hire/internal/pkg/jwt"
	"turf-hire/internal/pkg/logger"
	"turf-hire/internal/repository"
	"turf-hire/internal/usecase"
	"turf-hire/internal/ws"

	"go.uber.org/zap"
)

// Container holds every long-lived dependency of the server process.
type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      database.DB
	Cache   *cache.Redis
	Store   storage.Store
	Metrics *metrics.Prometheus
	Hub     *ws.Hub

	Routes *routes.Registry
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Container{Config: cfg, Logger: log}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connectCtx, cfg.Database, logger.Named(log, "postgres"))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	c.DB = db

	if err := c.prepareDatabase(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Cache = cache.NewRedis(ctx, cfg.Redis, log)

	store, err := storage.New(ctx, cfg.Evidence, log)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("evidence store: %w", err)
	}
	c.Store = store

	prom, err := metrics.NewPrometheus()
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("metrics: %w", err)
	}
	c.Metrics = prom
	c.Hub = ws.NewHub(log)

	c.wire()
	return c, nil
}

func (c *Container) prepareDatabase(ctx context.Context) error {
	if c.Config.Database.AutoMigrate {
		sqlDB := c.DB.SQLDB()
		if sqlDB == nil {
			return errors.New("migrations need a database/sql handle")
		}
		r := migration.Runner{Logger: logger.Named(c.Logger, "migration")}
		if err := r.Run(ctx, sqlDB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if c.Config.Database.Seed {
		if err := (seeder.Runner{Seeders: seeder.Defaults(), Logger: logger.Named(c.Logger, "seeder")}).Run(ctx, c.DB); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		c.Logger.Info("database seeded")
	}
	return nil
}

func (c *Container) wire() {
	cfg := c.Config

	jwtSvc := jwt.NewHMACService(jwt.Options{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessExpiresIn,
		RefreshTTL:    cfg.JWT.RefreshExpiresIn,
		Issuer:        cfg.JWT.Issuer,
	})
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	users := repository.NewPostgresUserRepository(c.DB)
	skills := repository.NewPostgresSkillRepository(c.DB)
	claims := repository.NewPostgresClaimRepository(c.DB)
	candidates := repository.NewPostgresCandidateProfileRepository(c.DB)
	facilities := repository.NewPostgresFacilityProfileRepository(c.DB)
	jobs := repository.NewPostgresJobRepository(c.DB)
	apps := repository.NewPostgresApplicationRepository(c.DB)
	courses := repository.NewPostgresCourseRepository(c.DB)

	authUC := usecase.NewAuthUsecase(users, jwtSvc)
	skillUC := usecase.NewSkillUsecase(skills, c.Cache, cfg.Redis.TTL, c.Logger)
	claimUC := usecase.NewClaimUsecase(usecase.ClaimDeps{
		Claims:   claims,
		Skills:   skills,
		Store:    c.Store,
		Locker:   c.Cache,
		Notifier: ws.NewNotifier(c.Hub),
		Recorder: c.Metrics,
		Logger:   c.Logger,
		MaxBytes: cfg.Evidence.MaxBytes,
	})
	metricsUC := usecase.NewMetricsUsecase(claims, c.Logger)
	profileUC := usecase.NewProfileUsecase(candidates, facilities, c.Logger)
	jobUC := usecase.NewJobUsecase(jobs, facilities, c.Logger)
	appUC := usecase.NewApplicationUsecase(apps, jobs, candidates, c.Logger)
	courseUC := usecase.NewCourseUsecase(courses, facilities, c.Logger)

	var evidenceHandler *handler.EvidenceHandler
	if mem, ok := c.Store.(*storage.Memory); ok {
		evidenceHandler = handler.NewEvidenceHandler(usecase.NewEvidenceUsecase(mem, c.Logger))
	}

	c.Routes = &routes.Registry{
		Health:  handler.NewHealthHandler(c.DB, c.Cache),
		WS:      ws.NewHandler(c.Hub, authMw, c.Logger),
		Metrics: c.Metrics.Handler(),
		V1: v1.Handlers{
			Auth:     handler.NewAuthHandler(authUC),
			Skills:   handler.NewSkillHandler(skillUC),
			Claims:   handler.NewClaimHandler(claimUC, metricsUC),
			Profile:  handler.NewProfileHandler(profileUC),
			Jobs:     handler.NewJobHandler(jobUC, appUC),
			Courses:  handler.NewCourseHandler(courseUC),
			Evidence: evidenceHandler,
			AuthMw:   authMw,
		},
	}
}

// Close releases external resources in reverse order of acquisition.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
