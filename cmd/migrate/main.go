// Command migrate applies the embedded schema migrations and, with -seed,
// loads the default skill catalog. -demo-password additionally creates a demo
// facility account with open listings. -admin-email creates an admin account
// whose password is read from ADMIN_PASSWORD.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"turf-hire/internal/config"
	"turf-hire/internal/database/migration"
	dbpostgres "turf-hire/internal/database/postgres"
	"turf-hire/internal/database/seeder"
	"turf-hire/internal/pkg/logger"
	"turf-hire/internal/repository"
	"turf-hire/internal/usecase/auth"

	"go.uber.org/zap"
)

func main() {
	seed := flag.Bool("seed", false, "run default seeders after migrating")
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	dryRun := flag.Bool("dry-run", false, "list pending migrations and exit")
	demoPassword := flag.String("demo-password", "", "seed a demo facility with this password (implies -seed)")
	adminEmail := flag.String("admin-email", "", "create an admin account with this email; password from ADMIN_PASSWORD")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	zl, err := logger.New(cfg.App.LogLevel, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, zl)
	if err != nil {
		zl.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()

	r := migration.Runner{Logger: zl}
	if *dir != "" {
		r.FS, r.Dir = os.DirFS(*dir), "."
	}
	if *dryRun {
		pending, err := r.Pending(ctx, db.SQLDB())
		if err != nil {
			zl.Fatal("pending migrations", zap.Error(err))
		}
		for _, m := range pending {
			zl.Info("pending", zap.Int64("version", m.Version), zap.String("file", m.Filename))
		}
		zl.Info("dry run complete", zap.Int("pending", len(pending)))
		return
	}
	if err := r.Run(ctx, db.SQLDB()); err != nil {
		zl.Fatal("migrate", zap.Error(err))
	}

	if *seed || *demoPassword != "" {
		seeders := seeder.Defaults()
		if *demoPassword != "" {
			seeders = append(seeders, seeder.DemoJobsSeeder{Password: *demoPassword})
		}
		if err := (seeder.Runner{Seeders: seeders, Logger: zl}).Run(ctx, db); err != nil {
			zl.Fatal("seed", zap.Error(err))
		}
		zl.Info("seed complete")
	}

	if *adminEmail != "" {
		svc := auth.NewService(repository.NewPostgresUserRepository(db))
		a, err := svc.ProvisionAdmin(ctx, *adminEmail, os.Getenv("ADMIN_PASSWORD"))
		if err != nil {
			zl.Fatal("provision admin", zap.String("email", *adminEmail), zap.Error(err))
		}
		zl.Info("admin ready", zap.String("email", a.Email), zap.Stringer("user_id", a.ID))
	}
}
