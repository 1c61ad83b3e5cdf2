// Package seeder loads reference data into a migrated database. Seeders are
// idempotent and safe to rerun on every boot.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"turf-hire/internal/database"

	"go.uber.org/zap"
)

var ErrSchemaMismatch = errors.New("schema mismatch")

type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Defaults is the set applied by DB_SEED and `migrate -seed`.
func Defaults() []Seeder {
	return []Seeder{SkillsSeeder{}}
}

type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

// Run applies seeders in order and stops at the first failure.
func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeded", zap.String("seeder", s.Name()), zap.Duration("took", time.Since(start)))
	}
	return nil
}

// requireColumns fails with ErrSchemaMismatch when table lacks any of columns,
// so a seeder never runs against an unmigrated database.
func requireColumns(ctx context.Context, db database.DB, table string, columns ...string) error {
	if strings.TrimSpace(table) == "" || len(columns) == 0 {
		return errors.New("table and columns are required")
	}

	rows, err := db.Query(ctx,
		`SELECT c FROM unnest($2::text[]) AS c
		 WHERE c NOT IN (
			SELECT column_name FROM information_schema.columns
			WHERE table_schema = 'public' AND table_name = $1
		 )`,
		table, columns,
	)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	defer rows.Close()

	var missing []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return err
		}
		missing = append(missing, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s missing %s", ErrSchemaMismatch, table, strings.Join(missing, ", "))
	}
	return nil
}
