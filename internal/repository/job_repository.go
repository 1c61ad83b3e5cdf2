package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"turf-hire/internal/database"
	"turf-hire/internal/domain/job"

	"github.com/google/uuid"
)

type JobFilter struct {
	OwnerID *uuid.UUID
	Status  *job.Status
}

type JobRepository interface {
	Create(ctx context.Context, l job.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (job.Listing, error)
	List(ctx context.Context, f JobFilter) ([]job.Listing, error)
	Update(ctx context.Context, l job.Listing) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `id, user_id, facility_profile_id, title, description, location, type, salary, requirements,
	required_skills::text[], status, application_count, created_at, updated_at`

func scanJob(row database.Row) (job.Listing, error) {
	var (
		l              job.Listing
		typ, status    string
		salary         []byte
		requiredSkills []string
	)
	err := row.Scan(
		&l.ID, &l.UserID, &l.FacilityProfileID, &l.Title, &l.Description, &l.Location, &typ, &salary,
		&l.Requirements, &requiredSkills, &status, &l.ApplicationCount, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return job.Listing{}, err
	}
	l.Type = job.Type(typ)
	l.Status = job.Status(status)
	l.RequiredSkills = parseUUIDs(requiredSkills)
	if err := decodeJSON(salary, &l.Salary); err != nil {
		return job.Listing{}, fmt.Errorf("decode salary: %w", err)
	}
	return l, nil
}

func (r *PostgresJobRepository) Create(ctx context.Context, l job.Listing) error {
	if r.db == nil {
		return database.ErrNilDB
	}
	salary, err := json.Marshal(l.Salary)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO job_listings
		   (id, user_id, facility_profile_id, title, description, location, type, salary, requirements,
		    required_skills, status, application_count, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9, $10::uuid[], $11, 0, $12, $13)`,
		l.ID, l.UserID, l.FacilityProfileID, l.Title, l.Description, l.Location, string(l.Type), string(salary),
		nonNil(l.Requirements), uuidStrings(l.RequiredSkills), string(l.Status), l.CreatedAt, l.UpdatedAt,
	)
	return err
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Listing, error) {
	if r.db == nil {
		return job.Listing{}, database.ErrNilDB
	}
	l, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM job_listings WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return job.Listing{}, ErrNotFound
		}
		return job.Listing{}, err
	}
	return l, nil
}

func (r *PostgresJobRepository) List(ctx context.Context, f JobFilter) ([]job.Listing, error) {
	if r.db == nil {
		return nil, database.ErrNilDB
	}

	var (
		where []string
		args  []any
	)
	if f.OwnerID != nil {
		args = append(args, *f.OwnerID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	q := `SELECT ` + jobColumns + ` FROM job_listings`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Listing, 0)
	for rows.Next() {
		l, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresJobRepository) Update(ctx context.Context, l job.Listing) error {
	if r.db == nil {
		return database.ErrNilDB
	}
	salary, err := json.Marshal(l.Salary)
	if err != nil {
		return err
	}
	affected, err := r.db.Exec(ctx,
		`UPDATE job_listings
		 SET title = $2, description = $3, location = $4, type = $5, salary = $6::jsonb, requirements = $7,
		     required_skills = $8::uuid[], status = $9, updated_at = $10
		 WHERE id = $1`,
		l.ID, l.Title, l.Description, l.Location, string(l.Type), string(salary), nonNil(l.Requirements),
		uuidStrings(l.RequiredSkills), string(l.Status), l.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return database.ErrNilDB
	}
	affected, err := r.db.Exec(ctx, `DELETE FROM job_listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
