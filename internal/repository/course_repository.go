package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"turf-hire/internal/database"
	"turf-hire/internal/domain/course"

	"github.com/google/uuid"
)

type CourseRepository interface {
	Create(ctx context.Context, p course.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (course.Profile, error)
	ListByFacility(ctx context.Context, facilityID uuid.UUID) ([]course.Profile, error)
	Update(ctx context.Context, p course.Profile) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresCourseRepository struct {
	db database.DB
}

func NewPostgresCourseRepository(db database.DB) *PostgresCourseRepository {
	return &PostgresCourseRepository{db: db}
}

const courseColumns = `id, facility_profile_id, name, description, location, details, photos, status, created_at, updated_at`

func scanCourse(row database.Row) (course.Profile, error) {
	var (
		p       course.Profile
		details []byte
		status  string
	)
	err := row.Scan(&p.ID, &p.FacilityProfileID, &p.Name, &p.Description, &p.Location, &details, &p.Photos, &status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return course.Profile{}, err
	}
	if err := decodeJSON(details, &p.Details); err != nil {
		return course.Profile{}, fmt.Errorf("decode course details: %w", err)
	}
	st, ok := course.ParseStatus(status)
	if !ok {
		st = course.StatusInactive
	}
	p.Status = st
	return p, nil
}

func (r *PostgresCourseRepository) Create(ctx context.Context, p course.Profile) error {
	if r.db == nil {
		return database.ErrNilDB
	}
	details, err := json.Marshal(p.Details)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO course_profiles (`+courseColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9, $10)`,
		p.ID, p.FacilityProfileID, p.Name, p.Description, p.Location, string(details), nonNil(p.Photos), string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *PostgresCourseRepository) GetByID(ctx context.Context, id uuid.UUID) (course.Profile, error) {
	if r.db == nil {
		return course.Profile{}, database.ErrNilDB
	}
	p, err := scanCourse(r.db.QueryRow(ctx, `SELECT `+courseColumns+` FROM course_profiles WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return course.Profile{}, ErrNotFound
		}
		return course.Profile{}, err
	}
	return p, nil
}

func (r *PostgresCourseRepository) ListByFacility(ctx context.Context, facilityID uuid.UUID) ([]course.Profile, error) {
	if r.db == nil {
		return nil, database.ErrNilDB
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+courseColumns+` FROM course_profiles WHERE facility_profile_id = $1 ORDER BY created_at DESC`,
		facilityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]course.Profile, 0)
	for rows.Next() {
		p, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCourseRepository) Update(ctx context.Context, p course.Profile) error {
	if r.db == nil {
		return database.ErrNilDB
	}
	details, err := json.Marshal(p.Details)
	if err != nil {
		return err
	}
	affected, err := r.db.Exec(ctx,
		`UPDATE course_profiles
		 SET name = $2, description = $3, location = $4, details = $5::jsonb, photos = $6, status = $7, updated_at = $8
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Location, string(details), nonNil(p.Photos), string(p.Status), p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresCourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.db == nil {
		return database.ErrNilDB
	}
	affected, err := r.db.Exec(ctx, `DELETE FROM course_profiles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
