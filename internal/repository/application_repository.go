package repository

import (
	"context"
	"fmt"

	"turf-hire/internal/database"
	"turf-hire/internal/domain/job"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	// Create inserts the application and bumps the listing's application count.
	Create(ctx context.Context, a job.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (job.Application, error)
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]job.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]job.Application, error)
	ListByFacility(ctx context.Context, facilityUserID uuid.UUID) ([]job.Application, error)
	UpdateStatus(ctx context.Context, a job.Application) error
	// Delete removes the application and decrements the listing's count.
	Delete(ctx context.Context, a job.Application) error
}

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationColumns = `id, job_id, applicant_id, facility_profile_id, status, cover_letter, attachments, notes, applied_at, updated_at`

func scanApplication(row database.Row) (job.Application, error) {
	var (
		a      job.Application
		status string
	)
	err := row.Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.FacilityProfileID, &status, &a.CoverLetter, &a.Attachments, &a.Notes, &a.AppliedAt, &a.UpdatedAt)
	if err != nil {
		return job.Application{}, err
	}
	a.Status = job.ApplicationStatus(status)
	return a, nil
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a job.Application) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO job_applications
			   (id, job_id, applicant_id, facility_profile_id, status, cover_letter, attachments, notes, applied_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			a.ID, a.JobID, a.ApplicantID, a.FacilityProfileID, string(a.Status), a.CoverLetter, nonNil(a.Attachments), a.Notes, a.AppliedAt, a.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		affected, err := tx.Exec(ctx,
			`UPDATE job_listings SET application_count = application_count + 1 WHERE id = $1`,
			a.JobID,
		)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Application, error) {
	if r.db == nil {
		return job.Application{}, database.ErrNilDB
	}
	a, err := scanApplication(r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM job_applications WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return job.Application{}, ErrNotFound
		}
		return job.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]job.Application, error) {
	return r.list(ctx, `WHERE applicant_id = $1`, applicantID)
}

func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]job.Application, error) {
	return r.list(ctx, `WHERE job_id = $1`, jobID)
}

func (r *PostgresApplicationRepository) ListByFacility(ctx context.Context, facilityUserID uuid.UUID) ([]job.Application, error) {
	return r.list(ctx, `WHERE facility_profile_id = $1`, facilityUserID)
}

func (r *PostgresApplicationRepository) list(ctx context.Context, where string, arg any) ([]job.Application, error) {
	if r.db == nil {
		return nil, database.ErrNilDB
	}
	rows, err := r.db.Query(ctx, `SELECT `+applicationColumns+` FROM job_applications `+where+` ORDER BY applied_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, a job.Application) error {
	if r.db == nil {
		return database.ErrNilDB
	}
	affected, err := r.db.Exec(ctx,
		`UPDATE job_applications SET status = $2, notes = $3, updated_at = $4 WHERE id = $1`,
		a.ID, string(a.Status), a.Notes, a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresApplicationRepository) Delete(ctx context.Context, a job.Application) error {
	return database.WithTx(ctx, r.db, func(tx database.Tx) error {
		affected, err := tx.Exec(ctx, `DELETE FROM job_applications WHERE id = $1`, a.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx,
			`UPDATE job_listings SET application_count = GREATEST(application_count - 1, 0) WHERE id = $1`,
			a.JobID,
		); err != nil {
			return fmt.Errorf("decrement application count: %w", err)
		}
		return nil
	})
}
