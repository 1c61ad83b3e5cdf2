package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"turf-hire/internal/domain/job"
	"turf-hire/internal/domain/user"
	"turf-hire/internal/repository"
	"turf-hire/internal/search"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type JobInput struct {
	Title          string
	Description    string
	Location       string
	Type           job.Type
	Salary         job.Salary
	Requirements   []string
	RequiredSkills []uuid.UUID
	Status         job.Status
}

type JobUsecase interface {
	CreateJob(ctx context.Context, actor Actor, in JobInput) (job.Listing, error)
	ListJobs(ctx context.Context, actor Actor, query string) ([]job.Listing, error)
	GetJob(ctx context.Context, actor Actor, id uuid.UUID) (job.Listing, error)
	UpdateJob(ctx context.Context, actor Actor, id uuid.UUID, in JobInput) (job.Listing, error)
	DeleteJob(ctx context.Context, actor Actor, id uuid.UUID) error
}

type Jobs struct {
	jobs       repository.JobRepository
	facilities repository.FacilityProfileRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewJobUsecase(jobs repository.JobRepository, facilities repository.FacilityProfileRepository, logger *zap.Logger) *Jobs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Jobs{
		jobs:       jobs,
		facilities: facilities,
		logger:     logger.With(zap.String("component", "jobs")),
		now:        time.Now,
	}
}

func (u *Jobs) CreateJob(ctx context.Context, actor Actor, in JobInput) (job.Listing, error) {
	if err := requireRole(actor, user.RoleFacility); err != nil {
		return job.Listing{}, err
	}
	in, err := normalizeJobInput(in)
	if err != nil {
		return job.Listing{}, err
	}

	fp, err := u.facilities.Get(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return job.Listing{}, notFound("facility profile")
		}
		u.logger.Error("load facility profile", zap.Stringer("user_id", actor.UserID), zap.Error(err))
		return job.Listing{}, ErrInternal
	}

	now := u.now().UTC()
	l := job.Listing{
		ID:                uuid.New(),
		UserID:            actor.UserID,
		FacilityProfileID: fp.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	applyJobInput(&l, in)

	if err := u.jobs.Create(ctx, l); err != nil {
		u.logger.Error("create job", zap.Stringer("user_id", actor.UserID), zap.Error(err))
		return job.Listing{}, ErrInternal
	}
	return l, nil
}

// ListJobs shows facilities their own listings in any status and everyone else open listings.
// A non-blank query keeps only matching listings, ranked by relevance and age.
func (u *Jobs) ListJobs(ctx context.Context, actor Actor, query string) ([]job.Listing, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthorized
	}
	var f repository.JobFilter
	if actor.Is(user.RoleFacility) {
		id := actor.UserID
		f.OwnerID = &id
	} else {
		open := job.StatusOpen
		f.Status = &open
	}
	items, err := u.jobs.List(ctx, f)
	if err != nil {
		u.logger.Error("list jobs", zap.Error(err))
		return nil, ErrInternal
	}
	return search.Rank(items, search.ProcessQuery(query), u.now().UTC()), nil
}

func (u *Jobs) GetJob(ctx context.Context, actor Actor, id uuid.UUID) (job.Listing, error) {
	if !actor.Authenticated() {
		return job.Listing{}, ErrUnauthorized
	}
	l, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return job.Listing{}, notFound("job")
		}
		u.logger.Error("get job", zap.Stringer("job_id", id), zap.Error(err))
		return job.Listing{}, ErrInternal
	}
	if l.Status == job.StatusDraft && l.UserID != actor.UserID && !actor.IsAdmin() {
		return job.Listing{}, notFound("job")
	}
	return l, nil
}

func (u *Jobs) UpdateJob(ctx context.Context, actor Actor, id uuid.UUID, in JobInput) (job.Listing, error) {
	l, err := u.owned(ctx, actor, id)
	if err != nil {
		return job.Listing{}, err
	}
	in, err = normalizeJobInput(in)
	if err != nil {
		return job.Listing{}, err
	}
	applyJobInput(&l, in)
	l.UpdatedAt = u.now().UTC()

	if err := u.jobs.Update(ctx, l); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return job.Listing{}, notFound("job")
		}
		u.logger.Error("update job", zap.Stringer("job_id", id), zap.Error(err))
		return job.Listing{}, ErrInternal
	}
	return l, nil
}

func (u *Jobs) DeleteJob(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := u.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := u.jobs.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("job")
		}
		u.logger.Error("delete job", zap.Stringer("job_id", id), zap.Error(err))
		return ErrInternal
	}
	return nil
}

func (u *Jobs) owned(ctx context.Context, actor Actor, id uuid.UUID) (job.Listing, error) {
	if err := requireRole(actor, user.RoleFacility); err != nil {
		return job.Listing{}, err
	}
	l, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return job.Listing{}, notFound("job")
		}
		u.logger.Error("get job", zap.Stringer("job_id", id), zap.Error(err))
		return job.Listing{}, ErrInternal
	}
	if l.UserID != actor.UserID {
		return job.Listing{}, ErrForbidden
	}
	return l, nil
}

func applyJobInput(l *job.Listing, in JobInput) {
	l.Title = in.Title
	l.Description = in.Description
	l.Location = in.Location
	l.Type = in.Type
	l.Salary = in.Salary
	l.Requirements = in.Requirements
	l.RequiredSkills = in.RequiredSkills
	l.Status = in.Status
}

func normalizeJobInput(in JobInput) (JobInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	if in.Title == "" {
		return JobInput{}, invalid("title", "is required")
	}
	switch in.Type {
	case job.TypeFullTime, job.TypePartTime, job.TypeContract, job.TypeTemporary:
	default:
		return JobInput{}, invalid("type", "must be full-time, part-time, contract or temporary")
	}
	if in.Status == "" {
		in.Status = job.StatusDraft
	}
	switch in.Status {
	case job.StatusOpen, job.StatusClosed, job.StatusFilled, job.StatusDraft:
	default:
		return JobInput{}, invalid("status", "must be open, closed, filled or draft")
	}
	if in.Salary.Amount < 0 {
		return JobInput{}, invalid("salary.amount", "must not be negative")
	}
	switch in.Salary.Type {
	case "", "hourly", "daily", "fixed":
	default:
		return JobInput{}, invalid("salary.type", "must be hourly, daily or fixed")
	}
	in.Salary.Currency = strings.ToUpper(strings.TrimSpace(in.Salary.Currency))
	switch in.Salary.Currency {
	case "", "GBP", "USD", "EUR":
	default:
		return JobInput{}, invalid("salary.currency", "must be GBP, USD or EUR")
	}
	reqs := make([]string, 0, len(in.Requirements))
	for _, r := range in.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			reqs = append(reqs, r)
		}
	}
	in.Requirements = reqs
	return in, nil
}
