package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"turf-hire/internal/domain/job"
	"turf-hire/internal/domain/skill"
	"turf-hire/internal/domain/user"
	"turf-hire/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApplyInput struct {
	JobID       uuid.UUID
	CoverLetter string
	Attachments []string
}

type ReviewApplicationInput struct {
	ApplicationID uuid.UUID
	Status        job.ApplicationStatus
	Notes         string
}

// Applicant is an application paired with the applicant's skill projection
// and its coverage of the listing's required skills.
type Applicant struct {
	Application job.Application
	Skills      skill.Projection
	Match       job.Match
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, actor Actor, in ApplyInput) (job.Application, error)
	ListMine(ctx context.Context, actor Actor) ([]job.Application, error)
	ListForJob(ctx context.Context, actor Actor, jobID uuid.UUID) ([]Applicant, error)
	Review(ctx context.Context, actor Actor, in ReviewApplicationInput) (job.Application, error)
	Withdraw(ctx context.Context, actor Actor, id uuid.UUID) error
}

type Applications struct {
	apps       repository.ApplicationRepository
	jobs       repository.JobRepository
	candidates repository.CandidateProfileRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewApplicationUsecase(apps repository.ApplicationRepository, jobs repository.JobRepository, candidates repository.CandidateProfileRepository, logger *zap.Logger) *Applications {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applications{
		apps:       apps,
		jobs:       jobs,
		candidates: candidates,
		logger:     logger.With(zap.String("component", "applications")),
		now:        time.Now,
	}
}

func (u *Applications) Apply(ctx context.Context, actor Actor, in ApplyInput) (job.Application, error) {
	if err := requireRole(actor, user.RoleCandidate); err != nil {
		return job.Application{}, err
	}
	l, err := u.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return job.Application{}, notFound("job")
		}
		u.logger.Error("load job", zap.Stringer("job_id", in.JobID), zap.Error(err))
		return job.Application{}, ErrInternal
	}
	if l.Status != job.StatusOpen {
		return job.Application{}, invalid("job_id", "job is not accepting applications")
	}

	now := u.now().UTC()
	a := job.Application{
		ID:                uuid.New(),
		JobID:             l.ID,
		ApplicantID:       actor.UserID,
		FacilityProfileID: l.FacilityProfileID,
		Status:            job.ApplicationPending,
		CoverLetter:       strings.TrimSpace(in.CoverLetter),
		Attachments:       in.Attachments,
		AppliedAt:         now,
		UpdatedAt:         now,
	}
	if err := u.apps.Create(ctx, a); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return job.Application{}, ErrDuplicateApplication
		case errors.Is(err, repository.ErrNotFound):
			return job.Application{}, notFound("job")
		}
		u.logger.Error("create application", zap.Stringer("job_id", l.ID), zap.Error(err))
		return job.Application{}, ErrTransaction
	}
	return a, nil
}

// ListMine returns a candidate's applications or every application to a facility's jobs.
func (u *Applications) ListMine(ctx context.Context, actor Actor) ([]job.Application, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthorized
	}
	var (
		items []job.Application
		err   error
	)
	switch actor.Role {
	case user.RoleCandidate:
		items, err = u.apps.ListByApplicant(ctx, actor.UserID)
	case user.RoleFacility:
		items, err = u.apps.ListByFacility(ctx, actor.UserID)
	default:
		return nil, ErrForbidden
	}
	if err != nil {
		u.logger.Error("list applications", zap.Stringer("user_id", actor.UserID), zap.Error(err))
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Applications) ListForJob(ctx context.Context, actor Actor, jobID uuid.UUID) ([]Applicant, error) {
	if err := requireRole(actor, user.RoleFacility); err != nil {
		return nil, err
	}
	l, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("job")
		}
		u.logger.Error("load job", zap.Stringer("job_id", jobID), zap.Error(err))
		return nil, ErrInternal
	}
	if l.UserID != actor.UserID {
		return nil, ErrForbidden
	}

	apps, err := u.apps.ListByJob(ctx, jobID)
	if err != nil {
		u.logger.Error("list job applications", zap.Stringer("job_id", jobID), zap.Error(err))
		return nil, ErrInternal
	}
	ids := make([]uuid.UUID, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.ApplicantID)
	}
	projections, err := u.candidates.GetProjections(ctx, ids)
	if err != nil {
		u.logger.Error("load applicant skills", zap.Stringer("job_id", jobID), zap.Int("applicants", len(ids)), zap.Error(err))
		return nil, ErrInternal
	}

	out := make([]Applicant, 0, len(apps))
	for _, a := range apps {
		skills := projections[a.ApplicantID]
		if skills == nil {
			skills = skill.Projection{}
		}
		out = append(out, Applicant{Application: a, Skills: skills, Match: job.MatchSkills(l.RequiredSkills, skills)})
	}
	// best verified coverage first; ties keep application order
	sort.SliceStable(out, func(i, j int) bool { return out[i].Match.Score > out[j].Match.Score })
	return out, nil
}

func (u *Applications) Review(ctx context.Context, actor Actor, in ReviewApplicationInput) (job.Application, error) {
	if err := requireRole(actor, user.RoleFacility); err != nil {
		return job.Application{}, err
	}
	switch in.Status {
	case job.ApplicationPending, job.ApplicationReviewed, job.ApplicationAccepted, job.ApplicationRejected:
	default:
		return job.Application{}, invalid("status", "must be pending, reviewed, accepted or rejected")
	}

	a, err := u.load(ctx, in.ApplicationID)
	if err != nil {
		return job.Application{}, err
	}
	if a.FacilityProfileID != actor.UserID {
		return job.Application{}, ErrForbidden
	}
	a.Status = in.Status
	a.Notes = strings.TrimSpace(in.Notes)
	a.UpdatedAt = u.now().UTC()

	if err := u.apps.UpdateStatus(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return job.Application{}, notFound("application")
		}
		u.logger.Error("review application", zap.Stringer("application_id", a.ID), zap.Error(err))
		return job.Application{}, ErrInternal
	}
	return a, nil
}

func (u *Applications) Withdraw(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := requireRole(actor, user.RoleCandidate); err != nil {
		return err
	}
	a, err := u.load(ctx, id)
	if err != nil {
		return err
	}
	if a.ApplicantID != actor.UserID {
		return ErrForbidden
	}
	if err := u.apps.Delete(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("application")
		}
		u.logger.Error("withdraw application", zap.Stringer("application_id", id), zap.Error(err))
		return ErrTransaction
	}
	return nil
}

func (u *Applications) load(ctx context.Context, id uuid.UUID) (job.Application, error) {
	a, err := u.apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return job.Application{}, notFound("application")
		}
		u.logger.Error("get application", zap.Stringer("application_id", id), zap.Error(err))
		return job.Application{}, ErrInternal
	}
	return a, nil
}
