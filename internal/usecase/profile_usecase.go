package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"turf-hire/internal/domain/profile"
	"turf-hire/internal/domain/skill"
	"turf-hire/internal/domain/user"
	"turf-hire/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileUsecase interface {
	GetCandidate(ctx context.Context, actor Actor, userID uuid.UUID) (profile.Candidate, error)
	SaveCandidate(ctx context.Context, actor Actor, p profile.Candidate) (profile.Candidate, error)
	CandidateSkills(ctx context.Context, actor Actor, userID uuid.UUID) (skill.Projection, error)
	GetFacility(ctx context.Context, actor Actor, userID uuid.UUID) (profile.Facility, error)
	SaveFacility(ctx context.Context, actor Actor, p profile.Facility) (profile.Facility, error)
}

type Profiles struct {
	candidates repository.CandidateProfileRepository
	facilities repository.FacilityProfileRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewProfileUsecase(candidates repository.CandidateProfileRepository, facilities repository.FacilityProfileRepository, logger *zap.Logger) *Profiles {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profiles{
		candidates: candidates,
		facilities: facilities,
		logger:     logger.With(zap.String("component", "profiles")),
		now:        time.Now,
	}
}

func (u *Profiles) GetCandidate(ctx context.Context, actor Actor, userID uuid.UUID) (profile.Candidate, error) {
	if !actor.Authenticated() {
		return profile.Candidate{}, ErrUnauthorized
	}
	p, err := u.candidates.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return profile.Candidate{}, notFound("candidate profile")
		}
		u.logger.Error("get candidate profile", zap.Stringer("user_id", userID), zap.Error(err))
		return profile.Candidate{}, ErrInternal
	}
	return p, nil
}

// SaveCandidate creates or replaces the caller's profile. Skills are ignored.
func (u *Profiles) SaveCandidate(ctx context.Context, actor Actor, p profile.Candidate) (profile.Candidate, error) {
	if err := requireRole(actor, user.RoleCandidate); err != nil {
		return profile.Candidate{}, err
	}
	p.UserID = actor.UserID
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	if p.FirstName == "" {
		return profile.Candidate{}, invalid("first_name", "is required")
	}
	if p.LastName == "" {
		return profile.Candidate{}, invalid("last_name", "is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		p.Email = actor.Email
	}
	if p.Availability == "" {
		p.Availability = profile.AvailabilityImmediate
	}
	switch p.Availability {
	case profile.AvailabilityImmediate, profile.AvailabilityTwoWeeks, profile.AvailabilityMonthPlus:
	default:
		return profile.Candidate{}, invalid("availability", "must be immediate, two_weeks or month_plus")
	}
	for _, e := range p.Experience {
		if strings.TrimSpace(e.Title) == "" || strings.TrimSpace(e.Company) == "" {
			return profile.Candidate{}, invalid("experience", "title and company are required")
		}
		if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
			return profile.Candidate{}, invalid("experience", "end date is before start date")
		}
	}
	p.Skills = nil
	p.UpdatedAt = u.now().UTC()

	if err := u.candidates.Upsert(ctx, p); err != nil {
		u.logger.Error("save candidate profile", zap.Stringer("user_id", p.UserID), zap.Error(err))
		return profile.Candidate{}, ErrInternal
	}
	return u.GetCandidate(ctx, actor, actor.UserID)
}

// CandidateSkills reads the projection, not the ledger.
func (u *Profiles) CandidateSkills(ctx context.Context, actor Actor, userID uuid.UUID) (skill.Projection, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthorized
	}
	p, err := u.candidates.GetProjection(ctx, userID)
	if err != nil {
		u.logger.Error("get skill projection", zap.Stringer("user_id", userID), zap.Error(err))
		return nil, ErrInternal
	}
	return p, nil
}

func (u *Profiles) GetFacility(ctx context.Context, actor Actor, userID uuid.UUID) (profile.Facility, error) {
	if !actor.Authenticated() {
		return profile.Facility{}, ErrUnauthorized
	}
	p, err := u.facilities.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return profile.Facility{}, notFound("facility profile")
		}
		u.logger.Error("get facility profile", zap.Stringer("user_id", userID), zap.Error(err))
		return profile.Facility{}, ErrInternal
	}
	return p, nil
}

func (u *Profiles) SaveFacility(ctx context.Context, actor Actor, p profile.Facility) (profile.Facility, error) {
	if err := requireRole(actor, user.RoleFacility); err != nil {
		return profile.Facility{}, err
	}
	p.UserID = actor.UserID
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return profile.Facility{}, invalid("name", "is required")
	}
	switch p.Type {
	case profile.FacilityGolfCourse, profile.FacilitySportsFacility, profile.FacilityOther:
	default:
		return profile.Facility{}, invalid("type", "must be golf_course, sports_facility or other")
	}
	if strings.TrimSpace(p.Email) == "" {
		p.Email = actor.Email
	}
	p.UpdatedAt = u.now().UTC()

	if err := u.facilities.Upsert(ctx, p); err != nil {
		u.logger.Error("save facility profile", zap.Stringer("user_id", p.UserID), zap.Error(err))
		return profile.Facility{}, ErrInternal
	}
	return u.GetFacility(ctx, actor, actor.UserID)
}
