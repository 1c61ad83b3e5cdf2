package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"turf-hire/internal/domain/course"
	"turf-hire/internal/domain/user"
	"turf-hire/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CourseInput struct {
	Name        string
	Description string
	Location    string
	Details     course.Details
	Photos      []string
	Status      string
}

type CourseUsecase interface {
	CreateCourse(ctx context.Context, actor Actor, in CourseInput) (course.Profile, error)
	ListCourses(ctx context.Context, actor Actor, facilityID uuid.UUID) ([]course.Profile, error)
	GetCourse(ctx context.Context, actor Actor, id uuid.UUID) (course.Profile, error)
	UpdateCourse(ctx context.Context, actor Actor, id uuid.UUID, in CourseInput) (course.Profile, error)
	DeleteCourse(ctx context.Context, actor Actor, id uuid.UUID) error
}

type Courses struct {
	courses    repository.CourseRepository
	facilities repository.FacilityProfileRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewCourseUsecase(courses repository.CourseRepository, facilities repository.FacilityProfileRepository, logger *zap.Logger) *Courses {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Courses{
		courses:    courses,
		facilities: facilities,
		logger:     logger.With(zap.String("component", "courses")),
		now:        time.Now,
	}
}

// CreateCourse adds a course to the caller's facility. The facility profile
// must exist first.
func (u *Courses) CreateCourse(ctx context.Context, actor Actor, in CourseInput) (course.Profile, error) {
	if err := requireRole(actor, user.RoleFacility); err != nil {
		return course.Profile{}, err
	}
	p, err := normalizeCourseInput(in)
	if err != nil {
		return course.Profile{}, err
	}
	if _, err := u.facilities.Get(ctx, actor.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return course.Profile{}, notFound("facility profile")
		}
		u.logger.Error("load facility profile", zap.Stringer("user_id", actor.UserID), zap.Error(err))
		return course.Profile{}, ErrInternal
	}

	now := u.now().UTC()
	p.ID = uuid.New()
	p.FacilityProfileID = actor.UserID
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := u.courses.Create(ctx, p); err != nil {
		u.logger.Error("create course", zap.Stringer("user_id", actor.UserID), zap.Error(err))
		return course.Profile{}, ErrInternal
	}
	return p, nil
}

// ListCourses returns a facility's courses, newest first.
func (u *Courses) ListCourses(ctx context.Context, actor Actor, facilityID uuid.UUID) ([]course.Profile, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthorized
	}
	items, err := u.courses.ListByFacility(ctx, facilityID)
	if err != nil {
		u.logger.Error("list courses", zap.Stringer("facility_id", facilityID), zap.Error(err))
		return nil, ErrInternal
	}
	return items, nil
}

func (u *Courses) GetCourse(ctx context.Context, actor Actor, id uuid.UUID) (course.Profile, error) {
	if !actor.Authenticated() {
		return course.Profile{}, ErrUnauthorized
	}
	return u.load(ctx, id)
}

func (u *Courses) UpdateCourse(ctx context.Context, actor Actor, id uuid.UUID, in CourseInput) (course.Profile, error) {
	existing, err := u.owned(ctx, actor, id)
	if err != nil {
		return course.Profile{}, err
	}
	p, err := normalizeCourseInput(in)
	if err != nil {
		return course.Profile{}, err
	}
	p.ID = existing.ID
	p.FacilityProfileID = existing.FacilityProfileID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = u.now().UTC()

	if err := u.courses.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return course.Profile{}, notFound("course")
		}
		u.logger.Error("update course", zap.Stringer("course_id", id), zap.Error(err))
		return course.Profile{}, ErrInternal
	}
	return p, nil
}

func (u *Courses) DeleteCourse(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := u.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := u.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("course")
		}
		u.logger.Error("delete course", zap.Stringer("course_id", id), zap.Error(err))
		return ErrInternal
	}
	return nil
}

func (u *Courses) load(ctx context.Context, id uuid.UUID) (course.Profile, error) {
	p, err := u.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return course.Profile{}, notFound("course")
		}
		u.logger.Error("get course", zap.Stringer("course_id", id), zap.Error(err))
		return course.Profile{}, ErrInternal
	}
	return p, nil
}

func (u *Courses) owned(ctx context.Context, actor Actor, id uuid.UUID) (course.Profile, error) {
	if err := requireRole(actor, user.RoleFacility); err != nil {
		return course.Profile{}, err
	}
	p, err := u.load(ctx, id)
	if err != nil {
		return course.Profile{}, err
	}
	if p.FacilityProfileID != actor.UserID {
		return course.Profile{}, ErrForbidden
	}
	return p, nil
}

func normalizeCourseInput(in CourseInput) (course.Profile, error) {
	p := course.Profile{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		Details:     in.Details,
	}
	if p.Name == "" {
		return course.Profile{}, invalid("name", "is required")
	}
	if p.Location == "" {
		return course.Profile{}, invalid("location", "is required")
	}
	if p.Description == "" {
		return course.Profile{}, invalid("description", "is required")
	}

	d := p.Details
	if d.Holes < course.MinHoles || d.Holes > course.MaxHoles {
		return course.Profile{}, invalid("details.holes", fmt.Sprintf("must be between %d and %d", course.MinHoles, course.MaxHoles))
	}
	if d.TotalYardage < course.MinYardage {
		return course.Profile{}, invalid("details.total_yardage", fmt.Sprintf("must be at least %d", course.MinYardage))
	}
	if d.Par < course.MinPar {
		return course.Profile{}, invalid("details.par", fmt.Sprintf("must be at least %d", course.MinPar))
	}
	if d.CourseRating != nil && *d.CourseRating <= 0 {
		return course.Profile{}, invalid("details.course_rating", "must be positive")
	}
	if d.SlopeRating != nil && (*d.SlopeRating < course.MinSlope || *d.SlopeRating > course.MaxSlope) {
		return course.Profile{}, invalid("details.slope_rating", fmt.Sprintf("must be between %d and %d", course.MinSlope, course.MaxSlope))
	}

	status, ok := course.ParseStatus(in.Status)
	if !ok {
		return course.Profile{}, invalid("status", "must be active, inactive or maintenance")
	}
	p.Status = status

	photos := make([]string, 0, len(in.Photos))
	for _, ph := range in.Photos {
		if ph = strings.TrimSpace(ph); ph != "" {
			photos = append(photos, ph)
		}
	}
	if len(photos) > course.MaxPhotoURL {
		return course.Profile{}, invalid("photos", fmt.Sprintf("at most %d photos", course.MaxPhotoURL))
	}
	p.Photos = photos
	return p, nil
}
