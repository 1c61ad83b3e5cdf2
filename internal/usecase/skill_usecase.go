package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"turf-hire/internal/domain/skill"
	"turf-hire/internal/domain/user"
	"turf-hire/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const skillCatalogCacheKey = "skills:catalog"

type SkillInput struct {
	Name              string
	Category          string
	Description       string
	RequiresEvidence  bool
	AcceptedFileTypes []string
}

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]skill.Skill, error)
	GetSkill(ctx context.Context, id uuid.UUID) (skill.Skill, error)
	AddSkill(ctx context.Context, actor Actor, in SkillInput) (skill.Skill, error)
	UpdateSkill(ctx context.Context, actor Actor, id uuid.UUID, in SkillInput) (skill.Skill, error)
	DeleteSkill(ctx context.Context, actor Actor, id uuid.UUID) error
}

type Skill struct {
	repo   repository.SkillRepository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

func NewSkillUsecase(repo repository.SkillRepository, cache Cache, ttl time.Duration, logger *zap.Logger) *Skill {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Skill{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With(zap.String("component", "skills")),
		now:    time.Now,
	}
}

func (u *Skill) ListSkills(ctx context.Context) ([]skill.Skill, error) {
	if u.cache != nil {
		var cached []skill.Skill
		found, err := u.cache.GetJSON(ctx, skillCatalogCacheKey, &cached)
		if err != nil {
			u.logger.Warn("read catalog cache", zap.Error(err))
		}
		if found {
			return cached, nil
		}
	}

	items, err := u.repo.List(ctx)
	if err != nil {
		u.logger.Error("list skills", zap.Error(err))
		return nil, ErrInternal
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, skillCatalogCacheKey, items, u.ttl); err != nil {
			u.logger.Warn("write catalog cache", zap.Error(err))
		}
	}
	return items, nil
}

func (u *Skill) GetSkill(ctx context.Context, id uuid.UUID) (skill.Skill, error) {
	s, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return skill.Skill{}, notFound("skill")
		}
		u.logger.Error("get skill", zap.Stringer("skill_id", id), zap.Error(err))
		return skill.Skill{}, ErrInternal
	}
	return s, nil
}

func (u *Skill) AddSkill(ctx context.Context, actor Actor, in SkillInput) (skill.Skill, error) {
	if err := requireRole(actor, user.RoleAdmin); err != nil {
		return skill.Skill{}, err
	}
	in, err := normalizeSkillInput(in)
	if err != nil {
		return skill.Skill{}, err
	}

	now := u.now().UTC()
	s := skill.Skill{
		ID:                uuid.New(),
		Name:              in.Name,
		Category:          in.Category,
		Description:       in.Description,
		RequiresEvidence:  in.RequiresEvidence,
		AcceptedFileTypes: in.AcceptedFileTypes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := u.repo.Create(ctx, s); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return skill.Skill{}, ErrDuplicateSkill
		}
		u.logger.Error("create skill", zap.String("name", s.Name), zap.Error(err))
		return skill.Skill{}, ErrInternal
	}
	u.invalidate(ctx)
	return s, nil
}

func (u *Skill) UpdateSkill(ctx context.Context, actor Actor, id uuid.UUID, in SkillInput) (skill.Skill, error) {
	if err := requireRole(actor, user.RoleAdmin); err != nil {
		return skill.Skill{}, err
	}
	in, err := normalizeSkillInput(in)
	if err != nil {
		return skill.Skill{}, err
	}

	s, err := u.GetSkill(ctx, id)
	if err != nil {
		return skill.Skill{}, err
	}
	s.Name = in.Name
	s.Category = in.Category
	s.Description = in.Description
	s.RequiresEvidence = in.RequiresEvidence
	s.AcceptedFileTypes = in.AcceptedFileTypes
	s.UpdatedAt = u.now().UTC()

	if err := u.repo.Update(ctx, s); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return skill.Skill{}, notFound("skill")
		case errors.Is(err, repository.ErrDuplicate):
			return skill.Skill{}, ErrDuplicateSkill
		}
		u.logger.Error("update skill", zap.Stringer("skill_id", id), zap.Error(err))
		return skill.Skill{}, ErrInternal
	}
	u.invalidate(ctx)
	return s, nil
}

// DeleteSkill removes the catalog entry without touching claims that reference it.
func (u *Skill) DeleteSkill(ctx context.Context, actor Actor, id uuid.UUID) error {
	if err := requireRole(actor, user.RoleAdmin); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("skill")
		}
		u.logger.Error("delete skill", zap.Stringer("skill_id", id), zap.Error(err))
		return ErrInternal
	}
	u.invalidate(ctx)
	return nil
}

func (u *Skill) invalidate(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Delete(ctx, skillCatalogCacheKey); err != nil {
		u.logger.Warn("invalidate catalog cache", zap.Error(err))
	}
}

func normalizeSkillInput(in SkillInput) (SkillInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return SkillInput{}, invalid("name", "is required")
	}
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.AcceptedFileTypes = skill.NormalizeFileTypes(in.AcceptedFileTypes)
	return in, nil
}
