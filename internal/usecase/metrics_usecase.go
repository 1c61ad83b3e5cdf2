package usecase

import (
	"context"

	"turf-hire/internal/domain/skill"
	"turf-hire/internal/domain/user"
	"turf-hire/internal/repository"

	"go.uber.org/zap"
)

type MetricsUsecase interface {
	ComputeMetrics(ctx context.Context, actor Actor) (skill.Metrics, error)
}

type VerificationMetrics struct {
	claims repository.ClaimRepository
	logger *zap.Logger
}

func NewMetricsUsecase(claims repository.ClaimRepository, logger *zap.Logger) *VerificationMetrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VerificationMetrics{claims: claims, logger: logger.With(zap.String("component", "verification_metrics"))}
}

// ComputeMetrics recomputes the summary from the full ledger on every call.
func (u *VerificationMetrics) ComputeMetrics(ctx context.Context, actor Actor) (skill.Metrics, error) {
	if err := requireRole(actor, user.RoleAdmin); err != nil {
		return skill.Metrics{}, err
	}
	claims, err := u.claims.List(ctx, repository.ClaimFilter{})
	if err != nil {
		u.logger.Error("load claims", zap.Error(err))
		return skill.Metrics{}, ErrInternal
	}
	return skill.ComputeMetrics(claims), nil
}
