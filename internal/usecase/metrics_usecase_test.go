package usecase

import (
	"context"
	"testing"
	"time"

	"turf-hire/internal/domain/skill"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMetrics_FromLedger(t *testing.T) {
	f := newClaimFixture(t)
	ctx := context.Background()
	start := f.clock

	var skills []skill.Skill
	for i := 0; i < 6; i++ {
		s := skill.Skill{ID: uuid.New(), Name: "skill"}
		f.skills.items[s.ID] = s
		skills = append(skills, s)
	}

	ids := make([]uuid.UUID, 0, len(skills))
	for _, s := range skills {
		f.clock = start
		c, err := f.uc.CreateClaim(ctx, candidateActor, CreateClaimInput{SkillID: s.ID})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	for i, id := range ids[:3] {
		f.clock = start.Add(time.Duration(i+1) * time.Hour)
		_, err := f.uc.UpdateClaimStatus(ctx, adminActor, UpdateClaimStatusInput{ClaimID: id, Status: skill.StatusVerified})
		require.NoError(t, err)
	}
	for _, id := range ids[3:5] {
		_, err := f.uc.UpdateClaimStatus(ctx, adminActor, UpdateClaimStatusInput{ClaimID: id, Status: skill.StatusRejected, RejectionReason: "expired"})
		require.NoError(t, err)
	}

	uc := NewMetricsUsecase(f.claims, nil)
	m, err := uc.ComputeMetrics(ctx, adminActor)
	require.NoError(t, err)

	assert.Equal(t, 3, m.TotalVerified)
	assert.Equal(t, 2, m.TotalRejected)
	assert.Equal(t, 1, m.TotalPending)
	assert.Equal(t, 2*time.Hour, m.AverageVerificationTime)
	assert.Equal(t, map[uuid.UUID]int{skills[0].ID: 1, skills[1].ID: 1, skills[2].ID: 1}, m.VerificationsBySkill)
}

func TestComputeMetrics_AdminOnly(t *testing.T) {
	uc := NewMetricsUsecase(newFakeClaimRepo(), nil)

	_, err := uc.ComputeMetrics(context.Background(), candidateActor)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = uc.ComputeMetrics(context.Background(), Actor{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
