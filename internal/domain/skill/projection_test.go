package skill

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectionUpsert_ReplacesEntry(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	p := Projection{}.
		Upsert(ProjectionEntry{SkillID: a, Status: StatusPending}).
		Upsert(ProjectionEntry{SkillID: b, Status: StatusPending}).
		Upsert(ProjectionEntry{SkillID: a, Status: StatusVerified})

	require.Len(t, p, 2)
	e, ok := p.Find(a)
	require.True(t, ok)
	assert.Equal(t, StatusVerified, e.Status)

	_, ok = p.Find(uuid.New())
	assert.False(t, ok)
}

func TestProjectionNormalize(t *testing.T) {
	a := uuid.New()
	p := Projection{
		{SkillID: a, Status: ""},
		{SkillID: a, Status: StatusRejected, RejectionReason: "expired"},
		{SkillID: uuid.New(), Status: ""},
	}.Normalize()

	require.Len(t, p, 2)
	assert.Equal(t, StatusRejected, p[0].Status)
	assert.Equal(t, StatusPending, p[1].Status)
}
