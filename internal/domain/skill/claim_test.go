package skill

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClaim_StartsPending(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	c := NewClaim(uuid.New(), uuid.New(), nil, now)

	assert.Equal(t, StatusPending, c.Status)
	assert.Equal(t, now, c.CreatedAt)
	assert.Equal(t, now, c.UpdatedAt)
	assert.NotEqual(t, uuid.Nil, c.ID)
}

func TestClaimTransition_Verify(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	now := created.Add(time.Hour)
	admin := uuid.New()
	c := NewClaim(uuid.New(), uuid.New(), nil, created)

	require.NoError(t, c.Transition(StatusVerified, admin, "", now))

	assert.Equal(t, StatusVerified, c.Status)
	require.NotNil(t, c.VerifiedBy)
	assert.Equal(t, admin, *c.VerifiedBy)
	require.NotNil(t, c.VerifiedAt)
	assert.Equal(t, now, *c.VerifiedAt)
	assert.Nil(t, c.RejectedAt)
	assert.Equal(t, now, c.UpdatedAt)
}

func TestClaimTransition_RejectNeedsReason(t *testing.T) {
	c := NewClaim(uuid.New(), uuid.New(), nil, time.Now())

	err := c.Transition(StatusRejected, uuid.New(), "   ", time.Now())
	require.ErrorIs(t, err, ErrReasonRequired)
	assert.Equal(t, StatusPending, c.Status)

	require.NoError(t, c.Transition(StatusRejected, uuid.New(), " not enough evidence ", time.Now()))
	assert.Equal(t, StatusRejected, c.Status)
	assert.Equal(t, "not enough evidence", c.RejectionReason)
	assert.NotNil(t, c.RejectedAt)
	assert.Nil(t, c.VerifiedAt)
}

func TestClaimTransition_TerminalIsImmutable(t *testing.T) {
	for _, first := range []Status{StatusVerified, StatusRejected} {
		t.Run(string(first), func(t *testing.T) {
			c := NewClaim(uuid.New(), uuid.New(), nil, time.Now())
			require.NoError(t, c.Transition(first, uuid.New(), "reason", time.Now()))
			before := c

			for _, next := range []Status{StatusVerified, StatusRejected} {
				err := c.Transition(next, uuid.New(), "other", time.Now().Add(time.Hour))
				require.ErrorIs(t, err, ErrTerminalState)
				assert.Equal(t, before, c)
			}
		})
	}
}

func TestClaimTransition_TerminalWinsOverBadInput(t *testing.T) {
	c := NewClaim(uuid.New(), uuid.New(), nil, time.Now())
	require.NoError(t, c.Transition(StatusVerified, uuid.New(), "", time.Now()))
	before := c

	assert.ErrorIs(t, c.Transition(StatusRejected, uuid.New(), "", time.Now()), ErrTerminalState)
	assert.ErrorIs(t, c.Transition(StatusPending, uuid.New(), "", time.Now()), ErrTerminalState)
	assert.Equal(t, before, c)
}

func TestClaimTransition_BackToPendingRejected(t *testing.T) {
	c := NewClaim(uuid.New(), uuid.New(), nil, time.Now())
	require.ErrorIs(t, c.Transition(StatusPending, uuid.New(), "", time.Now()), ErrInvalidStatus)
}

func TestClaimProjectionEntry(t *testing.T) {
	c := NewClaim(uuid.New(), uuid.New(), nil, time.Now())
	require.NoError(t, c.Transition(StatusRejected, uuid.New(), "blurry scan", time.Now()))

	e := c.ProjectionEntry()
	assert.Equal(t, c.SkillID, e.SkillID)
	assert.Equal(t, StatusRejected, e.Status)
	assert.Equal(t, "blurry scan", e.RejectionReason)
	assert.Equal(t, c.VerifiedBy, e.VerifiedBy)
}

func TestParseStatus_DefaultsToPending(t *testing.T) {
	assert.Equal(t, StatusPending, ParseStatus(""))
	assert.Equal(t, StatusPending, ParseStatus("approved"))
	assert.Equal(t, StatusVerified, ParseStatus(" Verified "))
	assert.Equal(t, StatusRejected, ParseStatus("rejected"))

	var s Status
	require.NoError(t, s.UnmarshalText(nil))
	assert.Equal(t, StatusPending, s)
	assert.True(t, s.Valid())
	assert.False(t, Status("bogus").Valid())
}
