package skill

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTerminalState  = errors.New("claim is in a terminal state")
	ErrInvalidStatus  = errors.New("target status must be verified or rejected")
	ErrReasonRequired = errors.New("rejection reason is required")
)

type Evidence struct {
	ID          uuid.UUID `json:"id"`
	FileURL     string    `json:"fileUrl"`
	FileName    string    `json:"fileName"`
	FileType    string    `json:"fileType"`
	UploadedAt  time.Time `json:"uploadedAt"`
	Description string    `json:"description,omitempty"`

	// DownloadURL is filled on read from the evidence store and never persisted.
	DownloadURL string `json:"-"`
}

type Claim struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	SkillID         uuid.UUID
	Status          Status
	Evidence        []Evidence
	VerifiedBy      *uuid.UUID
	VerifiedAt      *time.Time
	RejectedAt      *time.Time
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewClaim(userID, skillID uuid.UUID, evidence []Evidence, now time.Time) Claim {
	return Claim{
		ID:        uuid.New(),
		UserID:    userID,
		SkillID:   skillID,
		Status:    StatusPending,
		Evidence:  evidence,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Transition moves a pending claim to verified or rejected.
// A terminal claim reports ErrTerminalState whatever the arguments.
// The claim is left untouched when an error is returned.
func (c *Claim) Transition(to Status, actor uuid.UUID, reason string, now time.Time) error {
	if c.Status.Terminal() {
		return ErrTerminalState
	}
	if to != StatusVerified && to != StatusRejected {
		return ErrInvalidStatus
	}
	reason = strings.TrimSpace(reason)
	if to == StatusRejected && reason == "" {
		return ErrReasonRequired
	}

	by := actor
	at := now
	c.Status = to
	c.VerifiedBy = &by
	c.UpdatedAt = now
	switch to {
	case StatusVerified:
		c.VerifiedAt = &at
		c.RejectedAt = nil
		c.RejectionReason = ""
	case StatusRejected:
		c.RejectedAt = &at
		c.VerifiedAt = nil
		c.RejectionReason = reason
	}
	return nil
}

// ProjectionEntry is the profile-embedded copy of this claim's status.
func (c Claim) ProjectionEntry() ProjectionEntry {
	return ProjectionEntry{
		SkillID:         c.SkillID,
		Status:          c.Status,
		VerifiedBy:      c.VerifiedBy,
		VerifiedAt:      c.VerifiedAt,
		RejectionReason: c.RejectionReason,
	}
}
