package job

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeFullTime  Type = "full-time"
	TypePartTime  Type = "part-time"
	TypeContract  Type = "contract"
	TypeTemporary Type = "temporary"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
	StatusFilled Status = "filled"
	StatusDraft  Status = "draft"
)

type Salary struct {
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Currency string  `json:"currency"`
}

type Listing struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	FacilityProfileID uuid.UUID
	Title             string
	Description       string
	Location          string
	Type              Type
	Salary            Salary
	Requirements      []string
	RequiredSkills    []uuid.UUID
	Status            Status
	ApplicationCount  int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationReviewed ApplicationStatus = "reviewed"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

type Application struct {
	ID                uuid.UUID
	JobID             uuid.UUID
	ApplicantID       uuid.UUID
	FacilityProfileID uuid.UUID
	Status            ApplicationStatus
	CoverLetter       string
	Attachments       []string
	Notes             string
	AppliedAt         time.Time
	UpdatedAt         time.Time
}
