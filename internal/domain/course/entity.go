// Package course holds the golf courses a facility operates.
package course

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusMaintenance Status = "maintenance"
)

// ParseStatus reads a stored or requested status. Blank means active.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StatusActive, true
	case StatusActive, StatusInactive, StatusMaintenance:
		return st, true
	default:
		return "", false
	}
}

// Details is the scorecard summary of a course.
type Details struct {
	Holes        int      `json:"holes"`
	TotalYardage int      `json:"totalYardage"`
	Par          int      `json:"par"`
	CourseRating *float64 `json:"courseRating,omitempty"`
	SlopeRating  *float64 `json:"slopeRating,omitempty"`
}

const (
	MinHoles    = 9
	MaxHoles    = 36
	MinYardage  = 1000
	MinPar      = 27
	MinSlope    = 55
	MaxSlope    = 155
	MaxPhotoURL = 20
)

type Profile struct {
	ID                uuid.UUID
	FacilityProfileID uuid.UUID
	Name              string
	Description       string
	Location          string
	Details           Details
	Photos            []string
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
