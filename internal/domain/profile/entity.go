package profile

import (
	"time"

	"github.com/google/uuid"

	"turf-hire/internal/domain/skill"
)

type Availability string

const (
	AvailabilityImmediate Availability = "immediate"
	AvailabilityTwoWeeks  Availability = "two_weeks"
	AvailabilityMonthPlus Availability = "month_plus"
)

type FacilityType string

const (
	FacilityGolfCourse     FacilityType = "golf_course"
	FacilitySportsFacility FacilityType = "sports_facility"
	FacilityOther          FacilityType = "other"
)

type Preferences struct {
	JobTypes           []string `json:"jobTypes"`
	PreferredLocations []string `json:"preferredLocations"`
	Remote             bool     `json:"remote"`
}

type Experience struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

// Candidate is a turf specialist's profile. Skills is the claim projection
// and is only written by the claim ledger.
type Candidate struct {
	UserID         uuid.UUID
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Location       string
	Bio            string
	Skills         skill.Projection
	Certifications []string
	Availability   Availability
	Preferences    Preferences
	Experience     []Experience
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type Hours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type Facility struct {
	UserID         uuid.UUID
	Name           string
	Type           FacilityType
	Email          string
	Phone          string
	Address        Address
	Website        string
	Description    string
	Facilities     []string
	Amenities      []string
	Photos         []string
	OperatingHours map[string]Hours
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
