package dto

import (
	"time"

	"turf-hire/internal/domain/profile"

	"github.com/google/uuid"
)

type PreferencesDTO struct {
	JobTypes           []string `json:"job_types" validate:"dive,oneof=full-time part-time contract temporary"`
	PreferredLocations []string `json:"preferred_locations"`
	Remote             bool     `json:"remote"`
}

type ExperienceDTO struct {
	Title       string     `json:"title" validate:"required,max=120"`
	Company     string     `json:"company" validate:"required,max=120"`
	StartDate   time.Time  `json:"start_date" validate:"required"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description" validate:"max=2000"`
}

type CandidateProfileRequest struct {
	FirstName      string          `json:"first_name" validate:"required,max=80"`
	LastName       string          `json:"last_name" validate:"required,max=80"`
	Email          string          `json:"email" validate:"omitempty,email"`
	Phone          string          `json:"phone" validate:"max=40"`
	Location       string          `json:"location" validate:"max=120"`
	Bio            string          `json:"bio" validate:"max=4000"`
	Certifications []string        `json:"certifications"`
	Availability   string          `json:"availability" validate:"omitempty,oneof=immediate two_weeks month_plus"`
	Preferences    PreferencesDTO  `json:"preferences"`
	Experience     []ExperienceDTO `json:"experience" validate:"dive"`
}

func (r CandidateProfileRequest) ToDomain(userID uuid.UUID) profile.Candidate {
	exp := make([]profile.Experience, 0, len(r.Experience))
	for _, e := range r.Experience {
		exp = append(exp, profile.Experience{
			Title:       e.Title,
			Company:     e.Company,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Current:     e.Current,
			Description: e.Description,
		})
	}
	return profile.Candidate{
		UserID:         userID,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		Phone:          r.Phone,
		Location:       r.Location,
		Bio:            r.Bio,
		Certifications: r.Certifications,
		Availability:   profile.Availability(r.Availability),
		Preferences: profile.Preferences{
			JobTypes:           r.Preferences.JobTypes,
			PreferredLocations: r.Preferences.PreferredLocations,
			Remote:             r.Preferences.Remote,
		},
		Experience: exp,
	}
}

type CandidateProfileResponse struct {
	UserID         uuid.UUID                 `json:"user_id"`
	FirstName      string                    `json:"first_name"`
	LastName       string                    `json:"last_name"`
	Email          string                    `json:"email"`
	Phone          string                    `json:"phone,omitempty"`
	Location       string                    `json:"location,omitempty"`
	Bio            string                    `json:"bio,omitempty"`
	Skills         []ProjectionEntryResponse `json:"skills"`
	Certifications []string                  `json:"certifications"`
	Availability   string                    `json:"availability,omitempty"`
	Preferences    PreferencesDTO            `json:"preferences"`
	Experience     []ExperienceDTO           `json:"experience"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

func NewCandidateProfileResponse(p profile.Candidate) CandidateProfileResponse {
	exp := make([]ExperienceDTO, 0, len(p.Experience))
	for _, e := range p.Experience {
		exp = append(exp, ExperienceDTO{
			Title:       e.Title,
			Company:     e.Company,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
			Current:     e.Current,
			Description: e.Description,
		})
	}
	return CandidateProfileResponse{
		UserID:         p.UserID,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		Phone:          p.Phone,
		Location:       p.Location,
		Bio:            p.Bio,
		Skills:         NewProjectionResponse(p.Skills),
		Certifications: nonNil(p.Certifications),
		Availability:   string(p.Availability),
		Preferences: PreferencesDTO{
			JobTypes:           nonNil(p.Preferences.JobTypes),
			PreferredLocations: nonNil(p.Preferences.PreferredLocations),
			Remote:             p.Preferences.Remote,
		},
		Experience: exp,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type AddressDTO struct {
	Street     string `json:"street" validate:"max=200"`
	City       string `json:"city" validate:"required,max=120"`
	State      string `json:"state" validate:"max=120"`
	PostalCode string `json:"postal_code" validate:"max=20"`
	Country    string `json:"country" validate:"required,max=80"`
}

type HoursDTO struct {
	Open  string `json:"open" validate:"required"`
	Close string `json:"close" validate:"required"`
}

type FacilityProfileRequest struct {
	Name           string              `json:"name" validate:"required,max=160"`
	Type           string              `json:"type" validate:"required,oneof=golf_course sports_facility other"`
	Email          string              `json:"email" validate:"omitempty,email"`
	Phone          string              `json:"phone" validate:"max=40"`
	Address        AddressDTO          `json:"address"`
	Website        string              `json:"website" validate:"omitempty,url"`
	Description    string              `json:"description" validate:"max=4000"`
	Facilities     []string            `json:"facilities"`
	Amenities      []string            `json:"amenities"`
	Photos         []string            `json:"photos" validate:"dive,url"`
	OperatingHours map[string]HoursDTO `json:"operating_hours" validate:"dive,keys,oneof=monday tuesday wednesday thursday friday saturday sunday,endkeys"`
}

func (r FacilityProfileRequest) ToDomain(userID uuid.UUID) profile.Facility {
	hours := make(map[string]profile.Hours, len(r.OperatingHours))
	for day, h := range r.OperatingHours {
		hours[day] = profile.Hours{Open: h.Open, Close: h.Close}
	}
	return profile.Facility{
		UserID: userID,
		Name:   r.Name,
		Type:   profile.FacilityType(r.Type),
		Email:  r.Email,
		Phone:  r.Phone,
		Address: profile.Address{
			Street:     r.Address.Street,
			City:       r.Address.City,
			State:      r.Address.State,
			PostalCode: r.Address.PostalCode,
			Country:    r.Address.Country,
		},
		Website:        r.Website,
		Description:    r.Description,
		Facilities:     r.Facilities,
		Amenities:      r.Amenities,
		Photos:         r.Photos,
		OperatingHours: hours,
	}
}

type FacilityProfileResponse struct {
	UserID         uuid.UUID           `json:"user_id"`
	Name           string              `json:"name"`
	Type           string              `json:"type"`
	Email          string              `json:"email,omitempty"`
	Phone          string              `json:"phone,omitempty"`
	Address        AddressDTO          `json:"address"`
	Website        string              `json:"website,omitempty"`
	Description    string              `json:"description,omitempty"`
	Facilities     []string            `json:"facilities"`
	Amenities      []string            `json:"amenities"`
	Photos         []string            `json:"photos"`
	OperatingHours map[string]HoursDTO `json:"operating_hours"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func NewFacilityProfileResponse(p profile.Facility) FacilityProfileResponse {
	hours := make(map[string]HoursDTO, len(p.OperatingHours))
	for day, h := range p.OperatingHours {
		hours[day] = HoursDTO{Open: h.Open, Close: h.Close}
	}
	return FacilityProfileResponse{
		UserID: p.UserID,
		Name:   p.Name,
		Type:   string(p.Type),
		Email:  p.Email,
		Phone:  p.Phone,
		Address: AddressDTO{
			Street:     p.Address.Street,
			City:       p.Address.City,
			State:      p.Address.State,
			PostalCode: p.Address.PostalCode,
			Country:    p.Address.Country,
		},
		Website:        p.Website,
		Description:    p.Description,
		Facilities:     nonNil(p.Facilities),
		Amenities:      nonNil(p.Amenities),
		Photos:         nonNil(p.Photos),
		OperatingHours: hours,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
