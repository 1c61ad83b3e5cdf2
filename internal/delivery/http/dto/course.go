package dto

import (
	"time"

	"turf-hire/internal/domain/course"

	"github.com/google/uuid"
)

type CourseDetailsDTO struct {
	Holes        int      `json:"holes" validate:"gte=9,lte=36"`
	TotalYardage int      `json:"total_yardage" validate:"gte=1000"`
	Par          int      `json:"par" validate:"gte=27"`
	CourseRating *float64 `json:"course_rating,omitempty" validate:"omitempty,gt=0"`
	SlopeRating  *float64 `json:"slope_rating,omitempty" validate:"omitempty,gte=55,lte=155"`
}

type CourseRequest struct {
	Name        string           `json:"name" validate:"required,max=160"`
	Description string           `json:"description" validate:"required,max=8000"`
	Location    string           `json:"location" validate:"required,max=160"`
	Details     CourseDetailsDTO `json:"details"`
	Photos      []string         `json:"photos" validate:"max=20,dive,url"`
	Status      string           `json:"status" validate:"omitempty,oneof=active inactive maintenance"`
}

type CourseResponse struct {
	ID                uuid.UUID        `json:"id"`
	FacilityProfileID uuid.UUID        `json:"facility_profile_id"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Location          string           `json:"location"`
	Details           CourseDetailsDTO `json:"details"`
	Photos            []string         `json:"photos"`
	Status            string           `json:"status"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func NewCourseResponse(p course.Profile) CourseResponse {
	return CourseResponse{
		ID:                p.ID,
		FacilityProfileID: p.FacilityProfileID,
		Name:              p.Name,
		Description:       p.Description,
		Location:          p.Location,
		Details: CourseDetailsDTO{
			Holes:        p.Details.Holes,
			TotalYardage: p.Details.TotalYardage,
			Par:          p.Details.Par,
			CourseRating: p.Details.CourseRating,
			SlopeRating:  p.Details.SlopeRating,
		},
		Photos:    nonNil(p.Photos),
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewCourseResponses(items []course.Profile) []CourseResponse {
	out := make([]CourseResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewCourseResponse(it))
	}
	return out
}
