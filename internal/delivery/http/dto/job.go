package dto

import (
	"time"

	"turf-hire/internal/domain/job"

	"github.com/google/uuid"
)

type SalaryDTO struct {
	Amount   float64 `json:"amount" validate:"gte=0"`
	Type     string  `json:"type" validate:"required,oneof=hourly daily fixed"`
	Currency string  `json:"currency" validate:"required,oneof=GBP USD EUR"`
}

type JobRequest struct {
	Title          string      `json:"title" validate:"required,max=160"`
	Description    string      `json:"description" validate:"required,max=8000"`
	Location       string      `json:"location" validate:"required,max=160"`
	Type           string      `json:"type" validate:"required,oneof=full-time part-time contract temporary"`
	Salary         SalaryDTO   `json:"salary"`
	Requirements   []string    `json:"requirements"`
	RequiredSkills []uuid.UUID `json:"required_skills"`
	Status         string      `json:"status" validate:"omitempty,oneof=open closed filled draft"`
}

type JobResponse struct {
	ID                uuid.UUID   `json:"id"`
	UserID            uuid.UUID   `json:"user_id"`
	FacilityProfileID uuid.UUID   `json:"facility_profile_id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Location          string      `json:"location"`
	Type              string      `json:"type"`
	Salary            SalaryDTO   `json:"salary"`
	Requirements      []string    `json:"requirements"`
	RequiredSkills    []uuid.UUID `json:"required_skills"`
	Status            string      `json:"status"`
	ApplicationCount  int         `json:"application_count"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

func NewJobResponse(l job.Listing) JobResponse {
	skills := l.RequiredSkills
	if skills == nil {
		skills = []uuid.UUID{}
	}
	return JobResponse{
		ID:                l.ID,
		UserID:            l.UserID,
		FacilityProfileID: l.FacilityProfileID,
		Title:             l.Title,
		Description:       l.Description,
		Location:          l.Location,
		Type:              string(l.Type),
		Salary:            SalaryDTO{Amount: l.Salary.Amount, Type: l.Salary.Type, Currency: l.Salary.Currency},
		Requirements:      nonNil(l.Requirements),
		RequiredSkills:    skills,
		Status:            string(l.Status),
		ApplicationCount:  l.ApplicationCount,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}

func NewJobResponses(items []job.Listing) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewJobResponse(it))
	}
	return out
}

type ApplyRequest struct {
	CoverLetter string   `json:"cover_letter" validate:"max=8000"`
	Attachments []string `json:"attachments" validate:"dive,url"`
}

type ReviewApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed accepted rejected"`
	Notes  string `json:"notes" validate:"max=4000"`
}

type ApplicationResponse struct {
	ID                uuid.UUID                 `json:"id"`
	JobID             uuid.UUID                 `json:"job_id"`
	ApplicantID       uuid.UUID                 `json:"applicant_id"`
	FacilityProfileID uuid.UUID                 `json:"facility_profile_id"`
	Status            string                    `json:"status"`
	CoverLetter       string                    `json:"cover_letter,omitempty"`
	Attachments       []string                  `json:"attachments"`
	Notes             string                    `json:"notes,omitempty"`
	AppliedAt         time.Time                 `json:"applied_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
	ApplicantSkills   []ProjectionEntryResponse `json:"applicant_skills,omitempty"`
	SkillMatch        *SkillMatchResponse       `json:"skill_match,omitempty"`
}

type SkillMatchResponse struct {
	Score    int         `json:"score"`
	Verified []uuid.UUID `json:"verified"`
	Pending  []uuid.UUID `json:"pending"`
	Missing  []uuid.UUID `json:"missing"`
}

func NewSkillMatchResponse(m job.Match) *SkillMatchResponse {
	return &SkillMatchResponse{
		Score:    m.Score,
		Verified: nonNilIDs(m.Verified),
		Pending:  nonNilIDs(m.Pending),
		Missing:  nonNilIDs(m.Missing),
	}
}

func nonNilIDs(in []uuid.UUID) []uuid.UUID {
	if in == nil {
		return []uuid.UUID{}
	}
	return in
}

func NewApplicationResponse(a job.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:                a.ID,
		JobID:             a.JobID,
		ApplicantID:       a.ApplicantID,
		FacilityProfileID: a.FacilityProfileID,
		Status:            string(a.Status),
		CoverLetter:       a.CoverLetter,
		Attachments:       nonNil(a.Attachments),
		Notes:             a.Notes,
		AppliedAt:         a.AppliedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func NewApplicationResponses(items []job.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewApplicationResponse(it))
	}
	return out
}
