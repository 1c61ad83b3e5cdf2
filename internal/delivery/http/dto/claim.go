package dto

import (
	"time"

	"turf-hire/internal/domain/skill"

	"github.com/google/uuid"
)

type UpdateClaimStatusRequest struct {
	Status          string `json:"status" validate:"required,oneof=verified rejected"`
	RejectionReason string `json:"rejection_reason" validate:"max=1000"`
}

type EvidenceResponse struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"file_name"`
	FileType    string    `json:"file_type"`
	Description string    `json:"description,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
	DownloadURL string    `json:"download_url,omitempty"`
}

type ClaimResponse struct {
	ID              uuid.UUID          `json:"id"`
	UserID          uuid.UUID          `json:"user_id"`
	SkillID         uuid.UUID          `json:"skill_id"`
	Status          string             `json:"status"`
	Evidence        []EvidenceResponse `json:"evidence"`
	VerifiedBy      *uuid.UUID         `json:"verified_by,omitempty"`
	VerifiedAt      *time.Time         `json:"verified_at,omitempty"`
	RejectedAt      *time.Time         `json:"rejected_at,omitempty"`
	RejectionReason string             `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func NewClaimResponse(c skill.Claim) ClaimResponse {
	ev := make([]EvidenceResponse, 0, len(c.Evidence))
	for _, e := range c.Evidence {
		ev = append(ev, EvidenceResponse{
			ID:          e.ID,
			FileName:    e.FileName,
			FileType:    e.FileType,
			Description: e.Description,
			UploadedAt:  e.UploadedAt,
			DownloadURL: e.DownloadURL,
		})
	}
	return ClaimResponse{
		ID:              c.ID,
		UserID:          c.UserID,
		SkillID:         c.SkillID,
		Status:          c.Status.String(),
		Evidence:        ev,
		VerifiedBy:      c.VerifiedBy,
		VerifiedAt:      c.VerifiedAt,
		RejectedAt:      c.RejectedAt,
		RejectionReason: c.RejectionReason,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func NewClaimResponses(items []skill.Claim) []ClaimResponse {
	out := make([]ClaimResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewClaimResponse(it))
	}
	return out
}

type ProjectionEntryResponse struct {
	SkillID         uuid.UUID  `json:"skill_id"`
	Status          string     `json:"status"`
	VerifiedBy      *uuid.UUID `json:"verified_by,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
}

func NewProjectionResponse(p skill.Projection) []ProjectionEntryResponse {
	out := make([]ProjectionEntryResponse, 0, len(p))
	for _, e := range p {
		out = append(out, ProjectionEntryResponse{
			SkillID:         e.SkillID,
			Status:          e.Status.String(),
			VerifiedBy:      e.VerifiedBy,
			VerifiedAt:      e.VerifiedAt,
			RejectionReason: e.RejectionReason,
		})
	}
	return out
}

// MetricsResponse reports the average verification time in milliseconds.
type MetricsResponse struct {
	TotalVerified             int               `json:"total_verified"`
	TotalRejected             int               `json:"total_rejected"`
	TotalPending              int               `json:"total_pending"`
	AverageVerificationTimeMs int64             `json:"average_verification_time_ms"`
	VerificationsBySkill      map[uuid.UUID]int `json:"verifications_by_skill"`
}

func NewMetricsResponse(m skill.Metrics) MetricsResponse {
	by := m.VerificationsBySkill
	if by == nil {
		by = map[uuid.UUID]int{}
	}
	return MetricsResponse{
		TotalVerified:             m.TotalVerified,
		TotalRejected:             m.TotalRejected,
		TotalPending:              m.TotalPending,
		AverageVerificationTimeMs: m.AverageVerificationTime.Milliseconds(),
		VerificationsBySkill:      by,
	}
}
