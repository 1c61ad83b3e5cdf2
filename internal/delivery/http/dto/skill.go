package dto

import (
	"time"

	"turf-hire/internal/domain/skill"

	"github.com/google/uuid"
)

type SkillRequest struct {
	Name              string   `json:"name" validate:"required,max=120"`
	Category          string   `json:"category" validate:"max=80"`
	Description       string   `json:"description" validate:"max=2000"`
	RequiresEvidence  bool     `json:"requires_evidence"`
	AcceptedFileTypes []string `json:"accepted_file_types" validate:"dive,required,max=16"`
}

type SkillResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category,omitempty"`
	Description       string    `json:"description,omitempty"`
	RequiresEvidence  bool      `json:"requires_evidence"`
	AcceptedFileTypes []string  `json:"accepted_file_types"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewSkillResponse(s skill.Skill) SkillResponse {
	types := s.AcceptedFileTypes
	if len(types) == 0 {
		types = skill.DefaultAcceptedFileTypes
	}
	return SkillResponse{
		ID:                s.ID,
		Name:              s.Name,
		Category:          s.Category,
		Description:       s.Description,
		RequiresEvidence:  s.RequiresEvidence,
		AcceptedFileTypes: types,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func NewSkillResponses(items []skill.Skill) []SkillResponse {
	out := make([]SkillResponse, 0, len(items))
	for _, it := range items {
		out = append(out, NewSkillResponse(it))
	}
	return out
}
