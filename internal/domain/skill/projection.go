package skill

import (
	"time"

	"github.com/google/uuid"
)

type ProjectionEntry struct {
	SkillID         uuid.UUID  `json:"id"`
	Status          Status     `json:"status"`
	VerifiedBy      *uuid.UUID `json:"verifiedBy,omitempty"`
	VerifiedAt      *time.Time `json:"verifiedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
}

// Projection is a candidate's embedded list of claim statuses, one entry per skill.
type Projection []ProjectionEntry

// Upsert replaces the entry for e.SkillID or appends it.
func (p Projection) Upsert(e ProjectionEntry) Projection {
	for i := range p {
		if p[i].SkillID == e.SkillID {
			p[i] = e
			return p
		}
	}
	return append(p, e)
}

func (p Projection) Find(skillID uuid.UUID) (ProjectionEntry, bool) {
	for _, e := range p {
		if e.SkillID == skillID {
			return e, true
		}
	}
	return ProjectionEntry{}, false
}

// Normalize applies the read-side default status and collapses duplicate
// entries, keeping the last one written.
func (p Projection) Normalize() Projection {
	out := make(Projection, 0, len(p))
	for _, e := range p {
		e.Status = ParseStatus(string(e.Status))
		out = out.Upsert(e)
	}
	return out
}
