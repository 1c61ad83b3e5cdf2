package job

import (
	"math"

	"turf-hire/internal/domain/skill"

	"github.com/google/uuid"
)

// Match summarises how an applicant's claimed skills cover a listing's
// required skills. Only verified claims count towards Score.
type Match struct {
	Score    int
	Verified []uuid.UUID
	Pending  []uuid.UUID
	Missing  []uuid.UUID
}

// MatchSkills scores a candidate projection against the required skills.
// A listing without required skills matches everyone fully.
func MatchSkills(required []uuid.UUID, p skill.Projection) Match {
	m := Match{
		Verified: make([]uuid.UUID, 0, len(required)),
		Pending:  make([]uuid.UUID, 0),
		Missing:  make([]uuid.UUID, 0),
	}

	seen := make(map[uuid.UUID]struct{}, len(required))
	total := 0
	for _, id := range required {
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		total++

		e, ok := p.Find(id)
		switch {
		case ok && e.Status == skill.StatusVerified:
			m.Verified = append(m.Verified, id)
		case ok && skill.ParseStatus(string(e.Status)) == skill.StatusPending:
			m.Pending = append(m.Pending, id)
		default:
			m.Missing = append(m.Missing, id)
		}
	}

	if total == 0 {
		m.Score = 100
		return m
	}
	m.Score = int(math.Round(100 * float64(len(m.Verified)) / float64(total)))
	return m
}
