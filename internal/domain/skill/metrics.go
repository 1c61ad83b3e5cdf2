package skill

import (
	"time"

	"github.com/google/uuid"
)

type Metrics struct {
	TotalVerified           int
	TotalRejected           int
	TotalPending            int
	AverageVerificationTime time.Duration
	VerificationsBySkill    map[uuid.UUID]int
}

// ComputeMetrics summarises a full snapshot of claims. Verified claims with
// a missing or non-positive latency still count but are left out of the average.
func ComputeMetrics(claims []Claim) Metrics {
	m := Metrics{VerificationsBySkill: map[uuid.UUID]int{}}

	var total time.Duration
	var timed int
	for _, c := range claims {
		switch ParseStatus(string(c.Status)) {
		case StatusVerified:
			m.TotalVerified++
			m.VerificationsBySkill[c.SkillID]++
			if c.VerifiedAt == nil || c.CreatedAt.IsZero() {
				continue
			}
			latency := c.VerifiedAt.Sub(c.CreatedAt)
			if latency <= 0 {
				continue
			}
			total += latency
			timed++
		case StatusRejected:
			m.TotalRejected++
		default:
			m.TotalPending++
		}
	}
	if timed > 0 {
		m.AverageVerificationTime = total / time.Duration(timed)
	}
	return m
}
