package ws

import (
	"encoding/json"
	"time"

	"turf-hire/internal/domain/skill"

	"go.uber.org/zap"
)

const (
	EventClaimCreated       = "claim_created"
	EventClaimStatusChanged = "claim_status_changed"
)

type ClaimEvent struct {
	Type      string `json:"type"`
	ClaimID   string `json:"claim_id"`
	SkillID   string `json:"skill_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Notifier pushes ledger changes to connected clients.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

// ClaimCreated goes to the review queue only.
func (n *Notifier) ClaimCreated(c skill.Claim) {
	n.send(EventClaimCreated, c, TopicAdmins)
}

func (n *Notifier) ClaimStatusChanged(c skill.Claim) {
	n.send(EventClaimStatusChanged, c, UserTopic(c.UserID.String()), TopicAdmins)
}

func (n *Notifier) send(kind string, c skill.Claim, topics ...string) {
	if n == nil || n.hub == nil {
		return
	}
	evt := ClaimEvent{
		Type:      kind,
		ClaimID:   c.ID.String(),
		SkillID:   c.SkillID.String(),
		UserID:    c.UserID.String(),
		Status:    c.Status.String(),
		Timestamp: n.now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		n.hub.logger.Error("encode claim event", zap.Error(err))
		return
	}
	n.hub.Publish(b, topics...)
}
