package skill

import "strings"

type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// ParseStatus reads a stored status. Anything empty or unrecognised is pending.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusVerified:
		return StatusVerified
	case StatusRejected:
		return StatusRejected
	default:
		return StatusPending
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusVerified || s == StatusRejected
}

func (s Status) String() string { return string(s) }

func (s Status) MarshalText() ([]byte, error) {
	if s == "" {
		return []byte(StatusPending), nil
	}
	return []byte(s), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	*s = ParseStatus(string(b))
	return nil
}
