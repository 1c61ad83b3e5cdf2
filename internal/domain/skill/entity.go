package skill

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultAcceptedFileTypes applies when a catalog entry names none.
var DefaultAcceptedFileTypes = []string{".pdf", ".jpg", ".png"}

type Skill struct {
	ID                uuid.UUID
	Name              string
	Category          string
	Description       string
	RequiresEvidence  bool
	AcceptedFileTypes []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Accepts reports whether fileName has one of the skill's accepted extensions.
func (s Skill) Accepts(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(fileName)))
	if ext == "" {
		return false
	}
	types := s.AcceptedFileTypes
	if len(types) == 0 {
		types = DefaultAcceptedFileTypes
	}
	for _, t := range types {
		if t == "*" || t == ext {
			return true
		}
	}
	return false
}

// NormalizeFileTypes lower-cases patterns, forces a leading dot and drops
// blanks and duplicates. "pdf", ".PDF" and "*.pdf" all become ".pdf".
func NormalizeFileTypes(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		t = strings.TrimPrefix(t, "*")
		if t == "" || t == "." {
			continue
		}
		if !strings.HasPrefix(t, ".") {
			t = "." + t
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return append([]string(nil), DefaultAcceptedFileTypes...)
	}
	return out
}
