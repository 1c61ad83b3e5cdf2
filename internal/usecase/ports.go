package usecase

import (
	"context"
	"time"
)

// EvidenceStore persists claim attachments and hands out download URLs.
type EvidenceStore interface {
	Put(ctx context.Context, path, contentType string, data []byte) (string, error)
	Resolve(ctx context.Context, locator string) (string, error)
	Delete(ctx context.Context, locator string) error
}

type EvidenceFile struct {
	FileName    string
	ContentType string
	Data        []byte
	Description string
}

// Locker guards a short critical section across processes. Acquire reports
// false when another holder owns the key; otherwise the returned token
// identifies this holder on release.
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

// Cache stores JSON values. Misses and an unavailable backend both report found=false.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
