package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"turf-hire/internal/config"

	"go.uber.org/zap"
)

var (
	ErrInvalidLocator = errors.New("storage: invalid locator")
	ErrObjectNotFound = errors.New("storage: object not found")
)

// Store is the evidence blob backend. Put returns a locator that Resolve
// turns into a short-lived download URL.
type Store interface {
	Put(ctx context.Context, path, contentType string, data []byte) (string, error)
	Resolve(ctx context.Context, locator string) (string, error)
	Delete(ctx context.Context, locator string) error
	Close() error
}

// New picks the backend named by cfg.Backend.
func New(ctx context.Context, cfg config.EvidenceConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "evidence_store"), zap.String("backend", cfg.Backend))

	switch cfg.Backend {
	case "", "memory":
		return NewMemory(logger), nil
	case "s3":
		return NewS3(ctx, cfg, logger)
	case "gcs":
		return NewGCS(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}

type locator struct {
	scheme string
	bucket string
	key    string
}

func (l locator) String() string {
	return l.scheme + "://" + l.bucket + "/" + l.key
}

func parseLocator(raw, wantScheme string) (locator, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return locator{}, fmt.Errorf("%w: %v", ErrInvalidLocator, err)
	}
	if u.Scheme != wantScheme || u.Host == "" {
		return locator{}, fmt.Errorf("%w: %q", ErrInvalidLocator, raw)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return locator{}, fmt.Errorf("%w: %q has no object key", ErrInvalidLocator, raw)
	}
	return locator{scheme: u.Scheme, bucket: u.Host, key: key}, nil
}

func objectKey(prefix, p string) string {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return p
	}
	return prefix + "/" + p
}

func opContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}
