package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"turf-hire/internal/config"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type GCS struct {
	client  *storage.Client
	bucket  string
	prefix  string
	urlTTL  time.Duration
	timeout time.Duration
	logger  *zap.Logger
}

func NewGCS(ctx context.Context, cfg config.EvidenceConfig, logger *zap.Logger) (*GCS, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("gcs evidence: bucket not set")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs evidence: create client: %w", err)
	}
	logger.Info("gcs evidence store ready", zap.String("bucket", bucket))

	return &GCS{
		client:  client,
		bucket:  bucket,
		prefix:  cfg.Prefix,
		urlTTL:  cfg.URLTTL,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

func (g *GCS) Put(ctx context.Context, p, contentType string, data []byte) (string, error) {
	ctx, cancel := opContext(ctx, g.timeout)
	defer cancel()

	key := objectKey(g.prefix, p)
	w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		g.logger.Error("gcs write failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("gcs write %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		g.logger.Error("gcs close failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("gcs close %q: %w", key, err)
	}
	g.logger.Debug("gcs put ok", zap.String("key", key), zap.Int("bytes", len(data)))
	return locator{scheme: "gs", bucket: g.bucket, key: key}.String(), nil
}

func (g *GCS) Resolve(_ context.Context, raw string) (string, error) {
	loc, err := parseLocator(raw, "gs")
	if err != nil {
		return "", err
	}
	ttl := g.urlTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	u, err := g.client.Bucket(loc.bucket).SignedURL(loc.key, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("gcs sign %q: %w", loc.key, err)
	}
	return u, nil
}

func (g *GCS) Delete(ctx context.Context, raw string) error {
	loc, err := parseLocator(raw, "gs")
	if err != nil {
		return err
	}
	ctx, cancel := opContext(ctx, g.timeout)
	defer cancel()

	if err := g.client.Bucket(loc.bucket).Object(loc.key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("gcs delete %q: %w", loc.key, err)
	}
	return nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}
