package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"turf-hire/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

type S3 struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	prefix    string
	urlTTL    time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

func NewS3(ctx context.Context, cfg config.EvidenceConfig, logger *zap.Logger) (*S3, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("s3 evidence: bucket not set")
	}

	loadCtx, cancel := opContext(ctx, cfg.Timeout)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(loadCtx)
	if err != nil {
		return nil, fmt.Errorf("s3 evidence: load default AWS config: %w", err)
	}
	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	}

	client := s3.NewFromConfig(awsCfg)
	logger.Info("s3 evidence store ready", zap.String("bucket", bucket), zap.String("region", awsCfg.Region))

	return &S3{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		prefix:    cfg.Prefix,
		urlTTL:    cfg.URLTTL,
		timeout:   cfg.Timeout,
		logger:    logger,
	}, nil
}

func (s *S3) Put(ctx context.Context, p, contentType string, data []byte) (string, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	key := objectKey(s.prefix, p)
	in := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		s.logger.Error("s3 put failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("s3 put %q: %w", key, err)
	}
	s.logger.Debug("s3 put ok", zap.String("key", key), zap.Int("bytes", len(data)))
	return locator{scheme: "s3", bucket: s.bucket, key: key}.String(), nil
}

func (s *S3) Resolve(ctx context.Context, raw string) (string, error) {
	loc, err := parseLocator(raw, "s3")
	if err != nil {
		return "", err
	}
	ttl := s.urlTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.bucket),
		Key:    aws.String(loc.key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("s3 presign %q: %w", loc.key, err)
	}
	return req.URL, nil
}

func (s *S3) Delete(ctx context.Context, raw string) error {
	loc, err := parseLocator(raw, "s3")
	if err != nil {
		return err
	}
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(loc.bucket),
		Key:    aws.String(loc.key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil
		}
		return fmt.Errorf("s3 delete %q: %w", loc.key, err)
	}
	return nil
}

func (s *S3) Close() error { return nil }

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
		return true
	}
	var noSuchKey *s3types.NoSuchKey
	return errors.As(err, &noSuchKey)
}
