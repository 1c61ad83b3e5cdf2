package storage

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const memoryBucket = "evidence"

// MemoryDownloadPath is where the API serves objects held by Memory.
// Resolve returns this path followed by the object key.
const MemoryDownloadPath = "/api/v1/evidence/"

type memoryObject struct {
	contentType string
	data        []byte
}

// Memory keeps evidence in process. Used for local development and tests;
// objects are downloaded through the API rather than a signed URL.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	logger  *zap.Logger
}

func NewMemory(logger *zap.Logger) *Memory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Memory{objects: make(map[string]memoryObject), logger: logger}
}

func (m *Memory) Put(ctx context.Context, p, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := objectKey("", p)
	if key == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidLocator)
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	m.objects[key] = memoryObject{contentType: contentType, data: buf}
	m.mu.Unlock()

	m.logger.Debug("evidence stored", zap.String("key", key), zap.Int("bytes", len(data)))
	return locator{scheme: "memory", bucket: memoryBucket, key: key}.String(), nil
}

func (m *Memory) Resolve(_ context.Context, raw string) (string, error) {
	loc, err := parseLocator(raw, "memory")
	if err != nil {
		return "", err
	}
	m.mu.RLock()
	_, ok := m.objects[loc.key]
	m.mu.RUnlock()
	if !ok {
		return "", ErrObjectNotFound
	}
	return MemoryDownloadPath + loc.key, nil
}

func (m *Memory) Delete(_ context.Context, raw string) error {
	loc, err := parseLocator(raw, "memory")
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.objects, loc.key)
	m.mu.Unlock()
	return nil
}

// Open returns a copy of the object stored under key.
func (m *Memory) Open(key string) ([]byte, string, bool) {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, "", false
	}
	out := make([]byte, len(obj.data))
	copy(out, obj.data)
	return out, obj.contentType, true
}

func (m *Memory) Close() error { return nil }
