package usecase

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EvidenceReader serves stored evidence bytes by object key. Only backends
// without signed URLs need one.
type EvidenceReader interface {
	Open(key string) ([]byte, string, bool)
}

type EvidenceObject struct {
	Key         string
	FileName    string
	ContentType string
	Data        []byte
}

type EvidenceUsecase interface {
	Download(ctx context.Context, actor Actor, key string) (EvidenceObject, error)
}

type Evidence struct {
	reader EvidenceReader
	logger *zap.Logger
}

func NewEvidenceUsecase(reader EvidenceReader, logger *zap.Logger) *Evidence {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evidence{reader: reader, logger: logger.With(zap.String("component", "evidence"))}
}

// Download returns an evidence file to the candidate who uploaded it or to
// an admin. The owner is the user id segment of the object key.
func (u *Evidence) Download(ctx context.Context, actor Actor, key string) (EvidenceObject, error) {
	if !actor.Authenticated() {
		return EvidenceObject{}, ErrUnauthorized
	}
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	owner, ok := evidenceOwner(key)
	if !ok {
		return EvidenceObject{}, notFound("evidence")
	}
	if owner != actor.UserID && !actor.IsAdmin() {
		u.logger.Warn("evidence access denied", zap.Stringer("user_id", actor.UserID), zap.String("key", key))
		return EvidenceObject{}, ErrForbidden
	}

	data, contentType, ok := u.reader.Open(key)
	if !ok {
		return EvidenceObject{}, notFound("evidence")
	}
	return EvidenceObject{
		Key:         key,
		FileName:    path.Base(key),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// evidenceOwner parses skill-evidence/<userId>/<file>.
func evidenceOwner(key string) (uuid.UUID, bool) {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) != 3 || parts[0] != evidencePathPrefix || parts[2] == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
