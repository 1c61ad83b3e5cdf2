package usecase

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"turf-hire/internal/domain/skill"
	"turf-hire/internal/domain/user"
	"turf-hire/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	evidencePathPrefix = "skill-evidence"
	claimLockTTL       = 30 * time.Second
	defaultMaxEvidence = 10 << 20
)

// MaxEvidenceFiles caps attachments per claim.
const MaxEvidenceFiles = 5

// ClaimNotifier is told about ledger changes after they commit.
type ClaimNotifier interface {
	ClaimCreated(c skill.Claim)
	ClaimStatusChanged(c skill.Claim)
}

type TransitionRecorder interface {
	ObserveClaimTransition(status string)
}

type CreateClaimInput struct {
	SkillID uuid.UUID
	Files   []EvidenceFile
}

type UpdateClaimStatusInput struct {
	ClaimID         uuid.UUID
	Status          skill.Status
	RejectionReason string
}

type ClaimUsecase interface {
	CreateClaim(ctx context.Context, actor Actor, in CreateClaimInput) (skill.Claim, error)
	UpdateClaimStatus(ctx context.Context, actor Actor, in UpdateClaimStatusInput) (skill.Claim, error)
	ListClaims(ctx context.Context, actor Actor, status *skill.Status) ([]skill.Claim, error)
	GetClaim(ctx context.Context, actor Actor, id uuid.UUID) (skill.Claim, error)
}

type ClaimDeps struct {
	Claims   repository.ClaimRepository
	Skills   repository.SkillRepository
	Store    EvidenceStore
	Locker   Locker
	Notifier ClaimNotifier
	Recorder TransitionRecorder
	Logger   *zap.Logger
	MaxBytes int64
	Now      func() time.Time
}

type Claims struct {
	claims   repository.ClaimRepository
	skills   repository.SkillRepository
	store    EvidenceStore
	locker   Locker
	notifier ClaimNotifier
	recorder TransitionRecorder
	logger   *zap.Logger
	maxBytes int64
	now      func() time.Time
}

func NewClaimUsecase(d ClaimDeps) *Claims {
	u := &Claims{
		claims:   d.Claims,
		skills:   d.Skills,
		store:    d.Store,
		locker:   d.Locker,
		notifier: d.Notifier,
		recorder: d.Recorder,
		logger:   d.Logger,
		maxBytes: d.MaxBytes,
		now:      d.Now,
	}
	if u.logger == nil {
		u.logger = zap.NewNop()
	}
	u.logger = u.logger.With(zap.String("component", "claims"))
	if u.maxBytes <= 0 {
		u.maxBytes = defaultMaxEvidence
	}
	if u.now == nil {
		u.now = time.Now
	}
	return u
}

func (u *Claims) CreateClaim(ctx context.Context, actor Actor, in CreateClaimInput) (skill.Claim, error) {
	if err := requireRole(actor, user.RoleCandidate); err != nil {
		return skill.Claim{}, err
	}
	if in.SkillID == uuid.Nil {
		return skill.Claim{}, invalid("skill_id", "is required")
	}

	sk, err := u.skills.GetByID(ctx, in.SkillID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return skill.Claim{}, notFound("skill")
		}
		u.logger.Error("load skill", zap.Stringer("skill_id", in.SkillID), zap.Error(err))
		return skill.Claim{}, ErrInternal
	}

	if err := u.validateFiles(sk, in.Files); err != nil {
		return skill.Claim{}, err
	}

	exists, err := u.claims.Exists(ctx, actor.UserID, sk.ID)
	if err != nil {
		u.logger.Error("check existing claim", zap.Stringer("user_id", actor.UserID), zap.Error(err))
		return skill.Claim{}, ErrInternal
	}
	if exists {
		return skill.Claim{}, ErrDuplicateClaim
	}

	release, err := u.lock(ctx, actor.UserID, sk.ID)
	if err != nil {
		return skill.Claim{}, err
	}
	defer release()

	now := u.now().UTC()
	evidence, err := u.upload(ctx, actor.UserID, now, in.Files)
	if err != nil {
		u.logger.Warn("evidence upload failed", zap.Stringer("user_id", actor.UserID), zap.Stringer("skill_id", sk.ID), zap.Error(err))
		return skill.Claim{}, err
	}

	c := skill.NewClaim(actor.UserID, sk.ID, evidence, now)
	if err := u.claims.Create(ctx, c); err != nil {
		u.discard(ctx, evidence)
		if errors.Is(err, repository.ErrDuplicate) {
			return skill.Claim{}, ErrDuplicateClaim
		}
		u.logger.Error("create claim", zap.Stringer("user_id", actor.UserID), zap.Stringer("skill_id", sk.ID), zap.Error(err))
		return skill.Claim{}, ErrTransaction
	}

	u.logger.Info("claim created", zap.Stringer("claim_id", c.ID), zap.Stringer("user_id", c.UserID), zap.Stringer("skill_id", c.SkillID), zap.Int("evidence", len(evidence)))
	if u.notifier != nil {
		u.notifier.ClaimCreated(c)
	}
	return c, nil
}

func (u *Claims) UpdateClaimStatus(ctx context.Context, actor Actor, in UpdateClaimStatusInput) (skill.Claim, error) {
	if err := requireRole(actor, user.RoleAdmin); err != nil {
		return skill.Claim{}, err
	}
	if in.ClaimID == uuid.Nil {
		return skill.Claim{}, invalid("claim_id", "is required")
	}
	// status and reason are checked under the row lock so a terminal claim
	// reports InvalidTransition before any input error
	reason := strings.TrimSpace(in.RejectionReason)
	now := u.now().UTC()
	c, err := u.claims.Transition(ctx, in.ClaimID, func(c *skill.Claim) error {
		return c.Transition(in.Status, actor.UserID, reason, now)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return skill.Claim{}, notFound("claim")
		case errors.Is(err, skill.ErrTerminalState):
			return skill.Claim{}, ErrInvalidTransition
		case errors.Is(err, skill.ErrReasonRequired):
			return skill.Claim{}, invalid("rejection_reason", "is required when rejecting a claim")
		case errors.Is(err, skill.ErrInvalidStatus):
			return skill.Claim{}, invalid("status", "must be verified or rejected")
		}
		u.logger.Error("transition claim", zap.Stringer("claim_id", in.ClaimID), zap.String("status", in.Status.String()), zap.Error(err))
		return skill.Claim{}, ErrTransaction
	}

	u.logger.Info("claim reviewed", zap.Stringer("claim_id", c.ID), zap.String("status", c.Status.String()), zap.Stringer("admin_id", actor.UserID))
	if u.recorder != nil {
		u.recorder.ObserveClaimTransition(c.Status.String())
	}
	if u.notifier != nil {
		u.notifier.ClaimStatusChanged(c)
	}
	return c, nil
}

func (u *Claims) ListClaims(ctx context.Context, actor Actor, status *skill.Status) ([]skill.Claim, error) {
	if !actor.Authenticated() {
		return nil, ErrUnauthorized
	}
	if status != nil && !status.Valid() {
		return nil, invalid("status", "must be pending, verified or rejected")
	}

	f := repository.ClaimFilter{Status: status}
	if !actor.IsAdmin() {
		id := actor.UserID
		f.UserID = &id
	}
	items, err := u.claims.List(ctx, f)
	if err != nil {
		u.logger.Error("list claims", zap.Stringer("user_id", actor.UserID), zap.Error(err))
		return nil, ErrInternal
	}
	return items, nil
}

// GetClaim returns a claim to its owner or an admin with download URLs resolved.
func (u *Claims) GetClaim(ctx context.Context, actor Actor, id uuid.UUID) (skill.Claim, error) {
	if !actor.Authenticated() {
		return skill.Claim{}, ErrUnauthorized
	}
	c, err := u.claims.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return skill.Claim{}, notFound("claim")
		}
		u.logger.Error("get claim", zap.Stringer("claim_id", id), zap.Error(err))
		return skill.Claim{}, ErrInternal
	}
	if c.UserID != actor.UserID && !actor.IsAdmin() {
		return skill.Claim{}, ErrForbidden
	}

	for i := range c.Evidence {
		url, err := u.store.Resolve(ctx, c.Evidence[i].FileURL)
		if err != nil {
			u.logger.Warn("resolve evidence url", zap.Stringer("claim_id", c.ID), zap.String("locator", c.Evidence[i].FileURL), zap.Error(err))
			continue
		}
		c.Evidence[i].DownloadURL = url
	}
	return c, nil
}

func (u *Claims) validateFiles(sk skill.Skill, files []EvidenceFile) error {
	if sk.RequiresEvidence && len(files) == 0 {
		return invalid("files", "at least one evidence file is required for "+sk.Name)
	}
	if len(files) > MaxEvidenceFiles {
		return invalid("files", fmt.Sprintf("at most %d files per claim", MaxEvidenceFiles))
	}
	for _, f := range files {
		name := strings.TrimSpace(f.FileName)
		if name == "" {
			return invalid("files", "file name is required")
		}
		if len(f.Data) == 0 {
			return invalid("files", name+" is empty")
		}
		if int64(len(f.Data)) > u.maxBytes {
			return invalid("files", fmt.Sprintf("%s exceeds the %d byte limit", name, u.maxBytes))
		}
		if !sk.Accepts(name) {
			return invalid("files", fmt.Sprintf("%s is not an accepted file type (%s)", name, strings.Join(acceptedTypes(sk), ", ")))
		}
	}
	return nil
}

func acceptedTypes(sk skill.Skill) []string {
	if len(sk.AcceptedFileTypes) == 0 {
		return skill.DefaultAcceptedFileTypes
	}
	return sk.AcceptedFileTypes
}

// lock takes the per (user, skill) submission lock. A second concurrent
// submission is reported as a duplicate. Lock backend errors are logged and
// the unique index remains the final guard.
func (u *Claims) lock(ctx context.Context, userID, skillID uuid.UUID) (func(), error) {
	noop := func() {}
	if u.locker == nil {
		return noop, nil
	}
	key := "claims:lock:" + userID.String() + ":" + skillID.String()
	token, ok, err := u.locker.AcquireLock(ctx, key, claimLockTTL)
	if err != nil {
		u.logger.Warn("claim lock unavailable", zap.String("key", key), zap.Error(err))
		return noop, nil
	}
	if !ok {
		return nil, ErrDuplicateClaim
	}
	return func() {
		if err := u.locker.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
			u.logger.Warn("release claim lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// upload stores every file concurrently. On any failure the files already
// stored are deleted and nothing is returned.
func (u *Claims) upload(ctx context.Context, userID uuid.UUID, now time.Time, files []EvidenceFile) ([]skill.Evidence, error) {
	evidence := make([]skill.Evidence, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			name := sanitizeFileName(f.FileName)
			path := fmt.Sprintf("%s/%s/%d-%d-%s", evidencePathPrefix, userID, now.UnixMilli(), i, name)
			contentType := fileType(f)

			locator, err := u.store.Put(gctx, path, contentType, f.Data)
			if err != nil {
				return &EvidenceUploadError{FileName: f.FileName, Err: err}
			}
			evidence[i] = skill.Evidence{
				ID:          uuid.New(),
				FileURL:     locator,
				FileName:    f.FileName,
				FileType:    contentType,
				UploadedAt:  now,
				Description: strings.TrimSpace(f.Description),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		u.discard(ctx, evidence)
		var upErr *EvidenceUploadError
		if !errors.As(err, &upErr) {
			err = &EvidenceUploadError{Err: err}
		}
		return nil, err
	}
	return evidence, nil
}

func (u *Claims) discard(ctx context.Context, evidence []skill.Evidence) {
	cleanupCtx := context.WithoutCancel(ctx)
	for _, e := range evidence {
		if e.FileURL == "" {
			continue
		}
		if err := u.store.Delete(cleanupCtx, e.FileURL); err != nil {
			u.logger.Warn("delete orphaned evidence", zap.String("locator", e.FileURL), zap.Error(err))
		}
	}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	name = unsafeFileChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

func fileType(f EvidenceFile) string {
	ct := strings.TrimSpace(f.ContentType)
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.FileName))); byExt != "" {
		return byExt
	}
	if ct != "" {
		return ct
	}
	return "application/octet-stream"
}
