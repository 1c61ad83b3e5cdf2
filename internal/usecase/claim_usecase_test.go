package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"turf-hire/internal/domain/skill"
	"turf-hire/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type claimFixture struct {
	uc       *Claims
	claims   *fakeClaimRepo
	skills   *fakeSkillRepo
	store    *fakeStore
	locker   *fakeLocker
	notifier *recordingNotifier
	recorder *countingRecorder
	logs     *observer.ObservedLogs
	clock    time.Time
	mowing   skill.Skill
	pa1      skill.Skill
}

func newClaimFixture(t *testing.T) *claimFixture {
	t.Helper()
	f := &claimFixture{
		claims:   newFakeClaimRepo(),
		store:    newFakeStore(),
		locker:   newFakeLocker(),
		notifier: &recordingNotifier{},
		recorder: &countingRecorder{},
		clock:    time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
		mowing:   skill.Skill{ID: uuid.New(), Name: "Fine Turf Mowing", AcceptedFileTypes: []string{".pdf", ".jpg", ".png"}},
		pa1:      skill.Skill{ID: uuid.New(), Name: "Pesticide Application (PA1)", RequiresEvidence: true, AcceptedFileTypes: []string{".pdf"}},
	}
	f.skills = newFakeSkillRepo(f.mowing, f.pa1)

	core, logs := observer.New(zap.DebugLevel)
	f.logs = logs
	f.uc = NewClaimUsecase(ClaimDeps{
		Claims:   f.claims,
		Skills:   f.skills,
		Store:    f.store,
		Locker:   f.locker,
		Notifier: f.notifier,
		Recorder: f.recorder,
		Logger:   zap.New(core),
		MaxBytes: 1024,
		Now:      func() time.Time { return f.clock },
	})
	return f
}

func pdf(name string) EvidenceFile {
	return EvidenceFile{FileName: name, ContentType: "application/pdf", Data: []byte("%PDF-1.4 certificate")}
}

func TestCreateClaim_PendingWithProjection(t *testing.T) {
	f := newClaimFixture(t)

	c, err := f.uc.CreateClaim(context.Background(), candidateActor, CreateClaimInput{
		SkillID: f.pa1.ID,
		Files:   []EvidenceFile{{FileName: "cert.pdf", Data: []byte("pdf"), Description: " PA1 card "}},
	})
	require.NoError(t, err)

	assert.Equal(t, skill.StatusPending, c.Status)
	assert.Equal(t, candidateActor.UserID, c.UserID)
	assert.Equal(t, f.clock, c.CreatedAt)
	assert.Equal(t, f.clock, c.UpdatedAt)
	require.Len(t, c.Evidence, 1)
	assert.Equal(t, "cert.pdf", c.Evidence[0].FileName)
	assert.Equal(t, "application/pdf", c.Evidence[0].FileType)
	assert.Equal(t, "PA1 card", c.Evidence[0].Description)
	assert.True(t, strings.HasPrefix(c.Evidence[0].FileURL, "memory://skill-evidence/"+candidateActor.UserID.String()+"/"))
	assert.True(t, strings.HasSuffix(c.Evidence[0].FileURL, "-cert.pdf"))

	e, ok := f.claims.projection(candidateActor.UserID).Find(f.pa1.ID)
	require.True(t, ok)
	assert.Equal(t, skill.StatusPending, e.Status)

	require.Len(t, f.notifier.created, 1)
	assert.Empty(t, f.locker.held)
}

func TestCreateClaim_Duplicate(t *testing.T) {
	f := newClaimFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateClaim(ctx, candidateActor, CreateClaimInput{SkillID: f.mowing.ID})
	require.NoError(t, err)

	_, err = f.uc.CreateClaim(ctx, candidateActor, CreateClaimInput{SkillID: f.mowing.ID, Files: []EvidenceFile{pdf("again.pdf")}})
	require.ErrorIs(t, err, ErrDuplicateClaim)
	assert.Equal(t, 1, f.claims.count())
	assert.Equal(t, 0, f.store.puts, "duplicate must be rejected before uploading")
}

func TestCreateClaim_ConcurrentSubmissionsYieldOneClaim(t *testing.T) {
	f := newClaimFixture(t)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.uc.CreateClaim(context.Background(), candidateActor, CreateClaimInput{SkillID: f.mowing.ID})
		}()
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateClaim)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, f.claims.count())
}

func TestCreateClaim_ExpiredLockIsNotReleasedFromUnderNextHolder(t *testing.T) {
	f := newClaimFixture(t)
	key := "claims:lock:" + candidateActor.UserID.String() + ":" + f.mowing.ID.String()

	var (
		nextToken string
		nextOK    bool
	)
	f.store.onPut = func(string) {
		// the upload outlives the lock TTL and another request takes the key
		f.locker.expire(key)
		nextToken, nextOK, _ = f.locker.AcquireLock(context.Background(), key, time.Second)
	}

	_, err := f.uc.CreateClaim(context.Background(), candidateActor, CreateClaimInput{SkillID: f.mowing.ID, Files: []EvidenceFile{pdf("card.pdf")}})
	require.NoError(t, err)
	require.True(t, nextOK)

	assert.Equal(t, nextToken, f.locker.held[key])
	assert.Equal(t, 1, f.locker.stale)
	assert.Empty(t, f.locker.released)
}

func TestCreateClaim_UniqueIndexIsFinalGuard(t *testing.T) {
	f := newClaimFixture(t)
	f.claims.createErr = fmt.Errorf("insert claim: %w", repository.ErrDuplicate)

	_, err := f.uc.CreateClaim(context.Background(), candidateActor, CreateClaimInput{SkillID: f.mowing.ID, Files: []EvidenceFile{pdf("a.pdf")}})
	require.ErrorIs(t, err, ErrDuplicateClaim)
	assert.Equal(t, 0, f.store.len(), "uploaded evidence is removed when the insert loses")
}

func TestCreateClaim_EvidenceUploadFailureLeavesNothing(t *testing.T) {
	f := newClaimFixture(t)
	f.store.failOn = "second.pdf"

	_, err := f.uc.CreateClaim(context.Background(), candidateActor, CreateClaimInput{
		SkillID: f.mowing.ID,
		Files:   []EvidenceFile{pdf("first.pdf"), pdf("second.pdf")},
	})
	require.ErrorIs(t, err, ErrEvidenceUpload)

	var upErr *EvidenceUploadError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, "second.pdf", upErr.FileName)

	assert.Equal(t, 0, f.claims.count())
	_, ok := f.claims.projection(candidateActor.UserID).Find(f.mowing.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, f.store.len())
	assert.Empty(t, f.notifier.created)
}

func TestCreateClaim_TransactionFailure(t *testing.T) {
	f := newClaimFixture(t)
	f.claims.createErr = errors.New("connection reset")

	_, err := f.uc.CreateClaim(context.Background(), candidateActor, CreateClaimInput{SkillID: f.mowing.ID, Files: []EvidenceFile{pdf("a.pdf")}})
	require.ErrorIs(t, err, ErrTransaction)
	assert.Equal(t, 0, f.store.len())
	assert.Equal(t, 1, f.logs.FilterMessage("create claim").Len())
}

func TestCreateClaim_Validation(t *testing.T) {
	f := newClaimFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    CreateClaimInput
		field string
	}{
		{name: "missing skill id", in: CreateClaimInput{}, field: "skill_id"},
		{name: "evidence required", in: CreateClaimInput{SkillID: f.pa1.ID}, field: "files"},
		{name: "file type not accepted", in: CreateClaimInput{SkillID: f.pa1.ID, Files: []EvidenceFile{{FileName: "card.png", Data: []byte("x")}}}, field: "files"},
		{name: "empty file", in: CreateClaimInput{SkillID: f.mowing.ID, Files: []EvidenceFile{{FileName: "a.pdf"}}}, field: "files"},
		{name: "too many files", in: CreateClaimInput{SkillID: f.mowing.ID, Files: make([]EvidenceFile, MaxEvidenceFiles+1)}, field: "files"},
		{name: "too large", in: CreateClaimInput{SkillID: f.mowing.ID, Files: []EvidenceFile{{FileName: "a.pdf", Data: make([]byte, 2048)}}}, field: "files"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateClaim(ctx, candidateActor, tt.in)
			require.ErrorIs(t, err, ErrValidation)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
	assert.Equal(t, 0, f.store.puts)
	assert.Equal(t, 0, f.claims.count())
}

func TestCreateClaim_UnknownSkill(t *testing.T) {
	f := newClaimFixture(t)
	_, err := f.uc.CreateClaim(context.Background(), candidateActor, CreateClaimInput{SkillID: uuid.New()})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateClaim_RoleGating(t *testing.T) {
	f := newClaimFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateClaim(ctx, adminActor, CreateClaimInput{SkillID: f.mowing.ID})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.uc.CreateClaim(ctx, facilityActor, CreateClaimInput{SkillID: f.mowing.ID})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.uc.CreateClaim(ctx, Actor{}, CreateClaimInput{SkillID: f.mowing.ID})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUpdateClaimStatus_EndToEnd(t *testing.T) {
	f := newClaimFixture(t)
	ctx := context.Background()

	c, err := f.uc.CreateClaim(ctx, candidateActor, CreateClaimInput{SkillID: f.mowing.ID, Files: []EvidenceFile{pdf("cert.pdf")}})
	require.NoError(t, err)
	e, _ := f.claims.projection(candidateActor.UserID).Find(f.mowing.ID)
	assert.Equal(t, skill.StatusPending, e.Status)

	f.clock = f.clock.Add(2 * time.Hour)
	verified, err := f.uc.UpdateClaimStatus(ctx, adminActor, UpdateClaimStatusInput{ClaimID: c.ID, Status: skill.StatusVerified})
	require.NoError(t, err)
	assert.Equal(t, skill.StatusVerified, verified.Status)
	require.NotNil(t, verified.VerifiedBy)
	assert.Equal(t, adminActor.UserID, *verified.VerifiedBy)
	require.NotNil(t, verified.VerifiedAt)
	assert.Equal(t, f.clock, *verified.VerifiedAt)
	assert.Equal(t, f.clock, verified.UpdatedAt)

	e, ok := f.claims.projection(candidateActor.UserID).Find(f.mowing.ID)
	require.True(t, ok)
	assert.Equal(t, skill.StatusVerified, e.Status)
	assert.Equal(t, verified.VerifiedBy, e.VerifiedBy)

	_, err = f.uc.UpdateClaimStatus(ctx, adminActor, UpdateClaimStatusInput{ClaimID: c.ID, Status: skill.StatusRejected, RejectionReason: "reason"})
	require.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := f.claims.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, skill.StatusVerified, stored.Status)
	assert.Empty(t, stored.RejectionReason)

	assert.Equal(t, 1, f.recorder.counts["verified"])
	assert.Len(t, f.notifier.changed, 1)
}

func TestUpdateClaimStatus_RejectionRequiresReason(t *testing.T) {
	f := newClaimFixture(t)
	ctx := context.Background()

	c, err := f.uc.CreateClaim(ctx, candidateActor, CreateClaimInput{SkillID: f.mowing.ID})
	require.NoError(t, err)

	_, err = f.uc.UpdateClaimStatus(ctx, adminActor, UpdateClaimStatusInput{ClaimID: c.ID, Status: skill.StatusRejected, RejectionReason: "  "})
	require.ErrorIs(t, err, ErrValidation)

	rejected, err := f.uc.UpdateClaimStatus(ctx, adminActor, UpdateClaimStatusInput{ClaimID: c.ID, Status: skill.StatusRejected, RejectionReason: "not enough evidence"})
	require.NoError(t, err)
	assert.Equal(t, skill.StatusRejected, rejected.Status)
	assert.Equal(t, "not enough evidence", rejected.RejectionReason)
	assert.NotNil(t, rejected.RejectedAt)

	e, _ := f.claims.projection(candidateActor.UserID).Find(f.mowing.ID)
	assert.Equal(t, skill.StatusRejected, e.Status)
	assert.Equal(t, "not enough evidence", e.RejectionReason)
}

func TestUpdateClaimStatus_TerminalClaimIgnoresInput(t *testing.T) {
	f := newClaimFixture(t)
	ctx := context.Background()

	c, err := f.uc.CreateClaim(ctx, candidateActor, CreateClaimInput{SkillID: f.mowing.ID})
	require.NoError(t, err)
	_, err = f.uc.UpdateClaimStatus(ctx, adminActor, UpdateClaimStatusInput{ClaimID: c.ID, Status: skill.StatusVerified})
	require.NoError(t, err)

	for _, in := range []UpdateClaimStatusInput{
		{ClaimID: c.ID, Status: skill.StatusRejected},
		{ClaimID: c.ID, Status: skill.StatusRejected, RejectionReason: "late doubt"},
		{ClaimID: c.ID, Status: skill.StatusPending},
	} {
		_, err := f.uc.UpdateClaimStatus(ctx, adminActor, in)
		assert.ErrorIs(t, err, ErrInvalidTransition, "status %q", in.Status)
	}

	stored, _ := f.claims.GetByID(ctx, c.ID)
	assert.Equal(t, skill.StatusVerified, stored.Status)
	assert.Empty(t, stored.RejectionReason)
	assert.Equal(t, 1, f.recorder.counts["verified"])
}

func TestUpdateClaimStatus_Guards(t *testing.T) {
	f := newClaimFixture(t)
	ctx := context.Background()

	c, err := f.uc.CreateClaim(ctx, candidateActor, CreateClaimInput{SkillID: f.mowing.ID})
	require.NoError(t, err)

	_, err = f.uc.UpdateClaimStatus(ctx, candidateActor, UpdateClaimStatusInput{ClaimID: c.ID, Status: skill.StatusVerified})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.uc.UpdateClaimStatus(ctx, adminActor, UpdateClaimStatusInput{ClaimID: c.ID, Status: skill.StatusPending})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.uc.UpdateClaimStatus(ctx, adminActor, UpdateClaimStatusInput{ClaimID: uuid.New(), Status: skill.StatusVerified})
	assert.ErrorIs(t, err, ErrNotFound)

	stored, _ := f.claims.GetByID(ctx, c.ID)
	assert.Equal(t, skill.StatusPending, stored.Status)
}

func TestUpdateClaimStatus_ConcurrentReviewsTransitionOnce(t *testing.T) {
	f := newClaimFixture(t)
	ctx := context.Background()

	c, err := f.uc.CreateClaim(ctx, candidateActor, CreateClaimInput{SkillID: f.mowing.ID})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 6)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st := skill.StatusVerified
			if i%2 == 1 {
				st = skill.StatusRejected
			}
			_, errs[i] = f.uc.UpdateClaimStatus(ctx, adminActor, UpdateClaimStatusInput{ClaimID: c.ID, Status: st, RejectionReason: "blurry"})
		}()
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
	assert.Equal(t, 1, ok)

	stored, _ := f.claims.GetByID(ctx, c.ID)
	e, _ := f.claims.projection(candidateActor.UserID).Find(f.mowing.ID)
	assert.Equal(t, stored.Status, e.Status)
}

func TestListClaims_ScopeAndOrder(t *testing.T) {
	f := newClaimFixture(t)
	ctx := context.Background()
	other := Actor{UserID: uuid.New(), Role: candidateActor.Role}

	first, err := f.uc.CreateClaim(ctx, candidateActor, CreateClaimInput{SkillID: f.mowing.ID})
	require.NoError(t, err)
	f.clock = f.clock.Add(time.Minute)
	second, err := f.uc.CreateClaim(ctx, candidateActor, CreateClaimInput{SkillID: f.pa1.ID, Files: []EvidenceFile{pdf("pa1.pdf")}})
	require.NoError(t, err)
	f.clock = f.clock.Add(time.Minute)
	_, err = f.uc.CreateClaim(ctx, other, CreateClaimInput{SkillID: f.mowing.ID})
	require.NoError(t, err)

	mine, err := f.uc.ListClaims(ctx, candidateActor, nil)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	all, err := f.uc.ListClaims(ctx, adminActor, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending := skill.StatusPending
	queue, err := f.uc.ListClaims(ctx, adminActor, &pending)
	require.NoError(t, err)
	assert.Len(t, queue, 3)

	_, err = f.uc.ListClaims(ctx, Actor{}, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetClaim_ResolvesEvidenceForOwnerAndAdmin(t *testing.T) {
	f := newClaimFixture(t)
	ctx := context.Background()

	c, err := f.uc.CreateClaim(ctx, candidateActor, CreateClaimInput{SkillID: f.mowing.ID, Files: []EvidenceFile{pdf("cert.pdf")}})
	require.NoError(t, err)

	got, err := f.uc.GetClaim(ctx, candidateActor, c.ID)
	require.NoError(t, err)
	require.Len(t, got.Evidence, 1)
	assert.True(t, strings.HasPrefix(got.Evidence[0].DownloadURL, "https://files.test/skill-evidence/"))

	_, err = f.uc.GetClaim(ctx, adminActor, c.ID)
	require.NoError(t, err)

	_, err = f.uc.GetClaim(ctx, Actor{UserID: uuid.New(), Role: candidateActor.Role}, c.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "cert.pdf", sanitizeFileName("cert.pdf"))
	assert.Equal(t, "passwd", sanitizeFileName("../../etc/passwd"))
	assert.Equal(t, "my_card_2024.jpg", sanitizeFileName(`C:\scans\my card 2024.jpg`))
	assert.Equal(t, "file", sanitizeFileName("..."))
}
