package integration

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"turf-hire/internal/config"
	"turf-hire/internal/database"
	"turf-hire/internal/database/migration"
	dbpostgres "turf-hire/internal/database/postgres"
	"turf-hire/internal/domain/skill"
	"turf-hire/internal/domain/user"
	"turf-hire/internal/infrastructure/storage"
	"turf-hire/internal/repository"
	"turf-hire/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func connectTestDB(ctx context.Context, t *testing.T) database.DB {
	t.Helper()

	host := os.Getenv("TURFHIRE_TEST_DB_HOST")
	if host == "" {
		t.Skip("set TURFHIRE_TEST_DB_HOST (and _PORT, _NAME, _USER, _PASSWORD) to run Postgres integration tests")
	}
	cfg := config.DatabaseConfig{
		DBHost:     host,
		DBPort:     envOr("TURFHIRE_TEST_DB_PORT", "5432"),
		DBName:     envOr("TURFHIRE_TEST_DB_NAME", "turf_hire_test"),
		DBUser:     envOr("TURFHIRE_TEST_DB_USER", "postgres"),
		DBPassword: os.Getenv("TURFHIRE_TEST_DB_PASSWORD"),
		DBSSLMode:  envOr("TURFHIRE_TEST_DB_SSL_MODE", "disable"),
	}

	db, err := dbpostgres.Connect(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migration.Runner{Logger: zaptest.NewLogger(t)}.Run(ctx, db.SQLDB()))
	return db
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

type world struct {
	db        database.DB
	uc        *usecase.Claims
	metrics   *usecase.VerificationMetrics
	profiles  *repository.PostgresCandidateProfileRepository
	candidate usecase.Actor
	admins    []usecase.Actor
	skill     skill.Skill
}

func newWorld(ctx context.Context, t *testing.T) *world {
	t.Helper()
	db := connectTestDB(ctx, t)
	now := time.Now().UTC()

	users := repository.NewPostgresUserRepository(db)
	mkUser := func(role user.Role) usecase.Actor {
		u := user.User{ID: uuid.New(), Email: uuid.NewString() + "@it.example.com", PasswordHash: "x", Role: role, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, users.Create(ctx, u))
		t.Cleanup(func() { _, _ = db.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, u.ID) })
		return usecase.Actor{UserID: u.ID, Email: u.Email, Role: role}
	}

	skills := repository.NewPostgresSkillRepository(db)
	sk := skill.Skill{
		ID:                uuid.New(),
		Name:              "IT Irrigation " + uuid.NewString()[:8],
		Category:          "Irrigation",
		RequiresEvidence:  true,
		AcceptedFileTypes: []string{".pdf"},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, skills.Create(ctx, sk))
	t.Cleanup(func() { _ = skills.Delete(context.Background(), sk.ID) })

	claims := repository.NewPostgresClaimRepository(db)
	w := &world{
		db:        db,
		profiles:  repository.NewPostgresCandidateProfileRepository(db),
		candidate: mkUser(user.RoleCandidate),
		admins:    []usecase.Actor{mkUser(user.RoleAdmin), mkUser(user.RoleAdmin)},
		skill:     sk,
		metrics:   usecase.NewMetricsUsecase(claims, zaptest.NewLogger(t)),
	}
	w.uc = usecase.NewClaimUsecase(usecase.ClaimDeps{
		Claims: claims,
		Skills: skills,
		Store:  storage.NewMemory(zaptest.NewLogger(t)),
		Logger: zaptest.NewLogger(t),
	})
	return w
}

func pdf() []usecase.EvidenceFile {
	return []usecase.EvidenceFile{{FileName: "certificate.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}}
}

func TestIntegration_ClaimLifecycleKeepsProjectionInSync(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	w := newWorld(ctx, t)

	created, err := w.uc.CreateClaim(ctx, w.candidate, usecase.CreateClaimInput{SkillID: w.skill.ID, Files: pdf()})
	require.NoError(t, err)
	assert.Equal(t, skill.StatusPending, created.Status)

	proj, err := w.profiles.GetProjection(ctx, w.candidate.UserID)
	require.NoError(t, err)
	entry, ok := proj.Find(w.skill.ID)
	require.True(t, ok)
	assert.Equal(t, skill.StatusPending, entry.Status)

	_, err = w.uc.CreateClaim(ctx, w.candidate, usecase.CreateClaimInput{SkillID: w.skill.ID, Files: pdf()})
	require.ErrorIs(t, err, usecase.ErrDuplicateClaim)

	verified, err := w.uc.UpdateClaimStatus(ctx, w.admins[0], usecase.UpdateClaimStatusInput{ClaimID: created.ID, Status: skill.StatusVerified})
	require.NoError(t, err)
	require.NotNil(t, verified.VerifiedBy)
	assert.Equal(t, w.admins[0].UserID, *verified.VerifiedBy)

	proj, err = w.profiles.GetProjection(ctx, w.candidate.UserID)
	require.NoError(t, err)
	require.Len(t, proj, 1)
	assert.Equal(t, skill.StatusVerified, proj[0].Status)
	require.NotNil(t, proj[0].VerifiedAt)

	_, err = w.uc.UpdateClaimStatus(ctx, w.admins[1], usecase.UpdateClaimStatusInput{ClaimID: created.ID, Status: skill.StatusRejected, RejectionReason: "late"})
	require.ErrorIs(t, err, usecase.ErrInvalidTransition)

	got, err := w.uc.GetClaim(ctx, w.candidate, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Evidence, 1)
	assert.True(t, strings.HasPrefix(got.Evidence[0].DownloadURL, storage.MemoryDownloadPath+"skill-evidence/"+w.candidate.UserID.String()+"/"))

	m, err := w.metrics.ComputeMetrics(ctx, w.admins[0])
	require.NoError(t, err)
	assert.GreaterOrEqual(t, m.VerificationsBySkill[w.skill.ID], 1)
}

func TestIntegration_ConcurrentReviewsCommitOnce(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	w := newWorld(ctx, t)

	created, err := w.uc.CreateClaim(ctx, w.candidate, usecase.CreateClaimInput{SkillID: w.skill.ID, Files: pdf()})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, len(w.admins))
	for i, admin := range w.admins {
		wg.Add(1)
		go func(i int, admin usecase.Actor) {
			defer wg.Done()
			in := usecase.UpdateClaimStatusInput{ClaimID: created.ID, Status: skill.StatusVerified}
			if i%2 == 1 {
				in = usecase.UpdateClaimStatusInput{ClaimID: created.ID, Status: skill.StatusRejected, RejectionReason: "unreadable"}
			}
			_, errs[i] = w.uc.UpdateClaimStatus(ctx, admin, in)
		}(i, admin)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, usecase.ErrInvalidTransition):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, len(w.admins)-1, conflicts)

	final, err := w.uc.GetClaim(ctx, w.admins[0], created.ID)
	require.NoError(t, err)
	proj, err := w.profiles.GetProjection(ctx, w.candidate.UserID)
	require.NoError(t, err)
	entry, found := proj.Find(w.skill.ID)
	require.True(t, found)
	assert.Equal(t, final.Status, entry.Status)
}
