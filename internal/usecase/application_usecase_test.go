package usecase

import (
	"context"
	"sync"
	"testing"

	"turf-hire/internal/domain/job"
	"turf-hire/internal/domain/profile"
	"turf-hire/internal/domain/skill"
	"turf-hire/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]job.Listing
}

func newFakeJobRepo(items ...job.Listing) *fakeJobRepo {
	r := &fakeJobRepo{items: map[uuid.UUID]job.Listing{}}
	for _, l := range items {
		r.items[l.ID] = l
	}
	return r
}

func (r *fakeJobRepo) Create(_ context.Context, l job.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[l.ID] = l
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id uuid.UUID) (job.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.items[id]
	if !ok {
		return job.Listing{}, repository.ErrNotFound
	}
	return l, nil
}

func (r *fakeJobRepo) List(_ context.Context, f repository.JobFilter) ([]job.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]job.Listing, 0)
	for _, l := range r.items {
		if f.OwnerID != nil && l.UserID != *f.OwnerID {
			continue
		}
		if f.Status != nil && l.Status != *f.Status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r *fakeJobRepo) Update(_ context.Context, l job.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[l.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[l.ID] = l
	return nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeJobRepo) bump(id uuid.UUID, delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.items[id]
	l.ApplicationCount += delta
	r.items[id] = l
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	jobs *fakeJobRepo
	apps map[uuid.UUID]job.Application
}

func newFakeApplicationRepo(jobs *fakeJobRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{jobs: jobs, apps: map[uuid.UUID]job.Application{}}
}

func (r *fakeApplicationRepo) Create(_ context.Context, a job.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.JobID == a.JobID && existing.ApplicantID == a.ApplicantID {
			return repository.ErrDuplicate
		}
	}
	r.apps[a.ID] = a
	r.jobs.bump(a.JobID, 1)
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id uuid.UUID) (job.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return job.Application{}, repository.ErrNotFound
	}
	return a, nil
}

func (r *fakeApplicationRepo) filter(keep func(job.Application) bool) []job.Application {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]job.Application, 0)
	for _, a := range r.apps {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (r *fakeApplicationRepo) ListByApplicant(_ context.Context, id uuid.UUID) ([]job.Application, error) {
	return r.filter(func(a job.Application) bool { return a.ApplicantID == id }), nil
}

func (r *fakeApplicationRepo) ListByJob(_ context.Context, id uuid.UUID) ([]job.Application, error) {
	return r.filter(func(a job.Application) bool { return a.JobID == id }), nil
}

func (r *fakeApplicationRepo) ListByFacility(_ context.Context, id uuid.UUID) ([]job.Application, error) {
	return r.filter(func(a job.Application) bool { return a.FacilityProfileID == id }), nil
}

func (r *fakeApplicationRepo) UpdateStatus(_ context.Context, a job.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[a.ID]; !ok {
		return repository.ErrNotFound
	}
	r.apps[a.ID] = a
	return nil
}

func (r *fakeApplicationRepo) Delete(_ context.Context, a job.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[a.ID]; !ok {
		return repository.ErrNotFound
	}
	delete(r.apps, a.ID)
	r.jobs.bump(a.JobID, -1)
	return nil
}

type fakeCandidateRepo struct {
	mu         sync.Mutex
	profiles   map[uuid.UUID]profile.Candidate
	singleRead int
	batchRead  int
}

func newFakeCandidateRepo() *fakeCandidateRepo {
	return &fakeCandidateRepo{profiles: map[uuid.UUID]profile.Candidate{}}
}

func (r *fakeCandidateRepo) Get(_ context.Context, id uuid.UUID) (profile.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return profile.Candidate{}, repository.ErrNotFound
	}
	return p, nil
}

func (r *fakeCandidateRepo) Upsert(_ context.Context, p profile.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.profiles[p.UserID]
	p.Skills = existing.Skills
	r.profiles[p.UserID] = p
	return nil
}

func (r *fakeCandidateRepo) GetProjection(_ context.Context, id uuid.UUID) (skill.Projection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.singleRead++
	return r.profiles[id].Skills, nil
}

func (r *fakeCandidateRepo) GetProjections(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]skill.Projection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchRead++
	out := make(map[uuid.UUID]skill.Projection, len(ids))
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out[id] = p.Skills
		}
	}
	return out, nil
}

type fakeFacilityRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]profile.Facility
}

func newFakeFacilityRepo(items ...profile.Facility) *fakeFacilityRepo {
	r := &fakeFacilityRepo{profiles: map[uuid.UUID]profile.Facility{}}
	for _, p := range items {
		r.profiles[p.UserID] = p
	}
	return r
}

func (r *fakeFacilityRepo) Get(_ context.Context, id uuid.UUID) (profile.Facility, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return profile.Facility{}, repository.ErrNotFound
	}
	return p, nil
}

func (r *fakeFacilityRepo) Upsert(_ context.Context, p profile.Facility) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = p
	return nil
}

func openJob(status job.Status) job.Listing {
	return job.Listing{
		ID:                uuid.New(),
		UserID:            facilityActor.UserID,
		FacilityProfileID: facilityActor.UserID,
		Title:             "Assistant Greenkeeper",
		Type:              job.TypeFullTime,
		Status:            status,
	}
}

func TestApply_OnlyOpenJobsOncePerCandidate(t *testing.T) {
	open := openJob(job.StatusOpen)
	draft := openJob(job.StatusDraft)
	jobs := newFakeJobRepo(open, draft)
	candidates := newFakeCandidateRepo()
	uc := NewApplicationUsecase(newFakeApplicationRepo(jobs), jobs, candidates, nil)
	ctx := context.Background()

	_, err := uc.Apply(ctx, candidateActor, ApplyInput{JobID: draft.ID})
	require.ErrorIs(t, err, ErrValidation)

	a, err := uc.Apply(ctx, candidateActor, ApplyInput{JobID: open.ID, CoverLetter: " keen "})
	require.NoError(t, err)
	assert.Equal(t, job.ApplicationPending, a.Status)
	assert.Equal(t, "keen", a.CoverLetter)
	assert.Equal(t, facilityActor.UserID, a.FacilityProfileID)

	_, err = uc.Apply(ctx, candidateActor, ApplyInput{JobID: open.ID})
	require.ErrorIs(t, err, ErrDuplicateApplication)

	l, _ := jobs.GetByID(ctx, open.ID)
	assert.Equal(t, 1, l.ApplicationCount)

	_, err = uc.Apply(ctx, facilityActor, ApplyInput{JobID: open.ID})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = uc.Apply(ctx, candidateActor, ApplyInput{JobID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForJob_CarriesApplicantProjection(t *testing.T) {
	open := openJob(job.StatusOpen)
	jobs := newFakeJobRepo(open)
	candidates := newFakeCandidateRepo()
	skillID := uuid.New()
	candidates.profiles[candidateActor.UserID] = profile.Candidate{
		UserID: candidateActor.UserID,
		Skills: skill.Projection{{SkillID: skillID, Status: skill.StatusVerified}},
	}
	uc := NewApplicationUsecase(newFakeApplicationRepo(jobs), jobs, candidates, nil)
	ctx := context.Background()

	_, err := uc.Apply(ctx, candidateActor, ApplyInput{JobID: open.ID})
	require.NoError(t, err)

	applicants, err := uc.ListForJob(ctx, facilityActor, open.ID)
	require.NoError(t, err)
	require.Len(t, applicants, 1)
	e, ok := applicants[0].Skills.Find(skillID)
	require.True(t, ok)
	assert.Equal(t, skill.StatusVerified, e.Status)
	assert.Equal(t, 100, applicants[0].Match.Score)

	otherFacility := Actor{UserID: uuid.New(), Role: facilityActor.Role}
	_, err = uc.ListForJob(ctx, otherFacility, open.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListForJob_RanksByVerifiedCoverage(t *testing.T) {
	mowing, irrigation := uuid.New(), uuid.New()
	open := openJob(job.StatusOpen)
	open.RequiredSkills = []uuid.UUID{mowing, irrigation}
	jobs := newFakeJobRepo(open)
	candidates := newFakeCandidateRepo()

	partial := Actor{UserID: uuid.New(), Role: candidateActor.Role}
	full := Actor{UserID: uuid.New(), Role: candidateActor.Role}
	candidates.profiles[partial.UserID] = profile.Candidate{
		UserID: partial.UserID,
		Skills: skill.Projection{{SkillID: mowing, Status: skill.StatusVerified}, {SkillID: irrigation, Status: skill.StatusPending}},
	}
	candidates.profiles[full.UserID] = profile.Candidate{
		UserID: full.UserID,
		Skills: skill.Projection{{SkillID: mowing, Status: skill.StatusVerified}, {SkillID: irrigation, Status: skill.StatusVerified}},
	}
	uc := NewApplicationUsecase(newFakeApplicationRepo(jobs), jobs, candidates, nil)
	ctx := context.Background()

	_, err := uc.Apply(ctx, partial, ApplyInput{JobID: open.ID})
	require.NoError(t, err)
	_, err = uc.Apply(ctx, full, ApplyInput{JobID: open.ID})
	require.NoError(t, err)

	applicants, err := uc.ListForJob(ctx, facilityActor, open.ID)
	require.NoError(t, err)
	require.Len(t, applicants, 2)
	assert.Equal(t, full.UserID, applicants[0].Application.ApplicantID)
	assert.Equal(t, 100, applicants[0].Match.Score)
	assert.Equal(t, 50, applicants[1].Match.Score)
	assert.Equal(t, []uuid.UUID{irrigation}, applicants[1].Match.Pending)
}

func TestListForJob_LoadsSkillsInOneRead(t *testing.T) {
	open := openJob(job.StatusOpen)
	open.RequiredSkills = []uuid.UUID{uuid.New()}
	jobs := newFakeJobRepo(open)
	candidates := newFakeCandidateRepo()
	uc := NewApplicationUsecase(newFakeApplicationRepo(jobs), jobs, candidates, nil)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := uc.Apply(ctx, Actor{UserID: uuid.New(), Role: candidateActor.Role}, ApplyInput{JobID: open.ID})
		require.NoError(t, err)
	}

	applicants, err := uc.ListForJob(ctx, facilityActor, open.ID)
	require.NoError(t, err)
	require.Len(t, applicants, 4)
	assert.Equal(t, 1, candidates.batchRead)
	assert.Zero(t, candidates.singleRead)
	for _, a := range applicants {
		assert.NotNil(t, a.Skills)
		assert.Equal(t, open.RequiredSkills, a.Match.Missing)
	}
}

func TestReviewAndWithdraw(t *testing.T) {
	open := openJob(job.StatusOpen)
	jobs := newFakeJobRepo(open)
	uc := NewApplicationUsecase(newFakeApplicationRepo(jobs), jobs, newFakeCandidateRepo(), nil)
	ctx := context.Background()

	a, err := uc.Apply(ctx, candidateActor, ApplyInput{JobID: open.ID})
	require.NoError(t, err)

	_, err = uc.Review(ctx, facilityActor, ReviewApplicationInput{ApplicationID: a.ID, Status: "hired"})
	assert.ErrorIs(t, err, ErrValidation)

	reviewed, err := uc.Review(ctx, facilityActor, ReviewApplicationInput{ApplicationID: a.ID, Status: job.ApplicationAccepted, Notes: "start monday"})
	require.NoError(t, err)
	assert.Equal(t, job.ApplicationAccepted, reviewed.Status)

	mine, err := uc.ListMine(ctx, facilityActor)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	assert.ErrorIs(t, uc.Withdraw(ctx, Actor{UserID: uuid.New(), Role: candidateActor.Role}, a.ID), ErrForbidden)
	require.NoError(t, uc.Withdraw(ctx, candidateActor, a.ID))

	l, _ := jobs.GetByID(ctx, open.ID)
	assert.Equal(t, 0, l.ApplicationCount)
}
