package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"turf-hire/internal/domain/skill"
	"turf-hire/internal/domain/user"
	"turf-hire/internal/repository"

	"github.com/google/uuid"
)

var (
	candidateActor = Actor{UserID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Email: "keeper@example.com", Role: user.RoleCandidate}
	adminActor     = Actor{UserID: uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"), Email: "admin@example.com", Role: user.RoleAdmin}
	facilityActor  = Actor{UserID: uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff"), Email: "club@example.com", Role: user.RoleFacility}
)

type fakeSkillRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]skill.Skill
	listN int
	err   error
}

func newFakeSkillRepo(items ...skill.Skill) *fakeSkillRepo {
	r := &fakeSkillRepo{items: map[uuid.UUID]skill.Skill{}}
	for _, s := range items {
		r.items[s.ID] = s
	}
	return r
}

func (r *fakeSkillRepo) List(context.Context) ([]skill.Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listN++
	if r.err != nil {
		return nil, r.err
	}
	out := make([]skill.Skill, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeSkillRepo) GetByID(_ context.Context, id uuid.UUID) (skill.Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return skill.Skill{}, r.err
	}
	s, ok := r.items[id]
	if !ok {
		return skill.Skill{}, repository.ErrNotFound
	}
	return s, nil
}

func (r *fakeSkillRepo) Create(_ context.Context, s skill.Skill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.items {
		if strings.EqualFold(existing.Name, s.Name) {
			return repository.ErrDuplicate
		}
	}
	r.items[s.ID] = s
	return nil
}

func (r *fakeSkillRepo) Update(_ context.Context, s skill.Skill) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[s.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[s.ID] = s
	return nil
}

func (r *fakeSkillRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// fakeClaimRepo keeps claims and projections together the way the
// transactional repository does.
type fakeClaimRepo struct {
	mu          sync.Mutex
	claims      map[uuid.UUID]skill.Claim
	projections map[uuid.UUID]skill.Projection
	createErr   error
}

func newFakeClaimRepo() *fakeClaimRepo {
	return &fakeClaimRepo{claims: map[uuid.UUID]skill.Claim{}, projections: map[uuid.UUID]skill.Projection{}}
}

func (r *fakeClaimRepo) Exists(_ context.Context, userID, skillID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.claims {
		if c.UserID == userID && c.SkillID == skillID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeClaimRepo) Create(_ context.Context, c skill.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.claims {
		if existing.UserID == c.UserID && existing.SkillID == c.SkillID {
			return repository.ErrDuplicate
		}
	}
	r.claims[c.ID] = c
	r.projections[c.UserID] = r.projections[c.UserID].Upsert(c.ProjectionEntry())
	return nil
}

func (r *fakeClaimRepo) GetByID(_ context.Context, id uuid.UUID) (skill.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.claims[id]
	if !ok {
		return skill.Claim{}, repository.ErrNotFound
	}
	c.Evidence = append([]skill.Evidence(nil), c.Evidence...)
	return c, nil
}

func (r *fakeClaimRepo) List(_ context.Context, f repository.ClaimFilter) ([]skill.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]skill.Claim, 0)
	for _, c := range r.claims {
		if f.UserID != nil && c.UserID != *f.UserID {
			continue
		}
		if f.Status != nil && c.Status != *f.Status {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeClaimRepo) Transition(_ context.Context, id uuid.UUID, apply func(c *skill.Claim) error) (skill.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.claims[id]
	if !ok {
		return skill.Claim{}, repository.ErrNotFound
	}
	if err := apply(&c); err != nil {
		return skill.Claim{}, err
	}
	r.claims[id] = c
	r.projections[c.UserID] = r.projections[c.UserID].Upsert(c.ProjectionEntry())
	return c, nil
}

func (r *fakeClaimRepo) projection(userID uuid.UUID) skill.Projection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.projections[userID]
}

func (r *fakeClaimRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.claims)
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  string
	puts    int
	deleted []string
	onPut   func(path string)
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) Put(_ context.Context, path, _ string, data []byte) (string, error) {
	if s.onPut != nil {
		s.onPut(path)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.failOn != "" && strings.HasSuffix(path, s.failOn) {
		return "", errors.New("bucket unavailable")
	}
	loc := "memory://" + path
	s.objects[loc] = data
	return loc, nil
}

func (s *fakeStore) Resolve(_ context.Context, locator string) (string, error) {
	return "https://files.test/" + strings.TrimPrefix(locator, "memory://"), nil
}

func (s *fakeStore) Delete(_ context.Context, locator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, locator)
	s.deleted = append(s.deleted, locator)
	return nil
}

func (s *fakeStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]string
	err      error
	released []string
	stale    int
}

func newFakeLocker() *fakeLocker { return &fakeLocker{held: map[string]string{}} }

func (l *fakeLocker) AcquireLock(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return "", false, l.err
	}
	if _, ok := l.held[key]; ok {
		return "", false, nil
	}
	token := uuid.NewString()
	l.held[key] = token
	return token, true, nil
}

func (l *fakeLocker) ReleaseLock(_ context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] != token {
		l.stale++
		return nil
	}
	delete(l.held, key)
	l.released = append(l.released, key)
	return nil
}

// expire drops key as if its TTL ran out.
func (l *fakeLocker) expire(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
}

type recordingNotifier struct {
	mu      sync.Mutex
	created []skill.Claim
	changed []skill.Claim
}

func (n *recordingNotifier) ClaimCreated(c skill.Claim) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, c)
}

func (n *recordingNotifier) ClaimStatusChanged(c skill.Claim) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, c)
}

type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *countingRecorder) ObserveClaimTransition(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[status]++
}

type fakeCache struct {
	mu      sync.Mutex
	values  map[string][]byte
	deletes int
}

func newFakeCache() *fakeCache { return &fakeCache{values: map[string][]byte{}} }

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = b
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	delete(c.values, key)
	return nil
}
