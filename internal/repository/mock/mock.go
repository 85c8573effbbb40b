package mock

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/format"
	"github.com/codedaily/judge/internal/repository"
)

// ---- ExecutionClient mock ----

var _ repository.ExecutionClient = (*ExecutionClient)(nil)

// ExecutionClient is a test double for repository.ExecutionClient.
// By default every submission is accepted immediately with its expected output.
type ExecutionClient struct {
	mu   sync.Mutex
	next int
	reqs map[domain.ExecutionHandle]*domain.ExecutionRequest

	SubmitFn      func(ctx context.Context, req *domain.ExecutionRequest) (domain.ExecutionHandle, error)
	FetchResultFn func(ctx context.Context, handle domain.ExecutionHandle, req *domain.ExecutionRequest) (*domain.ExecutionResult, error)

	SubmitCalls []*domain.ExecutionRequest
	FetchCalls  []domain.ExecutionHandle
}

func (m *ExecutionClient) Submit(ctx context.Context, req *domain.ExecutionRequest) (domain.ExecutionHandle, error) {
	m.mu.Lock()
	m.SubmitCalls = append(m.SubmitCalls, req)
	m.mu.Unlock()
	if m.SubmitFn != nil {
		h, err := m.SubmitFn(ctx, req)
		if err == nil {
			m.remember(h, req)
		}
		return h, err
	}

	m.mu.Lock()
	m.next++
	h := domain.ExecutionHandle(fmt.Sprintf("token-%d", m.next))
	m.mu.Unlock()
	m.remember(h, req)
	return h, nil
}

func (m *ExecutionClient) FetchResult(ctx context.Context, handle domain.ExecutionHandle) (*domain.ExecutionResult, error) {
	m.mu.Lock()
	m.FetchCalls = append(m.FetchCalls, handle)
	req := m.reqs[handle]
	m.mu.Unlock()
	if m.FetchResultFn != nil {
		return m.FetchResultFn(ctx, handle, req)
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return &domain.ExecutionResult{
		Status: domain.StatusAccepted,
		Stdout: req.ExpectedOutput,
		TimeMs: 10,
	}, nil
}

// SubmitCount returns the number of Submit calls.
func (m *ExecutionClient) SubmitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SubmitCalls)
}

func (m *ExecutionClient) remember(h domain.ExecutionHandle, req *domain.ExecutionRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reqs == nil {
		m.reqs = make(map[domain.ExecutionHandle]*domain.ExecutionRequest)
	}
	m.reqs[h] = req
}

// ---- ProblemRepository mock ----

var _ repository.ProblemRepository = (*ProblemRepository)(nil)

// ProblemRepository is an in-memory problem store.
type ProblemRepository struct {
	mu       sync.RWMutex
	problems map[string][]domain.TestCase

	GetTestCasesFn func(ctx context.Context, problemID string) ([]domain.TestCase, error)
}

// NewProblemRepository creates an empty problem store.
func NewProblemRepository() *ProblemRepository {
	return &ProblemRepository{problems: make(map[string][]domain.TestCase)}
}

// AddProblem registers a problem with its test cases.
func (m *ProblemRepository) AddProblem(problemID string, cases ...domain.TestCase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.problems[problemID] = append([]domain.TestCase(nil), cases...)
}

func (m *ProblemRepository) GetTestCases(ctx context.Context, problemID string) ([]domain.TestCase, error) {
	if m.GetTestCasesFn != nil {
		return m.GetTestCasesFn(ctx, problemID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	cases, ok := m.problems[problemID]
	if !ok {
		return nil, domain.ErrProblemNotFound
	}
	out := append([]domain.TestCase(nil), cases...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// ---- SubmissionRepository mock ----

var _ repository.SubmissionRepository = (*SubmissionRepository)(nil)

// SubmissionRepository is an in-memory append-only submission log.
type SubmissionRepository struct {
	mu   sync.RWMutex
	rows []domain.Submission

	CreateFn     func(ctx context.Context, sub *domain.Submission) error
	ListByUserFn func(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, int, error)
}

// NewSubmissionRepository creates an empty submission log.
func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{}
}

func (m *SubmissionRepository) Create(ctx context.Context, sub *domain.Submission) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, sub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *sub)
	return nil
}

func (m *SubmissionRepository) ListByUser(ctx context.Context, filter domain.SubmissionFilter) ([]domain.Submission, int, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []domain.Submission
	for i := len(m.rows) - 1; i >= 0; i-- {
		s := m.rows[i]
		if s.UserID != filter.UserID {
			continue
		}
		if filter.ProblemID != "" && s.ProblemID != filter.ProblemID {
			continue
		}
		if filter.Result != "" && s.Result != filter.Result {
			continue
		}
		matched = append(matched, s)
	}

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// GetAll returns all stored submissions (for test assertions).
func (m *SubmissionRepository) GetAll() []domain.Submission {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Submission(nil), m.rows...)
}

// ---- StreakRepository mock ----

var _ repository.StreakRepository = (*StreakRepository)(nil)

type streakKey struct {
	userID string
	day    time.Time
}

// StreakRepository is an in-memory streak store. The events set plays the role
// of the UNIQUE (user_id, event_date) constraint.
type StreakRepository struct {
	mu     sync.Mutex
	events map[streakKey]struct{}
	states map[string]*domain.StreakState

	AdvanceFn func(ctx context.Context, userID string, day time.Time) (bool, error)

	AdvanceCalls int
}

// NewStreakRepository creates an empty streak store.
func NewStreakRepository() *StreakRepository {
	return &StreakRepository{
		events: make(map[streakKey]struct{}),
		states: make(map[string]*domain.StreakState),
	}
}

func (m *StreakRepository) Advance(ctx context.Context, userID string, day time.Time) (bool, error) {
	m.mu.Lock()
	m.AdvanceCalls++
	m.mu.Unlock()
	if m.AdvanceFn != nil {
		return m.AdvanceFn(ctx, userID, day)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := streakKey{userID: userID, day: domain.UTCDay(day)}
	if _, exists := m.events[key]; exists {
		return false, nil
	}
	m.events[key] = struct{}{}

	st, ok := m.states[userID]
	if !ok {
		st = &domain.StreakState{UserID: userID}
		m.states[userID] = st
	}
	st.CurrentStreak++
	if st.CurrentStreak > st.LongestStreak {
		st.LongestStreak = st.CurrentStreak
	}
	d := key.day
	st.LastSuccessDate = &d
	return true, nil
}

func (m *StreakRepository) Get(ctx context.Context, userID string) (*domain.StreakState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[userID]
	if !ok {
		return &domain.StreakState{UserID: userID}, nil
	}
	cp := *st
	return &cp, nil
}

// SetState seeds the streak state of a user.
func (m *StreakRepository) SetState(st domain.StreakState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[st.UserID] = &st
}

// ---- IdempotencyStore mock ----

var _ repository.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore is a test double for repository.IdempotencyStore.
type IdempotencyStore struct {
	mu sync.Mutex

	AcquireLockFn func(ctx context.Context, jobID uuid.UUID) (bool, error)
	ReleaseLockFn func(ctx context.Context, jobID uuid.UUID) error

	AcquireCalls []uuid.UUID
	ReleaseCalls []uuid.UUID
}

func (m *IdempotencyStore) AcquireLock(ctx context.Context, jobID uuid.UUID) (bool, error) {
	m.mu.Lock()
	m.AcquireCalls = append(m.AcquireCalls, jobID)
	m.mu.Unlock()
	if m.AcquireLockFn != nil {
		return m.AcquireLockFn(ctx, jobID)
	}
	return true, nil // default: lock acquired
}

func (m *IdempotencyStore) ReleaseLock(ctx context.Context, jobID uuid.UUID) error {
	m.mu.Lock()
	m.ReleaseCalls = append(m.ReleaseCalls, jobID)
	m.mu.Unlock()
	if m.ReleaseLockFn != nil {
		return m.ReleaseLockFn(ctx, jobID)
	}
	return nil
}

// ---- SnapshotStore mock ----

var _ repository.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore keeps every saved snapshot in memory.
type SnapshotStore struct {
	mu      sync.Mutex
	latest  map[uuid.UUID]*repository.JobSnapshot
	History map[uuid.UUID][]format.Result

	SaveFn func(ctx context.Context, jobID uuid.UUID, snap *repository.JobSnapshot) error
}

// NewSnapshotStore creates an empty snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		latest:  make(map[uuid.UUID]*repository.JobSnapshot),
		History: make(map[uuid.UUID][]format.Result),
	}
}

func (m *SnapshotStore) Save(ctx context.Context, jobID uuid.UUID, snap *repository.JobSnapshot) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, jobID, snap)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	res := *snap.Result
	m.latest[jobID] = &repository.JobSnapshot{UserID: snap.UserID, Result: &res}
	m.History[jobID] = append(m.History[jobID], res)
	return nil
}

func (m *SnapshotStore) Get(ctx context.Context, jobID uuid.UUID) (*repository.JobSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.latest[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	res := *snap.Result
	return &repository.JobSnapshot{UserID: snap.UserID, Result: &res}, nil
}

// Snapshots returns every snapshot saved for a job.
func (m *SnapshotStore) Snapshots(jobID uuid.UUID) []format.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]format.Result(nil), m.History[jobID]...)
}
