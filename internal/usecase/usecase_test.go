package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/codedaily/judge/internal/domain"
	"github.com/codedaily/judge/internal/format"
	"github.com/codedaily/judge/internal/poller"
	mockpub "github.com/codedaily/judge/internal/publisher/mock"
	"github.com/codedaily/judge/internal/repository"
	"github.com/codedaily/judge/internal/repository/mock"
	"github.com/codedaily/judge/internal/verdict"
)

const (
	testUser    = "user-1"
	testProblem = "problem-1"
)

type fixture struct {
	client   *mock.ExecutionClient
	problems *mock.ProblemRepository
	subs     *mock.SubmissionRepository
	streaks  *mock.StreakRepository
	runner   *verdict.Aggregator
	recorder *RecordSubmissionUsecase
	submit   *SubmitCodeUsecase
	run      *RunCodeUsecase
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		client:   &mock.ExecutionClient{},
		problems: mock.NewProblemRepository(),
		subs:     mock.NewSubmissionRepository(),
		streaks:  mock.NewStreakRepository(),
		now:      time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
	}
	logger := zap.NewNop()
	noSleep := func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	p := poller.New(f.client, poller.DefaultMaxAttempts, poller.DefaultInterval, logger, poller.WithSleeper(noSleep))
	f.runner = verdict.NewAggregator(f.client, p, logger)
	f.recorder = NewRecordSubmissionUsecase(f.subs, f.streaks, logger, WithClock(func() time.Time { return f.now }))
	f.submit = NewSubmitCodeUsecase(f.problems, f.runner, f.recorder, logger)
	f.run = NewRunCodeUsecase(f.problems, f.runner, 1, logger)

	f.problems.AddProblem(testProblem,
		domain.TestCase{ID: "s1", Kind: domain.TestCaseSample, Input: "1 2", ExpectedOutput: "3", Order: 1},
		domain.TestCase{ID: "s2", Kind: domain.TestCaseSample, Input: "2 2", ExpectedOutput: "4", Order: 2},
		domain.TestCase{ID: "h1", Kind: domain.TestCaseHidden, Input: "10 5", ExpectedOutput: "15", Order: 3},
		domain.TestCase{ID: "h2", Kind: domain.TestCaseHidden, Input: "-1 1", ExpectedOutput: "0", Order: 4},
	)
	return f
}

// failOn makes every execution with the given stdin return wrong answer.
func (f *fixture) failOn(stdin string) {
	f.client.FetchResultFn = func(ctx context.Context, h domain.ExecutionHandle, req *domain.ExecutionRequest) (*domain.ExecutionResult, error) {
		if req.Stdin == stdin {
			return &domain.ExecutionResult{Status: domain.StatusWrongAnswer, Stdout: "wrong", TimeMs: 5}, nil
		}
		return &domain.ExecutionResult{Status: domain.StatusAccepted, Stdout: req.ExpectedOutput, TimeMs: 5}, nil
	}
}

func submitReq(problemID string) *domain.SubmitRequest {
	return &domain.SubmitRequest{
		UserID:    testUser,
		ProblemID: problemID,
		Language:  domain.LangPython,
		Code:      "a, b = map(int, input().split()); print(a + b)",
	}
}

func TestSubmitCode_AllPassAccepted(t *testing.T) {
	f := newFixture(t)

	res, err := f.submit.Execute(context.Background(), submitReq(testProblem))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != format.StatusAccepted {
		t.Errorf("expected accepted, got %s", res.Status)
	}
	if len(res.TestCaseResults) != 4 {
		t.Fatalf("expected 4 results, got %d", len(res.TestCaseResults))
	}
	for i, tc := range res.TestCaseResults {
		if !tc.Passed {
			t.Errorf("result %d: expected passed", i)
		}
	}
	if res.SubmissionID == nil {
		t.Fatal("expected submission id")
	}

	rows := f.subs.GetAll()
	if len(rows) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(rows))
	}
	if rows[0].Result != domain.ResultAccepted || rows[0].Score != 100 {
		t.Errorf("expected ACCEPTED/100, got %s/%d", rows[0].Result, rows[0].Score)
	}
	if rows[0].ID != *res.SubmissionID {
		t.Error("expected returned id to match stored row")
	}
	if rows[0].Output != "3\n4\n15\n0" {
		t.Errorf("expected joined output, got %q", rows[0].Output)
	}
	if rows[0].RuntimeMs != 40 {
		t.Errorf("expected runtime 40, got %d", rows[0].RuntimeMs)
	}
}

func TestSubmitCode_OneHiddenFailure(t *testing.T) {
	f := newFixture(t)
	f.failOn("10 5")

	res, err := f.submit.Execute(context.Background(), submitReq(testProblem))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != format.StatusWrongAnswer {
		t.Errorf("expected wrong_answer, got %s", res.Status)
	}

	failed := 0
	for _, tc := range res.TestCaseResults {
		if !tc.Passed {
			failed++
			if !tc.Hidden || tc.Input != "" || tc.Expected != "" {
				t.Errorf("expected hidden case to be redacted, got %+v", tc)
			}
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly 1 failed outcome, got %d", failed)
	}

	rows := f.subs.GetAll()
	if len(rows) != 1 || rows[0].Result != domain.ResultWrongAnswer || rows[0].Score != 0 {
		t.Fatalf("expected one WRONG_ANSWER/0 row, got %+v", rows)
	}
	if f.streaks.AdvanceCalls != 0 {
		t.Error("rejected submissions must not touch the streak")
	}
}

func TestSubmitCode_PollTimeoutOnOneCase(t *testing.T) {
	f := newFixture(t)
	f.client.FetchResultFn = func(ctx context.Context, h domain.ExecutionHandle, req *domain.ExecutionRequest) (*domain.ExecutionResult, error) {
		if req.Stdin == "2 2" {
			return &domain.ExecutionResult{Status: domain.StatusProcessing}, nil
		}
		return &domain.ExecutionResult{Status: domain.StatusAccepted, Stdout: req.ExpectedOutput}, nil
	}

	res, err := f.submit.Execute(context.Background(), submitReq(testProblem))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.client.SubmitCount() != 4 {
		t.Errorf("expected remaining cases to execute, got %d submissions", f.client.SubmitCount())
	}
	if res.Status != format.StatusWrongAnswer {
		t.Errorf("expected wrong_answer, got %s", res.Status)
	}
	timedOut := res.TestCaseResults[1]
	if timedOut.Passed || !strings.Contains(timedOut.Output, domain.ErrPollTimeout.Error()) {
		t.Errorf("expected timeout message as output, got %+v", timedOut)
	}
}

func TestSubmitCode_StreakAdvancesOncePerDay(t *testing.T) {
	f := newFixture(t)
	f.problems.AddProblem("problem-2",
		domain.TestCase{ID: "p2", Kind: domain.TestCaseHidden, Input: "x", ExpectedOutput: "x", Order: 1},
	)

	for _, pid := range []string{testProblem, "problem-2"} {
		if _, err := f.submit.Execute(context.Background(), submitReq(pid)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	st, _ := f.streaks.Get(context.Background(), testUser)
	if st.CurrentStreak != 1 || st.LongestStreak != 1 {
		t.Errorf("expected streak 1/1, got %d/%d", st.CurrentStreak, st.LongestStreak)
	}
	if st.LastSuccessDate == nil || !st.LastSuccessDate.Equal(domain.UTCDay(f.now)) {
		t.Errorf("expected last success at UTC midnight, got %v", st.LastSuccessDate)
	}

	// Next day advances again.
	f.now = f.now.Add(24 * time.Hour)
	if _, err := f.submit.Execute(context.Background(), submitReq(testProblem)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, _ = f.streaks.Get(context.Background(), testUser)
	if st.CurrentStreak != 2 || st.LongestStreak != 2 {
		t.Errorf("expected streak 2/2, got %d/%d", st.CurrentStreak, st.LongestStreak)
	}
}

func TestRunCode_NeverPersists(t *testing.T) {
	f := newFixture(t)

	res, err := f.run.Execute(context.Background(), &domain.RunRequest{
		UserID: testUser, ProblemID: testProblem, Language: domain.LangPython, Code: "print(3)",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != format.StatusAccepted {
		t.Errorf("expected accepted, got %s", res.Status)
	}
	if len(res.TestCaseResults) != 1 || res.TestCaseResults[0].Input != "1 2" {
		t.Errorf("expected only the first sample case, got %+v", res.TestCaseResults)
	}

	f.failOn("1 2")
	if _, err := f.run.Execute(context.Background(), &domain.RunRequest{
		UserID: testUser, ProblemID: testProblem, Language: domain.LangPython, Code: "print(0)",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := len(f.subs.GetAll()); n != 0 {
		t.Errorf("run must not create submissions, got %d", n)
	}
	if f.streaks.AdvanceCalls != 0 {
		t.Error("run must not touch the streak")
	}
}

func TestRunCode_RequiresUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.run.Execute(context.Background(), &domain.RunRequest{
		ProblemID: testProblem, Language: domain.LangPython, Code: "print(3)",
	})
	if !errors.Is(err, domain.ErrMissingUser) {
		t.Fatalf("expected ErrMissingUser, got %v", err)
	}
	if f.client.SubmitCount() != 0 {
		t.Error("anonymous runs must not reach the execution service")
	}
}

func TestRunCode_CompileErrorReportsError(t *testing.T) {
	f := newFixture(t)
	f.client.FetchResultFn = func(ctx context.Context, h domain.ExecutionHandle, req *domain.ExecutionRequest) (*domain.ExecutionResult, error) {
		return &domain.ExecutionResult{Status: domain.StatusCompileError, CompileOutput: "main.cpp:1: error"}, nil
	}

	res, err := f.run.Execute(context.Background(), &domain.RunRequest{
		UserID: testUser, ProblemID: testProblem, Language: domain.LangCpp, Code: "int main( {",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != format.StatusError {
		t.Errorf("expected error, got %s", res.Status)
	}
	if res.TestCaseResults[0].Output != "main.cpp:1: error" {
		t.Errorf("expected compile output, got %q", res.TestCaseResults[0].Output)
	}
}

func TestRunCode_NoSamplesRunsEmptyInput(t *testing.T) {
	f := newFixture(t)
	f.problems.AddProblem("hidden-only",
		domain.TestCase{ID: "h", Kind: domain.TestCaseHidden, Input: "secret", ExpectedOutput: "x", Order: 1},
	)

	if _, err := f.run.Execute(context.Background(), &domain.RunRequest{
		UserID: testUser, ProblemID: "hidden-only", Language: domain.LangGo, Code: "package main",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.client.SubmitCount() != 1 {
		t.Fatalf("expected 1 execution, got %d", f.client.SubmitCount())
	}
	req := f.client.SubmitCalls[0]
	if req.Stdin != "" || req.ExpectedOutput != "" {
		t.Errorf("expected empty stdin and expected output, got %+v", req)
	}
}

func TestRunCode_SampleLimitZeroRunsAll(t *testing.T) {
	f := newFixture(t)
	run := NewRunCodeUsecase(f.problems, f.runner, 0, zap.NewNop())

	res, err := run.Execute(context.Background(), &domain.RunRequest{
		UserID: testUser, ProblemID: testProblem, Language: domain.LangJavaScript, Code: "console.log(1)",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.TestCaseResults) != 2 {
		t.Errorf("expected both sample cases, got %d", len(res.TestCaseResults))
	}
}

func TestValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  *domain.SubmitRequest
		want error
	}{
		{"unknown language", &domain.SubmitRequest{UserID: testUser, ProblemID: testProblem, Language: "cobol", Code: "x"}, domain.ErrInvalidLanguage},
		{"blank code", &domain.SubmitRequest{UserID: testUser, ProblemID: testProblem, Language: domain.LangPython, Code: "  \n"}, domain.ErrEmptySourceCode},
		{"too large", &domain.SubmitRequest{UserID: testUser, ProblemID: testProblem, Language: domain.LangPython, Code: strings.Repeat("a", maxSourceCodeSize+1)}, domain.ErrPayloadTooLarge},
		{"no user", &domain.SubmitRequest{ProblemID: testProblem, Language: domain.LangPython, Code: "x"}, domain.ErrMissingUser},
		{"unknown problem", &domain.SubmitRequest{UserID: testUser, ProblemID: "nope", Language: domain.LangPython, Code: "x"}, domain.ErrProblemNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.submit.Execute(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if f.client.SubmitCount() != 0 {
		t.Error("invalid requests must not reach the execution service")
	}
	if len(f.subs.GetAll()) != 0 {
		t.Error("invalid requests must not be persisted")
	}
}

func TestSubmitCode_LanguageIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	req := submitReq(testProblem)
	req.Language = "Python"

	if _, err := f.submit.Execute(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows := f.subs.GetAll(); rows[0].Language != domain.LangPython {
		t.Errorf("expected canonical language, got %s", rows[0].Language)
	}
}

func TestSubmitCode_NoTestCasesRecordsError(t *testing.T) {
	f := newFixture(t)
	f.problems.AddProblem("empty")

	res, err := f.submit.Execute(context.Background(), submitReq("empty"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != format.StatusError {
		t.Errorf("expected error, got %s", res.Status)
	}
	rows := f.subs.GetAll()
	if len(rows) != 1 || rows[0].Result != domain.ResultError || rows[0].Output != domain.ErrNoTestCases.Error() {
		t.Errorf("expected one ERROR row, got %+v", rows)
	}
}

func TestSubmitCode_PersistenceFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.subs.CreateFn = func(ctx context.Context, sub *domain.Submission) error {
		return errors.New("connection refused")
	}

	_, err := f.submit.Execute(context.Background(), submitReq(testProblem))
	if !errors.Is(err, domain.ErrPersistenceFailure) {
		t.Fatalf("expected ErrPersistenceFailure, got %v", err)
	}
	if f.streaks.AdvanceCalls != 0 {
		t.Error("streak must not advance when the submission was not stored")
	}
}

func TestSubmitCode_StreakFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.streaks.AdvanceFn = func(ctx context.Context, userID string, day time.Time) (bool, error) {
		return false, errors.New("deadlock detected")
	}

	res, err := f.submit.Execute(context.Background(), submitReq(testProblem))
	if err != nil {
		t.Fatalf("streak failure must not fail the submit: %v", err)
	}
	if res.Status != format.StatusAccepted {
		t.Errorf("expected accepted, got %s", res.Status)
	}
	if len(f.subs.GetAll()) != 1 {
		t.Error("expected submission to be stored")
	}
}

func TestSubmitCode_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.submit.Execute(ctx, submitReq(testProblem)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(f.subs.GetAll()) != 0 {
		t.Error("abandoned submissions must not be stored")
	}
}

func TestListSubmissions(t *testing.T) {
	f := newFixture(t)
	list := NewListSubmissionsUsecase(f.subs, zap.NewNop())

	for i := 0; i < 3; i++ {
		if _, err := f.submit.Execute(context.Background(), submitReq(testProblem)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	f.failOn("1 2")
	if _, err := f.submit.Execute(context.Background(), submitReq(testProblem)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page, err := list.Execute(context.Background(), domain.SubmissionFilter{UserID: testUser, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 4 || page.Pages != 2 || len(page.Submissions) != 2 || page.Page != 1 {
		t.Errorf("unexpected page %+v", page)
	}
	if page.Submissions[0].Result != domain.ResultWrongAnswer {
		t.Error("expected newest submission first")
	}

	page, err = list.Execute(context.Background(), domain.SubmissionFilter{UserID: testUser, Result: domain.ResultAccepted})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 3 || page.Limit != defaultPageLimit {
		t.Errorf("unexpected filtered page %+v", page)
	}

	page, err = list.Execute(context.Background(), domain.SubmissionFilter{UserID: testUser, Result: "ALL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 4 {
		t.Errorf("expected ALL to disable the result filter, got total %d", page.Total)
	}

	if _, err := list.Execute(context.Background(), domain.SubmissionFilter{UserID: testUser, Result: "MAYBE"}); !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}

	page, err = list.Execute(context.Background(), domain.SubmissionFilter{UserID: testUser, Page: math.MaxInt, Limit: maxPageLimit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != maxPage || len(page.Submissions) != 0 {
		t.Errorf("expected clamped empty page, got page=%d len=%d", page.Page, len(page.Submissions))
	}
	if _, err := list.Execute(context.Background(), domain.SubmissionFilter{}); !errors.Is(err, domain.ErrMissingUser) {
		t.Errorf("expected ErrMissingUser, got %v", err)
	}
}

func TestGetStreak(t *testing.T) {
	streaks := mock.NewStreakRepository()
	streaks.SetState(domain.StreakState{UserID: testUser, CurrentStreak: 4, LongestStreak: 9})
	uc := NewGetStreakUsecase(streaks)

	st, err := uc.Execute(context.Background(), testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.CurrentStreak != 4 || st.LongestStreak != 9 {
		t.Errorf("unexpected streak %+v", st)
	}
	if _, err := uc.Execute(context.Background(), ""); !errors.Is(err, domain.ErrMissingUser) {
		t.Errorf("expected ErrMissingUser, got %v", err)
	}
}

func TestEnqueueJudgeJob(t *testing.T) {
	f := newFixture(t)
	pub := mockpub.NewPublisher()
	snaps := mock.NewSnapshotStore()
	uc := NewEnqueueJudgeJobUsecase(f.problems, pub, snaps, zap.NewNop())

	resp, err := uc.Execute(context.Background(), submitReq(testProblem))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != string(format.StatusRunning) {
		t.Errorf("expected running, got %s", resp.Status)
	}
	if len(pub.Published) != 1 || pub.Published[0].JobID != resp.JobID {
		t.Fatalf("expected job to be published, got %+v", pub.Published)
	}
	snap, err := snaps.Get(context.Background(), resp.JobID)
	if err != nil {
		t.Fatalf("expected initial snapshot: %v", err)
	}
	if snap.UserID != testUser {
		t.Errorf("expected snapshot owned by %s, got %q", testUser, snap.UserID)
	}
	if snap.Result.Status != format.StatusRunning || snap.Result.Total != 4 {
		t.Errorf("unexpected initial snapshot %+v", snap.Result)
	}
}

func TestEnqueueJudgeJob_PublishFailure(t *testing.T) {
	f := newFixture(t)
	pub := mockpub.NewPublisher()
	pub.PublishFn = func(ctx context.Context, job *domain.JudgeJob) error {
		return errors.New("broker down")
	}
	snaps := mock.NewSnapshotStore()
	uc := NewEnqueueJudgeJobUsecase(f.problems, pub, snaps, zap.NewNop())

	if _, err := uc.Execute(context.Background(), submitReq(testProblem)); !errors.Is(err, domain.ErrPublishFailed) {
		t.Fatalf("expected ErrPublishFailed, got %v", err)
	}
}

func TestProcessJudgeJob(t *testing.T) {
	f := newFixture(t)
	locks := &mock.IdempotencyStore{}
	snaps := mock.NewSnapshotStore()
	uc := NewProcessJudgeJobUsecase(locks, snaps, f.submit, zap.NewNop())

	job := &domain.JudgeJob{
		JobID:     uuid.New(),
		UserID:    testUser,
		ProblemID: testProblem,
		Language:  domain.LangPython,
		Code:      "print(1)",
	}
	dup, err := uc.Execute(context.Background(), job)
	if err != nil || dup {
		t.Fatalf("expected success, got dup=%v err=%v", dup, err)
	}

	history := snaps.Snapshots(job.JobID)
	if len(history) != 5 {
		t.Fatalf("expected 4 progress snapshots and a final one, got %d", len(history))
	}
	for i, s := range history[:4] {
		if s.Status != format.StatusRunning || s.Done != i+1 || s.Total != 4 {
			t.Errorf("snapshot %d: unexpected %+v", i, s)
		}
	}
	final := history[4]
	if final.Status != format.StatusAccepted || final.SubmissionID == nil {
		t.Errorf("unexpected final snapshot %+v", final)
	}
	if len(locks.ReleaseCalls) != 1 {
		t.Errorf("expected lock release, got %d", len(locks.ReleaseCalls))
	}
	if len(f.subs.GetAll()) != 1 {
		t.Error("expected async submit to be recorded")
	}
}

func TestProcessJudgeJob_Duplicate(t *testing.T) {
	f := newFixture(t)
	locks := &mock.IdempotencyStore{
		AcquireLockFn: func(ctx context.Context, jobID uuid.UUID) (bool, error) { return false, nil },
	}
	uc := NewProcessJudgeJobUsecase(locks, mock.NewSnapshotStore(), f.submit, zap.NewNop())

	dup, err := uc.Execute(context.Background(), &domain.JudgeJob{JobID: uuid.New(), UserID: testUser, ProblemID: testProblem, Language: domain.LangPython, Code: "x"})
	if err != nil || !dup {
		t.Fatalf("expected duplicate, got dup=%v err=%v", dup, err)
	}
	if f.client.SubmitCount() != 0 {
		t.Error("duplicates must not be judged")
	}
}

func TestProcessJudgeJob_FailureStoresErrorSnapshot(t *testing.T) {
	f := newFixture(t)
	snaps := mock.NewSnapshotStore()
	uc := NewProcessJudgeJobUsecase(&mock.IdempotencyStore{}, snaps, f.submit, zap.NewNop())

	job := &domain.JudgeJob{JobID: uuid.New(), UserID: testUser, ProblemID: "missing", Language: domain.LangPython, Code: "x"}
	if _, err := uc.Execute(context.Background(), job); !errors.Is(err, domain.ErrProblemNotFound) {
		t.Fatalf("expected ErrProblemNotFound, got %v", err)
	}
	snap, err := snaps.Get(context.Background(), job.JobID)
	if err != nil {
		t.Fatalf("expected error snapshot: %v", err)
	}
	if snap.Result.Status != format.StatusError || snap.UserID != testUser {
		t.Errorf("unexpected error snapshot %+v", snap)
	}
}

func TestGetJudgeJob(t *testing.T) {
	snaps := mock.NewSnapshotStore()
	uc := NewGetJudgeJobUsecase(snaps)

	ctx := context.Background()

	if _, err := uc.Execute(ctx, uuid.New(), testUser); !errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}

	jobID := uuid.New()
	_ = snaps.Save(ctx, jobID, &repository.JobSnapshot{UserID: testUser, Result: format.Running(1, 3, nil)})

	res, err := uc.Execute(ctx, jobID, testUser)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Done != 1 || res.Total != 3 {
		t.Errorf("unexpected snapshot %+v", res)
	}
	if _, err := uc.Execute(ctx, jobID, "someone-else"); !errors.Is(err, domain.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound for another user, got %v", err)
	}
	if _, err := uc.Execute(ctx, jobID, ""); !errors.Is(err, domain.ErrMissingUser) {
		t.Errorf("expected ErrMissingUser, got %v", err)
	}
}
