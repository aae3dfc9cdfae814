package vote

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"survey-system/internal/access"
)

type memSurvey struct {
	ownerID int64
	active  bool
}

type memOption struct {
	surveyID int64
	text     string
	color    string
}

type memoryVoteRepo struct {
	mu          sync.Mutex
	surveys     map[int64]memSurvey
	options     map[int64]memOption
	optionOrder map[int64][]int64
	votes       []Vote
	nextID      int64
}

func newMemoryVoteRepo() *memoryVoteRepo {
	return &memoryVoteRepo{
		surveys:     make(map[int64]memSurvey),
		options:     make(map[int64]memOption),
		optionOrder: make(map[int64][]int64),
		nextID:      1,
	}
}

func (r *memoryVoteRepo) addSurvey(id, ownerID int64, active bool) {
	r.surveys[id] = memSurvey{ownerID: ownerID, active: active}
}

func (r *memoryVoteRepo) addOption(id, surveyID int64, text, color string) {
	r.options[id] = memOption{surveyID: surveyID, text: text, color: color}
	r.optionOrder[surveyID] = append(r.optionOrder[surveyID], id)
}

func (r *memoryVoteRepo) hasVoteLocked(surveyID, userID int64) bool {
	for _, v := range r.votes {
		if v.SurveyID == surveyID && v.UserID == userID {
			return true
		}
	}
	return false
}

func (r *memoryVoteRepo) Create(ctx context.Context, v *Vote, enforceSingle bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if enforceSingle && r.hasVoteLocked(v.SurveyID, v.UserID) {
		return ErrAlreadyVoted
	}
	v.ID = r.nextID
	r.nextID++
	v.CreatedAt = time.Now()
	r.votes = append(r.votes, *v)
	return nil
}

func (r *memoryVoteRepo) Exists(ctx context.Context, surveyID, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasVoteLocked(surveyID, userID), nil
}

func (r *memoryVoteRepo) SurveyMeta(ctx context.Context, surveyID int64) (*SurveyMeta, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.surveys[surveyID]
	if !ok {
		return nil, ErrSurveyNotFound
	}
	return &SurveyMeta{ID: surveyID, OwnerID: s.ownerID, IsActive: s.active}, nil
}

func (r *memoryVoteRepo) OptionBelongs(ctx context.Context, optionID, surveyID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.options[optionID]
	return ok && o.surveyID == surveyID, nil
}

func (r *memoryVoteRepo) CountBySurvey(ctx context.Context, surveyID int64) ([]OptionCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []OptionCount
	for _, optID := range r.optionOrder[surveyID] {
		o := r.options[optID]
		var n int64
		for _, v := range r.votes {
			if v.OptionID == optID {
				n++
			}
		}
		res = append(res, OptionCount{OptionID: optID, Text: o.text, Color: o.color, Votes: n})
	}
	return res, nil
}

func (r *memoryVoteRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.votes)), nil
}

func (r *memoryVoteRepo) votesFor(surveyID, userID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, v := range r.votes {
		if v.SurveyID == surveyID && v.UserID == userID {
			n++
		}
	}
	return n
}

var (
	owner    = access.Caller{ID: 1, Role: access.RoleUser}
	voter    = access.Caller{ID: 2, Role: access.RoleUser}
	another  = access.Caller{ID: 3, Role: access.RoleUser}
	adminGuy = access.Caller{ID: 4, Role: access.RoleAdmin}
)

func seededRepo() *memoryVoteRepo {
	repo := newMemoryVoteRepo()
	repo.addSurvey(10, owner.ID, true)
	repo.addOption(100, 10, "yes", "#00ff00")
	repo.addOption(101, 10, "no", "#ff0000")
	repo.addSurvey(20, owner.ID, false)
	repo.addOption(200, 20, "a", "#111111")
	repo.addOption(201, 20, "b", "#222222")
	return repo
}

func TestCastGateOrdering(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Cast(ctx, voter, 999, 100); !errors.Is(err, ErrSurveyNotFound) {
		t.Fatalf("expected ErrSurveyNotFound, got %v", err)
	}

	// Closed surveys reject everyone, admins included, and before any other
	// check: the owner of a closed survey sees closed, not self-vote.
	if _, err := svc.Cast(ctx, adminGuy, 20, 200); !errors.Is(err, ErrSurveyClosed) {
		t.Fatalf("expected ErrSurveyClosed for admin, got %v", err)
	}
	if _, err := svc.Cast(ctx, owner, 20, 200); !errors.Is(err, ErrSurveyClosed) {
		t.Fatalf("expected ErrSurveyClosed for owner, got %v", err)
	}

	if _, err := svc.Cast(ctx, owner, 10, 100); !errors.Is(err, ErrSelfVote) {
		t.Fatalf("expected ErrSelfVote, got %v", err)
	}

	// Option from another survey.
	if _, err := svc.Cast(ctx, voter, 10, 200); !errors.Is(err, ErrOptionNotInSurvey) {
		t.Fatalf("expected ErrOptionNotInSurvey, got %v", err)
	}
	if repo.votesFor(10, voter.ID) != 0 {
		t.Fatalf("failed attempts must not record votes")
	}

	v, err := svc.Cast(ctx, voter, 10, 100)
	if err != nil {
		t.Fatalf("expected first vote to succeed, got %v", err)
	}
	if v.SurveyID != 10 || v.OptionID != 100 || v.UserID != voter.ID {
		t.Fatalf("vote bound to wrong ids: %+v", v)
	}

	if _, err := svc.Cast(ctx, voter, 10, 101); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted, got %v", err)
	}
	if repo.votesFor(10, voter.ID) != 1 {
		t.Fatalf("non-admin must have at most one vote per survey")
	}
}

func TestAdminBypassesSelfAndDuplicateChecks(t *testing.T) {
	repo := newMemoryVoteRepo()
	repo.addSurvey(10, adminGuy.ID, true)
	repo.addOption(100, 10, "yes", "#00ff00")
	repo.addOption(101, 10, "no", "#ff0000")
	svc := NewService(repo)
	ctx := context.Background()

	// Admin may vote on an own survey and more than once. Regression guard:
	// this is intended behavior, not a missing uniqueness check.
	for i := 0; i < 3; i++ {
		if _, err := svc.Cast(ctx, adminGuy, 10, 100); err != nil {
			t.Fatalf("admin vote %d failed: %v", i+1, err)
		}
	}
	if got := repo.votesFor(10, adminGuy.ID); got != 3 {
		t.Fatalf("expected 3 admin votes, got %d", got)
	}
}

func TestConcurrentDuplicateAttempts(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errsCh := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Cast(ctx, voter, 10, 100)
			errsCh <- err
		}()
	}
	wg.Wait()
	close(errsCh)

	success := 0
	for err := range errsCh {
		if err == nil {
			success++
		} else if !errors.Is(err, ErrAlreadyVoted) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly one racing vote to land, got %d", success)
	}
	if repo.votesFor(10, voter.ID) != 1 {
		t.Fatalf("storage must hold exactly one vote row")
	}
}

func TestAggregateScenario(t *testing.T) {
	counts := []OptionCount{
		{OptionID: 1, Text: "A", Votes: 0},
		{OptionID: 2, Text: "B", Votes: 1},
		{OptionID: 3, Text: "C", Votes: 3},
	}

	results, total := Aggregate(counts)
	if total != 4 {
		t.Fatalf("expected total 4, got %d", total)
	}
	want := []int{0, 25, 75}
	for i, res := range results {
		if res.OptionID != counts[i].OptionID {
			t.Fatalf("option order changed: %+v", results)
		}
		if res.Percentage != want[i] {
			t.Fatalf("option %d: expected %d%%, got %d%%", res.OptionID, want[i], res.Percentage)
		}
	}

	// Same input, same output.
	again, againTotal := Aggregate(counts)
	if againTotal != total {
		t.Fatalf("aggregate not idempotent on total")
	}
	for i := range again {
		if again[i] != results[i] {
			t.Fatalf("aggregate not idempotent on results")
		}
	}
}

func TestAggregateNoVotes(t *testing.T) {
	results, total := Aggregate([]OptionCount{
		{OptionID: 1, Text: "A"},
		{OptionID: 2, Text: "B"},
	})
	if total != 0 {
		t.Fatalf("expected total 0, got %d", total)
	}
	for _, res := range results {
		if res.Percentage != 0 {
			t.Fatalf("expected 0%% with no votes, got %d%%", res.Percentage)
		}
	}
}

func TestAggregateRounding(t *testing.T) {
	// 1/8 = 12.5% rounds half up to 13.
	results, _ := Aggregate([]OptionCount{
		{OptionID: 1, Votes: 1},
		{OptionID: 2, Votes: 7},
	})
	if results[0].Percentage != 13 {
		t.Fatalf("expected 12.5 to round up to 13, got %d", results[0].Percentage)
	}
	if results[1].Percentage != 88 {
		t.Fatalf("expected 87.5 to round up to 88, got %d", results[1].Percentage)
	}

	cases := [][]int64{
		{1, 1, 1},
		{1, 2, 4},
		{3, 3, 1},
		{0, 0, 5},
		{9, 9, 9, 9, 9, 9, 9},
	}
	for _, votes := range cases {
		counts := make([]OptionCount, len(votes))
		var sumVotes int64
		for i, n := range votes {
			counts[i] = OptionCount{OptionID: int64(i + 1), Votes: n}
			sumVotes += n
		}
		results, total := Aggregate(counts)
		if total != sumVotes {
			t.Fatalf("votes %v: total %d != sum %d", votes, total, sumVotes)
		}
		sumPct := 0
		for _, res := range results {
			if res.Percentage < 0 || res.Percentage > 100 {
				t.Fatalf("votes %v: percentage %d out of range", votes, res.Percentage)
			}
			sumPct += res.Percentage
		}
		if diff := sumPct - 100; diff > len(votes) || diff < -len(votes) {
			t.Fatalf("votes %v: percentages sum to %d, outside 100±%d", votes, sumPct, len(votes))
		}
	}
}

func TestResultsFromStore(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Cast(ctx, voter, 10, 100); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if _, err := svc.Cast(ctx, another, 10, 100); err != nil {
		t.Fatalf("vote: %v", err)
	}

	results, total, err := svc.Results(ctx, 10)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected total 2, got %d", total)
	}
	if len(results) != 2 {
		t.Fatalf("expected a row per option, got %d", len(results))
	}
	if results[0].Votes != 2 || results[0].Percentage != 100 {
		t.Fatalf("unexpected first option result: %+v", results[0])
	}
	if results[1].Votes != 0 || results[1].Percentage != 0 {
		t.Fatalf("unexpected second option result: %+v", results[1])
	}

	var sumCounts int64
	for _, res := range results {
		sumCounts += res.Votes
	}
	if sumCounts != total {
		t.Fatalf("per-option counts sum to %d, total is %d", sumCounts, total)
	}
}
