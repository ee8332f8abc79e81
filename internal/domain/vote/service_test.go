package vote

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"quickpoll/internal/domain/poll"
	"quickpoll/internal/identity"
)

// memoryStore plays both the poll lookup and the vote repository so that the
// denormalized counters live next to the rows they summarize.
type memoryStore struct {
	mu     sync.Mutex
	polls  map[int64]*poll.Poll
	votes  map[int64]map[string]Vote
	likes  map[int64]map[string]Like
	nextID int64
	failOn string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		polls:  make(map[int64]*poll.Poll),
		votes:  make(map[int64]map[string]Vote),
		likes:  make(map[int64]map[string]Like),
		nextID: 1,
	}
}

func (m *memoryStore) addPoll(id int64, optionIDs ...int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &poll.Poll{ID: id, Title: fmt.Sprintf("poll %d", id), IsActive: true}
	for i, oid := range optionIDs {
		p.Options = append(p.Options, poll.Option{ID: oid, PollID: id, Text: fmt.Sprintf("option %d", oid), Position: i})
	}
	m.polls[id] = p
	m.votes[id] = make(map[string]Vote)
	m.likes[id] = make(map[string]Like)
}

func (m *memoryStore) GetByID(ctx context.Context, id int64) (*poll.Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.polls[id]
	if !ok {
		return nil, poll.ErrPollNotFound
	}
	cp := *p
	cp.Options = append([]poll.Option(nil), p.Options...)
	return &cp, nil
}

func (m *memoryStore) option(p *poll.Poll, optionID int64) *poll.Option {
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			return &p.Options[i]
		}
	}
	return nil
}

func (m *memoryStore) CastVote(ctx context.Context, v *Vote) (*Tally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn == "vote" {
		return nil, errors.New("connection reset")
	}
	p, ok := m.polls[v.PollID]
	if !ok {
		return nil, ErrPollNotFound
	}
	opt := m.option(p, v.OptionID)
	if opt == nil {
		return nil, ErrOptionNotFound
	}
	if _, dup := m.votes[v.PollID][v.VoterKey]; dup {
		return nil, ErrAlreadyVoted
	}
	v.ID = m.nextID
	m.nextID++
	m.votes[v.PollID][v.VoterKey] = *v
	opt.VoteCount++

	var total int64
	for _, o := range p.Options {
		total += o.VoteCount
	}
	return &Tally{PollID: v.PollID, OptionID: v.OptionID, OptionVotes: opt.VoteCount, TotalVotes: total, VotedAt: v.VotedAt}, nil
}

func (m *memoryStore) AddLike(ctx context.Context, l *Like) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.polls[l.PollID]
	if !ok {
		return 0, ErrPollNotFound
	}
	if _, dup := m.likes[l.PollID][l.VoterKey]; dup {
		return 0, ErrAlreadyLiked
	}
	l.ID = m.nextID
	m.nextID++
	m.likes[l.PollID][l.VoterKey] = *l
	p.LikeCount++
	return p.LikeCount, nil
}

func (m *memoryStore) RemoveLike(ctx context.Context, pollID int64, voterKey string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.polls[pollID]
	if !ok {
		return 0, ErrPollNotFound
	}
	if _, ok := m.likes[pollID][voterKey]; !ok {
		return 0, ErrLikeNotFound
	}
	delete(m.likes[pollID], voterKey)
	p.LikeCount--
	return p.LikeCount, nil
}

func (m *memoryStore) FindVote(ctx context.Context, pollID int64, voterKey string) (*Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.votes[pollID][voterKey]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (m *memoryStore) FindLike(ctx context.Context, pollID int64, voterKey string) (*Like, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.likes[pollID][voterKey]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (m *memoryStore) Reconcile(ctx context.Context, pollID int64) (*Drift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.polls[pollID]
	if !ok {
		return nil, ErrPollNotFound
	}
	actual := make(map[int64]int64)
	for _, v := range m.votes[pollID] {
		actual[v.OptionID]++
	}
	d := &Drift{PollID: pollID, LikesStored: p.LikeCount, LikesActual: int64(len(m.likes[pollID]))}
	for i := range p.Options {
		o := &p.Options[i]
		if o.VoteCount != actual[o.ID] {
			d.Options = append(d.Options, OptionDrift{OptionID: o.ID, Stored: o.VoteCount, Actual: actual[o.ID]})
			o.VoteCount = actual[o.ID]
		}
		d.TotalVotes += o.VoteCount
	}
	p.LikeCount = d.LikesActual
	return d, nil
}

func (m *memoryStore) PollIDs(ctx context.Context) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.polls))
	for id := range m.polls {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memoryStore) corrupt(pollID, optionID, votes, likes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.polls[pollID]
	m.option(p, optionID).VoteCount = votes
	p.LikeCount = likes
}

type recordingNotifier struct {
	mu    sync.Mutex
	votes []Tally
	likes []LikeTally
}

func (n *recordingNotifier) VoteRecorded(t Tally) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.votes = append(n.votes, t)
}

func (n *recordingNotifier) LikeUpdated(t LikeTally) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.likes = append(n.likes, t)
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.votes), len(n.likes)
}

func newTestService() (*Service, *memoryStore, *recordingNotifier) {
	store := newMemoryStore()
	notifier := &recordingNotifier{}
	return NewService(store, store, notifier), store, notifier
}

func anon(name string) identity.Identity {
	return identity.ForSession(name)
}

func TestConcurrentDuplicateVotesSucceedOnce(t *testing.T) {
	svc, store, notifier := newTestService()
	store.addPoll(1, 10, 11)
	voter := anon("same-voter")

	const attempts = 50
	var ok, conflicts int64
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			option := int64(10 + i%2)
			_, err := svc.CastVote(context.Background(), 1, option, voter)
			switch {
			case err == nil:
				atomic.AddInt64(&ok, 1)
			case errors.Is(err, ErrAlreadyVoted):
				atomic.AddInt64(&conflicts, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if ok != 1 || conflicts != attempts-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", attempts-1, ok, conflicts)
	}
	res, _ := svc.Results(context.Background(), 1)
	if res.TotalVotes != 1 {
		t.Fatalf("expected a single counted vote, got %d", res.TotalVotes)
	}
	if v, _ := notifier.counts(); v != 1 {
		t.Fatalf("expected one notification, got %d", v)
	}
}

func TestDistinctVotersSumToTotal(t *testing.T) {
	svc, store, notifier := newTestService()
	store.addPoll(1, 10, 11, 12)

	const voters = 60
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.CastVote(context.Background(), 1, int64(10+i%3), anon(fmt.Sprintf("voter-%d", i))); err != nil {
				t.Errorf("vote %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	res, err := svc.Results(context.Background(), 1)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if res.TotalVotes != voters {
		t.Fatalf("expected %d votes, got %d", voters, res.TotalVotes)
	}
	for _, o := range res.Options {
		if o.Votes != voters/3 {
			t.Fatalf("expected %d votes on option %d, got %d", voters/3, o.OptionID, o.Votes)
		}
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.votes) != voters {
		t.Fatalf("expected %d notifications, got %d", voters, len(notifier.votes))
	}
	for i, tally := range notifier.votes {
		if tally.TotalVotes != int64(i+1) {
			t.Fatalf("notification %d carries total %d, expected commit order", i, tally.TotalVotes)
		}
	}
}

func TestForeignOptionIsRejected(t *testing.T) {
	svc, store, notifier := newTestService()
	store.addPoll(1, 10, 11)
	store.addPoll(2, 20, 21)

	if _, err := svc.CastVote(context.Background(), 1, 20, anon("a")); !errors.Is(err, ErrOptionNotFound) {
		t.Fatalf("expected option not found, got %v", err)
	}
	if _, err := svc.CastVote(context.Background(), 1, 999, anon("a")); !errors.Is(err, ErrOptionNotFound) {
		t.Fatalf("expected option not found, got %v", err)
	}
	if v, _ := notifier.counts(); v != 0 {
		t.Fatalf("expected no notifications for rejected votes")
	}
}

func TestClosedPollsRejectMutations(t *testing.T) {
	svc, store, _ := newTestService()
	store.addPoll(1, 10, 11)
	store.addPoll(2, 20, 21)
	store.polls[1].IsActive = false
	past := time.Now().Add(-time.Minute)
	store.polls[2].ExpiresAt = &past

	for _, id := range []int64{1, 2, 3} {
		if _, err := svc.CastVote(context.Background(), id, id*10, anon("a")); !errors.Is(err, ErrPollNotFound) {
			t.Fatalf("poll %d: expected not found for vote, got %v", id, err)
		}
		if _, err := svc.Like(context.Background(), id, anon("a")); !errors.Is(err, ErrPollNotFound) {
			t.Fatalf("poll %d: expected not found for like, got %v", id, err)
		}
		if _, err := svc.Unlike(context.Background(), id, anon("a")); !errors.Is(err, ErrPollNotFound) {
			t.Fatalf("poll %d: expected not found for unlike, got %v", id, err)
		}
	}
}

func TestVoterRequired(t *testing.T) {
	svc, store, _ := newTestService()
	store.addPoll(1, 10, 11)
	if _, err := svc.CastVote(context.Background(), 1, 10, identity.Identity{}); !errors.Is(err, ErrVoterRequired) {
		t.Fatalf("expected voter required, got %v", err)
	}
}

func TestLikeToggle(t *testing.T) {
	svc, store, notifier := newTestService()
	store.addPoll(1, 10, 11)
	ctx := context.Background()
	b := anon("b")

	first, err := svc.Like(ctx, 1, b)
	if err != nil || first.TotalLikes != 1 || first.Action != ActionLiked {
		t.Fatalf("unexpected like result %+v, %v", first, err)
	}
	if _, err := svc.Like(ctx, 1, b); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected already liked, got %v", err)
	}
	second, err := svc.Unlike(ctx, 1, b)
	if err != nil || second.TotalLikes != 0 || second.Action != ActionUnliked {
		t.Fatalf("unexpected unlike result %+v, %v", second, err)
	}
	if _, err := svc.Unlike(ctx, 1, b); !errors.Is(err, ErrLikeNotFound) {
		t.Fatalf("expected like not found, got %v", err)
	}
	third, err := svc.Like(ctx, 1, b)
	if err != nil || third.TotalLikes != 1 {
		t.Fatalf("expected relike to count once, got %+v, %v", third, err)
	}
	if _, l := notifier.counts(); l != 3 {
		t.Fatalf("expected 3 like notifications, got %d", l)
	}
}

func TestLikesMinusUnlikes(t *testing.T) {
	svc, store, _ := newTestService()
	store.addPoll(1, 10, 11)
	ctx := context.Background()

	const likers, unlikers = 30, 12
	var wg sync.WaitGroup
	for i := 0; i < likers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			who := anon(fmt.Sprintf("liker-%d", i))
			if _, err := svc.Like(ctx, 1, who); err != nil {
				t.Errorf("like: %v", err)
				return
			}
			if i < unlikers {
				if _, err := svc.Unlike(ctx, 1, who); err != nil {
					t.Errorf("unlike: %v", err)
				}
			}
		}(i)
	}
	wg.Wait()

	res, _ := svc.Results(ctx, 1)
	if res.TotalLikes != likers-unlikers {
		t.Fatalf("expected %d likes, got %d", likers-unlikers, res.TotalLikes)
	}
}

func TestVoteAndLikeWalkthrough(t *testing.T) {
	svc, store, notifier := newTestService()
	store.addPoll(1, 10, 11)
	ctx := context.Background()
	a, b := anon("a"), anon("b")

	tally, err := svc.CastVote(ctx, 1, 10, a)
	if err != nil {
		t.Fatalf("vote: %v", err)
	}
	if tally.OptionVotes != 1 || tally.TotalVotes != 1 {
		t.Fatalf("unexpected tally %+v", tally)
	}

	if _, err := svc.CastVote(ctx, 1, 11, a); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if l, _ := svc.Like(ctx, 1, b); l.TotalLikes != 1 {
		t.Fatalf("expected 1 like, got %d", l.TotalLikes)
	}
	if l, _ := svc.Unlike(ctx, 1, b); l.TotalLikes != 0 {
		t.Fatalf("expected 0 likes, got %d", l.TotalLikes)
	}
	if _, err := svc.Unlike(ctx, 1, b); !errors.Is(err, ErrLikeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.votes) != 1 || notifier.votes[0] != *tally {
		t.Fatalf("unexpected vote notifications %+v", notifier.votes)
	}
	want := []LikeTally{
		{PollID: 1, TotalLikes: 1, Action: ActionLiked},
		{PollID: 1, TotalLikes: 0, Action: ActionUnliked},
	}
	if len(notifier.likes) != len(want) {
		t.Fatalf("expected %d like notifications, got %+v", len(want), notifier.likes)
	}
	for i := range want {
		if notifier.likes[i] != want[i] {
			t.Fatalf("like notification %d: expected %+v, got %+v", i, want[i], notifier.likes[i])
		}
	}

	res, _ := svc.Results(ctx, 1)
	if res.Options[0].Votes != 1 || res.Options[1].Votes != 0 || res.TotalLikes != 0 {
		t.Fatalf("counts changed by failed mutations: %+v", res)
	}
}

func TestStoreFailureEmitsNothing(t *testing.T) {
	svc, store, notifier := newTestService()
	store.addPoll(1, 10, 11)
	store.failOn = "vote"

	if _, err := svc.CastVote(context.Background(), 1, 10, anon("a")); err == nil {
		t.Fatalf("expected store error")
	}
	if v, _ := notifier.counts(); v != 0 {
		t.Fatalf("expected no notification after a failed transaction")
	}
}

func TestStatusQueries(t *testing.T) {
	svc, store, _ := newTestService()
	store.addPoll(1, 10, 11)
	ctx := context.Background()
	a := anon("a")

	v, err := svc.VoteStatus(ctx, 1, a)
	if err != nil || v != nil {
		t.Fatalf("expected no vote yet, got %+v, %v", v, err)
	}
	if _, err := svc.CastVote(ctx, 1, 11, a); err != nil {
		t.Fatalf("vote: %v", err)
	}
	v, _ = svc.VoteStatus(ctx, 1, a)
	if v == nil || v.OptionID != 11 {
		t.Fatalf("expected vote on option 11, got %+v", v)
	}

	liked, _ := svc.LikeStatus(ctx, 1, a)
	if liked {
		t.Fatalf("expected not liked")
	}
	_, _ = svc.Like(ctx, 1, a)
	liked, _ = svc.LikeStatus(ctx, 1, a)
	if !liked {
		t.Fatalf("expected liked")
	}

	if _, err := svc.VoteStatus(ctx, 42, a); !errors.Is(err, ErrPollNotFound) {
		t.Fatalf("expected not found for unknown poll, got %v", err)
	}
}

func TestResultsPercentages(t *testing.T) {
	svc, store, _ := newTestService()
	store.addPoll(1, 10, 11, 12)
	ctx := context.Background()

	for i, opt := range []int64{10, 10, 11} {
		if _, err := svc.CastVote(ctx, 1, opt, anon(fmt.Sprintf("v%d", i))); err != nil {
			t.Fatalf("vote: %v", err)
		}
	}

	res, err := svc.Results(ctx, 1)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	got := []float64{res.Options[0].Percentage, res.Options[1].Percentage, res.Options[2].Percentage}
	want := []float64{66.67, 33.33, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("option %d: expected %.2f%%, got %.2f%%", i, want[i], got[i])
		}
	}

	store.addPoll(2, 20, 21)
	empty, _ := svc.Results(ctx, 2)
	if empty.TotalVotes != 0 || empty.Options[0].Percentage != 0 {
		t.Fatalf("expected zero results for an empty poll")
	}
}

func TestReconcileRepairsDrift(t *testing.T) {
	svc, store, notifier := newTestService()
	store.addPoll(1, 10, 11)
	store.addPoll(2, 20, 21)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.CastVote(ctx, 1, 10, anon(fmt.Sprintf("v%d", i))); err != nil {
			t.Fatalf("vote: %v", err)
		}
	}
	if _, err := svc.Like(ctx, 1, anon("v0")); err != nil {
		t.Fatalf("like: %v", err)
	}
	store.corrupt(1, 10, 7, 4)
	beforeVotes, beforeLikes := notifier.counts()

	d, err := svc.Reconcile(ctx, 1)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(d.Options) != 1 || d.Options[0].Stored != 7 || d.Options[0].Actual != 3 {
		t.Fatalf("unexpected option drift %+v", d.Options)
	}
	if d.LikesStored != 4 || d.LikesActual != 1 || d.TotalVotes != 3 {
		t.Fatalf("unexpected like drift %+v", d)
	}

	notifier.mu.Lock()
	lastVote := notifier.votes[len(notifier.votes)-1]
	lastLike := notifier.likes[len(notifier.likes)-1]
	gotVotes, gotLikes := len(notifier.votes)-beforeVotes, len(notifier.likes)-beforeLikes
	notifier.mu.Unlock()
	if gotVotes != 1 || gotLikes != 1 {
		t.Fatalf("expected one correction per counter, got %d votes and %d likes", gotVotes, gotLikes)
	}
	if lastVote.OptionVotes != 3 || lastVote.TotalVotes != 3 {
		t.Fatalf("unexpected corrected tally %+v", lastVote)
	}
	if lastLike.Action != ActionReconciled || lastLike.TotalLikes != 1 {
		t.Fatalf("unexpected corrected like tally %+v", lastLike)
	}

	again, _ := svc.Reconcile(ctx, 1)
	if !again.Empty() {
		t.Fatalf("expected no drift after repair, got %+v", again)
	}

	store.corrupt(2, 21, 5, 0)
	report, err := svc.ReconcileAll(ctx)
	if err != nil {
		t.Fatalf("reconcile all: %v", err)
	}
	if report.Polls != 2 || report.Corrected != 1 || report.Options != 1 || report.Likes != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
}
