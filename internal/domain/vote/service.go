package vote

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/samber/lo"

	"quickpoll/internal/domain/poll"
	"quickpoll/internal/identity"
	"quickpoll/internal/metrics"
)

var (
	ErrPollNotFound   = poll.ErrPollNotFound
	ErrOptionNotFound = errors.New("option not found in this poll")
	ErrAlreadyVoted   = errors.New("already voted in this poll")
	ErrAlreadyLiked   = errors.New("already liked this poll")
	ErrLikeNotFound   = errors.New("poll is not liked")
	ErrVoterRequired  = errors.New("voter identity is required")
)

const lockStripes = 64

type Service struct {
	repo     Repository
	polls    Polls
	notifier Notifier
	now      func() time.Time

	// stripes serialize mutations per poll so notifications leave in commit order.
	stripes [lockStripes]sync.Mutex
}

func NewService(repo Repository, polls Polls, notifier Notifier) *Service {
	if notifier == nil {
		notifier = noNotifier{}
	}
	return &Service{
		repo:     repo,
		polls:    polls,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Service) lock(pollID int64) func() {
	m := &s.stripes[uint64(pollID)%lockStripes]
	m.Lock()
	return m.Unlock
}

// openPoll returns ErrPollNotFound for polls that are missing, inactive or expired.
func (s *Service) openPoll(ctx context.Context, pollID int64) (*poll.Poll, error) {
	p, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if !p.Open(s.now()) {
		return nil, ErrPollNotFound
	}
	return p, nil
}

func (s *Service) CastVote(ctx context.Context, pollID, optionID int64, voter identity.Identity) (*Tally, error) {
	tally, err := s.castVote(ctx, pollID, optionID, voter)
	metrics.IncMutation("vote", outcome(err))
	return tally, err
}

func (s *Service) castVote(ctx context.Context, pollID, optionID int64, voter identity.Identity) (*Tally, error) {
	if voter.Key == "" {
		return nil, ErrVoterRequired
	}
	if _, err := s.openPoll(ctx, pollID); err != nil {
		return nil, err
	}

	unlock := s.lock(pollID)
	defer unlock()

	tally, err := s.repo.CastVote(ctx, &Vote{
		PollID:   pollID,
		OptionID: optionID,
		VoterKey: voter.Key,
		UserID:   voter.UserID,
		VotedAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.notifier.VoteRecorded(*tally)
	return tally, nil
}

func (s *Service) Like(ctx context.Context, pollID int64, voter identity.Identity) (*LikeTally, error) {
	tally, err := s.like(ctx, pollID, voter)
	metrics.IncMutation("like", outcome(err))
	return tally, err
}

func (s *Service) like(ctx context.Context, pollID int64, voter identity.Identity) (*LikeTally, error) {
	if voter.Key == "" {
		return nil, ErrVoterRequired
	}
	if _, err := s.openPoll(ctx, pollID); err != nil {
		return nil, err
	}

	unlock := s.lock(pollID)
	defer unlock()

	total, err := s.repo.AddLike(ctx, &Like{
		PollID:   pollID,
		VoterKey: voter.Key,
		UserID:   voter.UserID,
		LikedAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	tally := LikeTally{PollID: pollID, TotalLikes: total, Action: ActionLiked}
	s.notifier.LikeUpdated(tally)
	return &tally, nil
}

func (s *Service) Unlike(ctx context.Context, pollID int64, voter identity.Identity) (*LikeTally, error) {
	tally, err := s.unlike(ctx, pollID, voter)
	metrics.IncMutation("unlike", outcome(err))
	return tally, err
}

func (s *Service) unlike(ctx context.Context, pollID int64, voter identity.Identity) (*LikeTally, error) {
	if voter.Key == "" {
		return nil, ErrVoterRequired
	}
	if _, err := s.openPoll(ctx, pollID); err != nil {
		return nil, err
	}

	unlock := s.lock(pollID)
	defer unlock()

	total, err := s.repo.RemoveLike(ctx, pollID, voter.Key)
	if err != nil {
		return nil, err
	}

	tally := LikeTally{PollID: pollID, TotalLikes: total, Action: ActionUnliked}
	s.notifier.LikeUpdated(tally)
	return &tally, nil
}

// VoteStatus returns the voter's vote on the poll, or nil if there is none.
func (s *Service) VoteStatus(ctx context.Context, pollID int64, voter identity.Identity) (*Vote, error) {
	if _, err := s.polls.GetByID(ctx, pollID); err != nil {
		return nil, err
	}
	if voter.Key == "" {
		return nil, nil
	}
	return s.repo.FindVote(ctx, pollID, voter.Key)
}

func (s *Service) LikeStatus(ctx context.Context, pollID int64, voter identity.Identity) (bool, error) {
	if _, err := s.polls.GetByID(ctx, pollID); err != nil {
		return false, err
	}
	if voter.Key == "" {
		return false, nil
	}
	l, err := s.repo.FindLike(ctx, pollID, voter.Key)
	if err != nil {
		return false, err
	}
	return l != nil, nil
}

func (s *Service) Results(ctx context.Context, pollID int64) (*Results, error) {
	p, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	total := lo.SumBy(p.Options, func(o poll.Option) int64 { return o.VoteCount })
	options := lo.Map(p.Options, func(o poll.Option, _ int) Result {
		var pct float64
		if total > 0 {
			pct = math.Round(float64(o.VoteCount)*10000/float64(total)) / 100
		}
		return Result{
			OptionID:   o.ID,
			Text:       o.Text,
			Votes:      o.VoteCount,
			Percentage: pct,
		}
	})

	return &Results{
		PollID:     p.ID,
		TotalVotes: total,
		TotalLikes: p.LikeCount,
		Options:    options,
	}, nil
}

// Reconcile recomputes the poll's counters from its vote and like rows and
// broadcasts whatever it had to correct.
func (s *Service) Reconcile(ctx context.Context, pollID int64) (*Drift, error) {
	unlock := s.lock(pollID)
	defer unlock()

	d, err := s.repo.Reconcile(ctx, pollID)
	if err != nil {
		return nil, err
	}

	for _, o := range d.Options {
		s.notifier.VoteRecorded(Tally{
			PollID:      pollID,
			OptionID:    o.OptionID,
			OptionVotes: o.Actual,
			TotalVotes:  d.TotalVotes,
		})
	}
	if d.LikesStored != d.LikesActual {
		s.notifier.LikeUpdated(LikeTally{PollID: pollID, TotalLikes: d.LikesActual, Action: ActionReconciled})
	}

	metrics.AddDrift("option_votes", len(d.Options))
	if d.LikesStored != d.LikesActual {
		metrics.AddDrift("poll_likes", 1)
	}
	return d, nil
}

// ReconcileAll sweeps every poll. A failing poll does not stop the sweep; the
// errors are joined and returned with the partial report.
func (s *Service) ReconcileAll(ctx context.Context) (Report, error) {
	var report Report

	ids, err := s.repo.PollIDs(ctx)
	if err != nil {
		return report, err
	}

	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		d, err := s.Reconcile(ctx, id)
		if errors.Is(err, ErrPollNotFound) {
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("reconcile poll %d: %w", id, err))
			continue
		}
		report.Polls++
		if d.Empty() {
			continue
		}
		report.Corrected++
		report.Options += len(d.Options)
		if d.LikesStored != d.LikesActual {
			report.Likes++
		}
	}

	return report, errors.Join(errs...)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAlreadyVoted), errors.Is(err, ErrAlreadyLiked):
		return "conflict"
	case errors.Is(err, ErrPollNotFound), errors.Is(err, ErrOptionNotFound), errors.Is(err, ErrLikeNotFound):
		return "not_found"
	case errors.Is(err, ErrVoterRequired):
		return "invalid"
	default:
		return "error"
	}
}

type noNotifier struct{}

func (noNotifier) VoteRecorded(Tally)    {}
func (noNotifier) LikeUpdated(LikeTally) {}
