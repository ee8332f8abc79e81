package vote

import (
	"context"
	"time"

	"quickpoll/internal/domain/poll"
)

type Vote struct {
	ID       int64     `json:"id" db:"id"`
	PollID   int64     `json:"poll_id" db:"poll_id"`
	OptionID int64     `json:"option_id" db:"option_id"`
	VoterKey string    `json:"-" db:"voter_key"`
	UserID   *int64    `json:"user_id,omitempty" db:"user_id"`
	VotedAt  time.Time `json:"voted_at" db:"voted_at"`
}

type Like struct {
	ID       int64     `json:"id" db:"id"`
	PollID   int64     `json:"poll_id" db:"poll_id"`
	VoterKey string    `json:"-" db:"voter_key"`
	UserID   *int64    `json:"user_id,omitempty" db:"user_id"`
	LikedAt  time.Time `json:"liked_at" db:"liked_at"`
}

// Tally is the post-commit state of one option after a vote.
type Tally struct {
	PollID      int64     `json:"poll_id"`
	OptionID    int64     `json:"option_id"`
	OptionVotes int64     `json:"vote_count"`
	TotalVotes  int64     `json:"total_votes"`
	VotedAt     time.Time `json:"voted_at"`
}

const (
	ActionLiked      = "liked"
	ActionUnliked    = "unliked"
	ActionReconciled = "reconciled"
)

type LikeTally struct {
	PollID     int64  `json:"poll_id"`
	TotalLikes int64  `json:"total_likes"`
	Action     string `json:"action"`
}

type Result struct {
	OptionID   int64   `json:"option_id"`
	Text       string  `json:"option_text"`
	Votes      int64   `json:"votes"`
	Percentage float64 `json:"percentage"`
}

type Results struct {
	PollID     int64    `json:"poll_id"`
	TotalVotes int64    `json:"total_votes"`
	TotalLikes int64    `json:"total_likes"`
	Options    []Result `json:"options"`
}

type OptionDrift struct {
	OptionID int64 `json:"option_id"`
	Stored   int64 `json:"stored"`
	Actual   int64 `json:"actual"`
}

// Drift lists the counters Reconcile found out of line with the rows they
// summarize. Options only carries the options that were corrected.
type Drift struct {
	PollID      int64         `json:"poll_id"`
	Options     []OptionDrift `json:"options"`
	TotalVotes  int64         `json:"total_votes"`
	LikesStored int64         `json:"likes_stored"`
	LikesActual int64         `json:"likes_actual"`
}

func (d *Drift) Empty() bool {
	return len(d.Options) == 0 && d.LikesStored == d.LikesActual
}

type Report struct {
	Polls     int `json:"polls"`
	Corrected int `json:"corrected"`
	Options   int `json:"options"`
	Likes     int `json:"likes"`
}

// Repository performs each mutation in a single transaction. Uniqueness of
// (poll, voter key) is enforced by the store.
type Repository interface {
	// CastVote inserts v and bumps the option counter. Returns
	// ErrOptionNotFound when the option is not part of the poll and
	// ErrAlreadyVoted when the voter already has a vote on it.
	CastVote(ctx context.Context, v *Vote) (*Tally, error)
	// AddLike returns the poll's like total after the insert, or ErrAlreadyLiked.
	AddLike(ctx context.Context, l *Like) (int64, error)
	// RemoveLike returns the poll's like total after the delete, or ErrLikeNotFound.
	RemoveLike(ctx context.Context, pollID int64, voterKey string) (int64, error)
	FindVote(ctx context.Context, pollID int64, voterKey string) (*Vote, error)
	FindLike(ctx context.Context, pollID int64, voterKey string) (*Like, error)
	Reconcile(ctx context.Context, pollID int64) (*Drift, error)
	PollIDs(ctx context.Context) ([]int64, error)
}

// Polls loads poll definitions with their stored option counters.
type Polls interface {
	GetByID(ctx context.Context, id int64) (*poll.Poll, error)
}

// Notifier is told about every committed counter change.
type Notifier interface {
	VoteRecorded(t Tally)
	LikeUpdated(t LikeTally)
}
