package poll

import (
	"context"
	"time"
)

type Poll struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	OwnerKey    string     `json:"-" db:"owner_key"`
	OwnerID     *int64     `json:"owner_id,omitempty" db:"owner_id"`
	CreatedBy   string     `json:"created_by" db:"created_by"`
	LikeCount   int64      `json:"total_likes" db:"like_count"`
	TotalVotes  int64      `json:"total_votes" db:"total_votes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	Options     []Option   `json:"options,omitempty" db:"-"`
}

// Open reports whether the poll still accepts votes and likes at now.
func (p *Poll) Open(now time.Time) bool {
	if p == nil || !p.IsActive {
		return false
	}
	return p.ExpiresAt == nil || p.ExpiresAt.After(now)
}

type Option struct {
	ID        int64  `json:"id" db:"id"`
	PollID    int64  `json:"poll_id" db:"poll_id"`
	Text      string `json:"option_text" db:"text"`
	Position  int    `json:"position" db:"position"`
	VoteCount int64  `json:"vote_count" db:"vote_count"`
}

// Detail is a poll as seen by one viewer.
type Detail struct {
	Poll
	UserVoted    bool   `json:"user_voted"`
	UserOptionID *int64 `json:"user_option_id,omitempty"`
	UserLiked    bool   `json:"user_liked"`
}

type CreateInput struct {
	Title       string
	Description *string
	Options     []string
	ExpiresAt   *time.Time
}

// Owner is the identity a poll is created by and checked against for owner-only actions.
type Owner struct {
	Key     string
	UserID  *int64
	Display string
	Admin   bool
}

// Counts are the live counters of a poll, always read from the store.
type Counts struct {
	Options map[int64]int64
	Likes   int64
}

type Page struct {
	Polls    []Poll `json:"polls"`
	Total    int64  `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

type Repository interface {
	Create(ctx context.Context, p *Poll, options []Option) (int64, error)
	GetByID(ctx context.Context, id int64) (*Poll, error)
	Counts(ctx context.Context, id int64) (*Counts, error)
	List(ctx context.Context, limit, offset int) ([]Poll, int64, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	DeactivateExpired(ctx context.Context, now time.Time) ([]int64, error)
}

// ViewerState answers per-identity questions for a poll detail.
type ViewerState interface {
	VotedOption(ctx context.Context, pollID int64, voterKey string) (*int64, error)
	HasLiked(ctx context.Context, pollID int64, voterKey string) (bool, error)
}

// Cache holds poll definitions. Counters never come from the cache.
type Cache interface {
	Get(ctx context.Context, id int64) (*Poll, bool)
	Set(ctx context.Context, p *Poll)
	Delete(ctx context.Context, id int64)
}

type Notifier interface {
	PollCreated(p Poll)
	PollDeleted(id int64)
}
