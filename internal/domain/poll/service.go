package poll

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
)

const (
	MinOptions        = 2
	MaxOptions        = 10
	MinTitleLen       = 3
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
	MaxOptionLen      = 200

	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	ErrPollNotFound       = errors.New("poll not found")
	ErrForbidden          = errors.New("only the poll owner may do this")
	ErrOwnerRequired      = errors.New("an authenticated owner is required")
	ErrInvalidTitle       = errors.New("title must be between 3 and 200 characters")
	ErrDescriptionTooLong = errors.New("description must be at most 1000 characters")
	ErrTooFewOptions      = errors.New("poll must have at least 2 options")
	ErrTooManyOptions     = errors.New("poll cannot have more than 10 options")
	ErrOptionTooLong      = errors.New("option text must be at most 200 characters")
	ErrDuplicateOptions   = errors.New("poll options must be unique")
	ErrInvalidExpiry      = errors.New("expires_at must be in the future")
)

type Service struct {
	repo     Repository
	viewer   ViewerState
	cache    Cache
	notifier Notifier
	now      func() time.Time
}

// NewService wires the poll lifecycle. viewer, cache and notifier may be nil.
func NewService(repo Repository, viewer ViewerState, cache Cache, notifier Notifier) *Service {
	if cache == nil {
		cache = noCache{}
	}
	if notifier == nil {
		notifier = noNotifier{}
	}
	return &Service{
		repo:     repo,
		viewer:   viewer,
		cache:    cache,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *Service) Create(ctx context.Context, in CreateInput, owner Owner) (*Poll, error) {
	if owner.Key == "" || owner.UserID == nil {
		return nil, ErrOwnerRequired
	}

	title := strings.TrimSpace(in.Title)
	if n := utf8.RuneCountInString(title); n < MinTitleLen || n > MaxTitleLen {
		return nil, ErrInvalidTitle
	}

	var description *string
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if utf8.RuneCountInString(d) > MaxDescriptionLen {
			return nil, ErrDescriptionTooLong
		}
		if d != "" {
			description = &d
		}
	}

	texts, err := NormalizeOptions(in.Options)
	if err != nil {
		return nil, err
	}

	if in.ExpiresAt != nil && !in.ExpiresAt.After(s.now()) {
		return nil, ErrInvalidExpiry
	}

	createdBy := owner.Display
	if createdBy == "" {
		createdBy = "anonymous"
	}

	p := &Poll{
		Title:       title,
		Description: description,
		IsActive:    true,
		ExpiresAt:   in.ExpiresAt,
		OwnerKey:    owner.Key,
		OwnerID:     owner.UserID,
		CreatedBy:   createdBy,
	}
	options := lo.Map(texts, func(text string, i int) Option {
		return Option{Text: text, Position: i}
	})

	if _, err := s.repo.Create(ctx, p, options); err != nil {
		return nil, err
	}
	p.Options = options

	s.notifier.PollCreated(*p)
	return p, nil
}

// NormalizeOptions trims option texts, drops blank ones and enforces count,
// length and uniqueness.
func NormalizeOptions(raw []string) ([]string, error) {
	texts := lo.Compact(lo.Map(raw, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))

	if len(texts) < MinOptions {
		return nil, ErrTooFewOptions
	}
	if len(texts) > MaxOptions {
		return nil, ErrTooManyOptions
	}
	if lo.SomeBy(texts, func(s string) bool { return utf8.RuneCountInString(s) > MaxOptionLen }) {
		return nil, ErrOptionTooLong
	}
	if len(lo.Uniq(texts)) != len(texts) {
		return nil, ErrDuplicateOptions
	}
	return texts, nil
}

// Get returns the poll with live counters and, when viewerKey is set, the
// viewer's own vote and like state.
func (s *Service) Get(ctx context.Context, id int64, viewerKey string) (*Detail, error) {
	def, err := s.definition(ctx, id)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.Counts(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPollNotFound) {
			s.cache.Delete(ctx, id)
		}
		return nil, err
	}

	d := &Detail{Poll: *def}
	d.Options = lo.Map(def.Options, func(o Option, _ int) Option {
		o.VoteCount = counts.Options[o.ID]
		return o
	})
	d.TotalVotes = lo.SumBy(d.Options, func(o Option) int64 { return o.VoteCount })
	d.LikeCount = counts.Likes

	if viewerKey != "" && s.viewer != nil {
		optionID, err := s.viewer.VotedOption(ctx, id, viewerKey)
		if err != nil {
			return nil, err
		}
		d.UserVoted = optionID != nil
		d.UserOptionID = optionID

		liked, err := s.viewer.HasLiked(ctx, id, viewerKey)
		if err != nil {
			return nil, err
		}
		d.UserLiked = liked
	}

	return d, nil
}

func (s *Service) definition(ctx context.Context, id int64) (*Poll, error) {
	if p, ok := s.cache.Get(ctx, id); ok {
		return p, nil
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, p)
	return p, nil
}

func (s *Service) List(ctx context.Context, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	polls, total, err := s.repo.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if polls == nil {
		polls = []Poll{}
	}
	return &Page{Polls: polls, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *Service) SetActive(ctx context.Context, id int64, actor Owner, active bool) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(p, actor); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.cache.Delete(ctx, id)
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64, actor Owner) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(p, actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(ctx, id)
	s.notifier.PollDeleted(id)
	return nil
}

// Authorize checks that actor may run owner-only operations on poll id.
func (s *Service) Authorize(ctx context.Context, id int64, actor Owner) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return authorize(p, actor)
}

// DeactivateExpired closes every poll whose expiry has passed.
func (s *Service) DeactivateExpired(ctx context.Context) ([]int64, error) {
	ids, err := s.repo.DeactivateExpired(ctx, s.now())
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		s.cache.Delete(ctx, id)
	}
	return ids, nil
}

func authorize(p *Poll, actor Owner) error {
	if actor.Admin {
		return nil
	}
	if actor.Key == "" || actor.Key != p.OwnerKey {
		return ErrForbidden
	}
	return nil
}

type noCache struct{}

func (noCache) Get(context.Context, int64) (*Poll, bool) { return nil, false }
func (noCache) Set(context.Context, *Poll)               {}
func (noCache) Delete(context.Context, int64)            {}

type noNotifier struct{}

func (noNotifier) PollCreated(Poll)  {}
func (noNotifier) PollDeleted(int64) {}
