// Package cache keeps poll definitions in process memory so detail reads
// skip the definition query. Live counters are never stored here.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	ristrettostore "github.com/eko/gocache/store/ristretto/v4"

	"quickpoll/internal/domain/poll"
)

type PollCache struct {
	m   *marshaler.Marshaler
	ttl time.Duration
	log *slog.Logger
}

// NewPollCache builds a ristretto-backed cache holding at most maxItems polls.
func NewPollCache(maxItems int64, ttl time.Duration, logger *slog.Logger) (*PollCache, error) {
	if maxItems <= 0 {
		maxItems = 10000
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("ristretto: %w", err)
	}

	manager := cache.New[any](ristrettostore.NewRistretto(client))
	return &PollCache{
		m:   marshaler.New(manager),
		ttl: ttl,
		log: logger,
	}, nil
}

func key(id int64) string {
	return fmt.Sprintf("poll#%d", id)
}

func (c *PollCache) Get(ctx context.Context, id int64) (*poll.Poll, bool) {
	v, err := c.m.Get(ctx, key(id), new(poll.Poll))
	if err != nil {
		return nil, false
	}
	p, ok := v.(*poll.Poll)
	return p, ok && p != nil
}

func (c *PollCache) Set(ctx context.Context, p *poll.Poll) {
	if p == nil {
		return
	}
	def := *p
	def.LikeCount = 0
	def.TotalVotes = 0
	def.Options = make([]poll.Option, len(p.Options))
	for i, o := range p.Options {
		o.VoteCount = 0
		def.Options[i] = o
	}

	opts := []store.Option{store.WithCost(1)}
	if c.ttl > 0 {
		opts = append(opts, store.WithExpiration(c.ttl))
	}
	if err := c.m.Set(ctx, key(p.ID), def, opts...); err != nil {
		c.log.Warn("poll cache set failed", "poll_id", p.ID, "err", err)
	}
}

func (c *PollCache) Delete(ctx context.Context, id int64) {
	if err := c.m.Delete(ctx, key(id)); err != nil {
		c.log.Warn("poll cache delete failed", "poll_id", id, "err", err)
	}
}
