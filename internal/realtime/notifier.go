package realtime

import (
	"quickpoll/internal/domain/poll"
	"quickpoll/internal/domain/vote"
)

type Broadcaster interface {
	Broadcast(ev Event) bool
}

// Notifier turns committed domain changes into broadcast events.
type Notifier struct {
	b Broadcaster
}

func NewNotifier(b Broadcaster) *Notifier {
	return &Notifier{b: b}
}

func (n *Notifier) PollCreated(p poll.Poll) {
	n.b.Broadcast(Event{Type: TypePollCreated, Data: p})
}

func (n *Notifier) PollDeleted(id int64) {
	n.b.Broadcast(Event{Type: TypePollDeleted, Data: PollDeleted{PollID: id}})
}

func (n *Notifier) VoteRecorded(t vote.Tally) {
	n.b.Broadcast(Event{Type: TypeVoteUpdate, Data: VoteUpdate{
		PollID:     t.PollID,
		OptionID:   t.OptionID,
		VoteCount:  t.OptionVotes,
		TotalVotes: t.TotalVotes,
	}})
}

func (n *Notifier) LikeUpdated(t vote.LikeTally) {
	n.b.Broadcast(Event{Type: TypeLikeUpdate, Data: LikeUpdate{
		PollID:     t.PollID,
		TotalLikes: t.TotalLikes,
		Action:     t.Action,
	}})
}
