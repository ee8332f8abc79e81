package realtime

import (
	"strings"
	"testing"

	"quickpoll/internal/domain/poll"
	"quickpoll/internal/domain/vote"
)

type recordingBroadcaster struct {
	events []Event
}

func (r *recordingBroadcaster) Broadcast(ev Event) bool {
	r.events = append(r.events, ev)
	return true
}

func TestNotifierEventShapes(t *testing.T) {
	b := &recordingBroadcaster{}
	n := NewNotifier(b)

	n.PollCreated(poll.Poll{ID: 4, Title: "Lunch", OwnerKey: "user:1"})
	n.VoteRecorded(vote.Tally{PollID: 4, OptionID: 9, OptionVotes: 1, TotalVotes: 1})
	n.LikeUpdated(vote.LikeTally{PollID: 4, TotalLikes: 0, Action: vote.ActionUnliked})
	n.PollDeleted(4)

	want := []string{
		`{"type":"poll_created","data":{"id":4,"title":"Lunch"`,
		`{"type":"vote_update","data":{"poll_id":4,"option_id":9,"vote_count":1,"total_votes":1}}`,
		`{"type":"like_update","data":{"poll_id":4,"total_likes":0,"action":"unliked"}}`,
		`{"type":"poll_deleted","data":{"poll_id":4}}`,
	}
	if len(b.events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(b.events))
	}
	for i, ev := range b.events {
		raw, err := encode(ev)
		if err != nil {
			t.Fatalf("encode %s: %v", ev.Type, err)
		}
		if !strings.HasPrefix(string(raw), want[i]) {
			t.Fatalf("event %d:\n got  %s\n want %s", i, raw, want[i])
		}
	}

	created, _ := encode(b.events[0])
	if strings.Contains(string(created), "user:1") {
		t.Fatalf("owner key must not leak in poll_created: %s", created)
	}
}
