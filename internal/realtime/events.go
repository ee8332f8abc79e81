package realtime

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	TypeConnected   = "connected"
	TypePollCreated = "poll_created"
	TypePollDeleted = "poll_deleted"
	TypeVoteUpdate  = "vote_update"
	TypeLikeUpdate  = "like_update"
)

// Event is one frame pushed to every live connection.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type Connected struct {
	ClientID string `json:"client_id"`
	Message  string `json:"message"`
}

type VoteUpdate struct {
	PollID     int64 `json:"poll_id"`
	OptionID   int64 `json:"option_id"`
	VoteCount  int64 `json:"vote_count"`
	TotalVotes int64 `json:"total_votes"`
}

type LikeUpdate struct {
	PollID     int64  `json:"poll_id"`
	TotalLikes int64  `json:"total_likes"`
	Action     string `json:"action"`
}

type PollDeleted struct {
	PollID int64 `json:"poll_id"`
}

func encode(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}
