package api

import (
	"net/http"
	"time"

	"quickpoll/internal/platform/apperr"
)

type voteRequest struct {
	OptionID int64 `json:"option_id" validate:"required,gt=0"`
}

type voteResponse struct {
	PollID     int64     `json:"poll_id"`
	OptionID   int64     `json:"option_id"`
	VoteCount  int64     `json:"vote_count"`
	TotalVotes int64     `json:"total_votes"`
	VotedAt    time.Time `json:"voted_at"`
	Message    string    `json:"message"`
}

type voteStatusResponse struct {
	PollID    int64      `json:"poll_id"`
	UserVoted bool       `json:"user_voted"`
	OptionID  *int64     `json:"option_id,omitempty"`
	VotedAt   *time.Time `json:"voted_at,omitempty"`
}

// @Summary     Vote for an option
// @Description Anonymous callers vote under their session cookie.
// @Tags        votes
// @Accept      json
// @Produce     json
// @Param       id       path      int64        true  "Poll ID"
// @Param       request  body      voteRequest  true  "Vote payload"
// @Success     201      {object}  voteResponse
// @Failure     400      {object}  errorBody  "invalid body"
// @Failure     404      {object}  errorBody  "poll or option not found"
// @Failure     409      {object}  errorBody  "already voted"
// @Failure     429      {object}  errorBody  "rate limited"
// @Failure     500      {object}  errorBody  "server error"
// @Router      /api/v1/polls/{id}/vote [post]
func (h *Handler) handleVote(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	var req voteRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		errorResponse(w, err)
		return
	}

	t, err := h.voteSvc.CastVote(r.Context(), pollID, req.OptionID, identityFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, voteResponse{
		PollID:     t.PollID,
		OptionID:   t.OptionID,
		VoteCount:  t.OptionVotes,
		TotalVotes: t.TotalVotes,
		VotedAt:    t.VotedAt,
		Message:    "vote recorded",
	})
}

// @Summary     Caller's vote on a poll
// @Tags        votes
// @Produce     json
// @Param       id   path      int64  true  "Poll ID"
// @Success     200  {object}  voteStatusResponse
// @Failure     400  {object}  errorBody  "invalid poll id"
// @Failure     404  {object}  errorBody  "not found"
// @Failure     500  {object}  errorBody  "server error"
// @Router      /api/v1/polls/{id}/vote [get]
func (h *Handler) handleVoteStatus(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	v, err := h.voteSvc.VoteStatus(r.Context(), pollID, identityFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}

	resp := voteStatusResponse{PollID: pollID}
	if v != nil {
		resp.UserVoted = true
		resp.OptionID = &v.OptionID
		resp.VotedAt = &v.VotedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary     Poll results
// @Tags        polls
// @Produce     json
// @Param       id   path      int64  true  "Poll ID"
// @Success     200  {object}  vote.Results
// @Failure     400  {object}  errorBody  "invalid poll id"
// @Failure     404  {object}  errorBody  "not found"
// @Failure     500  {object}  errorBody  "server error"
// @Router      /api/v1/polls/{id}/results [get]
func (h *Handler) handlePollResults(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	res, err := h.voteSvc.Results(r.Context(), pollID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
