package api

import (
	"net/http"

	"quickpoll/internal/domain/vote"
	"quickpoll/internal/platform/apperr"
)

type likeResponse struct {
	vote.LikeTally
	Message string `json:"message"`
}

type likeStatusResponse struct {
	PollID     int64 `json:"poll_id"`
	UserLiked  bool  `json:"user_liked"`
	TotalLikes int64 `json:"total_likes"`
}

// @Summary     Like poll
// @Tags        likes
// @Produce     json
// @Param       id   path      int64  true  "Poll ID"
// @Success     201  {object}  likeResponse
// @Failure     400  {object}  errorBody  "invalid poll id"
// @Failure     404  {object}  errorBody  "not found"
// @Failure     409  {object}  errorBody  "already liked"
// @Failure     429  {object}  errorBody  "rate limited"
// @Failure     500  {object}  errorBody  "server error"
// @Router      /api/v1/polls/{id}/like [post]
func (h *Handler) handleLike(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	t, err := h.voteSvc.Like(r.Context(), pollID, identityFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, likeResponse{LikeTally: *t, Message: "poll liked"})
}

// @Summary     Remove like
// @Tags        likes
// @Produce     json
// @Param       id   path      int64  true  "Poll ID"
// @Success     200  {object}  likeResponse
// @Failure     400  {object}  errorBody  "invalid poll id"
// @Failure     404  {object}  errorBody  "poll not found or not liked"
// @Failure     429  {object}  errorBody  "rate limited"
// @Failure     500  {object}  errorBody  "server error"
// @Router      /api/v1/polls/{id}/like [delete]
func (h *Handler) handleUnlike(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	t, err := h.voteSvc.Unlike(r.Context(), pollID, identityFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, likeResponse{LikeTally: *t, Message: "like removed"})
}

// @Summary     Caller's like state
// @Tags        likes
// @Produce     json
// @Param       id   path      int64  true  "Poll ID"
// @Success     200  {object}  likeStatusResponse
// @Failure     400  {object}  errorBody  "invalid poll id"
// @Failure     404  {object}  errorBody  "not found"
// @Failure     500  {object}  errorBody  "server error"
// @Router      /api/v1/polls/{id}/like [get]
func (h *Handler) handleLikeStatus(w http.ResponseWriter, r *http.Request) {
	pollID, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	liked, err := h.voteSvc.LikeStatus(r.Context(), pollID, identityFromCtx(r))
	if err != nil {
		errorResponse(w, err)
		return
	}
	res, err := h.voteSvc.Results(r.Context(), pollID)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, likeStatusResponse{
		PollID:     pollID,
		UserLiked:  liked,
		TotalLikes: res.TotalLikes,
	})
}
