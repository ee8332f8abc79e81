package api

import (
	"net/http"
	"time"

	"quickpoll/internal/domain/poll"
	"quickpoll/internal/platform/apperr"
)

type createPollRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=1000"`
	Options     []string   `json:"options" validate:"required,min=2,max=10,dive,max=200"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

type updateStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

func ownerFromCtx(r *http.Request) poll.Owner {
	id := identityFromCtx(r)
	return poll.Owner{Key: id.Key, UserID: id.UserID, Admin: id.IsAdmin()}
}

// @Summary     Create poll
// @Tags        polls
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request  body      createPollRequest  true  "Poll definition"
// @Success     201      {object}  poll.Poll
// @Failure     400      {object}  errorBody  "invalid poll"
// @Failure     401      {object}  errorBody  "unauthorized"
// @Failure     500      {object}  errorBody  "server error"
// @Router      /api/v1/polls [post]
func (h *Handler) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	var req createPollRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		errorResponse(w, err)
		return
	}

	owner := ownerFromCtx(r)
	if owner.UserID != nil {
		u, err := h.userSvc.GetByID(r.Context(), *owner.UserID)
		if err != nil {
			errorResponse(w, err)
			return
		}
		owner.Display = u.Email
		if u.Username != nil && *u.Username != "" {
			owner.Display = *u.Username
		}
	}

	p, err := h.pollSvc.Create(r.Context(), poll.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Options:     req.Options,
		ExpiresAt:   req.ExpiresAt,
	}, owner)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// @Summary     List polls
// @Tags        polls
// @Produce     json
// @Param       page       query     int  false  "Page number"
// @Param       page_size  query     int  false  "Page size"
// @Success     200        {object}  poll.Page
// @Failure     500        {object}  errorBody  "server error"
// @Router      /api/v1/polls [get]
func (h *Handler) handleListPolls(w http.ResponseWriter, r *http.Request) {
	page, err := h.pollSvc.List(r.Context(), queryInt(r, "page", 1), queryInt(r, "page_size", poll.DefaultPageSize))
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// @Summary     Get poll
// @Description Live counters plus the caller's own vote and like state.
// @Tags        polls
// @Produce     json
// @Param       id   path      int64  true  "Poll ID"
// @Success     200  {object}  poll.Detail
// @Failure     400  {object}  errorBody  "invalid poll id"
// @Failure     404  {object}  errorBody  "not found"
// @Failure     500  {object}  errorBody  "server error"
// @Router      /api/v1/polls/{id} [get]
func (h *Handler) handleGetPoll(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	d, err := h.pollSvc.Get(r.Context(), id, identityFromCtx(r).Key)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// @Summary     Delete poll
// @Tags        polls
// @Security    BearerAuth
// @Param       id   path  int64  true  "Poll ID"
// @Success     204
// @Failure     400  {object}  errorBody  "invalid poll id"
// @Failure     401  {object}  errorBody  "unauthorized"
// @Failure     403  {object}  errorBody  "not the owner"
// @Failure     404  {object}  errorBody  "not found"
// @Failure     500  {object}  errorBody  "server error"
// @Router      /api/v1/polls/{id} [delete]
func (h *Handler) handleDeletePoll(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	if err := h.pollSvc.Delete(r.Context(), id, ownerFromCtx(r)); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary     Open or close poll
// @Tags        polls
// @Security    BearerAuth
// @Accept      json
// @Param       id       path  int64                true  "Poll ID"
// @Param       request  body  updateStatusRequest  true  "New state"
// @Success     204
// @Failure     400      {object}  errorBody  "invalid id or body"
// @Failure     401      {object}  errorBody  "unauthorized"
// @Failure     403      {object}  errorBody  "not the owner"
// @Failure     404      {object}  errorBody  "not found"
// @Failure     500      {object}  errorBody  "server error"
// @Router      /api/v1/polls/{id}/status [patch]
func (h *Handler) handleUpdatePollStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	var req updateStatusRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		errorResponse(w, err)
		return
	}

	if err := h.pollSvc.SetActive(r.Context(), id, ownerFromCtx(r), *req.IsActive); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// @Summary     Reconcile poll counters
// @Description Recomputes stored vote and like counters from the recorded rows.
// @Tags        polls
// @Security    BearerAuth
// @Produce     json
// @Param       id   path      int64  true  "Poll ID"
// @Success     200  {object}  vote.Drift
// @Failure     400  {object}  errorBody  "invalid poll id"
// @Failure     401  {object}  errorBody  "unauthorized"
// @Failure     403  {object}  errorBody  "not the owner"
// @Failure     404  {object}  errorBody  "not found"
// @Failure     500  {object}  errorBody  "server error"
// @Router      /api/v1/polls/{id}/reconcile [post]
func (h *Handler) handleReconcilePoll(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid poll id", err))
		return
	}

	if err := h.pollSvc.Authorize(r.Context(), id, ownerFromCtx(r)); err != nil {
		errorResponse(w, err)
		return
	}

	drift, err := h.voteSvc.Reconcile(r.Context(), id)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, drift)
}
