package api

import (
	"net/http"

	"quickpoll/internal/domain/user"
	"quickpoll/internal/platform/apperr"
)

type registerRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User  *user.User `json:"user"`
	Token string     `json:"token"`
}

// @Summary     Register
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request  body      registerRequest  true  "Credentials"
// @Success     201      {object}  authResponse
// @Failure     400      {object}  errorBody  "invalid input or email taken"
// @Failure     500      {object}  errorBody  "server error"
// @Router      /api/v1/auth/register [post]
func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		errorResponse(w, err)
		return
	}

	u, err := h.userSvc.Register(r.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		errorResponse(w, err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, u)
}

// @Summary     Login
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request  body      loginRequest  true  "Credentials"
// @Success     200      {object}  authResponse
// @Failure     400      {object}  errorBody  "invalid input"
// @Failure     401      {object}  errorBody  "invalid credentials"
// @Failure     500      {object}  errorBody  "server error"
// @Router      /api/v1/auth/login [post]
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		errorResponse(w, err)
		return
	}

	u, err := h.userSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		errorResponse(w, err)
		return
	}

	h.respondWithToken(w, http.StatusOK, u)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, status int, u *user.User) {
	token, err := h.jwtMgr.Generate(u.ID, u.Role, u.Email)
	if err != nil {
		errorResponse(w, apperr.Internal("token_error", "could not issue token", err))
		return
	}
	writeJSON(w, status, authResponse{User: u, Token: token})
}

// @Summary     Current user
// @Tags        auth
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  user.User
// @Failure     401  {object}  errorBody  "unauthorized"
// @Failure     404  {object}  errorBody  "user no longer exists"
// @Router      /api/v1/auth/me [get]
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	id := identityFromCtx(r)
	u, err := h.userSvc.GetByID(r.Context(), *id.UserID)
	if err != nil {
		errorResponse(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// @Summary     Delete own account
// @Description Owned polls are removed; votes and likes keep counting anonymously.
// @Tags        auth
// @Security    BearerAuth
// @Success     204
// @Failure     401  {object}  errorBody  "unauthorized"
// @Failure     404  {object}  errorBody  "user no longer exists"
// @Router      /api/v1/auth/me [delete]
func (h *Handler) handleDeleteMe(w http.ResponseWriter, r *http.Request) {
	id := identityFromCtx(r)
	if err := h.userSvc.Delete(r.Context(), *id.UserID); err != nil {
		errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
