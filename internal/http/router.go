package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"quickpoll/internal/domain/poll"
	"quickpoll/internal/domain/user"
	"quickpoll/internal/domain/vote"
	"quickpoll/internal/identity"
	jwtpkg "quickpoll/internal/platform/jwt"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Deps struct {
	Users    *user.Service
	Polls    *poll.Service
	Votes    *vote.Service
	Tokens   *jwtpkg.Manager
	Resolver *identity.Resolver
	// Live serves the websocket endpoint; nil leaves /ws unmounted.
	Live http.Handler
	DB   Pinger

	AllowedOrigins []string
	VoteRatePerMin int
	VoteRateBurst  int
	RequestTimeout time.Duration
}

type Handler struct {
	userSvc *user.Service
	pollSvc *poll.Service
	voteSvc *vote.Service
	jwtMgr  *jwtpkg.Manager
	db      Pinger
}

func NewRouter(d Deps) http.Handler {
	h := &Handler{
		userSvc: d.Users,
		pollSvc: d.Polls,
		voteSvc: d.Votes,
		jwtMgr:  d.Tokens,
		db:      d.DB,
	}

	resolver := d.Resolver
	if resolver == nil {
		resolver = identity.NewResolver(d.Tokens, identity.CookieOptions{})
	}
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	limit := rate.Inf
	if d.VoteRatePerMin > 0 {
		limit = rate.Every(time.Minute / time.Duration(d.VoteRatePerMin))
	}
	burst := d.VoteRateBurst
	if burst <= 0 {
		burst = 1
	}
	throttle := RateLimitMutations(limit, burst)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(RequestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	// Websocket connections outlive the request timeout.
	if d.Live != nil {
		r.Get("/ws", d.Live.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(timeout))
		r.Use(CORSMiddleware(d.AllowedOrigins))

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(IdentityMiddleware(resolver))

			r.Post("/auth/register", h.handleRegister)
			r.Post("/auth/login", h.handleLogin)

			r.Get("/polls", h.handleListPolls)
			r.Get("/polls/{id}", h.handleGetPoll)
			r.Get("/polls/{id}/results", h.handlePollResults)

			r.With(throttle).Post("/polls/{id}/vote", h.handleVote)
			r.Get("/polls/{id}/vote", h.handleVoteStatus)
			r.With(throttle).Post("/polls/{id}/like", h.handleLike)
			r.With(throttle).Delete("/polls/{id}/like", h.handleUnlike)
			r.Get("/polls/{id}/like", h.handleLikeStatus)

			r.Group(func(r chi.Router) {
				r.Use(AuthMiddleware(d.Tokens))

				r.Get("/auth/me", h.handleMe)
				r.Delete("/auth/me", h.handleDeleteMe)

				r.Post("/polls", h.handleCreatePoll)
				r.Delete("/polls/{id}", h.handleDeletePoll)
				r.Patch("/polls/{id}/status", h.handleUpdatePollStatus)
				r.Post("/polls/{id}/reconcile", h.handleReconcilePoll)

				r.Group(func(r chi.Router) {
					r.Use(RequireRole(user.RoleAdmin))
					r.Get("/users", h.handleListUsers)
					r.Patch("/users/{id}/role", h.handleUpdateUserRole)
					r.Patch("/users/{id}/deactivate", h.handleDeactivateUser)
					r.Delete("/users/{id}", h.handleDeleteUser)
				})
			})
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err == nil && id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, err
}

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return v
}

// @Summary     Readiness probe
// @Tags        health
// @Produce     json
// @Success     200  {object}  map[string]string
// @Failure     503  {object}  errorBody  "database not ready"
// @Router      /ready [get]
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Error:   "db_unavailable",
			Message: "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Error:   "db_unavailable",
			Message: "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
