// Package identity derives the voter/liker key that vote and like uniqueness
// is scoped to. Authenticated requests resolve to their user; anonymous
// requests resolve to a long-lived session token carried in a cookie.
package identity

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	jwtpkg "quickpoll/internal/platform/jwt"
)

type Kind string

const (
	KindUser      Kind = "user"
	KindAnonymous Kind = "anon"
)

type Identity struct {
	Key    string
	Kind   Kind
	UserID *int64
	Role   string
}

func ForUser(id int64, role string) Identity {
	return Identity{
		Key:    string(KindUser) + ":" + strconv.FormatInt(id, 10),
		Kind:   KindUser,
		UserID: &id,
		Role:   role,
	}
}

func ForSession(token string) Identity {
	return Identity{Key: string(KindAnonymous) + ":" + token, Kind: KindAnonymous}
}

func (i Identity) IsAuthenticated() bool {
	return i.Kind == KindUser && i.UserID != nil
}

func (i Identity) IsAdmin() bool {
	return i.IsAuthenticated() && i.Role == "admin"
}

// Resolution is the outcome of Resolve. Minted means the session token is
// new and the caller must hand it to the client via Persist.
type Resolution struct {
	Identity Identity
	Token    string
	Minted   bool
}

type TokenParser interface {
	Parse(token string) (*jwtpkg.Claims, error)
}

type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

type Resolver struct {
	tokens   TokenParser
	cookie   CookieOptions
	newToken func() string
}

func NewResolver(tokens TokenParser, cookie CookieOptions) *Resolver {
	if cookie.Name == "" {
		cookie.Name = "session_id"
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = 30 * 24 * time.Hour
	}
	return &Resolver{
		tokens:   tokens,
		cookie:   cookie,
		newToken: func() string { return uuid.NewString() },
	}
}

// Resolve never fails: a missing or malformed bearer token falls through to
// the session cookie, and a missing or malformed cookie mints a fresh token.
func (r *Resolver) Resolve(req *http.Request) Resolution {
	if id, ok := r.Principal(req); ok {
		return Resolution{Identity: id}
	}

	if c, err := req.Cookie(r.cookie.Name); err == nil {
		if tok, err := uuid.Parse(c.Value); err == nil {
			s := tok.String()
			return Resolution{Identity: ForSession(s), Token: s}
		}
	}

	tok := r.newToken()
	return Resolution{Identity: ForSession(tok), Token: tok, Minted: true}
}

// Principal returns the authenticated identity carried by the bearer token, if any.
func (r *Resolver) Principal(req *http.Request) (Identity, bool) {
	raw, ok := BearerToken(req)
	if !ok || r.tokens == nil {
		return Identity{}, false
	}
	claims, err := r.tokens.Parse(raw)
	if err != nil {
		return Identity{}, false
	}
	userID, err := claims.UserID()
	if err != nil {
		return Identity{}, false
	}
	return ForUser(userID, claims.Role), true
}

// Persist stores a freshly minted session token on the client.
func (r *Resolver) Persist(w http.ResponseWriter, res Resolution) {
	if !res.Minted || res.Token == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     r.cookie.Name,
		Value:    res.Token,
		Path:     "/",
		MaxAge:   int(r.cookie.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   r.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func BearerToken(req *http.Request) (string, bool) {
	h := req.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
