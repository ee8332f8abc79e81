package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwtpkg "quickpoll/internal/platform/jwt"
)

func newTestResolver() (*Resolver, *jwtpkg.Manager) {
	mgr := jwtpkg.NewManager("secret", "test-issuer", time.Hour)
	return NewResolver(mgr, CookieOptions{Name: "session_id", MaxAge: time.Hour}), mgr
}

func TestResolveAuthenticatedPrincipal(t *testing.T) {
	r, mgr := newTestResolver()
	token, err := mgr.Generate(7, "user", "u@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	res := r.Resolve(req)
	if res.Minted {
		t.Fatalf("authenticated requests must not mint a session")
	}
	if res.Identity.Key != "user:7" || !res.Identity.IsAuthenticated() {
		t.Fatalf("unexpected identity %+v", res.Identity)
	}
}

func TestResolveReusesSessionCookie(t *testing.T) {
	r, _ := newTestResolver()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "6f1c2a9e-58d4-4f0e-9a55-1a4f3f7b2c10"})

	res := r.Resolve(req)
	if res.Minted {
		t.Fatalf("expected existing session to be reused")
	}
	if res.Identity.Key != "anon:6f1c2a9e-58d4-4f0e-9a55-1a4f3f7b2c10" {
		t.Fatalf("unexpected key %s", res.Identity.Key)
	}
}

func TestResolveMintsOnMissingOrMalformedState(t *testing.T) {
	r, _ := newTestResolver()

	bare := httptest.NewRequest(http.MethodGet, "/", nil)
	first := r.Resolve(bare)
	if !first.Minted || !strings.HasPrefix(first.Identity.Key, "anon:") {
		t.Fatalf("expected minted anonymous identity, got %+v", first)
	}

	bad := httptest.NewRequest(http.MethodGet, "/", nil)
	bad.AddCookie(&http.Cookie{Name: "session_id", Value: "not-a-token"})
	bad.Header.Set("Authorization", "Bearer garbage")
	second := r.Resolve(bad)
	if !second.Minted {
		t.Fatalf("expected malformed state to mint a fresh token")
	}
	if second.Token == first.Token {
		t.Fatalf("expected distinct tokens per mint")
	}
}

func TestPersistSetsCookieOnlyWhenMinted(t *testing.T) {
	r, _ := newTestResolver()

	rec := httptest.NewRecorder()
	r.Persist(rec, Resolution{Identity: ForSession("abc"), Token: "abc"})
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no cookie for reused session")
	}

	rec = httptest.NewRecorder()
	r.Persist(rec, Resolution{Identity: ForSession("abc"), Token: "abc", Minted: true})
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "session_id" || c.Value != "abc" || !c.HttpOnly || c.MaxAge != 3600 {
		t.Fatalf("unexpected cookie %+v", c)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithIdentity(context.Background(), ForUser(3, "admin"))
	id, ok := FromContext(ctx)
	if !ok || !id.IsAdmin() {
		t.Fatalf("expected admin identity from context, got %+v", id)
	}
	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("expected no identity in empty context")
	}
}
