package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindStatusMapping(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{NotFound("poll_not_found", "poll not found", nil), http.StatusNotFound},
		{Conflict("already_voted", "already voted", nil), http.StatusConflict},
		{Forbidden("forbidden", "nope", nil), http.StatusForbidden},
		{TooManyRequests("rate_limited", "slow down", nil), http.StatusTooManyRequests},
		{Internal("internal_error", "boom", nil), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := c.err.StatusCode(); got != c.status {
			t.Fatalf("%s: expected %d, got %d", c.err.Code, c.status, got)
		}
	}
}

func TestFromErrorUnwrapsChain(t *testing.T) {
	base := errors.New("duplicate")
	wrapped := fmt.Errorf("cast vote: %w", Conflict("already_voted", "already voted", base))

	appErr := FromError(wrapped)
	if appErr.Code != "already_voted" {
		t.Fatalf("expected already_voted, got %s", appErr.Code)
	}
	if !errors.Is(appErr, base) {
		t.Fatalf("expected underlying error to be preserved")
	}
	if KindOf(wrapped) != KindConflict {
		t.Fatalf("expected conflict kind")
	}
	if KindOf(base) != KindInternal {
		t.Fatalf("expected plain errors to be internal")
	}
}
