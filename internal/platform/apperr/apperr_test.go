package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCodePerKind(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{BadRequest("invalid_input", "", nil), http.StatusBadRequest},
		{Unauthorized("unauthenticated", "", nil), http.StatusUnauthorized},
		{Forbidden("forbidden", "", nil), http.StatusForbidden},
		{NotFound("survey_not_found", "", nil), http.StatusNotFound},
		{Conflict("already_voted", "", nil), http.StatusConflict},
		{RateLimited("rate_limited", "", nil), http.StatusTooManyRequests},
		{Internal("internal_error", "", nil), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := c.err.StatusCode(); got != c.want {
			t.Errorf("StatusCode() for %v = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestUnwrapKeepsChain(t *testing.T) {
	cause := errors.New("row missing")
	err := NotFound("survey_not_found", "survey not found", fmt.Errorf("get survey: %w", cause))

	if !errors.Is(err, cause) {
		t.Fatal("expected the cause to survive wrapping")
	}

	var appErr *AppError
	if !errors.As(error(err), &appErr) || appErr.Code != "survey_not_found" {
		t.Fatalf("errors.As lost the app error: %+v", appErr)
	}
}

func TestFromError(t *testing.T) {
	orig := Conflict("already_voted", "you already voted in this survey", nil)
	wrapped := fmt.Errorf("cast vote: %w", orig)

	if got := FromError(wrapped); got != orig {
		t.Fatalf("expected original app error back, got %+v", got)
	}

	plain := FromError(errors.New("socket closed"))
	if plain.Kind != KindInternal || plain.Code != "internal_error" {
		t.Fatalf("plain error not wrapped as internal: %+v", plain)
	}
	if plain.Message == "socket closed" {
		t.Fatal("raw error text must not become the client message")
	}

	if FromError(nil) != nil {
		t.Fatal("nil in, nil out")
	}
}

func TestErrorStringFallbacks(t *testing.T) {
	if got := BadRequest("invalid_input", "invalid body", nil).Error(); got != "invalid body" {
		t.Fatalf("message should win: %q", got)
	}
	if got := BadRequest("invalid_input", "", nil).Error(); got != "invalid_input" {
		t.Fatalf("code is the fallback: %q", got)
	}
	if got := New(KindInternal, "", "", errors.New("boom")).Error(); got != "boom" {
		t.Fatalf("cause is the last resort: %q", got)
	}
}
