package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Unauthenticated("no token"), http.StatusUnauthorized},
		{Forbidden("nope"), http.StatusForbidden},
		{NotFound("missing"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFound("missing")), http.StatusNotFound},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Fatalf("Status(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestMessageHidesInternalDetails(t *testing.T) {
	err := Internal(errors.New("connection refused to 10.0.0.3"))
	if got := Message(err); got != "server error" {
		t.Fatalf("expected generic message, got %q", got)
	}
	if got := Message(errors.New("raw driver error")); got != "server error" {
		t.Fatalf("expected generic message for foreign error, got %q", got)
	}
	if got := Message(Validation("Images required")); got != "Images required" {
		t.Fatalf("expected validation message, got %q", got)
	}
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("cause")
	if !errors.Is(Internal(cause), cause) {
		t.Fatal("expected Internal to unwrap to its cause")
	}
}
