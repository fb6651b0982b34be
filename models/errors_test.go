package models

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "typed error",
			err:  Errorf(ErrNotFound, MethodAPI, "playlist missing"),
			want: ErrNotFound,
		},
		{
			name: "wrapped typed error",
			err:  fmt.Errorf("fetch: %w", Errorf(ErrRateLimited, MethodAPI, "HTTP 429")),
			want: ErrRateLimited,
		},
		{
			name: "fallback aggregate",
			err: &FallbackError{
				API:    Errorf(ErrRateLimited, MethodAPI, "HTTP 429"),
				Scrape: Errorf(ErrPageLoadTimeout, MethodScrape, "page did not render"),
			},
			want: ErrBothMethodsFailed,
		},
		{
			name: "untyped error",
			err:  errors.New("connection reset"),
			want: ErrUpstream,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %s; want %s", got, tt.want)
			}
		})
	}
}

func TestIsKindNilError(t *testing.T) {
	if IsKind(nil, ErrUpstream) {
		t.Error("IsKind(nil, ...) = true; want false")
	}
}

func TestFallbackErrorMessageNamesBothReasons(t *testing.T) {
	err := &FallbackError{
		API:    Errorf(ErrUnauthenticated, MethodAPI, "credentials not configured"),
		Scrape: Errorf(ErrBlockedOrChanged, MethodScrape, "HTTP 403"),
	}

	msg := err.Error()
	for _, fragment := range []string{
		string(ErrUnauthenticated), string(ErrBlockedOrChanged),
		"credentials not configured", "HTTP 403",
	} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("Error() missing %q: %s", fragment, msg)
		}
	}

	kinds := err.Kinds()
	if kinds[0] != ErrUnauthenticated || kinds[1] != ErrBlockedOrChanged {
		t.Errorf("Kinds() = %v", kinds)
	}
}

func TestExtractErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewError(ErrUpstream, MethodScrape, cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}
