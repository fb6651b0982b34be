package models

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable failure category surfaced to callers.
type ErrorKind string

const (
	ErrInvalidInput       ErrorKind = "invalid_input"
	ErrUnauthenticated    ErrorKind = "unauthenticated"
	ErrNotFound           ErrorKind = "not_found"
	ErrRateLimited        ErrorKind = "rate_limited"
	ErrUpstream           ErrorKind = "upstream_error"
	ErrPageLoadTimeout    ErrorKind = "page_load_timeout"
	ErrParseFailure       ErrorKind = "parse_failure"
	ErrBlockedOrChanged   ErrorKind = "blocked_or_changed"
	ErrScraperUnavailable ErrorKind = "scraper_unavailable"
	ErrBothMethodsFailed  ErrorKind = "both_methods_failed"
	ErrEmptyExtract       ErrorKind = "empty_extract"
	ErrFormat             ErrorKind = "format_error"
)

// ExtractError ties a failure to its kind and the extraction method that
// produced it. Method is empty for failures raised before any adapter ran.
type ExtractError struct {
	Kind   ErrorKind
	Method Method
	Err    error
}

func (e *ExtractError) Error() string {
	prefix := string(e.Kind)
	if e.Method != "" {
		prefix = fmt.Sprintf("%s: %s", e.Method, e.Kind)
	}
	if e.Err == nil {
		return prefix
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// NewError wraps err with a kind and method.
func NewError(kind ErrorKind, method Method, err error) *ExtractError {
	return &ExtractError{Kind: kind, Method: method, Err: err}
}

// Errorf builds a typed error from a format string.
func Errorf(kind ErrorKind, method Method, format string, args ...interface{}) *ExtractError {
	return &ExtractError{Kind: kind, Method: method, Err: fmt.Errorf(format, args...)}
}

// FallbackError aggregates the failures of both extraction methods. It is
// raised only by the orchestrator, after the API attempt and the scrape
// attempt have both failed, and carries both underlying errors so neither is
// silently dropped.
type FallbackError struct {
	API    *ExtractError
	Scrape *ExtractError
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("both extraction methods failed: api failed with %s (%v); scrape failed with %s (%v)",
		e.API.Kind, e.API.Err, e.Scrape.Kind, e.Scrape.Err)
}

// Kinds returns the two underlying kinds in attempt order.
func (e *FallbackError) Kinds() [2]ErrorKind {
	return [2]ErrorKind{e.API.Kind, e.Scrape.Kind}
}

// KindOf reports the kind of any error in the chain. Untyped errors map to
// the generic upstream kind.
func KindOf(err error) ErrorKind {
	var fallback *FallbackError
	if errors.As(err, &fallback) {
		return ErrBothMethodsFailed
	}
	var extract *ExtractError
	if errors.As(err, &extract) {
		return extract.Kind
	}
	return ErrUpstream
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
