package spotify

import (
	"errors"
	"net/http"
	"strings"

	spotifyclient "github.com/zmb3/spotify/v2"

	"tracklift/models"
)

// mapAPIError converts an upstream API failure into a typed extraction error
// so the orchestrator can decide fallback eligibility on the kind alone.
func mapAPIError(err error) error {
	var apiErr spotifyclient.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return models.NewError(models.ErrUnauthenticated, models.MethodAPI, err)
		case http.StatusNotFound:
			return models.NewError(models.ErrNotFound, models.MethodAPI, err)
		case http.StatusTooManyRequests:
			return models.NewError(models.ErrRateLimited, models.MethodAPI, err)
		}
		return models.NewError(models.ErrUpstream, models.MethodAPI, err)
	}

	// The client doesn't surface typed errors on every path, so fall back to
	// matching the message.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "404") || strings.Contains(msg, "Not Found"):
		return models.NewError(models.ErrNotFound, models.MethodAPI, err)
	case strings.Contains(msg, "429") || strings.Contains(msg, "Too Many Requests"):
		return models.NewError(models.ErrRateLimited, models.MethodAPI, err)
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(msg, "Forbidden"):
		return models.NewError(models.ErrUnauthenticated, models.MethodAPI, err)
	}
	return models.NewError(models.ErrUpstream, models.MethodAPI, err)
}
