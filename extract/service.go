package extract

import (
	"context"
	"errors"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"

	"tracklift/models"
	"tracklift/normalize"
)

// PlaylistFetcher is the structured API extraction capability.
type PlaylistFetcher interface {
	FetchPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExtract, error)
}

// PageScraper is the unstructured page extraction capability.
type PageScraper interface {
	ScrapePlaylist(ctx context.Context, playlistID string) (*models.PlaylistExtract, error)
}

// Service arbitrates between the two extraction methods. The API adapter
// runs first; the scraper runs only after an API failure that is not a
// caller-input error — fallback is strictly failure-triggered, never a
// parallel race. When both fail, the caller gets one aggregate error
// carrying both underlying kinds.
type Service struct {
	api     PlaylistFetcher
	scraper PageScraper
}

func NewService(api PlaylistFetcher, scraper PageScraper) *Service {
	return &Service{api: api, scraper: scraper}
}

// Extract resolves the playlist URL once and runs the fallback policy. The
// returned extract is fully normalized and tagged with the method that
// produced it; no partially-populated extract is ever observable.
func (s *Service) Extract(ctx context.Context, rawURL string) (*models.PlaylistExtract, error) {
	playlistID, err := ResolvePlaylistURL(rawURL)
	if err != nil {
		return nil, err
	}

	log.Infof("Extracting playlist %s", playlistID)

	result, apiErr := s.api.FetchPlaylist(ctx, playlistID)
	if apiErr == nil {
		result.Method = models.MethodAPI
		normalize.Apply(result)
		log.Infof("Extracted playlist %s via API (%d tracks)", playlistID, len(result.Tracks))
		return result, nil
	}
	if models.IsKind(apiErr, models.ErrInvalidInput) {
		return nil, apiErr
	}

	log.Warnf("API extraction failed for playlist %s (%s), falling back to scrape: %v",
		playlistID, models.KindOf(apiErr), apiErr)

	result, scrapeErr := s.scraper.ScrapePlaylist(ctx, playlistID)
	if scrapeErr == nil {
		result.Method = models.MethodScrape
		normalize.Apply(result)
		log.Infof("Extracted playlist %s via scrape (%d tracks)", playlistID, len(result.Tracks))
		return result, nil
	}

	failure := &models.FallbackError{
		API:    asExtractError(apiErr, models.MethodAPI),
		Scrape: asExtractError(scrapeErr, models.MethodScrape),
	}
	log.Errorf("Both extraction methods failed for playlist %s: %v", playlistID, failure)
	sentry.CaptureException(failure)
	return nil, failure
}

func asExtractError(err error, method models.Method) *models.ExtractError {
	var extractErr *models.ExtractError
	if errors.As(err, &extractErr) {
		return extractErr
	}
	return models.NewError(models.ErrUpstream, method, err)
}
