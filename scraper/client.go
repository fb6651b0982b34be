package scraper

import (
	"context"
	"errors"
	"time"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"

	"tracklift/config"
	"tracklift/models"
)

// Scraper drives the page capability at the public playlist page and parses
// the rendered markup. It cannot retrieve audio features — they are not in
// the public markup — so feature fields are always left for the normalizer
// to fill with the absent sentinel.
type Scraper struct {
	browser Browser
	timeout time.Duration
	retries int
	backoff time.Duration
}

func New(browser Browser, cfg config.ScraperConfig) *Scraper {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Scraper{
		browser: browser,
		timeout: timeout,
		retries: cfg.Retries,
		backoff: time.Second,
	}
}

// ScrapePlaylist extracts up to MaxTracks tracks from the public playlist
// page. Transient load failures are retried a bounded number of times with
// backoff; parse failures are structural and never retried.
func (s *Scraper) ScrapePlaylist(ctx context.Context, playlistID string) (*models.PlaylistExtract, error) {
	if s.browser == nil {
		return nil, models.Errorf(models.ErrScraperUnavailable, models.MethodScrape,
			"no page-rendering capability configured")
	}

	span := sentry.StartSpan(ctx, "scraper.scrape_playlist")
	span.Description = "Scrape public playlist page"
	span.SetTag("playlist_id", playlistID)
	defer span.Finish()

	pageURL := "https://open.spotify.com/playlist/" + playlistID

	var lastErr error
	backoff := s.backoff
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			log.Debugf("Retrying playlist page load (attempt %d/%d) after %v",
				attempt+1, s.retries+1, backoff)
			select {
			case <-ctx.Done():
				span.Status = sentry.SpanStatusDeadlineExceeded
				return nil, models.NewError(models.ErrPageLoadTimeout, models.MethodScrape, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		extract, err := s.scrapeOnce(ctx, pageURL)
		if err == nil {
			log.Debugf("Scraped %d tracks from playlist page '%s'",
				len(extract.Tracks), extract.Meta.Name)
			span.Status = sentry.SpanStatusOK
			span.SetData("tracks_count", len(extract.Tracks))
			return extract, nil
		}
		if !retryable(err) {
			log.Errorf("Scrape failed for playlist %s (%s): %v", playlistID, models.KindOf(err), err)
			sentry.CaptureException(err)
			span.Status = sentry.SpanStatusInternalError
			return nil, err
		}
		log.Warnf("Playlist page load failed for %s: %v", playlistID, err)
		lastErr = err
	}

	log.Errorf("Playlist page for %s did not load after %d attempts", playlistID, s.retries+1)
	sentry.CaptureException(lastErr)
	span.Status = sentry.SpanStatusDeadlineExceeded
	return nil, lastErr
}

// scrapeOnce runs one complete attempt with its own page session. The
// session is released on every exit path.
func (s *Scraper) scrapeOnce(ctx context.Context, pageURL string) (*models.PlaylistExtract, error) {
	page, err := s.browser.NewPage(ctx)
	if err != nil {
		return nil, models.NewError(models.ErrScraperUnavailable, models.MethodScrape, err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			log.Warnf("Failed to close page session: %v", cerr)
		}
	}()

	loadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	html, err := page.Load(loadCtx, pageURL)
	if err != nil {
		if errors.Is(err, errBlocked) {
			return nil, models.NewError(models.ErrBlockedOrChanged, models.MethodScrape, err)
		}
		return nil, models.NewError(models.ErrPageLoadTimeout, models.MethodScrape, err)
	}

	return parsePlaylistPage(html, pageURL)
}

func retryable(err error) bool {
	return models.IsKind(err, models.ErrPageLoadTimeout)
}
