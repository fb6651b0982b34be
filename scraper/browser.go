package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// errBlocked marks a load that was actively refused by the upstream rather
// than one that timed out.
var errBlocked = errors.New("request blocked by upstream")

// Page is one rendered-page session. Load fetches the playlist page and
// returns its markup; Close releases the session. A page is scoped to a
// single extraction attempt and must be closed on every exit path.
type Page interface {
	Load(ctx context.Context, url string) (string, error)
	Close() error
}

// Browser opens page sessions. Implementations backed by a real headless
// browser driver satisfy the same contract; a nil Browser on the Scraper
// means the scrape capability is not available in this environment.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
}

// HTTPBrowser renders the public playlist page with a plain HTTP client.
type HTTPBrowser struct {
	UserAgent string
	Timeout   time.Duration
}

func (b *HTTPBrowser) NewPage(ctx context.Context) (Page, error) {
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &httpPage{
		client:    &http.Client{Timeout: timeout},
		userAgent: b.UserAgent,
	}, nil
}

type httpPage struct {
	client    *http.Client
	userAgent string
}

func (p *httpPage) Load(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	// Realistic headers to avoid trivial bot blocks.
	ua := p.userAgent
	if ua == "" {
		ua = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	log.Tracef("Fetching playlist page: %s", url)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("HTTP %d: %w", resp.StatusCode, errBlocked)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read page body: %w", err)
	}
	return string(body), nil
}

func (p *httpPage) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
