package extract

import (
	"net/url"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"tracklift/models"
)

var playlistIDRegex = regexp.MustCompile(`^[0-9A-Za-z]+$`)

// ResolvePlaylistURL validates a playlist URL or URI and returns the
// canonical playlist ID. This is the synchronous guard in front of both
// adapters; no I/O happens here. Trailing whitespace and query parameters
// (e.g. ?si=tracking_id) do not affect the result.
func ResolvePlaylistURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", models.Errorf(models.ErrInvalidInput, "", "empty playlist URL")
	}

	// spotify:playlist:<id> URI form
	if strings.HasPrefix(raw, "spotify:") {
		parts := strings.Split(raw, ":")
		if len(parts) == 3 && parts[1] == "playlist" && playlistIDRegex.MatchString(parts[2]) {
			return parts[2], nil
		}
		log.Warnf("Invalid Spotify playlist URI: %s", raw)
		return "", models.Errorf(models.ErrInvalidInput, "", "invalid Spotify playlist URI: %s", raw)
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		log.Warnf("Unparseable playlist URL: %s", raw)
		return "", models.Errorf(models.ErrInvalidInput, "", "invalid Spotify playlist URL: %s", raw)
	}
	if parsed.Host != "open.spotify.com" {
		log.Warnf("Playlist URL has unexpected host: %s", raw)
		return "", models.Errorf(models.ErrInvalidInput, "", "not an open.spotify.com URL: %s", raw)
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i, segment := range segments {
		// Locale prefixes (e.g. /intl-de/playlist/<id>) may precede the
		// playlist segment.
		if segment == "playlist" && i+1 < len(segments) && playlistIDRegex.MatchString(segments[i+1]) {
			return segments[i+1], nil
		}
	}

	log.Warnf("Playlist URL has no playlist segment: %s", raw)
	return "", models.Errorf(models.ErrInvalidInput, "", "URL does not reference a playlist: %s", raw)
}
