package spotify

import (
	"context"
	"strconv"
	"sync"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	spotifyclient "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"

	"tracklift/config"
	"tracklift/models"
)

// Client wraps the credentialed Spotify Web API capability behind the
// extraction contract. It performs read-only calls and holds no state beyond
// the authenticated HTTP client. One Client is shared by all request
// goroutines.
type Client struct {
	creds config.SpotifyConfig

	mu  sync.Mutex
	api *spotifyclient.Client
}

func NewClient(creds config.SpotifyConfig) *Client {
	return &Client{creds: creds}
}

// session returns the authenticated API client, obtaining a
// client-credentials token on first use. The mutex serializes the token
// exchange so concurrent callers share a single initialization.
func (c *Client) session(ctx context.Context) (*spotifyclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.api != nil {
		return c.api, nil
	}

	authConfig := &clientcredentials.Config{
		ClientID:     c.creds.ClientID,
		ClientSecret: c.creds.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := authConfig.Token(ctx)
	if err != nil {
		log.Errorf("Spotify API authentication failed: %v", err)
		sentry.CaptureException(err)
		return nil, models.NewError(models.ErrUnauthenticated, models.MethodAPI, err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	c.api = spotifyclient.New(httpClient)
	log.Debug("Spotify API client initialized")
	return c.api, nil
}

// FetchPlaylist returns playlist metadata and the first page of tracks,
// un-normalized. Audio features are fetched in one batch call and aligned by
// track ID; a missing feature entry degrades that track to the absent
// sentinel instead of failing the extract.
func (c *Client) FetchPlaylist(ctx context.Context, playlistID string) (*models.PlaylistExtract, error) {
	if !c.creds.HasCredentials() {
		return nil, models.Errorf(models.ErrUnauthenticated, models.MethodAPI, "Spotify API credentials not configured")
	}
	api, err := c.session(ctx)
	if err != nil {
		return nil, err
	}

	log.Tracef("Fetching playlist from Spotify API: %s", playlistID)
	span := sentry.StartSpan(ctx, "spotify.fetch_playlist")
	span.Description = "Get playlist from Spotify API"
	span.SetTag("playlist_id", playlistID)
	defer span.Finish()

	playlist, err := api.GetPlaylist(ctx, spotifyclient.ID(playlistID))
	if err != nil {
		log.Errorf("Failed to fetch Spotify playlist %s: %v", playlistID, err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return nil, mapAPIError(err)
	}

	items, err := api.GetPlaylistItems(ctx, spotifyclient.ID(playlistID), spotifyclient.Limit(models.MaxTracks))
	if err != nil {
		log.Errorf("Failed to fetch Spotify playlist items %s: %v", playlistID, err)
		sentry.CaptureException(err)
		span.Status = sentry.SpanStatusInternalError
		return nil, mapAPIError(err)
	}

	extract := &models.PlaylistExtract{
		Meta: models.PlaylistMeta{
			Name:        playlist.Name,
			Description: playlist.Description,
			Followers:   int(playlist.Followers.Count),
			TotalTracks: int(playlist.Tracks.Total),
			ExternalURL: playlist.ExternalURLs["spotify"],
		},
	}

	ids := make([]spotifyclient.ID, 0, models.MaxTracks)
	for _, item := range items.Items {
		// Skip non-track items (podcasts, episodes, local files).
		if item.Track.Track == nil {
			continue
		}
		track := item.Track.Track

		artists := make([]string, 0, len(track.Artists))
		for _, artist := range track.Artists {
			artists = append(artists, artist.Name)
		}

		extract.Tracks = append(extract.Tracks, models.TrackRecord{
			Position:    len(extract.Tracks) + 1,
			Name:        track.Name,
			Artists:     models.JoinArtists(artists),
			Album:       track.Album.Name,
			DurationMS:  int(track.Duration),
			ReleaseYear: releaseYear(track.Album.ReleaseDate),
			Popularity:  strconv.Itoa(int(track.Popularity)),
			Explicit:    track.Explicit,
		})
		ids = append(ids, track.ID)
		if len(extract.Tracks) == models.MaxTracks {
			break
		}
	}

	attachAudioFeatures(ctx, api, extract, ids)

	log.Debugf("Fetched %d tracks from Spotify playlist '%s' (total: %d)",
		len(extract.Tracks), extract.Meta.Name, extract.Meta.TotalTracks)
	span.Status = sentry.SpanStatusOK
	span.SetData("tracks_count", len(extract.Tracks))
	span.SetData("playlist_name", extract.Meta.Name)

	return extract, nil
}

// attachAudioFeatures does one bulk lookup for the whole page of tracks. The
// response may come back in any order or with gaps, so values are re-aligned
// to the request by ID, never by position.
func attachAudioFeatures(ctx context.Context, api *spotifyclient.Client, extract *models.PlaylistExtract, ids []spotifyclient.ID) {
	if len(ids) == 0 {
		return
	}

	features, err := api.GetAudioFeatures(ctx, ids...)
	if err != nil {
		log.Warnf("Could not fetch audio features for playlist tracks: %v", err)
		return
	}

	byID := make(map[spotifyclient.ID]*spotifyclient.AudioFeatures, len(features))
	for _, feature := range features {
		if feature == nil {
			continue
		}
		byID[feature.ID] = feature
	}

	for i := range extract.Tracks {
		feature, ok := byID[ids[i]]
		if !ok {
			log.Warnf("No audio features returned for track '%s'", extract.Tracks[i].Name)
			continue
		}
		track := &extract.Tracks[i]
		track.Danceability = models.FormatFeature(float64(feature.Danceability))
		track.Energy = models.FormatFeature(float64(feature.Energy))
		track.Valence = models.FormatFeature(float64(feature.Valence))
		track.Acousticness = models.FormatFeature(float64(feature.Acousticness))
		track.Tempo = models.FormatFeature(float64(feature.Tempo))
	}
}

// releaseYear extracts the four-digit year from an album release date.
// Spotify returns "2019", "2019-03" or "2019-03-22" depending on precision.
func releaseYear(releaseDate string) string {
	if len(releaseDate) < 4 {
		return ""
	}
	year := releaseDate[:4]
	if _, err := strconv.Atoi(year); err != nil {
		return ""
	}
	return year
}
