package normalize

import (
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"tracklift/models"
)

// Apply canonicalizes an extract in place and returns it: numeric fields are
// coerced and clamped, durations formatted, and every absent optional field
// filled with the single sentinel value so downstream code never sees a
// missing field. Track order and count are preserved exactly — ordering
// reflects playlist position. The pass is idempotent: applying it to an
// already-normalized extract changes nothing.
func Apply(extract *models.PlaylistExtract) *models.PlaylistExtract {
	totalMS := 0
	for i := range extract.Tracks {
		track := &extract.Tracks[i]

		if track.Position == 0 {
			track.Position = i + 1
		}
		if track.Name == "" {
			track.Name = "Unknown"
		}
		if track.Artists == "" {
			track.Artists = "Unknown Artist"
		}
		if track.Album == "" {
			track.Album = "Unknown Album"
		}
		if track.DurationMS < 0 {
			track.DurationMS = 0
		}
		track.Duration = FormatDuration(track.DurationMS)
		track.ReleaseYear = orSentinel(track.ReleaseYear)
		track.Popularity = clampPopularity(track.Popularity, track.Name)
		track.Danceability = normalizeFeature(track.Danceability)
		track.Energy = normalizeFeature(track.Energy)
		track.Valence = normalizeFeature(track.Valence)
		track.Acousticness = normalizeFeature(track.Acousticness)
		track.Tempo = normalizeFeature(track.Tempo)

		totalMS += track.DurationMS
	}

	if extract.Meta.Name == "" {
		extract.Meta.Name = "Unknown Playlist"
	}
	if extract.Meta.Followers < 0 {
		extract.Meta.Followers = 0
	}
	if extract.Meta.TotalTracks == 0 {
		extract.Meta.TotalTracks = len(extract.Tracks)
	}
	extract.Meta.TotalDuration = FormatDuration(totalMS)

	return extract
}

// FormatDuration renders milliseconds as m:ss.
func FormatDuration(ms int) string {
	if ms <= 0 {
		return "0:00"
	}
	seconds := ms / 1000
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func orSentinel(value string) string {
	if value == "" {
		return models.Sentinel
	}
	return value
}

// clampPopularity coerces the popularity score into 0-100. Out-of-range
// values are clamped and logged, not fatal; anything unparseable degrades to
// the sentinel.
func clampPopularity(value, trackName string) string {
	if value == "" || value == models.Sentinel {
		return models.Sentinel
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warnf("Dropping unparseable popularity %q for track '%s'", value, trackName)
		return models.Sentinel
	}
	if n < 0 || n > 100 {
		log.Warnf("Clamping out-of-range popularity %d for track '%s'", n, trackName)
		if n < 0 {
			n = 0
		} else {
			n = 100
		}
	}
	return strconv.Itoa(n)
}

func normalizeFeature(value string) string {
	if value == "" || value == models.Sentinel {
		return models.Sentinel
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return models.Sentinel
	}
	return models.FormatFeature(f)
}
