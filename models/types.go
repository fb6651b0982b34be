package models

import (
	"strconv"
	"strings"
)

// Sentinel marks an absent optional value. Every optional field in a
// normalized extract holds either a real formatted value or this marker,
// never an empty string.
const Sentinel = "N/A"

// MaxTracks caps every extraction at the first page of tracks. Pagination
// beyond the first page is out of scope for both extraction methods.
const MaxTracks = 20

// Method identifies which adapter produced an extract.
type Method string

const (
	MethodAPI    Method = "api"
	MethodScrape Method = "scrape"
)

// PlaylistMeta holds playlist-level metadata. It is built once per extraction
// and never mutated after normalization.
type PlaylistMeta struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Followers     int    `json:"followers"`
	TotalTracks   int    `json:"total_tracks"`
	TotalDuration string `json:"total_duration"`
	ExternalURL   string `json:"external_url"`
}

// TrackRecord is one playlist entry, ordered by Position (1-based). Optional
// display fields (ReleaseYear, Popularity, audio features) carry either a
// formatted value or Sentinel once normalized.
type TrackRecord struct {
	Position     int    `json:"position"`
	Name         string `json:"name"`
	Artists      string `json:"artists"`
	Album        string `json:"album"`
	DurationMS   int    `json:"duration_ms"`
	Duration     string `json:"duration"`
	ReleaseYear  string `json:"release_year"`
	Popularity   string `json:"popularity"`
	Explicit     bool   `json:"explicit"`
	Danceability string `json:"danceability"`
	Energy       string `json:"energy"`
	Valence      string `json:"valence"`
	Acousticness string `json:"acousticness"`
	Tempo        string `json:"tempo"`
}

// PlaylistExtract is the normalized result of one extraction: playlist
// metadata plus the ordered track list, tagged with the method that
// produced it.
type PlaylistExtract struct {
	Method Method        `json:"method"`
	Meta   PlaylistMeta  `json:"playlist"`
	Tracks []TrackRecord `json:"tracks"`
}

// HasFeatures reports whether the record carries real audio-feature values.
func (t *TrackRecord) HasFeatures() bool {
	return t.Danceability != "" && t.Danceability != Sentinel
}

// JoinArtists renders an artist list for display.
func JoinArtists(names []string) string {
	if len(names) == 0 {
		return "Unknown Artist"
	}
	return strings.Join(names, ", ")
}

// FormatFeature renders an audio-feature value to three decimals.
func FormatFeature(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
