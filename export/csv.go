package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"tracklift/models"
)

// csvHeader is the fixed column set of the flat export.
var csvHeader = []string{
	"Track Number",
	"Track Name",
	"Artist(s)",
	"Album Name",
	"Duration (mm:ss)",
	"Release Year",
	"Popularity",
	"Explicit",
	"Danceability",
	"Energy",
	"Valence",
	"Acousticness",
	"Tempo",
}

// CSV renders one row per track under a fixed header row.
func CSV(extract *models.PlaylistExtract) ([]byte, error) {
	if len(extract.Tracks) == 0 {
		return nil, models.Errorf(models.ErrEmptyExtract, extract.Method, "no tracks to export")
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, models.NewError(models.ErrFormat, extract.Method, err)
	}
	for _, track := range extract.Tracks {
		record := []string{
			strconv.Itoa(track.Position),
			track.Name,
			track.Artists,
			track.Album,
			track.Duration,
			track.ReleaseYear,
			track.Popularity,
			yesNo(track.Explicit),
			track.Danceability,
			track.Energy,
			track.Valence,
			track.Acousticness,
			track.Tempo,
		}
		if err := writer.Write(record); err != nil {
			return nil, models.NewError(models.ErrFormat, extract.Method, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, models.NewError(models.ErrFormat, extract.Method, err)
	}

	log.Debugf("Rendered CSV export for '%s' (%d tracks)", extract.Meta.Name, len(extract.Tracks))
	return buf.Bytes(), nil
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// Filename builds the download filename for an export.
func Filename(extract *models.PlaylistExtract, ext string) string {
	name := strings.ReplaceAll(strings.TrimSpace(extract.Meta.Name), " ", "_")
	if name == "" {
		name = "playlist"
	}
	return fmt.Sprintf("spotify_%s_tracks.%s", name, ext)
}
