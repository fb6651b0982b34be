package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
	log "github.com/sirupsen/logrus"

	"tracklift/models"
)

const (
	summarySheet  = "Playlist Summary"
	tracksSheet   = "Track Details"
	featuresSheet = "Audio Features"

	spotifyGreen = "1DB954"
)

// featureColumns maps the workbook's feature columns to record fields, in
// display order.
var featureColumns = []struct {
	header string
	value  func(*models.TrackRecord) string
}{
	{"Danceability", func(t *models.TrackRecord) string { return t.Danceability }},
	{"Energy", func(t *models.TrackRecord) string { return t.Energy }},
	{"Valence", func(t *models.TrackRecord) string { return t.Valence }},
	{"Acousticness", func(t *models.TrackRecord) string { return t.Acousticness }},
	{"Tempo", func(t *models.TrackRecord) string { return t.Tempo }},
}

// Workbook renders the rich export: a playlist summary sheet, a track
// details sheet, and an audio-features sheet with per-feature means.
func Workbook(extract *models.PlaylistExtract) ([]byte, error) {
	if len(extract.Tracks) == 0 {
		return nil, models.Errorf(models.ErrEmptyExtract, extract.Method, "no tracks to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, models.NewError(models.ErrFormat, extract.Method, err)
	}
	if err := writeSummarySheet(f, extract); err != nil {
		return nil, models.NewError(models.ErrFormat, extract.Method, err)
	}
	if err := writeTracksSheet(f, extract); err != nil {
		return nil, models.NewError(models.ErrFormat, extract.Method, err)
	}
	if err := writeFeaturesSheet(f, extract); err != nil {
		return nil, models.NewError(models.ErrFormat, extract.Method, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, models.NewError(models.ErrFormat, extract.Method, err)
	}

	log.Debugf("Rendered workbook export for '%s' (%d tracks)", extract.Meta.Name, len(extract.Tracks))
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, extract *models.PlaylistExtract) error {
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 18, Bold: true, Color: spotifyGreen},
	})
	if err != nil {
		return err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := setCell(f, summarySheet, 1, 1, "Spotify Playlist Summary"); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A1", titleStyle); err != nil {
		return err
	}

	metadata := []struct {
		label string
		value interface{}
	}{
		{"Playlist Name", extract.Meta.Name},
		{"Description", extract.Meta.Description},
		{"Total Saves/Followers", extract.Meta.Followers},
		{"Number of Songs", extract.Meta.TotalTracks},
		{"Total Duration", extract.Meta.TotalDuration},
		{"Spotify URL", extract.Meta.ExternalURL},
		{"Extraction Method", string(extract.Method)},
		{"Extracted On", time.Now().Format("2006-01-02 15:04:05")},
	}

	row := 3
	for _, entry := range metadata {
		if err := writeLabeledRow(f, summarySheet, row, entry.label, entry.value, boldStyle); err != nil {
			return err
		}
		row++
	}

	row++
	if err := setCell(f, summarySheet, 1, row, "Statistics"); err != nil {
		return err
	}
	if err := styleCell(f, summarySheet, 1, row, titleStyle); err != nil {
		return err
	}
	row++

	stats := []struct {
		label string
		value interface{}
	}{
		{"Total Tracks Extracted", len(extract.Tracks)},
		{"Average Popularity", averagePopularity(extract)},
		{"Explicit Tracks", explicitCount(extract)},
		{"Tracks with Audio Features", featureCount(extract)},
		{"Unique Artists", uniqueArtists(extract)},
	}
	for _, entry := range stats {
		if err := writeLabeledRow(f, summarySheet, row, entry.label, entry.value, boldStyle); err != nil {
			return err
		}
		row++
	}

	return f.SetColWidth(summarySheet, "A", "B", 30)
}

func writeTracksSheet(f *excelize.File, extract *models.PlaylistExtract) error {
	if _, err := f.NewSheet(tracksSheet); err != nil {
		return err
	}

	headers := []string{
		"Track #", "Track Name", "Artist(s)", "Album Name", "Duration (mm:ss)",
		"Release Year", "Popularity", "Explicit",
	}
	if err := writeHeaderRow(f, tracksSheet, headers); err != nil {
		return err
	}

	for i, track := range extract.Tracks {
		row := i + 2
		values := []interface{}{
			track.Position, track.Name, track.Artists, track.Album,
			track.Duration, track.ReleaseYear, track.Popularity, yesNo(track.Explicit),
		}
		for col, value := range values {
			if err := setCell(f, tracksSheet, col+1, row, value); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(tracksSheet, "B", "D", 32); err != nil {
		return err
	}
	return freezeHeader(f, tracksSheet)
}

func writeFeaturesSheet(f *excelize.File, extract *models.PlaylistExtract) error {
	if _, err := f.NewSheet(featuresSheet); err != nil {
		return err
	}

	if featureCount(extract) == 0 {
		if err := setCell(f, featuresSheet, 1, 1, "Audio Features Not Available"); err != nil {
			return err
		}
		return setCell(f, featuresSheet, 1, 3,
			"Audio features are only available through the API extraction method.")
	}

	headers := []string{"Track #", "Track Name"}
	for _, column := range featureColumns {
		headers = append(headers, column.header)
	}
	if err := writeHeaderRow(f, featuresSheet, headers); err != nil {
		return err
	}

	for i := range extract.Tracks {
		track := &extract.Tracks[i]
		row := i + 2
		if err := setCell(f, featuresSheet, 1, row, track.Position); err != nil {
			return err
		}
		if err := setCell(f, featuresSheet, 2, row, track.Name); err != nil {
			return err
		}
		for col, column := range featureColumns {
			if err := setCell(f, featuresSheet, col+3, row, column.value(track)); err != nil {
				return err
			}
		}
	}

	// Aggregate row: mean of each feature over the tracks that have it;
	// sentinel values are excluded, not treated as zero.
	meanRow := len(extract.Tracks) + 2
	if err := setCell(f, featuresSheet, 2, meanRow, "Mean"); err != nil {
		return err
	}
	for col, column := range featureColumns {
		if err := setCell(f, featuresSheet, col+3, meanRow, featureMean(extract, column.value)); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(featuresSheet, "B", "B", 32); err != nil {
		return err
	}
	return freezeHeader(f, featuresSheet)
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{spotifyGreen}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	for col, header := range headers {
		if err := setCell(f, sheet, col+1, 1, header); err != nil {
			return err
		}
		if err := styleCell(f, sheet, col+1, 1, style); err != nil {
			return err
		}
	}
	return nil
}

func writeLabeledRow(f *excelize.File, sheet string, row int, label string, value interface{}, labelStyle int) error {
	if err := setCell(f, sheet, 1, row, label); err != nil {
		return err
	}
	if err := styleCell(f, sheet, 1, row, labelStyle); err != nil {
		return err
	}
	return setCell(f, sheet, 2, row, value)
}

func freezeHeader(f *excelize.File, sheet string) error {
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func setCell(f *excelize.File, sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func styleCell(f *excelize.File, sheet string, col, row, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

// featureMean averages one feature over the tracks where it is populated.
// Returns the sentinel when no track has the feature.
func featureMean(extract *models.PlaylistExtract, value func(*models.TrackRecord) string) string {
	sum := 0.0
	n := 0
	for i := range extract.Tracks {
		v := value(&extract.Tracks[i])
		if v == "" || v == models.Sentinel {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		sum += parsed
		n++
	}
	if n == 0 {
		return models.Sentinel
	}
	return models.FormatFeature(sum / float64(n))
}

func averagePopularity(extract *models.PlaylistExtract) string {
	sum := 0
	n := 0
	for _, track := range extract.Tracks {
		p, err := strconv.Atoi(track.Popularity)
		if err != nil {
			continue
		}
		sum += p
		n++
	}
	if n == 0 {
		return models.Sentinel
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(n))
}

func explicitCount(extract *models.PlaylistExtract) int {
	count := 0
	for _, track := range extract.Tracks {
		if track.Explicit {
			count++
		}
	}
	return count
}

func featureCount(extract *models.PlaylistExtract) int {
	count := 0
	for i := range extract.Tracks {
		if extract.Tracks[i].HasFeatures() {
			count++
		}
	}
	return count
}

func uniqueArtists(extract *models.PlaylistExtract) int {
	seen := make(map[string]struct{}, len(extract.Tracks))
	for _, track := range extract.Tracks {
		seen[track.Artists] = struct{}{}
	}
	return len(seen)
}
