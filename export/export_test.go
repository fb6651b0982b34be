package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"tracklift/models"
)

func sampleExtract() *models.PlaylistExtract {
	return &models.PlaylistExtract{
		Method: models.MethodAPI,
		Meta: models.PlaylistMeta{
			Name:          "Morning Mix",
			Description:   "Coffee first",
			Followers:     1200,
			TotalTracks:   2,
			TotalDuration: "6:45",
			ExternalURL:   "https://open.spotify.com/playlist/1w9rG1yH4t8JYrE7bC48NH",
		},
		Tracks: []models.TrackRecord{
			{
				Position: 1, Name: "Opener", Artists: "Some Band", Album: "First",
				DurationMS: 218000, Duration: "3:38", ReleaseYear: "2019",
				Popularity: "85", Explicit: true,
				Danceability: "0.735", Energy: "0.578", Valence: "0.624",
				Acousticness: "0.051", Tempo: "118.211",
			},
			{
				Position: 2, Name: "Closer", Artists: "Other Band", Album: "First",
				DurationMS: 187000, Duration: "3:07", ReleaseYear: "2020",
				Popularity: "61", Explicit: false,
				Danceability: models.Sentinel, Energy: models.Sentinel,
				Valence: models.Sentinel, Acousticness: models.Sentinel,
				Tempo: models.Sentinel,
			},
		},
	}
}

func scrapeOnlyExtract() *models.PlaylistExtract {
	extract := sampleExtract()
	extract.Method = models.MethodScrape
	for i := range extract.Tracks {
		extract.Tracks[i].Popularity = models.Sentinel
		extract.Tracks[i].ReleaseYear = models.Sentinel
		extract.Tracks[i].Danceability = models.Sentinel
		extract.Tracks[i].Energy = models.Sentinel
		extract.Tracks[i].Valence = models.Sentinel
		extract.Tracks[i].Acousticness = models.Sentinel
		extract.Tracks[i].Tempo = models.Sentinel
	}
	return extract
}

func TestCSV(t *testing.T) {
	data, err := CSV(sampleExtract())
	if err != nil {
		t.Fatalf("CSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("CSV has %d lines; want 3 (header + 2 tracks)", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Track Number,Track Name,Artist(s)") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Opener") || !strings.Contains(lines[1], "3:38") {
		t.Errorf("first row missing track data: %q", lines[1])
	}
	if !strings.Contains(lines[2], models.Sentinel) {
		t.Errorf("second row should carry sentinel features: %q", lines[2])
	}
}

func TestCSVEmptyExtract(t *testing.T) {
	extract := sampleExtract()
	extract.Tracks = nil

	_, err := CSV(extract)
	if !models.IsKind(err, models.ErrEmptyExtract) {
		t.Errorf("kind = %s; want %s", models.KindOf(err), models.ErrEmptyExtract)
	}
}

func TestWorkbookSheets(t *testing.T) {
	data, err := Workbook(sampleExtract())
	if err != nil {
		t.Fatalf("Workbook() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	want := []string{"Playlist Summary", "Track Details", "Audio Features"}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("GetSheetList() = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet %d = %q; want %q", i, got[i], want[i])
		}
	}

	rows, err := f.GetRows("Track Details")
	if err != nil {
		t.Fatalf("GetRows(Track Details) error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Track Details has %d rows; want 3", len(rows))
	}
	if rows[1][1] != "Opener" || rows[1][7] != "Yes" {
		t.Errorf("unexpected first data row: %v", rows[1])
	}
}

func TestWorkbookFeatureMeansExcludeSentinel(t *testing.T) {
	data, err := Workbook(sampleExtract())
	if err != nil {
		t.Fatalf("Workbook() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Audio Features")
	if err != nil {
		t.Fatalf("GetRows(Audio Features) error = %v", err)
	}
	// header + 2 tracks + mean row
	if len(rows) != 4 {
		t.Fatalf("Audio Features has %d rows; want 4", len(rows))
	}

	meanRow := rows[3]
	if meanRow[1] != "Mean" {
		t.Fatalf("mean row label = %q; want %q", meanRow[1], "Mean")
	}
	// Only the first track carries features, so the mean equals its values.
	if meanRow[2] != "0.735" {
		t.Errorf("danceability mean = %q; want %q (sentinel must not drag it down)", meanRow[2], "0.735")
	}
	if meanRow[6] != "118.211" {
		t.Errorf("tempo mean = %q; want %q", meanRow[6], "118.211")
	}
}

func TestWorkbookWithoutFeatures(t *testing.T) {
	data, err := Workbook(scrapeOnlyExtract())
	if err != nil {
		t.Fatalf("Workbook() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	value, err := f.GetCellValue("Audio Features", "A1")
	if err != nil {
		t.Fatalf("GetCellValue() error = %v", err)
	}
	if value != "Audio Features Not Available" {
		t.Errorf("A1 = %q; want notice about unavailable features", value)
	}
}

func TestWorkbookEmptyExtract(t *testing.T) {
	extract := sampleExtract()
	extract.Tracks = nil

	_, err := Workbook(extract)
	if !models.IsKind(err, models.ErrEmptyExtract) {
		t.Errorf("kind = %s; want %s", models.KindOf(err), models.ErrEmptyExtract)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		playlist string
		ext      string
		want     string
	}{
		{"spaces replaced", "Morning Mix", "csv", "spotify_Morning_Mix_tracks.csv"},
		{"xlsx extension", "Focus", "xlsx", "spotify_Focus_tracks.xlsx"},
		{"empty name", "", "csv", "spotify_playlist_tracks.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extract := &models.PlaylistExtract{Meta: models.PlaylistMeta{Name: tt.playlist}}
			if got := Filename(extract, tt.ext); got != tt.want {
				t.Errorf("Filename() = %q; want %q", got, tt.want)
			}
		})
	}
}
