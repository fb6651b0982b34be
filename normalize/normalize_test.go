package normalize

import (
	"reflect"
	"testing"

	"tracklift/models"
)

func sampleExtract() *models.PlaylistExtract {
	return &models.PlaylistExtract{
		Meta: models.PlaylistMeta{
			Name:        "Morning Mix",
			TotalTracks: 2,
		},
		Tracks: []models.TrackRecord{
			{
				Position:     1,
				Name:         "Opener",
				Artists:      "Some Band",
				Album:        "First Album",
				DurationMS:   218000,
				ReleaseYear:  "2019",
				Popularity:   "85",
				Danceability: "0.735",
				Energy:       "0.578",
				Valence:      "0.624",
				Acousticness: "0.0514",
				Tempo:        "118.211",
			},
			{
				Position:   2,
				Name:       "Closer",
				Artists:    "Some Band",
				Album:      "First Album",
				DurationMS: 187000,
			},
		},
	}
}

func TestApplyFillsSentinels(t *testing.T) {
	extract := Apply(sampleExtract())

	bare := extract.Tracks[1]
	for name, got := range map[string]string{
		"ReleaseYear":  bare.ReleaseYear,
		"Popularity":   bare.Popularity,
		"Danceability": bare.Danceability,
		"Energy":       bare.Energy,
		"Valence":      bare.Valence,
		"Acousticness": bare.Acousticness,
		"Tempo":        bare.Tempo,
	} {
		if got != models.Sentinel {
			t.Errorf("%s = %q; want sentinel %q", name, got, models.Sentinel)
		}
	}

	full := extract.Tracks[0]
	if full.Popularity != "85" || full.ReleaseYear != "2019" {
		t.Errorf("populated fields were disturbed: %+v", full)
	}
	if full.Danceability != "0.735" {
		t.Errorf("Danceability = %q; want %q", full.Danceability, "0.735")
	}
}

func TestApplyFormatsDurations(t *testing.T) {
	extract := Apply(sampleExtract())

	if extract.Tracks[0].Duration != "3:38" {
		t.Errorf("Duration = %q; want %q", extract.Tracks[0].Duration, "3:38")
	}
	if extract.Tracks[1].Duration != "3:07" {
		t.Errorf("Duration = %q; want %q", extract.Tracks[1].Duration, "3:07")
	}
	// 218000 + 187000 = 405000 ms = 6:45
	if extract.Meta.TotalDuration != "6:45" {
		t.Errorf("TotalDuration = %q; want %q", extract.Meta.TotalDuration, "6:45")
	}
}

func TestApplyClampsPopularity(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"in_range", "55", "55"},
		{"low", "-3", "0"},
		{"high", "250", "100"},
		{"garbage", "hot", models.Sentinel},
		{"empty", "", models.Sentinel},
		{"already_sentinel", models.Sentinel, models.Sentinel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extract := &models.PlaylistExtract{
				Tracks: []models.TrackRecord{{Name: "T", Popularity: tt.value}},
			}
			Apply(extract)
			if got := extract.Tracks[0].Popularity; got != tt.want {
				t.Errorf("Popularity = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	once := Apply(sampleExtract())
	again := *once
	again.Tracks = append([]models.TrackRecord(nil), once.Tracks...)

	Apply(&again)
	if !reflect.DeepEqual(*once, again) {
		t.Errorf("second Apply changed the extract:\n first: %+v\nsecond: %+v", *once, again)
	}
}

func TestApplyPreservesOrderAndCount(t *testing.T) {
	extract := &models.PlaylistExtract{
		Tracks: []models.TrackRecord{
			{Name: "Same Song", DurationMS: 1000},
			{Name: "Same Song", DurationMS: 1000},
			{Name: "Another", DurationMS: 2000},
		},
	}
	Apply(extract)

	// Duplicates are kept; ordering reflects playlist position.
	if len(extract.Tracks) != 3 {
		t.Fatalf("len(Tracks) = %d; want 3", len(extract.Tracks))
	}
	for i, track := range extract.Tracks {
		if track.Position != i+1 {
			t.Errorf("Tracks[%d].Position = %d; want %d", i, track.Position, i+1)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		ms   int
		want string
	}{
		{"zero", 0, "0:00"},
		{"negative", -5000, "0:00"},
		{"under_minute", 59000, "0:59"},
		{"exact_minute", 60000, "1:00"},
		{"typical", 218000, "3:38"},
		{"over_hour", 3723000, "62:03"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.ms); got != tt.want {
				t.Errorf("FormatDuration(%d) = %q; want %q", tt.ms, got, tt.want)
			}
		})
	}
}
