package config

import "testing"

func TestGetScrapeTimeout(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 20},
		{"invalid", "abc", 20},
		{"zero", "0", 20},
		{"negative", "-5", 20},
		{"valid_small", "5", 5},
		{"valid_default", "20", 20},
		{"max", "120", 120},
		{"over", "600", 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SCRAPE_TIMEOUT_SECONDS", tt.env)
			if got := getScrapeTimeout(); got != tt.want {
				t.Errorf("getScrapeTimeout() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestGetScrapeRetries(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 2},
		{"invalid", "foo", 2},
		{"zero_allowed", "0", 0},
		{"negative", "-1", 2},
		{"mid", "3", 3},
		{"max", "5", 5},
		{"over", "6", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SCRAPE_RETRIES", tt.env)
			if got := getScrapeRetries(); got != tt.want {
				t.Errorf("getScrapeRetries() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestHasCredentials(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		secret string
		want   bool
	}{
		{"both_set", "id", "secret", true},
		{"missing_secret", "id", "", false},
		{"missing_id", "", "secret", false},
		{"both_empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds := SpotifyConfig{ClientID: tt.id, ClientSecret: tt.secret}
			if got := creds.HasCredentials(); got != tt.want {
				t.Errorf("HasCredentials() = %v; want %v", got, tt.want)
			}
		})
	}
}
