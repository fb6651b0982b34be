package config

import (
	"os"
	"strconv"
)

type ConfigStruct struct {
	Spotify SpotifyConfig
	Scraper ScraperConfig
	Options Options
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

type ScraperConfig struct {
	TimeoutSeconds int
	Retries        int
	UserAgent      string
}

type Options struct {
	Port string
}

// HasCredentials reports whether both API credential values are set. Without
// them the API adapter must never attempt a network call.
func (s *SpotifyConfig) HasCredentials() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

var Config *ConfigStruct

func NewConfig() {
	config := &ConfigStruct{
		Spotify: SpotifyConfig{
			ClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
			ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		},
		Scraper: ScraperConfig{
			TimeoutSeconds: getScrapeTimeout(),
			Retries:        getScrapeRetries(),
			UserAgent:      getScrapeUserAgent(),
		},
		Options: Options{
			Port: os.Getenv("PORT"),
		},
	}

	Config = config
}

func getScrapeTimeout() int {
	timeoutStr := os.Getenv("SCRAPE_TIMEOUT_SECONDS")
	if timeoutStr == "" {
		return 20
	}
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil || timeout <= 0 {
		return 20
	}
	if timeout > 120 {
		return 120 // A single page load should never block longer than this
	}
	return timeout
}

func getScrapeRetries() int {
	retriesStr := os.Getenv("SCRAPE_RETRIES")
	if retriesStr == "" {
		return 2
	}
	retries, err := strconv.Atoi(retriesStr)
	if err != nil || retries < 0 {
		return 2
	}
	if retries > 5 {
		return 5
	}
	return retries
}

func getScrapeUserAgent() string {
	if ua := os.Getenv("SCRAPE_USER_AGENT"); ua != "" {
		return ua
	}
	return "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
}
