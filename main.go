package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"

	appConfig "tracklift/config"
	"tracklift/extract"
	"tracklift/logger"
	appSentry "tracklift/sentry"
	"tracklift/scraper"
	"tracklift/spotify"
	"tracklift/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}
	logger.Setup()
	appConfig.NewConfig()
	appSentry.Init()

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := appConfig.Config

	if !cfg.Spotify.HasCredentials() {
		log.Println("Warning: Spotify credentials not configured, running in scrape-only mode")
	}

	api := spotify.NewClient(cfg.Spotify)
	browser := &scraper.HTTPBrowser{
		UserAgent: cfg.Scraper.UserAgent,
		Timeout:   time.Duration(cfg.Scraper.TimeoutSeconds) * time.Second,
	}
	service := extract.NewService(api, scraper.New(browser, cfg.Scraper))

	server := web.New(service)

	port := cfg.Options.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on :%s", port)
	return server.Run(":" + port)
}
