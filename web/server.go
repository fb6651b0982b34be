package web

import (
	"context"

	"github.com/gin-gonic/gin"

	"tracklift/models"
	"tracklift/sentry"
)

// Extractor is the playlist extraction entrypoint the handlers call into.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) (*models.PlaylistExtract, error)
}

type Server struct {
	service Extractor
	router  *gin.Engine
}

func New(service Extractor) *Server {
	router := gin.Default()
	router.Use(sentry.GetSentryGin())

	server := &Server{
		service: service,
		router:  router,
	}

	router.GET("/health", server.handleHealth)
	router.POST("/extract", server.handleExtract)
	router.POST("/export/csv", server.handleExportCSV)
	router.POST("/export/xlsx", server.handleExportXLSX)

	return server
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
