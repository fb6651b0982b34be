package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"tracklift/export"
	"tracklift/models"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type extractRequest struct {
	URL string `json:"url"`
}

type extractResponse struct {
	Success     bool                 `json:"success"`
	Method      models.Method        `json:"method"`
	Playlist    models.PlaylistMeta  `json:"playlist"`
	Tracks      []models.TrackRecord `json:"tracks"`
	TotalTracks int                  `json:"total_tracks"`
}

// exportRequest carries a previously extracted playlist back for rendering.
type exportRequest struct {
	Method   models.Method        `json:"method"`
	Playlist models.PlaylistMeta  `json:"playlist"`
	Tracks   []models.TrackRecord `json:"tracks"`
}

func (r *exportRequest) toExtract() *models.PlaylistExtract {
	return &models.PlaylistExtract{
		Method: r.Method,
		Meta:   r.Playlist,
		Tracks: r.Tracks,
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleExtract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse request body"})
		return
	}

	result, err := s.service.Extract(c.Request.Context(), req.URL)
	if err != nil {
		status, message := describeError(err)
		c.JSON(status, gin.H{"error": message, "kind": models.KindOf(err)})
		return
	}

	c.JSON(http.StatusOK, extractResponse{
		Success:     true,
		Method:      result.Method,
		Playlist:    result.Meta,
		Tracks:      result.Tracks,
		TotalTracks: len(result.Tracks),
	})
}

func (s *Server) handleExportCSV(c *gin.Context) {
	s.handleExport(c, export.CSV, "csv", "text/csv")
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	s.handleExport(c, export.Workbook, "xlsx", xlsxMIME)
}

func (s *Server) handleExport(c *gin.Context, render func(*models.PlaylistExtract) ([]byte, error), ext, mime string) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse request body"})
		return
	}

	extract := req.toExtract()
	data, err := render(extract)
	if err != nil {
		status, message := describeError(err)
		c.JSON(status, gin.H{"error": message, "kind": models.KindOf(err)})
		return
	}

	filename := export.Filename(extract, ext)
	log.Infof("Serving %s export '%s' (%d bytes)", ext, filename, len(data))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, mime, data)
}

// describeError maps an extraction or export failure onto an HTTP status and
// a message that names what was attempted and why it failed.
func describeError(err error) (int, string) {
	var failure *models.FallbackError
	if errors.As(err, &failure) {
		return http.StatusBadGateway, fmt.Sprintf(
			"extraction failed: API attempt failed with %s (%v); scrape attempt failed with %s (%v)",
			failure.API.Kind, failure.API.Err, failure.Scrape.Kind, failure.Scrape.Err)
	}

	switch models.KindOf(err) {
	case models.ErrInvalidInput:
		return http.StatusBadRequest, fmt.Sprintf("invalid playlist URL: %v", err)
	case models.ErrEmptyExtract:
		return http.StatusBadRequest, "nothing to export: the extract contains no tracks"
	case models.ErrNotFound:
		return http.StatusNotFound, fmt.Sprintf("playlist not found: %v", err)
	case models.ErrRateLimited:
		return http.StatusTooManyRequests, fmt.Sprintf("rate limited by Spotify: %v", err)
	case models.ErrFormat:
		return http.StatusInternalServerError, fmt.Sprintf("failed to render export: %v", err)
	default:
		return http.StatusBadGateway, fmt.Sprintf("extraction failed: %v", err)
	}
}
