package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mpetrenko/visitboard/internal/dto"
	apierrors "github.com/mpetrenko/visitboard/internal/errors"
	"github.com/mpetrenko/visitboard/internal/middleware"
	"github.com/mpetrenko/visitboard/internal/services"
)

const exportTimestampLayout = "20060102_150405"

// LogsHandler coordinates the visit reporting HTTP handlers.
type LogsHandler struct {
	visitService *services.VisitService
}

// NewLogsHandler creates a new LogsHandler.
func NewLogsHandler(visitService *services.VisitService) *LogsHandler {
	return &LogsHandler{
		visitService: visitService,
	}
}

// List returns one page of the visit log. Non-admins only see their
// own visits.
func (h *LogsHandler) List(c *gin.Context) {
	principal, ok := middleware.Principal(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	result, err := h.visitService.ListLogs(principal, page)
	if err != nil {
		apierrors.InternalError(c, "Failed to list visit logs")
		return
	}

	c.JSON(http.StatusOK, dto.ToVisitLogListResponse(result))
}

// PageStats returns per-page visit counts. Admin only (route
// middleware).
func (h *LogsHandler) PageStats(c *gin.Context) {
	stats, err := h.visitService.PageStats()
	if err != nil {
		apierrors.InternalError(c, "Failed to compute page stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// UserStats returns per-user visit counts. Admin only (route
// middleware).
func (h *LogsHandler) UserStats(c *gin.Context) {
	stats, err := h.visitService.UserStats()
	if err != nil {
		apierrors.InternalError(c, "Failed to compute user stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// ExportPageStats streams the per-page report as a CSV attachment.
func (h *LogsHandler) ExportPageStats(c *gin.Context) {
	h.exportCSV(c, "page_stats", h.visitService.StreamPageStatsCSV)
}

// ExportUserStats streams the per-user report as a CSV attachment.
func (h *LogsHandler) ExportUserStats(c *gin.Context) {
	h.exportCSV(c, "user_stats", h.visitService.StreamUserStatsCSV)
}

func (h *LogsHandler) exportCSV(c *gin.Context, report string, stream func(w io.Writer) error) {
	filename := fmt.Sprintf("%s_%s.csv", report, time.Now().Format(exportTimestampLayout))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Status(http.StatusOK)

	// Headers are already written once streaming starts, so a failure
	// mid-export can only be logged; the client sees a truncated file.
	if err := stream(c.Writer); err != nil {
		log.Error().Err(err).Str("report", report).Msg("csv export aborted")
	}
}
