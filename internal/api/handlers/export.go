package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/megasena-sim/internal/services"
	"github.com/stitts-dev/megasena-sim/internal/session"
	"github.com/stitts-dev/megasena-sim/pkg/utils"
)

type ExportHandler struct {
	sessions      *session.Manager
	exportService *services.ExportService
}

func NewExportHandler(sessions *session.Manager, exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{
		sessions:      sessions,
		exportService: exportService,
	}
}

// GetExportFormats returns available export formats
// GET /api/v1/export/formats
func (h *ExportHandler) GetExportFormats(c *gin.Context) {
	utils.SendSuccess(c, h.exportService.GetAvailableFormats())
}

// ExportTickets downloads the session's tickets
// GET /api/v1/export/:format
func (h *ExportHandler) ExportTickets(c *gin.Context) {
	format, err := h.exportService.Format(c.Param("format"))
	if err != nil {
		sendError(c, err)
		return
	}

	state, err := h.sessions.Load(c.Request.Context(), session.ID(c))
	if err != nil {
		sendError(c, err)
		return
	}

	data, err := h.exportService.ExportTickets(state.Tickets, format.ID)
	if err != nil {
		sendExportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", format.FileName()))
	c.Data(http.StatusOK, format.MimeType, data)
}

// sendExportError reports render failures as EXPORT_FAILED. Known request
// errors keep their usual mapping.
func sendExportError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNoTickets) || errors.Is(err, services.ErrUnsupportedFormat) {
		sendError(c, err)
		return
	}
	_ = c.Error(err)
	utils.SendError(c, http.StatusInternalServerError, utils.NewAppError(utils.ErrCodeExport, "Export failed", err.Error()))
}
