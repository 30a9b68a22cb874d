package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/internal/models"
	"github.com/stitts-dev/megasena-sim/internal/session"
	"github.com/stitts-dev/megasena-sim/pkg/utils"
)

const (
	defaultPerPage = 50
	maxPerPage     = 500
)

type DrawsHandler struct {
	store    *draws.Store
	sessions *session.Manager
}

func NewDrawsHandler(store *draws.Store, sessions *session.Manager) *DrawsHandler {
	return &DrawsHandler{store: store, sessions: sessions}
}

// ListDraws returns the draws inside the session filter, newest first
// GET /api/v1/draws?page=1&per_page=50
func (h *DrawsHandler) ListDraws(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		utils.SendValidationError(c, "Invalid page", "page must be a positive integer")
		return
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if err != nil || perPage < 1 || perPage > maxPerPage {
		utils.SendValidationError(c, "Invalid per_page", "per_page must be between 1 and 500")
		return
	}

	v, err := resolveView(c, h.store, h.sessions)
	if err != nil {
		sendError(c, err)
		return
	}

	filtered := v.filtered()
	total := len(filtered)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	// filtered is ascending; page through it from the newest end
	out := make([]models.DrawRecord, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, filtered[total-1-i])
	}

	utils.SendSuccessWithMeta(c, out, utils.NewMeta(page, perPage, int64(total)))
}
