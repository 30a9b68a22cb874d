package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/internal/models"
	"github.com/stitts-dev/megasena-sim/internal/sampler"
	"github.com/stitts-dev/megasena-sim/internal/services"
	"github.com/stitts-dev/megasena-sim/internal/session"
	"github.com/stitts-dev/megasena-sim/internal/stats"
	"github.com/stitts-dev/megasena-sim/pkg/utils"
)

// view is what most read endpoints work from: the current dataset, the
// caller's session and the filter clamped to the dataset range.
type view struct {
	dataset *draws.Dataset
	state   *session.State
	filter  models.Filter
}

func (v *view) filtered() []models.DrawRecord {
	return stats.FilterDraws(v.dataset.Draws, v.filter)
}

func (v *view) table() *stats.Table {
	return stats.Count(v.filtered())
}

func resolveView(c *gin.Context, store *draws.Store, sessions *session.Manager) (*view, error) {
	ds, err := store.Current()
	if err != nil {
		return nil, err
	}
	state, err := sessions.Load(c.Request.Context(), session.ID(c))
	if err != nil {
		return nil, err
	}
	return &view{
		dataset: ds,
		state:   state,
		filter:  state.Filter.Clamp(ds.Bounds()),
	}, nil
}

// sendError maps domain errors onto the response envelope.
func sendError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, draws.ErrNoData):
		utils.SendNoData(c)
	case errors.Is(err, models.ErrInvalidFilter):
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeInvalidFilter, "Invalid filter", err.Error()))
	case errors.Is(err, stats.ErrInvalidSelection):
		utils.SendValidationError(c, "Invalid number selection", err.Error())
	case errors.Is(err, sampler.ErrInsufficientCandidates):
		utils.SendError(c, http.StatusUnprocessableEntity, utils.NewAppError(utils.ErrCodeSimulation, "Not enough numbers to fill a ticket", err.Error()))
	case errors.Is(err, sampler.ErrInvalidCount):
		utils.SendValidationError(c, "Invalid ticket count", err.Error())
	case errors.Is(err, services.ErrUnsupportedFormat):
		utils.SendNotFound(c, err.Error())
	case errors.Is(err, services.ErrNoTickets):
		utils.SendError(c, http.StatusConflict, utils.NewAppError(utils.ErrCodeNoTickets, "No simulated tickets to export", "generate tickets first"))
	case errors.Is(err, draws.ErrEmptyDataset):
		utils.SendError(c, http.StatusUnprocessableEntity, utils.NewAppError(utils.ErrCodeUpload, "No valid draws found", err.Error()))
	case errors.Is(err, draws.ErrUnreadableWorkbook):
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeUpload, "Could not read the spreadsheet", err.Error()))
	case errors.Is(err, draws.ErrSourceUnavailable):
		utils.SendError(c, http.StatusBadGateway, utils.NewAppError(utils.ErrCodeUnavailable, "Draw source unavailable", err.Error()))
	default:
		utils.SendInternalError(c, "Unexpected error")
	}
}
