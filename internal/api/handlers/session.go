package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/internal/models"
	"github.com/stitts-dev/megasena-sim/internal/session"
	"github.com/stitts-dev/megasena-sim/pkg/utils"
)

type SessionHandler struct {
	store    *draws.Store
	sessions *session.Manager
}

func NewSessionHandler(store *draws.Store, sessions *session.Manager) *SessionHandler {
	return &SessionHandler{store: store, sessions: sessions}
}

type sessionResponse struct {
	*session.State
	// EffectiveFilter is the stored filter clamped to the loaded dataset.
	EffectiveFilter *models.Filter `json:"effective_filter,omitempty"`
	MatchingDraws   int            `json:"matching_draws"`
}

func (h *SessionHandler) respond(c *gin.Context, state *session.State) {
	resp := sessionResponse{State: state}
	if ds, err := h.store.Current(); err == nil {
		effective := state.Filter.Clamp(ds.Bounds())
		resp.EffectiveFilter = &effective
		for _, d := range ds.Draws {
			if effective.Match(d) {
				resp.MatchingDraws++
			}
		}
	}
	utils.SendSuccess(c, resp)
}

// GetSession returns the caller's dashboard state
// GET /api/v1/session
func (h *SessionHandler) GetSession(c *gin.Context) {
	state, err := h.sessions.Load(c.Request.Context(), session.ID(c))
	if err != nil {
		sendError(c, err)
		return
	}
	h.respond(c, state)
}

// UpdateFilter sets the draw-id and date filter. Missing bounds default to
// the dataset range; bounds outside it are clamped.
// PUT /api/v1/session/filter
func (h *SessionHandler) UpdateFilter(c *gin.Context) {
	var req models.Filter
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, models.ErrInvalidFilter) {
			sendError(c, err)
			return
		}
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	ds, err := h.store.Current()
	if err != nil {
		sendError(c, err)
		return
	}
	if err := req.Clamp(ds.Bounds()).Validate(); err != nil {
		sendError(c, err)
		return
	}

	// the raw request is stored so open bounds follow later reloads
	state, err := h.sessions.Update(c.Request.Context(), session.ID(c), func(s *session.State) error {
		s.Filter = req
		return nil
	})
	if err != nil {
		sendError(c, err)
		return
	}
	h.respond(c, state)
}

// ResetSession clears filter, tickets and manual picks
// DELETE /api/v1/session
func (h *SessionHandler) ResetSession(c *gin.Context) {
	if err := h.sessions.Reset(c.Request.Context(), session.ID(c)); err != nil {
		sendError(c, err)
		return
	}
	h.respond(c, session.NewState(session.ID(c)))
}
