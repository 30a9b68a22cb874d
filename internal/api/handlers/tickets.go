package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/internal/models"
	"github.com/stitts-dev/megasena-sim/internal/sampler"
	"github.com/stitts-dev/megasena-sim/internal/session"
	"github.com/stitts-dev/megasena-sim/pkg/logger"
	"github.com/stitts-dev/megasena-sim/pkg/utils"
)

type TicketsHandler struct {
	store      *draws.Store
	sessions   *session.Manager
	sampler    *sampler.Sampler
	ticketSize int
	maxTickets int
}

func NewTicketsHandler(store *draws.Store, sessions *session.Manager, s *sampler.Sampler, ticketSize, maxTickets int) *TicketsHandler {
	return &TicketsHandler{
		store:      store,
		sessions:   sessions,
		sampler:    s,
		ticketSize: ticketSize,
		maxTickets: maxTickets,
	}
}

type generateRequest struct {
	Count  int  `json:"count"`
	Append bool `json:"append"`
}

type generateResponse struct {
	*sampler.GenerationResult
	SessionTickets []models.Ticket `json:"session_tickets"`
}

// GenerateTickets draws tickets weighted by frequency under the session
// filter. Without append the session's previous tickets are replaced; with
// append the session may hold at most maxTickets in total.
// POST /api/v1/tickets/generate
func (h *TicketsHandler) GenerateTickets(c *gin.Context) {
	req := generateRequest{Count: 1}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendValidationError(c, "Invalid request body", err.Error())
			return
		}
	}
	if req.Count < 1 || req.Count > h.maxTickets {
		utils.SendValidationError(c, "Invalid ticket count", fmt.Sprintf("count must be between 1 and %d", h.maxTickets))
		return
	}

	v, err := resolveView(c, h.store, h.sessions)
	if err != nil {
		sendError(c, err)
		return
	}
	if req.Append {
		if err := h.checkCapacity(len(v.state.Tickets), req.Count); err != nil {
			sendError(c, err)
			return
		}
	}

	result, err := h.sampler.Generate(v.table().Weights(), req.Count, h.ticketSize)
	if err != nil {
		sendError(c, err)
		return
	}

	log := logger.WithSession(session.ID(c)).WithFields(logrus.Fields{
		"requested": result.TotalRequested,
		"completed": result.Completed,
		"failed":    result.Failed,
	})
	if result.Completed == 0 {
		log.Warn("Ticket generation produced nothing")
		sendError(c, result.Err())
		return
	}
	log.Debug("Tickets generated")

	state, err := h.sessions.Update(c.Request.Context(), session.ID(c), func(s *session.State) error {
		if !req.Append {
			s.Tickets = s.Tickets[:0]
		} else if err := h.checkCapacity(len(s.Tickets), len(result.Tickets)); err != nil {
			return err
		}
		s.Tickets = append(s.Tickets, result.Tickets...)
		return nil
	})
	if err != nil {
		sendError(c, err)
		return
	}

	utils.SendSuccess(c, generateResponse{GenerationResult: result, SessionTickets: state.Tickets})
}

// checkCapacity keeps a session at no more than maxTickets tickets.
func (h *TicketsHandler) checkCapacity(held, adding int) error {
	if held+adding > h.maxTickets {
		return fmt.Errorf("%w: session holds %d tickets, adding %d would exceed %d",
			sampler.ErrInvalidCount, held, adding, h.maxTickets)
	}
	return nil
}

// ListTickets returns the tickets held in the session, in generation order
// GET /api/v1/tickets
func (h *TicketsHandler) ListTickets(c *gin.Context) {
	state, err := h.sessions.Load(c.Request.Context(), session.ID(c))
	if err != nil {
		sendError(c, err)
		return
	}
	utils.SendSuccess(c, state.Tickets)
}

// ClearTickets drops every ticket from the session
// DELETE /api/v1/tickets
func (h *TicketsHandler) ClearTickets(c *gin.Context) {
	_, err := h.sessions.Update(c.Request.Context(), session.ID(c), func(s *session.State) error {
		s.Tickets = []models.Ticket{}
		return nil
	})
	if err != nil {
		sendError(c, err)
		return
	}
	utils.SendSuccess(c, []models.Ticket{})
}
