package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/megasena-sim/internal/chart"
	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/internal/models"
	"github.com/stitts-dev/megasena-sim/internal/session"
	"github.com/stitts-dev/megasena-sim/internal/stats"
	"github.com/stitts-dev/megasena-sim/pkg/utils"
)

type FrequencyHandler struct {
	store    *draws.Store
	sessions *session.Manager
}

func NewFrequencyHandler(store *draws.Store, sessions *session.Manager) *FrequencyHandler {
	return &FrequencyHandler{store: store, sessions: sessions}
}

type frequencyResponse struct {
	Filter  models.Filter `json:"filter"`
	Draws   int           `json:"draws"`
	Entries []stats.Entry `json:"entries"`
	Summary stats.Summary `json:"summary"`
}

// GetFrequency returns how often each number was drawn under the session
// filter, most frequent first
// GET /api/v1/frequency
func (h *FrequencyHandler) GetFrequency(c *gin.Context) {
	v, err := resolveView(c, h.store, h.sessions)
	if err != nil {
		sendError(c, err)
		return
	}

	table := v.table()
	utils.SendSuccess(c, frequencyResponse{
		Filter:  v.filter,
		Draws:   table.Draws(),
		Entries: table.Entries(),
		Summary: stats.Summarize(table),
	})
}

// GetFrequencyChart renders the frequency table as a PNG bar chart
// GET /api/v1/frequency/chart.png
func (h *FrequencyHandler) GetFrequencyChart(c *gin.Context) {
	v, err := resolveView(c, h.store, h.sessions)
	if err != nil {
		sendError(c, err)
		return
	}

	title := fmt.Sprintf("Number frequency, draws %d-%d", v.filter.MinDrawID, v.filter.MaxDrawID)
	var buf bytes.Buffer
	if err := chart.Frequency(&buf, v.table(), chart.DefaultOptions(title)); err != nil {
		if errors.Is(err, chart.ErrNoEntries) {
			utils.SendNotFound(c, "No draws match the current filter")
			return
		}
		sendError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

type lookupRequest struct {
	Numbers []int `json:"numbers" binding:"required"`
}

// LookupNumbers reports the frequency of up to six chosen numbers and
// remembers the choice in the session
// POST /api/v1/frequency/lookup
func (h *FrequencyHandler) LookupNumbers(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	v, err := resolveView(c, h.store, h.sessions)
	if err != nil {
		sendError(c, err)
		return
	}
	entries, err := v.table().Lookup(req.Numbers)
	if err != nil {
		sendError(c, err)
		return
	}

	if _, err := h.sessions.Update(c.Request.Context(), session.ID(c), func(s *session.State) error {
		s.ManualPicks = append([]int{}, req.Numbers...)
		return nil
	}); err != nil {
		sendError(c, err)
		return
	}

	utils.SendSuccess(c, entries)
}

// GetLookupChart charts a selection given as ?numbers=5,41,60, or the
// session's last manual pick when omitted
// GET /api/v1/frequency/lookup/chart.png
func (h *FrequencyHandler) GetLookupChart(c *gin.Context) {
	v, err := resolveView(c, h.store, h.sessions)
	if err != nil {
		sendError(c, err)
		return
	}

	numbers := v.state.ManualPicks
	if raw := c.Query("numbers"); raw != "" {
		numbers, err = parseNumberList(raw)
		if err != nil {
			utils.SendValidationError(c, "Invalid numbers", err.Error())
			return
		}
	}

	entries, err := v.table().Lookup(numbers)
	if err != nil {
		sendError(c, err)
		return
	}

	var buf bytes.Buffer
	opts := chart.DefaultOptions("Selected numbers")
	opts.Width = opts.Height
	if err := chart.Bars(&buf, entries, opts); err != nil {
		sendError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func parseNumberList(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", p)
		}
		out = append(out, n)
	}
	return out, nil
}
