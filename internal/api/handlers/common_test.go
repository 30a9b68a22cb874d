package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/internal/models"
	"github.com/stitts-dev/megasena-sim/internal/sampler"
	"github.com/stitts-dev/megasena-sim/internal/services"
	"github.com/stitts-dev/megasena-sim/internal/stats"
)

func TestSendError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		code int
		body string
	}{
		{draws.ErrNoData, http.StatusServiceUnavailable, "NO_DATA"},
		{fmt.Errorf("wrapped: %w", models.ErrInvalidFilter), http.StatusBadRequest, "INVALID_FILTER"},
		{stats.ErrInvalidSelection, http.StatusBadRequest, "VALIDATION_ERROR"},
		{sampler.ErrInsufficientCandidates, http.StatusUnprocessableEntity, "SIMULATION_ERROR"},
		{services.ErrUnsupportedFormat, http.StatusNotFound, "NOT_FOUND"},
		{services.ErrNoTickets, http.StatusConflict, "NO_TICKETS"},
		{fmt.Errorf("reload: %w", draws.ErrEmptyDataset), http.StatusUnprocessableEntity, "UPLOAD_FAILED"},
		{draws.ErrUnreadableWorkbook, http.StatusBadRequest, "UPLOAD_FAILED"},
		{draws.ErrSourceUnavailable, http.StatusBadGateway, "SOURCE_UNAVAILABLE"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			sendError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestSendExportError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		code int
		body string
	}{
		{services.ErrNoTickets, http.StatusConflict, "NO_TICKETS"},
		{fmt.Errorf("csv: %w", services.ErrUnsupportedFormat), http.StatusNotFound, "NOT_FOUND"},
		{errors.New("pdf: font missing"), http.StatusInternalServerError, "EXPORT_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			sendExportError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestParseNumberList(t *testing.T) {
	numbers, err := parseNumberList(" 5, 41,,60 ")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 41, 60}, numbers)

	_, err = parseNumberList("5,forty")
	assert.Error(t, err)
}
