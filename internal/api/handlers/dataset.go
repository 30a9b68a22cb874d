package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/pkg/utils"
)

type DatasetHandler struct {
	store     *draws.Store
	source    draws.Source
	repo      *draws.Repository
	parseOpts draws.ParseOptions
	maxUpload int64
	logger    *logrus.Logger
}

// NewDatasetHandler wires dataset management. source and repo may be nil:
// without a source reload is unavailable, without repo uploads are not
// archived.
func NewDatasetHandler(store *draws.Store, source draws.Source, repo *draws.Repository, parseOpts draws.ParseOptions, maxUploadMB int64, logger *logrus.Logger) *DatasetHandler {
	return &DatasetHandler{
		store:     store,
		source:    source,
		repo:      repo,
		parseOpts: parseOpts,
		maxUpload: maxUploadMB << 20,
		logger:    logger,
	}
}

// GetDataset returns provenance and ranges of the loaded draws
// GET /api/v1/dataset
func (h *DatasetHandler) GetDataset(c *gin.Context) {
	utils.SendSuccess(c, h.store.Status())
}

// UploadDataset replaces the loaded draws with an uploaded workbook
// POST /api/v1/dataset/upload (multipart field "file")
func (h *DatasetHandler) UploadDataset(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.SendError(c, http.StatusRequestEntityTooLarge, utils.NewAppError(utils.ErrCodeTooLarge,
				"Spreadsheet too large", fmt.Sprintf("uploads are limited to %d MB", tooLarge.Limit>>20)))
			return
		}
		utils.SendValidationError(c, "Missing spreadsheet", "send the workbook as multipart field \"file\"")
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		utils.SendValidationError(c, "Unsupported file type", "only .xlsx workbooks are accepted")
		return
	}

	f, err := header.Open()
	if err != nil {
		utils.SendError(c, http.StatusBadRequest, utils.NewAppError(utils.ErrCodeUpload, "Could not open upload", err.Error()))
		return
	}
	defer f.Close()

	opts := h.parseOpts
	opts.Logger = h.logger
	records, report, err := draws.ParseWorkbook(f, opts)
	if err != nil {
		sendError(c, err)
		return
	}

	name := filepath.Base(header.Filename)
	if _, err := h.store.Replace(records, name, report); err != nil {
		if errors.Is(err, draws.ErrEmptyDataset) {
			utils.SendError(c, http.StatusUnprocessableEntity, utils.NewAppError(utils.ErrCodeUpload,
				"The spreadsheet contains no valid draws", describeReport(report)))
			return
		}
		sendError(c, err)
		return
	}

	if h.repo != nil {
		if _, err := h.repo.Upsert(c.Request.Context(), records); err != nil {
			h.logger.WithError(err).Warn("Failed to archive uploaded draws")
		}
	}

	utils.SendSuccess(c, h.store.Status())
}

// ReloadDataset reloads draws from the configured source
// POST /api/v1/dataset/reload
func (h *DatasetHandler) ReloadDataset(c *gin.Context) {
	if h.source == nil {
		utils.SendError(c, http.StatusConflict, utils.NewAppError(utils.ErrCodeUnavailable, "No draw source configured"))
		return
	}

	if _, err := h.store.Reload(c.Request.Context(), h.source); err != nil {
		sendError(c, fmt.Errorf("reload: %w", err))
		return
	}
	utils.SendSuccess(c, h.store.Status())
}

// describeReport summarises why rows were dropped, e.g.
// "12 rows read, 12 dropped (bad date: 2, missing columns: 10)".
func describeReport(report *draws.ParseReport) string {
	if report == nil {
		return ""
	}
	out := fmt.Sprintf("%d rows read, %d dropped", report.Rows, report.Dropped)
	if len(report.Reasons) == 0 {
		return out
	}
	reasons := make([]string, 0, len(report.Reasons))
	for reason, n := range report.Reasons {
		reasons = append(reasons, fmt.Sprintf("%s: %d", reason, n))
	}
	sort.Strings(reasons)
	return out + " (" + strings.Join(reasons, ", ") + ")"
}
