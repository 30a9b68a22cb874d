package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stitts-dev/megasena-sim/internal/models"
)

func sampleTickets(k int) []models.Ticket {
	tickets := make([]models.Ticket, k)
	for i := range tickets {
		base := i % 50
		tickets[i] = models.Ticket{base + 1, base + 3, base + 5, base + 7, base + 9, base + 11}
	}
	return tickets
}

func newTestExportService() *ExportService {
	s := NewExportService()
	s.compressPDF = false
	s.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestExportService_CSV(t *testing.T) {
	s := newTestExportService()
	tickets := sampleTickets(3)

	data, err := s.ExportTickets(tickets, FormatCSV)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Ball 1", "Ball 2", "Ball 3", "Ball 4", "Ball 5", "Ball 6"}, rows[0])
	for i, tk := range tickets {
		assert.Equal(t, tk.Strings(), rows[i+1])
	}
}

var pageMarker = regexp.MustCompile(`/Type /Page[^s]`)

func TestExportService_PDF(t *testing.T) {
	s := newTestExportService()
	tickets := sampleTickets(50)

	data, err := s.ExportTickets(tickets, FormatPDF)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	body := string(data)
	assert.Contains(t, body, "("+pdfTitle+")")
	assert.Equal(t, len(tickets), strings.Count(body, "(Ticket "))

	last := -1
	for i, tk := range tickets {
		line := fmt.Sprintf("(Ticket %d: %s)", i+1, tk.String())
		idx := strings.Index(body, line)
		require.GreaterOrEqual(t, idx, 0, "missing %s", line)
		assert.Greater(t, idx, last, "ticket %d out of order", i+1)
		last = idx
	}

	assert.Greater(t, len(pageMarker.FindAllString(body, -1)), 1, "fifty tickets do not fit on one page")
}

func TestExportService_PDFIsDeterministic(t *testing.T) {
	s := newTestExportService()
	a, err := s.ExportTickets(sampleTickets(2), FormatPDF)
	require.NoError(t, err)
	b, err := s.ExportTickets(sampleTickets(2), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExportService_XLSX(t *testing.T) {
	s := newTestExportService()
	tickets := sampleTickets(4)

	data, err := s.ExportTickets(tickets, FormatXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, models.BallHeaders(6), rows[0])
	for i, tk := range tickets {
		assert.Equal(t, tk.Strings(), rows[i+1])
	}
}

func TestExportService_Errors(t *testing.T) {
	s := newTestExportService()

	_, err := s.ExportTickets(sampleTickets(1), "docx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	for _, format := range []string{FormatCSV, FormatPDF, FormatXLSX} {
		_, err := s.ExportTickets(nil, format)
		assert.ErrorIs(t, err, ErrNoTickets, format)
	}
}

func TestExportService_Formats(t *testing.T) {
	s := NewExportService()
	formats := s.GetAvailableFormats()
	require.Len(t, formats, 3)

	f, err := s.Format(FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.MimeType)
	assert.Equal(t, "megasena_tickets.pdf", f.FileName())
}
