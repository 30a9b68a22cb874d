package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/stitts-dev/megasena-sim/internal/models"
)

var (
	// ErrUnsupportedFormat is returned for format ids other than csv, pdf and xlsx.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrNoTickets means the session has nothing to export.
	ErrNoTickets = errors.New("no tickets to export")
)

const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

const (
	pdfTitle   = "Simulated Tickets - Mega-Sena"
	xlsxSheet  = "Tickets"
	exportBase = "megasena_tickets"
)

// ExportService renders simulated tickets as downloadable files
type ExportService struct {
	compressPDF bool
	now         func() time.Time
}

func NewExportService() *ExportService {
	return &ExportService{
		compressPDF: true,
		now:         time.Now,
	}
}

// ExportFormat represents a supported export format
type ExportFormat struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MimeType    string `json:"mime_type"`
	Extension   string `json:"extension"`
	Description string `json:"description"`
}

// FileName is the download name for this format.
func (f ExportFormat) FileName() string {
	return exportBase + "." + f.Extension
}

// GetAvailableFormats returns all supported export formats
func (s *ExportService) GetAvailableFormats() []ExportFormat {
	return []ExportFormat{
		{
			ID:          FormatCSV,
			Name:        "CSV",
			MimeType:    "text/csv",
			Extension:   "csv",
			Description: "One ticket per row under Ball 1..Ball 6 headers",
		},
		{
			ID:          FormatPDF,
			Name:        "PDF",
			MimeType:    "application/pdf",
			Extension:   "pdf",
			Description: "Printable list, one ticket per line, paginated",
		},
		{
			ID:          FormatXLSX,
			Name:        "Excel",
			MimeType:    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Extension:   "xlsx",
			Description: "Spreadsheet with the same table as the CSV export",
		},
	}
}

// Format looks up a format by id.
func (s *ExportService) Format(id string) (ExportFormat, error) {
	for _, f := range s.GetAvailableFormats() {
		if f.ID == id {
			return f, nil
		}
	}
	return ExportFormat{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, id)
}

// ExportTickets renders tickets in the given format, in generation order.
func (s *ExportService) ExportTickets(tickets []models.Ticket, format string) ([]byte, error) {
	if _, err := s.Format(format); err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, ErrNoTickets
	}

	switch format {
	case FormatCSV:
		return s.exportCSV(tickets)
	case FormatPDF:
		return s.exportPDF(tickets)
	default:
		return s.exportXLSX(tickets)
	}
}

func headerFor(tickets []models.Ticket) []string {
	width := 0
	for _, t := range tickets {
		if len(t) > width {
			width = len(t)
		}
	}
	return models.BallHeaders(width)
}

func (s *ExportService) exportCSV(tickets []models.Ticket) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headerFor(tickets)); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}
	for i, t := range tickets {
		if err := writer.Write(t.Strings()); err != nil {
			return nil, fmt.Errorf("failed to write ticket %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// exportPDF writes a centred title and one "Ticket i: ..." line per ticket,
// breaking pages automatically at the bottom margin.
func (s *ExportService) exportPDF(tickets []models.Ticket) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(s.compressPDF)
	pdf.SetCreationDate(s.now())
	pdf.SetCatalogSort(true)
	pdf.SetTitle(pdfTitle, false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)

	pdf.CellFormat(0, 10, pdfTitle, "", 1, "C", false, 0, "")
	for i, t := range tickets {
		pdf.CellFormat(0, 10, fmt.Sprintf("Ticket %d: %s", i+1, t.String()), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ExportService) exportXLSX(tickets []models.Ticket) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := headerFor(tickets)
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve header range: %w", err)
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style headers: %w", err)
	}

	for i, t := range tickets {
		row := make([]interface{}, len(t))
		for j, n := range t {
			row[j] = n
		}
		if err := f.SetSheetRow(xlsxSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, fmt.Errorf("failed to write ticket %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialise workbook: %w", err)
	}
	return buf.Bytes(), nil
}
