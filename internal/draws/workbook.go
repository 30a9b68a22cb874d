package draws

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/stitts-dev/megasena-sim/internal/models"
)

// DefaultSheet is the sheet name used by the asloterias.com.br export.
const DefaultSheet = "mega_sena_www.asloterias.com.br"

// DefaultHeaderRows is the number of banner rows above the header row.
const DefaultHeaderRows = 5

// columns: draw id, date, six balls
const workbookColumns = 2 + models.BallsPerDraw

// ErrUnreadableWorkbook means the bytes are not an xlsx file or its draw sheet cannot be read.
var ErrUnreadableWorkbook = errors.New("unreadable workbook")

// ParseOptions controls where the table sits in the workbook.
type ParseOptions struct {
	Sheet      string
	HeaderRows int
	Logger     *logrus.Logger
}

// DefaultParseOptions matches the published Mega-Sena results workbook.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{Sheet: DefaultSheet, HeaderRows: DefaultHeaderRows}
}

// ParseReport counts what happened to each data row.
type ParseReport struct {
	Sheet      string         `json:"sheet"`
	Rows       int            `json:"rows"`
	Loaded     int            `json:"loaded"`
	Dropped    int            `json:"dropped"`
	Duplicates int            `json:"duplicates"`
	Reasons    map[string]int `json:"reasons,omitempty"`
}

func (r *ParseReport) drop(reason string) {
	r.Dropped++
	if r.Reasons == nil {
		r.Reasons = make(map[string]int)
	}
	r.Reasons[reason]++
}

// ParseWorkbook reads draws from an .xlsx stream. It skips opts.HeaderRows
// banner rows and one header row, then reads the first eight columns
// positionally as draw id, date and six balls. Rows that do not form a
// valid draw are dropped and counted, never failing the load.
func ParseWorkbook(r io.Reader, opts ParseOptions) ([]models.DrawRecord, *ParseReport, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		first := f.GetSheetName(0)
		if first == "" {
			return nil, nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableWorkbook)
		}
		if opts.Logger != nil {
			opts.Logger.WithFields(logrus.Fields{
				"wanted": sheet,
				"using":  first,
			}).Warn("Sheet not found, falling back to first sheet")
		}
		sheet = first
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading sheet %q: %v", ErrUnreadableWorkbook, sheet, err)
	}

	records, report := parseRows(rows, opts.HeaderRows, opts.Logger)
	report.Sheet = sheet
	return records, report, nil
}

func parseRows(rows [][]string, headerRows int, log *logrus.Logger) ([]models.DrawRecord, *ParseReport) {
	report := &ParseReport{}

	start := headerRows + 1
	if start > len(rows) {
		return []models.DrawRecord{}, report
	}

	seen := make(map[int]bool)
	records := make([]models.DrawRecord, 0, len(rows)-start)
	for i, row := range rows[start:] {
		if isBlank(row) {
			continue
		}
		report.Rows++

		rec, reason := parseRow(row)
		if reason != "" {
			report.drop(reason)
			if log != nil {
				log.WithFields(logrus.Fields{
					"row":    start + i + 1,
					"reason": reason,
				}).Debug("Dropping malformed draw row")
			}
			continue
		}
		if seen[rec.DrawID] {
			report.Duplicates++
			report.drop("duplicate draw id")
			continue
		}
		seen[rec.DrawID] = true
		records = append(records, rec)
	}

	SortByDrawID(records)
	report.Loaded = len(records)
	return records, report
}

// parseRow returns a non-empty reason when the row is not a valid draw.
func parseRow(row []string) (models.DrawRecord, string) {
	if len(row) < workbookColumns {
		return models.DrawRecord{}, "missing columns"
	}

	drawID, ok := parseInt(row[0])
	if !ok {
		return models.DrawRecord{}, "non-numeric draw id"
	}

	date, ok := ParseDate(row[1])
	if !ok {
		return models.DrawRecord{}, "unparseable date"
	}

	numbers := make([]int, 0, models.BallsPerDraw)
	for _, cell := range row[2:workbookColumns] {
		n, ok := parseInt(cell)
		if !ok {
			return models.DrawRecord{}, "non-numeric ball"
		}
		numbers = append(numbers, n)
	}

	rec, err := models.NewDrawRecord(drawID, date, numbers)
	if err != nil {
		return models.DrawRecord{}, "invalid draw"
	}
	return rec, ""
}

// parseInt accepts integers and integral floats ("12", "12.0").
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"01-02-06",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
}

// ParseDate reads an Excel serial date or one of the text layouts seen in
// published result sheets (day-first for slashes).
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if serial <= 0 {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return models.TruncateDate(t), true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.TruncateDate(t), true
		}
	}
	return time.Time{}, false
}

// SortByDrawID orders records by ascending draw id.
func SortByDrawID(records []models.DrawRecord) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].DrawID < records[j].DrawID })
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
