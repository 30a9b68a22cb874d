package draws

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/stitts-dev/megasena-sim/internal/models"
)

// WriteWorkbook lays draws out the way ParseWorkbook reads them: banner rows,
// a header row, then one draw per row with the date as an Excel date.
func WriteWorkbook(records []models.DrawRecord, opts ParseOptions) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = DefaultSheet
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if opts.HeaderRows > 0 {
		if err := f.SetCellValue(sheet, "A1", "Mega-Sena results"); err != nil {
			return nil, fmt.Errorf("failed to write banner: %w", err)
		}
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return nil, fmt.Errorf("failed to create date style: %w", err)
	}

	headerRow := opts.HeaderRows + 1
	header := []interface{}{"Concurso", "Data"}
	for _, h := range models.BallHeaders(models.BallsPerDraw) {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", headerRow), &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range records {
		row := headerRow + 1 + i
		values := []interface{}{rec.DrawID, rec.Date}
		for _, n := range rec.Numbers {
			values = append(values, n)
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return nil, fmt.Errorf("failed to write draw %d: %w", rec.DrawID, err)
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("B%d", row), dateStyle); err != nil {
			return nil, fmt.Errorf("failed to style draw %d: %w", rec.DrawID, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialise workbook: %w", err)
	}
	return buf, nil
}
