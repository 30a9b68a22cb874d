package draws

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stitts-dev/megasena-sim/internal/models"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(models.DateLayout, s)
	require.NoError(t, err)
	return d
}

func fixtureRecords(t *testing.T) []models.DrawRecord {
	t.Helper()
	mk := func(id int, date string, n ...int) models.DrawRecord {
		rec, err := models.NewDrawRecord(id, mustDate(t, date), n)
		require.NoError(t, err)
		return rec
	}
	return []models.DrawRecord{
		mk(1, "1996-03-11", 41, 5, 4, 52, 30, 33),
		mk(2, "1996-03-18", 9, 39, 37, 49, 43, 41),
		mk(3, "1996-03-25", 36, 30, 10, 11, 29, 47),
	}
}

// messyWorkbook mirrors a real export: banner rows, header, good rows and junk.
func messyWorkbook(t *testing.T, sheet string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))

	rows := [][]interface{}{
		{"www.asloterias.com.br"},
		{"Mega-Sena - todos os resultados"},
		{},
		{"Gerado em", "01/01/2025"},
		{},
		{"Concurso", "Data", "bola 1", "bola 2", "bola 3", "bola 4", "bola 5", "bola 6"},
		{3, "25/03/1996", 36, 30, 10, 11, 29, 47},
		{1, mustDate(t, "1996-03-11"), 41, 5, 4, 52, 30, 33},
		{"Concurso", "Data", "bola 1", "bola 2", "bola 3", "bola 4", "bola 5", "bola 6"},
		{2, "1996-03-18", 9, 39, 37, 49, 43, 41},
		{4, "sem data", 1, 2, 3, 4, 5, 6},
		{5, "01/04/1996", 1, 2, 3, 4, 5, 5},
		{6, "08/04/1996", 1, 2, 3, 4, 5, 61},
		{7, "15/04/1996", 1, 2, 3},
		{2, "1996-03-18", 1, 2, 3, 4, 5, 6},
		{},
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		require.NoError(t, f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseWorkbook_DropsMalformedRows(t *testing.T) {
	records, report, err := ParseWorkbook(messyWorkbook(t, DefaultSheet), DefaultParseOptions())
	require.NoError(t, err)

	assert.Equal(t, fixtureRecords(t), records, "valid rows survive, sorted by draw id")
	assert.Equal(t, DefaultSheet, report.Sheet)
	assert.Equal(t, 9, report.Rows)
	assert.Equal(t, 3, report.Loaded)
	assert.Equal(t, 6, report.Dropped)
	assert.Equal(t, 1, report.Duplicates)
	assert.Equal(t, 1, report.Reasons["non-numeric draw id"])
	assert.Equal(t, 1, report.Reasons["unparseable date"])
	assert.Equal(t, 2, report.Reasons["invalid draw"])
	assert.Equal(t, 1, report.Reasons["missing columns"])
}

func TestParseWorkbook_FallsBackToFirstSheet(t *testing.T) {
	records, report, err := ParseWorkbook(messyWorkbook(t, "Resultados"), DefaultParseOptions())
	require.NoError(t, err)
	assert.Equal(t, "Resultados", report.Sheet)
	assert.Len(t, records, 3)
}

func TestParseWorkbook_Unreadable(t *testing.T) {
	_, _, err := ParseWorkbook(strings.NewReader("definitely not a zip archive"), DefaultParseOptions())
	assert.ErrorIs(t, err, ErrUnreadableWorkbook)
}

func TestParseWorkbook_OnlyHeader(t *testing.T) {
	buf, err := WriteWorkbook(nil, DefaultParseOptions())
	require.NoError(t, err)

	records, report, err := ParseWorkbook(buf, DefaultParseOptions())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, report.Loaded)
}

func TestWriteWorkbook_RoundTrip(t *testing.T) {
	opts := ParseOptions{Sheet: "draws", HeaderRows: 2}
	buf, err := WriteWorkbook(fixtureRecords(t), opts)
	require.NoError(t, err)

	records, report, err := ParseWorkbook(buf, opts)
	require.NoError(t, err)
	assert.Equal(t, fixtureRecords(t), records)
	assert.Equal(t, 0, report.Dropped)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"11/03/1996", "1996-03-11", true},
		{"1996-03-11", "1996-03-11", true},
		{"11-03-1996", "1996-03-11", true},
		{"03-11-96", "1996-03-11", true},
		{"35135", "1996-03-11", true},
		{"35135.5", "1996-03-11", true},
		{"", "", false},
		{"0", "", false},
		{"tomorrow", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, mustDate(t, tt.want), got)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	n, ok := parseInt(" 12 ")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	n, ok = parseInt("2805.0")
	assert.True(t, ok)
	assert.Equal(t, 2805, n)

	_, ok = parseInt("12.5")
	assert.False(t, ok)
	_, ok = parseInt("Concurso")
	assert.False(t, ok)
}
