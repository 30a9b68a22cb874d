package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/internal/models"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	rows := []struct {
		id    int
		date  string
		balls []int
	}{
		{1, "1996-03-11", []int{41, 5, 4, 52, 30, 33}},
		{2, "1996-03-18", []int{9, 39, 37, 49, 43, 41}},
		{3, "1996-03-25", []int{36, 30, 10, 11, 29, 47}},
	}
	records := make([]models.DrawRecord, len(rows))
	for i, r := range rows {
		date, err := time.Parse(models.DateLayout, r.date)
		require.NoError(t, err)
		records[i], err = models.NewDrawRecord(r.id, date, r.balls)
		require.NoError(t, err)
	}

	buf, err := draws.WriteWorkbook(records, draws.DefaultParseOptions())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "draws.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func resetFlags() {
	verbose, sheet, headerRows = false, draws.DefaultSheet, draws.DefaultHeaderRows
	fromDraw, toDraw, startDate, endDate = 0, 0, "", ""
	chartPath, lookupNums, topOnly = "", nil, 0
	ticketCount, ticketSize, seed, outPath = 1, models.BallsPerDraw, 0, ""
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestFrequencyCommand(t *testing.T) {
	path := writeFixture(t)

	out, err := execute(t, "frequency", path, "--top", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "3 draws from 1996-03-11 to 1996-03-25")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines[3], "30")
	assert.Contains(t, lines[4], "41")
	assert.Contains(t, out, "chi-square")
}

func TestFrequencyCommand_LookupAndChart(t *testing.T) {
	path := writeFixture(t)
	png := filepath.Join(t.TempDir(), "pick.png")

	out, err := execute(t, "frequency", path, "--numbers", "60,41", "--from", "2", "--chart", png)
	require.NoError(t, err)
	assert.Contains(t, out, "2 draws")
	assert.Contains(t, out, "chart written")

	data, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestFrequencyCommand_BadFilter(t *testing.T) {
	path := writeFixture(t)

	_, err := execute(t, "frequency", path, "--start", "1996-03-25", "--end", "1996-03-11")
	assert.ErrorIs(t, err, models.ErrInvalidFilter)
}

func TestSimulateCommand_Export(t *testing.T) {
	path := writeFixture(t)
	xlsx := filepath.Join(t.TempDir(), "tickets.xlsx")

	out, err := execute(t, "simulate", path, "-n", "4", "--seed", "42", "-o", xlsx)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(out, "Ticket "))
	assert.Contains(t, out, "4 tickets exported")

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Tickets")
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func TestSimulateCommand_SeedIsReproducible(t *testing.T) {
	path := writeFixture(t)

	a, err := execute(t, "simulate", path, "-n", "3", "--seed", "9")
	require.NoError(t, err)
	b, err := execute(t, "simulate", path, "-n", "3", "--seed", "9")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSimulateCommand_Errors(t *testing.T) {
	path := writeFixture(t)

	_, err := execute(t, "simulate", path, "-o", "tickets.docx")
	assert.Error(t, err)

	// draw 1 alone has six numbers, not enough for seven
	_, err = execute(t, "simulate", path, "--from", "1", "--to", "1", "--size", "7")
	assert.Error(t, err)
}

func TestSimulateCommand_CountBounds(t *testing.T) {
	path := writeFixture(t)

	for _, n := range []string{"0", "51"} {
		_, err := execute(t, "simulate", path, "-n", n)
		require.Error(t, err, "count %s", n)
		assert.Contains(t, err.Error(), "between 1 and 50")
	}

	out, err := execute(t, "simulate", path, "-n", "50", "--seed", "1")
	require.NoError(t, err)
	assert.Equal(t, 50, strings.Count(out, "Ticket "))
}
