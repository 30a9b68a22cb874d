// Package chart renders frequency tables as PNG bar charts.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/stitts-dev/megasena-sim/internal/stats"
)

// ErrNoEntries means the frequency table has nothing to plot.
var ErrNoEntries = errors.New("nothing to chart")

var barColor = color.RGBA{R: 32, G: 120, B: 64, A: 255}

type Options struct {
	Title  string
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions fits all sixty numbers on one axis.
func DefaultOptions(title string) Options {
	return Options{Title: title, Width: 14 * vg.Inch, Height: 5 * vg.Inch}
}

// Bars writes a PNG bar chart with one bar per entry, in the order given,
// labelled by number.
func Bars(w io.Writer, entries []stats.Entry, opts Options) error {
	if len(entries) == 0 {
		return ErrNoEntries
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions(opts.Title)
		opts.Width, opts.Height = def.Width, def.Height
	}

	values := make(plotter.Values, len(entries))
	labels := make([]string, len(entries))
	maxFreq := 0
	for i, e := range entries {
		values[i] = float64(e.Frequency)
		labels[i] = strconv.Itoa(e.Number)
		if e.Frequency > maxFreq {
			maxFreq = e.Frequency
		}
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Number"
	p.Y.Label.Text = "Frequency"

	width := opts.Width / vg.Length(len(entries)+2) * 0.7
	bars, err := plotter.NewBarChart(values, width)
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)

	p.Add(plotter.NewGrid(), bars)
	p.NominalX(labels...)
	p.Y.Min = 0
	if maxFreq == 0 {
		p.Y.Max = 1
	} else {
		p.Y.Max = float64(maxFreq) * 1.1
	}

	wt, err := p.WriterTo(opts.Width, opts.Height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	return nil
}

// Frequency charts every number in the domain, never-drawn ones included.
func Frequency(w io.Writer, table *stats.Table, opts Options) error {
	if table.Draws() == 0 {
		return ErrNoEntries
	}
	return Bars(w, table.ByNumber(), opts)
}
