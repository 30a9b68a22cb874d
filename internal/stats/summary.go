package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/stitts-dev/megasena-sim/internal/models"
)

// Summary describes how a frequency table spreads over the domain.
type Summary struct {
	Draws     int     `json:"draws"`
	Balls     int     `json:"balls"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       int     `json:"min"`
	Max       int     `json:"max"`
	Hottest   []Entry `json:"hottest"`
	Coldest   []Entry `json:"coldest"`
	ChiSquare float64 `json:"chi_square"`
}

// topN is how many numbers Summarize lists as hottest and coldest.
const topN = 6

// Summarize computes descriptive statistics over all 60 numbers, with the
// chi-square distance from a uniform expectation.
func Summarize(t *Table) Summary {
	all := t.ByNumber()
	observed := make([]float64, len(all))
	balls := 0
	for i, e := range all {
		observed[i] = float64(e.Frequency)
		balls += e.Frequency
	}

	s := Summary{Draws: t.Draws(), Balls: balls}
	if balls == 0 {
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(observed, nil)

	expected := make([]float64, len(all))
	for i := range expected {
		expected[i] = float64(balls) / float64(models.MaxNumber)
	}
	s.ChiSquare = stat.ChiSquare(observed, expected)

	s.Min, s.Max = all[0].Frequency, all[0].Frequency
	for _, e := range all[1:] {
		if e.Frequency < s.Min {
			s.Min = e.Frequency
		}
		if e.Frequency > s.Max {
			s.Max = e.Frequency
		}
	}

	ranked := t.Entries()
	n := topN
	if n > len(ranked) {
		n = len(ranked)
	}
	s.Hottest = ranked[:n]

	// coldest come from the full domain so never-drawn numbers show up
	coldest := make([]Entry, len(all))
	copy(coldest, all)
	sort.SliceStable(coldest, func(i, j int) bool {
		if coldest[i].Frequency != coldest[j].Frequency {
			return coldest[i].Frequency < coldest[j].Frequency
		}
		return coldest[i].Number < coldest[j].Number
	})
	s.Coldest = coldest[:topN]

	return s
}
