package stats

import (
	"errors"
	"fmt"
	"sort"

	"github.com/stitts-dev/megasena-sim/internal/models"
)

// MaxSelection caps a manual lookup at one ticket's worth of numbers.
const MaxSelection = models.BallsPerDraw

// ErrInvalidSelection wraps every reason a number lookup is refused.
var ErrInvalidSelection = errors.New("invalid selection")

// Entry is one row of a frequency table.
type Entry struct {
	Number    int `json:"number"`
	Frequency int `json:"frequency"`
}

// Table counts appearances per number over a set of draws.
type Table struct {
	counts [models.MaxNumber + 1]int
	draws  int
}

// FilterDraws returns the draws matching f, keeping their order.
func FilterDraws(draws []models.DrawRecord, f models.Filter) []models.DrawRecord {
	out := make([]models.DrawRecord, 0, len(draws))
	for _, d := range draws {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}

// Count builds the frequency table for draws.
func Count(draws []models.DrawRecord) *Table {
	t := &Table{draws: len(draws)}
	for _, d := range draws {
		for _, n := range d.Numbers {
			if models.ValidNumber(n) {
				t.counts[n]++
			}
		}
	}
	return t
}

// Draws is the number of draws the table was computed from.
func (t *Table) Draws() int { return t.draws }

// Get returns the count for n, zero outside the domain.
func (t *Table) Get(n int) int {
	if !models.ValidNumber(n) {
		return 0
	}
	return t.counts[n]
}

// Entries lists numbers that were drawn at least once, most frequent first,
// ties broken by the smaller number.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, models.MaxNumber)
	for n := models.MinNumber; n <= models.MaxNumber; n++ {
		if t.counts[n] > 0 {
			entries = append(entries, Entry{Number: n, Frequency: t.counts[n]})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Frequency != entries[j].Frequency {
			return entries[i].Frequency > entries[j].Frequency
		}
		return entries[i].Number < entries[j].Number
	})
	return entries
}

// ByNumber lists every number in the domain in ascending order, zero counts included.
func (t *Table) ByNumber() []Entry {
	entries := make([]Entry, 0, models.MaxNumber)
	for n := models.MinNumber; n <= models.MaxNumber; n++ {
		entries = append(entries, Entry{Number: n, Frequency: t.counts[n]})
	}
	return entries
}

// Weights is the sampler input: positive counts only.
func (t *Table) Weights() map[int]int {
	weights := make(map[int]int, models.MaxNumber)
	for n := models.MinNumber; n <= models.MaxNumber; n++ {
		if t.counts[n] > 0 {
			weights[n] = t.counts[n]
		}
	}
	return weights
}

// ValidateSelection checks a manual pick: 1..6 distinct numbers in the domain.
func ValidateSelection(numbers []int) error {
	if len(numbers) == 0 {
		return fmt.Errorf("%w: select at least one number", ErrInvalidSelection)
	}
	if len(numbers) > MaxSelection {
		return fmt.Errorf("%w: select up to %d numbers, got %d", ErrInvalidSelection, MaxSelection, len(numbers))
	}
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		if !models.ValidNumber(n) {
			return fmt.Errorf("%w: number %d outside [%d,%d]", ErrInvalidSelection, n, models.MinNumber, models.MaxNumber)
		}
		if seen[n] {
			return fmt.Errorf("%w: number %d selected twice", ErrInvalidSelection, n)
		}
		seen[n] = true
	}
	return nil
}

// Lookup returns the frequency of each selected number in ascending order.
func (t *Table) Lookup(numbers []int) ([]Entry, error) {
	if err := ValidateSelection(numbers); err != nil {
		return nil, err
	}

	sorted := append([]int(nil), numbers...)
	sort.Ints(sorted)

	entries := make([]Entry, len(sorted))
	for i, n := range sorted {
		entries[i] = Entry{Number: n, Frequency: t.counts[n]}
	}
	return entries, nil
}
