// Package sampler draws lottery tickets from a frequency-weighted domain.
//
// Each ticket is sampled without replacement: a number is picked with
// probability proportional to its remaining weight, then its whole mass is
// removed before the next pick. Candidates are ordered by number before any
// draw, so a Sampler built from a fixed seed is fully reproducible.
package sampler

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/stitts-dev/megasena-sim/internal/models"
)

// DefaultTicketSize is the number of balls on a Mega-Sena ticket.
const DefaultTicketSize = models.BallsPerDraw

var (
	// ErrInsufficientCandidates means fewer numbers carry weight than a
	// ticket needs.
	ErrInsufficientCandidates = errors.New("insufficient candidates")
	// ErrInvalidCount rejects non-positive ticket sizes or counts.
	ErrInvalidCount = errors.New("invalid count")
	// ErrNegativeWeight rejects weight tables with negative entries.
	ErrNegativeWeight = errors.New("negative weight")
)

// candidate is one number with its cumulative weight through itself.
type candidate struct {
	number     int
	weight     int64
	cumulative int64
}

// Sampler wraps a random source. It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a sampler on top of src.
func New(src rand.Source) *Sampler {
	return &Sampler{rng: rand.New(src)}
}

// NewSeeded creates a sampler with a fixed seed, or a clock seed when seed is 0.
func NewSeeded(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return New(rand.NewSource(seed))
}

// buildCandidates keeps positive weights, sorted by number.
func buildCandidates(weights map[int]int) ([]candidate, error) {
	pool := make([]candidate, 0, len(weights))
	for number, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: number %d has weight %d", ErrNegativeWeight, number, w)
		}
		if w == 0 {
			continue
		}
		pool = append(pool, candidate{number: number, weight: int64(w)})
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].number < pool[j].number })
	accumulate(pool)
	return pool, nil
}

func accumulate(pool []candidate) {
	var total int64
	for i := range pool {
		total += pool[i].weight
		pool[i].cumulative = total
	}
}

// UniqueTicket returns n distinct numbers in ascending order, drawn from
// weights without replacement.
func (s *Sampler) UniqueTicket(weights map[int]int, n int) (models.Ticket, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: ticket size must be positive, got %d", ErrInvalidCount, n)
	}

	pool, err := buildCandidates(weights)
	if err != nil {
		return nil, err
	}
	if len(pool) < n {
		return nil, fmt.Errorf("%w: need %d numbers with positive weight, have %d", ErrInsufficientCandidates, n, len(pool))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ticket := make(models.Ticket, 0, n)
	for len(ticket) < n {
		total := pool[len(pool)-1].cumulative
		r := s.rng.Int63n(total)
		idx := sort.Search(len(pool), func(i int) bool { return pool[i].cumulative > r })

		ticket = append(ticket, pool[idx].number)

		// drop the picked number and renormalise what is left
		pool = append(pool[:idx], pool[idx+1:]...)
		accumulate(pool)
	}

	sort.Ints(ticket)
	return ticket, nil
}
