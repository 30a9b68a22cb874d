// Package session keeps per-browser dashboard state: the active filter,
// simulated tickets and the manual number selection.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/stitts-dev/megasena-sim/internal/models"
)

// ErrNotFound is returned by a Store for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// State is the mutable view a single dashboard session works on.
type State struct {
	ID          string          `json:"id"`
	Filter      models.Filter   `json:"filter"`
	Tickets     []models.Ticket `json:"tickets"`
	ManualPicks []int           `json:"manual_picks"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewState returns an empty state. A zero filter means the full dataset.
func NewState(id string) *State {
	return &State{
		ID:          id,
		Tickets:     []models.Ticket{},
		ManualPicks: []int{},
	}
}

// Clone returns a deep copy so stored state is never aliased by callers.
func (s *State) Clone() *State {
	out := *s
	out.Tickets = make([]models.Ticket, len(s.Tickets))
	for i, t := range s.Tickets {
		out.Tickets[i] = append(models.Ticket(nil), t...)
	}
	out.ManualPicks = append([]int{}, s.ManualPicks...)
	return &out
}

// Store persists session state.
type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, state *State) error
	Delete(ctx context.Context, id string) error
}
