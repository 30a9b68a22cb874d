package sampler

import (
	"fmt"

	"github.com/stitts-dev/megasena-sim/internal/models"
)

// AttemptError records why one ticket could not be produced.
type AttemptError struct {
	Attempt int    `json:"attempt"`
	Message string `json:"message"`
	err     error
}

func (e AttemptError) Error() string {
	return fmt.Sprintf("attempt %d: %s", e.Attempt, e.Message)
}

func (e AttemptError) Unwrap() error { return e.err }

// GenerationResult is the outcome of a batch of ticket draws.
type GenerationResult struct {
	Tickets        []models.Ticket `json:"tickets"`
	TotalRequested int             `json:"total_requested"`
	Completed      int             `json:"completed"`
	Failed         int             `json:"failed"`
	PartialSuccess bool            `json:"partial_success"`
	Errors         []AttemptError  `json:"errors,omitempty"`
}

// Err returns the first attempt error, if any.
func (r *GenerationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

// Generate draws count tickets of size n. The loop stops at the first failed
// attempt; tickets drawn before it are kept.
func (s *Sampler) Generate(weights map[int]int, count, n int) (*GenerationResult, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: ticket count must be positive, got %d", ErrInvalidCount, count)
	}

	result := &GenerationResult{
		Tickets:        make([]models.Ticket, 0, count),
		TotalRequested: count,
	}

	for attempt := 1; attempt <= count; attempt++ {
		ticket, err := s.UniqueTicket(weights, n)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, AttemptError{Attempt: attempt, Message: err.Error(), err: err})
			break
		}
		result.Tickets = append(result.Tickets, ticket)
		result.Completed++
	}

	result.PartialSuccess = result.Completed > 0 && result.Completed < count
	return result, nil
}
