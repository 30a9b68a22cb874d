package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTicket is returned by Ticket.Validate.
var ErrInvalidTicket = errors.New("invalid ticket")

// Ticket is an ascending sequence of distinct numbers.
type Ticket []int

// Validate checks length, domain, ordering and uniqueness.
func (t Ticket) Validate(size int) error {
	if len(t) != size {
		return fmt.Errorf("%w: expected %d numbers, got %d", ErrInvalidTicket, size, len(t))
	}
	for i, n := range t {
		if !ValidNumber(n) {
			return fmt.Errorf("%w: number %d outside [%d,%d]", ErrInvalidTicket, n, MinNumber, MaxNumber)
		}
		if i > 0 && t[i-1] >= n {
			return fmt.Errorf("%w: numbers must be strictly ascending", ErrInvalidTicket)
		}
	}
	return nil
}

// Strings renders each number in decimal, for table cells.
func (t Ticket) Strings() []string {
	out := make([]string, len(t))
	for i, n := range t {
		out[i] = strconv.Itoa(n)
	}
	return out
}

func (t Ticket) String() string {
	return strings.Join(t.Strings(), ", ")
}

// BallHeaders returns "Ball 1".."Ball n".
func BallHeaders(n int) []string {
	headers := make([]string, n)
	for i := range headers {
		headers[i] = fmt.Sprintf("Ball %d", i+1)
	}
	return headers
}
