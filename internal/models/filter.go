package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidFilter marks inverted or otherwise unusable draw ranges.
var ErrInvalidFilter = errors.New("invalid filter")

// Filter selects draws by inclusive draw-id and date ranges.
type Filter struct {
	MinDrawID int
	MaxDrawID int
	StartDate time.Time
	EndDate   time.Time
}

func (f Filter) IsZero() bool {
	return f.MinDrawID == 0 && f.MaxDrawID == 0 && f.StartDate.IsZero() && f.EndDate.IsZero()
}

func (f Filter) Validate() error {
	if f.MinDrawID > f.MaxDrawID {
		return fmt.Errorf("%w: first draw %d is after last draw %d", ErrInvalidFilter, f.MinDrawID, f.MaxDrawID)
	}
	if f.EndDate.Before(f.StartDate) {
		return fmt.Errorf("%w: start date %s is after end date %s",
			ErrInvalidFilter, f.StartDate.Format(DateLayout), f.EndDate.Format(DateLayout))
	}
	return nil
}

// Match reports whether the draw falls inside every bound.
func (f Filter) Match(d DrawRecord) bool {
	return d.DrawID >= f.MinDrawID &&
		d.DrawID <= f.MaxDrawID &&
		!d.Date.Before(f.StartDate) &&
		!d.Date.After(f.EndDate)
}

// Clamp pulls each bound into the given range, the way a bounded number
// input behaves. Zero-valued bounds take the range's value.
func (f Filter) Clamp(bounds Filter) Filter {
	out := f
	if out.MinDrawID == 0 || out.MinDrawID < bounds.MinDrawID {
		out.MinDrawID = bounds.MinDrawID
	}
	if out.MinDrawID > bounds.MaxDrawID {
		out.MinDrawID = bounds.MaxDrawID
	}
	if out.MaxDrawID == 0 || out.MaxDrawID > bounds.MaxDrawID {
		out.MaxDrawID = bounds.MaxDrawID
	}
	if out.MaxDrawID < bounds.MinDrawID {
		out.MaxDrawID = bounds.MinDrawID
	}
	if out.StartDate.IsZero() {
		out.StartDate = bounds.StartDate
	}
	if out.EndDate.IsZero() {
		out.EndDate = bounds.EndDate
	}
	out.StartDate = TruncateDate(out.StartDate)
	out.EndDate = TruncateDate(out.EndDate)
	return out
}

type filterJSON struct {
	MinDrawID int    `json:"min_draw_id"`
	MaxDrawID int    `json:"max_draw_id"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

func (f Filter) MarshalJSON() ([]byte, error) {
	out := filterJSON{MinDrawID: f.MinDrawID, MaxDrawID: f.MaxDrawID}
	if !f.StartDate.IsZero() {
		out.StartDate = f.StartDate.Format(DateLayout)
	}
	if !f.EndDate.IsZero() {
		out.EndDate = f.EndDate.Format(DateLayout)
	}
	return json.Marshal(out)
}

func (f *Filter) UnmarshalJSON(data []byte) error {
	var in filterJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	parsed := Filter{MinDrawID: in.MinDrawID, MaxDrawID: in.MaxDrawID}
	var err error
	if in.StartDate != "" {
		if parsed.StartDate, err = time.Parse(DateLayout, in.StartDate); err != nil {
			return fmt.Errorf("%w: start_date: %v", ErrInvalidFilter, err)
		}
	}
	if in.EndDate != "" {
		if parsed.EndDate, err = time.Parse(DateLayout, in.EndDate); err != nil {
			return fmt.Errorf("%w: end_date: %v", ErrInvalidFilter, err)
		}
	}
	*f = parsed
	return nil
}
