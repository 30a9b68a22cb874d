package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/datatypes"
)

const (
	MinNumber    = 1
	MaxNumber    = 60
	BallsPerDraw = 6

	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
)

// ErrInvalidDraw marks a draw row that cannot become a DrawRecord.
var ErrInvalidDraw = errors.New("invalid draw")

// DrawRecord is one historical draw. Numbers keep the order in which the
// balls appear in the source sheet.
type DrawRecord struct {
	DrawID  int
	Date    time.Time
	Numbers [BallsPerDraw]int
}

// NewDrawRecord validates and builds a draw. The date is truncated to the day.
func NewDrawRecord(drawID int, date time.Time, numbers []int) (DrawRecord, error) {
	if len(numbers) != BallsPerDraw {
		return DrawRecord{}, fmt.Errorf("%w: expected %d numbers, got %d", ErrInvalidDraw, BallsPerDraw, len(numbers))
	}

	d := DrawRecord{DrawID: drawID, Date: TruncateDate(date)}
	copy(d.Numbers[:], numbers)
	if err := d.Validate(); err != nil {
		return DrawRecord{}, err
	}
	return d, nil
}

// Validate checks the 6 distinct numbers in [1,60] invariant.
func (d DrawRecord) Validate() error {
	if d.DrawID <= 0 {
		return fmt.Errorf("%w: draw id must be positive, got %d", ErrInvalidDraw, d.DrawID)
	}
	if d.Date.IsZero() {
		return fmt.Errorf("%w: draw %d has no date", ErrInvalidDraw, d.DrawID)
	}

	seen := make(map[int]bool, BallsPerDraw)
	for _, n := range d.Numbers {
		if !ValidNumber(n) {
			return fmt.Errorf("%w: draw %d has number %d outside [%d,%d]", ErrInvalidDraw, d.DrawID, n, MinNumber, MaxNumber)
		}
		if seen[n] {
			return fmt.Errorf("%w: draw %d repeats number %d", ErrInvalidDraw, d.DrawID, n)
		}
		seen[n] = true
	}
	return nil
}

// Contains reports whether n was drawn.
func (d DrawRecord) Contains(n int) bool {
	for _, v := range d.Numbers {
		if v == n {
			return true
		}
	}
	return false
}

// Sorted returns the numbers in ascending order.
func (d DrawRecord) Sorted() []int {
	out := make([]int, BallsPerDraw)
	copy(out, d.Numbers[:])
	sort.Ints(out)
	return out
}

func (d DrawRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		DrawID  int    `json:"draw_id"`
		Date    string `json:"date"`
		Numbers []int  `json:"numbers"`
	}{
		DrawID:  d.DrawID,
		Date:    d.Date.Format(DateLayout),
		Numbers: d.Numbers[:],
	})
}

// ValidNumber reports whether n is inside the ball domain.
func ValidNumber(n int) bool {
	return n >= MinNumber && n <= MaxNumber
}

// TruncateDate drops the clock part, keeping the calendar day in UTC.
func TruncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DrawRow is the archived form of a draw.
type DrawRow struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	DrawID    int            `gorm:"not null;uniqueIndex" json:"draw_id"`
	DrawDate  datatypes.Date `gorm:"not null;index" json:"draw_date"`
	Ball1     int            `gorm:"not null" json:"ball_1"`
	Ball2     int            `gorm:"not null" json:"ball_2"`
	Ball3     int            `gorm:"not null" json:"ball_3"`
	Ball4     int            `gorm:"not null" json:"ball_4"`
	Ball5     int            `gorm:"not null" json:"ball_5"`
	Ball6     int            `gorm:"not null" json:"ball_6"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (DrawRow) TableName() string {
	return "draws"
}

func NewDrawRow(d DrawRecord) DrawRow {
	return DrawRow{
		DrawID:   d.DrawID,
		DrawDate: datatypes.Date(d.Date),
		Ball1:    d.Numbers[0],
		Ball2:    d.Numbers[1],
		Ball3:    d.Numbers[2],
		Ball4:    d.Numbers[3],
		Ball5:    d.Numbers[4],
		Ball6:    d.Numbers[5],
	}
}

// Record converts the row back, re-checking the draw invariant.
func (r DrawRow) Record() (DrawRecord, error) {
	return NewDrawRecord(r.DrawID, time.Time(r.DrawDate), []int{r.Ball1, r.Ball2, r.Ball3, r.Ball4, r.Ball5, r.Ball6})
}
