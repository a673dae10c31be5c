package models

import (
	"fmt"
	"time"
)

// Schedule is a confirmed time block within an event: a name, a half-open
// [start, end) time range, and a single settled location. It is either
// created directly or produced by closing a Vote. After creation only the
// amount and receipt path may change.
type Schedule struct {
	// ID is the unique identifier for the schedule (UUID format).
	ID ScheduleID

	// EventID is the owning event.
	EventID EventID

	// CreatorID is the member who created the schedule (or the vote it
	// was converted from).
	CreatorID MemberID

	// Name is required; Memo is optional.
	Name string
	Memo string

	// Start and End bound the half-open time range [Start, End).
	Start TimeOfDay
	End   TimeOfDay

	// Location is the settled place, required.
	Location string

	// Amount is the optional cost of the schedule; nil means unset.
	Amount *float64

	// ReceiptFilePath is an optional reference to an uploaded receipt.
	ReceiptFilePath string

	// CreatedAt is the Unix timestamp when the schedule was created.
	CreatedAt int64
}

// NewSchedule creates a validated schedule with no amount or receipt.
func NewSchedule(event EventID, creator MemberID, name, memo string, start, end TimeOfDay, location string) (*Schedule, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: schedule name is required", ErrValidation)
	}
	if _, err := NewTimeRange(start, end); err != nil {
		return nil, err
	}
	if location == "" {
		return nil, fmt.Errorf("%w: schedule location is required", ErrValidation)
	}
	return &Schedule{
		ID:        NewScheduleID(),
		EventID:   event,
		CreatorID: creator,
		Name:      name,
		Memo:      memo,
		Start:     start,
		End:       end,
		Location:  location,
		CreatedAt: time.Now().Unix(),
	}, nil
}

// Range returns the schedule's half-open time range.
func (s *Schedule) Range() TimeRange {
	return TimeRange{Start: s.Start, End: s.End}
}

// IsTimeOverlapping reports whether this schedule's range overlaps another's.
func (s *Schedule) IsTimeOverlapping(other *Schedule) bool {
	return s.Range().Overlaps(other.Range())
}

// SetAmount records the schedule's cost. Nil clears the amount; negative
// values are rejected.
func (s *Schedule) SetAmount(amount *float64) error {
	if amount != nil && *amount < 0 {
		return fmt.Errorf("%w: amount must be zero or greater", ErrValidation)
	}
	s.Amount = amount
	return nil
}

// SetReceiptFilePath attaches or replaces the receipt reference.
func (s *Schedule) SetReceiptFilePath(path string) {
	s.ReceiptFilePath = path
}

// IsCreatedBy reports whether the member created this schedule.
func (s *Schedule) IsCreatedBy(member MemberID) bool {
	return s.CreatorID == member
}
