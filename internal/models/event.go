package models

import (
	"fmt"
	"time"
)

// ParticipantRole distinguishes the auto-enrolled creator from members who
// joined later.
type ParticipantRole string

const (
	RoleCreator     ParticipantRole = "CREATOR"
	RoleParticipant ParticipantRole = "PARTICIPANT"
)

// EventParticipant is one member's enrollment in an event.
type EventParticipant struct {
	MemberID MemberID
	Role     ParticipantRole
	JoinedAt time.Time
}

// Event is a planned gathering owned by an EventGroup. It gatekeeps its own
// roster: capacity and duplicate rules live here, while group-membership
// checks belong to the service layer.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID EventID

	// GroupID is the owning group; an event is never re-parented.
	GroupID GroupID

	// CreatorID is the member who created the event.
	CreatorID MemberID

	// Name and Description are required, non-blank.
	Name        string
	Description string

	// MaxParticipants caps the roster; nil means unlimited.
	MaxParticipants *int

	// Date is the calendar day the event takes place on.
	Date time.Time

	// PlaceID is an optional external place reference.
	PlaceID string

	// Participants is the ordered roster. A member appears at most once;
	// the creator is always present with RoleCreator.
	Participants []EventParticipant

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}

// NewEvent creates an event and auto-enrolls the creator with RoleCreator.
// The creator's enrollment bypasses the capacity and duplicate checks, which
// only apply to later joins.
func NewEvent(group GroupID, name, description string, maxParticipants *int, date time.Time, placeID string, creator MemberID) (*Event, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: event name is required", ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: event description is required", ErrValidation)
	}
	if maxParticipants != nil && *maxParticipants < 1 {
		return nil, fmt.Errorf("%w: max participants must be at least 1", ErrValidation)
	}

	e := &Event{
		ID:              NewEventID(),
		GroupID:         group,
		CreatorID:       creator,
		Name:            name,
		Description:     description,
		MaxParticipants: maxParticipants,
		Date:            date,
		PlaceID:         placeID,
		CreatedAt:       time.Now().Unix(),
	}
	e.Participants = append(e.Participants, EventParticipant{
		MemberID: creator,
		Role:     RoleCreator,
		JoinedAt: time.Now(),
	})
	return e, nil
}

// IsFull reports whether the roster has reached the participant cap.
// Always false for uncapped events.
func (e *Event) IsFull() bool {
	if e.MaxParticipants == nil {
		return false
	}
	return len(e.Participants) >= *e.MaxParticipants
}

// IsParticipant reports whether the member is on the roster.
func (e *Event) IsParticipant(member MemberID) bool {
	for _, p := range e.Participants {
		if p.MemberID == member {
			return true
		}
	}
	return false
}

// AddParticipant enrolls a member. Capacity is checked before duplicates,
// matching the order callers observe the failures in.
func (e *Event) AddParticipant(member MemberID, role ParticipantRole, joinedAt time.Time) error {
	if e.IsFull() {
		return fmt.Errorf("%w: event is limited to %d participants", ErrCapacity, *e.MaxParticipants)
	}
	if e.IsParticipant(member) {
		return fmt.Errorf("%w: member already participates in this event", ErrDuplicate)
	}
	e.Participants = append(e.Participants, EventParticipant{
		MemberID: member,
		Role:     role,
		JoinedAt: joinedAt,
	})
	return nil
}

// RemoveParticipant drops a member from the roster. Re-joining later is
// allowed and records a fresh JoinedAt.
func (e *Event) RemoveParticipant(member MemberID) error {
	for i, p := range e.Participants {
		if p.MemberID == member {
			e.Participants = append(e.Participants[:i], e.Participants[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: member does not participate in this event", ErrNotFound)
}
