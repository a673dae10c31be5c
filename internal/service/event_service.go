package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventful/internal/models"
	"eventful/internal/storage"
)

// EventService manages events and their participant rosters. Group
// membership checks happen here; roster rules (capacity, duplicates) live on
// the Event aggregate itself.
type EventService struct {
	store storage.Store
}

// NewEventService creates a new EventService with the given storage backend.
func NewEventService(store storage.Store) *EventService {
	return &EventService{store: store}
}

// CreateEvent creates an event inside a group the requester belongs to.
// The requester becomes the creator and is auto-enrolled.
func (s *EventService) CreateEvent(ctx context.Context, requester models.MemberID, groupID models.GroupID, name, description string, maxParticipants *int, date time.Time, placeID string) (*models.Event, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(requester) {
		return nil, fmt.Errorf("%w: only group members may create events", models.ErrPermission)
	}

	event, err := models.NewEvent(groupID, name, description, maxParticipants, date, placeID, requester)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, err
	}

	slog.Info("event created", "event_id", event.ID, "group_id", groupID, "creator_id", requester)
	return event, nil
}

// JoinEvent enrolls the requester as an ordinary participant. The requester
// must belong to the owning group; the event enforces capacity and
// duplicate rules.
func (s *EventService) JoinEvent(ctx context.Context, requester models.MemberID, eventID models.EventID) error {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	group, err := s.store.GetGroup(ctx, event.GroupID)
	if err != nil {
		return err
	}
	if !group.IsMember(requester) {
		return fmt.Errorf("%w: only group members may join events", models.ErrPermission)
	}

	if err := event.AddParticipant(requester, models.RoleParticipant, time.Now()); err != nil {
		return err
	}
	if err := s.store.UpdateEvent(ctx, event); err != nil {
		return err
	}

	slog.Info("participant joined event", "event_id", eventID, "member_id", requester)
	return nil
}

// LeaveEvent removes the requester from the roster. Re-joining later is
// allowed.
func (s *EventService) LeaveEvent(ctx context.Context, requester models.MemberID, eventID models.EventID) error {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if err := event.RemoveParticipant(requester); err != nil {
		return err
	}
	return s.store.UpdateEvent(ctx, event)
}

// GetEvent retrieves an event for a member of its owning group.
func (s *EventService) GetEvent(ctx context.Context, requester models.MemberID, eventID models.EventID) (*models.Event, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	group, err := s.store.GetGroup(ctx, event.GroupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(requester) {
		return nil, fmt.Errorf("%w: only group members may view events", models.ErrPermission)
	}
	return event, nil
}

// ListEventsByGroup retrieves a group's events for one of its members.
func (s *EventService) ListEventsByGroup(ctx context.Context, requester models.MemberID, groupID models.GroupID) ([]*models.Event, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(requester) {
		return nil, fmt.Errorf("%w: only group members may list events", models.ErrPermission)
	}
	return s.store.ListEventsByGroup(ctx, groupID)
}
