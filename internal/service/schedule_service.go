package service

import (
	"context"
	"fmt"
	"log/slog"

	"eventful/internal/conflict"
	"eventful/internal/models"
	"eventful/internal/storage"
)

// ScheduleService manages confirmed time blocks. Creation runs the shared
// gate sequence: participation check, then the conflict check against both
// existing schedules and votes, then persist, all under the event lock.
type ScheduleService struct {
	store storage.Store
	locks *EventLocks
}

// NewScheduleService creates a new ScheduleService. The lock table must be
// the same instance the vote service uses.
func NewScheduleService(store storage.Store, locks *EventLocks) *ScheduleService {
	return &ScheduleService{store: store, locks: locks}
}

// CreateSchedule creates a confirmed time block in the event.
func (s *ScheduleService) CreateSchedule(ctx context.Context, requester models.MemberID, eventID models.EventID, name, memo string, start, end models.TimeOfDay, location string) (*models.Schedule, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(event, requester); err != nil {
		return nil, err
	}

	schedule, err := models.NewSchedule(eventID, requester, name, memo, start, end, location)
	if err != nil {
		return nil, err
	}

	// The overlap check and the insert must not interleave with another
	// creation in the same event.
	unlock := s.locks.Lock(eventID)
	defer unlock()

	if err := s.checkNoOverlap(ctx, eventID, schedule.Range()); err != nil {
		return nil, err
	}
	if err := s.store.CreateSchedule(ctx, schedule); err != nil {
		return nil, err
	}

	slog.Info("schedule created",
		"schedule_id", schedule.ID,
		"event_id", eventID,
		"range", fmt.Sprintf("[%s,%s)", schedule.Start, schedule.End),
	)
	return schedule, nil
}

// SetAmount records the schedule's cost. Creator or group leader only.
func (s *ScheduleService) SetAmount(ctx context.Context, requester models.MemberID, scheduleID models.ScheduleID, amount *float64) error {
	schedule, group, err := s.loadForManage(ctx, scheduleID)
	if err != nil {
		return err
	}
	if err := requireManager(schedule.IsCreatedBy(requester), group, requester); err != nil {
		return err
	}
	if err := schedule.SetAmount(amount); err != nil {
		return err
	}
	return s.store.UpdateSchedule(ctx, schedule)
}

// SetReceiptFile attaches a receipt reference. Creator or group leader only.
func (s *ScheduleService) SetReceiptFile(ctx context.Context, requester models.MemberID, scheduleID models.ScheduleID, path string) error {
	schedule, group, err := s.loadForManage(ctx, scheduleID)
	if err != nil {
		return err
	}
	if err := requireManager(schedule.IsCreatedBy(requester), group, requester); err != nil {
		return err
	}
	schedule.SetReceiptFilePath(path)
	return s.store.UpdateSchedule(ctx, schedule)
}

// DeleteSchedule removes a schedule. Creator or group leader only.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, requester models.MemberID, scheduleID models.ScheduleID) error {
	schedule, group, err := s.loadForManage(ctx, scheduleID)
	if err != nil {
		return err
	}
	if err := requireManager(schedule.IsCreatedBy(requester), group, requester); err != nil {
		return err
	}
	if err := s.store.DeleteSchedule(ctx, scheduleID); err != nil {
		return err
	}

	slog.Info("schedule deleted", "schedule_id", scheduleID, "by", requester)
	return nil
}

// GetSchedule retrieves a schedule for an event participant.
func (s *ScheduleService) GetSchedule(ctx context.Context, requester models.MemberID, scheduleID models.ScheduleID) (*models.Schedule, error) {
	schedule, err := s.store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	event, err := s.store.GetEvent(ctx, schedule.EventID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(event, requester); err != nil {
		return nil, err
	}
	return schedule, nil
}

// ListSchedulesByEvent retrieves an event's schedules for a participant.
func (s *ScheduleService) ListSchedulesByEvent(ctx context.Context, requester models.MemberID, eventID models.EventID) ([]*models.Schedule, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(event, requester); err != nil {
		return nil, err
	}
	return s.store.ListSchedulesByEvent(ctx, eventID)
}

// checkNoOverlap gathers every existing schedule and vote range of the event
// and rejects the candidate if it overlaps any of them. Callers must hold
// the event lock.
func (s *ScheduleService) checkNoOverlap(ctx context.Context, eventID models.EventID, candidate models.TimeRange) error {
	existing, err := collectEventRanges(ctx, s.store, eventID)
	if err != nil {
		return err
	}
	if conflict.HasOverlap(candidate, existing) {
		return fmt.Errorf("%w: another schedule or vote occupies [%s,%s)",
			models.ErrConflict, candidate.Start, candidate.End)
	}
	return nil
}

func (s *ScheduleService) loadForManage(ctx context.Context, scheduleID models.ScheduleID) (*models.Schedule, *models.EventGroup, error) {
	schedule, err := s.store.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}
	event, err := s.store.GetEvent(ctx, schedule.EventID)
	if err != nil {
		return nil, nil, err
	}
	group, err := s.store.GetGroup(ctx, event.GroupID)
	if err != nil {
		return nil, nil, err
	}
	return schedule, group, nil
}

// collectEventRanges returns the time ranges of all schedules and votes of
// the event, the input set for the conflict check.
func collectEventRanges(ctx context.Context, store storage.Store, eventID models.EventID) ([]models.TimeRange, error) {
	schedules, err := store.ListSchedulesByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	votes, err := store.ListVotesByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	ranges := make([]models.TimeRange, 0, len(schedules)+len(votes))
	for _, schedule := range schedules {
		ranges = append(ranges, schedule.Range())
	}
	for _, vote := range votes {
		ranges = append(ranges, vote.Range())
	}
	return ranges, nil
}
