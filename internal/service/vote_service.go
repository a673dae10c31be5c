package service

import (
	"context"
	"fmt"
	"log/slog"

	"eventful/internal/conflict"
	"eventful/internal/models"
	"eventful/internal/storage"
)

// VoteService manages location polls. Creation runs the same gate sequence
// as schedule creation and against the same lock table; option management
// and closing are guarded by the creator-or-leader rule, while casting only
// requires event participation.
type VoteService struct {
	store storage.Store
	locks *EventLocks
}

// NewVoteService creates a new VoteService. The lock table must be the same
// instance the schedule service uses.
func NewVoteService(store storage.Store, locks *EventLocks) *VoteService {
	return &VoteService{store: store, locks: locks}
}

// CreateVote creates an in-progress poll with at least two location options.
func (s *VoteService) CreateVote(ctx context.Context, requester models.MemberID, eventID models.EventID, name, memo string, start, end models.TimeOfDay, locationOptions []string) (*models.Vote, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(event, requester); err != nil {
		return nil, err
	}

	vote, err := models.NewVote(eventID, requester, name, memo, start, end, locationOptions)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(eventID)
	defer unlock()

	existing, err := collectEventRanges(ctx, s.store, eventID)
	if err != nil {
		return nil, err
	}
	if conflict.HasOverlap(vote.Range(), existing) {
		return nil, fmt.Errorf("%w: another schedule or vote occupies [%s,%s)",
			models.ErrConflict, vote.Start, vote.End)
	}
	if err := s.store.CreateVote(ctx, vote); err != nil {
		return nil, err
	}

	slog.Info("vote created",
		"vote_id", vote.ID,
		"event_id", eventID,
		"options", len(vote.Options),
	)
	return vote, nil
}

// AddOption appends a candidate location. Creator or group leader only.
func (s *VoteService) AddOption(ctx context.Context, requester models.MemberID, voteID models.VoteID, locationName string) error {
	vote, group, err := s.loadForManage(ctx, voteID)
	if err != nil {
		return err
	}
	if err := requireManager(vote.IsCreatedBy(requester), group, requester); err != nil {
		return err
	}
	if err := vote.AddOption(locationName); err != nil {
		return err
	}
	return s.store.UpdateVote(ctx, vote)
}

// RemoveOption deletes a candidate location. Creator or group leader only.
func (s *VoteService) RemoveOption(ctx context.Context, requester models.MemberID, voteID models.VoteID, optionID models.OptionID) error {
	vote, group, err := s.loadForManage(ctx, voteID)
	if err != nil {
		return err
	}
	if err := requireManager(vote.IsCreatedBy(requester), group, requester); err != nil {
		return err
	}
	if err := vote.RemoveOption(optionID); err != nil {
		return err
	}
	return s.store.UpdateVote(ctx, vote)
}

// CastVote records the requester's ballot. Event participants only; a
// re-vote moves the ballot to the new option.
func (s *VoteService) CastVote(ctx context.Context, requester models.MemberID, voteID models.VoteID, optionID models.OptionID) error {
	vote, err := s.store.GetVote(ctx, voteID)
	if err != nil {
		return err
	}
	event, err := s.store.GetEvent(ctx, vote.EventID)
	if err != nil {
		return err
	}
	if err := requireParticipant(event, requester); err != nil {
		return err
	}
	if err := vote.Cast(requester, optionID); err != nil {
		return err
	}
	return s.store.UpdateVote(ctx, vote)
}

// CloseVoteAndCreateSchedule closes the poll and converts the winning option
// into a new schedule. Creator or group leader only. The closed vote is kept
// as a record; the new schedule reuses the vote's own time range, so no
// conflict check is needed.
func (s *VoteService) CloseVoteAndCreateSchedule(ctx context.Context, requester models.MemberID, voteID models.VoteID) (*models.Schedule, error) {
	vote, group, err := s.loadForManage(ctx, voteID)
	if err != nil {
		return nil, err
	}
	if err := requireManager(vote.IsCreatedBy(requester), group, requester); err != nil {
		return nil, err
	}

	if err := vote.Close(); err != nil {
		return nil, err
	}
	schedule, err := vote.ToSchedule()
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateVote(ctx, vote); err != nil {
		return nil, err
	}
	if err := s.store.CreateSchedule(ctx, schedule); err != nil {
		return nil, err
	}

	slog.Info("vote closed and converted",
		"vote_id", voteID,
		"schedule_id", schedule.ID,
		"location", schedule.Location,
	)
	return schedule, nil
}

// DeleteVote removes a poll. Creator or group leader only.
func (s *VoteService) DeleteVote(ctx context.Context, requester models.MemberID, voteID models.VoteID) error {
	vote, group, err := s.loadForManage(ctx, voteID)
	if err != nil {
		return err
	}
	if err := requireManager(vote.IsCreatedBy(requester), group, requester); err != nil {
		return err
	}
	if err := s.store.DeleteVote(ctx, voteID); err != nil {
		return err
	}

	slog.Info("vote deleted", "vote_id", voteID, "by", requester)
	return nil
}

// GetVote retrieves a poll for an event participant.
func (s *VoteService) GetVote(ctx context.Context, requester models.MemberID, voteID models.VoteID) (*models.Vote, error) {
	vote, err := s.store.GetVote(ctx, voteID)
	if err != nil {
		return nil, err
	}
	event, err := s.store.GetEvent(ctx, vote.EventID)
	if err != nil {
		return nil, err
	}
	if err := requireParticipant(event, requester); err != nil {
		return nil, err
	}
	return vote, nil
}

// ListVotesByEvent retrieves an event's polls for a participant.
func (s *VoteService) ListVotesByEvent(ctx context.Context, requester models.MemberID, eventID models.EventID) ([]*models.Vote, error) {
	if err := s.requireEventParticipant(ctx, requester, eventID); err != nil {
		return nil, err
	}
	return s.store.ListVotesByEvent(ctx, eventID)
}

// ListInProgressVotes retrieves only the polls still accepting ballots.
func (s *VoteService) ListInProgressVotes(ctx context.Context, requester models.MemberID, eventID models.EventID) ([]*models.Vote, error) {
	if err := s.requireEventParticipant(ctx, requester, eventID); err != nil {
		return nil, err
	}
	return s.store.ListInProgressVotes(ctx, eventID)
}

func (s *VoteService) requireEventParticipant(ctx context.Context, requester models.MemberID, eventID models.EventID) error {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	return requireParticipant(event, requester)
}

func (s *VoteService) loadForManage(ctx context.Context, voteID models.VoteID) (*models.Vote, *models.EventGroup, error) {
	vote, err := s.store.GetVote(ctx, voteID)
	if err != nil {
		return nil, nil, err
	}
	event, err := s.store.GetEvent(ctx, vote.EventID)
	if err != nil {
		return nil, nil, err
	}
	group, err := s.store.GetGroup(ctx, event.GroupID)
	if err != nil {
		return nil, nil, err
	}
	return vote, group, nil
}
