package service

import (
	"fmt"

	"eventful/internal/models"
)

// requireManager enforces the shared rule for guarded mutations on schedules
// and votes: only the entity's creator or the owning group's leader may
// proceed. Casting a ballot and reading results are not guarded by this
// rule; they only require event participation.
func requireManager(isCreator bool, group *models.EventGroup, requester models.MemberID) error {
	if isCreator || group.IsLeader(requester) {
		return nil
	}
	return fmt.Errorf("%w: only the creator or the group leader may do this", models.ErrPermission)
}

// requireParticipant enforces the weaker rule for creation, voting, and
// reads inside an event.
func requireParticipant(event *models.Event, requester models.MemberID) error {
	if event.IsParticipant(requester) {
		return nil
	}
	return fmt.Errorf("%w: only event participants may do this", models.ErrPermission)
}
