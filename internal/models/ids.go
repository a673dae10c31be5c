package models

import "github.com/google/uuid"

// Identifier newtypes. Every entity is identified by a uuid string wrapped in
// its own type so an EventID can never be passed where a VoteID is expected.
// Equality is structural on the wrapped value.
type (
	MemberID   string
	GroupID    string
	EventID    string
	ScheduleID string
	VoteID     string
	OptionID   string
	RecordID   string
)

func NewMemberID() MemberID     { return MemberID(uuid.New().String()) }
func NewGroupID() GroupID       { return GroupID(uuid.New().String()) }
func NewEventID() EventID       { return EventID(uuid.New().String()) }
func NewScheduleID() ScheduleID { return ScheduleID(uuid.New().String()) }
func NewVoteID() VoteID         { return VoteID(uuid.New().String()) }
func NewOptionID() OptionID     { return OptionID(uuid.New().String()) }
func NewRecordID() RecordID     { return RecordID(uuid.New().String()) }
