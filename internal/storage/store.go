// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"eventful/internal/models"
)

// Store defines the persistence contract for the planning domain. The
// abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Aggregates are saved and loaded whole: updating an event rewrites its
// roster, updating a vote rewrites its options and ballots. Lookups return
// an error wrapping models.ErrNotFound when the id is unknown.
type Store interface {
	// Members
	CreateMember(ctx context.Context, member *models.Member) error
	GetMember(ctx context.Context, id models.MemberID) (*models.Member, error)
	GetMemberByEmail(ctx context.Context, email string) (*models.Member, error)

	// Groups
	CreateGroup(ctx context.Context, group *models.EventGroup) error
	GetGroup(ctx context.Context, id models.GroupID) (*models.EventGroup, error)
	GetGroupByJoinCode(ctx context.Context, joinCode string) (*models.EventGroup, error)
	UpdateGroup(ctx context.Context, group *models.EventGroup) error

	// Events
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id models.EventID) (*models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	ListEventsByGroup(ctx context.Context, groupID models.GroupID) ([]*models.Event, error)

	// Schedules
	CreateSchedule(ctx context.Context, schedule *models.Schedule) error
	GetSchedule(ctx context.Context, id models.ScheduleID) (*models.Schedule, error)
	UpdateSchedule(ctx context.Context, schedule *models.Schedule) error
	DeleteSchedule(ctx context.Context, id models.ScheduleID) error
	ListSchedulesByEvent(ctx context.Context, eventID models.EventID) ([]*models.Schedule, error)

	// Votes
	CreateVote(ctx context.Context, vote *models.Vote) error
	GetVote(ctx context.Context, id models.VoteID) (*models.Vote, error)
	UpdateVote(ctx context.Context, vote *models.Vote) error
	DeleteVote(ctx context.Context, id models.VoteID) error
	ListVotesByEvent(ctx context.Context, eventID models.EventID) ([]*models.Vote, error)
	ListInProgressVotes(ctx context.Context, eventID models.EventID) ([]*models.Vote, error)

	// Close releases any resources held by the store.
	Close() error
}
