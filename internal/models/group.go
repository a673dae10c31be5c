package models

import (
	"fmt"
	"slices"
	"time"
)

const (
	maxGroupNameLen        = 15
	maxGroupDescriptionLen = 200
)

// EventGroup is a recurring circle of members who plan events together.
// Exactly one member is the leader; the leader holds elevated authority over
// group management and over any schedule or vote inside the group's events.
type EventGroup struct {
	// ID is the unique identifier for the group (UUID format).
	ID GroupID

	// Name is the display name of the group, at most 15 characters.
	Name string

	// Description is an optional introduction, at most 200 characters.
	Description string

	// ImageURL is an optional group image reference.
	ImageURL string

	// JoinCode is the 8-character invite code, unique across groups.
	JoinCode string

	// JoinPasswordHash is the bcrypt hash of the group's join password.
	// The plaintext is shown to the leader once at creation time.
	JoinPasswordHash string

	// LeaderID is the member with elevated authority.
	LeaderID MemberID

	// MemberIDs is the ordered membership list; the leader is always first.
	MemberIDs []MemberID

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// NewEventGroup creates a group and enrolls the leader as its first member.
// The join code and hashed join password are generated by the service layer,
// which owns uniqueness checking against storage.
func NewEventGroup(name, description, imageURL string, leader MemberID, joinCode, joinPasswordHash string) (*EventGroup, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrValidation)
	}
	if len([]rune(name)) > maxGroupNameLen {
		return nil, fmt.Errorf("%w: group name exceeds %d characters", ErrValidation, maxGroupNameLen)
	}
	if len([]rune(description)) > maxGroupDescriptionLen {
		return nil, fmt.Errorf("%w: group description exceeds %d characters", ErrValidation, maxGroupDescriptionLen)
	}
	if leader == "" {
		return nil, fmt.Errorf("%w: group leader is required", ErrValidation)
	}
	return &EventGroup{
		ID:               NewGroupID(),
		Name:             name,
		Description:      description,
		ImageURL:         imageURL,
		JoinCode:         joinCode,
		JoinPasswordHash: joinPasswordHash,
		LeaderID:         leader,
		MemberIDs:        []MemberID{leader},
		CreatedAt:        time.Now().Unix(),
	}, nil
}

// IsLeader reports whether the member holds the group's leader role.
func (g *EventGroup) IsLeader(member MemberID) bool {
	return g.LeaderID == member
}

// IsMember reports whether the member belongs to the group.
func (g *EventGroup) IsMember(member MemberID) bool {
	return slices.Contains(g.MemberIDs, member)
}

// MemberCount returns the number of members, leader included.
func (g *EventGroup) MemberCount() int {
	return len(g.MemberIDs)
}

// Join adds a member to the group. Password verification happens in the
// service layer, which holds the bcrypt comparison.
func (g *EventGroup) Join(member MemberID) error {
	if g.IsMember(member) {
		return fmt.Errorf("%w: member already belongs to this group", ErrDuplicate)
	}
	g.MemberIDs = append(g.MemberIDs, member)
	return nil
}

// Leave removes a member at their own request. The leader must transfer
// leadership before leaving.
func (g *EventGroup) Leave(member MemberID) error {
	if !g.IsMember(member) {
		return fmt.Errorf("%w: member does not belong to this group", ErrNotFound)
	}
	if g.IsLeader(member) {
		return fmt.Errorf("%w: leader must transfer leadership before leaving", ErrPermission)
	}
	g.removeMemberID(member)
	return nil
}

// RemoveMember lets the leader expel a member. The leader cannot be removed.
func (g *EventGroup) RemoveMember(target, requester MemberID) error {
	if !g.IsLeader(requester) {
		return fmt.Errorf("%w: only the leader may remove members", ErrPermission)
	}
	if !g.IsMember(target) {
		return fmt.Errorf("%w: member does not belong to this group", ErrNotFound)
	}
	if g.IsLeader(target) {
		return fmt.Errorf("%w: the leader cannot be removed", ErrValidation)
	}
	g.removeMemberID(target)
	return nil
}

// TransferLeader hands the leader role to another current member.
func (g *EventGroup) TransferLeader(requester, newLeader MemberID) error {
	if !g.IsLeader(requester) {
		return fmt.Errorf("%w: only the leader may transfer leadership", ErrPermission)
	}
	if !g.IsMember(newLeader) {
		return fmt.Errorf("%w: new leader must be a group member", ErrNotFound)
	}
	g.LeaderID = newLeader
	return nil
}

// Update changes the group's profile. Leader only.
func (g *EventGroup) Update(name, description, imageURL string, requester MemberID) error {
	if !g.IsLeader(requester) {
		return fmt.Errorf("%w: only the leader may update the group", ErrPermission)
	}
	if name == "" {
		return fmt.Errorf("%w: group name is required", ErrValidation)
	}
	if len([]rune(name)) > maxGroupNameLen {
		return fmt.Errorf("%w: group name exceeds %d characters", ErrValidation, maxGroupNameLen)
	}
	if len([]rune(description)) > maxGroupDescriptionLen {
		return fmt.Errorf("%w: group description exceeds %d characters", ErrValidation, maxGroupDescriptionLen)
	}
	g.Name = name
	g.Description = description
	g.ImageURL = imageURL
	return nil
}

func (g *EventGroup) removeMemberID(member MemberID) {
	g.MemberIDs = slices.DeleteFunc(g.MemberIDs, func(id MemberID) bool {
		return id == member
	})
}
