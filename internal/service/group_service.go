package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"golang.org/x/crypto/bcrypt"

	"eventful/internal/models"
	"eventful/internal/storage"
)

const (
	joinCodeLen      = 8
	joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxJoinCodeAttempts bounds the generate-and-check loop. Collisions
	// on an 8-char code are vanishingly rare, so hitting the bound means
	// something is wrong and we fail loudly instead of spinning.
	maxJoinCodeAttempts = 5

	joinPasswordLen = 8
	lowerChars      = "abcdefghijklmnopqrstuvwxyz"
	upperChars      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	specialChars    = "!@#$%^&*()"
)

// GroupService manages event groups: creation with generated join
// credentials, joining by password, membership, and leadership.
type GroupService struct {
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a group led by the requester. The generated join
// password is returned in plaintext exactly once; only its hash is stored.
func (s *GroupService) CreateGroup(ctx context.Context, requester models.MemberID, name, description, imageURL string) (*models.EventGroup, string, error) {
	joinCode, err := s.generateUniqueJoinCode(ctx)
	if err != nil {
		return nil, "", err
	}

	password, err := generateJoinPassword()
	if err != nil {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash join password: %w", err)
	}

	group, err := models.NewEventGroup(name, description, imageURL, requester, joinCode, string(hash))
	if err != nil {
		return nil, "", err
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, "", err
	}

	slog.Info("group created", "group_id", group.ID, "leader_id", requester)
	return group, password, nil
}

// JoinGroup adds the requester to the group after verifying the password.
func (s *GroupService) JoinGroup(ctx context.Context, requester models.MemberID, groupID models.GroupID, password string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(group.JoinPasswordHash), []byte(password)); err != nil {
		return fmt.Errorf("%w: wrong group password", models.ErrPermission)
	}
	if err := group.Join(requester); err != nil {
		return err
	}
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return err
	}

	slog.Info("member joined group", "group_id", groupID, "member_id", requester)
	return nil
}

// LeaveGroup removes the requester from the group.
func (s *GroupService) LeaveGroup(ctx context.Context, requester models.MemberID, groupID models.GroupID) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err := group.Leave(requester); err != nil {
		return err
	}
	return s.store.UpdateGroup(ctx, group)
}

// UpdateGroup changes the group's profile. Leader only.
func (s *GroupService) UpdateGroup(ctx context.Context, requester models.MemberID, groupID models.GroupID, name, description, imageURL string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err := group.Update(name, description, imageURL, requester); err != nil {
		return err
	}
	return s.store.UpdateGroup(ctx, group)
}

// RemoveMember lets the leader expel a member.
func (s *GroupService) RemoveMember(ctx context.Context, requester models.MemberID, groupID models.GroupID, target models.MemberID) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err := group.RemoveMember(target, requester); err != nil {
		return err
	}
	return s.store.UpdateGroup(ctx, group)
}

// TransferLeader hands leadership to another member.
func (s *GroupService) TransferLeader(ctx context.Context, requester models.MemberID, groupID models.GroupID, newLeader models.MemberID) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err := group.TransferLeader(requester, newLeader); err != nil {
		return err
	}
	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return err
	}

	slog.Info("group leadership transferred", "group_id", groupID, "new_leader_id", newLeader)
	return nil
}

// GetGroup retrieves a group for one of its members.
func (s *GroupService) GetGroup(ctx context.Context, requester models.MemberID, groupID models.GroupID) (*models.EventGroup, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsMember(requester) {
		return nil, fmt.Errorf("%w: only group members may view the group", models.ErrPermission)
	}
	return group, nil
}

// VerifyJoinCode resolves an invite code to its group.
func (s *GroupService) VerifyJoinCode(ctx context.Context, joinCode string) (*models.EventGroup, error) {
	return s.store.GetGroupByJoinCode(ctx, joinCode)
}

// generateUniqueJoinCode generates a candidate code, checks it against the
// store, and retries up to maxJoinCodeAttempts before failing loudly.
func (s *GroupService) generateUniqueJoinCode(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= maxJoinCodeAttempts; attempt++ {
		code, err := randomString(joinCodeAlphabet, joinCodeLen)
		if err != nil {
			return "", err
		}

		_, err = s.store.GetGroupByJoinCode(ctx, code)
		if errors.Is(err, models.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", err
		}
		slog.Warn("join code collision, retrying", "attempt", attempt)
	}
	return "", fmt.Errorf("failed to generate a unique join code after %d attempts", maxJoinCodeAttempts)
}

// generateJoinPassword builds an 8-char password with at least one lowercase
// letter, one uppercase letter, and one special character, then shuffles.
func generateJoinPassword() (string, error) {
	letters := lowerChars + upperChars

	var chars []byte
	for _, alphabet := range []string{lowerChars, upperChars, specialChars} {
		c, err := randomString(alphabet, 1)
		if err != nil {
			return "", err
		}
		chars = append(chars, c[0])
	}
	rest, err := randomString(letters, joinPasswordLen-len(chars))
	if err != nil {
		return "", err
	}
	chars = append(chars, rest...)

	// Fisher-Yates so the required characters are not always in front.
	for i := len(chars) - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return "", err
		}
		chars[i], chars[j] = chars[j], chars[i]
	}
	return string(chars), nil
}

func randomString(alphabet string, n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		idx, err := randomIndex(len(alphabet))
		if err != nil {
			return "", err
		}
		b[i] = alphabet[idx]
	}
	return string(b), nil
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return int(v.Int64()), nil
}
