package models

import "time"

// Member is a registered account. The planning core only ever compares
// MemberIDs; the full record exists for the identity context (registration,
// login) that sits outside the domain rules.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID MemberID

	// Email is the member's email address (unique). Used for login.
	Email string

	// Nickname is the display name shown to other group members.
	Nickname string

	// PasswordHash is the bcrypt hash of the member's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}

// NewMember creates a member with a fresh ID. The password must already be
// hashed; models never see plaintext credentials.
func NewMember(email, nickname, passwordHash string) *Member {
	return &Member{
		ID:           NewMemberID(),
		Email:        email,
		Nickname:     nickname,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
