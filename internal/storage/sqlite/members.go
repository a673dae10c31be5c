package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventful/internal/models"
)

// CreateMember persists a new member account.
func (s *SQLiteStore) CreateMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = models.NewMemberID()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO members (id, email, nickname, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		member.ID, member.Email, member.Nickname, member.PasswordHash, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, id models.MemberID) (*models.Member, error) {
	return s.scanMember(s.db.QueryRowContext(ctx,
		"SELECT id, email, nickname, password_hash, created_at FROM members WHERE id = ?", id))
}

// GetMemberByEmail retrieves a member by email.
func (s *SQLiteStore) GetMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	return s.scanMember(s.db.QueryRowContext(ctx,
		"SELECT id, email, nickname, password_hash, created_at FROM members WHERE email = ?", email))
}

func (s *SQLiteStore) scanMember(row *sql.Row) (*models.Member, error) {
	member := &models.Member{}
	err := row.Scan(&member.ID, &member.Email, &member.Nickname, &member.PasswordHash, &member.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: member", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}
