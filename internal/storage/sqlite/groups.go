package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventful/internal/models"
)

// CreateGroup persists a new group with its membership list.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.EventGroup) error {
	if group.ID == "" {
		group.ID = models.NewGroupID()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO event_groups (id, name, description, image_url, join_code, join_password_hash, leader_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, group.Description, group.ImageURL,
		group.JoinCode, group.JoinPasswordHash, group.LeaderID, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := insertGroupMembers(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID, including its ordered membership list.
func (s *SQLiteStore) GetGroup(ctx context.Context, id models.GroupID) (*models.EventGroup, error) {
	return s.getGroupWhere(ctx, "id = ?", string(id))
}

// GetGroupByJoinCode retrieves a group by its unique join code.
func (s *SQLiteStore) GetGroupByJoinCode(ctx context.Context, joinCode string) (*models.EventGroup, error) {
	return s.getGroupWhere(ctx, "join_code = ?", joinCode)
}

// UpdateGroup rewrites the group row and its membership list.
func (s *SQLiteStore) UpdateGroup(ctx context.Context, group *models.EventGroup) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE event_groups SET name = ?, description = ?, image_url = ?, leader_id = ? WHERE id = ?`,
		group.Name, group.Description, group.ImageURL, group.LeaderID, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: group", models.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM event_group_members WHERE group_id = ?", group.ID); err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}
	if err := insertGroupMembers(ctx, tx, group); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertGroupMembers(ctx context.Context, tx *sql.Tx, group *models.EventGroup) error {
	for i, memberID := range group.MemberIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO event_group_members (group_id, member_id, position) VALUES (?, ?, ?)",
			group.ID, memberID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) getGroupWhere(ctx context.Context, where string, arg any) (*models.EventGroup, error) {
	group := &models.EventGroup{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, image_url, join_code, join_password_hash, leader_id, created_at
		 FROM event_groups WHERE `+where, arg,
	).Scan(&group.ID, &group.Name, &group.Description, &group.ImageURL,
		&group.JoinCode, &group.JoinPasswordHash, &group.LeaderID, &group.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: group", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id FROM event_group_members WHERE group_id = ? ORDER BY position", group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var memberID models.MemberID
		if err := rows.Scan(&memberID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		group.MemberIDs = append(group.MemberIDs, memberID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return group, nil
}
