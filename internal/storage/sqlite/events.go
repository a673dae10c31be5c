package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventful/internal/models"
)

const eventDateLayout = "2006-01-02"

// CreateEvent persists a new event with its participant roster.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = models.NewEventID()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxParticipants sql.NullInt64
	if event.MaxParticipants != nil {
		maxParticipants = sql.NullInt64{Int64: int64(*event.MaxParticipants), Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (id, group_id, creator_id, name, description, max_participants, event_date, place_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.GroupID, event.CreatorID, event.Name, event.Description,
		maxParticipants, event.Date.Format(eventDateLayout), event.PlaceID, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if err := insertParticipants(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetEvent retrieves an event by ID, including its roster in join order.
func (s *SQLiteStore) GetEvent(ctx context.Context, id models.EventID) (*models.Event, error) {
	event, err := scanEvent(s.db.QueryRowContext(ctx,
		`SELECT id, group_id, creator_id, name, description, max_participants, event_date, place_id, created_at
		 FROM events WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := s.loadParticipants(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEvent rewrites the event row and its roster.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, event *models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxParticipants sql.NullInt64
	if event.MaxParticipants != nil {
		maxParticipants = sql.NullInt64{Int64: int64(*event.MaxParticipants), Valid: true}
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE events SET name = ?, description = ?, max_participants = ?, event_date = ?, place_id = ? WHERE id = ?`,
		event.Name, event.Description, maxParticipants,
		event.Date.Format(eventDateLayout), event.PlaceID, event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: event", models.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM event_participants WHERE event_id = ?", event.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := insertParticipants(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListEventsByGroup retrieves all events of a group, newest first.
func (s *SQLiteStore) ListEventsByGroup(ctx context.Context, groupID models.GroupID) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, creator_id, name, description, max_participants, event_date, place_id, created_at
		 FROM events WHERE group_id = ? ORDER BY created_at DESC`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	for _, event := range events {
		if err := s.loadParticipants(ctx, event); err != nil {
			return nil, err
		}
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}
	var maxParticipants sql.NullInt64
	var date string
	err := row.Scan(&event.ID, &event.GroupID, &event.CreatorID, &event.Name, &event.Description,
		&maxParticipants, &date, &event.PlaceID, &event.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: event", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}
	if maxParticipants.Valid {
		v := int(maxParticipants.Int64)
		event.MaxParticipants = &v
	}
	if date != "" {
		parsed, err := time.Parse(eventDateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event date: %w", err)
		}
		event.Date = parsed
	}
	return event, nil
}

func (s *SQLiteStore) loadParticipants(ctx context.Context, event *models.Event) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, role, joined_at FROM event_participants WHERE event_id = ? ORDER BY position", event.ID)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.EventParticipant
		var joinedAt int64
		if err := rows.Scan(&p.MemberID, &p.Role, &joinedAt); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		p.JoinedAt = time.Unix(joinedAt, 0)
		event.Participants = append(event.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate participants: %w", err)
	}
	return nil
}

func insertParticipants(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	for i, p := range event.Participants {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO event_participants (event_id, member_id, role, joined_at, position) VALUES (?, ?, ?, ?, ?)",
			event.ID, p.MemberID, p.Role, p.JoinedAt.Unix(), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	return nil
}
