package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventful/internal/models"
)

// CreateSchedule persists a new schedule.
func (s *SQLiteStore) CreateSchedule(ctx context.Context, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = models.NewScheduleID()
	}
	if schedule.CreatedAt == 0 {
		schedule.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schedules (id, event_id, creator_id, name, memo, start_minute, end_minute, location, amount, receipt_file_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		schedule.ID, schedule.EventID, schedule.CreatorID, schedule.Name, schedule.Memo,
		int(schedule.Start), int(schedule.End), schedule.Location,
		nullFloat(schedule.Amount), schedule.ReceiptFilePath, schedule.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}
	return nil
}

// GetSchedule retrieves a schedule by ID.
func (s *SQLiteStore) GetSchedule(ctx context.Context, id models.ScheduleID) (*models.Schedule, error) {
	return scanSchedule(s.db.QueryRowContext(ctx,
		`SELECT id, event_id, creator_id, name, memo, start_minute, end_minute, location, amount, receipt_file_path, created_at
		 FROM schedules WHERE id = ?`, id))
}

// UpdateSchedule rewrites the mutable schedule fields (amount, receipt).
func (s *SQLiteStore) UpdateSchedule(ctx context.Context, schedule *models.Schedule) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE schedules SET amount = ?, receipt_file_path = ? WHERE id = ?",
		nullFloat(schedule.Amount), schedule.ReceiptFilePath, schedule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: schedule", models.ErrNotFound)
	}
	return nil
}

// DeleteSchedule removes a schedule by ID.
func (s *SQLiteStore) DeleteSchedule(ctx context.Context, id models.ScheduleID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: schedule", models.ErrNotFound)
	}
	return nil
}

// ListSchedulesByEvent retrieves all schedules of an event ordered by start time.
func (s *SQLiteStore) ListSchedulesByEvent(ctx context.Context, eventID models.EventID) ([]*models.Schedule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, creator_id, name, memo, start_minute, end_minute, location, amount, receipt_file_path, created_at
		 FROM schedules WHERE event_id = ? ORDER BY start_minute`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}
	return schedules, nil
}

func scanSchedule(row rowScanner) (*models.Schedule, error) {
	schedule := &models.Schedule{}
	var start, end int
	var amount sql.NullFloat64
	err := row.Scan(&schedule.ID, &schedule.EventID, &schedule.CreatorID, &schedule.Name, &schedule.Memo,
		&start, &end, &schedule.Location, &amount, &schedule.ReceiptFilePath, &schedule.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: schedule", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan schedule: %w", err)
	}
	schedule.Start = models.TimeOfDay(start)
	schedule.End = models.TimeOfDay(end)
	if amount.Valid {
		v := amount.Float64
		schedule.Amount = &v
	}
	return schedule, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
