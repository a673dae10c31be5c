package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventful/internal/models"
)

// CreateVote persists a new vote with its options and ballot records.
func (s *SQLiteStore) CreateVote(ctx context.Context, vote *models.Vote) error {
	if vote.ID == "" {
		vote.ID = models.NewVoteID()
	}
	if vote.CreatedAt == 0 {
		vote.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO votes (id, event_id, creator_id, name, memo, start_minute, end_minute, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		vote.ID, vote.EventID, vote.CreatorID, vote.Name, vote.Memo,
		int(vote.Start), int(vote.End), vote.Status, vote.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	if err := insertOptions(ctx, tx, vote); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetVote retrieves a vote by ID with its options in insertion order and
// their ballot records.
func (s *SQLiteStore) GetVote(ctx context.Context, id models.VoteID) (*models.Vote, error) {
	vote, err := scanVote(s.db.QueryRowContext(ctx,
		`SELECT id, event_id, creator_id, name, memo, start_minute, end_minute, status, created_at
		 FROM votes WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := s.loadOptions(ctx, vote); err != nil {
		return nil, err
	}
	return vote, nil
}

// UpdateVote rewrites the vote row and its option/record children.
func (s *SQLiteStore) UpdateVote(ctx context.Context, vote *models.Vote) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE votes SET status = ? WHERE id = ?", vote.Status, vote.ID)
	if err != nil {
		return fmt.Errorf("failed to update vote: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: vote", models.ErrNotFound)
	}

	// Options cascade their records, so clearing the options clears all.
	if _, err := tx.ExecContext(ctx, "DELETE FROM vote_options WHERE vote_id = ?", vote.ID); err != nil {
		return fmt.Errorf("failed to clear vote options: %w", err)
	}
	if err := insertOptions(ctx, tx, vote); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteVote removes a vote; options and records cascade.
func (s *SQLiteStore) DeleteVote(ctx context.Context, id models.VoteID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM votes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete vote: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: vote", models.ErrNotFound)
	}
	return nil
}

// ListVotesByEvent retrieves all votes of an event ordered by start time.
func (s *SQLiteStore) ListVotesByEvent(ctx context.Context, eventID models.EventID) ([]*models.Vote, error) {
	return s.listVotes(ctx,
		`SELECT id, event_id, creator_id, name, memo, start_minute, end_minute, status, created_at
		 FROM votes WHERE event_id = ? ORDER BY start_minute`, eventID)
}

// ListInProgressVotes retrieves only the votes still accepting ballots.
func (s *SQLiteStore) ListInProgressVotes(ctx context.Context, eventID models.EventID) ([]*models.Vote, error) {
	return s.listVotes(ctx,
		`SELECT id, event_id, creator_id, name, memo, start_minute, end_minute, status, created_at
		 FROM votes WHERE event_id = ? AND status = 'IN_PROGRESS' ORDER BY start_minute`, eventID)
}

func (s *SQLiteStore) listVotes(ctx context.Context, query string, eventID models.EventID) ([]*models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []*models.Vote
	for rows.Next() {
		vote, err := scanVote(rows)
		if err != nil {
			return nil, err
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}

	for _, vote := range votes {
		if err := s.loadOptions(ctx, vote); err != nil {
			return nil, err
		}
	}
	return votes, nil
}

func scanVote(row rowScanner) (*models.Vote, error) {
	vote := &models.Vote{}
	var start, end int
	err := row.Scan(&vote.ID, &vote.EventID, &vote.CreatorID, &vote.Name, &vote.Memo,
		&start, &end, &vote.Status, &vote.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: vote", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan vote: %w", err)
	}
	vote.Start = models.TimeOfDay(start)
	vote.End = models.TimeOfDay(end)
	return vote, nil
}

func (s *SQLiteStore) loadOptions(ctx context.Context, vote *models.Vote) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, location_name FROM vote_options WHERE vote_id = ? ORDER BY position", vote.ID)
	if err != nil {
		return fmt.Errorf("failed to get vote options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var option models.VoteOption
		if err := rows.Scan(&option.ID, &option.LocationName); err != nil {
			return fmt.Errorf("failed to scan vote option: %w", err)
		}
		vote.Options = append(vote.Options, option)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate vote options: %w", err)
	}

	for i := range vote.Options {
		option := &vote.Options[i]
		recordRows, err := s.db.QueryContext(ctx,
			"SELECT id, member_id FROM vote_records WHERE option_id = ? ORDER BY rowid", option.ID)
		if err != nil {
			return fmt.Errorf("failed to get vote records: %w", err)
		}
		for recordRows.Next() {
			var record models.VoteRecord
			if err := recordRows.Scan(&record.ID, &record.MemberID); err != nil {
				recordRows.Close()
				return fmt.Errorf("failed to scan vote record: %w", err)
			}
			option.Records = append(option.Records, record)
		}
		recordRows.Close()
		if err := recordRows.Err(); err != nil {
			return fmt.Errorf("failed to iterate vote records: %w", err)
		}
	}
	return nil
}

func insertOptions(ctx context.Context, tx *sql.Tx, vote *models.Vote) error {
	for i := range vote.Options {
		option := &vote.Options[i]
		if option.ID == "" {
			option.ID = models.NewOptionID()
		}
		_, err := tx.ExecContext(ctx,
			"INSERT INTO vote_options (id, vote_id, location_name, position) VALUES (?, ?, ?, ?)",
			option.ID, vote.ID, option.LocationName, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert vote option: %w", err)
		}

		for j := range option.Records {
			record := &option.Records[j]
			if record.ID == "" {
				record.ID = models.NewRecordID()
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO vote_records (id, option_id, member_id) VALUES (?, ?, ?)",
				record.ID, option.ID, record.MemberID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert vote record: %w", err)
			}
		}
	}
	return nil
}
