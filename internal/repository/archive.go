package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

type ArchiveRepository interface {
	Append(ctx context.Context, record entity.GameRecord) error
	CountByRunID(ctx context.Context, runID string) (map[entity.Outcome]int, error)
}

type dbArchive struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &dbArchive{
		conn: conn,
	}
}

func (that *dbArchive) Append(ctx context.Context, record entity.GameRecord) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `INSERT INTO games (run_id, number, outcome, path, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		record.RunID, record.Number, record.Outcome.Code(), record.Path.String(), createdAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to archive game %d: %w", record.Number, err)
	}

	return nil
}

// CountByRunID returns how many archived games of the run ended in each outcome.
func (that *dbArchive) CountByRunID(ctx context.Context, runID string) (map[entity.Outcome]int, error) {
	query := `SELECT outcome, COUNT(*) FROM games WHERE run_id = ? GROUP BY outcome`

	rows, err := that.conn.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count archived games: %w", err)
	}
	defer rows.Close()

	counts := make(map[entity.Outcome]int)
	for rows.Next() {
		var outcome, count int
		if err = rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("failed to scan archived games: %w", err)
		}

		counts[entity.Outcome(outcome)] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read archived games: %w", err)
	}

	return counts, nil
}
