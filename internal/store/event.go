package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// eventSequence hands out a store-wide, strictly increasing number for
// appended events. Listings order by it rather than by timestamp, which
// can repeat within a millisecond.
type eventSequence struct {
	mu sync.Mutex
	db *sql.DB
}

func openEventSequence(db *sql.DB) (*eventSequence, error) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS global_sequence (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			next_val INTEGER NOT NULL DEFAULT 1
		)`,
		`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`,
	}
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			return nil, fmt.Errorf("prepare event sequence: %w", err)
		}
	}
	return &eventSequence{db: db}, nil
}

func (s *eventSequence) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	row := s.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`)
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("next event sequence: %w", err)
	}
	return n, nil
}
