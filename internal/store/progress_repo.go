package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

const dayLayout = "2006-01-02"

type progressRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *progressRepo) Get(ctx context.Context, userID string) (Progress, error) {
	return r.get(ctx, r.db, userID)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *progressRepo) get(ctx context.Context, q queryRower, userID string) (Progress, error) {
	var solved, dates, updated string
	err := q.QueryRowContext(ctx,
		`SELECT solved_ids, streak_dates, updated_at FROM progress WHERE user_id = ?`, userID).
		Scan(&solved, &dates, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Progress{SolvedIDs: []string{}, StreakDates: []string{}}, nil
	}
	if err != nil {
		return Progress{}, fmt.Errorf("query progress: %w", err)
	}

	var p Progress
	if err := json.Unmarshal([]byte(solved), &p.SolvedIDs); err != nil {
		return Progress{}, fmt.Errorf("decode solved ids: %w", err)
	}
	if err := json.Unmarshal([]byte(dates), &p.StreakDates); err != nil {
		return Progress{}, fmt.Errorf("decode streak dates: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updated); err != nil {
		return Progress{}, err
	}
	return p, nil
}

func (r *progressRepo) Replace(ctx context.Context, userID string, solvedIDs []string) (Progress, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Progress{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	old, err := r.get(ctx, tx, userID)
	if err != nil {
		return Progress{}, err
	}

	now := r.now()
	next := Progress{
		SolvedIDs:   uniqueSorted(solvedIDs),
		StreakDates: old.StreakDates,
		UpdatedAt:   now.UTC(),
	}
	if addsNew(old.SolvedIDs, next.SolvedIDs) {
		next.StreakDates = addDay(next.StreakDates, now.Format(dayLayout))
	}

	solved, _ := json.Marshal(next.SolvedIDs)
	dates, _ := json.Marshal(next.StreakDates)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO progress (user_id, solved_ids, streak_dates, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET solved_ids = excluded.solved_ids,
		   streak_dates = excluded.streak_dates, updated_at = excluded.updated_at`,
		userID, string(solved), string(dates), formatTime(now))
	if err != nil {
		return Progress{}, fmt.Errorf("save progress: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Progress{}, fmt.Errorf("commit: %w", err)
	}
	return next, nil
}

// StreakDays counts consecutive activity days ending on today. A day with
// no recorded activity today yields zero.
func StreakDays(dates []string, today time.Time) int {
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[d] = true
	}
	n := 0
	for day := today; set[day.Format(dayLayout)]; day = day.AddDate(0, 0, -1) {
		n++
	}
	return n
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func addsNew(old, next []string) bool {
	prev := make(map[string]bool, len(old))
	for _, id := range old {
		prev[id] = true
	}
	for _, id := range next {
		if !prev[id] {
			return true
		}
	}
	return false
}

func addDay(dates []string, day string) []string {
	for _, d := range dates {
		if d == day {
			return dates
		}
	}
	out := append(append([]string{}, dates...), day)
	sort.Strings(out)
	return out
}
