package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/skilltrail/internal/roadmap"
)

type roadmapRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *roadmapRepo) Upsert(ctx context.Context, userID, role string, days int, doc *roadmap.Document) (*roadmap.Document, error) {
	stored := doc.Clone()
	stored.ID = ""
	stored.IsBookmarked = false
	body, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("marshal roadmap: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		id         string
		bookmarked bool
	)
	err = tx.QueryRowContext(ctx,
		`SELECT id, is_bookmarked FROM roadmaps WHERE user_id = ? AND role = ?`,
		userID, role).Scan(&id, &bookmarked)
	now := formatTime(r.now())
	switch {
	case errors.Is(err, sql.ErrNoRows):
		id = uuid.NewString()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO roadmaps (id, user_id, role, days, title, total_skills, document, is_bookmarked, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`,
			id, userID, role, days, doc.Title, doc.SkillCount(), string(body), now)
	case err == nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE roadmaps SET days = ?, title = ?, total_skills = ?, document = ?, created_at = ? WHERE id = ?`,
			days, doc.Title, doc.SkillCount(), string(body), now, id)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert roadmap: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	out := doc.Clone()
	out.ID = id
	out.IsBookmarked = bookmarked
	return out, nil
}

func (r *roadmapRepo) Latest(ctx context.Context, userID string) (*roadmap.Document, error) {
	return r.scanDoc(r.db.QueryRowContext(ctx,
		`SELECT id, document, is_bookmarked FROM roadmaps WHERE user_id = ?
		 ORDER BY created_at DESC LIMIT 1`, userID))
}

func (r *roadmapRepo) Get(ctx context.Context, userID, id string) (*roadmap.Document, error) {
	return r.scanDoc(r.db.QueryRowContext(ctx,
		`SELECT id, document, is_bookmarked FROM roadmaps WHERE user_id = ? AND id = ?`, userID, id))
}

func (r *roadmapRepo) scanDoc(row *sql.Row) (*roadmap.Document, error) {
	var (
		id, body   string
		bookmarked bool
	)
	if err := row.Scan(&id, &body, &bookmarked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query roadmap: %w", err)
	}
	var doc roadmap.Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("decode roadmap %s: %w", id, err)
	}
	doc.ID = id
	doc.IsBookmarked = bookmarked
	return &doc, nil
}

func (r *roadmapRepo) List(ctx context.Context, userID string) ([]roadmap.Summary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, role, days, created_at, title, total_skills, is_bookmarked
		 FROM roadmaps WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list roadmaps: %w", err)
	}
	defer rows.Close()

	out := []roadmap.Summary{}
	for rows.Next() {
		var (
			s       roadmap.Summary
			created string
		)
		if err := rows.Scan(&s.ID, &s.Role, &s.Days, &created, &s.Title, &s.TotalSkills, &s.IsBookmarked); err != nil {
			return nil, fmt.Errorf("scan roadmap: %w", err)
		}
		if s.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *roadmapRepo) ToggleBookmark(ctx context.Context, userID, id string) (bool, error) {
	var v bool
	err := r.db.QueryRowContext(ctx,
		`UPDATE roadmaps SET is_bookmarked = 1 - is_bookmarked WHERE user_id = ? AND id = ?
		 RETURNING is_bookmarked`, userID, id).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggle bookmark: %w", err)
	}
	return v, nil
}

func (r *roadmapRepo) DeleteUnbookmarked(ctx context.Context, userID string) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM roadmaps WHERE user_id = ? AND is_bookmarked = 0`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete roadmaps: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}
