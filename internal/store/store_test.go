package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skilltrail/internal/roadmap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// clock returns a now func that advances one second per call.
func clock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func testDoc(title string, skills ...string) *roadmap.Document {
	var ss []roadmap.Skill
	for _, id := range skills {
		ss = append(ss, roadmap.Skill{ID: id, Name: id})
	}
	return &roadmap.Document{
		Title:        title,
		DurationDays: 30,
		Levels:       []roadmap.Level{{Name: "Beginner", Tracks: []roadmap.Track{{Category: "DSA", Skills: ss}}}},
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"users", "roadmaps", "progress", "llm_request_events", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestEventSequence(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq != int64(i) {
			t.Errorf("seq = %d, want %d", seq, i)
		}
	}
}

func TestUsers_Ensure(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, err := s.Users().Ensure(ctx, "ada")
	require.NoError(t, err)
	b, err := s.Users().Ensure(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)

	got, err := s.Users().Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Username)

	_, err = s.Users().Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoadmaps_UpsertKeepsIDAndBookmark(t *testing.T) {
	s := openTestStore(t)
	s.now = clock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	repo := s.Roadmaps()
	ctx := context.Background()

	first, err := repo.Upsert(ctx, "u1", "Backend", 30, testDoc("v1", "a", "b"))
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)
	assert.False(t, first.IsBookmarked)

	on, err := repo.ToggleBookmark(ctx, "u1", first.ID)
	require.NoError(t, err)
	assert.True(t, on)

	second, err := repo.Upsert(ctx, "u1", "Backend", 60, testDoc("v2", "c"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsBookmarked)

	got, err := repo.Get(ctx, "u1", first.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Title)
	assert.Equal(t, []string{"c"}, got.AllSkillIDs())
	assert.True(t, got.IsBookmarked)

	_, err = repo.Get(ctx, "u2", first.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoadmaps_LatestAndList(t *testing.T) {
	s := openTestStore(t)
	s.now = clock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	repo := s.Roadmaps()
	ctx := context.Background()

	_, err := repo.Latest(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Upsert(ctx, "u1", "Backend", 30, testDoc("backend", "a"))
	require.NoError(t, err)
	fe, err := repo.Upsert(ctx, "u1", "Frontend", 10, testDoc("frontend", "x", "y"))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, "u2", "Data", 10, testDoc("other", "z"))
	require.NoError(t, err)

	latest, err := repo.Latest(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, fe.ID, latest.ID)

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "frontend", list[0].Title)
	assert.Equal(t, "Frontend", list[0].Role)
	assert.Equal(t, 2, list[0].TotalSkills)
	assert.Equal(t, 10, list[0].Days)
	assert.Equal(t, "backend", list[1].Title)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))
}

func TestRoadmaps_DeleteUnbookmarked(t *testing.T) {
	s := openTestStore(t)
	s.now = clock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	repo := s.Roadmaps()
	ctx := context.Background()

	keep, err := repo.Upsert(ctx, "u1", "A", 1, testDoc("a"))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, "u1", "B", 1, testDoc("b"))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, "u1", "C", 1, testDoc("c"))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, "u2", "A", 1, testDoc("a"))
	require.NoError(t, err)
	_, err = repo.ToggleBookmark(ctx, "u1", keep.ID)
	require.NoError(t, err)

	n, err := repo.DeleteUnbookmarked(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)

	other, err := repo.List(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestRoadmaps_ToggleMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Roadmaps().ToggleBookmark(context.Background(), "u1", "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestProgress_ReplaceAndStreak(t *testing.T) {
	s := openTestStore(t)
	day1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return day1 }
	ctx := context.Background()

	p, err := s.Progress().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, p.SolvedIDs)

	p, err = s.Progress().Replace(ctx, "u1", []string{"b", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, p.SolvedIDs)
	assert.Equal(t, []string{"2026-03-01"}, p.StreakDates)

	// Removing only does not record activity.
	day2 := day1.AddDate(0, 0, 1)
	s.now = func() time.Time { return day2 }
	p, err = s.Progress().Replace(ctx, "u1", []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-01"}, p.StreakDates)
	assert.Equal(t, 0, StreakDays(p.StreakDates, day2))

	p, err = s.Progress().Replace(ctx, "u1", []string{"a", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-03-01", "2026-03-02"}, p.StreakDates)
	assert.Equal(t, 2, StreakDays(p.StreakDates, day2))

	got, err := s.Progress().Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, got.SolvedIDs)
}

func TestStreakDays(t *testing.T) {
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{"empty", nil, 0},
		{"today only", []string{"2026-03-10"}, 1},
		{"gap breaks", []string{"2026-03-07", "2026-03-09", "2026-03-10"}, 2},
		{"yesterday only", []string{"2026-03-09"}, 0},
		{"month boundary", []string{"2026-02-28", "2026-03-01"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StreakDays(tt.dates, today); got != tt.want {
				t.Errorf("StreakDays = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "groq", Model: "llama", Purpose: "roadmap", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "groq", Model: "llama", Purpose: "roadmap", LatencyMs: 300, ErrorMessage: "boom",
	}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "boom", events[0].ErrorMessage)
	assert.False(t, events[0].Success)
	assert.True(t, events[1].Success)

	e, err := repo.GetLLMEvent(ctx, events[1].ID)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, 20, e.OutputTokens)

	failed, err := repo.QueryLLMEvents(ctx, QueryOpts{FailedOnly: true})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "boom", failed[0].ErrorMessage)

	other, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "summary"})
	require.NoError(t, err)
	assert.Empty(t, other)

	missing, err := repo.GetLLMEvent(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	usage, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, UsageRow{Key: "roadmap", Calls: 2, InputTokens: 10, OutputTokens: 20, AvgLatencyMs: 200, Failures: 1}, usage[0])
}
