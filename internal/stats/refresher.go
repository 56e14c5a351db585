package stats

import (
	"context"
	"sync"

	"github.com/abhisek/skilltrail/internal/logger"
)

// Stats are the aggregate counters shown next to a roadmap.
type Stats struct {
	ProblemsSolved int      `json:"problems_solved"`
	StreakDays     int      `json:"streak_days"`
	SolvedProblems []string `json:"solved_problems"`
}

// Fetcher reads the current counters from the statistics service.
type Fetcher interface {
	FetchStats(ctx context.Context) (Stats, error)
}

// Refresher caches the most recent successful stats read. A failed refresh
// keeps the previous value.
type Refresher struct {
	mu      sync.Mutex
	fetcher Fetcher
	latest  Stats
	loaded  bool
	log     *logger.Logger
}

func NewRefresher(f Fetcher, log *logger.Logger) *Refresher {
	return &Refresher{fetcher: f, log: logger.OrNop(log)}
}

// Refresh fetches fresh counters. Errors are logged and returned but never
// clear the cached value.
func (r *Refresher) Refresh(ctx context.Context) error {
	_, err := r.FetchStats(ctx)
	return err
}

// FetchStats is Refresh that also returns the new value. It lets a
// Refresher stand in for its own Fetcher so every read updates the cache.
func (r *Refresher) FetchStats(ctx context.Context) (Stats, error) {
	s, err := r.fetcher.FetchStats(ctx)
	if err != nil {
		r.log.Warn("stats refresh failed", "error", err)
		return Stats{}, err
	}
	r.Set(s)
	return s, nil
}

// Set stores s as the latest value.
func (r *Refresher) Set(s Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.latest = s
	r.loaded = true
}

// Latest returns the cached counters and whether any fetch has succeeded.
func (r *Refresher) Latest() (Stats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest, r.loaded
}

// Streak returns the cached streak, or 0 before the first fetch.
func (r *Refresher) Streak() int {
	s, _ := r.Latest()
	return s.StreakDays
}
