package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/skilltrail/internal/logger"
)

var (
	// ErrSaveInFlight is returned when a save is requested while another is
	// still outstanding.
	ErrSaveInFlight = errors.New("progress: save already in flight")

	// ErrNoChanges is returned by Dispatch when draft equals committed.
	ErrNoChanges = errors.New("progress: no unsaved changes")
)

// Saver persists the whole completion set, replacing whatever the backend
// held before.
type Saver interface {
	SaveProgress(ctx context.Context, solvedIDs []string) error
}

// StatsRefresher is notified after every successful save.
type StatsRefresher interface {
	Refresh(ctx context.Context) error
}

// SaveError wraps a failed persist. The store is left unchanged, so the
// same save can be retried.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save progress: %v", e.Err)
}

func (e *SaveError) Unwrap() error   { return e.Err }
func (e *SaveError) Retryable() bool { return true }

// Store owns the committed and draft completion sets for one roadmap view.
type Store struct {
	mu        sync.Mutex
	committed SkillSet
	draft     SkillSet
	saving    bool

	saver     Saver
	refresher StatsRefresher
	log       *logger.Logger
}

// NewStore seeds both committed and draft from seed. refresher may be nil.
func NewStore(seed []string, saver Saver, refresher StatsRefresher, log *logger.Logger) *Store {
	committed := NewSkillSet(seed...)
	return &Store{
		committed: committed,
		draft:     committed.Clone(),
		saver:     saver,
		refresher: refresher,
		log:       logger.OrNop(log),
	}
}

// Toggle flips membership of id in the draft and reports the new state.
// Ids unknown to the document are accepted.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft.Has(id) {
		s.draft.Remove(id)
		return false
	}
	s.draft.Add(id)
	return true
}

// IsDone reports whether id is in the draft.
func (s *Store) IsDone(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Has(id)
}

// HasUnsavedChanges reports whether draft and committed differ as sets.
func (s *Store) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.draft.Equal(s.committed)
}

// Saving reports whether a save is outstanding.
func (s *Store) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Draft returns a copy of the draft set.
func (s *Store) Draft() SkillSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.Clone()
}

// Committed returns a copy of the committed set.
func (s *Store) Committed() SkillSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed.Clone()
}

// MasteryRatio is |draft ∩ universe| / max(|universe|, 1).
func (s *Store) MasteryRatio(universe []string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := NewSkillSet(universe...)
	denom := u.Len()
	if denom == 0 {
		denom = 1
	}
	return float64(s.draft.CountIn(universe)) / float64(denom)
}

// CountIn returns how many of ids are done in the draft.
func (s *Store) CountIn(ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.CountIn(ids)
}

// Dispatch marks a save in flight and returns the draft snapshot that must
// be sent. Toggles made afterwards do not affect the snapshot. Every
// successful Dispatch must be followed by exactly one Complete.
func (s *Store) Dispatch() (SkillSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saving {
		return nil, ErrSaveInFlight
	}
	if s.draft.Equal(s.committed) {
		return nil, ErrNoChanges
	}
	s.saving = true
	return s.draft.Clone(), nil
}

// Complete resolves a dispatched save. On success the snapshot becomes the
// committed set; on failure both sets are left untouched and a *SaveError
// is returned.
func (s *Store) Complete(snapshot SkillSet, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		return &SaveError{Err: err}
	}
	s.committed = snapshot.Clone()
	return nil
}

// Save persists the current draft. It returns false without touching the
// network when there is nothing to save, and ErrSaveInFlight when another
// save is outstanding. On success the stats refresher is invoked; its
// failure is logged and does not fail the save.
func (s *Store) Save(ctx context.Context) (bool, error) {
	snapshot, err := s.Dispatch()
	if errors.Is(err, ErrNoChanges) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	ids := snapshot.Sorted()
	if err := s.Complete(snapshot, s.saver.SaveProgress(ctx, ids)); err != nil {
		s.log.Warn("progress save failed", "count", len(ids), "error", err)
		return false, err
	}
	s.log.Debug("progress saved", "count", len(ids))

	if s.refresher != nil {
		if err := s.refresher.Refresh(ctx); err != nil {
			s.log.Warn("stats refresh after save failed", "error", err)
		}
	}
	return true, nil
}
