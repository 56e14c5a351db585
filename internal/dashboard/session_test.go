package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skilltrail/internal/acquire"
	"github.com/abhisek/skilltrail/internal/api"
	"github.com/abhisek/skilltrail/internal/generate"
	"github.com/abhisek/skilltrail/internal/roadmap"
	"github.com/abhisek/skilltrail/internal/stats"
)

type fakeBackend struct {
	mu sync.Mutex

	latest    *roadmap.Document
	byID      map[string]*roadmap.Document
	stats     stats.Stats
	statsErr  error
	generated *roadmap.Document
	genErr    error
	saveErr   error
	bmErr     error

	saves      [][]string
	generates  []api.GenerateRequest
	bookmarked bool
}

func (f *fakeBackend) FetchLatest(context.Context) (*roadmap.Document, error) {
	if f.latest == nil {
		return nil, api.ErrNotFound
	}
	return f.latest.Clone(), nil
}

func (f *fakeBackend) FetchByID(_ context.Context, id string) (*roadmap.Document, error) {
	if d, ok := f.byID[id]; ok {
		return d.Clone(), nil
	}
	return nil, api.ErrNotFound
}

func (f *fakeBackend) FetchStats(context.Context) (stats.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats, f.statsErr
}

func (f *fakeBackend) Generate(_ context.Context, req api.GenerateRequest) (*roadmap.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generates = append(f.generates, req)
	if f.genErr != nil {
		return nil, f.genErr
	}
	return f.generated.Clone(), nil
}

func (f *fakeBackend) SaveProgress(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, ids)
	f.stats.SolvedProblems = ids
	f.stats.ProblemsSolved = len(ids)
	f.stats.StreakDays = 1
	return nil
}

func (f *fakeBackend) ToggleBookmark(context.Context, string) (bool, error) {
	if f.bmErr != nil {
		return false, f.bmErr
	}
	f.bookmarked = !f.bookmarked
	return f.bookmarked, nil
}

func testDoc(id string) *roadmap.Document {
	return &roadmap.Document{
		ID:    id,
		Title: "Backend Developer",
		Levels: []roadmap.Level{{
			Name: "Beginner",
			Tracks: []roadmap.Track{{
				Category: "DSA",
				Skills:   []roadmap.Skill{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
			}},
		}},
	}
}

func TestLoad_SeedsFromStats(t *testing.T) {
	b := &fakeBackend{latest: testDoc("rm1"), stats: stats.Stats{StreakDays: 3, SolvedProblems: []string{"a", "b"}}}
	s := New(b, nil)

	res, err := s.Load(context.Background(), acquire.None())
	require.NoError(t, err)
	assert.Equal(t, acquire.StateDocumentView, res.State)
	assert.Equal(t, "rm1", s.Document().ID)
	assert.False(t, s.Progress().HasUnsavedChanges())
	assert.InDelta(t, 0.5, s.Mastery(), 1e-9)
	assert.Equal(t, 3, s.Stats().Streak())
}

func TestLoad_NotFoundShowsForm(t *testing.T) {
	s := New(&fakeBackend{}, nil)
	res, err := s.Load(context.Background(), acquire.None())
	require.NoError(t, err)
	assert.Equal(t, acquire.StateConfigurationForm, res.State)
	assert.Nil(t, s.Document())
	assert.Nil(t, s.Notice())
}

func TestSaveFlow(t *testing.T) {
	b := &fakeBackend{latest: testDoc("rm1")}
	s := New(b, nil)
	_, err := s.Load(context.Background(), acquire.None())
	require.NoError(t, err)

	saved, err := s.Save(context.Background())
	require.NoError(t, err)
	assert.False(t, saved)
	assert.Empty(t, b.saves)

	s.Toggle("c")
	s.Toggle("a")
	saved, err = s.Save(context.Background())
	require.NoError(t, err)
	assert.True(t, saved)
	assert.Equal(t, [][]string{{"a", "c"}}, b.saves)
	assert.Equal(t, 1, s.Stats().Streak(), "stats refreshed after save")

	b.saveErr = errors.New("offline")
	s.Toggle("d")
	_, err = s.Save(context.Background())
	require.Error(t, err)
	require.NotNil(t, s.Notice())
	assert.Equal(t, OpSave, s.Notice().Op)
	assert.True(t, s.Notice().Retryable)
	assert.True(t, s.Progress().HasUnsavedChanges())

	s.DismissNotice()
	assert.Nil(t, s.Notice())
}

func TestSubmit_ValidationDoesNotDispatch(t *testing.T) {
	b := &fakeBackend{generated: testDoc("new")}
	s := New(b, nil)
	_, err := s.Load(context.Background(), acquire.ForceNew())
	require.NoError(t, err)

	f := generate.Form{Role: "Backend Developer", Days: "abc", WeakTopics: "DP"}
	_, err = s.Submit(context.Background(), f)
	var ve *generate.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, b.generates)
	assert.Nil(t, s.Notice())
	assert.Equal(t, f, s.Form(), "submitted values retained")
	assert.Equal(t, acquire.StateConfigurationForm, s.State())
}

func TestSubmit_SuccessReplacesDocument(t *testing.T) {
	b := &fakeBackend{generated: testDoc("new"), stats: stats.Stats{SolvedProblems: []string{"b"}}}
	s := New(b, nil)
	_, err := s.Load(context.Background(), acquire.ForceNew())
	require.NoError(t, err)

	doc, err := s.Submit(context.Background(), generate.Form{Role: "Backend Developer", Days: "30", WeakTopics: " DP, graphs"})
	require.NoError(t, err)
	assert.Equal(t, "new", doc.ID)
	assert.Equal(t, acquire.StateDocumentView, s.State())
	assert.Equal(t, "new", s.Document().ID)
	assert.True(t, s.Progress().IsDone("b"))
	assert.False(t, s.Progress().HasUnsavedChanges())
	assert.Equal(t, []string{"DP", "graphs"}, b.generates[0].WeakPatterns)
	assert.True(t, b.generates[0].ForceRegenerate)
}

func TestSubmit_FailureKeepsForm(t *testing.T) {
	b := &fakeBackend{genErr: errors.New("llm down")}
	s := New(b, nil)
	_, err := s.Load(context.Background(), acquire.ForceNew())
	require.NoError(t, err)

	f := generate.Form{Role: "Data Scientist", Days: "10"}
	_, err = s.Submit(context.Background(), f)
	require.Error(t, err)
	assert.Equal(t, acquire.StateConfigurationForm, s.State())
	assert.Nil(t, s.Document())
	assert.Equal(t, f, s.Form())
	require.NotNil(t, s.Notice())
	assert.Equal(t, OpGenerate, s.Notice().Op)
	assert.False(t, s.Generating())
}

func TestBookmark_FailureRollsBack(t *testing.T) {
	b := &fakeBackend{latest: testDoc("rm1"), bmErr: errors.New("offline")}
	s := New(b, nil)
	_, err := s.Load(context.Background(), acquire.None())
	require.NoError(t, err)

	err = s.ToggleBookmark(context.Background())
	require.Error(t, err)
	assert.False(t, s.Bookmarked())
	assert.False(t, s.Document().IsBookmarked)
	require.NotNil(t, s.Notice())
	assert.Equal(t, OpBookmark, s.Notice().Op)

	b.bmErr = nil
	require.NoError(t, s.ToggleBookmark(context.Background()))
	assert.True(t, s.Bookmarked())
}

func TestBookmark_IndependentOfUnsavedDraft(t *testing.T) {
	b := &fakeBackend{latest: testDoc("rm1")}
	s := New(b, nil)
	_, err := s.Load(context.Background(), acquire.None())
	require.NoError(t, err)

	s.Toggle("a")
	require.NoError(t, s.ToggleBookmark(context.Background()))
	assert.True(t, s.Progress().HasUnsavedChanges())
	assert.Empty(t, b.saves)
}

func TestClosedSessionDiscardsResults(t *testing.T) {
	b := &fakeBackend{latest: testDoc("rm1")}
	s := New(b, nil)
	s.Close()

	_, err := s.Load(context.Background(), acquire.None())
	assert.ErrorIs(t, err, ErrStale)
	assert.Nil(t, s.Document())

	s2 := New(&fakeBackend{generated: testDoc("x")}, nil)
	_, err = s2.Load(context.Background(), acquire.ForceNew())
	require.NoError(t, err)
	s2.Close()
	_, err = s2.Submit(context.Background(), generate.DefaultForm())
	assert.ErrorIs(t, err, ErrStale)
	assert.Nil(t, s2.Document())
}

func TestNoticeMessages(t *testing.T) {
	n := NewNotice(OpSave, &api.StatusError{Code: 503})
	assert.True(t, n.Retryable)
	assert.Equal(t, "Failed to save progress. Please try again.", n.Message())

	n = NewNotice(OpBookmark, errors.Join(api.ErrUnauthorized))
	assert.False(t, n.Retryable)
	assert.Contains(t, n.Message(), "log in")
}

func TestNoticeClassifiesBareErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", fmt.Errorf("save: %w", context.DeadlineExceeded), true},
		{"server error", fmt.Errorf("save: %w", &api.StatusError{Code: 502}), true},
		{"bad request", &api.StatusError{Code: 400}, false},
		{"not found", api.ErrNotFound, false},
		{"unknown", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewNotice(OpGenerate, tc.err).Retryable)
		})
	}
}
