package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/v1/", opts...)
}

func TestFetchLatest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/roadmap/latest", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"_id":"rm1","title":"Backend","duration_days":45,"is_bookmarked":true,"levels":[]}`))
	}, WithCredentials(staticToken("tok")))

	d, err := c.FetchLatest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rm1", d.ID)
	assert.True(t, d.IsBookmarked)
}

func TestFetchByID_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/roadmap/abc", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Roadmap not found"}`))
	})

	_, err := c.FetchByID(context.Background(), "abc")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Roadmap not found")
	assert.False(t, IsRetryable(err))
}

func TestFetch_EmptyResultIsNotFound(t *testing.T) {
	for name, body := range map[string]string{
		"null":  `null`,
		"empty": ``,
		"no id": `{"title":"Backend","levels":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			d, err := c.FetchLatest(context.Background())
			assert.Nil(t, d)
			assert.ErrorIs(t, err, ErrNotFound)

			d, err = c.FetchByID(context.Background(), "rm1")
			assert.Nil(t, d)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestGenerate_SendsBodyAndKeyHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "gk", r.Header.Get(GenerationKeyHeader))
		var req GenerateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, GenerateRequest{TargetRole: "Backend", DaysRemaining: 30, WeakPatterns: []string{"DP"}, ForceRegenerate: true}, req)
		_, _ = w.Write([]byte(`{"_id":"new","title":"T","duration_days":30,"levels":[]}`))
	}, WithGenerationKey("gk"))

	d, err := c.Generate(context.Background(), GenerateRequest{TargetRole: "Backend", DaysRemaining: 30, WeakPatterns: []string{"DP"}, ForceRegenerate: true})
	require.NoError(t, err)
	assert.Equal(t, "new", d.ID)
}

func TestSaveProgress_SendsWholeSet(t *testing.T) {
	var got ProgressRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/dashboard/progress", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})

	require.NoError(t, c.SaveProgress(context.Background(), nil))
	assert.NotNil(t, got.SolvedIDs)
	assert.Empty(t, got.SolvedIDs)

	require.NoError(t, c.SaveProgress(context.Background(), []string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, got.SolvedIDs)
}

func TestSaveProgress_ServerErrorIsRetryable(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	err := c.SaveProgress(context.Background(), []string{"a"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.True(t, IsRetryable(err))
}

func TestToggleBookmark(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/roadmap/rm1/bookmark", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"success","is_bookmarked":true}`))
	})

	v, err := c.ToggleBookmark(context.Background(), "rm1")
	require.NoError(t, err)
	assert.True(t, v)
}

func TestFetchStatsAndCleanup(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/dashboard/stats":
			_, _ = w.Write([]byte(`{"problems_solved":2,"streak_days":4,"solved_problems":["a","b"]}`))
		case "/api/v1/roadmap/cleanup":
			assert.Equal(t, http.MethodDelete, r.Method)
			_, _ = w.Write([]byte(`{"deleted_count":3}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	s, err := c.FetchStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, s.StreakDays)
	assert.Equal(t, []string{"a", "b"}, s.SolvedProblems)

	n, err := c.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestUnauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := c.ListRoadmaps(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	for code, want := range map[int]bool{408: true, 429: true, 500: true, 503: true, 400: false, 404: false, 422: false} {
		assert.Equal(t, want, IsRetryableHTTPStatus(code), "code %d", code)
	}
}
