package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhisek/skilltrail/internal/logger"
	"github.com/abhisek/skilltrail/internal/roadmap"
	"github.com/abhisek/skilltrail/internal/stats"
)

// CredentialProvider supplies the bearer token for each request. An empty
// token sends the request unauthenticated.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the roadmap backend.
type Client struct {
	baseURL       string
	http          *http.Client
	creds         CredentialProvider
	generationKey string
	log           *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithCredentials(p CredentialProvider) Option {
	return func(c *Client) { c.creds = p }
}

// WithGenerationKey sends key with every generation request so the server
// can use the caller's own LLM quota.
func WithGenerationKey(key string) Option {
	return func(c *Client) { c.generationKey = key }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = logger.OrNop(l) }
}

// New returns a client rooted at baseURL, e.g. http://localhost:8000/api/v1.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		log:     logger.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FetchLatest returns the user's most recently generated roadmap.
func (c *Client) FetchLatest(ctx context.Context) (*roadmap.Document, error) {
	return c.fetchDocument(ctx, "/roadmap/latest")
}

// FetchByID returns a roadmap by id.
func (c *Client) FetchByID(ctx context.Context, id string) (*roadmap.Document, error) {
	return c.fetchDocument(ctx, "/roadmap/"+url.PathEscape(id))
}

// fetchDocument treats a null body or a document without an id as
// NotFound.
func (c *Client) fetchDocument(ctx context.Context, path string) (*roadmap.Document, error) {
	var d *roadmap.Document
	if err := c.do(ctx, http.MethodGet, path, nil, &d, nil); err != nil {
		return nil, err
	}
	if d == nil || d.ID == "" {
		return nil, ErrNotFound
	}
	return d, nil
}

// ListRoadmaps returns summaries of all the user's roadmaps, newest first.
func (c *Client) ListRoadmaps(ctx context.Context) ([]roadmap.Summary, error) {
	var out []roadmap.Summary
	if err := c.do(ctx, http.MethodGet, "/roadmap/", nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// Generate requests a new roadmap.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*roadmap.Document, error) {
	var hdr http.Header
	if c.generationKey != "" {
		hdr = http.Header{}
		hdr.Set(GenerationKeyHeader, c.generationKey)
	}
	var d roadmap.Document
	if err := c.do(ctx, http.MethodPost, "/roadmap/generate", req, &d, hdr); err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveProgress replaces the persisted completion set with solvedIDs.
func (c *Client) SaveProgress(ctx context.Context, solvedIDs []string) error {
	if solvedIDs == nil {
		solvedIDs = []string{}
	}
	return c.do(ctx, http.MethodPost, "/dashboard/progress", ProgressRequest{SolvedIDs: solvedIDs}, nil, nil)
}

// ToggleBookmark flips the stored bookmark flag and returns the new value.
func (c *Client) ToggleBookmark(ctx context.Context, roadmapID string) (bool, error) {
	var out BookmarkResponse
	if err := c.do(ctx, http.MethodPut, "/roadmap/"+url.PathEscape(roadmapID)+"/bookmark", nil, &out, nil); err != nil {
		return false, err
	}
	return out.IsBookmarked, nil
}

// FetchStats returns the aggregate counters.
func (c *Client) FetchStats(ctx context.Context) (stats.Stats, error) {
	var out stats.Stats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, &out, nil); err != nil {
		return stats.Stats{}, err
	}
	return out, nil
}

// Cleanup deletes every non-bookmarked roadmap of the user.
func (c *Client) Cleanup(ctx context.Context) (int, error) {
	var out CleanupResponse
	if err := c.do(ctx, http.MethodDelete, "/roadmap/cleanup", nil, &out, nil); err != nil {
		return 0, err
	}
	return out.DeletedCount, nil
}

// Login exchanges a user name for a bearer token.
func (c *Client) Login(ctx context.Context, username string) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{Username: username}, &out, nil)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, hdr http.Header) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.creds != nil {
		tok, err := c.creds.Token(ctx)
		if err != nil {
			return fmt.Errorf("credential: %w", err)
		}
		if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("api request", "method", method, "path", path, "status", resp.StatusCode, "latency", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusErr(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	// An empty body decodes like null and leaves out untouched.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func statusErr(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(raw))
	var er ErrorResponse
	if json.Unmarshal(raw, &er) == nil && er.Detail != "" {
		detail = er.Detail
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, detail)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
	default:
		return &StatusError{Code: resp.StatusCode, Body: detail}
	}
}
