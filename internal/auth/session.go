package auth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/abhisek/skilltrail/internal/logger"
)

// TokenFile persists a bearer token on disk with owner-only permissions.
type TokenFile struct {
	path string
}

func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

func (f *TokenFile) Path() string { return f.path }

// Load returns the stored token, or "" when none is stored.
func (f *TokenFile) Load() (string, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func (f *TokenFile) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

func (f *TokenFile) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Cleaner deletes the user's non-bookmarked roadmaps on sign-out.
type Cleaner interface {
	Cleanup(ctx context.Context) (int, error)
}

// Session holds the current credential and notifies listeners when the
// user signs out.
type Session struct {
	mu        sync.Mutex
	file      *TokenFile
	token     string
	loaded    bool
	listeners []func()
	log       *logger.Logger
}

func NewSession(file *TokenFile, log *logger.Logger) *Session {
	return &Session{file: file, log: logger.OrNop(log)}
}

// Token returns the current bearer token, reading the token file on first
// use. An empty token means signed out.
func (s *Session) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded && s.file != nil {
		tok, err := s.file.Load()
		if err != nil {
			return "", err
		}
		s.token = tok
		s.loaded = true
	}
	return s.token, nil
}

// Login stores token as the current credential.
func (s *Session) Login(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		if err := s.file.Save(token); err != nil {
			return err
		}
	}
	s.token = token
	s.loaded = true
	return nil
}

func (s *Session) LoggedIn(ctx context.Context) bool {
	tok, err := s.Token(ctx)
	return err == nil && tok != ""
}

// OnLogout registers fn to run after every sign-out.
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Logout runs the server-side cleanup while the credential is still valid,
// then clears the credential and notifies listeners. Cleanup failure is
// logged and does not prevent sign-out.
func (s *Session) Logout(ctx context.Context, cleaner Cleaner) (int, error) {
	deleted := 0
	if cleaner != nil && s.LoggedIn(ctx) {
		n, err := cleaner.Cleanup(ctx)
		if err != nil {
			s.log.Warn("roadmap cleanup on sign-out failed", "error", err)
		} else {
			deleted = n
			s.log.Info("removed non-bookmarked roadmaps", "count", n)
		}
	}

	s.mu.Lock()
	s.token = ""
	s.loaded = true
	var clearErr error
	if s.file != nil {
		clearErr = s.file.Clear()
	}
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return deleted, clearErr
}

// Static is a fixed credential.
type Static string

func (s Static) Token(context.Context) (string, error) { return string(s), nil }
