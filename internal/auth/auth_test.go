package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss, err := NewIssuer("secret")
	require.NoError(t, err)

	tok, err := iss.Issue("user-1", "ada", time.Hour)
	require.NoError(t, err)

	claims, err := iss.Verify("Bearer " + tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ada", claims.Username)
}

func TestIssuer_Rejects(t *testing.T) {
	iss, err := NewIssuer("secret")
	require.NoError(t, err)
	other, err := NewIssuer("other")
	require.NoError(t, err)

	tok, err := other.Issue("u", "u", time.Hour)
	require.NoError(t, err)
	_, err = iss.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = iss.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)

	past := time.Now().Add(-2 * time.Hour)
	iss.now = func() time.Time { return past }
	old, err := iss.Issue("u", "u", time.Minute)
	require.NoError(t, err)
	iss.now = time.Now
	_, err = iss.Verify(old)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = NewIssuer("")
	assert.Error(t, err)
}

type fakeCleaner struct {
	n     int
	err   error
	calls int
}

func (f *fakeCleaner) Cleanup(context.Context) (int, error) {
	f.calls++
	return f.n, f.err
}

func TestSession_LoginPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "token")
	s := NewSession(NewTokenFile(path), nil)
	assert.False(t, s.LoggedIn(context.Background()))

	require.NoError(t, s.Login("tok"))

	s2 := NewSession(NewTokenFile(path), nil)
	tok, err := s2.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}

func TestSession_LogoutCascade(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	s := NewSession(NewTokenFile(path), nil)
	require.NoError(t, s.Login("tok"))

	notified := 0
	s.OnLogout(func() { notified++ })

	c := &fakeCleaner{n: 2}
	n, err := s.Logout(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, c.calls)
	assert.Equal(t, 1, notified)
	assert.False(t, s.LoggedIn(context.Background()))

	tok, err := NewTokenFile(path).Load()
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestSession_LogoutCleanupFailureStillSignsOut(t *testing.T) {
	s := NewSession(NewTokenFile(filepath.Join(t.TempDir(), "token")), nil)
	require.NoError(t, s.Login("tok"))

	n, err := s.Logout(context.Background(), &fakeCleaner{err: errors.New("offline")})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.False(t, s.LoggedIn(context.Background()))
}

func TestSession_LogoutWhenSignedOutSkipsCleanup(t *testing.T) {
	s := NewSession(NewTokenFile(filepath.Join(t.TempDir(), "token")), nil)
	c := &fakeCleaner{}
	_, err := s.Logout(context.Background(), c)
	require.NoError(t, err)
	assert.Zero(t, c.calls)
}
