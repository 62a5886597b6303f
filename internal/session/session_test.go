package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/cache"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/datastore"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/log"
)

func newTestManager(t *testing.T, ttl time.Duration) (*Manager, datastore.Store) {
	t.Helper()
	store, err := datastore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.UpsertUser(context.Background(), datastore.User{ID: "user-1", Account: "alice@example.com"})
	require.NoError(t, err)

	return NewManager(cache.NewMemory(log.Nop()), store, ttl, log.Nop()), store
}

func TestCreateAndGetSession(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)
	ctx := context.Background()

	sessionID, setCookie, err := m.CreateSession(ctx, "user-1")
	require.NoError(t, err)
	assert.Contains(t, setCookie, CookieName+"=")
	assert.Contains(t, setCookie, "HttpOnly")
	assert.Contains(t, setCookie, "Secure")

	user, err := m.GetUserFromSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestGetSessionNotFound(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)
	_, err := m.GetUserFromSession(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestGetSessionExpired(t *testing.T) {
	m, _ := newTestManager(t, 10*time.Millisecond)
	ctx := context.Background()

	sessionID, _, err := m.CreateSession(ctx, "user-1")
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)
	_, err = m.GetUserFromSession(ctx, sessionID)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestGetSessionUserGone(t *testing.T) {
	m, store := newTestManager(t, time.Minute)
	ctx := context.Background()

	sessionID, _, err := m.CreateSession(ctx, "user-1")
	require.NoError(t, err)
	require.NoError(t, store.DeleteUser(ctx, "user-1"))

	_, err = m.GetUserFromSession(ctx, sessionID)
	assert.ErrorIs(t, err, ErrUserGone)
}

func TestLogoutClearsSession(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)
	ctx := context.Background()

	sessionID, _, err := m.CreateSession(ctx, "user-1")
	require.NoError(t, err)

	clearCookie, err := m.PrepareLogoutResponse(ctx, sessionID)
	require.NoError(t, err)
	assert.True(t, strings.Contains(clearCookie, "Max-Age=0"))

	_, err = m.GetUserFromSession(ctx, sessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAssertNotAuthenticated(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)
	ctx := context.Background()

	assert.NoError(t, m.AssertNotAuthenticated(ctx, ""))

	sessionID, _, err := m.CreateSession(ctx, "user-1")
	require.NoError(t, err)
	assert.ErrorIs(t, m.AssertNotAuthenticated(ctx, sessionID), ErrUnexpectedlyAuthorized)
}
