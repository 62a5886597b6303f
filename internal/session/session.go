// Package session implements the session manager (spec §4.5): first-party
// session cookies backed by the CacheStore, with TTL enforcement and no
// read-time extension (fixed-window sessions). Grounded on the teacher's
// session/manager (code generation + clock abstraction) and storage/redis's
// prefix-keyed cache usage.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/cache"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/datastore"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/crypto"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/log"
)

// CookieName is the default session cookie name (spec §6). A "__Host-"
// prefix makes the cookie host-only.
const CookieName = "__Host-SessionId"

// Failure kinds from spec §4.5.
var (
	ErrSessionExpired  = errors.New("session: expired")
	ErrSessionNotFound = errors.New("session: not found")
	ErrUserGone        = errors.New("session: user no longer exists")
)

// StoredSession is the cache entry persisted per spec §3.
type StoredSession struct {
	UserID    string        `json:"user_id"`
	ExpiresAt time.Time     `json:"expires_at"`
	TTL       time.Duration `json:"ttl"`
}

// Manager creates, loads, and destroys sessions.
type Manager struct {
	cache      cache.Store
	store      datastore.Store
	ttl        time.Duration
	cookieName string
	logger     log.Logger
}

// NewManager builds a session Manager with the given fixed-window TTL
// (spec §6: 10 minutes to 1 hour, default 10 minutes).
func NewManager(c cache.Store, store datastore.Store, ttl time.Duration, logger log.Logger) *Manager {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Manager{cache: c, store: store, ttl: ttl, cookieName: CookieName, logger: logger}
}

// CreateSession generates a 32-byte random session id, stores the
// StoredSession, and returns the session id plus the Set-Cookie header
// value to emit.
func (m *Manager) CreateSession(ctx context.Context, userID string) (sessionID string, setCookie string, err error) {
	raw, err := crypto.Random(32)
	if err != nil {
		return "", "", fmt.Errorf("session: generate id: %w", err)
	}
	sessionID = crypto.B64URLEncode(raw)

	now := time.Now()
	stored := StoredSession{UserID: userID, ExpiresAt: now.Add(m.ttl), TTL: m.ttl}
	payload, err := json.Marshal(stored)
	if err != nil {
		return "", "", fmt.Errorf("session: marshal: %w", err)
	}
	if err := m.cache.Put(ctx, cache.CategorySession, sessionID, payload, m.ttl); err != nil {
		return "", "", fmt.Errorf("session: store: %w", err)
	}

	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	return sessionID, cookie.String(), nil
}

// GetUserFromSession loads the StoredSession, checks expiry, and loads the
// User from the DataStore, per spec §4.5 and the invariant in §8:
// get_user_from_session succeeds iff now < expires_at and the user exists.
func (m *Manager) GetUserFromSession(ctx context.Context, sessionID string) (datastore.User, error) {
	raw, ok, err := m.cache.Get(ctx, cache.CategorySession, sessionID)
	if err != nil {
		return datastore.User{}, fmt.Errorf("session: load: %w", err)
	}
	if !ok {
		return datastore.User{}, ErrSessionNotFound
	}

	var stored StoredSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		return datastore.User{}, fmt.Errorf("session: decode: %w", err)
	}
	if time.Now().After(stored.ExpiresAt) {
		return datastore.User{}, ErrSessionExpired
	}

	user, err := m.store.GetUser(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return datastore.User{}, ErrUserGone
		}
		return datastore.User{}, fmt.Errorf("session: load user: %w", err)
	}
	return user, nil
}

// PrepareLogoutResponse deletes the stored session (if the cookie names
// one) and returns a Set-Cookie header value that clears it.
func (m *Manager) PrepareLogoutResponse(ctx context.Context, sessionID string) (clearCookie string, err error) {
	if sessionID != "" {
		if err := m.cache.Remove(ctx, cache.CategorySession, sessionID); err != nil {
			return "", fmt.Errorf("session: remove: %w", err)
		}
	}
	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	return cookie.String(), nil
}

// AssertNotAuthenticated is used by begin-login endpoints to reject an
// already-authenticated caller with UnexpectedlyAuthorized (spec §7),
// recovered from the original's session guard
// (oauth2_passkey_axum/src/session.rs).
func (m *Manager) AssertNotAuthenticated(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if _, err := m.GetUserFromSession(ctx, sessionID); err == nil {
		return ErrUnexpectedlyAuthorized
	}
	return nil
}

// ErrUnexpectedlyAuthorized is returned by AssertNotAuthenticated when the
// caller is already logged in during a begin-login flow (spec §7).
var ErrUnexpectedlyAuthorized = errors.New("session: unexpectedly authorized")
