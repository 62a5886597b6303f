package oauth2

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jose "gopkg.in/square/go-jose.v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/cache"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/config"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/coordination"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/datastore"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/jwtverify"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/session"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/log"
)

const (
	testOrigin      = "https://app.example.com"
	testRedirectURI = "https://app.example.com/oauth2/authorized"
	testClientID    = "client-123"
	testIssuer      = "https://idp.example.com"
)

type idTokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
	Nonce string `json:"nonce"`
}

// stubExchanger is a TokenExchanger double that returns a pre-signed
// id_token and fixed userinfo, letting Finish be exercised without network
// access, per the teacher's pattern of injecting a fake connector in tests.
type stubExchanger struct {
	idToken  string
	userInfo UserInfo
}

func (s *stubExchanger) Exchange(ctx context.Context, p config.OAuth2ProviderConfig, code, codeVerifier, redirectURI string) (string, string, error) {
	return "access-token", s.idToken, nil
}

func (s *stubExchanger) FetchUserInfo(ctx context.Context, p config.OAuth2ProviderConfig, accessToken string) (UserInfo, error) {
	return s.userInfo, nil
}

type testHarness struct {
	engine   *Engine
	cache    cache.Store
	sessions *session.Manager
	exch     *stubExchanger
}

func newTestHarness(t *testing.T, nonce string) testHarness {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	claims := idTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "sub-1",
			Audience:  jwt.ClaimStrings{testClientID},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Email: "alice@example.com",
		Name:  "Alice",
		Nonce: nonce,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = "key-1"
	signed, err := token.SignedString(priv)
	require.NoError(t, err)

	jwks := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
		{Key: &priv.PublicKey, KeyID: "key-1", Algorithm: "RS256", Use: "sig"},
	}}
	jwksSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(jwks))
	}))
	t.Cleanup(jwksSrv.Close)

	verifier := jwtverify.NewVerifier([]jwtverify.IssuerConfig{
		{Issuer: testIssuer, JWKSURI: jwksSrv.URL, ClientID: testClientID},
	}, log.Nop())

	memCache := cache.NewMemory(log.Nop())
	t.Cleanup(func() { memCache.Close() })

	store, err := datastore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	sessions := session.NewManager(memCache, store, time.Hour, log.Nop())
	coord := coordination.New(store, log.Nop())

	exch := &stubExchanger{idToken: signed, userInfo: UserInfo{ID: "sub-1", Email: "alice@example.com", Name: "Alice"}}

	providers := map[string]config.OAuth2ProviderConfig{
		"google": {Name: "google", ClientID: testClientID, ClientSecret: "secret", Issuer: testIssuer},
	}

	engine := New(providers, testOrigin, testRedirectURI, memCache, verifier, exch, sessions, coord, log.Nop())

	return testHarness{engine: engine, cache: memCache, sessions: sessions, exch: exch}
}

func TestBeginRejectsBadOrigin(t *testing.T) {
	h := newTestHarness(t, "nonce-value")
	_, err := h.engine.Begin(context.Background(), "google", "https://evil.example.com", "", "")
	require.Error(t, err)
	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, KindInvalidOrigin, oerr.Kind)
}

func TestBeginProducesAuthorizationURLAndCookie(t *testing.T) {
	h := newTestHarness(t, "nonce-value")
	res, err := h.engine.Begin(context.Background(), "google", testOrigin, "", "")
	require.NoError(t, err)
	assert.Contains(t, res.AuthorizationURL, "code_challenge=")
	assert.Contains(t, res.AuthorizationURL, "state=")
	assert.Contains(t, res.SetCookie, CSRFCookieName)
}

// CSRF mismatch aborts login: Begin with one csrf_token, then Finish with a
// state encoded with a different one (spec §8 seed test 1).
func TestFinishRejectsCSRFMismatch(t *testing.T) {
	h := newTestHarness(t, "nonce-value")
	ctx := context.Background()

	begin, err := h.engine.Begin(ctx, "google", testOrigin, "", "")
	require.NoError(t, err)

	cookie, err := (&http.Request{Header: http.Header{"Cookie": []string{begin.SetCookie}}}).Cookie(CSRFCookieName)
	require.NoError(t, err)

	decoded, err := DecodeState(extractState(t, begin.AuthorizationURL))
	require.NoError(t, err)

	tampered := decoded
	tampered.CsrfToken = "a-different-csrf-token"
	tamperedState, err := EncodeState(tampered)
	require.NoError(t, err)

	_, err = h.engine.Finish(ctx, FinishInput{
		Provider:     "google",
		Code:         "auth-code",
		State:        tamperedState,
		GETMode:      true,
		CSRFCookieID: cookie.Value,
	})
	require.Error(t, err)
	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, KindCsrfMismatch, oerr.Kind)
}

// Nonce replay rejected: the first successful Finish consumes its one-shot
// records (nonce, PKCE, CSRF), so a second Finish reusing the same state
// fails SecurityTokenNotFound (spec §8 seed test 2).
func TestFinishRejectsNonceReplay(t *testing.T) {
	h := newTestHarness(t, "nonce-value")
	ctx := context.Background()

	begin, err := h.engine.Begin(ctx, "google", testOrigin, "", "")
	require.NoError(t, err)
	cookie, err := (&http.Request{Header: http.Header{"Cookie": []string{begin.SetCookie}}}).Cookie(CSRFCookieName)
	require.NoError(t, err)
	state := extractState(t, begin.AuthorizationURL)

	in := FinishInput{Provider: "google", Code: "auth-code", State: state, GETMode: true, CSRFCookieID: cookie.Value}

	_, err = h.engine.Finish(ctx, in)
	require.NoError(t, err)

	// Re-run Finish with the same state: PKCE and CSRF records were
	// consumed by the first call too, so SecurityTokenNotFound surfaces
	// before NonceMismatch would even be checked again.
	_, err = h.engine.Finish(ctx, in)
	require.Error(t, err)
	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, KindSecurityTokenNotFound, oerr.Kind)
}

func TestFinishCreatesNewUserOnFirstLogin(t *testing.T) {
	h := newTestHarness(t, "nonce-value")
	ctx := context.Background()

	begin, err := h.engine.Begin(ctx, "google", testOrigin, "", "")
	require.NoError(t, err)
	cookie, err := (&http.Request{Header: http.Header{"Cookie": []string{begin.SetCookie}}}).Cookie(CSRFCookieName)
	require.NoError(t, err)
	state := extractState(t, begin.AuthorizationURL)

	res, err := h.engine.Finish(ctx, FinishInput{
		Provider: "google", Code: "auth-code", State: state, GETMode: true, CSRFCookieID: cookie.Value,
	})
	require.NoError(t, err)
	assert.True(t, res.User.IssueSession)
	assert.Equal(t, "alice@example.com", res.User.User.Account)
	require.Len(t, res.SetCookies, 1)
}

// User-agent mismatch aborts login: Begin records the browser's UA alongside
// the csrf token, and Finish rejects a callback presenting a different one
// (spec §1 user-agent binding, §4.7 Begin step 5).
func TestFinishRejectsUserAgentMismatch(t *testing.T) {
	h := newTestHarness(t, "nonce-value")
	ctx := context.Background()

	begin, err := h.engine.Begin(ctx, "google", testOrigin, "", "Mozilla/5.0 (original)")
	require.NoError(t, err)
	cookie, err := (&http.Request{Header: http.Header{"Cookie": []string{begin.SetCookie}}}).Cookie(CSRFCookieName)
	require.NoError(t, err)
	state := extractState(t, begin.AuthorizationURL)

	_, err = h.engine.Finish(ctx, FinishInput{
		Provider:     "google",
		Code:         "auth-code",
		State:        state,
		GETMode:      true,
		CSRFCookieID: cookie.Value,
		UserAgent:    "Mozilla/5.0 (different)",
	})
	require.Error(t, err)
	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, KindUserAgentMismatch, oerr.Kind)
}

func TestFinishRejectsUserInfoSubMismatch(t *testing.T) {
	h := newTestHarness(t, "nonce-value")
	h.exch.userInfo.ID = "a-different-subject"
	ctx := context.Background()

	begin, err := h.engine.Begin(ctx, "google", testOrigin, "", "")
	require.NoError(t, err)
	cookie, err := (&http.Request{Header: http.Header{"Cookie": []string{begin.SetCookie}}}).Cookie(CSRFCookieName)
	require.NoError(t, err)
	state := extractState(t, begin.AuthorizationURL)

	_, err = h.engine.Finish(ctx, FinishInput{
		Provider: "google", Code: "auth-code", State: state, GETMode: true, CSRFCookieID: cookie.Value,
	})
	require.Error(t, err)
	var oerr *Error
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, KindUserInfoMismatch, oerr.Kind)
}

func extractState(t *testing.T, rawURL string) string {
	t.Helper()
	u, err := http.NewRequest(http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	return u.URL.Query().Get("state")
}
