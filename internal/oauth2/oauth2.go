// Package oauth2 implements the OAuth2/OIDC authorization-code state
// machine (spec §4.7): Begin constructs the authorization request and its
// CSRF/PKCE/nonce bookkeeping; Finish validates the callback, verifies the
// ID token through jwtverify, fetches userinfo, and hands the result to
// coordination for account linking. Grounded on the teacher's
// connector/oidc for the token-exchange shape and server/auth.go for the
// begin/finish HTTP choreography, generalized from dex's own-IdP issuance
// to a relying-party client flow per the original's oauth2_passkey crate.
package oauth2

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/cache"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/config"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/coordination"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/jwtverify"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/session"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/crypto"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/log"
)

// CSRFCookieName is the cookie carrying the csrf_id between Begin and
// Finish in GET-mode redirects.
const CSRFCookieName = "__Host-OAuth2Csrf"

const (
	csrfCookieTTL = 60 * time.Second
	pkceTTL       = 10 * time.Minute
	nonceTTL      = 10 * time.Minute
	miscTTL       = 10 * time.Minute
)

// Engine runs the OAuth2 Begin/Finish state machine against one configured
// set of providers.
type Engine struct {
	providers   map[string]config.OAuth2ProviderConfig
	origin      string
	redirectURI string

	cache     cache.Store
	verifier  *jwtverify.Verifier
	exchanger TokenExchanger
	sessions  *session.Manager
	coord     *coordination.Coordinator

	logger log.Logger
}

// New builds an Engine. exchanger may be a test stub; production callers
// pass NewHTTPExchanger(nil).
func New(
	providers map[string]config.OAuth2ProviderConfig,
	origin, redirectURI string,
	c cache.Store,
	verifier *jwtverify.Verifier,
	exchanger TokenExchanger,
	sessions *session.Manager,
	coord *coordination.Coordinator,
	logger log.Logger,
) *Engine {
	return &Engine{
		providers:   providers,
		origin:      strings.TrimRight(origin, "/"),
		redirectURI: redirectURI,
		cache:       c,
		verifier:    verifier,
		exchanger:   exchanger,
		sessions:    sessions,
		coord:       coord,
		logger:      logger,
	}
}

// BeginResult is what callers need to redirect the browser and set cookies.
type BeginResult struct {
	AuthorizationURL string
	SetCookie        string
}

// Begin prepares an authorization request for the named provider, per spec
// §4.7. requestOrigin is the caller-presented Origin or Referer header;
// userAgent is the request's User-Agent header, stored alongside the CSRF
// token so Finish can enforce the user-agent-binding check from spec §1;
// sessionID, when non-empty, marks this as a "link to existing session"
// flow and stashes a misc_session entry.
func (e *Engine) Begin(ctx context.Context, provider, requestOrigin, sessionID, userAgent string) (BeginResult, error) {
	if !strings.HasPrefix(requestOrigin, e.origin) {
		return BeginResult{}, fail(KindInvalidOrigin, fmt.Errorf("origin %q does not match configured origin", requestOrigin))
	}
	p, ok := e.providers[provider]
	if !ok {
		return BeginResult{}, fail(KindInternal, fmt.Errorf("unknown provider %q", provider))
	}

	csrfToken, err := randomB64(32)
	if err != nil {
		return BeginResult{}, fail(KindInternal, err)
	}
	verifier, challenge, err := generatePKCE()
	if err != nil {
		return BeginResult{}, fail(KindInternal, err)
	}
	nonce, err := randomB64(32)
	if err != nil {
		return BeginResult{}, fail(KindInternal, err)
	}

	csrfID, pkceID, nonceID, err := e.randomIDs()
	if err != nil {
		return BeginResult{}, fail(KindInternal, err)
	}

	if err := e.putJSON(ctx, cache.CategoryOAuth2CSRF, csrfID, storedCSRF{Token: csrfToken, UserAgent: userAgent}, csrfCookieTTL); err != nil {
		return BeginResult{}, err
	}
	if err := e.putJSON(ctx, cache.CategoryOAuth2PKCE, pkceID, storedPKCE{Verifier: verifier}, pkceTTL); err != nil {
		return BeginResult{}, err
	}
	if err := e.putJSON(ctx, cache.CategoryOAuth2Nonce, nonceID, storedNonce{Token: nonce}, nonceTTL); err != nil {
		return BeginResult{}, err
	}

	state := StateParams{CsrfToken: csrfToken, NonceID: nonceID, PkceID: pkceID}
	if sessionID != "" {
		miscID, err := randomB64(16)
		if err != nil {
			return BeginResult{}, fail(KindInternal, err)
		}
		if err := e.putJSON(ctx, cache.CategoryMiscSession, miscID, storedMisc{SessionID: sessionID}, miscTTL); err != nil {
			return BeginResult{}, err
		}
		state.MiscID = miscID
	}

	encodedState, err := EncodeState(state)
	if err != nil {
		return BeginResult{}, fail(KindInternal, err)
	}

	authURL := e.buildAuthorizationURL(p, challenge, nonce, encodedState)

	cookie := &http.Cookie{
		Name:     CSRFCookieName,
		Value:    csrfID,
		Path:     "/",
		MaxAge:   int(csrfCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	return BeginResult{AuthorizationURL: authURL, SetCookie: cookie.String()}, nil
}

func (e *Engine) buildAuthorizationURL(p config.OAuth2ProviderConfig, challenge, nonce, state string) string {
	v := url.Values{}
	v.Set("response_type", "code")
	v.Set("scope", "openid email profile")
	v.Set("response_mode", "form_post")
	v.Set("access_type", "online")
	v.Set("prompt", "consent")
	v.Set("code_challenge", challenge)
	v.Set("code_challenge_method", "S256")
	v.Set("state", state)
	v.Set("nonce", nonce)
	v.Set("client_id", p.ClientID)
	v.Set("redirect_uri", e.redirectURI)
	return authEndpoints[p.Name] + "?" + v.Encode()
}

// FinishInput is the callback payload, collected from the query string
// (GET-mode) or form body (POST form_post mode) plus the ambient request
// context Finish needs for CSRF/UA checks.
type FinishInput struct {
	Provider string
	Code     string
	State    string

	// GETMode is true for the redirect-based callback, where the CSRF
	// cookie set by Begin is present; form_post callbacks carry no
	// cookies and skip the CSRF-cookie check per spec §4.7 step 2.
	GETMode        bool
	CSRFCookieID   string
	UserAgent      string
	CurrentSession string // session id from an existing cookie, may be empty
}

// FinishResult is what Finish hands back to the HTTP layer.
type FinishResult struct {
	SetCookies []string
	User       coordination.LinkResult
}

// Finish validates the authorized callback and completes the twelve-step
// algorithm from spec §4.7.
func (e *Engine) Finish(ctx context.Context, in FinishInput) (FinishResult, error) {
	p, ok := e.providers[in.Provider]
	if !ok {
		return FinishResult{}, fail(KindInternal, fmt.Errorf("unknown provider %q", in.Provider))
	}

	state, err := DecodeState(in.State)
	if err != nil {
		return FinishResult{}, fail(KindSecurityTokenNotFound, err)
	}

	if in.GETMode {
		if err := e.checkCSRF(ctx, in, state); err != nil {
			return FinishResult{}, err
		}
	}

	verifier, err := e.loadPKCE(ctx, state.PkceID)
	if err != nil {
		return FinishResult{}, err
	}

	accessToken, idToken, err := e.exchanger.Exchange(ctx, p, in.Code, verifier, e.redirectURI)
	if err != nil {
		return FinishResult{}, fail(KindPkceExchangeFailed, err)
	}

	claims, err := e.verifier.Verify(ctx, idToken, p.ClientID)
	if err != nil {
		return FinishResult{}, wrapTokenVerification(err)
	}

	if err := e.checkNonce(ctx, state.NonceID, claims.Nonce); err != nil {
		return FinishResult{}, err
	}

	info, err := e.exchanger.FetchUserInfo(ctx, p, accessToken)
	if err != nil {
		return FinishResult{}, err
	}
	if info.ID != claims.Sub {
		return FinishResult{}, fail(KindUserInfoMismatch, fmt.Errorf("userinfo sub %q does not match id_token sub %q", info.ID, claims.Sub))
	}

	account := canonicalAccount(p.Name, claims, info)

	sessionUserID, err := e.resolveLinkTarget(ctx, state.MiscID)
	if err != nil {
		return FinishResult{}, err
	}

	link, err := e.coord.LinkOrAdoptOAuth2Account(ctx, account, sessionUserID)
	if err != nil {
		return FinishResult{}, fail(KindStorage, err)
	}

	var setCookies []string
	if link.IssueSession {
		_, setCookie, err := e.sessions.CreateSession(ctx, link.User.ID)
		if err != nil {
			return FinishResult{}, fail(KindStorage, err)
		}
		setCookies = append(setCookies, setCookie)
	}

	if state.MiscID != "" {
		_ = e.cache.Remove(ctx, cache.CategoryMiscSession, state.MiscID)
	}
	_ = e.cache.Remove(ctx, cache.CategoryOAuth2PKCE, state.PkceID)
	if in.GETMode {
		_ = e.cache.Remove(ctx, cache.CategoryOAuth2CSRF, in.CSRFCookieID)
	}

	return FinishResult{SetCookies: setCookies, User: link}, nil
}

func (e *Engine) checkCSRF(ctx context.Context, in FinishInput, state StateParams) error {
	if in.CSRFCookieID == "" {
		return fail(KindSecurityTokenNotFound, fmt.Errorf("missing csrf cookie"))
	}
	raw, ok, err := e.cache.Get(ctx, cache.CategoryOAuth2CSRF, in.CSRFCookieID)
	if err != nil {
		return fail(KindStorage, err)
	}
	if !ok {
		return fail(KindSecurityTokenNotFound, fmt.Errorf("csrf record not found"))
	}
	var stored storedCSRF
	if err := decodeJSON(raw, &stored); err != nil {
		return fail(KindInternal, err)
	}
	if stored.Token != state.CsrfToken {
		return fail(KindCsrfMismatch, fmt.Errorf("csrf token mismatch"))
	}
	if stored.UserAgent != "" && stored.UserAgent != in.UserAgent {
		return fail(KindUserAgentMismatch, fmt.Errorf("user-agent mismatch"))
	}
	return nil
}

func (e *Engine) loadPKCE(ctx context.Context, pkceID string) (string, error) {
	raw, ok, err := e.cache.Get(ctx, cache.CategoryOAuth2PKCE, pkceID)
	if err != nil {
		return "", fail(KindStorage, err)
	}
	if !ok {
		return "", fail(KindSecurityTokenNotFound, fmt.Errorf("pkce record not found"))
	}
	var stored storedPKCE
	if err := decodeJSON(raw, &stored); err != nil {
		return "", fail(KindInternal, err)
	}
	return stored.Verifier, nil
}

func (e *Engine) checkNonce(ctx context.Context, nonceID, claimNonce string) error {
	raw, ok, err := e.cache.Get(ctx, cache.CategoryOAuth2Nonce, nonceID)
	if err != nil {
		return fail(KindStorage, err)
	}
	if !ok {
		return fail(KindSecurityTokenNotFound, fmt.Errorf("nonce record not found"))
	}
	var stored storedNonce
	if err := decodeJSON(raw, &stored); err != nil {
		return fail(KindInternal, err)
	}
	if stored.Token != claimNonce {
		return fail(KindNonceMismatch, fmt.Errorf("nonce mismatch"))
	}
	if err := e.cache.Remove(ctx, cache.CategoryOAuth2Nonce, nonceID); err != nil {
		return fail(KindStorage, err)
	}
	return nil
}

func (e *Engine) resolveLinkTarget(ctx context.Context, miscID string) (string, error) {
	if miscID == "" {
		return "", nil
	}
	raw, ok, err := e.cache.Get(ctx, cache.CategoryMiscSession, miscID)
	if err != nil {
		return "", fail(KindStorage, err)
	}
	if !ok {
		return "", fail(KindSecurityTokenNotFound, fmt.Errorf("misc_session record not found"))
	}
	var stored storedMisc
	if err := decodeJSON(raw, &stored); err != nil {
		return "", fail(KindInternal, err)
	}
	user, err := e.sessions.GetUserFromSession(ctx, stored.SessionID)
	if err != nil {
		return "", fail(KindSecurityTokenNotFound, err)
	}
	return user.ID, nil
}

func (e *Engine) randomIDs() (csrfID, pkceID, nonceID string, err error) {
	csrfID, err = randomB64(16)
	if err != nil {
		return "", "", "", err
	}
	pkceID, err = randomB64(16)
	if err != nil {
		return "", "", "", err
	}
	nonceID, err = randomB64(16)
	if err != nil {
		return "", "", "", err
	}
	return csrfID, pkceID, nonceID, nil
}

func randomB64(n int) (string, error) {
	raw, err := crypto.Random(n)
	if err != nil {
		return "", err
	}
	return crypto.B64URLEncode(raw), nil
}
