// Package contexttoken implements the page-context token (spec §4.6): a
// stateless HMAC token binding a page load to a user id, used to detect
// session/page desynchronization across tabs during sensitive flows.
// Grounded directly on the original's libauth/src/context_token.rs, carried
// over in the teacher's idiom (net/http cookies, pkg/crypto's HMAC helper).
package contexttoken

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/crypto"
)

// CookieName is the optional context-token cookie name (spec §6).
const CookieName = "auth_context_token"

const tokenTTL = 24 * time.Hour

// Failure kinds from spec §4.6.
var (
	ErrBadFormat      = errors.New("contexttoken: bad format")
	ErrBadSignature   = errors.New("contexttoken: bad signature")
	ErrExpired        = errors.New("contexttoken: expired")
	ErrSessionMismatch = errors.New("contexttoken: session mismatch")
)

// Signer generates and verifies context tokens under a single server
// secret, configured once at startup (spec §5's resource policy).
type Signer struct {
	secret            []byte
	useCookie         bool
}

// NewSigner builds a Signer. useCookie mirrors USE_CONTEXT_TOKEN_COOKIE.
func NewSigner(secret []byte, useCookie bool) *Signer {
	return &Signer{secret: secret, useCookie: useCookie}
}

// Generate produces "user_id:expiry:signature" with a 24h expiry.
func (s *Signer) Generate(userID string) string {
	expiry := time.Now().Add(tokenTTL).Unix()
	data := fmt.Sprintf("%s:%d", userID, expiry)
	sig := crypto.HMACSHA256(s.secret, []byte(data))
	return fmt.Sprintf("%s:%s", data, crypto.B64URLEncode(sig))
}

// Verify checks format, signature, expiry, and that the token's user id
// matches sessionUserID (spec §8's invariant).
func (s *Signer) Verify(token, sessionUserID string) error {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return ErrBadFormat
	}
	tokenUserID, expiryStr, sigB64 := parts[0], parts[1], parts[2]

	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil {
		return ErrBadFormat
	}
	if time.Now().Unix() > expiry {
		return ErrExpired
	}

	sig, err := crypto.B64URLDecode(sigB64)
	if err != nil {
		return ErrBadFormat
	}
	data := fmt.Sprintf("%s:%s", tokenUserID, expiryStr)
	if !crypto.VerifyHMACSHA256(s.secret, []byte(data), sig) {
		return ErrBadSignature
	}

	if tokenUserID != sessionUserID {
		return ErrSessionMismatch
	}
	return nil
}

// CookieFor builds the Set-Cookie header value for a freshly generated
// token, if USE_CONTEXT_TOKEN_COOKIE is enabled; otherwise it returns "".
func (s *Signer) CookieFor(userID string) string {
	if !s.useCookie {
		return ""
	}
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    s.Generate(userID),
		Path:     "/",
		MaxAge:   int(tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	return cookie.String()
}

// ExtractFromCookies reads the context token cookie out of an incoming
// request's Cookie header, if present.
func ExtractFromCookies(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// VerifyContextTokenAndPage is the combined check the core calls at every
// state-changing endpoint (spec §4.6): it verifies the cookie-borne context
// token (if the feature is enabled) and any per-page hidden-field context
// value against the session's user id.
func (s *Signer) VerifyContextTokenAndPage(r *http.Request, pageContext *string, sessionUserID string) error {
	if s.useCookie {
		token, ok := ExtractFromCookies(r)
		if !ok {
			return errors.New("contexttoken: context token missing")
		}
		if err := s.Verify(token, sessionUserID); err != nil {
			return err
		}
	}

	if pageContext != nil && *pageContext != "" && *pageContext != sessionUserID {
		return ErrSessionMismatch
	}
	return nil
}
