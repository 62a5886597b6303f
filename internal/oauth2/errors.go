package oauth2

import (
	"errors"
	"fmt"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/jwtverify"
)

// Kind enumerates the OAuth2Error failure modes from spec §4.7.
type Kind string

const (
	KindInvalidOrigin        Kind = "InvalidOrigin"
	KindSecurityTokenNotFound Kind = "SecurityTokenNotFound"
	KindCsrfMismatch         Kind = "CsrfMismatch"
	KindExpired              Kind = "Expired"
	KindUserAgentMismatch    Kind = "UserAgentMismatch"
	KindPkceExchangeFailed   Kind = "PkceExchangeFailed"
	KindTokenVerification    Kind = "TokenVerification"
	KindNonceMismatch        Kind = "NonceMismatch"
	KindUserInfoMismatch     Kind = "UserInfoMismatch"
	KindStorage              Kind = "Storage"
	KindDatabase             Kind = "Database"
	KindInternal             Kind = "Internal"
)

// Error is the OAuth2Error from spec §4.7.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oauth2: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("oauth2: %s", e.Kind)
}
func (e *Error) Unwrap() error { return e.Err }

func fail(kind Kind, err error) error { return &Error{Kind: kind, Err: err} }

// wrapTokenVerification maps a jwtverify.Error into the TokenVerification
// OAuth2Error, preserving its kind for logging.
func wrapTokenVerification(err error) error {
	var verr *jwtverify.Error
	if errors.As(err, &verr) {
		return fail(KindTokenVerification, verr)
	}
	return fail(KindTokenVerification, err)
}
