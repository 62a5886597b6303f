package oauth2

import (
	"encoding/json"
	"fmt"

	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/crypto"
)

// StateParams is the base64url(JSON) blob round-tripped through the
// provider's `state` parameter (spec §3).
type StateParams struct {
	CsrfToken string `json:"csrf_token"`
	NonceID   string `json:"nonce_id"`
	PkceID    string `json:"pkce_id"`
	MiscID    string `json:"misc_id,omitempty"`
}

// EncodeState renders a StateParams as base64url(JSON).
func EncodeState(p StateParams) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("oauth2: encode state: %w", err)
	}
	return crypto.B64URLEncode(b), nil
}

// DecodeState parses a base64url(JSON) state blob.
func DecodeState(s string) (StateParams, error) {
	b, err := crypto.B64URLDecode(s)
	if err != nil {
		return StateParams{}, fmt.Errorf("oauth2: decode state: %w", err)
	}
	var p StateParams
	if err := json.Unmarshal(b, &p); err != nil {
		return StateParams{}, fmt.Errorf("oauth2: decode state json: %w", err)
	}
	return p, nil
}

// storedCSRF is the oauth2_csrf cache entry.
type storedCSRF struct {
	Token     string `json:"token"`
	UserAgent string `json:"user_agent"`
}

// storedPKCE is the oauth2_pkce cache entry.
type storedPKCE struct {
	Verifier string `json:"verifier"`
}

// storedNonce is the oauth2_nonce cache entry.
type storedNonce struct {
	Token string `json:"token"`
}

// storedMisc is the misc_session cache entry used by the "link to existing
// session" flow.
type storedMisc struct {
	SessionID string `json:"session_id"`
}
