package datastore

import "time"

// User is the internal identity record (spec §3 "User").
type User struct {
	ID        string
	Account   string
	Label     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OAuth2Account is an external OIDC identity linked to exactly one User
// (spec §3 "OAuth2Account").
type OAuth2Account struct {
	ID             string
	UserID         string
	Provider       string
	ProviderUserID string
	Name           string
	Email          string
	Picture        string // empty means absent
	Metadata       []byte // opaque JSON from the provider
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PasskeyCredential is a WebAuthn credential linked to exactly one User
// (spec §3 "PasskeyCredential").
type PasskeyCredential struct {
	CredentialID string // base64url
	UserID       string
	PublicKey    []byte // SPKI bytes derived from the COSE key
	Algorithm    int64  // COSE alg identifier (-7 ES256, -257 RS256)
	Counter      uint32
	UserHandle   []byte // opaque, <= 64 bytes
	Name         string
	DisplayName  string
	AAGUID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountSearchField is a typed lookup key for OAuth2 accounts, recovered
// from the original's AccountSearchField enum (oauth2_passkey/src/oauth2/types.rs)
// rather than stringly-typed column names.
type AccountSearchField struct {
	UserID         string
	Provider       string
	ProviderUserID string
	Email          string
}

// ByUserID returns a search field matching on user_id.
func ByUserID(userID string) AccountSearchField { return AccountSearchField{UserID: userID} }

// ByProviderSub returns a search field matching on (provider, provider_user_id).
func ByProviderSub(provider, sub string) AccountSearchField {
	return AccountSearchField{Provider: provider, ProviderUserID: sub}
}

// ByEmail returns a search field matching on email.
func ByEmail(email string) AccountSearchField { return AccountSearchField{Email: email} }

// CredentialSearchField is a typed lookup key for passkey credentials.
type CredentialSearchField struct {
	UserID       string
	CredentialID string
}

// ByCredUserID searches credentials belonging to a user.
func ByCredUserID(userID string) CredentialSearchField {
	return CredentialSearchField{UserID: userID}
}

// ByCredentialID searches for a single credential by its id.
func ByCredentialID(credentialID string) CredentialSearchField {
	return CredentialSearchField{CredentialID: credentialID}
}
