// Package passkey implements the WebAuthn/passkey ceremony state machine
// (spec §4.8): registration (attestation) and authentication (assertion),
// including the narrow CBOR/COSE parsing registration needs. Grounded on
// go-passkeys' webauthn.go for the wire-format parsing shape (authData
// layout, flag bits, clientData JSON) and on the teacher's connector
// pattern for wrapping it behind a small stateful Engine backed by the
// CacheStore and DataStore, generalized from dex's own-IdP issuance to a
// relying-party passkey ceremony per the original's libpasskey crate.
package passkey

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/cache"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/config"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/coordination"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/datastore"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/session"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/crypto"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/log"
)

const challengeTTL = 5 * time.Minute

// Engine runs the WebAuthn registration and authentication ceremonies
// against one relying party configuration.
type Engine struct {
	cache    cache.Store
	store    datastore.Store
	coord    *coordination.Coordinator
	sessions *session.Manager

	rpID             string
	rpName           string
	origin           string
	userVerification config.UserVerification
	timeout          time.Duration

	logger log.Logger
}

// New builds a passkey Engine.
func New(c cache.Store, store datastore.Store, coord *coordination.Coordinator, sessions *session.Manager, cfg config.PasskeyConfig, origin string, logger log.Logger) *Engine {
	return &Engine{
		cache:            c,
		store:            store,
		coord:            coord,
		sessions:         sessions,
		rpID:             cfg.RPID,
		rpName:           cfg.RPName,
		origin:           origin,
		userVerification: cfg.UserVerification,
		timeout:          cfg.Timeout,
		logger:           logger,
	}
}

// RPEntity is the `rp` field of RegistrationOptions/AuthenticationOptions.
type RPEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UserEntity is the `user` field of RegistrationOptions.
type UserEntity struct {
	ID          []byte `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// PubKeyCredParam names one acceptable (type, alg) pair.
type PubKeyCredParam struct {
	Type string `json:"type"`
	Alg  int64  `json:"alg"`
}

// CredentialDescriptor identifies a credential by id, used in
// excludeCredentials/allowCredentials lists.
type CredentialDescriptor struct {
	Type string `json:"type"`
	ID   string `json:"id"` // base64url
}

// AuthenticatorSelection narrows which authenticators may fulfil a
// registration request.
type AuthenticatorSelection struct {
	ResidentKey      string `json:"residentKey"`
	UserVerification string `json:"userVerification"`
}

// RegistrationOptions is handed to the browser's
// navigator.credentials.create() call (spec §4.8).
type RegistrationOptions struct {
	RegiID                 string
	RP                     RPEntity
	User                   UserEntity
	Challenge              string // base64url
	PubKeyCredParams       []PubKeyCredParam
	TimeoutMS              int64
	AuthenticatorSelection AuthenticatorSelection
	Attestation            string
	ExcludeCredentials     []CredentialDescriptor
}

// storedChallenge is the regi_challenge/auth_challenge cache entry. UserID
// and UserHandle are fixed at Begin time so Finish binds the credential to
// exactly the user and handle the browser was shown, per coordination's
// "one user_handle per user" invariant.
type storedChallenge struct {
	Challenge   []byte    `json:"challenge"`
	UserID      string    `json:"user_id"`
	UserHandle  []byte    `json:"user_handle,omitempty"`
	Username    string    `json:"username,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *Engine) storeChallenge(ctx context.Context, category cache.Category, id string, sc storedChallenge) error {
	payload, err := json.Marshal(sc)
	if err != nil {
		return fail(KindStorage, err)
	}
	if err := e.cache.Put(ctx, category, id, payload, challengeTTL); err != nil {
		return fail(KindStorage, err)
	}
	return nil
}

func (e *Engine) loadChallenge(ctx context.Context, category cache.Category, id string) (storedChallenge, error) {
	raw, ok, err := e.cache.Get(ctx, category, id)
	if err != nil {
		return storedChallenge{}, fail(KindStorage, err)
	}
	if !ok {
		return storedChallenge{}, fail(KindChallenge, fmt.Errorf("challenge %q not found or expired", id))
	}
	var sc storedChallenge
	if err := json.Unmarshal(raw, &sc); err != nil {
		return storedChallenge{}, fail(KindChallenge, err)
	}
	return sc, nil
}

// clientData is the parsed clientDataJSON shared by both ceremonies.
type clientData struct {
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
	Origin    string `json:"origin"`
}

func (e *Engine) parseAndCheckClientData(raw []byte, wantType string, wantChallenge []byte) (clientData, error) {
	var cd clientData
	if err := json.Unmarshal(raw, &cd); err != nil {
		return clientData{}, fail(KindClientData, fmt.Errorf("malformed client_data_json: %w", err))
	}
	if cd.Type != wantType {
		return clientData{}, fail(KindClientData, fmt.Errorf("client data type %q, want %q", cd.Type, wantType))
	}
	if cd.Origin != e.origin {
		return clientData{}, fail(KindClientData, fmt.Errorf("client data origin %q, want %q", cd.Origin, e.origin))
	}
	gotChallenge, err := crypto.B64URLDecode(cd.Challenge)
	if err != nil {
		return clientData{}, fail(KindClientData, fmt.Errorf("malformed challenge: %w", err))
	}
	if subtle.ConstantTimeCompare(gotChallenge, wantChallenge) != 1 {
		return clientData{}, fail(KindClientData, fmt.Errorf("challenge mismatch"))
	}
	return cd, nil
}

func (e *Engine) rpIDHash() [32]byte {
	return sha256.Sum256([]byte(e.rpID))
}

func randomID(n int) (string, error) {
	raw, err := crypto.Random(n)
	if err != nil {
		return "", fail(KindStorage, err)
	}
	return crypto.B64URLEncode(raw), nil
}

// RenameCredential updates a credential's display metadata post-registration
// (SPEC_FULL expansion, recovered from the original's update_credential_name).
// A credential that does not belong to userID is reported as NotFound.
func (e *Engine) RenameCredential(ctx context.Context, userID, credentialID, name, displayName string) error {
	creds, err := e.store.GetCredentialsBy(ctx, datastore.ByCredentialID(credentialID))
	if err != nil {
		return fail(KindStorage, err)
	}
	if len(creds) == 0 {
		return fail(KindNotFound, fmt.Errorf("credential %q not found", credentialID))
	}
	cred := creds[0]
	if cred.UserID != userID {
		return fail(KindNotFound, fmt.Errorf("credential %q does not belong to user %q", credentialID, userID))
	}
	cred.Name = name
	cred.DisplayName = displayName
	if _, err := e.store.UpsertCredential(ctx, cred); err != nil {
		return fail(KindStorage, err)
	}
	return nil
}
