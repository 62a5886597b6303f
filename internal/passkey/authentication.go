package passkey

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/cache"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/datastore"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/crypto"
)

// AuthenticationOptions is handed to the browser's
// navigator.credentials.get() call (spec §4.8).
type AuthenticationOptions struct {
	AuthID           string
	Challenge        string // base64url
	TimeoutMS        int64
	RPID             string
	AllowCredentials []CredentialDescriptor
	UserVerification string
}

// BeginAuthentication prepares an AuthenticationOptions. If username is
// non-empty, allowCredentials is populated from that user's registered
// credentials; otherwise it is left empty for discoverable/conditional UI
// (spec §4.8).
func (e *Engine) BeginAuthentication(ctx context.Context, username string) (AuthenticationOptions, error) {
	var allow []CredentialDescriptor
	if username != "" {
		user, err := e.coord.ResolveSelfServiceUser(ctx, username, "")
		if err != nil {
			return AuthenticationOptions{}, fail(KindStorage, err)
		}
		creds, err := e.store.GetCredentialsBy(ctx, datastore.ByCredUserID(user.ID))
		if err != nil {
			return AuthenticationOptions{}, fail(KindStorage, err)
		}
		allow = make([]CredentialDescriptor, 0, len(creds))
		for _, c := range creds {
			allow = append(allow, CredentialDescriptor{Type: "public-key", ID: c.CredentialID})
		}
	}

	challenge, err := crypto.Random(32)
	if err != nil {
		return AuthenticationOptions{}, fail(KindStorage, err)
	}
	authID, err := randomID(16)
	if err != nil {
		return AuthenticationOptions{}, err
	}
	if err := e.storeChallenge(ctx, cache.CategoryAuthChallenge, authID, storedChallenge{
		Challenge: challenge,
		Username:  username,
	}); err != nil {
		return AuthenticationOptions{}, err
	}

	return AuthenticationOptions{
		AuthID:           authID,
		Challenge:        crypto.B64URLEncode(challenge),
		TimeoutMS:        e.timeout.Milliseconds(),
		RPID:             e.rpID,
		AllowCredentials: allow,
		UserVerification: string(e.userVerification),
	}, nil
}

// AuthenticatorResponseInput is the browser's response to a
// navigator.credentials.get() call (spec §4.8).
type AuthenticatorResponseInput struct {
	AuthID            string
	CredentialID      string // base64url
	ClientDataJSON    []byte
	AuthenticatorData []byte
	Signature         []byte
	UserHandle        []byte // optional, per WebAuthn response.userHandle
}

// AuthenticationResult is what FinishAuthentication hands back to the HTTP
// layer: the bound user plus a session Set-Cookie.
type AuthenticationResult struct {
	User      datastore.User
	SetCookie string
}

// FinishAuthentication validates an assertion and, on success, creates a
// session for the credential's bound user, per spec §4.8's nine-step
// algorithm.
func (e *Engine) FinishAuthentication(ctx context.Context, in AuthenticatorResponseInput) (AuthenticationResult, error) {
	sc, err := e.loadChallenge(ctx, cache.CategoryAuthChallenge, in.AuthID)
	if err != nil {
		return AuthenticationResult{}, err
	}

	if _, err := e.parseAndCheckClientData(in.ClientDataJSON, "webauthn.get", sc.Challenge); err != nil {
		return AuthenticationResult{}, err
	}

	header, _, err := parseAuthDataHeader(in.AuthenticatorData)
	if err != nil {
		return AuthenticationResult{}, fail(KindAuthenticatorData, err)
	}
	wantHash := e.rpIDHash()
	if subtle.ConstantTimeCompare(header.RPIDHash[:], wantHash[:]) != 1 {
		return AuthenticationResult{}, fail(KindAuthenticatorData, fmt.Errorf("rp_id_hash mismatch"))
	}
	if !header.Flags.userPresent() {
		return AuthenticationResult{}, fail(KindAuthenticatorData, fmt.Errorf("user-present flag not set"))
	}
	if e.userVerification == "required" && !header.Flags.userVerified() {
		return AuthenticationResult{}, fail(KindAuthenticatorData, fmt.Errorf("user-verified flag not set"))
	}

	creds, err := e.store.GetCredentialsBy(ctx, datastore.ByCredentialID(in.CredentialID))
	if err != nil {
		return AuthenticationResult{}, fail(KindStorage, err)
	}
	if len(creds) == 0 {
		return AuthenticationResult{}, fail(KindAuthentication, fmt.Errorf("unknown credential"))
	}
	cred := creds[0]

	if len(in.UserHandle) > 0 {
		if subtle.ConstantTimeCompare(in.UserHandle, cred.UserHandle) != 1 {
			return AuthenticationResult{}, fail(KindAuthentication, fmt.Errorf("user_handle does not match stored credential"))
		}
	} else if header.Flags.backupEligible() {
		return AuthenticationResult{}, fail(KindAuthentication, fmt.Errorf("discoverable credential requires a user_handle"))
	}

	if header.Counter != 0 {
		if header.Counter <= cred.Counter {
			return AuthenticationResult{}, fail(KindPossibleClone, fmt.Errorf("counter did not advance: stored=%d received=%d", cred.Counter, header.Counter))
		}
		if err := e.store.UpdateCounter(ctx, cred.CredentialID, header.Counter); err != nil {
			return AuthenticationResult{}, fail(KindStorage, err)
		}
	}

	clientDataHash := sha256.Sum256(in.ClientDataJSON)
	signedData := append(append([]byte{}, in.AuthenticatorData...), clientDataHash[:]...)
	alg := cred.Algorithm
	if alg == 0 {
		alg = coseAlgES256 // pre-existing credentials predating the algorithm column
	}
	if err := verifySignatureForAlg(cred.PublicKey, alg, signedData, in.Signature); err != nil {
		return AuthenticationResult{}, fail(KindVerification, err)
	}

	user, err := e.store.GetUser(ctx, cred.UserID)
	if err != nil {
		return AuthenticationResult{}, fail(KindStorage, err)
	}

	_, setCookie, err := e.sessions.CreateSession(ctx, user.ID)
	if err != nil {
		return AuthenticationResult{}, fail(KindStorage, err)
	}

	if err := e.cache.Remove(ctx, cache.CategoryAuthChallenge, in.AuthID); err != nil {
		return AuthenticationResult{}, fail(KindStorage, err)
	}

	return AuthenticationResult{User: user, SetCookie: setCookie}, nil
}
