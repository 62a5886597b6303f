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

// BeginRegistration prepares a RegistrationOptions for either a self-service
// registration (username/displayName, no session) or a linking registration
// (sessionUserID set), per spec §4.8.
func (e *Engine) BeginRegistration(ctx context.Context, username, displayName, sessionUserID string) (RegistrationOptions, error) {
	var user datastore.User
	var err error
	if sessionUserID != "" {
		user, err = e.store.GetUser(ctx, sessionUserID)
		if err != nil {
			return RegistrationOptions{}, fail(KindStorage, err)
		}
	} else {
		user, err = e.coord.ResolveSelfServiceUser(ctx, username, displayName)
		if err != nil {
			return RegistrationOptions{}, fail(KindStorage, err)
		}
	}

	handle, err := e.coord.UserHandleFor(ctx, user.ID)
	if err != nil {
		return RegistrationOptions{}, fail(KindStorage, err)
	}

	existing, err := e.store.GetCredentialsBy(ctx, datastore.ByCredUserID(user.ID))
	if err != nil {
		return RegistrationOptions{}, fail(KindStorage, err)
	}
	exclude := make([]CredentialDescriptor, 0, len(existing))
	for _, c := range existing {
		exclude = append(exclude, CredentialDescriptor{Type: "public-key", ID: c.CredentialID})
	}

	challenge, err := crypto.Random(32)
	if err != nil {
		return RegistrationOptions{}, fail(KindStorage, err)
	}
	regiID, err := randomID(16)
	if err != nil {
		return RegistrationOptions{}, err
	}

	if err := e.storeChallenge(ctx, cache.CategoryRegiChallenge, regiID, storedChallenge{
		Challenge:   challenge,
		UserID:      user.ID,
		UserHandle:  handle,
		Username:    username,
		DisplayName: displayName,
	}); err != nil {
		return RegistrationOptions{}, err
	}

	residentKey := "preferred"
	if e.userVerification == "required" {
		residentKey = "required"
	}

	return RegistrationOptions{
		RegiID: regiID,
		RP:     RPEntity{ID: e.rpID, Name: e.rpName},
		User: UserEntity{
			ID:          handle,
			Name:        user.Account,
			DisplayName: user.Label,
		},
		Challenge: crypto.B64URLEncode(challenge),
		PubKeyCredParams: []PubKeyCredParam{
			{Type: "public-key", Alg: coseAlgES256},
			{Type: "public-key", Alg: coseAlgRS256},
		},
		TimeoutMS: e.timeout.Milliseconds(),
		AuthenticatorSelection: AuthenticatorSelection{
			ResidentKey:      residentKey,
			UserVerification: string(e.userVerification),
		},
		Attestation:        "direct",
		ExcludeCredentials: exclude,
	}, nil
}

// RegisterCredentialInput is the browser's response to a
// navigator.credentials.create() call (spec §4.8).
type RegisterCredentialInput struct {
	RegiID            string
	CredentialID      string // base64url, as reported by the client
	ClientDataJSON    []byte
	AttestationObject []byte
}

// FinishRegistration validates and persists a newly created credential, per
// spec §4.8's nine-step algorithm.
func (e *Engine) FinishRegistration(ctx context.Context, in RegisterCredentialInput) (datastore.User, error) {
	sc, err := e.loadChallenge(ctx, cache.CategoryRegiChallenge, in.RegiID)
	if err != nil {
		return datastore.User{}, err
	}

	if _, err := e.parseAndCheckClientData(in.ClientDataJSON, "webauthn.create", sc.Challenge); err != nil {
		return datastore.User{}, err
	}

	format, authData, attStmt, err := parseAttestationObject(in.AttestationObject)
	if err != nil {
		return datastore.User{}, fail(KindFormat, err)
	}

	header, rest, err := parseAuthDataHeader(authData)
	if err != nil {
		return datastore.User{}, fail(KindAuthenticatorData, err)
	}
	wantHash := e.rpIDHash()
	if subtle.ConstantTimeCompare(header.RPIDHash[:], wantHash[:]) != 1 {
		return datastore.User{}, fail(KindAuthenticatorData, fmt.Errorf("rp_id_hash mismatch"))
	}
	if !header.Flags.userPresent() {
		return datastore.User{}, fail(KindAuthenticatorData, fmt.Errorf("user-present flag not set"))
	}
	if e.userVerification == "required" && !header.Flags.userVerified() {
		return datastore.User{}, fail(KindAuthenticatorData, fmt.Errorf("user-verified flag not set"))
	}
	if !header.Flags.attestedCredentialData() {
		return datastore.User{}, fail(KindAuthenticatorData, fmt.Errorf("attested-credential-data flag not set"))
	}

	cd, err := parseAttestedCredentialData(rest)
	if err != nil {
		return datastore.User{}, fail(KindAuthenticatorData, err)
	}

	switch format {
	case "none":
		// No attestation trust to verify.
	case "packed":
		clientDataHash := sha256.Sum256(in.ClientDataJSON)
		signedData := append(append([]byte{}, authData...), clientDataHash[:]...)
		if err := verifyPackedSelfAttestation(attStmt, cd.PublicKeySPKI, cd.Algorithm, signedData); err != nil {
			return datastore.User{}, fail(KindVerification, err)
		}
	default:
		return datastore.User{}, fail(KindUnsupportedAttestation, fmt.Errorf("attestation format %q is not supported", format))
	}

	credentialID := crypto.B64URLEncode(cd.CredentialID)
	if in.CredentialID != "" && in.CredentialID != credentialID {
		return datastore.User{}, fail(KindAuthenticatorData, fmt.Errorf("credential id mismatch between authData and response"))
	}

	cred := datastore.PasskeyCredential{
		CredentialID: credentialID,
		UserID:       sc.UserID,
		PublicKey:    cd.PublicKeySPKI,
		Algorithm:    cd.Algorithm,
		Counter:      header.Counter,
		UserHandle:   sc.UserHandle,
		AAGUID:       aaguidString(cd.AAGUID),
	}
	if _, err := e.store.UpsertCredential(ctx, cred); err != nil {
		return datastore.User{}, fail(KindStorage, err)
	}

	if err := e.cache.Remove(ctx, cache.CategoryRegiChallenge, in.RegiID); err != nil {
		return datastore.User{}, fail(KindStorage, err)
	}

	return e.store.GetUser(ctx, sc.UserID)
}
