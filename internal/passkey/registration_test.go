package passkey

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/binary"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/cache"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/config"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/coordination"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/datastore"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/session"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/crypto"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/log"
)

// --- tiny test-only CBOR encoder, the mirror image of internal/passkey/cbor ---

func cborUint(n uint64) []byte  { return cborArg(0, n) }
func cborBytes(b []byte) []byte { return append(cborArg(2, uint64(len(b))), b...) }
func cborText(s string) []byte  { return append(cborArg(3, uint64(len(s))), []byte(s)...) }

func cborArg(major byte, n uint64) []byte {
	switch {
	case n < 24:
		return []byte{major<<5 | byte(n)}
	case n <= 0xff:
		return []byte{major<<5 | 24, byte(n)}
	case n <= 0xffff:
		b := make([]byte, 3)
		b[0] = major<<5 | 25
		binary.BigEndian.PutUint16(b[1:], uint16(n))
		return b
	default:
		b := make([]byte, 5)
		b[0] = major<<5 | 26
		binary.BigEndian.PutUint32(b[1:], uint32(n))
		return b
	}
}

func cborMapHeader(n int) []byte { return cborArg(5, uint64(n)) }

// cborEC2PublicKey encodes a COSE EC2/ES256 public key map:
// {1: 2, 3: -7, -1: 1, -2: x, -3: y}.
func cborEC2PublicKey(pub *ecdsa.PublicKey) []byte {
	x := pub.X.Bytes()
	y := pub.Y.Bytes()
	for len(x) < 32 {
		x = append([]byte{0}, x...)
	}
	for len(y) < 32 {
		y = append([]byte{0}, y...)
	}
	var out []byte
	out = append(out, cborMapHeader(5)...)
	out = append(out, cborUint(1)...)
	out = append(out, cborUint(2)...) // kty = EC2
	out = append(out, cborUint(3)...)
	out = append(out, cborNegInt(7)...) // alg = -7
	out = append(out, cborNegInt(1)...) // key -1
	out = append(out, cborUint(1)...)   // crv = P-256
	out = append(out, cborNegInt(2)...) // key -2
	out = append(out, cborBytes(x)...)
	out = append(out, cborNegInt(3)...) // key -3
	out = append(out, cborBytes(y)...)
	return out
}

func cborNegInt(abs uint64) []byte {
	// CBOR major type 1 encodes -(n+1) as argument n.
	return cborArg(1, abs-1)
}

func buildAttestedAuthData(rpID string, flagByte byte, counter uint32, aaguid [16]byte, credID []byte, pub *ecdsa.PublicKey) []byte {
	hash := sha256.Sum256([]byte(rpID))
	out := append([]byte{}, hash[:]...)
	out = append(out, flagByte)
	ctr := make([]byte, 4)
	binary.BigEndian.PutUint32(ctr, counter)
	out = append(out, ctr...)
	out = append(out, aaguid[:]...)
	credLen := make([]byte, 2)
	binary.BigEndian.PutUint16(credLen, uint16(len(credID)))
	out = append(out, credLen...)
	out = append(out, credID...)
	out = append(out, cborEC2PublicKey(pub)...)
	return out
}

func buildNoneAttestationObject(authData []byte) []byte {
	var out []byte
	out = append(out, cborMapHeader(3)...)
	out = append(out, cborText("fmt")...)
	out = append(out, cborText("none")...)
	out = append(out, cborText("authData")...)
	out = append(out, cborBytes(authData)...)
	out = append(out, cborText("attStmt")...)
	out = append(out, cborMapHeader(0)...)
	return out
}

type regTestHarness struct {
	engine *Engine
	store  datastore.Store
	cache  cache.Store
}

func newRegTestHarness(t *testing.T) regTestHarness {
	t.Helper()
	store, err := datastore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	memCache := cache.NewMemory(log.Nop())
	t.Cleanup(func() { memCache.Close() })

	sessions := session.NewManager(memCache, store, time.Hour, log.Nop())
	coord := coordination.New(store, log.Nop())
	cfg := config.PasskeyConfig{
		RPID:             testRPID,
		RPName:           "Example",
		UserVerification: config.UserVerificationPreferred,
		Timeout:          60 * time.Second,
	}
	engine := New(memCache, store, coord, sessions, cfg, testOrigin, log.Nop())
	return regTestHarness{engine: engine, store: store, cache: memCache}
}

func TestRegistrationRoundTripWithNoneAttestation(t *testing.T) {
	h := newRegTestHarness(t)
	ctx := context.Background()

	opts, err := h.engine.BeginRegistration(ctx, "bob", "Bob", "")
	require.NoError(t, err)
	require.NotEmpty(t, opts.RegiID)

	challenge, err := crypto.B64URLDecode(opts.Challenge)
	require.NoError(t, err)

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	var aaguid [16]byte
	credID := []byte("credential-id-bytes")
	authData := buildAttestedAuthData(testRPID, 1<<0|1<<6, 1, aaguid, credID, &priv.PublicKey)
	attObj := buildNoneAttestationObject(authData)

	cd := clientData{Type: "webauthn.create", Challenge: crypto.B64URLEncode(challenge), Origin: testOrigin}
	cdJSON, err := json.Marshal(cd)
	require.NoError(t, err)

	user, err := h.engine.FinishRegistration(ctx, RegisterCredentialInput{
		RegiID:            opts.RegiID,
		CredentialID:      crypto.B64URLEncode(credID),
		ClientDataJSON:    cdJSON,
		AttestationObject: attObj,
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Account)

	creds, err := h.store.GetCredentialsBy(ctx, datastore.ByCredUserID(user.ID))
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, crypto.B64URLEncode(credID), creds[0].CredentialID)
	assert.EqualValues(t, coseAlgES256, creds[0].Algorithm)

	// SPKI round-trips to the same public key.
	pub, err := x509.ParsePKIXPublicKey(creds[0].PublicKey)
	require.NoError(t, err)
	ecPub, ok := pub.(*ecdsa.PublicKey)
	require.True(t, ok)
	assert.Equal(t, priv.PublicKey.X, ecPub.X)

	// The challenge is single-use: a second Finish on the same regi_id fails.
	_, err = h.engine.FinishRegistration(ctx, RegisterCredentialInput{
		RegiID:            opts.RegiID,
		CredentialID:      crypto.B64URLEncode(credID),
		ClientDataJSON:    cdJSON,
		AttestationObject: attObj,
	})
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindChallenge, perr.Kind)
}

func TestRegistrationRejectsWrongOrigin(t *testing.T) {
	h := newRegTestHarness(t)
	ctx := context.Background()

	opts, err := h.engine.BeginRegistration(ctx, "carol", "Carol", "")
	require.NoError(t, err)
	challenge, err := crypto.B64URLDecode(opts.Challenge)
	require.NoError(t, err)

	cd := clientData{Type: "webauthn.create", Challenge: crypto.B64URLEncode(challenge), Origin: "https://evil.example.com"}
	cdJSON, err := json.Marshal(cd)
	require.NoError(t, err)

	_, err = h.engine.FinishRegistration(ctx, RegisterCredentialInput{
		RegiID:            opts.RegiID,
		ClientDataJSON:    cdJSON,
		AttestationObject: []byte{},
	})
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindClientData, perr.Kind)
}

func TestRenameCredential(t *testing.T) {
	h := newRegTestHarness(t)
	ctx := context.Background()

	user, err := h.store.UpsertUser(ctx, datastore.User{ID: "user-9", Account: "dora@example.com"})
	require.NoError(t, err)
	_, err = h.store.UpsertCredential(ctx, datastore.PasskeyCredential{
		CredentialID: "cred-9", UserID: user.ID, PublicKey: []byte("pk"), Algorithm: coseAlgES256, UserHandle: []byte("h"),
	})
	require.NoError(t, err)

	require.NoError(t, h.engine.RenameCredential(ctx, user.ID, "cred-9", "YubiKey", "My Yubikey"))

	creds, err := h.store.GetCredentialsBy(ctx, datastore.ByCredentialID("cred-9"))
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "YubiKey", creds[0].Name)
	assert.Equal(t, "My Yubikey", creds[0].DisplayName)
}

func TestRenameCredentialRejectsWrongOwner(t *testing.T) {
	h := newRegTestHarness(t)
	ctx := context.Background()

	owner, err := h.store.UpsertUser(ctx, datastore.User{ID: "user-owner", Account: "owner@example.com"})
	require.NoError(t, err)
	_, err = h.store.UpsertCredential(ctx, datastore.PasskeyCredential{
		CredentialID: "cred-10", UserID: owner.ID, PublicKey: []byte("pk"), Algorithm: coseAlgES256, UserHandle: []byte("h"),
	})
	require.NoError(t, err)

	err = h.engine.RenameCredential(ctx, "someone-else", "cred-10", "x", "y")
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindNotFound, perr.Kind)
}
