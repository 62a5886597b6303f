package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomLength(t *testing.T) {
	b, err := Random(32)
	require.NoError(t, err)
	assert.Len(t, b, 32)

	b2, err := Random(32)
	require.NoError(t, err)
	assert.NotEqual(t, b, b2)
}

func TestB64URLRoundTrip(t *testing.T) {
	b, err := Random(24)
	require.NoError(t, err)
	s := B64URLEncode(b)
	assert.NotContains(t, s, "=")
	decoded, err := B64URLDecode(s)
	require.NoError(t, err)
	assert.Equal(t, b, decoded)
}

func TestHMACVerify(t *testing.T) {
	key := []byte("secret-key")
	msg := []byte("hello world")
	mac := HMACSHA256(key, msg)
	assert.True(t, VerifyHMACSHA256(key, msg, mac))
	assert.False(t, VerifyHMACSHA256(key, []byte("tampered"), mac))
}

func TestECDSAP256VerifyRoundTrip(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	spki, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	msg := []byte("assertion payload")
	digest := SHA256(msg)
	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest)
	require.NoError(t, err)

	require.NoError(t, ECDSAP256Verify(spki, msg, sig))
	assert.Error(t, ECDSAP256Verify(spki, []byte("other payload"), sig))
}

func TestRSAVerifyPKCS1SHA256RoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	spki, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	msg := []byte("id-token-signing-input")
	digest := SHA256(msg)
	sig, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest)
	require.NoError(t, err)

	require.NoError(t, RSAVerifyPKCS1SHA256(spki, msg, sig))
	assert.Error(t, RSAVerifyPKCS1SHA256(spki, []byte("different"), sig))
}
