package jwtverify

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	jose "gopkg.in/square/go-jose.v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/log"
)

const testClientID = "client-123"
const testIssuer = "https://idp.example.com"

type testClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Nonce string `json:"nonce"`
}

func baseClaims() testClaims {
	now := time.Now()
	return testClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   "sub-1",
			Audience:  jwt.ClaimStrings{testClientID},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: "alice@example.com",
		Nonce: "nonce-value",
	}
}

func startJWKSServer(t *testing.T, keys jose.JSONWebKeySet) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(keys))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVerifyRS256(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, baseClaims())
	token.Header["kid"] = "rsa-key-1"
	signed, err := token.SignedString(priv)
	require.NoError(t, err)

	jwks := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
		{Key: &priv.PublicKey, KeyID: "rsa-key-1", Algorithm: "RS256", Use: "sig"},
	}}
	srv := startJWKSServer(t, jwks)

	v := NewVerifier([]IssuerConfig{{Issuer: testIssuer, JWKSURI: srv.URL, ClientID: testClientID}}, log.Nop())
	info, err := v.Verify(context.Background(), signed, testClientID)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", info.Sub)
	assert.Equal(t, "alice@example.com", info.Email)
	assert.Equal(t, "nonce-value", info.Nonce)
}

func TestVerifyES256(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	token := jwt.NewWithClaims(jwt.SigningMethodES256, baseClaims())
	token.Header["kid"] = "ec-key-1"
	signed, err := token.SignedString(priv)
	require.NoError(t, err)

	jwks := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
		{Key: &priv.PublicKey, KeyID: "ec-key-1", Algorithm: "ES256", Use: "sig"},
	}}
	srv := startJWKSServer(t, jwks)

	v := NewVerifier([]IssuerConfig{{Issuer: testIssuer, JWKSURI: srv.URL, ClientID: testClientID}}, log.Nop())
	info, err := v.Verify(context.Background(), signed, testClientID)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", info.Sub)
}

func TestVerifyRejectsBadAudience(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	claims := baseClaims()
	claims.Audience = jwt.ClaimStrings{"someone-else"}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = "rsa-key-1"
	signed, err := token.SignedString(priv)
	require.NoError(t, err)

	jwks := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
		{Key: &priv.PublicKey, KeyID: "rsa-key-1"},
	}}
	srv := startJWKSServer(t, jwks)

	v := NewVerifier([]IssuerConfig{{Issuer: testIssuer, JWKSURI: srv.URL, ClientID: testClientID}}, log.Nop())
	_, err = v.Verify(context.Background(), signed, testClientID)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindBadAudience, verr.Kind)
}

func TestVerifyRejectsExpired(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	claims := baseClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = "rsa-key-1"
	signed, err := token.SignedString(priv)
	require.NoError(t, err)

	jwks := jose.JSONWebKeySet{Keys: []jose.JSONWebKey{
		{Key: &priv.PublicKey, KeyID: "rsa-key-1"},
	}}
	srv := startJWKSServer(t, jwks)

	v := NewVerifier([]IssuerConfig{{Issuer: testIssuer, JWKSURI: srv.URL, ClientID: testClientID}}, log.Nop())
	_, err = v.Verify(context.Background(), signed, testClientID)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindExpired, verr.Kind)
}

func TestVerifyRejectsUnsupportedAlg(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, baseClaims())
	signed, err := token.SignedString(secret)
	require.NoError(t, err)

	v := NewVerifier([]IssuerConfig{{Issuer: testIssuer, JWKSURI: "http://unused.invalid", ClientID: testClientID}}, log.Nop())
	_, err = v.Verify(context.Background(), signed, testClientID)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindBadAlg, verr.Kind)
}
