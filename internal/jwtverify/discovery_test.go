package jwtverify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startDiscoveryServer serves a discovery document whose "issuer" field is
// computed from the server's own URL, since the real issuer string isn't
// known until httptest.NewServer assigns a port. issuerOverride, if
// non-empty, is used verbatim instead (to exercise the mismatch case).
func startDiscoveryServer(t *testing.T, issuerOverride, jwksURI string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		issuer := issuerOverride
		if issuer == "" {
			issuer = srv.URL
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"issuer":"` + issuer + `","jwks_uri":"` + jwksURI + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDiscoverIssuerResolvesJWKSURI(t *testing.T) {
	srv := startDiscoveryServer(t, "", "https://idp.example.com/jwks")
	defer srv.Close()

	cfg, err := DiscoverIssuer(context.Background(), srv.Client(), srv.URL, testClientID)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, cfg.Issuer)
	assert.Equal(t, "https://idp.example.com/jwks", cfg.JWKSURI)
	assert.Equal(t, testClientID, cfg.ClientID)
}

func TestDiscoverIssuerRejectsIssuerMismatch(t *testing.T) {
	srv := startDiscoveryServer(t, "https://someone-else.example.com", "https://idp.example.com/jwks")
	defer srv.Close()

	_, err := DiscoverIssuer(context.Background(), srv.Client(), srv.URL, testClientID)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindBadIssuer, verr.Kind)
}

func TestDiscoverIssuerRejectsMissingJWKSURI(t *testing.T) {
	srv := startDiscoveryServer(t, "", "")
	defer srv.Close()

	_, err := DiscoverIssuer(context.Background(), srv.Client(), srv.URL, testClientID)
	require.Error(t, err)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindJwksUnavailable, verr.Kind)
}
