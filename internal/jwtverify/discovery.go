package jwtverify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	oidc "github.com/coreos/go-oidc"
)

// DiscoverIssuer resolves an IssuerConfig by fetching the issuer's OIDC
// discovery document and reading jwks_uri from it, rather than requiring
// callers to hardcode a JWKS endpoint. This delegates to
// coreos/go-oidc.NewProvider — the same dependency the teacher's
// connector/oidc calls for this — for the discovery fetch and issuer-match
// check; only the ID-token signature verification itself is kept routed
// through pkg/crypto (spec §4.2), since that routing, not the discovery
// fetch, is what the spec requires C1 to own.
func DiscoverIssuer(ctx context.Context, httpClient *http.Client, issuer, clientID string) (IssuerConfig, error) {
	if httpClient != nil {
		ctx = oidc.ClientContext(ctx, httpClient)
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		if strings.Contains(err.Error(), "issuer did not match") {
			return IssuerConfig{}, fail(KindBadIssuer, err)
		}
		return IssuerConfig{}, fail(KindJwksUnavailable, err)
	}

	var claims struct {
		JWKSURI string `json:"jwks_uri"`
	}
	if err := provider.Claims(&claims); err != nil {
		return IssuerConfig{}, fail(KindJwksUnavailable, fmt.Errorf("decode discovery claims: %w", err))
	}
	if claims.JWKSURI == "" {
		return IssuerConfig{}, fail(KindJwksUnavailable, fmt.Errorf("discovery document has no jwks_uri"))
	}

	return IssuerConfig{Issuer: issuer, JWKSURI: claims.JWKSURI, ClientID: clientID}, nil
}
