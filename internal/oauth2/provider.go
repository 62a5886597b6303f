package oauth2

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	xoauth2 "golang.org/x/oauth2"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/config"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/crypto"
)

// userInfoEndpoints maps a provider name to its OIDC userinfo endpoint.
// Hardcoded per provider, the way the teacher's connector/oidc resolves
// discovery documents ahead of time rather than fetching them per-request.
var userInfoEndpoints = map[string]string{
	"google": "https://openidconnect.googleapis.com/v1/userinfo",
}

// authEndpoints and tokenEndpoints mirror the well-known OIDC discovery
// values for the providers this engine ships support for (spec §6 only
// names Google). Additional providers are added here, not by fetching
// discovery documents at request time, per spec §5's "read once at
// startup" resource policy.
var (
	authEndpoints = map[string]string{
		"google": "https://accounts.google.com/o/oauth2/v2/auth",
	}
	tokenEndpoints = map[string]string{
		"google": "https://oauth2.googleapis.com/token",
	}
)

// UserInfo is the subset of the provider's userinfo response this engine
// consumes (spec §4.7 step 7).
type UserInfo struct {
	ID      string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// TokenExchanger abstracts the provider token-endpoint exchange and
// userinfo fetch so oauth2_test.go can stub network calls, grounded on the
// teacher's connector.Connector interface boundary (dex keeps provider I/O
// behind an interface for the same reason).
type TokenExchanger interface {
	Exchange(ctx context.Context, p config.OAuth2ProviderConfig, code, codeVerifier, redirectURI string) (accessToken, idToken string, err error)
	FetchUserInfo(ctx context.Context, p config.OAuth2ProviderConfig, accessToken string) (UserInfo, error)
}

// httpExchanger is the production TokenExchanger, built on
// golang.org/x/oauth2 for the authorization-code exchange.
type httpExchanger struct {
	httpClient *http.Client
}

// NewHTTPExchanger builds the production TokenExchanger.
func NewHTTPExchanger(httpClient *http.Client) TokenExchanger {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &httpExchanger{httpClient: httpClient}
}

func (e *httpExchanger) oauth2Config(p config.OAuth2ProviderConfig, redirectURI string) *xoauth2.Config {
	return &xoauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RedirectURL:  redirectURI,
		Endpoint: xoauth2.Endpoint{
			AuthURL:  authEndpoints[p.Name],
			TokenURL: tokenEndpoints[p.Name],
		},
		Scopes: []string{"openid", "email", "profile"},
	}
}

func (e *httpExchanger) Exchange(ctx context.Context, p config.OAuth2ProviderConfig, code, codeVerifier, redirectURI string) (string, string, error) {
	ctx = context.WithValue(ctx, xoauth2.HTTPClient, e.httpClient)
	tok, err := e.oauth2Config(p, redirectURI).Exchange(ctx, code,
		xoauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		return "", "", fail(KindPkceExchangeFailed, err)
	}
	idToken, ok := tok.Extra("id_token").(string)
	if !ok || idToken == "" {
		return "", "", fail(KindPkceExchangeFailed, fmt.Errorf("token response missing id_token"))
	}
	return tok.AccessToken, idToken, nil
}

func (e *httpExchanger) FetchUserInfo(ctx context.Context, p config.OAuth2ProviderConfig, accessToken string) (UserInfo, error) {
	endpoint, ok := userInfoEndpoints[p.Name]
	if !ok {
		return UserInfo{}, fail(KindInternal, fmt.Errorf("no userinfo endpoint for provider %q", p.Name))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return UserInfo{}, fail(KindInternal, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return UserInfo{}, fail(KindUserInfoMismatch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return UserInfo{}, fail(KindUserInfoMismatch, fmt.Errorf("userinfo: unexpected status %d", resp.StatusCode))
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return UserInfo{}, fail(KindUserInfoMismatch, fmt.Errorf("userinfo decode: %w", err))
	}
	return info, nil
}

// generatePKCE returns a random verifier and its S256 challenge, per spec
// §4.7 step 3.
func generatePKCE() (verifier, challenge string, err error) {
	raw, err := crypto.Random(32)
	if err != nil {
		return "", "", err
	}
	verifier = crypto.B64URLEncode(raw)
	challenge = crypto.B64URLEncode(crypto.SHA256([]byte(verifier)))
	return verifier, challenge, nil
}
