// Package config loads the engine's environment-driven configuration once
// at process start, per spec §6 and §5's "Resource policy": origin, RP ID,
// and accepted issuers are read once and never mutated thereafter.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// UserVerification mirrors PASSKEY_USER_VERIFICATION.
type UserVerification string

const (
	UserVerificationRequired   UserVerification = "required"
	UserVerificationPreferred  UserVerification = "preferred"
	UserVerificationDiscourage UserVerification = "discouraged"
)

// OAuth2ProviderConfig holds one OIDC relying-party registration.
type OAuth2ProviderConfig struct {
	Name         string
	ClientID     string
	ClientSecret string
	Issuer       string // used to resolve the discovery document / jwks_uri
}

// PasskeyConfig mirrors the PASSKEY_* environment variables.
type PasskeyConfig struct {
	RPID               string
	RPName             string
	UserVerification   UserVerification
	ChallengeTimeout   time.Duration
	Timeout            time.Duration
}

// DataStoreConfig mirrors GENERIC_DATA_STORE_*.
type DataStoreConfig struct {
	Type string // "sqlite" | "postgres"
	URL  string
}

// CacheStoreConfig mirrors GENERIC_CACHE_STORE_*.
type CacheStoreConfig struct {
	Type string // "memory" | "redis"
	URL  string
}

// Config is the engine's immutable, process-wide configuration.
type Config struct {
	Origin                string
	ServerSecret          []byte
	UseContextTokenCookie bool
	RedirectURI           string
	OAuth2Providers       map[string]OAuth2ProviderConfig
	Passkey               PasskeyConfig
	DataStore             DataStoreConfig
	CacheStore            CacheStoreConfig
}

// Load reads the environment once and validates it. It never mutates
// package-level state; callers own the returned Config and are expected to
// pass it down to component constructors explicitly.
func Load() (*Config, error) {
	origin := os.Getenv("ORIGIN")
	if origin == "" {
		return nil, fmt.Errorf("config: ORIGIN is required")
	}

	secret := os.Getenv("AUTH_SERVER_SECRET")
	if len(secret) < 32 {
		return nil, fmt.Errorf("config: AUTH_SERVER_SECRET must be at least 32 bytes")
	}

	cfg := &Config{
		Origin:                strings.TrimRight(origin, "/"),
		ServerSecret:          []byte(secret),
		UseContextTokenCookie: envPresent("USE_CONTEXT_TOKEN_COOKIE"),
		RedirectURI:           os.Getenv("OAUTH2_REDIRECT_URI"),
		OAuth2Providers:       map[string]OAuth2ProviderConfig{},
	}

	if clientID := os.Getenv("OAUTH2_GOOGLE_CLIENT_ID"); clientID != "" {
		cfg.OAuth2Providers["google"] = OAuth2ProviderConfig{
			Name:         "google",
			ClientID:     clientID,
			ClientSecret: os.Getenv("OAUTH2_GOOGLE_CLIENT_SECRET"),
			Issuer:       "https://accounts.google.com",
		}
	}

	uv := UserVerification(envOr("PASSKEY_USER_VERIFICATION", string(UserVerificationPreferred)))
	challengeTimeout, err := envDurationSeconds("PASSKEY_CHALLENGE_TIMEOUT", 300)
	if err != nil {
		return nil, err
	}
	timeout, err := envDurationSeconds("PASSKEY_TIMEOUT", 60)
	if err != nil {
		return nil, err
	}
	cfg.Passkey = PasskeyConfig{
		RPID:             envOr("PASSKEY_RP_ID", mustHost(cfg.Origin)),
		RPName:           envOr("PASSKEY_RP_NAME", "oauth2-passkey-go"),
		UserVerification: uv,
		ChallengeTimeout: challengeTimeout,
		Timeout:          timeout,
	}

	cfg.DataStore = DataStoreConfig{
		Type: envOr("GENERIC_DATA_STORE_TYPE", "sqlite"),
		URL:  os.Getenv("GENERIC_DATA_STORE_URL"),
	}
	cfg.CacheStore = CacheStoreConfig{
		Type: envOr("GENERIC_CACHE_STORE_TYPE", "memory"),
		URL:  os.Getenv("GENERIC_CACHE_STORE_URL"),
	}

	return cfg, nil
}

func envPresent(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDurationSeconds(key string, def int) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(def) * time.Second, nil
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return time.Duration(secs) * time.Second, nil
}

func mustHost(origin string) string {
	// strip scheme
	if i := strings.Index(origin, "://"); i >= 0 {
		origin = origin[i+3:]
	}
	if i := strings.IndexByte(origin, ':'); i >= 0 {
		origin = origin[:i]
	}
	return origin
}
