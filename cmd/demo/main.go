// Command demo wires every engine package into a minimal HTTP server. It is
// not a normative part of the specification — a reference assembly showing
// the order components must be constructed in (config, then cache and
// datastore, then the engines that depend on them), grounded on the
// teacher's cmd/dex serve.go: a cobra command building one oklog/run group
// so the HTTP listener and its shutdown share a lifecycle.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/cache"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/config"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/contexttoken"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/coordination"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/datastore"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/jwtverify"
	apioauth2 "github.com/ktaka-ccmp/oauth2-passkey-go/internal/oauth2"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/passkey"
	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/session"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/log"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logrus.WithError(err).Fatal("demo: exiting")
	}
}

func newRootCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the oauth2-passkey-go reference server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "web-http-addr", ":5556", "HTTP listen address")
	return cmd
}

// engines bundles the constructed components an HTTP handler needs. It
// exists only so handlers below can close over one value instead of seven.
type engines struct {
	sessions  *session.Manager
	coord     *coordination.Coordinator
	oauth2    *apioauth2.Engine
	passkeys  *passkey.Engine
	ctxTokens *contexttoken.Signer
	store     datastore.Store
	cacheStr  cache.Store
}

func runServe(addr string) error {
	logger := log.NewLogger(logrus.InfoLevel, false)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	cacheStore, err := cache.New(cfg.CacheStore, logger)
	if err != nil {
		return err
	}
	store, err := datastore.New(cfg.DataStore.Type, cfg.DataStore.URL)
	if err != nil {
		return err
	}

	issuers := make([]jwtverify.IssuerConfig, 0, len(cfg.OAuth2Providers))
	for _, p := range cfg.OAuth2Providers {
		issCfg, err := jwtverify.DiscoverIssuer(context.Background(), nil, p.Issuer, p.ClientID)
		if err != nil {
			return fmt.Errorf("discover issuer %q: %w", p.Issuer, err)
		}
		issuers = append(issuers, issCfg)
	}
	verifier := jwtverify.NewVerifier(issuers, logger)

	sessions := session.NewManager(cacheStore, store, 10*time.Minute, logger)
	coord := coordination.New(store, logger)
	oauth2Engine := apioauth2.New(
		cfg.OAuth2Providers,
		cfg.Origin,
		cfg.RedirectURI,
		cacheStore,
		verifier,
		apioauth2.NewHTTPExchanger(nil),
		sessions,
		coord,
		logger,
	)
	passkeyEngine := passkey.New(cacheStore, store, coord, sessions, cfg.Passkey, cfg.Origin, logger)
	ctxTokens := contexttoken.NewSigner(cfg.ServerSecret, cfg.UseContextTokenCookie)

	e := &engines{
		sessions:  sessions,
		coord:     coord,
		oauth2:    oauth2Engine,
		passkeys:  passkeyEngine,
		ctxTokens: ctxTokens,
		store:     store,
		cacheStr:  cacheStore,
	}

	mux := http.NewServeMux()
	e.registerRoutes(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	var g run.Group
	{
		ctx, cancel := context.WithCancel(context.Background())
		g.Add(func() error {
			<-ctx.Done()
			return ctx.Err()
		}, func(error) { cancel() })
	}
	{
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		g.Add(func() error {
			<-sigCh
			return nil
		}, func(error) {
			signal.Stop(sigCh)
			close(sigCh)
		})
	}
	g.Add(func() error {
		logger.Infof("demo: listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = store.Close()
		_ = cacheStore.Close()
	})

	return g.Run()
}

func (e *engines) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/auth/oauth2/google/begin", e.handleOAuth2Begin)
	mux.HandleFunc("/auth/oauth2/google/callback", e.handleOAuth2Callback)
	mux.HandleFunc("/auth/passkey/register/begin", e.handlePasskeyRegisterBegin)
	mux.HandleFunc("/auth/passkey/register/finish", e.handlePasskeyRegisterFinish)
	mux.HandleFunc("/auth/passkey/login/begin", e.handlePasskeyLoginBegin)
	mux.HandleFunc("/auth/passkey/login/finish", e.handlePasskeyLoginFinish)
	mux.HandleFunc("/auth/logout", e.handleLogout)
	mux.HandleFunc("/me", e.handleMe)
}

func (e *engines) handleOAuth2Begin(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromCookie(r)
	res, err := e.oauth2.Begin(r.Context(), "google", r.Header.Get("Origin"), sessionID, r.UserAgent())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if res.SetCookie != "" {
		w.Header().Add("Set-Cookie", res.SetCookie)
	}
	http.Redirect(w, r, res.AuthorizationURL, http.StatusFound)
}

func (e *engines) handleOAuth2Callback(w http.ResponseWriter, r *http.Request) {
	csrfCookieID := ""
	if c, err := r.Cookie(apioauth2.CSRFCookieName); err == nil {
		csrfCookieID = c.Value
	}
	sessionID, _ := sessionIDFromCookie(r)

	res, err := e.oauth2.Finish(r.Context(), apioauth2.FinishInput{
		Provider:       "google",
		Code:           r.URL.Query().Get("code"),
		State:          r.URL.Query().Get("state"),
		GETMode:        true,
		CSRFCookieID:   csrfCookieID,
		UserAgent:      r.UserAgent(),
		CurrentSession: sessionID,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	for _, c := range res.SetCookies {
		w.Header().Add("Set-Cookie", c)
	}
	if cookie := e.ctxTokens.CookieFor(res.User.User.ID); cookie != "" {
		w.Header().Add("Set-Cookie", cookie)
	}
	writeJSON(w, http.StatusOK, map[string]string{"user_id": res.User.User.ID})
}

func (e *engines) handlePasskeyRegisterBegin(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromCookie(r)
	var existingUserID string
	if sessionID != "" {
		if u, err := e.sessions.GetUserFromSession(r.Context(), sessionID); err == nil {
			existingUserID = u.ID
		}
	}
	var body struct{ Username, DisplayName string }
	_ = json.NewDecoder(r.Body).Decode(&body)

	opts, err := e.passkeys.BeginRegistration(r.Context(), body.Username, body.DisplayName, existingUserID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (e *engines) handlePasskeyRegisterFinish(w http.ResponseWriter, r *http.Request) {
	var in passkey.RegisterCredentialInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	user, err := e.passkeys.FinishRegistration(r.Context(), in)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"user_id": user.ID})
}

func (e *engines) handlePasskeyLoginBegin(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	opts, err := e.passkeys.BeginAuthentication(r.Context(), username)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (e *engines) handlePasskeyLoginFinish(w http.ResponseWriter, r *http.Request) {
	var in passkey.AuthenticatorResponseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	res, err := e.passkeys.FinishAuthentication(r.Context(), in)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if res.SetCookie != "" {
		w.Header().Add("Set-Cookie", res.SetCookie)
	}
	writeJSON(w, http.StatusOK, map[string]string{"user_id": res.User.ID})
}

func (e *engines) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := sessionIDFromCookie(r)
	clearCookie, err := e.sessions.PrepareLogoutResponse(r.Context(), sessionID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	w.Header().Add("Set-Cookie", clearCookie)
	w.WriteHeader(http.StatusNoContent)
}

func (e *engines) handleMe(w http.ResponseWriter, r *http.Request) {
	sessionID, err := sessionIDFromCookie(r)
	if err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	user, err := e.sessions.GetUserFromSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func sessionIDFromCookie(r *http.Request) (string, error) {
	c, err := r.Cookie(session.CookieName)
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeEngineError maps the engine packages' typed errors to a status code.
// A production HTTP layer would switch on each package's Kind; this demo
// collapses everything to 400 since the wire-level mapping isn't part of
// the specification.
func writeEngineError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusBadRequest)
}
