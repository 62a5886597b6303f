// Package coordination implements the identity-linking policy (spec §4.9):
// it links external identities (OAuth2 accounts, passkey credentials) to
// internal users, orchestrating the DataStore across the users,
// oauth2_accounts, and passkey_credentials tables. Grounded on the
// original's libauth/src/passkey_coordinator.rs and
// oauth2_passkey/src/coordination, carried over in the teacher's style
// (small, pure functions over the DataStore interface, no direct SQL).
package coordination

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/datastore"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/crypto"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/log"
)

const maxUserIDRetries = 3

// Coordinator holds the user and account-linking policy that C7 (oauth2)
// and C8 (passkey) call into, over the shared DataStore.
type Coordinator struct {
	store  datastore.Store
	logger log.Logger
}

// New builds a Coordinator.
func New(store datastore.Store, logger log.Logger) *Coordinator {
	return &Coordinator{store: store, logger: logger}
}

// GenerateUserID mints a UUIDv4 user id, making up to maxUserIDRetries
// attempts in total on collision before failing Internal (spec §4.9).
func (c *Coordinator) GenerateUserID(ctx context.Context) (string, error) {
	for i := 0; i < maxUserIDRetries; i++ {
		id := uuid.NewString()
		_, err := c.store.GetUser(ctx, id)
		if errors.Is(err, datastore.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fail(KindStorage, err)
		}
		// id collided with an existing user; retry.
	}
	return "", fail(KindInternal, fmt.Errorf("exhausted %d attempts generating a unique user id", maxUserIDRetries))
}

// LinkResult reports what LinkOrAdoptOAuth2Account did, so C7 knows whether
// to issue a new session.
type LinkResult struct {
	User          datastore.User
	Account       datastore.OAuth2Account
	IssueSession  bool
}

// LinkOrAdoptOAuth2Account applies the policy table from spec §4.9 for the
// OAuth2 finish step.
//
//   - sessionUserID present (link flow): the account's user_id must be the
//     session's user, or unset; reject if it maps to a different user.
//   - (provider, sub) already known: adopt that user_id (login); profile
//     fields are refreshed.
//   - otherwise: create a new User (account=email, label=name) and the
//     account.
func (c *Coordinator) LinkOrAdoptOAuth2Account(ctx context.Context, account datastore.OAuth2Account, sessionUserID string) (LinkResult, error) {
	existing, err := c.store.GetOAuth2AccountsBy(ctx, datastore.ByProviderSub(account.Provider, account.ProviderUserID))
	if err != nil {
		return LinkResult{}, fail(KindStorage, err)
	}

	if sessionUserID != "" {
		return c.linkToSession(ctx, account, existing, sessionUserID)
	}

	if len(existing) > 0 {
		return c.adoptExisting(ctx, account, existing[0])
	}

	return c.createUserAndAccount(ctx, account)
}

func (c *Coordinator) linkToSession(ctx context.Context, account datastore.OAuth2Account, existing []datastore.OAuth2Account, sessionUserID string) (LinkResult, error) {
	if len(existing) > 0 && existing[0].UserID != "" && existing[0].UserID != sessionUserID {
		return LinkResult{}, fail(KindConflict, fmt.Errorf("oauth2 account already linked to a different user"))
	}

	account.UserID = sessionUserID
	stored, err := c.store.UpsertOAuth2Account(ctx, account)
	if err != nil {
		return LinkResult{}, fail(KindStorage, err)
	}
	user, err := c.store.GetUser(ctx, sessionUserID)
	if err != nil {
		return LinkResult{}, fail(KindStorage, err)
	}
	return LinkResult{User: user, Account: stored, IssueSession: false}, nil
}

func (c *Coordinator) adoptExisting(ctx context.Context, account datastore.OAuth2Account, existing datastore.OAuth2Account) (LinkResult, error) {
	account.ID = existing.ID
	account.UserID = existing.UserID
	stored, err := c.store.UpsertOAuth2Account(ctx, account)
	if err != nil {
		return LinkResult{}, fail(KindStorage, err)
	}
	user, err := c.store.GetUser(ctx, existing.UserID)
	if err != nil {
		return LinkResult{}, fail(KindStorage, err)
	}
	return LinkResult{User: user, Account: stored, IssueSession: true}, nil
}

func (c *Coordinator) createUserAndAccount(ctx context.Context, account datastore.OAuth2Account) (LinkResult, error) {
	userID, err := c.GenerateUserID(ctx)
	if err != nil {
		return LinkResult{}, err
	}

	user := datastore.User{ID: userID, Account: account.Email, Label: account.Name}
	user, err = c.store.UpsertUser(ctx, user)
	if err != nil {
		return LinkResult{}, fail(KindStorage, err)
	}

	account.UserID = userID
	stored, err := c.store.UpsertOAuth2Account(ctx, account)
	if err != nil {
		return LinkResult{}, fail(KindStorage, err)
	}
	return LinkResult{User: user, Account: stored, IssueSession: true}, nil
}

// ResolveSelfServiceUser implements the passkey self-service registration
// path (no session): username identifies the account, creating a new User
// if unknown, per spec §4.9's passkey policy table.
func (c *Coordinator) ResolveSelfServiceUser(ctx context.Context, username, displayName string) (datastore.User, error) {
	accounts, err := c.store.GetOAuth2AccountsBy(ctx, datastore.ByEmail(username))
	if err == nil && len(accounts) > 0 {
		return c.store.GetUser(ctx, accounts[0].UserID)
	}

	// Fall back to account-handle lookup: a user who registered a passkey
	// directly (no OAuth2 account) is keyed by users.account, and a
	// returning self-service user must resolve to that same row rather
	// than collide on the unique constraint when we mint a fresh id.
	if existing, err := c.store.GetUserByAccount(ctx, username); err == nil {
		return existing, nil
	} else if !errors.Is(err, datastore.ErrNotFound) {
		return datastore.User{}, fail(KindStorage, err)
	}

	userID, genErr := c.GenerateUserID(ctx)
	if genErr != nil {
		return datastore.User{}, genErr
	}
	user := datastore.User{ID: userID, Account: username, Label: displayName}
	user, err = c.store.UpsertUser(ctx, user)
	if err != nil {
		return datastore.User{}, fail(KindStorage, err)
	}
	return user, nil
}

// UserHandleFor returns the WebAuthn user_handle for userID: the handle
// stored on any of the user's existing credentials, or else a fresh random
// 32-byte value. It stores nothing itself; the handle becomes stable once a
// credential carrying it is saved, and until then each call returns a new
// value. Recovered from the original's passkey_coordinator.rs (one
// user_handle per user, shared across all of that user's credentials, not
// per-credential).
func (c *Coordinator) UserHandleFor(ctx context.Context, userID string) ([]byte, error) {
	creds, err := c.store.GetCredentialsBy(ctx, datastore.ByCredUserID(userID))
	if err != nil {
		return nil, fail(KindStorage, err)
	}
	for _, cred := range creds {
		if len(cred.UserHandle) > 0 {
			return cred.UserHandle, nil
		}
	}
	handle, err := crypto.Random(32)
	if err != nil {
		return nil, fail(KindInternal, err)
	}
	return handle, nil
}
