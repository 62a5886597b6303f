package coordination

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktaka-ccmp/oauth2-passkey-go/internal/datastore"
	"github.com/ktaka-ccmp/oauth2-passkey-go/pkg/log"
)

func newTestCoordinator(t *testing.T) (*Coordinator, datastore.Store) {
	t.Helper()
	store, err := datastore.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store, log.Nop()), store
}

func TestLinkOrAdoptCreatesNewUser(t *testing.T) {
	c, _ := newTestCoordinator(t)
	ctx := context.Background()

	res, err := c.LinkOrAdoptOAuth2Account(ctx, datastore.OAuth2Account{
		Provider: "google", ProviderUserID: "sub-1", Name: "Alice", Email: "alice@example.com",
	}, "")
	require.NoError(t, err)
	assert.True(t, res.IssueSession)
	assert.Equal(t, "alice@example.com", res.User.Account)
	assert.NotEmpty(t, res.User.ID)
}

func TestLinkOrAdoptAdoptsExisting(t *testing.T) {
	c, _ := newTestCoordinator(t)
	ctx := context.Background()

	first, err := c.LinkOrAdoptOAuth2Account(ctx, datastore.OAuth2Account{
		Provider: "google", ProviderUserID: "sub-1", Name: "Alice", Email: "alice@example.com",
	}, "")
	require.NoError(t, err)

	second, err := c.LinkOrAdoptOAuth2Account(ctx, datastore.OAuth2Account{
		Provider: "google", ProviderUserID: "sub-1", Name: "Alice Renamed", Email: "alice@example.com",
	}, "")
	require.NoError(t, err)
	assert.True(t, second.IssueSession)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "Alice Renamed", second.Account.Name)
}

func TestLinkOrAdoptLinksToSession(t *testing.T) {
	c, store := newTestCoordinator(t)
	ctx := context.Background()

	user, err := store.UpsertUser(ctx, datastore.User{ID: "user-1", Account: "a@example.com"})
	require.NoError(t, err)

	res, err := c.LinkOrAdoptOAuth2Account(ctx, datastore.OAuth2Account{
		Provider: "google", ProviderUserID: "sub-2", Name: "Bob", Email: "bob@example.com",
	}, user.ID)
	require.NoError(t, err)
	assert.False(t, res.IssueSession)
	assert.Equal(t, user.ID, res.User.ID)
}

func TestLinkOrAdoptRejectsConflictingLink(t *testing.T) {
	c, store := newTestCoordinator(t)
	ctx := context.Background()

	userA, err := store.UpsertUser(ctx, datastore.User{ID: "user-a", Account: "a@example.com"})
	require.NoError(t, err)
	userB, err := store.UpsertUser(ctx, datastore.User{ID: "user-b", Account: "b@example.com"})
	require.NoError(t, err)

	_, err = c.LinkOrAdoptOAuth2Account(ctx, datastore.OAuth2Account{
		Provider: "google", ProviderUserID: "sub-3",
	}, userA.ID)
	require.NoError(t, err)

	_, err = c.LinkOrAdoptOAuth2Account(ctx, datastore.OAuth2Account{
		Provider: "google", ProviderUserID: "sub-3",
	}, userB.ID)
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindConflict, cerr.Kind)
}

func TestUserHandleForIsIdempotentOncePersisted(t *testing.T) {
	c, store := newTestCoordinator(t)
	ctx := context.Background()

	_, err := store.UpsertUser(ctx, datastore.User{ID: "user-1", Account: "a@example.com"})
	require.NoError(t, err)

	h1, err := c.UserHandleFor(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, h1, 32)

	_, err = store.UpsertCredential(ctx, datastore.PasskeyCredential{
		CredentialID: "cred-1", UserID: "user-1", PublicKey: []byte("pk"), UserHandle: h1,
	})
	require.NoError(t, err)

	h2, err := c.UserHandleFor(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestResolveSelfServiceUserCreatesWhenUnknown(t *testing.T) {
	c, _ := newTestCoordinator(t)
	ctx := context.Background()

	user, err := c.ResolveSelfServiceUser(ctx, "carol", "Carol")
	require.NoError(t, err)
	assert.Equal(t, "carol", user.Account)
}

// A returning self-service user (no OAuth2 account, registering a second
// passkey or logging in again by username) must resolve to the same User
// row rather than collide on the unique users.account constraint.
func TestResolveSelfServiceUserReusesExistingAccount(t *testing.T) {
	c, _ := newTestCoordinator(t)
	ctx := context.Background()

	first, err := c.ResolveSelfServiceUser(ctx, "carol", "Carol")
	require.NoError(t, err)

	second, err := c.ResolveSelfServiceUser(ctx, "carol", "Carol")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
