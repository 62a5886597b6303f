package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	// A private, unshared in-memory database per test.
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpsertUserIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	u := User{ID: "user-1", Account: "alice@example.com", Label: "Alice"}
	_, err := store.UpsertUser(ctx, u)
	require.NoError(t, err)
	_, err = store.UpsertUser(ctx, u)
	require.NoError(t, err)

	got, err := store.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Account)
}

func TestGetUserNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetUser(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertOAuth2AccountConverges(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.UpsertUser(ctx, User{ID: "user-1", Account: "alice@example.com", Label: "Alice"})
	require.NoError(t, err)

	acc := OAuth2Account{UserID: "user-1", Provider: "google", ProviderUserID: "sub-1", Name: "Alice", Email: "alice@example.com"}
	first, err := store.UpsertOAuth2Account(ctx, acc)
	require.NoError(t, err)

	acc.Name = "Alice Updated"
	second, err := store.UpsertOAuth2Account(ctx, acc)
	require.NoError(t, err)

	accounts, err := store.GetOAuth2AccountsBy(ctx, ByProviderSub("google", "sub-1"))
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Alice Updated", accounts[0].Name)
	assert.Equal(t, first.ID, second.ID)
}

func TestDeleteUserCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.UpsertUser(ctx, User{ID: "user-1", Account: "alice@example.com"})
	require.NoError(t, err)
	_, err = store.UpsertOAuth2Account(ctx, OAuth2Account{UserID: "user-1", Provider: "google", ProviderUserID: "sub-1"})
	require.NoError(t, err)
	_, err = store.UpsertCredential(ctx, PasskeyCredential{CredentialID: "cred-1", UserID: "user-1", PublicKey: []byte("pk"), UserHandle: []byte("uh")})
	require.NoError(t, err)

	require.NoError(t, store.DeleteUser(ctx, "user-1"))

	_, err = store.GetUser(ctx, "user-1")
	assert.ErrorIs(t, err, ErrNotFound)

	accounts, err := store.GetOAuth2AccountsBy(ctx, ByUserID("user-1"))
	require.NoError(t, err)
	assert.Empty(t, accounts)

	creds, err := store.GetCredentialsBy(ctx, ByCredUserID("user-1"))
	require.NoError(t, err)
	assert.Empty(t, creds)
}

func TestUpdateCounterMonotonic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.UpsertUser(ctx, User{ID: "user-1", Account: "alice@example.com"})
	require.NoError(t, err)
	_, err = store.UpsertCredential(ctx, PasskeyCredential{CredentialID: "cred-1", UserID: "user-1", PublicKey: []byte("pk"), UserHandle: []byte("uh"), Counter: 5})
	require.NoError(t, err)

	// Conditional update only advances the counter.
	require.NoError(t, store.UpdateCounter(ctx, "cred-1", 3))
	creds, err := store.GetCredentialsBy(ctx, ByCredentialID("cred-1"))
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.EqualValues(t, 5, creds[0].Counter)

	require.NoError(t, store.UpdateCounter(ctx, "cred-1", 6))
	creds, err = store.GetCredentialsBy(ctx, ByCredentialID("cred-1"))
	require.NoError(t, err)
	assert.EqualValues(t, 6, creds[0].Counter)
}

func TestCredentialUniqueAcrossUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.UpsertUser(ctx, User{ID: "user-1", Account: "a@example.com"})
	require.NoError(t, err)
	_, err = store.UpsertUser(ctx, User{ID: "user-2", Account: "b@example.com"})
	require.NoError(t, err)

	_, err = store.UpsertCredential(ctx, PasskeyCredential{CredentialID: "cred-shared", UserID: "user-1", PublicKey: []byte("pk"), UserHandle: []byte("uh")})
	require.NoError(t, err)

	// Upserting the same credential_id under another user updates in place
	// rather than creating a second row (unique constraint enforced via ON
	// CONFLICT).
	_, err = store.UpsertCredential(ctx, PasskeyCredential{CredentialID: "cred-shared", UserID: "user-2", PublicKey: []byte("pk"), UserHandle: []byte("uh"), Counter: 1})
	require.NoError(t, err)

	creds, err := store.GetCredentialsBy(ctx, ByCredentialID("cred-shared"))
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.EqualValues(t, 1, creds[0].Counter)
}

func TestUpsertUserTimestamps(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	u, err := store.UpsertUser(ctx, User{ID: "user-1", Account: "a@example.com"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), u.CreatedAt, 5*time.Second)
}
