// Package datastore implements the DataStore abstraction (spec §4.4):
// SQL-shaped persistence for users, OAuth2 accounts, and passkey
// credentials, with sqlite and postgres backends, mirroring the teacher's
// storage.Storage / storage/sql split.
package datastore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound mirrors storage.ErrNotFound.
var ErrNotFound = errors.New("datastore: not found")

// ErrAlreadyExists mirrors storage.ErrAlreadyExists; returned when a unique
// constraint (users.account, (provider, provider_user_id),
// passkey_credentials.credential_id) is violated.
var ErrAlreadyExists = errors.New("datastore: already exists")

// Store is the DataStore contract from spec §4.4.
type Store interface {
	Close() error

	GetUser(ctx context.Context, id string) (User, error)
	GetUserByAccount(ctx context.Context, account string) (User, error)
	UpsertUser(ctx context.Context, u User) (User, error)
	DeleteUser(ctx context.Context, id string) error

	GetOAuth2AccountsBy(ctx context.Context, field AccountSearchField) ([]OAuth2Account, error)
	UpsertOAuth2Account(ctx context.Context, a OAuth2Account) (OAuth2Account, error)
	DeleteOAuth2AccountsBy(ctx context.Context, field AccountSearchField) error

	GetCredentialsBy(ctx context.Context, field CredentialSearchField) ([]PasskeyCredential, error)
	UpsertCredential(ctx context.Context, c PasskeyCredential) (PasskeyCredential, error)
	UpdateCounter(ctx context.Context, credentialID string, counter uint32) error
	DeleteCredential(ctx context.Context, credentialID string) error
}

// New builds the configured Store backend, per GENERIC_DATA_STORE_TYPE.
func New(storeType, url string) (Store, error) {
	switch storeType {
	case "", "sqlite":
		return OpenSQLite(url)
	case "postgres":
		return OpenPostgres(url)
	default:
		return nil, fmt.Errorf("datastore: unknown store type %q", storeType)
	}
}
