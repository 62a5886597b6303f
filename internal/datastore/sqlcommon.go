package datastore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// sqlStore implements Store over database/sql, shared between the sqlite
// and postgres backends (which differ only in driver name, DSN handling,
// and placeholder syntax) — grounded on the teacher's storage/sql package,
// simplified from its four-flavor regexp-translation layer to the two
// backends this spec names (GENERIC_DATA_STORE_TYPE: sqlite|postgres).
type sqlStore struct {
	db       *sql.DB
	postgres bool
}

// ph renders the i'th bind placeholder (1-indexed) for the active dialect.
func (s *sqlStore) ph(i int) string {
	if s.postgres {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// phList renders n sequential placeholders starting at 1, comma-joined.
func (s *sqlStore) phList(n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = s.ph(i + 1)
	}
	return strings.Join(parts, ", ")
}

func (s *sqlStore) Close() error { return s.db.Close() }

const userColumns = "id, account, label, created_at, updated_at"

func scanUser(row *sql.Row) (User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Account, &u.Label, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("datastore: scan user: %w", err)
	}
	return u, nil
}

func (s *sqlStore) GetUser(_ context.Context, id string) (User, error) {
	row := s.db.QueryRow(fmt.Sprintf(`select %s from users where id = %s`, userColumns, s.ph(1)), id)
	return scanUser(row)
}

// GetUserByAccount looks up a user by the unique users.account column,
// letting callers resolve a returning self-service (non-OAuth2) user
// without minting a new id, per spec §4.9.
func (s *sqlStore) GetUserByAccount(_ context.Context, account string) (User, error) {
	row := s.db.QueryRow(fmt.Sprintf(`select %s from users where account = %s`, userColumns, s.ph(1)), account)
	return scanUser(row)
}

// UpsertUser inserts or updates a user keyed by id, enforcing the
// users.account uniqueness constraint.
func (s *sqlStore) UpsertUser(_ context.Context, u User) (User, error) {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	var query string
	if s.postgres {
		query = `
			insert into users (id, account, label, created_at, updated_at)
			values ($1, $2, $3, $4, $5)
			on conflict (id) do update set account = $2, label = $3, updated_at = $5
		`
	} else {
		query = `
			insert into users (id, account, label, created_at, updated_at)
			values (?, ?, ?, ?, ?)
			on conflict (id) do update set account = excluded.account, label = excluded.label, updated_at = excluded.updated_at
		`
	}
	if _, err := s.db.Exec(query, u.ID, u.Account, u.Label, u.CreatedAt, u.UpdatedAt); err != nil {
		if s.alreadyExists(err) {
			return User{}, ErrAlreadyExists
		}
		return User{}, fmt.Errorf("datastore: upsert user: %w", err)
	}
	return s.GetUser(context.Background(), u.ID)
}

// DeleteUser cascades to oauth2_accounts and passkey_credentials in one
// transaction, per spec §3's User invariant.
func (s *sqlStore) DeleteUser(_ context.Context, id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("datastore: begin delete user tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmts := []string{
		fmt.Sprintf(`delete from passkey_credentials where user_id = %s`, s.ph(1)),
		fmt.Sprintf(`delete from oauth2_accounts where user_id = %s`, s.ph(1)),
		fmt.Sprintf(`delete from users where id = %s`, s.ph(1)),
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt, id); err != nil {
			return fmt.Errorf("datastore: delete user cascade: %w", err)
		}
	}
	return tx.Commit()
}

const accountColumns = "id, user_id, provider, provider_user_id, name, email, picture, metadata, created_at, updated_at"

func scanAccount(row interface{ Scan(...interface{}) error }) (OAuth2Account, error) {
	var a OAuth2Account
	var metadata []byte
	err := row.Scan(&a.ID, &a.UserID, &a.Provider, &a.ProviderUserID, &a.Name, &a.Email, &a.Picture, &metadata, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return OAuth2Account{}, err
	}
	a.Metadata = metadata
	return a, nil
}

func (s *sqlStore) GetOAuth2AccountsBy(_ context.Context, field AccountSearchField) ([]OAuth2Account, error) {
	where, args := s.accountWhere(field)
	rows, err := s.db.Query(fmt.Sprintf(`select %s from oauth2_accounts where %s`, accountColumns, where), args...)
	if err != nil {
		return nil, fmt.Errorf("datastore: query oauth2 accounts: %w", err)
	}
	defer rows.Close()

	var out []OAuth2Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("datastore: scan oauth2 account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *sqlStore) accountWhere(field AccountSearchField) (string, []interface{}) {
	switch {
	case field.Provider != "" && field.ProviderUserID != "":
		return fmt.Sprintf("provider = %s and provider_user_id = %s", s.ph(1), s.ph(2)),
			[]interface{}{field.Provider, field.ProviderUserID}
	case field.Email != "":
		return fmt.Sprintf("email = %s", s.ph(1)), []interface{}{field.Email}
	default:
		return fmt.Sprintf("user_id = %s", s.ph(1)), []interface{}{field.UserID}
	}
}

// UpsertOAuth2Account enforces the (provider, provider_user_id) uniqueness
// constraint; the later write wins for mutable fields (name, email,
// picture, metadata), per spec §8's uniqueness/convergence property.
func (s *sqlStore) UpsertOAuth2Account(_ context.Context, a OAuth2Account) (OAuth2Account, error) {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	if a.ID == "" {
		a.ID = newOpaqueID()
	}

	var query string
	if s.postgres {
		query = `
			insert into oauth2_accounts (id, user_id, provider, provider_user_id, name, email, picture, metadata, created_at, updated_at)
			values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			on conflict (provider, provider_user_id) do update set
				user_id = $2, name = $5, email = $6, picture = $7, metadata = $8, updated_at = $10
		`
	} else {
		query = `
			insert into oauth2_accounts (id, user_id, provider, provider_user_id, name, email, picture, metadata, created_at, updated_at)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			on conflict (provider, provider_user_id) do update set
				user_id = excluded.user_id, name = excluded.name, email = excluded.email,
				picture = excluded.picture, metadata = excluded.metadata, updated_at = excluded.updated_at
		`
	}
	if _, err := s.db.Exec(query, a.ID, a.UserID, a.Provider, a.ProviderUserID, a.Name, a.Email, a.Picture, []byte(a.Metadata), a.CreatedAt, a.UpdatedAt); err != nil {
		return OAuth2Account{}, fmt.Errorf("datastore: upsert oauth2 account: %w", err)
	}

	accounts, err := s.GetOAuth2AccountsBy(context.Background(), ByProviderSub(a.Provider, a.ProviderUserID))
	if err != nil || len(accounts) == 0 {
		return OAuth2Account{}, fmt.Errorf("datastore: reload oauth2 account: %w", err)
	}
	return accounts[0], nil
}

func (s *sqlStore) DeleteOAuth2AccountsBy(_ context.Context, field AccountSearchField) error {
	where, args := s.accountWhere(field)
	_, err := s.db.Exec(fmt.Sprintf(`delete from oauth2_accounts where %s`, where), args...)
	if err != nil {
		return fmt.Errorf("datastore: delete oauth2 accounts: %w", err)
	}
	return nil
}

const credColumns = "credential_id, user_id, public_key, algorithm, counter, user_handle, name, display_name, aaguid, created_at, updated_at"

func scanCredential(row interface{ Scan(...interface{}) error }) (PasskeyCredential, error) {
	var c PasskeyCredential
	err := row.Scan(&c.CredentialID, &c.UserID, &c.PublicKey, &c.Algorithm, &c.Counter, &c.UserHandle, &c.Name, &c.DisplayName, &c.AAGUID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return PasskeyCredential{}, err
	}
	return c, nil
}

func (s *sqlStore) GetCredentialsBy(_ context.Context, field CredentialSearchField) ([]PasskeyCredential, error) {
	var where string
	var args []interface{}
	if field.CredentialID != "" {
		where, args = fmt.Sprintf("credential_id = %s", s.ph(1)), []interface{}{field.CredentialID}
	} else {
		where, args = fmt.Sprintf("user_id = %s", s.ph(1)), []interface{}{field.UserID}
	}

	rows, err := s.db.Query(fmt.Sprintf(`select %s from passkey_credentials where %s`, credColumns, where), args...)
	if err != nil {
		return nil, fmt.Errorf("datastore: query credentials: %w", err)
	}
	defer rows.Close()

	var out []PasskeyCredential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, fmt.Errorf("datastore: scan credential: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertCredential enforces the credential_id uniqueness constraint across
// all users.
func (s *sqlStore) UpsertCredential(_ context.Context, c PasskeyCredential) (PasskeyCredential, error) {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	var query string
	if s.postgres {
		query = `
			insert into passkey_credentials (credential_id, user_id, public_key, algorithm, counter, user_handle, name, display_name, aaguid, created_at, updated_at)
			values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			on conflict (credential_id) do update set
				counter = $5, name = $7, display_name = $8, updated_at = $11
		`
	} else {
		query = `
			insert into passkey_credentials (credential_id, user_id, public_key, algorithm, counter, user_handle, name, display_name, aaguid, created_at, updated_at)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			on conflict (credential_id) do update set
				counter = excluded.counter, name = excluded.name, display_name = excluded.display_name, updated_at = excluded.updated_at
		`
	}
	if _, err := s.db.Exec(query, c.CredentialID, c.UserID, c.PublicKey, c.Algorithm, c.Counter, c.UserHandle, c.Name, c.DisplayName, c.AAGUID, c.CreatedAt, c.UpdatedAt); err != nil {
		if s.alreadyExists(err) {
			return PasskeyCredential{}, ErrAlreadyExists
		}
		return PasskeyCredential{}, fmt.Errorf("datastore: upsert credential: %w", err)
	}

	creds, err := s.GetCredentialsBy(context.Background(), ByCredentialID(c.CredentialID))
	if err != nil || len(creds) == 0 {
		return PasskeyCredential{}, fmt.Errorf("datastore: reload credential: %w", err)
	}
	return creds[0], nil
}

// UpdateCounter persists a new counter value. Callers (C8) are responsible
// for enforcing the monotonicity invariant before calling this; the
// conditional "where counter < new" form documented as optional in spec §5
// is used here to make the write itself race-safe under concurrent
// authentications from different devices.
func (s *sqlStore) UpdateCounter(_ context.Context, credentialID string, counter uint32) error {
	query := fmt.Sprintf(
		`update passkey_credentials set counter = %s, updated_at = %s where credential_id = %s and counter < %s`,
		s.ph(1), s.ph(2), s.ph(3), s.ph(4),
	)
	_, err := s.db.Exec(query, counter, time.Now().UTC(), credentialID, counter)
	if err != nil {
		return fmt.Errorf("datastore: update counter: %w", err)
	}
	return nil
}

func (s *sqlStore) DeleteCredential(_ context.Context, credentialID string) error {
	_, err := s.db.Exec(fmt.Sprintf(`delete from passkey_credentials where credential_id = %s`, s.ph(1)), credentialID)
	if err != nil {
		return fmt.Errorf("datastore: delete credential: %w", err)
	}
	return nil
}

func (s *sqlStore) alreadyExists(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// EncodeMetadata marshals an opaque provider JSON payload for storage in
// OAuth2Account.Metadata.
func EncodeMetadata(v interface{}) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}
