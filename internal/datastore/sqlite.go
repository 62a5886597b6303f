package datastore

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // register the sqlite3 driver
)

const sqliteSchema = `
create table if not exists users (
	id text primary key,
	account text not null unique,
	label text not null default '',
	created_at timestamp not null,
	updated_at timestamp not null
);

create table if not exists oauth2_accounts (
	id text primary key,
	user_id text not null references users(id),
	provider text not null,
	provider_user_id text not null,
	name text not null default '',
	email text not null default '',
	picture text not null default '',
	metadata blob,
	created_at timestamp not null,
	updated_at timestamp not null,
	unique (provider, provider_user_id)
);

create table if not exists passkey_credentials (
	credential_id text primary key,
	user_id text not null references users(id),
	public_key blob not null,
	algorithm integer not null default -7,
	counter integer not null default 0,
	user_handle blob not null,
	name text not null default '',
	display_name text not null default '',
	aaguid text not null default '',
	created_at timestamp not null,
	updated_at timestamp not null
);

create index if not exists idx_oauth2_accounts_user_id on oauth2_accounts(user_id);
create index if not exists idx_passkey_credentials_user_id on passkey_credentials(user_id);
`

// OpenSQLite opens (and migrates) a sqlite3-backed Store. Grounded on the
// teacher's storage/sql.SQLite3, simplified: no flavor-translation layer,
// since sqlite is native here rather than a Postgres-query translation.
func OpenSQLite(dsn string) (Store, error) {
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("datastore: open sqlite: %w", err)
	}
	// sqlite3 does not support concurrent writers; serialize through one
	// connection, matching the teacher's storage/sql.SQLite3.open.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("datastore: migrate sqlite: %w", err)
	}

	return &sqlStore{db: db, postgres: false}, nil
}
