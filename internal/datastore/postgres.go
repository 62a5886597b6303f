package datastore

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // register the postgres driver
)

const postgresSchema = `
create table if not exists users (
	id text primary key,
	account text not null unique,
	label text not null default '',
	created_at timestamptz not null,
	updated_at timestamptz not null
);

create table if not exists oauth2_accounts (
	id text primary key,
	user_id text not null references users(id),
	provider text not null,
	provider_user_id text not null,
	name text not null default '',
	email text not null default '',
	picture text not null default '',
	metadata jsonb,
	created_at timestamptz not null,
	updated_at timestamptz not null,
	unique (provider, provider_user_id)
);

create table if not exists passkey_credentials (
	credential_id text primary key,
	user_id text not null references users(id),
	public_key bytea not null,
	algorithm bigint not null default -7,
	counter bigint not null default 0,
	user_handle bytea not null,
	name text not null default '',
	display_name text not null default '',
	aaguid text not null default '',
	created_at timestamptz not null,
	updated_at timestamptz not null
);

create index if not exists idx_oauth2_accounts_user_id on oauth2_accounts(user_id);
create index if not exists idx_passkey_credentials_user_id on passkey_credentials(user_id);
`

// OpenPostgres opens (and migrates) a postgres-backed Store, grounded on
// the teacher's storage/sql postgres flavor (lib/pq, $N placeholders).
// Multi-row mutations run in a transaction at the database's default
// isolation level.
func OpenPostgres(dsn string) (Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("datastore: open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("datastore: connect postgres: %w", err)
	}

	if _, err := db.Exec(postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("datastore: migrate postgres: %w", err)
	}

	return &sqlStore{db: db, postgres: true}, nil
}
