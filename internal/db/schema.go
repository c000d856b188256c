package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL CHECK (role IN ('donor', 'recipient', 'admin')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS donations (
    id                    INTEGER PRIMARY KEY,
    donor_id              INTEGER NOT NULL REFERENCES users(id),
    item                  TEXT NOT NULL CHECK (item <> ''),
    donation_type         TEXT NOT NULL DEFAULT 'goods' CHECK (donation_type IN ('goods', 'monetary', 'services')),
    quantity              REAL NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    unit                  TEXT,
    description           TEXT,
    location              TEXT,
    matched               INTEGER NOT NULL DEFAULT 0 CHECK (matched IN (0, 1)),
    matched_via           TEXT CHECK (matched_via IN ('match', 'override')),
    flagged               INTEGER NOT NULL DEFAULT 0 CHECK (flagged IN (0, 1)),
    status                TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'delivered', 'cancelled')),
    delivery_address      TEXT,
    delivery_instructions TEXT,
    delivery_date         DATETIME,
    created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS needs (
    id           INTEGER PRIMARY KEY,
    recipient_id INTEGER NOT NULL REFERENCES users(id),
    title        TEXT NOT NULL CHECK (title <> ''),
    description  TEXT,
    category     TEXT NOT NULL DEFAULT 'other' CHECK (category IN ('food', 'clothing', 'shelter', 'medical', 'education', 'transport', 'other')),
    urgency      TEXT NOT NULL DEFAULT 'medium' CHECK (urgency IN ('low', 'medium', 'high', 'critical')),
    status       TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'fulfilled', 'cancelled')),
    status_via   TEXT CHECK (status_via IN ('match', 'override', 'owner')),
    quantity     REAL NOT NULL DEFAULT 0 CHECK (quantity >= 0),
    unit         TEXT,
    location     TEXT,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS matches (
    id          INTEGER PRIMARY KEY,
    donation_id INTEGER NOT NULL REFERENCES donations(id),
    need_id     INTEGER NOT NULL REFERENCES needs(id),
    status      TEXT NOT NULL DEFAULT 'matched',
    notes       TEXT,
    matched_by  INTEGER REFERENCES users(id),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS donation_media (
    id          INTEGER PRIMARY KEY,
    donation_id INTEGER NOT NULL REFERENCES donations(id) ON DELETE CASCADE,
    data        BLOB NOT NULL,
    mime        TEXT NOT NULL,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS donation_reports (
    id          INTEGER PRIMARY KEY,
    donation_id INTEGER NOT NULL REFERENCES donations(id) ON DELETE CASCADE,
    reporter_id INTEGER NOT NULL REFERENCES users(id),
    reason      TEXT NOT NULL CHECK (reason <> ''),
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    expires_at DATETIME NOT NULL,
    revoked_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
