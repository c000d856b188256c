package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: indexes for the admin dashboard and per-owner listings.
	`CREATE INDEX IF NOT EXISTS idx_donations_matched ON donations(matched, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_donations_donor ON donations(donor_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_needs_status ON needs(status, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_needs_recipient ON needs(recipient_id, created_at)`,

	// Migration 2: match lookups by either side.
	`CREATE INDEX IF NOT EXISTS idx_matches_donation ON matches(donation_id)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_need ON matches(need_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reports_donation ON donation_reports(donation_id)`,
}

// Migrate ensures the schema exists and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
