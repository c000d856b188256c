package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/donamatch/internal/model"
)

// CreateMatch links a donation to a need in a single transaction: the
// donation is marked matched, the need fulfilled and a match row recorded.
// Either all three writes commit or none do.
//
// Missing records return ErrDonationNotFound or ErrNeedNotFound. A donation
// that is already matched returns ErrDonationMatched and a need that is not
// active returns ErrNeedNotActive.
func CreateMatch(ctx context.Context, db *sql.DB, donationID, needID int64, notes string, matchedBy *int64) (*model.Match, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var matched bool
	err = tx.QueryRowContext(ctx,
		`SELECT matched FROM donations WHERE id = ?`, donationID,
	).Scan(&matched)
	if err == sql.ErrNoRows {
		return nil, ErrDonationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking donation: %w", err)
	}

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM needs WHERE id = ?`, needID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return nil, ErrNeedNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking need: %w", err)
	}

	if matched {
		return nil, ErrDonationMatched
	}
	if status != model.NeedStatusActive {
		return nil, ErrNeedNotActive
	}

	// Compare-and-set: a concurrent match that committed first leaves zero
	// affected rows here.
	result, err := tx.ExecContext(ctx,
		`UPDATE donations SET matched = 1, matched_via = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND matched = 0`,
		model.ViaMatch, donationID,
	)
	if err != nil {
		return nil, fmt.Errorf("marking donation matched: %w", err)
	}
	if err := requireOneRow(result, ErrDonationMatched); err != nil {
		return nil, err
	}

	result, err = tx.ExecContext(ctx,
		`UPDATE needs SET status = ?, status_via = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.NeedStatusFulfilled, model.ViaMatch, needID, model.NeedStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("marking need fulfilled: %w", err)
	}
	if err := requireOneRow(result, ErrNeedNotActive); err != nil {
		return nil, err
	}

	result, err = tx.ExecContext(ctx,
		`INSERT INTO matches (donation_id, need_id, status, notes, matched_by)
		 VALUES (?, ?, ?, ?, ?)`,
		donationID, needID, model.MatchStatusMatched, notes, matchedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("recording match: %w", err)
	}

	matchID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting match id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing match: %w", err)
	}

	return GetMatch(ctx, db, matchID)
}

const matchSelect = `SELECT m.id, m.donation_id, m.need_id, m.status, m.notes, m.matched_by, m.created_at,
	        d.item AS donation_item, n.title AS need_title
	 FROM matches m
	 JOIN donations d ON d.id = m.donation_id
	 JOIN needs n ON n.id = m.need_id`

func scanMatch(s interface{ Scan(...any) error }) (*model.Match, error) {
	m := &model.Match{}
	var notes sql.NullString
	err := s.Scan(&m.ID, &m.DonationID, &m.NeedID, &m.Status, &notes, &m.MatchedBy, &m.CreatedAt,
		&m.DonationItem, &m.NeedTitle)
	if err != nil {
		return nil, err
	}
	m.Notes = notes.String
	return m, nil
}

// GetMatch returns a match by ID.
func GetMatch(ctx context.Context, db *sql.DB, id int64) (*model.Match, error) {
	m, err := scanMatch(db.QueryRowContext(ctx, matchSelect+` WHERE m.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting match: %w", err)
	}
	return m, nil
}

// ListMatches returns matches newest first, optionally filtered by donation
// or need and capped by f.Limit.
func ListMatches(ctx context.Context, db *sql.DB, f model.MatchFilter) ([]model.Match, error) {
	query := matchSelect + ` WHERE 1=1`
	var args []any

	if f.DonationID > 0 {
		query += ` AND m.donation_id = ?`
		args = append(args, f.DonationID)
	}
	if f.NeedID > 0 {
		query += ` AND m.need_id = ?`
		args = append(args, f.NeedID)
	}

	query += ` ORDER BY m.created_at DESC, m.id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer rows.Close()

	var matches []model.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		matches = append(matches, *m)
	}
	return matches, rows.Err()
}
