package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/donamatch/internal/model"
)

// DonationFilter narrows donation listings. Zero fields match everything.
type DonationFilter struct {
	DonorID       int64
	UnmatchedOnly bool
	// Text matches item or description, case-insensitively.
	Text string
	// Location matches location, case-insensitively.
	Location string
}

const donationColumns = `d.id, d.donor_id, d.item, d.donation_type, d.quantity, d.unit, d.description,
	d.location, d.matched, d.matched_via, d.flagged, d.status, d.delivery_address, d.delivery_instructions,
	d.delivery_date, d.created_at, d.updated_at, u.username`

const donationFrom = ` FROM donations d JOIN users u ON u.id = d.donor_id`

func scanDonation(s interface{ Scan(...any) error }) (*model.Donation, error) {
	d := &model.Donation{}
	var unit, description, location, via, address, instructions sql.NullString
	err := s.Scan(&d.ID, &d.DonorID, &d.Item, &d.Type, &d.Quantity, &unit, &description,
		&location, &d.Matched, &via, &d.Flagged, &d.Status, &address, &instructions,
		&d.DeliveryDate, &d.CreatedAt, &d.UpdatedAt, &d.DonorName)
	if err != nil {
		return nil, err
	}
	d.Unit = unit.String
	d.Description = description.String
	d.Location = location.String
	d.MatchedVia = via.String
	d.DeliveryAddress = address.String
	d.DeliveryInstructions = instructions.String
	return d, nil
}

// CreateDonation creates a new, unmatched donation.
func CreateDonation(ctx context.Context, db *sql.DB, donorID int64, in model.DonationInput) (*model.Donation, error) {
	donationType := in.Type
	if donationType == "" {
		donationType = model.DonationTypeGoods
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO donations (donor_id, item, donation_type, quantity, unit, description, location,
		                        delivery_address, delivery_instructions)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		donorID, in.Item, donationType, in.Quantity, in.Unit, in.Description, in.Location,
		in.DeliveryAddress, in.DeliveryInstructions,
	)
	if err != nil {
		return nil, fmt.Errorf("creating donation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting donation id: %w", err)
	}

	return GetDonation(ctx, db, id)
}

// GetDonation returns a donation by ID.
func GetDonation(ctx context.Context, db *sql.DB, id int64) (*model.Donation, error) {
	d, err := scanDonation(db.QueryRowContext(ctx,
		`SELECT `+donationColumns+donationFrom+` WHERE d.id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting donation: %w", err)
	}
	return d, nil
}

// ListDonations returns donations newest first, narrowed by f.
func ListDonations(ctx context.Context, db *sql.DB, f DonationFilter) ([]model.Donation, error) {
	query := `SELECT ` + donationColumns + donationFrom + ` WHERE 1=1`
	var args []any

	if f.DonorID > 0 {
		query += ` AND d.donor_id = ?`
		args = append(args, f.DonorID)
	}
	if f.UnmatchedOnly {
		query += ` AND d.matched = 0`
	}
	if text := strings.TrimSpace(f.Text); text != "" {
		p := likePattern(text)
		query += ` AND (casefold(d.item) LIKE casefold(?) ESCAPE '\'
		            OR casefold(COALESCE(d.description, '')) LIKE casefold(?) ESCAPE '\')`
		args = append(args, p, p)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		query += ` AND casefold(COALESCE(d.location, '')) LIKE casefold(?) ESCAPE '\'`
		args = append(args, likePattern(loc))
	}

	query += ` ORDER BY d.created_at DESC, d.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing donations: %w", err)
	}
	defer rows.Close()

	var donations []model.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning donation: %w", err)
		}
		donations = append(donations, *d)
	}
	return donations, rows.Err()
}

// UpdateDonation writes the editable fields of d. Match and flag state are
// not touched here.
func UpdateDonation(ctx context.Context, db *sql.DB, d *model.Donation) error {
	result, err := db.ExecContext(ctx,
		`UPDATE donations
		 SET item = ?, donation_type = ?, quantity = ?, unit = ?, description = ?, location = ?,
		     status = ?, delivery_address = ?, delivery_instructions = ?, delivery_date = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		d.Item, d.Type, d.Quantity, d.Unit, d.Description, d.Location,
		d.Status, d.DeliveryAddress, d.DeliveryInstructions, d.DeliveryDate, d.ID,
	)
	if err != nil {
		return fmt.Errorf("updating donation: %w", err)
	}
	return requireOneRow(result, ErrDonationNotFound)
}

// SetDonationMatched sets the matched flag directly, bypassing the matching
// engine. Match rows are left as they are; the change is recorded as an
// override.
func SetDonationMatched(ctx context.Context, db *sql.DB, id int64, matched bool) error {
	var via any
	if matched {
		via = model.ViaOverride
	}
	result, err := db.ExecContext(ctx,
		`UPDATE donations SET matched = ?, matched_via = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		boolInt(matched), via, id,
	)
	if err != nil {
		return fmt.Errorf("setting donation matched: %w", err)
	}
	return requireOneRow(result, ErrDonationNotFound)
}

// DeleteDonation deletes a donation with its media and reports. Donations
// referenced by a match are kept and ErrDonationHasMatch is returned.
func DeleteDonation(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE donation_id = ?`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking donation matches: %w", err)
	}
	if count > 0 {
		return ErrDonationHasMatch
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM donations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting donation: %w", err)
	}
	if err := requireOneRow(result, ErrDonationNotFound); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing donation delete: %w", err)
	}
	return nil
}

// likePattern turns s into a substring pattern with LIKE wildcards
// escaped. Case is folded in SQL by casefold.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
