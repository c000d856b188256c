package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/donamatch/internal/model"
)

// AddDonationMedia stores an image for a donation.
func AddDonationMedia(ctx context.Context, db *sql.DB, donationID int64, data []byte, mime string) (*model.DonationMedia, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO donation_media (donation_id, data, mime) VALUES (?, ?, ?)`,
		donationID, data, mime,
	)
	if isForeignKeyViolation(err) {
		return nil, ErrDonationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storing donation media: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting media id: %w", err)
	}

	m := &model.DonationMedia{}
	err = db.QueryRowContext(ctx,
		`SELECT id, donation_id, mime, LENGTH(data), created_at FROM donation_media WHERE id = ?`, id,
	).Scan(&m.ID, &m.DonationID, &m.MIME, &m.Size, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting donation media: %w", err)
	}
	return m, nil
}

// ListDonationMedia returns media metadata for a donation, oldest first.
func ListDonationMedia(ctx context.Context, db *sql.DB, donationID int64) ([]model.DonationMedia, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, donation_id, mime, LENGTH(data), created_at
		 FROM donation_media WHERE donation_id = ? ORDER BY id`, donationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing donation media: %w", err)
	}
	defer rows.Close()

	var media []model.DonationMedia
	for rows.Next() {
		var m model.DonationMedia
		if err := rows.Scan(&m.ID, &m.DonationID, &m.MIME, &m.Size, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning donation media: %w", err)
		}
		media = append(media, m)
	}
	return media, rows.Err()
}

// GetDonationMedia returns an image's data and MIME type.
func GetDonationMedia(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM donation_media WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting donation media: %w", err)
	}
	return data, mime, nil
}
