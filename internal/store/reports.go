package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/donamatch/internal/model"
)

// CreateReport files a report against a donation and flags the donation in
// the same transaction.
func CreateReport(ctx context.Context, db *sql.DB, donationID, reporterID int64, reason string) (*model.DonationReport, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE donations SET flagged = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		donationID,
	)
	if err != nil {
		return nil, fmt.Errorf("flagging donation: %w", err)
	}
	if err := requireOneRow(result, ErrDonationNotFound); err != nil {
		return nil, err
	}

	result, err = tx.ExecContext(ctx,
		`INSERT INTO donation_reports (donation_id, reporter_id, reason) VALUES (?, ?, ?)`,
		donationID, reporterID, reason,
	)
	if err != nil {
		return nil, fmt.Errorf("recording report: %w", err)
	}

	reportID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting report id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing report: %w", err)
	}

	return GetReport(ctx, db, reportID)
}

const reportSelect = `SELECT r.id, r.donation_id, r.reporter_id, r.reason, r.created_at,
	        d.item AS donation_item, u.username AS reporter_name
	 FROM donation_reports r
	 JOIN donations d ON d.id = r.donation_id
	 JOIN users u ON u.id = r.reporter_id`

func scanReport(s interface{ Scan(...any) error }) (*model.DonationReport, error) {
	r := &model.DonationReport{}
	err := s.Scan(&r.ID, &r.DonationID, &r.ReporterID, &r.Reason, &r.CreatedAt,
		&r.DonationItem, &r.ReporterName)
	return r, err
}

// GetReport returns a report by ID.
func GetReport(ctx context.Context, db *sql.DB, id int64) (*model.DonationReport, error) {
	r, err := scanReport(db.QueryRowContext(ctx, reportSelect+` WHERE r.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting report: %w", err)
	}
	return r, nil
}

// ListReports returns open reports oldest first, optionally for one donation.
func ListReports(ctx context.Context, db *sql.DB, donationID int64) ([]model.DonationReport, error) {
	query := reportSelect
	var args []any
	if donationID > 0 {
		query += ` WHERE r.donation_id = ?`
		args = append(args, donationID)
	}
	query += ` ORDER BY r.created_at, r.id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var reports []model.DonationReport
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

// DeleteReport removes a resolved report. The donation's flag is left set
// unless clearFlag is true and no other reports remain for that donation.
// It returns the deleted report and whether the flag was cleared.
func DeleteReport(ctx context.Context, db *sql.DB, id int64, clearFlag bool) (*model.DonationReport, bool, error) {
	report, err := GetReport(ctx, db, id)
	if err != nil {
		return nil, false, err
	}
	if report == nil {
		return nil, false, ErrReportNotFound
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM donation_reports WHERE id = ?`, id)
	if err != nil {
		return nil, false, fmt.Errorf("deleting report: %w", err)
	}
	if err := requireOneRow(result, ErrReportNotFound); err != nil {
		return nil, false, err
	}

	cleared := false
	if clearFlag {
		var remaining int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM donation_reports WHERE donation_id = ?`, report.DonationID,
		).Scan(&remaining)
		if err != nil {
			return nil, false, fmt.Errorf("counting remaining reports: %w", err)
		}
		if remaining == 0 {
			_, err = tx.ExecContext(ctx,
				`UPDATE donations SET flagged = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
				report.DonationID,
			)
			if err != nil {
				return nil, false, fmt.Errorf("clearing donation flag: %w", err)
			}
			cleared = true
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("committing report resolution: %w", err)
	}
	return report, cleared, nil
}
