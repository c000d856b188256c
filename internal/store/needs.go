package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/donamatch/internal/model"
)

const needColumns = `n.id, n.recipient_id, n.title, n.description, n.category, n.urgency, n.status,
	n.status_via, n.quantity, n.unit, n.location, n.created_at, n.updated_at, u.username`

const needFrom = ` FROM needs n JOIN users u ON u.id = n.recipient_id`

func scanNeed(s interface{ Scan(...any) error }) (*model.Need, error) {
	n := &model.Need{}
	var description, via, unit, location sql.NullString
	err := s.Scan(&n.ID, &n.RecipientID, &n.Title, &description, &n.Category, &n.Urgency, &n.Status,
		&via, &n.Quantity, &unit, &location, &n.CreatedAt, &n.UpdatedAt, &n.RecipientName)
	if err != nil {
		return nil, err
	}
	n.Description = description.String
	n.StatusVia = via.String
	n.Unit = unit.String
	n.Location = location.String
	n.Fulfilled = n.Status == model.NeedStatusFulfilled
	return n, nil
}

// CreateNeed creates a new active need.
func CreateNeed(ctx context.Context, db *sql.DB, recipientID int64, in model.NeedInput) (*model.Need, error) {
	category := in.Category
	if category == "" {
		category = model.CategoryOther
	}
	urgency := in.Urgency
	if urgency == "" {
		urgency = model.UrgencyMedium
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO needs (recipient_id, title, description, category, urgency, quantity, unit, location)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		recipientID, in.Title, in.Description, category, urgency, in.Quantity, in.Unit, in.Location,
	)
	if err != nil {
		return nil, fmt.Errorf("creating need: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting need id: %w", err)
	}

	return GetNeed(ctx, db, id)
}

// GetNeed returns a need by ID.
func GetNeed(ctx context.Context, db *sql.DB, id int64) (*model.Need, error) {
	n, err := scanNeed(db.QueryRowContext(ctx,
		`SELECT `+needColumns+needFrom+` WHERE n.id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting need: %w", err)
	}
	return n, nil
}

// ListNeeds returns needs newest first, narrowed by f.
func ListNeeds(ctx context.Context, db *sql.DB, f model.NeedFilter) ([]model.Need, error) {
	query := `SELECT ` + needColumns + needFrom + ` WHERE 1=1`
	var args []any

	if f.RecipientID > 0 {
		query += ` AND n.recipient_id = ?`
		args = append(args, f.RecipientID)
	}
	if f.Category != "" {
		query += ` AND n.category = ?`
		args = append(args, f.Category)
	}
	if f.Urgency != "" {
		query += ` AND n.urgency = ?`
		args = append(args, f.Urgency)
	}
	if f.Status != "" {
		query += ` AND n.status = ?`
		args = append(args, f.Status)
	}

	query += ` ORDER BY n.created_at DESC, n.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing needs: %w", err)
	}
	defer rows.Close()

	var needs []model.Need
	for rows.Next() {
		n, err := scanNeed(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning need: %w", err)
		}
		needs = append(needs, *n)
	}
	return needs, rows.Err()
}

// UpdateNeed writes the editable fields of n, including status and
// status_via as set by the caller.
func UpdateNeed(ctx context.Context, db *sql.DB, n *model.Need) error {
	var via any
	if n.StatusVia != "" {
		via = n.StatusVia
	}
	result, err := db.ExecContext(ctx,
		`UPDATE needs
		 SET title = ?, description = ?, category = ?, urgency = ?, status = ?, status_via = ?,
		     quantity = ?, unit = ?, location = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		n.Title, n.Description, n.Category, n.Urgency, n.Status, via,
		n.Quantity, n.Unit, n.Location, n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating need: %w", err)
	}
	return requireOneRow(result, ErrNeedNotFound)
}

// SetNeedStatus sets a need's status directly, bypassing the matching
// engine. Match rows are left as they are; the change is recorded as an
// override.
func SetNeedStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE needs SET status = ?, status_via = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, model.ViaOverride, id,
	)
	if err != nil {
		return fmt.Errorf("setting need status: %w", err)
	}
	return requireOneRow(result, ErrNeedNotFound)
}

// DeleteNeed deletes a need. Needs referenced by a match are kept and
// ErrNeedHasMatch is returned.
func DeleteNeed(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE need_id = ?`, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking need matches: %w", err)
	}
	if count > 0 {
		return ErrNeedHasMatch
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM needs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting need: %w", err)
	}
	if err := requireOneRow(result, ErrNeedNotFound); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing need delete: %w", err)
	}
	return nil
}
