package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/donamatch/internal/model"
)

func mustUser(t *testing.T, database *sql.DB, username, role string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, username, username+"@example.org", "hash", role)
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u
}

func mustDonation(t *testing.T, database *sql.DB, donorID int64, in model.DonationInput) *model.Donation {
	t.Helper()
	d, err := CreateDonation(context.Background(), database, donorID, in)
	if err != nil {
		t.Fatalf("CreateDonation(%s): %v", in.Item, err)
	}
	return d
}

func mustNeed(t *testing.T, database *sql.DB, recipientID int64, in model.NeedInput) *model.Need {
	t.Helper()
	n, err := CreateNeed(context.Background(), database, recipientID, in)
	if err != nil {
		t.Fatalf("CreateNeed(%s): %v", in.Title, err)
	}
	return n
}
