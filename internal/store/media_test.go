package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/donamatch/internal/db"
	"github.com/erazemk/donamatch/internal/model"
)

func TestDonationMedia(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := mustUser(t, database, "dana", model.RoleDonor)
	d := mustDonation(t, database, donor.ID, model.DonationInput{Item: "Tent"})

	m, err := AddDonationMedia(ctx, database, d.ID, []byte("fake image data"), "image/jpeg")
	if err != nil {
		t.Fatalf("AddDonationMedia: %v", err)
	}
	if m.Size != len("fake image data") {
		t.Errorf("expected size %d, got %d", len("fake image data"), m.Size)
	}

	data, mime, err := GetDonationMedia(ctx, database, m.ID)
	if err != nil {
		t.Fatalf("GetDonationMedia: %v", err)
	}
	if string(data) != "fake image data" {
		t.Errorf("expected image data, got %q", string(data))
	}
	if mime != "image/jpeg" {
		t.Errorf("expected mime 'image/jpeg', got %q", mime)
	}

	list, _ := ListDonationMedia(ctx, database, d.ID)
	if len(list) != 1 {
		t.Errorf("expected 1 media entry, got %d", len(list))
	}

	missing, _, err := GetDonationMedia(ctx, database, 9999)
	if err != nil || missing != nil {
		t.Errorf("expected nil data for missing media, got %v, %v", missing, err)
	}
}

func TestAddDonationMediaUnknownDonation(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := AddDonationMedia(context.Background(), database, 9999, []byte("x"), "image/png")
	if !errors.Is(err, ErrDonationNotFound) {
		t.Errorf("expected ErrDonationNotFound, got %v", err)
	}
}
