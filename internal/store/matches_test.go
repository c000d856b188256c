package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/erazemk/donamatch/internal/db"
	"github.com/erazemk/donamatch/internal/model"
)

func TestCreateMatch(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	admin := mustUser(t, database, "admin", model.RoleAdmin)
	donor := mustUser(t, database, "dana", model.RoleDonor)
	recipient := mustUser(t, database, "rita", model.RoleRecipient)

	d := mustDonation(t, database, donor.ID, model.DonationInput{Item: "Rice", Quantity: 10, Unit: "kg"})
	n := mustNeed(t, database, recipient.ID, model.NeedInput{Title: "Rice", Category: model.CategoryFood})

	m, err := CreateMatch(ctx, database, d.ID, n.ID, "pickup Friday", &admin.ID)
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if m.Status != model.MatchStatusMatched {
		t.Errorf("expected status matched, got %q", m.Status)
	}
	if m.DonationItem != "Rice" || m.NeedTitle != "Rice" {
		t.Errorf("expected joined names, got %q / %q", m.DonationItem, m.NeedTitle)
	}
	if m.MatchedBy == nil || *m.MatchedBy != admin.ID {
		t.Errorf("expected matched_by %d, got %v", admin.ID, m.MatchedBy)
	}

	gotD, _ := GetDonation(ctx, database, d.ID)
	if !gotD.Matched || gotD.MatchedVia != model.ViaMatch {
		t.Errorf("expected donation matched via match, got %v/%q", gotD.Matched, gotD.MatchedVia)
	}
	gotN, _ := GetNeed(ctx, database, n.ID)
	if gotN.Status != model.NeedStatusFulfilled || gotN.StatusVia != model.ViaMatch {
		t.Errorf("expected need fulfilled via match, got %q/%q", gotN.Status, gotN.StatusVia)
	}

	unmatched, _ := ListDonations(ctx, database, DonationFilter{UnmatchedOnly: true})
	if len(unmatched) != 0 {
		t.Errorf("expected no unmatched donations, got %d", len(unmatched))
	}
	active, _ := ListNeeds(ctx, database, model.NeedFilter{Status: model.NeedStatusActive})
	if len(active) != 0 {
		t.Errorf("expected no active needs, got %d", len(active))
	}
}

func TestCreateMatchMissingRecords(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := mustUser(t, database, "dana", model.RoleDonor)
	recipient := mustUser(t, database, "rita", model.RoleRecipient)
	d := mustDonation(t, database, donor.ID, model.DonationInput{Item: "Rice"})
	n := mustNeed(t, database, recipient.ID, model.NeedInput{Title: "Rice"})

	_, err := CreateMatch(ctx, database, 9999, n.ID, "", nil)
	if !errors.Is(err, ErrDonationNotFound) {
		t.Errorf("expected ErrDonationNotFound, got %v", err)
	}
	_, err = CreateMatch(ctx, database, d.ID, 9999, "", nil)
	if !errors.Is(err, ErrNeedNotFound) {
		t.Errorf("expected ErrNeedNotFound, got %v", err)
	}

	// Nothing was written.
	got, _ := GetDonation(ctx, database, d.ID)
	if got.Matched {
		t.Error("expected donation to stay unmatched")
	}
}

func TestCreateMatchConflicts(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := mustUser(t, database, "dana", model.RoleDonor)
	recipient := mustUser(t, database, "rita", model.RoleRecipient)
	d1 := mustDonation(t, database, donor.ID, model.DonationInput{Item: "Rice"})
	d2 := mustDonation(t, database, donor.ID, model.DonationInput{Item: "Beans"})
	n1 := mustNeed(t, database, recipient.ID, model.NeedInput{Title: "Rice"})
	n2 := mustNeed(t, database, recipient.ID, model.NeedInput{Title: "Beans"})

	if _, err := CreateMatch(ctx, database, d1.ID, n1.ID, "", nil); err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	_, err := CreateMatch(ctx, database, d1.ID, n2.ID, "", nil)
	if !errors.Is(err, ErrDonationMatched) {
		t.Errorf("expected ErrDonationMatched, got %v", err)
	}
	_, err = CreateMatch(ctx, database, d2.ID, n1.ID, "", nil)
	if !errors.Is(err, ErrNeedNotActive) {
		t.Errorf("expected ErrNeedNotActive, got %v", err)
	}

	SetNeedStatus(ctx, database, n2.ID, model.NeedStatusCancelled)
	_, err = CreateMatch(ctx, database, d2.ID, n2.ID, "", nil)
	if !errors.Is(err, ErrNeedNotActive) {
		t.Errorf("expected ErrNeedNotActive for cancelled need, got %v", err)
	}
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected conflict base error, got %v", err)
	}

	matches, _ := ListMatches(ctx, database, model.MatchFilter{})
	if len(matches) != 1 {
		t.Errorf("expected exactly 1 match, got %d", len(matches))
	}
}

func TestCreateMatchRollsBackOnFailure(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := mustUser(t, database, "dana", model.RoleDonor)
	recipient := mustUser(t, database, "rita", model.RoleRecipient)
	d := mustDonation(t, database, donor.ID, model.DonationInput{Item: "Rice"})
	n := mustNeed(t, database, recipient.ID, model.NeedInput{Title: "Rice"})

	// Fail the last write of the transaction.
	_, err := database.ExecContext(ctx,
		`CREATE TRIGGER fail_match BEFORE INSERT ON matches BEGIN SELECT RAISE(ABORT, 'boom'); END`)
	if err != nil {
		t.Fatalf("creating trigger: %v", err)
	}

	if _, err := CreateMatch(ctx, database, d.ID, n.ID, "", nil); err == nil {
		t.Fatal("expected CreateMatch to fail")
	}

	gotD, _ := GetDonation(ctx, database, d.ID)
	if gotD.Matched {
		t.Error("expected donation update to be rolled back")
	}
	gotN, _ := GetNeed(ctx, database, n.ID)
	if gotN.Status != model.NeedStatusActive {
		t.Errorf("expected need to stay active, got %q", gotN.Status)
	}
}

func TestCreateMatchConcurrent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := mustUser(t, database, "dana", model.RoleDonor)
	recipient := mustUser(t, database, "rita", model.RoleRecipient)
	d := mustDonation(t, database, donor.ID, model.DonationInput{Item: "Rice"})

	var needIDs []int64
	for i := 0; i < 5; i++ {
		needIDs = append(needIDs, mustNeed(t, database, recipient.ID, model.NeedInput{Title: "Rice"}).ID)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(needIDs))
	for i, id := range needIDs {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			_, errs[i] = CreateMatch(ctx, database, d.ID, id, "", nil)
		}(i, id)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, ErrDonationMatched) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly 1 successful match, got %d", succeeded)
	}

	active, _ := ListNeeds(ctx, database, model.NeedFilter{Status: model.NeedStatusActive})
	if len(active) != 4 {
		t.Errorf("expected 4 needs to stay active, got %d", len(active))
	}
}

func TestListMatchesFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := mustUser(t, database, "dana", model.RoleDonor)
	recipient := mustUser(t, database, "rita", model.RoleRecipient)
	d1 := mustDonation(t, database, donor.ID, model.DonationInput{Item: "Rice"})
	d2 := mustDonation(t, database, donor.ID, model.DonationInput{Item: "Beans"})
	n1 := mustNeed(t, database, recipient.ID, model.NeedInput{Title: "Rice"})
	n2 := mustNeed(t, database, recipient.ID, model.NeedInput{Title: "Beans"})

	CreateMatch(ctx, database, d1.ID, n1.ID, "", nil)
	m2, _ := CreateMatch(ctx, database, d2.ID, n2.ID, "", nil)

	all, _ := ListMatches(ctx, database, model.MatchFilter{})
	if len(all) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(all))
	}
	if all[0].ID != m2.ID {
		t.Errorf("expected newest match first, got %d", all[0].ID)
	}

	byNeed, _ := ListMatches(ctx, database, model.MatchFilter{NeedID: n1.ID})
	if len(byNeed) != 1 || byNeed[0].DonationID != d1.ID {
		t.Errorf("expected match for need %d, got %v", n1.ID, byNeed)
	}

	missing, err := GetMatch(ctx, database, 9999)
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing match")
	}
}

func TestCreateMatchReturnsStoredRow(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := mustUser(t, database, "dana", model.RoleDonor)
	recipient := mustUser(t, database, "rita", model.RoleRecipient)
	d := mustDonation(t, database, donor.ID, model.DonationInput{Item: "Rice"})
	n := mustNeed(t, database, recipient.ID, model.NeedInput{Title: "Rice"})

	m, err := CreateMatch(ctx, database, d.ID, n.ID, "", nil)
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if m == nil || m.ID <= 0 {
		t.Fatalf("expected the new match, got %v", m)
	}

	stored, err := GetMatch(ctx, database, m.ID)
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if stored == nil || stored.DonationID != d.ID || stored.NeedID != n.ID {
		t.Errorf("expected stored match %d for donation %d and need %d, got %v", m.ID, d.ID, n.ID, stored)
	}
}

func TestListMatchesLimit(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := mustUser(t, database, "dana", model.RoleDonor)
	recipient := mustUser(t, database, "rita", model.RoleRecipient)

	var last *model.Match
	for i := 0; i < 4; i++ {
		d := mustDonation(t, database, donor.ID, model.DonationInput{Item: "Rice"})
		n := mustNeed(t, database, recipient.ID, model.NeedInput{Title: "Rice"})
		m, err := CreateMatch(ctx, database, d.ID, n.ID, "", nil)
		if err != nil {
			t.Fatalf("CreateMatch #%d: %v", i+1, err)
		}
		last = m
	}

	limited, err := ListMatches(ctx, database, model.MatchFilter{Limit: 2})
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(limited))
	}
	if limited[0].ID != last.ID {
		t.Errorf("expected newest match %d first, got %d", last.ID, limited[0].ID)
	}

	all, _ := ListMatches(ctx, database, model.MatchFilter{})
	if len(all) != 4 {
		t.Errorf("expected 4 matches without a limit, got %d", len(all))
	}
}
