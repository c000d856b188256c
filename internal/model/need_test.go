package model

import "testing"

func strPtr(s string) *string { return &s }

func TestNeedPatchIgnoresUnknownEnums(t *testing.T) {
	n := Need{
		Title:    "Rice",
		Category: CategoryFood,
		Urgency:  UrgencyMedium,
		Status:   NeedStatusActive,
	}

	changed := NeedPatch{
		Category: strPtr("weapons"),
		Urgency:  strPtr("extreme"),
		Status:   strPtr("archived"),
		Location: strPtr("Ljubljana"),
	}.Apply(&n)

	if changed {
		t.Error("expected no status change for unknown status")
	}
	if n.Category != CategoryFood || n.Urgency != UrgencyMedium || n.Status != NeedStatusActive {
		t.Errorf("unknown enum values should be ignored, got %+v", n)
	}
	if n.Location != "Ljubljana" {
		t.Errorf("expected location to be updated, got %q", n.Location)
	}
}

func TestNeedPatchStatus(t *testing.T) {
	n := Need{Title: "Tent", Status: NeedStatusActive}

	if !(NeedPatch{Status: strPtr(NeedStatusCancelled)}).Apply(&n) {
		t.Fatal("expected status change")
	}
	if n.Status != NeedStatusCancelled || n.Fulfilled {
		t.Errorf("unexpected need after cancel: %+v", n)
	}

	// Empty title is not applied.
	(NeedPatch{Title: strPtr("")}).Apply(&n)
	if n.Title != "Tent" {
		t.Errorf("empty title should be ignored, got %q", n.Title)
	}
}

func TestDonationPatchIgnoresUnknownType(t *testing.T) {
	d := Donation{Item: "Blanket", Type: DonationTypeGoods}
	qty := -1.0

	DonationPatch{Type: strPtr("crypto"), Quantity: &qty, Unit: strPtr("pcs")}.Apply(&d)

	if d.Type != DonationTypeGoods {
		t.Errorf("unknown type should be ignored, got %q", d.Type)
	}
	if d.Quantity != 0 {
		t.Errorf("negative quantity should be ignored, got %v", d.Quantity)
	}
	if d.Unit != "pcs" {
		t.Errorf("expected unit 'pcs', got %q", d.Unit)
	}
}

func TestDonationPatchDeliveryDate(t *testing.T) {
	d := Donation{Item: "Blanket"}

	if err := (DonationPatch{DeliveryDate: strPtr("2026-12-01")}).Apply(&d); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if d.DeliveryDate == nil || d.DeliveryDate.Day() != 1 {
		t.Fatalf("expected delivery date to be set, got %v", d.DeliveryDate)
	}

	err := DonationPatch{Item: strPtr("Quilt"), DeliveryDate: strPtr("next week")}.Apply(&d)
	if err == nil {
		t.Fatal("expected error for unparseable date")
	}
	if d.Item != "Blanket" {
		t.Errorf("failed patch should leave donation unchanged, got %q", d.Item)
	}

	(DonationPatch{DeliveryDate: strPtr("")}).Apply(&d)
	if d.DeliveryDate != nil {
		t.Errorf("empty date should clear it, got %v", d.DeliveryDate)
	}
}

func TestDonationPatchStatus(t *testing.T) {
	d := Donation{Item: "Blanket", Status: DonationStatusPending}

	DonationPatch{Status: strPtr(DonationStatusAccepted)}.Apply(&d)
	if d.Status != DonationStatusAccepted {
		t.Errorf("expected status accepted, got %q", d.Status)
	}

	DonationPatch{Status: strPtr("lost in transit")}.Apply(&d)
	if d.Status != DonationStatusAccepted {
		t.Errorf("unknown status should be ignored, got %q", d.Status)
	}
}
