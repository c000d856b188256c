package model

import (
	"fmt"
	"time"
)

// Donation is an offer submitted by a donor.
type Donation struct {
	ID                   int64      `json:"id"`
	DonorID              int64      `json:"donor_id"`
	Item                 string     `json:"item"`
	Type                 string     `json:"donation_type"`
	Quantity             float64    `json:"quantity"`
	Unit                 string     `json:"unit,omitempty"`
	Description          string     `json:"description,omitempty"`
	Location             string     `json:"location,omitempty"`
	Matched              bool       `json:"matched"`
	MatchedVia           string     `json:"matched_via,omitempty"`
	Flagged              bool       `json:"flagged"`
	Status               string     `json:"status"`
	DeliveryAddress      string     `json:"delivery_address,omitempty"`
	DeliveryInstructions string     `json:"delivery_instructions,omitempty"`
	DeliveryDate         *time.Time `json:"delivery_date,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// Joined fields (not always populated).
	DonorName string `json:"donor_name,omitempty"`
}

// Donation types.
const (
	DonationTypeGoods    = "goods"
	DonationTypeMonetary = "monetary"
	DonationTypeServices = "services"
)

// Delivery statuses. A donation starts pending; the donor or an admin moves
// it along as the handover happens.
const (
	DonationStatusPending   = "pending"
	DonationStatusAccepted  = "accepted"
	DonationStatusDelivered = "delivered"
	DonationStatusCancelled = "cancelled"
)

// ValidDonationStatus reports whether s is a known delivery status.
func ValidDonationStatus(s string) bool {
	switch s {
	case DonationStatusPending, DonationStatusAccepted, DonationStatusDelivered, DonationStatusCancelled:
		return true
	}
	return false
}

// Sources of a status change. Recorded next to the status so a matched
// donation or fulfilled need can be traced to the path that produced it.
const (
	ViaMatch    = "match"
	ViaOverride = "override"
	ViaOwner    = "owner"
)

// ValidDonationType reports whether t is a known donation type.
func ValidDonationType(t string) bool {
	switch t {
	case DonationTypeGoods, DonationTypeMonetary, DonationTypeServices:
		return true
	}
	return false
}

// DonationInput carries the fields of a new donation.
type DonationInput struct {
	Item                 string
	Type                 string
	Quantity             float64
	Unit                 string
	Description          string
	Location             string
	DeliveryAddress      string
	DeliveryInstructions string
}

// DonationPatch is a partial update. Nil fields are left unchanged.
type DonationPatch struct {
	Item                 *string
	Type                 *string
	Quantity             *float64
	Unit                 *string
	Description          *string
	Location             *string
	DeliveryAddress      *string
	DeliveryInstructions *string
	Status               *string
	// DeliveryDate is parsed with ParseDeliveryDate; "" clears it.
	DeliveryDate *string
}

// Apply copies the set fields of p onto d. Unknown donation types and
// statuses are ignored; an unparseable delivery date is an error and leaves d unchanged.
func (p DonationPatch) Apply(d *Donation) error {
	var date *time.Time
	if p.DeliveryDate != nil && *p.DeliveryDate != "" {
		t, err := ParseDeliveryDate(*p.DeliveryDate)
		if err != nil {
			return err
		}
		date = &t
	}

	if p.Item != nil && *p.Item != "" {
		d.Item = *p.Item
	}
	if p.Type != nil && ValidDonationType(*p.Type) {
		d.Type = *p.Type
	}
	if p.Status != nil && ValidDonationStatus(*p.Status) {
		d.Status = *p.Status
	}
	if p.Quantity != nil && *p.Quantity >= 0 {
		d.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		d.Unit = *p.Unit
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Location != nil {
		d.Location = *p.Location
	}
	if p.DeliveryAddress != nil {
		d.DeliveryAddress = *p.DeliveryAddress
	}
	if p.DeliveryInstructions != nil {
		d.DeliveryInstructions = *p.DeliveryInstructions
	}
	if p.DeliveryDate != nil {
		d.DeliveryDate = date
	}
	return nil
}

// ParseDeliveryDate accepts RFC 3339 timestamps or plain dates.
func ParseDeliveryDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid delivery date %q", s)
	}
	return t, nil
}
