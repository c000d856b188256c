package model

import "time"

// DonationReport is a complaint filed against a donation.
type DonationReport struct {
	ID         int64     `json:"id"`
	DonationID int64     `json:"donation_id"`
	ReporterID int64     `json:"reporter_id"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`

	// Joined fields (not always populated).
	DonationItem string `json:"donation_item,omitempty"`
	ReporterName string `json:"reporter_name,omitempty"`
}
