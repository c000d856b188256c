package model

import "time"

// DonationMedia is an image attached to a donation.
type DonationMedia struct {
	ID         int64     `json:"id"`
	DonationID int64     `json:"donation_id"`
	MIME       string    `json:"mime"`
	Size       int       `json:"size"`
	CreatedAt  time.Time `json:"created_at"`
}
