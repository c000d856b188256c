package model

import "time"

// Match links one donation to one need. It is written once by the matching
// engine and never updated.
type Match struct {
	ID         int64     `json:"id"`
	DonationID int64     `json:"donation_id"`
	NeedID     int64     `json:"need_id"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	MatchedBy  *int64    `json:"matched_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	// Joined fields (not always populated).
	DonationItem string `json:"donation_item,omitempty"`
	NeedTitle    string `json:"need_title,omitempty"`
}

// MatchStatusMatched is the status of every match created by the engine.
const MatchStatusMatched = "matched"

// MatchFilter narrows match listings. Zero fields match everything.
type MatchFilter struct {
	DonationID int64
	NeedID     int64
	// Limit caps the number of rows returned. Zero means no limit.
	Limit int
}
