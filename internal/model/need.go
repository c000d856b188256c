package model

import "time"

// Need is a resource request submitted by a recipient.
type Need struct {
	ID          int64     `json:"id"`
	RecipientID int64     `json:"recipient_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Urgency     string    `json:"urgency_level"`
	Status      string    `json:"status"`
	StatusVia   string    `json:"status_via,omitempty"`
	Fulfilled   bool      `json:"fulfilled"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit,omitempty"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	RecipientName string `json:"recipient_name,omitempty"`
}

// Need statuses.
const (
	NeedStatusActive    = "active"
	NeedStatusFulfilled = "fulfilled"
	NeedStatusCancelled = "cancelled"
)

// Need categories.
const (
	CategoryFood      = "food"
	CategoryClothing  = "clothing"
	CategoryShelter   = "shelter"
	CategoryMedical   = "medical"
	CategoryEducation = "education"
	CategoryTransport = "transport"
	CategoryOther     = "other"
)

// Urgency levels.
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// ValidNeedStatus reports whether s is a known need status.
func ValidNeedStatus(s string) bool {
	switch s {
	case NeedStatusActive, NeedStatusFulfilled, NeedStatusCancelled:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known need category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryFood, CategoryClothing, CategoryShelter, CategoryMedical,
		CategoryEducation, CategoryTransport, CategoryOther:
		return true
	}
	return false
}

// ValidUrgency reports whether u is a known urgency level.
func ValidUrgency(u string) bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// NeedInput carries the fields of a new need.
type NeedInput struct {
	Title       string
	Description string
	Category    string
	Urgency     string
	Quantity    float64
	Unit        string
	Location    string
}

// NeedFilter narrows need listings. Empty fields match everything.
type NeedFilter struct {
	Category    string
	Urgency     string
	Status      string
	RecipientID int64
}

// NeedPatch is a partial update. Nil fields are left unchanged.
type NeedPatch struct {
	Title       *string
	Description *string
	Category    *string
	Urgency     *string
	Status      *string
	Quantity    *float64
	Unit        *string
	Location    *string
}

// Apply copies the set fields of p onto n. Unknown category, urgency and
// status values are ignored. It reports whether the status changed.
func (p NeedPatch) Apply(n *Need) (statusChanged bool) {
	if p.Title != nil && *p.Title != "" {
		n.Title = *p.Title
	}
	if p.Description != nil {
		n.Description = *p.Description
	}
	if p.Category != nil && ValidCategory(*p.Category) {
		n.Category = *p.Category
	}
	if p.Urgency != nil && ValidUrgency(*p.Urgency) {
		n.Urgency = *p.Urgency
	}
	if p.Status != nil && ValidNeedStatus(*p.Status) && *p.Status != n.Status {
		n.Status = *p.Status
		n.Fulfilled = n.Status == NeedStatusFulfilled
		statusChanged = true
	}
	if p.Quantity != nil && *p.Quantity >= 0 {
		n.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		n.Unit = *p.Unit
	}
	if p.Location != nil {
		n.Location = *p.Location
	}
	return statusChanged
}
