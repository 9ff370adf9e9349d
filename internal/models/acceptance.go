// internal/models/acceptance.go
package models

import "time"

// Acceptance is a venue's standing agreement to a rider's terms.
type Acceptance struct {
	ID                  string    `json:"id"`
	SpiderRiderID       string    `json:"spiderRiderId"`
	VenueID             string    `json:"venueId"`
	AcceptedBy          string    `json:"acceptedBy"`
	Notes               string    `json:"notes,omitempty"`
	IsActive            bool      `json:"isActive"`
	CompatibilityScore  int       `json:"compatibilityScore"`
	CompatibilityStatus string    `json:"compatibilityStatus"`
	CreatedAt           time.Time `json:"createdAt"`
}
