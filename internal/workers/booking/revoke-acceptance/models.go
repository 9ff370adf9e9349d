// internal/workers/booking/revoke-acceptance/models.go
package revokeacceptance

import "time"

type Input struct {
	AcceptanceID string `json:"acceptanceId" validate:"required"`
	UserID       string `json:"userId" validate:"required"`
}

type Output struct {
	AcceptanceID  string    `json:"acceptanceId"`
	SpiderRiderID string    `json:"spiderRiderId"`
	VenueID       string    `json:"venueId"`
	Revoked       bool      `json:"revoked"`
	RevokedAt     time.Time `json:"revokedAt"`
}
