// internal/workers/booking/accept-rider/models.go
package acceptrider

import (
	"time"

	"booking-workers/internal/compatibility"
)

type Input struct {
	SpiderRiderID string `json:"spiderRiderId" validate:"required"`
	VenueID       string `json:"venueId" validate:"required"`
	UserID        string `json:"userId" validate:"required"`
	Notes         string `json:"notes,omitempty" validate:"max=2000"`
}

type Output struct {
	AcceptanceID        string                    `json:"acceptanceId"`
	SpiderRiderID       string                    `json:"spiderRiderId"`
	VenueID             string                    `json:"venueId"`
	VenueName           string                    `json:"venueName"`
	BandID              string                    `json:"bandId"`
	BandName            string                    `json:"bandName"`
	CompatibilityScore  int                       `json:"compatibilityScore"`
	CompatibilityStatus compatibility.MatchStatus `json:"compatibilityStatus"`
	AcceptedAt          time.Time                 `json:"acceptedAt"`
}
