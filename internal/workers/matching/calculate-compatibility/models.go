// internal/workers/matching/calculate-compatibility/models.go
package calculatecompatibility

import (
	"encoding/json"
	"time"

	"booking-workers/internal/compatibility"
)

// Input names the pair by id, inline payload or both. Inline payloads win.
type Input struct {
	RiderID string          `json:"riderId,omitempty" validate:"required_without=Rider"`
	VenueID string          `json:"venueId,omitempty" validate:"required_without=Venue"`
	Rider   json.RawMessage `json:"rider,omitempty"`
	Venue   json.RawMessage `json:"venue,omitempty"`
}

type Output struct {
	RiderID           string               `json:"riderId,omitempty"`
	VenueID           string               `json:"venueId,omitempty"`
	Compatibility     compatibility.Result `json:"compatibility"`
	CanRequestBooking bool                 `json:"canRequestBooking"`
	EvaluatedAt       time.Time            `json:"evaluatedAt"`
}
