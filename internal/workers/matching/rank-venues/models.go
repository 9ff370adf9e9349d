// internal/workers/matching/rank-venues/models.go
package rankvenues

import (
	"encoding/json"

	"booking-workers/internal/compatibility"
)

type Input struct {
	RiderID             string          `json:"riderId,omitempty" validate:"required_without=Rider"`
	Rider               json.RawMessage `json:"rider,omitempty"`
	City                string          `json:"city,omitempty"`
	MinCapacity         int             `json:"minCapacity,omitempty" validate:"gte=0"`
	Limit               int             `json:"limit,omitempty" validate:"gte=0"`
	IncludeIncompatible bool            `json:"includeIncompatible,omitempty"`
}

type RankedVenue struct {
	VenueID           string                    `json:"venueId"`
	Name              string                    `json:"name"`
	City              string                    `json:"city,omitempty"`
	OverallScore      int                       `json:"overallScore"`
	Status            compatibility.MatchStatus `json:"status"`
	DealBreakers      []string                  `json:"dealBreakers"`
	CanRequestBooking bool                      `json:"canRequestBooking"`
}

type Output struct {
	RiderID         string        `json:"riderId,omitempty"`
	Venues          []RankedVenue `json:"venues"`
	TotalCandidates int           `json:"totalCandidates"`
	TotalCompatible int           `json:"totalCompatible"`
	Took            int           `json:"took"` // search time in ms
}
