// internal/models/venue.go
package models

import (
	"database/sql"

	"github.com/lib/pq"

	"booking-workers/internal/compatibility"
)

const VenueColumns = `v.id, v.name, COALESCE(v.slug, ''), COALESCE(v.city, ''), v.claimed_by,
	v.contact_email, v.contact_phone, v.capacity, v.stage_width_feet, v.stage_depth_feet,
	v.input_channels, v.has_house_drums, v.has_backline, v.typical_guarantee_min,
	v.typical_guarantee_max, v.age_restrictions`

type VenueRow struct {
	ID           string
	Name         string
	Slug         string
	City         string
	ClaimedBy    sql.NullString
	ContactEmail sql.NullString
	ContactPhone sql.NullString

	Capacity            sql.NullInt64
	StageWidthFeet      sql.NullFloat64
	StageDepthFeet      sql.NullFloat64
	InputChannels       sql.NullInt64
	HasHouseDrums       sql.NullBool
	HasBackline         sql.NullBool
	TypicalGuaranteeMin sql.NullInt64
	TypicalGuaranteeMax sql.NullInt64
	AgeRestrictions     pq.StringArray
}

func (v *VenueRow) ScanTargets() []interface{} {
	return []interface{}{
		&v.ID, &v.Name, &v.Slug, &v.City, &v.ClaimedBy,
		&v.ContactEmail, &v.ContactPhone, &v.Capacity, &v.StageWidthFeet, &v.StageDepthFeet,
		&v.InputChannels, &v.HasHouseDrums, &v.HasBackline, &v.TypicalGuaranteeMin,
		&v.TypicalGuaranteeMax, &v.AgeRestrictions,
	}
}

// VenueProfile is the cacheable form of a venue.
type VenueProfile struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Slug         string              `json:"slug,omitempty"`
	City         string              `json:"city,omitempty"`
	ClaimedBy    string              `json:"claimedBy,omitempty"`
	ContactEmail string              `json:"contactEmail,omitempty"`
	ContactPhone string              `json:"contactPhone,omitempty"`
	Venue        compatibility.Venue `json:"venue"`
}

// OwnedBy reports whether userID has claimed the venue.
func (p VenueProfile) OwnedBy(userID string) bool {
	return p.ClaimedBy != "" && p.ClaimedBy == userID
}

func (v *VenueRow) ToProfile() VenueProfile {
	var ages []string
	if len(v.AgeRestrictions) > 0 {
		ages = append(ages, v.AgeRestrictions...)
	}
	return VenueProfile{
		ID:           v.ID,
		Name:         v.Name,
		Slug:         v.Slug,
		City:         v.City,
		ClaimedBy:    v.ClaimedBy.String,
		ContactEmail: v.ContactEmail.String,
		ContactPhone: v.ContactPhone.String,
		Venue: compatibility.Venue{
			Capacity:            nullInt(v.Capacity),
			StageWidthFeet:      nullFloat(v.StageWidthFeet),
			StageDepthFeet:      nullFloat(v.StageDepthFeet),
			InputChannels:       nullInt(v.InputChannels),
			HasHouseDrums:       nullBool(v.HasHouseDrums),
			HasBackline:         nullBool(v.HasBackline),
			TypicalGuaranteeMin: nullInt64(v.TypicalGuaranteeMin),
			TypicalGuaranteeMax: nullInt64(v.TypicalGuaranteeMax),
			AgeRestrictions:     ages,
		},
	}
}
