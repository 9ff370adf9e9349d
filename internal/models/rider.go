// internal/models/rider.go
package models

import (
	"database/sql"

	"booking-workers/internal/compatibility"
)

// RiderStatusPublished is the only rider status venues may accept.
const RiderStatusPublished = "published"

// RiderColumns is the select list matching SpiderRiderRow.ScanTargets.
const RiderColumns = `r.id, r.band_id, COALESCE(b.name, ''), r.version, r.status, r.acceptance_count,
	r.guarantee_min, r.min_stage_width_feet, r.min_stage_depth_feet, r.min_input_channels,
	r.requires_house_drums, r.age_restriction, r.meal_buyout_amount, r.drink_tickets_count,
	r.guest_list_allocation, r.green_room_requirements`

// SpiderRiderRow is a spider_riders row joined with its band name.
type SpiderRiderRow struct {
	ID              string
	BandID          string
	BandName        string
	Version         string
	Status          string
	AcceptanceCount int

	GuaranteeMin          sql.NullInt64
	MinStageWidthFeet     sql.NullFloat64
	MinStageDepthFeet     sql.NullFloat64
	MinInputChannels      sql.NullInt64
	RequiresHouseDrums    sql.NullBool
	AgeRestriction        sql.NullString
	MealBuyoutAmount      sql.NullInt64
	DrinkTicketsCount     sql.NullInt64
	GuestListAllocation   sql.NullInt64
	GreenRoomRequirements sql.NullString
}

func (r *SpiderRiderRow) ScanTargets() []interface{} {
	return []interface{}{
		&r.ID, &r.BandID, &r.BandName, &r.Version, &r.Status, &r.AcceptanceCount,
		&r.GuaranteeMin, &r.MinStageWidthFeet, &r.MinStageDepthFeet, &r.MinInputChannels,
		&r.RequiresHouseDrums, &r.AgeRestriction, &r.MealBuyoutAmount, &r.DrinkTicketsCount,
		&r.GuestListAllocation, &r.GreenRoomRequirements,
	}
}

// RiderProfile is the cacheable form of a rider.
type RiderProfile struct {
	ID              string              `json:"id"`
	BandID          string              `json:"bandId"`
	BandName        string              `json:"bandName"`
	Version         string              `json:"version"`
	Status          string              `json:"status"`
	AcceptanceCount int                 `json:"acceptanceCount"`
	Rider           compatibility.Rider `json:"rider"`
}

func (p RiderProfile) IsPublished() bool {
	return p.Status == RiderStatusPublished
}

func (r *SpiderRiderRow) ToProfile() RiderProfile {
	return RiderProfile{
		ID:              r.ID,
		BandID:          r.BandID,
		BandName:        r.BandName,
		Version:         r.Version,
		Status:          r.Status,
		AcceptanceCount: r.AcceptanceCount,
		Rider: compatibility.Rider{
			GuaranteeMin:          nullInt64(r.GuaranteeMin),
			MinStageWidthFeet:     nullFloat(r.MinStageWidthFeet),
			MinStageDepthFeet:     nullFloat(r.MinStageDepthFeet),
			MinInputChannels:      nullInt(r.MinInputChannels),
			RequiresHouseDrums:    nullBool(r.RequiresHouseDrums),
			AgeRestriction:        r.AgeRestriction.String,
			MealBuyoutAmount:      nullInt64(r.MealBuyoutAmount),
			DrinkTicketsCount:     nullInt(r.DrinkTicketsCount),
			GuestListAllocation:   nullInt(r.GuestListAllocation),
			GreenRoomRequirements: r.GreenRoomRequirements.String,
		},
	}
}

func nullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullBool(v sql.NullBool) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Bool
	return &b
}
