// internal/compatibility/types.go
package compatibility

// CheckStatus is the verdict of a single factor evaluator.
type CheckStatus string

const (
	StatusPass    CheckStatus = "pass"
	StatusPartial CheckStatus = "partial"
	StatusFail    CheckStatus = "fail"
	StatusUnknown CheckStatus = "unknown"
)

// MatchStatus classifies the aggregate result.
type MatchStatus string

const (
	MatchExcellent    MatchStatus = "excellent"
	MatchGood         MatchStatus = "good"
	MatchPartial      MatchStatus = "partial"
	MatchIncompatible MatchStatus = "incompatible"
)

// AllAges is the age-restriction code that imposes no restriction.
const AllAges = "all_ages"

// Rider holds a performer's published requirements. Nil pointers and empty
// strings mean the rider states no constraint for that field.
type Rider struct {
	GuaranteeMin       *int64   `json:"guarantee_min,omitempty"` // cents
	MinStageWidthFeet  *float64 `json:"min_stage_width_feet,omitempty"`
	MinStageDepthFeet  *float64 `json:"min_stage_depth_feet,omitempty"`
	MinInputChannels   *int     `json:"min_input_channels,omitempty"`
	RequiresHouseDrums *bool    `json:"requires_house_drums,omitempty"`
	AgeRestriction     string   `json:"age_restriction,omitempty"`

	MealBuyoutAmount      *int64 `json:"meal_buyout_amount,omitempty"` // cents
	DrinkTicketsCount     *int   `json:"drink_tickets_count,omitempty"`
	GuestListAllocation   *int   `json:"guest_list_allocation,omitempty"`
	GreenRoomRequirements string `json:"green_room_requirements,omitempty"`
}

// Venue holds a venue's declared capabilities. A nil boolean means the venue
// has not said either way.
type Venue struct {
	Capacity            *int     `json:"capacity,omitempty"`
	StageWidthFeet      *float64 `json:"stage_width_feet,omitempty"`
	StageDepthFeet      *float64 `json:"stage_depth_feet,omitempty"`
	InputChannels       *int     `json:"input_channels,omitempty"`
	HasHouseDrums       *bool    `json:"has_house_drums,omitempty"`
	HasBackline         *bool    `json:"has_backline,omitempty"`
	TypicalGuaranteeMin *int64   `json:"typical_guarantee_min,omitempty"` // cents
	TypicalGuaranteeMax *int64   `json:"typical_guarantee_max,omitempty"` // cents
	AgeRestrictions     []string `json:"age_restrictions,omitempty"`
}

// Check is one evaluator's verdict.
type Check struct {
	Factor  Factor      `json:"factor"`
	Weight  int         `json:"weight"`
	Score   int         `json:"score"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
}

// Result is the aggregate of all checks for one rider/venue pair.
type Result struct {
	OverallScore int         `json:"overallScore"`
	Status       MatchStatus `json:"status"`
	Checks       []Check     `json:"checks"`
	DealBreakers []string    `json:"dealBreakers"`
}

// CanRequestBooking reports whether the pair may proceed to a booking request.
func (r Result) CanRequestBooking() bool {
	return r.Status != MatchIncompatible
}

// Check returns the check for factor f, if present.
func (r Result) Check(f Factor) (Check, bool) {
	for _, c := range r.Checks {
		if c.Factor == f {
			return c, true
		}
	}
	return Check{}, false
}

// Evaluator judges one compatibility dimension.
type Evaluator func(rider Rider, venue Venue) Check

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func int64Value(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func floatValue(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func boolValue(p *bool) bool {
	return p != nil && *p
}
