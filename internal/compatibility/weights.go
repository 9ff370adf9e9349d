// internal/compatibility/weights.go
package compatibility

// Factor names a compatibility dimension.
type Factor string

const (
	FactorFinancial      Factor = "Financial"
	FactorStageSize      Factor = "Stage Size"
	FactorTechnical      Factor = "Technical"
	FactorAgeRestriction Factor = "Age Restriction"
	FactorHospitality    Factor = "Hospitality"
	FactorBackline       Factor = "Backline"
)

// factorWeights is the only place factor weights are defined. They sum to 100.
var factorWeights = map[Factor]int{
	FactorFinancial:      30,
	FactorStageSize:      20,
	FactorTechnical:      20,
	FactorAgeRestriction: 15,
	FactorHospitality:    10,
	FactorBackline:       5,
}

// Weight returns the configured weight for f, or 0 for an unknown factor.
func Weight(f Factor) int {
	return factorWeights[f]
}

// Classification thresholds for results without deal-breakers.
const (
	excellentThreshold = 85
	goodThreshold      = 70
)

// Per-factor scores. Unknown always lands on the mid value so missing venue
// data is never scored as a failure.
const (
	scorePass    = 100
	scoreFail    = 0
	scoreUnknown = 50
	scorePartial = 80

	scoreEstimatedFromCapacity = 85
	scoreEstimatedNoCapacity   = 70
)

// capacityTier maps a minimum venue capacity to an estimated max guarantee.
type capacityTier struct {
	minCapacity int
	guarantee   int64 // cents
}

// Guarantee estimates by venue capacity, highest tier first. These are house
// heuristics; confirm with the booking team before changing them.
var capacityTiers = []capacityTier{
	{minCapacity: 1000, guarantee: 250000},
	{minCapacity: 500, guarantee: 120000},
	{minCapacity: 200, guarantee: 50000},
	{minCapacity: 0, guarantee: 25000},
}

// unknownCapacityGuarantee is the estimate when the venue has no usable capacity.
const unknownCapacityGuarantee int64 = 250

// EstimateGuaranteeByCapacity returns the estimated maximum guarantee, in
// cents, a venue of the given capacity can typically pay.
func EstimateGuaranteeByCapacity(capacity *int) int64 {
	if capacity == nil || *capacity <= 0 {
		return unknownCapacityGuarantee
	}
	for _, tier := range capacityTiers {
		if *capacity >= tier.minCapacity {
			return tier.guarantee
		}
	}
	return capacityTiers[len(capacityTiers)-1].guarantee
}
