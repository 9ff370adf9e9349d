// internal/compatibility/evaluators.go
package compatibility

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultEvaluators returns the six factor evaluators in reporting order.
func DefaultEvaluators() []Evaluator {
	return []Evaluator{
		EvaluateFinancial,
		EvaluateStageSize,
		EvaluateTechnical,
		EvaluateAgeRestriction,
		EvaluateHospitality,
		EvaluateBackline,
	}
}

func newCheck(f Factor, status CheckStatus, score int, message string) Check {
	return Check{
		Factor:  f,
		Weight:  Weight(f),
		Score:   score,
		Status:  status,
		Message: message,
	}
}

// EvaluateFinancial compares the rider's minimum guarantee with what the venue
// declares, falling back to a capacity-based estimate.
func EvaluateFinancial(rider Rider, venue Venue) Check {
	minimum := int64Value(rider.GuaranteeMin)
	if minimum <= 0 {
		return newCheck(FactorFinancial, StatusPass, scorePass, "No minimum guarantee required")
	}

	declared := venue.TypicalGuaranteeMax != nil
	capacityKnown := intValue(venue.Capacity) > 0

	ceiling := EstimateGuaranteeByCapacity(venue.Capacity)
	if declared {
		ceiling = *venue.TypicalGuaranteeMax
	}

	if ceiling >= minimum {
		if declared {
			return newCheck(FactorFinancial, StatusPass, scorePass,
				fmt.Sprintf("Venue max ($%s) meets minimum ($%s)", formatDollars(ceiling), formatDollars(minimum)))
		}
		score := scoreEstimatedNoCapacity
		if capacityKnown {
			score = scoreEstimatedFromCapacity
		}
		return newCheck(FactorFinancial, StatusPass, score,
			fmt.Sprintf("Estimated max ($%s) likely meets minimum ($%s)", formatDollars(ceiling), formatDollars(minimum)))
	}

	switch {
	case declared:
		return newCheck(FactorFinancial, StatusFail, scoreFail,
			fmt.Sprintf("Venue max ($%s) below minimum $%s", formatDollars(ceiling), formatDollars(minimum)))
	case capacityKnown:
		return newCheck(FactorFinancial, StatusFail, scoreFail,
			fmt.Sprintf("Venue capacity suggests max ~$%s — below minimum $%s", formatDollars(ceiling), formatDollars(minimum)))
	default:
		return newCheck(FactorFinancial, StatusUnknown, scoreUnknown,
			fmt.Sprintf("Need venue to confirm guarantee range (requires min $%s)", formatDollars(minimum)))
	}
}

// EvaluateStageSize requires both venue dimensions to cover the rider's minimums.
// A zero dimension counts as unset on either side.
func EvaluateStageSize(rider Rider, venue Venue) Check {
	reqWidth, reqDepth := floatValue(rider.MinStageWidthFeet), floatValue(rider.MinStageDepthFeet)
	if reqWidth == 0 && reqDepth == 0 {
		return newCheck(FactorStageSize, StatusPass, scorePass, "No specific stage size requirements")
	}

	width, depth := floatValue(venue.StageWidthFeet), floatValue(venue.StageDepthFeet)
	if width == 0 && depth == 0 {
		return newCheck(FactorStageSize, StatusUnknown, scoreUnknown,
			fmt.Sprintf("Need venue to confirm stage size (requires %sx%sft)", formatFeet(reqWidth), formatFeet(reqDepth)))
	}

	if width >= reqWidth && depth >= reqDepth {
		return newCheck(FactorStageSize, StatusPass, scorePass,
			fmt.Sprintf("Stage (%sx%sft) meets requirements (%sx%sft)",
				formatFeet(width), formatFeet(depth), formatFeet(reqWidth), formatFeet(reqDepth)))
	}
	return newCheck(FactorStageSize, StatusFail, scoreFail,
		fmt.Sprintf("Stage too small: %sx%sft vs %sx%sft required",
			formatFeet(width), formatFeet(depth), formatFeet(reqWidth), formatFeet(reqDepth)))
}

type issueKind int

const (
	issueUnconfirmed issueKind = iota
	issueMismatch
)

type techIssue struct {
	kind    issueKind
	message string
}

// EvaluateTechnical checks input channels and house drums. A hard mismatch on
// either fails the factor; otherwise anything unconfirmed leaves it unknown.
func EvaluateTechnical(rider Rider, venue Venue) Check {
	minChannels := intValue(rider.MinInputChannels)
	requiresDrums := boolValue(rider.RequiresHouseDrums)
	if minChannels <= 0 && !requiresDrums {
		return newCheck(FactorTechnical, StatusPass, scorePass, "No specific technical requirements")
	}

	var issues []techIssue
	if minChannels > 0 {
		channels := intValue(venue.InputChannels)
		switch {
		case channels >= minChannels:
		case channels > 0:
			issues = append(issues, techIssue{issueMismatch,
				fmt.Sprintf("Venue has %d channels, needs %d", channels, minChannels)})
		default:
			issues = append(issues, techIssue{issueUnconfirmed,
				fmt.Sprintf("Need venue to confirm input channels (requires %d)", minChannels)})
		}
	}
	if requiresDrums {
		switch {
		case boolValue(venue.HasHouseDrums):
		case venue.HasHouseDrums != nil:
			issues = append(issues, techIssue{issueMismatch, "Venue has no house drums — required"})
		default:
			issues = append(issues, techIssue{issueUnconfirmed, "Need venue to confirm house drums availability"})
		}
	}

	if len(issues) == 0 {
		return newCheck(FactorTechnical, StatusPass, scorePass, "Technical requirements met")
	}

	status, score := StatusUnknown, scoreUnknown
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		if issue.kind == issueMismatch {
			status, score = StatusFail, scoreFail
		}
		messages = append(messages, issue.message)
	}
	return newCheck(FactorTechnical, status, score, strings.Join(messages, "; "))
}

// EvaluateAgeRestriction matches the rider's audience restriction against the
// venue's declared policies.
func EvaluateAgeRestriction(rider Rider, venue Venue) Check {
	required := rider.AgeRestriction
	if required == "" || required == AllAges {
		return newCheck(FactorAgeRestriction, StatusPass, scorePass, "All ages OK")
	}

	if len(venue.AgeRestrictions) == 0 {
		return newCheck(FactorAgeRestriction, StatusUnknown, scoreUnknown,
			fmt.Sprintf("Rider requires %s — need venue to confirm age policy", required))
	}

	if slices.Contains(venue.AgeRestrictions, required) || slices.Contains(venue.AgeRestrictions, AllAges) {
		return newCheck(FactorAgeRestriction, StatusPass, scorePass, fmt.Sprintf("Venue allows %s", required))
	}
	return newCheck(FactorAgeRestriction, StatusFail, scoreFail,
		fmt.Sprintf("Venue does not allow %s (venue: %s)", required, strings.Join(venue.AgeRestrictions, ", ")))
}

// EvaluateHospitality never adjudicates perks. Any stated ask is left to the
// parties to negotiate. A rider with no asks passes so that a rider without
// requirements scores 100.
func EvaluateHospitality(rider Rider, _ Venue) Check {
	if !hasHospitalityAsk(rider) {
		return newCheck(FactorHospitality, StatusPass, scorePass, "No hospitality requirements")
	}
	return newCheck(FactorHospitality, StatusPartial, scorePartial,
		"Assume negotiable — confirm meal/drink tickets with venue")
}

func hasHospitalityAsk(rider Rider) bool {
	return int64Value(rider.MealBuyoutAmount) > 0 ||
		intValue(rider.DrinkTicketsCount) > 0 ||
		intValue(rider.GuestListAllocation) > 0 ||
		strings.TrimSpace(rider.GreenRoomRequirements) != ""
}

// EvaluateBackline resolves venue backline from has_backline, then
// has_house_drums. Only an explicit has_backline=false is a deal-breaker.
func EvaluateBackline(rider Rider, venue Venue) Check {
	if !boolValue(rider.RequiresHouseDrums) {
		return newCheck(FactorBackline, StatusPass, scorePass, "No backline required")
	}

	resolved := venue.HasBackline
	if resolved == nil {
		resolved = venue.HasHouseDrums
	}

	switch {
	case boolValue(resolved):
		return newCheck(FactorBackline, StatusPass, scorePass, "Venue has backline/house drums")
	case venue.HasBackline != nil:
		return newCheck(FactorBackline, StatusFail, scoreFail, "Venue has no backline — required")
	default:
		return newCheck(FactorBackline, StatusUnknown, scoreUnknown, "Need venue to confirm backline availability")
	}
}
