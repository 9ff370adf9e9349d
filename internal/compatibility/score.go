// internal/compatibility/score.go
package compatibility

import "math"

// Calculate evaluates a rider against a venue with the default evaluators.
func Calculate(rider Rider, venue Venue) Result {
	return CalculateWith(rider, venue, DefaultEvaluators()...)
}

// CalculateWith aggregates an arbitrary evaluator set. The overall score is
// normalised by the sum of the weights actually present.
func CalculateWith(rider Rider, venue Venue, evaluators ...Evaluator) Result {
	checks := make([]Check, 0, len(evaluators))
	dealBreakers := []string{}

	totalWeight := 0
	weighted := 0.0
	for _, evaluate := range evaluators {
		check := evaluate(rider, venue)
		checks = append(checks, check)

		totalWeight += check.Weight
		weighted += float64(check.Score*check.Weight) / 100
		if check.Status == StatusFail {
			dealBreakers = append(dealBreakers, check.Message)
		}
	}

	overall := 0
	if totalWeight > 0 {
		overall = int(math.Round(weighted * 100 / float64(totalWeight)))
	}
	overall = min(max(overall, 0), 100)

	return Result{
		OverallScore: overall,
		Status:       classify(overall, len(dealBreakers) > 0),
		Checks:       checks,
		DealBreakers: dealBreakers,
	}
}

func classify(overall int, hasDealBreaker bool) MatchStatus {
	switch {
	case hasDealBreaker:
		return MatchIncompatible
	case overall >= excellentThreshold:
		return MatchExcellent
	case overall >= goodThreshold:
		return MatchGood
	default:
		return MatchPartial
	}
}
