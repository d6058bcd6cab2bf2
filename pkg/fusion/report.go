package fusion

import "strings"

// Aggregate folds per-step outcomes into a feature-level report.
// It is a pure function of its inputs: counters are derived entirely from
// the outcome list and UnmatchedTokens is the case-insensitive union of the
// tokens of unmatched steps, in first-seen order.
func Aggregate(featureName string, outcomes []MatchOutcome) Report {
	report := Report{
		FeatureName:     featureName,
		TotalSteps:      len(outcomes),
		Outcomes:        outcomes,
		UnmatchedTokens: []string{},
	}

	seen := make(map[string]bool)
	for _, outcome := range outcomes {
		if outcome.Matched {
			report.MatchedSteps++
			continue
		}
		for _, token := range outcome.Step.Tokens {
			key := strings.ToLower(token)
			if seen[key] {
				continue
			}
			seen[key] = true
			report.UnmatchedTokens = append(report.UnmatchedTokens, key)
		}
	}

	report.UnmatchedSteps = report.TotalSteps - report.MatchedSteps

	return report
}
