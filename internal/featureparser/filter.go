package featureparser

import (
	"fmt"

	tagexpressions "github.com/cucumber/tag-expressions/go/v6"

	"stepfuse/pkg/fusion"
)

// FilterFeature keeps only the scenarios whose tags satisfy the given tag
// expression (e.g. "@smoke and not @wip"). Feature-level tags are inherited
// by every scenario, and a "Background" scenario always survives. An empty
// expression keeps everything.
func FilterFeature(feature fusion.Feature, expression string) (fusion.Feature, error) {
	if expression == "" {
		return feature, nil
	}

	evaluator, err := tagexpressions.Parse(expression)
	if err != nil {
		return fusion.Feature{}, fmt.Errorf("invalid tag expression %q: %w", expression, err)
	}

	filtered := feature
	filtered.Scenarios = make([]fusion.Scenario, 0, len(feature.Scenarios))

	for _, scenario := range feature.Scenarios {
		if scenario.Name == "Background" || evaluator.Evaluate(tagVariables(feature.Tags, scenario.Tags)) {
			filtered.Scenarios = append(filtered.Scenarios, scenario)
		}
	}

	return filtered, nil
}

// tagVariables merges feature and scenario tags back into the @-prefixed
// form tag expressions evaluate against.
func tagVariables(featureTags, scenarioTags []string) []string {
	variables := make([]string, 0, len(featureTags)+len(scenarioTags))
	for _, tag := range featureTags {
		variables = append(variables, "@"+tag)
	}
	for _, tag := range scenarioTags {
		variables = append(variables, "@"+tag)
	}
	return variables
}
