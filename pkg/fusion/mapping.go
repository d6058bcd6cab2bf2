package fusion

import "stepfuse/pkg/locator"

// MappingTable is the traceability artifact: per scenario and step, the
// extracted tokens and the bindings they resolve to.
type MappingTable struct {
	Feature   string            `json:"feature"`
	Scenarios []ScenarioMapping `json:"scenarios"`
}

type ScenarioMapping struct {
	Scenario string        `json:"scenario"`
	Steps    []StepMapping `json:"steps"`
}

type StepMapping struct {
	Keyword string         `json:"step_keyword"`
	Text    string         `json:"step_text"`
	Tokens  []string       `json:"tokens"`
	Matched []TokenBinding `json:"matched_locators"`
}

// TokenBinding records one token's resolved identifier and expression.
type TokenBinding struct {
	Token            string `json:"token"`
	Identifier       string `json:"identifier"`
	AccessExpression string `json:"access_expression"`
}

// BuildMappingTable derives the traceability table from a feature and the
// locator table it was resolved against. Every token with an exact binding
// is listed; tokens without one are still reported in the token list.
func BuildMappingTable(feature Feature, table *locator.Table) MappingTable {
	mapping := MappingTable{
		Feature:   feature.Name,
		Scenarios: make([]ScenarioMapping, 0, len(feature.Scenarios)),
	}

	for _, scenario := range feature.Scenarios {
		scenarioMapping := ScenarioMapping{
			Scenario: scenario.Name,
			Steps:    make([]StepMapping, 0, len(scenario.Steps)),
		}

		for _, step := range scenario.Steps {
			tokens := ExtractTokens(step.Text)
			stepMapping := StepMapping{
				Keyword: step.Keyword.String(),
				Text:    step.Text,
				Tokens:  tokens,
				Matched: []TokenBinding{},
			}

			for _, token := range tokens {
				if binding, ok := table.Lookup(token); ok {
					stepMapping.Matched = append(stepMapping.Matched, TokenBinding{
						Token:            token,
						Identifier:       binding.Identifier,
						AccessExpression: binding.AccessExpression,
					})
				}
			}

			scenarioMapping.Steps = append(scenarioMapping.Steps, stepMapping)
		}

		mapping.Scenarios = append(mapping.Scenarios, scenarioMapping)
	}

	return mapping
}
