package fusion

import (
	"fmt"
	"regexp"
	"strings"

	"stepfuse/pkg/locator"
)

// Config controls the resolution policy.
type Config struct {
	// PartialMatch enables the substring fallback when no exact match
	// exists. Enabled by default.
	PartialMatch bool

	// Strict records a warning for steps whose tokens all failed to
	// resolve. Without it unresolved steps pass through silently.
	Strict bool
}

// DefaultConfig mirrors the recognized option defaults: partial matching on,
// strict mode off.
func DefaultConfig() Config {
	return Config{PartialMatch: true}
}

// Resolver binds step tokens to locator identifiers and rewrites step text
// to carry the resolved reference.
type Resolver struct {
	cfg Config
}

func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// ResolveFeature resolves every step of every scenario and returns a new
// Feature plus one MatchOutcome per input step, in input order. The input
// feature is never mutated.
func (r *Resolver) ResolveFeature(feature Feature, table *locator.Table) (Feature, []MatchOutcome) {
	resolved := Feature{
		Name:        feature.Name,
		Description: feature.Description,
		Tags:        append([]string(nil), feature.Tags...),
		Scenarios:   make([]Scenario, 0, len(feature.Scenarios)),
	}

	var outcomes []MatchOutcome
	for _, scenario := range feature.Scenarios {
		resolvedScenario := Scenario{
			Name:  scenario.Name,
			Tags:  append([]string(nil), scenario.Tags...),
			Steps: make([]Step, 0, len(scenario.Steps)),
		}

		for _, step := range scenario.Steps {
			resolvedStep, outcome := r.ResolveStep(step, table)
			resolvedScenario.Steps = append(resolvedScenario.Steps, resolvedStep)
			outcomes = append(outcomes, outcome)
		}

		resolved.Scenarios = append(resolved.Scenarios, resolvedScenario)
	}

	return resolved, outcomes
}

// ResolveStep resolves a single step. Tokens are tried in extraction order;
// the first exact match wins, then the first partial match when enabled.
// When a token resolves, exactly one occurrence in the text is replaced with
// a ${identifier} placeholder. Steps referencing two distinct elements keep
// only the first resolution; the remaining references pass through verbatim.
func (r *Resolver) ResolveStep(step Step, table *locator.Table) (Step, MatchOutcome) {
	tokens := ExtractTokens(step.Text)

	input := step
	input.Tokens = tokens

	var (
		identifier    string
		resolvedToken string
		kind          = MatchNone
		warning       string
	)

	for _, token := range tokens {
		if binding, ok := table.Lookup(token); ok {
			identifier = binding.Identifier
			resolvedToken = token
			kind = MatchExact
			break
		}

		if r.cfg.PartialMatch {
			if key, ok := table.PartialMatch(token); ok {
				binding, _ := table.Lookup(key)
				identifier = binding.Identifier
				resolvedToken = token
				kind = MatchPartial
				warning = fmt.Sprintf("partial match: %q -> %q", token, key)
				break
			}
		}
	}

	resolved := Step{
		Keyword:      step.Keyword,
		Text:         step.Text,
		Tokens:       tokens,
		OriginalText: step.OriginalText,
	}

	if identifier != "" {
		resolved.Text = rewriteStepText(step.Text, identifier, resolvedToken)
		resolved.ResolvedIdentifier = identifier
	} else if r.cfg.Strict && len(tokens) > 0 {
		warning = fmt.Sprintf("no locator found for tokens: %s", strings.Join(tokens, ", "))
	}

	return resolved, MatchOutcome{
		Step:               input,
		Matched:            identifier != "",
		ResolvedIdentifier: identifier,
		Kind:               kind,
		Warning:            warning,
	}
}

// rewriteStepText substitutes one occurrence of the resolved token with
// ${identifier}. A quoted occurrence is preferred and replaced quotes
// included; otherwise the first whole-word occurrence is replaced. Both
// searches are case-insensitive since tokens are lower-cased on extraction.
func rewriteStepText(text, identifier, token string) string {
	placeholder := "${" + identifier + "}"

	quotedRe := regexp.MustCompile(`(?i)"` + regexp.QuoteMeta(token) + `"`)
	if loc := quotedRe.FindStringIndex(text); loc != nil {
		return text[:loc[0]] + placeholder + text[loc[1]:]
	}

	wordRe := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(token) + `\b`)
	if loc := wordRe.FindStringIndex(text); loc != nil {
		return text[:loc[0]] + placeholder + text[loc[1]:]
	}

	return text
}
