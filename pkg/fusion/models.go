// Package fusion binds free-text BDD step tokens to concrete locator
// identifiers. It takes a parsed feature and an immutable locator table and
// produces a rewritten feature plus a per-step match report. The package does
// no I/O; parsing and export live with the callers.
package fusion

import "strings"

// Keyword classifies a step line by its leading Gherkin word.
type Keyword int

const (
	Given Keyword = iota
	When
	Then
	And
	But
)

// String returns the keyword as written in a feature file.
func (k Keyword) String() string {
	switch k {
	case Given:
		return "Given"
	case When:
		return "When"
	case Then:
		return "Then"
	case And:
		return "And"
	case But:
		return "But"
	default:
		return "unknown"
	}
}

// KeywordFromString recognizes one of the five step keywords.
// The comparison ignores surrounding whitespace.
func KeywordFromString(s string) (Keyword, bool) {
	switch strings.TrimSpace(s) {
	case "Given":
		return Given, true
	case "When":
		return When, true
	case "Then":
		return Then, true
	case "And", "*":
		return And, true
	case "But":
		return But, true
	default:
		return Given, false
	}
}

// Step is a single behavior line. Steps are value types: resolving a step
// produces a new Step with rewritten Text, the input is left untouched.
type Step struct {
	Keyword Keyword `json:"keyword"`

	// Text is the step text after the keyword, possibly rewritten to carry
	// a ${identifier} placeholder.
	Text string `json:"text"`

	// Tokens holds the lower-cased, de-duplicated candidate element
	// references extracted from the text, in first-seen order.
	Tokens []string `json:"tokens"`

	// ResolvedIdentifier is the locator identifier the step was bound to.
	// Empty when no token resolved.
	ResolvedIdentifier string `json:"resolved_identifier,omitempty"`

	// OriginalText is the step line as it appeared in the source feature.
	OriginalText string `json:"original_text"`
}

// Scenario is an ordered sequence of steps.
type Scenario struct {
	Name  string   `json:"name"`
	Tags  []string `json:"tags,omitempty"`
	Steps []Step   `json:"steps"`
}

// Feature is the read-only input to the fusion stage and the shape of its
// rewritten output.
type Feature struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Scenarios   []Scenario `json:"scenarios"`
}

// MatchKind distinguishes how a token was resolved.
type MatchKind int

const (
	// MatchNone means no token resolved.
	MatchNone MatchKind = iota
	// MatchExact means the token's normalized form equals a table key.
	MatchExact
	// MatchPartial means the token resolved through the substring fallback.
	MatchPartial
)

func (m MatchKind) String() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchPartial:
		return "partial"
	default:
		return "none"
	}
}

// MarshalText lets MatchKind serialize as its label in reports.
func (m MatchKind) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// MatchOutcome records the resolution decision for one input step.
type MatchOutcome struct {
	// Step is the input step (pre-rewrite) with its extracted tokens.
	Step Step `json:"step"`

	Matched bool `json:"matched"`

	// ResolvedIdentifier is set when Matched is true.
	ResolvedIdentifier string `json:"resolved_identifier,omitempty"`

	// Kind is MatchNone unless Matched.
	Kind MatchKind `json:"match_kind"`

	// Warning carries partial-match and strict-mode diagnostics.
	Warning string `json:"warning,omitempty"`
}

// Report folds per-step outcomes into feature-level statistics.
// MatchedSteps + UnmatchedSteps == TotalSteps always holds.
type Report struct {
	FeatureName     string         `json:"feature_name"`
	TotalSteps      int            `json:"total_steps"`
	MatchedSteps    int            `json:"matched_steps"`
	UnmatchedSteps  int            `json:"unmatched_steps"`
	Outcomes        []MatchOutcome `json:"outcomes"`
	UnmatchedTokens []string       `json:"unmatched_tokens"`
}
