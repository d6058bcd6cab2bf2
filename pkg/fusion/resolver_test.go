package fusion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stepfuse/pkg/locator"
)

func loginTable() *locator.Table {
	return locator.NewBuilder().
		Add("self.user_name_input", `page.locator("#username")`, "user_name_input").
		Add("self.password_input", `page.locator("#password")`, "password_input").
		Add("self.submit_button", `page.locator("button[type=submit]")`, "submit_button").
		Build()
}

func TestResolverResolveStep(t *testing.T) {
	t.Run("exact match rewrites the quoted token", func(t *testing.T) {
		resolver := NewResolver(DefaultConfig())
		step := Step{Keyword: When, Text: `I enter "user_name"`, OriginalText: `When I enter "user_name"`}

		resolved, outcome := resolver.ResolveStep(step, loginTable())

		require.True(t, outcome.Matched)
		require.Equal(t, MatchExact, outcome.Kind)
		require.Equal(t, "self.user_name_input", outcome.ResolvedIdentifier)
		require.Empty(t, outcome.Warning)
		require.Equal(t, "I enter ${self.user_name_input}", resolved.Text)
		require.Equal(t, "self.user_name_input", resolved.ResolvedIdentifier)
		require.Equal(t, `When I enter "user_name"`, resolved.OriginalText)
	})

	t.Run("partial match resolves with a warning", func(t *testing.T) {
		resolver := NewResolver(DefaultConfig())
		step := Step{Keyword: When, Text: `I enter "username"`}

		resolved, outcome := resolver.ResolveStep(step, loginTable())

		require.True(t, outcome.Matched)
		require.Equal(t, MatchPartial, outcome.Kind)
		require.Equal(t, "self.user_name_input", outcome.ResolvedIdentifier)
		require.Contains(t, outcome.Warning, `"username"`)
		require.Contains(t, outcome.Warning, `"user_name"`)
		require.Equal(t, "I enter ${self.user_name_input}", resolved.Text)
	})

	t.Run("partial matching can be disabled", func(t *testing.T) {
		resolver := NewResolver(Config{PartialMatch: false})
		step := Step{Keyword: When, Text: `I enter "username"`}

		resolved, outcome := resolver.ResolveStep(step, loginTable())

		require.False(t, outcome.Matched)
		require.Equal(t, MatchNone, outcome.Kind)
		require.Equal(t, `I enter "username"`, resolved.Text)
	})

	t.Run("exact match always beats a partial candidate", func(t *testing.T) {
		table := locator.NewBuilder().
			Add("self.user_input", "", "user").
			Add("self.user_name_input", "", "user_name").
			Build()

		resolver := NewResolver(DefaultConfig())
		_, outcome := resolver.ResolveStep(Step{Keyword: When, Text: `I enter "user_name"`}, table)

		require.Equal(t, MatchExact, outcome.Kind)
		require.Equal(t, "self.user_name_input", outcome.ResolvedIdentifier)
	})

	t.Run("step without tokens passes through unmatched and silent", func(t *testing.T) {
		resolver := NewResolver(Config{PartialMatch: true, Strict: true})
		step := Step{Keyword: Given, Text: "I am on the login page"}

		resolved, outcome := resolver.ResolveStep(step, loginTable())

		require.False(t, outcome.Matched)
		require.Empty(t, outcome.Warning)
		require.Empty(t, outcome.Step.Tokens)
		require.Equal(t, "I am on the login page", resolved.Text)
	})

	t.Run("strict mode reports unresolved tokens", func(t *testing.T) {
		resolver := NewResolver(Config{PartialMatch: true, Strict: true})
		step := Step{Keyword: When, Text: `I click on "missing"`}

		_, outcome := resolver.ResolveStep(step, loginTable())

		require.False(t, outcome.Matched)
		require.Contains(t, outcome.Warning, "no locator found")
		require.Contains(t, outcome.Warning, "missing")
	})

	t.Run("non-strict unresolved steps carry no warning", func(t *testing.T) {
		resolver := NewResolver(DefaultConfig())
		_, outcome := resolver.ResolveStep(Step{Keyword: When, Text: `I click on "missing"`}, loginTable())

		require.False(t, outcome.Matched)
		require.Empty(t, outcome.Warning)
	})

	t.Run("rewrites a bare token on word boundaries", func(t *testing.T) {
		resolver := NewResolver(DefaultConfig())
		step := Step{Keyword: When, Text: "I click on submit"}

		resolved, outcome := resolver.ResolveStep(step, loginTable())

		require.True(t, outcome.Matched)
		require.Equal(t, "I click on ${self.submit_button}", resolved.Text)
	})

	t.Run("rewrites the token that resolved, not the first token", func(t *testing.T) {
		resolver := NewResolver(DefaultConfig())
		step := Step{Keyword: Then, Text: `I click "cancel" and check user_name`}

		resolved, outcome := resolver.ResolveStep(step, loginTable())

		require.True(t, outcome.Matched)
		require.Equal(t, "self.user_name_input", outcome.ResolvedIdentifier)
		require.Equal(t, `I click "cancel" and check ${self.user_name_input}`, resolved.Text)
	})

	t.Run("only one substitution happens per step", func(t *testing.T) {
		resolver := NewResolver(DefaultConfig())
		step := Step{Keyword: When, Text: `I enter "user_name" into "password"`}

		resolved, outcome := resolver.ResolveStep(step, loginTable())

		require.True(t, outcome.Matched)
		require.Equal(t, `I enter ${self.user_name_input} into "password"`, resolved.Text)
	})
}

func TestResolverResolveFeature(t *testing.T) {
	feature := Feature{
		Name: "Login",
		Scenarios: []Scenario{{
			Name: "Valid login",
			Steps: []Step{
				{Keyword: Given, Text: "I am on the login page"},
				{Keyword: When, Text: `I enter "user_name"`},
				{Keyword: When, Text: `I enter "password"`},
				{Keyword: When, Text: `I click on "submit"`},
			},
		}},
	}

	t.Run("resolves steps in order and keeps structure", func(t *testing.T) {
		resolver := NewResolver(DefaultConfig())
		resolved, outcomes := resolver.ResolveFeature(feature, loginTable())

		require.Equal(t, "Login", resolved.Name)
		require.Len(t, resolved.Scenarios, 1)
		require.Len(t, resolved.Scenarios[0].Steps, 4)
		require.Len(t, outcomes, 4)

		require.False(t, outcomes[0].Matched)
		for _, outcome := range outcomes[1:] {
			require.True(t, outcome.Matched)
			require.Equal(t, MatchExact, outcome.Kind)
		}
	})

	t.Run("never mutates the input feature", func(t *testing.T) {
		resolver := NewResolver(DefaultConfig())
		resolver.ResolveFeature(feature, loginTable())

		require.Equal(t, `I enter "user_name"`, feature.Scenarios[0].Steps[1].Text)
		require.Nil(t, feature.Scenarios[0].Steps[1].Tokens)
	})
}
