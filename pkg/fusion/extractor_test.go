package fusion

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractTokens(t *testing.T) {
	t.Run("collects quoted substrings", func(t *testing.T) {
		tokens := ExtractTokens(`I enter "user_name" and "password"`)
		require.Equal(t, []string{"user_name", "password"}, tokens)
	})

	t.Run("collects the word after action keywords", func(t *testing.T) {
		tokens := ExtractTokens("I click on submit")
		require.Equal(t, []string{"submit"}, tokens)
	})

	t.Run("action keywords are case-insensitive", func(t *testing.T) {
		tokens := ExtractTokens("I CLICK ON Submit")
		require.Equal(t, []string{"submit"}, tokens)
	})

	t.Run("quoted and bare occurrences collapse to one token", func(t *testing.T) {
		tokens := ExtractTokens(`I click on "submit"`)
		require.Equal(t, []string{"submit"}, tokens)
	})

	t.Run("dedupes case-insensitively", func(t *testing.T) {
		tokens := ExtractTokens(`I see "Submit" and click submit`)
		require.Equal(t, []string{"submit"}, tokens)
	})

	t.Run("quoted tokens come before keyword captures", func(t *testing.T) {
		tokens := ExtractTokens(`I type hello into "message"`)
		require.Equal(t, []string{"message", "hello"}, tokens)
	})

	t.Run("pure navigation steps have no tokens", func(t *testing.T) {
		require.Empty(t, ExtractTokens("I am on the login page"))
	})

	t.Run("is deterministic for identical input", func(t *testing.T) {
		text := `I enter "a" then fill b and select "c"`
		first := ExtractTokens(text)
		for i := 0; i < 5; i++ {
			require.Equal(t, first, ExtractTokens(text))
		}
	})
}
