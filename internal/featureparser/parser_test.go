package featureparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"stepfuse/pkg/fusion"
)

const loginFeature = `@auth
Feature: Login
  Users sign in with their credentials.

  Background:
    Given the application is running

  @smoke
  Scenario: Valid login
    Given I am on the login page
    When I enter "user_name"
    And I enter "password"
    Then I click on "submit"
`

func TestParse(t *testing.T) {
	t.Run("parses feature, scenarios and steps", func(t *testing.T) {
		feature, err := Parse(strings.NewReader(loginFeature))
		require.NoError(t, err)

		require.Equal(t, "Login", feature.Name)
		require.Equal(t, "Users sign in with their credentials.", feature.Description)
		require.Equal(t, []string{"auth"}, feature.Tags)
		require.Len(t, feature.Scenarios, 2)

		background := feature.Scenarios[0]
		require.Equal(t, "Background", background.Name)
		require.Len(t, background.Steps, 1)
		require.Equal(t, fusion.Given, background.Steps[0].Keyword)

		scenario := feature.Scenarios[1]
		require.Equal(t, "Valid login", scenario.Name)
		require.Equal(t, []string{"smoke"}, scenario.Tags)
		require.Len(t, scenario.Steps, 4)
		require.Equal(t, fusion.When, scenario.Steps[1].Keyword)
		require.Equal(t, `I enter "user_name"`, scenario.Steps[1].Text)
		require.Equal(t, `When I enter "user_name"`, scenario.Steps[1].OriginalText)
		require.Equal(t, fusion.And, scenario.Steps[2].Keyword)
	})

	t.Run("rejects unparseable text", func(t *testing.T) {
		_, err := Parse(strings.NewReader("Given a step before any feature\n"))
		require.Error(t, err)
	})

	t.Run("rejects documents without a feature", func(t *testing.T) {
		_, err := Parse(strings.NewReader("# just a comment\n"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "no feature")
	})
}

func TestParseFile(t *testing.T) {
	t.Run("names the offending file on failure", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(t.TempDir(), "missing.feature"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "missing.feature")
	})

	t.Run("reads a feature from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "login.feature")
		require.NoError(t, os.WriteFile(path, []byte(loginFeature), 0o644))

		feature, err := ParseFile(path)
		require.NoError(t, err)
		require.Equal(t, "Login", feature.Name)
	})
}

func TestSearchFeatureFilesIn(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.feature"), []byte(loginFeature), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.feature"), []byte(loginFeature), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("x"), 0o644))

	files, err := SearchFeatureFilesIn([]string{dir})
	require.NoError(t, err)
	require.Len(t, files, 2)
	for _, file := range files {
		require.True(t, strings.HasSuffix(file, FeatureExtension))
	}
}

func TestFilterFeature(t *testing.T) {
	feature := fusion.Feature{
		Name: "Login",
		Tags: []string{"auth"},
		Scenarios: []fusion.Scenario{
			{Name: "Background"},
			{Name: "Valid login", Tags: []string{"smoke"}},
			{Name: "Locked account", Tags: []string{"slow"}},
		},
	}

	t.Run("keeps scenarios matching the expression", func(t *testing.T) {
		filtered, err := FilterFeature(feature, "@smoke")
		require.NoError(t, err)
		require.Len(t, filtered.Scenarios, 2)
		require.Equal(t, "Valid login", filtered.Scenarios[1].Name)
	})

	t.Run("inherits feature tags", func(t *testing.T) {
		filtered, err := FilterFeature(feature, "@auth")
		require.NoError(t, err)
		require.Len(t, filtered.Scenarios, 3)
	})

	t.Run("supports negation", func(t *testing.T) {
		filtered, err := FilterFeature(feature, "not @slow")
		require.NoError(t, err)
		require.Len(t, filtered.Scenarios, 2)
	})

	t.Run("empty expression keeps everything", func(t *testing.T) {
		filtered, err := FilterFeature(feature, "")
		require.NoError(t, err)
		require.Len(t, filtered.Scenarios, 3)
	})

	t.Run("rejects malformed expressions", func(t *testing.T) {
		_, err := FilterFeature(feature, "@a and")
		require.Error(t, err)
	})
}
