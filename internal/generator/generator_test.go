package generator

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"stepfuse/pkg/fusion"
	"stepfuse/pkg/synth"
)

func TestParseFramework(t *testing.T) {
	t.Run("recognizes the supported frameworks", func(t *testing.T) {
		fw, err := ParseFramework("playwright")
		require.NoError(t, err)
		require.Equal(t, FrameworkPlaywright, fw)

		fw, err = ParseFramework("Selenium")
		require.NoError(t, err)
		require.Equal(t, FrameworkSelenium, fw)
	})

	t.Run("defaults to playwright", func(t *testing.T) {
		fw, err := ParseFramework("")
		require.NoError(t, err)
		require.Equal(t, FrameworkPlaywright, fw)
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		_, err := ParseFramework("cypress")
		require.Error(t, err)
		require.Contains(t, err.Error(), "cypress")
	})
}

func resolvedFeature() *fusion.Feature {
	return &fusion.Feature{
		Name: "Login",
		Scenarios: []fusion.Scenario{
			{
				Name: "successful login",
				Steps: []fusion.Step{
					{Keyword: fusion.Given, Text: "I am on the login page"},
					{Keyword: fusion.When, Text: `I enter "admin" into ${page.UserNameInput}`},
					{Keyword: fusion.And, Text: "I click ${page.SubmitButton}"},
					{Keyword: fusion.And, Text: "I click ${page.SubmitButton}"},
					{Keyword: fusion.Then, Text: "the system waits quietly"},
				},
			},
		},
	}
}

func TestCollect(t *testing.T) {
	output := Collect(FrameworkPlaywright, resolvedFeature())

	t.Run("skips uncategorized steps and duplicate patterns", func(t *testing.T) {
		require.Len(t, output.Definitions, 3)
	})

	t.Run("anchors patterns and records named groups in order", func(t *testing.T) {
		input := output.Definitions[1]
		require.Equal(t, synth.Input, input.Category)
		require.Equal(t, `^I enter "(?P<value>[^"]+)" into \$\{(?P<locator>[^\s]+)\}$`, input.Pattern)
		require.Equal(t, []string{"value", "locator"}, input.Groups)
	})

	t.Run("derives unique handler names per category", func(t *testing.T) {
		require.Equal(t, "navigateStep1", output.Definitions[0].FuncName)
		require.Equal(t, "inputStep1", output.Definitions[1].FuncName)
		require.Equal(t, "clickStep1", output.Definitions[2].FuncName)
	})
}

func TestGenerate(t *testing.T) {
	output := Collect(FrameworkPlaywright, resolvedFeature())

	var buf bytes.Buffer
	require.NoError(t, output.Generate(&buf))
	source := buf.String()

	t.Run("emits the registration function", func(t *testing.T) {
		require.Contains(t, source, "package steps")
		require.Contains(t, source, "func RegisterGeneratedSteps(r *stepmatch.Registry) error")
		require.Contains(t, source, `stepfuse/pkg/stepmatch`)
		require.Contains(t, source, "r.Register(")
	})

	t.Run("emits one handler per definition", func(t *testing.T) {
		require.Contains(t, source, "func navigateStep1() error")
		require.Contains(t, source, "func inputStep1(value string, locator string) error")
		require.Contains(t, source, "func clickStep1(locator string) error")
	})

	t.Run("handler bodies sketch playwright calls", func(t *testing.T) {
		require.Contains(t, source, "// page.Fill(locator, value)")
		require.Contains(t, source, "// page.Click(locator)")
	})

	t.Run("selenium bodies sketch driver calls", func(t *testing.T) {
		selenium := Collect(FrameworkSelenium, resolvedFeature())

		var out bytes.Buffer
		require.NoError(t, selenium.Generate(&out))
		require.Contains(t, out.String(), "driver.FindElement(selenium.ByCSSSelector, locator).Click()")
	})
}

func TestDetectPackageName(t *testing.T) {
	t.Run("reads the package clause of existing files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "page.go"), []byte("package myapp\n"), 0o644))

		name, err := DetectPackageName(dir)
		require.NoError(t, err)
		require.Equal(t, "myapp", name)
	})

	t.Run("falls back to a sanitized directory name", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "step-defs")
		require.NoError(t, os.Mkdir(dir, 0o755))

		name, err := DetectPackageName(dir)
		require.NoError(t, err)
		require.Equal(t, "step_defs", name)
	})

	t.Run("uses the module path at a module root", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/login-suite\n"), 0o644))

		name, err := DetectPackageName(dir)
		require.NoError(t, err)
		require.Equal(t, "login_suite", name)
	})
}

func TestDetectImportPath(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/suite\n"), 0o644))
	nested := filepath.Join(root, "steps")
	require.NoError(t, os.Mkdir(nested, 0o755))

	t.Run("joins the module path with the relative directory", func(t *testing.T) {
		path, err := DetectImportPath(nested)
		require.NoError(t, err)
		require.Equal(t, "example.com/suite/steps", path)
	})

	t.Run("returns the module path at the root", func(t *testing.T) {
		path, err := DetectImportPath(root)
		require.NoError(t, err)
		require.Equal(t, "example.com/suite", path)
	})
}

func TestEmit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helpers.go"), []byte("package logintests\n"), 0o644))

	output := Collect(FrameworkPlaywright, resolvedFeature())
	require.NoError(t, Emit(dir, output))

	data, err := os.ReadFile(filepath.Join(dir, GeneratedFileName))
	require.NoError(t, err)
	require.Contains(t, string(data), "package logintests")
	require.Contains(t, string(data), "func RegisterGeneratedSteps")
}
