// Package generator emits Go step-definition files for the patterns
// synthesized from resolved features. The emitted file registers every
// pattern in a stepmatch.Registry and stubs a handler per step whose body
// sketches the call for the selected browser framework. The browser
// libraries are referenced only inside the generated code.
package generator

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dave/jennifer/jen"

	"stepfuse/pkg/fusion"
	"stepfuse/pkg/synth"
)

const stepmatchPkg = "stepfuse/pkg/stepmatch"

// Framework selects the handler template used in generated step bodies.
type Framework int

const (
	FrameworkPlaywright Framework = iota
	FrameworkSelenium
)

func (f Framework) String() string {
	if f == FrameworkSelenium {
		return "selenium"
	}
	return "playwright"
}

// ParseFramework maps a CLI or config value to a Framework.
func ParseFramework(name string) (Framework, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "playwright":
		return FrameworkPlaywright, nil
	case "selenium":
		return FrameworkSelenium, nil
	default:
		return FrameworkPlaywright, fmt.Errorf("unknown framework %q, expected playwright or selenium", name)
	}
}

// StepDefinition is one pattern to register together with its handler stub.
type StepDefinition struct {
	// Pattern is the anchored regex source registered in the registry.
	Pattern string

	// Category picks the handler template.
	Category synth.Category

	// FuncName is the generated handler's name, unique within the file.
	FuncName string

	// Groups lists the pattern's named capture groups in order; each
	// becomes a string parameter of the handler.
	Groups []string
}

// Output is the full content of one generated step-definition file.
type Output struct {
	PackageName string
	Framework   Framework
	Definitions []StepDefinition
}

// Collect gathers the distinct step patterns of the given features.
// Steps that match no category are skipped; duplicate patterns keep their
// first occurrence, so the output order follows the features.
func Collect(framework Framework, features ...*fusion.Feature) *Output {
	out := &Output{PackageName: "steps", Framework: framework}

	seen := make(map[string]bool)
	counts := make(map[synth.Category]int)
	for _, feature := range features {
		for _, scenario := range feature.Scenarios {
			for _, step := range scenario.Steps {
				category := synth.Categorize(step.Text)
				if category == synth.Uncategorized {
					continue
				}

				pattern := synth.Anchored(step.Text)
				if seen[pattern] {
					continue
				}
				seen[pattern] = true

				counts[category]++
				out.Definitions = append(out.Definitions, StepDefinition{
					Pattern:  pattern,
					Category: category,
					FuncName: fmt.Sprintf("%sStep%d", category, counts[category]),
					Groups:   namedGroups(pattern),
				})
			}
		}
	}

	return out
}

// namedGroups returns the pattern's named capture groups in match order.
func namedGroups(pattern string) []string {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil
	}

	var groups []string
	for _, name := range re.SubexpNames() {
		if name != "" {
			groups = append(groups, name)
		}
	}
	return groups
}

// Generate writes the step-definition file.
func (o *Output) Generate(writer io.Writer) error {
	pkgName := o.PackageName
	if pkgName == "" {
		pkgName = "steps"
	}

	file := jen.NewFile(pkgName)
	file.HeaderComment("Code generated by stepfuse; handler bodies are stubs to fill in.")

	registrations := make([]jen.Code, 0, len(o.Definitions)+1)
	for _, def := range o.Definitions {
		registrations = append(registrations,
			jen.If(
				jen.Id("err").Op(":=").Id("r").Dot("Register").Call(jen.Lit(def.Pattern), jen.Id(def.FuncName)),
				jen.Id("err").Op("!=").Nil(),
			).Block(
				jen.Return(jen.Id("err")),
			),
		)
	}
	registrations = append(registrations, jen.Return(jen.Nil()))

	file.Comment("RegisterGeneratedSteps registers every synthesized step pattern.")
	file.Func().Id("RegisterGeneratedSteps").Params(
		jen.Id("r").Op("*").Qual(stepmatchPkg, "Registry"),
	).Error().Block(registrations...)

	for _, def := range o.Definitions {
		params := make([]jen.Code, 0, len(def.Groups))
		for _, group := range def.Groups {
			params = append(params, jen.Id(group).String())
		}

		body := make([]jen.Code, 0, 3)
		for _, line := range handlerTemplate(o.Framework, def.Category, def.Groups) {
			body = append(body, jen.Comment(line))
		}
		body = append(body, jen.Return(jen.Nil()))

		file.Func().Id(def.FuncName).Params(params...).Error().Block(body...)
	}

	_, err := writer.Write([]byte(file.GoString()))

	return err
}

// handlerTemplate sketches the framework call a handler should make,
// phrased with the handler's own parameter names.
func handlerTemplate(framework Framework, category synth.Category, groups []string) []string {
	target := "locator"
	value := "value"
	if len(groups) > 0 {
		target = groups[0]
	}
	for _, group := range groups {
		if strings.HasPrefix(group, "locator") {
			target = group
			break
		}
	}
	for _, group := range groups {
		if strings.HasPrefix(group, "value") {
			value = group
			break
		}
	}

	if framework == FrameworkSelenium {
		switch category {
		case synth.Navigate:
			return []string{fmt.Sprintf("driver.Get(%s)", target)}
		case synth.Input:
			return []string{fmt.Sprintf("driver.FindElement(selenium.ByCSSSelector, %s).SendKeys(%s)", target, value)}
		case synth.Click:
			return []string{fmt.Sprintf("driver.FindElement(selenium.ByCSSSelector, %s).Click()", target)}
		case synth.Select:
			return []string{fmt.Sprintf("selectByVisibleText(driver, %s, %s)", target, value)}
		default:
			return []string{fmt.Sprintf("assertVisible(driver, %s)", target)}
		}
	}

	switch category {
	case synth.Navigate:
		return []string{fmt.Sprintf("page.Goto(%s)", target)}
	case synth.Input:
		return []string{fmt.Sprintf("page.Fill(%s, %s)", target, value)}
	case synth.Click:
		return []string{fmt.Sprintf("page.Click(%s)", target)}
	case synth.Select:
		return []string{fmt.Sprintf("page.SelectOption(%s, %s)", target, value)}
	default:
		return []string{fmt.Sprintf("expectVisible(page, %s)", target)}
	}
}
