// Package featureparser turns Gherkin feature files into the in-memory
// feature model the fusion engine works on.
package featureparser

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/google/uuid"

	"stepfuse/pkg/fusion"
)

const FeatureExtension = ".feature"

// SearchFeatureFilesIn walks the given directories and collects every
// .feature file found.
func SearchFeatureFilesIn(directories []string) ([]string, error) {
	featureFiles := make([]string, 0)

	for _, directory := range directories {
		err := filepath.Walk(directory, func(path string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && strings.HasSuffix(info.Name(), FeatureExtension) {
				featureFiles = append(featureFiles, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("could not search feature files in %s: %w", directory, err)
		}
	}

	return featureFiles, nil
}

// ParseFile parses a single .feature file. Unparseable content is a hard
// failure naming the file.
func ParseFile(path string) (fusion.Feature, error) {
	file, err := os.Open(path)
	if err != nil {
		return fusion.Feature{}, fmt.Errorf("could not read file %s: %w", path, err)
	}
	defer file.Close()

	feature, err := Parse(file)
	if err != nil {
		return fusion.Feature{}, fmt.Errorf("gherkin parse error in file %s: %w", path, err)
	}
	return feature, nil
}

// Parse reads Gherkin text and converts it into the fusion feature model.
// Backgrounds become a scenario named "Background"; scenarios inside rules
// are flattened into the feature's scenario list.
func Parse(reader io.Reader) (fusion.Feature, error) {
	document, err := gherkin.ParseGherkinDocument(reader, uuid.NewString)
	if err != nil {
		return fusion.Feature{}, err
	}
	if document.Feature == nil {
		return fusion.Feature{}, fmt.Errorf("document contains no feature")
	}

	doc := document.Feature
	feature := fusion.Feature{
		Name:        doc.Name,
		Description: strings.TrimSpace(doc.Description),
		Tags:        tagNames(doc.Tags),
	}

	for _, child := range doc.Children {
		switch {
		case child.Background != nil:
			feature.Scenarios = append(feature.Scenarios, backgroundScenario(child.Background))
		case child.Scenario != nil:
			feature.Scenarios = append(feature.Scenarios, convertScenario(child.Scenario))
		case child.Rule != nil:
			for _, ruleChild := range child.Rule.Children {
				switch {
				case ruleChild.Background != nil:
					feature.Scenarios = append(feature.Scenarios, backgroundScenario(ruleChild.Background))
				case ruleChild.Scenario != nil:
					feature.Scenarios = append(feature.Scenarios, convertScenario(ruleChild.Scenario))
				}
			}
		}
	}

	return feature, nil
}

func convertScenario(scenario *messages.Scenario) fusion.Scenario {
	return fusion.Scenario{
		Name:  scenario.Name,
		Tags:  tagNames(scenario.Tags),
		Steps: convertSteps(scenario.Steps),
	}
}

func backgroundScenario(background *messages.Background) fusion.Scenario {
	return fusion.Scenario{
		Name:  "Background",
		Steps: convertSteps(background.Steps),
	}
}

func convertSteps(steps []*messages.Step) []fusion.Step {
	converted := make([]fusion.Step, 0, len(steps))
	for _, step := range steps {
		keyword, ok := fusion.KeywordFromString(step.Keyword)
		if !ok {
			continue
		}
		converted = append(converted, fusion.Step{
			Keyword:      keyword,
			Text:         step.Text,
			OriginalText: strings.TrimSpace(step.Keyword) + " " + step.Text,
		})
	}
	return converted
}

// tagNames strips the leading @ from Gherkin tags.
func tagNames(tags []*messages.Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, strings.TrimPrefix(tag.Name, "@"))
	}
	return names
}
