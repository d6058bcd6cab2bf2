package app

import (
	"fmt"
	"log"

	"stepfuse/internal/exporter"
	"stepfuse/internal/featureparser"
	"stepfuse/internal/generator"
	"stepfuse/pkg/fusion"
)

// Pipeline wires the stages of one run: locator parsing, feature parsing,
// token resolution, report aggregation, pattern synthesis and export.
type Pipeline struct {
	cfg      Config
	features FeatureSource
	locators LocatorSource
	reporter Reporter
}

func NewPipeline(cfg Config, features FeatureSource, locators LocatorSource, reporter Reporter) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		features: features,
		locators: locators,
		reporter: reporter,
	}
}

// Result collects what a run produced.
type Result struct {
	Reports []fusion.Report

	// Skipped lists feature files that failed to parse and were passed
	// over. Always empty in strict mode, which aborts instead.
	Skipped []string
}

// Run processes every feature file independently: a file that fails to
// parse is logged and skipped so the rest of the batch still completes,
// unless strict mode is on, in which case the run aborts on the first
// failure.
func (p *Pipeline) Run() (*Result, error) {
	framework, err := generator.ParseFramework(p.cfg.Framework)
	if err != nil {
		return nil, err
	}

	table, err := p.locators.Load(p.cfg.LocatorPath)
	if err != nil {
		return nil, err
	}

	paths, err := p.features.Search(p.cfg.FeaturePath)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no feature files found under %s", p.cfg.FeaturePath)
	}

	out, err := exporter.New(p.cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	resolver := fusion.NewResolver(fusion.Config{
		PartialMatch: p.cfg.PartialMatch,
		Strict:       p.cfg.Strict,
	})

	result := &Result{}
	var resolved []*fusion.Feature
	for _, path := range paths {
		feature, err := p.features.Load(path)
		if err != nil {
			if p.cfg.Strict {
				return nil, err
			}
			log.Printf("skipping %s: %v", path, err)
			result.Skipped = append(result.Skipped, path)
			continue
		}

		feature, err = featureparser.FilterFeature(feature, p.cfg.Tags)
		if err != nil {
			return nil, err
		}

		enhanced, outcomes := resolver.ResolveFeature(feature, table)
		report := fusion.Aggregate(feature.Name, outcomes)
		mapping := fusion.BuildMappingTable(enhanced, table)

		p.report(enhanced, outcomes)

		if _, err := out.ExportFeature(&enhanced); err != nil {
			return nil, err
		}
		if _, err := out.ExportReport(report); err != nil {
			return nil, err
		}
		if _, err := out.ExportMappingTable(mapping); err != nil {
			return nil, err
		}

		result.Reports = append(result.Reports, report)
		resolved = append(resolved, &enhanced)
		log.Printf("processed %s: %d/%d steps matched", path, report.MatchedSteps, report.TotalSteps)
	}

	if len(resolved) > 0 {
		output := generator.Collect(framework, resolved...)
		if _, err := out.ExportStepDefinitions(output); err != nil {
			return nil, err
		}
	}

	p.reporter.Summary(result.Reports)
	p.reporter.Flush()

	return result, nil
}

// report walks the enhanced feature alongside its outcomes, which are in
// step order across scenarios.
func (p *Pipeline) report(feature fusion.Feature, outcomes []fusion.MatchOutcome) {
	p.reporter.FeatureStart(feature.Name)

	i := 0
	for _, scenario := range feature.Scenarios {
		p.reporter.ScenarioStart(scenario.Name)
		for _, step := range scenario.Steps {
			if i >= len(outcomes) {
				return
			}
			outcome := outcomes[i]
			i++

			keyword := step.Keyword.String()
			switch outcome.Kind {
			case fusion.MatchExact:
				p.reporter.StepResolved(keyword, step.Text, outcome.ResolvedIdentifier)
			case fusion.MatchPartial:
				p.reporter.StepPartial(keyword, step.Text, outcome.Warning)
			default:
				p.reporter.StepUnresolved(keyword, step.Text)
			}
		}
	}
}
