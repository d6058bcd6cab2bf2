// Package exporter writes the pipeline's artifacts to disk: rewritten
// feature files, fusion reports, mapping tables and generated step
// definitions, each under its own subdirectory of the output root.
package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stepfuse/internal/generator"
	"stepfuse/pkg/fusion"
)

// Output subdirectories, one per artifact kind.
const (
	FeatureDir = "merged_feature_files"
	StepsDir   = "step_definitions"
	ReportDir  = "fusion_reports"
)

// Exporter writes artifacts under a fixed output root.
type Exporter struct {
	root string
}

// New creates the output root and its artifact subdirectories.
func New(root string) (*Exporter, error) {
	for _, dir := range []string{FeatureDir, StepsDir, ReportDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("could not create output directory: %w", err)
		}
	}

	return &Exporter{root: root}, nil
}

// ExportFeature renders the rewritten feature back to Gherkin text.
// Returns the path of the written file.
func (e *Exporter) ExportFeature(feature *fusion.Feature) (string, error) {
	path := filepath.Join(e.root, FeatureDir, sanitizeFilename(feature.Name)+".feature")

	if err := os.WriteFile(path, []byte(RenderFeature(feature)), 0o644); err != nil {
		return "", fmt.Errorf("could not write feature %s: %w", feature.Name, err)
	}
	return path, nil
}

// ExportReport writes the fusion report as indented JSON.
func (e *Exporter) ExportReport(report fusion.Report) (string, error) {
	path := filepath.Join(e.root, ReportDir, sanitizeFilename(report.FeatureName)+"_report.json")
	return path, writeJSON(path, report)
}

// ExportMappingTable writes the per-step traceability table as indented JSON.
func (e *Exporter) ExportMappingTable(table fusion.MappingTable) (string, error) {
	path := filepath.Join(e.root, ReportDir, sanitizeFilename(table.Feature)+"_mapping.json")
	return path, writeJSON(path, table)
}

// ExportStepDefinitions emits the generated Go step file.
func (e *Exporter) ExportStepDefinitions(output *generator.Output) (string, error) {
	dir := filepath.Join(e.root, StepsDir)
	if err := generator.Emit(dir, output); err != nil {
		return "", fmt.Errorf("could not write step definitions: %w", err)
	}
	return filepath.Join(dir, generator.GeneratedFileName), nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode %s: %w", filepath.Base(path), err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// RenderFeature prints a feature as Gherkin text: feature tags and name,
// the trimmed description, then each scenario with indented steps.
func RenderFeature(feature *fusion.Feature) string {
	var b strings.Builder

	if len(feature.Tags) > 0 {
		b.WriteString(tagLine(feature.Tags))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Feature: %s\n", feature.Name)

	if feature.Description != "" {
		for _, line := range strings.Split(feature.Description, "\n") {
			fmt.Fprintf(&b, "  %s\n", strings.TrimSpace(line))
		}
	}

	for _, scenario := range feature.Scenarios {
		b.WriteString("\n")
		if len(scenario.Tags) > 0 {
			fmt.Fprintf(&b, "  %s\n", tagLine(scenario.Tags))
		}

		heading := "Scenario"
		if scenario.Name == "Background" {
			heading = "Background"
			fmt.Fprintf(&b, "  %s:\n", heading)
		} else {
			fmt.Fprintf(&b, "  %s: %s\n", heading, scenario.Name)
		}

		for _, step := range scenario.Steps {
			fmt.Fprintf(&b, "    %s %s\n", step.Keyword, step.Text)
		}
	}

	return b.String()
}

func tagLine(tags []string) string {
	prefixed := make([]string, len(tags))
	for i, tag := range tags {
		prefixed[i] = "@" + strings.TrimPrefix(tag, "@")
	}
	return strings.Join(prefixed, " ")
}

// sanitizeFilename converts a feature name into a safe file stem.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		default:
			b.WriteRune('_')
		}
	}

	stem := b.String()
	for strings.Contains(stem, "__") {
		stem = strings.ReplaceAll(stem, "__", "_")
	}
	stem = strings.Trim(stem, "_")
	if stem == "" {
		stem = "feature"
	}
	return stem
}
