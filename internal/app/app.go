// Package app wires the command line to the fusion pipeline.
package app

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the stepfuse command. Flags override values read from
// the optional YAML config file.
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		flags      Config
	)

	cmd := &cobra.Command{
		Use:   "stepfuse",
		Short: "stepfuse reconciles BDD feature steps with UI locator tables",
		Long: `stepfuse parses Gherkin feature files, resolves element references in
step text against a locator table, rewrites the steps with concrete
${identifier} placeholders and emits rewritten features, match reports
and generated step definitions.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := DefaultConfig()
			if configPath != "" {
				loaded, err := LoadConfig(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			// Only flags the user actually set override the file.
			if cmd.Flags().Changed("feature") {
				cfg.FeaturePath = flags.FeaturePath
			}
			if cmd.Flags().Changed("locators") {
				cfg.LocatorPath = flags.LocatorPath
			}
			if cmd.Flags().Changed("out") {
				cfg.OutputDir = flags.OutputDir
			}
			if cmd.Flags().Changed("framework") {
				cfg.Framework = flags.Framework
			}
			if cmd.Flags().Changed("partial") {
				cfg.PartialMatch = flags.PartialMatch
			}
			if cmd.Flags().Changed("strict") {
				cfg.Strict = flags.Strict
			}
			if cmd.Flags().Changed("tags") {
				cfg.Tags = flags.Tags
			}

			if cfg.FeaturePath == "" {
				return errMissingFlag("feature")
			}
			if cfg.LocatorPath == "" {
				return errMissingFlag("locators")
			}

			pipeline := NewPipeline(cfg, DiskFeatureSource{}, DiskLocatorSource{}, NewConsoleReporter(true))
			_, err := pipeline.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&flags.FeaturePath, "feature", "", "feature file or directory to process")
	cmd.Flags().StringVar(&flags.LocatorPath, "locators", "", "locator source file (.json or .go)")
	cmd.Flags().StringVar(&flags.OutputDir, "out", "fusion_output", "output directory for generated artifacts")
	cmd.Flags().StringVar(&flags.Framework, "framework", "playwright", "target framework for step definitions (playwright or selenium)")
	cmd.Flags().BoolVar(&flags.PartialMatch, "partial", true, "fall back to substring matching after exact lookup")
	cmd.Flags().BoolVar(&flags.Strict, "strict", false, "warn on unresolved steps and abort on the first parse failure")
	cmd.Flags().StringVar(&flags.Tags, "tags", "", "cucumber tag expression filtering scenarios")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file")

	return cmd
}

type errMissingFlag string

func (e errMissingFlag) Error() string {
	return "required flag --" + string(e) + " not set"
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
