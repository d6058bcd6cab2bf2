package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the run settings. Values come from the YAML config file
// when one is given; command-line flags override file values.
type Config struct {
	// FeaturePath is a .feature file or a directory searched recursively.
	FeaturePath string `yaml:"feature_path"`

	// LocatorPath is the locator source (.json or .go).
	LocatorPath string `yaml:"locator_path"`

	// OutputDir is the root the artifact directories are created under.
	OutputDir string `yaml:"output_dir"`

	// Framework picks the handler template of generated step definitions.
	Framework string `yaml:"framework"`

	// PartialMatch enables the substring fallback after exact lookup.
	PartialMatch bool `yaml:"partial_match"`

	// Strict records a warning for steps with tokens that resolve to
	// nothing and aborts the batch on the first file that fails to parse.
	Strict bool `yaml:"strict"`

	// Tags filters scenarios with a cucumber tag expression.
	Tags string `yaml:"tags"`
}

func DefaultConfig() Config {
	return Config{
		OutputDir:    "fusion_output",
		Framework:    "playwright",
		PartialMatch: true,
	}
}

// LoadConfig merges the YAML file at path over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	return cfg, nil
}
