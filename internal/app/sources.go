package app

import (
	"fmt"
	"os"

	"stepfuse/internal/featureparser"
	"stepfuse/internal/locatorparser"
	"stepfuse/pkg/fusion"
	"stepfuse/pkg/locator"
)

// DiskFeatureSource reads feature files from the filesystem.
type DiskFeatureSource struct{}

// Search returns root itself when it is a file, otherwise every .feature
// file under it.
func (DiskFeatureSource) Search(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("could not read feature path %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	return featureparser.SearchFeatureFilesIn([]string{root})
}

func (DiskFeatureSource) Load(path string) (fusion.Feature, error) {
	return featureparser.ParseFile(path)
}

// DiskLocatorSource reads a locator source file from the filesystem.
type DiskLocatorSource struct{}

func (DiskLocatorSource) Load(path string) (*locator.Table, error) {
	return locatorparser.Parse(path)
}
