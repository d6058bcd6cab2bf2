//go:generate mockgen -source=interfaces.go -destination=interface_mock.go -package=app
package app

import (
	"stepfuse/pkg/fusion"
	"stepfuse/pkg/locator"
)

type (
	// FeatureSource finds and parses feature files.
	FeatureSource interface {
		Search(root string) ([]string, error)
		Load(path string) (fusion.Feature, error)
	}

	// LocatorSource parses a locator source into a table.
	LocatorSource interface {
		Load(path string) (*locator.Table, error)
	}
)
