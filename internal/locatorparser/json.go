// Package locatorparser extracts locator bindings from the supported
// locator source formats and builds the immutable table the resolver reads.
// Two sources are recognized: locators.json files (scanner output or the
// simple hand-written shape) and Go page-object source files.
package locatorparser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"stepfuse/pkg/locator"
)

// scannerFile is the DOM-scanner output shape:
// {"locators": [{"custom_name": ..., "locator_value": ..., "locator_type": ...}]}
type scannerFile struct {
	Locators []scannerEntry `json:"locators"`
}

type scannerEntry struct {
	CustomName   string `json:"custom_name"`
	LocatorValue string `json:"locator_value"`
	LocatorType  string `json:"locator_type"`
}

// simpleEntry is the hand-written shape:
// {"user_name": {"variable": ..., "locator": ...}} or {"user_name": "expr"}.
type simpleEntry struct {
	Variable   string `json:"variable"`
	Locator    string `json:"locator"`
	Expression string `json:"expression"`
}

// Parse reads a locator source file, auto-detecting the format from the
// extension. Unsupported extensions are a hard failure.
func Parse(path string) (*locator.Table, error) {
	switch filepath.Ext(path) {
	case ".json":
		return ParseJSON(path)
	case ".go":
		return ParseGoSource(path)
	default:
		return nil, fmt.Errorf("unsupported locator source format: %s", path)
	}
}

// ParseJSON parses a locators.json file in either supported shape.
func ParseJSON(path string) (*locator.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read locator file %s: %w", path, err)
	}

	builder := locator.NewBuilder()

	var scanner scannerFile
	if err := json.Unmarshal(data, &scanner); err == nil && len(scanner.Locators) > 0 {
		for _, entry := range scanner.Locators {
			if entry.CustomName == "" {
				continue
			}
			builder.Add("page."+toCamel(entry.CustomName), accessExpression(entry), entry.CustomName)
		}
		return builder.Build(), nil
	}

	// Simple format: top-level object keyed by element name. Decode in
	// document order so insertion-order tie-breaking stays stable.
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	token, err := decoder.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid locator file %s: %w", path, err)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("invalid locator file %s: expected a JSON object", path)
	}

	for decoder.More() {
		keyToken, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid locator file %s: %w", path, err)
		}
		key := keyToken.(string)

		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid locator file %s: %w", path, err)
		}

		identifier, expression, ok := decodeSimpleValue(key, raw)
		if !ok {
			continue
		}
		builder.Add(identifier, expression, key)
	}

	return builder.Build(), nil
}

func decodeSimpleValue(key string, raw json.RawMessage) (identifier, expression string, ok bool) {
	var entry simpleEntry
	if err := json.Unmarshal(raw, &entry); err == nil && (entry.Variable != "" || entry.Locator != "" || entry.Expression != "") {
		identifier = entry.Variable
		if identifier == "" {
			identifier = "page." + toCamel(key)
		}
		expression = entry.Locator
		if expression == "" {
			expression = entry.Expression
		}
		return identifier, expression, true
	}

	var value string
	if err := json.Unmarshal(raw, &value); err == nil {
		return "page." + toCamel(key), value, true
	}

	return "", "", false
}

// accessExpression builds a query expression from a scanner entry based on
// its locator kind.
func accessExpression(entry scannerEntry) string {
	switch {
	case strings.Contains(entry.LocatorType, "Role"):
		return fmt.Sprintf("page.GetByRole(%q)", entry.LocatorValue)
	case strings.Contains(entry.LocatorType, "Text"):
		return fmt.Sprintf("page.GetByText(%q)", entry.LocatorValue)
	default:
		return fmt.Sprintf("page.Locator(%q)", entry.LocatorValue)
	}
}

// toCamel converts a human-readable or snake_case name to an exported Go
// identifier ("user name" -> "UserName").
func toCamel(name string) string {
	snake := locator.ToSnake(name)

	var b strings.Builder
	upperNext := true
	for _, r := range snake {
		if r == '_' {
			upperNext = true
			continue
		}
		if upperNext {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
