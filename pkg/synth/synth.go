// Package synth turns rewritten step text into regex patterns with named
// capture groups, so a step registry can re-match literal step text back to
// a handler and extract the locator identifier and literal values.
//
// The synthesis must hold two invariants: literal text is escaped exactly
// once, and capture groups produced by a previous pass survive a second pass
// untouched. Both are enforced structurally: placeholders and pre-existing
// group specs are swapped for sentinels before escaping and substituted back
// afterwards, so the escaper never sees them.
package synth

import (
	"fmt"
	"regexp"
	"strings"
)

// Final group expressions. A ${identifier} placeholder becomes locatorGroup,
// capturing the identifier without its ${} wrapper; a quoted literal becomes
// valueGroup, capturing the text between the quotes.
const (
	locatorGroup = `\$\{(?P<locator>[^\s]+)\}`
	valueGroup   = `"(?P<value>[^"]+)"`
)

// Sentinels are deliberately plain word characters so they pass through
// regexp.QuoteMeta unchanged.
const (
	locatorSentinel = "__locator_slot__"
	valueSentinel   = "__value_slot__"
)

var (
	placeholderRe = regexp.MustCompile(`\$\{[^}]+\}`)
	quotedRe      = regexp.MustCompile(`"[^"]+"`)
	namedGroupRe  = regexp.MustCompile(`\(\?P<\w+>[^)]*\)`)
	escapedMetaRe = regexp.MustCompile(`\\[.*+?^$()\[\]{}|\\]`)
)

// Synthesize converts step text into an unanchored regex pattern.
// ${identifier} placeholders and quoted literals become the locator and
// value groups; everything else is escaped as literal text. Calling
// Synthesize on its own output yields the same pattern.
func Synthesize(text string) string {
	out := text

	// Protect output of a previous pass before anything else, wrappers
	// included, so their escapes are not escaped again.
	out = strings.ReplaceAll(out, locatorGroup, locatorSentinel)
	out = strings.ReplaceAll(out, valueGroup, valueSentinel)

	// Protect any remaining pre-existing group spec, then any already
	// escaped metacharacter, both restored verbatim after escaping.
	var protected []string
	protect := func(s string) string {
		protected = append(protected, s)
		return fmt.Sprintf("__slot_%d__", len(protected)-1)
	}
	out = namedGroupRe.ReplaceAllStringFunc(out, protect)
	out = escapedMetaRe.ReplaceAllStringFunc(out, protect)

	// Swap fresh placeholders and quoted literals for sentinels.
	out = placeholderRe.ReplaceAllString(out, locatorSentinel)
	out = quotedRe.ReplaceAllString(out, valueSentinel)

	// Only literal text remains; escape it exactly once.
	out = regexp.QuoteMeta(out)

	// Repeat groups get numbered names (value, value2, ...) because the
	// regexp package rejects duplicate group names.
	out = replaceNumbered(out, locatorSentinel, func(n int) string {
		if n == 1 {
			return locatorGroup
		}
		return fmt.Sprintf(`\$\{(?P<locator%d>[^\s]+)\}`, n)
	})
	out = replaceNumbered(out, valueSentinel, func(n int) string {
		if n == 1 {
			return valueGroup
		}
		return fmt.Sprintf(`"(?P<value%d>[^"]+)"`, n)
	})
	for i, group := range protected {
		out = strings.Replace(out, fmt.Sprintf("__slot_%d__", i), group, 1)
	}

	return out
}

// replaceNumbered substitutes sentinel occurrences left to right, handing
// the occurrence number to group so repeats can be renamed.
func replaceNumbered(s, sentinel string, group func(n int) string) string {
	var b strings.Builder
	n := 0
	for {
		i := strings.Index(s, sentinel)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		n++
		b.WriteString(group(n))
		s = s[i+len(sentinel):]
	}
}

// Anchored synthesizes a pattern that must match the full step line,
// the form used for step lookup.
func Anchored(text string) string {
	return "^" + Synthesize(text) + "$"
}

// Category groups steps by the kind of interaction they describe. Used only
// to pick a handler template for generated step definitions.
type Category int

const (
	Uncategorized Category = iota
	Navigate
	Input
	Click
	Select
	Verify
)

func (c Category) String() string {
	switch c {
	case Navigate:
		return "navigate"
	case Input:
		return "input"
	case Click:
		return "click"
	case Select:
		return "select"
	case Verify:
		return "verify"
	default:
		return "uncategorized"
	}
}

// categoryRules are evaluated in this fixed order; the first category whose
// keyword appears in the lowered step text wins.
var categoryRules = []struct {
	category Category
	words    []string
}{
	{Navigate, []string{"navigate", "on the"}},
	{Input, []string{"enter", "fill", "type", "input"}},
	{Click, []string{"click", "press", "tap"}},
	{Select, []string{"select", "choose"}},
	{Verify, []string{"see", "verify", "check"}},
}

// Categorize classifies step text by keyword substrings. Classification is
// best-effort: a step matching no category returns Uncategorized and is
// skipped during pattern generation.
func Categorize(text string) Category {
	lowered := strings.ToLower(text)
	for _, rule := range categoryRules {
		for _, word := range rule.words {
			if strings.Contains(lowered, word) {
				return rule.category
			}
		}
	}
	return Uncategorized
}
