package app

import (
	"fmt"
	"strings"
	"sync"

	"stepfuse/pkg/fusion"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"

	colorKeyword = "\033[38;2;207;142;109m" // Feature:, Scenario:, step keywords
	colorText    = "\033[38;2;188;190;196m" // step text, feature/scenario names
	colorParam   = "\033[38;2;92;146;255m"  // resolved ${identifier} placeholders
)

// Symbols for match status
const (
	symbolMatched   = "✓"
	symbolPartial   = "~"
	symbolUnmatched = "✗"
)

// Reporter prints resolution progress and the run summary.
type Reporter interface {
	FeatureStart(name string)
	ScenarioStart(name string)
	StepResolved(keyword, text, identifier string)
	StepPartial(keyword, text, warning string)
	StepUnresolved(keyword, text string)
	Summary(reports []fusion.Report)

	// Flush prints accumulated output of a buffered reporter.
	Flush()
}

// ConsoleReporter prints colored output to stdout.
type ConsoleReporter struct {
	useColors bool
	buffer    *strings.Builder
	buffered  bool
	disabled  bool
	mu        sync.Mutex
}

// NewConsoleReporter creates a reporter that prints directly to stdout.
func NewConsoleReporter(useColors bool) *ConsoleReporter {
	return &ConsoleReporter{useColors: useColors}
}

// NewBufferedReporter creates a reporter that accumulates output until Flush.
func NewBufferedReporter(useColors bool) *ConsoleReporter {
	return &ConsoleReporter{
		useColors: useColors,
		buffer:    &strings.Builder{},
		buffered:  true,
	}
}

// NewNoopReporter creates a reporter that suppresses all output.
func NewNoopReporter() *ConsoleReporter {
	return &ConsoleReporter{disabled: true}
}

func (r *ConsoleReporter) write(s string) {
	if r.disabled {
		return
	}
	if r.buffered {
		r.buffer.WriteString(s)
	} else {
		fmt.Print(s)
	}
}

func (r *ConsoleReporter) writeln(s string) {
	r.write(s + "\n")
}

func (r *ConsoleReporter) color(c, s string) string {
	if r.useColors {
		return c + s + colorReset
	}
	return s
}

// stepText highlights ${identifier} placeholders inside resolved step text.
func (r *ConsoleReporter) stepText(text string) string {
	if !r.useColors {
		return text
	}

	var b strings.Builder
	prev := 0
	for {
		start := strings.Index(text[prev:], "${")
		if start < 0 {
			break
		}
		start += prev
		end := strings.Index(text[start:], "}")
		if end < 0 {
			break
		}
		end += start + 1

		if start > prev {
			b.WriteString(colorText + text[prev:start] + colorReset)
		}
		b.WriteString(colorParam + text[start:end] + colorReset)
		prev = end
	}
	if prev == 0 {
		return colorText + text + colorReset
	}
	if prev < len(text) {
		b.WriteString(colorText + text[prev:] + colorReset)
	}
	return b.String()
}

func (r *ConsoleReporter) FeatureStart(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeln("")
	r.writeln(r.color(colorKeyword, "Feature:") + " " + r.color(colorText, name))
}

func (r *ConsoleReporter) ScenarioStart(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeln("")
	r.writeln("  " + r.color(colorKeyword, "Scenario:") + " " + r.color(colorText, name))
}

func (r *ConsoleReporter) StepResolved(keyword, text, identifier string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeln("    " + r.color(colorGreen, symbolMatched) + " " +
		r.color(colorKeyword, keyword) + " " + r.stepText(text))
}

func (r *ConsoleReporter) StepPartial(keyword, text, warning string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeln("    " + r.color(colorYellow, symbolPartial) + " " +
		r.color(colorKeyword, keyword) + " " + r.stepText(text))
	if warning != "" {
		r.writeln("      " + r.color(colorYellow, warning))
	}
}

func (r *ConsoleReporter) StepUnresolved(keyword, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writeln("    " + r.color(colorRed, symbolUnmatched) + " " +
		r.color(colorKeyword, keyword) + " " + r.stepText(text))
}

func (r *ConsoleReporter) Summary(reports []fusion.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total, matched, unmatched int
	for _, report := range reports {
		total += report.TotalSteps
		matched += report.MatchedSteps
		unmatched += report.UnmatchedSteps
	}

	r.writeln("")
	r.writeln(fmt.Sprintf("%d features, %d steps", len(reports), total))
	line := r.color(colorGreen, fmt.Sprintf("%d matched", matched))
	if unmatched > 0 {
		line += ", " + r.color(colorRed, fmt.Sprintf("%d unmatched", unmatched))
	}
	r.writeln(line)
}

func (r *ConsoleReporter) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.buffered && r.buffer.Len() > 0 {
		fmt.Print(r.buffer.String())
		r.buffer.Reset()
	}
}

// Output returns the buffered text without printing it.
func (r *ConsoleReporter) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.buffer == nil {
		return ""
	}
	return r.buffer.String()
}
