package fusion

import (
	"regexp"
	"strings"
)

var quotedToken = regexp.MustCompile(`"([^"]+)"`)

// actionRules capture the bare word following an action keyword. The rules
// are evaluated in this fixed order; changing it changes token order for
// steps matching more than one rule.
var actionRules = []*regexp.Regexp{
	regexp.MustCompile(`(?i)enter\s+(?:text\s+)?(?:into\s+)?["']?(\w+)["']?`),
	regexp.MustCompile(`(?i)fill\s+["']?(\w+)["']?`),
	regexp.MustCompile(`(?i)type\s+(?:in(?:to)?\s+)?["']?(\w+)["']?`),
	regexp.MustCompile(`(?i)input\s+(?:text\s+)?(?:into\s+)?["']?(\w+)["']?`),
	regexp.MustCompile(`(?i)click\s+(?:on\s+)?["']?(\w+)["']?`),
	regexp.MustCompile(`(?i)press\s+["']?(\w+)["']?`),
	regexp.MustCompile(`(?i)tap\s+(?:on\s+)?["']?(\w+)["']?`),
	regexp.MustCompile(`(?i)select\s+["']?(\w+)["']?`),
	regexp.MustCompile(`(?i)choose\s+["']?(\w+)["']?`),
	regexp.MustCompile(`(?i)see\s+["']?(\w+)["']?`),
	regexp.MustCompile(`(?i)verify\s+["']?(\w+)["']?`),
	regexp.MustCompile(`(?i)check\s+["']?(\w+)["']?`),
}

// ExtractTokens pulls candidate element-reference tokens out of a step's
// text: every double-quoted substring first, then the bare word following
// each action keyword. Tokens are lower-cased and de-duplicated
// case-insensitively, keeping first-seen order. Steps with no tokens are
// valid and yield an empty slice.
func ExtractTokens(text string) []string {
	var tokens []string
	seen := make(map[string]bool)

	collect := func(raw string) {
		token := strings.ToLower(strings.TrimSpace(raw))
		if token == "" || seen[token] {
			return
		}
		seen[token] = true
		tokens = append(tokens, token)
	}

	for _, m := range quotedToken.FindAllStringSubmatch(text, -1) {
		collect(m[1])
	}

	for _, rule := range actionRules {
		for _, m := range rule.FindAllStringSubmatch(text, -1) {
			collect(m[1])
		}
	}

	return tokens
}
