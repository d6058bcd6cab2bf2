// Package locator holds the table of element locators that BDD steps are
// resolved against. A Builder accumulates bindings while a locator source is
// being parsed and produces an immutable Table snapshot; the resolver only
// ever reads the snapshot.
package locator

import (
	"strings"
	"unicode"
)

// Binding ties an element identifier to the expression used to query it.
type Binding struct {
	// Identifier is the variable or field the generated code refers to
	// (e.g. "page.UserNameInput").
	Identifier string

	// AccessExpression is the query expression bound to the identifier
	// (e.g. `page.Locator("#username")`).
	AccessExpression string

	// NormalizedName is the canonical lookup key, see Normalize.
	NormalizedName string
}

// strippedSuffixes are common UI suffixes removed during normalization.
// Only the first matching suffix is stripped.
var strippedSuffixes = []string{
	"_input", "_button", "_link", "_field", "_element", "_selector", "_locator",
}

// Normalize converts an element name to its canonical lookup form:
// camelCase is folded to snake_case, then one trailing UI suffix is stripped.
// Normalize is idempotent.
//
//	user_name_input -> user_name
//	SubmitButton    -> submit
//	loginForm       -> login_form
func Normalize(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteRune('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}

	normalized := strings.Trim(strings.ReplaceAll(b.String(), "__", "_"), "_")

	for _, suffix := range strippedSuffixes {
		if strings.HasSuffix(normalized, suffix) {
			normalized = normalized[:len(normalized)-len(suffix)]
			break
		}
	}

	return strings.Trim(normalized, "_")
}

// ToSnake converts an arbitrary human-readable name to snake_case, replacing
// any characters that are not letters or digits with underscores. Used to
// derive identifiers from scanner-provided element names.
func ToSnake(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	var out strings.Builder
	for i, r := range b.String() {
		if unicode.IsUpper(r) {
			if i > 0 {
				out.WriteRune('_')
			}
			out.WriteRune(unicode.ToLower(r))
		} else {
			out.WriteRune(r)
		}
	}

	collapsed := out.String()
	for strings.Contains(collapsed, "__") {
		collapsed = strings.ReplaceAll(collapsed, "__", "_")
	}

	return strings.Trim(collapsed, "_")
}

// Builder accumulates bindings and produces an immutable Table.
// Later additions for the same normalized name overwrite earlier ones
// (last write wins) without changing the key's position in insertion order.
type Builder struct {
	bindings map[string]Binding
	order    []string
}

func NewBuilder() *Builder {
	return &Builder{bindings: make(map[string]Binding)}
}

// Add registers a binding under the normalized form of rawName.
func (b *Builder) Add(identifier, accessExpression, rawName string) *Builder {
	key := Normalize(rawName)
	if key == "" {
		return b
	}

	if _, exists := b.bindings[key]; !exists {
		b.order = append(b.order, key)
	}
	b.bindings[key] = Binding{
		Identifier:       identifier,
		AccessExpression: accessExpression,
		NormalizedName:   key,
	}

	return b
}

// Build produces an immutable snapshot of the accumulated bindings.
// The Builder can keep accumulating afterwards without affecting the snapshot.
func (b *Builder) Build() *Table {
	bindings := make(map[string]Binding, len(b.bindings))
	for k, v := range b.bindings {
		bindings[k] = v
	}
	order := make([]string, len(b.order))
	copy(order, b.order)

	return &Table{bindings: bindings, order: order}
}

// Table is an immutable mapping from normalized element names to bindings.
type Table struct {
	bindings map[string]Binding
	order    []string
}

// Len returns the number of bindings in the table.
func (t *Table) Len() int {
	return len(t.bindings)
}

// Keys returns the normalized names in insertion order.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.order))
	copy(keys, t.order)
	return keys
}

// Lookup finds the binding whose normalized name equals the normalized form
// of name. Table keys are already normalized, so looking a key up again
// returns the same binding.
func (t *Table) Lookup(name string) (Binding, bool) {
	binding, ok := t.bindings[Normalize(name)]
	return binding, ok
}

// PartialMatch finds the first key, in insertion order, that contains the
// token as a substring or is itself a substring of the token. The comparison
// is case-insensitive and falls back to ignoring underscores, so "username"
// still reaches the key "user_name". Returns the matching key.
func (t *Table) PartialMatch(token string) (string, bool) {
	lowered := strings.ToLower(token)
	flat := strings.ReplaceAll(lowered, "_", "")
	for _, key := range t.order {
		loweredKey := strings.ToLower(key)
		if strings.Contains(loweredKey, lowered) || strings.Contains(lowered, loweredKey) {
			return key, true
		}
		flatKey := strings.ReplaceAll(loweredKey, "_", "")
		if strings.Contains(flatKey, flat) || strings.Contains(flat, flatKey) {
			return key, true
		}
	}
	return "", false
}
