// Package stepmatch holds the registry that maps synthesized step patterns
// back to handler functions. Generated step definitions register their
// anchored patterns here; at run time literal step text is matched against
// them and the captured locator identifier and literal values are handed to
// the handler.
package stepmatch

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
)

// Definition holds a compiled step pattern and its handler function.
type Definition struct {
	Pattern  *regexp.Regexp
	Function any
}

// Match is the result of resolving literal step text against the registry.
type Match struct {
	// Pattern is the source of the pattern that matched.
	Pattern string

	// Args holds all capture groups in order, named or not.
	Args []string

	// Named holds the named capture groups; synthesized patterns use
	// "locator" and "value".
	Named map[string]string

	fn any
}

// Locator returns the captured locator identifier, if the pattern had one.
func (m *Match) Locator() (string, bool) {
	v, ok := m.Named["locator"]
	return v, ok
}

// Value returns the captured literal value, if the pattern had one.
func (m *Match) Value() (string, bool) {
	v, ok := m.Named["value"]
	return v, ok
}

// Registry holds step definitions in registration order. First registered
// pattern that matches wins.
type Registry struct {
	definitions []Definition
	patterns    map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{
		patterns: make(map[string]bool),
	}
}

// Register compiles the pattern and binds it to the handler function.
// Duplicate patterns and non-function handlers are rejected.
func (r *Registry) Register(pattern string, fn any) error {
	if r.patterns[pattern] {
		return fmt.Errorf("duplicate step pattern: %s", pattern)
	}

	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid step pattern %q: %w", pattern, err)
	}

	if reflect.TypeOf(fn) == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		return fmt.Errorf("step handler must be a function, got %T", fn)
	}

	r.definitions = append(r.definitions, Definition{Pattern: compiled, Function: fn})
	r.patterns[pattern] = true
	return nil
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.definitions)
}

// Match finds the first definition whose pattern matches the step text and
// extracts its capture groups.
func (r *Registry) Match(stepText string) (*Match, bool) {
	for _, def := range r.definitions {
		groups := def.Pattern.FindStringSubmatch(stepText)
		if groups == nil {
			continue
		}

		named := make(map[string]string)
		for i, name := range def.Pattern.SubexpNames() {
			if i == 0 || name == "" {
				continue
			}
			named[name] = groups[i]
		}

		return &Match{
			Pattern: def.Pattern.String(),
			Args:    groups[1:],
			Named:   named,
			fn:      def.Function,
		}, true
	}

	return nil, false
}

// Invoke calls the matched handler. Capture groups are converted to the
// handler's parameter types in order; a leading context.Context parameter is
// injected. A trailing error return is propagated.
func (r *Registry) Invoke(ctx context.Context, m *Match) error {
	fnValue := reflect.ValueOf(m.fn)
	fnType := fnValue.Type()

	callArgs := make([]reflect.Value, 0, fnType.NumIn())
	argIndex := 0

	for i := 0; i < fnType.NumIn(); i++ {
		paramType := fnType.In(i)

		if paramType.Implements(reflect.TypeOf((*context.Context)(nil)).Elem()) {
			callArgs = append(callArgs, reflect.ValueOf(ctx))
			continue
		}

		if argIndex >= len(m.Args) {
			return fmt.Errorf("not enough captured arguments for handler: want %d parameters, have %d captures", fnType.NumIn(), len(m.Args))
		}

		converted, err := convertArg(m.Args[argIndex], paramType)
		if err != nil {
			return fmt.Errorf("failed to convert argument %q to %s: %w", m.Args[argIndex], paramType, err)
		}
		callArgs = append(callArgs, converted)
		argIndex++
	}

	results := fnValue.Call(callArgs)
	for i, result := range results {
		if fnType.Out(i).Implements(reflect.TypeOf((*error)(nil)).Elem()) && !result.IsNil() {
			return result.Interface().(error)
		}
	}

	return nil
}

// Dispatch matches the step text and invokes its handler in one call.
func (r *Registry) Dispatch(ctx context.Context, stepText string) error {
	m, ok := r.Match(stepText)
	if !ok {
		return fmt.Errorf("no matching step definition found for: %s", stepText)
	}
	return r.Invoke(ctx, m)
}

// convertArg converts a captured string to the handler parameter type.
// Step handlers only ever take strings, integers, floats and bools.
func convertArg(arg string, targetType reflect.Type) (reflect.Value, error) {
	switch targetType.Kind() {
	case reflect.String:
		return reflect.ValueOf(arg), nil

	case reflect.Int:
		v, err := strconv.Atoi(arg)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil

	case reflect.Int64:
		v, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil

	case reflect.Float64:
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil

	case reflect.Bool:
		v, err := strconv.ParseBool(arg)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil

	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type: %s", targetType.Kind())
	}
}
