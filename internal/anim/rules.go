package anim

import (
	"fmt"
	"slices"
	"time"

	"raypick/internal/engine"
)

// RuleFactory builds a rule from decoded config props (YAML numbers arrive as
// int or float64, durations as strings or milliseconds).
type RuleFactory func(props map[string]any) (engine.Rule, error)

var ruleRegistry = map[string]RuleFactory{}

// RegisterRule registers a named rule factory. Registering a name twice panics.
func RegisterRule(name string, factory RuleFactory) {
	if _, exists := ruleRegistry[name]; exists {
		panic(fmt.Sprintf("rule %q already registered", name))
	}
	ruleRegistry[name] = factory
}

// CreateRule looks up a registered rule by name and builds it with the given props.
func CreateRule(name string, props map[string]any) (engine.Rule, error) {
	factory, ok := ruleRegistry[name]
	if !ok {
		return nil, fmt.Errorf("rule %q: not registered: %w", name, engine.ErrConfiguration)
	}
	r, err := factory(props)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", name, err)
	}
	return r, nil
}

// RegisteredRules returns the registered rule names, sorted.
func RegisteredRules() []string {
	names := make([]string, 0, len(ruleRegistry))
	for name := range ruleRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func propFloat(props map[string]any, key string, fallback float32) float32 {
	switch v := props[key].(type) {
	case float64:
		return float32(v)
	case float32:
		return v
	case int:
		return float32(v)
	}
	return fallback
}

func propVec3(props map[string]any, key string, fallback [3]float32) [3]float32 {
	list, ok := props[key].([]any)
	if !ok || len(list) != 3 {
		return fallback
	}
	out := fallback
	for i, v := range list {
		switch n := v.(type) {
		case float64:
			out[i] = float32(n)
		case int:
			out[i] = float32(n)
		}
	}
	return out
}

// propDuration accepts "5s" style strings or a plain number of milliseconds.
func propDuration(props map[string]any, key string, fallback time.Duration) (time.Duration, error) {
	switch v := props[key].(type) {
	case nil:
		return fallback, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %v: %w", key, err, engine.ErrConfiguration)
		}
		return d, nil
	case int:
		return time.Duration(v) * time.Millisecond, nil
	case float64:
		return time.Duration(v * float64(time.Millisecond)), nil
	}
	return 0, fmt.Errorf("%s: unsupported value %v: %w", key, props[key], engine.ErrConfiguration)
}
