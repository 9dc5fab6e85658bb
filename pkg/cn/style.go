package cn

import (
	"errors"
	"fmt"
	"sync"

	"dario.cat/mergo"
)

// ErrMixedInput is returned when style objects and class values are passed
// to the same Merge call.
var ErrMixedInput = errors.New("invalid mixed input: style objects cannot be merged with class names")

// Style is a plain style object keyed by property name. Values may be
// nested Styles.
type Style = map[string]any

// DeepMerger merges style objects, later ones taking precedence.
type DeepMerger interface {
	DeepMerge(styles ...Style) (Style, error)
}

// DeepMergerFunc adapts a function to the DeepMerger interface.
type DeepMergerFunc func(styles ...Style) (Style, error)

// DeepMerge calls f(styles...).
func (f DeepMergerFunc) DeepMerge(styles ...Style) (Style, error) { return f(styles...) }

// Mergo is the default DeepMerger. Nested maps are merged key by key and
// every other value is overwritten. Inputs are never modified.
var Mergo DeepMerger = DeepMergerFunc(mergoMerge)

func mergoMerge(styles ...Style) (Style, error) {
	dst := Style{}
	for _, s := range styles {
		if err := mergo.Merge(&dst, cloneStyle(s), mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge styles: %w", err)
		}
	}
	return dst, nil
}

func cloneStyle(s Style) Style {
	out := make(Style, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneStyle(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	}
	return v
}

// Combiner merges either class values or style objects.
type Combiner struct {
	Classes *Merger
	Styles  DeepMerger
}

var defaultCombiner = sync.OnceValue(func() *Combiner {
	return &Combiner{Classes: Default(), Styles: Mergo}
})

// Merge merges inputs with the default Merger and the Mergo deep merger.
// See Combiner.Merge.
func Merge(inputs ...any) (any, error) {
	return defaultCombiner().Merge(inputs...)
}

// MergeStyles deep merges styles with the Mergo deep merger.
func MergeStyles(styles ...Style) (Style, error) {
	return Mergo.DeepMerge(styles...)
}

// Merge returns a Style when every non-nil input is a style object and a
// class string when none is. Mixing both kinds returns ErrMixedInput.
// With no non-nil inputs the result is the empty class string.
func (c *Combiner) Merge(inputs ...any) (any, error) {
	var (
		styles  []Style
		classes []any
	)
	for _, in := range inputs {
		if in == nil {
			continue
		}
		if s, ok := asStyle(in); ok {
			styles = append(styles, s)
			continue
		}
		classes = append(classes, in)
	}

	switch {
	case len(styles) > 0 && len(classes) > 0:
		return nil, fmt.Errorf("%w (%d style objects, %d class values)", ErrMixedInput, len(styles), len(classes))
	case len(styles) > 0:
		return c.Styles.DeepMerge(styles...)
	default:
		return c.Classes.Merge(classes...), nil
	}
}

func asStyle(v any) (Style, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case map[string]string:
		s := make(Style, len(x))
		for k, v := range x {
			s[k] = v
		}
		return s, true
	}
	return nil, false
}
