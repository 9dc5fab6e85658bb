// Package selector canonicalizes the context segments that precede a CSS
// property in a class token and builds conflict keys from them.
package selector

import (
	"slices"
	"strings"
)

// Set is a set of context names.
type Set map[string]struct{}

// NewSet returns a Set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in s.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the members of s in sorted order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Normalizer rewrites context lists into their canonical form.
type Normalizer struct {
	// Sort enables canonical ordering of commuting contexts.
	Sort bool
	// OrderSensitive contexts keep their authored position.
	OrderSensitive Set
	// Compound contexts swallow the segment that follows them.
	Compound Set
}

// Normalize merges compound contexts and, when sorting is enabled, orders
// each run of contexts between order-sensitive anchors. The input is not
// modified.
func (n Normalizer) Normalize(contexts []string) []string {
	merged := n.mergeCompound(contexts)
	if !n.Sort {
		return merged
	}

	out := make([]string, 0, len(merged))
	run := make([]string, 0, len(merged))
	for _, c := range merged {
		if !n.orderSensitive(c) {
			run = append(run, c)
			continue
		}
		slices.Sort(run)
		out = append(out, run...)
		out = append(out, c)
		run = run[:0]
	}
	slices.Sort(run)
	return append(out, run...)
}

// mergeCompound joins each compound context with the segment after it.
func (n Normalizer) mergeCompound(contexts []string) []string {
	out := make([]string, 0, len(contexts))
	for i := 0; i < len(contexts); i++ {
		c := contexts[i]
		if n.Compound.Has(c) && i+1 < len(contexts) {
			c += ":" + contexts[i+1]
			i++
		}
		out = append(out, c)
	}
	return out
}

// orderSensitive matches the full context or its leading segment.
func (n Normalizer) orderSensitive(c string) bool {
	if n.OrderSensitive.Has(c) {
		return true
	}
	head, _, found := strings.Cut(c, ":")
	return found && n.OrderSensitive.Has(head)
}

// Key builds the conflict key for property under contexts.
func Key(contexts []string, property string) string {
	return strings.Join(contexts, ":") + "|" + property
}
