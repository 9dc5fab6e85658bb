package cn

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/vango-dev/vango-cn/internal/gencache"
	"github.com/vango-dev/vango-cn/internal/group"
	"github.com/vango-dev/vango-cn/internal/scan"
	"github.com/vango-dev/vango-cn/internal/selector"
	"github.com/vango-dev/vango-cn/pkg/cssprop"
)

// Merger resolves conflicts in class lists. Its configuration is fixed at
// construction and each Merger owns its cache. A Merger is safe for
// concurrent use.
type Merger struct {
	normalizer selector.Normalizer
	conflicts  cssprop.Conflicts
	validator  *cssprop.Validator
	cache      *gencache.Cache
	logger     *slog.Logger
}

// MergeFunc merges class values into one class string.
type MergeFunc func(values ...any) string

// CacheStats reports cache activity of a Merger.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Flips   uint64
	Entries int
}

// New returns a Merger configured by opts over the defaults.
func New(opts ...Option) *Merger {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m := &Merger{
		normalizer: selector.Normalizer{
			Sort:           o.sortContexts,
			OrderSensitive: selector.NewSet(o.orderSensitive...),
			Compound:       selector.NewSet(o.compound...),
		},
		conflicts: cssprop.DefaultConflicts().Overlay(o.conflicts),
		validator: o.validator,
		cache:     gencache.New(o.cacheSize),
		logger:    o.logger,
	}
	m.cache.OnFlip(func(evicted int) {
		m.logger.Debug("cache generation flipped", "capacity", o.cacheSize, "evicted", evicted)
	})

	m.logger.Debug("merger configured",
		"cache_size", o.cacheSize,
		"sort_contexts", o.sortContexts,
		"order_sensitive", m.normalizer.OrderSensitive.Names(),
		"compound", m.normalizer.Compound.Names(),
		"conflict_entries", len(m.conflicts),
	)
	return m
}

// NewFunc returns the Merge method of a new Merger.
func NewFunc(opts ...Option) MergeFunc {
	return New(opts...).Merge
}

// Merge flattens values with Join and resolves conflicts in the result.
// Results are cached by the flattened input.
func (m *Merger) Merge(values ...any) string {
	in := Join(values...)
	if in == "" {
		return ""
	}
	if out, ok := m.cache.Get(in); ok {
		return out
	}
	out := m.mergeClassList(in)
	m.cache.Set(in, out)
	return out
}

// Stats returns a snapshot of the cache counters.
func (m *Merger) Stats() CacheStats {
	s := m.cache.Stats()
	return CacheStats{Hits: s.Hits, Misses: s.Misses, Flips: s.Flips, Entries: s.Entries}
}

// mergeClassList keeps, for every conflict key, only the last class that
// claims it. A class that loses any key is dropped whole. Classes that name
// no property claim no key and always survive, repeats included.
func (m *Merger) mergeClassList(list string) string {
	var tokens []string
	for _, raw := range scan.Fields(list) {
		tokens = append(tokens, group.Expand(raw)...)
	}

	out := make([]string, 0, len(tokens))
	owner := make(map[string]int, len(tokens))
	for i, token := range tokens {
		keys := m.conflictKeys(token)
		for _, k := range keys {
			if j, ok := owner[k]; ok {
				out[j] = ""
			}
		}
		for _, k := range keys {
			owner[k] = i
		}
		out = append(out, token)
	}

	out = slices.DeleteFunc(out, func(s string) bool { return s == "" })
	return strings.Join(out, " ")
}

// conflictKeys returns the keys token occupies: its own property plus every
// longhand of it, all under the normalized context. It returns nil when the
// token names no property.
func (m *Merger) conflictKeys(token string) []string {
	contexts, property, ok := m.parseToken(token)
	if !ok {
		return nil
	}
	contexts = m.normalizer.Normalize(contexts)

	longhands := m.conflicts.Longhands(property)
	keys := make([]string, 0, 1+len(longhands))
	keys = append(keys, selector.Key(contexts, property))
	for _, l := range longhands {
		keys = append(keys, selector.Key(contexts, l))
	}
	return keys
}

// parseToken splits token into its contexts and dash-case property.
func (m *Merger) parseToken(token string) (contexts []string, property string, ok bool) {
	if g, isGroup := group.Parse(token); isGroup && len(g.Entries) == 1 {
		if name := g.Entries[0].Name; m.validator.IsProperty(name) {
			return scan.Split(g.Prefix, ':'), cssprop.ToDash(name), true
		}
	}

	segments := scan.Split(token, ':')
	for i, s := range segments {
		if m.validator.IsProperty(s) {
			return segments[:i], cssprop.ToDash(s), true
		}
	}
	return nil, "", false
}
