package cn

import (
	"log/slog"
	"slices"

	"github.com/vango-dev/vango-cn/pkg/cssprop"
)

// Defaults applied by New.
const (
	DefaultCacheSize = 500
)

var (
	// DefaultOrderSensitiveContexts keep their authored position when
	// contexts are sorted.
	DefaultOrderSensitiveContexts = []string{"before", "after"}
	// DefaultCompoundContexts take the following segment as their argument.
	DefaultCompoundContexts = []string{"at", "container"}
)

type options struct {
	cacheSize      int
	sortContexts   bool
	orderSensitive []string
	compound       []string
	conflicts      map[string][]string
	validator      *cssprop.Validator
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		cacheSize:      DefaultCacheSize,
		sortContexts:   true,
		orderSensitive: DefaultOrderSensitiveContexts,
		compound:       DefaultCompoundContexts,
		validator:      cssprop.Default,
		logger:         slog.New(slog.DiscardHandler),
	}
}

// Option configures a Merger.
type Option func(*options)

// WithCacheSize sets how many merged results each cache generation holds.
// A size below 1 disables caching.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// WithSortContexts turns canonical ordering of contexts on or off. With
// sorting on, "hover:sm:color:red" and "sm:hover:color:red" conflict.
func WithSortContexts(on bool) Option {
	return func(o *options) { o.sortContexts = on }
}

// WithOrderSensitiveContexts replaces the set of contexts that are never
// reordered.
func WithOrderSensitiveContexts(contexts ...string) Option {
	return func(o *options) { o.orderSensitive = slices.Clone(contexts) }
}

// WithCompoundContexts replaces the set of contexts that absorb the segment
// after them.
func WithCompoundContexts(contexts ...string) Option {
	return func(o *options) { o.compound = slices.Clone(contexts) }
}

// WithConflicts layers shorthand to longhand entries over the defaults.
// An entry replaces the default entry for the same shorthand. Repeated
// calls accumulate.
func WithConflicts(conflicts map[string][]string) Option {
	return func(o *options) {
		if o.conflicts == nil {
			o.conflicts = make(map[string][]string, len(conflicts))
		}
		for k, v := range conflicts {
			o.conflicts[k] = slices.Clone(v)
		}
	}
}

// WithOracle decides property names with oracle instead of the bundled list.
func WithOracle(oracle cssprop.Oracle) Option {
	return func(o *options) { o.validator = cssprop.NewValidator(oracle) }
}

// WithValidator shares an existing validator, and its memo, with the Merger.
func WithValidator(v *cssprop.Validator) Option {
	return func(o *options) { o.validator = v }
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
