// Package variant builds component class strings from base classes, named
// variant axes and caller overrides, resolving conflicts with cn.
//
//	button := variant.New("display:inline-flex padding:8px",
//		variant.Axis("size", map[string]string{
//			"sm": "padding:4px font-size:12px",
//			"lg": "padding:12px font-size:18px",
//		}),
//		variant.Default("size", "sm"),
//	)
//	button.Classes(variant.Selection{"size": "lg"}, "padding-left:0")
//	// display:inline-flex font-size:18px padding-left:0
package variant

import (
	"maps"
	"slices"

	"github.com/vango-dev/vango-cn/pkg/cn"
)

// Selection picks a value for each variant axis by name.
type Selection map[string]string

// Compound adds classes when every condition in When is selected.
type Compound struct {
	When    Selection
	Classes string
}

// Recipe resolves the class string of one component. It is immutable after
// New and safe for concurrent use when its merge function is.
type Recipe struct {
	base     string
	axes     map[string]map[string]string
	order    []string // axis names in declaration order
	defaults Selection
	compound []Compound
	merge    cn.MergeFunc
}

// Option configures a Recipe.
type Option func(*Recipe)

// Axis declares a variant axis and the classes of each of its values.
// Axes contribute classes in declaration order.
func Axis(name string, values map[string]string) Option {
	return func(r *Recipe) {
		if _, ok := r.axes[name]; !ok {
			r.order = append(r.order, name)
		}
		r.axes[name] = maps.Clone(values)
	}
}

// Default selects value for axis when a Selection leaves it out.
func Default(axis, value string) Option {
	return func(r *Recipe) { r.defaults[axis] = value }
}

// When adds classes applied after all axes when every condition matches.
func When(conditions Selection, classes string) Option {
	return func(r *Recipe) {
		r.compound = append(r.compound, Compound{When: maps.Clone(conditions), Classes: classes})
	}
}

// WithMerge resolves classes with merge instead of cn.CN.
func WithMerge(merge cn.MergeFunc) Option {
	return func(r *Recipe) {
		if merge != nil {
			r.merge = merge
		}
	}
}

// New returns a Recipe with base classes and opts.
func New(base string, opts ...Option) *Recipe {
	r := &Recipe{
		base:     base,
		axes:     make(map[string]map[string]string),
		defaults: make(Selection),
		merge:    cn.CN,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Axes returns the declared axis names in declaration order.
func (r *Recipe) Axes() []string {
	return slices.Clone(r.order)
}

// Resolve fills sel with defaults for the axes it leaves out. Unknown axis
// names and values are kept and contribute no classes.
func (r *Recipe) Resolve(sel Selection) Selection {
	out := make(Selection, len(r.defaults)+len(sel))
	maps.Copy(out, r.defaults)
	for axis, value := range sel {
		if value != "" {
			out[axis] = value
		}
	}
	return out
}

// Classes returns base classes, then the classes of each selected axis
// value, then matching compound classes, then extra, merged so that later
// declarations win.
func (r *Recipe) Classes(sel Selection, extra ...any) string {
	resolved := r.Resolve(sel)

	values := make([]any, 0, 2+len(r.order)+len(r.compound)+len(extra))
	values = append(values, r.base)
	for _, axis := range r.order {
		values = append(values, r.axes[axis][resolved[axis]])
	}
	for _, c := range r.compound {
		if matches(resolved, c.When) {
			values = append(values, c.Classes)
		}
	}
	values = append(values, extra...)
	return r.merge(values...)
}

func matches(sel, when Selection) bool {
	for axis, value := range when {
		if sel[axis] != value {
			return false
		}
	}
	return true
}
