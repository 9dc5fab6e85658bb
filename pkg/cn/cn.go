// Package cn merges utility class lists.
//
// Later classes override earlier classes that set the same CSS property in
// the same selector context, including shorthand and longhand overlaps:
//
//	cn.CN("margin:8px hover:color:red", "margin-top:4px color:blue")
//	// "hover:color:red margin-top:4px color:blue"
//
// A class is read as colon separated segments. The first segment that names
// a CSS property is the property; the segments before it are its context
// (breakpoints, states, pseudo elements). Grouped classes of the form
// "sm:{color:red;margin:4px}" are expanded into one class per property.
//
// Classes that name no property never conflict and are kept as written.
package cn

import (
	"reflect"
	"strings"
	"sync"
)

// Join flattens values into a single space separated class string.
//
// Strings are kept in argument order, slices are walked depth first, and
// everything else (nil, false, numbers, empty strings) contributes nothing.
func Join(values ...any) string {
	var b strings.Builder
	for _, v := range values {
		appendValue(&b, v)
	}
	return b.String()
}

func appendValue(b *strings.Builder, v any) {
	switch x := v.(type) {
	case nil, bool:
	case string:
		appendString(b, x)
	case []string:
		for _, s := range x {
			appendString(b, s)
		}
	case []any:
		for _, e := range x {
			appendValue(b, e)
		}
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.String:
			appendString(b, rv.String())
		case reflect.Slice, reflect.Array:
			for i := 0; i < rv.Len(); i++ {
				appendValue(b, rv.Index(i).Interface())
			}
		}
	}
}

func appendString(b *strings.Builder, s string) {
	if s == "" {
		return
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	b.WriteString(s)
}

var defaultMerger = sync.OnceValue(func() *Merger { return New() })

// Default returns the shared Merger built with the default configuration.
func Default() *Merger {
	return defaultMerger()
}

// CN merges values with the default Merger.
func CN(values ...any) string {
	return Default().Merge(values...)
}
