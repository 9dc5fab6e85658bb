// Package cssprop answers whether a name is a CSS property and holds the
// default shorthand to longhand table used for conflict detection.
package cssprop

import (
	"strings"
	"sync"
)

// Oracle decides whether a name is a recognized CSS property. It is asked
// about both dash-case and camelCase spellings.
type Oracle interface {
	IsProperty(name string) bool
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(name string) bool

// IsProperty calls f(name).
func (f OracleFunc) IsProperty(name string) bool { return f(name) }

// Known is the Oracle backed by the bundled property list. It accepts the
// dash-case and camelCase spelling of every listed property, vendor-prefixed
// spellings of them, and custom properties ("--name").
var Known Oracle = OracleFunc(isKnown)

var (
	knownOnce sync.Once
	knownSet  map[string]struct{}
)

func isKnown(name string) bool {
	knownOnce.Do(func() {
		knownSet = make(map[string]struct{}, 2*len(properties))
		for _, p := range properties {
			knownSet[p] = struct{}{}
			knownSet[ToCamel(p)] = struct{}{}
		}
	})
	if len(name) > 2 && strings.HasPrefix(name, "--") {
		return true
	}
	if _, ok := knownSet[name]; ok {
		return true
	}
	dash := ToDash(name)
	if rest, ok := stripVendor(dash); ok {
		_, ok := knownSet[rest]
		return ok
	}
	return false
}

var vendorPrefixes = []string{"-webkit-", "-moz-", "-ms-", "-o-"}

func stripVendor(name string) (string, bool) {
	for _, p := range vendorPrefixes {
		if strings.HasPrefix(name, p) {
			return name[len(p):], true
		}
	}
	return name, false
}

// Validator memoizes Oracle answers. A Validator is safe for concurrent use
// and may be shared between mergers since its answers depend only on the name.
type Validator struct {
	oracle Oracle
	memo   sync.Map // map[string]bool
}

// NewValidator returns a Validator consulting oracle.
func NewValidator(oracle Oracle) *Validator {
	return &Validator{oracle: oracle}
}

// Default is the process-wide Validator over Known.
var Default = NewValidator(Known)

// IsProperty reports whether name, in its dash-case or camelCase spelling,
// is a property according to the oracle.
func (v *Validator) IsProperty(name string) bool {
	if name == "" {
		return false
	}
	if ok, hit := v.memo.Load(name); hit {
		return ok.(bool)
	}
	ok := v.oracle.IsProperty(ToDash(name)) || v.oracle.IsProperty(ToCamel(name))
	v.memo.Store(name, ok)
	return ok
}

// ToDash converts a camelCase property name to dash-case. Names that are
// already dash-case and custom properties are returned unchanged. A leading
// upper-case letter or "ms" marks a vendor prefix ("WebkitBoxShadow", "msFlex").
func ToDash(name string) string {
	if strings.HasPrefix(name, "--") || !hasUpper(name) {
		return name
	}
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i := 0; i < len(name); i++ {
		c := name[i]
		if 'A' <= c && c <= 'Z' {
			b.WriteByte('-')
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	out := b.String()
	if strings.HasPrefix(out, "ms-") {
		out = "-" + out
	}
	return out
}

// ToCamel converts a dash-case property name to camelCase. A vendor prefix
// becomes a leading capital except for "-ms-", which stays lower-case as
// browsers expose it ("msFlex"). Custom properties are returned unchanged.
func ToCamel(name string) string {
	if strings.HasPrefix(name, "--") || !strings.Contains(name, "-") {
		return name
	}
	if strings.HasPrefix(name, "-ms-") {
		name = name[1:]
	}
	var b strings.Builder
	b.Grow(len(name))
	upper := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '-' {
			upper = true
			continue
		}
		if upper && 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		b.WriteByte(c)
	}
	return b.String()
}

func hasUpper(s string) bool {
	for i := 0; i < len(s); i++ {
		if 'A' <= s[i] && s[i] <= 'Z' {
			return true
		}
	}
	return false
}
