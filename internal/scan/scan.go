// Package scan splits class strings on a delimiter while treating {…} and […]
// spans as opaque units.
//
// Brace and bracket depths are tracked independently. A closer with no
// matching opener is ignored, so depth never goes negative.
package scan

// depth tracks the nesting of {} and [] spans.
type depth struct {
	brace   int
	bracket int
}

// step updates the depth for c.
func (d *depth) step(c byte) {
	switch c {
	case '{':
		d.brace++
	case '}':
		if d.brace > 0 {
			d.brace--
		}
	case '[':
		d.bracket++
	case ']':
		if d.bracket > 0 {
			d.bracket--
		}
	}
}

// top reports whether the walk is outside every span.
func (d *depth) top() bool {
	return d.brace == 0 && d.bracket == 0
}

// splitFunc returns the non-empty spans of s separated by top-level bytes
// for which isDelim is true.
func splitFunc(s string, isDelim func(byte) bool) []string {
	var (
		parts []string
		d     depth
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if d.top() && isDelim(c) {
			if i > start {
				parts = append(parts, s[start:i])
			}
			start = i + 1
			continue
		}
		d.step(c)
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

// Split returns the non-empty spans of s between top-level occurrences of delim.
func Split(s string, delim byte) []string {
	return splitFunc(s, func(c byte) bool { return c == delim })
}

// Fields splits s on top-level ASCII whitespace.
func Fields(s string) []string {
	return splitFunc(s, isSpace)
}

// SplitOnce splits s at the first top-level occurrence of delim.
// ok is false when s has no such occurrence.
func SplitOnce(s string, delim byte) (before, after string, ok bool) {
	var d depth
	for i := 0; i < len(s); i++ {
		c := s[i]
		if d.top() && c == delim {
			return s[:i], s[i+1:], true
		}
		d.step(c)
	}
	return s, "", false
}

// Index returns the byte offset of the first top-level occurrence of sub in s,
// or -1. The first byte of sub must itself be at depth zero.
func Index(s, sub string) int {
	if sub == "" {
		return 0
	}
	var d depth
	for i := 0; i+len(sub) <= len(s); i++ {
		if d.top() && s[i:i+len(sub)] == sub {
			return i
		}
		d.step(s[i])
	}
	return -1
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
