// Package group recognizes the grouped selector syntax
//
//	<prefix>:{<name>:<value>;<name>:<value>...}
//
// and rewrites it into canonical single-property tokens.
package group

import (
	"slices"
	"strings"

	"github.com/vango-dev/vango-cn/internal/scan"
)

// marker separates the prefix from the group body.
const marker = ":{"

// Entry is one name:value pair of a group body.
type Entry struct {
	Name  string
	Value string
}

// Group is a parsed grouped token.
type Group struct {
	Prefix  string
	Entries []Entry
}

// Parse reports the prefix and valid entries of token.
// ok is false when token is not group shaped or has no valid entries.
func Parse(token string) (Group, bool) {
	if !strings.HasSuffix(token, "}") {
		return Group{}, false
	}
	i := scan.Index(token, marker)
	if i < 0 || !closesAtEnd(token, i+1) {
		return Group{}, false
	}

	g := Group{Prefix: token[:i]}
	body := token[i+len(marker) : len(token)-1]
	for _, raw := range scan.Split(body, ';') {
		name, value, ok := scan.SplitOnce(raw, ':')
		if !ok {
			continue
		}
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		g.Entries = append(g.Entries, Entry{Name: name, Value: value})
	}
	if len(g.Entries) == 0 {
		return Group{}, false
	}
	return g, true
}

// closesAtEnd reports whether the brace opened at s[open] is closed by the
// last byte of s.
func closesAtEnd(s string, open int) bool {
	n := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			n++
		case '}':
			n--
			if n == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}

// String renders a single-entry group in its bracketed form.
func (g Group) String() string {
	var b strings.Builder
	b.WriteString(g.Prefix)
	b.WriteString(marker)
	for i, e := range g.Entries {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(e.Name)
		b.WriteByte(':')
		b.WriteString(e.Value)
	}
	b.WriteByte('}')
	return b.String()
}

// Flat renders every entry as "<prefix>:<name>:<value>", sorted by name.
func (g Group) Flat() []string {
	entries := slices.Clone(g.Entries)
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Name, b.Name)
	})
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = g.Prefix + ":" + e.Name + ":" + e.Value
	}
	return out
}

// Expand rewrites token into the tokens it stands for.
//
// A token with no valid entries is returned unchanged. A single entry is
// re-serialized in bracketed form. Two or more entries become one flat token
// each, ordered by name, so groups that differ only in entry order expand
// identically.
func Expand(token string) []string {
	g, ok := Parse(token)
	if !ok {
		return []string{token}
	}
	if len(g.Entries) == 1 {
		return []string{g.String()}
	}
	return g.Flat()
}
