package selector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vango-dev/vango-cn/internal/selector"
)

func defaultNormalizer() selector.Normalizer {
	return selector.Normalizer{
		Sort:           true,
		OrderSensitive: selector.NewSet("before", "after"),
		Compound:       selector.NewSet("at", "container"),
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"single", []string{"hover"}, []string{"hover"}},
		{"commuting contexts sorted", []string{"sm", "hover", "dark"}, []string{"dark", "hover", "sm"}},
		{"anchor never moves", []string{"zeta", "before", "alpha"}, []string{"zeta", "before", "alpha"}},
		{"runs sorted independently", []string{"sm", "hover", "after", "focus", "dark"}, []string{"hover", "sm", "after", "dark", "focus"}},
		{"compound merged", []string{"container", "md", "hover"}, []string{"container:md", "hover"}},
		{"compound sorts as a unit", []string{"hover", "at", "print"}, []string{"at:print", "hover"}},
		{"trailing compound kept alone", []string{"hover", "at"}, []string{"at", "hover"}},
		{"consecutive compounds", []string{"at", "container", "md"}, []string{"at:container", "md"}},
		{"anchor by leading segment", []string{"zeta", "before:x", "alpha"}, []string{"zeta", "before:x", "alpha"}},
		{"case sensitive", []string{"b", "B", "a"}, []string{"B", "a", "b"}},
	}
	n := defaultNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalize_CompoundAnchor(t *testing.T) {
	n := selector.Normalizer{
		Sort:           true,
		OrderSensitive: selector.NewSet("at"),
		Compound:       selector.NewSet("at"),
	}
	assert.Equal(t, []string{"sm", "at:print", "dark", "hover"}, n.Normalize([]string{"sm", "at", "print", "hover", "dark"}))
}

func TestNormalize_SortDisabled(t *testing.T) {
	n := defaultNormalizer()
	n.Sort = false
	assert.Equal(t, []string{"sm", "hover", "container:md"}, n.Normalize([]string{"sm", "hover", "container", "md"}))
}

func TestNormalize_DoesNotModifyInput(t *testing.T) {
	in := []string{"sm", "hover"}
	defaultNormalizer().Normalize(in)
	assert.Equal(t, []string{"sm", "hover"}, in)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "|color", selector.Key(nil, "color"))
	assert.Equal(t, "hover:sm|margin-top", selector.Key([]string{"hover", "sm"}, "margin-top"))
}

func TestSet(t *testing.T) {
	s := selector.NewSet("b", "a", "b")
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has("c"))
	assert.Equal(t, []string{"a", "b"}, s.Names())
}
