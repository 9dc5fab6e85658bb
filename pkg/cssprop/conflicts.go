package cssprop

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
)

// ErrInvalidConflicts is returned when a conflict map cannot be decoded.
var ErrInvalidConflicts = errors.New("invalid conflict map")

// Conflicts maps a dash-case shorthand property to the longhands it sets.
type Conflicts map[string][]string

// Longhands returns the longhands implied by property.
func (c Conflicts) Longhands(property string) []string {
	return c[property]
}

// Clone returns a deep copy of c.
func (c Conflicts) Clone() Conflicts {
	out := make(Conflicts, len(c))
	for k, v := range c {
		out[k] = slices.Clone(v)
	}
	return out
}

// Overlay returns a copy of c with the entries of over layered on top.
// Entries of over replace the entry of the same shorthand; other shorthands
// of c are kept. Names are converted to dash-case and every list is
// de-duplicated, keeping first occurrences.
func (c Conflicts) Overlay(over map[string][]string) Conflicts {
	out := make(Conflicts, len(c)+len(over))
	for k, v := range c {
		out[ToDash(k)] = dedupe(v)
	}
	for _, k := range slices.Sorted(maps.Keys(over)) {
		out[ToDash(k)] = dedupe(over[k])
	}
	return out
}

func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = ToDash(n)
		if _, ok := seen[n]; ok || n == "" {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// LoadConflicts decodes a JSON object of shorthand to longhand lists.
func LoadConflicts(r io.Reader) (Conflicts, error) {
	var raw map[string][]string
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConflicts, err)
	}
	return Conflicts(nil).Overlay(raw), nil
}

// DefaultConflicts returns a fresh copy of the built-in shorthand table.
func DefaultConflicts() Conflicts {
	return defaultConflicts.Clone()
}

var defaultConflicts = Conflicts(nil).Overlay(map[string][]string{
	// Box model
	"margin":                 {"margin-top", "margin-right", "margin-bottom", "margin-left", "margin-block", "margin-block-start", "margin-block-end", "margin-inline", "margin-inline-start", "margin-inline-end"},
	"margin-block":           {"margin-block-start", "margin-block-end", "margin-top", "margin-bottom"},
	"margin-inline":          {"margin-inline-start", "margin-inline-end", "margin-left", "margin-right"},
	"padding":                {"padding-top", "padding-right", "padding-bottom", "padding-left", "padding-block", "padding-block-start", "padding-block-end", "padding-inline", "padding-inline-start", "padding-inline-end"},
	"padding-block":          {"padding-block-start", "padding-block-end", "padding-top", "padding-bottom"},
	"padding-inline":         {"padding-inline-start", "padding-inline-end", "padding-left", "padding-right"},
	"inset":                  {"top", "right", "bottom", "left", "inset-block", "inset-block-start", "inset-block-end", "inset-inline", "inset-inline-start", "inset-inline-end"},
	"inset-block":            {"inset-block-start", "inset-block-end", "top", "bottom"},
	"inset-inline":           {"inset-inline-start", "inset-inline-end", "left", "right"},
	"overflow":               {"overflow-x", "overflow-y", "overflow-block", "overflow-inline"},
	"overscroll-behavior":    {"overscroll-behavior-x", "overscroll-behavior-y", "overscroll-behavior-block", "overscroll-behavior-inline"},
	"contain-intrinsic-size": {"contain-intrinsic-width", "contain-intrinsic-height", "contain-intrinsic-block-size", "contain-intrinsic-inline-size"},
	"scroll-margin":          {"scroll-margin-top", "scroll-margin-right", "scroll-margin-bottom", "scroll-margin-left", "scroll-margin-block", "scroll-margin-block-start", "scroll-margin-block-end", "scroll-margin-inline", "scroll-margin-inline-start", "scroll-margin-inline-end"},
	"scroll-padding":         {"scroll-padding-top", "scroll-padding-right", "scroll-padding-bottom", "scroll-padding-left", "scroll-padding-block", "scroll-padding-block-start", "scroll-padding-block-end", "scroll-padding-inline", "scroll-padding-inline-start", "scroll-padding-inline-end"},

	// Border
	"border":              {"border-width", "border-style", "border-color", "border-top", "border-right", "border-bottom", "border-left", "border-top-width", "border-right-width", "border-bottom-width", "border-left-width", "border-top-style", "border-right-style", "border-bottom-style", "border-left-style", "border-top-color", "border-right-color", "border-bottom-color", "border-left-color", "border-image"},
	"border-width":        {"border-top-width", "border-right-width", "border-bottom-width", "border-left-width"},
	"border-style":        {"border-top-style", "border-right-style", "border-bottom-style", "border-left-style"},
	"border-color":        {"border-top-color", "border-right-color", "border-bottom-color", "border-left-color"},
	"border-top":          {"border-top-width", "border-top-style", "border-top-color"},
	"border-right":        {"border-right-width", "border-right-style", "border-right-color"},
	"border-bottom":       {"border-bottom-width", "border-bottom-style", "border-bottom-color"},
	"border-left":         {"border-left-width", "border-left-style", "border-left-color"},
	"border-block":        {"border-block-start", "border-block-end", "border-block-width", "border-block-style", "border-block-color"},
	"border-block-start":  {"border-block-start-width", "border-block-start-style", "border-block-start-color"},
	"border-block-end":    {"border-block-end-width", "border-block-end-style", "border-block-end-color"},
	"border-inline":       {"border-inline-start", "border-inline-end", "border-inline-width", "border-inline-style", "border-inline-color"},
	"border-inline-start": {"border-inline-start-width", "border-inline-start-style", "border-inline-start-color"},
	"border-inline-end":   {"border-inline-end-width", "border-inline-end-style", "border-inline-end-color"},
	"border-radius":       {"border-top-left-radius", "border-top-right-radius", "border-bottom-right-radius", "border-bottom-left-radius", "border-start-start-radius", "border-start-end-radius", "border-end-start-radius", "border-end-end-radius"},
	"border-image":        {"border-image-source", "border-image-slice", "border-image-width", "border-image-outset", "border-image-repeat"},
	"outline":             {"outline-width", "outline-style", "outline-color"},
	"column-rule":         {"column-rule-width", "column-rule-style", "column-rule-color"},

	// Background and masking
	"background":          {"background-color", "background-image", "background-position", "background-position-x", "background-position-y", "background-size", "background-repeat", "background-origin", "background-clip", "background-attachment"},
	"background-position": {"background-position-x", "background-position-y"},
	"mask":                {"mask-image", "mask-mode", "mask-position", "mask-size", "mask-repeat", "mask-origin", "mask-clip", "mask-composite"},

	// Typography
	"font":            {"font-style", "font-variant", "font-weight", "font-stretch", "font-size", "line-height", "font-family", "font-size-adjust", "font-kerning", "font-optical-sizing", "font-variant-alternates", "font-variant-caps", "font-variant-east-asian", "font-variant-ligatures", "font-variant-numeric", "font-variant-position", "font-feature-settings", "font-variation-settings"},
	"font-variant":    {"font-variant-alternates", "font-variant-caps", "font-variant-east-asian", "font-variant-ligatures", "font-variant-numeric", "font-variant-position"},
	"text-decoration": {"text-decoration-line", "text-decoration-style", "text-decoration-color", "text-decoration-thickness"},
	"text-emphasis":   {"text-emphasis-style", "text-emphasis-color"},
	"text-wrap":       {"text-wrap-mode", "text-wrap-style"},
	"white-space":     {"white-space-collapse", "text-wrap-mode"},
	"list-style":      {"list-style-type", "list-style-position", "list-style-image"},
	"columns":         {"column-width", "column-count"},

	// Grid and flex
	"flex":          {"flex-grow", "flex-shrink", "flex-basis"},
	"flex-flow":     {"flex-direction", "flex-wrap"},
	"gap":           {"row-gap", "column-gap"},
	"grid":          {"grid-template-rows", "grid-template-columns", "grid-template-areas", "grid-template", "grid-auto-rows", "grid-auto-columns", "grid-auto-flow"},
	"grid-template": {"grid-template-rows", "grid-template-columns", "grid-template-areas"},
	"grid-area":     {"grid-row", "grid-column", "grid-row-start", "grid-row-end", "grid-column-start", "grid-column-end"},
	"grid-row":      {"grid-row-start", "grid-row-end"},
	"grid-column":   {"grid-column-start", "grid-column-end"},
	"place-content": {"align-content", "justify-content"},
	"place-items":   {"align-items", "justify-items"},
	"place-self":    {"align-self", "justify-self"},

	// Transition and animation
	"transition":      {"transition-property", "transition-duration", "transition-timing-function", "transition-delay", "transition-behavior"},
	"animation":       {"animation-name", "animation-duration", "animation-timing-function", "animation-delay", "animation-iteration-count", "animation-direction", "animation-fill-mode", "animation-play-state", "animation-timeline", "animation-range", "animation-range-start", "animation-range-end", "animation-composition"},
	"animation-range": {"animation-range-start", "animation-range-end"},
	"offset":          {"offset-position", "offset-path", "offset-distance", "offset-rotate", "offset-anchor"},
	"scroll-timeline": {"scroll-timeline-name", "scroll-timeline-axis"},
	"view-timeline":   {"view-timeline-name", "view-timeline-axis", "view-timeline-inset"},

	// Interaction and layout containers
	"container":    {"container-name", "container-type"},
	"position-try": {"position-try-fallbacks"},
})
