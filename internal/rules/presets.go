package rules

import (
	"fmt"
	"strings"
)

// Preset is a named rule offered to the rule selector.
type Preset struct {
	Label string
	Rules RuleSet
}

// String renders the preset as "Label (survival/birth)".
func (p Preset) String() string {
	return fmt.Sprintf("%s (%s)", p.Label, p.Rules.Legacy())
}

// Listed as (label, survival counts, birth counts).
var presets = []Preset{
	preset("Conway's Life", []int{2, 3}, []int{3}),
	preset("Mazectric", []int{1, 2, 3, 4}, []int{3}),
	preset("Maze", []int{1, 2, 3, 4, 5}, []int{3}),
	preset("Serviettes", nil, []int{2, 3, 4}),
	preset("DotLife", []int{0, 2, 3}, []int{3}),
	preset("Coral", []int{4, 5, 6, 7, 8}, []int{3}),
	preset("34 Life", []int{3, 4}, []int{3, 4}),
	preset("Assimilation", []int{4, 5, 6, 7}, []int{3, 4, 5}),
	preset("Long Life", []int{5}, []int{3, 4, 5}),
	preset("Diamoeba", []int{5, 6, 7, 8}, []int{3, 5, 6, 7, 8}),
	preset("Amoeba", []int{1, 3, 5, 8}, []int{3, 5, 7}),
	preset("Pseudo Life", []int{2, 3, 8}, []int{3, 5, 7}),
	preset("2x2", []int{1, 2, 5}, []int{3, 6}),
	preset("HighLife", []int{2, 3}, []int{3, 6}),
	preset("Move", []int{2, 4, 5}, []int{3, 6, 8}),
	preset("Stains", []int{2, 3, 5, 6, 7, 8}, []int{3, 6, 7, 8}),
	preset("Day & Night", []int{3, 4, 6, 7, 8}, []int{3, 6, 7, 8}),
	preset("DryLife", []int{2, 3}, []int{3, 7}),
	preset("Coagulations", []int{2, 3, 5, 6, 7, 8}, []int{3, 7, 8}),
	preset("Walled Cities", []int{2, 3, 4, 5}, []int{4, 5, 6, 7, 8}),
	preset("Vote 4/5", []int{3, 5, 6, 7, 8}, []int{4, 6, 7, 8}),
	preset("Vote", []int{4, 5, 6, 7, 8}, []int{5, 6, 7, 8}),
}

func preset(label string, survive, birth []int) Preset {
	r, err := New(birth, survive)
	if err != nil {
		panic(fmt.Sprintf("rules: preset %q: %v", label, err))
	}
	return Preset{Label: label, Rules: r}
}

// Presets returns the recognised presets in display order. Conway's Life is
// always first.
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// Conway returns Conway's Life, B3/S23, the default rule.
func Conway() RuleSet { return presets[0].Rules }

// Lookup finds a preset by label, ignoring case and surrounding space.
func Lookup(label string) (Preset, bool) {
	want := strings.TrimSpace(label)
	for _, p := range presets {
		if strings.EqualFold(p.Label, want) {
			return p, true
		}
	}
	return Preset{}, false
}

// Resolve accepts a preset label or a rule in either notation.
func Resolve(s string) (RuleSet, error) {
	if p, ok := Lookup(s); ok {
		return p.Rules, nil
	}
	return Parse(s)
}
