package gpu

import (
	"fmt"
	"image/color"
	"strings"

	"golgl/internal/rules"
)

// Edge selects what the transition program sees beyond the grid border.
type Edge int

const (
	// EdgeDead treats every cell outside the grid as dead.
	EdgeDead Edge = iota
	// EdgeWrap joins opposite borders, making the grid a torus.
	EdgeWrap
)

func (e Edge) String() string {
	if e == EdgeWrap {
		return "wrap"
	}
	return "dead"
}

// ParseEdge accepts "dead" (also "clamp") and "wrap" (also "torus").
func ParseEdge(s string) (Edge, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dead", "clamp", "":
		return EdgeDead, nil
	case "wrap", "torus":
		return EdgeWrap, nil
	default:
		return EdgeDead, fmt.Errorf("gpu: unknown edge policy %q", s)
	}
}

// Uniforms are the per-pass parameters handed to a program.
type Uniforms interface {
	// Values returns the uniforms keyed by program variable name.
	Values() map[string]any
}

// TransitionUniforms parameterise the transition program.
type TransitionUniforms struct {
	Birth   rules.Encoded
	Survive rules.Encoded
	Edge    Edge
}

// Values implements Uniforms.
func (u TransitionUniforms) Values() map[string]any {
	wrap := float32(0)
	if u.Edge == EdgeWrap {
		wrap = 1
	}
	return map[string]any{
		"Birth":   u.Birth.Float32s(),
		"Survive": u.Survive.Float32s(),
		"Wrap":    wrap,
	}
}

// PresentUniforms parameterise the presentation program. Pan is measured in
// grid cells; Scale magnifies around the surface centre.
type PresentUniforms struct {
	Scale float32
	Pan   [2]float32
	On    color.RGBA
	Off   color.RGBA
}

// Values implements Uniforms.
func (u PresentUniforms) Values() map[string]any {
	return map[string]any{
		"Scale":    u.Scale,
		"Pan":      []float32{u.Pan[0], u.Pan[1]},
		"OnColor":  normalize(u.On),
		"OffColor": normalize(u.Off),
	}
}

func normalize(c color.RGBA) []float32 {
	return []float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}
