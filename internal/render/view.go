package render

import (
	"image/color"
	"math"

	"golgl/internal/gpu"
)

// Scale bounds of the view transform.
const (
	MinScale = 1.0
	MaxScale = 10.0

	// ZoomStep is the scale change of one wheel notch.
	ZoomStep = 0.1
)

// View is the transform the presentation pass samples the grid through.
// Pan is measured in grid cells. It never influences simulation results.
type View struct {
	Scale float64
	PanX  float64
	PanY  float64
}

// DefaultView shows the whole grid at scale 1 without panning.
func DefaultView() View { return View{Scale: MinScale} }

// ClampScale restricts k to [MinScale, MaxScale].
func ClampScale(k float64) float64 {
	if math.IsNaN(k) {
		return MinScale
	}
	return math.Min(MaxScale, math.Max(MinScale, k))
}

// WithScale returns v with its scale replaced by the clamped k.
func (v View) WithScale(k float64) View {
	v.Scale = ClampScale(k)
	return v
}

// WithPan returns v with its pan replaced.
func (v View) WithPan(x, y float64) View {
	v.PanX, v.PanY = x, y
	return v
}

// Zoomed adjusts the scale by delta, clamped.
func (v View) Zoomed(delta float64) View {
	return v.WithScale(v.Scale + delta)
}

// Panned moves the view by a screen-space drag of (dx, dy) pixels. The drag
// is divided by the scale so content follows the pointer.
func (v View) Panned(dx, dy float64) View {
	s := ClampScale(v.Scale)
	return v.WithPan(v.PanX+dx/s, v.PanY+dy/s)
}

// Uniforms builds the presentation uniforms for v.
func (v View) Uniforms(on, off color.RGBA) gpu.PresentUniforms {
	return gpu.PresentUniforms{
		Scale: float32(ClampScale(v.Scale)),
		Pan:   [2]float32{float32(v.PanX), float32(v.PanY)},
		On:    on,
		Off:   off,
	}
}
