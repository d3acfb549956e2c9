// Package life drives a two-state cellular automaton on a gpu.Device. The
// cell grid lives in a pair of equally sized textures: one is current (read
// and presented), the other receives the next generation, and a step swaps
// their roles.
package life

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golgl/internal/core"
	"golgl/internal/gpu"
	"golgl/internal/render"
	"golgl/internal/rules"
)

// ErrReleased is returned by every operation after Release.
var ErrReleased = errors.New("life: engine released")

// Engine is the simulation driver. It exclusively owns its grid textures
// and must be used from the goroutine that owns the device.
type Engine struct {
	cfg Config
	log *slog.Logger

	dev     gpu.Device
	surface gpu.Texture

	grids [2]gpu.Texture
	index int

	transition gpu.Program
	present    gpu.Program

	seeder *render.Surface

	rules   rules.RuleSet
	birth   rules.Encoded
	survive rules.Encoded

	view       render.View
	generation uint64
	released   bool
}

// New compiles both programs on dev, allocates a texture pair sized to
// surface and clears the grid. Every failure wraps gpu.ErrInitialization or
// gpu.ErrResource and leaves nothing allocated.
func New(dev gpu.Device, surface gpu.Texture, src gpu.Sources, cfg Config) (*Engine, error) {
	if dev == nil {
		return nil, fmt.Errorf("%w: no device", gpu.ErrInitialization)
	}
	if surface == nil {
		return nil, fmt.Errorf("%w: no drawable surface", gpu.ErrInitialization)
	}
	size := surface.Size()
	if !size.Valid() {
		return nil, fmt.Errorf("%w: drawable surface is %dx%d", gpu.ErrInitialization, size.W, size.H)
	}

	e := &Engine{
		cfg:     cfg,
		log:     gpu.OrNop(cfg.Logger),
		dev:     dev,
		surface: surface,
		view:    render.DefaultView(),
	}

	var err error
	e.transition, e.present, err = gpu.Compile(dev, src)
	if err != nil {
		return nil, fmt.Errorf("life: %w", err)
	}
	for i := range e.grids {
		e.grids[i], err = dev.NewTexture(size)
		if err != nil {
			e.Release()
			return nil, fmt.Errorf("life: grid texture %d: %w", i, err)
		}
	}

	e.seeder = render.NewSurface(size, cfg.Seeding, core.NewRNG(cfg.Seed))
	e.SetRules(cfg.Rules)

	if err := e.Clear(); err != nil {
		e.Release()
		return nil, fmt.Errorf("life: initial clear: %w", err)
	}
	e.log.Info("engine ready",
		"w", size.W, "h", size.H,
		"language", string(dev.Language()),
		"rule", e.rules.String(),
		"edge", cfg.Edge.String())
	return e, nil
}

// Name identifies the simulation.
func (e *Engine) Name() string { return "life" }

// Size returns the grid dimensions, equal to the surface dimensions.
func (e *Engine) Size() core.Size { return e.surface.Size() }

// Clear resets the current grid to all dead. The other texture is left
// alone; the next step overwrites it before it is read.
func (e *Engine) Clear() error {
	if err := e.check(); err != nil {
		return err
	}
	e.seeder.Clear()
	if err := e.upload(e.seeder.Pixels()); err != nil {
		return fmt.Errorf("life: clear: %w", err)
	}
	e.generation = 0
	return nil
}

// Seed replaces the current grid with a fresh batch of random rectangles.
// With Seeding.Accumulate the batch is drawn over the earlier batches since
// the last Clear instead.
func (e *Engine) Seed() error {
	if err := e.check(); err != nil {
		return err
	}
	if !e.cfg.Seeding.Accumulate {
		e.seeder.Clear()
	}
	if err := e.seeder.Scatter(); err != nil {
		return fmt.Errorf("life: seed: %w", err)
	}
	if err := e.upload(e.seeder.Pixels()); err != nil {
		return fmt.Errorf("life: seed: %w", err)
	}
	e.generation = 0
	e.log.Debug("seeded grid", "rects", e.cfg.Seeding.Rects, "block", e.cfg.Seeding.Block)
	return nil
}

// Load replaces the current grid with g, which must match Size.
func (e *Engine) Load(g *core.ByteGrid) error {
	if err := e.check(); err != nil {
		return err
	}
	if g == nil {
		return errors.New("life: load nil grid")
	}
	if g.Size() != e.Size() {
		return fmt.Errorf("life: load %dx%d grid into %dx%d engine", g.W, g.H, e.Size().W, e.Size().H)
	}
	pix := make([]byte, 4*g.Size().Cells())
	render.EncodeCells(pix, g)
	if err := e.upload(pix); err != nil {
		return fmt.Errorf("life: load: %w", err)
	}
	e.generation = 0
	return nil
}

func (e *Engine) upload(pix []byte) error {
	return e.dev.Upload(e.grids[e.index], pix)
}

// Step runs the transition program from the current texture into the other
// one and then makes that one current. If the pass fails nothing changes.
func (e *Engine) Step() error {
	if err := e.check(); err != nil {
		return err
	}
	next := e.index ^ 1
	u := gpu.TransitionUniforms{Birth: e.birth, Survive: e.survive, Edge: e.cfg.Edge}
	if err := e.dev.Run(e.transition, e.grids[next], e.grids[e.index], u); err != nil {
		return fmt.Errorf("life: step: %w", err)
	}
	e.index = next
	e.generation++
	return nil
}

// Draw renders the current grid onto the surface through the view
// transform. It reads the grid only, so repeated calls between steps
// produce identical output.
func (e *Engine) Draw() error {
	if err := e.check(); err != nil {
		return err
	}
	u := e.view.Uniforms(e.cfg.On, e.cfg.Off)
	if err := e.dev.Run(e.present, e.surface, e.grids[e.index], u); err != nil {
		return fmt.Errorf("life: draw: %w", err)
	}
	return nil
}

// SetRules replaces the rule. It applies from the next Step on.
func (e *Engine) SetRules(r rules.RuleSet) {
	e.rules = r
	e.birth = rules.Encode(r.Birth)
	e.survive = rules.Encode(r.Survive)
	e.log.Debug("rules set", "rule", r.String())
}

// Rules returns the active rule.
func (e *Engine) Rules() rules.RuleSet { return e.rules }

// SetScale replaces the view scale, clamped to [render.MinScale,
// render.MaxScale]. It applies from the next Draw on.
func (e *Engine) SetScale(k float64) { e.view = e.view.WithScale(k) }

// SetPan replaces the view pan, in grid cells. It applies from the next
// Draw on.
func (e *Engine) SetPan(x, y float64) { e.view = e.view.WithPan(x, y) }

// SetView replaces the whole view transform.
func (e *Engine) SetView(v render.View) { e.view = v.WithScale(v.Scale) }

// ZoomBy adjusts the scale by delta, clamped.
func (e *Engine) ZoomBy(delta float64) { e.view = e.view.Zoomed(delta) }

// PanBy moves the view by a drag of (dx, dy) surface pixels.
func (e *Engine) PanBy(dx, dy float64) { e.view = e.view.Panned(dx, dy) }

// ResetView restores scale 1 without panning.
func (e *Engine) ResetView() { e.view = render.DefaultView() }

// View returns the view transform.
func (e *Engine) View() render.View { return e.view }

// Generation counts steps since the last Clear, Seed or Load.
func (e *Engine) Generation() uint64 { return e.generation }

// FrameIndex returns which texture of the pair is current, 0 or 1.
func (e *Engine) FrameIndex() int { return e.index }

// Current returns the current grid texture.
func (e *Engine) Current() gpu.Texture { return e.grids[e.index] }

// Surface returns the drawable surface the engine presents to.
func (e *Engine) Surface() gpu.Texture { return e.surface }

// Snapshot reads the current grid back from the device.
func (e *Engine) Snapshot() (*core.ByteGrid, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	size := e.Size()
	pix := make([]byte, 4*size.Cells())
	if err := e.dev.ReadPixels(e.grids[e.index], pix); err != nil {
		return nil, fmt.Errorf("life: snapshot: %w", err)
	}
	g := core.NewByteGrid(size.W, size.H)
	render.DecodeCells(g, pix)
	return g, nil
}

// Population counts live cells of the current grid. It reads the grid back
// from the device.
func (e *Engine) Population() (int, error) {
	g, err := e.Snapshot()
	if err != nil {
		return 0, err
	}
	return g.Population(), nil
}

// Parameters reports the engine state for the HUD.
func (e *Engine) Parameters() core.ParameterSnapshot {
	label := "Custom"
	for _, p := range rules.Presets() {
		if p.Rules == e.rules {
			label = p.Label
			break
		}
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Rule",
			Params: []core.Parameter{
				{Key: "rule_label", Label: "Preset", Value: label},
				{Key: "rule", Label: "Rule", Value: e.rules.String()},
				{Key: "edge", Label: "Edge", Value: e.cfg.Edge.String()},
			},
		},
		{
			Name: "Simulation",
			Params: []core.Parameter{
				{Key: "generation", Label: "Generation", Value: strconv.FormatUint(e.generation, 10)},
				{Key: "size", Label: "Grid", Value: fmt.Sprintf("%dx%d", e.Size().W, e.Size().H)},
			},
		},
		{
			Name: "View",
			Params: []core.Parameter{
				{Key: "scale", Label: "Scale", Value: "x" + strconv.FormatFloat(e.view.Scale, 'f', 1, 64)},
				{Key: "pan", Label: "Pan", Value: fmt.Sprintf("%.1f, %.1f", e.view.PanX, e.view.PanY)},
			},
		},
	}}
}

func (e *Engine) check() error {
	if e.released {
		return ErrReleased
	}
	return nil
}

// Release frees the textures and programs. The surface belongs to the
// caller and is not released.
func (e *Engine) Release() {
	if e.released {
		return
	}
	e.released = true
	for i, t := range e.grids {
		if t != nil {
			t.Release()
			e.grids[i] = nil
		}
	}
	if e.transition != nil {
		e.transition.Release()
	}
	if e.present != nil {
		e.present.Release()
	}
	if e.seeder != nil {
		_ = e.seeder.Close()
	}
}
