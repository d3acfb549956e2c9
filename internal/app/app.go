//go:build ebiten

package app

import (
	"log/slog"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"golgl/internal/core"
	"golgl/internal/gpu"
	"golgl/internal/render"
	"golgl/internal/rules"
	"golgl/internal/sims/life"
	"golgl/internal/ui"
)

// HUDWidth is the width of the parameter panel in logical pixels.
const HUDWidth = 220

// populationEvery is how many frames pass between population readbacks.
const populationEvery = 15

var presetKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// Game adapts the life engine to the ebiten.Game interface.
type Game struct {
	log    *slog.Logger
	engine *life.Engine
	screen *ebiten.Image
	hud    *ui.HUD
	timer  *core.FixedStep

	size    core.Size
	speed   core.Speed
	playing bool
	preset  int

	dragging     bool
	dragX, dragY int

	frames     int
	population int
	err        error
}

// New builds the GPU device, the surface and the engine, then seeds the
// grid.
func New(cfg *Config, log *slog.Logger) (*Game, error) {
	log = gpu.OrNop(log)
	m, err := cfg.Map()
	if err != nil {
		return nil, err
	}
	lifeCfg, err := life.FromMap(m)
	if err != nil {
		return nil, err
	}
	lifeCfg.Logger = log
	speed, err := ParseSpeed(cfg.Speed)
	if err != nil {
		return nil, err
	}

	dev := gpu.NewEbiten(log)
	size := core.Size{W: cfg.Width, H: cfg.Height}
	engine, surface, err := newEngine(dev, size, lifeCfg)
	if err != nil {
		return nil, err
	}
	screen, _ := gpu.Image(surface)

	g := &Game{
		log:    log,
		engine: engine,
		screen: screen,
		timer:  core.NewFixedStep(speed.TPS()),
		size:   size,
		speed:  speed,
		preset: presetIndex(engine.Rules()),
	}
	g.hud = ui.NewHUD(g, "Game of Life", HUDWidth)
	g.hud.Adjust("rule_label", g.cyclePreset)
	g.hud.Adjust("scale", func(dir int) { g.engine.ZoomBy(float64(dir) * 0.5) })
	g.hud.Adjust("speed", func(dir int) { g.setSpeed(g.speed.Next()) })
	return g, nil
}

func presetIndex(r rules.RuleSet) int {
	for i, p := range rules.Presets() {
		if p.Rules == r {
			return i
		}
	}
	return -1
}

// Update handles per-frame input and advances the simulation.
func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if err := g.handleKeys(); err != nil {
		return err
	}
	g.handleMouse()
	g.hud.Update(g.size.W)

	if g.playing && g.timer.ShouldStep() {
		if err := g.engine.Step(); err != nil {
			return err
		}
	}
	g.frames++
	if g.frames%populationEvery == 0 {
		n, err := g.engine.Population()
		if err != nil {
			return err
		}
		g.population = n
	}
	return nil
}

func (g *Game) handleKeys() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.playing = !g.playing
		g.timer.Reset()
		g.log.Debug("playback", "playing", g.playing)
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		if !g.playing {
			if err := g.engine.Step(); err != nil {
				return err
			}
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		if err := g.engine.Clear(); err != nil {
			return err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		if err := g.engine.Seed(); err != nil {
			return err
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.setSpeed(g.speed.Next())
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.engine.ResetView()
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketRight):
		g.cyclePreset(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft):
		g.cyclePreset(-1)
	}
	for i, key := range presetKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.selectPreset(i)
		}
	}
	return nil
}

func (g *Game) handleMouse() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.engine.ZoomBy(dy * render.ZoomStep)
	}
	x, y := ebiten.CursorPosition()
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.dragging = false
		return
	}
	if !g.dragging {
		if g.hud.Contains(x, y) {
			return
		}
		g.dragging = true
		g.dragX, g.dragY = x, y
		return
	}
	g.engine.PanBy(float64(x-g.dragX), float64(y-g.dragY))
	g.dragX, g.dragY = x, y
}

func (g *Game) setSpeed(s core.Speed) {
	g.speed = s
	g.timer.SetTPS(s.TPS())
	g.timer.Reset()
}

func (g *Game) cyclePreset(dir int) {
	n := len(rules.Presets())
	next := 0
	if g.preset >= 0 {
		next = ((g.preset+dir)%n + n) % n
	}
	g.selectPreset(next)
}

func (g *Game) selectPreset(i int) {
	presets := rules.Presets()
	if i < 0 || i >= len(presets) {
		return
	}
	g.preset = i
	g.engine.SetRules(presets[i].Rules)
	g.log.Info("rule preset", "preset", presets[i].String())
}

// Parameters extends the engine snapshot with playback state.
func (g *Game) Parameters() core.ParameterSnapshot {
	snap := g.engine.Parameters()
	state := "Stopped"
	if g.playing {
		state = "Playing"
	}
	snap.Groups = append(snap.Groups, core.ParameterGroup{
		Name: "Playback",
		Params: []core.Parameter{
			{Key: "state", Label: "State", Value: state},
			{Key: "speed", Label: "Speed", Value: g.speed.String()},
			{Key: "population", Label: "Population", Value: strconv.Itoa(g.population)},
		},
	})
	return snap
}

// Draw renders the grid through the presentation pass and the HUD beside
// it.
func (g *Game) Draw(screen *ebiten.Image) {
	if err := g.engine.Draw(); err != nil {
		g.err = err
		return
	}
	screen.DrawImage(g.screen, nil)
	g.hud.Draw(screen, g.size.W, g.size.H)
}

// Layout returns the logical screen size: the grid plus the HUD panel.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size.W + HUDWidth, g.size.H
}

// Release frees the engine's GPU resources.
func (g *Game) Release() {
	g.engine.Release()
}
