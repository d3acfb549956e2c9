package life

import (
	"errors"
	"image/color"
	"slices"
	"testing"

	"golgl/internal/core"
	"golgl/internal/gpu"
	"golgl/internal/rules"
	"golgl/internal/shaders"
)

var (
	onColor  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	offColor = color.RGBA{A: 0xff}
)

type fixture struct {
	dev *gpu.Software
	eng *Engine
}

func newFixture(t *testing.T, w, h int, mutate func(*Config)) fixture {
	t.Helper()
	dev := gpu.NewSoftware()
	surface, err := dev.NewTexture(core.Size{W: w, H: h})
	if err != nil {
		t.Fatal(err)
	}
	src, err := shaders.ForDevice(dev)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.On, cfg.Off = onColor, offColor
	if mutate != nil {
		mutate(&cfg)
	}
	eng, err := New(dev, surface, src, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(eng.Release)
	return fixture{dev: dev, eng: eng}
}

func gridOf(w, h int, cells ...[2]int) *core.ByteGrid {
	g := core.NewByteGrid(w, h)
	for _, c := range cells {
		g.Set(c[0], c[1], true)
	}
	return g
}

func (f fixture) load(t *testing.T, g *core.ByteGrid) {
	t.Helper()
	if err := f.eng.Load(g); err != nil {
		t.Fatal(err)
	}
}

func (f fixture) step(t *testing.T, n int) {
	t.Helper()
	for range n {
		if err := f.eng.Step(); err != nil {
			t.Fatal(err)
		}
	}
}

func (f fixture) snapshot(t *testing.T) *core.ByteGrid {
	t.Helper()
	g, err := f.eng.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func (f fixture) surface(t *testing.T) []byte {
	t.Helper()
	size := f.eng.Surface().Size()
	pix := make([]byte, 4*size.Cells())
	if err := f.dev.ReadPixels(f.eng.Surface(), pix); err != nil {
		t.Fatal(err)
	}
	return pix
}

func TestIsolatedCellDies(t *testing.T) {
	f := newFixture(t, 8, 8, nil)
	f.load(t, gridOf(8, 8, [2]int{4, 4}))
	f.step(t, 1)
	if got := f.snapshot(t).Population(); got != 0 {
		t.Fatalf("population after one step = %d, want 0", got)
	}
}

func TestConwayNeighbourCounts(t *testing.T) {
	cases := []struct {
		name  string
		cells [][2]int
		probe [2]int
		want  bool
	}{
		{"live with two survives", [][2]int{{4, 4}, {3, 4}, {5, 4}}, [2]int{4, 4}, true},
		{"live with three survives", [][2]int{{4, 4}, {3, 3}, {5, 3}, {4, 5}}, [2]int{4, 4}, true},
		{"live with four dies", [][2]int{{4, 4}, {3, 3}, {5, 3}, {3, 5}, {5, 5}}, [2]int{4, 4}, false},
		{"dead with three is born", [][2]int{{3, 3}, {5, 3}, {4, 5}}, [2]int{4, 4}, true},
		{"dead with two stays dead", [][2]int{{3, 3}, {5, 5}}, [2]int{4, 4}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, 9, 9, nil)
			f.load(t, gridOf(9, 9, tc.cells...))
			f.step(t, 1)
			if got := f.snapshot(t).Alive(tc.probe[0], tc.probe[1]); got != tc.want {
				t.Fatalf("cell %v alive=%v, want %v", tc.probe, got, tc.want)
			}
		})
	}
}

func TestBlockStillLife(t *testing.T) {
	f := newFixture(t, 6, 6, nil)
	block := gridOf(6, 6, [2]int{2, 2}, [2]int{3, 2}, [2]int{2, 3}, [2]int{3, 3})
	f.load(t, block)
	f.step(t, 1)
	if got := f.snapshot(t); !slices.Equal(got.Cells(), block.Cells()) {
		t.Fatal("block changed after one step")
	}
}

func TestBlinkerOscillation(t *testing.T) {
	f := newFixture(t, 5, 5, nil)
	vertical := gridOf(5, 5, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3})
	horizontal := gridOf(5, 5, [2]int{1, 2}, [2]int{2, 2}, [2]int{3, 2})
	f.load(t, vertical)

	f.step(t, 1)
	if got := f.snapshot(t); !slices.Equal(got.Cells(), horizontal.Cells()) {
		t.Fatal("blinker did not turn horizontal")
	}
	f.step(t, 1)
	if got := f.snapshot(t); !slices.Equal(got.Cells(), vertical.Cells()) {
		t.Fatal("blinker did not turn back vertical")
	}
}

var glider = [][2]int{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}

func shifted(w, h, dx, dy int, cells [][2]int) *core.ByteGrid {
	g := core.NewByteGrid(w, h)
	for _, c := range cells {
		x, y := g.Wrap(c[0]+dx, c[1]+dy)
		g.Set(x, y, true)
	}
	return g
}

func TestGliderTranslatesDiagonally(t *testing.T) {
	f := newFixture(t, 16, 16, nil)
	f.load(t, shifted(16, 16, 5, 5, glider))
	f.step(t, 4)
	want := shifted(16, 16, 6, 6, glider)
	if got := f.snapshot(t); !slices.Equal(got.Cells(), want.Cells()) {
		t.Fatal("glider did not move by (1,1) after four steps")
	}
}

func TestGliderWrapsOnTorus(t *testing.T) {
	f := newFixture(t, 10, 10, func(c *Config) { c.Edge = gpu.EdgeWrap })
	f.load(t, shifted(10, 10, 8, 8, glider))
	f.step(t, 8)
	want := shifted(10, 10, 10, 10, glider)
	if got := f.snapshot(t); !slices.Equal(got.Cells(), want.Cells()) {
		t.Fatal("glider did not wrap across the border")
	}
}

func TestDeadBorderStopsGlider(t *testing.T) {
	f := newFixture(t, 10, 10, nil)
	f.load(t, shifted(10, 10, 6, 6, glider))
	f.step(t, 40)
	if got := f.snapshot(t); got.Alive(0, 0) || got.Alive(1, 1) {
		t.Fatal("glider leaked through the dead border")
	}
}

func TestMatchesReference(t *testing.T) {
	for _, edge := range []gpu.Edge{gpu.EdgeDead, gpu.EdgeWrap} {
		for _, name := range []string{"Conway's Life", "HighLife", "Day & Night", "Serviettes", "Maze"} {
			p, ok := rules.Lookup(name)
			if !ok {
				t.Fatalf("missing preset %q", name)
			}
			t.Run(edge.String()+"/"+name, func(t *testing.T) {
				f := newFixture(t, 48, 32, func(c *Config) {
					c.Edge = edge
					c.Rules = p.Rules
					c.Seeding.Rects = 40
					c.Seeding.Block = 6
				})
				if err := f.eng.Seed(); err != nil {
					t.Fatal(err)
				}
				ref := NewReference(f.snapshot(t), p.Rules, edge)
				for gen := 1; gen <= 6; gen++ {
					f.step(t, 1)
					ref.Step()
					if got := f.snapshot(t); !slices.Equal(got.Cells(), ref.Grid().Cells()) {
						t.Fatalf("generation %d differs from the reference", gen)
					}
				}
			})
		}
	}
}

func TestClearThenStepStaysDead(t *testing.T) {
	for _, p := range rules.Presets() {
		if p.Rules.Birth.Has(0) {
			continue
		}
		f := newFixture(t, 12, 12, func(c *Config) { c.Rules = p.Rules })
		if err := f.eng.Seed(); err != nil {
			t.Fatal(err)
		}
		if err := f.eng.Clear(); err != nil {
			t.Fatal(err)
		}
		f.step(t, 3)
		if got := f.snapshot(t).Population(); got != 0 {
			t.Fatalf("%s: population after clear and steps = %d", p.Label, got)
		}
	}
}

func TestStepFlipsFrameIndex(t *testing.T) {
	f := newFixture(t, 4, 4, nil)
	if f.eng.FrameIndex() != 0 {
		t.Fatal("frame index must start at 0")
	}
	first := f.eng.Current()
	f.step(t, 1)
	if f.eng.FrameIndex() != 1 || f.eng.Current() == first {
		t.Fatal("step must make the other texture current")
	}
	f.step(t, 1)
	if f.eng.FrameIndex() != 0 || f.eng.Current() != first {
		t.Fatal("two steps must return to the first texture")
	}
	if f.eng.Generation() != 2 {
		t.Fatalf("generation = %d, want 2", f.eng.Generation())
	}
	if err := f.eng.Draw(); err != nil {
		t.Fatal(err)
	}
	if f.eng.FrameIndex() != 0 {
		t.Fatal("draw must not flip the frame index")
	}
}

func TestDrawIsIdempotent(t *testing.T) {
	f := newFixture(t, 24, 24, nil)
	if err := f.eng.Seed(); err != nil {
		t.Fatal(err)
	}
	f.eng.SetScale(2.5)
	f.eng.SetPan(3, -2)
	if err := f.eng.Draw(); err != nil {
		t.Fatal(err)
	}
	first := f.surface(t)
	for range 3 {
		if err := f.eng.Draw(); err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(first, f.surface(t)) {
			t.Fatal("repeated draws produced different output")
		}
	}
}

func TestViewDoesNotAffectSimulation(t *testing.T) {
	a := newFixture(t, 32, 32, nil)
	b := newFixture(t, 32, 32, nil)
	if err := a.eng.Seed(); err != nil {
		t.Fatal(err)
	}
	b.load(t, a.snapshot(t))

	for i := range 5 {
		b.eng.SetScale(float64(i + 2))
		b.eng.SetPan(float64(i), float64(-i))
		if err := b.eng.Draw(); err != nil {
			t.Fatal(err)
		}
		a.step(t, 1)
		b.step(t, 1)
	}
	if !slices.Equal(a.snapshot(t).Cells(), b.snapshot(t).Cells()) {
		t.Fatal("view changes altered simulation results")
	}
}

func TestSetRulesAppliesFromNextStep(t *testing.T) {
	f := newFixture(t, 32, 32, nil)
	if err := f.eng.Seed(); err != nil {
		t.Fatal(err)
	}
	f.step(t, 1)
	gen1 := f.snapshot(t)

	highLife, _ := rules.Lookup("HighLife")
	seeds, _ := rules.Parse("B2/S")
	f.eng.SetRules(seeds)
	f.eng.SetRules(highLife.Rules)
	if got := f.snapshot(t); !slices.Equal(got.Cells(), gen1.Cells()) {
		t.Fatal("SetRules changed an already computed generation")
	}

	ref := NewReference(gen1, highLife.Rules, gpu.EdgeDead)
	ref.Step()
	f.step(t, 1)
	if got := f.snapshot(t); !slices.Equal(got.Cells(), ref.Grid().Cells()) {
		t.Fatal("next step did not use the new rule")
	}
	if f.eng.Rules() != highLife.Rules {
		t.Fatalf("Rules() = %s", f.eng.Rules())
	}
}

func pixelAt(pix []byte, w, x, y int) color.RGBA {
	i := 4 * (y*w + x)
	return color.RGBA{R: pix[i], G: pix[i+1], B: pix[i+2], A: pix[i+3]}
}

func TestDrawMapsCellsThroughView(t *testing.T) {
	f := newFixture(t, 8, 8, nil)
	f.load(t, gridOf(8, 8, [2]int{3, 3}))

	onPixels := func() [][2]int {
		if err := f.eng.Draw(); err != nil {
			t.Fatal(err)
		}
		pix := f.surface(t)
		var out [][2]int
		for y := range 8 {
			for x := range 8 {
				if pixelAt(pix, 8, x, y) == onColor {
					out = append(out, [2]int{x, y})
				}
			}
		}
		return out
	}

	if got := onPixels(); !slices.Equal(got, [][2]int{{3, 3}}) {
		t.Fatalf("scale 1: lit pixels %v", got)
	}

	f.eng.SetPan(1, 0)
	if got := onPixels(); !slices.Equal(got, [][2]int{{4, 3}}) {
		t.Fatalf("pan (1,0): lit pixels %v", got)
	}

	f.eng.SetPan(0, 0)
	f.eng.SetScale(2)
	want := [][2]int{{2, 2}, {3, 2}, {2, 3}, {3, 3}}
	if got := onPixels(); !slices.Equal(got, want) {
		t.Fatalf("scale 2: lit pixels %v, want %v", got, want)
	}
}

func TestSetScaleClamps(t *testing.T) {
	f := newFixture(t, 4, 4, nil)
	f.eng.SetScale(25)
	if f.eng.View().Scale != 10 {
		t.Fatalf("scale = %v, want 10", f.eng.View().Scale)
	}
	f.eng.SetScale(0.2)
	if f.eng.View().Scale != 1 {
		t.Fatalf("scale = %v, want 1", f.eng.View().Scale)
	}
}

func TestSeedProducesLiveCells(t *testing.T) {
	f := newFixture(t, 64, 64, nil)
	if err := f.eng.Seed(); err != nil {
		t.Fatal(err)
	}
	if f.snapshot(t).Population() == 0 {
		t.Fatal("seed produced an empty grid")
	}
	if err := f.eng.Clear(); err != nil {
		t.Fatal(err)
	}
	if got := f.snapshot(t).Population(); got != 0 {
		t.Fatalf("population after clear = %d", got)
	}
}

func TestNewRejectsMissingInputs(t *testing.T) {
	dev := gpu.NewSoftware()
	surface, err := dev.NewTexture(core.Size{W: 4, H: 4})
	if err != nil {
		t.Fatal(err)
	}
	src, err := shaders.ForDevice(dev)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := New(dev, nil, src, DefaultConfig()); !errors.Is(err, gpu.ErrInitialization) {
		t.Fatalf("nil surface: %v", err)
	}
	if _, err := New(nil, surface, src, DefaultConfig()); !errors.Is(err, gpu.ErrInitialization) {
		t.Fatalf("nil device: %v", err)
	}
	if _, err := New(dev, surface, gpu.Sources{Transition: src.Transition}, DefaultConfig()); !errors.Is(err, gpu.ErrInitialization) {
		t.Fatalf("missing present source: %v", err)
	}
	broken := gpu.Sources{Transition: []byte("fn main( {"), Present: src.Present}
	if _, err := New(dev, surface, broken, DefaultConfig()); !errors.Is(err, gpu.ErrInitialization) {
		t.Fatalf("broken source: %v", err)
	}
}

func TestNewReportsResourceExhaustion(t *testing.T) {
	big := gpu.NewSoftware()
	surface, err := big.NewTexture(core.Size{W: 32, H: 32})
	if err != nil {
		t.Fatal(err)
	}
	small := gpu.NewSoftware(gpu.WithMaxTextureSize(16))
	src, err := shaders.ForDevice(small)
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(small, surface, src, DefaultConfig())
	if !errors.Is(err, gpu.ErrResource) {
		t.Fatalf("expected ErrResource, got %v", err)
	}
}

func TestReleasedEngineRefusesWork(t *testing.T) {
	f := newFixture(t, 4, 4, nil)
	f.eng.Release()
	if err := f.eng.Step(); !errors.Is(err, ErrReleased) {
		t.Fatalf("Step after Release: %v", err)
	}
	if err := f.eng.Draw(); !errors.Is(err, ErrReleased) {
		t.Fatalf("Draw after Release: %v", err)
	}
}

func TestParametersReportPresetLabel(t *testing.T) {
	f := newFixture(t, 4, 4, nil)
	p, ok := f.eng.Parameters().Lookup("rule_label")
	if !ok || p.Value != "Conway's Life" {
		t.Fatalf("rule_label = %+v", p)
	}
	custom, _ := rules.Parse("B1/S1")
	f.eng.SetRules(custom)
	if p, _ := f.eng.Parameters().Lookup("rule_label"); p.Value != "Custom" {
		t.Fatalf("rule_label = %q, want Custom", p.Value)
	}
}

func TestViewHelpers(t *testing.T) {
	f := newFixture(t, 8, 8, nil)
	f.eng.ZoomBy(1)
	f.eng.PanBy(4, -2)
	v := f.eng.View()
	if v.Scale != 2 || v.PanX != 2 || v.PanY != -1 {
		t.Fatalf("view = %+v", v)
	}
	f.eng.ResetView()
	if v := f.eng.View(); v.Scale != 1 || v.PanX != 0 || v.PanY != 0 {
		t.Fatalf("view after reset = %+v", v)
	}
}

func TestPopulation(t *testing.T) {
	f := newFixture(t, 8, 8, nil)
	f.load(t, gridOf(8, 8, [2]int{1, 1}, [2]int{2, 1}, [2]int{6, 6}))
	n, err := f.eng.Population()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("population = %d, want 3", n)
	}
}

var errPass = errors.New("pass failed")

// faultyDevice fails every pass while fail is set.
type faultyDevice struct {
	*gpu.Software
	fail bool
}

func (d *faultyDevice) Run(p gpu.Program, dst, src gpu.Texture, u gpu.Uniforms) error {
	if d.fail {
		return errPass
	}
	return d.Software.Run(p, dst, src, u)
}

func TestFailedPassLeavesStateUntouched(t *testing.T) {
	dev := &faultyDevice{Software: gpu.NewSoftware()}
	surface, err := dev.NewTexture(core.Size{W: 8, H: 8})
	if err != nil {
		t.Fatal(err)
	}
	src, err := shaders.ForDevice(dev)
	if err != nil {
		t.Fatal(err)
	}
	eng, err := New(dev, surface, src, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Release()
	blinker := gridOf(8, 8, [2]int{3, 2}, [2]int{3, 3}, [2]int{3, 4})
	if err := eng.Load(blinker); err != nil {
		t.Fatal(err)
	}
	if err := eng.Draw(); err != nil {
		t.Fatal(err)
	}
	drawn := make([]byte, 4*64)
	if err := dev.ReadPixels(surface, drawn); err != nil {
		t.Fatal(err)
	}

	dev.fail = true
	if err := eng.Step(); !errors.Is(err, errPass) {
		t.Fatalf("Step error = %v", err)
	}
	if eng.FrameIndex() != 0 || eng.Generation() != 0 {
		t.Fatalf("failed step moved state: index=%d generation=%d", eng.FrameIndex(), eng.Generation())
	}
	got, err := eng.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got.Cells(), blinker.Cells()) {
		t.Fatal("failed step changed the current grid")
	}

	eng.SetScale(3)
	if err := eng.Draw(); !errors.Is(err, errPass) {
		t.Fatalf("Draw error = %v", err)
	}
	after := make([]byte, 4*64)
	if err := dev.ReadPixels(surface, after); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(drawn, after) {
		t.Fatal("failed draw touched the surface")
	}

	dev.fail = false
	if err := eng.Step(); err != nil {
		t.Fatal(err)
	}
	if eng.FrameIndex() != 1 || eng.Generation() != 1 {
		t.Fatalf("recovered step: index=%d generation=%d", eng.FrameIndex(), eng.Generation())
	}
}

func TestLoadRejectsMismatchedGrids(t *testing.T) {
	f := newFixture(t, 8, 8, nil)
	if err := f.eng.Load(nil); err == nil {
		t.Fatal("nil grid accepted")
	}
	if err := f.eng.Load(core.NewByteGrid(4, 8)); err == nil {
		t.Fatal("grid of another size accepted")
	}
}

func TestSeedAccumulatesUntilClear(t *testing.T) {
	f := newFixture(t, 48, 48, func(c *Config) {
		c.Seeding.Rects = 6
		c.Seeding.Block = 8
		c.Seeding.Accumulate = true
	})
	if err := f.eng.Seed(); err != nil {
		t.Fatal(err)
	}
	first := f.snapshot(t)
	if err := f.eng.Seed(); err != nil {
		t.Fatal(err)
	}
	second := f.snapshot(t)
	for i, c := range first.Cells() {
		if c != 0 && second.Cells()[i] == 0 {
			t.Fatalf("cell %d from the first batch was lost", i)
		}
	}
	if second.Population() < first.Population() {
		t.Fatal("accumulated seed shrank")
	}

	if err := f.eng.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := f.eng.Seed(); err != nil {
		t.Fatal(err)
	}

	// A replacing engine on the same seed draws the same third batch alone.
	r := newFixture(t, 48, 48, func(c *Config) {
		c.Seeding.Rects = 6
		c.Seeding.Block = 8
	})
	for range 3 {
		if err := r.eng.Seed(); err != nil {
			t.Fatal(err)
		}
	}
	if !slices.Equal(f.snapshot(t).Cells(), r.snapshot(t).Cells()) {
		t.Fatal("clear did not reset the accumulated canvas")
	}
}
