package main

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golgl/internal/core"
	"golgl/internal/gpu"
	"golgl/internal/render"
	"golgl/internal/rules"
	"golgl/internal/shaders"
	"golgl/internal/sims/life"
)

type scenario struct {
	preset rules.Preset
	edge   gpu.Edge
}

type sweepOptions struct {
	size   core.Size
	steps  int
	pngDir string
	raw    bool
	scale  float64
	log    *slog.Logger
}

type result struct {
	scenario
	initial     int
	final       int
	peak        int
	low         int
	generations uint64
	// stableAt is the first generation equal to its predecessor, or -1.
	stableAt int
	png      string
	err      error
}

func (r result) String() string {
	stable := "never"
	if r.stableAt >= 0 {
		stable = fmt.Sprintf("gen %d", r.stableAt)
	}
	return fmt.Sprintf("%-28s edge=%-4s pop %d -> %d (peak %d, low %d) gens=%d still=%s",
		r.preset.String(), r.edge, r.initial, r.final, r.peak, r.low, r.generations, stable)
}

// runScenario seeds a fresh engine on its own software device and steps it
// until steps generations have run or the grid stops changing.
func runScenario(base life.Config, sc scenario, opts sweepOptions) result {
	res := result{scenario: sc, stableAt: -1}

	cfg := base
	cfg.Rules = sc.preset.Rules
	cfg.Edge = sc.edge
	cfg.Logger = opts.log

	dev := gpu.NewSoftware(gpu.WithLogger(opts.log))
	surface, err := dev.NewTexture(opts.size)
	if err != nil {
		res.err = err
		return res
	}
	defer surface.Release()
	src, err := shaders.ForDevice(dev)
	if err != nil {
		res.err = err
		return res
	}
	engine, err := life.New(dev, surface, src, cfg)
	if err != nil {
		res.err = err
		return res
	}
	defer engine.Release()

	if err := engine.Seed(); err != nil {
		res.err = err
		return res
	}
	prev, err := engine.Snapshot()
	if err != nil {
		res.err = err
		return res
	}
	res.initial = prev.Population()
	res.peak, res.low = res.initial, res.initial

	cur := prev
	for i := 0; i < opts.steps; i++ {
		if err := engine.Step(); err != nil {
			res.err = err
			return res
		}
		cur, err = engine.Snapshot()
		if err != nil {
			res.err = err
			return res
		}
		n := cur.Population()
		res.peak = max(res.peak, n)
		res.low = min(res.low, n)
		if slices.Equal(cur.Cells(), prev.Cells()) {
			res.stableAt = int(engine.Generation())
			break
		}
		prev = cur
	}
	res.final = cur.Population()
	res.generations = engine.Generation()

	if opts.pngDir != "" {
		res.png, res.err = writeFrame(engine, dev, cur, cfg, opts)
	}
	return res
}

func writeFrame(engine *life.Engine, dev gpu.Device, g *core.ByteGrid, cfg life.Config, opts sweepOptions) (string, error) {
	var img *image.RGBA
	if opts.raw {
		img = render.Colorize(g, cfg.On, cfg.Off)
	} else {
		engine.SetScale(opts.scale)
		if err := engine.Draw(); err != nil {
			return "", err
		}
		size := engine.Surface().Size()
		img = image.NewRGBA(image.Rect(0, 0, size.W, size.H))
		if err := dev.ReadPixels(engine.Surface(), img.Pix); err != nil {
			return "", err
		}
	}
	name := filepath.Join(opts.pngDir, fileName(engine.Rules(), cfg.Edge))
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", err
	}
	return name, f.Close()
}

func fileName(r rules.RuleSet, edge gpu.Edge) string {
	notation := strings.ReplaceAll(r.String(), "/", "_")
	return fmt.Sprintf("%s_%s.png", strings.ToLower(notation), edge)
}
