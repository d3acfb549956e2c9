package life

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"

	"golgl/internal/gpu"
	"golgl/internal/render"
	"golgl/internal/rules"
)

// Config holds the engine's tunables. The grid size is not part of it: it
// always matches the drawable surface.
type Config struct {
	// Seed feeds the rectangle scatter. Zero draws a seed from the clock.
	Seed int64

	Seeding render.SeedConfig
	Edge    gpu.Edge
	Rules   rules.RuleSet

	// On and Off are the presentation colours of live and dead cells.
	On  color.RGBA
	Off color.RGBA

	Logger *slog.Logger
}

// DefaultConfig returns Conway's Life on a dead-bordered plane, seeded with
// the default rectangle batch and drawn white on black.
func DefaultConfig() Config {
	return Config{
		Seeding: render.DefaultSeedConfig(),
		Edge:    gpu.EdgeDead,
		Rules:   rules.Conway(),
		On:      color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Off:     color.RGBA{A: 0xff},
	}
}

// FromMap populates a Config from flag-style key/value pairs. Recognised
// keys: seed, rects, block, color, accumulate, edge, rule, on, off.
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	if cfg == nil {
		return c, nil
	}
	if v, ok := cfg["seed"]; ok {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c, fmt.Errorf("life: seed: %w", err)
		}
		c.Seed = parsed
	}
	if v, ok := cfg["rects"]; ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return c, fmt.Errorf("life: rects: invalid value %q", v)
		}
		c.Seeding.Rects = parsed
	}
	if v, ok := cfg["block"]; ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return c, fmt.Errorf("life: block: invalid value %q", v)
		}
		c.Seeding.Block = parsed
	}
	if v, ok := cfg["color"]; ok {
		col, err := ParseColor(v)
		if err != nil {
			return c, fmt.Errorf("life: color: %w", err)
		}
		c.Seeding.Color = col
	}
	if v, ok := cfg["accumulate"]; ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("life: accumulate: %w", err)
		}
		c.Seeding.Accumulate = parsed
	}
	if v, ok := cfg["edge"]; ok {
		edge, err := gpu.ParseEdge(v)
		if err != nil {
			return c, fmt.Errorf("life: %w", err)
		}
		c.Edge = edge
	}
	if v, ok := cfg["rule"]; ok {
		r, err := rules.Resolve(v)
		if err != nil {
			return c, fmt.Errorf("life: rule: %w", err)
		}
		c.Rules = r
	}
	if v, ok := cfg["on"]; ok {
		col, err := ParseColor(v)
		if err != nil {
			return c, fmt.Errorf("life: on: %w", err)
		}
		c.On = col
	}
	if v, ok := cfg["off"]; ok {
		col, err := ParseColor(v)
		if err != nil {
			return c, fmt.Errorf("life: off: %w", err)
		}
		c.Off = col
	}
	return c, nil
}

// ParseColor reads "#rgb", "#rgba", "#rrggbb" or "#rrggbbaa" (the leading
// '#' optional).
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex colour %q", s)
	}
	c := gg.Hex(hex)
	n := color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
	return color.RGBAModel.Convert(n).(color.RGBA), nil
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Min(1, math.Max(0, v)) * 255))
}

// FormatColor renders c as "#rrggbbaa".
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
