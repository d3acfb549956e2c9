package life

import (
	"image/color"
	"testing"

	"golgl/internal/gpu"
	"golgl/internal/rules"
)

func TestFromMapDefaults(t *testing.T) {
	c, err := FromMap(nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Rules != rules.Conway() || c.Edge != gpu.EdgeDead {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.Seeding.Rects != 400 || c.Seeding.Block != 20 {
		t.Fatalf("seeding defaults = %+v", c.Seeding)
	}
}

func TestFromMapOverrides(t *testing.T) {
	c, err := FromMap(map[string]string{
		"seed":       "42",
		"rects":      "10",
		"block":      "4",
		"color":      "#0f0",
		"accumulate": "true",
		"edge":       "wrap",
		"rule":       "HighLife",
		"on":         "#ff000080",
		"off":        "102030",
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Seed != 42 || c.Seeding.Rects != 10 || c.Seeding.Block != 4 {
		t.Fatalf("numeric overrides not applied: %+v", c)
	}
	if !c.Seeding.Accumulate {
		t.Fatal("accumulate override not applied")
	}
	if c.Edge != gpu.EdgeWrap {
		t.Fatalf("edge = %v", c.Edge)
	}
	if got := c.Rules.String(); got != "B36/S23" {
		t.Fatalf("rule = %s", got)
	}
	if c.Seeding.Color != (color.RGBA{G: 0xff, A: 0xff}) {
		t.Fatalf("seed colour = %v", c.Seeding.Color)
	}
	if c.Off != (color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
		t.Fatalf("off colour = %v", c.Off)
	}
	if c.On.A != 0x80 {
		t.Fatalf("on alpha = %#x", c.On.A)
	}
}

func TestFromMapRejects(t *testing.T) {
	bad := []map[string]string{
		{"seed": "x"},
		{"rects": "-1"},
		{"block": "big"},
		{"color": "#12"},
		{"edge": "mirror"},
		{"accumulate": "sometimes"},
		{"rule": "Q3"},
		{"on": "zzzzzz"},
	}
	for _, m := range bad {
		if _, err := FromMap(m); err == nil {
			t.Errorf("FromMap(%v) succeeded", m)
		}
	}
}

func TestFormatColor(t *testing.T) {
	if got := FormatColor(color.RGBA{R: 0xff, G: 0xff, A: 0xff}); got != "#ffff00ff" {
		t.Fatalf("FormatColor = %s", got)
	}
}
