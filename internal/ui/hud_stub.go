//go:build !ebiten

package ui

import "golgl/internal/core"

// ParameterProvider supplies the values the HUD lists.
type ParameterProvider interface {
	Parameters() core.ParameterSnapshot
}

// Adjuster is called with -1 or +1 when a row's buttons are clicked.
type Adjuster func(direction int)

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(ParameterProvider, string, int) *HUD { return nil }

// Adjust is a no-op in the headless build.
func (h *HUD) Adjust(string, Adjuster) {}

// Update is a no-op in the headless build.
func (h *HUD) Update(int) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}

// Contains always reports false in the headless build.
func (h *HUD) Contains(int, int) bool { return false }
