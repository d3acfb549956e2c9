package life

import (
	"golgl/internal/core"
	"golgl/internal/gpu"
	"golgl/internal/rules"
)

// Reference steps a ByteGrid on the CPU with plain neighbour counting. It
// shares no code with the device programs and serves as the oracle they
// are checked against.
type Reference struct {
	cur   *core.ByteGrid
	nxt   *core.ByteGrid
	rules rules.RuleSet
	edge  gpu.Edge
}

// NewReference copies g and prepares a stepper for it.
func NewReference(g *core.ByteGrid, r rules.RuleSet, edge gpu.Edge) *Reference {
	return &Reference{cur: g.Clone(), nxt: core.NewByteGrid(g.W, g.H), rules: r, edge: edge}
}

// Grid exposes the current generation.
func (l *Reference) Grid() *core.ByteGrid { return l.cur }

// SetRules replaces the rule for subsequent steps.
func (l *Reference) SetRules(r rules.RuleSet) { l.rules = r }

// Step advances the grid by one generation.
func (l *Reference) Step() {
	w, h := l.cur.W, l.cur.H
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if l.edge == gpu.EdgeWrap {
						nx, ny = l.cur.Wrap(nx, ny)
					}
					if l.cur.Alive(nx, ny) {
						neighbors++
					}
				}
			}
			l.nxt.Set(x, y, l.rules.Next(l.cur.Alive(x, y), neighbors))
		}
	}
	l.cur, l.nxt = l.nxt, l.cur
}
