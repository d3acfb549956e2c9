// Package rules describes two-state outer-totalistic automata: the neighbour
// counts that bring a dead cell to life and the counts that keep a live cell
// alive. It also owns the fixed-width encoding consumed by the transition
// programs.
package rules

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

const (
	// MaxNeighbors is the largest live-neighbour count in a Moore neighbourhood.
	MaxNeighbors = 8
	// Slots is the width of an encoded count set. Every subset of
	// [0, MaxNeighbors] fits, including the full one.
	Slots = MaxNeighbors + 1
	// Sentinel fills unused slots. It lies outside [0, MaxNeighbors] so it
	// never matches a neighbour count.
	Sentinel = -1
)

// ErrCount reports a neighbour count outside [0, MaxNeighbors].
var ErrCount = errors.New("rules: neighbour count out of range")

// Counts is a set of neighbour counts stored as a bitmask.
type Counts uint16

const allCounts Counts = 1<<Slots - 1

// CountsOf builds a set from the provided values. Duplicates collapse.
func CountsOf(values ...int) (Counts, error) {
	var c Counts
	for _, v := range values {
		if v < 0 || v > MaxNeighbors {
			return 0, fmt.Errorf("%w: %d", ErrCount, v)
		}
		c |= 1 << v
	}
	return c, nil
}

// Has reports whether n is a member of the set.
func (c Counts) Has(n int) bool {
	if n < 0 || n > MaxNeighbors {
		return false
	}
	return c&(1<<n) != 0
}

// Len returns the number of members.
func (c Counts) Len() int { return bits.OnesCount16(uint16(c & allCounts)) }

// Values returns the members in ascending order.
func (c Counts) Values() []int {
	out := make([]int, 0, c.Len())
	for n := 0; n <= MaxNeighbors; n++ {
		if c.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// String renders the members as a digit run, e.g. "23".
func (c Counts) String() string {
	var b strings.Builder
	for _, n := range c.Values() {
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// RuleSet pairs the birth and survival sets of a rule. It is replaced
// wholesale, never edited in place.
type RuleSet struct {
	Birth   Counts
	Survive Counts
}

// New validates birth and survival counts and returns the rule.
func New(birth, survive []int) (RuleSet, error) {
	b, err := CountsOf(birth...)
	if err != nil {
		return RuleSet{}, fmt.Errorf("birth: %w", err)
	}
	s, err := CountsOf(survive...)
	if err != nil {
		return RuleSet{}, fmt.Errorf("survive: %w", err)
	}
	return RuleSet{Birth: b, Survive: s}, nil
}

// Next returns the state of a cell in the following generation given its
// current state and its live-neighbour count.
func (r RuleSet) Next(alive bool, n int) bool {
	if alive {
		return r.Survive.Has(n)
	}
	return r.Birth.Has(n)
}

// String renders the rule in B/S notation, e.g. "B3/S23".
func (r RuleSet) String() string {
	return "B" + r.Birth.String() + "/S" + r.Survive.String()
}

// Legacy renders the rule in survival/birth notation, e.g. "23/3".
func (r RuleSet) Legacy() string {
	return r.Survive.String() + "/" + r.Birth.String()
}

// Encoded is the fixed-width, sentinel padded form of a count set.
type Encoded [Slots]int32

// Encode copies the members of c into the leading slots and fills the rest
// with Sentinel.
func Encode(c Counts) Encoded {
	var e Encoded
	i := 0
	for _, n := range c.Values() {
		e[i] = int32(n)
		i++
	}
	for ; i < Slots; i++ {
		e[i] = Sentinel
	}
	return e
}

// Decode interprets every non-sentinel slot as a set member. Slot order is
// irrelevant and repeated members are tolerated.
func Decode(e Encoded) (Counts, error) {
	var c Counts
	for _, v := range e {
		if v == Sentinel {
			continue
		}
		if v < 0 || v > MaxNeighbors {
			return 0, fmt.Errorf("%w: %d", ErrCount, v)
		}
		c |= 1 << v
	}
	return c, nil
}

// Matches reports whether n appears in any slot. It is the same linear scan
// the transition programs run per pixel.
func (e Encoded) Matches(n int32) bool {
	hit := false
	for _, v := range e {
		if v == n {
			hit = true
		}
	}
	return hit
}

// Float32s widens the slots for uniform upload on backends that only take
// float arrays.
func (e Encoded) Float32s() []float32 {
	out := make([]float32, Slots)
	for i, v := range e {
		out[i] = float32(v)
	}
	return out
}
