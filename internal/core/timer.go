package core

import "time"

// Speed selects one of the playback cadences.
type Speed int

const (
	// SpeedSlow advances three generations per second.
	SpeedSlow Speed = iota
	// SpeedNormal advances ten generations per second.
	SpeedNormal
	// SpeedFast advances one generation per frame.
	SpeedFast
)

var speedLabels = [...]string{"Slow", "Normal", "Fast"}

// String returns the display label of the speed.
func (s Speed) String() string {
	if s < SpeedSlow || s > SpeedFast {
		return "Unknown"
	}
	return speedLabels[s]
}

// Next cycles to the following speed, wrapping after Fast.
func (s Speed) Next() Speed {
	if s >= SpeedFast || s < SpeedSlow {
		return SpeedSlow
	}
	return s + 1
}

// TPS returns the ticks per second of the speed. Zero means every frame.
func (s Speed) TPS() int {
	switch s {
	case SpeedSlow:
		return 3
	case SpeedNormal:
		return 10
	default:
		return 0
	}
}

// FixedStep helps run simulation updates at a steady ticks-per-second rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
// A TPS of zero or less steps on every call.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		f.step = 0
		return
	}
	f.step = time.Second / time.Duration(tps)
}

// Reset forgets accumulated time so the next tick fires immediately.
func (f *FixedStep) Reset() {
	f.last = time.Time{}
	f.accumulator = f.step
}

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	if f.step == 0 {
		return true
	}
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		if f.accumulator > f.step {
			f.accumulator = f.step
		}
		return true
	}
	return false
}
