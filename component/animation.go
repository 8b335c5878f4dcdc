package component

import "time"

// FrameWindow is the length of one two-frame animation cycle.
const FrameWindow = 1000 * time.Millisecond

// Clock accumulates elapsed time for a sprite and selects which of two
// frames to show. Selection depends only on the accumulated time, never on
// how many updates produced it.
type Clock struct {
	elapsed time.Duration
}

// Tick advances the clock by dt. Negative deltas are ignored.
func (c *Clock) Tick(dt time.Duration) {
	if c == nil || dt <= 0 {
		return
	}
	c.elapsed += dt
}

// Elapsed returns the accumulated time.
func (c *Clock) Elapsed() time.Duration {
	if c == nil {
		return 0
	}
	return c.elapsed
}

// Reset sets the clock back to zero.
func (c *Clock) Reset() {
	if c == nil {
		return
	}
	c.elapsed = 0
}

// FrameIndex returns the frame for the clock's current time.
func (c *Clock) FrameIndex() int { return FrameAt(c.Elapsed()) }

// FrameAt returns 0 during the first half of each FrameWindow and 1 during
// the second half.
func FrameAt(elapsed time.Duration) int {
	t := elapsed % FrameWindow
	if t < 0 {
		t += FrameWindow
	}
	if t < FrameWindow/2 {
		return 0
	}
	return 1
}
