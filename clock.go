package simnet

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// SimTime is a non-negative duration from the simulation's origin. It is
// totally ordered and saturates at SimTimeMax rather than overflowing.
type SimTime time.Duration

// SimTimeMax is the saturating maximum virtual time, used as a
// far-future sentinel (e.g. a sleep whose requested deadline would
// otherwise overflow).
const SimTimeMax = SimTime(1<<63 - 1)

// Add returns t+d, saturating at SimTimeMax. d must be non-negative; the
// data model only ever advances virtual time forward.
func (t SimTime) Add(d time.Duration) SimTime {
	if d < 0 {
		panic("simnet: SimTime.Add requires a non-negative duration")
	}
	if SimTime(d) > SimTimeMax-t {
		return SimTimeMax
	}
	return t + SimTime(d)
}

// Sub returns the duration between two SimTime values.
func (t SimTime) Sub(u SimTime) time.Duration {
	return time.Duration(t - u)
}

func (t SimTime) Before(u SimTime) bool { return t < u }
func (t SimTime) After(u SimTime) bool  { return t > u }

func (t SimTime) String() string { return time.Duration(t).String() }

// durationFromNanos converts a nanosecond count back into a
// time.Duration, for code that accumulates delays as plain int64s.
func durationFromNanos(ns int64) time.Duration { return time.Duration(ns) }

// SimClock holds the current virtual time for one simulated node. Only
// SimDriver.SetNow writes it; everything else reads it. It is backed by
// a clockwork.FakeClock, which is already exactly a settable, externally
// advanced virtual clock.
type SimClock struct {
	origin time.Time
	fake   clockwork.FakeClock
}

// NewSimClock creates a clock starting at virtual time zero.
func NewSimClock() *SimClock {
	origin := time.Unix(0, 0).UTC()
	return &SimClock{
		origin: origin,
		fake:   clockwork.NewFakeClockAt(origin),
	}
}

// Now returns the current virtual time.
func (c *SimClock) Now() SimTime {
	return SimTime(c.fake.Now().Sub(c.origin))
}

// SetNow advances the clock to t. It panics if t is before the current
// time: per spec, pushing time backwards is a programmer error, not a
// recoverable one.
func (c *SimClock) SetNow(t SimTime) {
	now := c.Now()
	if t < now {
		panic("simnet: SetNow would move virtual time backwards")
	}
	if t == now {
		return
	}
	c.fake.Advance(t.Sub(now))
}
