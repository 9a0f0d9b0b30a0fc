/*
Package game
File: clock.go
Description:
    Discrete-event game clock.
    The clock advances in whole ticks until the game duration is used up.
    Events scheduled with AddEvent fire on their due tick in the order they
    were added, and the end hook runs once after the last tick.
*/

package game

// ClockState is the lifecycle stage of a Clock.
type ClockState int

const (
	ClockIdle ClockState = iota
	ClockRunning
	ClockEnded
)

func (s ClockState) String() string {
	switch s {
	case ClockIdle:
		return "idle"
	case ClockRunning:
		return "running"
	case ClockEnded:
		return "ended"
	}
	return "unknown"
}

// Clock is a discrete-event scheduler over integer ticks.
//
// It never reads wall time. Whoever owns it calls Tick once per interval
// (see Session), which keeps it deterministic under test. A Clock is not
// safe for concurrent use; all calls must come from one goroutine.
type Clock struct {
	duration int
	elapsed  int
	state    ClockState
	events   map[int][]func()

	onChange func(elapsed int)
	onEnd    func()
}

// NewClock creates an idle clock that ends after duration ticks.
func NewClock(duration int) *Clock {
	return &Clock{
		duration: duration,
		events:   make(map[int][]func()),
	}
}

// OnChange registers the hook fired at the start of every tick.
func (c *Clock) OnChange(fn func(elapsed int)) { c.onChange = fn }

// OnEnd registers the hook fired once when the final tick has been processed.
func (c *Clock) OnEnd(fn func()) { c.onEnd = fn }

// Start moves the clock from idle to running.
func (c *Clock) Start() error {
	if c.state != ClockIdle {
		return ErrClockStarted
	}
	c.state = ClockRunning
	return nil
}

// AddEvent schedules fn for delay ticks from now.
// A zero delay runs fn synchronously before AddEvent returns; the current
// tick has already been processed, so there is no later point in it to defer to.
func (c *Clock) AddEvent(delay int, fn func()) error {
	if c.state == ClockEnded || delay < 0 {
		return ErrInvalidSchedule
	}
	if delay == 0 {
		fn()
		return nil
	}
	at := c.elapsed + delay
	c.events[at] = append(c.events[at], fn)
	return nil
}

// Tick advances time by one and fires everything due.
// Order within a tick: change hook, scheduled events in registration order,
// then the end hook if this was the final tick.
func (c *Clock) Tick() error {
	if c.state != ClockRunning {
		return ErrClockNotRunning
	}
	c.elapsed++
	if c.onChange != nil {
		c.onChange(c.elapsed)
	}
	due := c.events[c.elapsed]
	delete(c.events, c.elapsed)
	for _, fn := range due {
		fn()
	}
	if c.elapsed >= c.duration {
		c.state = ClockEnded
		c.events = nil
		if c.onEnd != nil {
			c.onEnd()
		}
	}
	return nil
}

// Elapsed returns the number of processed ticks.
func (c *Clock) Elapsed() int { return c.elapsed }

// Remaining returns the ticks left before the game ends.
func (c *Clock) Remaining() int { return c.duration - c.elapsed }

// Duration returns the total length of the game in ticks.
func (c *Clock) Duration() int { return c.duration }

// State returns the lifecycle stage.
func (c *Clock) State() ClockState { return c.state }

// Pending returns how many events are scheduled and not yet fired.
func (c *Clock) Pending() int {
	n := 0
	for _, evs := range c.events {
		n += len(evs)
	}
	return n
}
