// Copyright © 2024 Galvanized Logic Inc.

package forge

// timer.go: Timer, a world-scoped countdown that fires a callback once
// due. Grounded on World.h's RegisterTimer/UnregisterTimer/UpdateTimers
// (a linked list of timers the world advances every tick); expressed here
// as a plain slice per world since Go has no intrusive-list convention to
// imitate.

// Timer fires OnFire once Delay seconds have elapsed, then either stops
// or, if Repeat is set, rearms itself for another Interval seconds.
type Timer struct {
	Delay    float64
	Interval float64
	Repeat   bool
	OnFire   func()

	elapsed float64
	done    bool
}

// NewTimer returns a one-shot timer firing after delay seconds.
func NewTimer(delay float64, onFire func()) *Timer {
	return &Timer{Delay: delay, OnFire: onFire}
}

// NewRepeatingTimer returns a timer firing first after delay seconds,
// then every interval seconds until explicitly stopped.
func NewRepeatingTimer(delay, interval float64, onFire func()) *Timer {
	return &Timer{Delay: delay, Interval: interval, Repeat: true, OnFire: onFire}
}

// Stop prevents any future firing.
func (t *Timer) Stop() { t.done = true }

// tick advances the timer by dt and fires OnFire if due, following
// UpdateTimers' "advance and fire if due" contract.
func (t *Timer) tick(dt float64) {
	if t.done {
		return
	}
	t.elapsed += dt
	if t.elapsed < t.Delay {
		return
	}
	if t.OnFire != nil {
		t.OnFire()
	}
	if !t.Repeat {
		t.done = true
		return
	}
	t.elapsed -= t.Delay
	t.Delay = t.Interval
}
