// Package movement turns a market's stream of odds snapshots into signed,
// tiered movement metrics and ranks the biggest movers.
package movement

import (
	"fmt"
	"time"
)

// Window selects which snapshots participate in a movement computation: a
// trailing duration, or everything since the earliest observation.
type Window struct {
	Duration  time.Duration
	SinceOpen bool
}

// Preset windows offered by the dashboard.
var (
	WindowLastHour   = Window{Duration: time.Hour}
	WindowLast3Hours = Window{Duration: 3 * time.Hour}
	WindowLast6Hours = Window{Duration: 6 * time.Hour}
	WindowLast24H    = Window{Duration: 24 * time.Hour}
	WindowSinceOpen  = Window{SinceOpen: true}
)

// Last returns a trailing-duration window.
func Last(d time.Duration) Window {
	return Window{Duration: d}
}

// CutoffTime returns the earliest collection time admitted by the window, and
// false when the window is unbounded.
func (w Window) CutoffTime(now time.Time) (time.Time, bool) {
	if w.SinceOpen {
		return time.Time{}, false
	}
	return now.Add(-w.Duration), true
}

// String returns a short label for logs and cache keys.
func (w Window) String() string {
	if w.SinceOpen {
		return "since-open"
	}
	return fmt.Sprintf("last-%s", w.Duration)
}
