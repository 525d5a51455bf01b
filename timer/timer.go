// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package timer measures frame times and drives the engine loop
package timer

import (
	"fmt"
	"math"
	"time"
)

// Clock returns the current time
type Clock func() time.Time

// Stats are frame time statistics over one averaging interval
type Stats struct {
	Avg       time.Duration
	Min       time.Duration
	Max       time.Duration
	FrameRate float64
}

func (s Stats) String() string {
	return fmt.Sprintf("%.1f fps (avg %v, min %v, max %v)", s.FrameRate, s.Avg, s.Min, s.Max)
}

// Timer measures the time between updates and averages it over intervals
type Timer struct {
	clock Clock
	last  time.Time
	delta time.Duration

	interval      time.Duration
	sinceAverage  time.Duration
	count         int
	avg, min, max float64

	stats Stats
}

// New creates a timer reading the system clock
func New() *Timer {
	return NewWithClock(time.Now)
}

// NewWithClock creates a timer reading clock
func NewWithClock(clock Clock) *Timer {
	t := &Timer{clock: clock}
	t.last = clock()
	t.restart(0)
	return t
}

// SetInterval sets the averaging interval, 0 disables statistics
func (t *Timer) SetInterval(interval time.Duration) {
	t.interval = interval
}

// Interval returns the averaging interval
func (t *Timer) Interval() time.Duration {
	return t.interval
}

// Update measures the time elapsed since the previous update. It returns
// true when an averaging interval completed and Stats changed.
func (t *Timer) Update() bool {
	now := t.clock()
	t.delta = now.Sub(t.last)
	t.last = now

	seconds := t.delta.Seconds()
	t.count++
	t.avg += (seconds - t.avg) / float64(t.count)
	t.sinceAverage += t.delta
	if seconds < t.min {
		t.min = seconds
	}
	if seconds > t.max {
		t.max = seconds
	}

	if t.interval == 0 || t.sinceAverage < t.interval {
		return false
	}

	t.stats = Stats{
		Avg: seconds2duration(t.avg),
		Min: seconds2duration(t.min),
		Max: seconds2duration(t.max),
	}
	if t.avg > 0 {
		t.stats.FrameRate = 1 / t.avg
	}
	t.restart(seconds)
	return true
}

func (t *Timer) restart(seconds float64) {
	t.avg, t.min, t.max = seconds, seconds, seconds
	t.count = 1
	t.sinceAverage = 0
	if seconds == 0 {
		t.min = 1e6
		t.count = 0
	}
}

// Delta returns the time between the last two updates
func (t *Timer) Delta() time.Duration {
	return t.delta
}

// Stats returns the statistics of the last completed interval
func (t *Timer) Stats() Stats {
	return t.stats
}

func seconds2duration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
