package utils

import "time"

// Timer measures the wall-clock time of a single operation. It starts on
// construction; [Timer.Stop] freezes the measurement.
type Timer struct {
	startTime time.Time
	duration  time.Duration
	stopped   bool
}

// NewTimer returns a running Timer.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Stop records the time elapsed since construction. Calling it again
// overwrites the previous measurement.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.startTime)
	t.stopped = true
	return t.duration
}

// Elapsed returns the stopped duration, or the running duration when Stop
// has not been called yet.
func (t *Timer) Elapsed() time.Duration {
	if t.stopped {
		return t.duration
	}
	return time.Since(t.startTime)
}

// Milliseconds returns Elapsed as fractional milliseconds, the unit used by
// duration histograms.
func (t *Timer) Milliseconds() float64 {
	return float64(t.Elapsed().Microseconds()) / 1000
}
