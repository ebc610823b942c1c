// Package glitch runs the flicker timer behind glitch-styled text.
//
// A Timer alternates between a steady state and a short glitching window at
// random intervals drawn from an intensity tier. Stop is the teardown hook
// and must be called when the owning element goes away.
package glitch

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

type Intensity string

const (
	High   Intensity = "high"
	Medium Intensity = "medium"
	Low    Intensity = "low"
)

// Window is how long a single glitch lasts.
const Window = 200 * time.Millisecond

// Bounds is the range the pause between two glitches is drawn from.
type Bounds struct {
	Min time.Duration
	Max time.Duration
}

// Pick maps r in [0,1) onto the bounds.
func (b Bounds) Pick(r float64) time.Duration {
	if b.Max <= b.Min {
		return b.Min
	}
	return b.Min + time.Duration(r*float64(b.Max-b.Min))
}

// Bounds returns the tier for i. Unknown values fall back to the low tier.
func (i Intensity) Bounds() Bounds {
	switch i {
	case High:
		return Bounds{Min: 1 * time.Second, Max: 3 * time.Second}
	case Medium:
		return Bounds{Min: 2 * time.Second, Max: 6 * time.Second}
	default:
		return Bounds{Min: 4 * time.Second, Max: 12 * time.Second}
	}
}

func ParseIntensity(s string) (Intensity, error) {
	switch Intensity(s) {
	case High, Medium, Low:
		return Intensity(s), nil
	case "":
		return Medium, nil
	}
	return "", fmt.Errorf("unknown glitch intensity %q", s)
}

type options struct {
	rand   func() float64
	bounds *Bounds
	window time.Duration
}

type Option func(*options)

// WithRand replaces the random source. fn must return values in [0,1).
func WithRand(fn func() float64) Option {
	return func(o *options) { o.rand = fn }
}

// WithBounds overrides the tier bounds.
func WithBounds(b Bounds) Option {
	return func(o *options) { o.bounds = &b }
}

func WithWindow(d time.Duration) Option {
	return func(o *options) { o.window = d }
}

// Timer is a running flicker task.
type Timer struct {
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// Start launches the flicker loop for one element. onChange receives true
// when a glitch begins and false when it ends. It is always called from the
// timer's own goroutine and must not call Stop.
func Start(intensity Intensity, onChange func(glitching bool), opts ...Option) *Timer {
	o := options{rand: rand.Float64, window: Window}
	for _, opt := range opts {
		opt(&o)
	}
	bounds := intensity.Bounds()
	if o.bounds != nil {
		bounds = *o.bounds
	}

	t := &Timer{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go t.run(bounds, o, onChange)
	return t
}

func (t *Timer) run(bounds Bounds, o options, onChange func(bool)) {
	defer close(t.done)

	timer := time.NewTimer(bounds.Pick(o.rand()))
	defer timer.Stop()

	for {
		if !t.wait(timer) || !t.emit(onChange, true) {
			return
		}

		timer.Reset(o.window)
		if !t.wait(timer) || !t.emit(onChange, false) {
			return
		}

		timer.Reset(bounds.Pick(o.rand()))
	}
}

func (t *Timer) wait(timer *time.Timer) bool {
	select {
	case <-t.stop:
		return false
	case <-timer.C:
		return true
	}
}

// emit skips the callback once a stop was requested, so a tick racing with
// Stop never reaches the caller.
func (t *Timer) emit(onChange func(bool), glitching bool) bool {
	select {
	case <-t.stop:
		return false
	default:
	}
	onChange(glitching)
	return true
}

// Stop cancels the timer and waits for its goroutine to exit. After Stop
// returns onChange is never called again. Calling Stop more than once is
// safe.
func (t *Timer) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	<-t.done
}

// Done is closed once the timer goroutine has exited.
func (t *Timer) Done() <-chan struct{} {
	return t.done
}
