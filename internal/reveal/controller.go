// Package reveal decides when registered elements play their entrance
// animation and what they look like while it runs.
//
// Visibility is pushed in as Intersection notifications, one per threshold
// crossing reported by the platform. The controller never polls.
package reveal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"
)

var (
	ErrUnknownTarget   = errors.New("unknown reveal target")
	ErrDuplicateTarget = errors.New("reveal target already registered")
)

type State int

const (
	Hidden State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "hidden"
}

// Intersection reports the visible fraction of a target in the viewport.
type Intersection struct {
	TargetID string
	Ratio    float64
}

// Transition is emitted whenever a target changes state.
type Transition struct {
	TargetID string
	From     State
	To       State
	At       time.Time
}

// Style is the rendered appearance of a target at one instant.
type Style struct {
	Opacity float64 `json:"opacity"`
	Offset  Offset  `json:"offset"`
}

type target struct {
	opts       Options
	state      State
	revealedAt time.Time
}

// visible reports whether ratio reaches the target's threshold. A zero
// threshold means any visible pixel.
func (t *target) visible(ratio float64) bool {
	if t.opts.Threshold == 0 {
		return ratio > 0
	}
	return ratio >= t.opts.Threshold
}

type Controller struct {
	logger *slog.Logger
	now    func() time.Time

	mu          sync.Mutex
	targets     map[string]*target
	subscribers []func(Transition)
}

type ControllerOption func(*Controller)

// WithClock replaces time.Now for transition timestamps.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

func NewController(logger *slog.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		logger:  logger.With("component", "reveal"),
		now:     time.Now,
		targets: make(map[string]*target),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds a target in the Hidden state.
func (c *Controller) Register(id string, opts ...Option) error {
	if id == "" {
		return errors.New("register target: empty id")
	}

	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return fmt.Errorf("register target %q: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.targets[id]; ok {
		return fmt.Errorf("register target %q: %w", id, ErrDuplicateTarget)
	}
	c.targets[id] = &target{opts: o, state: Hidden}
	return nil
}

// Unregister removes a target. Later notifications for it are ignored.
func (c *Controller) Unregister(id string) {
	c.mu.Lock()
	delete(c.targets, id)
	c.mu.Unlock()
}

// Reset removes every target.
func (c *Controller) Reset() {
	c.mu.Lock()
	clear(c.targets)
	c.mu.Unlock()
}

func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.targets)
}

// Subscribe registers fn for every future transition. fn runs on the
// goroutine delivering the notification and must not block.
func (c *Controller) Subscribe(fn func(Transition)) {
	c.mu.Lock()
	c.subscribers = append(c.subscribers, fn)
	c.mu.Unlock()
}

func (c *Controller) State(id string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, ok := c.targets[id]
	if !ok {
		return Hidden, fmt.Errorf("state of %q: %w", id, ErrUnknownTarget)
	}
	return t.state, nil
}

// Observe applies one intersection notification and returns the resulting
// transition, if any. Notifications that do not cross the threshold, or
// that arrive for a terminal Visible target, change nothing.
func (c *Controller) Observe(n Intersection) (Transition, bool) {
	c.mu.Lock()
	t, ok := c.targets[n.TargetID]
	if !ok {
		c.mu.Unlock()
		c.logger.Debug("Intersection for unknown target", "target", n.TargetID)
		return Transition{}, false
	}

	next := t.state
	switch {
	case t.state == Hidden && t.visible(n.Ratio):
		next = Visible
	case t.state == Visible && !t.opts.TriggerOnce && !t.visible(n.Ratio):
		next = Hidden
	}
	if next == t.state {
		c.mu.Unlock()
		return Transition{}, false
	}

	tr := Transition{TargetID: n.TargetID, From: t.state, To: next, At: c.now()}
	t.state = next
	if next == Visible {
		t.revealedAt = tr.At
	}
	subs := slices.Clone(c.subscribers)
	c.mu.Unlock()

	c.logger.Debug("Reveal transition", "target", tr.TargetID, "from", tr.From, "to", tr.To)
	for _, fn := range subs {
		fn(tr)
	}
	return tr, true
}

// Run consumes notifications until ctx is cancelled or in is closed.
func (c *Controller) Run(ctx context.Context, in <-chan Intersection) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-in:
			if !ok {
				return nil
			}
			c.Observe(n)
		}
	}
}

// Frame returns the style of a target elapsed after it became visible.
// Hidden targets render at rest: transparent and displaced.
func (c *Controller) Frame(id string, elapsed time.Duration) (Style, error) {
	c.mu.Lock()
	t, ok := c.targets[id]
	if !ok {
		c.mu.Unlock()
		return Style{}, fmt.Errorf("frame of %q: %w", id, ErrUnknownTarget)
	}
	state, opts := t.state, t.opts
	c.mu.Unlock()

	if state == Hidden {
		return Animate(opts, -1), nil
	}
	return Animate(opts, elapsed), nil
}

// Now returns the style of a target at the controller's current time.
func (c *Controller) Now(id string) (Style, error) {
	c.mu.Lock()
	t, ok := c.targets[id]
	var since time.Duration
	if ok {
		since = c.now().Sub(t.revealedAt)
	}
	c.mu.Unlock()

	return c.Frame(id, since)
}

// Animate interpolates the entrance animation elapsed after the reveal.
// Nothing moves until Delay has passed; the animation then eases over
// Duration. Negative elapsed yields the hidden style.
func Animate(opts Options, elapsed time.Duration) Style {
	start := opts.Direction.Offset(opts.Distance)
	if elapsed < 0 {
		return Style{Opacity: 0, Offset: start}
	}

	progress := 1.0
	if t := elapsed - opts.Delay; t < 0 {
		progress = 0
	} else if opts.Duration > 0 {
		progress = clamp01(float64(t) / float64(opts.Duration))
	}

	eased := Ease.At(progress)
	return Style{Opacity: eased, Offset: start.Scale(1 - eased)}
}
