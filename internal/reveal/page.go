package reveal

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"genai_portfolio/internal/glitch"
)

var ErrPageClosed = errors.New("page closed")

// Page scopes the animation resources of one mounted page: a controller fed
// from an intersection stream and the glitch timers of its text elements.
// Close releases all of them.
type Page struct {
	controller *Controller
	cancel     context.CancelFunc
	done       chan struct{}

	mu     sync.Mutex
	timers []*glitch.Timer
	closed bool
}

// NewPage starts a controller consuming in. The controller stops when ctx is
// cancelled, when in is closed or when the page is closed.
func NewPage(ctx context.Context, in <-chan Intersection, logger *slog.Logger, opts ...ControllerOption) *Page {
	ctx, cancel := context.WithCancel(ctx)
	p := &Page{
		controller: NewController(logger, opts...),
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		if err := p.controller.Run(ctx, in); err != nil && !errors.Is(err, context.Canceled) {
			p.controller.logger.Error("Reveal controller stopped", "error", err)
		}
	}()

	return p
}

func (p *Page) Controller() *Controller {
	return p.controller
}

// Glitch starts a flicker timer owned by the page.
func (p *Page) Glitch(intensity glitch.Intensity, onChange func(bool), opts ...glitch.Option) (*glitch.Timer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPageClosed
	}
	t := glitch.Start(intensity, onChange, opts...)
	p.timers = append(p.timers, t)
	return t, nil
}

// Close stops the controller goroutine, deregisters every target and stops
// every glitch timer. No transition or glitch callback fires after Close
// returns. Close is idempotent.
func (p *Page) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	timers := p.timers
	p.timers = nil
	p.mu.Unlock()

	p.cancel()
	<-p.done
	p.controller.Reset()

	for _, t := range timers {
		t.Stop()
	}
}
