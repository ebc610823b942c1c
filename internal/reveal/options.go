package reveal

import (
	"fmt"
	"time"
)

type Direction string

const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down, Left, Right:
		return Direction(s), nil
	case "":
		return Up, nil
	}
	return "", fmt.Errorf("unknown reveal direction %q", s)
}

// Offset is a displacement in layout units.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Scale multiplies both axes by f.
func (o Offset) Scale(f float64) Offset {
	return Offset{X: o.X * f, Y: o.Y * f}
}

// Offset returns the starting displacement of a hidden element entering
// from direction d. Elements slide towards their resting position, so "up"
// starts below it.
func (d Direction) Offset(distance float64) Offset {
	switch d {
	case Down:
		return Offset{Y: -distance}
	case Left:
		return Offset{X: distance}
	case Right:
		return Offset{X: -distance}
	default:
		return Offset{Y: distance}
	}
}

// Options configures one reveal target.
type Options struct {
	Threshold   float64
	TriggerOnce bool
	Direction   Direction
	Delay       time.Duration
	Duration    time.Duration
	Distance    float64
}

func DefaultOptions() Options {
	return Options{
		Threshold:   0.1,
		TriggerOnce: true,
		Direction:   Up,
		Delay:       0,
		Duration:    600 * time.Millisecond,
		Distance:    50,
	}
}

func (o Options) validate() error {
	if o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("threshold %v out of range [0,1]", o.Threshold)
	}
	if o.Delay < 0 || o.Duration < 0 {
		return fmt.Errorf("negative timing: delay %v, duration %v", o.Delay, o.Duration)
	}
	if o.Distance < 0 {
		return fmt.Errorf("negative distance %v", o.Distance)
	}
	return nil
}

type Option func(*Options)

func WithThreshold(f float64) Option {
	return func(o *Options) { o.Threshold = f }
}

// WithReplay lets a target return to Hidden when it leaves the viewport.
func WithReplay() Option {
	return func(o *Options) { o.TriggerOnce = false }
}

func WithDirection(d Direction) Option {
	return func(o *Options) { o.Direction = d }
}

func WithDelay(d time.Duration) Option {
	return func(o *Options) { o.Delay = d }
}

func WithDuration(d time.Duration) Option {
	return func(o *Options) { o.Duration = d }
}

func WithDistance(units float64) Option {
	return func(o *Options) { o.Distance = units }
}
