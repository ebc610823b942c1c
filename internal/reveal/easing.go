package reveal

import "math"

// Bezier is a CSS-style cubic-bezier timing function with fixed end points
// (0,0) and (1,1).
type Bezier struct {
	X1, Y1, X2, Y2 float64
}

// Ease is the curve used by reveal animations.
var Ease = Bezier{X1: 0.25, Y1: 0.1, X2: 0.25, Y2: 1.0}

const (
	bezierEpsilon    = 1e-6
	newtonIterations = 8
	bisectIterations = 50
)

// At returns the eased progress for linear progress x. x is clamped to [0,1].
func (b Bezier) At(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return bezierSample(b.Y1, b.Y2, b.solve(x))
}

// solve finds the curve parameter t whose x coordinate is x. Newton's method
// converges in a few steps for well-behaved curves; bisection covers flat
// derivatives.
func (b Bezier) solve(x float64) float64 {
	t := x
	for range newtonIterations {
		dx := bezierSample(b.X1, b.X2, t) - x
		if math.Abs(dx) < bezierEpsilon {
			return t
		}
		d := bezierSlope(b.X1, b.X2, t)
		if math.Abs(d) < bezierEpsilon {
			break
		}
		t -= dx / d
	}

	lo, hi := 0.0, 1.0
	t = x
	for range bisectIterations {
		v := bezierSample(b.X1, b.X2, t)
		if math.Abs(v-x) < bezierEpsilon {
			break
		}
		if x > v {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) / 2
	}
	return t
}

func bezierSample(p1, p2, t float64) float64 {
	a := 1 - 3*p2 + 3*p1
	b := 3*p2 - 6*p1
	c := 3 * p1
	return ((a*t+b)*t + c) * t
}

func bezierSlope(p1, p2, t float64) float64 {
	a := 1 - 3*p2 + 3*p1
	b := 3*p2 - 6*p1
	c := 3 * p1
	return 3*a*t*t + 2*b*t + c
}
