package reveal

// Axis names the coordinate a parallax offset applies to.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// ParallaxOffset is the displacement of a parallax layer.
type ParallaxOffset struct {
	Axis  Axis    `json:"axis"`
	Value float64 `json:"value"`
}

// Parallax maps scroll progress through the viewport (0 when the element
// enters, 1 when it leaves) onto a linear offset spanning intensity*100
// units on either side of rest. Horizontal directions move along X.
// Progress outside [0,1] is clamped.
func Parallax(progress, intensity float64, direction Direction) ParallaxOffset {
	progress = clamp01(progress)
	span := intensity * 100

	from, to := span, -span
	if direction == Up || direction == Right {
		from, to = -span, span
	}

	axis := AxisY
	if direction == Left || direction == Right {
		axis = AxisX
	}

	return ParallaxOffset{Axis: axis, Value: from + (to-from)*progress}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
