package engine

import "math"

// minRayLength is the squared ray length below which two joints are treated
// as visually collapsed and the angle is undefined.
const minRayLength = 1e-9

// Point is a 2D coordinate in a consistent frame (pixel or normalised).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AngleValue is a possibly-undefined angle in degrees. Undefined values
// propagate through the engine; they are never coerced to zero.
type AngleValue struct {
	Degrees float64 `json:"degrees"`
	Valid   bool    `json:"valid"`
}

// Undefined returns the undefined angle value.
func Undefined() AngleValue {
	return AngleValue{}
}

// Deg wraps a defined angle value.
func Deg(d float64) AngleValue {
	return AngleValue{Degrees: d, Valid: true}
}

// Angle computes the included angle at vertex b between rays b->a and b->c,
// in degrees within [0, 180]. The cosine is clamped to [-1, 1] to absorb
// floating-point overshoot. Returns undefined when either ray is degenerate.
func Angle(a, b, c Point) AngleValue {
	bax := a.X - b.X
	bay := a.Y - b.Y
	bcx := c.X - b.X
	bcy := c.Y - b.Y

	la := bax*bax + bay*bay
	lc := bcx*bcx + bcy*bcy
	if la < minRayLength || lc < minRayLength {
		return Undefined()
	}

	cos := (bax*bcx + bay*bcy) / (math.Sqrt(la) * math.Sqrt(lc))
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return Deg(math.Acos(cos) * 180 / math.Pi)
}

// midpoint returns the midpoint of all defined points, or false when none
// are defined. Tolerating a single defined point keeps midline angles
// available when one body side is occluded.
func midpoint(points ...*Point) (Point, bool) {
	var sum Point
	n := 0
	for _, p := range points {
		if p == nil {
			continue
		}
		sum.X += p.X
		sum.Y += p.Y
		n++
	}
	if n == 0 {
		return Point{}, false
	}
	return Point{X: sum.X / float64(n), Y: sum.Y / float64(n)}, true
}

// pointLineDistance returns the perpendicular distance from p to the line
// through a and b, or false when a and b coincide.
func pointLineDistance(p, a, b Point) (float64, bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	l := dx*dx + dy*dy
	if l < minRayLength {
		return 0, false
	}
	cross := dx*(p.Y-a.Y) - dy*(p.X-a.X)
	return math.Abs(cross) / math.Sqrt(l), true
}
