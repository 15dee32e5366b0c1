package common

import "math"

// Vec2 represents a 2D vector.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add adds two vectors.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts other from v.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale multiplies the vector by a scalar.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the 3D cross product of v and other.
func (v Vec2) Cross(other Vec2) float64 {
	return v.X*other.Y - v.Y*other.X
}

// Perp returns the left-hand normal (v rotated +90°). Not normalized.
func (v Vec2) Perp() Vec2 {
	return Vec2{-v.Y, v.X}
}

// Len returns the length (magnitude) of the vector.
func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns a unit vector in the same direction.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Rotate rotates the vector counter-clockwise by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	return NewRotation(angle).Apply(v)
}

// Angle returns the direction of the vector in radians, in (-Pi, Pi].
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Lerp interpolates between v (t=0) and other (t=1).
func (v Vec2) Lerp(other Vec2, t float64) Vec2 {
	return v.Add(other.Sub(v).Scale(t))
}

// Rotation is a precomputed 2x2 rotation matrix.
// Reuse one when the same angle is applied to many vectors.
type Rotation struct {
	Cos, Sin float64
}

// NewRotation builds the rotation for angle radians.
func NewRotation(angle float64) Rotation {
	return Rotation{Cos: math.Cos(angle), Sin: math.Sin(angle)}
}

// Apply rotates v.
func (r Rotation) Apply(v Vec2) Vec2 {
	return Vec2{
		X: v.X*r.Cos - v.Y*r.Sin,
		Y: v.X*r.Sin + v.Y*r.Cos,
	}
}

// Heading returns the unit vector the rotation maps the x axis to.
func (r Rotation) Heading() Vec2 {
	return Vec2{r.Cos, r.Sin}
}
