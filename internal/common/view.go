package common

import "math"

// Bounds is an axis-aligned box in world coordinates.
type Bounds struct {
	Min, Max Vec2
}

// BoundsOf returns the smallest box containing every point of every polyline.
// The zero Bounds is returned when there are no points.
func BoundsOf(polylines ...[]Vec2) Bounds {
	b := Bounds{
		Min: Vec2{math.Inf(1), math.Inf(1)},
		Max: Vec2{math.Inf(-1), math.Inf(-1)},
	}
	empty := true
	for _, line := range polylines {
		for _, p := range line {
			b.Min.X = math.Min(b.Min.X, p.X)
			b.Min.Y = math.Min(b.Min.Y, p.Y)
			b.Max.X = math.Max(b.Max.X, p.X)
			b.Max.Y = math.Max(b.Max.Y, p.Y)
			empty = false
		}
	}
	if empty {
		return Bounds{}
	}
	return b
}

// Size returns the width and height of the box.
func (b Bounds) Size() (float64, float64) {
	return b.Max.X - b.Min.X, b.Max.Y - b.Min.Y
}

// View maps world coordinates to screen pixels: screen = world*Scale + Offset.
type View struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// FitView scales and centers b inside a width x height window.
// margin is the fraction of the window used (0.95 = 5% padding).
func FitView(b Bounds, width, height int, margin float64) View {
	bw, bh := b.Size()
	if bw <= 0 && bh <= 0 {
		return View{Scale: 1, OffsetX: float64(width) / 2, OffsetY: float64(height) / 2}
	}

	// 1. Scale to fit the limiting axis
	scale := math.Inf(1)
	if bw > 0 {
		scale = float64(width) / bw
	}
	if bh > 0 {
		scale = math.Min(scale, float64(height)/bh)
	}
	scale *= margin

	// 2. Center the box
	cx := (b.Min.X + b.Max.X) / 2
	cy := (b.Min.Y + b.Max.Y) / 2
	return View{
		Scale:   scale,
		OffsetX: float64(width)/2 - cx*scale,
		OffsetY: float64(height)/2 - cy*scale,
	}
}

// ToScreen converts a world point to screen coordinates.
func (v View) ToScreen(p Vec2) (float32, float32) {
	return float32(p.X*v.Scale + v.OffsetX), float32(p.Y*v.Scale + v.OffsetY)
}

// ToWorld converts screen coordinates back to a world point.
func (v View) ToWorld(x, y float64) Vec2 {
	return Vec2{(x - v.OffsetX) / v.Scale, (y - v.OffsetY) / v.Scale}
}

// Zoom scales the view by factor while keeping the screen point (x, y) fixed.
func (v View) Zoom(factor, x, y float64) View {
	anchor := v.ToWorld(x, y)
	v.Scale *= factor
	v.OffsetX = x - anchor.X*v.Scale
	v.OffsetY = y - anchor.Y*v.Scale
	return v
}
