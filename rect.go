package halo

// Rect is an axis-aligned rectangle in integer pixel coordinates.
// X and Y are the top-left corner; the rectangle covers
// [X, X+Width) × [Y, Y+Height).
type Rect struct {
	X, Y          int
	Width, Height int
}

// SquareAround returns the square of side 2*half centred on (cx, cy).
func SquareAround(cx, cy, half int) Rect {
	return Rect{X: cx - half, Y: cy - half, Width: 2 * half, Height: 2 * half}
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rectangle containing both r and other.
// An empty rectangle is the identity element.
func (r Rect) Union(other Rect) Rect {
	if r.Empty() {
		return other
	}
	if other.Empty() {
		return r
	}
	x0, y0 := min(r.X, other.X), min(r.Y, other.Y)
	x1 := max(r.X+r.Width, other.X+other.Width)
	y1 := max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Intersect returns the overlap of r and other, or the zero Rect.
func (r Rect) Intersect(other Rect) Rect {
	x0, y0 := max(r.X, other.X), max(r.Y, other.Y)
	x1 := min(r.X+r.Width, other.X+other.Width)
	y1 := min(r.Y+r.Height, other.Y+other.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Scale multiplies every coordinate by s.
func (r Rect) Scale(s int) Rect {
	return Rect{X: r.X * s, Y: r.Y * s, Width: r.Width * s, Height: r.Height * s}
}
