package compositor

import (
	"math"

	"github.com/gogpu/halo"
	"github.com/gogpu/halo/internal/blend"
	"github.com/gogpu/halo/internal/image"
)

// DrawIndicator blends a filled circle of the given radius centered on
// (cx, cy) into dst with the luminosity operator. Coordinates are buffer
// pixels. Pixels (i, j) with (i-cx)² + (j-cy)² <= radius² are covered; the
// parts of the circle outside dst are skipped.
func DrawIndicator(dst *image.ImageBuf, cx, cy, radius int, color halo.RGBA) {
	if dst == nil || radius < 0 {
		return
	}
	w, h := dst.Bounds()
	r, g, b, a := color.Premul()

	y0 := max(cy-radius, 0)
	y1 := min(cy+radius, h-1)
	for j := y0; j <= y1; j++ {
		start, end, ok := Span(cx, cy, radius, j, w)
		if !ok {
			continue
		}
		row := dst.RowBytes(j)
		blend.FillSpan(row[start*4:], end-start+1, blend.BlendLuminosity, r, g, b, a)
	}
}

// Span returns the inclusive column range [start, end] of row j covered by
// the circle and clipped to [0, width). ok is false when the row misses the
// circle or the visible part is empty.
func Span(cx, cy, radius, j, width int) (start, end int, ok bool) {
	dy := j - cy
	rem := radius*radius - dy*dy
	if rem < 0 {
		return 0, 0, false
	}
	dx := isqrt(rem)
	start = max(cx-dx, 0)
	end = min(cx+dx, width-1)
	if start > end {
		return 0, 0, false
	}
	return start, end, true
}

// isqrt returns the largest x with x*x <= n.
func isqrt(n int) int {
	x := int(math.Sqrt(float64(n)))
	for x*x > n {
		x--
	}
	for (x+1)*(x+1) <= n {
		x++
	}
	return x
}
