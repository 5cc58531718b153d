package background

import (
	stdimage "image"

	"golang.org/x/image/draw"
)

// scale resamples src to width×height with a Catmull-Rom filter.
// src is returned as is when it already has the requested size.
func scale(src *stdimage.RGBA, width, height int) *stdimage.RGBA {
	if src.Bounds().Dx() == width && src.Bounds().Dy() == height {
		return src
	}
	dst := stdimage.NewRGBA(stdimage.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}
