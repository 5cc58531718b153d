package compositor

import (
	"github.com/gogpu/halo"
	"github.com/gogpu/halo/internal/blend"
	"github.com/gogpu/halo/internal/image"
)

// Background paints the base layer of a frame.
type Background interface {
	// Paint overwrites every pixel of dst.
	Paint(dst *image.ImageBuf)
}

// FillBackground paints the full buffer from bg. A nil bg paints the default
// translucent black.
func FillBackground(dst *image.ImageBuf, bg Background) {
	if dst == nil {
		return
	}
	if bg == nil {
		bg = Solid{Color: halo.DefaultBackground}
	}
	bg.Paint(dst)
}

// Solid is a constant color background.
type Solid struct {
	Color halo.RGBA
}

// Paint implements Background.
func (s Solid) Paint(dst *image.ImageBuf) {
	r, g, b, a := s.Color.Premul()
	dst.Fill(r, g, b, a)
}

// Source produces a premultiplied image of exactly the requested size.
// Implementations may cache their results; the returned image must not be
// modified by the caller.
type Source interface {
	Image(width, height int) (*image.ImageBuf, error)
}

// Pattern copies an image scaled to the buffer size with the source operator.
// When the source fails, Fallback is painted instead.
type Pattern struct {
	Source   Source
	Fallback halo.RGBA
}

// Paint implements Background.
func (p Pattern) Paint(dst *image.ImageBuf) {
	w, h := dst.Bounds()
	if p.Source == nil {
		Solid{Color: p.Fallback}.Paint(dst)
		return
	}
	src, err := p.Source.Image(w, h)
	if err != nil || src.Width() != w || src.Height() != h {
		halo.Logger().Warn("compositor: background image unavailable", "width", w, "height", h, "err", err)
		Solid{Color: p.Fallback}.Paint(dst)
		return
	}
	for y := range h {
		blend.CopySpan(dst.RowBytes(y), src.RowBytes(y), w, blend.BlendSource)
	}
}
