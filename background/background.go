// Package background loads the image painted under the indicator.
//
// A background is either a solid color or an image file. Raster files are
// decoded with the standard decoders plus BMP, TIFF and WebP; files ending in
// .svg are rasterised at their natural size. The decoded image is immutable
// and scaled to each requested output size once, then served from a cache.
package background

import (
	"errors"
	"fmt"
	stdimage "image"
	"image/draw"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/halo"
	"github.com/gogpu/halo/cache"
	"github.com/gogpu/halo/compositor"
	"github.com/gogpu/halo/internal/image"
)

// scaledCacheSize bounds the number of output sizes kept scaled at once.
const scaledCacheSize = 4

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("background: empty image")

// Load returns the background described by path. An empty path yields a
// solid fill of color. For image files color is painted whenever the image
// cannot be produced at the requested size.
func Load(path string, color halo.RGBA) (compositor.Background, error) {
	if path == "" {
		return compositor.Solid{Color: color}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	defer f.Close()

	var img *Image
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		img, err = DecodeSVG(f)
	} else {
		img, err = Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("background: load %s: %w", path, err)
	}

	w, h := img.Size()
	halo.Logger().Info("background: loaded image", "path", path, "width", w, "height", h)
	return compositor.Pattern{Source: img, Fallback: color}, nil
}

// Image is a decoded background image at its natural size.
type Image struct {
	src    *stdimage.RGBA
	scaled *cache.LRU[stdimage.Point, *image.ImageBuf]
}

// Decode reads a raster image in any registered format.
func Decode(r io.Reader) (*Image, error) {
	src, format, err := stdimage.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	halo.Logger().Debug("background: decoded", "format", format)
	return FromImage(src)
}

// FromImage wraps src. The pixels are copied, so src may be reused.
func FromImage(src stdimage.Image) (*Image, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	rgba := stdimage.NewRGBA(stdimage.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	return newImage(rgba), nil
}

func newImage(rgba *stdimage.RGBA) *Image {
	return &Image{
		src:    rgba,
		scaled: cache.NewLRU[stdimage.Point, *image.ImageBuf](scaledCacheSize),
	}
}

// Size returns the natural size of the image.
func (i *Image) Size() (width, height int) {
	b := i.src.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the background scaled to width×height as premultiplied
// ARGB8888. The result is shared between callers and must not be modified.
func (i *Image) Image(width, height int) (*image.ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("background: invalid size %dx%d", width, height)
	}
	return i.scaled.GetOrCreate(stdimage.Pt(width, height), func() (*image.ImageBuf, error) {
		halo.Logger().Debug("background: scaling", "width", width, "height", height)
		return image.FromImage(scale(i.src, width, height))
	})
}
