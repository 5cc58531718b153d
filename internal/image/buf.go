package image

import (
	"errors"
	stdimage "image"
	"image/color"
)

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("image: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// ImageBuf is a typed view over premultiplied ARGB8888 pixel memory.
//
// ImageBuf does not own its memory when created with FromRaw: the backing
// slice usually is a shared-memory mapping owned by a shm.Buffer.
//
// ImageBuf is not safe for concurrent use.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewImageBuf creates a new heap-backed image buffer.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	stride := format.RowBytes(width)
	return &ImageBuf{
		data:   make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw creates an ImageBuf over existing data without copying.
// The caller must ensure data remains valid for the lifetime of the ImageBuf.
// Stride must be at least format.RowBytes(width).
func FromRaw(data []byte, width, height int, format Format, stride int) (*ImageBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}
	if stride < format.RowBytes(width) {
		return nil, ErrInvalidStride
	}

	requiredSize := stride * height
	if len(data) < requiredSize {
		return nil, ErrDataTooSmall
	}

	return &ImageBuf{
		data:   data[:requiredSize],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromImage converts any image.Image into a new premultiplied ARGB8888 buffer.
func FromImage(src stdimage.Image) (*ImageBuf, error) {
	bounds := src.Bounds()
	buf, err := NewImageBuf(bounds.Dx(), bounds.Dy(), FormatARGB8888)
	if err != nil {
		return nil, err
	}

	if rgba, ok := src.(*stdimage.RGBA); ok {
		for y := range buf.height {
			row := rgba.Pix[(y+bounds.Min.Y-rgba.Rect.Min.Y)*rgba.Stride:]
			row = row[(bounds.Min.X-rgba.Rect.Min.X)*4:]
			dst := buf.RowBytes(y)
			for x := range buf.width {
				i := x * 4
				dst[i], dst[i+1], dst[i+2], dst[i+3] = row[i+2], row[i+1], row[i], row[i+3]
			}
		}
		return buf, nil
	}

	for y := range buf.height {
		for x := range buf.width {
			c := color.RGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			_ = buf.SetRGBA(x, y, c.R, c.G, c.B, c.A)
		}
	}
	return buf, nil
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Stride returns the number of bytes per row (including padding).
func (b *ImageBuf) Stride() int {
	return b.stride
}

// Format returns the pixel format.
func (b *ImageBuf) Format() Format {
	return b.format
}

// Bounds returns the image dimensions as (width, height).
func (b *ImageBuf) Bounds() (int, int) {
	return b.width, b.height
}

// Data returns the raw pixel data slice.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.width*b.format.BytesPerPixel()]
}

// offset returns the byte offset of pixel (x, y), or -1 outside the image.
func (b *ImageBuf) offset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// GetRGBA returns the premultiplied color at (x, y).
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *ImageBuf) GetRGBA(x, y int) (r, g, bl, a uint8) {
	offset := b.offset(x, y)
	if offset < 0 {
		return 0, 0, 0, 0
	}
	p := b.data[offset : offset+4]
	return p[2], p[1], p[0], p[3]
}

// SetRGBA stores the premultiplied color at (x, y).
// Returns ErrOutOfBounds if coordinates are outside image bounds.
func (b *ImageBuf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	offset := b.offset(x, y)
	if offset < 0 {
		return ErrOutOfBounds
	}
	p := b.data[offset : offset+4]
	p[0], p[1], p[2], p[3] = bl, g, r, a
	return nil
}

// Fill sets all pixels to the given premultiplied color.
func (b *ImageBuf) Fill(r, g, bl, a uint8) {
	if b.height == 0 {
		return
	}
	row := b.RowBytes(0)
	for i := 0; i < len(row); i += 4 {
		row[i], row[i+1], row[i+2], row[i+3] = bl, g, r, a
	}
	for y := 1; y < b.height; y++ {
		copy(b.RowBytes(y), row)
	}
}
