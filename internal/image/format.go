// Package image provides the pixel view used by halo's shared-memory buffers.
package image

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatARGB8888 is 32-bit ARGB with premultiplied alpha, stored as a
	// little-endian uint32 per pixel (bytes B, G, R, A in memory). It is the
	// only format the overlay renders.
	FormatARGB8888 Format = iota

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// BytesPerPixel is the number of bytes per pixel.
	BytesPerPixel int

	// WaylandCode is the wl_shm format enum value.
	WaylandCode uint32

	// Name is the conventional name of the format.
	Name string
}

// formatInfoTable contains metadata for each format.
var formatInfoTable = [formatCount]FormatInfo{
	FormatARGB8888: {
		BytesPerPixel: 4,
		WaylandCode:   0,
		Name:          "ARGB8888",
	},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// WaylandCode returns the wl_shm.format value advertised for f.
func (f Format) WaylandCode() uint32 {
	return f.Info().WaylandCode
}

// String returns a string representation of the format.
func (f Format) String() string {
	if !f.IsValid() {
		return "Unknown"
	}
	return f.Info().Name
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// RowBytes returns the stride for a row of the given width: the packed row
// size rounded up to a 32-bit boundary.
func (f Format) RowBytes(width int) int {
	bits := width * f.BytesPerPixel() * 8
	return (bits + 31) / 32 * 4
}

// ImageBytes calculates the total number of bytes needed for an image.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}
