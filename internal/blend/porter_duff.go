// Package blend implements the compositing operators used by the overlay.
//
// All blend operations work with premultiplied alpha values in the range 0-255.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// BlendMode represents a compositing operation.
type BlendMode uint8

const (
	BlendClear      BlendMode = iota // Result: 0 (clear destination)
	BlendSource                      // Result: S (replace with source)
	BlendSourceOver                  // Result: S + D*(1-Sa)
	BlendLuminosity                  // Luminosity of source, hue and saturation of backdrop
)

// String returns the operator name.
func (m BlendMode) String() string {
	switch m {
	case BlendClear:
		return "Clear"
	case BlendSource:
		return "Source"
	case BlendSourceOver:
		return "SourceOver"
	case BlendLuminosity:
		return "Luminosity"
	default:
		return "Unknown"
	}
}

// BlendFunc is the signature for blend operations.
// All values are premultiplied alpha, 0-255.
// Parameters:
//   - sr, sg, sb, sa: source color (red, green, blue, alpha)
//   - dr, dg, db, da: destination color (red, green, blue, alpha)
//
// Returns: resulting color (r, g, b, a) after blending.
type BlendFunc func(sr, sg, sb, sa, dr, dg, db, da byte) (r, g, b, a byte)

// GetBlendFunc returns the blend function for the given mode.
// Returns blendSourceOver for unknown modes.
func GetBlendFunc(mode BlendMode) BlendFunc {
	switch mode {
	case BlendClear:
		return blendClear
	case BlendSource:
		return blendSource
	case BlendSourceOver:
		return blendSourceOver
	case BlendLuminosity:
		return blendLuminosity
	default:
		return blendSourceOver
	}
}

// blendClear clears the destination to transparent black.
func blendClear(_, _, _, _, _, _, _, _ byte) (byte, byte, byte, byte) {
	return 0, 0, 0, 0
}

// blendSource replaces destination with source.
func blendSource(sr, sg, sb, sa, _, _, _, _ byte) (byte, byte, byte, byte) {
	return sr, sg, sb, sa
}

// blendSourceOver composites source over destination.
// Formula: S + D * (1 - Sa)
func blendSourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addDiv255(sr, mulDiv255(dr, invSa)),
		addDiv255(sg, mulDiv255(dg, invSa)),
		addDiv255(sb, mulDiv255(db, invSa)),
		addDiv255(sa, mulDiv255(da, invSa))
}
