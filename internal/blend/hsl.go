package blend

import "math"

// The luminosity operator is the one non-separable mode of W3C Compositing
// and Blending Level 1 (section 8) the overlay needs. It keeps the hue and
// saturation of the backdrop and takes the luminosity of the source, so a
// translucent white source brightens whatever is underneath instead of
// covering it.

// Lum returns the luminance of a color using BT.601 coefficients.
// Formula: Lum(r, g, b) = 0.30*r + 0.59*g + 0.11*b
//
// Parameters are normalized float32 values in [0, 1].
func Lum(r, g, b float32) float32 {
	return 0.30*r + 0.59*g + 0.11*b
}

// ClipColor pulls an out of gamut color back into [0,1] along the line
// towards its own luminance, so Lum of the result is unchanged.
func ClipColor(r, g, b float32) (float32, float32, float32) {
	l := Lum(r, g, b)
	lo, hi := min(r, g, b), max(r, g, b)

	scale := func(k float32) (float32, float32, float32) {
		return l + (r-l)*k, l + (g-l)*k, l + (b-l)*k
	}
	if lo < 0 {
		r, g, b = scale(l / (l - lo))
	}
	if hi > 1 {
		r, g, b = scale((1 - l) / (hi - l))
	}
	return r, g, b
}

// SetLum shifts a color to luminance l, then clips it back into [0,1].
func SetLum(r, g, b, l float32) (float32, float32, float32) {
	d := l - Lum(r, g, b)
	return ClipColor(r+d, g+d, b+d)
}

// hslBlendLuminosity computes B(Cb, Cs) = SetLum(Cb, Lum(Cs)).
func hslBlendLuminosity(sr, sg, sb, dr, dg, db float32) (float32, float32, float32) {
	return SetLum(dr, dg, db, Lum(sr, sg, sb))
}

// blendLuminosity is the byte-based luminosity operator.
func blendLuminosity(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	return nonSeparableBlend(sr, sg, sb, sa, dr, dg, db, da, hslBlendLuminosity)
}

// nonSeparableBlend applies a non-separable blend function to premultiplied
// bytes with the general compositing formula:
//
//	Result = (1 - Sa) * D + (1 - Da) * S + Sa * Da * B(Cs, Cb)
func nonSeparableBlend(
	sr, sg, sb, sa, dr, dg, db, da byte,
	blendFunc func(sr, sg, sb, dr, dg, db float32) (float32, float32, float32),
) (byte, byte, byte, byte) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	sur := float32(sr) / float32(sa)
	sug := float32(sg) / float32(sa)
	sub := float32(sb) / float32(sa)
	dur := float32(dr) / float32(da)
	dug := float32(dg) / float32(da)
	dub := float32(db) / float32(da)

	blendR, blendG, blendB := blendFunc(sur, sug, sub, dur, dug, dub)

	invSa := 255 - sa
	invDa := 255 - da
	saDa := float32(sa) / 255.0 * float32(da) / 255.0

	finalA := addDiv255(sa, mulDiv255(da, invSa))
	finalR := addDiv255(mulDiv255(dr, invSa), mulDiv255(sr, invDa))
	finalG := addDiv255(mulDiv255(dg, invSa), mulDiv255(sg, invDa))
	finalB := addDiv255(mulDiv255(db, invSa), mulDiv255(sb, invDa))

	finalR = addDiv255(finalR, unit8(blendR*saDa))
	finalG = addDiv255(finalG, unit8(blendG*saDa))
	finalB = addDiv255(finalB, unit8(blendB*saDa))

	return finalR, finalG, finalB, finalA
}

// unit8 converts a [0, 1] value to a rounded byte.
func unit8(v float32) byte {
	x := math.Round(float64(v * 255.0))
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return byte(x)
}
