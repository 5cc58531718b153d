package blend

// The span functions operate on rows of ARGB8888 pixels as stored in
// little-endian shared memory: bytes B, G, R, A per pixel.

// FillSpan composites the constant premultiplied color (r, g, b, a) into the
// first n pixels of dst using mode.
func FillSpan(dst []byte, n int, mode BlendMode, r, g, b, a byte) {
	if n <= 0 {
		return
	}
	dst = dst[:n*4]

	switch mode {
	case BlendSource:
		for i := 0; i < len(dst); i += 4 {
			dst[i], dst[i+1], dst[i+2], dst[i+3] = b, g, r, a
		}
		return
	case BlendClear:
		clear(dst)
		return
	}

	f := GetBlendFunc(mode)
	for i := 0; i < len(dst); i += 4 {
		or, og, ob, oa := f(r, g, b, a, dst[i+2], dst[i+1], dst[i], dst[i+3])
		dst[i], dst[i+1], dst[i+2], dst[i+3] = ob, og, or, oa
	}
}

// CopySpan composites n pixels of src into dst using mode. Both slices hold
// ARGB8888 pixels.
func CopySpan(dst, src []byte, n int, mode BlendMode) {
	if n <= 0 {
		return
	}
	if mode == BlendSource {
		copy(dst[:n*4], src[:n*4])
		return
	}

	f := GetBlendFunc(mode)
	for i := 0; i < n*4; i += 4 {
		or, og, ob, oa := f(src[i+2], src[i+1], src[i], src[i+3], dst[i+2], dst[i+1], dst[i], dst[i+3])
		dst[i], dst[i+1], dst[i+2], dst[i+3] = ob, og, or, oa
	}
}
