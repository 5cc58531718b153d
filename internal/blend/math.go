package blend

// Byte arithmetic for premultiplied channels. mulDiv255 runs for every pixel
// of every span the compositor touches, so it avoids the integer divide.
// See https://arxiv.org/abs/2202.02864 for the shift trick.

// div255 approximates x/255 for x in [0, 255*255]. The result is never low
// and at most one high.
func div255(x uint16) uint16 {
	return (x + 255) >> 8
}

// mulDiv255 returns a*b/255 within one step.
func mulDiv255(a, b byte) byte {
	return byte(div255(uint16(a) * uint16(b)))
}

// addDiv255 adds two channel values, saturating at 255.
func addDiv255(a, b byte) byte {
	if s := uint16(a) + uint16(b); s < 255 {
		return byte(s)
	}
	return 255
}
